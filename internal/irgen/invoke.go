/*
 * Copyright 2022 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package irgen

import (
    `github.com/cloudwego/kitex/pkg/klog`
    `github.com/davecgh/go-spew/spew`

    `github.com/cloudwego/mirbridge/internal/intrinsic`
    `github.com/cloudwego/mirbridge/internal/ir`
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
    `github.com/cloudwego/mirbridge/internal/utils`
)

var invokeTypes = map[mir.Opcode]mir.InvokeType {
    mir.OP_invoke_virtual         : mir.InvokeVirtual,
    mir.OP_invoke_super           : mir.InvokeSuper,
    mir.OP_invoke_direct          : mir.InvokeDirect,
    mir.OP_invoke_static          : mir.InvokeStatic,
    mir.OP_invoke_interface       : mir.InvokeInterface,
    mir.OP_invoke_virtual_range   : mir.InvokeVirtual,
    mir.OP_invoke_super_range     : mir.InvokeSuper,
    mir.OP_invoke_direct_range    : mir.InvokeDirect,
    mir.OP_invoke_static_range    : mir.InvokeStatic,
    mir.OP_invoke_interface_range : mir.InvokeInterface,
}

func isRange(op mir.Opcode) bool {
    return op.Format() == mir.Fmt3rc
}

func invokeIntrinsic(rl loc.RegLocation) intrinsic.Id {
    switch {
        case !rl.Valid()      : return intrinsic.HLInvokeVoid
        case rl.Wide && rl.FP : return intrinsic.HLInvokeDouble
        case rl.Wide          : return intrinsic.HLInvokeLong
        case rl.Ref           : return intrinsic.HLInvokeObj
        case rl.FP            : return intrinsic.HLInvokeFloat
        default               : return intrinsic.HLInvokeInt
    }
}

// callArgs builds the argument list of a call site: the invoke type, the
// method or type index, the optimization flags, then one value per
// argument. The high halves of wide arguments are skipped.
func (self *Context) callArgs(p *mir.MIR, info *mir.CallInfo, kind mir.InvokeType) []ir.Value {
    ret := []ir.Value {
        self.ib.Int32(int32(kind)),
        self.ib.Int32(int32(info.Index)),
        self.ib.Int32(int32(info.OptFlags)),
    }

    /* argument values */
    for i := 0; i < len(info.Args); i++ {
        if rl := info.Args[i]; rl.HighWord {
            panic(utils.EInvariant("%s: %#06x: argument %d is the high half of a pair", self.m.Name, p.Offset, i))
        } else if ret = append(ret, self.value(p.SSA.Uses[i])); rl.Wide {
            i++
        }
    }
    return ret
}

func (self *Context) emitCall(p *mir.MIR, id intrinsic.Id, info *mir.CallInfo, args []ir.Value) {
    if self.o.Verbose {
        klog.Debugf("%#06x: %s with %d argument words:\n%s", p.Offset, id, len(info.Args), spew.Sdump(info.Args))
    }

    /* the result is bound to the register of the move-result */
    if ret := self.ib.CreateIntrinsic(id, args...); info.MoveResult != nil {
        self.define(info.MoveResult.SSA.Defs[0], ret)
    }
}

func translate_OP_invoke(self *Context, bb *mir.BasicBlock, p *mir.MIR) {
    op := p.Insn.Opcode
    kind := invokeTypes[op]
    info := self.m.NewCallInfo(bb, p, kind, isRange(op), self.consumed)
    self.emitCall(p, invokeIntrinsic(info.Result), info, self.callArgs(p, info, kind))
}

func translate_OP_filled_new_array(self *Context, bb *mir.BasicBlock, p *mir.MIR) {
    info := self.m.NewCallInfo(bb, p, mir.InvokeStatic, isRange(p.Insn.Opcode), self.consumed)
    self.emitCall(p, intrinsic.FilledNewArray, info, self.callArgs(p, info, mir.InvokeStatic))
}
