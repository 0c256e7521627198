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
    `github.com/cloudwego/mirbridge/internal/intrinsic`
    `github.com/cloudwego/mirbridge/internal/ir`
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
    `github.com/cloudwego/mirbridge/internal/regmap`
    `github.com/cloudwego/mirbridge/internal/utils`
)

type translator func(*Context, *mir.BasicBlock, *mir.MIR)

var translators [mir.NumOpcodes]translator

func init() {
    translators = [mir.NumOpcodes]translator {
        mir.OP_nop                      : translate_OP_nop,
        mir.OP_move                     : translate_OP_move,
        mir.OP_move_from16              : translate_OP_move,
        mir.OP_move_16                  : translate_OP_move,
        mir.OP_move_wide                : translate_OP_move,
        mir.OP_move_wide_from16         : translate_OP_move,
        mir.OP_move_wide_16             : translate_OP_move,
        mir.OP_move_object              : translate_OP_move,
        mir.OP_move_object_from16       : translate_OP_move,
        mir.OP_move_object_16           : translate_OP_move,
        mir.OP_move_result              : translate_OP_move_result,
        mir.OP_move_result_wide         : translate_OP_move_result,
        mir.OP_move_result_object       : translate_OP_move_result,
        mir.OP_move_exception           : translate_OP_move_exception,
        mir.OP_return_void              : translate_OP_return_void,
        mir.OP_return                   : translate_OP_return,
        mir.OP_return_wide              : translate_OP_return,
        mir.OP_return_object            : translate_OP_return,
        mir.OP_const_4                  : translate_OP_const,
        mir.OP_const_16                 : translate_OP_const,
        mir.OP_const                    : translate_OP_const,
        mir.OP_const_high16             : translate_OP_const,
        mir.OP_const_wide_16            : translate_OP_const,
        mir.OP_const_wide_32            : translate_OP_const,
        mir.OP_const_wide               : translate_OP_const,
        mir.OP_const_wide_high16        : translate_OP_const,
        mir.OP_const_string             : translate_OP_const_string,
        mir.OP_const_string_jumbo       : translate_OP_const_string,
        mir.OP_const_class              : translate_OP_const_class,
        mir.OP_monitor_enter            : translate_OP_monitor,
        mir.OP_monitor_exit             : translate_OP_monitor,
        mir.OP_check_cast               : translate_OP_check_cast,
        mir.OP_instance_of              : translate_OP_instance_of,
        mir.OP_array_length             : translate_OP_array_length,
        mir.OP_new_instance             : translate_OP_new_instance,
        mir.OP_new_array                : translate_OP_new_array,
        mir.OP_filled_new_array         : translate_OP_filled_new_array,
        mir.OP_filled_new_array_range   : translate_OP_filled_new_array,
        mir.OP_fill_array_data          : translate_OP_fill_array_data,
        mir.OP_throw                    : translate_OP_throw,
        mir.OP_goto                     : translate_OP_goto,
        mir.OP_goto_16                  : translate_OP_goto,
        mir.OP_goto_32                  : translate_OP_goto,
        mir.OP_if_eq                    : translate_OP_if,
        mir.OP_if_ne                    : translate_OP_if,
        mir.OP_if_lt                    : translate_OP_if,
        mir.OP_if_ge                    : translate_OP_if,
        mir.OP_if_gt                    : translate_OP_if,
        mir.OP_if_le                    : translate_OP_if,
        mir.OP_if_eqz                   : translate_OP_ifz,
        mir.OP_if_nez                   : translate_OP_ifz,
        mir.OP_if_ltz                   : translate_OP_ifz,
        mir.OP_if_gez                   : translate_OP_ifz,
        mir.OP_if_gtz                   : translate_OP_ifz,
        mir.OP_if_lez                   : translate_OP_ifz,
        mir.OP_throw_verification_error : translate_OP_throw_verification_error,
        mir.OP_phi                      : translate_OP_phi,
        mir.OP_mir_nop                  : translate_OP_nop,
        mir.OP_null_check               : translate_OP_nop,
        mir.OP_range_check              : translate_OP_nop,
        mir.OP_div_zero_check           : translate_OP_nop,
        mir.OP_check                    : translate_OP_nop,
    }

    /* field and array accessors */
    for op := mir.OP_aget; op <= mir.OP_aget_short; op++ { translators[op] = translate_OP_aget }
    for op := mir.OP_aput; op <= mir.OP_aput_short; op++ { translators[op] = translate_OP_aput }
    for op := mir.OP_iget; op <= mir.OP_iget_short; op++ { translators[op] = translate_OP_iget }
    for op := mir.OP_iput; op <= mir.OP_iput_short; op++ { translators[op] = translate_OP_iput }
    for op := mir.OP_sget; op <= mir.OP_sget_short; op++ { translators[op] = translate_OP_sget }
    for op := mir.OP_sput; op <= mir.OP_sput_short; op++ { translators[op] = translate_OP_sput }

    /* invokes */
    for op := range invokeTypes {
        translators[op] = translate_OP_invoke
    }

    /* arithmetic */
    for op := range binops    { translators[op] = translate_OP_binop }
    for op := range litops    { translators[op] = translate_OP_litop }
    for op := range unops     { translators[op] = translate_OP_unop }
}

func translate_OP_nop(_ *Context, _ *mir.BasicBlock, _ *mir.MIR) {}

/** Moves and Constants **/

func copyIntrinsic(rl loc.RegLocation) intrinsic.Id {
    switch {
        case rl.Wide && rl.FP : return intrinsic.CopyDouble
        case rl.Wide          : return intrinsic.CopyLong
        case rl.FP            : return intrinsic.CopyFloat
        case rl.Ref           : return intrinsic.CopyObj
        default               : return intrinsic.CopyInt
    }
}

func translate_OP_move(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    self.define(ops.dreg, self.ib.CreateIntrinsic(copyIntrinsic(ops.dest), self.value(ops.sreg[0])))
}

func translate_OP_move_result(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    panic(utils.EInvariant("%s: %#06x: %s without an invoke", self.m.Name, p.Offset, p.Insn.Opcode))
}

func translate_OP_move_exception(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    self.define(ops.dreg, self.ib.CreateIntrinsic(intrinsic.GetException))
}

func (self *Context) emitConst(ops *operands, imm int64) {
    var v *ir.Instr
    var rl = ops.dest

    /* pick the constant by the kind of the destination */
    switch {
        case rl.Wide && rl.FP : v = self.ib.CreateIntrinsic(intrinsic.ConstDouble, self.ib.Int64(imm))
        case rl.Wide          : v = self.ib.CreateIntrinsic(intrinsic.ConstLong, self.ib.Int64(imm))
        case rl.FP            : v = self.ib.CreateIntrinsic(intrinsic.ConstFloat, self.ib.Int32(int32(imm)))
        case rl.Ref           : v = self.ib.CreateIntrinsic(intrinsic.ConstObj, self.ib.Int32(int32(imm)))
        default               : v = self.ib.CreateIntrinsic(intrinsic.ConstInt, self.ib.Int32(int32(imm)))
    }

    /* bind to the destination */
    self.define(ops.dreg, v)
}

func translate_OP_const(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    var imm int64
    var vb = p.Insn.VB

    /* decode the literal */
    switch p.Insn.Opcode {
        case mir.OP_const_4           : imm = int64(int32(vb))
        case mir.OP_const_16          : imm = int64(int32(vb))
        case mir.OP_const             : imm = int64(int32(vb))
        case mir.OP_const_high16      : imm = int64(int32(vb << 16))
        case mir.OP_const_wide_16     : imm = int64(int32(vb))
        case mir.OP_const_wide_32     : imm = int64(int32(vb))
        case mir.OP_const_wide        : imm = int64(p.Insn.VBWide)
        case mir.OP_const_wide_high16 : imm = int64(vb) << 48
    }

    /* emit the constant */
    self.emitConst(self.decode(p), imm)
}

/** Returns and Branches **/

func (self *Context) emitReturn(bb *mir.BasicBlock, v ir.Value) {
    if !self.m.Leaf {
        self.emitSuspendCheck()
    }

    /* unlink the shadow frame */
    self.emitPopShadowFrame()
    self.returns[bb] = true

    /* emit the return */
    if v == nil {
        self.ib.CreateRetVoid()
    } else {
        self.ib.CreateRet(v)
    }
}

func translate_OP_return_void(self *Context, bb *mir.BasicBlock, _ *mir.MIR) {
    self.emitReturn(bb, nil)
}

func translate_OP_return(self *Context, bb *mir.BasicBlock, p *mir.MIR) {
    self.emitReturn(bb, self.value(self.decode(p).sreg[0]))
}

// isBackward reports whether the taken edge of bb may close a loop.
func isBackward(bb *mir.BasicBlock) bool {
    return bb.Taken.StartOffset <= bb.StartOffset
}

func (self *Context) taken(bb *mir.BasicBlock, p *mir.MIR) *mir.BasicBlock {
    if bb.Taken == nil {
        panic(utils.EInvariant("%s: %#06x: %s without a taken edge", self.m.Name, p.Offset, p.Insn.Opcode))
    } else {
        return bb.Taken
    }
}

func translate_OP_goto(self *Context, bb *mir.BasicBlock, p *mir.MIR) {
    if self.taken(bb, p); isBackward(bb) {
        self.emitSuspendCheck()
    }
    self.ib.CreateBr(self.block(bb.Taken))
}

var predicates = map[mir.Opcode]ir.Predicate {
    mir.OP_if_eq  : ir.EQ,
    mir.OP_if_ne  : ir.NE,
    mir.OP_if_lt  : ir.SLT,
    mir.OP_if_ge  : ir.SGE,
    mir.OP_if_gt  : ir.SGT,
    mir.OP_if_le  : ir.SLE,
    mir.OP_if_eqz : ir.EQ,
    mir.OP_if_nez : ir.NE,
    mir.OP_if_ltz : ir.SLT,
    mir.OP_if_gez : ir.SGE,
    mir.OP_if_gtz : ir.SGT,
    mir.OP_if_lez : ir.SLE,
}

func (self *Context) emitCompareBranch(bb *mir.BasicBlock, p *mir.MIR, x ir.Value, y ir.Value) {
    if self.taken(bb, p); isBackward(bb) {
        self.emitSuspendCheck()
    }

    /* the condition is a fresh temporary */
    cond := self.temp(self.ib.CreateICmp(predicates[p.Insn.Opcode], x, y))

    /* both edges are explicit */
    self.ib.CreateCondBr(cond, self.block(bb.Taken), self.block(bb.FallThrough))
    self.cleared[bb] = true
}

func translate_OP_if(self *Context, bb *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    self.emitCompareBranch(bb, p, self.value(ops.sreg[0]), self.value(ops.sreg[1]))
}

func translate_OP_ifz(self *Context, bb *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    val := self.value(ops.sreg[0])

    /* references are compared against null */
    if ops.src[0].Ref {
        self.emitCompareBranch(bb, p, val, self.ib.Null())
    } else {
        self.emitCompareBranch(bb, p, val, self.ib.Int32(0))
    }
}

/** Phi **/

func translate_OP_phi(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    rl := self.m.GetRawDest(p)
    phi := self.ib.CreatePhi(regmap.TypeOf(rl))

    /* every use pairs with a predecessor */
    if len(p.PhiIncoming) != p.NumUses() {
        panic(utils.EInvariant("%s: %#06x: phi has %d uses and %d predecessors", self.m.Name, p.Offset, p.NumUses(), len(p.PhiIncoming)))
    }

    /* incoming values from reachable predecessors, wide values take two uses */
    for i := 0; i < p.NumUses(); i++ {
        if id := p.PhiIncoming[i]; self.reachable[id] {
            phi.AddIncoming(self.value(p.SSA.Uses[i]), self.block(self.m.Block(id)))
        }
        if rl.Wide {
            i++
        }
    }

    /* phis never go to the shadow frame */
    self.regs.Define(p.SSA.Defs[0], phi)
}
