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
    `github.com/cloudwego/mirbridge/internal/mir`
)

// accessors lists the intrinsics of one accessor family, in the order of
// the opcodes: plain, wide, object, boolean, byte, char, short. The second
// column is used for floating-point values.
type accessors [7][2]intrinsic.Id

func (self *accessors) pick(op mir.Opcode, base mir.Opcode, fp bool) intrinsic.Id {
    if fp {
        return self[op - base][1]
    } else {
        return self[op - base][0]
    }
}

var sgets = accessors {
    { intrinsic.HLSget        , intrinsic.HLSgetFloat   },
    { intrinsic.HLSgetWide    , intrinsic.HLSgetDouble  },
    { intrinsic.HLSgetObject  , intrinsic.HLSgetObject  },
    { intrinsic.HLSgetBoolean , intrinsic.HLSgetBoolean },
    { intrinsic.HLSgetByte    , intrinsic.HLSgetByte    },
    { intrinsic.HLSgetChar    , intrinsic.HLSgetChar    },
    { intrinsic.HLSgetShort   , intrinsic.HLSgetShort   },
}

var sputs = accessors {
    { intrinsic.HLSput        , intrinsic.HLSputFloat   },
    { intrinsic.HLSputWide    , intrinsic.HLSputDouble  },
    { intrinsic.HLSputObject  , intrinsic.HLSputObject  },
    { intrinsic.HLSputBoolean , intrinsic.HLSputBoolean },
    { intrinsic.HLSputByte    , intrinsic.HLSputByte    },
    { intrinsic.HLSputChar    , intrinsic.HLSputChar    },
    { intrinsic.HLSputShort   , intrinsic.HLSputShort   },
}

var igets = accessors {
    { intrinsic.HLIGet        , intrinsic.HLIGetFloat   },
    { intrinsic.HLIGetWide    , intrinsic.HLIGetDouble  },
    { intrinsic.HLIGetObject  , intrinsic.HLIGetObject  },
    { intrinsic.HLIGetBoolean , intrinsic.HLIGetBoolean },
    { intrinsic.HLIGetByte    , intrinsic.HLIGetByte    },
    { intrinsic.HLIGetChar    , intrinsic.HLIGetChar    },
    { intrinsic.HLIGetShort   , intrinsic.HLIGetShort   },
}

var iputs = accessors {
    { intrinsic.HLIPut        , intrinsic.HLIPutFloat   },
    { intrinsic.HLIPutWide    , intrinsic.HLIPutDouble  },
    { intrinsic.HLIPutObject  , intrinsic.HLIPutObject  },
    { intrinsic.HLIPutBoolean , intrinsic.HLIPutBoolean },
    { intrinsic.HLIPutByte    , intrinsic.HLIPutByte    },
    { intrinsic.HLIPutChar    , intrinsic.HLIPutChar    },
    { intrinsic.HLIPutShort   , intrinsic.HLIPutShort   },
}

var agets = accessors {
    { intrinsic.HLArrayGet        , intrinsic.HLArrayGetFloat   },
    { intrinsic.HLArrayGetWide    , intrinsic.HLArrayGetDouble  },
    { intrinsic.HLArrayGetObject  , intrinsic.HLArrayGetObject  },
    { intrinsic.HLArrayGetBoolean , intrinsic.HLArrayGetBoolean },
    { intrinsic.HLArrayGetByte    , intrinsic.HLArrayGetByte    },
    { intrinsic.HLArrayGetChar    , intrinsic.HLArrayGetChar    },
    { intrinsic.HLArrayGetShort   , intrinsic.HLArrayGetShort   },
}

var aputs = accessors {
    { intrinsic.HLArrayPut        , intrinsic.HLArrayPutFloat   },
    { intrinsic.HLArrayPutWide    , intrinsic.HLArrayPutDouble  },
    { intrinsic.HLArrayPutObject  , intrinsic.HLArrayPutObject  },
    { intrinsic.HLArrayPutBoolean , intrinsic.HLArrayPutBoolean },
    { intrinsic.HLArrayPutByte    , intrinsic.HLArrayPutByte    },
    { intrinsic.HLArrayPutChar    , intrinsic.HLArrayPutChar    },
    { intrinsic.HLArrayPutShort   , intrinsic.HLArrayPutShort   },
}

func (self *Context) imm(v uint32) *ir.ConstInt {
    return self.ib.Int32(int32(v))
}

/** Fields **/

func translate_OP_sget(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    id := sgets.pick(p.Insn.Opcode, mir.OP_sget, ops.dest.FP)
    self.define(ops.dreg, self.ib.CreateIntrinsic(id, self.imm(p.Insn.VB)))
}

func translate_OP_sput(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    id := sputs.pick(p.Insn.Opcode, mir.OP_sput, ops.src[0].FP)
    self.ib.CreateIntrinsic(id, self.imm(p.Insn.VB), self.value(ops.sreg[0]))
}

func translate_OP_iget(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    obj := self.value(ops.sreg[0])
    id := igets.pick(p.Insn.Opcode, mir.OP_iget, ops.dest.FP)
    self.define(ops.dreg, self.ib.CreateIntrinsic(id, self.imm(uint32(p.OptFlags)), obj, self.imm(p.Insn.VC)))
}

func translate_OP_iput(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    val := self.value(ops.sreg[0])
    obj := self.value(ops.sreg[1])
    id := iputs.pick(p.Insn.Opcode, mir.OP_iput, ops.src[0].FP)
    self.ib.CreateIntrinsic(id, self.imm(uint32(p.OptFlags)), val, obj, self.imm(p.Insn.VC))
}

/** Arrays **/

func translate_OP_aget(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    arr := self.value(ops.sreg[0])
    idx := self.value(ops.sreg[1])
    id := agets.pick(p.Insn.Opcode, mir.OP_aget, ops.dest.FP)
    self.define(ops.dreg, self.ib.CreateIntrinsic(id, self.imm(uint32(p.OptFlags)), arr, idx))
}

func translate_OP_aput(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    val := self.value(ops.sreg[0])
    arr := self.value(ops.sreg[1])
    idx := self.value(ops.sreg[2])
    id := aputs.pick(p.Insn.Opcode, mir.OP_aput, ops.src[0].FP)
    self.ib.CreateIntrinsic(id, self.imm(uint32(p.OptFlags)), val, arr, idx)
}

func translate_OP_array_length(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    self.define(ops.dreg, self.ib.CreateIntrinsic(intrinsic.ArrayLength, self.imm(uint32(p.OptFlags)), self.value(ops.sreg[0])))
}

func translate_OP_new_array(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    self.define(ops.dreg, self.ib.CreateIntrinsic(intrinsic.NewArray, self.imm(p.Insn.VC), self.value(ops.sreg[0])))
}

func translate_OP_fill_array_data(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    self.ib.CreateIntrinsic(intrinsic.FillArrayData, self.imm(p.Insn.VB), self.value(ops.sreg[0]))
}

/** Objects **/

func translate_OP_const_string(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    self.define(self.decode(p).dreg, self.ib.CreateIntrinsic(intrinsic.ConstString, self.imm(p.Insn.VB)))
}

func translate_OP_const_class(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    self.define(self.decode(p).dreg, self.ib.CreateIntrinsic(intrinsic.ConstClass, self.imm(p.Insn.VB)))
}

func translate_OP_new_instance(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    self.define(self.decode(p).dreg, self.ib.CreateIntrinsic(intrinsic.NewInstance, self.imm(p.Insn.VB)))
}

func translate_OP_check_cast(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    self.ib.CreateIntrinsic(intrinsic.CheckCast, self.imm(p.Insn.VB), self.value(ops.sreg[0]))
}

func translate_OP_instance_of(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    self.define(ops.dreg, self.ib.CreateIntrinsic(intrinsic.InstanceOf, self.imm(p.Insn.VC), self.value(ops.sreg[0])))
}

func translate_OP_monitor(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    id := intrinsic.MonitorEnter
    obj := self.value(self.decode(p).sreg[0])

    /* enter or exit */
    if p.Insn.Opcode == mir.OP_monitor_exit {
        id = intrinsic.MonitorExit
    }

    /* the null check may have been eliminated */
    self.ib.CreateIntrinsic(id, self.imm(uint32(p.OptFlags)), obj)
}

func translate_OP_throw(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    self.ib.CreateIntrinsic(intrinsic.Throw, self.value(self.decode(p).sreg[0]))
    self.ib.CreateUnreachable()
}

func translate_OP_throw_verification_error(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    self.ib.CreateIntrinsic(intrinsic.ThrowVerificationError, self.imm(p.Insn.VA), self.imm(p.Insn.VB))
    self.ib.CreateUnreachable()
}
