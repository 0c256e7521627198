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

type binop uint8

const (
    opAdd binop = iota
    opSub
    opMul
    opDiv
    opRem
    opAnd
    opOr
    opXor
    opShl
    opShr
    opUShr
)

var binops = map[mir.Opcode]binop {
    mir.OP_add_int          : opAdd,
    mir.OP_sub_int          : opSub,
    mir.OP_mul_int          : opMul,
    mir.OP_div_int          : opDiv,
    mir.OP_rem_int          : opRem,
    mir.OP_and_int          : opAnd,
    mir.OP_or_int           : opOr,
    mir.OP_xor_int          : opXor,
    mir.OP_shl_int          : opShl,
    mir.OP_shr_int          : opShr,
    mir.OP_ushr_int         : opUShr,
    mir.OP_add_long         : opAdd,
    mir.OP_sub_long         : opSub,
    mir.OP_mul_long         : opMul,
    mir.OP_div_long         : opDiv,
    mir.OP_rem_long         : opRem,
    mir.OP_and_long         : opAnd,
    mir.OP_or_long          : opOr,
    mir.OP_xor_long         : opXor,
    mir.OP_shl_long         : opShl,
    mir.OP_shr_long         : opShr,
    mir.OP_ushr_long        : opUShr,
    mir.OP_add_float        : opAdd,
    mir.OP_sub_float        : opSub,
    mir.OP_mul_float        : opMul,
    mir.OP_div_float        : opDiv,
    mir.OP_rem_float        : opRem,
    mir.OP_add_double       : opAdd,
    mir.OP_sub_double       : opSub,
    mir.OP_mul_double       : opMul,
    mir.OP_div_double       : opDiv,
    mir.OP_rem_double       : opRem,
    mir.OP_add_int_2addr    : opAdd,
    mir.OP_sub_int_2addr    : opSub,
    mir.OP_mul_int_2addr    : opMul,
    mir.OP_div_int_2addr    : opDiv,
    mir.OP_rem_int_2addr    : opRem,
    mir.OP_and_int_2addr    : opAnd,
    mir.OP_or_int_2addr     : opOr,
    mir.OP_xor_int_2addr    : opXor,
    mir.OP_shl_int_2addr    : opShl,
    mir.OP_shr_int_2addr    : opShr,
    mir.OP_ushr_int_2addr   : opUShr,
    mir.OP_add_long_2addr   : opAdd,
    mir.OP_sub_long_2addr   : opSub,
    mir.OP_mul_long_2addr   : opMul,
    mir.OP_div_long_2addr   : opDiv,
    mir.OP_rem_long_2addr   : opRem,
    mir.OP_and_long_2addr   : opAnd,
    mir.OP_or_long_2addr    : opOr,
    mir.OP_xor_long_2addr   : opXor,
    mir.OP_shl_long_2addr   : opShl,
    mir.OP_shr_long_2addr   : opShr,
    mir.OP_ushr_long_2addr  : opUShr,
    mir.OP_add_float_2addr  : opAdd,
    mir.OP_sub_float_2addr  : opSub,
    mir.OP_mul_float_2addr  : opMul,
    mir.OP_div_float_2addr  : opDiv,
    mir.OP_rem_float_2addr  : opRem,
    mir.OP_add_double_2addr : opAdd,
    mir.OP_sub_double_2addr : opSub,
    mir.OP_mul_double_2addr : opMul,
    mir.OP_div_double_2addr : opDiv,
    mir.OP_rem_double_2addr : opRem,
}

// rsub is only reachable through the literal forms.
const opRSub binop = opUShr + 1

var litops = map[mir.Opcode]binop {
    mir.OP_add_int_lit16 : opAdd,
    mir.OP_rsub_int      : opRSub,
    mir.OP_mul_int_lit16 : opMul,
    mir.OP_div_int_lit16 : opDiv,
    mir.OP_rem_int_lit16 : opRem,
    mir.OP_and_int_lit16 : opAnd,
    mir.OP_or_int_lit16  : opOr,
    mir.OP_xor_int_lit16 : opXor,
    mir.OP_add_int_lit8  : opAdd,
    mir.OP_rsub_int_lit8 : opRSub,
    mir.OP_mul_int_lit8  : opMul,
    mir.OP_div_int_lit8  : opDiv,
    mir.OP_rem_int_lit8  : opRem,
    mir.OP_and_int_lit8  : opAnd,
    mir.OP_or_int_lit8   : opOr,
    mir.OP_xor_int_lit8  : opXor,
    mir.OP_shl_int_lit8  : opShl,
    mir.OP_shr_int_lit8  : opShr,
    mir.OP_ushr_int_lit8 : opUShr,
}

func (self *Context) emitIntOp(op binop, x ir.Value, y ir.Value) ir.Value {
    wide := x.Type() == ir.I64

    /* shift amounts are always i32 in the input */
    if wide && (op == opShl || op == opShr || op == opUShr) {
        y = self.temp(self.ib.CreateZExt(y, ir.I64))
    }

    /* division goes through the runtime for the exception checks */
    switch op {
        case opAdd  : return self.ib.CreateAdd(x, y)
        case opSub  : return self.ib.CreateSub(x, y)
        case opMul  : return self.ib.CreateMul(x, y)
        case opAnd  : return self.ib.CreateAnd(x, y)
        case opOr   : return self.ib.CreateOr(x, y)
        case opXor  : return self.ib.CreateXor(x, y)
        case opShl  : return self.ib.CreateShl(x, y)
        case opShr  : return self.ib.CreateAShr(x, y)
        case opUShr : return self.ib.CreateLShr(x, y)
        case opRSub : return self.ib.CreateSub(y, x)
    }

    /* div and rem */
    switch {
        case op == opDiv && wide : return self.ib.CreateIntrinsic(intrinsic.DivLong, x, y)
        case op == opDiv         : return self.ib.CreateIntrinsic(intrinsic.DivInt, x, y)
        case wide                : return self.ib.CreateIntrinsic(intrinsic.RemLong, x, y)
        default                  : return self.ib.CreateIntrinsic(intrinsic.RemInt, x, y)
    }
}

func (self *Context) emitFPOp(op binop, x ir.Value, y ir.Value) ir.Value {
    switch op {
        case opAdd : return self.ib.CreateFAdd(x, y)
        case opSub : return self.ib.CreateFSub(x, y)
        case opMul : return self.ib.CreateFMul(x, y)
        case opDiv : return self.ib.CreateFDiv(x, y)
        case opRem : return self.ib.CreateFRem(x, y)
        default    : panic("irgen: invalid floating-point operation")
    }
}

func translate_OP_binop(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    x := self.value(ops.sreg[0])
    y := self.value(ops.sreg[1])

    /* floating-point ops are native */
    if ops.dest.FP {
        self.define(ops.dreg, self.emitFPOp(binops[p.Insn.Opcode], x, y))
    } else {
        self.define(ops.dreg, self.emitIntOp(binops[p.Insn.Opcode], x, y))
    }
}

func translate_OP_litop(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    op := litops[p.Insn.Opcode]
    imm := int32(p.Insn.VC)

    /* only the low 5 bits of a shift count */
    if op == opShl || op == opShr || op == opUShr {
        imm &= 0x1f
    }

    /* the literal is the second operand */
    ops := self.decode(p)
    self.define(ops.dreg, self.emitIntOp(op, self.value(ops.sreg[0]), self.ib.Int32(imm)))
}

type unop func(*Context, ir.Value) ir.Value

var unops = map[mir.Opcode]unop {
    mir.OP_neg_int         : emitNeg,
    mir.OP_not_int         : emitNot,
    mir.OP_neg_long        : emitNeg,
    mir.OP_not_long        : emitNot,
    mir.OP_int_to_long     : castWith((*ir.Builder).CreateSExt, ir.I64),
    mir.OP_int_to_float    : castWith((*ir.Builder).CreateSIToFP, ir.Float),
    mir.OP_int_to_double   : castWith((*ir.Builder).CreateSIToFP, ir.Double),
    mir.OP_long_to_int     : castWith((*ir.Builder).CreateTrunc, ir.I32),
    mir.OP_long_to_float   : castWith((*ir.Builder).CreateSIToFP, ir.Float),
    mir.OP_long_to_double  : castWith((*ir.Builder).CreateSIToFP, ir.Double),
    mir.OP_float_to_int    : castWith((*ir.Builder).CreateFPToSI, ir.I32),
    mir.OP_float_to_long   : castWith((*ir.Builder).CreateFPToSI, ir.I64),
    mir.OP_float_to_double : castWith((*ir.Builder).CreateFPExt, ir.Double),
    mir.OP_double_to_int   : castWith((*ir.Builder).CreateFPToSI, ir.I32),
    mir.OP_double_to_long  : castWith((*ir.Builder).CreateFPToSI, ir.I64),
    mir.OP_double_to_float : castWith((*ir.Builder).CreateFPTrunc, ir.Float),
    mir.OP_int_to_byte     : narrowWith(intrinsic.IntToByte),
    mir.OP_int_to_char     : narrowWith(intrinsic.IntToChar),
    mir.OP_int_to_short    : narrowWith(intrinsic.IntToShort),
}

func zeroOf(self *Context, ty ir.Type) ir.Value {
    if ty == ir.I64 {
        return self.ib.Int64(0)
    } else {
        return self.ib.Int32(0)
    }
}

func emitNeg(self *Context, v ir.Value) ir.Value {
    return self.ib.CreateSub(zeroOf(self, v.Type()), v)
}

func emitNot(self *Context, v ir.Value) ir.Value {
    if v.Type() == ir.I64 {
        return self.ib.CreateXor(v, self.ib.Int64(-1))
    } else {
        return self.ib.CreateXor(v, self.ib.Int32(-1))
    }
}

func castWith(fn func(*ir.Builder, ir.Value, ir.Type) *ir.Instr, ty ir.Type) unop {
    return func(self *Context, v ir.Value) ir.Value {
        return fn(self.ib, v, ty)
    }
}

func narrowWith(id intrinsic.Id) unop {
    return func(self *Context, v ir.Value) ir.Value {
        return self.ib.CreateIntrinsic(id, v)
    }
}

func translate_OP_unop(self *Context, _ *mir.BasicBlock, p *mir.MIR) {
    ops := self.decode(p)
    self.define(ops.dreg, unops[p.Insn.Opcode](self, self.value(ops.sreg[0])))
}
