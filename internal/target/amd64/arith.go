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

package amd64

import (
    `github.com/cloudwego/mirbridge/internal/codegen`
    `github.com/cloudwego/mirbridge/internal/lir`
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/utils`
)

var int32Ops = map[codegen.OpKind]lir.Opcode {
    codegen.OpAdd : Add32RR,
    codegen.OpSub : Sub32RR,
    codegen.OpMul : Imul32RR,
    codegen.OpAnd : And32RR,
    codegen.OpOr  : Or32RR,
    codegen.OpXor : Xor32RR,
    codegen.OpLsl : Shl32RC,
    codegen.OpLsr : Shr32RC,
    codegen.OpAsr : Sar32RC,
}

var int32ImmOps = map[codegen.OpKind]lir.Opcode {
    codegen.OpAdd : Add32RI,
    codegen.OpSub : Sub32RI,
    codegen.OpAnd : And32RI,
    codegen.OpOr  : Or32RI,
    codegen.OpXor : Xor32RI,
    codegen.OpLsl : Shl32RI,
    codegen.OpLsr : Shr32RI,
    codegen.OpAsr : Sar32RI,
}

var int64Ops = map[codegen.OpKind]lir.Opcode {
    codegen.OpAdd : Add64RR,
    codegen.OpSub : Sub64RR,
    codegen.OpMul : Imul64RR,
    codegen.OpAnd : And64RR,
    codegen.OpOr  : Or64RR,
    codegen.OpXor : Xor64RR,
    codegen.OpLsl : Shl64RC,
    codegen.OpLsr : Shr64RC,
    codegen.OpAsr : Sar64RC,
}

var float32Ops = map[codegen.OpKind]lir.Opcode {
    codegen.OpAdd : AddssRR,
    codegen.OpSub : SubssRR,
    codegen.OpMul : MulssRR,
    codegen.OpDiv : DivssRR,
}

var float64Ops = map[codegen.OpKind]lir.Opcode {
    codegen.OpAdd : AddsdRR,
    codegen.OpSub : SubsdRR,
    codegen.OpMul : MulsdRR,
    codegen.OpDiv : DivsdRR,
}

var softFloatOps = map[codegen.OpKind][2]Entrypoint {
    codegen.OpAdd : { pFadd, pDadd },
    codegen.OpSub : { pFsub, pDsub },
    codegen.OpMul : { pFmul, pDmul },
    codegen.OpDiv : { pFdiv, pDdiv },
    codegen.OpRem : { pFmodf, pFmod },
}

func unsupportedOp(class string, op codegen.OpKind) utils.UnsupportedError {
    return utils.EUnsupported(utils.UnsupportedInstruction, -1, "%s %s", class, op)
}

// genDivRem calls the division helpers, which handle the overflow cases,
// after the divide by zero check.
func (self *Target) genDivRem(ep Entrypoint, dest loc.RegLocation, src1 loc.RegLocation, src2 loc.RegLocation) {
    self.loadValueTo(src2, RSI)
    self.genDivZeroCheck(RSI, src2.Wide)
    self.callHelper(ep, locArg(src1), regArg(RSI))
    self.storeCore(dest, RAX)
}

func (self *Target) genUnary(op codegen.OpKind, dest loc.RegLocation, src loc.RegLocation) {
    rs := self.loadValue(src)
    rd := self.AllocTemp(false)

    /* 0 - x and x ^ -1 */
    switch op {
        case codegen.OpNeg: {
            self.emit(Mov32RR, rd, rs)
            self.emit(Neg32R, rd)
        }
        case codegen.OpNot: {
            self.emit(Mov32RR, rd, rs)
            self.emit(Xor32RI, rd, -1)
        }
    }

    /* store the result */
    self.storeValue(dest, rd)
}

func (self *Target) GenArithOpInt(op codegen.OpKind, dest loc.RegLocation, src1 loc.RegLocation, src2 loc.RegLocation) {
    switch op {
        case codegen.OpDiv  : self.genDivRem(pIdiv, dest, src1, src2); return
        case codegen.OpRem  : self.genDivRem(pIrem, dest, src1, src2); return
        case codegen.OpNeg  : self.genUnary(op, dest, src1); return
        case codegen.OpNot  : self.genUnary(op, dest, src1); return
        case codegen.OpRsub : src1, src2, op = src2, src1, codegen.OpSub
    }

    /* look up the instruction */
    ins, ok := int32Ops[op]
    if !ok {
        panic(unsupportedOp("int", op))
    }

    /* shift counts go through CL */
    if op.IsShift() {
        r1 := self.loadValue(src1)
        rd := self.AllocTemp(false)
        self.emit(Mov32RR, rd, r1)
        self.loadValueTo(src2, rSHIFT)
        self.emit(ins, rd)
        self.storeValue(dest, rd)
        return
    }

    /* two-address form */
    r1 := self.loadValue(src1)
    r2 := self.loadValue(src2)
    rd := self.AllocTemp(false)
    self.emit(Mov32RR, rd, r1)
    self.emit(ins, rd, r2)
    self.storeValue(dest, rd)
}

func (self *Target) GenArithOpIntLit(op codegen.OpKind, dest loc.RegLocation, src loc.RegLocation, lit int32) {
    switch op {
        case codegen.OpDiv, codegen.OpRem: {
            self.genDivRemLit(op, dest, src, lit)
            return
        }
    }

    /* the source is copied first */
    rs := self.loadValue(src)
    rd := self.AllocTemp(false)

    /* reverse subtract, multiply and the two-address forms */
    switch ins, ok := int32ImmOps[op]; {
        case op == codegen.OpRsub: {
            self.emit(Mov32RR, rd, rs)
            self.emit(Neg32R, rd)
            self.emit(Add32RI, rd, int(lit))
        }
        case op == codegen.OpMul: {
            self.emit(Imul32RRI, rd, rs, int(lit))
        }
        case ok && op.IsShift(): {
            self.emit(Mov32RR, rd, rs)
            self.emit(ins, rd, int(lit & 0x1f))
        }
        case ok: {
            self.emit(Mov32RR, rd, rs)
            self.emit(ins, rd, int(lit))
        }
        default: {
            panic(unsupportedOp("int literal", op))
        }
    }

    /* store the result */
    self.storeValue(dest, rd)
}

func (self *Target) genDivRemLit(op codegen.OpKind, dest loc.RegLocation, src loc.RegLocation, lit int32) {
    ep := pIdiv
    if op == codegen.OpRem {
        ep = pIrem
    }

    /* division by a literal zero always throws */
    if lit == 0 {
        self.branch(Jmp, self.throwTarget(codegen.ThrowDivZero, 0, 0))
        return
    }

    /* call the helper with the literal */
    self.callHelper(ep, locArg(src), immArg(int(lit)))
    self.storeCore(dest, RAX)
}

func (self *Target) GenArithOpLong(op codegen.OpKind, dest loc.RegLocation, src1 loc.RegLocation, src2 loc.RegLocation) {
    switch op {
        case codegen.OpDiv  : self.genDivRem(pLdiv, dest, src1, src2); return
        case codegen.OpRem  : self.genDivRem(pLrem, dest, src1, src2); return
        case codegen.OpRsub : src1, src2, op = src2, src1, codegen.OpSub
    }

    /* 0 - x */
    if op == codegen.OpNeg {
        rs := self.loadValue(src1)
        rd := self.AllocTemp(false)
        self.emit(Xor64RR, rd, rd)
        self.emit(Sub64RR, rd, rs)
        self.storeValue(dest, rd)
        return
    }

    /* x ^ -1 */
    if op == codegen.OpNot {
        rs := self.loadValue(src1)
        rd := self.AllocTemp(false)
        self.emit(Mov64RI, rd, -1)
        self.emit(Xor64RR, rd, rs)
        self.storeValue(dest, rd)
        return
    }

    /* shifts have their own entry */
    if op.IsShift() {
        self.GenShiftOpLong(op, dest, src1, src2)
        return
    }

    /* look up the instruction */
    ins, ok := int64Ops[op]
    if !ok {
        panic(unsupportedOp("long", op))
    }

    /* two-address form */
    r1 := self.loadValue(src1)
    r2 := self.loadValue(src2)
    rd := self.AllocTemp(false)
    self.emit(Mov64RR, rd, r1)
    self.emit(ins, rd, r2)
    self.storeValue(dest, rd)
}

// GenShiftOpLong shifts a long by an int count.
func (self *Target) GenShiftOpLong(op codegen.OpKind, dest loc.RegLocation, src loc.RegLocation, shift loc.RegLocation) {
    ins, ok := int64Ops[op]
    if !ok || !op.IsShift() {
        panic(unsupportedOp("long shift", op))
    }

    /* the count is only 32 bits wide */
    count := shift
    count.Wide = false

    /* shift a copy of the source */
    rs := self.loadValue(src)
    rd := self.AllocTemp(false)
    self.emit(Mov64RR, rd, rs)
    self.loadValueTo(count, rSHIFT)
    self.emit(ins, rd)
    self.storeValue(dest, rd)
}

func (self *Target) genFPOp(ops map[codegen.OpKind]lir.Opcode, wide bool, op codegen.OpKind, dest loc.RegLocation, src1 loc.RegLocation, src2 loc.RegLocation) {
    idx := 0
    if wide {
        idx = 1
    }

    /* remainders always go through the runtime, so does everything without SSE */
    if !self.sse || op == codegen.OpRem {
        if eps, ok := softFloatOps[op]; ok {
            self.callFPHelper(eps[idx], dest, src1, src2)
            return
        } else {
            panic(unsupportedOp("floating point", op))
        }
    }

    /* look up the instruction */
    ins, ok := ops[op]
    if !ok {
        panic(unsupportedOp("floating point", op))
    }

    /* two-address form */
    r1 := self.loadValue(src1)
    r2 := self.loadValue(src2)
    rd := self.AllocTemp(true)
    self.emit(MovapsRR, rd, r1)
    self.emit(ins, rd, r2)
    self.storeValue(dest, rd)
}

func (self *Target) GenArithOpFloat(op codegen.OpKind, dest loc.RegLocation, src1 loc.RegLocation, src2 loc.RegLocation) {
    self.genFPOp(float32Ops, false, op, dest, src1, src2)
}

func (self *Target) GenArithOpDouble(op codegen.OpKind, dest loc.RegLocation, src1 loc.RegLocation, src2 loc.RegLocation) {
    self.genFPOp(float64Ops, true, op, dest, src1, src2)
}

/** Conversions **/

// GenIntExt widens an int to a long.
func (self *Target) GenIntExt(dest loc.RegLocation, src loc.RegLocation, signed bool) {
    rs := self.loadValue(src)
    rd := self.AllocTemp(false)

    /* a 32-bit move clears the upper half */
    if signed {
        self.emit(Movsxd64RR, rd, rs)
    } else {
        self.emit(Mov32RR, rd, rs)
    }

    /* store the result */
    self.storeValue(dest, rd)
}

var narrowings = [...]lir.Opcode {
    codegen.NarrowToByte  : Movsx8RR,
    codegen.NarrowToChar  : Movzx16RR,
    codegen.NarrowToShort : Movsx16RR,
}

func (self *Target) GenIntNarrowing(kind codegen.Narrowing, dest loc.RegLocation, src loc.RegLocation) {
    if int(kind) >= len(narrowings) {
        panic("amd64: invalid narrowing: " + kind.String())
    }

    /* extend the low bits */
    rs := self.loadValue(src)
    rd := self.AllocTemp(false)
    self.emit(narrowings[kind], rd, rs)
    self.storeValue(dest, rd)
}

var conversions = [...]Entrypoint {
    codegen.IntToFloat    : pI2f,
    codegen.IntToDouble   : pI2d,
    codegen.LongToFloat   : pL2f,
    codegen.LongToDouble  : pL2d,
    codegen.FloatToInt    : pF2i,
    codegen.FloatToLong   : pF2l,
    codegen.DoubleToInt   : pD2i,
    codegen.DoubleToLong  : pD2l,
    codegen.FloatToDouble : pF2d,
    codegen.DoubleToFloat : pD2f,
}

// GenConversion converts between primitive types. Everything involving
// floating point is done by the runtime, which implements the rounding
// and saturation rules of the language.
func (self *Target) GenConversion(kind codegen.Conversion, dest loc.RegLocation, src loc.RegLocation) {
    if kind == codegen.LongToInt {
        low := src
        low.Wide = false
        rs := self.loadCore(low)
        self.storeCore(dest, rs)
        return
    }

    /* runtime helpers */
    if int(kind) >= len(conversions) {
        panic("amd64: invalid conversion: " + kind.String())
    } else {
        self.callFPHelper(conversions[kind], dest, src)
    }
}

/** Compare and Branch **/

var condCodes = [...]int {
    codegen.CondEq : ccE,
    codegen.CondNe : ccNE,
    codegen.CondLt : ccL,
    codegen.CondGe : ccGE,
    codegen.CondGt : ccG,
    codegen.CondLe : ccLE,
}

func condCode(cond codegen.CondCode) int {
    if int(cond) >= len(condCodes) {
        panic("amd64: invalid condition: " + cond.String())
    } else {
        return condCodes[cond]
    }
}

func (self *Target) GenCompareBranch(cond codegen.CondCode, src1 loc.RegLocation, src2 loc.RegLocation, taken *lir.LIR) {
    r1 := self.loadCore(src1)
    r2 := self.loadCore(src2)

    /* longs compare all 64 bits */
    if src1.Wide {
        self.emit(Cmp64RR, r1, r2)
    } else {
        self.emit(Cmp32RR, r1, r2)
    }

    /* branch to the taken block */
    self.jcc(condCode(cond), taken)
}

func (self *Target) GenCompareImmBranch(cond codegen.CondCode, src loc.RegLocation, imm int64, taken *lir.LIR) {
    rs := self.loadCore(src)
    cc := condCode(cond)

    /* compare with zero, with a 32-bit immediate, or with a register */
    switch {
        case imm == 0 && src.Wide : self.emit(Test64RR, rs, rs)
        case imm == 0             : self.emit(Test32RR, rs, rs)
        case !src.Wide            : self.emit(Cmp32RI, rs, int(int32(imm)))
        default: {
            rt := self.AllocTemp(false)
            self.emit(Mov64RI, rt, int(imm))
            self.emit(Cmp64RR, rs, rt)
        }
    }

    /* branch to the taken block */
    self.jcc(cc, taken)
}

func (self *Target) GenUnconditionalBranch(target *lir.LIR) {
    self.branch(Jmp, target)
}
