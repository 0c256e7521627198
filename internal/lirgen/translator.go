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

package lirgen

import (
    `github.com/cloudwego/kitex/pkg/klog`

    `github.com/cloudwego/mirbridge/internal/codegen`
    `github.com/cloudwego/mirbridge/internal/intrinsic`
    `github.com/cloudwego/mirbridge/internal/ir`
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/utils`
)

// convertInstr generates the code of the i-th instruction of bb. It
// returns the number of following instructions consumed with it.
func (self *Context) convertInstr(bb *ir.BasicBlock, i int) int {
    ins := bb.Instrs[i]
    op := ins.Op

    /* arithmetic and conversions */
    switch {
        case op.IsBinary() : self.convertBinary(ins); return 0
        case op.IsCast()   : self.convertCast(ins); return 0
    }

    /* everything else */
    switch op {
        case ir.OP_icmp        : return self.convertICmp(bb, i)
        case ir.OP_call        : self.convertCall(ins)
        case ir.OP_br          : self.t.GenUnconditionalBranch(self.label(ins.Targets[0]))
        case ir.OP_ret         : self.convertRet(ins)
        case ir.OP_phi         : return 0
        case ir.OP_unreachable : self.convertUnreachable(bb, i)
        case ir.OP_fcmp        : panic(self.unsupported(ins, "floating point compare"))
        case ir.OP_switch      : panic(self.unsupported(ins, "switch"))
        case ir.OP_invoke      : panic(self.unsupported(ins, "invoke with unwind edge"))
        case ir.OP_condbr      : panic(self.unsupported(ins, "conditional branch without a compare"))
        default                : panic(utils.EInvariant("%s: %#06x: unexpected %s instruction", self.fn.Name, self.offset(ins), op))
    }
    return 0
}

func (self *Context) convertRet(ins *ir.Instr) {
    if len(ins.Operands) != 0 {
        self.t.GenReturn(self.loc(ins.Operand(0)))
    }
    self.t.GenExitSequence()
}

// convertUnreachable generates nothing, the throws before it never return.
func (self *Context) convertUnreachable(bb *ir.BasicBlock, i int) {
    if i > 0 {
        if id, ok := bb.Instrs[i - 1].Intrinsic(); ok && (id == intrinsic.Throw || id == intrinsic.ThrowVerificationError) {
            return
        }
    }
    klog.Warnf("%s: %#06x: unreachable without a throw", self.fn.Name, self.offset(bb.Instrs[i]))
}

func (self *Context) convertCall(ins *ir.Instr) {
    if id, ok := ins.Intrinsic(); !ok {
        panic(utils.EUnsupported(utils.UnsupportedIntrinsic, self.offset(ins), "call to %s", ins.Callee))
    } else {
        handlers[id](self, ins)
    }
}

/** Arithmetic **/

var intOps = map[ir.Opcode]codegen.OpKind {
    ir.OP_add  : codegen.OpAdd,
    ir.OP_sub  : codegen.OpSub,
    ir.OP_mul  : codegen.OpMul,
    ir.OP_sdiv : codegen.OpDiv,
    ir.OP_srem : codegen.OpRem,
    ir.OP_and  : codegen.OpAnd,
    ir.OP_or   : codegen.OpOr,
    ir.OP_xor  : codegen.OpXor,
    ir.OP_shl  : codegen.OpLsl,
    ir.OP_lshr : codegen.OpLsr,
    ir.OP_ashr : codegen.OpAsr,
}

var fpOps = map[ir.Opcode]codegen.OpKind {
    ir.OP_fadd : codegen.OpAdd,
    ir.OP_fsub : codegen.OpSub,
    ir.OP_fmul : codegen.OpMul,
    ir.OP_fdiv : codegen.OpDiv,
    ir.OP_frem : codegen.OpRem,
}

func (self *Context) convertBinary(ins *ir.Instr) {
    if op, ok := fpOps[ins.Op]; ok {
        self.convertFPOp(op, ins)
    } else if op, ok = intOps[ins.Op]; ok {
        self.convertIntOp(op, ins)
    } else {
        panic(self.unsupported(ins, "unsigned %s", ins.Op))
    }
}

func (self *Context) convertFPOp(op codegen.OpKind, ins *ir.Instr) {
    dest := self.loc(ins)
    src1 := self.loc(ins.Operand(0))
    src2 := self.loc(ins.Operand(1))

    /* by the width of the result */
    if ins.Type() == ir.Double {
        self.t.GenArithOpDouble(op, dest, src1, src2)
    } else {
        self.t.GenArithOpFloat(op, dest, src1, src2)
    }
}

func literal(v ir.Value) (int64, bool) {
    if c, ok := v.(*ir.ConstInt); ok {
        return c.Value, true
    } else {
        return 0, false
    }
}

func (self *Context) convertIntOp(op codegen.OpKind, ins *ir.Instr) {
    wide := ins.Type() == ir.I64
    dest := self.loc(ins)

    /* a literal on the left is either a negate or a reverse subtract */
    if lit, ok := literal(ins.Operand(0)); ok {
        src := self.loc(ins.Operand(1))
        switch {
            case op != codegen.OpSub : panic(self.unsupported(ins, "%s with a literal on the left", ins.Op))
            case lit == 0 && wide    : self.t.GenArithOpLong(codegen.OpNeg, dest, src, loc.BadLoc)
            case lit == 0            : self.t.GenArithOpInt(codegen.OpNeg, dest, src, loc.BadLoc)
            case wide                : panic(self.unsupported(ins, "long reverse subtract"))
            default                  : self.t.GenArithOpIntLit(codegen.OpRsub, dest, src, int32(lit))
        }
        return
    }

    /* long shifts take the count from before the extension */
    src1 := self.loc(ins.Operand(0))
    if wide && op.IsShift() {
        self.convertLongShift(op, ins, dest, src1)
        return
    }

    /* a literal on the right */
    if lit, ok := literal(ins.Operand(1)); ok {
        switch {
            case op == codegen.OpXor && lit == -1 && wide : self.t.GenArithOpLong(codegen.OpNot, dest, src1, loc.BadLoc)
            case op == codegen.OpXor && lit == -1         : self.t.GenArithOpInt(codegen.OpNot, dest, src1, loc.BadLoc)
            case wide                                     : panic(self.unsupported(ins, "long %s with a literal", op))
            case op == codegen.OpSub                      : self.t.GenArithOpIntLit(codegen.OpAdd, dest, src1, int32(-lit))
            default                                       : self.t.GenArithOpIntLit(op, dest, src1, int32(lit))
        }
        return
    }

    /* both operands in registers */
    if src2 := self.loc(ins.Operand(1)); wide {
        self.t.GenArithOpLong(op, dest, src1, src2)
    } else {
        self.t.GenArithOpInt(op, dest, src1, src2)
    }
}

func (self *Context) convertLongShift(op codegen.OpKind, ins *ir.Instr, dest loc.RegLocation, src loc.RegLocation) {
    count := ins.Operand(1)
    if _, ok := literal(count); ok {
        panic(self.unsupported(ins, "long %s by a literal", op))
    }

    /* walk back through the extension */
    if ext, ok := count.(*ir.Instr); ok && self.shifts[ext] {
        count = ext.Operand(0)
    }

    /* only the low 32 bits of any other count are used */
    self.t.GenShiftOpLong(op, dest, src, self.loc(count))
}

/** Conversions **/

func (self *Context) convertCast(ins *ir.Instr) {
    from := ins.Operand(0).Type()
    to := ins.Type()

    /* extensions used as shift counts generate nothing */
    if self.shifts[ins] {
        return
    }

    /* pick the conversion */
    switch ins.Op {
        case ir.OP_sext, ir.OP_zext: {
            if from != ir.I32 || to != ir.I64 {
                panic(self.unsupported(ins, "%s from %s to %s", ins.Op, from, to))
            }
            self.t.GenIntExt(self.loc(ins), self.loc(ins.Operand(0)), ins.Op == ir.OP_sext)
        }
        case ir.OP_bitcast: {
            panic(self.unsupported(ins, "bitcast from %s to %s", from, to))
        }
        default: {
            self.t.GenConversion(self.conversion(ins, from, to), self.loc(ins), self.loc(ins.Operand(0)))
        }
    }
}

type cast struct {
    op   ir.Opcode
    from ir.Type
    to   ir.Type
}

var conversions = map[cast]codegen.Conversion {
    { ir.OP_trunc   , ir.I64    , ir.I32    }: codegen.LongToInt,
    { ir.OP_sitofp  , ir.I32    , ir.Float  }: codegen.IntToFloat,
    { ir.OP_sitofp  , ir.I32    , ir.Double }: codegen.IntToDouble,
    { ir.OP_sitofp  , ir.I64    , ir.Float  }: codegen.LongToFloat,
    { ir.OP_sitofp  , ir.I64    , ir.Double }: codegen.LongToDouble,
    { ir.OP_fptosi  , ir.Float  , ir.I32    }: codegen.FloatToInt,
    { ir.OP_fptosi  , ir.Float  , ir.I64    }: codegen.FloatToLong,
    { ir.OP_fptosi  , ir.Double , ir.I32    }: codegen.DoubleToInt,
    { ir.OP_fptosi  , ir.Double , ir.I64    }: codegen.DoubleToLong,
    { ir.OP_fpext   , ir.Float  , ir.Double }: codegen.FloatToDouble,
    { ir.OP_fptrunc , ir.Double , ir.Float  }: codegen.DoubleToFloat,
}

func (self *Context) conversion(ins *ir.Instr, from ir.Type, to ir.Type) codegen.Conversion {
    if kind, ok := conversions[cast { ins.Op, from, to }]; !ok {
        panic(self.unsupported(ins, "%s from %s to %s", ins.Op, from, to))
    } else {
        return kind
    }
}

/** Compare and Branch **/

var conds = map[ir.Predicate]codegen.CondCode {
    ir.EQ  : codegen.CondEq,
    ir.NE  : codegen.CondNe,
    ir.SLT : codegen.CondLt,
    ir.SGE : codegen.CondGe,
    ir.SGT : codegen.CondGt,
    ir.SLE : codegen.CondLe,
}

// convertICmp fuses a compare with the conditional branch right after it.
// Compares used any other way are not supported.
func (self *Context) convertICmp(bb *ir.BasicBlock, i int) int {
    ins := bb.Instrs[i]
    if i + 1 >= len(bb.Instrs) || !isBranchOn(bb.Instrs[i + 1], ins) {
        panic(self.unsupported(ins, "compare not feeding a conditional branch"))
    }

    /* the condition */
    br := bb.Instrs[i + 1]
    cond, ok := conds[ins.Pred]
    if !ok {
        panic(self.unsupported(ins, "unsigned compare %s", ins.Pred))
    }

    /* a literal is only expected on the right */
    if _, ok = literal(ins.Operand(0)); ok {
        panic(self.unsupported(ins, "compare with a literal on the left"))
    }

    /* compare and branch to the taken block */
    src1 := self.loc(ins.Operand(0))
    taken := self.label(br.Targets[0])

    /* literals and null are immediates */
    switch y := ins.Operand(1).(type) {
        case *ir.ConstInt : self.t.GenCompareImmBranch(cond, src1, y.Value, taken)
        case ir.ConstNull : self.t.GenCompareImmBranch(cond, src1, 0, taken)
        default           : self.t.GenCompareBranch(cond, src1, self.loc(y), taken)
    }

    /* then fall through */
    self.t.GenUnconditionalBranch(self.label(br.Targets[1]))
    return 1
}

func isBranchOn(br *ir.Instr, cond *ir.Instr) bool {
    return br.Op == ir.OP_condbr && len(br.Operands) == 1 && br.Operand(0) == ir.Value(cond)
}
