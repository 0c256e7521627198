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

package ir

import (
    `fmt`

    `github.com/cloudwego/mirbridge/internal/intrinsic`
)

// Builder appends instructions to a block. Every instruction gets the
// current dex offset, or none after ClearDexOffset.
type Builder struct {
    fn     *Function
    bb     *BasicBlock
    offset int
}

func NewBuilder(fn *Function) *Builder {
    return &Builder { fn: fn, offset: -1 }
}

func (self *Builder) Function() *Function           { return self.fn }
func (self *Builder) InsertBlock() *BasicBlock      { return self.bb }
func (self *Builder) SetInsertPoint(bb *BasicBlock) { self.bb = bb }
func (self *Builder) SetDexOffset(offset int)       { self.offset = offset }
func (self *Builder) ClearDexOffset()               { self.offset = -1 }
func (self *Builder) DexOffset() int                { return self.offset }

/** Constants **/

func (self *Builder) Int1(v bool) *ConstInt {
    if v {
        return &ConstInt { Value: 1, typ: I1 }
    } else {
        return &ConstInt { Value: 0, typ: I1 }
    }
}

func (self *Builder) Int32(v int32) *ConstInt { return &ConstInt { Value: int64(v), typ: I32 } }
func (self *Builder) Int64(v int64) *ConstInt { return &ConstInt { Value: v, typ: I64 } }
func (self *Builder) Null() ConstNull         { return ConstNull{} }

func (self *Builder) insert(ins *Instr) *Instr {
    if self.bb == nil {
        panic("ir: no insert point")
    }

    /* attach to the block */
    ins.Block = self.bb
    ins.Offset = self.offset
    self.bb.Instrs = append(self.bb.Instrs, ins)

    /* record uses of placeholders */
    for i, v := range ins.Operands {
        track(v, ins, i)
    }
    return ins
}

func (self *Builder) create(op Opcode, ty Type, args ...Value) *Instr {
    for _, v := range args {
        if v == nil {
            panic(fmt.Sprintf("ir: nil operand to %s", op))
        }
    }
    return self.insert(&Instr { Op: op, typ: ty, Operands: args })
}

/** Arithmetic **/

// CreateBinOp creates a two-operand arithmetic instruction. Both operands
// must have the same type, which is also the result type.
func (self *Builder) CreateBinOp(op Opcode, x Value, y Value) *Instr {
    if !op.IsBinary() {
        panic("ir: not a binary operation: " + op.String())
    } else if x.Type() != y.Type() {
        panic(fmt.Sprintf("ir: mismatched operand types for %s: %s and %s", op, x.Type(), y.Type()))
    } else {
        return self.create(op, x.Type(), x, y)
    }
}

func (self *Builder) CreateAdd(x Value, y Value) *Instr  { return self.CreateBinOp(OP_add, x, y) }
func (self *Builder) CreateSub(x Value, y Value) *Instr  { return self.CreateBinOp(OP_sub, x, y) }
func (self *Builder) CreateMul(x Value, y Value) *Instr  { return self.CreateBinOp(OP_mul, x, y) }
func (self *Builder) CreateSDiv(x Value, y Value) *Instr { return self.CreateBinOp(OP_sdiv, x, y) }
func (self *Builder) CreateSRem(x Value, y Value) *Instr { return self.CreateBinOp(OP_srem, x, y) }
func (self *Builder) CreateUDiv(x Value, y Value) *Instr { return self.CreateBinOp(OP_udiv, x, y) }
func (self *Builder) CreateURem(x Value, y Value) *Instr { return self.CreateBinOp(OP_urem, x, y) }
func (self *Builder) CreateAnd(x Value, y Value) *Instr  { return self.CreateBinOp(OP_and, x, y) }
func (self *Builder) CreateOr(x Value, y Value) *Instr   { return self.CreateBinOp(OP_or, x, y) }
func (self *Builder) CreateXor(x Value, y Value) *Instr  { return self.CreateBinOp(OP_xor, x, y) }
func (self *Builder) CreateShl(x Value, y Value) *Instr  { return self.CreateBinOp(OP_shl, x, y) }
func (self *Builder) CreateLShr(x Value, y Value) *Instr { return self.CreateBinOp(OP_lshr, x, y) }
func (self *Builder) CreateAShr(x Value, y Value) *Instr { return self.CreateBinOp(OP_ashr, x, y) }
func (self *Builder) CreateFAdd(x Value, y Value) *Instr { return self.CreateBinOp(OP_fadd, x, y) }
func (self *Builder) CreateFSub(x Value, y Value) *Instr { return self.CreateBinOp(OP_fsub, x, y) }
func (self *Builder) CreateFMul(x Value, y Value) *Instr { return self.CreateBinOp(OP_fmul, x, y) }
func (self *Builder) CreateFDiv(x Value, y Value) *Instr { return self.CreateBinOp(OP_fdiv, x, y) }
func (self *Builder) CreateFRem(x Value, y Value) *Instr { return self.CreateBinOp(OP_frem, x, y) }

/** Compares and Casts **/

func (self *Builder) CreateICmp(pred Predicate, x Value, y Value) *Instr {
    if x.Type() != y.Type() {
        panic(fmt.Sprintf("ir: mismatched operand types for icmp: %s and %s", x.Type(), y.Type()))
    } else {
        ins := self.create(OP_icmp, I1, x, y)
        ins.Pred = pred
        return ins
    }
}

func (self *Builder) CreateFCmp(pred Predicate, x Value, y Value) *Instr {
    if x.Type() != y.Type() || !x.Type().IsFP() {
        panic(fmt.Sprintf("ir: invalid operand types for fcmp: %s and %s", x.Type(), y.Type()))
    } else {
        ins := self.create(OP_fcmp, I1, x, y)
        ins.Pred = pred
        return ins
    }
}

// CreateCast converts v to type ty.
func (self *Builder) CreateCast(op Opcode, v Value, ty Type) *Instr {
    if !op.IsCast() {
        panic("ir: not a cast operation: " + op.String())
    } else {
        return self.create(op, ty, v)
    }
}

func (self *Builder) CreateSExt(v Value, ty Type) *Instr    { return self.CreateCast(OP_sext, v, ty) }
func (self *Builder) CreateZExt(v Value, ty Type) *Instr    { return self.CreateCast(OP_zext, v, ty) }
func (self *Builder) CreateTrunc(v Value, ty Type) *Instr   { return self.CreateCast(OP_trunc, v, ty) }
func (self *Builder) CreateSIToFP(v Value, ty Type) *Instr  { return self.CreateCast(OP_sitofp, v, ty) }
func (self *Builder) CreateFPToSI(v Value, ty Type) *Instr  { return self.CreateCast(OP_fptosi, v, ty) }
func (self *Builder) CreateFPExt(v Value, ty Type) *Instr   { return self.CreateCast(OP_fpext, v, ty) }
func (self *Builder) CreateFPTrunc(v Value, ty Type) *Instr { return self.CreateCast(OP_fptrunc, v, ty) }
func (self *Builder) CreateBitCast(v Value, ty Type) *Instr { return self.CreateCast(OP_bitcast, v, ty) }

/** Phi and Calls **/

// CreatePhi creates an empty phi node, incoming values are added with
// AddIncoming.
func (self *Builder) CreatePhi(ty Type) *Instr {
    return self.create(OP_phi, ty)
}

// CreateCall calls a function outside of the intrinsic catalog.
func (self *Builder) CreateCall(callee string, ret Type, args ...Value) *Instr {
    if _, ok := intrinsic.Lookup(callee); ok {
        panic("ir: use CreateIntrinsic to call " + callee)
    } else {
        ins := self.create(OP_call, ret, args...)
        ins.Callee = callee
        return ins
    }
}

// CreateIntrinsic calls a catalog entry. The arguments are checked against
// the catalog: arity, literal operands and value types.
func (self *Builder) CreateIntrinsic(id intrinsic.Id, args ...Value) *Instr {
    info := id.Info()
    checkIntrinsic(id, info, args)
    ins := self.create(OP_call, TypeOf(info.Ret), args...)
    ins.Callee = info.Name
    return ins
}

// TypeOf maps an intrinsic kind to its IR type.
func TypeOf(kind intrinsic.Kind) Type {
    switch kind {
        case intrinsic.Void    : return Void
        case intrinsic.Int     : return I32
        case intrinsic.Long    : return I64
        case intrinsic.Float   : return Float
        case intrinsic.Double  : return Double
        case intrinsic.Object  : return Object
        case intrinsic.ImmInt  : return I32
        case intrinsic.ImmLong : return I64
        default                : panic("ir: no type for intrinsic kind " + kind.String())
    }
}

func checkIntrinsic(id intrinsic.Id, info *intrinsic.Info, args []Value) {
    nf := info.Fixed()

    /* check the arity */
    if len(args) < nf || (!info.Variadic() && len(args) != nf) {
        panic(fmt.Sprintf("ir: %s takes %d arguments, got %d", id, nf, len(args)))
    }

    /* check the fixed arguments */
    for i := 0; i < nf; i++ {
        kind := info.Args[i]
        want := TypeOf(kind)

        /* literal operands */
        if kind.Immediate() {
            if _, ok := args[i].(*ConstInt); !ok {
                panic(fmt.Sprintf("ir: argument %d of %s must be a literal", i, id))
            }
        }

        /* value types */
        if args[i].Type() != want {
            panic(fmt.Sprintf("ir: argument %d of %s must be %s, got %s", i, id, want, args[i].Type()))
        }
    }

    /* variadic arguments may be of any non-void type */
    for i := nf; i < len(args); i++ {
        if args[i].Type() == Void {
            panic(fmt.Sprintf("ir: argument %d of %s is void", i, id))
        }
    }
}

/** Terminators **/

func (self *Builder) CreateBr(to *BasicBlock) *Instr {
    ins := self.create(OP_br, Void)
    ins.Targets = []*BasicBlock { to }
    return ins
}

func (self *Builder) CreateCondBr(cond Value, t *BasicBlock, f *BasicBlock) *Instr {
    if cond.Type() != I1 {
        panic("ir: branch condition must be i1, got " + cond.Type().String())
    } else {
        ins := self.create(OP_condbr, Void, cond)
        ins.Targets = []*BasicBlock { t, f }
        return ins
    }
}

// CreateSwitch creates a switch over v, cases are added with AddCase.
func (self *Builder) CreateSwitch(v Value, def *BasicBlock) *Instr {
    ins := self.create(OP_switch, Void, v)
    ins.Targets = []*BasicBlock { def }
    return ins
}

// AddCase adds one case to a switch.
func (self *Instr) AddCase(v int64, to *BasicBlock) {
    if self.Op != OP_switch {
        panic("ir: AddCase on a non-switch instruction")
    }
    self.Cases = append(self.Cases, v)
    self.Targets = append(self.Targets, to)
}

func (self *Builder) CreateRet(v Value) *Instr   { return self.create(OP_ret, Void, v) }
func (self *Builder) CreateRetVoid() *Instr      { return self.create(OP_ret, Void) }
func (self *Builder) CreateUnreachable() *Instr  { return self.create(OP_unreachable, Void) }

/** Operations never produced by forward lowering **/

func (self *Builder) CreateLoad(ty Type, ptr Value) *Instr      { return self.create(OP_load, ty, ptr) }
func (self *Builder) CreateStore(v Value, ptr Value) *Instr     { return self.create(OP_store, Void, v, ptr) }
func (self *Builder) CreateAlloca(ty Type) *Instr               { return self.create(OP_alloca, Object) }
func (self *Builder) CreateGEP(ptr Value, idx Value) *Instr     { return self.create(OP_gep, Object, ptr, idx) }
func (self *Builder) CreateResume(v Value) *Instr               { return self.create(OP_resume, Void, v) }
func (self *Builder) CreateLandingPad(ty Type) *Instr           { return self.create(OP_landingpad, ty) }
func (self *Builder) CreateExtractElement(v Value, i Value) *Instr {
    return self.create(OP_extractelement, v.Type(), v, i)
}

func (self *Builder) CreateInsertElement(v Value, e Value, i Value) *Instr {
    return self.create(OP_insertelement, v.Type(), v, e, i)
}

func (self *Builder) CreateShuffleVector(x Value, y Value, mask Value) *Instr {
    return self.create(OP_shufflevector, x.Type(), x, y, mask)
}

func (self *Builder) CreateSelect(cond Value, t Value, f Value) *Instr {
    if t.Type() != f.Type() {
        panic(fmt.Sprintf("ir: mismatched operand types for select: %s and %s", t.Type(), f.Type()))
    } else {
        return self.create(OP_select, t.Type(), cond, t, f)
    }
}

// CreateInvoke is a call with an exceptional successor.
func (self *Builder) CreateInvoke(callee string, ret Type, normal *BasicBlock, unwind *BasicBlock, args ...Value) *Instr {
    ins := self.create(OP_invoke, ret, args...)
    ins.Callee = callee
    ins.Targets = []*BasicBlock { normal, unwind }
    return ins
}
