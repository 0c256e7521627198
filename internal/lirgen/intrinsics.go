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
    `fmt`

    `github.com/cloudwego/kitex/pkg/klog`
    `github.com/davecgh/go-spew/spew`

    `github.com/cloudwego/mirbridge/internal/codegen`
    `github.com/cloudwego/mirbridge/internal/intrinsic`
    `github.com/cloudwego/mirbridge/internal/ir`
    `github.com/cloudwego/mirbridge/internal/loc`
)

type handler func(*Context, *ir.Instr)

var handlers [intrinsic.NumIds]handler

func init() {
    handlers = [intrinsic.NumIds]handler {
        intrinsic.MethodInfo             : handle_nop,
        intrinsic.AllocaShadowFrame      : handle_nop,
        intrinsic.SetShadowFrameEntry    : handle_nop,
        intrinsic.PopShadowFrame         : handle_nop,
        intrinsic.CheckSuspend           : handle_CheckSuspend,
        intrinsic.CopyInt                : handle_Copy,
        intrinsic.CopyObj                : handle_Copy,
        intrinsic.CopyFloat              : handle_Copy,
        intrinsic.CopyLong               : handle_Copy,
        intrinsic.CopyDouble             : handle_Copy,
        intrinsic.ConstInt               : handle_Const,
        intrinsic.ConstObj               : handle_Const,
        intrinsic.ConstFloat             : handle_Const,
        intrinsic.ConstLong              : handle_Const,
        intrinsic.ConstDouble            : handle_Const,
        intrinsic.DivInt                 : divWith(codegen.OpDiv),
        intrinsic.DivLong                : divWith(codegen.OpDiv),
        intrinsic.RemInt                 : divWith(codegen.OpRem),
        intrinsic.RemLong                : divWith(codegen.OpRem),
        intrinsic.HLInvokeVoid           : handle_Invoke,
        intrinsic.HLInvokeObj            : handle_Invoke,
        intrinsic.HLInvokeFloat          : handle_Invoke,
        intrinsic.HLInvokeDouble         : handle_Invoke,
        intrinsic.HLInvokeLong           : handle_Invoke,
        intrinsic.HLInvokeInt            : handle_Invoke,
        intrinsic.FilledNewArray         : handle_FilledNewArray,
        intrinsic.FillArrayData          : handle_FillArrayData,
        intrinsic.ConstString            : handle_ConstString,
        intrinsic.ConstClass             : handle_ConstClass,
        intrinsic.CheckCast              : handle_CheckCast,
        intrinsic.NewInstance            : handle_NewInstance,
        intrinsic.NewArray               : handle_NewArray,
        intrinsic.InstanceOf             : handle_InstanceOf,
        intrinsic.ArrayLength            : handle_ArrayLength,
        intrinsic.MonitorEnter           : handle_MonitorEnter,
        intrinsic.MonitorExit            : handle_MonitorExit,
        intrinsic.GetException           : handle_GetException,
        intrinsic.Throw                  : handle_Throw,
        intrinsic.ThrowVerificationError : handle_ThrowVerificationError,
        intrinsic.IntToChar              : narrowWith(codegen.NarrowToChar),
        intrinsic.IntToShort             : narrowWith(codegen.NarrowToShort),
        intrinsic.IntToByte              : narrowWith(codegen.NarrowToByte),
    }

    /* the field and array accessors, one per variant */
    for i := range accesses {
        handlers[intrinsic.HLSget + intrinsic.Id(i)] = handle_Sget
        handlers[intrinsic.HLSput + intrinsic.Id(i)] = handle_Sput
        handlers[intrinsic.HLIGet + intrinsic.Id(i)] = handle_IGet
        handlers[intrinsic.HLIPut + intrinsic.Id(i)] = handle_IPut
        handlers[intrinsic.HLArrayGet + intrinsic.Id(i)] = handle_ArrayGet
        handlers[intrinsic.HLArrayPut + intrinsic.Id(i)] = handle_ArrayPut
    }

    /* every entry of the catalog must be handled */
    for id, fn := range handlers {
        if fn == nil {
            panic(fmt.Sprintf("lirgen: no handler for intrinsic %s", intrinsic.Id(id)))
        }
    }
}

func intrinsicOf(ins *ir.Instr) intrinsic.Id {
    id, _ := ins.Intrinsic()
    return id
}

func handle_nop(_ *Context, _ *ir.Instr) {}

/** Moves and Constants **/

func handle_CheckSuspend(self *Context, _ *ir.Instr) {
    self.t.GenSuspendTest(0)
}

func handle_Copy(self *Context, ins *ir.Instr) {
    self.t.GenCopy(self.loc(ins), self.loc(ins.Operand(0)))
}

// handle_Const loads the raw bits of the literal, narrow ones are zero
// extended.
func handle_Const(self *Context, ins *ir.Instr) {
    if imm := self.imm(ins, 0); ins.Operand(0).Type() == ir.I64 {
        self.t.GenConst(self.loc(ins), uint64(imm))
    } else {
        self.t.GenConst(self.loc(ins), uint64(uint32(imm)))
    }
}

func divWith(op codegen.OpKind) handler {
    return func(self *Context, ins *ir.Instr) {
        dest := self.loc(ins)
        src1 := self.loc(ins.Operand(0))

        /* literal divisors come from the literal forms */
        if lit, ok := literal(ins.Operand(1)); ok && ins.Type() == ir.I32 {
            self.t.GenArithOpIntLit(op, dest, src1, int32(lit))
            return
        }

        /* register divisors */
        if src2 := self.loc(ins.Operand(1)); ins.Type() == ir.I64 {
            self.t.GenArithOpLong(op, dest, src1, src2)
        } else {
            self.t.GenArithOpInt(op, dest, src1, src2)
        }
    }
}

func narrowWith(kind codegen.Narrowing) handler {
    return func(self *Context, ins *ir.Instr) {
        self.t.GenIntNarrowing(kind, self.loc(ins), self.loc(ins.Operand(0)))
    }
}

/** Calls **/

// callInfo builds the description of a call site. The operands are the
// invoke type, the method or type index, the optimization flags, then one
// value per argument. Wide arguments get a location for their high half.
func (self *Context) callInfo(ins *ir.Instr) *codegen.CallInfo {
    info := &codegen.CallInfo {
        Type     : codegen.InvokeType(self.imm(ins, 0)),
        Index    : uint32(self.imm(ins, 1)),
        OptFlags : int(self.imm(ins, 2)),
        Offset   : self.list.Offset(),
        Result   : loc.BadLoc,
    }

    /* the argument words */
    for _, v := range ins.Operands[3:] {
        rl := self.loc(v)
        info.Args = append(info.Args, rl)

        /* synthesize the high half */
        if rl.Wide {
            info.Args = append(info.Args, rl.High())
        }
    }

    /* the result, if used */
    if ins.Type() != ir.Void {
        info.Result = self.loc(ins)
    }

    /* dump the locations if asked */
    if self.o.Verbose {
        klog.Debugf("%#06x: %s with %d argument words:\n%s", info.Offset, intrinsicOf(ins), len(info.Args), spew.Sdump(info.Args))
    }
    return info
}

func handle_Invoke(self *Context, ins *ir.Instr) {
    self.t.GenInvoke(self.callInfo(ins))
}

func handle_FilledNewArray(self *Context, ins *ir.Instr) {
    self.t.GenFilledNewArray(self.callInfo(ins))
}

/** Objects **/

func handle_FillArrayData(self *Context, ins *ir.Instr) {
    self.t.GenFillArrayData(int32(self.imm(ins, 0)), self.loc(ins.Operand(1)))
}

func handle_ConstString(self *Context, ins *ir.Instr) {
    self.t.GenConstString(uint32(self.imm(ins, 0)), self.loc(ins))
}

func handle_ConstClass(self *Context, ins *ir.Instr) {
    self.t.GenConstClass(uint32(self.imm(ins, 0)), self.loc(ins))
}

func handle_CheckCast(self *Context, ins *ir.Instr) {
    self.t.GenCheckCast(uint32(self.imm(ins, 0)), self.loc(ins.Operand(1)))
}

func handle_NewInstance(self *Context, ins *ir.Instr) {
    self.t.GenNewInstance(uint32(self.imm(ins, 0)), self.loc(ins))
}

func handle_NewArray(self *Context, ins *ir.Instr) {
    self.t.GenNewArray(uint32(self.imm(ins, 0)), self.loc(ins), self.loc(ins.Operand(1)))
}

func handle_InstanceOf(self *Context, ins *ir.Instr) {
    self.t.GenInstanceOf(uint32(self.imm(ins, 0)), self.loc(ins), self.loc(ins.Operand(1)))
}

func handle_ArrayLength(self *Context, ins *ir.Instr) {
    self.t.GenArrayLength(int(self.imm(ins, 0)), self.loc(ins), self.loc(ins.Operand(1)))
}

func handle_MonitorEnter(self *Context, ins *ir.Instr) {
    self.t.GenMonitorEnter(int(self.imm(ins, 0)), self.loc(ins.Operand(1)))
}

func handle_MonitorExit(self *Context, ins *ir.Instr) {
    self.t.GenMonitorExit(int(self.imm(ins, 0)), self.loc(ins.Operand(1)))
}

func handle_GetException(self *Context, ins *ir.Instr) {
    self.t.GenMoveException(self.loc(ins))
}

func handle_Throw(self *Context, ins *ir.Instr) {
    self.t.GenThrow(self.loc(ins.Operand(0)))
}

func handle_ThrowVerificationError(self *Context, ins *ir.Instr) {
    self.t.GenThrowVerificationError(uint32(self.imm(ins, 0)), uint32(self.imm(ins, 1)))
}

/** Fields and Arrays **/

type access struct {
    size  codegen.OpSize
    scale int
    wide  bool
    ref   bool
}

// accesses describes the variants of the accessor families, in catalog
// order after the first entry of each family.
var accesses = [...]access {
    { codegen.Word         , 2, false, false },  // int
    { codegen.Single       , 2, false, false },  // float
    { codegen.UnsignedByte , 0, false, false },  // boolean
    { codegen.SignedByte   , 0, false, false },  // byte
    { codegen.UnsignedHalf , 1, false, false },  // char
    { codegen.SignedHalf   , 1, false, false },  // short
    { codegen.Long         , 3, true , false },  // wide
    { codegen.Double       , 3, true , false },  // double
    { codegen.Word         , 2, false, true  },  // object
}

func accessOf(ins *ir.Instr, base intrinsic.Id) access {
    return accesses[intrinsicOf(ins) - base]
}

func handle_Sget(self *Context, ins *ir.Instr) {
    a := accessOf(ins, intrinsic.HLSget)
    self.t.GenSget(uint32(self.imm(ins, 0)), self.loc(ins), a.wide, a.ref)
}

func handle_Sput(self *Context, ins *ir.Instr) {
    a := accessOf(ins, intrinsic.HLSput)
    self.t.GenSput(uint32(self.imm(ins, 0)), self.loc(ins.Operand(1)), a.wide, a.ref)
}

// handle_IGet reads (optFlags, object, fieldIdx).
func handle_IGet(self *Context, ins *ir.Instr) {
    a := accessOf(ins, intrinsic.HLIGet)
    obj := self.loc(ins.Operand(1))
    self.t.GenIGet(uint32(self.imm(ins, 2)), int(self.imm(ins, 0)), a.size, self.loc(ins), obj, a.wide, a.ref)
}

// handle_IPut reads (optFlags, value, object, fieldIdx).
func handle_IPut(self *Context, ins *ir.Instr) {
    a := accessOf(ins, intrinsic.HLIPut)
    src := self.loc(ins.Operand(1))
    obj := self.loc(ins.Operand(2))
    self.t.GenIPut(uint32(self.imm(ins, 3)), int(self.imm(ins, 0)), a.size, src, obj, a.wide, a.ref)
}

// handle_ArrayGet reads (optFlags, array, index).
func handle_ArrayGet(self *Context, ins *ir.Instr) {
    a := accessOf(ins, intrinsic.HLArrayGet)
    arr := self.loc(ins.Operand(1))
    idx := self.loc(ins.Operand(2))
    self.t.GenArrayGet(int(self.imm(ins, 0)), a.size, arr, idx, self.loc(ins), a.scale)
}

// handle_ArrayPut reads (optFlags, value, array, index).
func handle_ArrayPut(self *Context, ins *ir.Instr) {
    a := accessOf(ins, intrinsic.HLArrayPut)
    src := self.loc(ins.Operand(1))
    arr := self.loc(ins.Operand(2))
    idx := self.loc(ins.Operand(3))
    self.t.GenArrayPut(int(self.imm(ins, 0)), a.size, arr, idx, src, a.scale)
}
