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

package codegen

import (
    `fmt`

    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
)

// OpKind is a target independent arithmetic operation.
type OpKind uint8

const (
    OpAdd OpKind = iota
    OpSub
    OpRsub
    OpMul
    OpDiv
    OpRem
    OpAnd
    OpOr
    OpXor
    OpLsl
    OpLsr
    OpAsr
    OpNeg
    OpNot
    OpMov
    OpCmp
)

var opKindNames = [...]string {
    OpAdd  : "add",
    OpSub  : "sub",
    OpRsub : "rsub",
    OpMul  : "mul",
    OpDiv  : "div",
    OpRem  : "rem",
    OpAnd  : "and",
    OpOr   : "or",
    OpXor  : "xor",
    OpLsl  : "lsl",
    OpLsr  : "lsr",
    OpAsr  : "asr",
    OpNeg  : "neg",
    OpNot  : "not",
    OpMov  : "mov",
    OpCmp  : "cmp",
}

func (self OpKind) String() string {
    if int(self) < len(opKindNames) {
        return opKindNames[self]
    } else {
        return fmt.Sprintf("OpKind(%d)", uint8(self))
    }
}

// IsShift reports whether the operation is a shift.
func (self OpKind) IsShift() bool {
    return self == OpLsl || self == OpLsr || self == OpAsr
}

// CondCode is the condition of a conditional branch.
type CondCode uint8

const (
    CondEq CondCode = iota
    CondNe
    CondLt
    CondGe
    CondGt
    CondLe
)

func (self CondCode) String() string {
    switch self {
        case CondEq : return "eq"
        case CondNe : return "ne"
        case CondLt : return "lt"
        case CondGe : return "ge"
        case CondGt : return "gt"
        case CondLe : return "le"
        default     : return fmt.Sprintf("CondCode(%d)", uint8(self))
    }
}

// OpSize is the width and signedness of a memory access.
type OpSize uint8

const (
    Word OpSize = iota
    Long
    Single
    Double
    UnsignedHalf
    SignedHalf
    UnsignedByte
    SignedByte
)

func (self OpSize) String() string {
    switch self {
        case Word         : return "word"
        case Long         : return "long"
        case Single       : return "single"
        case Double       : return "double"
        case UnsignedHalf : return "uhalf"
        case SignedHalf   : return "shalf"
        case UnsignedByte : return "ubyte"
        case SignedByte   : return "sbyte"
        default           : return fmt.Sprintf("OpSize(%d)", uint8(self))
    }
}

// Bytes returns the width of an access, in bytes.
func (self OpSize) Bytes() int {
    switch self {
        case Long, Double               : return 8
        case UnsignedHalf, SignedHalf   : return 2
        case UnsignedByte, SignedByte   : return 1
        default                         : return 4
    }
}

// InvokeType is the dispatch kind of an invoke. The values are the ones
// carried by the first operand of the invoke intrinsics.
type InvokeType uint8

const (
    InvokeStatic InvokeType = iota
    InvokeDirect
    InvokeVirtual
    InvokeSuper
    InvokeInterface
)

func (self InvokeType) Valid() bool {
    return self <= InvokeInterface
}

func (self InvokeType) String() string {
    switch self {
        case InvokeStatic    : return "static"
        case InvokeDirect    : return "direct"
        case InvokeVirtual   : return "virtual"
        case InvokeSuper     : return "super"
        case InvokeInterface : return "interface"
        default              : return fmt.Sprintf("InvokeType(%d)", uint8(self))
    }
}

// Narrowing is an int-to-subword conversion.
type Narrowing uint8

const (
    NarrowToByte Narrowing = iota
    NarrowToChar
    NarrowToShort
)

func (self Narrowing) String() string {
    switch self {
        case NarrowToByte  : return "int-to-byte"
        case NarrowToChar  : return "int-to-char"
        case NarrowToShort : return "int-to-short"
        default            : return fmt.Sprintf("Narrowing(%d)", uint8(self))
    }
}

// Conversion is a primitive conversion other than the int/long extensions
// and the narrowings.
type Conversion uint8

const (
    LongToInt Conversion = iota
    IntToFloat
    IntToDouble
    LongToFloat
    LongToDouble
    FloatToInt
    FloatToLong
    DoubleToInt
    DoubleToLong
    FloatToDouble
    DoubleToFloat
)

var conversionNames = [...]string {
    LongToInt     : "long-to-int",
    IntToFloat    : "int-to-float",
    IntToDouble   : "int-to-double",
    LongToFloat   : "long-to-float",
    LongToDouble  : "long-to-double",
    FloatToInt    : "float-to-int",
    FloatToLong   : "float-to-long",
    DoubleToInt   : "double-to-int",
    DoubleToLong  : "double-to-long",
    FloatToDouble : "float-to-double",
    DoubleToFloat : "double-to-float",
}

func (self Conversion) String() string {
    if int(self) < len(conversionNames) {
        return conversionNames[self]
    } else {
        return fmt.Sprintf("Conversion(%d)", uint8(self))
    }
}

// ThrowKind is the exception raised by a throw launchpad.
type ThrowKind uint8

const (
    ThrowNullPointer ThrowKind = iota
    ThrowArrayBounds
    ThrowDivZero
)

func (self ThrowKind) String() string {
    switch self {
        case ThrowNullPointer : return "null-pointer"
        case ThrowArrayBounds : return "array-bounds"
        case ThrowDivZero     : return "div-zero"
        default               : return fmt.Sprintf("ThrowKind(%d)", uint8(self))
    }
}

// Optimization flags of a MIR, carried as the first operand of the
// field, array, monitor and invoke intrinsics. The bits match the ones of
// the MIR.
const (
    IgnoreNullCheck    = 1 << 0
    IgnoreRangeCheck   = 1 << 2
    IgnoreSuspendCheck = 1 << 7
)

// Frame is the register layout of a method. Promotion has one decoded
// entry per frame slot: the Dalvik registers, the compiler temps, and one
// trailing entry for the method.
type Frame struct {
    NumIns           int
    NumRegs          int
    NumOuts          int
    NumCompilerTemps int
    Promotion        []mir.PromotionMap
}

// NumDalvikRegisters is the number of Dalvik registers, ins included.
func (self Frame) NumDalvikRegisters() int {
    return self.NumRegs + self.NumIns
}

// NumSlots is the number of promotion map entries of the frame.
func (self Frame) NumSlots() int {
    return self.NumDalvikRegisters() + self.NumCompilerTemps + 1
}

// Slot returns the frame slot of a Dalvik register, compiler temps having
// negative vregs. The second value is false outside of the frame.
func (self Frame) Slot(vreg int) (int, bool) {
    if vreg >= 0 && vreg < self.NumDalvikRegisters() {
        return vreg, true
    } else if vreg < 0 && -vreg <= self.NumCompilerTemps {
        return self.NumDalvikRegisters() - vreg - 1, true
    } else {
        return 0, false
    }
}

// PromotedCore returns the core register a Dalvik register was promoted to.
func (self Frame) PromotedCore(vreg int) (int, bool) {
    if i, ok := self.Slot(vreg); !ok || i >= len(self.Promotion) {
        return loc.InvalidReg, false
    } else if p := self.Promotion[i]; p.CoreLocation != loc.LocPhysReg || p.CoreReg == loc.InvalidReg {
        return loc.InvalidReg, false
    } else {
        return p.CoreReg, true
    }
}

// CallInfo describes one invoke or filled-new-array site. Args holds one
// location per argument word, the high half of a wide argument included.
type CallInfo struct {
    Args     []loc.RegLocation
    Result   loc.RegLocation
    Type     InvokeType
    Index    uint32
    OptFlags int
    Offset   int
    IsRange  bool
}

func (self *CallInfo) NumArgWords() int {
    return len(self.Args)
}

// HasResult reports whether the result of the call is used.
func (self *CallInfo) HasResult() bool {
    return self.Result.Valid()
}
