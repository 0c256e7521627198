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
)

// Type is the type of an IR value.
type Type uint8

const (
    Void Type = iota
    I1
    I32
    I64
    Float
    Double
    Object
    Method
)

func (self Type) String() string {
    switch self {
        case Void   : return "void"
        case I1     : return "i1"
        case I32    : return "i32"
        case I64    : return "i64"
        case Float  : return "float"
        case Double : return "double"
        case Object : return "object"
        case Method : return "method"
        default     : return fmt.Sprintf("type(%d)", uint8(self))
    }
}

// IsWide reports whether values of this type take two Dalvik registers.
func (self Type) IsWide() bool {
    return self == I64 || self == Double
}

func (self Type) IsFP() bool {
    return self == Float || self == Double
}

func (self Type) IsInt() bool {
    return self == I1 || self == I32 || self == I64
}

func (self Type) IsRef() bool {
    return self == Object || self == Method
}

// Predicate is the condition of a compare instruction.
type Predicate uint8

const (
    EQ Predicate = iota
    NE
    SLT
    SGE
    SGT
    SLE
    ULT
    UGE
    UGT
    ULE
)

func (self Predicate) String() string {
    switch self {
        case EQ  : return "eq"
        case NE  : return "ne"
        case SLT : return "slt"
        case SGE : return "sge"
        case SGT : return "sgt"
        case SLE : return "sle"
        case ULT : return "ult"
        case UGE : return "uge"
        case UGT : return "ugt"
        case ULE : return "ule"
        default  : return fmt.Sprintf("pred(%d)", uint8(self))
    }
}
