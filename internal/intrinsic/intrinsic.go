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

package intrinsic

import (
    `fmt`
)

// Version of the catalog. Any change to the set of entries or to the shape
// of an entry must bump it.
const Version = 1

// Kind is the class of one intrinsic operand or result.
type Kind uint8

const (
    Void Kind = iota
    Int
    Long
    Float
    Double
    Object
    ImmInt      // i32 literal
    ImmLong     // i64 literal
    Varargs     // any number of trailing values of any kind
)

func (self Kind) String() string {
    switch self {
        case Void    : return "void"
        case Int     : return "int"
        case Long    : return "long"
        case Float   : return "float"
        case Double  : return "double"
        case Object  : return "object"
        case ImmInt  : return "imm32"
        case ImmLong : return "imm64"
        case Varargs : return "..."
        default      : return fmt.Sprintf("Kind(%d)", uint8(self))
    }
}

// Immediate reports whether the operand must be a literal.
func (self Kind) Immediate() bool {
    return self == ImmInt || self == ImmLong
}

// Info describes one catalog entry.
type Info struct {
    Name string
    Ret  Kind
    Args []Kind
}

// Variadic reports whether the entry takes trailing value arguments.
func (self *Info) Variadic() bool {
    return len(self.Args) != 0 && self.Args[len(self.Args) - 1] == Varargs
}

// Fixed returns the number of fixed operands.
func (self *Info) Fixed() int {
    if self.Variadic() {
        return len(self.Args) - 1
    } else {
        return len(self.Args)
    }
}

var byName = func() map[string]Id {
    ret := make(map[string]Id, NumIds)
    for i := Id(0); i < NumIds; i++ {
        ret[catalog[i].Name] = i
    }
    return ret
}()

func (self Id) Valid() bool {
    return self < NumIds
}

func (self Id) Info() *Info {
    if !self.Valid() {
        panic(fmt.Sprintf("intrinsic: invalid intrinsic ID: %d", self))
    } else {
        return &catalog[self]
    }
}

func (self Id) String() string {
    if self.Valid() {
        return catalog[self].Name
    } else {
        return fmt.Sprintf("intrinsic(%d)", uint16(self))
    }
}

// Lookup finds the catalog entry with the given stub function name.
func Lookup(name string) (Id, bool) {
    id, ok := byName[name]
    return id, ok
}
