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

package loc

import (
    `fmt`
    `strings`

    `github.com/davecgh/go-spew/spew`
)

// Location is the storage class of a value.
type Location uint8

const (
    LocDalvikFrame Location = iota
    LocPhysReg
    LocCompilerTemp
    LocInvalid
)

func (self Location) String() string {
    switch self {
        case LocDalvikFrame  : return "frame"
        case LocPhysReg      : return "reg"
        case LocCompilerTemp : return "temp"
        case LocInvalid      : return "invalid"
        default              : return fmt.Sprintf("Location(%d)", uint8(self))
    }
}

const (
    InvalidSReg = -1
    InvalidReg  = -1
    MethodSReg  = -2
)

// Kind is the value class of a resolved location.
type Kind uint8

const (
    KindUnknown Kind = iota
    KindCore
    KindRef
    KindFP
)

func (self Kind) String() string {
    switch self {
        case KindCore : return "core"
        case KindRef  : return "ref"
        case KindFP   : return "fp"
        default       : return "unknown"
    }
}

// RegLocation describes the type, width and storage of one SSA value. A wide
// location stands for both halves of a 64-bit value; the high half never
// gets a location of its own.
type RegLocation struct {
    Location  Location
    Wide      bool
    Defined   bool
    IsConst   bool
    FP        bool
    Core      bool
    Ref       bool
    HighWord  bool
    Home      bool
    LowReg    int
    HighReg   int
    VReg      int
    Subscript int
    SRegLow   int
    OrigSReg  int
}

// BadLoc is the location of a value that does not exist, like the result
// of a void invoke.
var BadLoc = RegLocation {
    Location  : LocInvalid,
    LowReg    : InvalidReg,
    HighReg   : InvalidReg,
    VReg      : InvalidSReg,
    Subscript : -1,
    SRegLow   : InvalidSReg,
    OrigSReg  : InvalidSReg,
}

// Frame returns a frame-resident location of the given kind.
func Frame(kind Kind, wide bool, vreg int, subscript int, sreg int) RegLocation {
    return RegLocation {
        Location  : LocDalvikFrame,
        Wide      : wide,
        Defined   : true,
        FP        : kind == KindFP,
        Core      : kind == KindCore,
        Ref       : kind == KindRef,
        LowReg    : InvalidReg,
        HighReg   : InvalidReg,
        VReg      : vreg,
        Subscript : subscript,
        SRegLow   : sreg,
        OrigSReg  : sreg,
    }
}

// Temp returns a physical register location not backed by any SSA register.
func Temp(kind Kind, wide bool, low int, high int) RegLocation {
    return RegLocation {
        Location  : LocPhysReg,
        Wide      : wide,
        Defined   : true,
        FP        : kind == KindFP,
        Core      : kind == KindCore,
        Ref       : kind == KindRef,
        Home      : true,
        LowReg    : low,
        HighReg   : high,
        VReg      : InvalidSReg,
        Subscript : -1,
        SRegLow   : InvalidSReg,
        OrigSReg  : InvalidSReg,
    }
}

func (self RegLocation) Valid() bool {
    return self.Location != LocInvalid
}

func (self RegLocation) Kind() Kind {
    switch {
        case self.FP  : return KindFP
        case self.Ref : return KindRef
        case self.Core: return KindCore
        default       : return KindUnknown
    }
}

// Resolved reports whether exactly one of FP, Ref and Core is set.
func (self RegLocation) Resolved() bool {
    n := 0
    for _, v := range [...]bool { self.FP, self.Ref, self.Core } {
        if v {
            n++
        }
    }
    return n == 1
}

// High synthesizes the location of the high half of a wide value.
func (self RegLocation) High() RegLocation {
    ret := self
    ret.HighWord = true
    if self.VReg >= 0 { ret.VReg++ }
    if self.SRegLow >= 0 { ret.SRegLow++ }
    if self.OrigSReg >= 0 { ret.OrigSReg++ }
    return ret
}

func (self RegLocation) String() string {
    var sb strings.Builder
    sb.WriteString(self.Location.String())
    sb.WriteByte(':')
    sb.WriteString(self.Kind().String())

    /* width */
    if self.Wide {
        sb.WriteString(":wide")
    }

    /* origin */
    if self.VReg >= 0 {
        fmt.Fprintf(&sb, " %s", ValueName(self.VReg, self.Subscript))
    }

    /* assigned registers */
    if self.Location == LocPhysReg {
        if self.Wide && self.HighReg != InvalidReg && self.HighReg != self.LowReg {
            fmt.Fprintf(&sb, " r%d/r%d", self.LowReg, self.HighReg)
        } else {
            fmt.Fprintf(&sb, " r%d", self.LowReg)
        }
    }
    return sb.String()
}

var dumper = spew.ConfigState {
    Indent                  : "    ",
    SortKeys                : true,
    DisablePointerAddresses : true,
    DisableMethods          : true,
}

// Dump renders every field of the location, for verbose tracing.
func (self RegLocation) Dump() string {
    return dumper.Sdump(self)
}
