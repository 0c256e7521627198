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

package lir

import (
    `fmt`
    `sync`
)

// Opcode is a target instruction opcode. Negative values are the pseudo
// instructions shared by every target.
type Opcode int16

const (
    PseudoIntrinsicRetry         Opcode = -16
    PseudoSuspendTarget          Opcode = -15
    PseudoThrowTarget            Opcode = -14
    PseudoBarrier                Opcode = -10
    PseudoEntryBlock             Opcode = -7
    PseudoExitBlock              Opcode = -6
    PseudoTargetLabel            Opcode = -5
    PseudoDalvikByteCodeBoundary Opcode = -4
    PseudoNormalBlockLabel       Opcode = -1
)

func (self Opcode) IsPseudo() bool {
    return self < 0
}

// IsLabel reports whether the opcode can be the target of a branch.
func (self Opcode) IsLabel() bool {
    switch self {
        case PseudoNormalBlockLabel : return true
        case PseudoTargetLabel      : return true
        case PseudoSuspendTarget    : return true
        case PseudoThrowTarget      : return true
        case PseudoIntrinsicRetry   : return true
        default                     : return false
    }
}

// Flags describe the behavior of an opcode.
type Flags uint32

const (
    IsBranch Flags = 1 << iota
    NoFallThrough
    IsLoad
    IsStore
    IsCall
    FrameRef
    IsWide
    RegDef0
    RegUse0
    RegUse1
    RegUse2
    SetsCCodes
    UsesCCodes
)

func (self Flags) Has(v Flags) bool {
    return self & v == v
}

// Encoding describes one opcode of a target. In Format, "!<n><c>" expands
// operand n, rendered as a register (r), a decimal (d), a hex number (x) or
// the branch target (t).
type Encoding struct {
    Name   string
    Flags  Flags
    Format string
}

// ISA is the instruction set of one target. Encodings is indexed by the
// non-negative opcodes.
type ISA struct {
    Name      string
    Encodings []Encoding
    RegName   func(reg int) string
}

var pseudos = map[Opcode]*Encoding {
    PseudoIntrinsicRetry         : { Name: "-intrinsic-retry", Format: "!0d" },
    PseudoSuspendTarget          : { Name: "-suspend-target",  Format: "!1x" },
    PseudoThrowTarget            : { Name: "-throw-target",    Format: "!0d, !1d" },
    PseudoBarrier                : { Name: "-barrier" },
    PseudoEntryBlock             : { Name: "-entry-block" },
    PseudoExitBlock              : { Name: "-exit-block" },
    PseudoTargetLabel            : { Name: "-target-label" },
    PseudoDalvikByteCodeBoundary : { Name: "-boundary",         Format: "!0x" },
    PseudoNormalBlockLabel       : { Name: "-block-label",      Format: "!0x" },
}

// Encoding returns the encoding of op, which may be a pseudo opcode.
func (self *ISA) Encoding(op Opcode) *Encoding {
    if op < 0 {
        if e, ok := pseudos[op]; ok {
            return e
        } else {
            panic(fmt.Sprintf("lir: invalid pseudo opcode %d", op))
        }
    }

    /* target opcodes */
    if int(op) >= len(self.Encodings) {
        panic(fmt.Sprintf("lir: invalid %s opcode %d", self.Name, op))
    } else {
        return &self.Encodings[op]
    }
}

func (self *ISA) regName(reg int) string {
    if self.RegName == nil {
        return fmt.Sprintf("r%d", reg)
    } else {
        return self.RegName(reg)
    }
}

var (
    isaLock sync.RWMutex
    isaTab  = make(map[string]*ISA)
)

// Register makes an ISA available by name. It is meant to be called from
// the init function of a target package.
func Register(isa *ISA) {
    isaLock.Lock()
    defer isaLock.Unlock()

    /* names are unique */
    if _, ok := isaTab[isa.Name]; ok {
        panic("lir: duplicated ISA: " + isa.Name)
    } else {
        isaTab[isa.Name] = isa
    }
}

func LookupISA(name string) (*ISA, bool) {
    isaLock.RLock()
    isa, ok := isaTab[name]
    isaLock.RUnlock()
    return isa, ok
}
