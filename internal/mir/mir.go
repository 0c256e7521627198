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

package mir

import (
    `fmt`
    `strings`
)

// Optimization flags attached to a MIR by the upstream passes.
const (
    MIR_IGNORE_NULL_CHECK = 1 << iota
    MIR_NULL_CHECK_ONLY
    MIR_IGNORE_RANGE_CHECK
    MIR_RANGE_CHECK_ONLY
    MIR_INLINED
    MIR_INLINED_PRED
    MIR_CALLEE
    MIR_IGNORE_SUSPEND_CHECK
    MIR_DUP
    MIR_MARK
)

// Insn is a decoded Dalvik instruction.
type Insn struct {
    Opcode Opcode
    VA     uint32
    VB     uint32
    VBWide uint64
    VC     uint32
    Args   [5]uint32
}

// SSARep holds the SSA registers an instruction uses and defines. A wide
// operand occupies two consecutive entries.
type SSARep struct {
    Uses  []int
    Defs  []int
    FPUse []bool
    FPDef []bool
}

// MIR is one instruction in a basic block.
type MIR struct {
    Insn        Insn
    Offset      int
    OptFlags    int
    SSA         *SSARep
    Next        *MIR
    PhiIncoming []int   // predecessor block ID for every use, only for phi
}

func (self *MIR) NumUses() int {
    if self.SSA == nil {
        return 0
    } else {
        return len(self.SSA.Uses)
    }
}

func (self *MIR) NumDefs() int {
    if self.SSA == nil {
        return 0
    } else {
        return len(self.SSA.Defs)
    }
}

func (self *MIR) String() string {
    var sb strings.Builder
    fmt.Fprintf(&sb, "%#06x: %s", self.Offset, self.Insn.Opcode)

    /* SSA definitions */
    if n := self.NumDefs(); n != 0 {
        sb.WriteString(" def=")
        writeRegs(&sb, self.SSA.Defs)
    }

    /* SSA uses */
    if n := self.NumUses(); n != 0 {
        sb.WriteString(" use=")
        writeRegs(&sb, self.SSA.Uses)
    }
    return sb.String()
}

func writeRegs(sb *strings.Builder, regs []int) {
    for i, r := range regs {
        if i != 0 {
            sb.WriteByte(',')
        }
        fmt.Fprintf(sb, "s%d", r)
    }
}
