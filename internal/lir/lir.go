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
    `strings`
    `sync`
)

// Mask is a resource mask: one bit per physical register, plus the Dalvik
// frame, the heap and the condition codes.
type Mask uint64

const (
    NumRegBits = 48
)

const (
    MaskFrame  Mask = 1 << (NumRegBits + iota)
    MaskHeap
    MaskCCodes
)

const (
    MaskAll = ^Mask(0)
)

func RegMask(reg int) Mask {
    if reg < 0 || reg >= NumRegBits {
        return 0
    } else {
        return 1 << reg
    }
}

// LIR is one low-level instruction. Frame references keep the register in
// operand 0, the base register in operand 1 and the displacement in
// operand 2.
type LIR struct {
    Id       int
    Prev     *LIR
    Next     *LIR
    Target   *LIR
    Opcode   Opcode
    Operands [4]int
    Offset   int
    Nop      bool
    UseMask  Mask
    DefMask  Mask
    Comment  string
    flags    Flags
}

var lirPool sync.Pool

func newLIR() *LIR {
    if v := lirPool.Get(); v == nil {
        return new(LIR)
    } else {
        p := v.(*LIR)
        *p = LIR{}
        return p
    }
}

func freeLIR(p *LIR) {
    lirPool.Put(p)
}

func (self *LIR) Flags() Flags {
    return self.flags
}

func (self *LIR) IsFrameLoad() bool {
    return self.flags.Has(FrameRef | IsLoad)
}

func (self *LIR) IsFrameStore() bool {
    return self.flags.Has(FrameRef | IsStore)
}

func (self *LIR) IsUncondBranch() bool {
    return self.flags.Has(IsBranch | NoFallThrough)
}

// IsBarrier reports whether code motion or local analysis must stop at
// this instruction.
func (self *LIR) IsBarrier() bool {
    switch {
        case self.Opcode.IsLabel()                                  : return true
        case self.Opcode == PseudoBarrier                           : return true
        case self.Opcode == PseudoEntryBlock                        : return true
        case self.Opcode == PseudoExitBlock                         : return true
        case self.flags & (IsBranch | NoFallThrough | IsCall) != 0  : return true
        default                                                     : return false
    }
}

type slot struct {
    base int
    disp int
    size int
}

func (self *LIR) slot() slot {
    if self.flags.Has(IsWide) {
        return slot { self.Operands[1], self.Operands[2], 8 }
    } else {
        return slot { self.Operands[1], self.Operands[2], 4 }
    }
}

func (self slot) overlaps(other slot) bool {
    return self.base == other.base && self.disp < other.disp + other.size && other.disp < self.disp + self.size
}

// List is the LIR of one method.
type List struct {
    ISA        *ISA
    Head       *LIR
    Tail       *LIR
    Count      int
    Boundaries map[int]*LIR
    offset     int
    seq        int
}

func NewList(isa *ISA) *List {
    return &List {
        ISA        : isa,
        Boundaries : make(map[int]*LIR),
    }
}

// SetOffset sets the dex offset given to every instruction created after.
func (self *List) SetOffset(offset int) { self.offset = offset }
func (self *List) Offset() int          { return self.offset }

// New creates an instruction without inserting it.
func (self *List) New(op Opcode, operands ...int) *LIR {
    if len(operands) > 4 {
        panic(fmt.Sprintf("lir: too many operands for %s: %d", self.ISA.Encoding(op).Name, len(operands)))
    }

    /* initialize the instruction */
    p := newLIR()
    p.Id = self.seq
    p.Opcode = op
    p.Offset = self.offset
    p.flags = self.ISA.Encoding(op).Flags
    copy(p.Operands[:], operands)

    /* compute the resource masks */
    self.seq++
    p.UseMask, p.DefMask = masks(p)
    return p
}

func masks(p *LIR) (use Mask, def Mask) {
    fl := p.flags
    if fl.Has(RegDef0) { def |= RegMask(p.Operands[0]) }
    if fl.Has(RegUse0) { use |= RegMask(p.Operands[0]) }
    if fl.Has(RegUse1) { use |= RegMask(p.Operands[1]) }
    if fl.Has(RegUse2) { use |= RegMask(p.Operands[2]) }
    if fl.Has(SetsCCodes) { def |= MaskCCodes }
    if fl.Has(UsesCCodes) { use |= MaskCCodes }

    /* memory references */
    switch {
        case fl.Has(FrameRef | IsLoad)  : use |= MaskFrame
        case fl.Has(FrameRef | IsStore) : def |= MaskFrame
        case fl.Has(IsLoad)             : use |= MaskHeap
        case fl.Has(IsStore)            : def |= MaskHeap
    }

    /* calls can touch anything */
    if fl.Has(IsCall) {
        use, def = MaskAll, MaskAll
    }
    return
}

// Append inserts p at the end of the list.
func (self *List) Append(p *LIR) *LIR {
    if p.Prev != nil || p.Next != nil || self.Head == p {
        panic("lir: instruction is already linked")
    }

    /* link to the tail */
    if p.Prev = self.Tail; self.Tail == nil {
        self.Head = p
    } else {
        self.Tail.Next = p
    }

    /* count the real instructions */
    if self.Tail = p; !p.Opcode.IsPseudo() {
        self.Count++
    }
    return p
}

// InsertAfter inserts p right after pos.
func (self *List) InsertAfter(pos *LIR, p *LIR) *LIR {
    if p.Prev = pos; pos.Next == nil {
        self.Tail = p
    } else {
        pos.Next.Prev = p
    }

    /* link it */
    p.Next = pos.Next
    pos.Next = p

    /* count the real instructions */
    if !p.Opcode.IsPseudo() {
        self.Count++
    }
    return p
}

// Emit creates an instruction and appends it.
func (self *List) Emit(op Opcode, operands ...int) *LIR {
    return self.Append(self.New(op, operands...))
}

// EmitBranch creates a branch to target and appends it.
func (self *List) EmitBranch(op Opcode, target *LIR, operands ...int) *LIR {
    p := self.New(op, operands...)
    p.Target = target
    return self.Append(p)
}

// MarkBoundary records p as the boundary of the instruction at offset,
// replacing any previous one.
func (self *List) MarkBoundary(offset int, p *LIR) {
    self.Boundaries[offset] = p
}

// Instrs returns the live instructions in order, pseudo ops included.
func (self *List) Instrs() []*LIR {
    var ret []*LIR
    for p := self.Head; p != nil; p = p.Next {
        if !p.Nop {
            ret = append(ret, p)
        }
    }
    return ret
}

// Free releases every instruction of the list. The list cannot be used
// afterwards.
func (self *List) Free() {
    for p := self.Head; p != nil; {
        q := p.Next
        freeLIR(p)
        p = q
    }

    /* clear the list */
    self.Head = nil
    self.Tail = nil
    self.Count = 0
    self.Boundaries = nil
}

/** Listing **/

func (self *List) labelName(p *LIR) string {
    switch p.Opcode {
        case PseudoNormalBlockLabel : return fmt.Sprintf("L0x%x_%d", p.Operands[0], p.Operands[1])
        case PseudoSuspendTarget    : return fmt.Sprintf("S%d", p.Id)
        case PseudoThrowTarget      : return fmt.Sprintf("X%d", p.Id)
        case PseudoIntrinsicRetry   : return fmt.Sprintf("I%d", p.Id)
        default                     : return fmt.Sprintf("T%d", p.Id)
    }
}

func (self *List) format(sb *strings.Builder, p *LIR, fs string) {
    for i := 0; i < len(fs); i++ {
        if fs[i] != '!' || i + 2 >= len(fs) {
            sb.WriteByte(fs[i])
            continue
        }

        /* operand directive */
        n := int(fs[i + 1] - '0')
        if n < 0 || n > 3 {
            sb.WriteByte(fs[i])
            continue
        }

        /* render the operand */
        switch v := p.Operands[n]; fs[i + 2] {
            case 'r' : sb.WriteString(self.ISA.regName(v))
            case 'd' : fmt.Fprintf(sb, "%d", v)
            case 'x' : fmt.Fprintf(sb, "%#x", v)
            case 't' : sb.WriteString(self.targetName(p))
            default  : sb.WriteString(fs[i:i + 3])
        }

        /* skip the directive */
        i += 2
    }
}

func (self *List) targetName(p *LIR) string {
    if p.Target == nil {
        return "<nil>"
    } else {
        return self.labelName(p.Target)
    }
}

// Format renders one instruction.
func (self *List) Format(p *LIR) string {
    var sb strings.Builder
    enc := self.ISA.Encoding(p.Opcode)

    /* labels */
    if p.Opcode.IsLabel() {
        sb.WriteString(self.labelName(p))
        sb.WriteByte(':')
        return sb.String()
    }

    /* the instruction */
    sb.WriteString("    ")
    sb.WriteString(enc.Name)
    if enc.Format != "" {
        sb.WriteByte(' ')
        self.format(&sb, p, enc.Format)
    }

    /* the comment */
    if p.Comment != "" {
        sb.WriteString(" // ")
        sb.WriteString(p.Comment)
    }

    /* the dex offset */
    if p.Offset >= 0 {
        fmt.Fprintf(&sb, "    ; %#x", p.Offset)
    }
    return sb.String()
}

// String renders the live instructions, one per line.
func (self *List) String() string {
    var sb strings.Builder
    for p := self.Head; p != nil; p = p.Next {
        if !p.Nop {
            sb.WriteString(self.Format(p))
            sb.WriteByte('\n')
        }
    }
    return sb.String()
}
