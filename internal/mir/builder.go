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
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/utils`
)

// Builder assembles a Method the way the upstream SSA builder would leave
// it. Every Dalvik register starts with an SSA register of subscript 0, the
// ins among them typed from the shorty.
type Builder struct {
    m    *Method
    next map[int]int
    temp int
    errs []error
}

func NewBuilder(name string, shorty string, numRegs int, numIns int, static bool) *Builder {
    ret := &Builder {
        next: make(map[int]int),
        m: &Method {
            Name    : name,
            Shorty  : shorty,
            NumRegs : numRegs,
            NumIns  : numIns,
        },
    }

    /* static methods have no receiver */
    if static {
        ret.m.AccessFlags |= AccStatic
    }

    /* initial versions of every Dalvik register */
    for i := 0; i < numRegs + numIns; i++ {
        ret.add(loc.KindCore, i, false, false, false)
    }

    /* type the ins from the shorty */
    ret.typeIns()
    return ret
}

func (self *Builder) typeIns() {
    vreg := self.m.NumRegs
    args := []byte(nil)

    /* receiver comes first */
    if !self.m.IsStatic() {
        args = append(args, 'L')
    }

    /* followed by the declared parameters */
    if len(self.m.Shorty) > 1 {
        args = append(args, self.m.Shorty[1:]...)
    }

    /* wide parameters take two registers */
    for _, c := range args {
        if vreg >= len(self.m.RegLocations) {
            self.errs = append(self.errs, utils.EInvariant("%s: too few ins for shorty %q", self.m.Name, self.m.Shorty))
            return
        }

        /* retype the register(s) */
        kind, wide := ShortyKind(c)
        self.retype(vreg, kind, wide)

        /* move to the next argument */
        vreg++
        if wide {
            vreg++
        }
    }
}

func (self *Builder) retype(sreg int, kind loc.Kind, wide bool) {
    sub := self.m.SSASubscript[sreg]
    self.m.RegLocations[sreg] = newLoc(kind, self.m.SSABaseVReg[sreg], sub, sreg, wide, false)
    self.m.RegLocations[sreg].Defined = true

    /* high half of a wide argument */
    if wide && sreg + 1 < len(self.m.RegLocations) {
        self.m.RegLocations[sreg + 1] = newLoc(kind, self.m.SSABaseVReg[sreg + 1], self.m.SSASubscript[sreg + 1], sreg + 1, true, true)
        self.m.RegLocations[sreg + 1].Defined = true
    }
}

// ShortyKind maps a shorty character to a value kind.
func ShortyKind(c byte) (kind loc.Kind, wide bool) {
    switch c {
        case 'J'      : return loc.KindCore, true
        case 'D'      : return loc.KindFP, true
        case 'F'      : return loc.KindFP, false
        case 'L', '[' : return loc.KindRef, false
        default       : return loc.KindCore, false
    }
}

func newLoc(kind loc.Kind, vreg int, subscript int, sreg int, wide bool, high bool) loc.RegLocation {
    ret := loc.Frame(kind, wide, vreg, subscript, sreg)
    ret.HighWord = high
    return ret
}

func (self *Builder) add(kind loc.Kind, vreg int, wide bool, high bool, defined bool) int {
    sreg := len(self.m.RegLocations)
    sub := self.next[vreg]
    self.next[vreg]++

    /* the location of the new register */
    rl := newLoc(kind, vreg, sub, sreg, wide, high)
    rl.Defined = defined

    /* update the tables */
    self.m.RegLocations = append(self.m.RegLocations, rl)
    self.m.SSABaseVReg = append(self.m.SSABaseVReg, vreg)
    self.m.SSASubscript = append(self.m.SSASubscript, sub)
    return sreg
}

// SSA allocates the next version of vreg. A wide value also allocates the
// next version of vreg+1 as its high half. Returns the low SSA register.
func (self *Builder) SSA(kind loc.Kind, vreg int, wide bool) int {
    ret := self.add(kind, vreg, wide, false, true)
    if wide {
        self.add(kind, vreg + 1, true, true, true)
    }
    return ret
}

// CompilerTemp allocates an SSA register that belongs to no Dalvik register.
func (self *Builder) CompilerTemp(kind loc.Kind) int {
    self.temp++
    self.m.NumCompilerTemps++
    return self.add(kind, -self.temp, false, false, true)
}

func (self *Builder) SetLeaf(leaf bool) *Builder {
    self.m.Leaf = leaf
    return self
}

func (self *Builder) SetOuts(n int) *Builder {
    self.m.NumOuts = n
    return self
}

// Block creates a new block. The first entry block becomes the method
// entry, the first exit block the method exit.
func (self *Builder) Block(kind BlockKind, id int, offset int) *BasicBlock {
    bb := &BasicBlock {
        Id          : id,
        Kind        : kind,
        StartOffset : offset,
    }

    /* check for duplicated IDs */
    for _, p := range self.m.Blocks {
        if p.Id == id {
            self.errs = append(self.errs, utils.EInvariant("%s: duplicated block ID %d", self.m.Name, id))
        }
    }

    /* remember the entry and exit */
    if kind == BlockEntry && self.m.Entry == nil {
        self.m.Entry = bb
    } else if kind == BlockExit && self.m.Exit == nil {
        self.m.Exit = bb
    }

    /* add to the method */
    self.m.Blocks = append(self.m.Blocks, bb)
    return bb
}

func link(from *BasicBlock, to *BasicBlock) {
    for _, p := range to.Predecessors {
        if p == from {
            return
        }
    }
    to.Predecessors = append(to.Predecessors, from)
}

func (self *Builder) FallThrough(from *BasicBlock, to *BasicBlock) {
    from.FallThrough = to
    link(from, to)
}

func (self *Builder) Taken(from *BasicBlock, to *BasicBlock) {
    from.Taken = to
    link(from, to)
}

func (self *Builder) Successor(from *BasicBlock, to *BasicBlock) {
    from.Successors = append(from.Successors, to)
    link(from, to)
}

// Emit appends an instruction to bb.
func (self *Builder) Emit(bb *BasicBlock, offset int, insn Insn, defs []int, uses []int) *MIR {
    p := &MIR {
        Insn   : insn,
        Offset : offset,
        SSA    : &SSARep { Defs: defs, Uses: uses },
    }

    /* floating-point flags follow the locations */
    p.SSA.FPDef = self.fpFlags(defs)
    p.SSA.FPUse = self.fpFlags(uses)
    bb.Append(p)
    return p
}

// Phi appends a phi node defining dest, with one incoming value per
// predecessor. Wide values list both halves.
func (self *Builder) Phi(bb *BasicBlock, dest []int, uses []int, incoming []int) *MIR {
    p := self.Emit(bb, bb.StartOffset, Insn { Opcode: OP_phi }, dest, uses)
    p.PhiIncoming = incoming
    return p
}

func (self *Builder) fpFlags(regs []int) []bool {
    ret := make([]bool, len(regs))
    for i, r := range regs {
        if r >= 0 && r < len(self.m.RegLocations) {
            ret[i] = self.m.RegLocations[r].FP
        }
    }
    return ret
}

// Build validates and returns the method.
func (self *Builder) Build() (*Method, error) {
    m := self.m
    m.NumSSARegs = len(m.RegLocations)

    /* errors recorded during construction */
    if len(self.errs) != 0 {
        return nil, self.errs[0]
    }

    /* must have an entry block */
    if m.Entry == nil {
        return nil, utils.EInvariant("%s: missing entry block", m.Name)
    }

    /* check all the SSA registers */
    for _, bb := range m.Blocks {
        for p := bb.First; p != nil; p = p.Next {
            if err := self.checkRegs(p, p.SSA.Defs); err != nil {
                return nil, err
            } else if err = self.checkRegs(p, p.SSA.Uses); err != nil {
                return nil, err
            }
        }
    }

    /* default promotion map, everything stays in the frame */
    if m.PromotionMap == nil {
        m.PromotionMap = make([]PromotionMap, m.NumDalvikRegisters() + m.NumCompilerTemps + 1)
        for i := range m.PromotionMap {
            m.PromotionMap[i] = FramePromotion
        }
    }
    return m, nil
}

func (self *Builder) checkRegs(p *MIR, regs []int) error {
    for _, r := range regs {
        if r < 0 || r >= self.m.NumSSARegs {
            return utils.EInvariant("%s: %#06x: SSA register s%d out of range", self.m.Name, p.Offset, r)
        }
    }
    return nil
}
