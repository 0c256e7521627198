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
    `sync`

    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/utils`
)

// AccStatic is the access flag of static methods.
const AccStatic = 0x0008

// PromotionMap records where register promotion placed one Dalvik register.
type PromotionMap struct {
    CoreLocation loc.Location
    FPLocation   loc.Location
    CoreReg      int
    FPReg        int
    FirstInPair  bool
}

// FramePromotion is the entry of a register left in the frame.
var FramePromotion = PromotionMap {
    CoreLocation : loc.LocDalvikFrame,
    FPLocation   : loc.LocDalvikFrame,
    CoreReg      : loc.InvalidReg,
    FPReg        : loc.InvalidReg,
}

// Pack encodes the entry into one word, in the layout of the method-info
// record.
func (self PromotionMap) Pack() int32 {
    var v uint32
    if self.FirstInPair { v = 1 }
    return int32(
        (v                           & 0xff) << 24 |
        (uint32(self.FPReg)          & 0xff) << 16 |
        (uint32(self.CoreReg)        & 0xff) <<  8 |
        (uint32(self.FPLocation)     & 0x0f) <<  4 |
        (uint32(self.CoreLocation)   & 0x0f),
    )
}

// UnpackPromotion decodes a value produced by PromotionMap.Pack. A register
// field of 0xff decodes to loc.InvalidReg.
func UnpackPromotion(v int32) PromotionMap {
    return PromotionMap {
        CoreLocation : loc.Location(v & 0x0f),
        FPLocation   : loc.Location((v >> 4) & 0x0f),
        CoreReg      : unpackReg((v >> 8) & 0xff),
        FPReg        : unpackReg((v >> 16) & 0xff),
        FirstInPair  : (v >> 24) & 0xff != 0,
    }
}

func unpackReg(v int32) int {
    if v == 0xff {
        return loc.InvalidReg
    } else {
        return int(v)
    }
}

// Method is a method in SSA form, as produced by the upstream SSA builder.
// RegLocations, SSABaseVReg and SSASubscript are indexed by SSA register.
type Method struct {
    Name             string
    Shorty           string
    AccessFlags      uint32
    Leaf             bool
    NumRegs          int
    NumIns           int
    NumOuts          int
    NumCompilerTemps int
    NumSSARegs       int
    RegLocations     []loc.RegLocation
    SSABaseVReg      []int
    SSASubscript     []int
    PromotionMap     []PromotionMap
    Blocks           []*BasicBlock
    Entry            *BasicBlock
    Exit             *BasicBlock

    once sync.Once
    vmap map[[2]int]int
}

// NumDalvikRegisters is the size of the Dalvik frame, ins included.
func (self *Method) NumDalvikRegisters() int {
    return self.NumRegs + self.NumIns
}

func (self *Method) IsStatic() bool {
    return self.AccessFlags & AccStatic != 0
}

// Block returns the block with the given ID, or nil.
func (self *Method) Block(id int) *BasicBlock {
    if id >= 0 && id < len(self.Blocks) && self.Blocks[id] != nil && self.Blocks[id].Id == id {
        return self.Blocks[id]
    }
    for _, bb := range self.Blocks {
        if bb.Id == id {
            return bb
        }
    }
    return nil
}

func (self *Method) checkSReg(sreg int) {
    if sreg < 0 || sreg >= self.NumSSARegs || sreg >= len(self.RegLocations) {
        panic(utils.EInvariant("%s: SSA register s%d out of range", self.Name, sreg))
    }
}

// SRegToVReg maps an SSA register to its Dalvik register. Compiler temps
// map to negative values.
func (self *Method) SRegToVReg(sreg int) int {
    self.checkSReg(sreg)
    return self.SSABaseVReg[sreg]
}

// SSAName returns the Dalvik register and subscript of an SSA register.
func (self *Method) SSAName(sreg int) (vreg int, subscript int) {
    self.checkSReg(sreg)
    return self.SSABaseVReg[sreg], self.SSASubscript[sreg]
}

// VRegSSA finds the SSA register of a (vreg, subscript) pair.
func (self *Method) VRegSSA(vreg int, subscript int) (int, bool) {
    self.once.Do(self.buildVRegMap)
    sreg, ok := self.vmap[[2]int { vreg, subscript }]
    return sreg, ok
}

func (self *Method) buildVRegMap() {
    self.vmap = make(map[[2]int]int, self.NumSSARegs)
    for i := 0; i < self.NumSSARegs && i < len(self.SSABaseVReg); i++ {
        self.vmap[[2]int { self.SSABaseVReg[i], self.SSASubscript[i] }] = i
    }
}

// Loc returns the location of an SSA register.
func (self *Method) Loc(sreg int) loc.RegLocation {
    self.checkSReg(sreg)
    return self.RegLocations[sreg]
}

func (self *Method) use(p *MIR, i int) int {
    if i < 0 || i >= p.NumUses() {
        panic(utils.EInvariant("%s: %#06x: use %d out of range", self.Name, p.Offset, i))
    }
    return p.SSA.Uses[i]
}

func (self *Method) def(p *MIR, i int) int {
    if i < 0 || i >= p.NumDefs() {
        panic(utils.EInvariant("%s: %#06x: def %d out of range", self.Name, p.Offset, i))
    }
    return p.SSA.Defs[i]
}

// GetRawSrc returns the location of the i-th use without width checks.
func (self *Method) GetRawSrc(p *MIR, i int) loc.RegLocation {
    return self.Loc(self.use(p, i))
}

// GetSrc returns the location of the i-th use, which must be narrow.
func (self *Method) GetSrc(p *MIR, i int) loc.RegLocation {
    if ret := self.GetRawSrc(p, i); ret.Wide {
        panic(utils.EInvariant("%s: %#06x: use %d is wide", self.Name, p.Offset, i))
    } else {
        return ret
    }
}

// GetSrcWide returns the location of the wide value starting at the i-th
// use. Both halves must be consecutive SSA registers.
func (self *Method) GetSrcWide(p *MIR, i int) loc.RegLocation {
    lo := self.use(p, i)
    hi := self.use(p, i + 1)
    return self.pair(p, lo, hi)
}

// GetRawDest returns the location of the first definition.
func (self *Method) GetRawDest(p *MIR) loc.RegLocation {
    return self.Loc(self.def(p, 0))
}

func (self *Method) GetDest(p *MIR) loc.RegLocation {
    if ret := self.GetRawDest(p); ret.Wide {
        panic(utils.EInvariant("%s: %#06x: destination is wide", self.Name, p.Offset))
    } else {
        return ret
    }
}

func (self *Method) GetDestWide(p *MIR) loc.RegLocation {
    lo := self.def(p, 0)
    hi := self.def(p, 1)
    return self.pair(p, lo, hi)
}

func (self *Method) pair(p *MIR, lo int, hi int) loc.RegLocation {
    ret := self.Loc(lo)
    self.checkSReg(hi)

    /* both halves must agree */
    if !ret.Wide {
        panic(utils.EInvariant("%s: %#06x: s%d is not wide", self.Name, p.Offset, lo))
    } else if hi != lo + 1 {
        panic(utils.EInvariant("%s: %#06x: s%d and s%d are not a pair", self.Name, p.Offset, lo, hi))
    } else {
        return ret
    }
}

type InvokeType uint8

const (
    InvokeStatic InvokeType = iota
    InvokeDirect
    InvokeVirtual
    InvokeSuper
    InvokeInterface
)

func (self InvokeType) String() string {
    switch self {
        case InvokeStatic    : return "static"
        case InvokeDirect    : return "direct"
        case InvokeVirtual   : return "virtual"
        case InvokeSuper     : return "super"
        case InvokeInterface : return "interface"
        default              : return "invalid"
    }
}

// CallInfo describes one invoke or filled-new-array site.
type CallInfo struct {
    Args       []loc.RegLocation    // one per argument word, high halves included
    Result     loc.RegLocation      // BadLoc when the result is not used
    MoveResult *MIR
    OptFlags   int
    Index      uint32
    Type       InvokeType
    IsRange    bool
}

func (self *CallInfo) NumArgWords() int {
    return len(self.Args)
}

// NewCallInfo builds the call description of the invoke p. The MOVE_RESULT
// consuming the return value, if any, is recorded into consumed; the caller
// then skips it.
func (self *Method) NewCallInfo(bb *BasicBlock, p *MIR, kind InvokeType, isRange bool, consumed map[*MIR]bool) *CallInfo {
    ret := &CallInfo {
        Args     : make([]loc.RegLocation, p.NumUses()),
        Result   : loc.BadLoc,
        OptFlags : p.OptFlags,
        Index    : p.Insn.VB,
        Type     : kind,
        IsRange  : isRange,
    }

    /* argument words */
    for i := range ret.Args {
        ret.Args[i] = self.GetRawSrc(p, i)
    }

    /* find the result, if any */
    if mr := findMoveResult(bb, p); mr != nil {
        consumed[mr] = true
        ret.MoveResult = mr

        /* wide results take a register pair */
        if mr.Insn.Opcode == OP_move_result_wide {
            ret.Result = self.GetDestWide(mr)
        } else {
            ret.Result = self.GetDest(mr)
        }
    }
    return ret
}

func isMoveResult(op Opcode) bool {
    return op == OP_move_result || op == OP_move_result_wide || op == OP_move_result_object
}

// advance moves to the next instruction, following the fall-through edge
// into a block that has no other predecessors.
func advance(bb **BasicBlock, p *MIR) *MIR {
    if p.Next != nil {
        return p.Next
    }

    /* end of block, try the fall-through */
    next := (*bb).FallThrough
    if next == nil || len(next.Predecessors) != 1 {
        return nil
    }

    /* continue in the fall-through block */
    *bb = next
    return next.First
}

func findMoveResult(bb *BasicBlock, p *MIR) *MIR {
    for p = advance(&bb, p); p != nil; p = advance(&bb, p) {
        if isMoveResult(p.Insn.Opcode) {
            return p
        } else if !p.Insn.Opcode.Extended() {
            return nil
        }
    }
    return nil
}
