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

package amd64

import (
    `github.com/cloudwego/mirbridge/internal/lir`
    `github.com/cloudwego/mirbridge/internal/loc`
)

var coreTemps = [...]int {
    RAX, RDX, RBX, RSI, RDI, R8, R9, R10, R11, R12, R13, R14,
}

var fpTemps = [...]int {
    XMM0, XMM1, XMM2, XMM3, XMM4, XMM5, XMM6, XMM7,
}

// regInfo tracks one physical register. A live register mirrors the frame
// slot at disp, which was last loaded into or stored from it. A reserved
// register holds a promoted value and is never handed out as a temp.
type regInfo struct {
    inUse    bool
    live     bool
    reserved bool
    disp     int
    wide     bool
}

func (self *regInfo) covers(disp int, size int) bool {
    n := 4
    if self.wide {
        n = 8
    }
    return self.live && self.disp < disp + size && disp < self.disp + n
}

func (self *Target) ResetRegPool() {
    for i := range self.regs {
        self.regs[i].inUse = false
    }
}

func (self *Target) ClobberAllRegs() {
    for i := range self.regs {
        self.regs[i].live = false
    }
}

func (self *Target) ResetDefTracking() {
    for k := range self.defs {
        delete(self.defs, k)
    }
}

// AllocTemp returns a free register, preferring one that does not mirror
// any slot. Without SSE floating point values live in core registers.
func (self *Target) AllocTemp(fp bool) int {
    pool := coreTemps[:]
    if fp && self.sse {
        pool = fpTemps[:]
    }

    /* registers holding nothing first */
    for _, r := range pool {
        if ri := &self.regs[r]; !ri.reserved && !ri.inUse && !ri.live {
            ri.inUse = true
            return r
        }
    }

    /* then the ones holding a copy of a slot */
    for _, r := range pool {
        if ri := &self.regs[r]; !ri.reserved && !ri.inUse {
            ri.inUse = true
            ri.live = false
            return r
        }
    }

    /* not enough registers to lower a single instruction */
    panic("amd64: out of temporary registers")
}

func (self *Target) FreeTemp(reg int) {
    if reg >= 0 && reg < NumRegs {
        self.regs[reg].inUse = false
    }
}

func (self *Target) lock(reg int) {
    self.regs[reg].inUse = true
    self.regs[reg].live = false
}

func (self *Target) clobber(reg int) {
    if reg >= 0 && reg < NumRegs {
        self.regs[reg].live = false
    }
}

func (self *Target) clobberCallee() {
    self.ClobberAllRegs()
    self.ResetDefTracking()
}

/** Frame Slots **/

func width(wide bool) int {
    if wide {
        return 8
    } else {
        return 4
    }
}

// slotOf returns the frame displacement of a location.
func (self *Target) slotOf(rl loc.RegLocation) int {
    switch rl.Location {
        case loc.LocDalvikFrame  : break
        case loc.LocCompilerTemp : break
        default                  : panic("amd64: location has no frame slot: " + rl.String())
    }

    /* compiler temps follow the Dalvik registers */
    if rl.VReg >= 0 {
        return self.frame.vregDisp(rl.VReg)
    } else {
        return self.frame.vregDisp(self.frame.numDalvik + (-rl.VReg - 1))
    }
}

// spillPromoted writes every promoted register into its frame slot, the
// callee of an invoke may use them as temps.
func (self *Target) spillPromoted() {
    for _, p := range self.frame.promoted {
        self.list.Emit(storeOp(false, false), p.reg, RSP, self.frame.vregDisp(p.slot))
    }
}

// reloadPromoted is the inverse of spillPromoted.
func (self *Target) reloadPromoted() {
    for _, p := range self.frame.promoted {
        self.list.Emit(loadOp(false, false), p.reg, RSP, self.frame.vregDisp(p.slot))
    }
}

func loadOp(fp bool, wide bool) lir.Opcode {
    switch {
        case fp && wide : return MovsdRF
        case fp         : return MovssRF
        case wide       : return Mov64RF
        default         : return Mov32RF
    }
}

func storeOp(fp bool, wide bool) lir.Opcode {
    switch {
        case fp && wide : return MovsdFR
        case fp         : return MovssFR
        case wide       : return Mov64FR
        default         : return Mov32FR
    }
}

// movOp copies between two registers of any class.
func movOp(dst int, src int, wide bool) lir.Opcode {
    switch df, sf := isFPReg(dst), isFPReg(src); {
        case df && sf   : return MovapsRR
        case df && wide : return MovqXR
        case df         : return MovdXR
        case sf && wide : return MovqRX
        case sf         : return MovdRX
        case wide       : return Mov64RR
        default         : return Mov32RR
    }
}

// read records a read of the slot, which keeps the pending stores to it.
func (self *Target) read(disp int, size int) {
    for k, p := range self.defs {
        if k < disp + size && disp < k + width(p.Flags().Has(lir.IsWide)) {
            delete(self.defs, k)
        }
    }
}

// mirror finds a free register of the right class holding the slot.
func (self *Target) mirror(disp int, wide bool, fp bool) int {
    for r := range self.regs {
        if ri := &self.regs[r]; !ri.inUse && ri.live && ri.disp == disp && ri.wide == wide && isFPReg(r) == fp {
            return r
        }
    }
    return -1
}

func (self *Target) fpClass(rl loc.RegLocation) bool {
    return rl.FP && self.sse
}

// loadValue brings a value into a temporary register and locks it.
func (self *Target) loadValue(rl loc.RegLocation) int {
    return self.loadValueAs(rl, self.fpClass(rl))
}

// loadValueAs is like loadValue, with the register class chosen by the
// caller. Raw bit copies of floating point values use core registers.
func (self *Target) loadValueAs(rl loc.RegLocation, fp bool) int {
    if rl.Location == loc.LocPhysReg {
        self.regs[rl.LowReg].inUse = true
        return rl.LowReg
    }

    /* reuse a register still holding the slot */
    disp := self.slotOf(rl)
    if r := self.mirror(disp, rl.Wide, fp); r >= 0 {
        self.regs[r].inUse = true
        return r
    }

    /* load it from the frame */
    r := self.AllocTemp(fp)
    self.loadFrame(r, disp, rl.Wide)
    return r
}

// loadValueTo loads a value into a fixed register, and locks it.
func (self *Target) loadValueTo(rl loc.RegLocation, reg int) {
    if rl.Location == loc.LocPhysReg {
        if self.lock(reg); rl.LowReg != reg {
            self.emit(movOp(reg, rl.LowReg, rl.Wide), reg, rl.LowReg)
        }
        return
    }

    /* a copy of the slot in the right register is enough */
    disp := self.slotOf(rl)
    if ri := &self.regs[reg]; ri.live && ri.disp == disp && ri.wide == rl.Wide {
        ri.inUse = true
        return
    }

    /* load from the frame */
    self.lock(reg)
    self.loadFrame(reg, disp, rl.Wide)
}

func (self *Target) loadFrame(reg int, disp int, wide bool) {
    self.read(disp, width(wide))
    self.emit(loadOp(isFPReg(reg), wide), reg, RSP, disp)
    self.regs[reg].inUse = true
    self.regs[reg].live = true
    self.regs[reg].disp = disp
    self.regs[reg].wide = wide
}

// storeValue writes a register into the home of a location. A previous
// store to the same slot that nothing has read since becomes a nop.
func (self *Target) storeValue(rl loc.RegLocation, reg int) {
    if rl.Location == loc.LocPhysReg {
        if rl.LowReg != reg {
            self.emit(movOp(rl.LowReg, reg, rl.Wide), rl.LowReg, reg)
        }
        return
    }

    /* suppress the dead store */
    disp := self.slotOf(rl)
    size := width(rl.Wide)
    if p, ok := self.defs[disp]; ok && width(p.Flags().Has(lir.IsWide)) == size {
        p.Nop = true
    }

    /* other registers mirroring the slot are stale now */
    for r := range self.regs {
        if r != reg && self.regs[r].covers(disp, size) {
            self.regs[r].live = false
        }
    }

    /* the store, and the register becomes a mirror */
    self.read(disp, size)
    self.defs[disp] = self.emit(storeOp(isFPReg(reg), rl.Wide), reg, RSP, disp)
    self.regs[reg].live = true
    self.regs[reg].disp = disp
    self.regs[reg].wide = rl.Wide
}
