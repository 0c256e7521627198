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
    `fmt`

    `github.com/klauspost/cpuid/v2`

    `github.com/cloudwego/mirbridge/internal/codegen`
    `github.com/cloudwego/mirbridge/internal/lir`
    `github.com/cloudwego/mirbridge/internal/loc`
)

// Target generates amd64 LIR. One Target serves one method at a time,
// Begin resets all of its state.
type Target struct {
    sse     bool
    list    *lir.List
    frame   frameLayout
    regs    [NumRegs]regInfo
    defs    map[int]*lir.LIR
    inline  map[uint32]InlineKind
    suspend []*lir.LIR
    throws  []*lir.LIR
    retries []*retry
}

// NewTarget creates a target for the host CPU. SSE2 floating point is used
// when the CPU supports it.
func NewTarget() *Target {
    return newTarget(cpuid.CPU.Supports(cpuid.SSE2))
}

// NewSoftFloatTarget creates a target calling runtime helpers for every
// floating point operation.
func NewSoftFloatTarget() *Target {
    return newTarget(false)
}

func newTarget(sse bool) *Target {
    return &Target {
        sse    : sse,
        defs   : make(map[int]*lir.LIR),
        inline : make(map[uint32]InlineKind),
    }
}

// DumpHeader describes the host CPU, for dump files.
func DumpHeader() string {
    return fmt.Sprintf("cpu: %s (sse2: %t)", cpuid.CPU.BrandName, cpuid.CPU.Supports(cpuid.SSE2))
}

func (self *Target) ISA() *lir.ISA {
    return ISA
}

// SSE reports whether floating point is inlined.
func (self *Target) SSE() bool {
    return self.sse
}

// FrameSize is the size of the frame of the current method.
func (self *Target) FrameSize() int {
    return self.frame.size()
}

func (self *Target) Begin(list *lir.List, frame codegen.Frame) {
    self.list = list
    self.frame = newFrameLayout(frame)
    self.suspend = self.suspend[:0]
    self.throws = self.throws[:0]
    self.retries = self.retries[:0]
    self.regs = [NumRegs]regInfo{}
    self.ResetDefTracking()

    /* promoted registers are out of the temp pool */
    for _, p := range self.frame.promoted {
        self.regs[p.reg].reserved = true
    }
}

/** Emitters **/

func (self *Target) emit(op lir.Opcode, operands ...int) *lir.LIR {
    p := self.list.Emit(op, operands...)
    fl := p.Flags()

    /* track the registers and slots */
    switch {
        case fl.Has(lir.IsCall)  : self.clobberCallee()
        case fl.Has(lir.RegDef0) : self.clobber(operands[0])
    }
    return p
}

func (self *Target) branch(op lir.Opcode, target *lir.LIR, operands ...int) *lir.LIR {
    self.ResetDefTracking()
    return self.list.EmitBranch(op, target, operands...)
}

func (self *Target) jcc(cc int, target *lir.LIR) *lir.LIR {
    p := self.branch(Jcc, target, cc)
    p.Comment = ccNames[cc]
    return p
}

func (self *Target) label() *lir.LIR {
    return self.list.New(lir.PseudoTargetLabel)
}

// join places a label reached from a launchpad. Nothing is known about
// the registers after it.
func (self *Target) join(p *lir.LIR) {
    self.list.Append(p)
    self.clobberCallee()
}

/** Method Entry and Exit **/

// GenEntrySequence sets up the frame and copies the ins from the caller's
// outs area, pointed to by RSI, into their home slots. High halves of wide
// arguments are copied together with the low halves.
func (self *Target) GenEntrySequence(args []loc.RegLocation, _ loc.RegLocation) {
    self.list.Emit(lir.PseudoEntryBlock)
    self.emit(Sub64SP, self.frame.size())
    self.list.Emit(Mov64FR, RDI, RSP, 0)

    /* RSI points to the ins until every word is copied */
    self.regs[RSI].inUse = true
    defer self.FreeTemp(RSI)

    /* copy every argument word */
    for i, rl := range args {
        if !rl.Valid() || rl.HighWord {
            continue
        }

        /* load from the caller, store into the home */
        r := self.AllocTemp(false)
        op := Mov32RM
        if rl.Wide {
            op = Mov64RM
        }

        /* registers are reused across arguments */
        self.emit(op, r, RSI, i * slotSize)
        self.storeCore(rl, r)
        self.FreeTemp(r)
    }
}

func (self *Target) GenExitSequence() {
    self.list.Emit(lir.PseudoExitBlock)
    self.emit(Add64SP, self.frame.size())
    self.emit(Ret)
}

func (self *Target) GenReturn(src loc.RegLocation) {
    if self.fpClass(src) {
        self.loadValueTo(src, XMM0)
    } else {
        self.loadCoreTo(src, RAX)
    }
}

// GenSuspendTest polls the suspend count of the thread.
func (self *Target) GenSuspendTest(optFlags int) {
    if optFlags & codegen.IgnoreSuspendCheck != 0 {
        return
    }

    /* the launchpad returns right after the branch */
    ret := self.label()
    lp := self.list.New(lir.PseudoSuspendTarget, 0, self.list.Offset())
    lp.Target = ret

    /* poll and branch out */
    self.emit(Cmp32TI, ThreadSuspendCount, 0)
    self.jcc(ccNE, lp)
    self.join(ret)
    self.suspend = append(self.suspend, lp)
}

/** Moves and Constants **/

// loadCore loads the raw bits of a value into a core register.
func (self *Target) loadCore(rl loc.RegLocation) int {
    return self.loadValueAs(rl, false)
}

func (self *Target) loadCoreTo(rl loc.RegLocation, reg int) {
    if rl.Location == loc.LocPhysReg && isFPReg(rl.LowReg) {
        self.lock(reg)
        self.emit(movOp(reg, rl.LowReg, rl.Wide), reg, rl.LowReg)
    } else {
        self.loadValueTo(rl, reg)
    }
}

// storeCore stores the raw bits of a core register.
func (self *Target) storeCore(rl loc.RegLocation, reg int) {
    if rl.Location == loc.LocPhysReg && isFPReg(rl.LowReg) {
        self.emit(movOp(rl.LowReg, reg, rl.Wide), rl.LowReg, reg)
    } else {
        self.storeValue(rl, reg)
    }
}

func (self *Target) GenCopy(dest loc.RegLocation, src loc.RegLocation) {
    r := self.loadValue(src)
    self.storeValue(dest, r)
}

func (self *Target) GenConst(dest loc.RegLocation, imm uint64) {
    r := self.AllocTemp(false)
    if dest.Wide {
        self.emit(Mov64RI, r, int(int64(imm)))
    } else {
        self.emit(Mov32RI, r, int(int32(uint32(imm))))
    }
    self.storeCore(dest, r)
}

func (self *Target) GenConstString(index uint32, dest loc.RegLocation) {
    self.callHelper(pResolveString, immArg(int(index)), methodArg())
    self.storeCore(dest, RAX)
}

func (self *Target) GenConstClass(index uint32, dest loc.RegLocation) {
    self.callHelper(pInitializeType, immArg(int(index)), methodArg())
    self.storeCore(dest, RAX)
}

/** Runtime Helpers **/

var argRegs = [...]int { RDI, RSI, RDX, RCX }

type helperArg struct {
    kind int
    imm  int
    rl   loc.RegLocation
    reg  int
}

const (
    argImm = iota
    argLoc
    argReg
    argMethod
    argOuts
)

func immArg(v int) helperArg                 { return helperArg { kind: argImm, imm: v } }
func locArg(rl loc.RegLocation) helperArg   { return helperArg { kind: argLoc, rl: rl } }
func regArg(reg int) helperArg              { return helperArg { kind: argReg, reg: reg } }
func methodArg() helperArg                  { return helperArg { kind: argMethod } }
func outsArg() helperArg                    { return helperArg { kind: argOuts } }

// callHelper calls a runtime helper with the core arguments in RDI, RSI,
// RDX and RCX. Register arguments must not be argument registers that come
// before them.
func (self *Target) callHelper(ep Entrypoint, args ...helperArg) {
    if len(args) > len(argRegs) {
        panic("amd64: too many helper arguments")
    }

    /* register arguments first, they may live in argument registers */
    for i, a := range args {
        if a.kind == argReg && a.reg != argRegs[i] {
            self.lock(argRegs[i])
            self.emit(movOp(argRegs[i], a.reg, true), argRegs[i], a.reg)
        }
    }

    /* then everything else */
    for i, a := range args {
        switch r := argRegs[i]; a.kind {
            case argImm    : self.lock(r); self.emit(Mov64RI, r, a.imm)
            case argLoc    : self.loadCoreTo(a.rl, r)
            case argMethod : self.lock(r); self.emit(Mov64RF, r, RSP, 0)
            case argOuts   : self.lock(r); self.emit(Lea64RF, r, RSP, self.frame.outsDisp())
        }
    }

    /* call through the thread */
    self.emit(CallT, ep.Offset()).Comment = ep.String()
}

// callFPHelper calls a floating point helper. With SSE the operands are
// passed in XMM0 and XMM1 and the result comes back in XMM0, otherwise the
// raw bits go through RDI, RSI and RAX.
func (self *Target) callFPHelper(ep Entrypoint, dest loc.RegLocation, srcs ...loc.RegLocation) {
    if !self.sse {
        args := make([]helperArg, len(srcs))
        for i, rl := range srcs {
            args[i] = locArg(rl)
        }
        self.callHelper(ep, args...)
        self.storeResult(dest)
        return
    }

    /* SSE arguments, integer ones still go through the core registers */
    ci := 0
    for i, rl := range srcs {
        if rl.FP {
            self.loadValueTo(rl, XMM0 + i)
        } else {
            self.loadCoreTo(rl, argRegs[ci])
            ci++
        }
    }

    /* call, and pick the result */
    self.emit(CallT, ep.Offset()).Comment = ep.String()
    self.storeResult(dest)
}

// storeResult stores the result of a call.
func (self *Target) storeResult(dest loc.RegLocation) {
    if !dest.Valid() {
        return
    } else if self.fpClass(dest) {
        self.storeValue(dest, XMM0)
    } else {
        self.storeCore(dest, RAX)
    }
}

/** Checks **/

// throwTarget creates a throw launchpad. The launchpad is emitted with
// the other ones after the last block.
func (self *Target) throwTarget(kind codegen.ThrowKind, r0 int, r1 int) *lir.LIR {
    lp := self.list.New(lir.PseudoThrowTarget, int(kind), r0, r1)
    self.throws = append(self.throws, lp)
    return lp
}

func (self *Target) genNullCheck(reg int, optFlags int) {
    if optFlags & codegen.IgnoreNullCheck == 0 {
        self.emit(Test32RR, reg, reg)
        self.jcc(ccE, self.throwTarget(codegen.ThrowNullPointer, reg, 0))
    }
}

// genBoundsCheck compares the unsigned index with the length at
// [base+disp].
func (self *Target) genBoundsCheck(index int, base int, disp int, optFlags int) {
    if optFlags & codegen.IgnoreRangeCheck == 0 {
        self.emit(Cmp32RM, index, base, disp)
        self.jcc(ccAE, self.throwTarget(codegen.ThrowArrayBounds, index, base))
    }
}

func (self *Target) genDivZeroCheck(reg int, wide bool) {
    if wide {
        self.emit(Test64RR, reg, reg)
    } else {
        self.emit(Test32RR, reg, reg)
    }
    self.jcc(ccE, self.throwTarget(codegen.ThrowDivZero, reg, 0))
}
