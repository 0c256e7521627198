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
    `strings`
    `testing`

    `github.com/stretchr/testify/require`
    `golang.org/x/arch/x86/x86asm`

    `github.com/cloudwego/mirbridge/internal/codegen`
    `github.com/cloudwego/mirbridge/internal/lir`
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
)

var testFrame = codegen.Frame {
    NumIns  : 3,
    NumRegs : 4,
    NumOuts : 4,
}

func newTestTarget(sse bool) (*Target, *lir.List) {
    t := newTarget(sse)
    l := lir.NewList(ISA)
    t.Begin(l, testFrame)
    return t, l
}

func core(v int) loc.RegLocation {
    return loc.Frame(loc.KindCore, false, v, 0, v)
}

func ref(v int) loc.RegLocation {
    return loc.Frame(loc.KindRef, false, v, 0, v)
}

func float(v int) loc.RegLocation {
    return loc.Frame(loc.KindFP, false, v, 0, v)
}

func wide(v int) loc.RegLocation {
    return loc.Frame(loc.KindCore, true, v, 0, v)
}

func ops(l *lir.List) []lir.Opcode {
    var ret []lir.Opcode
    for _, p := range l.Instrs() {
        if !p.Opcode.IsPseudo() {
            ret = append(ret, p.Opcode)
        }
    }
    return ret
}

func count(l *lir.List, op lir.Opcode) int {
    n := 0
    for _, v := range ops(l) {
        if v == op {
            n++
        }
    }
    return n
}

func find(l *lir.List, op lir.Opcode) *lir.LIR {
    for _, p := range l.Instrs() {
        if p.Opcode == op {
            return p
        }
    }
    return nil
}

func calls(l *lir.List) []Entrypoint {
    var ret []Entrypoint
    for _, p := range l.Instrs() {
        if p.Opcode == CallT {
            ep, ok := EntrypointAt(p.Operands[0])
            if !ok {
                panic("invalid entrypoint")
            }
            ret = append(ret, ep)
        }
    }
    return ret
}

func TestFrame_Layout(t *testing.T) {
    f := newFrameLayout(testFrame)
    require.Equal(t, 8, f.vregDisp(0))
    require.Equal(t, 32, f.vregDisp(6))
    require.Equal(t, 36, f.outsDisp())
    require.Equal(t, 56, f.size())
    require.Equal(t, 0, (f.size() + 8) % 16)
    require.Panics(t, func() { f.vregDisp(7) })
}

// promotedFrame is testFrame with v2 promoted to reg.
func promotedFrame(reg int) codegen.Frame {
    f := testFrame
    f.Promotion = make([]mir.PromotionMap, f.NumSlots())
    for i := range f.Promotion {
        f.Promotion[i] = mir.FramePromotion
    }
    f.Promotion[2].CoreLocation = loc.LocPhysReg
    f.Promotion[2].CoreReg = reg
    return f
}

func promoted(v int, reg int) loc.RegLocation {
    rl := core(v)
    rl.Location = loc.LocPhysReg
    rl.LowReg = reg
    rl.Home = true
    return rl
}

func TestFrame_Promoted(t *testing.T) {
    f := newFrameLayout(promotedFrame(RBX))
    require.Equal(t, []promotedReg { { reg: RBX, slot: 2 } }, f.promoted)
    require.Equal(t, newFrameLayout(testFrame).size(), f.size())
    require.Panics(t, func() { newFrameLayout(promotedFrame(RAX)) })
    require.Panics(t, func() { newFrameLayout(promotedFrame(R15)) })
    dup := promotedFrame(R12)
    dup.Promotion[4] = dup.Promotion[2]
    require.Panics(t, func() { newFrameLayout(dup) })
}

func TestRegs_PromotedNotTemp(t *testing.T) {
    tg := newTarget(true)
    tg.Begin(lir.NewList(ISA), promotedFrame(RBX))
    for i := 0; i < len(coreTemps) - 1; i++ {
        require.NotEqual(t, RBX, tg.AllocTemp(false))
    }
    require.Panics(t, func() { tg.AllocTemp(false) })
}

func TestTarget_InvokeKeepsPromoted(t *testing.T) {
    tg := newTarget(true)
    l := lir.NewList(ISA)
    tg.Begin(l, promotedFrame(RBX))
    tg.GenInvoke(&codegen.CallInfo {
        Args   : []loc.RegLocation { promoted(2, RBX) },
        Result : promoted(2, RBX),
        Type   : codegen.InvokeStatic,
        Index  : 3,
    })

    /* spilled before the call, reloaded after it, then the result */
    disp := tg.frame.vregDisp(2)
    var seq []string
    for _, p := range l.Instrs() {
        switch {
            case p.Opcode == CallT                                                    : seq = append(seq, "call")
            case p.Opcode == Mov32FR && p.Operands[0] == RBX && p.Operands[2] == disp : seq = append(seq, "spill")
            case p.Opcode == Mov32RF && p.Operands[0] == RBX && p.Operands[2] == disp : seq = append(seq, "reload")
            case p.Opcode == Mov32RR && p.Operands[0] == RBX && p.Operands[1] == RAX  : seq = append(seq, "result")
        }
    }
    require.Equal(t, []string { "spill", "call", "reload", "result" }, seq)
}

func TestEntrypoint_Offsets(t *testing.T) {
    for ep := Entrypoint(0); ep < NumEntrypoints; ep++ {
        v, ok := EntrypointAt(ep.Offset())
        require.True(t, ok)
        require.Equal(t, ep, v)
        require.NotEmpty(t, ep.String())
    }
    _, ok := EntrypointAt(ThreadException)
    require.False(t, ok)
    _, ok = EntrypointAt(pTestSuspend.Offset() + 4)
    require.False(t, ok)
}

func TestRegs_MirrorReuse(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.GenArithOpInt(codegen.OpAdd, core(2), core(0), core(1))
    tg.ResetRegPool()
    tg.GenArithOpInt(codegen.OpAdd, core(3), core(2), core(0))
    require.Equal(t, 2, count(l, Mov32RF))
    require.Equal(t, 2, count(l, Mov32FR))
    tg.ResetRegPool()
    tg.ClobberAllRegs()
    tg.GenCopy(core(1), core(3))
    require.Equal(t, 3, count(l, Mov32RF))
}

func TestRegs_DeadStore(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.GenConst(core(0), 1)
    tg.ResetRegPool()
    tg.GenConst(core(0), 2)
    st := l.Instrs()
    require.Equal(t, 1, count(l, Mov32FR))
    require.Equal(t, Mov32FR, st[len(st) - 1].Opcode)
    require.Equal(t, 2, st[len(st) - 2].Operands[1])
}

func TestRegs_StoreAfterBranchIsKept(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.GenConst(core(0), 1)
    tg.ResetRegPool()
    tg.GenUnconditionalBranch(tg.label())
    tg.GenConst(core(0), 2)
    require.Equal(t, 2, count(l, Mov32FR))
}

func TestRegs_OutOfTemps(t *testing.T) {
    tg, _ := newTestTarget(true)
    require.Panics(t, func() {
        for i := 0; i <= len(coreTemps); i++ {
            tg.AllocTemp(false)
        }
    })
    tg.ResetRegPool()
    require.Equal(t, XMM0, tg.AllocTemp(true))
}

func TestTarget_EntrySequence(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.GenEntrySequence([]loc.RegLocation { ref(4), wide(5), wide(5).High() }, loc.BadLoc)
    require.Equal(t, []lir.Opcode { Sub64SP, Mov64FR, Mov32RM, Mov32FR, Mov64RM, Mov64FR }, ops(l))
    ins := l.Instrs()
    require.Equal(t, lir.PseudoEntryBlock, ins[0].Opcode)
    require.Equal(t, 56, ins[1].Operands[0])
    require.Equal(t, RSI, ins[3].Operands[1])
    require.Equal(t, 4, ins[5].Operands[2])
    require.Equal(t, tg.frame.vregDisp(5), ins[6].Operands[2])
}

func TestTarget_SuspendLaunchpad(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.GenSuspendTest(codegen.IgnoreSuspendCheck)
    require.Empty(t, ops(l))
    tg.GenSuspendTest(0)
    tg.HandleSuspendLaunchpads()
    require.Equal(t, []lir.Opcode { Cmp32TI, Jcc, CallT, Jmp }, ops(l))
    jcc := find(l, Jcc)
    require.Equal(t, lir.PseudoSuspendTarget, jcc.Target.Opcode)
    require.Equal(t, "jne", jcc.Comment)
    require.Equal(t, jcc.Next, find(l, Jmp).Target)
    require.Equal(t, []Entrypoint { pTestSuspend }, calls(l))
}

func TestTarget_ThrowLaunchpads(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.GenArrayGet(0, codegen.Word, ref(0), core(1), core(2), 2)
    tg.HandleThrowLaunchpads()
    require.Equal(t, []Entrypoint { pThrowNullPointer, pThrowArrayBounds }, calls(l))
    require.Equal(t, 1, count(l, Mov32RA))

    /* no checks at all */
    tg, l = newTestTarget(true)
    tg.GenArrayGet(codegen.IgnoreNullCheck | codegen.IgnoreRangeCheck, codegen.Word, ref(0), core(1), core(2), 2)
    tg.HandleThrowLaunchpads()
    require.Empty(t, calls(l))
    require.Zero(t, count(l, Jcc))
}

func TestTarget_ArrayScale(t *testing.T) {
    tg, _ := newTestTarget(true)
    require.Panics(t, func() { tg.GenArrayGet(0, codegen.Long, ref(0), core(1), wide(2), 2) })
}

func TestTarget_DivideByLiteralZero(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.GenArithOpIntLit(codegen.OpDiv, core(1), core(0), 0)
    tg.HandleThrowLaunchpads()
    require.Equal(t, []lir.Opcode { Jmp, CallT }, ops(l))
    require.Equal(t, []Entrypoint { pThrowDivZero }, calls(l))
}

func TestTarget_DivideChecksZero(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.GenArithOpInt(codegen.OpRem, core(2), core(0), core(1))
    require.Equal(t, 1, count(l, Test32RR))
    require.Equal(t, []Entrypoint { pIrem }, calls(l))
}

func TestTarget_FloatingPoint(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.GenArithOpFloat(codegen.OpAdd, float(2), float(0), float(1))
    require.Equal(t, 1, count(l, AddssRR))
    require.Equal(t, 2, count(l, MovssRF))
    require.Empty(t, calls(l))

    /* soft float calls the runtime */
    tg, l = newTestTarget(false)
    tg.GenArithOpFloat(codegen.OpAdd, float(2), float(0), float(1))
    require.Zero(t, count(l, AddssRR))
    require.Equal(t, []Entrypoint { pFadd }, calls(l))

    /* remainders are never inlined */
    tg, l = newTestTarget(true)
    tg.GenArithOpFloat(codegen.OpRem, float(2), float(0), float(1))
    require.Equal(t, []Entrypoint { pFmodf }, calls(l))
}

func TestTarget_Invoke(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.GenInvoke(&codegen.CallInfo {
        Args   : []loc.RegLocation { ref(0), wide(1), wide(1).High() },
        Result : core(3),
        Type   : codegen.InvokeVirtual,
        Index  : 12,
    })
    require.Equal(t, []Entrypoint { pInvokeVirtual }, calls(l))
    require.Equal(t, 1, count(l, Test32RR))
    require.Equal(t, 1, count(l, Mov64FR))
    require.Equal(t, Lea64RF, find(l, Lea64RF).Opcode)
    require.Panics(t, func() {
        tg.GenInvoke(&codegen.CallInfo { Args: make([]loc.RegLocation, 5), Result: loc.BadLoc })
    })
}

func TestTarget_InlineStringCharAt(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.Inline(7, InlineStringCharAt)
    tg.GenInvoke(&codegen.CallInfo {
        Args   : []loc.RegLocation { ref(0), core(1) },
        Result : core(2),
        Type   : codegen.InvokeVirtual,
        Index  : 7,
    })
    require.Equal(t, 1, count(l, Movzx16RA))
    require.Empty(t, calls(l))

    /* the slow path calls the real method */
    tg.HandleIntrinsicLaunchpads()
    require.Equal(t, []Entrypoint { pInvokeVirtual }, calls(l))
    var jmp *lir.LIR
    for _, p := range l.Instrs() {
        if p.Opcode == Jmp {
            jmp = p
        }
    }
    require.NotNil(t, jmp)
    require.Equal(t, lir.PseudoTargetLabel, jmp.Target.Opcode)
    require.Equal(t, lir.PseudoIntrinsicRetry, find(l, lir.PseudoIntrinsicRetry).Opcode)
}

func TestTarget_InlineShapeMismatch(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.Inline(7, InlineStringLength)
    tg.GenInvoke(&codegen.CallInfo {
        Args   : []loc.RegLocation { ref(0) },
        Result : loc.BadLoc,
        Type   : codegen.InvokeVirtual,
        Index  : 7,
    })
    require.Equal(t, []Entrypoint { pInvokeVirtual }, calls(l))
}

func TestTarget_Unsupported(t *testing.T) {
    tg, _ := newTestTarget(true)
    require.Panics(t, func() { tg.GenArithOpFloat(codegen.OpNeg, float(1), float(0), loc.BadLoc) })
    require.Panics(t, func() { tg.GenShiftOpLong(codegen.OpAdd, wide(0), wide(2), core(4)) })
}

func TestAssemble_ReturnConstant(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.GenEntrySequence(nil, loc.BadLoc)
    tg.GenConst(core(0), 42)
    tg.ResetRegPool()
    tg.GenReturn(core(0))
    tg.GenExitSequence()

    /* decode it back */
    code := Assemble(l)
    ins, err := Decode(code)
    require.NoError(t, err)
    require.Equal(t, x86asm.SUB, ins[0].Op)
    require.Equal(t, x86asm.RET, ins[len(ins) - 1].Op)
    require.Equal(t, x86asm.ADD, ins[len(ins) - 2].Op)
}

func TestAssemble_Launchpads(t *testing.T) {
    tg, l := newTestTarget(true)
    tg.GenSuspendTest(0)
    tg.GenArrayLength(0, core(1), ref(0))
    tg.GenExitSequence()
    tg.HandleSuspendLaunchpads()
    tg.HandleThrowLaunchpads()

    /* every helper call is named in the listing */
    code := Assemble(l)
    asm, err := Disassemble(code)
    require.NoError(t, err)
    require.True(t, strings.Contains(asm, "# pTestSuspend"), asm)
    require.True(t, strings.Contains(asm, "# pThrowNullPointer"), asm)
    require.True(t, strings.Contains(asm, "ret"), asm)
}

func TestAssemble_ForeignList(t *testing.T) {
    require.Panics(t, func() { Assemble(lir.NewList(&lir.ISA { Name: "other" })) })
}
