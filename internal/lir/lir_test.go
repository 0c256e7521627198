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
    `testing`

    `github.com/stretchr/testify/require`
)

const (
    tLoad Opcode = iota
    tStore
    tLoad64
    tStore64
    tMov
    tAdd
    tJmp
    tJcc
    tCall
    tRet
)

const (
    tSP = 15
)

var testISA = &ISA {
    Name: "test",
    Encodings: []Encoding {
        tLoad    : { Name: "ld",   Flags: FrameRef | IsLoad | RegDef0 | RegUse1,           Format: "!0r, [!1r+!2d]" },
        tStore   : { Name: "st",   Flags: FrameRef | IsStore | RegUse0 | RegUse1,          Format: "[!1r+!2d], !0r" },
        tLoad64  : { Name: "ld64", Flags: FrameRef | IsLoad | IsWide | RegDef0 | RegUse1,  Format: "!0r, [!1r+!2d]" },
        tStore64 : { Name: "st64", Flags: FrameRef | IsStore | IsWide | RegUse0 | RegUse1, Format: "[!1r+!2d], !0r" },
        tMov     : { Name: "mov",  Flags: RegDef0 | RegUse1,                               Format: "!0r, !1r" },
        tAdd     : { Name: "add",  Flags: RegDef0 | RegUse0 | RegUse1 | SetsCCodes,        Format: "!0r, !1r" },
        tJmp     : { Name: "jmp",  Flags: IsBranch | NoFallThrough,                        Format: "!0t" },
        tJcc     : { Name: "jcc",  Flags: IsBranch | UsesCCodes,                           Format: "!0d, !0t" },
        tCall    : { Name: "call", Flags: IsCall,                                          Format: "!0x" },
        tRet     : { Name: "ret",  Flags: NoFallThrough },
    },
    RegName: func(reg int) string {
        if reg == tSP {
            return "sp"
        } else {
            return fmt.Sprintf("r%d", reg)
        }
    },
}

func init() {
    Register(testISA)
}

func newTestList() *List {
    return NewList(testISA)
}

func nops(l *List) []bool {
    var ret []bool
    for p := l.Head; p != nil; p = p.Next {
        if !p.Opcode.IsPseudo() {
            ret = append(ret, p.Nop)
        }
    }
    return ret
}

func TestISA_Lookup(t *testing.T) {
    isa, ok := LookupISA("test")
    require.True(t, ok)
    require.Same(t, testISA, isa)
    require.Panics(t, func() { Register(&ISA { Name: "test" }) })
    require.Equal(t, "-boundary", isa.Encoding(PseudoDalvikByteCodeBoundary).Name)
    require.Panics(t, func() { isa.Encoding(Opcode(100)) })
}

func TestList_Masks(t *testing.T) {
    l := newTestList()
    ld := l.Emit(tLoad, 1, tSP, 8)
    st := l.Emit(tStore, 2, tSP, 12)
    add := l.Emit(tAdd, 1, 2)
    call := l.Emit(tCall, 0x40)
    require.Equal(t, RegMask(1), ld.DefMask)
    require.Equal(t, RegMask(tSP) | MaskFrame, ld.UseMask)
    require.Equal(t, MaskFrame, st.DefMask)
    require.Equal(t, RegMask(2) | RegMask(tSP), st.UseMask)
    require.Equal(t, RegMask(1) | MaskCCodes, add.DefMask)
    require.Equal(t, MaskAll, call.DefMask)
    require.Equal(t, 4, l.Count)
}

func TestList_Offsets(t *testing.T) {
    l := newTestList()
    l.SetOffset(0x10)
    b := l.Emit(PseudoDalvikByteCodeBoundary, 0x10)
    l.MarkBoundary(0x10, b)
    p := l.Emit(tMov, 1, 2)
    l.SetOffset(0x12)
    q := l.Emit(tMov, 2, 1)
    require.Equal(t, 0x10, p.Offset)
    require.Equal(t, 0x12, q.Offset)
    require.Same(t, b, l.Boundaries[0x10])
    require.Equal(t, 2, l.Count)
    require.Equal(t, []*LIR { b, p, q }, l.Instrs())
}

func TestList_InsertAfter(t *testing.T) {
    l := newTestList()
    a := l.Emit(tMov, 1, 2)
    c := l.Emit(tMov, 3, 4)
    b := l.InsertAfter(a, l.New(tMov, 2, 3))
    d := l.InsertAfter(c, l.New(tRet))
    require.Equal(t, []*LIR { a, b, c, d }, l.Instrs())
    require.Same(t, d, l.Tail)
    require.Same(t, c, d.Prev)
    require.Panics(t, func() { l.Append(b) })
}

func TestList_String(t *testing.T) {
    l := newTestList()
    l.SetOffset(4)
    lb := l.New(PseudoNormalBlockLabel, 0x4, 2)
    l.Emit(tLoad, 1, tSP, 8)
    l.EmitBranch(tJmp, lb)
    l.Append(lb)
    l.Emit(tRet).Comment = "done"
    require.Equal(t, "    ld r1, [sp+8]    ; 0x4\n    jmp L0x4_2    ; 0x4\nL0x4_2:\n    ret // done    ; 0x4\n", l.String())
}

func TestLocalOpt_StoreThenLoad(t *testing.T) {
    l := newTestList()
    head := l.Emit(PseudoDalvikByteCodeBoundary, 0)
    l.Emit(tStore, 1, tSP, 8)
    l.Emit(PseudoDalvikByteCodeBoundary, 2)
    l.Emit(tLoad, 1, tSP, 8)
    l.Emit(tLoad, 2, tSP, 8)
    ApplyLocalOptimizations(head, l.Tail)
    require.Equal(t, []bool { false, true, false }, nops(l))
}

func TestLocalOpt_RedefinedRegister(t *testing.T) {
    l := newTestList()
    head := l.Emit(tStore, 1, tSP, 8)
    l.Emit(tAdd, 1, 2)
    l.Emit(tLoad, 1, tSP, 8)
    ApplyLocalOptimizations(head, l.Tail)
    require.Equal(t, []bool { false, false, false }, nops(l))
}

func TestLocalOpt_DuplicateLoad(t *testing.T) {
    l := newTestList()
    head := l.Emit(tLoad, 3, tSP, 16)
    l.Emit(tMov, 4, 3)
    l.Emit(tLoad, 3, tSP, 16)
    l.Emit(tStore, 4, tSP, 16)
    l.Emit(tLoad, 3, tSP, 16)
    ApplyLocalOptimizations(head, l.Tail)
    require.Equal(t, []bool { false, false, true, false, false }, nops(l))
}

func TestLocalOpt_DeadStore(t *testing.T) {
    l := newTestList()
    head := l.Emit(tStore, 1, tSP, 8)
    l.Emit(tAdd, 1, 2)
    l.Emit(tStore, 1, tSP, 8)
    ApplyLocalOptimizations(head, l.Tail)
    require.Equal(t, []bool { true, false, false }, nops(l))
}

func TestLocalOpt_StoreKeptByRead(t *testing.T) {
    l := newTestList()
    head := l.Emit(tStore, 1, tSP, 8)
    l.Emit(tLoad64, 2, tSP, 4)
    l.Emit(tStore, 1, tSP, 8)
    ApplyLocalOptimizations(head, l.Tail)
    require.Equal(t, []bool { false, false, false }, nops(l))
}

func TestLocalOpt_PartialOverwrite(t *testing.T) {
    l := newTestList()
    head := l.Emit(tStore64, 1, tSP, 8)
    l.Emit(tStore, 2, tSP, 12)
    l.Emit(tLoad64, 1, tSP, 8)
    ApplyLocalOptimizations(head, l.Tail)
    require.Equal(t, []bool { false, false, false }, nops(l))
}

func TestLocalOpt_Barriers(t *testing.T) {
    for _, barrier := range []func(*List) {
        func(l *List) { l.Emit(tCall, 0x10) },
        func(l *List) { l.Emit(PseudoTargetLabel) },
        func(l *List) { l.Emit(PseudoBarrier) },
        func(l *List) { l.EmitBranch(tJcc, l.Head, 0) },
    } {
        l := newTestList()
        head := l.Emit(tStore, 1, tSP, 8)
        barrier(l)
        l.Emit(tLoad, 1, tSP, 8)
        l.Emit(tStore, 1, tSP, 8)
        ApplyLocalOptimizations(head, l.Tail)
        require.False(t, head.Nop)
        require.False(t, l.Tail.Nop)
        require.False(t, l.Tail.Prev.Nop)
    }
}

func TestLocalOpt_Range(t *testing.T) {
    l := newTestList()
    head := l.Emit(tStore, 1, tSP, 8)
    tail := l.Emit(tMov, 3, 4)
    l.Emit(tLoad, 1, tSP, 8)
    ApplyLocalOptimizations(head, tail)
    require.Equal(t, []bool { false, false, false }, nops(l))
}

func TestRemoveRedundantBranches(t *testing.T) {
    l := newTestList()
    l1 := l.New(PseudoNormalBlockLabel, 0x2, 1)
    l2 := l.New(PseudoNormalBlockLabel, 0x6, 2)
    l.Emit(tMov, 1, 2)
    j1 := l.EmitBranch(tJmp, l2)
    j2 := l.EmitBranch(tJmp, l1)
    l.Emit(PseudoDalvikByteCodeBoundary, 0x2)
    l.Append(l1)
    l.Append(l2)
    l.Emit(tRet)
    require.Equal(t, 2, RemoveRedundantBranches(l))
    require.True(t, j1.Nop)
    require.True(t, j2.Nop)
}

func TestRemoveRedundantBranches_Kept(t *testing.T) {
    l := newTestList()
    lb := l.New(PseudoNormalBlockLabel, 0x2, 1)
    j1 := l.EmitBranch(tJmp, lb)
    l.Emit(PseudoBarrier)
    l.Append(lb)
    j2 := l.EmitBranch(tJmp, lb)
    l.Emit(tRet)
    require.Equal(t, 0, RemoveRedundantBranches(l))
    require.False(t, j1.Nop)
    require.False(t, j2.Nop)
}

func TestList_Free(t *testing.T) {
    l := newTestList()
    for i := 0; i < 16; i++ {
        l.Emit(tMov, i, i + 1)
    }
    l.Free()
    require.Nil(t, l.Head)
    require.Zero(t, l.Count)
    p := NewList(testISA).Emit(tRet)
    require.Nil(t, p.Prev)
    require.Nil(t, p.Next)
    require.Zero(t, p.Operands)
}
