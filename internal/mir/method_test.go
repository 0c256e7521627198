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
    `strings`
    `testing`

    `github.com/davecgh/go-spew/spew`
    `github.com/stretchr/testify/require`

    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/utils`
)

func ids(bbs []*BasicBlock) []int {
    ret := make([]int, len(bbs))
    for i, bb := range bbs {
        ret[i] = bb.Id
    }
    return ret
}

func TestMethod_LoadYAML(t *testing.T) {
    m, err := LoadYAMLFile("testdata/add.yaml")
    require.NoError(t, err)
    require.Equal(t, "LTest;.add", m.Name)
    require.True(t, m.IsStatic())
    require.Equal(t, 4, m.NumSSARegs)
    require.Equal(t, 3, m.NumDalvikRegisters())
    require.Len(t, m.PromotionMap, 4)
    require.Equal(t, 0, m.Entry.Id)
    require.Equal(t, 2, m.Exit.Id)
    p := m.Block(1).First
    require.Equal(t, OP_add_int, p.Insn.Opcode)
    require.Equal(t, []int { 3 }, p.SSA.Defs)
    require.Equal(t, []int { 1, 2 }, p.SSA.Uses)
    vreg, sub := m.SSAName(3)
    require.Equal(t, 0, vreg)
    require.Equal(t, 1, sub)
    sreg, ok := m.VRegSSA(2, 0)
    require.True(t, ok)
    require.Equal(t, 2, sreg)
    t.Log(spew.Sdump(m.RegLocations[3]))
}

func TestMethod_WideArguments(t *testing.T) {
    m, err := LoadYAMLFile("testdata/wide.yaml")
    require.NoError(t, err)
    lo := m.Loc(2)
    hi := m.Loc(3)
    require.True(t, lo.Wide)
    require.False(t, lo.HighWord)
    require.True(t, hi.HighWord)
    require.True(t, m.Loc(4).Core)
    p := m.Block(1).First
    rl := m.GetSrcWide(p, 0)
    require.Equal(t, 2, rl.OrigSReg)
    require.Equal(t, 4, m.GetSrc(p, 2).OrigSReg)
    require.Equal(t, 5, m.GetDestWide(p).OrigSReg)
    require.Panics(t, func() { m.GetSrc(p, 0) })
}

func TestMethod_BadPair(t *testing.T) {
    m, err := LoadYAMLFile("testdata/wide.yaml")
    require.NoError(t, err)
    p := &MIR { SSA: &SSARep { Uses: []int { 2, 4 } } }
    var e error
    func() {
        defer utils.Recover(&e)
        m.GetSrcWide(p, 0)
    }()
    require.Error(t, e)
    require.True(t, utils.IsInvariant(e))
}

func TestMethod_PreOrder(t *testing.T) {
    m, err := LoadYAMLFile("testdata/loop.yaml")
    require.NoError(t, err)
    require.Equal(t, []int { 0, 1, 2, 3, 4, 5 }, ids(m.PreOrder()))
    m, err = LoadYAMLFile("testdata/max.yaml")
    require.NoError(t, err)
    require.Equal(t, []int { 0, 1, 2, 4, 3 }, ids(m.PreOrder()))
}

func TestMethod_ReachableSet(t *testing.T) {
    b := NewBuilder("LTest;.dead", "V", 1, 0, true)
    entry := b.Block(BlockEntry, 0, 0)
    live := b.Block(BlockNormal, 1, 0)
    dead := b.Block(BlockNormal, 2, 4)
    exit := b.Block(BlockExit, 3, 6)
    b.FallThrough(entry, live)
    b.FallThrough(live, exit)
    b.Taken(live, live)
    b.FallThrough(dead, exit)
    b.Emit(live, 0, Insn { Opcode: OP_return_void }, nil, nil)
    m, err := b.Build()
    require.NoError(t, err)
    require.Equal(t, map[int]bool { 0: true, 1: true, 3: true }, m.ReachableSet())
    require.Equal(t, []int { 0, 1, 3 }, ids(m.PreOrder()))
}

func TestMethod_NewCallInfo(t *testing.T) {
    m, err := LoadYAMLFile("testdata/invoke.yaml")
    require.NoError(t, err)
    bb := m.Block(1)
    ins := bb.Instrs()
    consumed := make(map[*MIR]bool)

    /* result not used */
    ci := m.NewCallInfo(bb, ins[0], InvokeStatic, false, consumed)
    require.Empty(t, ci.Args)
    require.False(t, ci.Result.Valid())
    require.Empty(t, consumed)

    /* result consumed by the following move-result */
    ci = m.NewCallInfo(bb, ins[2], InvokeVirtual, false, consumed)
    require.Equal(t, 3, ci.NumArgWords())
    require.True(t, ci.Args[0].Ref)
    require.True(t, ci.Args[1].Wide)
    require.Equal(t, uint32(9), ci.Index)
    require.Equal(t, ins[3], ci.MoveResult)
    require.True(t, consumed[ins[3]])
    require.Equal(t, OP_move_result, ins[3].Insn.Opcode)
    require.True(t, ci.Result.Core)
}

func TestMethod_CompilerTemp(t *testing.T) {
    b := NewBuilder("LTest;.temp", "V", 1, 0, true)
    s := b.CompilerTemp(loc.KindCore)
    b.Block(BlockEntry, 0, 0)
    m, err := b.Build()
    require.NoError(t, err)
    require.Equal(t, -1, m.SRegToVReg(s))
    require.Equal(t, 1, m.NumCompilerTemps)
    require.Len(t, m.PromotionMap, 3)
}

func TestPromotion_Pack(t *testing.T) {
    p := PromotionMap {
        CoreLocation : loc.LocPhysReg,
        FPLocation   : loc.LocDalvikFrame,
        CoreReg      : 5,
        FPReg        : loc.InvalidReg,
        FirstInPair  : true,
    }
    v := p.Pack()
    require.Equal(t, int32(0x01ff0501), v)
    require.Equal(t, p, UnpackPromotion(v))
}

func TestLoadYAML_Errors(t *testing.T) {
    _, err := LoadYAMLFile("testdata/missing.yaml")
    require.Error(t, err)
    for _, src := range []string {
        "name: x\nshorty: V\nblocks:\n  - { id: 0, kind: entry, fallthrough: 9 }\n",
        "name: x\nshorty: V\nblocks:\n  - { id: 0, kind: bogus }\n",
        "name: x\nshorty: V\nblocks:\n  - id: 0\n    kind: entry\n    insns:\n      - { op: frobnicate }\n",
        "name: x\nshorty: V\nregs: 1\nblocks:\n  - id: 0\n    kind: entry\n    insns:\n      - { op: return, uses: [v0_7] }\n",
        "name: x\nshorty: V\nblocks:\n  - { id: 1 }\n",
    } {
        _, err = LoadYAML(strings.NewReader(src))
        require.Error(t, err, src)
    }
}
