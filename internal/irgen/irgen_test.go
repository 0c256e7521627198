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

package irgen

import (
    `fmt`
    `strings`
    `testing`

    `github.com/brianvoe/gofakeit/v6`
    `github.com/stretchr/testify/require`

    `github.com/cloudwego/mirbridge/internal/intrinsic`
    `github.com/cloudwego/mirbridge/internal/ir`
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
    `github.com/cloudwego/mirbridge/internal/opts`
    `github.com/cloudwego/mirbridge/internal/utils`
)

func release() *opts.Options {
    return &opts.Options{}
}

func development() *opts.Options {
    return &opts.Options { Development: true }
}

func loadFixture(t *testing.T, name string) *mir.Method {
    m, err := mir.LoadYAMLFile("../mir/testdata/" + name + ".yaml")
    require.NoError(t, err)
    return m
}

func lowerFixture(t *testing.T, name string) *ir.Function {
    fn, rep, err := Lower(loadFixture(t, name), release())
    require.NoError(t, err)
    require.False(t, rep.Incomplete)
    t.Log("\n" + fn.String())
    return fn
}

func blockNames(fn *ir.Function) []string {
    ret := make([]string, len(fn.Blocks))
    for i, bb := range fn.Blocks {
        ret[i] = bb.Name
    }
    return ret
}

func calls(bb *ir.BasicBlock) []intrinsic.Id {
    var ret []intrinsic.Id
    for _, ins := range bb.Instrs {
        if id, ok := ins.Intrinsic(); ok {
            ret = append(ret, id)
        }
    }
    return ret
}

func TestLower_Add(t *testing.T) {
    fn := lowerFixture(t, "add")
    require.Equal(t, []string { loc.EntryName, "L0x0_1" }, blockNames(fn))
    require.Equal(t, ir.I32, fn.Ret)
    require.Len(t, fn.Args, 3)
    require.Equal(t, loc.MethodName, fn.Args[0].Name())
    require.Equal(t, "v1_0", fn.Args[1].Name())
    entry := fn.Blocks[0].Instrs
    require.Len(t, entry, 2)
    require.NotNil(t, entry[0].Info)
    require.False(t, entry[0].HasOffset())
    require.Equal(t, ir.OP_br, entry[1].Op)
    require.Same(t, fn.Info, entry[0].Info)
    require.Equal(t, int32(1), fn.Info.RegInfo.NumRegs)
    require.Equal(t, int32(2), fn.Info.RegInfo.NumIns)
    require.Len(t, fn.Info.PromotionMap, 4)
    text := fn.String()
    require.Contains(t, text, "%v0_1 = add i32 %v1_0, i32 %v2_0    ; 0x0")
    require.Contains(t, text, "ret i32 %v0_1    ; 0x2")
    require.NotContains(t, text, "check_suspend")
    rl, ok := fn.Loc(fn.Blocks[1].Instrs[0])
    require.True(t, ok)
    require.Equal(t, 0, rl.VReg)
    require.Equal(t, 1, rl.Subscript)
}

func TestLower_Loop(t *testing.T) {
    fn := lowerFixture(t, "loop")
    require.Equal(t, []string { loc.EntryName, "L0x0_1", "L0x2_2", "L0x4_3", "L0x8_4" }, blockNames(fn))
    text := fn.String()
    require.Contains(t, text, "%v0_2 = phi i32 [ %v0_1, %L0x0_1 ], [ %v0_3, %L0x4_3 ]")
    require.Contains(t, text, "%v1_2 = phi i32 [ %v1_1, %L0x0_1 ], [ %v1_3, %L0x4_3 ]")
    require.Contains(t, text, "%t0 = icmp sge i32 %v1_2, i32 %v2_0")
    require.Contains(t, text, "br i1 %t0, label %L0x8_4, label %L0x4_3")
    require.Contains(t, text, "%v1_3 = add i32 %v1_2, i32 1")
    require.NotContains(t, text, "?")
    body := fn.Block("L0x4_3")
    require.Equal(t, []intrinsic.Id { intrinsic.CheckSuspend }, calls(body))
    require.Equal(t, ir.OP_br, body.Terminator().Op)
    require.Equal(t, "L0x2_2", body.Terminator().Targets[0].Name)
    require.Empty(t, calls(fn.Block("L0x2_2")))
    require.NoError(t, fn.Verify())
}

const doWhile = `
name: LTest;.count
shorty: II
static: true
leaf: true
regs: 1
ins: 1
ssa:
  - { vreg: 0, kind: core }   # v0_1
  - { vreg: 0, kind: core }   # v0_2
  - { vreg: 0, kind: core }   # v0_3
blocks:
  - { id: 0, kind: entry, offset: 0, fallthrough: 1 }
  - id: 1
    offset: 0
    fallthrough: 2
    insns:
      - { op: const/4, offset: 0, a: 0, b: 0, defs: [v0_1] }
  - id: 2
    offset: 1
    fallthrough: 3
    taken: 2
    insns:
      - { op: phi, offset: 1, defs: [v0_2], uses: [v0_1, v0_3], incoming: [1, 2] }
      - { op: add-int/lit8, offset: 1, a: 0, b: 0, c: 1, defs: [v0_3], uses: [v0_2] }
      - { op: if-lt, offset: 3, a: 0, b: 1, c: 0xfe, uses: [v0_3, v1_0] }
  - id: 3
    offset: 5
    fallthrough: 4
    insns:
      - { op: return, offset: 5, a: 0, uses: [v0_3] }
  - { id: 4, kind: exit, offset: 6 }
`

func TestLower_BackwardCompareBranch(t *testing.T) {
    m, err := mir.LoadYAML(strings.NewReader(doWhile))
    require.NoError(t, err)
    fn, rep, err := Lower(m, release())
    require.NoError(t, err)
    require.False(t, rep.Incomplete)
    require.Equal(t, []string { loc.EntryName, "L0x0_1", "L0x1_2", "L0x5_3" }, blockNames(fn))

    /* the suspend check sits right before the compare and the branch */
    body := fn.Block("L0x1_2").Instrs
    require.GreaterOrEqual(t, len(body), 3)
    tail := body[len(body) - 3:]
    id, ok := tail[0].Intrinsic()
    require.True(t, ok)
    require.Equal(t, intrinsic.CheckSuspend, id)
    require.Equal(t, ir.OP_icmp, tail[1].Op)
    require.Equal(t, "%t0 = icmp slt i32 %v0_3, i32 %v1_0    ; 0x3", tail[1].Format())
    require.Equal(t, ir.OP_condbr, tail[2].Op)
    require.Equal(t, "br i1 %t0, label %L0x1_2, label %L0x5_3    ; 0x3", tail[2].Format())
    require.NoError(t, fn.Verify())
}

func TestLower_ForwardCompareBranch(t *testing.T) {
    fn := lowerFixture(t, "max")
    for _, bb := range fn.Blocks {
        require.NotContains(t, calls(bb), intrinsic.CheckSuspend, bb.Name)
    }
}

func TestLower_Max(t *testing.T) {
    fn := lowerFixture(t, "max")
    text := fn.String()
    require.Contains(t, text, "br i1 %t0, label %L0x3_3, label %L0x2_2")
    require.Contains(t, text, "ret i32 %v1_0")
    require.Contains(t, text, "ret i32 %v0_0")
    for _, bb := range fn.Blocks {
        require.NotNil(t, bb.Terminator(), bb.Name)
    }
}

func TestLower_Object(t *testing.T) {
    fn := lowerFixture(t, "object")
    require.Equal(t, ir.Void, fn.Ret)
    require.Equal(t, []ir.Type { ir.Method, ir.Object, ir.I32 }, []ir.Type { fn.Args[0].Type(), fn.Args[1].Type(), fn.Args[2].Type() })
    require.Equal(t, []intrinsic.Id { intrinsic.MethodInfo, intrinsic.AllocaShadowFrame }, calls(fn.Blocks[0]))
    require.Equal(t, []intrinsic.Id {
        intrinsic.NewInstance,
        intrinsic.SetShadowFrameEntry,
        intrinsic.HLIPut,
        intrinsic.CheckSuspend,
        intrinsic.PopShadowFrame,
    }, calls(fn.Blocks[1]))
    text := fn.String()
    require.Contains(t, text, "call void @alloca_shadow_frame(i32 2)")
    require.Contains(t, text, "%v0_1 = call object @new_instance(i32 5)")
    require.Contains(t, text, "call void @set_shadow_frame_entry(object %v0_1, i32 0)")
    require.Contains(t, text, "call void @hl_iput(i32 0, i32 %v2_0, object %v0_1, i32 7)")
    require.Contains(t, text, "ret void")
}

func TestLower_Wide(t *testing.T) {
    fn := lowerFixture(t, "wide")
    require.Equal(t, ir.I64, fn.Ret)
    require.Equal(t, []ir.Type { ir.Method, ir.I64, ir.I32 }, []ir.Type { fn.Args[0].Type(), fn.Args[1].Type(), fn.Args[2].Type() })
    require.Equal(t, "v2_0", fn.Args[1].Name())
    require.Equal(t, "v4_0", fn.Args[2].Name())
    text := fn.String()
    require.Contains(t, text, "%t0 = zext i32 %v4_0 to i64")
    require.Contains(t, text, "%v0_1 = shl i64 %v2_0, i64 %t0")
    require.Contains(t, text, "%v2_1 = call i64 @const_long(i64 100)")
    require.Contains(t, text, "%v0_2 = add i64 %v0_1, i64 %v2_1")
    require.Contains(t, text, "ret i64 %v0_2")
}

func TestLower_Invoke(t *testing.T) {
    fn := lowerFixture(t, "invoke")
    text := fn.String()
    require.Contains(t, text, "call void @alloca_shadow_frame(i32 1)")
    require.Contains(t, text, "call void @hl_invoke_void(i32 0, i32 3, i32 0)")
    require.Contains(t, text, "%v0_2 = call i32 @hl_invoke_int(i32 2, i32 9, i32 0, object %v2_0, i64 %v0_1)")
    require.Contains(t, text, "ret i32 %v0_2")
    require.Equal(t, 1, strings.Count(text, "hl_invoke_int"))
    require.Equal(t, []intrinsic.Id {
        intrinsic.HLInvokeVoid,
        intrinsic.ConstLong,
        intrinsic.HLInvokeInt,
        intrinsic.CheckSuspend,
        intrinsic.PopShadowFrame,
    }, calls(fn.Blocks[1]))
}

const negFloat = `
name: LTest;.neg
shorty: FF
static: true
leaf: true
regs: 1
ins: 1
ssa:
  - { vreg: 0, kind: fp }
blocks:
  - { id: 0, kind: entry, offset: 0, fallthrough: 1 }
  - id: 1
    offset: 0
    fallthrough: 2
    insns:
      - { op: neg-float, offset: 0, a: 0, b: 1, defs: [v0_1], uses: [v1_0] }
      - { op: return, offset: 1, a: 0, uses: [v0_1] }
  - { id: 2, kind: exit, offset: 2 }
`

func TestLower_NotHandled(t *testing.T) {
    m, err := mir.LoadYAML(strings.NewReader(negFloat))
    require.NoError(t, err)
    fn, rep, err := Lower(m, release())
    require.Error(t, err)
    require.True(t, utils.IsUnsupported(err))
    require.Nil(t, fn)
    require.Nil(t, rep)
    require.Contains(t, err.Error(), "neg-float")
}

func TestLower_NotHandledDevelopment(t *testing.T) {
    m, err := mir.LoadYAML(strings.NewReader(negFloat))
    require.NoError(t, err)
    fn, rep, err := Lower(m, development())
    require.NoError(t, err)
    require.True(t, rep.Incomplete)
    require.Equal(t, []NotHandled {{ Offset: 0, Opcode: mir.OP_neg_float }}, rep.NotHandled)
    require.Contains(t, fn.String(), "ret float %v0_1?")
}

const strayMoveResult = `
name: LTest;.stray
shorty: I
static: true
regs: 1
ssa:
  - { vreg: 0, kind: core }
blocks:
  - { id: 0, kind: entry, offset: 0, fallthrough: 1 }
  - id: 1
    offset: 0
    fallthrough: 2
    insns:
      - { op: move-result, offset: 0, a: 0, defs: [v0_1] }
      - { op: return, offset: 1, a: 0, uses: [v0_1] }
  - { id: 2, kind: exit, offset: 2 }
`

func TestLower_StrayMoveResult(t *testing.T) {
    m, err := mir.LoadYAML(strings.NewReader(strayMoveResult))
    require.NoError(t, err)
    _, _, err = Lower(m, development())
    require.Error(t, err)
    require.True(t, utils.IsInvariant(err))
}

func constMethod(t *testing.T, op mir.Opcode, vb uint32) *mir.Method {
    b := mir.NewBuilder("LTest;.k", "I", 1, 0, true)
    s := b.SSA(loc.KindCore, 0, false)
    entry := b.Block(mir.BlockEntry, 0, 0)
    body := b.Block(mir.BlockNormal, 1, 0)
    exit := b.Block(mir.BlockExit, 2, 4)
    b.FallThrough(entry, body)
    b.FallThrough(body, exit)
    b.Emit(body, 0, mir.Insn { Opcode: op, VB: vb }, []int { s }, nil)
    b.Emit(body, 3, mir.Insn { Opcode: mir.OP_return }, nil, []int { s })
    m, err := b.Build()
    require.NoError(t, err)
    return m
}

func TestLower_RandomConstants(t *testing.T) {
    fk := gofakeit.New(20221014)
    for i := 0; i < 200; i++ {
        v := fk.Int32()
        fn, _, err := Lower(constMethod(t, mir.OP_const, uint32(v)), release())
        require.NoError(t, err)
        require.Contains(t, fn.String(), fmt.Sprintf("%%v0_1 = call i32 @const_int(i32 %d)", v))
        h := fk.Uint16()
        fn, _, err = Lower(constMethod(t, mir.OP_const_high16, uint32(h)), release())
        require.NoError(t, err)
        require.Contains(t, fn.String(), fmt.Sprintf("@const_int(i32 %d)", int32(uint32(h) << 16)))
    }
}

func TestShadowMap_Order(t *testing.T) {
    m := loadFixture(t, "object")
    sm := BuildShadowMap(m, m.ReachableSet())
    require.Equal(t, []int { 0, 1 }, sm.Slots())
    require.Equal(t, 1, sm.Slot(1))
    require.Panics(t, func() { sm.Slot(2) })
}

const guarded = `
name: LTest;.guarded
shorty: V
static: true
regs: 2
ins: 0
ssa:
  - { vreg: 0, kind: ref }    # v0_1
  - { vreg: 1, kind: ref }    # v1_1
blocks:
  - { id: 0, kind: entry, offset: 0, fallthrough: 1 }
  - id: 1
    offset: 0
    fallthrough: 2
    successors: [3]
    insns:
      - { op: new-instance, offset: 0, a: 0, b: 5, defs: [v0_1] }
      - { op: return-void, offset: 2 }
  - id: 3
    kind: exception-handling
    offset: 3
    fallthrough: 2
    insns:
      - { op: new-instance, offset: 3, a: 1, b: 5, defs: [v1_1] }
  - { id: 2, kind: exit, offset: 5 }
`

func TestShadowMap_LoweredBlocksOnly(t *testing.T) {
    m, err := mir.LoadYAML(strings.NewReader(guarded))
    require.NoError(t, err)
    require.True(t, m.ReachableSet()[3])
    sm := BuildShadowMap(m, m.ReachableSet())
    require.Equal(t, []int { 0 }, sm.Slots())
    require.Panics(t, func() { sm.Slot(1) })
}

func TestLower_Counters(t *testing.T) {
    n := MethodCount
    a := AbortCount
    lowerFixture(t, "add")
    m, err := mir.LoadYAML(strings.NewReader(negFloat))
    require.NoError(t, err)
    _, _, err = Lower(m, release())
    require.Error(t, err)
    require.Equal(t, n + 2, MethodCount)
    require.Equal(t, a + 1, AbortCount)
}
