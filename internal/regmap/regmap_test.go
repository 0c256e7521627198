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

package regmap

import (
    `testing`

    `github.com/stretchr/testify/require`

    `github.com/cloudwego/mirbridge/internal/ir`
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
    `github.com/cloudwego/mirbridge/internal/utils`
)

func newTestMethod(t *testing.T) (*mir.Method, *ir.Function, *ir.Builder) {
    b := mir.NewBuilder("LTest;.f", "IJ", 1, 2, true)
    b.SSA(loc.KindCore, 0, false)
    b.CompilerTemp(loc.KindCore)
    b.Block(mir.BlockEntry, 0, 0)
    m, err := b.Build()
    require.NoError(t, err)
    fn := ir.NewFunction(m.Name, ir.I32, ir.Method, ir.I64)
    fn.Args[0].SetName(loc.MethodName)
    bb := ir.NewBuilder(fn)
    bb.SetInsertPoint(fn.NewBlock(loc.EntryName))
    return m, fn, bb
}

func catch(fn func()) (err error) {
    defer utils.Recover(&err)
    fn()
    return
}

func TestRegistry_ForwardReference(t *testing.T) {
    m, fn, bb := newTestMethod(t)
    r := NewRegistry(m, fn)
    r.Define(1, fn.Args[1])
    require.Equal(t, "v1_0", fn.Args[1].Name())
    p := r.Get(3)
    require.IsType(t, (*ir.Placeholder)(nil), p)
    require.Equal(t, "v0_1", p.Name())
    require.Equal(t, ir.I32, p.Type())
    require.Equal(t, []int { 3 }, r.Pending())
    use := bb.CreateAdd(p, bb.Int32(1))
    def := bb.CreateMul(bb.Int32(2), bb.Int32(3))
    r.Define(3, def)
    require.True(t, r.Defined(3))
    require.Empty(t, r.Pending())
    require.Equal(t, ir.Value(def), use.Operand(0))
    require.Equal(t, ir.Value(def), r.Get(3))
    require.Equal(t, "v0_1", def.Name())
    rl, ok := fn.Loc(def)
    require.True(t, ok)
    require.Equal(t, 0, rl.VReg)
    require.Equal(t, 1, rl.Subscript)
}

func TestRegistry_DefineTwice(t *testing.T) {
    m, fn, bb := newTestMethod(t)
    r := NewRegistry(m, fn)
    r.Define(3, bb.CreateMul(bb.Int32(2), bb.Int32(3)))
    err := catch(func() { r.Define(3, bb.CreateMul(bb.Int32(2), bb.Int32(3))) })
    require.Error(t, err)
    require.True(t, utils.IsInvariant(err))
}

func TestRegistry_TypeMismatch(t *testing.T) {
    m, fn, bb := newTestMethod(t)
    r := NewRegistry(m, fn)
    r.Get(3)
    err := catch(func() { r.Define(3, bb.Int64(1)) })
    require.True(t, utils.IsInvariant(err))
}

func TestRegistry_Undefined(t *testing.T) {
    m, fn, _ := newTestMethod(t)
    r := NewRegistry(m, fn)
    require.True(t, utils.IsInvariant(catch(func() { r.Get(0) })))
    require.True(t, utils.IsInvariant(catch(func() { r.Get(4) })))
    require.True(t, utils.IsInvariant(catch(func() { r.Get(5) })))
    require.True(t, utils.IsInvariant(catch(func() { r.Get(-1) })))
}

func TestRegistry_CompilerTempName(t *testing.T) {
    m, fn, bb := newTestMethod(t)
    r := NewRegistry(m, fn)
    def := bb.CreateMul(bb.Int32(2), bb.Int32(3))
    r.Define(4, def)
    require.Equal(t, "c1_0", def.Name())

    /* the name alone is enough to find the register again */
    delete(fn.Locs, def)
    rl := NewLocMap(fn, m, new(countingAllocator)).Lookup(def)
    require.Equal(t, m.Loc(4), rl)
    rl = NewLocMap(fn, nil, new(countingAllocator)).Lookup(def)
    require.Equal(t, loc.LocCompilerTemp, rl.Location)
    require.Equal(t, -1, rl.VReg)
    require.Equal(t, 0, rl.Subscript)
}

func TestLocMap_Promote(t *testing.T) {
    m, fn, bb := newTestMethod(t)
    v := bb.CreateMul(bb.Int32(2), bb.Int32(3))
    v.SetName("v0_1")
    lm := NewLocMap(fn, m, new(countingAllocator))
    lm.Promote(func(vreg int) (int, bool) { return 3, vreg == 0 })
    rl := lm.Lookup(v)
    require.Equal(t, loc.LocPhysReg, rl.Location)
    require.Equal(t, 3, rl.LowReg)
    require.True(t, rl.Home)

    /* wide values stay in the frame */
    fn.Args[1].SetName("v1_0")
    lm = NewLocMap(fn, nil, new(countingAllocator))
    lm.Promote(func(int) (int, bool) { return 3, true })
    require.Equal(t, loc.LocDalvikFrame, lm.Lookup(fn.Args[1]).Location)
}

type countingAllocator int

func (self *countingAllocator) AllocTemp(_ bool) int {
    *self++
    return int(*self) - 1
}

func TestLocMap_SideTable(t *testing.T) {
    m, fn, bb := newTestMethod(t)
    r := NewRegistry(m, fn)
    def := bb.CreateMul(bb.Int32(2), bb.Int32(3))
    r.Define(3, def)
    lm := NewLocMap(fn, nil, new(countingAllocator))
    require.Equal(t, m.Loc(3), lm.Lookup(def))
}

func TestLocMap_Names(t *testing.T) {
    m, fn, bb := newTestMethod(t)
    v := bb.CreateMul(bb.Int32(2), bb.Int32(3))
    v.SetName("v0_1")
    require.Equal(t, m.Loc(3), NewLocMap(fn, m, new(countingAllocator)).Lookup(v))

    /* without the method, synthesized from the type */
    fn.Args[1].SetName("v1_0")
    rl := NewLocMap(fn, nil, new(countingAllocator)).Lookup(fn.Args[1])
    require.Equal(t, loc.LocDalvikFrame, rl.Location)
    require.True(t, rl.Wide)
    require.True(t, rl.Core)
    require.Equal(t, 1, rl.VReg)
    require.Equal(t, 0, rl.Subscript)

    /* the method argument */
    rl = NewLocMap(fn, m, nil).Lookup(fn.Args[0])
    require.Equal(t, loc.MethodSReg, rl.SRegLow)
    require.False(t, rl.Valid())
}

func TestLocMap_Anonymous(t *testing.T) {
    _, fn, bb := newTestMethod(t)
    ra := new(countingAllocator)
    lm := NewLocMap(fn, nil, ra)
    v := bb.CreateAdd(bb.Int64(2), bb.Int64(3))
    rl := lm.Lookup(v)
    require.Equal(t, loc.LocPhysReg, rl.Location)
    require.Equal(t, 0, rl.LowReg)
    require.Equal(t, 1, rl.HighReg)
    require.Equal(t, rl, lm.Lookup(v))
    require.Equal(t, 2, int(*ra))
    c := bb.CreateICmp(ir.EQ, bb.Int32(1), bb.Int32(2))
    c.SetName("t0")
    require.Equal(t, 2, lm.Lookup(c).LowReg)
}

func TestLocMap_Malformed(t *testing.T) {
    m, fn, bb := newTestMethod(t)
    lm := NewLocMap(fn, m, new(countingAllocator))
    v := bb.CreateAdd(bb.Int32(2), bb.Int32(3))
    v.SetName("foo")
    require.True(t, utils.IsInvariant(catch(func() { lm.Lookup(v) })))
    w := bb.CreateAdd(bb.Int32(2), bb.Int32(3))
    w.SetName("v0_9")
    require.True(t, utils.IsInvariant(catch(func() { lm.Lookup(w) })))
    require.True(t, utils.IsInvariant(catch(func() { lm.Lookup(bb.Int32(1)) })))
}

func TestTypes_RoundTrip(t *testing.T) {
    for _, ty := range []ir.Type { ir.I32, ir.I64, ir.Float, ir.Double, ir.Object } {
        rl := loc.Frame(KindOf(ty), ty.IsWide(), 0, 0, 0)
        require.Equal(t, ty, TypeOf(rl))
    }
}
