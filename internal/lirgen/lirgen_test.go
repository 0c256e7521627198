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

package lirgen

import (
    `io/ioutil`
    `sync/atomic`
    `testing`

    `github.com/stretchr/testify/require`

    `github.com/cloudwego/mirbridge/internal/codegen`
    `github.com/cloudwego/mirbridge/internal/intrinsic`
    `github.com/cloudwego/mirbridge/internal/ir`
    `github.com/cloudwego/mirbridge/internal/irgen`
    `github.com/cloudwego/mirbridge/internal/lir`
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
    `github.com/cloudwego/mirbridge/internal/opts`
    `github.com/cloudwego/mirbridge/internal/target/amd64`
    `github.com/cloudwego/mirbridge/internal/utils`
)

type entry struct {
    what string
    op   codegen.OpKind
    cond codegen.CondCode
    lit  int64
    locs []loc.RegLocation
    info *codegen.CallInfo
}

// recorder logs the interesting calls before handing them to the real
// target, so the generated list stays assemblable.
type recorder struct {
    *amd64.Target
    log []entry
}

func newRecorder() *recorder {
    return &recorder { Target: amd64.NewTarget() }
}

func (self *recorder) add(e entry) {
    self.log = append(self.log, e)
}

func (self *recorder) find(what string) []entry {
    var ret []entry
    for _, e := range self.log {
        if e.what == what {
            ret = append(ret, e)
        }
    }
    return ret
}

func (self *recorder) GenArithOpInt(op codegen.OpKind, dest loc.RegLocation, src1 loc.RegLocation, src2 loc.RegLocation) {
    self.add(entry { what: "int", op: op, locs: []loc.RegLocation { dest, src1, src2 } })
    self.Target.GenArithOpInt(op, dest, src1, src2)
}

func (self *recorder) GenArithOpIntLit(op codegen.OpKind, dest loc.RegLocation, src loc.RegLocation, lit int32) {
    self.add(entry { what: "lit", op: op, lit: int64(lit), locs: []loc.RegLocation { dest, src } })
    self.Target.GenArithOpIntLit(op, dest, src, lit)
}

func (self *recorder) GenArithOpLong(op codegen.OpKind, dest loc.RegLocation, src1 loc.RegLocation, src2 loc.RegLocation) {
    self.add(entry { what: "long", op: op, locs: []loc.RegLocation { dest, src1, src2 } })
    self.Target.GenArithOpLong(op, dest, src1, src2)
}

func (self *recorder) GenShiftOpLong(op codegen.OpKind, dest loc.RegLocation, src loc.RegLocation, shift loc.RegLocation) {
    self.add(entry { what: "shift", op: op, locs: []loc.RegLocation { dest, src, shift } })
    self.Target.GenShiftOpLong(op, dest, src, shift)
}

func (self *recorder) GenIntExt(dest loc.RegLocation, src loc.RegLocation, signed bool) {
    self.add(entry { what: "ext", locs: []loc.RegLocation { dest, src } })
    self.Target.GenIntExt(dest, src, signed)
}

func (self *recorder) GenConst(dest loc.RegLocation, imm uint64) {
    self.add(entry { what: "const", lit: int64(imm), locs: []loc.RegLocation { dest } })
    self.Target.GenConst(dest, imm)
}

func (self *recorder) GenCompareBranch(cond codegen.CondCode, src1 loc.RegLocation, src2 loc.RegLocation, taken *lir.LIR) {
    self.add(entry { what: "cmp", cond: cond, locs: []loc.RegLocation { src1, src2 } })
    self.Target.GenCompareBranch(cond, src1, src2, taken)
}

func (self *recorder) GenCompareImmBranch(cond codegen.CondCode, src loc.RegLocation, imm int64, taken *lir.LIR) {
    self.add(entry { what: "cmpimm", cond: cond, lit: imm, locs: []loc.RegLocation { src } })
    self.Target.GenCompareImmBranch(cond, src, imm, taken)
}

func (self *recorder) GenInvoke(info *codegen.CallInfo) {
    self.add(entry { what: "invoke", info: info })
    self.Target.GenInvoke(info)
}

func loadFixture(t *testing.T, name string) (*mir.Method, *ir.Function) {
    m, err := mir.LoadYAMLFile("../mir/testdata/" + name + ".yaml")
    require.NoError(t, err)
    fn, rep, err := irgen.Lower(m, &opts.Options{})
    require.NoError(t, err)
    require.False(t, rep.Incomplete)
    return m, fn
}

func generateFixture(t *testing.T, name string) (*Result, *recorder) {
    m, fn := loadFixture(t, name)
    rec := newRecorder()
    ret, err := Generate(fn, m, rec, nil)
    require.NoError(t, err)
    t.Log("\n" + ret.List.String())
    return ret, rec
}

func countOp(l *lir.List, op lir.Opcode) int {
    n := 0
    for _, p := range l.Instrs() {
        if p.Opcode == op {
            n++
        }
    }
    return n
}

func TestGenerate_Add(t *testing.T) {
    m, fn := loadFixture(t, "add")
    ret, err := Generate(fn, m, amd64.NewTarget(), nil)
    require.NoError(t, err)
    require.Same(t, fn.Info, ret.Info)
    require.Equal(t, 2, ret.Frame.NumIns)
    require.Equal(t, 1, ret.Frame.NumRegs)
    require.Contains(t, ret.List.Boundaries, 0)
    require.Contains(t, ret.List.Boundaries, 2)
    require.NotEmpty(t, amd64.Assemble(ret.List))
}

func TestGenerate_BoundaryComment(t *testing.T) {
    ret, _ := generateFixture(t, "add")
    require.Contains(t, ret.List.String(), "// %v0_1 = add i32 %v1_0, i32 %v2_0    ; 0x0")
    for _, p := range ret.List.Instrs() {
        if p.Opcode == lir.PseudoDalvikByteCodeBoundary {
            require.NotContains(t, p.Comment, ";", p.Comment)
        }
    }
}

func TestGenerate_AddRecorded(t *testing.T) {
    _, rec := generateFixture(t, "add")
    ops := rec.find("int")
    require.Len(t, ops, 1)
    require.Equal(t, codegen.OpAdd, ops[0].op)
    require.Equal(t, 0, ops[0].locs[0].VReg)
    require.Equal(t, 1, ops[0].locs[1].VReg)
    require.Equal(t, 2, ops[0].locs[2].VReg)
}

func TestGenerate_MaxFusesCompare(t *testing.T) {
    ret, rec := generateFixture(t, "max")
    cmp := rec.find("cmp")
    require.Len(t, cmp, 1)
    require.Equal(t, codegen.CondGe, cmp[0].cond)
    require.Equal(t, 0, cmp[0].locs[0].VReg)
    require.Equal(t, 1, cmp[0].locs[1].VReg)
    require.Equal(t, 1, countOp(ret.List, amd64.Jcc))
    require.NotEmpty(t, amd64.Assemble(ret.List))
}

func TestGenerate_WideShift(t *testing.T) {
    _, rec := generateFixture(t, "wide")
    shifts := rec.find("shift")
    require.Len(t, shifts, 1)
    require.Equal(t, codegen.OpLsl, shifts[0].op)
    require.Equal(t, 4, shifts[0].locs[2].VReg)
    require.False(t, shifts[0].locs[2].Wide)
    require.Empty(t, rec.find("ext"))
    require.Len(t, rec.find("long"), 1)
}

func TestGenerate_Invoke(t *testing.T) {
    ret, rec := generateFixture(t, "invoke")
    calls := rec.find("invoke")
    require.Len(t, calls, 2)
    require.Equal(t, codegen.InvokeStatic, calls[0].info.Type)
    require.False(t, calls[0].info.Result.Valid())
    require.Equal(t, codegen.InvokeVirtual, calls[1].info.Type)
    require.Equal(t, uint32(9), calls[1].info.Index)
    require.Len(t, calls[1].info.Args, 3)
    require.True(t, calls[1].info.Args[2].HighWord)
    require.True(t, calls[1].info.Result.Valid())
    require.Equal(t, 3, ret.Frame.NumOuts)
}

func TestGenerate_BranchOpt(t *testing.T) {
    m, fn := loadFixture(t, "add")
    on, err := Generate(fn, m, amd64.NewTarget(), &opts.Options{})
    require.NoError(t, err)
    off, err := Generate(fn, m, amd64.NewTarget(), &opts.Options { DisableOpt: opts.BranchOpt })
    require.NoError(t, err)
    require.Greater(t, countOp(off.List, amd64.Jmp), countOp(on.List, amd64.Jmp))
}

func TestGenerate_MethodInfoRoundTrip(t *testing.T) {
    ret, _ := generateFixture(t, "object")
    buf, err := ret.Info.MarshalBinary()
    require.NoError(t, err)
    mi := new(ir.MethodInfo)
    require.NoError(t, mi.UnmarshalBinary(buf))
    require.Equal(t, ret.Info.RegInfo, mi.RegInfo)
    require.Equal(t, ret.Info.PromotionMap, mi.PromotionMap)
}

func TestGenerate_PromotionMapLength(t *testing.T) {
    m, fn := loadFixture(t, "add")
    fn.Info.PromotionMap = fn.Info.PromotionMap[:2]
    _, err := Generate(fn, m, amd64.NewTarget(), nil)
    require.Error(t, err)
    require.True(t, utils.IsInvariant(err))
    require.Contains(t, err.Error(), "promotion map has 2 entries, want 4")
}

func promoteAdd(t *testing.T) (*mir.Method, *ir.Function) {
    m, err := mir.LoadYAMLFile("../mir/testdata/add.yaml")
    require.NoError(t, err)
    m.PromotionMap[0].CoreLocation = loc.LocPhysReg
    m.PromotionMap[0].CoreReg = amd64.RBX
    fn, _, err := irgen.Lower(m, &opts.Options{})
    require.NoError(t, err)
    return m, fn
}

func TestGenerate_PromotedRegister(t *testing.T) {
    for _, withMethod := range []bool { true, false } {
        m, fn := promoteAdd(t)
        if !withMethod {
            m = nil
        }
        rec := newRecorder()
        ret, err := Generate(fn, m, rec, nil)
        require.NoError(t, err)
        require.Equal(t, loc.LocPhysReg, ret.Frame.Promotion[0].CoreLocation)
        require.Equal(t, amd64.RBX, ret.Frame.Promotion[0].CoreReg)
        require.Equal(t, loc.LocDalvikFrame, ret.Frame.Promotion[1].CoreLocation)

        /* v0 lives in RBX, the ins stay in the frame */
        ops := rec.find("int")
        require.Len(t, ops, 1)
        require.Equal(t, loc.LocPhysReg, ops[0].locs[0].Location)
        require.Equal(t, amd64.RBX, ops[0].locs[0].LowReg)
        require.Equal(t, loc.LocDalvikFrame, ops[0].locs[1].Location)
        require.NotEmpty(t, amd64.Assemble(ret.List))
    }
}

func TestGenerate_DumpedMethodInfo(t *testing.T) {
    _, fn := promoteAdd(t)
    path, err := ir.Dump(fn, t.TempDir())
    require.NoError(t, err)
    data, err := ioutil.ReadFile(path)
    require.NoError(t, err)
    mi, err := ir.ReadDumpInfo(string(data))
    require.NoError(t, err)

    /* only the decoded record is left */
    fn.Entry().Instrs[0].Info = nil
    fn.Info = mi
    ret, err := Generate(fn, nil, amd64.NewTarget(), nil)
    require.NoError(t, err)
    require.Same(t, mi, ret.Info)
    require.Equal(t, 1, ret.Frame.NumRegs)
    rl, ok := ret.Frame.PromotedCore(0)
    require.True(t, ok)
    require.Equal(t, amd64.RBX, rl)
}

/** Hand-built Functions **/

func newFunction(ret ir.Type, args ...ir.Type) (*ir.Function, *ir.Builder) {
    fn := ir.NewFunction("LTest;.f", ret, append([]ir.Type { ir.Method }, args...)...)
    fn.Args[0].SetName(loc.MethodName)
    for i, arg := range fn.Args[1:] {
        arg.SetName(loc.ValueName(i, 0))
    }
    ib := ir.NewBuilder(fn)
    ib.SetInsertPoint(fn.NewBlock(loc.EntryName))
    return fn, ib
}

func TestGenerate_SynthesizedInfo(t *testing.T) {
    fn, ib := newFunction(ir.I32, ir.I32, ir.I32)
    v := ib.CreateSub(fn.Args[1], fn.Args[2])
    v.SetName(loc.ValueName(0, 1))
    ib.CreateRet(v)
    ret, err := Generate(fn, nil, amd64.NewTarget(), nil)
    require.NoError(t, err)
    require.Equal(t, int32(2), ret.Info.RegInfo.NumIns)
    require.Equal(t, int32(0), ret.Info.RegInfo.NumRegs)
    require.Equal(t, int32(0), ret.Info.RegInfo.NumOuts)
}

func TestGenerate_Idioms(t *testing.T) {
    fn, ib := newFunction(ir.I32, ir.I32)
    x := fn.Args[1]
    neg := ib.CreateSub(ib.Int32(0), x)
    neg.SetName(loc.ValueName(0, 1))
    not := ib.CreateXor(neg, ib.Int32(-1))
    not.SetName(loc.ValueName(0, 2))
    rsub := ib.CreateSub(ib.Int32(10), not)
    rsub.SetName(loc.ValueName(0, 3))
    sub := ib.CreateSub(rsub, ib.Int32(3))
    sub.SetName(loc.ValueName(0, 4))
    ib.CreateRet(sub)

    /* the idioms map back to the single operations */
    rec := newRecorder()
    _, err := Generate(fn, nil, rec, nil)
    require.NoError(t, err)
    ints := rec.find("int")
    require.Len(t, ints, 2)
    require.Equal(t, codegen.OpNeg, ints[0].op)
    require.Equal(t, codegen.OpNot, ints[1].op)
    require.False(t, ints[0].locs[2].Valid())
    lits := rec.find("lit")
    require.Len(t, lits, 2)
    require.Equal(t, codegen.OpRsub, lits[0].op)
    require.Equal(t, int64(10), lits[0].lit)
    require.Equal(t, codegen.OpAdd, lits[1].op)
    require.Equal(t, int64(-3), lits[1].lit)
}

func TestGenerate_CompareImmediate(t *testing.T) {
    fn, ib := newFunction(ir.I32, ir.I32)
    a := fn.NewBlock(loc.BlockName(2, 1))
    b := fn.NewBlock(loc.BlockName(4, 2))
    ib.CreateCondBr(ib.CreateICmp(ir.SLT, fn.Args[1], ib.Int32(7)), a, b)
    ib.SetInsertPoint(a)
    ib.CreateRet(fn.Args[1])
    ib.SetInsertPoint(b)
    ib.CreateRet(fn.Args[1])

    /* the literal becomes an immediate */
    rec := newRecorder()
    ret, err := Generate(fn, nil, rec, nil)
    require.NoError(t, err)
    cmp := rec.find("cmpimm")
    require.Len(t, cmp, 1)
    require.Equal(t, codegen.CondLt, cmp[0].cond)
    require.Equal(t, int64(7), cmp[0].lit)
    require.NotEmpty(t, amd64.Assemble(ret.List))
}

func TestGenerate_StandaloneCompare(t *testing.T) {
    fn, ib := newFunction(ir.Void, ir.I32, ir.I32)
    ib.CreateICmp(ir.EQ, fn.Args[1], fn.Args[2])
    ib.CreateRetVoid()
    _, err := Generate(fn, nil, amd64.NewTarget(), nil)
    require.Error(t, err)
    require.True(t, utils.IsUnsupported(err))
}

func TestGenerate_UnexpectedInstruction(t *testing.T) {
    fn, ib := newFunction(ir.Void, ir.Object)
    ib.CreateLoad(ir.I32, fn.Args[1])
    ib.CreateRetVoid()
    _, err := Generate(fn, nil, amd64.NewTarget(), nil)
    require.Error(t, err)
    require.True(t, utils.IsInvariant(err))
}

func TestGenerate_UnknownCallee(t *testing.T) {
    fn, ib := newFunction(ir.Void)
    ib.CreateCall("lib.foo", ir.Void)
    ib.CreateRetVoid()
    _, err := Generate(fn, nil, amd64.NewTarget(), nil)
    require.Error(t, err)
    var e utils.UnsupportedError
    require.ErrorAs(t, err, &e)
    require.Equal(t, utils.UnsupportedIntrinsic, e.Kind)
}

func TestGenerate_UnterminatedBlock(t *testing.T) {
    fn, ib := newFunction(ir.I32, ir.I32)
    ib.CreateAdd(fn.Args[1], fn.Args[1])
    _, err := Generate(fn, nil, amd64.NewTarget(), nil)
    require.True(t, utils.IsInvariant(err))
}

func TestGenerate_Counters(t *testing.T) {
    methods := atomic.LoadUint64(&MethodCount)
    aborts := atomic.LoadUint64(&AbortCount)
    fn, ib := newFunction(ir.Void, ir.I32, ir.I32)
    ib.CreateICmp(ir.EQ, fn.Args[1], fn.Args[2])
    ib.CreateRetVoid()
    _, _ = Generate(fn, nil, amd64.NewTarget(), nil)
    require.Equal(t, methods + 1, atomic.LoadUint64(&MethodCount))
    require.Equal(t, aborts + 1, atomic.LoadUint64(&AbortCount))
}

func TestHandlers_Complete(t *testing.T) {
    for id := intrinsic.Id(0); id < intrinsic.NumIds; id++ {
        require.NotNil(t, handlers[id], id.String())
    }
}

func TestFlags_MatchMIR(t *testing.T) {
    require.Equal(t, mir.MIR_IGNORE_NULL_CHECK, codegen.IgnoreNullCheck)
    require.Equal(t, mir.MIR_IGNORE_RANGE_CHECK, codegen.IgnoreRangeCheck)
    require.Equal(t, mir.MIR_IGNORE_SUSPEND_CHECK, codegen.IgnoreSuspendCheck)
}

func TestGenerate_Throw(t *testing.T) {
    fn, ib := newFunction(ir.Void, ir.Object)
    ib.CreateIntrinsic(intrinsic.Throw, fn.Args[1])
    ib.CreateUnreachable()
    ret, err := Generate(fn, nil, amd64.NewTarget(), nil)
    require.NoError(t, err)
    require.Equal(t, 1, countOp(ret.List, amd64.CallT))
}
