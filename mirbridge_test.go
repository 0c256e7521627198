/*
 * Copyright 2022 CloudWeGo Authors
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

package mirbridge

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/mirbridge/internal/codegen"
	"github.com/cloudwego/mirbridge/internal/ir"
	"github.com/cloudwego/mirbridge/internal/loc"
	"github.com/cloudwego/mirbridge/internal/mir"
	"github.com/cloudwego/mirbridge/internal/target/amd64"
)

var fixtures = []string{"add", "invoke", "loop", "max", "object", "wide"}

func loadFixture(t *testing.T, name string) *mir.Method {
	m, err := mir.LoadYAMLFile("internal/mir/testdata/" + name + ".yaml")
	require.NoError(t, err)
	return m
}

const negFloat = `
name: LTest;.neg
shorty: FF
static: true
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

func TestCompile_Fixtures(t *testing.T) {
	for _, name := range fixtures {
		ret, err := Compile(loadFixture(t, name), amd64.NewTarget())
		require.NoError(t, err, name)
		require.NotNil(t, ret.Info, name)
		require.False(t, ret.Report.Incomplete, name)
		code := amd64.Assemble(ret.List)
		require.NotEmpty(t, code, name)
		_, err = amd64.Disassemble(code)
		require.NoError(t, err, name)
	}
}

func TestCompile_Optimizer(t *testing.T) {
	var seen []string
	opt := WithOptimizer(func(fn *ir.Function) error {
		seen = append(seen, fn.Name)
		return nil
	})
	_, err := Compile(loadFixture(t, "add"), amd64.NewTarget(), opt)
	require.NoError(t, err)
	require.Equal(t, []string{"LTest;.add"}, seen)
}

func TestCompile_OptimizerError(t *testing.T) {
	bad := errors.New("bad pass")
	_, err := Compile(loadFixture(t, "add"), amd64.NewTarget(), WithOptimizer(func(*ir.Function) error { return bad }))
	require.Error(t, err)
	require.True(t, errors.Is(err, bad))
}

func TestCompile_Unsupported(t *testing.T) {
	m, err := mir.LoadYAML(strings.NewReader(negFloat))
	require.NoError(t, err)
	_, err = Compile(m, amd64.NewTarget())
	require.True(t, IsUnsupported(err))
	var e UnsupportedError
	require.True(t, errors.As(err, &e))
	require.Equal(t, UnsupportedOpcode, e.Kind)
}

func TestCompile_IncompleteFailsGenerate(t *testing.T) {
	m, err := mir.LoadYAML(strings.NewReader(negFloat))
	require.NoError(t, err)
	_, err = Compile(m, amd64.NewTarget(), WithDevelopmentMode(true))
	require.True(t, IsInvariant(err))
}

func TestGenerate_FromNames(t *testing.T) {
	fn, rep, err := Lower(loadFixture(t, "max"))
	require.NoError(t, err)
	require.False(t, rep.Incomplete)
	l, err := Generate(fn, amd64.NewTarget())
	require.NoError(t, err)
	require.NotEmpty(t, amd64.Assemble(l))
}

func TestLower_Dump(t *testing.T) {
	dir := t.TempDir()
	_, rep, err := Lower(loadFixture(t, "add"), WithDumpDir(dir), WithDumpHeader(amd64.DumpHeader()))
	require.NoError(t, err)
	require.NotEmpty(t, rep.DumpFile)
	buf, err := os.ReadFile(rep.DumpFile)
	require.NoError(t, err)
	require.Contains(t, string(buf), amd64.DumpHeader())
}

func TestCompileAll_Order(t *testing.T) {
	var ms []*mir.Method
	for _, name := range fixtures {
		ms = append(ms, loadFixture(t, name))
	}

	/* one failing method in the middle */
	bad, err := mir.LoadYAML(strings.NewReader(negFloat))
	require.NoError(t, err)
	ms = append(ms[:2], append([]*mir.Method{bad}, ms[2:]...)...)

	/* every result in its slot */
	ret := CompileAll(ms, func() codegen.Target { return amd64.NewTarget() })
	require.Len(t, ret, len(ms))
	for i, r := range ret {
		require.Same(t, ms[i], r.Method)
		if r.Method == bad {
			require.True(t, IsUnsupported(r.Err))
			require.Nil(t, r.Result)
		} else {
			require.NoError(t, r.Err, r.Method.Name)
			require.Equal(t, r.Method.Name, r.Result.Function.Name)
		}
	}
}

func TestOptions_Validation(t *testing.T) {
	require.Panics(t, func() { WithDumpDir("relative/dir") })
	require.Panics(t, func() { WithDisabledOptimizations(1 << 10) })
	require.NotPanics(t, func() { WithDumpDir("") })
	o := makeOptions([]Option{WithDisabledOptimizations(LocalOpt | BranchOpt), WithVerbose(true)})
	require.True(t, o.Disabled(BranchOpt))
	require.False(t, o.Disabled(TrackLiveTemps))
	require.True(t, o.Verbose)
}

func TestOptions_SetDefaults(t *testing.T) {
	old := SetDevelopmentMode(true)
	require.True(t, makeOptions(nil).Development)
	SetDevelopmentMode(old)
	prev := SetDisabledOptimizations(BranchOpt)
	require.True(t, makeOptions(nil).Disabled(BranchOpt))
	SetDisabledOptimizations(prev)
}

var straightOps = []mir.Opcode{
	mir.OP_add_int,
	mir.OP_sub_int,
	mir.OP_mul_int,
	mir.OP_and_int,
	mir.OP_or_int,
	mir.OP_xor_int,
}

// straightLine builds "static int f(int, int)" from n random int operations
// over the two locals and the two ins.
func straightLine(t *testing.T, fk *gofakeit.Faker, n int) *mir.Method {
	b := mir.NewBuilder("LTest;.rand", "III", 2, 2, true)
	cur := map[int]int{2: 2, 3: 3}
	entry := b.Block(mir.BlockEntry, 0, 0)
	body := b.Block(mir.BlockNormal, 1, 0)
	exit := b.Block(mir.BlockExit, 2, n*2+1)
	b.FallThrough(entry, body)
	b.FallThrough(body, exit)
	b.SetLeaf(true)

	/* random operands among the defined registers */
	pick := func() uint32 {
		var regs []int
		for vreg := range cur {
			regs = append(regs, vreg)
		}
		return uint32(regs[fk.Number(0, len(regs)-1)])
	}

	/* each operation redefines one of the locals */
	dest := 0
	for i := 0; i < n; i++ {
		x, y := pick(), pick()
		dest = fk.Number(0, 1)
		op := straightOps[fk.Number(0, len(straightOps)-1)]
		uses := []int{cur[int(x)], cur[int(y)]}
		cur[dest] = b.SSA(loc.KindCore, dest, false)
		b.Emit(body, i*2, mir.Insn{Opcode: op, VA: uint32(dest), VB: x, VC: y}, []int{cur[dest]}, uses)
	}

	/* return the last one */
	b.Emit(body, n*2, mir.Insn{Opcode: mir.OP_return, VA: uint32(dest)}, nil, []int{cur[dest]})
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestCompile_RandomStraightLine(t *testing.T) {
	fk := gofakeit.New(20221014)
	for i := 0; i < 100; i++ {
		n := fk.Number(1, 24)
		ret, err := Compile(straightLine(t, fk, n), amd64.NewTarget())
		require.NoError(t, err)
		require.Len(t, ret.List.Boundaries, n+1)
		require.NotEmpty(t, amd64.Assemble(ret.List))
	}
}
