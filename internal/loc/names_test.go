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

package loc

import (
    `testing`

    `github.com/brianvoe/gofakeit/v6`
    `github.com/cloudwego/mirbridge/internal/utils`
    `github.com/stretchr/testify/require`
)

func TestNames_RoundTrip(t *testing.T) {
    fk := gofakeit.New(20221014)
    for i := 0; i < 1000; i++ {
        vreg := fk.Number(0, 65535)
        sub := fk.Number(0, 4096)
        name := ValueName(vreg, sub)
        rv, rs, err := ParseValueName(name)
        require.NoError(t, err, name)
        require.Equal(t, vreg, rv)
        require.Equal(t, sub, rs)
    }
}

func TestNames_CompilerTempRoundTrip(t *testing.T) {
    fk := gofakeit.New(20221014)
    for i := 0; i < 1000; i++ {
        vreg := -fk.Number(1, 65535)
        sub := fk.Number(0, 4096)
        name := SSAName(vreg, sub)
        require.Equal(t, CompilerTempName(vreg, sub), name)
        rv, rs, err := ParseCompilerTempName(name)
        require.NoError(t, err, name)
        require.Equal(t, vreg, rv)
        require.Equal(t, sub, rs)
        _, _, err = ParseValueName(name)
        require.Error(t, err, name)
    }
    require.Equal(t, "c1_0", SSAName(-1, 0))
    require.Equal(t, "v1_0", SSAName(1, 0))
    require.Panics(t, func() { CompilerTempName(0, 0) })
    for _, name := range []string { "c0_1", "c-1_0", "c1", "c01_0", "v1_0", MethodName, "t0" } {
        _, _, err := ParseCompilerTempName(name)
        require.Error(t, err, name)
        require.True(t, utils.IsInvariant(err), name)
    }
}

func TestNames_Method(t *testing.T) {
    vreg, sub, err := ParseValueName(MethodName)
    require.NoError(t, err)
    require.Equal(t, MethodSReg, vreg)
    require.Equal(t, 0, sub)
}

func TestNames_Rejected(t *testing.T) {
    for _, name := range []string {
        "", "v", "v1", "v_1", "v1_", "x1_2", "v01_2", "v1_02", "v-1_0", "v1_-2",
        "v1_2_3", "v1 _2", "V1_2", "methods", "entry", "t0", "v+1_2",
    } {
        _, _, err := ParseValueName(name)
        require.Error(t, err, name)
        require.True(t, utils.IsInvariant(err), name)
    }
}

func TestNames_RandomRejected(t *testing.T) {
    fk := gofakeit.New(7)
    for i := 0; i < 500; i++ {
        name := fk.LetterN(uint(fk.Number(1, 12)))
        if name == MethodName {
            continue
        }
        _, _, err := ParseValueName(name)
        require.Error(t, err, name)
    }
}

func TestNames_Block(t *testing.T) {
    fk := gofakeit.New(42)
    for i := 0; i < 500; i++ {
        off := fk.Number(0, 1 << 20)
        id := fk.Number(0, 100000)
        name := BlockName(off, id)
        ro, ri, err := ParseBlockName(name)
        require.NoError(t, err, name)
        require.Equal(t, off, ro)
        require.Equal(t, id, ri)
    }
    require.Equal(t, "L0x1a_3", BlockName(0x1a, 3))
    for _, name := range []string { EntryName, "L0x_1", "L0xZ_1", "L0x1A_1", "L0x1", "L1_2", "L0x01_2" } {
        _, _, err := ParseBlockName(name)
        require.Error(t, err, name)
    }
}

func TestLocation_Kind(t *testing.T) {
    l := Frame(KindRef, false, 3, 1, 9)
    require.True(t, l.Resolved())
    require.Equal(t, KindRef, l.Kind())
    require.Equal(t, "frame:ref v3_1", l.String())
    w := Frame(KindFP, true, 4, 0, 4)
    h := w.High()
    require.True(t, h.HighWord)
    require.Equal(t, 5, h.VReg)
    require.Equal(t, 5, h.SRegLow)
    require.False(t, BadLoc.Valid())
    require.False(t, RegLocation{Core: true, Ref: true}.Resolved())
    require.Contains(t, w.Dump(), "Wide: (bool) true")
}
