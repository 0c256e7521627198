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

package codegen

import (
    `testing`

    `github.com/stretchr/testify/require`

    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
)

func TestOpSize_Bytes(t *testing.T) {
    want := map[OpSize]int {
        Word         : 4,
        Long         : 8,
        Single       : 4,
        Double       : 8,
        UnsignedHalf : 2,
        SignedHalf   : 2,
        UnsignedByte : 1,
        SignedByte   : 1,
    }
    for size, n := range want {
        require.Equal(t, n, size.Bytes(), size.String())
    }
}

func TestInvokeType_MatchesMIR(t *testing.T) {
    for v := mir.InvokeStatic; v <= mir.InvokeInterface; v++ {
        require.True(t, InvokeType(v).Valid())
        require.Equal(t, v.String(), InvokeType(v).String())
    }
    require.False(t, InvokeType(mir.InvokeInterface + 1).Valid())
}

func TestOpKind_Names(t *testing.T) {
    require.Equal(t, "rsub", OpRsub.String())
    require.Equal(t, "OpKind(200)", OpKind(200).String())
    require.True(t, OpAsr.IsShift())
    require.False(t, OpAdd.IsShift())
    require.Equal(t, "double-to-float", DoubleToFloat.String())
    require.Equal(t, "Conversion(99)", Conversion(99).String())
}

func TestCallInfo_Result(t *testing.T) {
    ci := &CallInfo { Result: loc.BadLoc }
    require.False(t, ci.HasResult())
    ci.Args = []loc.RegLocation { loc.Frame(loc.KindCore, true, 0, 1, 1), loc.Frame(loc.KindCore, true, 0, 1, 1).High() }
    ci.Result = loc.Frame(loc.KindCore, false, 2, 1, 3)
    require.True(t, ci.HasResult())
    require.Equal(t, 2, ci.NumArgWords())
    require.Equal(t, 5, Frame { NumIns: 2, NumRegs: 3 }.NumDalvikRegisters())
}
