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

package intrinsic

import (
    `testing`

    `github.com/stretchr/testify/require`
)

func TestCatalog_Complete(t *testing.T) {
    seen := make(map[string]bool)
    for i := Id(0); i < NumIds; i++ {
        info := i.Info()
        require.NotEmpty(t, info.Name, "intrinsic %d has no name", i)
        require.False(t, seen[info.Name], "duplicated name %s", info.Name)
        seen[info.Name] = true
        id, ok := Lookup(info.Name)
        require.True(t, ok)
        require.Equal(t, i, id)
        for j, k := range info.Args {
            if k == Varargs {
                require.Equal(t, len(info.Args) - 1, j, "varargs must be the last operand of %s", info.Name)
            }
        }
    }
}

func TestCatalog_Shapes(t *testing.T) {
    require.Equal(t, 3, HLArrayGetByte.Info().Fixed())
    require.Equal(t, 4, HLArrayPutObject.Info().Fixed())
    require.Equal(t, Object, HLArrayPutObject.Info().Args[1])
    require.Equal(t, ImmInt, HLIGetWide.Info().Args[2])
    require.Equal(t, Long, HLIGetWide.Info().Ret)
    require.True(t, HLInvokeInt.Info().Variadic())
    require.Equal(t, 3, FilledNewArray.Info().Fixed())
    require.Equal(t, ImmLong, ConstDouble.Info().Args[0])
    require.Equal(t, "hl_sput_object", HLSputObject.String())
    _, ok := Lookup("no_such_intrinsic")
    require.False(t, ok)
    require.Panics(t, func() { NumIds.Info() })
}
