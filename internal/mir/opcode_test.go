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
    `testing`

    `github.com/stretchr/testify/require`
)

func TestOpcode_Names(t *testing.T) {
    seen := make(map[string]Opcode)
    for op := Opcode(0); op < NumOpcodes; op++ {
        if !op.Valid() {
            continue
        }
        name := op.Name()
        prev, dup := seen[name]
        require.Falsef(t, dup, "%s is shared by %#x and %#x", name, prev, op)
        seen[name] = op
        ret, ok := LookupOpcode(name)
        require.True(t, ok)
        require.Equal(t, op, ret)
    }
    require.Equal(t, "move-wide/from16", OP_move_wide_from16.Name())
    require.Equal(t, "unused-3e", Opcode(0x3e).Name())
    require.False(t, Opcode(0x3e).Valid())
    require.True(t, OP_phi.Extended())
    require.False(t, OP_throw_verification_error.Extended())
}

func TestOpcode_Attrs(t *testing.T) {
    require.Equal(t, []Operand {{ Use: 0 }, { Use: 1 }}, OP_add_int.Attrs().Operands())
    require.Equal(t, []Operand {{ Use: 0, Wide: true }, { Use: 2, Wide: true }}, OP_add_long.Attrs().Operands())
    require.Equal(t, []Operand {{ Use: 0, Wide: true }, { Use: 2 }}, OP_shl_long.Attrs().Operands())
    require.Equal(t, []Operand {{ Use: 0, Wide: true }, { Use: 2 }, { Use: 3 }}, OP_aput_wide.Attrs().Operands())
    require.Empty(t, OP_const_wide.Attrs().Operands())
    require.True(t, OP_const_wide.Attrs().Has(DF_DA | DF_A_WIDE))
    require.True(t, OP_invoke_virtual_range.Attrs().Has(DF_FORMAT_3RC))
    require.Equal(t, Fmt22b, OP_add_int_lit8.Format())
    require.Equal(t, Fmt20bc, OP_throw_verification_error.Format())
}
