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

// Attr is a set of data-flow attributes of an opcode. The operand flags
// describe how the SSA uses and defs of an instruction line up with its
// vA, vB and vC operands.
type Attr uint64

const (
    DF_NOP Attr = 0
)

const (
    DF_UA Attr = 1 << iota      // vA is used
    DF_UB                       // vB is used
    DF_UC                       // vC is used
    DF_A_WIDE                   // vA is a register pair
    DF_B_WIDE                   // vB is a register pair
    DF_C_WIDE                   // vC is a register pair
    DF_DA                       // vA is defined
    DF_IS_MOVE
    DF_SETS_CONST
    DF_FORMAT_35C               // uses come from the argument list
    DF_FORMAT_3RC               // uses come from a register range
    DF_NULL_CHK_0               // null check on the first use
    DF_NULL_CHK_1
    DF_NULL_CHK_2
    DF_NULL_CHK_OUT0            // null check on the first outgoing argument
    DF_NULL_TRANSFER_N          // phi
    DF_RANGE_CHK_1
    DF_RANGE_CHK_2
    DF_RANGE_CHK_3
    DF_IS_BRANCH
    DF_IS_INVOKE
    DF_FP_A
    DF_FP_B
    DF_FP_C
    DF_CORE_A
    DF_CORE_B
    DF_CORE_C
    DF_REF_A
    DF_REF_B
    DF_REF_C
)

const (
    DF_HAS_USES       = DF_UA | DF_UB | DF_UC
    DF_HAS_DEFS       = DF_DA
    DF_HAS_NULL_CHKS  = DF_NULL_CHK_0 | DF_NULL_CHK_1 | DF_NULL_CHK_2 | DF_NULL_CHK_OUT0
    DF_HAS_RANGE_CHKS = DF_RANGE_CHK_1 | DF_RANGE_CHK_2 | DF_RANGE_CHK_3
)

func (self Attr) Has(v Attr) bool {
    return self & v != 0
}

// Operand is the result of decoding the SSA operands of one instruction
// against its data-flow attributes.
type Operand struct {
    Use  int     // index of the first SSA use
    Wide bool
}

// Operands lines up the SSA uses of an instruction with its vA, vB and vC
// operands, in that order. Each entry gives the index of the first SSA use
// of the operand within the instruction's use list.
func (self Attr) Operands() []Operand {
    var next int
    var ret []Operand

    /* (attribute, width) for each operand, in order */
    ops := [...][2]Attr {
        { DF_UA, DF_A_WIDE },
        { DF_UB, DF_B_WIDE },
        { DF_UC, DF_C_WIDE },
    }

    /* wide operands take two consecutive uses */
    for _, op := range ops {
        if self.Has(op[0]) {
            if self.Has(op[1]) {
                ret = append(ret, Operand { Use: next, Wide: true })
                next += 2
            } else {
                ret = append(ret, Operand { Use: next, Wide: false })
                next += 1
            }
        }
    }
    return ret
}
