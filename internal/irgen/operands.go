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
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
)

// operands is the decoded operand pattern of one instruction.
type operands struct {
    src  [3]loc.RegLocation
    sreg [3]int
    nsrc int
    dest loc.RegLocation
    dreg int
}

func (self *operands) hasDest() bool {
    return self.dreg >= 0
}

// decode materializes the locations of the sources and the destination of
// p from its data-flow attributes.
func (self *Context) decode(p *mir.MIR) *operands {
    attrs := p.Insn.Opcode.Attrs()
    ret := &operands { dest: loc.BadLoc, dreg: -1 }

    /* sources */
    for i, op := range attrs.Operands() {
        if op.Wide {
            ret.src[i] = self.m.GetSrcWide(p, op.Use)
        } else {
            ret.src[i] = self.m.GetSrc(p, op.Use)
        }
        ret.sreg[i] = p.SSA.Uses[op.Use]
        ret.nsrc++
    }

    /* destination */
    if attrs.Has(mir.DF_DA) {
        if attrs.Has(mir.DF_A_WIDE) {
            ret.dest = self.m.GetDestWide(p)
        } else {
            ret.dest = self.m.GetDest(p)
        }
        ret.dreg = p.SSA.Defs[0]
    }
    return ret
}
