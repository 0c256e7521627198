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
    `sort`

    `github.com/cloudwego/mirbridge/internal/mir`
    `github.com/cloudwego/mirbridge/internal/utils`
)

// ShadowMap is the ordered table of Dalvik registers that may hold a
// reference at some point of the method. The position of a register in the
// table is its shadow frame slot.
type ShadowMap struct {
    slots []int
    index map[int]int
}

// BuildShadowMap collects every Dalvik register that receives a reference,
// either as an argument or through a definition in a reachable block that
// gets lowered. Only entry and normal blocks are lowered.
func BuildShadowMap(m *mir.Method, reachable map[int]bool) *ShadowMap {
    refs := make(map[int]bool)

    /* reference-typed arguments */
    for i := m.NumRegs; i < m.NumDalvikRegisters() && i < m.NumSSARegs; i++ {
        if m.Loc(i).Ref {
            refs[m.SRegToVReg(i)] = true
        }
    }

    /* reference-typed definitions in lowered blocks */
    for _, bb := range m.Blocks {
        if reachable[bb.Id] && (bb.Kind == mir.BlockEntry || bb.Kind == mir.BlockNormal) {
            for p := bb.First; p != nil; p = p.Next {
                for i := 0; i < p.NumDefs(); i++ {
                    if sreg := p.SSA.Defs[i]; m.Loc(sreg).Ref {
                        if vreg := m.SRegToVReg(sreg); vreg >= 0 {
                            refs[vreg] = true
                        }
                    }
                }
            }
        }
    }

    /* build the ordered slot table */
    ret := &ShadowMap { index: make(map[int]int, len(refs)) }
    for vreg := range refs {
        ret.slots = append(ret.slots, vreg)
    }

    /* slots are ordered by register */
    sort.Ints(ret.slots)
    for i, vreg := range ret.slots {
        ret.index[vreg] = i
    }
    return ret
}

func (self *ShadowMap) Len() int {
    return len(self.slots)
}

// Slots returns the Dalvik register of every slot.
func (self *ShadowMap) Slots() []int {
    return self.slots
}

// Slot returns the slot of vreg. A missing register means the shadow map
// and the definitions disagree, which is an invariant violation.
func (self *ShadowMap) Slot(vreg int) int {
    if i, ok := self.index[vreg]; !ok {
        panic(utils.EInvariant("no shadow frame slot for v%d", vreg))
    } else {
        return i
    }
}
