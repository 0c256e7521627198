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
    `github.com/cloudwego/mirbridge/internal/ir`
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
    `github.com/cloudwego/mirbridge/internal/utils`
)

// Registry maps every SSA register of a method to its IR value. Values that
// are used before being defined are represented by placeholders, which are
// patched when the definition is emitted.
type Registry struct {
    m       *mir.Method
    fn      *ir.Function
    vals    []ir.Value
    defined []bool
}

func NewRegistry(m *mir.Method, fn *ir.Function) *Registry {
    return &Registry {
        m       : m,
        fn      : fn,
        vals    : make([]ir.Value, m.NumSSARegs),
        defined : make([]bool, m.NumSSARegs),
    }
}

func (self *Registry) check(sreg int) {
    if sreg < 0 || sreg >= len(self.vals) {
        panic(utils.EInvariant("%s: SSA register s%d out of range", self.m.Name, sreg))
    }
}

// Defined reports whether sreg already has a definition.
func (self *Registry) Defined(sreg int) bool {
    self.check(sreg)
    return self.defined[sreg]
}

// Get returns the current value of sreg. The first access to a register
// that is not defined yet creates a placeholder typed from its location.
// Only SSA registers created by the SSA builder can be forward referenced,
// the initial versions of non-argument registers and compiler temps cannot.
func (self *Registry) Get(sreg int) ir.Value {
    self.check(sreg)

    /* already seen */
    if v := self.vals[sreg]; v != nil {
        return v
    }

    /* the register must be able to get a definition later */
    vreg, sub := self.m.SSAName(sreg)
    if vreg < 0 || sreg < self.m.NumDalvikRegisters() {
        panic(utils.EInvariant("%s: use of undefined register %s (s%d)", self.m.Name, loc.SSAName(vreg, sub), sreg))
    }

    /* create the placeholder */
    p := ir.NewPlaceholder(loc.SSAName(vreg, sub), TypeOf(self.m.Loc(sreg)))
    self.vals[sreg] = p
    return p
}

// Define binds sreg to v. Pending uses of the placeholder are rewritten to
// v, which takes over the name of the register. Defining a register twice
// is an invariant violation.
func (self *Registry) Define(sreg int, v ir.Value) {
    self.check(sreg)
    vreg, sub := self.m.SSAName(sreg)

    /* single assignment */
    if self.defined[sreg] {
        panic(utils.EInvariant("%s: register %s (s%d) defined twice", self.m.Name, loc.SSAName(vreg, sub), sreg))
    }

    /* patch the forward references */
    name := loc.SSAName(vreg, sub)
    if p, ok := self.vals[sreg].(*ir.Placeholder); ok {
        if p.Type() != v.Type() {
            panic(utils.EInvariant("%s: register %s used as %s, defined as %s", self.m.Name, name, p.Type(), v.Type()))
        }
        name = p.Name()
        p.ReplaceUses(v)
    }

    /* adopt the name and record the location */
    if nv, ok := v.(ir.Named); ok {
        nv.SetName(name)
        self.fn.SetLoc(v, self.m.Loc(sreg))
    }

    /* mark as defined */
    self.vals[sreg] = v
    self.defined[sreg] = true
}

// Pending returns the SSA registers still bound to a placeholder.
func (self *Registry) Pending() []int {
    var ret []int
    for i, v := range self.vals {
        if _, ok := v.(*ir.Placeholder); ok {
            ret = append(ret, i)
        }
    }
    return ret
}
