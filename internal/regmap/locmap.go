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
    `strconv`

    `github.com/cloudwego/kitex/pkg/klog`

    `github.com/cloudwego/mirbridge/internal/ir`
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
    `github.com/cloudwego/mirbridge/internal/utils`
)

// Allocator hands out physical registers for values without a location.
type Allocator interface {
    AllocTemp(fp bool) int
}

// LocMap recovers the location of IR values during reverse lowering. The
// method is optional, without it locations are synthesized from the names.
type LocMap struct {
    fn   *ir.Function
    m    *mir.Method
    ra   Allocator
    pr   func(vreg int) (int, bool)
    memo map[ir.Value]loc.RegLocation
}

func NewLocMap(fn *ir.Function, m *mir.Method, ra Allocator) *LocMap {
    return &LocMap {
        fn   : fn,
        m    : m,
        ra   : ra,
        memo : make(map[ir.Value]loc.RegLocation),
    }
}

// Promote makes narrow core and reference values live in the register that
// fn returns for their Dalvik register, if any. It must be called before
// the first Lookup.
func (self *LocMap) Promote(fn func(vreg int) (int, bool)) {
    self.pr = fn
}

// Set records the location of v, overriding every other source.
func (self *LocMap) Set(v ir.Value, rl loc.RegLocation) {
    self.memo[v] = rl
}

// Lookup returns the location of v. The side table of the function is
// consulted first, then the structural name of the value. Anonymous values
// get fresh physical registers, two of them for wide values.
func (self *LocMap) Lookup(v ir.Value) loc.RegLocation {
    if rl, ok := self.memo[v]; ok {
        return rl
    }

    /* compute and memoize */
    rl := self.promote(self.resolve(v))
    self.memo[v] = rl
    return rl
}

func (self *LocMap) promote(rl loc.RegLocation) loc.RegLocation {
    if self.pr == nil || rl.Wide || rl.FP {
        return rl
    } else if rl.Location != loc.LocDalvikFrame && rl.Location != loc.LocCompilerTemp {
        return rl
    } else if reg, ok := self.pr(rl.VReg); !ok {
        return rl
    } else {
        rl.Location = loc.LocPhysReg
        rl.LowReg = reg
        rl.Home = true
        return rl
    }
}

func (self *LocMap) resolve(v ir.Value) loc.RegLocation {
    if _, ok := v.(ir.Named); !ok {
        panic(utils.EInvariant("%s: no location for constant %s", self.fn.Name, v))
    }

    /* side table */
    if rl, ok := self.fn.Loc(v); ok {
        return rl
    }

    /* anonymous values */
    name := v.Name()
    if name == "" || isTempName(name) {
        return self.temp(v)
    }

    /* compiler temps live after the Dalvik registers */
    if vreg, sub, err := loc.ParseCompilerTempName(name); err == nil {
        return self.lookupName(v, vreg, sub, loc.LocCompilerTemp)
    }

    /* structural name */
    vreg, sub, err := loc.ParseValueName(name)
    if err != nil {
        panic(err)
    }

    /* the method context argument */
    if vreg == loc.MethodSReg {
        rl := loc.Frame(loc.KindCore, false, loc.InvalidSReg, 0, loc.MethodSReg)
        rl.Location = loc.LocInvalid
        return rl
    }

    /* any other register */
    return self.lookupName(v, vreg, sub, loc.LocDalvikFrame)
}

func (self *LocMap) lookupName(v ir.Value, vreg int, sub int, where loc.Location) loc.RegLocation {
    if self.m != nil {
        if sreg, ok := self.m.VRegSSA(vreg, sub); !ok {
            panic(utils.EInvariant("%s: value %s does not name an SSA register", self.fn.Name, v.Name()))
        } else {
            return self.m.Loc(sreg)
        }
    }

    /* synthesize from the type */
    ty := v.Type()
    rl := loc.Frame(KindOf(ty), ty.IsWide(), vreg, sub, loc.InvalidSReg)
    rl.Location = where
    return rl
}

func (self *LocMap) temp(v ir.Value) loc.RegLocation {
    ty := v.Type()
    fp := ty.IsFP()
    klog.Warnf("%s: allocating a temp for anonymous value of type %s", self.fn.Name, ty)

    /* wide values take a pair */
    if ty.IsWide() {
        lo := self.ra.AllocTemp(fp)
        hi := self.ra.AllocTemp(fp)
        return loc.Temp(KindOf(ty), true, lo, hi)
    } else {
        lo := self.ra.AllocTemp(fp)
        return loc.Temp(KindOf(ty), false, lo, loc.InvalidReg)
    }
}

func isTempName(name string) bool {
    if len(name) < 2 || name[0] != 't' {
        return false
    } else if _, err := strconv.ParseUint(name[1:], 10, 31); err != nil {
        return false
    } else {
        return true
    }
}
