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
    `fmt`
    `io`
    `os`

    `gopkg.in/yaml.v3`

    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/utils`
)

type yamlMethod struct {
    Name   string      `yaml:"name"`
    Shorty string      `yaml:"shorty"`
    Static bool        `yaml:"static"`
    Leaf   bool        `yaml:"leaf"`
    Regs   int         `yaml:"regs"`
    Ins    int         `yaml:"ins"`
    Outs   int         `yaml:"outs"`
    SSA    []yamlSSA   `yaml:"ssa"`
    Blocks []yamlBlock `yaml:"blocks"`
}

type yamlSSA struct {
    VReg int    `yaml:"vreg"`
    Kind string `yaml:"kind"`
    Wide bool   `yaml:"wide"`
}

type yamlBlock struct {
    Id          int        `yaml:"id"`
    Kind        string     `yaml:"kind"`
    Offset      int        `yaml:"offset"`
    FallThrough *int       `yaml:"fallthrough"`
    Taken       *int       `yaml:"taken"`
    Successors  []int      `yaml:"successors"`
    Insns       []yamlInsn `yaml:"insns"`
}

type yamlInsn struct {
    Op       string   `yaml:"op"`
    Offset   int      `yaml:"offset"`
    Flags    int      `yaml:"flags"`
    A        uint32   `yaml:"a"`
    B        uint32   `yaml:"b"`
    BWide    uint64   `yaml:"bwide"`
    C        uint32   `yaml:"c"`
    Defs     []string `yaml:"defs"`
    Uses     []string `yaml:"uses"`
    Incoming []int    `yaml:"incoming"`
}

var kindTab = map[string]loc.Kind {
    "core" : loc.KindCore,
    "ref"  : loc.KindRef,
    "fp"   : loc.KindFP,
}

var blockKindTab = map[string]BlockKind {
    ""                   : BlockNormal,
    "normal"             : BlockNormal,
    "entry"              : BlockEntry,
    "exit"               : BlockExit,
    "exception-handling" : BlockExceptionHandling,
    "dead"               : BlockDead,
}

// LoadYAML reads a method fixture. SSA registers are referred to by their
// value names, and a wide operand named by its low half expands to both
// halves.
func LoadYAML(r io.Reader) (*Method, error) {
    var ym yamlMethod
    if err := yaml.NewDecoder(r).Decode(&ym); err != nil {
        return nil, fmt.Errorf("mir: cannot parse method: %w", err)
    } else {
        return ym.build()
    }
}

// LoadYAMLFile is LoadYAML on the named file.
func LoadYAMLFile(name string) (*Method, error) {
    fp, err := os.Open(name)
    if err != nil {
        return nil, err
    }
    defer fp.Close()
    return LoadYAML(fp)
}

func (self *yamlMethod) build() (*Method, error) {
    b := NewBuilder(self.Name, self.Shorty, self.Regs, self.Ins, self.Static)
    b.SetLeaf(self.Leaf).SetOuts(self.Outs)

    /* SSA registers beyond the initial versions */
    for _, v := range self.SSA {
        if k, ok := kindTab[v.Kind]; !ok {
            return nil, utils.EInvariant("%s: invalid value kind %q", self.Name, v.Kind)
        } else {
            b.SSA(k, v.VReg, v.Wide)
        }
    }

    /* create all the blocks */
    bbs := make(map[int]*BasicBlock, len(self.Blocks))
    for _, yb := range self.Blocks {
        if k, ok := blockKindTab[yb.Kind]; !ok {
            return nil, utils.EInvariant("%s: invalid block kind %q", self.Name, yb.Kind)
        } else {
            bbs[yb.Id] = b.Block(k, yb.Id, yb.Offset)
        }
    }

    /* link the blocks */
    for _, yb := range self.Blocks {
        if err := self.link(b, bbs, &yb); err != nil {
            return nil, err
        }
    }

    /* finally the instructions */
    for _, yb := range self.Blocks {
        for _, yi := range yb.Insns {
            if err := self.emit(b, bbs[yb.Id], &yi); err != nil {
                return nil, err
            }
        }
    }
    return b.Build()
}

func (self *yamlMethod) block(bbs map[int]*BasicBlock, id int) (*BasicBlock, error) {
    if bb, ok := bbs[id]; !ok {
        return nil, utils.EInvariant("%s: undefined block %d", self.Name, id)
    } else {
        return bb, nil
    }
}

func (self *yamlMethod) link(b *Builder, bbs map[int]*BasicBlock, yb *yamlBlock) error {
    from := bbs[yb.Id]

    /* fall-through edge */
    if yb.FallThrough != nil {
        if to, err := self.block(bbs, *yb.FallThrough); err != nil {
            return err
        } else {
            b.FallThrough(from, to)
        }
    }

    /* taken edge */
    if yb.Taken != nil {
        if to, err := self.block(bbs, *yb.Taken); err != nil {
            return err
        } else {
            b.Taken(from, to)
        }
    }

    /* other successors */
    for _, id := range yb.Successors {
        if to, err := self.block(bbs, id); err != nil {
            return err
        } else {
            b.Successor(from, to)
        }
    }
    return nil
}

func (self *yamlMethod) emit(b *Builder, bb *BasicBlock, yi *yamlInsn) error {
    op, ok := LookupOpcode(yi.Op)
    if !ok {
        return utils.EInvariant("%s: %#06x: invalid opcode %q", self.Name, yi.Offset, yi.Op)
    }

    /* resolve the definitions */
    defs, _, err := self.regs(b.m, yi.Defs, nil)
    if err != nil {
        return err
    }

    /* and the uses, phi incoming blocks follow the expansion */
    uses, incoming, err := self.regs(b.m, yi.Uses, yi.Incoming)
    if err != nil {
        return err
    }

    /* build the instruction */
    p := b.Emit(bb, yi.Offset, Insn {
        Opcode : op,
        VA     : yi.A,
        VB     : yi.B,
        VBWide : yi.BWide,
        VC     : yi.C,
    }, defs, uses)

    /* phi incoming blocks */
    p.OptFlags = yi.Flags
    p.PhiIncoming = incoming
    return nil
}

func (self *yamlMethod) regs(m *Method, names []string, incoming []int) ([]int, []int, error) {
    var inc []int
    var ret []int

    /* incoming blocks must line up with the names */
    if incoming != nil && len(incoming) != len(names) {
        return nil, nil, utils.EInvariant("%s: %d incoming blocks for %d values", self.Name, len(incoming), len(names))
    }

    /* expand each name */
    for i, name := range names {
        vreg, sub, err := loc.ParseValueName(name)
        if err != nil {
            return nil, nil, err
        }

        /* find the SSA register */
        sreg, ok := m.lookupSSA(vreg, sub)
        if !ok {
            return nil, nil, utils.EInvariant("%s: undefined value %s", self.Name, name)
        }

        /* wide values take both halves */
        n := 1
        if rl := m.RegLocations[sreg]; rl.Wide && !rl.HighWord {
            n = 2
        }

        /* add the register(s) */
        for j := 0; j < n; j++ {
            ret = append(ret, sreg + j)
            if incoming != nil {
                inc = append(inc, incoming[i])
            }
        }
    }
    return ret, inc, nil
}

// lookupSSA searches the tables directly, the memoized map is only built
// once the method is complete.
func (self *Method) lookupSSA(vreg int, subscript int) (int, bool) {
    for i := range self.SSABaseVReg {
        if self.SSABaseVReg[i] == vreg && self.SSASubscript[i] == subscript {
            return i, true
        }
    }
    return 0, false
}
