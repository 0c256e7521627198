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

package ir

import (
    `fmt`
    `strings`

    `github.com/oleiade/lane`

    `github.com/cloudwego/mirbridge/internal/loc`
)

// BasicBlock is a straight-line sequence of instructions ending with a
// terminator.
type BasicBlock struct {
    Name   string
    Instrs []*Instr
    Parent *Function
}

// Terminator returns the last instruction if it is a terminator.
func (self *BasicBlock) Terminator() *Instr {
    if n := len(self.Instrs); n == 0 || !self.Instrs[n - 1].Op.IsTerminator() {
        return nil
    } else {
        return self.Instrs[n - 1]
    }
}

// Successors returns the targets of the terminator.
func (self *BasicBlock) Successors() []*BasicBlock {
    if t := self.Terminator(); t == nil {
        return nil
    } else {
        return t.Targets
    }
}

// Predecessors scans the function for blocks branching to this one.
func (self *BasicBlock) Predecessors() []*BasicBlock {
    var ret []*BasicBlock
    for _, bb := range self.Parent.Blocks {
        for _, to := range bb.Successors() {
            if to == self {
                ret = append(ret, bb)
                break
            }
        }
    }
    return ret
}

func (self *BasicBlock) String() string {
    var sb strings.Builder
    sb.WriteString(self.Name)
    sb.WriteString(":\n")
    for _, ins := range self.Instrs {
        sb.WriteString("    ")
        sb.WriteString(ins.Format())
        sb.WriteByte('\n')
    }
    return sb.String()
}

// Function is the IR of one method. Locs is the side table recording the
// location of each value that has one.
type Function struct {
    Name   string
    Ret    Type
    Args   []*Argument
    Blocks []*BasicBlock
    Info   *MethodInfo
    Locs   map[Value]loc.RegLocation
}

func NewFunction(name string, ret Type, args ...Type) *Function {
    fn := &Function {
        Name : name,
        Ret  : ret,
        Args : make([]*Argument, len(args)),
        Locs : make(map[Value]loc.RegLocation),
    }

    /* create all the arguments */
    for i, ty := range args {
        fn.Args[i] = &Argument { Index: i, typ: ty }
    }
    return fn
}

// NewBlock appends a new empty block.
func (self *Function) NewBlock(name string) *BasicBlock {
    bb := &BasicBlock { Name: name, Parent: self }
    self.Blocks = append(self.Blocks, bb)
    return bb
}

// Entry returns the first block.
func (self *Function) Entry() *BasicBlock {
    if len(self.Blocks) == 0 {
        return nil
    } else {
        return self.Blocks[0]
    }
}

// Block finds a block by name.
func (self *Function) Block(name string) *BasicBlock {
    for _, bb := range self.Blocks {
        if bb.Name == name {
            return bb
        }
    }
    return nil
}

// SetLoc records the location of a value in the side table.
func (self *Function) SetLoc(v Value, rl loc.RegLocation) {
    self.Locs[v] = rl
}

// Loc looks up the side table.
func (self *Function) Loc(v Value) (loc.RegLocation, bool) {
    rl, ok := self.Locs[v]
    return rl, ok
}

// Reachable returns the blocks reachable from the entry, in breadth-first
// order.
func (self *Function) Reachable() []*BasicBlock {
    if len(self.Blocks) == 0 {
        return nil
    }

    /* BFS from the entry */
    q := lane.NewQueue()
    ret := []*BasicBlock(nil)
    vis := map[*BasicBlock]struct{} { self.Blocks[0]: {} }

    /* visit every successor once */
    for q.Enqueue(self.Blocks[0]); !q.Empty(); {
        bb := q.Dequeue().(*BasicBlock)
        ret = append(ret, bb)

        /* add all the successors */
        for _, to := range bb.Successors() {
            if _, ok := vis[to]; !ok {
                vis[to] = struct{}{}
                q.Enqueue(to)
            }
        }
    }
    return ret
}

// String renders the whole function as a textual listing.
func (self *Function) String() string {
    var sb strings.Builder
    args := make([]string, len(self.Args))

    /* function signature */
    for i, a := range self.Args {
        args[i] = operand(a)
    }

    /* header and all the blocks */
    fmt.Fprintf(&sb, "define %s @%q(%s) {\n", self.Ret, self.Name, strings.Join(args, ", "))
    for i, bb := range self.Blocks {
        if i != 0 {
            sb.WriteByte('\n')
        }
        sb.WriteString(bb.String())
    }

    /* end of function */
    sb.WriteString("}\n")
    return sb.String()
}
