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
)

type BlockKind uint8

const (
    BlockNormal BlockKind = iota
    BlockEntry
    BlockExit
    BlockExceptionHandling
    BlockDead
)

func (self BlockKind) String() string {
    switch self {
        case BlockNormal            : return "normal"
        case BlockEntry             : return "entry"
        case BlockExit              : return "exit"
        case BlockExceptionHandling : return "exception-handling"
        case BlockDead              : return "dead"
        default                     : return fmt.Sprintf("BlockKind(%d)", uint8(self))
    }
}

// BasicBlock is a node of the method CFG. Successors holds the switch or
// catch targets, which are visited after the taken branch.
type BasicBlock struct {
    Id           int
    Kind         BlockKind
    StartOffset  int
    First        *MIR
    Last         *MIR
    FallThrough  *BasicBlock
    Taken        *BasicBlock
    Successors   []*BasicBlock
    Predecessors []*BasicBlock
    HasReturn    bool
}

// Append adds an instruction to the end of the block.
func (self *BasicBlock) Append(p *MIR) {
    p.Next = nil
    if self.Last == nil {
        self.First, self.Last = p, p
    } else {
        self.Last.Next, self.Last = p, p
    }
}

// Instrs returns the instructions of the block in order.
func (self *BasicBlock) Instrs() []*MIR {
    var ret []*MIR
    for p := self.First; p != nil; p = p.Next {
        ret = append(ret, p)
    }
    return ret
}

// Edges returns the outgoing edges in traversal order.
func (self *BasicBlock) Edges() []*BasicBlock {
    ret := make([]*BasicBlock, 0, len(self.Successors) + 2)
    if self.FallThrough != nil { ret = append(ret, self.FallThrough) }
    if self.Taken != nil { ret = append(ret, self.Taken) }
    return append(ret, self.Successors...)
}

func (self *BasicBlock) String() string {
    return fmt.Sprintf("bb_%d(%s@%#x)", self.Id, self.Kind, self.StartOffset)
}
