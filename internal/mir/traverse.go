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
    `github.com/oleiade/lane`
    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/simple`
    `gonum.org/v1/gonum/graph/traverse`
)

// PreOrder returns the blocks reachable from the entry block in depth-first
// pre-order. Children are visited fall-through first, then the taken branch,
// then the remaining successors.
func (self *Method) PreOrder() []*BasicBlock {
    if self.Entry == nil {
        return nil
    }

    /* DFS with an explicit stack */
    st := lane.NewStack()
    vis := make(map[*BasicBlock]struct{}, len(self.Blocks))
    ret := make([]*BasicBlock, 0, len(self.Blocks))

    /* a node is visited when popped, so children are pushed in reverse */
    for st.Push(self.Entry); !st.Empty(); {
        bb := st.Pop().(*BasicBlock)
        if _, ok := vis[bb]; ok {
            continue
        }

        /* mark as visited */
        vis[bb] = struct{}{}
        ret = append(ret, bb)

        /* schedule all the children */
        edges := bb.Edges()
        for i := len(edges) - 1; i >= 0; i-- {
            if _, ok := vis[edges[i]]; !ok {
                st.Push(edges[i])
            }
        }
    }
    return ret
}

// Graph builds the CFG as a directed graph keyed by block ID. Self loops
// are dropped.
func (self *Method) Graph() *simple.DirectedGraph {
    g := simple.NewDirectedGraph()

    /* add all the nodes first */
    for _, bb := range self.Blocks {
        if g.Node(int64(bb.Id)) == nil {
            g.AddNode(simple.Node(bb.Id))
        }
    }

    /* then all the edges */
    for _, bb := range self.Blocks {
        for _, to := range bb.Edges() {
            if to.Id != bb.Id {
                g.SetEdge(g.NewEdge(simple.Node(bb.Id), simple.Node(to.Id)))
            }
        }
    }
    return g
}

// ReachableSet returns the IDs of the blocks reachable from the entry block.
func (self *Method) ReachableSet() map[int]bool {
    ret := make(map[int]bool, len(self.Blocks))
    if self.Entry == nil {
        return ret
    }

    /* breadth-first walk from the entry */
    bfs := traverse.BreadthFirst{}
    bfs.Walk(self.Graph(), simple.Node(self.Entry.Id), func(n graph.Node, _ int) bool {
        ret[int(n.ID())] = true
        return false
    })
    return ret
}
