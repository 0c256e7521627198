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

package lir

import (
    `github.com/oleiade/lane`
)

// ApplyLocalOptimizations runs the frame load/store peephole over the
// instructions from head to tail inclusive. Redundant instructions are
// turned into nops.
func ApplyLocalOptimizations(head *LIR, tail *LIR) {
    if head == nil || tail == nil {
        return
    }

    /* every frame reference starts a forward scan */
    for p := head; p != nil; p = p.Next {
        if !p.Nop && p.flags.Has(FrameRef) {
            optimizeFrameRef(p, tail)
        }
        if p == tail {
            break
        }
    }
}

func optimizeFrameRef(p *LIR, tail *LIR) {
    ps := p.slot()
    rm := RegMask(p.Operands[0])
    store := p.flags.Has(IsStore)

    /* a store makes the register a copy of the slot, and so does a load */
    live := true
    for q := p.Next; q != nil; q = q.Next {
        if !q.Nop && q.Opcode != PseudoDalvikByteCodeBoundary {
            if q.IsBarrier() {
                return
            }

            /* frame references to the same or overlapping slots */
            if q.flags.Has(FrameRef) {
                if qs := q.slot(); qs.overlaps(ps) {
                    switch {
                        case q.flags.Has(IsLoad) && live && qs == ps && q.Operands[0] == p.Operands[0]: {
                            q.Nop = true
                        }

                        /* the slot is read, the store is not dead */
                        case q.flags.Has(IsLoad): {
                            if store {
                                return
                            }
                        }

                        /* overwritten before any read */
                        case store && qs == ps: {
                            p.Nop = true
                            return
                        }

                        /* partially overwritten, or the loaded slot changed */
                        default: {
                            return
                        }
                    }
                }
            }

            /* the base register changes */
            if q.DefMask & RegMask(ps.base) != 0 {
                return
            }

            /* the register no longer holds the slot */
            if !q.Nop && q.DefMask & rm != 0 {
                if live = false; !store {
                    return
                }
            }
        }

        /* end of the scan range */
        if q == tail {
            return
        }
    }
}

// RemoveRedundantBranches turns unconditional branches to the next label
// into nops, and returns how many were removed. Removing a branch can make
// the previous one redundant as well, those are revisited.
func RemoveRedundantBranches(list *List) int {
    n := 0
    q := lane.NewQueue()

    /* all the unconditional branches */
    for p := list.Head; p != nil; p = p.Next {
        if !p.Nop && p.IsUncondBranch() && p.Target != nil {
            q.Enqueue(p)
        }
    }

    /* remove until nothing changes */
    for !q.Empty() {
        p := q.Dequeue().(*LIR)
        if p.Nop || !branchesToNext(p) {
            continue
        }

        /* the branch falls through anyway */
        n++
        p.Nop = true

        /* the previous branch may reach its target now */
        if b := prevBranch(p); b != nil {
            q.Enqueue(b)
        }
    }
    return n
}

func branchesToNext(p *LIR) bool {
    for q := p.Next; q != nil; q = q.Next {
        if q == p.Target {
            return true
        } else if q.Nop {
            continue
        } else if !q.Opcode.IsPseudo() || q.Opcode == PseudoBarrier {
            return false
        }
    }
    return false
}

func prevBranch(p *LIR) *LIR {
    for q := p.Prev; q != nil; q = q.Prev {
        if q.Nop {
            continue
        } else if q.IsUncondBranch() && q.Target != nil {
            return q
        } else if !q.Opcode.IsPseudo() || q.Opcode == PseudoBarrier {
            return nil
        }
    }
    return nil
}
