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
    `github.com/cloudwego/mirbridge/internal/intrinsic`
    `github.com/cloudwego/mirbridge/internal/utils`
)

// Verify checks the structural well-formedness of the function.
func (self *Function) Verify() error {
    if len(self.Blocks) == 0 {
        return utils.EInvariant("%s: function has no blocks", self.Name)
    }

    /* predecessors of every block */
    pred := make(map[*BasicBlock]map[*BasicBlock]bool, len(self.Blocks))
    for _, bb := range self.Blocks {
        for _, to := range bb.Successors() {
            if pred[to] == nil {
                pred[to] = make(map[*BasicBlock]bool)
            }
            pred[to][bb] = true
        }
    }

    /* check every block */
    for _, bb := range self.Blocks {
        if err := self.verifyBlock(bb, pred[bb]); err != nil {
            return err
        }
    }
    return nil
}

func (self *Function) verifyBlock(bb *BasicBlock, pred map[*BasicBlock]bool) error {
    if bb.Terminator() == nil {
        return utils.EInvariant("%s: block %s is not terminated", self.Name, bb.Name)
    }

    /* check every instruction */
    for i, ins := range bb.Instrs {
        if ins.Op.IsTerminator() && i != len(bb.Instrs) - 1 {
            return utils.EInvariant("%s: %s: terminator in the middle of the block", self.Name, bb.Name)
        }

        /* successors must be in this function */
        for _, to := range ins.Targets {
            if to == nil || to.Parent != self {
                return utils.EInvariant("%s: %s: branch to a foreign block", self.Name, bb.Name)
            }
        }

        /* check the instruction itself */
        if err := self.verifyInstr(bb, ins, pred); err != nil {
            return err
        }
    }
    return nil
}

func (self *Function) verifyInstr(bb *BasicBlock, ins *Instr, pred map[*BasicBlock]bool) error {
    for _, v := range ins.Operands {
        if v == nil {
            return utils.EInvariant("%s: %s: nil operand in %s", self.Name, bb.Name, ins.Format())
        } else if _, ok := v.(*Placeholder); ok {
            return utils.EInvariant("%s: %s: unresolved value %s in %s", self.Name, bb.Name, v.Name(), ins.Format())
        }
    }

    /* per-opcode checks */
    switch {
        case ins.Op.IsBinary() : return self.verifySameType(bb, ins, ins.typ)
        case ins.Op == OP_icmp : return self.verifySameType(bb, ins, ins.Operands[0].Type())
        case ins.Op == OP_phi  : return self.verifyPhi(bb, ins, pred)
        case ins.Op == OP_ret  : return self.verifyRet(bb, ins)
        case ins.Op == OP_call : return self.verifyCall(bb, ins)
        default                : return nil
    }
}

func (self *Function) verifySameType(bb *BasicBlock, ins *Instr, ty Type) error {
    for _, v := range ins.Operands {
        if v.Type() != ty {
            return utils.EInvariant("%s: %s: operand type mismatch in %s", self.Name, bb.Name, ins.Format())
        }
    }
    return nil
}

func (self *Function) verifyPhi(bb *BasicBlock, ins *Instr, pred map[*BasicBlock]bool) error {
    if len(ins.Incoming) != len(ins.Operands) {
        return utils.EInvariant("%s: %s: malformed phi %s", self.Name, bb.Name, ins.Format())
    }

    /* every incoming block must be a predecessor */
    for _, p := range ins.Incoming {
        if !pred[p] {
            return utils.EInvariant("%s: %s: phi incoming block %s is not a predecessor", self.Name, bb.Name, p.Name)
        }
    }

    /* and every value of the phi type */
    return self.verifySameType(bb, ins, ins.typ)
}

func (self *Function) verifyRet(bb *BasicBlock, ins *Instr) error {
    if self.Ret == Void && len(ins.Operands) != 0 {
        return utils.EInvariant("%s: %s: returning a value from a void function", self.Name, bb.Name)
    } else if self.Ret != Void && (len(ins.Operands) != 1 || ins.Operands[0].Type() != self.Ret) {
        return utils.EInvariant("%s: %s: return type mismatch, want %s", self.Name, bb.Name, self.Ret)
    } else {
        return nil
    }
}

func (self *Function) verifyCall(bb *BasicBlock, ins *Instr) (err error) {
    var id intrinsic.Id
    var ok bool

    /* external calls are not checked */
    if id, ok = ins.Intrinsic(); !ok {
        return nil
    }

    /* re-check the shape, an optimizer may have rewritten the operands */
    defer func() {
        if v := recover(); v != nil {
            err = utils.EInvariant("%s: %s: %v", self.Name, bb.Name, v)
        }
    }()

    /* check against the catalog */
    checkIntrinsic(id, id.Info(), ins.Operands)
    return nil
}
