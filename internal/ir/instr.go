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

    `github.com/cloudwego/mirbridge/internal/intrinsic`
)

// Opcode is the operation of an IR instruction.
type Opcode uint8

const (
    OP_add Opcode = iota
    OP_sub
    OP_mul
    OP_sdiv
    OP_srem
    OP_udiv
    OP_urem
    OP_and
    OP_or
    OP_xor
    OP_shl
    OP_lshr
    OP_ashr
    OP_fadd
    OP_fsub
    OP_fmul
    OP_fdiv
    OP_frem
    OP_icmp
    OP_fcmp
    OP_sext
    OP_zext
    OP_trunc
    OP_sitofp
    OP_fptosi
    OP_fpext
    OP_fptrunc
    OP_bitcast
    OP_phi
    OP_call
    OP_br
    OP_condbr
    OP_switch
    OP_ret
    OP_unreachable
    OP_load
    OP_store
    OP_alloca
    OP_gep
    OP_select
    OP_resume
    OP_extractelement
    OP_insertelement
    OP_shufflevector
    OP_landingpad
    OP_invoke
    NumOpcodes
)

var opnames = [NumOpcodes]string {
    OP_add            : "add",
    OP_sub            : "sub",
    OP_mul            : "mul",
    OP_sdiv           : "sdiv",
    OP_srem           : "srem",
    OP_udiv           : "udiv",
    OP_urem           : "urem",
    OP_and            : "and",
    OP_or             : "or",
    OP_xor            : "xor",
    OP_shl            : "shl",
    OP_lshr           : "lshr",
    OP_ashr           : "ashr",
    OP_fadd           : "fadd",
    OP_fsub           : "fsub",
    OP_fmul           : "fmul",
    OP_fdiv           : "fdiv",
    OP_frem           : "frem",
    OP_icmp           : "icmp",
    OP_fcmp           : "fcmp",
    OP_sext           : "sext",
    OP_zext           : "zext",
    OP_trunc          : "trunc",
    OP_sitofp         : "sitofp",
    OP_fptosi         : "fptosi",
    OP_fpext          : "fpext",
    OP_fptrunc        : "fptrunc",
    OP_bitcast        : "bitcast",
    OP_phi            : "phi",
    OP_call           : "call",
    OP_br             : "br",
    OP_condbr         : "br",
    OP_switch         : "switch",
    OP_ret            : "ret",
    OP_unreachable    : "unreachable",
    OP_load           : "load",
    OP_store          : "store",
    OP_alloca         : "alloca",
    OP_gep            : "getelementptr",
    OP_select         : "select",
    OP_resume         : "resume",
    OP_extractelement : "extractelement",
    OP_insertelement  : "insertelement",
    OP_shufflevector  : "shufflevector",
    OP_landingpad     : "landingpad",
    OP_invoke         : "invoke",
}

func (self Opcode) String() string {
    if self < NumOpcodes {
        return opnames[self]
    } else {
        return fmt.Sprintf("op(%d)", uint8(self))
    }
}

// IsBinary reports whether the opcode is a two-operand arithmetic operation.
func (self Opcode) IsBinary() bool {
    return self <= OP_frem
}

func (self Opcode) IsCast() bool {
    return self >= OP_sext && self <= OP_bitcast
}

// IsTerminator reports whether the opcode ends a basic block.
func (self Opcode) IsTerminator() bool {
    switch self {
        case OP_br, OP_condbr, OP_switch, OP_ret, OP_unreachable, OP_resume, OP_invoke : return true
        default                                                                        : return false
    }
}

// Instr is an IR instruction. Branch targets live in Targets: the
// destination for br, (true, false) for a conditional branch, and the
// default followed by the cases for a switch. Incoming holds the
// predecessor block of every phi operand.
type Instr struct {
    Op       Opcode
    Pred     Predicate
    Operands []Value
    Targets  []*BasicBlock
    Incoming []*BasicBlock
    Cases    []int64
    Callee   string
    Block    *BasicBlock
    Offset   int
    Info     *MethodInfo
    name     string
    typ      Type
}

func (self *Instr) Type() Type           { return self.typ }
func (self *Instr) Name() string         { return self.name }
func (self *Instr) SetName(name string)  { self.name = name }

func (self *Instr) String() string {
    return refName(self.name)
}

// HasOffset reports whether the instruction carries a dex offset.
func (self *Instr) HasOffset() bool {
    return self.Offset >= 0
}

// Intrinsic returns the catalog entry called by a call instruction.
func (self *Instr) Intrinsic() (intrinsic.Id, bool) {
    if self.Op != OP_call {
        return 0, false
    } else {
        return intrinsic.Lookup(self.Callee)
    }
}

// Operand returns the i-th operand.
func (self *Instr) Operand(i int) Value {
    return self.Operands[i]
}

func (self *Instr) setOperand(i int, v Value) {
    self.Operands[i] = v
    track(v, self, i)
}

// SetOperand replaces the i-th operand.
func (self *Instr) SetOperand(i int, v Value) {
    if i < 0 || i >= len(self.Operands) {
        panic(fmt.Sprintf("ir: operand index %d out of range", i))
    } else {
        self.setOperand(i, v)
    }
}

// AddIncoming adds one incoming value to a phi node.
func (self *Instr) AddIncoming(v Value, bb *BasicBlock) {
    if self.Op != OP_phi {
        panic("ir: AddIncoming on a non-phi instruction")
    }
    self.Operands = append(self.Operands, v)
    self.Incoming = append(self.Incoming, bb)
    track(v, self, len(self.Operands) - 1)
}

// Format renders the instruction as one listing line.
func (self *Instr) Format() string {
    if !self.HasOffset() {
        return self.FormatBody()
    } else {
        return fmt.Sprintf("%s    ; %#x", self.FormatBody(), self.Offset)
    }
}

// FormatBody renders the instruction without its dex offset.
func (self *Instr) FormatBody() string {
    var sb strings.Builder
    if self.typ != Void {
        sb.WriteString(refName(self.name))
        sb.WriteString(" = ")
    }

    /* the opcode and its operands */
    switch self.Op {
        case OP_icmp, OP_fcmp : fmt.Fprintf(&sb, "%s %s %s", self.Op, self.Pred, joinOperands(self.Operands))
        case OP_phi           : fmt.Fprintf(&sb, "phi %s %s", self.typ, self.formatIncoming())
        case OP_call          : fmt.Fprintf(&sb, "call %s @%s(%s)", self.typ, self.Callee, joinOperands(self.Operands))
        case OP_br            : fmt.Fprintf(&sb, "br label %%%s", self.Targets[0].Name)
        case OP_condbr        : fmt.Fprintf(&sb, "br %s, label %%%s, label %%%s", operand(self.Operands[0]), self.Targets[0].Name, self.Targets[1].Name)
        case OP_switch        : sb.WriteString(self.formatSwitch())
        case OP_ret           : sb.WriteString(self.formatRet())
        case OP_unreachable   : sb.WriteString("unreachable")
        default               : self.formatGeneric(&sb)
    }

    /* method info record */
    if self.Info != nil {
        fmt.Fprintf(&sb, " !%s", self.Info)
    }
    return sb.String()
}

func (self *Instr) formatGeneric(sb *strings.Builder) {
    sb.WriteString(self.Op.String())
    if self.Op.IsCast() {
        fmt.Fprintf(sb, " %s to %s", joinOperands(self.Operands), self.typ)
    } else if len(self.Operands) != 0 {
        sb.WriteByte(' ')
        sb.WriteString(joinOperands(self.Operands))
    }
}

func (self *Instr) formatIncoming() string {
    var ret []string
    for i, v := range self.Operands {
        ret = append(ret, fmt.Sprintf("[ %s, %%%s ]", v, self.Incoming[i].Name))
    }
    return strings.Join(ret, ", ")
}

func (self *Instr) formatSwitch() string {
    var ret []string
    for i, v := range self.Cases {
        ret = append(ret, fmt.Sprintf("%d, label %%%s", v, self.Targets[i + 1].Name))
    }
    return fmt.Sprintf("switch %s, label %%%s [ %s ]", operand(self.Operands[0]), self.Targets[0].Name, strings.Join(ret, "; "))
}

func (self *Instr) formatRet() string {
    if len(self.Operands) == 0 {
        return "ret void"
    } else {
        return "ret " + operand(self.Operands[0])
    }
}

func joinOperands(vals []Value) string {
    ret := make([]string, len(vals))
    for i, v := range vals {
        ret[i] = operand(v)
    }
    return strings.Join(ret, ", ")
}
