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

package amd64

import (
    `fmt`
    `strings`

    `github.com/chenzhuoyu/iasm/x86_64`
    `golang.org/x/arch/x86/x86asm`

    `github.com/cloudwego/mirbridge/internal/lir`
)

func r64(r int) x86_64.Register64 {
    if isFPReg(r) {
        panic("amd64: expected a core register: " + RegName(r))
    } else {
        return x86_64.Register64(r)
    }
}

func r32(r int) x86_64.Register32 { return x86_64.Register32(r64(r)) }
func r16(r int) x86_64.Register16 { return x86_64.Register16(r64(r)) }
func r8(r int) x86_64.Register8   { return x86_64.Register8(r64(r)) }

func xmm(r int) x86_64.XMMRegister {
    if !isFPReg(r) {
        panic("amd64: expected an XMM register: " + RegName(r))
    } else {
        return x86_64.XMMRegister(r - XMM0)
    }
}

func mem(base int, disp int) *x86_64.MemoryOperand {
    return x86_64.Ptr(r64(base), int32(disp))
}

func elem(p *lir.LIR, scale uint8) *x86_64.MemoryOperand {
    return x86_64.Sib(r64(p.Operands[1]), r64(p.Operands[2]), scale, int32(p.Operands[3]))
}

func thread(disp int) *x86_64.MemoryOperand {
    return x86_64.Ptr(x86_64.R15, int32(disp))
}

type _Assembler struct {
    prog   *x86_64.Program
    labels map[*lir.LIR]*x86_64.Label
}

func (self *_Assembler) label(p *lir.LIR) *x86_64.Label {
    if p == nil {
        panic("amd64: branch without a target")
    }

    /* create on first reference */
    if v, ok := self.labels[p]; ok {
        return v
    } else {
        v = x86_64.CreateLabel(fmt.Sprintf("_L%d", p.Id))
        self.labels[p] = v
        return v
    }
}

var translators = [NumOpcodes]func(*_Assembler, *lir.LIR) {
    Mov32RR    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVL(r32(p.Operands[1]), r32(p.Operands[0])) },
    Mov64RR    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVQ(r64(p.Operands[1]), r64(p.Operands[0])) },
    Mov32RI    : (*_Assembler).movImm32,
    Mov64RI    : (*_Assembler).movImm64,
    Mov32RF    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVL(mem(p.Operands[1], p.Operands[2]), r32(p.Operands[0])) },
    Mov32FR    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVL(r32(p.Operands[0]), mem(p.Operands[1], p.Operands[2])) },
    Mov64RF    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVQ(mem(p.Operands[1], p.Operands[2]), r64(p.Operands[0])) },
    Mov64FR    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVQ(r64(p.Operands[0]), mem(p.Operands[1], p.Operands[2])) },
    MovssRF    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVSS(mem(p.Operands[1], p.Operands[2]), xmm(p.Operands[0])) },
    MovssFR    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVSS(xmm(p.Operands[0]), mem(p.Operands[1], p.Operands[2])) },
    MovsdRF    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVSD(mem(p.Operands[1], p.Operands[2]), xmm(p.Operands[0])) },
    MovsdFR    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVSD(xmm(p.Operands[0]), mem(p.Operands[1], p.Operands[2])) },
    MovdRX     : func(a *_Assembler, p *lir.LIR) { a.prog.MOVD(xmm(p.Operands[1]), r32(p.Operands[0])) },
    MovqRX     : func(a *_Assembler, p *lir.LIR) { a.prog.MOVQ(xmm(p.Operands[1]), r64(p.Operands[0])) },
    MovdXR     : func(a *_Assembler, p *lir.LIR) { a.prog.MOVD(r32(p.Operands[1]), xmm(p.Operands[0])) },
    MovqXR     : func(a *_Assembler, p *lir.LIR) { a.prog.MOVQ(r64(p.Operands[1]), xmm(p.Operands[0])) },
    Mov32RM    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVL(mem(p.Operands[1], p.Operands[2]), r32(p.Operands[0])) },
    Mov32MR    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVL(r32(p.Operands[0]), mem(p.Operands[1], p.Operands[2])) },
    Mov64RM    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVQ(mem(p.Operands[1], p.Operands[2]), r64(p.Operands[0])) },
    Mov32RA    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVL(elem(p, 4), r32(p.Operands[0])) },
    Mov32AR    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVL(r32(p.Operands[0]), elem(p, 4)) },
    Mov64RA    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVQ(elem(p, 8), r64(p.Operands[0])) },
    Mov64AR    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVQ(r64(p.Operands[0]), elem(p, 8)) },
    Movzx8RA   : func(a *_Assembler, p *lir.LIR) { a.prog.MOVZBL(elem(p, 1), r32(p.Operands[0])) },
    Movsx8RA   : func(a *_Assembler, p *lir.LIR) { a.prog.MOVSBL(elem(p, 1), r32(p.Operands[0])) },
    Movzx16RA  : func(a *_Assembler, p *lir.LIR) { a.prog.MOVZWL(elem(p, 2), r32(p.Operands[0])) },
    Movsx16RA  : func(a *_Assembler, p *lir.LIR) { a.prog.MOVSWL(elem(p, 2), r32(p.Operands[0])) },
    Mov8AR     : func(a *_Assembler, p *lir.LIR) { a.prog.MOVB(r8(p.Operands[0]), elem(p, 1)) },
    Mov16AR    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVW(r16(p.Operands[0]), elem(p, 2)) },
    Mov32RT    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVL(thread(p.Operands[1]), r32(p.Operands[0])) },
    Mov32TI    : func(a *_Assembler, p *lir.LIR) { a.prog.MOVL(int32(p.Operands[1]), thread(p.Operands[0])) },
    Movsx8RR   : func(a *_Assembler, p *lir.LIR) { a.prog.MOVSBL(r8(p.Operands[1]), r32(p.Operands[0])) },
    Movzx16RR  : func(a *_Assembler, p *lir.LIR) { a.prog.MOVZWL(r16(p.Operands[1]), r32(p.Operands[0])) },
    Movsx16RR  : func(a *_Assembler, p *lir.LIR) { a.prog.MOVSWL(r16(p.Operands[1]), r32(p.Operands[0])) },
    Movsxd64RR : func(a *_Assembler, p *lir.LIR) { a.prog.MOVSLQ(r32(p.Operands[1]), r64(p.Operands[0])) },
    Lea64RF    : func(a *_Assembler, p *lir.LIR) { a.prog.LEAQ(mem(p.Operands[1], p.Operands[2]), r64(p.Operands[0])) },
    Add32RR    : func(a *_Assembler, p *lir.LIR) { a.prog.ADDL(r32(p.Operands[1]), r32(p.Operands[0])) },
    Sub32RR    : func(a *_Assembler, p *lir.LIR) { a.prog.SUBL(r32(p.Operands[1]), r32(p.Operands[0])) },
    Imul32RR   : func(a *_Assembler, p *lir.LIR) { a.prog.IMULL(r32(p.Operands[1]), r32(p.Operands[0])) },
    And32RR    : func(a *_Assembler, p *lir.LIR) { a.prog.ANDL(r32(p.Operands[1]), r32(p.Operands[0])) },
    Or32RR     : func(a *_Assembler, p *lir.LIR) { a.prog.ORL(r32(p.Operands[1]), r32(p.Operands[0])) },
    Xor32RR    : func(a *_Assembler, p *lir.LIR) { a.prog.XORL(r32(p.Operands[1]), r32(p.Operands[0])) },
    Add32RI    : func(a *_Assembler, p *lir.LIR) { a.prog.ADDL(int32(p.Operands[1]), r32(p.Operands[0])) },
    Sub32RI    : func(a *_Assembler, p *lir.LIR) { a.prog.SUBL(int32(p.Operands[1]), r32(p.Operands[0])) },
    Imul32RRI  : func(a *_Assembler, p *lir.LIR) { a.prog.IMULL(int32(p.Operands[2]), r32(p.Operands[1]), r32(p.Operands[0])) },
    And32RI    : func(a *_Assembler, p *lir.LIR) { a.prog.ANDL(int32(p.Operands[1]), r32(p.Operands[0])) },
    Or32RI     : func(a *_Assembler, p *lir.LIR) { a.prog.ORL(int32(p.Operands[1]), r32(p.Operands[0])) },
    Xor32RI    : func(a *_Assembler, p *lir.LIR) { a.prog.XORL(int32(p.Operands[1]), r32(p.Operands[0])) },
    Shl32RI    : func(a *_Assembler, p *lir.LIR) { a.prog.SHLL(uint8(p.Operands[1]), r32(p.Operands[0])) },
    Sar32RI    : func(a *_Assembler, p *lir.LIR) { a.prog.SARL(uint8(p.Operands[1]), r32(p.Operands[0])) },
    Shr32RI    : func(a *_Assembler, p *lir.LIR) { a.prog.SHRL(uint8(p.Operands[1]), r32(p.Operands[0])) },
    Shl32RC    : func(a *_Assembler, p *lir.LIR) { a.prog.SHLL(x86_64.CL, r32(p.Operands[0])) },
    Sar32RC    : func(a *_Assembler, p *lir.LIR) { a.prog.SARL(x86_64.CL, r32(p.Operands[0])) },
    Shr32RC    : func(a *_Assembler, p *lir.LIR) { a.prog.SHRL(x86_64.CL, r32(p.Operands[0])) },
    Neg32R     : func(a *_Assembler, p *lir.LIR) { a.prog.NEGL(r32(p.Operands[0])) },
    Add64RR    : func(a *_Assembler, p *lir.LIR) { a.prog.ADDQ(r64(p.Operands[1]), r64(p.Operands[0])) },
    Sub64RR    : func(a *_Assembler, p *lir.LIR) { a.prog.SUBQ(r64(p.Operands[1]), r64(p.Operands[0])) },
    Imul64RR   : func(a *_Assembler, p *lir.LIR) { a.prog.IMULQ(r64(p.Operands[1]), r64(p.Operands[0])) },
    And64RR    : func(a *_Assembler, p *lir.LIR) { a.prog.ANDQ(r64(p.Operands[1]), r64(p.Operands[0])) },
    Or64RR     : func(a *_Assembler, p *lir.LIR) { a.prog.ORQ(r64(p.Operands[1]), r64(p.Operands[0])) },
    Xor64RR    : func(a *_Assembler, p *lir.LIR) { a.prog.XORQ(r64(p.Operands[1]), r64(p.Operands[0])) },
    Shl64RC    : func(a *_Assembler, p *lir.LIR) { a.prog.SHLQ(x86_64.CL, r64(p.Operands[0])) },
    Sar64RC    : func(a *_Assembler, p *lir.LIR) { a.prog.SARQ(x86_64.CL, r64(p.Operands[0])) },
    Shr64RC    : func(a *_Assembler, p *lir.LIR) { a.prog.SHRQ(x86_64.CL, r64(p.Operands[0])) },
    AddssRR    : func(a *_Assembler, p *lir.LIR) { a.prog.ADDSS(xmm(p.Operands[1]), xmm(p.Operands[0])) },
    SubssRR    : func(a *_Assembler, p *lir.LIR) { a.prog.SUBSS(xmm(p.Operands[1]), xmm(p.Operands[0])) },
    MulssRR    : func(a *_Assembler, p *lir.LIR) { a.prog.MULSS(xmm(p.Operands[1]), xmm(p.Operands[0])) },
    DivssRR    : func(a *_Assembler, p *lir.LIR) { a.prog.DIVSS(xmm(p.Operands[1]), xmm(p.Operands[0])) },
    AddsdRR    : func(a *_Assembler, p *lir.LIR) { a.prog.ADDSD(xmm(p.Operands[1]), xmm(p.Operands[0])) },
    SubsdRR    : func(a *_Assembler, p *lir.LIR) { a.prog.SUBSD(xmm(p.Operands[1]), xmm(p.Operands[0])) },
    MulsdRR    : func(a *_Assembler, p *lir.LIR) { a.prog.MULSD(xmm(p.Operands[1]), xmm(p.Operands[0])) },
    DivsdRR    : func(a *_Assembler, p *lir.LIR) { a.prog.DIVSD(xmm(p.Operands[1]), xmm(p.Operands[0])) },
    Cmp32RR    : func(a *_Assembler, p *lir.LIR) { a.prog.CMPL(r32(p.Operands[1]), r32(p.Operands[0])) },
    Cmp64RR    : func(a *_Assembler, p *lir.LIR) { a.prog.CMPQ(r64(p.Operands[1]), r64(p.Operands[0])) },
    Cmp32RI    : func(a *_Assembler, p *lir.LIR) { a.prog.CMPL(int32(p.Operands[1]), r32(p.Operands[0])) },
    Cmp32RM    : func(a *_Assembler, p *lir.LIR) { a.prog.CMPL(mem(p.Operands[1], p.Operands[2]), r32(p.Operands[0])) },
    Cmp32TI    : func(a *_Assembler, p *lir.LIR) { a.prog.CMPL(int32(p.Operands[1]), thread(p.Operands[0])) },
    Test32RR   : func(a *_Assembler, p *lir.LIR) { a.prog.TESTL(r32(p.Operands[1]), r32(p.Operands[0])) },
    Test64RR   : func(a *_Assembler, p *lir.LIR) { a.prog.TESTQ(r64(p.Operands[1]), r64(p.Operands[0])) },
    MovapsRR   : func(a *_Assembler, p *lir.LIR) { a.prog.MOVAPS(xmm(p.Operands[1]), xmm(p.Operands[0])) },
    Jmp        : func(a *_Assembler, p *lir.LIR) { a.prog.JMP(a.label(p.Target)) },
    Jcc        : (*_Assembler).jcc,
    CallT      : func(a *_Assembler, p *lir.LIR) { a.prog.CALLQ(thread(p.Operands[0])) },
    Ret        : func(a *_Assembler, _ *lir.LIR) { a.prog.RET() },
    Sub64SP    : func(a *_Assembler, p *lir.LIR) { a.prog.SUBQ(int32(p.Operands[0]), x86_64.RSP) },
    Add64SP    : func(a *_Assembler, p *lir.LIR) { a.prog.ADDQ(int32(p.Operands[0]), x86_64.RSP) },
}

func (self *_Assembler) movImm32(p *lir.LIR) {
    if p.Operands[1] == 0 {
        self.prog.XORL(r32(p.Operands[0]), r32(p.Operands[0]))
    } else {
        self.prog.MOVL(int32(p.Operands[1]), r32(p.Operands[0]))
    }
}

func (self *_Assembler) movImm64(p *lir.LIR) {
    if p.Operands[1] == 0 {
        self.prog.XORL(r32(p.Operands[0]), r32(p.Operands[0]))
    } else {
        self.prog.MOVQ(int64(p.Operands[1]), r64(p.Operands[0]))
    }
}

func (self *_Assembler) jcc(p *lir.LIR) {
    to := self.label(p.Target)
    switch p.Operands[0] {
        case ccE  : self.prog.JE(to)
        case ccNE : self.prog.JNE(to)
        case ccL  : self.prog.JL(to)
        case ccGE : self.prog.JGE(to)
        case ccG  : self.prog.JG(to)
        case ccLE : self.prog.JLE(to)
        case ccAE : self.prog.JAE(to)
        default   : panic(fmt.Sprintf("amd64: invalid condition code %d", p.Operands[0]))
    }
}

// Assemble encodes the live instructions of a list. Labels become iasm
// labels, the other pseudo instructions and the nops emit nothing.
func Assemble(list *lir.List) []byte {
    if list.ISA != ISA {
        panic("amd64: cannot assemble " + list.ISA.Name + " instructions")
    }

    /* create the program */
    a := &_Assembler {
        prog   : x86_64.DefaultArch.CreateProgram(),
        labels : make(map[*lir.LIR]*x86_64.Label),
    }

    /* translate every instruction */
    for p := list.Head; p != nil; p = p.Next {
        if p.Nop {
            continue
        } else if p.Opcode.IsLabel() {
            a.prog.Link(a.label(p))
        } else if !p.Opcode.IsPseudo() {
            if int(p.Opcode) >= len(translators) || translators[p.Opcode] == nil {
                panic(fmt.Sprintf("amd64: no translator for opcode %d", p.Opcode))
            }
            translators[p.Opcode](a, p)
        }
    }

    /* encode the whole program */
    defer a.prog.Free()
    return a.prog.Assemble(0)
}

// Disassemble renders machine code in GNU syntax, one instruction per
// line. Calls through the thread are annotated with the helper name.
func Disassemble(code []byte) (string, error) {
    var pc int
    var sb strings.Builder

    /* decode one instruction at a time */
    for pc < len(code) {
        ins, err := x86asm.Decode(code[pc:], 64)
        if err != nil {
            return sb.String(), fmt.Errorf("amd64: cannot decode at %#x: %w", pc, err)
        }

        /* the instruction itself */
        fmt.Fprintf(&sb, "%#06x    %s", pc, x86asm.GNUSyntax(ins, uint64(pc), nil))
        if ins.Op == x86asm.CALL {
            if ep, ok := threadCall(ins); ok {
                fmt.Fprintf(&sb, "    # %s", ep)
            }
        }

        /* next one */
        sb.WriteByte('\n')
        pc += ins.Len
    }
    return sb.String(), nil
}

// Decode splits machine code into instructions.
func Decode(code []byte) ([]x86asm.Inst, error) {
    var pc int
    var ret []x86asm.Inst

    /* decode everything */
    for pc < len(code) {
        if ins, err := x86asm.Decode(code[pc:], 64); err != nil {
            return nil, fmt.Errorf("amd64: cannot decode at %#x: %w", pc, err)
        } else {
            ret = append(ret, ins)
            pc += ins.Len
        }
    }
    return ret, nil
}

func threadCall(ins x86asm.Inst) (Entrypoint, bool) {
    if m, ok := ins.Args[0].(x86asm.Mem); !ok || m.Base != x86asm.R15 {
        return 0, false
    } else {
        return EntrypointAt(int(m.Disp))
    }
}
