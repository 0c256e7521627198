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

    `github.com/cloudwego/mirbridge/internal/lir`
)

// Physical registers, numbered as in the instruction encoding. XMM
// registers follow the general purpose ones.
const (
    RAX = iota
    RCX
    RDX
    RBX
    RSP
    RBP
    RSI
    RDI
    R8
    R9
    R10
    R11
    R12
    R13
    R14
    R15
    XMM0
    XMM1
    XMM2
    XMM3
    XMM4
    XMM5
    XMM6
    XMM7
    NumRegs
)

const (
    rSELF  = R15
    rSHIFT = RCX
)

var regNames = [NumRegs]string {
    "rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi",
    "r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
    "xmm0", "xmm1", "xmm2", "xmm3", "xmm4", "xmm5", "xmm6", "xmm7",
}

func RegName(reg int) string {
    if reg < 0 || reg >= NumRegs {
        return fmt.Sprintf("r?%d", reg)
    } else {
        return regNames[reg]
    }
}

func isFPReg(reg int) bool {
    return reg >= XMM0 && reg < NumRegs
}

// Target opcodes. The suffix names the operands: R register, I immediate,
// F Dalvik frame slot, M memory at base+disp, A array element at
// base+index*scale+disp, T thread-relative slot. Array accesses scale the
// index by the access width.
const (
    Mov32RR lir.Opcode = iota
    Mov64RR
    Mov32RI
    Mov64RI
    Mov32RF
    Mov32FR
    Mov64RF
    Mov64FR
    MovssRF
    MovssFR
    MovsdRF
    MovsdFR
    MovdRX
    MovqRX
    MovdXR
    MovqXR
    Mov32RM
    Mov32MR
    Mov64RM
    Mov32RA
    Mov32AR
    Mov64RA
    Mov64AR
    Movzx8RA
    Movsx8RA
    Movzx16RA
    Movsx16RA
    Mov8AR
    Mov16AR
    Mov32RT
    Mov32TI
    Movsx8RR
    Movzx16RR
    Movsx16RR
    Movsxd64RR
    Lea64RF
    Add32RR
    Sub32RR
    Imul32RR
    And32RR
    Or32RR
    Xor32RR
    Add32RI
    Sub32RI
    Imul32RRI
    And32RI
    Or32RI
    Xor32RI
    Shl32RI
    Sar32RI
    Shr32RI
    Shl32RC
    Sar32RC
    Shr32RC
    Neg32R
    Add64RR
    Sub64RR
    Imul64RR
    And64RR
    Or64RR
    Xor64RR
    Shl64RC
    Sar64RC
    Shr64RC
    AddssRR
    SubssRR
    MulssRR
    DivssRR
    AddsdRR
    SubsdRR
    MulsdRR
    DivsdRR
    Cmp32RR
    Cmp64RR
    Cmp32RI
    Cmp32RM
    Cmp32TI
    Test32RR
    Test64RR
    MovapsRR
    Jmp
    Jcc
    CallT
    Ret
    Sub64SP
    Add64SP
    NumOpcodes
)

// Condition codes of Jcc, in operand 0. Listings name the condition in the
// comment of the branch.
const (
    ccE = iota
    ccNE
    ccL
    ccGE
    ccG
    ccLE
    ccAE
)

var ccNames = [...]string { "je", "jne", "jl", "jge", "jg", "jle", "jae" }

const (
    def0use1   = lir.RegDef0 | lir.RegUse1
    use01      = lir.RegUse0 | lir.RegUse1
    binop      = lir.RegDef0 | lir.RegUse0 | lir.RegUse1 | lir.SetsCCodes
    binopImm   = lir.RegDef0 | lir.RegUse0 | lir.SetsCCodes
    shiftCL    = lir.RegDef0 | lir.RegUse0 | lir.SetsCCodes
    frameLoad  = lir.FrameRef | lir.IsLoad | lir.RegDef0 | lir.RegUse1
    frameStore = lir.FrameRef | lir.IsStore | lir.RegUse0 | lir.RegUse1
    arrayLoad  = lir.IsLoad | lir.RegDef0 | lir.RegUse1 | lir.RegUse2
    arrayStore = lir.IsStore | lir.RegUse0 | lir.RegUse1 | lir.RegUse2
)

var encodings = [NumOpcodes]lir.Encoding {
    Mov32RR    : { Name: "movl",     Flags: def0use1,                       Format: "!1r, !0r" },
    Mov64RR    : { Name: "movq",     Flags: def0use1,                       Format: "!1r, !0r" },
    Mov32RI    : { Name: "movl",     Flags: lir.RegDef0,                    Format: "$!1d, !0r" },
    Mov64RI    : { Name: "movq",     Flags: lir.RegDef0,                    Format: "$!1d, !0r" },
    Mov32RF    : { Name: "movl",     Flags: frameLoad,                      Format: "!2d(!1r), !0r" },
    Mov32FR    : { Name: "movl",     Flags: frameStore,                     Format: "!0r, !2d(!1r)" },
    Mov64RF    : { Name: "movq",     Flags: frameLoad | lir.IsWide,         Format: "!2d(!1r), !0r" },
    Mov64FR    : { Name: "movq",     Flags: frameStore | lir.IsWide,        Format: "!0r, !2d(!1r)" },
    MovssRF    : { Name: "movss",    Flags: frameLoad,                      Format: "!2d(!1r), !0r" },
    MovssFR    : { Name: "movss",    Flags: frameStore,                     Format: "!0r, !2d(!1r)" },
    MovsdRF    : { Name: "movsd",    Flags: frameLoad | lir.IsWide,         Format: "!2d(!1r), !0r" },
    MovsdFR    : { Name: "movsd",    Flags: frameStore | lir.IsWide,        Format: "!0r, !2d(!1r)" },
    MovdRX     : { Name: "movd",     Flags: def0use1,                       Format: "!1r, !0r" },
    MovqRX     : { Name: "movq",     Flags: def0use1,                       Format: "!1r, !0r" },
    MovdXR     : { Name: "movd",     Flags: def0use1,                       Format: "!1r, !0r" },
    MovqXR     : { Name: "movq",     Flags: def0use1,                       Format: "!1r, !0r" },
    Mov32RM    : { Name: "movl",     Flags: lir.IsLoad | def0use1,          Format: "!2d(!1r), !0r" },
    Mov32MR    : { Name: "movl",     Flags: lir.IsStore | use01,            Format: "!0r, !2d(!1r)" },
    Mov64RM    : { Name: "movq",     Flags: lir.IsLoad | def0use1,          Format: "!2d(!1r), !0r" },
    Mov32RA    : { Name: "movl",     Flags: arrayLoad,                      Format: "!3d(!1r,!2r,4), !0r" },
    Mov32AR    : { Name: "movl",     Flags: arrayStore,                     Format: "!0r, !3d(!1r,!2r,4)" },
    Mov64RA    : { Name: "movq",     Flags: arrayLoad,                      Format: "!3d(!1r,!2r,8), !0r" },
    Mov64AR    : { Name: "movq",     Flags: arrayStore,                     Format: "!0r, !3d(!1r,!2r,8)" },
    Movzx8RA   : { Name: "movzbl",   Flags: arrayLoad,                      Format: "!3d(!1r,!2r,1), !0r" },
    Movsx8RA   : { Name: "movsbl",   Flags: arrayLoad,                      Format: "!3d(!1r,!2r,1), !0r" },
    Movzx16RA  : { Name: "movzwl",   Flags: arrayLoad,                      Format: "!3d(!1r,!2r,2), !0r" },
    Movsx16RA  : { Name: "movswl",   Flags: arrayLoad,                      Format: "!3d(!1r,!2r,2), !0r" },
    Mov8AR     : { Name: "movb",     Flags: arrayStore,                     Format: "!0r, !3d(!1r,!2r,1)" },
    Mov16AR    : { Name: "movw",     Flags: arrayStore,                     Format: "!0r, !3d(!1r,!2r,2)" },
    Mov32RT    : { Name: "movl",     Flags: lir.IsLoad | lir.RegDef0,       Format: "!1d(%r15), !0r" },
    Mov32TI    : { Name: "movl",     Flags: lir.IsStore,                    Format: "$!1d, !0d(%r15)" },
    Movsx8RR   : { Name: "movsbl",   Flags: def0use1,                       Format: "!1r, !0r" },
    Movzx16RR  : { Name: "movzwl",   Flags: def0use1,                       Format: "!1r, !0r" },
    Movsx16RR  : { Name: "movswl",   Flags: def0use1,                       Format: "!1r, !0r" },
    Movsxd64RR : { Name: "movslq",   Flags: def0use1,                       Format: "!1r, !0r" },
    Lea64RF    : { Name: "leaq",     Flags: def0use1,                       Format: "!2d(!1r), !0r" },
    Add32RR    : { Name: "addl",     Flags: binop,                          Format: "!1r, !0r" },
    Sub32RR    : { Name: "subl",     Flags: binop,                          Format: "!1r, !0r" },
    Imul32RR   : { Name: "imull",    Flags: binop,                          Format: "!1r, !0r" },
    And32RR    : { Name: "andl",     Flags: binop,                          Format: "!1r, !0r" },
    Or32RR     : { Name: "orl",      Flags: binop,                          Format: "!1r, !0r" },
    Xor32RR    : { Name: "xorl",     Flags: binop,                          Format: "!1r, !0r" },
    Add32RI    : { Name: "addl",     Flags: binopImm,                       Format: "$!1d, !0r" },
    Sub32RI    : { Name: "subl",     Flags: binopImm,                       Format: "$!1d, !0r" },
    Imul32RRI  : { Name: "imull",    Flags: lir.RegDef0 | lir.RegUse1 | lir.SetsCCodes, Format: "$!2d, !1r, !0r" },
    And32RI    : { Name: "andl",     Flags: binopImm,                       Format: "$!1d, !0r" },
    Or32RI     : { Name: "orl",      Flags: binopImm,                       Format: "$!1d, !0r" },
    Xor32RI    : { Name: "xorl",     Flags: binopImm,                       Format: "$!1d, !0r" },
    Shl32RI    : { Name: "shll",     Flags: binopImm,                       Format: "$!1d, !0r" },
    Sar32RI    : { Name: "sarl",     Flags: binopImm,                       Format: "$!1d, !0r" },
    Shr32RI    : { Name: "shrl",     Flags: binopImm,                       Format: "$!1d, !0r" },
    Shl32RC    : { Name: "shll",     Flags: shiftCL,                        Format: "%cl, !0r" },
    Sar32RC    : { Name: "sarl",     Flags: shiftCL,                        Format: "%cl, !0r" },
    Shr32RC    : { Name: "shrl",     Flags: shiftCL,                        Format: "%cl, !0r" },
    Neg32R     : { Name: "negl",     Flags: binopImm,                       Format: "!0r" },
    Add64RR    : { Name: "addq",     Flags: binop,                          Format: "!1r, !0r" },
    Sub64RR    : { Name: "subq",     Flags: binop,                          Format: "!1r, !0r" },
    Imul64RR   : { Name: "imulq",    Flags: binop,                          Format: "!1r, !0r" },
    And64RR    : { Name: "andq",     Flags: binop,                          Format: "!1r, !0r" },
    Or64RR     : { Name: "orq",      Flags: binop,                          Format: "!1r, !0r" },
    Xor64RR    : { Name: "xorq",     Flags: binop,                          Format: "!1r, !0r" },
    Shl64RC    : { Name: "shlq",     Flags: shiftCL,                        Format: "%cl, !0r" },
    Sar64RC    : { Name: "sarq",     Flags: shiftCL,                        Format: "%cl, !0r" },
    Shr64RC    : { Name: "shrq",     Flags: shiftCL,                        Format: "%cl, !0r" },
    AddssRR    : { Name: "addss",    Flags: binop,                          Format: "!1r, !0r" },
    SubssRR    : { Name: "subss",    Flags: binop,                          Format: "!1r, !0r" },
    MulssRR    : { Name: "mulss",    Flags: binop,                          Format: "!1r, !0r" },
    DivssRR    : { Name: "divss",    Flags: binop,                          Format: "!1r, !0r" },
    AddsdRR    : { Name: "addsd",    Flags: binop,                          Format: "!1r, !0r" },
    SubsdRR    : { Name: "subsd",    Flags: binop,                          Format: "!1r, !0r" },
    MulsdRR    : { Name: "mulsd",    Flags: binop,                          Format: "!1r, !0r" },
    DivsdRR    : { Name: "divsd",    Flags: binop,                          Format: "!1r, !0r" },
    Cmp32RR    : { Name: "cmpl",     Flags: use01 | lir.SetsCCodes,         Format: "!1r, !0r" },
    Cmp64RR    : { Name: "cmpq",     Flags: use01 | lir.SetsCCodes,         Format: "!1r, !0r" },
    Cmp32RI    : { Name: "cmpl",     Flags: lir.RegUse0 | lir.SetsCCodes,   Format: "$!1d, !0r" },
    Cmp32RM    : { Name: "cmpl",     Flags: lir.IsLoad | use01 | lir.SetsCCodes, Format: "!2d(!1r), !0r" },
    Cmp32TI    : { Name: "cmpl",     Flags: lir.IsLoad | lir.SetsCCodes,    Format: "$!1d, !0d(%r15)" },
    Test32RR   : { Name: "testl",    Flags: use01 | lir.SetsCCodes,         Format: "!1r, !0r" },
    Test64RR   : { Name: "testq",    Flags: use01 | lir.SetsCCodes,         Format: "!1r, !0r" },
    MovapsRR   : { Name: "movaps",   Flags: def0use1,                       Format: "!1r, !0r" },
    Jmp        : { Name: "jmp",      Flags: lir.IsBranch | lir.NoFallThrough, Format: "!0t" },
    Jcc        : { Name: "jcc",      Flags: lir.IsBranch | lir.UsesCCodes,  Format: "!0d, !0t" },
    CallT      : { Name: "call",     Flags: lir.IsCall,                     Format: "*!0d(%r15)" },
    Ret        : { Name: "ret",      Flags: lir.NoFallThrough },
    Sub64SP    : { Name: "subq",     Flags: lir.SetsCCodes,                 Format: "$!0d, %rsp" },
    Add64SP    : { Name: "addq",     Flags: lir.SetsCCodes,                 Format: "$!0d, %rsp" },
}

// ISA is the amd64 instruction set, registered under the name "amd64".
var ISA = &lir.ISA {
    Name      : "amd64",
    Encodings : encodings[:],
    RegName   : func(reg int) string { return "%" + RegName(reg) },
}

func init() {
    lir.Register(ISA)
}
