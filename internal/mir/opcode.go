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

// Opcode is a Dalvik opcode. Values from OP_phi onwards are the extended
// pseudo opcodes that only exist in MIR.
type Opcode uint16

const (
    OP_nop                         Opcode = 0x00
    OP_move                        Opcode = 0x01
    OP_move_from16                 Opcode = 0x02
    OP_move_16                     Opcode = 0x03
    OP_move_wide                   Opcode = 0x04
    OP_move_wide_from16            Opcode = 0x05
    OP_move_wide_16                Opcode = 0x06
    OP_move_object                 Opcode = 0x07
    OP_move_object_from16          Opcode = 0x08
    OP_move_object_16              Opcode = 0x09
    OP_move_result                 Opcode = 0x0a
    OP_move_result_wide            Opcode = 0x0b
    OP_move_result_object          Opcode = 0x0c
    OP_move_exception              Opcode = 0x0d
    OP_return_void                 Opcode = 0x0e
    OP_return                      Opcode = 0x0f
    OP_return_wide                 Opcode = 0x10
    OP_return_object               Opcode = 0x11
    OP_const_4                     Opcode = 0x12
    OP_const_16                    Opcode = 0x13
    OP_const                       Opcode = 0x14
    OP_const_high16                Opcode = 0x15
    OP_const_wide_16               Opcode = 0x16
    OP_const_wide_32               Opcode = 0x17
    OP_const_wide                  Opcode = 0x18
    OP_const_wide_high16           Opcode = 0x19
    OP_const_string                Opcode = 0x1a
    OP_const_string_jumbo          Opcode = 0x1b
    OP_const_class                 Opcode = 0x1c
    OP_monitor_enter               Opcode = 0x1d
    OP_monitor_exit                Opcode = 0x1e
    OP_check_cast                  Opcode = 0x1f
    OP_instance_of                 Opcode = 0x20
    OP_array_length                Opcode = 0x21
    OP_new_instance                Opcode = 0x22
    OP_new_array                   Opcode = 0x23
    OP_filled_new_array            Opcode = 0x24
    OP_filled_new_array_range      Opcode = 0x25
    OP_fill_array_data             Opcode = 0x26
    OP_throw                       Opcode = 0x27
    OP_goto                        Opcode = 0x28
    OP_goto_16                     Opcode = 0x29
    OP_goto_32                     Opcode = 0x2a
    OP_packed_switch               Opcode = 0x2b
    OP_sparse_switch               Opcode = 0x2c
    OP_cmpl_float                  Opcode = 0x2d
    OP_cmpg_float                  Opcode = 0x2e
    OP_cmpl_double                 Opcode = 0x2f
    OP_cmpg_double                 Opcode = 0x30
    OP_cmp_long                    Opcode = 0x31
    OP_if_eq                       Opcode = 0x32
    OP_if_ne                       Opcode = 0x33
    OP_if_lt                       Opcode = 0x34
    OP_if_ge                       Opcode = 0x35
    OP_if_gt                       Opcode = 0x36
    OP_if_le                       Opcode = 0x37
    OP_if_eqz                      Opcode = 0x38
    OP_if_nez                      Opcode = 0x39
    OP_if_ltz                      Opcode = 0x3a
    OP_if_gez                      Opcode = 0x3b
    OP_if_gtz                      Opcode = 0x3c
    OP_if_lez                      Opcode = 0x3d
    OP_aget                        Opcode = 0x44
    OP_aget_wide                   Opcode = 0x45
    OP_aget_object                 Opcode = 0x46
    OP_aget_boolean                Opcode = 0x47
    OP_aget_byte                   Opcode = 0x48
    OP_aget_char                   Opcode = 0x49
    OP_aget_short                  Opcode = 0x4a
    OP_aput                        Opcode = 0x4b
    OP_aput_wide                   Opcode = 0x4c
    OP_aput_object                 Opcode = 0x4d
    OP_aput_boolean                Opcode = 0x4e
    OP_aput_byte                   Opcode = 0x4f
    OP_aput_char                   Opcode = 0x50
    OP_aput_short                  Opcode = 0x51
    OP_iget                        Opcode = 0x52
    OP_iget_wide                   Opcode = 0x53
    OP_iget_object                 Opcode = 0x54
    OP_iget_boolean                Opcode = 0x55
    OP_iget_byte                   Opcode = 0x56
    OP_iget_char                   Opcode = 0x57
    OP_iget_short                  Opcode = 0x58
    OP_iput                        Opcode = 0x59
    OP_iput_wide                   Opcode = 0x5a
    OP_iput_object                 Opcode = 0x5b
    OP_iput_boolean                Opcode = 0x5c
    OP_iput_byte                   Opcode = 0x5d
    OP_iput_char                   Opcode = 0x5e
    OP_iput_short                  Opcode = 0x5f
    OP_sget                        Opcode = 0x60
    OP_sget_wide                   Opcode = 0x61
    OP_sget_object                 Opcode = 0x62
    OP_sget_boolean                Opcode = 0x63
    OP_sget_byte                   Opcode = 0x64
    OP_sget_char                   Opcode = 0x65
    OP_sget_short                  Opcode = 0x66
    OP_sput                        Opcode = 0x67
    OP_sput_wide                   Opcode = 0x68
    OP_sput_object                 Opcode = 0x69
    OP_sput_boolean                Opcode = 0x6a
    OP_sput_byte                   Opcode = 0x6b
    OP_sput_char                   Opcode = 0x6c
    OP_sput_short                  Opcode = 0x6d
    OP_invoke_virtual              Opcode = 0x6e
    OP_invoke_super                Opcode = 0x6f
    OP_invoke_direct               Opcode = 0x70
    OP_invoke_static               Opcode = 0x71
    OP_invoke_interface            Opcode = 0x72
    OP_invoke_virtual_range        Opcode = 0x74
    OP_invoke_super_range          Opcode = 0x75
    OP_invoke_direct_range         Opcode = 0x76
    OP_invoke_static_range         Opcode = 0x77
    OP_invoke_interface_range      Opcode = 0x78
    OP_neg_int                     Opcode = 0x7b
    OP_not_int                     Opcode = 0x7c
    OP_neg_long                    Opcode = 0x7d
    OP_not_long                    Opcode = 0x7e
    OP_neg_float                   Opcode = 0x7f
    OP_neg_double                  Opcode = 0x80
    OP_int_to_long                 Opcode = 0x81
    OP_int_to_float                Opcode = 0x82
    OP_int_to_double               Opcode = 0x83
    OP_long_to_int                 Opcode = 0x84
    OP_long_to_float               Opcode = 0x85
    OP_long_to_double              Opcode = 0x86
    OP_float_to_int                Opcode = 0x87
    OP_float_to_long               Opcode = 0x88
    OP_float_to_double             Opcode = 0x89
    OP_double_to_int               Opcode = 0x8a
    OP_double_to_long              Opcode = 0x8b
    OP_double_to_float             Opcode = 0x8c
    OP_int_to_byte                 Opcode = 0x8d
    OP_int_to_char                 Opcode = 0x8e
    OP_int_to_short                Opcode = 0x8f
    OP_add_int                     Opcode = 0x90
    OP_sub_int                     Opcode = 0x91
    OP_mul_int                     Opcode = 0x92
    OP_div_int                     Opcode = 0x93
    OP_rem_int                     Opcode = 0x94
    OP_and_int                     Opcode = 0x95
    OP_or_int                      Opcode = 0x96
    OP_xor_int                     Opcode = 0x97
    OP_shl_int                     Opcode = 0x98
    OP_shr_int                     Opcode = 0x99
    OP_ushr_int                    Opcode = 0x9a
    OP_add_long                    Opcode = 0x9b
    OP_sub_long                    Opcode = 0x9c
    OP_mul_long                    Opcode = 0x9d
    OP_div_long                    Opcode = 0x9e
    OP_rem_long                    Opcode = 0x9f
    OP_and_long                    Opcode = 0xa0
    OP_or_long                     Opcode = 0xa1
    OP_xor_long                    Opcode = 0xa2
    OP_shl_long                    Opcode = 0xa3
    OP_shr_long                    Opcode = 0xa4
    OP_ushr_long                   Opcode = 0xa5
    OP_add_float                   Opcode = 0xa6
    OP_sub_float                   Opcode = 0xa7
    OP_mul_float                   Opcode = 0xa8
    OP_div_float                   Opcode = 0xa9
    OP_rem_float                   Opcode = 0xaa
    OP_add_double                  Opcode = 0xab
    OP_sub_double                  Opcode = 0xac
    OP_mul_double                  Opcode = 0xad
    OP_div_double                  Opcode = 0xae
    OP_rem_double                  Opcode = 0xaf
    OP_add_int_2addr               Opcode = 0xb0
    OP_sub_int_2addr               Opcode = 0xb1
    OP_mul_int_2addr               Opcode = 0xb2
    OP_div_int_2addr               Opcode = 0xb3
    OP_rem_int_2addr               Opcode = 0xb4
    OP_and_int_2addr               Opcode = 0xb5
    OP_or_int_2addr                Opcode = 0xb6
    OP_xor_int_2addr               Opcode = 0xb7
    OP_shl_int_2addr               Opcode = 0xb8
    OP_shr_int_2addr               Opcode = 0xb9
    OP_ushr_int_2addr              Opcode = 0xba
    OP_add_long_2addr              Opcode = 0xbb
    OP_sub_long_2addr              Opcode = 0xbc
    OP_mul_long_2addr              Opcode = 0xbd
    OP_div_long_2addr              Opcode = 0xbe
    OP_rem_long_2addr              Opcode = 0xbf
    OP_and_long_2addr              Opcode = 0xc0
    OP_or_long_2addr               Opcode = 0xc1
    OP_xor_long_2addr              Opcode = 0xc2
    OP_shl_long_2addr              Opcode = 0xc3
    OP_shr_long_2addr              Opcode = 0xc4
    OP_ushr_long_2addr             Opcode = 0xc5
    OP_add_float_2addr             Opcode = 0xc6
    OP_sub_float_2addr             Opcode = 0xc7
    OP_mul_float_2addr             Opcode = 0xc8
    OP_div_float_2addr             Opcode = 0xc9
    OP_rem_float_2addr             Opcode = 0xca
    OP_add_double_2addr            Opcode = 0xcb
    OP_sub_double_2addr            Opcode = 0xcc
    OP_mul_double_2addr            Opcode = 0xcd
    OP_div_double_2addr            Opcode = 0xce
    OP_rem_double_2addr            Opcode = 0xcf
    OP_add_int_lit16               Opcode = 0xd0
    OP_rsub_int                    Opcode = 0xd1
    OP_mul_int_lit16               Opcode = 0xd2
    OP_div_int_lit16               Opcode = 0xd3
    OP_rem_int_lit16               Opcode = 0xd4
    OP_and_int_lit16               Opcode = 0xd5
    OP_or_int_lit16                Opcode = 0xd6
    OP_xor_int_lit16               Opcode = 0xd7
    OP_add_int_lit8                Opcode = 0xd8
    OP_rsub_int_lit8               Opcode = 0xd9
    OP_mul_int_lit8                Opcode = 0xda
    OP_div_int_lit8                Opcode = 0xdb
    OP_rem_int_lit8                Opcode = 0xdc
    OP_and_int_lit8                Opcode = 0xdd
    OP_or_int_lit8                 Opcode = 0xde
    OP_xor_int_lit8                Opcode = 0xdf
    OP_shl_int_lit8                Opcode = 0xe0
    OP_shr_int_lit8                Opcode = 0xe1
    OP_ushr_int_lit8               Opcode = 0xe2
    OP_throw_verification_error    Opcode = 0xed
)

const (
    OP_phi                         Opcode = iota + 0x100
    OP_copy
    OP_fused_cmpl_float
    OP_fused_cmpg_float
    OP_fused_cmpl_double
    OP_fused_cmpg_double
    OP_fused_cmp_long
    OP_mir_nop
    OP_null_check
    OP_range_check
    OP_div_zero_check
    OP_check
    NumOpcodes
)

// Format is the encoding format of an instruction, following the Dalvik
// naming scheme of operand count, word count and operand kinds.
type Format uint8

const (
    Fmt10x Format = iota
    Fmt12x
    Fmt11n
    Fmt11x
    Fmt10t
    Fmt20t
    Fmt22x
    Fmt21t
    Fmt21s
    Fmt21h
    Fmt21c
    Fmt23x
    Fmt22b
    Fmt22t
    Fmt22s
    Fmt22c
    Fmt32x
    Fmt30t
    Fmt31t
    Fmt31i
    Fmt31c
    Fmt35c
    Fmt3rc
    Fmt51l
    Fmt20bc
)

type opinfo struct {
    name   string
    format Format
    attrs  Attr
}

var opcodeTab = [NumOpcodes]opinfo {
    OP_nop                      : { "nop",                      Fmt10x, DF_NOP },
    OP_move                     : { "move",                     Fmt12x, DF_DA | DF_UB | DF_IS_MOVE },
    OP_move_from16              : { "move/from16",              Fmt22x, DF_DA | DF_UB | DF_IS_MOVE },
    OP_move_16                  : { "move/16",                  Fmt32x, DF_DA | DF_UB | DF_IS_MOVE },
    OP_move_wide                : { "move-wide",                Fmt12x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_IS_MOVE },
    OP_move_wide_from16         : { "move-wide/from16",         Fmt22x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_IS_MOVE },
    OP_move_wide_16             : { "move-wide/16",             Fmt32x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_IS_MOVE },
    OP_move_object              : { "move-object",              Fmt12x, DF_DA | DF_UB | DF_IS_MOVE | DF_REF_A | DF_REF_B },
    OP_move_object_from16       : { "move-object/from16",       Fmt22x, DF_DA | DF_UB | DF_IS_MOVE | DF_REF_A | DF_REF_B },
    OP_move_object_16           : { "move-object/16",           Fmt32x, DF_DA | DF_UB | DF_IS_MOVE | DF_REF_A | DF_REF_B },
    OP_move_result              : { "move-result",              Fmt11x, DF_DA },
    OP_move_result_wide         : { "move-result-wide",         Fmt11x, DF_DA | DF_A_WIDE },
    OP_move_result_object       : { "move-result-object",       Fmt11x, DF_DA | DF_REF_A },
    OP_move_exception           : { "move-exception",           Fmt11x, DF_DA | DF_REF_A },
    OP_return_void              : { "return-void",              Fmt10x, DF_NOP },
    OP_return                   : { "return",                   Fmt11x, DF_UA },
    OP_return_wide              : { "return-wide",              Fmt11x, DF_UA | DF_A_WIDE },
    OP_return_object            : { "return-object",            Fmt11x, DF_UA | DF_REF_A },
    OP_const_4                  : { "const/4",                  Fmt11n, DF_DA | DF_SETS_CONST },
    OP_const_16                 : { "const/16",                 Fmt21s, DF_DA | DF_SETS_CONST },
    OP_const                    : { "const",                    Fmt31i, DF_DA | DF_SETS_CONST },
    OP_const_high16             : { "const/high16",             Fmt21h, DF_DA | DF_SETS_CONST },
    OP_const_wide_16            : { "const-wide/16",            Fmt21s, DF_DA | DF_A_WIDE | DF_SETS_CONST },
    OP_const_wide_32            : { "const-wide/32",            Fmt31i, DF_DA | DF_A_WIDE | DF_SETS_CONST },
    OP_const_wide               : { "const-wide",               Fmt51l, DF_DA | DF_A_WIDE | DF_SETS_CONST },
    OP_const_wide_high16        : { "const-wide/high16",        Fmt21h, DF_DA | DF_A_WIDE | DF_SETS_CONST },
    OP_const_string             : { "const-string",             Fmt21c, DF_DA | DF_REF_A },
    OP_const_string_jumbo       : { "const-string/jumbo",       Fmt31c, DF_DA | DF_REF_A },
    OP_const_class              : { "const-class",              Fmt21c, DF_DA | DF_REF_A },
    OP_monitor_enter            : { "monitor-enter",            Fmt11x, DF_UA | DF_NULL_CHK_0 | DF_REF_A },
    OP_monitor_exit             : { "monitor-exit",             Fmt11x, DF_UA | DF_NULL_CHK_0 | DF_REF_A },
    OP_check_cast               : { "check-cast",               Fmt21c, DF_UA | DF_REF_A },
    OP_instance_of              : { "instance-of",              Fmt22c, DF_DA | DF_UB | DF_CORE_A | DF_REF_B },
    OP_array_length             : { "array-length",             Fmt12x, DF_DA | DF_UB | DF_NULL_CHK_0 | DF_CORE_A | DF_REF_B },
    OP_new_instance             : { "new-instance",             Fmt21c, DF_DA | DF_REF_A },
    OP_new_array                : { "new-array",                Fmt22c, DF_DA | DF_UB | DF_CORE_B | DF_REF_A },
    OP_filled_new_array         : { "filled-new-array",         Fmt35c, DF_FORMAT_35C },
    OP_filled_new_array_range   : { "filled-new-array/range",   Fmt3rc, DF_FORMAT_3RC },
    OP_fill_array_data          : { "fill-array-data",          Fmt31t, DF_UA | DF_REF_A },
    OP_throw                    : { "throw",                    Fmt11x, DF_UA | DF_REF_A },
    OP_goto                     : { "goto",                     Fmt10t, DF_NOP | DF_IS_BRANCH },
    OP_goto_16                  : { "goto/16",                  Fmt20t, DF_NOP | DF_IS_BRANCH },
    OP_goto_32                  : { "goto/32",                  Fmt30t, DF_NOP | DF_IS_BRANCH },
    OP_packed_switch            : { "packed-switch",            Fmt31t, DF_UA | DF_IS_BRANCH },
    OP_sparse_switch            : { "sparse-switch",            Fmt31t, DF_UA | DF_IS_BRANCH },
    OP_cmpl_float               : { "cmpl-float",               Fmt23x, DF_DA | DF_UB | DF_UC | DF_FP_B | DF_FP_C | DF_CORE_A },
    OP_cmpg_float               : { "cmpg-float",               Fmt23x, DF_DA | DF_UB | DF_UC | DF_FP_B | DF_FP_C | DF_CORE_A },
    OP_cmpl_double              : { "cmpl-double",              Fmt23x, DF_DA | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_FP_B | DF_FP_C | DF_CORE_A },
    OP_cmpg_double              : { "cmpg-double",              Fmt23x, DF_DA | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_FP_B | DF_FP_C | DF_CORE_A },
    OP_cmp_long                 : { "cmp-long",                 Fmt23x, DF_DA | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_if_eq                    : { "if-eq",                    Fmt22t, DF_UA | DF_UB | DF_IS_BRANCH },
    OP_if_ne                    : { "if-ne",                    Fmt22t, DF_UA | DF_UB | DF_IS_BRANCH },
    OP_if_lt                    : { "if-lt",                    Fmt22t, DF_UA | DF_UB | DF_IS_BRANCH },
    OP_if_ge                    : { "if-ge",                    Fmt22t, DF_UA | DF_UB | DF_IS_BRANCH },
    OP_if_gt                    : { "if-gt",                    Fmt22t, DF_UA | DF_UB | DF_IS_BRANCH },
    OP_if_le                    : { "if-le",                    Fmt22t, DF_UA | DF_UB | DF_IS_BRANCH },
    OP_if_eqz                   : { "if-eqz",                   Fmt21t, DF_UA | DF_IS_BRANCH },
    OP_if_nez                   : { "if-nez",                   Fmt21t, DF_UA | DF_IS_BRANCH },
    OP_if_ltz                   : { "if-ltz",                   Fmt21t, DF_UA | DF_IS_BRANCH },
    OP_if_gez                   : { "if-gez",                   Fmt21t, DF_UA | DF_IS_BRANCH },
    OP_if_gtz                   : { "if-gtz",                   Fmt21t, DF_UA | DF_IS_BRANCH },
    OP_if_lez                   : { "if-lez",                   Fmt21t, DF_UA | DF_IS_BRANCH },
    OP_aget                     : { "aget",                     Fmt23x, DF_DA | DF_UB | DF_UC | DF_NULL_CHK_0 | DF_RANGE_CHK_1 | DF_REF_B | DF_CORE_C },
    OP_aget_wide                : { "aget-wide",                Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_UC | DF_NULL_CHK_0 | DF_RANGE_CHK_1 | DF_REF_B | DF_CORE_C },
    OP_aget_object              : { "aget-object",              Fmt23x, DF_DA | DF_UB | DF_UC | DF_NULL_CHK_0 | DF_RANGE_CHK_1 | DF_REF_B | DF_CORE_C | DF_REF_A },
    OP_aget_boolean             : { "aget-boolean",             Fmt23x, DF_DA | DF_UB | DF_UC | DF_NULL_CHK_0 | DF_RANGE_CHK_1 | DF_REF_B | DF_CORE_C },
    OP_aget_byte                : { "aget-byte",                Fmt23x, DF_DA | DF_UB | DF_UC | DF_NULL_CHK_0 | DF_RANGE_CHK_1 | DF_REF_B | DF_CORE_C },
    OP_aget_char                : { "aget-char",                Fmt23x, DF_DA | DF_UB | DF_UC | DF_NULL_CHK_0 | DF_RANGE_CHK_1 | DF_REF_B | DF_CORE_C },
    OP_aget_short               : { "aget-short",               Fmt23x, DF_DA | DF_UB | DF_UC | DF_NULL_CHK_0 | DF_RANGE_CHK_1 | DF_REF_B | DF_CORE_C },
    OP_aput                     : { "aput",                     Fmt23x, DF_UA | DF_UB | DF_UC | DF_NULL_CHK_1 | DF_RANGE_CHK_2 | DF_REF_B | DF_CORE_C },
    OP_aput_wide                : { "aput-wide",                Fmt23x, DF_UA | DF_A_WIDE | DF_UB | DF_UC | DF_NULL_CHK_2 | DF_RANGE_CHK_3 | DF_REF_B | DF_CORE_C },
    OP_aput_object              : { "aput-object",              Fmt23x, DF_UA | DF_UB | DF_UC | DF_NULL_CHK_1 | DF_RANGE_CHK_2 | DF_REF_B | DF_CORE_C | DF_REF_A },
    OP_aput_boolean             : { "aput-boolean",             Fmt23x, DF_UA | DF_UB | DF_UC | DF_NULL_CHK_1 | DF_RANGE_CHK_2 | DF_REF_B | DF_CORE_C },
    OP_aput_byte                : { "aput-byte",                Fmt23x, DF_UA | DF_UB | DF_UC | DF_NULL_CHK_1 | DF_RANGE_CHK_2 | DF_REF_B | DF_CORE_C },
    OP_aput_char                : { "aput-char",                Fmt23x, DF_UA | DF_UB | DF_UC | DF_NULL_CHK_1 | DF_RANGE_CHK_2 | DF_REF_B | DF_CORE_C },
    OP_aput_short               : { "aput-short",               Fmt23x, DF_UA | DF_UB | DF_UC | DF_NULL_CHK_1 | DF_RANGE_CHK_2 | DF_REF_B | DF_CORE_C },
    OP_iget                     : { "iget",                     Fmt22c, DF_DA | DF_UB | DF_NULL_CHK_0 | DF_REF_B },
    OP_iget_wide                : { "iget-wide",                Fmt22c, DF_DA | DF_A_WIDE | DF_UB | DF_NULL_CHK_0 | DF_REF_B },
    OP_iget_object              : { "iget-object",              Fmt22c, DF_DA | DF_UB | DF_NULL_CHK_0 | DF_REF_B | DF_REF_A },
    OP_iget_boolean             : { "iget-boolean",             Fmt22c, DF_DA | DF_UB | DF_NULL_CHK_0 | DF_REF_B },
    OP_iget_byte                : { "iget-byte",                Fmt22c, DF_DA | DF_UB | DF_NULL_CHK_0 | DF_REF_B },
    OP_iget_char                : { "iget-char",                Fmt22c, DF_DA | DF_UB | DF_NULL_CHK_0 | DF_REF_B },
    OP_iget_short               : { "iget-short",               Fmt22c, DF_DA | DF_UB | DF_NULL_CHK_0 | DF_REF_B },
    OP_iput                     : { "iput",                     Fmt22c, DF_UA | DF_UB | DF_NULL_CHK_1 | DF_REF_B },
    OP_iput_wide                : { "iput-wide",                Fmt22c, DF_UA | DF_A_WIDE | DF_UB | DF_NULL_CHK_2 | DF_REF_B },
    OP_iput_object              : { "iput-object",              Fmt22c, DF_UA | DF_UB | DF_NULL_CHK_1 | DF_REF_B | DF_REF_A },
    OP_iput_boolean             : { "iput-boolean",             Fmt22c, DF_UA | DF_UB | DF_NULL_CHK_1 | DF_REF_B },
    OP_iput_byte                : { "iput-byte",                Fmt22c, DF_UA | DF_UB | DF_NULL_CHK_1 | DF_REF_B },
    OP_iput_char                : { "iput-char",                Fmt22c, DF_UA | DF_UB | DF_NULL_CHK_1 | DF_REF_B },
    OP_iput_short               : { "iput-short",               Fmt22c, DF_UA | DF_UB | DF_NULL_CHK_1 | DF_REF_B },
    OP_sget                     : { "sget",                     Fmt21c, DF_DA },
    OP_sget_wide                : { "sget-wide",                Fmt21c, DF_DA | DF_A_WIDE },
    OP_sget_object              : { "sget-object",              Fmt21c, DF_DA | DF_REF_A },
    OP_sget_boolean             : { "sget-boolean",             Fmt21c, DF_DA },
    OP_sget_byte                : { "sget-byte",                Fmt21c, DF_DA },
    OP_sget_char                : { "sget-char",                Fmt21c, DF_DA },
    OP_sget_short               : { "sget-short",               Fmt21c, DF_DA },
    OP_sput                     : { "sput",                     Fmt21c, DF_UA },
    OP_sput_wide                : { "sput-wide",                Fmt21c, DF_UA | DF_A_WIDE },
    OP_sput_object              : { "sput-object",              Fmt21c, DF_UA | DF_REF_A },
    OP_sput_boolean             : { "sput-boolean",             Fmt21c, DF_UA },
    OP_sput_byte                : { "sput-byte",                Fmt21c, DF_UA },
    OP_sput_char                : { "sput-char",                Fmt21c, DF_UA },
    OP_sput_short               : { "sput-short",               Fmt21c, DF_UA },
    OP_invoke_virtual           : { "invoke-virtual",           Fmt35c, DF_FORMAT_35C | DF_IS_INVOKE | DF_NULL_CHK_OUT0 },
    OP_invoke_super             : { "invoke-super",             Fmt35c, DF_FORMAT_35C | DF_IS_INVOKE | DF_NULL_CHK_OUT0 },
    OP_invoke_direct            : { "invoke-direct",            Fmt35c, DF_FORMAT_35C | DF_IS_INVOKE | DF_NULL_CHK_OUT0 },
    OP_invoke_static            : { "invoke-static",            Fmt35c, DF_FORMAT_35C | DF_IS_INVOKE },
    OP_invoke_interface         : { "invoke-interface",         Fmt35c, DF_FORMAT_35C | DF_IS_INVOKE | DF_NULL_CHK_OUT0 },
    OP_invoke_virtual_range     : { "invoke-virtual/range",     Fmt3rc, DF_FORMAT_3RC | DF_IS_INVOKE | DF_NULL_CHK_OUT0 },
    OP_invoke_super_range       : { "invoke-super/range",       Fmt3rc, DF_FORMAT_3RC | DF_IS_INVOKE | DF_NULL_CHK_OUT0 },
    OP_invoke_direct_range      : { "invoke-direct/range",      Fmt3rc, DF_FORMAT_3RC | DF_IS_INVOKE | DF_NULL_CHK_OUT0 },
    OP_invoke_static_range      : { "invoke-static/range",      Fmt3rc, DF_FORMAT_3RC | DF_IS_INVOKE },
    OP_invoke_interface_range   : { "invoke-interface/range",   Fmt3rc, DF_FORMAT_3RC | DF_IS_INVOKE | DF_NULL_CHK_OUT0 },
    OP_neg_int                  : { "neg-int",                  Fmt12x, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_not_int                  : { "not-int",                  Fmt12x, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_neg_long                 : { "neg-long",                 Fmt12x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_CORE_A | DF_CORE_B },
    OP_not_long                 : { "not-long",                 Fmt12x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_CORE_A | DF_CORE_B },
    OP_neg_float                : { "neg-float",                Fmt12x, DF_DA | DF_UB | DF_FP_A | DF_FP_B },
    OP_neg_double               : { "neg-double",               Fmt12x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_FP_A | DF_FP_B },
    OP_int_to_long              : { "int-to-long",              Fmt12x, DF_DA | DF_A_WIDE | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_int_to_float             : { "int-to-float",             Fmt12x, DF_DA | DF_UB | DF_FP_A | DF_CORE_B },
    OP_int_to_double            : { "int-to-double",            Fmt12x, DF_DA | DF_A_WIDE | DF_UB | DF_FP_A | DF_CORE_B },
    OP_long_to_int              : { "long-to-int",              Fmt12x, DF_DA | DF_UB | DF_B_WIDE | DF_CORE_A | DF_CORE_B },
    OP_long_to_float            : { "long-to-float",            Fmt12x, DF_DA | DF_UB | DF_B_WIDE | DF_FP_A | DF_CORE_B },
    OP_long_to_double           : { "long-to-double",           Fmt12x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_FP_A | DF_CORE_B },
    OP_float_to_int             : { "float-to-int",             Fmt12x, DF_DA | DF_UB | DF_FP_B | DF_CORE_A },
    OP_float_to_long            : { "float-to-long",            Fmt12x, DF_DA | DF_A_WIDE | DF_UB | DF_FP_B | DF_CORE_A },
    OP_float_to_double          : { "float-to-double",          Fmt12x, DF_DA | DF_A_WIDE | DF_UB | DF_FP_A | DF_FP_B },
    OP_double_to_int            : { "double-to-int",            Fmt12x, DF_DA | DF_UB | DF_B_WIDE | DF_FP_B | DF_CORE_A },
    OP_double_to_long           : { "double-to-long",           Fmt12x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_FP_B | DF_CORE_A },
    OP_double_to_float          : { "double-to-float",          Fmt12x, DF_DA | DF_UB | DF_B_WIDE | DF_FP_A | DF_FP_B },
    OP_int_to_byte              : { "int-to-byte",              Fmt12x, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_int_to_char              : { "int-to-char",              Fmt12x, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_int_to_short             : { "int-to-short",             Fmt12x, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_add_int                  : { "add-int",                  Fmt23x, DF_DA | DF_UB | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_sub_int                  : { "sub-int",                  Fmt23x, DF_DA | DF_UB | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_mul_int                  : { "mul-int",                  Fmt23x, DF_DA | DF_UB | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_div_int                  : { "div-int",                  Fmt23x, DF_DA | DF_UB | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_rem_int                  : { "rem-int",                  Fmt23x, DF_DA | DF_UB | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_and_int                  : { "and-int",                  Fmt23x, DF_DA | DF_UB | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_or_int                   : { "or-int",                   Fmt23x, DF_DA | DF_UB | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_xor_int                  : { "xor-int",                  Fmt23x, DF_DA | DF_UB | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_shl_int                  : { "shl-int",                  Fmt23x, DF_DA | DF_UB | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_shr_int                  : { "shr-int",                  Fmt23x, DF_DA | DF_UB | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_ushr_int                 : { "ushr-int",                 Fmt23x, DF_DA | DF_UB | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_add_long                 : { "add-long",                 Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_sub_long                 : { "sub-long",                 Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_mul_long                 : { "mul-long",                 Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_div_long                 : { "div-long",                 Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_rem_long                 : { "rem-long",                 Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_and_long                 : { "and-long",                 Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_or_long                  : { "or-long",                  Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_xor_long                 : { "xor-long",                 Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_shl_long                 : { "shl-long",                 Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_shr_long                 : { "shr-long",                 Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_ushr_long                : { "ushr-long",                Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_CORE_A | DF_CORE_B | DF_CORE_C },
    OP_add_float                : { "add-float",                Fmt23x, DF_DA | DF_UB | DF_UC | DF_FP_A | DF_FP_B | DF_FP_C },
    OP_sub_float                : { "sub-float",                Fmt23x, DF_DA | DF_UB | DF_UC | DF_FP_A | DF_FP_B | DF_FP_C },
    OP_mul_float                : { "mul-float",                Fmt23x, DF_DA | DF_UB | DF_UC | DF_FP_A | DF_FP_B | DF_FP_C },
    OP_div_float                : { "div-float",                Fmt23x, DF_DA | DF_UB | DF_UC | DF_FP_A | DF_FP_B | DF_FP_C },
    OP_rem_float                : { "rem-float",                Fmt23x, DF_DA | DF_UB | DF_UC | DF_FP_A | DF_FP_B | DF_FP_C },
    OP_add_double               : { "add-double",               Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_FP_A | DF_FP_B | DF_FP_C },
    OP_sub_double               : { "sub-double",               Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_FP_A | DF_FP_B | DF_FP_C },
    OP_mul_double               : { "mul-double",               Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_FP_A | DF_FP_B | DF_FP_C },
    OP_div_double               : { "div-double",               Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_FP_A | DF_FP_B | DF_FP_C },
    OP_rem_double               : { "rem-double",               Fmt23x, DF_DA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_UC | DF_C_WIDE | DF_FP_A | DF_FP_B | DF_FP_C },
    OP_add_int_2addr            : { "add-int/2addr",            Fmt12x, DF_DA | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_sub_int_2addr            : { "sub-int/2addr",            Fmt12x, DF_DA | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_mul_int_2addr            : { "mul-int/2addr",            Fmt12x, DF_DA | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_div_int_2addr            : { "div-int/2addr",            Fmt12x, DF_DA | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_rem_int_2addr            : { "rem-int/2addr",            Fmt12x, DF_DA | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_and_int_2addr            : { "and-int/2addr",            Fmt12x, DF_DA | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_or_int_2addr             : { "or-int/2addr",             Fmt12x, DF_DA | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_xor_int_2addr            : { "xor-int/2addr",            Fmt12x, DF_DA | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_shl_int_2addr            : { "shl-int/2addr",            Fmt12x, DF_DA | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_shr_int_2addr            : { "shr-int/2addr",            Fmt12x, DF_DA | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_ushr_int_2addr           : { "ushr-int/2addr",           Fmt12x, DF_DA | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_add_long_2addr           : { "add-long/2addr",           Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_CORE_A | DF_CORE_B },
    OP_sub_long_2addr           : { "sub-long/2addr",           Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_CORE_A | DF_CORE_B },
    OP_mul_long_2addr           : { "mul-long/2addr",           Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_CORE_A | DF_CORE_B },
    OP_div_long_2addr           : { "div-long/2addr",           Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_CORE_A | DF_CORE_B },
    OP_rem_long_2addr           : { "rem-long/2addr",           Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_CORE_A | DF_CORE_B },
    OP_and_long_2addr           : { "and-long/2addr",           Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_CORE_A | DF_CORE_B },
    OP_or_long_2addr            : { "or-long/2addr",            Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_CORE_A | DF_CORE_B },
    OP_xor_long_2addr           : { "xor-long/2addr",           Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_CORE_A | DF_CORE_B },
    OP_shl_long_2addr           : { "shl-long/2addr",           Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_shr_long_2addr           : { "shr-long/2addr",           Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_ushr_long_2addr          : { "ushr-long/2addr",          Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_add_float_2addr          : { "add-float/2addr",          Fmt12x, DF_DA | DF_UA | DF_UB | DF_FP_A | DF_FP_B },
    OP_sub_float_2addr          : { "sub-float/2addr",          Fmt12x, DF_DA | DF_UA | DF_UB | DF_FP_A | DF_FP_B },
    OP_mul_float_2addr          : { "mul-float/2addr",          Fmt12x, DF_DA | DF_UA | DF_UB | DF_FP_A | DF_FP_B },
    OP_div_float_2addr          : { "div-float/2addr",          Fmt12x, DF_DA | DF_UA | DF_UB | DF_FP_A | DF_FP_B },
    OP_rem_float_2addr          : { "rem-float/2addr",          Fmt12x, DF_DA | DF_UA | DF_UB | DF_FP_A | DF_FP_B },
    OP_add_double_2addr         : { "add-double/2addr",         Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_FP_A | DF_FP_B },
    OP_sub_double_2addr         : { "sub-double/2addr",         Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_FP_A | DF_FP_B },
    OP_mul_double_2addr         : { "mul-double/2addr",         Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_FP_A | DF_FP_B },
    OP_div_double_2addr         : { "div-double/2addr",         Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_FP_A | DF_FP_B },
    OP_rem_double_2addr         : { "rem-double/2addr",         Fmt12x, DF_DA | DF_A_WIDE | DF_UA | DF_UB | DF_B_WIDE | DF_FP_A | DF_FP_B },
    OP_add_int_lit16            : { "add-int/lit16",            Fmt22s, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_rsub_int                 : { "rsub-int",                 Fmt22s, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_mul_int_lit16            : { "mul-int/lit16",            Fmt22s, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_div_int_lit16            : { "div-int/lit16",            Fmt22s, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_rem_int_lit16            : { "rem-int/lit16",            Fmt22s, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_and_int_lit16            : { "and-int/lit16",            Fmt22s, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_or_int_lit16             : { "or-int/lit16",             Fmt22s, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_xor_int_lit16            : { "xor-int/lit16",            Fmt22s, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_add_int_lit8             : { "add-int/lit8",             Fmt22b, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_rsub_int_lit8            : { "rsub-int/lit8",            Fmt22b, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_mul_int_lit8             : { "mul-int/lit8",             Fmt22b, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_div_int_lit8             : { "div-int/lit8",             Fmt22b, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_rem_int_lit8             : { "rem-int/lit8",             Fmt22b, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_and_int_lit8             : { "and-int/lit8",             Fmt22b, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_or_int_lit8              : { "or-int/lit8",              Fmt22b, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_xor_int_lit8             : { "xor-int/lit8",             Fmt22b, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_shl_int_lit8             : { "shl-int/lit8",             Fmt22b, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_shr_int_lit8             : { "shr-int/lit8",             Fmt22b, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_ushr_int_lit8            : { "ushr-int/lit8",            Fmt22b, DF_DA | DF_UB | DF_CORE_A | DF_CORE_B },
    OP_throw_verification_error : { "throw-verification-error", Fmt20bc, DF_NOP },
    OP_phi                      : { "phi",                      Fmt10x, DF_DA | DF_NULL_TRANSFER_N },
    OP_copy                     : { "copy",                     Fmt10x, DF_DA | DF_UB | DF_IS_MOVE },
    OP_fused_cmpl_float         : { "fused-cmpl-float",         Fmt10x, DF_UA | DF_UB | DF_FP_A | DF_FP_B },
    OP_fused_cmpg_float         : { "fused-cmpg-float",         Fmt10x, DF_UA | DF_UB | DF_FP_A | DF_FP_B },
    OP_fused_cmpl_double        : { "fused-cmpl-double",        Fmt10x, DF_UA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_FP_A | DF_FP_B },
    OP_fused_cmpg_double        : { "fused-cmpg-double",        Fmt10x, DF_UA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_FP_A | DF_FP_B },
    OP_fused_cmp_long           : { "fused-cmp-long",           Fmt10x, DF_UA | DF_A_WIDE | DF_UB | DF_B_WIDE | DF_CORE_A | DF_CORE_B },
    OP_mir_nop                  : { "mir-nop",                  Fmt10x, DF_NOP },
    OP_null_check               : { "null-check",               Fmt10x, DF_UA | DF_REF_A | DF_NULL_CHK_0 },
    OP_range_check              : { "range-check",              Fmt10x, DF_NOP },
    OP_div_zero_check           : { "div-zero-check",           Fmt10x, DF_NOP },
    OP_check                    : { "check",                    Fmt10x, DF_NOP },
}

// Name returns the mnemonic of the opcode.
func (self Opcode) Name() string {
    if self < NumOpcodes && opcodeTab[self].name != "" {
        return opcodeTab[self].name
    } else {
        return fmt.Sprintf("unused-%02x", uint16(self))
    }
}

func (self Opcode) Format() Format {
    if self < NumOpcodes {
        return opcodeTab[self].format
    } else {
        return Fmt10x
    }
}

// Attrs returns the data-flow attributes of the opcode.
func (self Opcode) Attrs() Attr {
    if self < NumOpcodes {
        return opcodeTab[self].attrs
    } else {
        return DF_NOP
    }
}

// Valid reports whether the opcode is defined, either by the Dalvik
// instruction set or as an extended opcode.
func (self Opcode) Valid() bool {
    return self < NumOpcodes && opcodeTab[self].name != ""
}

// Extended reports whether the opcode is a MIR pseudo opcode.
func (self Opcode) Extended() bool {
    return self >= OP_phi
}

func (self Opcode) String() string {
    return self.Name()
}

var byName = func() map[string]Opcode {
    ret := make(map[string]Opcode, NumOpcodes)
    for i := Opcode(0); i < NumOpcodes; i++ {
        if opcodeTab[i].name != "" {
            ret[opcodeTab[i].name] = i
        }
    }
    return ret
}()

// LookupOpcode finds an opcode by its mnemonic.
func LookupOpcode(name string) (Opcode, bool) {
    op, ok := byName[name]
    return op, ok
}
