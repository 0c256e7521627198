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

package intrinsic

// Id identifies one entry of the intrinsic catalog.
type Id uint16

const (
    MethodInfo Id = iota
    AllocaShadowFrame
    SetShadowFrameEntry
    PopShadowFrame
    CheckSuspend
    CopyInt
    CopyObj
    CopyFloat
    CopyLong
    CopyDouble
    ConstInt
    ConstObj
    ConstFloat
    ConstLong
    ConstDouble
    DivInt
    DivLong
    RemInt
    RemLong
    HLInvokeVoid
    HLInvokeObj
    HLInvokeFloat
    HLInvokeDouble
    HLInvokeLong
    HLInvokeInt
    FilledNewArray
    FillArrayData
    ConstString
    ConstClass
    CheckCast
    NewInstance
    NewArray
    InstanceOf
    ArrayLength
    MonitorEnter
    MonitorExit
    GetException
    Throw
    ThrowVerificationError
    HLSget
    HLSgetFloat
    HLSgetBoolean
    HLSgetByte
    HLSgetChar
    HLSgetShort
    HLSgetWide
    HLSgetDouble
    HLSgetObject
    HLSput
    HLSputFloat
    HLSputBoolean
    HLSputByte
    HLSputChar
    HLSputShort
    HLSputWide
    HLSputDouble
    HLSputObject
    HLArrayGet
    HLArrayGetFloat
    HLArrayGetBoolean
    HLArrayGetByte
    HLArrayGetChar
    HLArrayGetShort
    HLArrayGetWide
    HLArrayGetDouble
    HLArrayGetObject
    HLArrayPut
    HLArrayPutFloat
    HLArrayPutBoolean
    HLArrayPutByte
    HLArrayPutChar
    HLArrayPutShort
    HLArrayPutWide
    HLArrayPutDouble
    HLArrayPutObject
    HLIGet
    HLIGetFloat
    HLIGetBoolean
    HLIGetByte
    HLIGetChar
    HLIGetShort
    HLIGetWide
    HLIGetDouble
    HLIGetObject
    HLIPut
    HLIPutFloat
    HLIPutBoolean
    HLIPutByte
    HLIPutChar
    HLIPutShort
    HLIPutWide
    HLIPutDouble
    HLIPutObject
    IntToChar
    IntToShort
    IntToByte
    NumIds
)

var catalog = [NumIds]Info {
    MethodInfo            : { Name: "method_info",                 Ret: Void,   Args: nil },
    AllocaShadowFrame     : { Name: "alloca_shadow_frame",         Ret: Void,   Args: []Kind { ImmInt } },
    SetShadowFrameEntry   : { Name: "set_shadow_frame_entry",      Ret: Void,   Args: []Kind { Object, ImmInt } },
    PopShadowFrame        : { Name: "pop_shadow_frame",            Ret: Void,   Args: nil },
    CheckSuspend          : { Name: "check_suspend",               Ret: Void,   Args: nil },
    CopyInt               : { Name: "copy_int",                    Ret: Int,    Args: []Kind { Int } },
    CopyObj               : { Name: "copy_obj",                    Ret: Object, Args: []Kind { Object } },
    CopyFloat             : { Name: "copy_float",                  Ret: Float,  Args: []Kind { Float } },
    CopyLong              : { Name: "copy_long",                   Ret: Long,   Args: []Kind { Long } },
    CopyDouble            : { Name: "copy_double",                 Ret: Double, Args: []Kind { Double } },
    ConstInt              : { Name: "const_int",                   Ret: Int,    Args: []Kind { ImmInt } },
    ConstObj              : { Name: "const_obj",                   Ret: Object, Args: []Kind { ImmInt } },
    ConstFloat            : { Name: "const_float",                 Ret: Float,  Args: []Kind { ImmInt } },
    ConstLong             : { Name: "const_long",                  Ret: Long,   Args: []Kind { ImmLong } },
    ConstDouble           : { Name: "const_double",                Ret: Double, Args: []Kind { ImmLong } },
    DivInt                : { Name: "div_int",                     Ret: Int,    Args: []Kind { Int, Int } },
    DivLong               : { Name: "div_long",                    Ret: Long,   Args: []Kind { Long, Long } },
    RemInt                : { Name: "rem_int",                     Ret: Int,    Args: []Kind { Int, Int } },
    RemLong               : { Name: "rem_long",                    Ret: Long,   Args: []Kind { Long, Long } },
    HLInvokeVoid          : { Name: "hl_invoke_void",              Ret: Void,   Args: []Kind { ImmInt, ImmInt, ImmInt, Varargs } },
    HLInvokeObj           : { Name: "hl_invoke_obj",               Ret: Object, Args: []Kind { ImmInt, ImmInt, ImmInt, Varargs } },
    HLInvokeFloat         : { Name: "hl_invoke_float",             Ret: Float,  Args: []Kind { ImmInt, ImmInt, ImmInt, Varargs } },
    HLInvokeDouble        : { Name: "hl_invoke_double",            Ret: Double, Args: []Kind { ImmInt, ImmInt, ImmInt, Varargs } },
    HLInvokeLong          : { Name: "hl_invoke_long",              Ret: Long,   Args: []Kind { ImmInt, ImmInt, ImmInt, Varargs } },
    HLInvokeInt           : { Name: "hl_invoke_int",               Ret: Int,    Args: []Kind { ImmInt, ImmInt, ImmInt, Varargs } },
    FilledNewArray        : { Name: "filled_new_array",            Ret: Object, Args: []Kind { ImmInt, ImmInt, ImmInt, Varargs } },
    FillArrayData         : { Name: "fill_array_data",             Ret: Void,   Args: []Kind { ImmInt, Object } },
    ConstString           : { Name: "const_string",                Ret: Object, Args: []Kind { ImmInt } },
    ConstClass            : { Name: "const_class",                 Ret: Object, Args: []Kind { ImmInt } },
    CheckCast             : { Name: "check_cast",                  Ret: Void,   Args: []Kind { ImmInt, Object } },
    NewInstance           : { Name: "new_instance",                Ret: Object, Args: []Kind { ImmInt } },
    NewArray              : { Name: "new_array",                   Ret: Object, Args: []Kind { ImmInt, Int } },
    InstanceOf            : { Name: "instance_of",                 Ret: Int,    Args: []Kind { ImmInt, Object } },
    ArrayLength           : { Name: "array_length",                Ret: Int,    Args: []Kind { ImmInt, Object } },
    MonitorEnter          : { Name: "monitor_enter",               Ret: Void,   Args: []Kind { ImmInt, Object } },
    MonitorExit           : { Name: "monitor_exit",                Ret: Void,   Args: []Kind { ImmInt, Object } },
    GetException          : { Name: "get_exception",               Ret: Object, Args: nil },
    Throw                 : { Name: "throw",                       Ret: Void,   Args: []Kind { Object } },
    ThrowVerificationError: { Name: "throw_verification_error",    Ret: Void,   Args: []Kind { ImmInt, ImmInt } },
    HLSget                : { Name: "hl_sget",                     Ret: Int,    Args: []Kind { ImmInt } },
    HLSgetFloat           : { Name: "hl_sget_float",               Ret: Float,  Args: []Kind { ImmInt } },
    HLSgetBoolean         : { Name: "hl_sget_boolean",             Ret: Int,    Args: []Kind { ImmInt } },
    HLSgetByte            : { Name: "hl_sget_byte",                Ret: Int,    Args: []Kind { ImmInt } },
    HLSgetChar            : { Name: "hl_sget_char",                Ret: Int,    Args: []Kind { ImmInt } },
    HLSgetShort           : { Name: "hl_sget_short",               Ret: Int,    Args: []Kind { ImmInt } },
    HLSgetWide            : { Name: "hl_sget_wide",                Ret: Long,   Args: []Kind { ImmInt } },
    HLSgetDouble          : { Name: "hl_sget_double",              Ret: Double, Args: []Kind { ImmInt } },
    HLSgetObject          : { Name: "hl_sget_object",              Ret: Object, Args: []Kind { ImmInt } },
    HLSput                : { Name: "hl_sput",                     Ret: Void,   Args: []Kind { ImmInt, Int } },
    HLSputFloat           : { Name: "hl_sput_float",               Ret: Void,   Args: []Kind { ImmInt, Float } },
    HLSputBoolean         : { Name: "hl_sput_boolean",             Ret: Void,   Args: []Kind { ImmInt, Int } },
    HLSputByte            : { Name: "hl_sput_byte",                Ret: Void,   Args: []Kind { ImmInt, Int } },
    HLSputChar            : { Name: "hl_sput_char",                Ret: Void,   Args: []Kind { ImmInt, Int } },
    HLSputShort           : { Name: "hl_sput_short",               Ret: Void,   Args: []Kind { ImmInt, Int } },
    HLSputWide            : { Name: "hl_sput_wide",                Ret: Void,   Args: []Kind { ImmInt, Long } },
    HLSputDouble          : { Name: "hl_sput_double",              Ret: Void,   Args: []Kind { ImmInt, Double } },
    HLSputObject          : { Name: "hl_sput_object",              Ret: Void,   Args: []Kind { ImmInt, Object } },
    HLArrayGet            : { Name: "hl_array_get",                Ret: Int,    Args: []Kind { ImmInt, Object, Int } },
    HLArrayGetFloat       : { Name: "hl_array_get_float",          Ret: Float,  Args: []Kind { ImmInt, Object, Int } },
    HLArrayGetBoolean     : { Name: "hl_array_get_boolean",        Ret: Int,    Args: []Kind { ImmInt, Object, Int } },
    HLArrayGetByte        : { Name: "hl_array_get_byte",           Ret: Int,    Args: []Kind { ImmInt, Object, Int } },
    HLArrayGetChar        : { Name: "hl_array_get_char",           Ret: Int,    Args: []Kind { ImmInt, Object, Int } },
    HLArrayGetShort       : { Name: "hl_array_get_short",          Ret: Int,    Args: []Kind { ImmInt, Object, Int } },
    HLArrayGetWide        : { Name: "hl_array_get_wide",           Ret: Long,   Args: []Kind { ImmInt, Object, Int } },
    HLArrayGetDouble      : { Name: "hl_array_get_double",         Ret: Double, Args: []Kind { ImmInt, Object, Int } },
    HLArrayGetObject      : { Name: "hl_array_get_object",         Ret: Object, Args: []Kind { ImmInt, Object, Int } },
    HLArrayPut            : { Name: "hl_array_put",                Ret: Void,   Args: []Kind { ImmInt, Int, Object, Int } },
    HLArrayPutFloat       : { Name: "hl_array_put_float",          Ret: Void,   Args: []Kind { ImmInt, Float, Object, Int } },
    HLArrayPutBoolean     : { Name: "hl_array_put_boolean",        Ret: Void,   Args: []Kind { ImmInt, Int, Object, Int } },
    HLArrayPutByte        : { Name: "hl_array_put_byte",           Ret: Void,   Args: []Kind { ImmInt, Int, Object, Int } },
    HLArrayPutChar        : { Name: "hl_array_put_char",           Ret: Void,   Args: []Kind { ImmInt, Int, Object, Int } },
    HLArrayPutShort       : { Name: "hl_array_put_short",          Ret: Void,   Args: []Kind { ImmInt, Int, Object, Int } },
    HLArrayPutWide        : { Name: "hl_array_put_wide",           Ret: Void,   Args: []Kind { ImmInt, Long, Object, Int } },
    HLArrayPutDouble      : { Name: "hl_array_put_double",         Ret: Void,   Args: []Kind { ImmInt, Double, Object, Int } },
    HLArrayPutObject      : { Name: "hl_array_put_object",         Ret: Void,   Args: []Kind { ImmInt, Object, Object, Int } },
    HLIGet                : { Name: "hl_iget",                     Ret: Int,    Args: []Kind { ImmInt, Object, ImmInt } },
    HLIGetFloat           : { Name: "hl_iget_float",               Ret: Float,  Args: []Kind { ImmInt, Object, ImmInt } },
    HLIGetBoolean         : { Name: "hl_iget_boolean",             Ret: Int,    Args: []Kind { ImmInt, Object, ImmInt } },
    HLIGetByte            : { Name: "hl_iget_byte",                Ret: Int,    Args: []Kind { ImmInt, Object, ImmInt } },
    HLIGetChar            : { Name: "hl_iget_char",                Ret: Int,    Args: []Kind { ImmInt, Object, ImmInt } },
    HLIGetShort           : { Name: "hl_iget_short",               Ret: Int,    Args: []Kind { ImmInt, Object, ImmInt } },
    HLIGetWide            : { Name: "hl_iget_wide",                Ret: Long,   Args: []Kind { ImmInt, Object, ImmInt } },
    HLIGetDouble          : { Name: "hl_iget_double",              Ret: Double, Args: []Kind { ImmInt, Object, ImmInt } },
    HLIGetObject          : { Name: "hl_iget_object",              Ret: Object, Args: []Kind { ImmInt, Object, ImmInt } },
    HLIPut                : { Name: "hl_iput",                     Ret: Void,   Args: []Kind { ImmInt, Int, Object, ImmInt } },
    HLIPutFloat           : { Name: "hl_iput_float",               Ret: Void,   Args: []Kind { ImmInt, Float, Object, ImmInt } },
    HLIPutBoolean         : { Name: "hl_iput_boolean",             Ret: Void,   Args: []Kind { ImmInt, Int, Object, ImmInt } },
    HLIPutByte            : { Name: "hl_iput_byte",                Ret: Void,   Args: []Kind { ImmInt, Int, Object, ImmInt } },
    HLIPutChar            : { Name: "hl_iput_char",                Ret: Void,   Args: []Kind { ImmInt, Int, Object, ImmInt } },
    HLIPutShort           : { Name: "hl_iput_short",               Ret: Void,   Args: []Kind { ImmInt, Int, Object, ImmInt } },
    HLIPutWide            : { Name: "hl_iput_wide",                Ret: Void,   Args: []Kind { ImmInt, Long, Object, ImmInt } },
    HLIPutDouble          : { Name: "hl_iput_double",              Ret: Void,   Args: []Kind { ImmInt, Double, Object, ImmInt } },
    HLIPutObject          : { Name: "hl_iput_object",              Ret: Void,   Args: []Kind { ImmInt, Object, Object, ImmInt } },
    IntToChar             : { Name: "int_to_char",                 Ret: Int,    Args: []Kind { Int } },
    IntToShort            : { Name: "int_to_short",                Ret: Int,    Args: []Kind { Int } },
    IntToByte             : { Name: "int_to_byte",                 Ret: Int,    Args: []Kind { Int } },
}
