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
)

// Thread layout, relative to the thread register.
const (
    ThreadSuspendCount = 0
    ThreadException    = 8
    ThreadEntrypoints  = 64
)

// Object layout.
const (
    ArrayLengthOffset = 8
    ArrayDataOffset   = 12
    ArrayWideOffset   = 16
    StringCountOffset = 8
    StringDataOffset  = 12
)

// Entrypoint is a runtime helper, called through a slot of the thread.
type Entrypoint int32

const (
    pTestSuspend Entrypoint = iota
    pThrowNullPointer
    pThrowArrayBounds
    pThrowDivZero
    pDeliverException
    pThrowVerificationError
    pIdiv
    pIrem
    pLdiv
    pLrem
    pFmodf
    pFmod
    pFadd
    pFsub
    pFmul
    pFdiv
    pDadd
    pDsub
    pDmul
    pDdiv
    pI2f
    pI2d
    pL2f
    pL2d
    pF2i
    pF2l
    pD2i
    pD2l
    pF2d
    pD2f
    pGet32Static
    pGet64Static
    pGetObjStatic
    pSet32Static
    pSet64Static
    pSetObjStatic
    pGetBooleanInstance
    pGetByteInstance
    pGetCharInstance
    pGetShortInstance
    pGet32Instance
    pGet64Instance
    pGetObjInstance
    pSet8Instance
    pSet16Instance
    pSet32Instance
    pSet64Instance
    pSetObjInstance
    pAputObject
    pInvokeStatic
    pInvokeDirect
    pInvokeVirtual
    pInvokeSuper
    pInvokeInterface
    pAllocObject
    pAllocArray
    pCheckAndAllocArray
    pCheckCast
    pInstanceOf
    pLockObject
    pUnlockObject
    pResolveString
    pInitializeType
    pHandleFillArrayData
    NumEntrypoints
)

var entrypointNames = [NumEntrypoints]string {
    pTestSuspend            : "pTestSuspend",
    pThrowNullPointer       : "pThrowNullPointer",
    pThrowArrayBounds       : "pThrowArrayBounds",
    pThrowDivZero           : "pThrowDivZero",
    pDeliverException       : "pDeliverException",
    pThrowVerificationError : "pThrowVerificationError",
    pIdiv                   : "pIdiv",
    pIrem                   : "pIrem",
    pLdiv                   : "pLdiv",
    pLrem                   : "pLrem",
    pFmodf                  : "pFmodf",
    pFmod                   : "pFmod",
    pFadd                   : "pFadd",
    pFsub                   : "pFsub",
    pFmul                   : "pFmul",
    pFdiv                   : "pFdiv",
    pDadd                   : "pDadd",
    pDsub                   : "pDsub",
    pDmul                   : "pDmul",
    pDdiv                   : "pDdiv",
    pI2f                    : "pI2f",
    pI2d                    : "pI2d",
    pL2f                    : "pL2f",
    pL2d                    : "pL2d",
    pF2i                    : "pF2i",
    pF2l                    : "pF2l",
    pD2i                    : "pD2i",
    pD2l                    : "pD2l",
    pF2d                    : "pF2d",
    pD2f                    : "pD2f",
    pGet32Static            : "pGet32Static",
    pGet64Static            : "pGet64Static",
    pGetObjStatic           : "pGetObjStatic",
    pSet32Static            : "pSet32Static",
    pSet64Static            : "pSet64Static",
    pSetObjStatic           : "pSetObjStatic",
    pGetBooleanInstance     : "pGetBooleanInstance",
    pGetByteInstance        : "pGetByteInstance",
    pGetCharInstance        : "pGetCharInstance",
    pGetShortInstance       : "pGetShortInstance",
    pGet32Instance          : "pGet32Instance",
    pGet64Instance          : "pGet64Instance",
    pGetObjInstance         : "pGetObjInstance",
    pSet8Instance           : "pSet8Instance",
    pSet16Instance          : "pSet16Instance",
    pSet32Instance          : "pSet32Instance",
    pSet64Instance          : "pSet64Instance",
    pSetObjInstance         : "pSetObjInstance",
    pAputObject             : "pAputObject",
    pInvokeStatic           : "pInvokeStatic",
    pInvokeDirect           : "pInvokeDirect",
    pInvokeVirtual          : "pInvokeVirtual",
    pInvokeSuper            : "pInvokeSuper",
    pInvokeInterface        : "pInvokeInterface",
    pAllocObject            : "pAllocObject",
    pAllocArray             : "pAllocArray",
    pCheckAndAllocArray     : "pCheckAndAllocArray",
    pCheckCast              : "pCheckCast",
    pInstanceOf             : "pInstanceOf",
    pLockObject             : "pLockObject",
    pUnlockObject           : "pUnlockObject",
    pResolveString          : "pResolveString",
    pInitializeType         : "pInitializeType",
    pHandleFillArrayData    : "pHandleFillArrayData",
}

// Offset is the displacement of the entrypoint slot from the thread
// register.
func (self Entrypoint) Offset() int {
    return ThreadEntrypoints + int(self) * 8
}

func (self Entrypoint) String() string {
    if self >= 0 && self < NumEntrypoints {
        return entrypointNames[self]
    } else {
        return fmt.Sprintf("Entrypoint(%d)", int32(self))
    }
}

// EntrypointAt maps a thread displacement back to an entrypoint, for
// listings.
func EntrypointAt(disp int) (Entrypoint, bool) {
    if disp < ThreadEntrypoints || (disp - ThreadEntrypoints) % 8 != 0 {
        return 0, false
    } else if ep := Entrypoint((disp - ThreadEntrypoints) / 8); ep < NumEntrypoints {
        return ep, true
    } else {
        return 0, false
    }
}
