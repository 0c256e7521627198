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
    `github.com/cloudwego/mirbridge/internal/codegen`
    `github.com/cloudwego/mirbridge/internal/lir`
    `github.com/cloudwego/mirbridge/internal/loc`
)

/** Objects **/

func (self *Target) GenNewInstance(typeIdx uint32, dest loc.RegLocation) {
    self.callHelper(pAllocObject, immArg(int(typeIdx)), methodArg())
    self.storeCore(dest, RAX)
}

func (self *Target) GenNewArray(typeIdx uint32, dest loc.RegLocation, length loc.RegLocation) {
    self.callHelper(pAllocArray, immArg(int(typeIdx)), methodArg(), locArg(length))
    self.storeCore(dest, RAX)
}

func (self *Target) GenFillArrayData(offset int32, src loc.RegLocation) {
    self.callHelper(pHandleFillArrayData, immArg(int(offset)), locArg(src), methodArg())
}

func (self *Target) GenCheckCast(typeIdx uint32, src loc.RegLocation) {
    self.callHelper(pCheckCast, immArg(int(typeIdx)), locArg(src), methodArg())
}

func (self *Target) GenInstanceOf(typeIdx uint32, dest loc.RegLocation, src loc.RegLocation) {
    self.callHelper(pInstanceOf, immArg(int(typeIdx)), locArg(src), methodArg())
    self.storeCore(dest, RAX)
}

func (self *Target) GenArrayLength(optFlags int, dest loc.RegLocation, src loc.RegLocation) {
    ra := self.loadCore(src)
    rd := self.AllocTemp(false)
    self.genNullCheck(ra, optFlags)
    self.emit(Mov32RM, rd, ra, ArrayLengthOffset)
    self.storeValue(dest, rd)
}

func (self *Target) GenMonitorEnter(optFlags int, src loc.RegLocation) {
    self.loadCoreTo(src, RDI)
    self.genNullCheck(RDI, optFlags)
    self.callHelper(pLockObject, regArg(RDI))
}

func (self *Target) GenMonitorExit(optFlags int, src loc.RegLocation) {
    self.loadCoreTo(src, RDI)
    self.genNullCheck(RDI, optFlags)
    self.callHelper(pUnlockObject, regArg(RDI))
}

// GenMoveException takes the pending exception off the thread.
func (self *Target) GenMoveException(dest loc.RegLocation) {
    rd := self.AllocTemp(false)
    self.emit(Mov32RT, rd, ThreadException)
    self.emit(Mov32TI, ThreadException, 0)
    self.storeValue(dest, rd)
}

func (self *Target) GenThrow(src loc.RegLocation) {
    self.callHelper(pDeliverException, locArg(src))
}

func (self *Target) GenThrowVerificationError(info1 uint32, info2 uint32) {
    self.callHelper(pThrowVerificationError, immArg(int(info1)), immArg(int(info2)))
}

/** Fields **/

func staticGetter(wide bool, ref bool) Entrypoint {
    switch {
        case ref  : return pGetObjStatic
        case wide : return pGet64Static
        default   : return pGet32Static
    }
}

func staticSetter(wide bool, ref bool) Entrypoint {
    switch {
        case ref  : return pSetObjStatic
        case wide : return pSet64Static
        default   : return pSet32Static
    }
}

func instanceGetter(size codegen.OpSize, ref bool) Entrypoint {
    switch {
        case ref                          : return pGetObjInstance
        case size == codegen.UnsignedByte : return pGetBooleanInstance
        case size == codegen.SignedByte   : return pGetByteInstance
        case size == codegen.UnsignedHalf : return pGetCharInstance
        case size == codegen.SignedHalf   : return pGetShortInstance
        case size.Bytes() == 8            : return pGet64Instance
        default                           : return pGet32Instance
    }
}

func instanceSetter(size codegen.OpSize, ref bool) Entrypoint {
    switch {
        case ref               : return pSetObjInstance
        case size.Bytes() == 1 : return pSet8Instance
        case size.Bytes() == 2 : return pSet16Instance
        case size.Bytes() == 8 : return pSet64Instance
        default                : return pSet32Instance
    }
}

func (self *Target) GenSget(fieldIdx uint32, dest loc.RegLocation, wide bool, ref bool) {
    self.callHelper(staticGetter(wide, ref), immArg(int(fieldIdx)), methodArg())
    self.storeCore(dest, RAX)
}

func (self *Target) GenSput(fieldIdx uint32, src loc.RegLocation, wide bool, ref bool) {
    self.callHelper(staticSetter(wide, ref), immArg(int(fieldIdx)), locArg(src), methodArg())
}

func (self *Target) GenIGet(fieldIdx uint32, optFlags int, size codegen.OpSize, dest loc.RegLocation, obj loc.RegLocation, wide bool, ref bool) {
    if wide {
        size = codegen.Long
    }

    /* the object goes in the second argument */
    self.loadCoreTo(obj, RSI)
    self.genNullCheck(RSI, optFlags)
    self.callHelper(instanceGetter(size, ref), immArg(int(fieldIdx)), regArg(RSI), methodArg())
    self.storeCore(dest, RAX)
}

func (self *Target) GenIPut(fieldIdx uint32, optFlags int, size codegen.OpSize, src loc.RegLocation, obj loc.RegLocation, wide bool, ref bool) {
    if wide {
        size = codegen.Long
    }

    /* the object goes in the second argument */
    self.loadCoreTo(obj, RSI)
    self.genNullCheck(RSI, optFlags)
    self.callHelper(instanceSetter(size, ref), immArg(int(fieldIdx)), regArg(RSI), locArg(src), methodArg())
}

/** Arrays **/

var arrayLoads = map[codegen.OpSize]lir.Opcode {
    codegen.Word         : Mov32RA,
    codegen.Single       : Mov32RA,
    codegen.Long         : Mov64RA,
    codegen.Double       : Mov64RA,
    codegen.UnsignedByte : Movzx8RA,
    codegen.SignedByte   : Movsx8RA,
    codegen.UnsignedHalf : Movzx16RA,
    codegen.SignedHalf   : Movsx16RA,
}

var arrayStores = map[codegen.OpSize]lir.Opcode {
    codegen.Word         : Mov32AR,
    codegen.Single       : Mov32AR,
    codegen.Long         : Mov64AR,
    codegen.Double       : Mov64AR,
    codegen.UnsignedByte : Mov8AR,
    codegen.SignedByte   : Mov8AR,
    codegen.UnsignedHalf : Mov16AR,
    codegen.SignedHalf   : Mov16AR,
}

func dataOffset(size codegen.OpSize) int {
    if size.Bytes() == 8 {
        return ArrayWideOffset
    } else {
        return ArrayDataOffset
    }
}

func checkScale(size codegen.OpSize, scale int) {
    if 1 << scale != size.Bytes() {
        panic("amd64: array scale does not match the access size")
    }
}

// GenArrayGet loads an array element. Elements are moved as raw bits, the
// floating point ones included.
func (self *Target) GenArrayGet(optFlags int, size codegen.OpSize, array loc.RegLocation, index loc.RegLocation, dest loc.RegLocation, scale int) {
    checkScale(size, scale)
    ra := self.loadCore(array)
    ri := self.loadCore(index)

    /* null and bounds checks */
    self.genNullCheck(ra, optFlags)
    self.genBoundsCheck(ri, ra, ArrayLengthOffset, optFlags)

    /* load the element */
    rd := self.AllocTemp(false)
    self.emit(arrayLoads[size], rd, ra, ri, dataOffset(size))
    self.storeCore(dest, rd)
}

// GenArrayPut stores an array element. Reference stores go through the
// runtime, for the store check and the card marking.
func (self *Target) GenArrayPut(optFlags int, size codegen.OpSize, array loc.RegLocation, index loc.RegLocation, src loc.RegLocation, scale int) {
    if src.Ref {
        self.genRefArrayPut(optFlags, array, index, src)
        return
    }

    /* load everything */
    checkScale(size, scale)
    ra := self.loadCore(array)
    ri := self.loadCore(index)

    /* null and bounds checks */
    self.genNullCheck(ra, optFlags)
    self.genBoundsCheck(ri, ra, ArrayLengthOffset, optFlags)

    /* store the element */
    rs := self.loadCore(src)
    self.emit(arrayStores[size], rs, ra, ri, dataOffset(size))
}

func (self *Target) genRefArrayPut(optFlags int, array loc.RegLocation, index loc.RegLocation, src loc.RegLocation) {
    self.loadCoreTo(array, RDI)
    self.loadCoreTo(index, RSI)
    self.genNullCheck(RDI, optFlags)
    self.genBoundsCheck(RSI, RDI, ArrayLengthOffset, optFlags)
    self.callHelper(pAputObject, regArg(RDI), regArg(RSI), locArg(src))
}

/** Invokes **/

var invokeHelpers = [...]Entrypoint {
    codegen.InvokeStatic    : pInvokeStatic,
    codegen.InvokeDirect    : pInvokeDirect,
    codegen.InvokeVirtual   : pInvokeVirtual,
    codegen.InvokeSuper     : pInvokeSuper,
    codegen.InvokeInterface : pInvokeInterface,
}

// storeOuts copies the argument words into the outs area. It returns the
// register holding the first argument.
func (self *Target) storeOuts(info *codegen.CallInfo) int {
    first := -1
    if n := info.NumArgWords(); n > self.frame.numOuts {
        panic("amd64: call needs more argument words than the outs area holds")
    }

    /* one store per value, wide ones take two words */
    for i, rl := range info.Args {
        if !rl.Valid() || rl.HighWord {
            continue
        }

        /* load the raw bits */
        r := self.loadCore(rl)
        if first < 0 {
            first = r
        }

        /* store into the outs */
        if rl.Wide {
            self.emit(Mov64FR, r, RSP, self.frame.outDisp(i))
        } else {
            self.emit(Mov32FR, r, RSP, self.frame.outDisp(i))
        }

        /* only the first one stays locked */
        if r != first {
            self.FreeTemp(r)
        }
    }
    return first
}

// GenInvoke calls a method through the invoke helper of its kind, with the
// method index, the outs and the caller. The receiver of instance calls is
// null checked first.
func (self *Target) GenInvoke(info *codegen.CallInfo) {
    if !info.Type.Valid() {
        panic("amd64: invalid invoke type: " + info.Type.String())
    }

    /* inlined intrinsic methods */
    if kind, ok := self.inline[info.Index]; ok && self.genInlined(kind, info) {
        return
    }

    /* the receiver gets null checked */
    this := self.storeOuts(info)
    if info.Type != codegen.InvokeStatic && this >= 0 {
        self.genNullCheck(this, info.OptFlags)
    }

    /* call and store the result */
    self.callInvoke(info)
}

func (self *Target) callInvoke(info *codegen.CallInfo) {
    self.spillPromoted()
    self.callHelper(invokeHelpers[info.Type], immArg(int(info.Index)), outsArg(), methodArg())
    self.reloadPromoted()
    self.storeResult(info.Result)
}

// GenFilledNewArray allocates an array with the words in the outs area as
// elements.
func (self *Target) GenFilledNewArray(info *codegen.CallInfo) {
    self.storeOuts(info)
    self.callHelper(pCheckAndAllocArray, immArg(int(info.Index)), immArg(info.NumArgWords()), outsArg(), methodArg())
    self.storeResult(info.Result)
}
