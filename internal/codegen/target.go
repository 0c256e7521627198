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

package codegen

import (
    `github.com/cloudwego/mirbridge/internal/lir`
    `github.com/cloudwego/mirbridge/internal/loc`
)

// RegPool is the local register allocator of a target.
type RegPool interface {
    ResetRegPool()
    ClobberAllRegs()
    ResetDefTracking()
    AllocTemp(fp bool) int
    FreeTemp(reg int)
}

// Launchpads are out-of-line code sequences, emitted after the last block.
type Launchpads interface {
    HandleSuspendLaunchpads()
    HandleThrowLaunchpads()
    HandleIntrinsicLaunchpads()
}

// Target is a code generator. Begin must be called before anything else,
// every instruction then goes to the list given to it. Locations are the
// ones recovered from the IR, and are loaded and stored as needed by the
// target.
type Target interface {
    RegPool
    Launchpads

    ISA() *lir.ISA
    Begin(list *lir.List, frame Frame)

    /* method entry and exit */
    GenEntrySequence(args []loc.RegLocation, method loc.RegLocation)
    GenExitSequence()
    GenReturn(src loc.RegLocation)
    GenSuspendTest(optFlags int)

    /* moves and constants */
    GenCopy(dest loc.RegLocation, src loc.RegLocation)
    GenConst(dest loc.RegLocation, imm uint64)
    GenConstString(index uint32, dest loc.RegLocation)
    GenConstClass(index uint32, dest loc.RegLocation)

    /* arithmetic */
    GenArithOpInt(op OpKind, dest loc.RegLocation, src1 loc.RegLocation, src2 loc.RegLocation)
    GenArithOpIntLit(op OpKind, dest loc.RegLocation, src loc.RegLocation, lit int32)
    GenArithOpLong(op OpKind, dest loc.RegLocation, src1 loc.RegLocation, src2 loc.RegLocation)
    GenArithOpFloat(op OpKind, dest loc.RegLocation, src1 loc.RegLocation, src2 loc.RegLocation)
    GenArithOpDouble(op OpKind, dest loc.RegLocation, src1 loc.RegLocation, src2 loc.RegLocation)
    GenShiftOpLong(op OpKind, dest loc.RegLocation, src loc.RegLocation, shift loc.RegLocation)
    GenIntExt(dest loc.RegLocation, src loc.RegLocation, signed bool)
    GenIntNarrowing(kind Narrowing, dest loc.RegLocation, src loc.RegLocation)
    GenConversion(kind Conversion, dest loc.RegLocation, src loc.RegLocation)

    /* control flow */
    GenCompareBranch(cond CondCode, src1 loc.RegLocation, src2 loc.RegLocation, taken *lir.LIR)
    GenCompareImmBranch(cond CondCode, src loc.RegLocation, imm int64, taken *lir.LIR)
    GenUnconditionalBranch(target *lir.LIR)

    /* objects */
    GenNewInstance(typeIdx uint32, dest loc.RegLocation)
    GenNewArray(typeIdx uint32, dest loc.RegLocation, length loc.RegLocation)
    GenFillArrayData(offset int32, src loc.RegLocation)
    GenCheckCast(typeIdx uint32, src loc.RegLocation)
    GenInstanceOf(typeIdx uint32, dest loc.RegLocation, src loc.RegLocation)
    GenArrayLength(optFlags int, dest loc.RegLocation, src loc.RegLocation)
    GenMonitorEnter(optFlags int, src loc.RegLocation)
    GenMonitorExit(optFlags int, src loc.RegLocation)
    GenMoveException(dest loc.RegLocation)
    GenThrow(src loc.RegLocation)
    GenThrowVerificationError(info1 uint32, info2 uint32)

    /* fields and arrays */
    GenSget(fieldIdx uint32, dest loc.RegLocation, wide bool, ref bool)
    GenSput(fieldIdx uint32, src loc.RegLocation, wide bool, ref bool)
    GenIGet(fieldIdx uint32, optFlags int, size OpSize, dest loc.RegLocation, obj loc.RegLocation, wide bool, ref bool)
    GenIPut(fieldIdx uint32, optFlags int, size OpSize, src loc.RegLocation, obj loc.RegLocation, wide bool, ref bool)
    GenArrayGet(optFlags int, size OpSize, array loc.RegLocation, index loc.RegLocation, dest loc.RegLocation, scale int)
    GenArrayPut(optFlags int, size OpSize, array loc.RegLocation, index loc.RegLocation, src loc.RegLocation, scale int)

    /* calls */
    GenInvoke(info *CallInfo)
    GenFilledNewArray(info *CallInfo)
}
