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

    `github.com/cloudwego/mirbridge/internal/codegen`
    `github.com/cloudwego/mirbridge/internal/loc`
)

const (
    slotSize   = 4
    methodSize = 8
    stackAlign = 16
)

// frameLayout places the method pointer at the bottom of the frame, then
// one slot per Dalvik register, the compiler temps and the outs.
//
//     [RSP + 0]                      method
//     [RSP + 8 + 4*v]                Dalvik register v
//     [RSP + 8 + 4*(ndalvik + t)]    compiler temp t
//     [RSP + outs + 4*i]             outgoing argument word i
//
// A promoted register keeps its value in a callee-saved register instead,
// the frame slot only holds it across invokes.
type frameLayout struct {
    numDalvik int
    numTemps  int
    numOuts   int
    numRegs   int
    numIns    int
    promoted  []promotedReg
}

type promotedReg struct {
    reg  int
    slot int
}

var promotable = map[int]bool {
    RBX: true,
    RBP: true,
    R12: true,
    R13: true,
    R14: true,
}

func newFrameLayout(f codegen.Frame) frameLayout {
    ret := frameLayout {
        numDalvik : f.NumDalvikRegisters(),
        numTemps  : f.NumCompilerTemps,
        numOuts   : f.NumOuts,
        numRegs   : f.NumRegs,
        numIns    : f.NumIns,
    }

    /* promoted core registers, the trailing method entry has no slot */
    seen := make(map[int]int)
    for i := 0; i < ret.numDalvik + ret.numTemps && i < len(f.Promotion); i++ {
        if p := f.Promotion[i]; p.CoreLocation == loc.LocPhysReg {
            if !promotable[p.CoreReg] {
                panic(fmt.Sprintf("amd64: slot %d promoted to a register that is not callee-saved: %d", i, p.CoreReg))
            } else if j, ok := seen[p.CoreReg]; ok {
                panic(fmt.Sprintf("amd64: slots %d and %d promoted to %s", j, i, regNames[p.CoreReg]))
            } else {
                seen[p.CoreReg] = i
                ret.promoted = append(ret.promoted, promotedReg { reg: p.CoreReg, slot: i })
            }
        }
    }
    return ret
}

func (self frameLayout) vregDisp(slot int) int {
    if slot < 0 || slot >= self.numDalvik + self.numTemps {
        panic("amd64: frame slot out of range")
    } else {
        return methodSize + slot * slotSize
    }
}

func (self frameLayout) outsDisp() int {
    return methodSize + (self.numDalvik + self.numTemps) * slotSize
}

func (self frameLayout) outDisp(i int) int {
    return self.outsDisp() + i * slotSize
}

// size is the amount subtracted from RSP at entry. It keeps the stack
// aligned given the return address pushed by the caller.
func (self frameLayout) size() int {
    n := methodSize + (self.numDalvik + self.numTemps + self.numOuts) * slotSize
    return ((n + 8 + stackAlign - 1) &^ (stackAlign - 1)) - 8
}
