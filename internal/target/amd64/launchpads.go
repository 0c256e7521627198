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
    `github.com/cloudwego/mirbridge/internal/lir`
)

// InlineKind is a library method the target expands inline.
type InlineKind uint8

const (
    InlineStringLength InlineKind = iota
    InlineStringCharAt
)

func (self InlineKind) String() string {
    switch self {
        case InlineStringLength : return "String.length"
        case InlineStringCharAt : return "String.charAt"
        default                 : return fmt.Sprintf("InlineKind(%d)", uint8(self))
    }
}

// retry is the slow path of an inlined call, which performs the real call
// and resumes after the inline sequence.
type retry struct {
    lp     *lir.LIR
    resume *lir.LIR
    info   codegen.CallInfo
}

// Inline makes calls to the method with the given index expand inline.
func (self *Target) Inline(methodIdx uint32, kind InlineKind) {
    switch kind {
        case InlineStringLength : self.inline[methodIdx] = kind
        case InlineStringCharAt : self.inline[methodIdx] = kind
        default                 : panic("amd64: invalid inline kind: " + kind.String())
    }
}

func (self *Target) genInlined(kind InlineKind, info *codegen.CallInfo) bool {
    if info.Type != codegen.InvokeVirtual && info.Type != codegen.InvokeDirect {
        return false
    }

    /* check the shape of the call */
    switch kind {
        case InlineStringLength: {
            if len(info.Args) != 1 || !info.HasResult() {
                return false
            }
            self.genStringLength(info)
            return true
        }
        case InlineStringCharAt: {
            if len(info.Args) != 2 || !info.HasResult() {
                return false
            }
            self.genStringCharAt(info)
            return true
        }
        default: {
            return false
        }
    }
}

func (self *Target) genStringLength(info *codegen.CallInfo) {
    rs := self.loadCore(info.Args[0])
    rd := self.AllocTemp(false)
    self.genNullCheck(rs, info.OptFlags)
    self.emit(Mov32RM, rd, rs, StringCountOffset)
    self.storeValue(info.Result, rd)
}

// genStringCharAt reads the character inline. An index out of range takes
// the slow path through the real method, which throws.
func (self *Target) genStringCharAt(info *codegen.CallInfo) {
    rs := self.loadCore(info.Args[0])
    ri := self.loadCore(info.Args[1])
    self.genNullCheck(rs, info.OptFlags)

    /* the slow path */
    rt := &retry {
        lp     : self.list.New(lir.PseudoIntrinsicRetry, self.list.Offset()),
        resume : self.label(),
        info   : *info,
    }

    /* range check, the load, and the resume point */
    rd := self.AllocTemp(false)
    self.emit(Cmp32RM, ri, rs, StringCountOffset)
    self.jcc(ccAE, rt.lp)
    self.emit(Movzx16RA, rd, rs, ri, StringDataOffset)
    self.storeValue(info.Result, rd)
    self.join(rt.resume)
    self.retries = append(self.retries, rt)
}

/** Launchpads **/

func (self *Target) enterLaunchpad(lp *lir.LIR) {
    self.list.SetOffset(lp.Offset)
    self.list.Append(lp)
    self.ResetRegPool()
    self.clobberCallee()
}

// HandleSuspendLaunchpads calls the suspend helper and returns to the
// label right after the poll.
func (self *Target) HandleSuspendLaunchpads() {
    for _, lp := range self.suspend {
        self.enterLaunchpad(lp)
        self.emit(CallT, pTestSuspend.Offset()).Comment = pTestSuspend.String()
        self.branch(Jmp, lp.Target)
    }
}

// HandleThrowLaunchpads raises the exception of each check. The helpers
// never return.
func (self *Target) HandleThrowLaunchpads() {
    for _, lp := range self.throws {
        self.enterLaunchpad(lp)

        /* the index and the length of the array */
        switch ep := throwHelper(codegen.ThrowKind(lp.Operands[0])); ep {
            case pThrowArrayBounds: {
                self.emit(Mov32RM, rSHIFT, lp.Operands[2], ArrayLengthOffset)
                self.emit(Mov32RR, RDI, lp.Operands[1])
                self.emit(Mov32RR, RSI, rSHIFT)
                self.emit(CallT, ep.Offset()).Comment = ep.String()
            }
            default: {
                self.emit(CallT, ep.Offset()).Comment = ep.String()
            }
        }
    }
}

func throwHelper(kind codegen.ThrowKind) Entrypoint {
    switch kind {
        case codegen.ThrowNullPointer : return pThrowNullPointer
        case codegen.ThrowArrayBounds : return pThrowArrayBounds
        case codegen.ThrowDivZero     : return pThrowDivZero
        default                       : panic("amd64: invalid throw kind: " + kind.String())
    }
}

// HandleIntrinsicLaunchpads emits the slow paths of the inlined calls.
func (self *Target) HandleIntrinsicLaunchpads() {
    for _, rt := range self.retries {
        self.enterLaunchpad(rt.lp)
        self.genSlowInvoke(&rt.info)
        self.branch(Jmp, rt.resume)
    }
}

func (self *Target) genSlowInvoke(info *codegen.CallInfo) {
    self.storeOuts(info)
    self.callInvoke(info)
}
