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

package lirgen

import (
    `sync/atomic`

    `github.com/cloudwego/kitex/pkg/klog`

    `github.com/cloudwego/mirbridge/internal/codegen`
    `github.com/cloudwego/mirbridge/internal/intrinsic`
    `github.com/cloudwego/mirbridge/internal/ir`
    `github.com/cloudwego/mirbridge/internal/lir`
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
    `github.com/cloudwego/mirbridge/internal/opts`
    `github.com/cloudwego/mirbridge/internal/regmap`
    `github.com/cloudwego/mirbridge/internal/utils`
)

var (
    MethodCount uint64 = 0
    AbortCount  uint64 = 0
    InstrCount  uint64 = 0
)

// Result is the LIR of one method, with the method info recovered from
// the IR and the frame given to the target.
type Result struct {
    List  *lir.List
    Info  *ir.MethodInfo
    Frame codegen.Frame
}

// Context is the state of generating one method. It is owned by a single
// goroutine and never shared.
type Context struct {
    fn     *ir.Function
    m      *mir.Method
    t      codegen.Target
    o      *opts.Options
    list   *lir.List
    locs   *regmap.LocMap
    info   *ir.MethodInfo
    frame  codegen.Frame
    labels map[*ir.BasicBlock]*lir.LIR
    shifts map[*ir.Instr]bool
}

func newContext(fn *ir.Function, m *mir.Method, t codegen.Target, o *opts.Options) *Context {
    return &Context {
        fn     : fn,
        m      : m,
        t      : t,
        o      : o,
        list   : lir.NewList(t.ISA()),
        labels : make(map[*ir.BasicBlock]*lir.LIR, len(fn.Blocks)),
        locs   : regmap.NewLocMap(fn, m, t),
    }
}

// Generate converts the function into LIR for the target. The method is
// optional, when present the locations of the values are taken from its
// SSA registers. Nothing is returned when the conversion fails.
func Generate(fn *ir.Function, m *mir.Method, t codegen.Target, o *opts.Options) (*Result, error) {
    if o == nil {
        dv := opts.GetDefaultOptions()
        o = &dv
    }

    /* one context per method */
    ctx := newContext(fn, m, t, o)
    atomic.AddUint64(&MethodCount, 1)

    /* convert the whole function, no partial output */
    if err := ctx.run(); err != nil {
        ctx.list.Free()
        atomic.AddUint64(&AbortCount, 1)
        return nil, err
    }

    /* per-method summary */
    if atomic.AddUint64(&InstrCount, uint64(ctx.list.Count)); o.Verbose {
        klog.Debugf("%s: generated %d instructions in %d blocks", fn.Name, ctx.list.Count, len(fn.Blocks))
    }

    /* the final list */
    return &Result {
        List  : ctx.list,
        Info  : ctx.info,
        Frame : ctx.frame,
    }, nil
}

func (self *Context) run() (err error) {
    defer utils.RecoverIn(&err, "lir", "amd64", "lirgen", "regmap", "ir", "loc")

    /* the function must be well formed */
    if err = self.fn.Verify(); err != nil {
        return
    }

    /* method layout, then the labels of every block */
    self.recoverInfo()
    self.t.Begin(self.list, self.frame)
    self.createLabels()
    self.findShiftExts()

    /* convert every block in function order */
    for _, bb := range self.fn.Blocks {
        self.convertBlock(bb)
    }

    /* out-of-line code */
    self.t.HandleSuspendLaunchpads()
    self.t.HandleThrowLaunchpads()
    self.t.HandleIntrinsicLaunchpads()

    /* branches to the next label */
    if !self.o.Disabled(opts.BranchOpt) {
        lir.RemoveRedundantBranches(self.list)
    }
    return nil
}

/** Method Info **/

// recoverInfo finds the method info record, carried by the method_info
// intrinsic of the entry block or by the function itself. Functions
// without one get a layout synthesized from the value names.
func (self *Context) recoverInfo() {
    for _, ins := range self.fn.Entry().Instrs {
        if id, ok := ins.Intrinsic(); ok && id == intrinsic.MethodInfo && ins.Info != nil {
            self.info = ins.Info
            break
        }
    }

    /* fall back to the function */
    if self.info == nil {
        self.info = self.fn.Info
    }

    /* synthesize it if nothing else works */
    if self.info == nil {
        klog.Warnf("%s: no method info record, synthesizing the frame from the values", self.fn.Name)
        self.info = self.synthesizeInfo()
    }

    /* the frame of the target */
    ri := self.info.RegInfo
    self.frame = codegen.Frame {
        NumIns           : int(ri.NumIns),
        NumRegs          : int(ri.NumRegs),
        NumOuts          : int(ri.NumOuts),
        NumCompilerTemps : int(ri.NumCompilerTemps),
    }

    /* one promotion entry per frame slot */
    if n := self.frame.NumSlots(); len(self.info.PromotionMap) != n {
        panic(utils.EInvariant("%s: promotion map has %d entries, want %d", self.fn.Name, len(self.info.PromotionMap), n))
    }

    /* decode the promotion map, promoted values live in registers */
    self.frame.Promotion = make([]mir.PromotionMap, len(self.info.PromotionMap))
    for i, v := range self.info.PromotionMap {
        self.frame.Promotion[i] = mir.UnpackPromotion(v)
    }
    self.locs.Promote(self.frame.PromotedCore)
}

func (self *Context) synthesizeInfo() *ir.MethodInfo {
    nins := 0
    first := -1
    top := -1
    outs := 0

    temps := 0

    /* the ins, argument names start at the first in */
    for _, arg := range self.fn.Args[1:] {
        if vreg, _, err := loc.ParseValueName(arg.Name()); err == nil && first < 0 {
            first = vreg
        }
        if nins++; arg.Type().IsWide() {
            nins++
        }
    }

    /* the highest register named, and the largest call */
    for _, bb := range self.fn.Blocks {
        for _, ins := range bb.Instrs {
            if vreg, _, err := loc.ParseValueName(ins.Name()); err == nil && vreg > top {
                top = vreg
            }
            if vreg, _, err := loc.ParseCompilerTempName(ins.Name()); err == nil && -vreg > temps {
                temps = -vreg
            }
            if id, ok := ins.Intrinsic(); ok && isCall(id) {
                if n := argWords(ins.Operands[3:]); n > outs {
                    outs = n
                }
            }
        }
    }

    /* registers below the ins are locals */
    regs := top + 1
    if first >= 0 {
        regs = first
    }

    /* nothing is promoted */
    pm := make([]int32, regs + nins + temps + 1)
    for i := range pm {
        pm[i] = mir.FramePromotion.Pack()
    }

    /* the synthesized record */
    return &ir.MethodInfo {
        PromotionMap: pm,
        RegInfo: ir.RegInfo {
            NumIns           : int32(nins),
            NumRegs          : int32(regs),
            NumOuts          : int32(outs),
            NumCompilerTemps : int32(temps),
        },
    }
}

func isCall(id intrinsic.Id) bool {
    return (id >= intrinsic.HLInvokeVoid && id <= intrinsic.HLInvokeInt) || id == intrinsic.FilledNewArray
}

func argWords(args []ir.Value) int {
    n := 0
    for _, v := range args {
        if n++; v.Type().IsWide() {
            n++
        }
    }
    return n
}

/** Blocks **/

// createLabels creates the label of every block up front, so forward
// branches have a target.
func (self *Context) createLabels() {
    for _, bb := range self.fn.Blocks {
        off, id := 0, 0

        /* the entry block starts at offset 0 */
        if bb != self.fn.Entry() {
            var err error
            if off, id, err = loc.ParseBlockName(bb.Name); err != nil {
                panic(err)
            }
        }

        /* not linked until the block is converted */
        p := self.list.New(lir.PseudoNormalBlockLabel, off, id)
        p.Offset = off
        self.labels[bb] = p
    }
}

func (self *Context) label(bb *ir.BasicBlock) *lir.LIR {
    if p, ok := self.labels[bb]; !ok {
        panic(utils.EInvariant("%s: branch to a block outside of the function", self.fn.Name))
    } else {
        return p
    }
}

// findShiftExts finds the extensions only used as the count of a long
// shift. Those generate no code, the shift uses the count directly.
func (self *Context) findShiftExts() {
    self.shifts = make(map[*ir.Instr]bool)
    other := make(map[*ir.Instr]bool)

    /* classify every use of every extension */
    for _, bb := range self.fn.Blocks {
        for _, ins := range bb.Instrs {
            for i, v := range ins.Operands {
                if ext, ok := v.(*ir.Instr); !ok || ext.Op != ir.OP_zext {
                    continue
                } else if i == 1 && isLongShift(ins) {
                    self.shifts[ext] = true
                } else {
                    other[ext] = true
                }
            }
        }
    }

    /* used anywhere else means converted */
    for ext := range other {
        delete(self.shifts, ext)
    }
}

func isLongShift(ins *ir.Instr) bool {
    switch ins.Op {
        case ir.OP_shl, ir.OP_lshr, ir.OP_ashr : return ins.Type() == ir.I64
        default                                : return false
    }
}

func (self *Context) convertBlock(bb *ir.BasicBlock) {
    var head *lir.LIR
    var label = self.label(bb)

    /* start of the block */
    self.list.SetOffset(label.Offset)
    self.list.Append(label)
    self.t.ResetRegPool()
    self.t.ResetDefTracking()
    self.t.ClobberAllRegs()

    /* the arguments are copied into their homes */
    if bb == self.fn.Entry() {
        self.list.SetOffset(0)
        self.genEntry()
    }

    /* convert every instruction */
    for i := 0; i < len(bb.Instrs); i++ {
        ins := bb.Instrs[i]
        if ins.HasOffset() {
            self.list.SetOffset(ins.Offset)
        }

        /* nothing is kept in temps across instructions */
        self.t.ResetRegPool()
        if self.o.Disabled(opts.TrackLiveTemps) {
            self.t.ClobberAllRegs()
        }

        /* forget the stored values if asked */
        if self.o.Disabled(opts.SuppressLoads) {
            self.t.ResetDefTracking()
        }

        /* mark the boundary of the instruction */
        p := self.list.Emit(lir.PseudoDalvikByteCodeBoundary, self.list.Offset())
        p.Comment = ins.FormatBody()
        self.list.MarkBoundary(self.list.Offset(), p)

        /* the peephole starts at the first boundary */
        if head == nil {
            head = p
        }

        /* instructions may consume the ones following them */
        i += self.convertInstr(bb, i)
    }

    /* the per-block peephole */
    if !self.o.Disabled(opts.LocalOpt) {
        lir.ApplyLocalOptimizations(head, self.list.Tail)
    }
}

// genEntry replays the entry sequence. The method argument is skipped and
// wide arguments take two slots, the second one has no SSA register.
func (self *Context) genEntry() {
    var args []loc.RegLocation
    var meth = self.locs.Lookup(self.fn.Args[0])

    /* locations of the ins */
    for _, arg := range self.fn.Args[1:] {
        rl := self.locs.Lookup(arg)
        args = append(args, rl)

        /* the high half */
        if rl.Wide {
            hi := rl.High()
            hi.SRegLow = loc.InvalidSReg
            args = append(args, hi)
        }
    }

    /* copy them */
    self.t.GenEntrySequence(args, meth)
}

/** Values **/

func (self *Context) loc(v ir.Value) loc.RegLocation {
    return self.locs.Lookup(v)
}

func (self *Context) offset(ins *ir.Instr) int {
    if ins.HasOffset() {
        return ins.Offset
    } else {
        return self.list.Offset()
    }
}

// imm reads an immediate operand, which must be a literal.
func (self *Context) imm(ins *ir.Instr, i int) int64 {
    if c, ok := ins.Operand(i).(*ir.ConstInt); !ok {
        panic(utils.EInvariant("%s: %#06x: operand %d of %s is not a literal", self.fn.Name, self.offset(ins), i, ins.Callee))
    } else {
        return c.Value
    }
}

func (self *Context) unsupported(ins *ir.Instr, format string, args ...interface{}) utils.UnsupportedError {
    return utils.EUnsupported(utils.UnsupportedInstruction, self.offset(ins), format, args...)
}
