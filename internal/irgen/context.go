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

package irgen

import (
    `sync/atomic`

    `github.com/cloudwego/kitex/pkg/klog`

    `github.com/cloudwego/mirbridge/internal/intrinsic`
    `github.com/cloudwego/mirbridge/internal/ir`
    `github.com/cloudwego/mirbridge/internal/loc`
    `github.com/cloudwego/mirbridge/internal/mir`
    `github.com/cloudwego/mirbridge/internal/opts`
    `github.com/cloudwego/mirbridge/internal/regmap`
    `github.com/cloudwego/mirbridge/internal/utils`
)

var (
    MethodCount     uint64 = 0
    IncompleteCount uint64 = 0
    AbortCount      uint64 = 0
)

// NotHandled is one instruction skipped in development mode.
type NotHandled struct {
    Offset int
    Opcode mir.Opcode
}

// Report describes the outcome of lowering one method.
type Report struct {
    NotHandled []NotHandled
    Incomplete bool
    DumpFile   string
}

// Context is the state of lowering one method. It is owned by a single
// goroutine and never shared.
type Context struct {
    m         *mir.Method
    o         *opts.Options
    fn        *ir.Function
    ib        *ir.Builder
    regs      *regmap.Registry
    shadow    *ShadowMap
    report    *Report
    blocks    map[int]*ir.BasicBlock
    reachable map[int]bool
    consumed  map[*mir.MIR]bool
    cleared   map[*mir.BasicBlock]bool
    returns   map[*mir.BasicBlock]bool
    temps     int
}

func newContext(m *mir.Method, o *opts.Options) *Context {
    return &Context {
        m        : m,
        o        : o,
        report   : new(Report),
        blocks   : make(map[int]*ir.BasicBlock, len(m.Blocks)),
        consumed : make(map[*mir.MIR]bool),
        cleared  : make(map[*mir.BasicBlock]bool),
        returns  : make(map[*mir.BasicBlock]bool),
    }
}

// Lower converts the method into an IR function. No function is returned
// when the conversion fails.
func Lower(m *mir.Method, o *opts.Options) (*ir.Function, *Report, error) {
    if o == nil {
        dv := opts.GetDefaultOptions()
        o = &dv
    }

    /* one context per method */
    ctx := newContext(m, o)
    atomic.AddUint64(&MethodCount, 1)

    /* convert the whole method */
    if err := ctx.run(); err != nil {
        atomic.AddUint64(&AbortCount, 1)
        return nil, nil, err
    }

    /* methods with skipped instructions */
    if ctx.report.Incomplete {
        atomic.AddUint64(&IncompleteCount, 1)
    }

    /* optional dump file */
    if o.DumpDir != "" {
        ctx.dump()
    }

    /* per-method summary */
    if o.Verbose {
        klog.Debugf("%s: lowered into %d blocks, %d shadow slots, %d not handled", m.Name, len(ctx.fn.Blocks), ctx.shadow.Len(), len(ctx.report.NotHandled))
    }
    return ctx.fn, ctx.report, nil
}

func (self *Context) run() (err error) {
    defer utils.RecoverIn(&err, "ir")
    self.createFunction()
    self.createBlocks()

    /* convert every block in pre-order */
    for _, bb := range self.m.PreOrder() {
        self.convertBlock(bb)
    }

    /* incomplete methods may still have forward references */
    if self.report.Incomplete {
        return nil
    } else {
        return self.fn.Verify()
    }
}

func (self *Context) dump() {
    if path, err := ir.Dump(self.fn, self.o.DumpDir, self.o.DumpHeader...); err != nil {
        klog.Errorf("%s: cannot write the IR dump: %v", self.m.Name, err)
    } else {
        self.report.DumpFile = path
    }
}

func irType(c byte) ir.Type {
    if c == 'V' {
        return ir.Void
    } else {
        kind, wide := mir.ShortyKind(c)
        return regmap.TypeOf(loc.Frame(kind, wide, 0, 0, 0))
    }
}

func (self *Context) createFunction() {
    if len(self.m.Shorty) == 0 {
        panic(utils.EInvariant("%s: empty shorty", self.m.Name))
    }

    /* method context, then the receiver */
    args := []ir.Type { ir.Method }
    if !self.m.IsStatic() {
        args = append(args, ir.Object)
    }

    /* declared parameters */
    for i := 1; i < len(self.m.Shorty); i++ {
        args = append(args, irType(self.m.Shorty[i]))
    }

    /* create the function */
    self.fn = ir.NewFunction(self.m.Name, irType(self.m.Shorty[0]), args...)
    self.ib = ir.NewBuilder(self.fn)
    self.regs = regmap.NewRegistry(self.m, self.fn)
    self.fn.Args[0].SetName(loc.MethodName)

    /* arguments are the initial versions of the ins */
    sreg := self.m.NumRegs
    for _, arg := range self.fn.Args[1:] {
        self.regs.Define(sreg, arg)
        if sreg++; self.m.Loc(sreg - 1).Wide {
            sreg++
        }
    }
}

func (self *Context) createBlocks() {
    self.reachable = self.m.ReachableSet()

    /* one IR block per entry or normal block */
    for _, bb := range self.m.PreOrder() {
        switch bb.Kind {
            case mir.BlockEntry  : self.blocks[bb.Id] = self.fn.NewBlock(loc.EntryName)
            case mir.BlockNormal : self.blocks[bb.Id] = self.fn.NewBlock(loc.BlockName(bb.StartOffset, bb.Id))
        }
    }
}

// block returns the IR block of a CFG block, which must have one.
func (self *Context) block(bb *mir.BasicBlock) *ir.BasicBlock {
    if bb == nil {
        panic(utils.EInvariant("%s: branch to a missing block", self.m.Name))
    } else if ret, ok := self.blocks[bb.Id]; !ok {
        panic(utils.EInvariant("%s: block %d (%s) has no IR block", self.m.Name, bb.Id, bb.Kind))
    } else {
        return ret
    }
}

func (self *Context) convertBlock(bb *mir.BasicBlock) {
    ib, ok := self.blocks[bb.Id]
    if !ok {
        return
    }

    /* start of the block */
    self.ib.SetInsertPoint(ib)
    self.ib.SetDexOffset(bb.StartOffset)

    /* method info and the shadow frame */
    if bb.Kind == mir.BlockEntry {
        self.setMethodInfo()
        self.allocShadowFrame()
    }

    /* convert every instruction */
    for p := bb.First; p != nil; p = p.Next {
        self.ib.SetDexOffset(p.Offset)

        /* already consumed by an invoke */
        if self.consumed[p] {
            continue
        }

        /* dispatch by opcode */
        if op := p.Insn.Opcode; op >= mir.NumOpcodes || translators[op] == nil {
            self.notHandled(p)
        } else {
            translators[op](self, bb, p)
        }
    }

    /* fall-through edge */
    if bb.FallThrough != nil && !self.cleared[bb] && !self.returns[bb] && !bb.HasReturn && ib.Terminator() == nil {
        self.ib.CreateBr(self.block(bb.FallThrough))
    }
}

func (self *Context) setMethodInfo() {
    m := self.m
    n := m.NumDalvikRegisters() + m.NumCompilerTemps + 1

    /* register layout */
    mi := &ir.MethodInfo {
        PromotionMap: make([]int32, n),
        RegInfo: ir.RegInfo {
            NumIns           : int32(m.NumIns),
            NumRegs          : int32(m.NumRegs),
            NumOuts          : int32(m.NumOuts),
            NumCompilerTemps : int32(m.NumCompilerTemps),
            NumSSARegs       : int32(m.NumSSARegs),
        },
    }

    /* packed promotion map, missing entries stay in the frame */
    for i := range mi.PromotionMap {
        if i < len(m.PromotionMap) {
            mi.PromotionMap[i] = m.PromotionMap[i].Pack()
        } else {
            mi.PromotionMap[i] = mir.FramePromotion.Pack()
        }
    }

    /* the record has no dex offset */
    off := self.ib.DexOffset()
    self.ib.ClearDexOffset()
    self.ib.CreateIntrinsic(intrinsic.MethodInfo).Info = mi
    self.ib.SetDexOffset(off)
    self.fn.Info = mi
}

func (self *Context) allocShadowFrame() {
    self.shadow = BuildShadowMap(self.m, self.reachable)
    if n := self.shadow.Len(); n != 0 {
        self.ib.CreateIntrinsic(intrinsic.AllocaShadowFrame, self.ib.Int32(int32(n)))
    }
}

// setShadowEntry records a new reference value into its shadow frame slot.
func (self *Context) setShadowEntry(sreg int, v ir.Value) {
    slot := self.shadow.Slot(self.m.SRegToVReg(sreg))
    self.ib.CreateIntrinsic(intrinsic.SetShadowFrameEntry, v, self.ib.Int32(int32(slot)))
}

// define binds the result of an instruction to its SSA register, and
// records references into the shadow frame.
func (self *Context) define(sreg int, v ir.Value) {
    self.regs.Define(sreg, v)
    if rl := self.m.Loc(sreg); rl.Ref && !rl.Wide && self.m.SRegToVReg(sreg) >= 0 {
        self.setShadowEntry(sreg, v)
    }
}

// temp names an intermediate value that has no Dalvik register.
func (self *Context) temp(ins *ir.Instr) *ir.Instr {
    ins.SetName(loc.TempName(self.temps))
    self.temps++
    return ins
}

func (self *Context) value(sreg int) ir.Value {
    return self.regs.Get(sreg)
}

func (self *Context) emitSuspendCheck() {
    self.ib.CreateIntrinsic(intrinsic.CheckSuspend)
}

func (self *Context) emitPopShadowFrame() {
    if self.shadow != nil && self.shadow.Len() != 0 {
        self.ib.CreateIntrinsic(intrinsic.PopShadowFrame)
    }
}

func (self *Context) notHandled(p *mir.MIR) {
    op := p.Insn.Opcode

    /* fatal unless in development mode */
    if !self.o.Development {
        panic(utils.EUnsupported(utils.UnsupportedOpcode, p.Offset, "%s", op))
    }

    /* record the instruction and move on */
    klog.Warnf("%#06x: Op %#x (%s) / Fmt %d not handled", p.Offset, uint16(op), op.Name(), op.Format())
    self.report.Incomplete = true
    self.report.NotHandled = append(self.report.NotHandled, NotHandled { Offset: p.Offset, Opcode: op })
}
