/*
 * Copyright 2022 CloudWeGo Authors
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

package mirbridge

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/bytedance/gopkg/util/gopool"

	"github.com/cloudwego/mirbridge/internal/codegen"
	"github.com/cloudwego/mirbridge/internal/ir"
	"github.com/cloudwego/mirbridge/internal/irgen"
	"github.com/cloudwego/mirbridge/internal/lir"
	"github.com/cloudwego/mirbridge/internal/lirgen"
	"github.com/cloudwego/mirbridge/internal/mir"
)

// LowerReport describes the outcome of lowering one method: the
// instructions skipped in development mode, and the dump file if any.
type LowerReport = irgen.Report

// Result is a method compiled in both directions.
type Result struct {
	Function *ir.Function
	Report   *LowerReport
	List     *lir.List
	Info     *ir.MethodInfo
	Frame    codegen.Frame
}

// BatchResult is the outcome of one method of CompileAll.
type BatchResult struct {
	Method *mir.Method
	Result *Result
	Err    error
}

// Lower converts a MIR method into an IR function.
func Lower(m *mir.Method, options ...Option) (*ir.Function, *LowerReport, error) {
	return irgen.Lower(m, makeOptions(options))
}

// Generate converts an IR function into the LIR of the target. The value
// locations are recovered from the value names alone.
func Generate(fn *ir.Function, t codegen.Target, options ...Option) (*lir.List, error) {
	if ret, err := lirgen.Generate(fn, nil, t, makeOptions(options)); err != nil {
		return nil, err
	} else {
		return ret.List, nil
	}
}

// Compile lowers the method, runs the optimizer configured with
// WithOptimizer if any, then generates the LIR of the target.
func Compile(m *mir.Method, t codegen.Target, options ...Option) (*Result, error) {
	o := makeOptions(options)
	fn, rep, err := irgen.Lower(m, o)

	/* forward */
	if err != nil {
		return nil, err
	}

	/* the IR may be rewritten in between */
	if o.Optimizer != nil {
		if err = o.Optimizer(fn); err != nil {
			return nil, fmt.Errorf("mirbridge: optimizer failed on %s: %w", fn.Name, err)
		}
	}

	/* and back */
	ret, err := lirgen.Generate(fn, m, t, o)
	if err != nil {
		return nil, err
	}

	/* both directions */
	return &Result{
		Function: fn,
		Report:   rep,
		List:     ret.List,
		Info:     ret.Info,
		Frame:    ret.Frame,
	}, nil
}

var (
	poolOnce sync.Once
	pool     gopool.Pool
)

func compilePool() gopool.Pool {
	poolOnce.Do(func() {
		pool = gopool.NewPool("mirbridge.compile", int32(runtime.GOMAXPROCS(0)), gopool.NewConfig())
	})
	return pool
}

// CompileAll compiles independent methods concurrently. Every method gets
// its own target from newTarget, since targets carry per-method state.
// The results are in the order of the methods.
func CompileAll(ms []*mir.Method, newTarget func() codegen.Target, options ...Option) []BatchResult {
	wg := sync.WaitGroup{}
	ret := make([]BatchResult, len(ms))

	/* one task per method */
	for i, m := range ms {
		i, m := i, m
		ret[i].Method = m
		wg.Add(1)

		/* each task writes its own slot */
		compilePool().Go(func() {
			defer wg.Done()
			defer func() {
				if v := recover(); v != nil {
					ret[i].Err = fmt.Errorf("mirbridge: panic while compiling %s: %v", m.Name, v)
				}
			}()
			ret[i].Result, ret[i].Err = Compile(m, newTarget(), options...)
		})
	}

	/* wait for all of them */
	wg.Wait()
	return ret
}
