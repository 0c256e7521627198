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

package opts

import (
	"github.com/cloudwego/mirbridge/internal/ir"
)

// Optimization bits, a set bit disables the corresponding behavior.
const (
	TrackLiveTemps = 1 << iota // clobber every register before each instruction
	SuppressLoads              // forget stored values before each instruction
	LocalOpt                   // skip the per-block LIR peephole
	BranchOpt                  // keep branches to the fall-through label
)

// Optimizer is an external IR pass run between the two directions.
type Optimizer func(fn *ir.Function) error

type Options struct {
	Development bool
	Verbose     bool
	DumpDir     string
	DumpHeader  []string
	DisableOpt  int
	Optimizer   Optimizer
}

func (self *Options) Disabled(bit int) bool {
	return self.DisableOpt&bit != 0
}

func GetDefaultOptions() Options {
	return Options{
		Development: Development,
		Verbose:     Verbose,
		DumpDir:     DumpDir,
		DisableOpt:  DisableOpt,
	}
}
