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
	"path/filepath"

	"github.com/cloudwego/mirbridge/internal/ir"
	"github.com/cloudwego/mirbridge/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// Bits accepted by WithDisabledOptimizations.
const (
	TrackLiveTemps = opts.TrackLiveTemps
	SuppressLoads  = opts.SuppressLoads
	LocalOpt       = opts.LocalOpt
	BranchOpt      = opts.BranchOpt

	_AllOpts = TrackLiveTemps | SuppressLoads | LocalOpt | BranchOpt
)

// WithDevelopmentMode makes the forward pass skip the instructions it cannot
// lower instead of failing. The methods are reported as incomplete.
//
// The default value of this option is "false".
func WithDevelopmentMode(v bool) Option {
	return func(o *opts.Options) { o.Development = v }
}

// WithVerbose logs a summary of every method at debug level.
func WithVerbose(v bool) Option {
	return func(o *opts.Options) { o.Verbose = v }
}

// WithDumpDir writes the IR of every lowered method into dir, which must
// be an absolute path. An empty dir disables the dump.
func WithDumpDir(dir string) Option {
	if dir == "" {
		return func(o *opts.Options) { o.DumpDir = "" }
	} else if !filepath.IsAbs(dir) {
		panic(fmt.Sprintf("mirbridge: dump directory must be an absolute path: %s", dir))
	} else {
		return func(o *opts.Options) { o.DumpDir = filepath.Clean(dir) }
	}
}

// WithDumpHeader adds comment lines to the top of every dump file.
func WithDumpHeader(lines ...string) Option {
	return func(o *opts.Options) { o.DumpHeader = append(o.DumpHeader, lines...) }
}

// WithDisabledOptimizations disables the optimizations named by the bits,
// any of TrackLiveTemps, SuppressLoads, LocalOpt and BranchOpt.
//
// This value can also be configured with the `MIRBRIDGE_DISABLE_OPT`
// environment variable.
func WithDisabledOptimizations(bits int) Option {
	if bits & ^_AllOpts != 0 {
		panic(fmt.Sprintf("mirbridge: invalid optimization bits: %#x", bits))
	} else {
		return func(o *opts.Options) { o.DisableOpt = bits }
	}
}

// WithOptimizer runs fn on the IR between the two directions of Compile.
// Generate and Lower never call it.
func WithOptimizer(fn func(*ir.Function) error) Option {
	return func(o *opts.Options) { o.Optimizer = fn }
}

// SetDevelopmentMode sets the default development mode for all methods from
// now on.
//
// This value can also be configured with the `MIRBRIDGE_DEVELOPMENT`
// environment variable.
//
// Returns the old opts.Development value.
func SetDevelopmentMode(v bool) bool {
	v, opts.Development = opts.Development, v
	return v
}

// SetDisabledOptimizations sets the default disabled optimizations for all methods
// from now on.
//
// Returns the old opts.DisableOpt value.
func SetDisabledOptimizations(bits int) int {
	if bits & ^_AllOpts != 0 {
		panic(fmt.Sprintf("mirbridge: invalid optimization bits: %#x", bits))
	}
	bits, opts.DisableOpt = opts.DisableOpt, bits
	return bits
}

func makeOptions(options []Option) *opts.Options {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}
	return &o
}
