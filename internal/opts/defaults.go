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
	"os"
	"path/filepath"
	"strconv"
)

const (
	_DefaultDevelopment = false // unsupported opcodes are fatal
	_DefaultVerbose     = false
	_DefaultDisableOpt  = 0 // every optimization enabled
)

var (
	Development = parseBool("MIRBRIDGE_DEVELOPMENT", _DefaultDevelopment)
	Verbose     = parseBool("MIRBRIDGE_VERBOSE", _DefaultVerbose)
	DumpDir     = parseDir("MIRBRIDGE_DUMP_DIR")
	DisableOpt  = parseOrDefault("MIRBRIDGE_DISABLE_OPT", _DefaultDisableOpt, -1)
)

func parseOrDefault(key string, def int, min int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
		panic("mirbridge: invalid value for " + key)
	} else if ret := int(val); ret <= min {
		panic("mirbridge: value too small for " + key)
	} else {
		return ret
	}
}

func parseBool(key string, def bool) bool {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseBool(env); err != nil {
		panic("mirbridge: invalid value for " + key)
	} else {
		return val
	}
}

func parseDir(key string) string {
	if env := os.Getenv(key); env == "" {
		return ""
	} else if !filepath.IsAbs(env) {
		panic("mirbridge: dump directory must be an absolute path: " + key)
	} else {
		return filepath.Clean(env)
	}
}
