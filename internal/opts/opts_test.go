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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("MIRBRIDGE_TEST_INT", "")
	t.Setenv("MIRBRIDGE_TEST_DIR", "")
	require.Equal(t, 3, parseOrDefault("MIRBRIDGE_TEST_INT", 3, -1))
	require.True(t, parseBool("MIRBRIDGE_TEST_INT", true))
	require.Equal(t, "", parseDir("MIRBRIDGE_TEST_DIR"))
}

func TestParse_Values(t *testing.T) {
	t.Setenv("MIRBRIDGE_TEST_INT", "0x3")
	t.Setenv("MIRBRIDGE_TEST_BOOL", "true")
	t.Setenv("MIRBRIDGE_TEST_DIR", "/tmp/dump/../ir")
	require.Equal(t, 3, parseOrDefault("MIRBRIDGE_TEST_INT", 0, -1))
	require.True(t, parseBool("MIRBRIDGE_TEST_BOOL", false))
	require.Equal(t, "/tmp/ir", parseDir("MIRBRIDGE_TEST_DIR"))
	require.Panics(t, func() { parseOrDefault("MIRBRIDGE_TEST_INT", 0, 3) })
	require.Panics(t, func() { parseBool("MIRBRIDGE_TEST_INT", false) })
	t.Setenv("MIRBRIDGE_TEST_DIR", "relative")
	require.Panics(t, func() { parseDir("MIRBRIDGE_TEST_DIR") })
}

func TestOptions_Disabled(t *testing.T) {
	o := Options{DisableOpt: LocalOpt | BranchOpt}
	require.True(t, o.Disabled(BranchOpt))
	require.False(t, o.Disabled(TrackLiveTemps))
	require.Equal(t, DisableOpt, GetDefaultOptions().DisableOpt)
}
