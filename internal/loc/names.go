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

package loc

import (
    `fmt`
    `strconv`
    `strings`

    `github.com/cloudwego/mirbridge/internal/utils`
)

const (
    MethodName = "method"
    EntryName  = "entry"
)

// ValueName encodes an SSA register as "v<vreg>_<subscript>".
func ValueName(vreg int, subscript int) string {
    return "v" + strconv.Itoa(vreg) + "_" + strconv.Itoa(subscript)
}

// ParseValueName is the inverse of ValueName. The reserved method argument
// parses to (MethodSReg, 0). Any name that ValueName could not have produced
// is rejected.
func ParseValueName(name string) (vreg int, subscript int, err error) {
    if name == MethodName {
        return MethodSReg, 0, nil
    } else if vreg, subscript, err = parsePair(name, 'v'); err != nil {
        return 0, 0, utils.EInvariant("malformed value name %q", name)
    } else {
        return vreg, subscript, nil
    }
}

// CompilerTempName encodes the SSA register of a compiler temp, whose vreg
// is negative, as "c<-vreg>_<subscript>".
func CompilerTempName(vreg int, subscript int) string {
    if vreg >= 0 {
        panic(fmt.Sprintf("loc: v%d is not a compiler temp", vreg))
    } else {
        return "c" + strconv.Itoa(-vreg) + "_" + strconv.Itoa(subscript)
    }
}

// ParseCompilerTempName is the inverse of CompilerTempName.
func ParseCompilerTempName(name string) (vreg int, subscript int, err error) {
    if vreg, subscript, err = parsePair(name, 'c'); err != nil || vreg == 0 {
        return 0, 0, utils.EInvariant("malformed compiler temp name %q", name)
    } else {
        return -vreg, subscript, nil
    }
}

// SSAName names an SSA register, with CompilerTempName for compiler temps
// and ValueName for everything else.
func SSAName(vreg int, subscript int) string {
    if vreg < 0 {
        return CompilerTempName(vreg, subscript)
    } else {
        return ValueName(vreg, subscript)
    }
}

func parsePair(name string, prefix byte) (int, int, error) {
    if len(name) < 4 || name[0] != prefix {
        return 0, 0, strconv.ErrSyntax
    }

    /* split the two numbers */
    p := strings.IndexByte(name, '_')
    if p < 0 {
        return 0, 0, strconv.ErrSyntax
    }

    /* parse both halves */
    if x, err := parseIndex(name[1:p]); err != nil {
        return 0, 0, err
    } else if y, err := parseIndex(name[p + 1:]); err != nil {
        return 0, 0, err
    } else {
        return x, y, nil
    }
}

// BlockName encodes a block label as "L0x<offset>_<id>".
func BlockName(offset int, id int) string {
    return fmt.Sprintf("L0x%x_%d", offset, id)
}

// ParseBlockName is the inverse of BlockName.
func ParseBlockName(name string) (offset int, id int, err error) {
    if !strings.HasPrefix(name, "L0x") {
        return 0, 0, utils.EInvariant("malformed block name %q", name)
    }

    /* split the offset and the ID */
    s := name[3:]
    p := strings.IndexByte(s, '_')
    if p <= 0 {
        return 0, 0, utils.EInvariant("malformed block name %q", name)
    }

    /* offset is in hex */
    v, err := strconv.ParseUint(s[:p], 16, 31)
    if err != nil || strconv.FormatUint(v, 16) != s[:p] {
        return 0, 0, utils.EInvariant("malformed block name %q", name)
    }

    /* ID is in decimal */
    if id, err = parseIndex(s[p + 1:]); err != nil {
        return 0, 0, utils.EInvariant("malformed block name %q", name)
    } else {
        return int(v), id, nil
    }
}

// TempName names the i-th anonymous temporary of a method.
func TempName(i int) string {
    return "t" + strconv.Itoa(i)
}

func parseIndex(s string) (int, error) {
    if v, err := strconv.ParseUint(s, 10, 31); err != nil {
        return 0, err
    } else if strconv.FormatUint(v, 10) != s {
        return 0, strconv.ErrSyntax
    } else {
        return int(v), nil
    }
}
