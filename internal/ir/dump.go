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

package ir

import (
    `encoding/hex`
    `fmt`
    `os`
    `path/filepath`
    `strings`
)

var specialChars = strings.NewReplacer(
    "/", "-",
    ";", "#",
    " ", "#",
    "$", "+",
    "(", "@",
    ")", "@",
    "<", "=",
    ">", "=",
)

// DumpName returns the file name of the dump for a function name.
func DumpName(name string) string {
    return specialChars.Replace(name) + ".ir"
}

// Dump writes the textual listing of fn, followed by the encoded method-info
// record, to <dir>/<sanitized name>.ir, and returns the path of the file.
func Dump(fn *Function, dir string, header ...string) (string, error) {
    var sb strings.Builder
    path := filepath.Join(dir, DumpName(fn.Name))

    /* optional header lines */
    for _, h := range header {
        fmt.Fprintf(&sb, "; %s\n", h)
    }

    /* the function itself */
    sb.WriteString(fn.String())

    /* method info record */
    if fn.Info != nil {
        if buf, err := fn.Info.MarshalBinary(); err != nil {
            return "", err
        } else {
            fmt.Fprintf(&sb, "\n%s%s\n", dumpInfoPrefix, hex.EncodeToString(buf))
        }
    }

    /* write to the file */
    if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
        return "", err
    } else {
        return path, nil
    }
}

const dumpInfoPrefix = "; method-info: "

// ReadDumpInfo decodes the method-info record of a dump written by Dump.
func ReadDumpInfo(dump string) (*MethodInfo, error) {
    for _, line := range strings.Split(dump, "\n") {
        if !strings.HasPrefix(line, dumpInfoPrefix) {
            continue
        }

        /* hex encoded thrift record */
        buf, err := hex.DecodeString(strings.TrimPrefix(line, dumpInfoPrefix))
        if err != nil {
            return nil, fmt.Errorf("ir: invalid method-info record: %w", err)
        }

        /* decode it */
        mi := new(MethodInfo)
        if err = mi.UnmarshalBinary(buf); err != nil {
            return nil, err
        } else {
            return mi, nil
        }
    }
    return nil, fmt.Errorf("ir: dump has no method-info record")
}
