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

package utils

import (
    `errors`
    `fmt`
    `strings`
)

// UnsupportedKind classifies the construct that could not be lowered.
type UnsupportedKind uint8

const (
    UnsupportedOpcode UnsupportedKind = iota
    UnsupportedInstruction
    UnsupportedIntrinsic
)

func (self UnsupportedKind) String() string {
    switch self {
        case UnsupportedOpcode      : return "opcode"
        case UnsupportedInstruction : return "instruction"
        case UnsupportedIntrinsic   : return "intrinsic"
        default                     : return fmt.Sprintf("UnsupportedKind(%d)", uint8(self))
    }
}

// UnsupportedError occures when the input contains a construct outside of
// the subset handled by the bridge. Whether it aborts the method depends on
// the configured policy.
type UnsupportedError struct {
    Kind   UnsupportedKind
    Offset int
    What   string
}

func (self UnsupportedError) Error() string {
    if self.Offset < 0 {
        return fmt.Sprintf("unsupported %s: %s", self.Kind, self.What)
    } else {
        return fmt.Sprintf("unsupported %s at %#06x: %s", self.Kind, self.Offset, self.What)
    }
}

// InvariantError indicates a bug in an upstream pass or in the bridge itself.
// It always aborts the compilation of the current method.
type InvariantError struct {
    What string
}

func (self InvariantError) Error() string {
    return "invariant violation: " + self.What
}

func EUnsupported(kind UnsupportedKind, offset int, format string, args ...interface{}) UnsupportedError {
    return UnsupportedError {
        Kind   : kind,
        Offset : offset,
        What   : fmt.Sprintf(format, args...),
    }
}

func EInvariant(format string, args ...interface{}) InvariantError {
    return InvariantError {
        What: fmt.Sprintf(format, args...),
    }
}

func IsUnsupported(err error) bool {
    var e UnsupportedError
    return errors.As(err, &e)
}

func IsInvariant(err error) bool {
    var e InvariantError
    return errors.As(err, &e)
}

// Recover converts a panic carrying one of the error types above into an
// error stored in *err. Any other panic is re-raised.
func Recover(err *error) {
    if v := recover(); v != nil {
        switch e := v.(type) {
            case UnsupportedError : *err = e
            case InvariantError   : *err = e
            default               : panic(v)
        }
    }
}

// RecoverIn is like Recover, but string panics raised by one of the named
// packages are also converted, into invariant violations. Those come from
// builders fed with inconsistent input.
func RecoverIn(err *error, pkgs ...string) {
    if v := recover(); v != nil {
        switch e := v.(type) {
            case UnsupportedError : *err = e
            case InvariantError   : *err = e
            case string           : *err = fromPackage(v, e, pkgs)
            default               : panic(v)
        }
    }
}

func fromPackage(v interface{}, msg string, pkgs []string) error {
    for _, pkg := range pkgs {
        if strings.HasPrefix(msg, pkg + ": ") {
            return EInvariant("%s", msg)
        }
    }
    panic(v)
}
