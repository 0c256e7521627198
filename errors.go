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
    `github.com/cloudwego/mirbridge/internal/utils`
)

// UnsupportedError occures when a method uses an opcode, an instruction or
// an intrinsic that cannot be translated. It is a property of the input.
type UnsupportedError = utils.UnsupportedError

// InvariantError occures when the input breaks an invariant of the bridge,
// such as a malformed value name or an unterminated block.
type InvariantError = utils.InvariantError

// Kinds of UnsupportedError.
const (
    UnsupportedOpcode      = utils.UnsupportedOpcode
    UnsupportedInstruction = utils.UnsupportedInstruction
    UnsupportedIntrinsic   = utils.UnsupportedIntrinsic
)

// IsUnsupported reports whether any error in err's chain is an UnsupportedError.
func IsUnsupported(err error) bool {
    return utils.IsUnsupported(err)
}

// IsInvariant reports whether any error in err's chain is an InvariantError.
func IsInvariant(err error) bool {
    return utils.IsInvariant(err)
}
