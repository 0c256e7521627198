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

package regmap

import (
    `github.com/cloudwego/mirbridge/internal/ir`
    `github.com/cloudwego/mirbridge/internal/loc`
)

// TypeOf returns the IR type of a value with the given location.
func TypeOf(rl loc.RegLocation) ir.Type {
    switch {
        case rl.Ref            : return ir.Object
        case rl.FP && rl.Wide  : return ir.Double
        case rl.FP             : return ir.Float
        case rl.Wide           : return ir.I64
        default                : return ir.I32
    }
}

// KindOf returns the location kind of values of an IR type.
func KindOf(ty ir.Type) loc.Kind {
    switch ty {
        case ir.Object             : return loc.KindRef
        case ir.Float, ir.Double   : return loc.KindFP
        case ir.Void               : return loc.KindUnknown
        default                    : return loc.KindCore
    }
}
