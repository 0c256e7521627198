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

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/mirbridge/internal/irgen"
	"github.com/cloudwego/mirbridge/internal/lirgen"
)

// A Stats records statistics about both directions of the bridge.
type Stats struct {
	Forward ForwardStats
	Reverse ReverseStats
}

// A ForwardStats records statistics about lowering MIR into IR.
type ForwardStats struct {
	Methods    int
	Incomplete int
	Aborted    int
}

// A ReverseStats records statistics about generating LIR from IR.
type ReverseStats struct {
	Methods int
	Aborted int
	Instrs  int
}

// GetStats returns statistics of the bridge.
func GetStats() Stats {
	return Stats{
		Forward: ForwardStats{
			Methods:    int(atomic.LoadUint64(&irgen.MethodCount)),
			Incomplete: int(atomic.LoadUint64(&irgen.IncompleteCount)),
			Aborted:    int(atomic.LoadUint64(&irgen.AbortCount)),
		},
		Reverse: ReverseStats{
			Methods: int(atomic.LoadUint64(&lirgen.MethodCount)),
			Aborted: int(atomic.LoadUint64(&lirgen.AbortCount)),
			Instrs:  int(atomic.LoadUint64(&lirgen.InstrCount)),
		},
	}
}
