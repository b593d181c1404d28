// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package vm

import (
	"fmt"
	"reflect"

	"github.com/consensys/go-tapevm/pkg/tape"
)

// Dumpable is implemented by operations (and their fields) which know how to
// render themselves for diagnostic purposes.  Operations which do not
// implement it are rendered with their Go syntax.
type Dumpable interface {
	// Dump renders this value, using the dumper to resolve anything referring
	// into the tape.
	Dump(dumper Dumper) string
}

// Dumper provides read-only access to a compiled tape for diagnostics.
type Dumper struct {
	words  []uint
	consts []any
	tape   session
}

// Offset renders an offset as a position relative to the tape base.
func (p Dumper) Offset(offset Offset) string {
	if offset.tape != p.tape {
		return fmt.Sprintf("%s /* foreign */", offset)
	}
	//
	return offset.String()
}

// Words returns the number of words on the dumped tape.
func (p Dumper) Words() uint {
	return uint(len(p.words))
}

// DebugInfo records, for each instruction on a tape, where it starts and how
// to render it.  This is a pure side channel: whether or not it is recorded
// has no effect on the tape itself.
type DebugInfo struct {
	records []Record
}

// Record describes a single instruction of a compiled tape.
type Record struct {
	// word offset of the instruction
	word uint
	// formatting hook for the instruction
	format func(Dumper) string
}

// Offset returns the position of this instruction, in bytes from the start
// of the tape.
func (p Record) Offset() uint {
	return p.word * tape.WordSize
}

// Format renders this instruction.
func (p Record) Format(dumper Dumper) string {
	return p.format(dumper)
}

// Records returns the instructions recorded, in tape order.
func (p *DebugInfo) Records() []Record {
	if p == nil {
		return nil
	}
	//
	return p.records
}

// Len returns the number of instructions recorded.
func (p *DebugInfo) Len() uint {
	return uint(len(p.Records()))
}

func (p *DebugInfo) push(word uint, format func(Dumper) string) {
	p.records = append(p.records, Record{word, format})
}

// Construct a formatting hook for an instruction of a given operation type
// starting at a given word.
func formatter[Op any](word uint, layout Layout) func(Dumper) string {
	return func(dumper Dumper) string {
		op := load[Op](dumper.words, word+1, layout.payload)
		//
		if d, ok := any(op).(Dumpable); ok {
			return d.Dump(dumper)
		}
		//
		return fmt.Sprintf("%s%+v", typeName(layout.typ), op)
	}
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	//
	return t.String()
}
