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
	"github.com/consensys/go-tapevm/pkg/util/collection/bit"
)

// Builder writes the instructions of a program onto a tape.  A builder exists
// only for the duration of a single build session, and is handed to the
// function given to Machine.Program.
type Builder[E any] struct {
	cpu    CPU[E]
	writer tape.Writer
	tape   session
	// Tokens (and layouts) of the operation types emitted so far.
	encodings map[reflect.Type]encoding
	// Word offsets at which instructions start.
	starts bit.Set
	// Forward offsets awaiting confirmation.
	pending []Offset
	// Constant pool
	consts []any
	// Debug records (or nil if disabled)
	debug *DebugInfo
	// Number of instructions emitted
	count uint
	// Set once the build has completed
	sealed bool
}

type encoding struct {
	token  Token
	layout Layout
}

func newBuilder[E any](cpu CPU[E], writer tape.Writer, debug bool) *Builder[E] {
	var info *DebugInfo
	//
	if debug {
		info = &DebugInfo{}
	}
	//
	return &Builder[E]{
		cpu:       cpu,
		writer:    writer,
		tape:      newSession(),
		encodings: make(map[reflect.Type]encoding),
		debug:     info,
	}
}

// Emit writes an instruction for a given operation onto the tape of a builder.
// An error is returned if the tape cannot hold the instruction, in which case
// nothing is written.  Likewise, once the build has completed, ErrSealed is
// returned and nothing is written.  Emit panics with a LayoutError if the operation's type
// cannot be written onto a tape at all.
func Emit[E any, Op Operation[E]](builder *Builder[E], op Op) error {
	if builder.sealed {
		return ErrSealed
	}
	//
	var (
		enc  = encodingOf[E, Op](builder)
		word = builder.writer.WordOffset()
	)
	// Reserve space
	words, err := builder.writer.Take(enc.layout.Words())
	if err != nil {
		return err
	}
	// Write instruction
	words[0] = uint(enc.token)
	store(words[1:], op)
	// Book keeping
	builder.starts.Insert(word)
	builder.count++
	//
	if builder.debug != nil {
		builder.debug.push(word, formatter[Op](word, enc.layout))
	}
	//
	return nil
}

func encodingOf[E any, Op Operation[E]](builder *Builder[E]) encoding {
	var t = reflect.TypeFor[Op]()
	//
	if enc, ok := builder.encodings[t]; ok {
		return enc
	}
	//
	desc := Describe[E, Op]()
	enc := encoding{builder.cpu.Token(desc), desc.layout}
	builder.encodings[t] = enc
	//
	return enc
}

// Nop emits a no operation.
func (p *Builder[E]) Nop() error {
	return Emit(p, Nop[E]{})
}

// Offset returns the current position of the builder on its tape.  This is
// the offset at which the next instruction emitted will start, hence capturing
// an offset immediately before emitting an instruction gives a target for
// jumping to that instruction.
func (p *Builder[E]) Offset() Offset {
	return Offset{p.writer.WordOffset(), p.tape}
}

// ForwardOffset returns an offset a given number of words beyond the current
// position of the builder.  This allows jumps to be emitted before their
// targets, provided the caller knows the size of the instructions in between
// (see Words).  Forward offsets are confirmed when the build completes, and
// the build fails unless each lands at the start of an instruction.
func (p *Builder[E]) ForwardOffset(words uint) Offset {
	offset := Offset{p.writer.WordOffset() + words, p.tape}
	p.pending = append(p.pending, offset)
	//
	return offset
}

// Len returns the number of instructions emitted so far.
func (p *Builder[E]) Len() uint {
	return p.count
}

// CPU returns the CPU for which this builder is emitting instructions.
func (p *Builder[E]) CPU() CPU[E] {
	return p.cpu
}

// Complete the build by confirming all forward offsets and capping the tape
// with the unreachable sentinel.
func (p *Builder[E]) finish() error {
	var end = p.writer.WordOffset()
	//
	for _, offset := range p.pending {
		if offset.word != end && !p.starts.Contains(offset.word) {
			return fmt.Errorf("%w: %s", ErrDanglingOffset, offset)
		}
	}
	//
	p.pending = nil
	//
	if err := Emit(p, Unreachable[E]{}); err != nil {
		return err
	}
	//
	p.sealed = true
	//
	return nil
}
