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

	"github.com/consensys/go-tapevm/pkg/tape"
)

// Token is an opaque, word-sized handle identifying how to execute an
// instruction.  Tokens are issued by a CPU, once per operation type, and are
// written onto the tape immediately before the operation's payload.
type Token uint

// Offset is a position on a tape captured whilst building it, typically for
// use as the target of a jump.  Offsets can only be turned into addresses by
// a Runner executing the same tape on which they were captured.
type Offset struct {
	word uint
	tape session
}

// Words returns the position of this offset, measured in words from the start
// of the tape.
func (p Offset) Words() uint {
	return p.word
}

// Bytes returns the position of this offset, measured in bytes from the start
// of the tape.
func (p Offset) Bytes() uint {
	return p.word * tape.WordSize
}

// IsValid checks whether this offset was captured by a builder (rather than
// being the zero value).
func (p Offset) IsValid() bool {
	return p.tape != 0
}

func (p Offset) String() string {
	return fmt.Sprintf("[base + %d]", p.Bytes())
}

// Address is a resolved position on the tape of an executing program.  An
// address always points at the start of some instruction, and is therefore
// always safe to dispatch to.
type Address struct {
	word uint
	tape session
}

// Words returns the position of this address, measured in words from the
// start of the tape.
func (p Address) Words() uint {
	return p.word
}

// Offset returns the offset corresponding to this address.
func (p Address) Offset() Offset {
	return Offset(p)
}

func (p Address) String() string {
	return fmt.Sprintf("@%d", p.word)
}

// PC provides an executing operation with the address of its own instruction.
type PC struct {
	at Address
	// instruction size (in words)
	size uint
}

// Current returns the address of the executing instruction.
func (p PC) Current() Address {
	return p.at
}

// Next returns the address of the instruction immediately following the
// executing one.
func (p PC) Next() Address {
	return Address{p.at.word + p.size, p.at.tape}
}

// Step continues execution at the next instruction.
func (p PC) Step() Destination {
	return Destination{next: p.Next()}
}

// Size returns the number of words occupied by the executing instruction.
func (p PC) Size() uint {
	return p.size
}

// Destination is the outcome of executing a single operation: either execution
// continues at some address, or the program halts.  A halt may carry a cause,
// which is reported as the error of the run.
type Destination struct {
	// Next address, or the halting tape when halted.
	next   Address
	halted bool
	cause  error
}

// Continue constructs a destination which continues execution at a given
// address.
func Continue(addr Address) Destination {
	return Destination{next: addr}
}

// Halted checks whether this destination terminates execution.
func (p Destination) Halted() bool {
	return p.halted
}

// Next returns the address at which execution continues.  This panics if the
// destination is a halt.
func (p Destination) Next() Address {
	if p.halted {
		panic("halt has no next address")
	}
	//
	return p.next
}

// Err returns the cause of a halt, or nil when halting normally (or not
// halting at all).
func (p Destination) Err() error {
	return p.cause
}

func (p Destination) String() string {
	switch {
	case !p.halted:
		return fmt.Sprintf("continue %s", p.next)
	case p.cause != nil:
		return fmt.Sprintf("halt (%s)", p.cause)
	default:
		return "halt"
	}
}
