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

import "fmt"

// Runner is the capability handed to every executing operation.  It is bound
// to the tape of a single run, and provides the only means of turning offsets
// into addresses and of halting the program.  Runners are small and intended
// to be passed by value.
type Runner struct {
	words  []uint
	consts []any
	tape   session
}

// ResolveOffset turns an offset into an address on the executing tape.  This
// fails if the offset was captured on a different tape, or lies beyond the
// end of this tape.
func (p Runner) ResolveOffset(offset Offset) (Address, error) {
	if offset.tape != p.tape {
		return Address{}, fmt.Errorf("%w: %s", ErrForeignOffset, offset)
	} else if offset.word >= uint(len(p.words)) {
		return Address{}, fmt.Errorf("%w: %s (tape is %d words)", ErrOffsetOutOfBounds, offset, len(p.words))
	}
	//
	return Address(offset), nil
}

// Jump continues execution at a given offset.  If the offset cannot be
// resolved then the program halts, reporting why.
func (p Runner) Jump(offset Offset) Destination {
	addr, err := p.ResolveOffset(offset)
	//
	if err != nil {
		return p.Abort(err)
	}
	//
	return Destination{next: addr}
}

// Halt terminates the run normally.
func (p Runner) Halt() Destination {
	return Destination{next: Address{0, p.tape}, halted: true}
}

// Abort terminates the run, reporting a given error as its cause.
func (p Runner) Abort(err error) Destination {
	return Destination{Address{0, p.tape}, true, err}
}

// check an address can be dispatched to by this runner.
func (p Runner) owns(addr Address) bool {
	return addr.tape == p.tape
}
