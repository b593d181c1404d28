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
	"errors"
	"fmt"
	"reflect"

	"github.com/consensys/go-tapevm/pkg/tape"
)

// ErrUnreachable is the value with which a program panics when the trailing
// sentinel of its tape is dispatched.  Reaching it indicates a missing halt
// or a bad jump, and is never a normal end state.
var ErrUnreachable = errors.New("reached unreachable tape")

// ErrForeignOffset is reported when an offset captured during one build
// session is resolved against the tape of another.
var ErrForeignOffset = errors.New("offset belongs to a different tape")

// ErrOffsetOutOfBounds is reported when an offset lies beyond the end of the
// tape it is resolved against.
var ErrOffsetOutOfBounds = errors.New("offset out of bounds")

// ErrForeignAddress is reported when an operation continues at an address
// belonging to a different tape.
var ErrForeignAddress = errors.New("address belongs to a different tape")

// ErrForeignConstant is reported when a constant interned by one build session
// is loaded whilst running the tape of another.
var ErrForeignConstant = errors.New("constant belongs to a different tape")

// ErrForeignHalt is reported when an operation halts using a runner bound to
// the tape of another program.
var ErrForeignHalt = errors.New("halt belongs to a different tape")

// ErrDanglingOffset is reported at the end of a build when a forward offset
// does not land at the start of an instruction.
var ErrDanglingOffset = errors.New("dangling forward offset")

// ErrSealed is returned when emitting onto the tape of a build session which
// has already completed.
var ErrSealed = errors.New("tape is sealed")

// ErrReentrantRun is returned when a program is run from within one of its own
// operations.
var ErrReentrantRun = errors.New("program is already running")

// ErrRecycled is returned when running a program whose tape has been handed
// back for rebuilding.
var ErrRecycled = errors.New("program has been recycled")

// ErrUnknownStrategy is returned when a dispatch strategy is requested by a
// name which is not recognised.
var ErrUnknownStrategy = errors.New("unknown dispatch strategy")

// LayoutError describes an operation type which cannot be encoded onto a
// word-addressed tape.  Emitting such an operation is a programming error in
// the operation's definition, hence builders panic with this value rather
// than returning it.
type LayoutError struct {
	// Operation type being emitted.
	Type reflect.Type
	// Reason describing the incompatibility.
	Reason string
}

func newLayoutError(t reflect.Type, format string, args ...any) *LayoutError {
	return &LayoutError{t, fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (p *LayoutError) Error() string {
	return fmt.Sprintf("operation %s is incompatible with a %d-byte word tape: %s", p.Type, tape.WordSize, p.Reason)
}
