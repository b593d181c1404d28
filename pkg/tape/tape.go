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
package tape

import (
	"errors"
	"math/bits"
)

// WordSize is the number of bytes in a single machine word.  Tapes are
// addressed in whole words, and every instruction written to a tape occupies a
// whole number of them.
const WordSize = bits.UintSize / 8

// ErrUnexpectedEnd signals that a writer could not hand out the words
// requested of it.  This is a recoverable condition: the build which triggered
// it can be abandoned and retried against a larger tape.
var ErrUnexpectedEnd = errors.New("unexpected end of tape")

// Writer represents a tape which can be appended to, one block of words at a
// time.
type Writer interface {
	// WordOffset returns the current position of the writer, in words.  This is
	// also the number of words written so far.
	WordOffset() uint
	// Take reserves the next n words of the tape, returning them for writing.
	// The returned slice aliases the underlying tape and is only valid until
	// the next call to Take.  If the words cannot be obtained then
	// ErrUnexpectedEnd is returned, and the tape is left unchanged.
	Take(n uint) ([]uint, error)
}

// Storage represents the complete backing store of a tape.  A storage is
// cleared at the start of each build session, written through its Writer
// interface during the build, and read through Words during execution.
// Observe that, once a build session is complete, the slice returned by Words
// must remain stable until the next call to Clear.
type Storage interface {
	Writer
	// Clear removes all words from this tape, such that the next word written
	// lands at offset zero.
	Clear()
	// Generation returns the number of times this tape has been cleared.
	// Anything derived from the words of a tape is stale once its generation
	// has moved on.
	Generation() uint
	// Words returns the words written to this tape so far.
	Words() []uint
}
