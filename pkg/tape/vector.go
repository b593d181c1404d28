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

// Vector is a growable tape backed by a slice of words.  A vector can
// optionally be bounded, in which case attempting to grow it beyond its limit
// fails with ErrUnexpectedEnd.
type Vector struct {
	words []uint
	// maximum number of words (or zero for unbounded)
	limit uint
	// number of times cleared
	generation uint
}

// NewVector constructs an unbounded vector with a given initial capacity (in
// words).
func NewVector(capacity uint) *Vector {
	return &Vector{words: make([]uint, 0, capacity)}
}

// NewBoundedVector constructs a vector which can hold at most limit words.  The
// full capacity is allocated up front, hence the vector never reallocates.
func NewBoundedVector(limit uint) *Vector {
	if limit == 0 {
		panic("bounded vector requires a non-zero limit")
	}
	//
	return &Vector{words: make([]uint, 0, limit), limit: limit}
}

// Len returns the number of words written to this vector.
func (p *Vector) Len() uint {
	return uint(len(p.words))
}

// Cap returns the number of words this vector can hold before it must
// reallocate.
func (p *Vector) Cap() uint {
	return uint(cap(p.words))
}

// Limit returns the maximum number of words this vector can hold, or zero if
// it is unbounded.
func (p *Vector) Limit() uint {
	return p.limit
}

// Clear implementation for the Storage interface.  The underlying allocation
// is retained so that it can be reused by the next build.
func (p *Vector) Clear() {
	clear(p.words)
	p.words = p.words[:0]
	p.generation++
}

// Generation implementation for the Storage interface.
func (p *Vector) Generation() uint {
	return p.generation
}

// Words implementation for the Storage interface.
func (p *Vector) Words() []uint {
	return p.words
}

// WordOffset implementation for the Writer interface.
func (p *Vector) WordOffset() uint {
	return uint(len(p.words))
}

// Take implementation for the Writer interface.
func (p *Vector) Take(n uint) ([]uint, error) {
	var (
		start = uint(len(p.words))
		end   = start + n
	)
	// Check for overflow or exhaustion
	if end < start || (p.limit != 0 && end > p.limit) {
		return nil, ErrUnexpectedEnd
	}
	// Grow (if necessary)
	if end > uint(cap(p.words)) {
		p.grow(end)
	}
	//
	p.words = p.words[:end]
	//
	return p.words[start:end], nil
}

// Grow the underlying slice to hold at least n words.  Capacity is doubled
// so that repeated takes are amortised constant time.
func (p *Vector) grow(n uint) {
	var capacity = max(n, 2*uint(cap(p.words)), 16)
	//
	if p.limit != 0 {
		capacity = min(capacity, p.limit)
	}
	//
	words := make([]uint, len(p.words), capacity)
	copy(words, p.words)
	p.words = words
}
