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
package bit

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"
)

// Set provides a straightforward bitset implementation. That is, a set of
// (unsigned) integer values implemented as an array of bits.
type Set struct {
	words []uint64
}

// NewSet creates a Set able to hold values below size without growing.
func NewSet(size uint) *Set {
	return &Set{make([]uint64, (size+63)/64)}
}

// Insert a given value into this set.
func (p *Set) Insert(val uint) {
	word := val / 64
	bit := val % 64
	//
	for uint(len(p.words)) <= word {
		p.words = append(p.words, 0)
	}
	// Set bit
	mask := uint64(1) << bit
	p.words[word] = p.words[word] | mask
}

// Remove a given value from this set.
func (p *Set) Remove(val uint) {
	word := val / 64
	bit := val % 64
	// Check whether we need to do anything.
	if uint(len(p.words)) > word {
		// unset bit
		mask := uint64(1) << bit
		p.words[word] = p.words[word] & ^mask
	}
}

// Contains checks whether a given value is contained, or not.
func (p *Set) Contains(val uint) bool {
	word := val / 64
	bit := val % 64
	//
	if uint(len(p.words)) <= word {
		return false
	}
	// Set mask
	mask := uint64(1) << bit
	//
	return (p.words[word] & mask) != 0
}

// Count returns the number of values in this set.
func (p *Set) Count() uint {
	count := 0
	//
	for _, w := range p.words {
		count += bits.OnesCount64(w)
	}
	//
	return uint(count)
}

// Reset removes all values from this set, whilst retaining its allocation.
func (p *Set) Reset() {
	clear(p.words)
}

// Next returns the smallest value in this set which is greater than or equal
// to val, or false if there is none.
func (p *Set) Next(val uint) (uint, bool) {
	word := val / 64
	//
	if uint(len(p.words)) <= word {
		return 0, false
	}
	// Mask off bits below val in the first word
	w := p.words[word] & (^uint64(0) << (val % 64))
	//
	for {
		if w != 0 {
			return word*64 + uint(bits.TrailingZeros64(w)), true
		}
		//
		word++
		//
		if word >= uint(len(p.words)) {
			return 0, false
		}
		//
		w = p.words[word]
	}
}

// All returns an iterator over the values of this set in ascending order.
func (p *Set) All() iter.Seq[uint] {
	return func(yield func(uint) bool) {
		for val, ok := p.Next(0); ok; val, ok = p.Next(val + 1) {
			if !yield(val) {
				return
			}
		}
	}
}

func (p *Set) String() string {
	var (
		builder strings.Builder
		first   = true
	)
	//
	builder.WriteString("[")
	//
	for value := range p.All() {
		if !first {
			builder.WriteString(", ")
		}
		//
		first = false
		//
		builder.WriteString(fmt.Sprintf("%d", value))
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
