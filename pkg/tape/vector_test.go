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
	"testing"

	"github.com/consensys/go-tapevm/pkg/util/assert"
)

func Test_Vector_01(t *testing.T) {
	vec := NewVector(0)
	//
	assert.Equal(t, 0, vec.WordOffset())
	assert.Equal(t, 0, len(vec.Words()))
}

func Test_Vector_02(t *testing.T) {
	vec := NewVector(4)
	//
	words, err := vec.Take(3)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(words))
	assert.Equal(t, 3, vec.WordOffset())
}

func Test_Vector_03(t *testing.T) {
	// Growth beyond the initial capacity preserves earlier words.
	vec := NewVector(1)
	check_Vector_Fill(t, vec, 1000)
}

func Test_Vector_04(t *testing.T) {
	vec := NewVector(8)
	check_Vector_Fill(t, vec, 8)
	assert.Equal(t, 0, vec.Generation())
	vec.Clear()
	//
	assert.Equal(t, 1, vec.Generation())
	assert.Equal(t, 0, vec.WordOffset())
	assert.Equal(t, 8, vec.Cap())
	// Rebuild after clear
	check_Vector_Fill(t, vec, 5)
}

func Test_Vector_05(t *testing.T) {
	vec := NewBoundedVector(4)
	//
	_, err := vec.Take(3)
	assert.NoError(t, err)
	// Exhaustion leaves the vector unchanged
	_, err = vec.Take(2)
	assert.ErrorIs(t, err, ErrUnexpectedEnd)
	assert.Equal(t, 3, vec.WordOffset())
	// But the remaining word can still be taken
	_, err = vec.Take(1)
	assert.NoError(t, err)
	assert.Equal(t, 4, vec.Len())
}

func Test_Vector_06(t *testing.T) {
	vec := NewBoundedVector(2)
	// A bounded vector never reallocates.
	words := vec.Words()[:0:2]
	_, err := vec.Take(2)
	assert.NoError(t, err)
	assert.True(t, &words[:1][0] == &vec.Words()[0])
	assert.Equal(t, 2, vec.Limit())
}

func Test_Vector_07(t *testing.T) {
	assert.Panics(t, func() { NewBoundedVector(0) })
}

func Test_Vector_08(t *testing.T) {
	vec := NewVector(0)
	// Taking zero words succeeds trivially
	words, err := vec.Take(0)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(words))
	assert.Equal(t, 0, vec.WordOffset())
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Vector_Fill(t *testing.T, vec *Vector, n uint) {
	for i := range n {
		words, err := vec.Take(1)
		assert.NoError(t, err)
		//
		words[0] = i + 1
	}
	//
	assert.Equal(t, n, vec.WordOffset())
	//
	for i, w := range vec.Words() {
		if w != uint(i+1) {
			t.Fatalf("word %d corrupted (%d)", i, w)
		}
	}
}
