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
	"reflect"
	"sync"
	"unsafe"

	"github.com/consensys/go-tapevm/pkg/tape"
)

// Layout describes how instructions of a given operation type are encoded
// onto a tape: one word holding the dispatch token, followed by the words of
// the operation's payload.
type Layout struct {
	typ reflect.Type
	// number of payload words
	payload uint
}

// Type returns the operation type described by this layout.
func (p Layout) Type() reflect.Type {
	return p.typ
}

// Words returns the total number of words occupied by an instruction with
// this layout, including its dispatch token.
func (p Layout) Words() uint {
	return 1 + p.payload
}

// Payload returns the number of words occupied by the operation itself.
func (p Layout) Payload() uint {
	return p.payload
}

// Words returns the number of tape words occupied by an instruction of the
// given operation type.  This panics if the operation type cannot be encoded.
func Words[Op any]() uint {
	return layoutOf[Op]().Words()
}

var layouts sync.Map

// Determine the layout for a given operation type, panicking with a
// LayoutError if the type cannot be written to a tape.
func layoutOf[Op any]() Layout {
	var t = reflect.TypeFor[Op]()
	//
	if l, ok := layouts.Load(t); ok {
		return l.(Layout)
	}
	// Record size must be an exact multiple of the word size.
	if t.Size()%tape.WordSize != 0 {
		panic(newLayoutError(t, "size %d is not a multiple of the word size", t.Size()))
	}
	// Record alignment must be that of a word.
	if uintptr(t.Align()) > tape.WordSize {
		panic(newLayoutError(t, "alignment %d exceeds that of a word", t.Align()))
	}
	// Tapes are pointer-free memory.
	if hasPointers(t) {
		panic(newLayoutError(t, "type contains pointers (use a constant instead)"))
	}
	//
	layout := Layout{t, uint(t.Size() / tape.WordSize)}
	layouts.Store(t, layout)
	//
	return layout
}

// Check whether a value of a given type holds any Go pointers, which would be
// hidden from the garbage collector once written onto a tape.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.String, reflect.Slice,
		reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	//
	return false
}

// Write an operation into the given payload words.  The caller is responsible
// for ensuring the payload is exactly the size of the operation.
func store[Op any](payload []uint, op Op) {
	if len(payload) != 0 {
		*(*Op)(unsafe.Pointer(&payload[0])) = op
	}
}

// Read an operation of n payload words starting at a given word of the tape.
func load[Op any](words []uint, at uint, n uint) Op {
	var op Op
	//
	if n != 0 {
		// bounds check covers the whole payload
		_ = words[at+n-1]
		op = *(*Op)(unsafe.Pointer(&words[at]))
	}
	//
	return op
}
