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
)

// Const refers to a value held in the constant pool of a program.  Operations
// cannot carry Go pointers on the tape (e.g. strings or slices), so such values
// are interned whilst building and referred to by a Const instead.
type Const[T any] struct {
	index uint
	tape  session
}

// Intern adds a value to the constant pool of the program being built,
// returning a handle through which it can be loaded at run time.
func Intern[E, T any](builder *Builder[E], value T) Const[T] {
	index := uint(len(builder.consts))
	builder.consts = append(builder.consts, value)
	//
	return Const[T]{index, builder.tape}
}

// Index returns the position of this constant within the pool.
func (p Const[T]) Index() uint {
	return p.index
}

// Load the value of this constant on behalf of an executing operation.
func (p Const[T]) Load(runner Runner) (T, error) {
	var zero T
	//
	if p.tape != runner.tape || p.index >= uint(len(runner.consts)) {
		return zero, fmt.Errorf("%w: #%d", ErrForeignConstant, p.index)
	}
	// nil interface values are held as untyped nil
	value, _ := runner.consts[p.index].(T)
	//
	return value, nil
}

// Dump implementation for the Dumpable interface.
func (p Const[T]) Dump(dumper Dumper) string {
	if p.tape != dumper.tape || p.index >= uint(len(dumper.consts)) {
		return fmt.Sprintf("#%d /* foreign */", p.index)
	}
	//
	switch v := dumper.consts[p.index].(type) {
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
