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

// Nop is the classic "no operation", which does nothing other than continue
// with the next instruction.
type Nop[E any] struct{}

// Execute implementation for the Operation interface.
func (Nop[E]) Execute(pc PC, _ Runner, _ E) Destination {
	return pc.Step()
}

// Dump implementation for the Dumpable interface.
func (Nop[E]) Dump(_ Dumper) string {
	return "Nop"
}

// Unreachable is appended to the end of every tape.  Executing it panics with
// ErrUnreachable, such that a program which runs off the end of its code fails
// loudly rather than reading past its tape.
type Unreachable[E any] struct{}

// Execute implementation for the Operation interface.
func (Unreachable[E]) Execute(_ PC, _ Runner, _ E) Destination {
	panic(ErrUnreachable)
}

// Dump implementation for the Dumpable interface.
func (Unreachable[E]) Dump(_ Dumper) string {
	return "Unreachable"
}
