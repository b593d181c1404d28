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

// Program is the result of a build session: a sealed tape of instructions
// ready to be run, together with its constant pool and environment.  A
// program can be run any number of times, but not concurrently and not from
// within one of its own operations.
type Program[E any] struct {
	cpu     CPU[E]
	storage tape.Storage
	tape    session
	consts  []any
	debug   *DebugInfo
	// number of instructions (including the sentinel)
	count   uint
	env     E
	// generation of the storage holding this program's tape
	gen     uint
	machine Machine[E]
	running bool
}

// Run this program over a given environment, starting from the first
// instruction and continuing until some operation halts.  The error returned
// is the cause of the halt (nil for a normal halt).
func (p *Program[E]) Run(env E) error {
	if p.running {
		return ErrReentrantRun
	} else if p.storage.Generation() != p.gen {
		return ErrRecycled
	}
	//
	p.running = true
	defer func() { p.running = false }()
	//
	runner := Runner{p.storage.Words(), p.consts, p.tape}
	halt := p.cpu.Dispatch(Address{0, p.tape}, runner, env)
	//
	if halt.next.tape != p.tape {
		return fmt.Errorf("%w: %s", ErrForeignHalt, halt)
	}
	//
	return halt.cause
}

// Execute runs this program over its own environment.
func (p *Program[E]) Execute() error {
	return p.Run(p.env)
}

// Env returns the environment owned by this program.
func (p *Program[E]) Env() E {
	return p.env
}

// SetEnv replaces the environment owned by this program.
func (p *Program[E]) SetEnv(env E) {
	p.env = env
}

// Words returns the number of words on the tape of this program.
func (p *Program[E]) Words() uint {
	return uint(len(p.storage.Words()))
}

// Len returns the number of instructions on the tape of this program,
// including the trailing sentinel.
func (p *Program[E]) Len() uint {
	return p.count
}

// CPU returns the CPU which executes this program.
func (p *Program[E]) CPU() CPU[E] {
	return p.cpu
}

// DebugInfo returns the debug records of this program, or nil if they were not
// recorded.
func (p *Program[E]) DebugInfo() *DebugInfo {
	return p.debug
}

// Dumper provides read-only access to the tape of this program for
// diagnostic purposes.
func (p *Program[E]) Dumper() Dumper {
	return Dumper{p.storage.Words(), p.consts, p.tape}
}

// Recycle hands the storage of this program back, returning a machine from
// which a new program can be built.  This program can no longer be run, and
// offsets captured whilst building it are rejected by any subsequent program.
// Recycling a program which is already stale leaves the storage untouched.
func (p *Program[E]) Recycle() Machine[E] {
	if p.storage.Generation() == p.gen {
		p.storage.Clear()
	}
	//
	return p.machine
}
