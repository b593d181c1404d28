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
	log "github.com/sirupsen/logrus"
)

// Machine combines a CPU with a tape storage and an initial environment, from
// which programs are built.  Machines are values and can be freely copied.
// Building a program clears the storage, which invalidates every program
// previously built on it, through this machine or any other sharing it.
type Machine[E any] struct {
	cpu     CPU[E]
	storage tape.Storage
	env     E
	debug   bool
}

// NewMachine constructs a new machine from a given CPU, storage and initial
// environment.  Debug information is not recorded by default.
func NewMachine[E any](cpu CPU[E], storage tape.Storage, env E) Machine[E] {
	return Machine[E]{cpu, storage, env, false}
}

// WithDebugInfo returns a copy of this machine which records (or not) debug
// information for the programs it builds.
func (p Machine[E]) WithDebugInfo(enable bool) Machine[E] {
	p.debug = enable
	return p
}

// CPU returns the CPU of this machine.
func (p Machine[E]) CPU() CPU[E] {
	return p.cpu
}

// Program builds a new program on the tape of this machine.  The storage is
// cleared, and then the build function is called to emit the program's
// instructions.  If the build function fails, or the tape cannot be
// completed, then an error is returned and no program is produced.
func (p Machine[E]) Program(build func(builder *Builder[E], env E) error) (*Program[E], error) {
	p.storage.Clear()
	//
	builder := newBuilder(p.cpu, p.storage, p.debug)
	//
	if err := build(builder, p.env); err != nil {
		builder.sealed = true
		return nil, fmt.Errorf("building program: %w", err)
	} else if err := builder.finish(); err != nil {
		builder.sealed = true
		return nil, fmt.Errorf("completing program: %w", err)
	}
	//
	log.Debugf("built %d instructions (%d words, %d constants) for %s cpu", builder.count,
		p.storage.WordOffset(), len(builder.consts), p.cpu.Name())
	//
	return &Program[E]{
		cpu:     p.cpu,
		storage: p.storage,
		tape:    builder.tape,
		consts:  builder.consts,
		debug:   builder.debug,
		count:   builder.count,
		env:     p.env,
		gen:     p.storage.Generation(),
		machine: p,
	}, nil
}
