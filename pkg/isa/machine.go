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
package isa

import (
	"errors"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// NUM_REGISTERS determines the number of registers available to a program.
const NUM_REGISTERS = 16

// ErrOutOfFuel is reported when a program ticks after exhausting its fuel.
var ErrOutOfFuel = errors.New("out of fuel")

// Machine is the environment over which programs in this instruction set
// execute.  Registers hold elements of the BLS12-377 scalar field.
type Machine struct {
	// Register file
	Registers [NUM_REGISTERS]fr.Element
	// Counter consumed by loop instructions.
	Counter uint
	// Fuel consumed by tick instructions.
	Fuel uint
	// Result reported by the return instruction.
	Result uint
	// Output written by print instructions.
	Out io.Writer
}

// NewMachine constructs a machine whose registers are all zero, and which
// writes its output to a given writer.
func NewMachine(out io.Writer) *Machine {
	return &Machine{Out: out}
}

// WithCounter sets the loop counter of this machine.
func (p *Machine) WithCounter(counter uint) *Machine {
	p.Counter = counter
	return p
}

// WithFuel sets the fuel of this machine.
func (p *Machine) WithFuel(fuel uint) *Machine {
	p.Fuel = fuel
	return p
}

// Register returns the value held in a given register.
func (p *Machine) Register(reg uint) fr.Element {
	return p.Registers[reg]
}
