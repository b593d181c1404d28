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
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-tapevm/pkg/vm"
)

// Print writes a line of text to the output.
//
// +dump print
type Print struct {
	Text vm.Const[string]
}

// Execute implementation for the vm.Operation interface.
func (p Print) Execute(pc vm.PC, runner vm.Runner, m *Machine) vm.Destination {
	text, err := p.Text.Load(runner)
	//
	if err != nil {
		return runner.Abort(err)
	} else if _, err = fmt.Fprintln(m.Out, text); err != nil {
		return runner.Abort(err)
	}
	//
	return pc.Step()
}

// Out writes the value of a register as a line of output.
//
// +dump out
type Out struct {
	Reg uint `dump:"reg"`
}

// Execute implementation for the vm.Operation interface.
func (p Out) Execute(pc vm.PC, runner vm.Runner, m *Machine) vm.Destination {
	if _, err := fmt.Fprintln(m.Out, m.Registers[p.Reg].String()); err != nil {
		return runner.Abort(err)
	}
	//
	return pc.Step()
}

// Set assigns a constant to a register.
//
// +dump set
type Set struct {
	Dst   uint `dump:"reg"`
	Value fr.Element
}

// Execute implementation for the vm.Operation interface.
func (p Set) Execute(pc vm.PC, _ vm.Runner, m *Machine) vm.Destination {
	m.Registers[p.Dst] = p.Value
	return pc.Step()
}

// Add assigns the sum of two registers to a third.
//
// +dump add
type Add struct {
	Dst, Lhs, Rhs uint `dump:"reg"`
}

// Execute implementation for the vm.Operation interface.
func (p Add) Execute(pc vm.PC, _ vm.Runner, m *Machine) vm.Destination {
	m.Registers[p.Dst].Add(&m.Registers[p.Lhs], &m.Registers[p.Rhs])
	return pc.Step()
}

// Sub assigns the difference of two registers to a third.
//
// +dump sub
type Sub struct {
	Dst, Lhs, Rhs uint `dump:"reg"`
}

// Execute implementation for the vm.Operation interface.
func (p Sub) Execute(pc vm.PC, _ vm.Runner, m *Machine) vm.Destination {
	m.Registers[p.Dst].Sub(&m.Registers[p.Lhs], &m.Registers[p.Rhs])
	return pc.Step()
}

// Mul assigns the product of two registers to a third.
//
// +dump mul
type Mul struct {
	Dst, Lhs, Rhs uint `dump:"reg"`
}

// Execute implementation for the vm.Operation interface.
func (p Mul) Execute(pc vm.PC, _ vm.Runner, m *Machine) vm.Destination {
	m.Registers[p.Dst].Mul(&m.Registers[p.Lhs], &m.Registers[p.Rhs])
	return pc.Step()
}

// Jump unconditionally continues execution at a given target.
//
// +dump jmp
type Jump struct {
	Target vm.Offset
}

// Execute implementation for the vm.Operation interface.
func (p Jump) Execute(_ vm.PC, runner vm.Runner, _ *Machine) vm.Destination {
	return runner.Jump(p.Target)
}

// Loop jumps to a given target whilst the counter is non-zero, decrementing
// it each time.  Once the counter reaches zero, execution falls through.
//
// +dump loop
type Loop struct {
	Target vm.Offset
}

// Execute implementation for the vm.Operation interface.
func (p Loop) Execute(pc vm.PC, runner vm.Runner, m *Machine) vm.Destination {
	if m.Counter == 0 {
		return pc.Step()
	}
	//
	m.Counter--
	//
	return runner.Jump(p.Target)
}

// JumpZero jumps to a given target when a register holds zero.
//
// +dump jz
type JumpZero struct {
	Reg    uint `dump:"reg"`
	Target vm.Offset
}

// Execute implementation for the vm.Operation interface.
func (p JumpZero) Execute(pc vm.PC, runner vm.Runner, m *Machine) vm.Destination {
	if m.Registers[p.Reg].IsZero() {
		return runner.Jump(p.Target)
	}
	//
	return pc.Step()
}

// Tick consumes one unit of fuel, aborting execution when none remains.
//
// +dump tick
type Tick struct{}

// Execute implementation for the vm.Operation interface.
func (p Tick) Execute(pc vm.PC, runner vm.Runner, m *Machine) vm.Destination {
	if m.Fuel == 0 {
		return runner.Abort(ErrOutOfFuel)
	}
	//
	m.Fuel--
	//
	return pc.Step()
}

// Return halts execution, reporting a given result.
//
// +dump ret
type Return struct {
	Value uint
}

// Execute implementation for the vm.Operation interface.
func (p Return) Execute(_ vm.PC, runner vm.Runner, m *Machine) vm.Destination {
	m.Result = p.Value
	return runner.Halt()
}
