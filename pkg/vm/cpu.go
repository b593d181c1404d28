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
	"reflect"
)

// LOOP_DISPATCH names the central loop dispatch strategy.
const LOOP_DISPATCH = "loop"

// TAIL_DISPATCH names the self-propagating dispatch strategy.
const TAIL_DISPATCH = "tail"

// Operation is implemented by every type which can be emitted onto a tape
// operating over an environment of type E.  The receiver is the operation's
// payload, as decoded from the tape.
type Operation[E any] interface {
	// Execute this operation, returning where execution should continue.
	Execute(pc PC, runner Runner, env E) Destination
}

// CPU captures a dispatch strategy.  A CPU issues a dispatch token for each
// operation type emitted onto a tape and, at run time, uses those tokens to
// drive execution from one instruction to the next.  Every CPU supports the
// Unreachable operation, whose token is always zero.  CPUs are not safe for
// concurrent use.
type CPU[E any] interface {
	// Name returns the name of this dispatch strategy.
	Name() string
	// Token returns the dispatch token for a given operation type, registering
	// it if this is the first time it has been seen.
	Token(op *Descriptor[E]) Token
	// Dispatch executes the tape of a runner, starting from a given address,
	// until some operation halts.
	Dispatch(addr Address, runner Runner, env E) Destination
}

// NewCPU constructs a CPU implementing the named dispatch strategy.
func NewCPU[E any](name string) (CPU[E], error) {
	switch name {
	case LOOP_DISPATCH:
		return NewLoop[E](), nil
	case TAIL_DISPATCH:
		return NewTail[E](), nil
	default:
		return nil, fmt.Errorf("%w \"%s\"", ErrUnknownStrategy, name)
	}
}

// Descriptor describes an operation type to a CPU: how its instructions are
// laid out, and how to execute one given its address.
type Descriptor[E any] struct {
	layout Layout
	exec   func(pc PC, runner Runner, env E) Destination
}

// Describe constructs the descriptor for a given operation type.  This panics
// if the operation type cannot be written onto a tape.
func Describe[E any, Op Operation[E]]() *Descriptor[E] {
	var (
		layout = layoutOf[Op]()
		n      = layout.payload
	)
	//
	return &Descriptor[E]{layout, func(pc PC, runner Runner, env E) Destination {
		op := load[Op](runner.words, pc.at.word+1, n)
		//
		return op.Execute(pc, runner, env)
	}}
}

// Layout returns the layout of the described operation type.
func (p *Descriptor[E]) Layout() Layout {
	return p.layout
}

// ============================================================================
// Registry
// ============================================================================

// registry assigns tokens to operation types, in order of first appearance.
type registry[E any] struct {
	tokens map[reflect.Type]Token
	ops    []*Descriptor[E]
}

func (p *registry[E]) register(op *Descriptor[E]) (Token, bool) {
	if p.tokens == nil {
		p.tokens = make(map[reflect.Type]Token)
	}
	//
	if token, ok := p.tokens[op.layout.typ]; ok {
		return token, false
	}
	//
	token := Token(len(p.ops))
	p.tokens[op.layout.typ] = token
	p.ops = append(p.ops, op)
	//
	return token, true
}

// Operations returns the number of operation types registered so far.
func (p *registry[E]) Operations() uint {
	return uint(len(p.ops))
}

// ============================================================================
// Loop
// ============================================================================

// Loop is a CPU which dispatches every instruction from a central loop.  Each
// operation returns to the loop, which looks up the handler of the next
// instruction from its token.  Stack usage is constant regardless of how many
// instructions execute.
type Loop[E any] struct {
	registry[E]
	handlers []loopHandler[E]
}

type loopHandler[E any] struct {
	exec func(pc PC, runner Runner, env E) Destination
	size uint
}

// NewLoop constructs a new loop dispatching CPU.
func NewLoop[E any]() *Loop[E] {
	cpu := &Loop[E]{}
	cpu.Token(Describe[E, Unreachable[E]]())
	//
	return cpu
}

// Name implementation for the CPU interface.
func (p *Loop[E]) Name() string {
	return LOOP_DISPATCH
}

// Token implementation for the CPU interface.
func (p *Loop[E]) Token(op *Descriptor[E]) Token {
	token, fresh := p.register(op)
	//
	if fresh {
		p.handlers = append(p.handlers, loopHandler[E]{op.exec, op.layout.Words()})
	}
	//
	return token
}

// Dispatch implementation for the CPU interface.
func (p *Loop[E]) Dispatch(addr Address, runner Runner, env E) Destination {
	var handlers = p.handlers
	//
	for {
		if !runner.owns(addr) {
			return runner.Abort(fmt.Errorf("%w: %s", ErrForeignAddress, addr))
		}
		//
		h := &handlers[runner.words[addr.word]]
		next := h.exec(PC{addr, h.size}, runner, env)
		//
		if next.halted {
			return next
		}
		//
		addr = next.next
	}
}

// ============================================================================
// Tail
// ============================================================================

// Tail is a CPU where each operation's handler, having executed its
// operation, itself dispatches the following instruction rather than
// returning to a central loop.  Control only unwinds once the program halts.
//
// Go does not guarantee tail calls, hence the goroutine stack grows with every
// instruction executed.  Long running programs can exhaust the maximum stack
// size, which the Go runtime treats as a fatal error.  Use Loop unless the
// number of instructions executed per run is known to be modest.
type Tail[E any] struct {
	registry[E]
	handlers []tailHandler[E]
}

type tailHandler[E any] func(addr Address, runner Runner, env E) Destination

// NewTail constructs a new tail dispatching CPU.
func NewTail[E any]() *Tail[E] {
	cpu := &Tail[E]{}
	cpu.Token(Describe[E, Unreachable[E]]())
	//
	return cpu
}

// Name implementation for the CPU interface.
func (p *Tail[E]) Name() string {
	return TAIL_DISPATCH
}

// Token implementation for the CPU interface.
func (p *Tail[E]) Token(op *Descriptor[E]) Token {
	token, fresh := p.register(op)
	//
	if fresh {
		var (
			exec = op.exec
			size = op.layout.Words()
		)
		//
		p.handlers = append(p.handlers, func(addr Address, runner Runner, env E) Destination {
			next := exec(PC{addr, size}, runner, env)
			//
			if next.halted {
				return next
			}
			//
			return p.Dispatch(next.next, runner, env)
		})
	}
	//
	return token
}

// Dispatch implementation for the CPU interface.
func (p *Tail[E]) Dispatch(addr Address, runner Runner, env E) Destination {
	if !runner.owns(addr) {
		return runner.Abort(fmt.Errorf("%w: %s", ErrForeignAddress, addr))
	}
	//
	return p.handlers[runner.words[addr.word]](addr, runner, env)
}
