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

// Operations used for testing, operating over a simple environment.

type testEnv struct {
	out     []string
	counter uint
	result  uint
	visited []uint
	// payloads decoded by mark operations, led by their size
	decoded [][]uint
	self    *Program[*testEnv]
}

type printOp struct {
	Text Const[string]
}

func (p printOp) Execute(pc PC, runner Runner, env *testEnv) Destination {
	text, err := p.Text.Load(runner)
	//
	if err != nil {
		return runner.Abort(err)
	}
	//
	env.out = append(env.out, text)
	//
	return pc.Step()
}

type jumpOp struct {
	Target Offset
}

func (p jumpOp) Execute(_ PC, runner Runner, _ *testEnv) Destination {
	return runner.Jump(p.Target)
}

type loopOp struct {
	Target Offset
}

func (p loopOp) Execute(pc PC, runner Runner, env *testEnv) Destination {
	if env.counter > 0 {
		env.counter--
		return runner.Jump(p.Target)
	}
	//
	return pc.Step()
}

type haltOp struct {
	Value uint
}

func (p haltOp) Execute(_ PC, runner Runner, env *testEnv) Destination {
	env.result = p.Value
	return runner.Halt()
}

// Operation halting with an interned cause (which may be nil).
type failOp struct {
	Cause Const[error]
}

func (p failOp) Execute(_ PC, runner Runner, _ *testEnv) Destination {
	cause, err := p.Cause.Load(runner)
	//
	if err != nil {
		return runner.Abort(err)
	}
	//
	return runner.Abort(cause)
}

type reenterOp struct{}

func (p reenterOp) Execute(_ PC, runner Runner, env *testEnv) Destination {
	return runner.Abort(env.self.Execute())
}

// Operation with a size which is not a multiple of any word size.
type oddOp struct {
	Bytes [3]byte
}

func (p oddOp) Execute(pc PC, _ Runner, _ *testEnv) Destination {
	return pc.Step()
}

// Operation holding a pointer.
type stringOp struct {
	Text string
}

func (p stringOp) Execute(pc PC, _ Runner, _ *testEnv) Destination {
	return pc.Step()
}

// Operations of varying sizes which record the address they execute at,
// along with the payload decoded for them.
type mark0 struct{}

type mark1 struct{ A uint }

type mark2 struct{ A, B uint }

type mark3 struct{ A [3]uint }

func (p mark0) Execute(pc PC, _ Runner, env *testEnv) Destination {
	return visit(pc, env, 0)
}

func (p mark1) Execute(pc PC, _ Runner, env *testEnv) Destination {
	return visit(pc, env, 1, p.A)
}

func (p mark2) Execute(pc PC, _ Runner, env *testEnv) Destination {
	return visit(pc, env, 2, p.A, p.B)
}

func (p mark3) Execute(pc PC, _ Runner, env *testEnv) Destination {
	return visit(pc, env, 3, p.A[:]...)
}

func visit(pc PC, env *testEnv, size uint, fields ...uint) Destination {
	env.visited = append(env.visited, pc.Current().Words())
	env.decoded = append(env.decoded, append([]uint{size}, fields...))
	//
	return pc.Step()
}
