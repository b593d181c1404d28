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
	"strings"
	"testing"

	"github.com/consensys/go-tapevm/pkg/tape"
	"github.com/consensys/go-tapevm/pkg/util/assert"
)

var cpus = []string{LOOP_DISPATCH, TAIL_DISPATCH}

func Test_Machine_01(t *testing.T) {
	// Nop; Jump L; L: Halt 42
	for _, cpu := range cpus {
		env := &testEnv{}
		p := check_Machine_Build(t, cpu, env, func(b *Builder[*testEnv], _ *testEnv) error {
			assert.NoError(t, b.Nop())
			label := b.ForwardOffset(Words[jumpOp]())
			assert.NoError(t, Emit(b, jumpOp{label}))
			//
			return Emit(b, haltOp{42})
		})
		//
		assert.NoError(t, p.Execute())
		assert.Equal(t, 42, env.result)
		assert.Equal(t, 4, p.Len())
	}
}

func Test_Machine_02(t *testing.T) {
	// L: Print "A"; Loop L; Halt 7
	for _, cpu := range cpus {
		env := &testEnv{counter: 3}
		p := check_Machine_Build(t, cpu, env, func(b *Builder[*testEnv], _ *testEnv) error {
			label := b.Offset()
			assert.NoError(t, Emit(b, printOp{Intern(b, "A")}))
			assert.NoError(t, Emit(b, loopOp{label}))
			//
			return Emit(b, haltOp{7})
		})
		//
		assert.NoError(t, p.Execute())
		assert.Equal(t, "A,A,A,A", strings.Join(env.out, ","))
		assert.Equal(t, 7, env.result)
		assert.Equal(t, 0, env.counter)
	}
}

func Test_Machine_03(t *testing.T) {
	// Deterministic across runs
	for _, cpu := range cpus {
		env := &testEnv{}
		p := check_Machine_Build(t, cpu, env, sayItThrice)
		//
		for i := range 3 {
			*env = testEnv{counter: 2}
			assert.NoError(t, p.Execute())
			assert.Equal(t, []string{"A", "A", "A"}, env.out, "run %d", i)
			assert.Equal(t, 7, env.result, "run %d", i)
		}
	}
}

func Test_Machine_04(t *testing.T) {
	// Emitting an operation whose size is not a word multiple panics.
	for _, cpu := range cpus {
		recovered := assert.Panics(t, func() {
			check_Machine_Build(t, cpu, &testEnv{}, func(b *Builder[*testEnv], _ *testEnv) error {
				return Emit(b, oddOp{})
			})
		})
		//
		err, ok := recovered.(*LayoutError)
		assert.True(t, ok, "unexpected panic %v", recovered)
		assert.True(t, strings.Contains(err.Error(), "oddOp"))
	}
}

func Test_Machine_05(t *testing.T) {
	// Emitting an operation holding a pointer panics.
	recovered := assert.Panics(t, func() { Words[stringOp]() })
	_, ok := recovered.(*LayoutError)
	assert.True(t, ok, "unexpected panic %v", recovered)
}

func Test_Machine_06(t *testing.T) {
	// Running off the end of the tape hits the sentinel.
	for _, cpu := range cpus {
		p := check_Machine_Build(t, cpu, &testEnv{}, func(b *Builder[*testEnv], _ *testEnv) error {
			return b.Nop()
		})
		//
		recovered := assert.Panics(t, func() { _ = p.Execute() })
		assert.Equal(t, ErrUnreachable, recovered)
	}
}

func Test_Machine_07(t *testing.T) {
	// Offsets from one tape are rejected by another.
	for _, cpu := range cpus {
		var foreign Offset
		//
		check_Machine_Build(t, cpu, &testEnv{}, func(b *Builder[*testEnv], _ *testEnv) error {
			foreign = b.Offset()
			return Emit(b, haltOp{1})
		})
		//
		p := check_Machine_Build(t, cpu, &testEnv{}, func(b *Builder[*testEnv], _ *testEnv) error {
			return Emit(b, jumpOp{foreign})
		})
		//
		assert.ErrorIs(t, p.Execute(), ErrForeignOffset)
	}
}

func Test_Machine_08(t *testing.T) {
	// Constants from one tape are rejected by another.
	var (
		foreign Const[string]
		env     = &testEnv{}
	)
	//
	check_Machine_Build(t, LOOP_DISPATCH, env, func(b *Builder[*testEnv], _ *testEnv) error {
		foreign = Intern(b, "B")
		return Emit(b, haltOp{1})
	})
	//
	p := check_Machine_Build(t, LOOP_DISPATCH, env, func(b *Builder[*testEnv], _ *testEnv) error {
		Intern(b, "A")
		return Emit(b, printOp{foreign})
	})
	//
	assert.ErrorIs(t, p.Execute(), ErrForeignConstant)
	assert.Equal(t, 0, len(env.out))
}

func Test_Machine_09(t *testing.T) {
	// Forward offsets must land on an instruction.
	cpu, err := NewCPU[*testEnv](LOOP_DISPATCH)
	assert.NoError(t, err)
	//
	machine := NewMachine(cpu, tape.NewVector(0), &testEnv{})
	_, err = machine.Program(func(b *Builder[*testEnv], _ *testEnv) error {
		label := b.ForwardOffset(1)
		return Emit(b, jumpOp{label})
	})
	//
	assert.ErrorIs(t, err, ErrDanglingOffset)
}

func Test_Machine_10(t *testing.T) {
	// Forward offsets can target the sentinel.
	p := check_Machine_Build(t, LOOP_DISPATCH, &testEnv{}, func(b *Builder[*testEnv], _ *testEnv) error {
		return Emit(b, jumpOp{b.ForwardOffset(Words[jumpOp]())})
	})
	//
	recovered := assert.Panics(t, func() { _ = p.Execute() })
	assert.Equal(t, ErrUnreachable, recovered)
}

func Test_Machine_11(t *testing.T) {
	// Exhausting bounded storage is recoverable.
	cpu, err := NewCPU[*testEnv](TAIL_DISPATCH)
	assert.NoError(t, err)
	//
	build := func(n uint) func(b *Builder[*testEnv], _ *testEnv) error {
		return func(b *Builder[*testEnv], _ *testEnv) error {
			for range n {
				if err := b.Nop(); err != nil {
					return err
				}
			}
			//
			return Emit(b, haltOp{3})
		}
	}
	//
	machine := NewMachine(cpu, tape.NewBoundedVector(8), &testEnv{})
	_, err = machine.Program(build(7))
	assert.ErrorIs(t, err, tape.ErrUnexpectedEnd)
	// Retry with a smaller program
	p, err := machine.Program(build(5))
	assert.NoError(t, err)
	assert.NoError(t, p.Execute())
	assert.Equal(t, 3, p.Env().result)
	assert.Equal(t, 8, p.Words())
}

func Test_Machine_12(t *testing.T) {
	// Debug info does not change the tape.
	var words [2][]uint
	//
	for i, debug := range []bool{false, true} {
		cpu := NewLoop[*testEnv]()
		machine := NewMachine[*testEnv](cpu, tape.NewVector(0), &testEnv{}).WithDebugInfo(debug)
		p, err := machine.Program(func(b *Builder[*testEnv], _ *testEnv) error {
			assert.NoError(t, b.Nop())
			assert.NoError(t, Emit(b, mark2{1, 2}))
			//
			return Emit(b, haltOp{5})
		})
		//
		assert.NoError(t, err)
		words[i] = append(words[i], p.Dumper().words...)
		//
		if debug {
			assert.Equal(t, 4, p.DebugInfo().Len())
			assert.Equal(t, "Nop", p.DebugInfo().Records()[0].Format(p.Dumper()))
			assert.Equal(t, "mark2{A:1 B:2}", p.DebugInfo().Records()[1].Format(p.Dumper()))
			assert.Equal(t, 4*tape.WordSize, p.DebugInfo().Records()[2].Offset())
			assert.Equal(t, "Unreachable", p.DebugInfo().Records()[3].Format(p.Dumper()))
		} else {
			assert.True(t, p.DebugInfo() == nil)
			assert.Equal(t, 0, p.DebugInfo().Len())
		}
	}
	//
	assert.Equal(t, words[0], words[1])
}

func Test_Machine_13(t *testing.T) {
	// Running from within a running program is rejected.
	for _, cpu := range cpus {
		env := &testEnv{}
		p := check_Machine_Build(t, cpu, env, func(b *Builder[*testEnv], _ *testEnv) error {
			return Emit(b, reenterOp{})
		})
		//
		env.self = p
		assert.ErrorIs(t, p.Execute(), ErrReentrantRun)
		// Not running any more
		env.self = nil
		p.SetEnv(&testEnv{counter: 1})
		assert.Equal(t, 1, p.Env().counter)
	}
}

func Test_Machine_14(t *testing.T) {
	// Recycled programs cannot be run.
	env := &testEnv{}
	p := check_Machine_Build(t, LOOP_DISPATCH, env, sayItThrice)
	machine := p.Recycle()
	assert.ErrorIs(t, p.Execute(), ErrRecycled)
	// Rebuilding invalidates the previous program.
	q, err := machine.Program(sayItThrice)
	assert.NoError(t, err)
	r, err := machine.Program(sayItThrice)
	assert.NoError(t, err)
	assert.ErrorIs(t, q.Execute(), ErrRecycled)
	assert.NoError(t, r.Execute())
}

func Test_Machine_15(t *testing.T) {
	_, err := NewCPU[*testEnv]("bogus")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	//
	for _, name := range cpus {
		cpu, err := NewCPU[*testEnv](name)
		assert.NoError(t, err)
		assert.Equal(t, name, cpu.Name())
		assert.Equal(t, 0, uint(cpu.Token(Describe[*testEnv, Unreachable[*testEnv]]())))
		assert.Equal(t, 1, uint(cpu.Token(Describe[*testEnv, Nop[*testEnv]]())))
		assert.Equal(t, 1, uint(cpu.Token(Describe[*testEnv, Nop[*testEnv]]())))
	}
}

func Test_Machine_16(t *testing.T) {
	// Offsets resolve only within bounds.
	runner := Runner{make([]uint, 3), nil, 7}
	_, err := runner.ResolveOffset(Offset{3, 7})
	assert.ErrorIs(t, err, ErrOffsetOutOfBounds)
	addr, err := runner.ResolveOffset(Offset{2, 7})
	assert.NoError(t, err)
	assert.Equal(t, 2, addr.Words())
	assert.Equal(t, fmt.Sprintf("[base + %d]", 2*tape.WordSize), addr.Offset().String())
	//
	halt := runner.Jump(Offset{1, 8})
	assert.True(t, halt.Halted())
	assert.ErrorIs(t, halt.Err(), ErrForeignOffset)
}

func Test_Machine_17(t *testing.T) {
	// Both dispatch strategies agree.
	var outs []string
	//
	for _, cpu := range cpus {
		env := &testEnv{counter: 5}
		p := check_Machine_Build(t, cpu, env, sayItThrice)
		assert.NoError(t, p.Execute())
		outs = append(outs, fmt.Sprintf("%v %d %d", env.out, env.result, env.counter))
	}
	//
	assert.Equal(t, outs[0], outs[1])
}

func Test_Machine_18(t *testing.T) {
	// Machines sharing storage invalidate each other's programs.
	var (
		storage = tape.NewVector(0)
		first   = NewMachine[*testEnv](NewLoop[*testEnv](), storage, &testEnv{})
		second  = NewMachine[*testEnv](NewLoop[*testEnv](), storage, &testEnv{})
	)
	//
	p, err := first.Program(func(b *Builder[*testEnv], _ *testEnv) error {
		if err := Emit(b, mark3{}); err != nil {
			return err
		}
		//
		return Emit(b, haltOp{1})
	})
	assert.NoError(t, err)
	//
	q, err := second.Program(func(b *Builder[*testEnv], _ *testEnv) error {
		if err := Emit(b, haltOp{2}); err != nil {
			return err
		}
		//
		return Emit(b, mark3{})
	})
	assert.NoError(t, err)
	//
	assert.ErrorIs(t, p.Execute(), ErrRecycled)
	assert.Equal(t, 0, len(p.Env().visited))
	assert.NoError(t, q.Execute())
	assert.Equal(t, 2, q.Env().result)
	// Recycling a stale program leaves the current one intact.
	machine := p.Recycle()
	assert.NoError(t, q.Execute())
	// Rebuilding through the first machine invalidates the second's program.
	_, err = machine.Program(sayItThrice)
	assert.NoError(t, err)
	assert.ErrorIs(t, q.Execute(), ErrRecycled)
}

func Test_Machine_19(t *testing.T) {
	// Interface constants may be nil.
	for _, cause := range []error{nil, fmt.Errorf("boom")} {
		p := check_Machine_Build(t, LOOP_DISPATCH, &testEnv{}, func(b *Builder[*testEnv], _ *testEnv) error {
			return Emit(b, failOp{Intern(b, cause)})
		})
		//
		assert.Equal(t, cause, p.Execute())
	}
}

func Test_Machine_20(t *testing.T) {
	// Builders which escape their build cannot extend the tape.
	var (
		escaped *Builder[*testEnv]
		env     = &testEnv{}
	)
	//
	p := check_Machine_Build(t, LOOP_DISPATCH, env, func(b *Builder[*testEnv], _ *testEnv) error {
		escaped = b
		return Emit(b, haltOp{3})
	})
	words := p.Words()
	//
	assert.ErrorIs(t, Emit(escaped, haltOp{4}), ErrSealed)
	assert.ErrorIs(t, escaped.Nop(), ErrSealed)
	assert.Equal(t, words, p.Words())
	assert.NoError(t, p.Execute())
	assert.Equal(t, 3, env.result)
	// Abandoned builds are sealed as well.
	machine := p.Recycle()
	_, err := machine.Program(func(b *Builder[*testEnv], _ *testEnv) error {
		escaped = b
		return fmt.Errorf("abandoned")
	})
	//
	assert.True(t, err != nil)
	assert.ErrorIs(t, Emit(escaped, haltOp{4}), ErrSealed)
}

// ============================================================================
// Fuzzing
// ============================================================================

// Instructions of mixed sizes execute exactly at the offsets at which they were
// emitted.
func FuzzTape_MixedSizes(f *testing.F) {
	f.Add([]byte{0, 1, 2, 3})
	f.Add([]byte{3, 3, 0, 0, 1})
	f.Add([]byte{})
	//
	f.Fuzz(func(t *testing.T, sizes []byte) {
		for _, cpu := range cpus {
			var (
				expected []uint
				payloads [][]uint
				env      = &testEnv{}
			)
			//
			p := check_Machine_Build(t, cpu, env, func(b *Builder[*testEnv], _ *testEnv) error {
				for i, size := range sizes {
					expected = append(expected, b.Offset().Words())
					//
					payload, err := emitMark(b, uint(i), size%4)
					if err != nil {
						return err
					}
					//
					payloads = append(payloads, payload)
				}
				//
				return Emit(b, haltOp{0})
			})
			//
			assert.NoError(t, p.Execute())
			assert.Equal(t, len(expected), len(env.visited))
			assert.Equal(t, len(payloads), len(env.decoded))
			//
			for i := range expected {
				assert.Equal(t, expected[i], env.visited[i])
				assert.Equal(t, payloads[i], env.decoded[i], "instruction %d", i)
			}
		}
	})
}

// Emit a mark of a given size whose fields are derived from its index,
// returning the payload it should decode (led by its size).
func emitMark(b *Builder[*testEnv], index uint, size byte) ([]uint, error) {
	var (
		a = 4*index + 1
		c = ^index
	)
	//
	switch size {
	case 0:
		return []uint{0}, Emit(b, mark0{})
	case 1:
		return []uint{1, a}, Emit(b, mark1{a})
	case 2:
		return []uint{2, a, 2}, Emit(b, mark2{a, 2})
	default:
		return []uint{3, a, 3, c}, Emit(b, mark3{[3]uint{a, 3, c}})
	}
}

// ============================================================================
// Benchmarks
// ============================================================================

func Benchmark_Loop(b *testing.B) {
	bench_Machine_Countdown(b, LOOP_DISPATCH, 10000)
}

func Benchmark_Tail(b *testing.B) {
	bench_Machine_Countdown(b, TAIL_DISPATCH, 1000)
}

// ============================================================================
// Helpers
// ============================================================================

func sayItThrice(b *Builder[*testEnv], _ *testEnv) error {
	label := b.Offset()
	//
	if err := Emit(b, printOp{Intern(b, "A")}); err != nil {
		return err
	} else if err := Emit(b, loopOp{label}); err != nil {
		return err
	}
	//
	return Emit(b, haltOp{7})
}

func bench_Machine_Countdown(b *testing.B, cpu string, n uint) {
	env := &testEnv{}
	p := check_Machine_Build(b, cpu, env, func(bld *Builder[*testEnv], _ *testEnv) error {
		label := bld.Offset()
		//
		if err := bld.Nop(); err != nil {
			return err
		} else if err := Emit(bld, loopOp{label}); err != nil {
			return err
		}
		//
		return Emit(bld, haltOp{0})
	})
	//
	b.ResetTimer()
	//
	for range b.N {
		env.counter = n
		//
		if err := p.Execute(); err != nil {
			b.Fatal(err)
		}
	}
}

func check_Machine_Build(t testing.TB, name string, env *testEnv,
	build func(*Builder[*testEnv], *testEnv) error) *Program[*testEnv] {
	t.Helper()
	//
	cpu, err := NewCPU[*testEnv](name)
	assert.NoError(t, err)
	//
	p, err := NewMachine(cpu, tape.NewVector(16), env).Program(build)
	assert.NoError(t, err)
	//
	return p
}
