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
	"bytes"
	"strings"
	"testing"

	"github.com/consensys/go-tapevm/pkg/tape"
	"github.com/consensys/go-tapevm/pkg/util/assert"
	"github.com/consensys/go-tapevm/pkg/util/source"
	"github.com/consensys/go-tapevm/pkg/vm"
)

var cpus = []string{vm.LOOP_DISPATCH, vm.TAIL_DISPATCH}

func Test_Asm_01(t *testing.T) {
	src := `
; say it four times
start:
	print "A"
	loop start
	ret 7
`
	for _, cpu := range cpus {
		out := check_Asm_Run(t, cpu, src, 3, 0, 7)
		assert.Equal(t, "A\nA\nA\nA\n", out)
	}
}

func Test_Asm_02(t *testing.T) {
	src := `
	set r1, 6
	set r2, 0x7
	mul r3, r1, r2
	out r3
	sub r4, r1, r2
	out r4
	add r5, r4, r2 ; back to six
	out r5
	ret 0`
	//
	for _, cpu := range cpus {
		out := check_Asm_Run(t, cpu, src, 0, 0, 0)
		assert.Equal(t, "42\n-1\n6\n", out)
	}
}

func Test_Asm_03(t *testing.T) {
	src := `
	jz r0, done
	print "skipped"
done: ret 1`
	//
	for _, cpu := range cpus {
		out := check_Asm_Run(t, cpu, src, 0, 0, 1)
		assert.Equal(t, "", out)
	}
}

func Test_Asm_04(t *testing.T) {
	src := `
	set r0, 3
	set r1, 1
top:
	jz r0, end
	out r0
	sub r0, r0, r1
	jmp top
end:
	ret 9`
	//
	for _, cpu := range cpus {
		out := check_Asm_Run(t, cpu, src, 0, 0, 9)
		assert.Equal(t, "3\n2\n1\n", out)
	}
}

func Test_Asm_05(t *testing.T) {
	src := "tick\ntick\nret 0\n"
	//
	for _, cpu := range cpus {
		p := check_Asm_Build(t, cpu, src, NewMachine(&bytes.Buffer{}).WithFuel(1))
		assert.ErrorIs(t, p.Execute(), ErrOutOfFuel)
		assert.Equal(t, 0, p.Env().Fuel)
		// Refuel
		p.Env().WithFuel(2)
		assert.NoError(t, p.Execute())
	}
}

func Test_Asm_06(t *testing.T) {
	// Labels can follow the final instruction, but running into them is an
	// error.
	for _, cpu := range cpus {
		p := check_Asm_Build(t, cpu, "\tjmp end\nend:\n", NewMachine(&bytes.Buffer{}))
		recovered := assert.Panics(t, func() { _ = p.Execute() })
		assert.Equal(t, vm.ErrUnreachable, recovered)
	}
}

func Test_Asm_07(t *testing.T) {
	check_Asm_Error(t, "bogus r1", "test.s:1:1: unknown instruction \"bogus\"")
	check_Asm_Error(t, "nop\nout r16", "test.s:2:5: unknown register \"r16\"")
	check_Asm_Error(t, "jmp nowhere", "test.s:1:5: unknown label \"nowhere\"")
	check_Asm_Error(t, "a: nop\na: nop", "test.s:2:1: duplicate label \"a\"")
	check_Asm_Error(t, "add r1 r2, r3", "test.s:1:8: expected ','")
	check_Asm_Error(t, "ret r1", "test.s:1:5: expected number")
	check_Asm_Error(t, "print 1", "test.s:1:7: expected string")
	check_Asm_Error(t, "nop r1", "test.s:1:5: unexpected operand")
	check_Asm_Error(t, "nop\n  #nop", "test.s:2:3: unknown text")
	check_Asm_Error(t, "set r1, 0xzz", "test.s:1:9: invalid constant \"0xzz\"")
}

func Test_Asm_08(t *testing.T) {
	// Errors on different lines are all reported.
	file := source.NewSourceFile("test.s", []byte("bogus\nnop\nout r99\nret 0"))
	_, errs := Assemble(file)
	//
	assert.Equal(t, 2, len(errs))
	assert.Equal(t, 1, errs[0].FirstEnclosingLine().Number())
	assert.Equal(t, 3, errs[1].FirstEnclosingLine().Number())
}

func Test_Asm_09(t *testing.T) {
	file := source.NewSourceFile("test.s", []byte("l: nop\nset r0, 1\njmp l\nret 0"))
	listing, errs := Assemble(file)
	//
	assert.Equal(t, 0, len(errs))
	assert.Equal(t, 4, listing.Len())
	assert.Equal(t, vm.Words[vm.Nop[*Machine]]()+vm.Words[Set]()+vm.Words[Jump]()+vm.Words[Return](),
		listing.Words())
}

func Test_Asm_10(t *testing.T) {
	// Programs exceeding a bounded tape fail to build.
	file := source.NewSourceFile("test.s", []byte(strings.Repeat("nop\n", 10)+"ret 0"))
	listing, errs := Assemble(file)
	assert.Equal(t, 0, len(errs))
	//
	machine := vm.NewMachine[*Machine](vm.NewLoop[*Machine](), tape.NewBoundedVector(listing.Words()), NewMachine(nil))
	_, err := machine.Program(func(b *Builder, _ *Machine) error { return listing.Emit(b) })
	assert.ErrorIs(t, err, tape.ErrUnexpectedEnd)
}

func check_Asm_Run(t *testing.T, cpu string, src string, counter uint, fuel uint, result uint) string {
	t.Helper()
	//
	var out bytes.Buffer
	//
	p := check_Asm_Build(t, cpu, src, NewMachine(&out).WithCounter(counter).WithFuel(fuel))
	assert.NoError(t, p.Execute())
	assert.Equal(t, result, p.Env().Result)
	//
	return out.String()
}

func check_Asm_Build(t *testing.T, name string, src string, env *Machine) *vm.Program[*Machine] {
	t.Helper()
	//
	listing, errs := Assemble(source.NewSourceFile("test.s", []byte(src)))
	//
	for _, err := range errs {
		t.Errorf("%s", err.Error())
	}
	//
	cpu, err := vm.NewCPU[*Machine](name)
	assert.NoError(t, err)
	//
	p, err := vm.NewMachine(cpu, tape.NewVector(64), env).Program(func(b *Builder, _ *Machine) error {
		return listing.Emit(b)
	})
	assert.NoError(t, err)
	//
	return p
}

func check_Asm_Error(t *testing.T, src string, expected string) {
	t.Helper()
	//
	_, errs := Assemble(source.NewSourceFile("test.s", []byte(src)))
	//
	assert.Equal(t, 1, len(errs), "%q", src)
	assert.Equal(t, expected, errs[0].Error())
}
