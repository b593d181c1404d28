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
package dump

import (
	"strings"
	"testing"

	"github.com/consensys/go-tapevm/pkg/isa"
	"github.com/consensys/go-tapevm/pkg/tape"
	"github.com/consensys/go-tapevm/pkg/util/assert"
	"github.com/consensys/go-tapevm/pkg/util/source"
	"github.com/consensys/go-tapevm/pkg/vm"
)

const sayItThrice = `
start:
	print "A"
	loop start
	ret 7
`

func Test_Dump_01(t *testing.T) {
	p := check_Dump_Build(t, sayItThrice, true)
	text, err := String(p.DebugInfo(), p.Dumper(), Config{})
	//
	assert.NoError(t, err)
	//
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	assert.Equal(t, 4, len(lines))
	assert.True(t, strings.HasSuffix(lines[0], "]  print \"A\""), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "]  loop [base + 0]"), lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "]  ret 7"), lines[2])
	assert.True(t, strings.HasSuffix(lines[3], "]  Unreachable"), lines[3])
}

func Test_Dump_02(t *testing.T) {
	// Dumping requires debug information
	p := check_Dump_Build(t, sayItThrice, false)
	_, err := String(p.DebugInfo(), p.Dumper(), Config{})
	//
	assert.ErrorIs(t, err, ErrNoDebugInfo)
}

func Test_Dump_03(t *testing.T) {
	p := check_Dump_Build(t, sayItThrice, true)
	text, err := String(p.DebugInfo(), p.Dumper(), Config{Colour: true})
	//
	assert.NoError(t, err)
	assert.True(t, strings.Contains(text, "\033[1mprint\033[0m \"A\""))
	assert.True(t, strings.Contains(text, "\033[31mUnreachable\033[0m"))
}

func Test_Dump_04(t *testing.T) {
	// Offsets are right aligned
	p := check_Dump_Build(t, strings.Repeat("nop\n", 2)+"ret 0\n", true)
	text, err := String(p.DebugInfo(), p.Dumper(), Config{})
	//
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "[ 0]  Nop\n"), text)
}

func check_Dump_Build(t *testing.T, src string, debug bool) *vm.Program[*isa.Machine] {
	t.Helper()
	//
	listing, errs := isa.Assemble(source.NewSourceFile("test.s", []byte(src)))
	assert.Equal(t, 0, len(errs))
	//
	machine := vm.NewMachine[*isa.Machine](vm.NewLoop[*isa.Machine](), tape.NewVector(0), isa.NewMachine(nil))
	p, err := machine.WithDebugInfo(debug).Program(func(b *isa.Builder, _ *isa.Machine) error {
		return listing.Emit(b)
	})
	//
	assert.NoError(t, err)
	//
	return p
}
