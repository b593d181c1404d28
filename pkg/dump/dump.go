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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/consensys/go-tapevm/pkg/util/termio"
	"github.com/consensys/go-tapevm/pkg/vm"
)

// ErrNoDebugInfo is returned when dumping a program which was built without
// recording debug information.
var ErrNoDebugInfo = errors.New("no debug information recorded")

// Config determines how a tape is rendered.
type Config struct {
	// Colour enables ANSI escapes in the output.
	Colour bool
}

var (
	offsetStyle   = termio.NewAnsiEscape().FgColour(termio.TERM_BLUE)
	sentinelStyle = termio.NewAnsiEscape().FgColour(termio.TERM_RED)
	mnemonicStyle = termio.NewAnsiEscape().Bold()
)

// Write renders every instruction recorded for a tape, one per line.  Each
// line gives the byte offset of the instruction followed by its text.
func Write(w io.Writer, info *vm.DebugInfo, dumper vm.Dumper, cfg Config) error {
	if info == nil {
		return ErrNoDebugInfo
	}
	//
	var (
		records = info.Records()
		table   = termio.NewTablePrinter(2, uint(len(records)))
		width   = 1
	)
	//
	if n := len(records); n > 0 {
		width = len(fmt.Sprintf("%d", records[n-1].Offset()))
	}
	//
	for i, r := range records {
		row := uint(i)
		text := r.Format(dumper)
		//
		if cfg.Colour {
			text = colourise(text, i == len(records)-1)
		}
		//
		table.SetRow(row, fmt.Sprintf("[%*d]", width, r.Offset()), text)
		table.SetEscape(0, row, offsetStyle)
	}
	//
	table.AnsiEscapes(cfg.Colour)
	//
	return table.Write(w)
}

// String renders every instruction recorded for a tape into a string.
func String(info *vm.DebugInfo, dumper vm.Dumper, cfg Config) (string, error) {
	var builder strings.Builder
	//
	err := Write(&builder, info, dumper, cfg)
	//
	return builder.String(), err
}

// Highlight the mnemonic of an instruction, or the whole of the trailing
// sentinel.
func colourise(text string, sentinel bool) string {
	if sentinel {
		return sentinelStyle.Wrap(text)
	}
	//
	mnemonic, rest, _ := strings.Cut(text, " ")
	//
	if rest == "" {
		return mnemonicStyle.Wrap(mnemonic)
	}
	//
	return mnemonicStyle.Wrap(mnemonic) + " " + rest
}
