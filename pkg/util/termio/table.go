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
package termio

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TablePrinter is useful for printing tables to the terminal.  Columns are
// separated by a gutter, and all but the last are padded to the width of their
// widest cell.
type TablePrinter struct {
	widths        []uint
	rows          [][]string
	escapes       [][]AnsiEscape
	leftAlign     []bool
	gutter        string
	enableEscapes bool
}

// NewTablePrinter constructs a new table with given dimensions.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	rows := make([][]string, height)
	escapes := make([][]AnsiEscape, height)
	// Construct the table
	for i := uint(0); i < height; i++ {
		rows[i] = make([]string, width)
		escapes[i] = make([]AnsiEscape, width)
	}

	return &TablePrinter{make([]uint, width), rows, escapes, make([]bool, width), "  ", true}
}

// Set the contents of a given cell in this table
func (p *TablePrinter) Set(col uint, row uint, val string) {
	p.widths[col] = max(p.widths[col], uint(utf8.RuneCountInString(val)))
	p.rows[row][col] = val
}

// Get the contents of a given cell in this table
func (p *TablePrinter) Get(col uint, row uint) string {
	return p.rows[row][col]
}

// Height returns the height of this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// SetEscape set the escape to use when printing the contents of a given cell
func (p *TablePrinter) SetEscape(col uint, row uint, escape AnsiEscape) {
	p.escapes[row][col] = escape
}

// AlignLeft aligns the contents of a given column to the left, rather than the
// right (which is the default).
func (p *TablePrinter) AlignLeft(col uint) {
	p.leftAlign[col] = true
}

// AnsiEscapes enables or disables the use of ANSI escapes (e.g. for showing
// colour).  Disabling escapes is useful in environments that don't support
// escapes as, otherwise, you get a lot of visible escape characters being
// printed.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// SetRow sets the contents of an entire row in this table
func (p *TablePrinter) SetRow(row uint, vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	//
	for i, val := range vals {
		p.Set(uint(i), row, val)
	}
}

// Write the table to a given writer.
func (p *TablePrinter) Write(w io.Writer) error {
	var builder strings.Builder
	//
	for i, row := range p.rows {
		builder.Reset()
		//
		for j, col := range row {
			if j != 0 {
				builder.WriteString(p.gutter)
			}
			//
			builder.WriteString(p.cell(j, col, p.escapes[i][j]))
		}
		//
		line := strings.TrimRight(builder.String(), " ")
		//
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	//
	return nil
}

// Pad and escape the contents of a given cell.
func (p *TablePrinter) cell(col int, val string, escape AnsiEscape) string {
	var (
		width   = int(p.widths[col])
		padding = ""
	)
	// Last column is never padded
	if col+1 < len(p.widths) {
		padding = strings.Repeat(" ", width-utf8.RuneCountInString(val))
	}
	//
	if p.enableEscapes {
		val = escape.Wrap(val)
	}
	//
	if p.leftAlign[col] {
		return val + padding
	}
	//
	return padding + val
}
