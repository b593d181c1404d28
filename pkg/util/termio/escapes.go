package termio

import "fmt"

// TERM_BLACK represents black
const TERM_BLACK = uint(0)

// TERM_RED represents red
const TERM_RED = uint(1)

// TERM_GREEN represents green
const TERM_GREEN = uint(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = uint(3)

// TERM_BLUE represents blue
const TERM_BLUE = uint(4)

// TERM_MAGENTA represents magenta
const TERM_MAGENTA = uint(5)

// TERM_CYAN represents cyan
const TERM_CYAN = uint(6)

// TERM_WHITE represents white
const TERM_WHITE = uint(7)

// AnsiEscape represents a (possibly compound) ANSI escape code used for
// formatting text in a terminal, such as "\033[1;31m".
type AnsiEscape struct {
	codes []uint
}

// NewAnsiEscape construct an empty escape
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{nil}
}

// ResetAnsiEscape constructs a reset escape.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{[]uint{0}}
}

// Bold returns this escape extended with bold text.
func (p AnsiEscape) Bold() AnsiEscape {
	return p.with(1)
}

// Underline returns this escape extended with underlined text.
func (p AnsiEscape) Underline() AnsiEscape {
	return p.with(4)
}

// FgColour returns this escape extended with a given foreground colour.
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	return p.with(30 + col)
}

// BgColour returns this escape extended with a given background colour.
func (p AnsiEscape) BgColour(col uint) AnsiEscape {
	return p.with(40 + col)
}

// Build constructs the final escape
func (p AnsiEscape) Build() string {
	var escape = "\033["
	//
	for i, c := range p.codes {
		if i != 0 {
			escape += ";"
		}
		//
		escape += fmt.Sprintf("%d", c)
	}
	//
	return escape + "m"
}

// Wrap formats some text with this escape, resetting the terminal afterwards.
// The empty escape leaves text unchanged.
func (p AnsiEscape) Wrap(text string) string {
	if len(p.codes) == 0 {
		return text
	}
	//
	return p.Build() + text + ResetAnsiEscape().Build()
}

func (p AnsiEscape) with(code uint) AnsiEscape {
	codes := make([]uint, len(p.codes), len(p.codes)+1)
	copy(codes, p.codes)
	//
	return AnsiEscape{append(codes, code)}
}
