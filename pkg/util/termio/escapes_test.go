package termio

import (
	"testing"

	"github.com/consensys/go-tapevm/pkg/util/assert"
)

func Test_AnsiEscape_01(t *testing.T) {
	assert.Equal(t, "\033[0m", ResetAnsiEscape().Build())
	assert.Equal(t, "\033[1;31m", NewAnsiEscape().Bold().FgColour(TERM_RED).Build())
	assert.Equal(t, "\033[34;47m", NewAnsiEscape().FgColour(TERM_BLUE).BgColour(TERM_WHITE).Build())
}

func Test_AnsiEscape_02(t *testing.T) {
	bold := NewAnsiEscape().Bold()
	//
	assert.Equal(t, "text", NewAnsiEscape().Wrap("text"))
	assert.Equal(t, "\033[1mtext\033[0m", bold.Wrap("text"))
	// Extending an escape leaves the original unchanged
	bold.Underline()
	assert.Equal(t, "\033[1m", bold.Build())
}
