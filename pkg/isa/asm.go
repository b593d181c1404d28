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
	"strconv"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-tapevm/pkg/util/source"
	"github.com/consensys/go-tapevm/pkg/util/source/lex"
	"github.com/consensys/go-tapevm/pkg/vm"
)

// Builder is the builder for programs in this instruction set.
type Builder = vm.Builder[*Machine]

// Listing is an assembled sequence of instructions whose labels have all been
// resolved, ready to be emitted onto a tape.
type Listing struct {
	insns []instruction
}

// Len returns the number of instructions in this listing.
func (p Listing) Len() uint {
	return uint(len(p.insns))
}

// Words returns the number of tape words occupied by this listing (excluding
// the trailing sentinel).
func (p Listing) Words() uint {
	return p.distance(0, len(p.insns))
}

// Emit the instructions of this listing using a given builder.  Labels
// referring backwards resolve to offsets captured whilst emitting, whilst
// those referring forwards are computed from the sizes of the instructions in
// between.
func (p Listing) Emit(builder *Builder) error {
	var offsets = make([]vm.Offset, len(p.insns))
	//
	for i, insn := range p.insns {
		var target vm.Offset
		//
		offsets[i] = builder.Offset()
		//
		if insn.target >= 0 && insn.target <= i {
			target = offsets[insn.target]
		} else if insn.target > i {
			target = builder.ForwardOffset(p.distance(i, insn.target))
		}
		//
		if err := insn.emit(builder, target); err != nil {
			return err
		}
	}
	//
	return nil
}

// Number of words from the start of one instruction to another.
func (p Listing) distance(from, to int) uint {
	var words uint
	//
	for _, insn := range p.insns[from:to] {
		words += insn.words
	}
	//
	return words
}

// Assemble parses the contents of a source file into a listing, reporting any
// syntax errors encountered.
func Assemble(file *source.File) (Listing, []source.SyntaxError) {
	p := parser{file: file, labels: make(map[string]int)}
	//
	lexer := lex.NewLexer(file.Contents(), rules...)
	tokens, ok := lexer.Collect()
	//
	if !ok {
		span := unknownSpan(file, int(lexer.Index()))
		return Listing{}, []source.SyntaxError{*file.SyntaxError(span, "unknown text")}
	}
	//
	p.tokens = tokens
	p.parse()
	p.resolve()
	//
	return Listing{p.insns}, p.errors
}

// Identify the span of text which could not be tokenised.
func unknownSpan(file *source.File, start int) source.Span {
	var (
		contents = file.Contents()
		end      = start
	)
	//
	for end < len(contents) && !strings.ContainsRune(" \t\r\n", contents[end]) {
		end++
	}
	//
	return source.NewSpan(start, end)
}

// ============================================================================
// Lexing
// ============================================================================

const (
	END_OF uint = iota
	NEWLINE
	IDENTIFIER
	NUMBER
	STRING
	COLON
	COMMA
)

var (
	letter     = lex.Or(lex.Within('a', 'z'), lex.Within('A', 'Z'), lex.Unit('_'))
	digit      = lex.Within('0', '9')
	whitespace = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r')))
	comment    = lex.Then(lex.Unit(';'), lex.Until('\n'))
	identifier = lex.Then(letter, lex.Many(lex.Or(letter, digit, lex.Unit('.'))))
	number     = lex.Then(lex.Or(digit, lex.Unit('-')), lex.Many(lex.Or(digit, letter)))
)

var rules = []lex.LexRule[rune]{
	lex.Skip(whitespace),
	lex.Skip(comment),
	lex.Rule(lex.Unit('\n'), NEWLINE),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Quoted('"', '\\'), STRING),
	lex.Rule(number, NUMBER),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// ============================================================================
// Instructions
// ============================================================================

// Kinds of operand
const (
	REGISTER uint = iota
	IMMEDIATE
	CONSTANT
	TEXT
	LABEL
)

type operand struct {
	kind  uint
	span  source.Span
	reg   uint
	num   uint
	value fr.Element
	text  string
	label string
}

type instruction struct {
	span source.Span
	// words occupied on the tape
	words uint
	// index of targeted instruction (or -1 if none)
	target   int
	operands []operand
	emit     func(builder *Builder, target vm.Offset) error
}

type mnemonic struct {
	operands []uint
	words    uint
	build    func(args []operand) func(*Builder, vm.Offset) error
}

var mnemonics = map[string]mnemonic{
	"nop": {nil, vm.Words[vm.Nop[*Machine]](), func(_ []operand) func(*Builder, vm.Offset) error {
		return func(b *Builder, _ vm.Offset) error { return b.Nop() }
	}},
	"print": {[]uint{TEXT}, vm.Words[Print](), func(args []operand) func(*Builder, vm.Offset) error {
		return func(b *Builder, _ vm.Offset) error { return vm.Emit(b, Print{vm.Intern(b, args[0].text)}) }
	}},
	"out": {[]uint{REGISTER}, vm.Words[Out](), func(args []operand) func(*Builder, vm.Offset) error {
		return emitter(Out{args[0].reg})
	}},
	"set": {[]uint{REGISTER, CONSTANT}, vm.Words[Set](), func(args []operand) func(*Builder, vm.Offset) error {
		return emitter(Set{args[0].reg, args[1].value})
	}},
	"add": {[]uint{REGISTER, REGISTER, REGISTER}, vm.Words[Add](), func(args []operand) func(*Builder, vm.Offset) error {
		return emitter(Add{args[0].reg, args[1].reg, args[2].reg})
	}},
	"sub": {[]uint{REGISTER, REGISTER, REGISTER}, vm.Words[Sub](), func(args []operand) func(*Builder, vm.Offset) error {
		return emitter(Sub{args[0].reg, args[1].reg, args[2].reg})
	}},
	"mul": {[]uint{REGISTER, REGISTER, REGISTER}, vm.Words[Mul](), func(args []operand) func(*Builder, vm.Offset) error {
		return emitter(Mul{args[0].reg, args[1].reg, args[2].reg})
	}},
	"jmp": {[]uint{LABEL}, vm.Words[Jump](), func(_ []operand) func(*Builder, vm.Offset) error {
		return func(b *Builder, target vm.Offset) error { return vm.Emit(b, Jump{target}) }
	}},
	"loop": {[]uint{LABEL}, vm.Words[Loop](), func(_ []operand) func(*Builder, vm.Offset) error {
		return func(b *Builder, target vm.Offset) error { return vm.Emit(b, Loop{target}) }
	}},
	"jz": {[]uint{REGISTER, LABEL}, vm.Words[JumpZero](), func(args []operand) func(*Builder, vm.Offset) error {
		return func(b *Builder, target vm.Offset) error { return vm.Emit(b, JumpZero{args[0].reg, target}) }
	}},
	"tick": {nil, vm.Words[Tick](), func(_ []operand) func(*Builder, vm.Offset) error {
		return emitter(Tick{})
	}},
	"ret": {[]uint{IMMEDIATE}, vm.Words[Return](), func(args []operand) func(*Builder, vm.Offset) error {
		return emitter(Return{args[0].num})
	}},
}

// Construct an emitter for an operation which has no target.
func emitter[Op vm.Operation[*Machine]](op Op) func(*Builder, vm.Offset) error {
	return func(b *Builder, _ vm.Offset) error {
		return vm.Emit(b, op)
	}
}

// ============================================================================
// Parsing
// ============================================================================

type parser struct {
	file   *source.File
	tokens []lex.Token
	index  int
	insns  []instruction
	// maps labels to the instruction they precede
	labels map[string]int
	errors []source.SyntaxError
}

func (p *parser) parse() {
	for p.lookahead().Kind != END_OF {
		if err := p.parseLine(); err != nil {
			p.errors = append(p.errors, *err)
			// recover at the start of the next line
			for p.lookahead().Kind != NEWLINE && p.lookahead().Kind != END_OF {
				p.index++
			}
		}
		//
		if p.lookahead().Kind == NEWLINE {
			p.index++
		}
	}
}

// Parse a line of the form "[label:] [mnemonic operand, ..., operand]".
func (p *parser) parseLine() *source.SyntaxError {
	if p.lookahead().Kind == IDENTIFIER && p.peek(1).Kind == COLON {
		token := p.next()
		name := p.text(token)
		//
		if _, ok := p.labels[name]; ok {
			return p.file.SyntaxError(token.Span, "duplicate label %q", name)
		}
		//
		p.labels[name] = len(p.insns)
		p.index++
	}
	//
	switch p.lookahead().Kind {
	case NEWLINE, END_OF:
		return nil
	case IDENTIFIER:
		return p.parseInstruction()
	default:
		return p.file.SyntaxError(p.lookahead().Span, "expected instruction")
	}
}

func (p *parser) parseInstruction() *source.SyntaxError {
	var (
		token    = p.next()
		name     = p.text(token)
		args     []operand
		insn, ok = mnemonics[name]
	)
	//
	if !ok {
		return p.file.SyntaxError(token.Span, "unknown instruction %q", name)
	}
	//
	for i, kind := range insn.operands {
		if i > 0 {
			if p.lookahead().Kind != COMMA {
				return p.file.SyntaxError(p.lookahead().Span, "expected ','")
			}
			//
			p.index++
		}
		//
		arg, err := p.parseOperand(kind)
		if err != nil {
			return err
		}
		//
		args = append(args, arg)
	}
	//
	if k := p.lookahead().Kind; k != NEWLINE && k != END_OF {
		return p.file.SyntaxError(p.lookahead().Span, "unexpected operand")
	}
	//
	p.insns = append(p.insns, instruction{
		span:     token.Span,
		words:    insn.words,
		target:   -1,
		operands: args,
		emit:     insn.build(args),
	})
	//
	return nil
}

func (p *parser) parseOperand(kind uint) (operand, *source.SyntaxError) {
	var (
		token = p.lookahead()
		text  = p.text(token)
		arg   = operand{kind: kind, span: token.Span}
	)
	//
	switch {
	case kind == REGISTER && token.Kind == IDENTIFIER:
		reg, ok := parseRegister(text)
		if !ok {
			return arg, p.file.SyntaxError(token.Span, "unknown register %q", text)
		}
		//
		arg.reg = reg
	case kind == IMMEDIATE && token.Kind == NUMBER:
		num, err := strconv.ParseUint(text, 0, 64)
		if err != nil {
			return arg, p.file.SyntaxError(token.Span, "invalid number %q", text)
		}
		//
		arg.num = uint(num)
	case kind == CONSTANT && token.Kind == NUMBER:
		if _, err := arg.value.SetString(text); err != nil {
			return arg, p.file.SyntaxError(token.Span, "invalid constant %q", text)
		}
	case kind == TEXT && token.Kind == STRING:
		str, err := strconv.Unquote(text)
		if err != nil {
			return arg, p.file.SyntaxError(token.Span, "invalid string %s", text)
		}
		//
		arg.text = str
	case kind == LABEL && token.Kind == IDENTIFIER:
		arg.label = text
	default:
		return arg, p.file.SyntaxError(token.Span, "expected %s", kindName(kind))
	}
	//
	p.index++
	//
	return arg, nil
}

// Resolve every label operand to the instruction it identifies.
func (p *parser) resolve() {
	for i := range p.insns {
		insn := &p.insns[i]
		//
		for _, arg := range insn.operands {
			if arg.kind != LABEL {
				continue
			}
			//
			if target, ok := p.labels[arg.label]; ok {
				insn.target = target
			} else {
				p.errors = append(p.errors, *p.file.SyntaxError(arg.span, "unknown label %q", arg.label))
			}
		}
	}
}

func (p *parser) lookahead() lex.Token {
	return p.peek(0)
}

func (p *parser) peek(n int) lex.Token {
	// the final token is always the end of file
	return p.tokens[min(p.index+n, len(p.tokens)-1)]
}

func (p *parser) next() lex.Token {
	token := p.lookahead()
	p.index++
	//
	return token
}

func (p *parser) text(token lex.Token) string {
	return p.file.Text(token.Span)
}

func parseRegister(text string) (uint, bool) {
	if !strings.HasPrefix(text, "r") {
		return 0, false
	}
	//
	reg, err := strconv.ParseUint(text[1:], 10, 64)
	//
	if err != nil || reg >= NUM_REGISTERS {
		return 0, false
	}
	//
	return uint(reg), true
}

func kindName(kind uint) string {
	switch kind {
	case REGISTER:
		return "register"
	case IMMEDIATE:
		return "number"
	case CONSTANT:
		return "constant"
	case TEXT:
		return "string"
	default:
		return "label"
	}
}
