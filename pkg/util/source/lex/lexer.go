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
package lex

import "github.com/consensys/go-tapevm/pkg/util/source"

// Token associates a kind with a given range of characters in the input being
// scanned.
type Token struct {
	Kind uint
	Span source.Span
}

// LexRule associates the items matched by a scanner with a given kind of
// token.  Rules marked as skipping still consume their matches, but produce no
// tokens (e.g. for whitespace or comments).
type LexRule[T any] struct {
	scanner Scanner[T]
	kind    uint
	skip    bool
}

// Rule constructs a new lexing rule which maps matching items to a given kind
// of token.
func Rule[T any](scanner Scanner[T], kind uint) LexRule[T] {
	return LexRule[T]{scanner, kind, false}
}

// Skip constructs a new lexing rule whose matches are discarded.
func Skip[T any](scanner Scanner[T]) LexRule[T] {
	return LexRule[T]{scanner, 0, true}
}

// Lexer tokenises a given input sequence by repeatedly applying its rules, in
// order, at the current position.  The first rule to match determines the
// next token.
type Lexer[T any] struct {
	items  []T
	index  int
	rules  []LexRule[T]
	buffer []Token
}

// NewLexer constructs a new lexer with a given set of lexing rules.
func NewLexer[T any](input []T, rules ...LexRule[T]) *Lexer[T] {
	return &Lexer[T]{input, 0, rules, nil}
}

// Index returns the current position within the input.
func (p *Lexer[T]) Index() uint {
	return uint(p.index)
}

// Remaining determines how many items of the input are left to be consumed.
func (p *Lexer[T]) Remaining() uint {
	return uint(max(0, len(p.items)-p.index))
}

// HasNext checks whether or not there is another token available.
func (p *Lexer[T]) HasNext() bool {
	p.scan()
	return len(p.buffer) > 0
}

// Next returns the next token and advances the lexer.
func (p *Lexer[T]) Next() Token {
	next := p.buffer[0]
	p.buffer = p.buffer[1:]
	//
	return next
}

// Collect is a convenience function which tokenises all remaining input in one
// go.  The tokens are returned along with an indication of whether the input
// was consumed in its entirety.  If not, Index identifies the first position
// at which no rule matched.
func (p *Lexer[T]) Collect() ([]Token, bool) {
	var tokens []Token
	//
	for p.HasNext() {
		tokens = append(tokens, p.Next())
	}
	//
	return tokens, p.index > len(p.items)
}

func (p *Lexer[T]) scan() {
	for len(p.buffer) == 0 && p.index <= len(p.items) {
		n, rule := p.match()
		//
		if n == 0 {
			return
		}
		//
		start := p.index
		end := min(len(p.items), p.index+int(n))
		// The end of input is matched exactly once.
		if start == len(p.items) {
			p.index++
		} else {
			p.index = end
		}
		//
		if !rule.skip {
			p.buffer = append(p.buffer, Token{rule.kind, source.NewSpan(start, end)})
		}
	}
}

func (p *Lexer[T]) match() (uint, LexRule[T]) {
	for _, r := range p.rules {
		if n := r.scanner(p.items[p.index:]); n > 0 {
			return n, r
		}
	}
	//
	return 0, LexRule[T]{}
}
