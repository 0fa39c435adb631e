// Copyright go-spa contributors.
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
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/simplelang/go-spa/pkg/token"
	"github.com/simplelang/go-spa/pkg/util/source"
	"github.com/simplelang/go-spa/pkg/util/source/lex"
)

// Tags identifying the lexical rules below.
const (
	tagIdentifier uint = iota
	tagNumber
	tagOperator
	tagDelimiter
	tagWhitespace
	tagLoneAmpersand
	tagLoneStroke
)

// Rule for describing a single whitespace character.  Whitespace is emitted
// one character at a time so retained whitespace stays character-accurate.
var whitespace lex.Scanner[rune] = lex.Or(
	lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'),
	lex.Unit('\n'), lex.Unit('\v'), lex.Unit('\f'))

var letter lex.Scanner[rune] = lex.Or(
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var digit lex.Scanner[rune] = lex.Within('0', '9')

// Rule for describing identifiers.
var identifier lex.Scanner[rune] = lex.SequenceNullableLast(
	letter, lex.Many(lex.Or(letter, digit)))

// Rule for describing numbers.
var number lex.Scanner[rune] = lex.SequenceNullableLast(digit, lex.Many(digit))

// Rule for describing operators.  Alternatives resolve by longest match, so
// '<' never shadows '<=' regardless of order.
var operator lex.Scanner[rune] = lex.Or(
	lex.Unit('+'), lex.Unit('-'), lex.Unit('*'), lex.Unit('/'), lex.Unit('%'),
	lex.Unit('<'), lex.Unit('>'), lex.Unit('='), lex.Unit('!'),
	lex.Unit('<', '='),
	lex.Unit('>', '='),
	lex.Unit('=', '='),
	lex.Unit('!', '='),
	lex.Unit('&', '&'),
	lex.Unit('|', '|'))

// Rule for describing delimiters.
var delimiter lex.Scanner[rune] = lex.Or(
	lex.Unit('{'), lex.Unit('}'), lex.Unit('('), lex.Unit(')'),
	lex.Unit(';'), lex.Unit('_'), lex.Unit('"'), lex.Unit(','),
	lex.Unit('.'), lex.Unit('#'))

// Lexing rules.  A lone '&' or '|' is tokenised on purpose so it can be
// reported as a lex error rather than as an unrecognised character.
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(identifier, tagIdentifier),
	lex.Rule(number, tagNumber),
	lex.Rule(operator, tagOperator),
	lex.Rule(lex.Unit('&'), tagLoneAmpersand),
	lex.Rule(lex.Unit('|'), tagLoneStroke),
	lex.Rule(delimiter, tagDelimiter),
	lex.Rule(whitespace, tagWhitespace),
}

var tagToKind = map[uint]token.Kind{
	tagIdentifier: token.IDENTIFIER,
	tagNumber:     token.NUMBER,
	tagOperator:   token.OPERATOR,
	tagDelimiter:  token.DELIMITER,
	tagWhitespace: token.WHITESPACE,
}

// Tokenizer is a character-class driven lexer.  The zero value retains
// whitespace and rejects leading zeroes; both behaviours are configurable
// per instance.
type Tokenizer struct {
	consumeWhitespace  bool
	allowLeadingZeroes bool
}

// NewTokenizer constructs a tokenizer which consumes whitespace and rejects
// leading zeroes.
func NewTokenizer() Tokenizer {
	return Tokenizer{true, false}
}

// ConsumingWhitespace configures this tokenizer to discard whitespace.
func (t Tokenizer) ConsumingWhitespace() Tokenizer {
	t.consumeWhitespace = true
	return t
}

// NotConsumingWhitespace configures this tokenizer to emit each whitespace
// character as its own token.
func (t Tokenizer) NotConsumingWhitespace() Tokenizer {
	t.consumeWhitespace = false
	return t
}

// AllowingLeadingZeroes configures this tokenizer to accept numbers with
// leading zeroes.
func (t Tokenizer) AllowingLeadingZeroes() Tokenizer {
	t.allowLeadingZeroes = true
	return t
}

// NotAllowingLeadingZeroes configures this tokenizer to reject numbers with
// leading zeroes.
func (t Tokenizer) NotAllowingLeadingZeroes() Tokenizer {
	t.allowLeadingZeroes = false
	return t
}

// Tokenize a given source file into a sequence of tokens, or fail with a lex
// error.
func (t Tokenizer) Tokenize(srcfile *source.File) ([]token.Token, *source.Error) {
	var (
		chars  = srcfile.Contents()
		lexer  = lex.NewLexer(chars, rules...)
		tokens []token.Token
	)
	//
	for lexer.HasNext() {
		raw := lexer.Next()
		value := string(chars[raw.Span.Start():raw.Span.End()])
		//
		switch raw.Kind {
		case tagWhitespace:
			if !t.consumeWhitespace {
				tokens = append(tokens, token.New(token.WHITESPACE, value))
			}
			//
			continue
		case tagNumber:
			if err := t.checkNumber(chars, raw.Span, value); err != nil {
				return nil, err
			}
		case tagLoneAmpersand:
			return nil, source.NewLexError("Expected & but got a single &")
		case tagLoneStroke:
			return nil, source.NewLexError("Expected | but got a single |")
		}
		//
		tokens = append(tokens, token.New(tagToKind[raw.Kind], value))
	}
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		culprit := chars[lexer.Index()]
		return nil, source.NewLexError(fmt.Sprintf("Failed to recognise character %c", culprit))
	}
	//
	return tokens, nil
}

// checkNumber enforces the leading-zero policy, and rejects a letter
// directly following a number (e.g. "123abc").
func (t Tokenizer) checkNumber(chars []rune, span source.Span, value string) *source.Error {
	if !t.allowLeadingZeroes && len(value) > 1 && strings.HasPrefix(value, "0") {
		return source.NewLexError("Encountered 0 as the first digit of a number.")
	}
	//
	if span.End() < len(chars) && isLetter(chars[span.End()]) {
		return source.NewLexError("Encountered an alphabetical letter while constructing a number.")
	}
	//
	return nil
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
