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
	"strings"
	"testing"

	"github.com/simplelang/go-spa/pkg/token"
	"github.com/simplelang/go-spa/pkg/util/source"
)

func Test_Tokenizer_01_Identifiers(t *testing.T) {
	check_Tokens(t, "x y1 Select", [][2]string{
		{"IDENTIFIER", "x"}, {"IDENTIFIER", "y1"}, {"IDENTIFIER", "Select"},
	})
}

func Test_Tokenizer_02_Numbers(t *testing.T) {
	check_Tokens(t, "1 23 456", [][2]string{
		{"NUMBER", "1"}, {"NUMBER", "23"}, {"NUMBER", "456"},
	})
}

func Test_Tokenizer_03_Delimiters(t *testing.T) {
	check_Tokens(t, `{}();_",.#`, [][2]string{
		{"DELIMITER", "{"}, {"DELIMITER", "}"}, {"DELIMITER", "("},
		{"DELIMITER", ")"}, {"DELIMITER", ";"}, {"DELIMITER", "_"},
		{"DELIMITER", "\""}, {"DELIMITER", ","}, {"DELIMITER", "."},
		{"DELIMITER", "#"},
	})
}

func Test_Tokenizer_04_Operators(t *testing.T) {
	check_Tokens(t, "+ - * / % > >= < <= == != = ! && ||", [][2]string{
		{"OPERATOR", "+"}, {"OPERATOR", "-"}, {"OPERATOR", "*"},
		{"OPERATOR", "/"}, {"OPERATOR", "%"}, {"OPERATOR", ">"},
		{"OPERATOR", ">="}, {"OPERATOR", "<"}, {"OPERATOR", "<="},
		{"OPERATOR", "=="}, {"OPERATOR", "!="}, {"OPERATOR", "="},
		{"OPERATOR", "!"}, {"OPERATOR", "&&"}, {"OPERATOR", "||"},
	})
}

func Test_Tokenizer_05_MixedClasses(t *testing.T) {
	check_Tokens(t, "x1=y2+3;", [][2]string{
		{"IDENTIFIER", "x1"}, {"OPERATOR", "="}, {"IDENTIFIER", "y2"},
		{"OPERATOR", "+"}, {"NUMBER", "3"}, {"DELIMITER", ";"},
	})
}

func Test_Tokenizer_06_RetainedWhitespace(t *testing.T) {
	tokens, err := pqlConfig().Tokenize(file("a  b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// each whitespace character is its own token
	kinds := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	//
	expected := []token.Kind{
		token.IDENTIFIER, token.WHITESPACE, token.WHITESPACE, token.IDENTIFIER,
	}
	//
	if len(kinds) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(kinds))
	}
	//
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("token %d has kind %d, expected %d", i, kinds[i], expected[i])
		}
	}
}

func Test_Tokenizer_07_LeadingZeroRejected(t *testing.T) {
	_, err := simpleConfig().Tokenize(file("x = 007;"))
	//
	check_LexError(t, err)
}

func Test_Tokenizer_08_LeadingZeroAllowed(t *testing.T) {
	tokens, err := pqlConfig().Tokenize(file("007"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	//
	if len(tokens) != 1 || tokens[0].Value != "007" {
		t.Errorf("expected a single 007 token, got %v", tokens)
	}
}

func Test_Tokenizer_09_LetterAfterNumber(t *testing.T) {
	_, err := pqlConfig().Tokenize(file("123abc"))
	//
	check_LexError(t, err)
}

func Test_Tokenizer_10_LoneAmpersand(t *testing.T) {
	_, err := simpleConfig().Tokenize(file("a & b"))
	//
	check_LexError(t, err)
}

func Test_Tokenizer_11_LoneStroke(t *testing.T) {
	_, err := simpleConfig().Tokenize(file("a | b"))
	//
	check_LexError(t, err)
}

func Test_Tokenizer_12_UnknownCharacter(t *testing.T) {
	_, err := simpleConfig().Tokenize(file("a @ b"))
	//
	check_LexError(t, err)
}

func Test_Tokenizer_13_AllWhitespaceKinds(t *testing.T) {
	tokens, err := simpleConfig().Tokenize(file("a \t\r\n\v\fb"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	//
	if len(tokens) != 2 {
		t.Errorf("whitespace should be consumed, got %d tokens", len(tokens))
	}
}

func Test_Tokenizer_14_ZeroAlone(t *testing.T) {
	// a lone zero is not a leading zero
	tokens, err := simpleConfig().Tokenize(file("x = 0;"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	//
	if len(tokens) != 4 || tokens[2].Value != "0" {
		t.Errorf("unexpected tokens %v", tokens)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

var kindNames = map[token.Kind]string{
	token.IDENTIFIER: "IDENTIFIER",
	token.NUMBER:     "NUMBER",
	token.OPERATOR:   "OPERATOR",
	token.DELIMITER:  "DELIMITER",
	token.WHITESPACE: "WHITESPACE",
}

func file(text string) *source.File {
	return source.NewSourceFile("test", []byte(text))
}

func simpleConfig() Tokenizer {
	return NewTokenizer().ConsumingWhitespace().NotAllowingLeadingZeroes()
}

func pqlConfig() Tokenizer {
	return NewTokenizer().NotConsumingWhitespace().AllowingLeadingZeroes()
}

func check_Tokens(t *testing.T, text string, expected [][2]string) {
	t.Helper()
	//
	tokens, err := simpleConfig().Tokenize(file(text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	//
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	//
	for i, tok := range tokens {
		if kindNames[tok.Kind] != expected[i][0] || tok.Value != expected[i][1] {
			t.Errorf("token %d: expected %v, got (%s, %s)",
				i, expected[i], kindNames[tok.Kind], tok.Value)
		}
	}
}

func check_LexError(t *testing.T, err *source.Error) {
	t.Helper()
	//
	if err == nil {
		t.Fatalf("expected a lex error")
	}
	//
	if err.Kind() != source.Lex {
		t.Errorf("expected a lex error, got %v", err)
	}
	//
	if !strings.HasPrefix(err.Error(), "[Tokeniser Parsing Error]") {
		t.Errorf("lex error has the wrong prefix: %s", err.Error())
	}
}
