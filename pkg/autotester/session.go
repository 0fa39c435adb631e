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
package autotester

import (
	"github.com/simplelang/go-spa/pkg/pkb"
	"github.com/simplelang/go-spa/pkg/pql"
	"github.com/simplelang/go-spa/pkg/pql/eval"
	"github.com/simplelang/go-spa/pkg/simple"
	"github.com/simplelang/go-spa/pkg/simple/extractor"
	"github.com/simplelang/go-spa/pkg/tokenizer"
	"github.com/simplelang/go-spa/pkg/util/source"
)

// Session binds a knowledge base built from one SIMPLE program to the query
// pipeline.  It is a plain value: nothing here is process-wide.
type Session struct {
	kb *pkb.Pkb
}

// NewSession parses a SIMPLE source file and extracts its knowledge base.
func NewSession(filename string) (*Session, error) {
	srcfile, err := source.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	return NewSessionFromSource(srcfile)
}

// NewSessionFromSource is NewSession over an in-memory source file.
func NewSessionFromSource(srcfile *source.File) (*Session, error) {
	program, err := simple.Parse(srcfile)
	if err != nil {
		return nil, err
	}
	//
	kb, err := extractor.Extract(program)
	if err != nil {
		return nil, err
	}
	//
	return &Session{kb}, nil
}

// Pkb exposes the knowledge base of this session.
func (s *Session) Pkb() *pkb.Pkb {
	return s.kb
}

// Evaluate runs a single query against this session's knowledge base.  A
// lex or syntax error fails the query (the caller reports the empty result
// and moves on); semantic errors are already folded into the empty result.
func (s *Session) Evaluate(queryText string) ([]string, error) {
	srcfile := source.NewSourceFile("query", []byte(queryText))
	//
	tokens, lexErr := tokenizer.NewTokenizer().
		NotConsumingWhitespace().
		AllowingLeadingZeroes().
		Tokenize(srcfile)
	//
	if lexErr != nil {
		return nil, lexErr
	}
	//
	query, synErr := pql.NewParser(tokens).Parse()
	if synErr != nil {
		return nil, synErr
	}
	//
	return eval.NewEvaluator(s.kb, &query).EvaluateQuery(), nil
}
