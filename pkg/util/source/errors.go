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
package source

import (
	"errors"
	"fmt"
)

// Kind partitions errors by the channel they travel on.  Only Semantic errors
// are recoverable; everything else aborts the operation which produced it.
type Kind uint8

const (
	// Lex indicates the tokeniser could not produce a token stream.
	Lex Kind = iota
	// Syntax indicates a malformed token stream.
	Syntax
	// Semantic indicates a well-formed but meaningless input.  Semantic
	// errors are accumulated rather than aborting.
	Semantic
	// Domain indicates an insertion which violates a relation invariant.
	// This signals a bug in the upstream extractor, not bad user input.
	Domain
)

// Error is a structured error which retains the subsystem prefix and kind of
// the failure, along with an error message.
type Error struct {
	// Kind of this error (lex, syntax, semantic, domain).
	kind Kind
	// Subsystem prefix, e.g. "[PQL Syntax Error]".
	prefix string
	// Error message being reported.
	msg string
}

// NewLexError constructs an error reported by the tokeniser.
func NewLexError(msg string) *Error {
	return &Error{Lex, "[Tokeniser Parsing Error]", msg}
}

// NewSyntaxError constructs a fatal error reported by the PQL parser.
func NewSyntaxError(msg string) *Error {
	return &Error{Syntax, "[PQL Syntax Error]", msg}
}

// NewSemanticError constructs a recoverable error reported by the PQL parser.
func NewSemanticError(msg string) *Error {
	return &Error{Semantic, "[PQL Semantic Error]", msg}
}

// NewSourceError constructs a fatal error reported by the SIMPLE parser.
func NewSourceError(msg string) *Error {
	return &Error{Syntax, "[SPA Source Error]", msg}
}

// NewDomainError constructs an error reported by the PKB on an insertion
// which violates a relation invariant.
func NewDomainError(msg string) *Error {
	return &Error{Domain, "[PKB Domain Violation]", msg}
}

// Kind returns the kind of this error.
func (p *Error) Kind() Kind {
	return p.kind
}

// Message returns the message to be reported, without the subsystem prefix.
func (p *Error) Message() string {
	return p.msg
}

// Error implements the error interface.
func (p *Error) Error() string {
	return fmt.Sprintf("%s %s", p.prefix, p.msg)
}

// IsKind checks whether a given error is a structured error of the given
// kind.
func IsKind(err error, kind Kind) bool {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.kind == kind
	}
	//
	return false
}
