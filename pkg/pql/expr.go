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
package pql

import (
	"fmt"
	"strings"

	"github.com/simplelang/go-spa/pkg/token"
	"github.com/simplelang/go-spa/pkg/util/source"
)

// Operator precedence for infix-to-postfix conversion.  All operators are
// left-associative.
var exprPrecedence = map[string]int{
	"+": 1, "-": 1,
	"*": 2, "/": 2, "%": 2,
}

// InfixToPostfix converts a tokenised infix arithmetic expression over
// identifiers and numbers into its canonical postfix form: tokens separated
// by single spaces, with one leading and one trailing space.  The framing
// spaces give substring search sub-expression semantics.
func InfixToPostfix(tokens []token.Token) (string, *source.Error) {
	var (
		output    []string
		operators []string
		// expectOperand flips between operand and operator positions.
		expectOperand = true
	)
	//
	if len(tokens) == 0 {
		return "", source.NewSyntaxError("Expression is empty.")
	}
	//
	for _, tok := range tokens {
		switch {
		case tok.Kind == token.IDENTIFIER || tok.Kind == token.NUMBER:
			if !expectOperand {
				return "", source.NewSyntaxError(fmt.Sprintf("Expected an operator but got %s", tok.Value))
			}
			//
			output = append(output, tok.Value)
			expectOperand = false
		case tok.Is(token.LeftParen):
			if !expectOperand {
				return "", source.NewSyntaxError("Expected an operator but got (")
			}
			//
			operators = append(operators, "(")
		case tok.Is(token.RightParen):
			if expectOperand {
				return "", source.NewSyntaxError("Expected an operand but got )")
			}
			// Pop until the matching parenthesis
			for {
				if len(operators) == 0 {
					return "", source.NewSyntaxError("Unbalanced parentheses in expression.")
				}
				//
				top := operators[len(operators)-1]
				operators = operators[:len(operators)-1]
				//
				if top == "(" {
					break
				}
				//
				output = append(output, top)
			}
		case tok.Kind == token.OPERATOR && exprPrecedence[tok.Value] > 0:
			if expectOperand {
				return "", source.NewSyntaxError(fmt.Sprintf("Expected an operand but got %s", tok.Value))
			}
			// Pop operators of no lower precedence
			for len(operators) > 0 {
				top := operators[len(operators)-1]
				if top == "(" || exprPrecedence[top] < exprPrecedence[tok.Value] {
					break
				}
				//
				operators = operators[:len(operators)-1]
				output = append(output, top)
			}
			//
			operators = append(operators, tok.Value)
			expectOperand = true
		default:
			return "", source.NewSyntaxError(fmt.Sprintf("Unexpected token %s in expression", tok.Value))
		}
	}
	//
	if expectOperand {
		return "", source.NewSyntaxError("Expression ends with an operator.")
	}
	// Drain remaining operators
	for len(operators) > 0 {
		top := operators[len(operators)-1]
		operators = operators[:len(operators)-1]
		//
		if top == "(" {
			return "", source.NewSyntaxError("Unbalanced parentheses in expression.")
		}
		//
		output = append(output, top)
	}
	//
	return " " + strings.Join(output, " ") + " ", nil
}
