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
package simple

import (
	"strings"
	"testing"

	"github.com/simplelang/go-spa/pkg/util/source"
)

func Test_SimpleParser_01_ReadPrintAssign(t *testing.T) {
	program := parseOk(t, `procedure p { read x; print y; z = x + 1; }`)
	//
	if len(program.Procedures) != 1 {
		t.Fatalf("expected one procedure")
	}
	//
	body := program.Procedures[0].Body
	if len(body) != 3 {
		t.Fatalf("expected three statements, got %d", len(body))
	}
	//
	read, ok := body[0].(*ReadStmt)
	if !ok || read.Num != 1 || read.Var != "x" {
		t.Errorf("unexpected first statement %v", body[0])
	}
	//
	print, ok := body[1].(*PrintStmt)
	if !ok || print.Num != 2 || print.Var != "y" {
		t.Errorf("unexpected second statement %v", body[1])
	}
	//
	assign, ok := body[2].(*AssignStmt)
	if !ok || assign.Num != 3 || assign.Lhs != "z" {
		t.Errorf("unexpected third statement %v", body[2])
	}
}

func Test_SimpleParser_02_WhileNumbers(t *testing.T) {
	program := parseOk(t, `procedure p { while (x > 0) { x = x - 1; } y = 2; }`)
	//
	body := program.Procedures[0].Body
	//
	loop, ok := body[0].(*WhileStmt)
	if !ok || loop.Num != 1 {
		t.Fatalf("expected a while statement numbered 1")
	}
	//
	if loop.Body[0].StmtNum() != 2 {
		t.Errorf("loop body should be statement 2")
	}
	//
	if body[1].StmtNum() != 3 {
		t.Errorf("trailing assignment should be statement 3")
	}
}

func Test_SimpleParser_03_IfThenElse(t *testing.T) {
	program := parseOk(t, `
		procedure p {
			if (x == 1) then { y = 1; } else { y = 2; }
		}`)
	//
	cond, ok := program.Procedures[0].Body[0].(*IfStmt)
	if !ok {
		t.Fatalf("expected an if statement")
	}
	//
	if len(cond.Then) != 1 || len(cond.Else) != 1 {
		t.Errorf("unexpected branch sizes")
	}
	//
	rel, ok := cond.Cond.(*RelCond)
	if !ok || rel.Op != "==" {
		t.Errorf("unexpected condition %v", cond.Cond)
	}
}

func Test_SimpleParser_04_ConditionConnectives(t *testing.T) {
	program := parseOk(t, `procedure p { while ((x > 0) && (y < 5)) { x = 1; } }`)
	//
	loop := program.Procedures[0].Body[0].(*WhileStmt)
	//
	if _, ok := loop.Cond.(*AndCond); !ok {
		t.Errorf("expected a conjunction, got %v", loop.Cond)
	}
	//
	program = parseOk(t, `procedure p { while (!(x == y)) { x = 1; } }`)
	loop = program.Procedures[0].Body[0].(*WhileStmt)
	//
	if _, ok := loop.Cond.(*NotCond); !ok {
		t.Errorf("expected a negation, got %v", loop.Cond)
	}
}

func Test_SimpleParser_05_ParenthesisedRelFactor(t *testing.T) {
	// a bracketed arithmetic operand must not be mistaken for a bracketed
	// condition
	program := parseOk(t, `procedure p { while ((x + 1) > 2) { x = 1; } }`)
	//
	loop := program.Procedures[0].Body[0].(*WhileStmt)
	//
	rel, ok := loop.Cond.(*RelCond)
	if !ok || rel.Op != ">" {
		t.Fatalf("expected a relational condition, got %v", loop.Cond)
	}
}

func Test_SimpleParser_06_KeywordsAreContextual(t *testing.T) {
	// 'read' used as a variable name on the left of an assignment
	program := parseOk(t, `procedure p { read = 1; while = 2; }`)
	//
	if _, ok := program.Procedures[0].Body[0].(*AssignStmt); !ok {
		t.Errorf("read = 1 should parse as an assignment")
	}
	//
	if _, ok := program.Procedures[0].Body[1].(*AssignStmt); !ok {
		t.Errorf("while = 2 should parse as an assignment")
	}
}

func Test_SimpleParser_07_MultiProcedure(t *testing.T) {
	program := parseOk(t, `
		procedure main { call helper; }
		procedure helper { read x; }`)
	//
	if len(program.Procedures) != 2 {
		t.Fatalf("expected two procedures")
	}
	//
	call, ok := program.Procedures[0].Body[0].(*CallStmt)
	if !ok || call.Proc != "helper" {
		t.Errorf("unexpected call statement %v", program.Procedures[0].Body[0])
	}
}

func Test_SimpleParser_08_Errors(t *testing.T) {
	parseErr(t, ``)
	parseErr(t, `procedure p { }`)
	parseErr(t, `procedure p { x = 1 }`)
	parseErr(t, `procedure p { x = ; }`)
	parseErr(t, `procedure p { if (x > 1) then { y = 1; } }`)
	parseErr(t, `procedure p { while x > 1 { y = 1; } }`)
	// duplicate procedure names
	parseErr(t, `procedure p { x = 1; } procedure p { y = 2; }`)
}

func Test_SimpleParser_09_ErrorPrefix(t *testing.T) {
	_, err := Parse(source.NewSourceFile("test", []byte("procedure p {")))
	//
	if err == nil {
		t.Fatalf("expected an error")
	}
	//
	if !strings.HasPrefix(err.Error(), "[SPA Source Error]") {
		t.Errorf("source error has the wrong prefix: %s", err.Error())
	}
}

func Test_SimpleParser_10_ExprPrecedence(t *testing.T) {
	program := parseOk(t, `procedure p { x = a + b * c; }`)
	//
	assign := program.Procedures[0].Body[0].(*AssignStmt)
	//
	top, ok := assign.Rhs.(*BinaryExpr)
	if !ok || top.Op != "+" {
		t.Fatalf("expected + at the top, got %v", assign.Rhs)
	}
	//
	rhs, ok := top.Rhs.(*BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Errorf("expected * below +, got %v", top.Rhs)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func parseOk(t *testing.T, text string) *Program {
	t.Helper()
	//
	program, err := Parse(source.NewSourceFile("test", []byte(text)))
	if err != nil {
		t.Fatalf("unexpected error for %q: %v", text, err)
	}
	//
	return program
}

func parseErr(t *testing.T, text string) {
	t.Helper()
	//
	if _, err := Parse(source.NewSourceFile("test", []byte(text))); err == nil {
		t.Fatalf("expected an error for %q", text)
	}
}
