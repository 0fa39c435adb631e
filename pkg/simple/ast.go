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

// Program is a parsed SIMPLE program: one or more procedures.
type Program struct {
	Procedures []*Procedure
}

// Procedure is a named statement list.
type Procedure struct {
	Name string
	Body []Stmt
}

// Stmt is implemented by every SIMPLE statement.  Statement numbers are
// assigned in source order starting from 1.
type Stmt interface {
	StmtNum() int
}

// ReadStmt is 'read v;'.
type ReadStmt struct {
	Num int
	Var string
}

// PrintStmt is 'print v;'.
type PrintStmt struct {
	Num int
	Var string
}

// CallStmt is 'call p;'.
type CallStmt struct {
	Num  int
	Proc string
}

// AssignStmt is 'v = expr;'.
type AssignStmt struct {
	Num int
	Lhs string
	Rhs Expr
}

// WhileStmt is 'while (cond) { ... }'.
type WhileStmt struct {
	Num  int
	Cond CondExpr
	Body []Stmt
}

// IfStmt is 'if (cond) then { ... } else { ... }'.
type IfStmt struct {
	Num  int
	Cond CondExpr
	Then []Stmt
	Else []Stmt
}

// StmtNum returns the statement number.
func (s *ReadStmt) StmtNum() int { return s.Num }

// StmtNum returns the statement number.
func (s *PrintStmt) StmtNum() int { return s.Num }

// StmtNum returns the statement number.
func (s *CallStmt) StmtNum() int { return s.Num }

// StmtNum returns the statement number.
func (s *AssignStmt) StmtNum() int { return s.Num }

// StmtNum returns the statement number.
func (s *WhileStmt) StmtNum() int { return s.Num }

// StmtNum returns the statement number.
func (s *IfStmt) StmtNum() int { return s.Num }

// Expr is implemented by arithmetic expressions.
type Expr interface {
	isExpr()
}

// VarExpr is a variable reference.
type VarExpr struct {
	Name string
}

// ConstExpr is an integer constant, kept as its canonical decimal text.
type ConstExpr struct {
	Value string
}

// BinaryExpr is a binary arithmetic operation.
type BinaryExpr struct {
	Op  string
	Lhs Expr
	Rhs Expr
}

func (e *VarExpr) isExpr()    {}
func (e *ConstExpr) isExpr()  {}
func (e *BinaryExpr) isExpr() {}

// CondExpr is implemented by condition expressions.
type CondExpr interface {
	isCond()
}

// NotCond is '!(cond)'.
type NotCond struct {
	Cond CondExpr
}

// AndCond is '(cond) && (cond)'.
type AndCond struct {
	Lhs CondExpr
	Rhs CondExpr
}

// OrCond is '(cond) || (cond)'.
type OrCond struct {
	Lhs CondExpr
	Rhs CondExpr
}

// RelCond is a relational comparison of two arithmetic expressions.
type RelCond struct {
	Op  string
	Lhs Expr
	Rhs Expr
}

func (c *NotCond) isCond() {}
func (c *AndCond) isCond() {}
func (c *OrCond) isCond()  {}
func (c *RelCond) isCond() {}
