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
	"strings"
)

// EntityType classifies a clause or target parameter: either the design
// entity kind of a synonym, or the shape of a literal parameter.
type EntityType uint8

const (
	// UndefinedType marks a synonym which was never declared.
	UndefinedType EntityType = iota
	// StmtType is a 'stmt' synonym.
	StmtType
	// ReadType is a 'read' synonym.
	ReadType
	// PrintType is a 'print' synonym.
	PrintType
	// CallType is a 'call' synonym.
	CallType
	// WhileType is a 'while' synonym.
	WhileType
	// IfType is an 'if' synonym.
	IfType
	// AssignType is an 'assign' synonym.
	AssignType
	// VariableType is a 'variable' synonym.
	VariableType
	// ConstantType is a 'constant' synonym.
	ConstantType
	// ProcedureType is a 'procedure' synonym.
	ProcedureType
	// ProgLineType is a 'prog_line' synonym.
	ProgLineType
	// NumberType is a literal statement number or line number.
	NumberType
	// NameType is a quoted literal name.
	NameType
	// WildcardType is '_'.
	WildcardType
	// ExpressionType is a full-match pattern expression.
	ExpressionType
	// SubExpressionType is a partial-match pattern expression.
	SubExpressionType
)

// AttributeRefType classifies the attribute accessed by an attrRef.
type AttributeRefType uint8

const (
	// NoAttrRef marks a parameter without an attribute access.
	NoAttrRef AttributeRefType = iota
	// ProcNameRef is '.procName'.
	ProcNameRef
	// VarNameRef is '.varName'.
	VarNameRef
	// ValueRef is '.value'.
	ValueRef
	// StmtNumRef is '.stmt#'.
	StmtNumRef
)

// ClauseType identifies the relation or construct a clause constrains.
type ClauseType uint8

const (
	// FollowsClause is Follows(a, b).
	FollowsClause ClauseType = iota
	// FollowsTClause is Follows*(a, b).
	FollowsTClause
	// ParentClause is Parent(a, b).
	ParentClause
	// ParentTClause is Parent*(a, b).
	ParentTClause
	// UsesSClause is Uses(stmt, var).
	UsesSClause
	// UsesPClause is Uses(proc, var).
	UsesPClause
	// ModifiesSClause is Modifies(stmt, var).
	ModifiesSClause
	// ModifiesPClause is Modifies(proc, var).
	ModifiesPClause
	// CallsClause is Calls(p, q).
	CallsClause
	// CallsTClause is Calls*(p, q).
	CallsTClause
	// NextClause is Next(a, b).
	NextClause
	// NextTClause is Next*(a, b).
	NextTClause
	// AffectsClause is Affects(a, b).
	AffectsClause
	// AffectsTClause is Affects*(a, b).
	AffectsTClause
	// NextBipClause is NextBip(a, b).
	NextBipClause
	// NextBipTClause is NextBip*(a, b).
	NextBipTClause
	// AffectsBipClause is AffectsBip(a, b).
	AffectsBipClause
	// AffectsBipTClause is AffectsBip*(a, b).
	AffectsBipTClause
	// PatternAssignClause is pattern a(v, expr).
	PatternAssignClause
	// PatternIfClause is pattern ifs(v, _, _).
	PatternIfClause
	// PatternWhileClause is pattern w(v, _).
	PatternWhileClause
	// WithClause is with x = y.
	WithClause
)

// Entity is a single clause or target parameter: a synonym (with optional
// attribute reference), or a literal name, number, wildcard or expression.
type Entity struct {
	entityType EntityType
	value      string
	attrRef    AttributeRefType
}

// NewEntity constructs a parameter without an attribute reference.
func NewEntity(entityType EntityType, value string) Entity {
	return Entity{entityType, value, NoAttrRef}
}

// NewAttrRefEntity constructs a synonym parameter with an attribute
// reference.
func NewAttrRefEntity(entityType EntityType, value string, attrRef AttributeRefType) Entity {
	return Entity{entityType, value, attrRef}
}

// Type returns the entity type of this parameter.
func (e Entity) Type() EntityType {
	return e.entityType
}

// Value returns the synonym name or literal text of this parameter.
func (e Entity) Value() string {
	return e.value
}

// AttrRef returns the attribute reference type of this parameter.
func (e Entity) AttrRef() AttributeRefType {
	return e.attrRef
}

// IsSynonym checks whether this parameter names a declared (or undeclared)
// synonym rather than a literal.
func (e Entity) IsSynonym() bool {
	switch e.entityType {
	case NumberType, NameType, WildcardType, ExpressionType, SubExpressionType:
		return false
	default:
		return true
	}
}

// IsWildcard checks whether this parameter is '_'.
func (e Entity) IsWildcard() bool {
	return e.entityType == WildcardType
}

// IsNumber checks whether this parameter is a literal number.
func (e Entity) IsNumber() bool {
	return e.entityType == NumberType
}

// IsName checks whether this parameter is a quoted literal name.
func (e Entity) IsName() bool {
	return e.entityType == NameType
}

// IsExpression checks whether this parameter is a full-match expression.
func (e Entity) IsExpression() bool {
	return e.entityType == ExpressionType
}

// IsSubExpression checks whether this parameter is a partial-match
// expression.
func (e Entity) IsSubExpression() bool {
	return e.entityType == SubExpressionType
}

// IsAttributeRef checks whether this parameter accesses an attribute.
func (e Entity) IsAttributeRef() bool {
	return e.attrRef != NoAttrRef
}

// IsStmtSynonym checks for a 'stmt' synonym.
func (e Entity) IsStmtSynonym() bool { return e.entityType == StmtType }

// IsReadSynonym checks for a 'read' synonym.
func (e Entity) IsReadSynonym() bool { return e.entityType == ReadType }

// IsPrintSynonym checks for a 'print' synonym.
func (e Entity) IsPrintSynonym() bool { return e.entityType == PrintType }

// IsWhileSynonym checks for a 'while' synonym.
func (e Entity) IsWhileSynonym() bool { return e.entityType == WhileType }

// IsIfSynonym checks for an 'if' synonym.
func (e Entity) IsIfSynonym() bool { return e.entityType == IfType }

// IsProgLineSynonym checks for a 'prog_line' synonym.
func (e Entity) IsProgLineSynonym() bool { return e.entityType == ProgLineType }

// Clause is a single constraint of a query.
type Clause struct {
	clauseType ClauseType
	params     []Entity
}

// NewClause constructs a clause of the given type with the given parameters.
func NewClause(clauseType ClauseType, params ...Entity) Clause {
	return Clause{clauseType, params}
}

// Type returns the type of this clause.
func (c Clause) Type() ClauseType {
	return c.clauseType
}

// Params returns the parameters of this clause.
func (c Clause) Params() []Entity {
	return c.params
}

// Query is the parsed representation of a PQL query: one or more select
// targets (or BOOLEAN), a set of clauses, and any accumulated semantic
// errors.
type Query struct {
	targets        []Entity
	clauses        []Clause
	boolean        bool
	semanticErrors []string
}

// AddTarget appends a select target.
func (q *Query) AddTarget(target Entity) {
	q.targets = append(q.targets, target)
}

// AddClause appends a clause.
func (q *Query) AddClause(clause Clause) {
	q.clauses = append(q.clauses, clause)
}

// SetBoolean marks this query as a BOOLEAN query.
func (q *Query) SetBoolean() {
	q.boolean = true
}

// Targets returns the select targets, which is empty for a BOOLEAN query.
func (q *Query) Targets() []Entity {
	return q.targets
}

// Clauses returns the clauses of this query.
func (q *Query) Clauses() []Clause {
	return q.clauses
}

// IsBoolean checks whether this is a BOOLEAN query.
func (q *Query) IsBoolean() bool {
	return q.boolean
}

// AddSemanticError appends a message to the semantic-error buffer.
func (q *Query) AddSemanticError(msg string) {
	q.semanticErrors = append(q.semanticErrors, msg)
}

// HasSemanticErrors checks whether any semantic error was recorded.  A query
// with semantic errors evaluates to the empty result.
func (q *Query) HasSemanticErrors() bool {
	return len(q.semanticErrors) > 0
}

// SemanticErrorMessage returns the accumulated semantic-error buffer.
func (q *Query) SemanticErrorMessage() string {
	return strings.Join(q.semanticErrors, "\n")
}
