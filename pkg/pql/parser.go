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

	"github.com/simplelang/go-spa/pkg/token"
	"github.com/simplelang/go-spa/pkg/util/source"
)

// Mapping from design-entity keywords to entity types.  prog_line is not
// here since it spans three tokens and is handled separately.
var designEntityTypes = map[token.Token]EntityType{
	token.Stmt:      StmtType,
	token.Read:      ReadType,
	token.Print:     PrintType,
	token.Call:      CallType,
	token.While:     WhileType,
	token.If:        IfType,
	token.Assign:    AssignType,
	token.Variable:  VariableType,
	token.Constant:  ConstantType,
	token.Procedure: ProcedureType,
}

// Relations which admit a transitive '*' form.
var transitiveRelations = map[token.Token]bool{
	token.Follows:    true,
	token.Parent:     true,
	token.Calls:      true,
	token.Next:       true,
	token.Affects:    true,
	token.NextBip:    true,
	token.AffectsBip: true,
}

// Mapping from attribute-name tokens to attribute reference types.  'stmt'
// doubles as the design-entity keyword; as an attribute it is followed by
// '#'.
var attrRefTypes = map[token.Token]AttributeRefType{
	token.ProcName: ProcNameRef,
	token.VarName:  VarNameRef,
	token.Value:    ValueRef,
	token.Stmt:     StmtNumRef,
}

// Synonym types which refer to a statement.
var stmtRefTypes = map[EntityType]bool{
	StmtType:     true,
	ReadType:     true,
	PrintType:    true,
	CallType:     true,
	WhileType:    true,
	IfType:       true,
	AssignType:   true,
	ProgLineType: true,
}

// Semantically valid (synonym type, attribute) pairs.
var validAttrRefs = map[EntityType]map[AttributeRefType]bool{
	ProcedureType: {ProcNameRef: true},
	CallType:      {ProcNameRef: true, StmtNumRef: true},
	VariableType:  {VarNameRef: true},
	ReadType:      {VarNameRef: true, StmtNumRef: true},
	PrintType:     {VarNameRef: true, StmtNumRef: true},
	ConstantType:  {ValueRef: true},
	StmtType:      {StmtNumRef: true},
	WhileType:     {StmtNumRef: true},
	IfType:        {StmtNumRef: true},
	AssignType:    {StmtNumRef: true},
}

// removeLeadingZeros canonicalises a numeric literal, mapping all-zero input
// to "0".
func removeLeadingZeros(number string) string {
	for i := 0; i < len(number); i++ {
		if number[i] != '0' {
			return number[i:]
		}
	}
	//
	return "0"
}

// isNumberRef decides whether a with-clause parameter compares as a number
// (as opposed to a name).
func isNumberRef(e Entity) bool {
	if e.IsNumber() {
		return true
	}
	//
	if e.IsProgLineSynonym() && !e.IsAttributeRef() {
		return true
	}
	//
	return e.AttrRef() == ValueRef || e.AttrRef() == StmtNumRef
}

// clauseKind tracks which clause keyword an 'and' continues.
type clauseKind uint8

const (
	noClause clauseKind = iota
	suchThatClause
	patternClause
	withClause
)

// Parser is a recursive-descent parser over a PQL token list produced by
// the whitespace-retaining tokeniser configuration.  Syntax errors abort
// parsing; semantic errors accumulate on the query being built.
type Parser struct {
	tokens   []token.Token
	index    int
	synonyms map[string]EntityType
	query    Query
}

// NewParser constructs a parser for the given token list.
func NewParser(tokens []token.Token) *Parser {
	return &Parser{
		tokens:   tokens,
		synonyms: make(map[string]EntityType),
	}
}

// Parse the query, returning its representation or a fatal (lex/syntax)
// error.  Semantic errors do not fail the parse; they are carried on the
// returned query.
func (p *Parser) Parse() (Query, *source.Error) {
	p.consumeWhitespace()
	//
	if err := p.parseDeclarations(); err != nil {
		return Query{}, err
	}
	//
	if err := p.parseBody(); err != nil {
		return Query{}, err
	}
	// Check for unexpected tokens at the end of the query
	if p.index < len(p.tokens) {
		return Query{}, source.NewSyntaxError(
			fmt.Sprintf("Unexpected additional tokens. Received: %s", p.tokens[p.index].Value))
	}
	//
	return p.query, nil
}

// ============================================================================
// Declarations
// ============================================================================

func (p *Parser) parseDeclarations() *source.Error {
	for {
		front, err := p.front()
		if err != nil {
			return err
		}
		//
		if front == token.Select {
			return nil
		}
		//
		if err := p.parseDeclaration(); err != nil {
			return err
		}
	}
}

// declaration : design-entity synonym (',' synonym)* ';'
func (p *Parser) parseDeclaration() *source.Error {
	// Do not consume whitespace yet (for prog_line)
	designEntity, err := p.expectNoWs(token.AnyIdentifier)
	if err != nil {
		return err
	}
	//
	entityType, ok := designEntityTypes[designEntity]
	//
	switch {
	case designEntity == token.Prog:
		// prog_line is three tokens with no whitespace between them
		if _, err := p.expectNoWs(token.Underscore); err != nil {
			return err
		}
		//
		if _, err := p.expectNoWs(token.Line); err != nil {
			return err
		}
		//
		entityType = ProgLineType
	case !ok:
		return source.NewSyntaxError(
			fmt.Sprintf("Invalid design entity. Received: %s", designEntity.Value))
	}
	//
	p.consumeWhitespace()
	// Parse first synonym
	if err := p.parseDeclarationSynonym(entityType); err != nil {
		return err
	}
	// Parse additional synonyms
	for {
		front, err := p.front()
		if err != nil {
			return err
		}
		//
		if front == token.Semicolon {
			break
		}
		//
		if _, err := p.expect(token.Comma); err != nil {
			return err
		}
		//
		if err := p.parseDeclarationSynonym(entityType); err != nil {
			return err
		}
	}
	//
	_, err = p.expect(token.Semicolon)
	//
	return err
}

func (p *Parser) parseDeclarationSynonym(entityType EntityType) *source.Error {
	synonym, err := p.expect(token.AnyIdentifier)
	if err != nil {
		return err
	}
	// Disallow a synonym named 'BOOLEAN' to avoid confusion
	if synonym == token.Boolean {
		p.query.AddSemanticError("[PQL Semantic Error] A synonym cannot be declared with the name BOOLEAN.")
		return nil
	}
	//
	if _, declared := p.synonyms[synonym.Value]; declared {
		p.query.AddSemanticError(
			fmt.Sprintf("[PQL Semantic Error] Duplicate synonym declaration. Received: %s", synonym.Value))
		return nil
	}
	//
	p.synonyms[synonym.Value] = entityType
	//
	return nil
}

// ============================================================================
// Body
// ============================================================================

func (p *Parser) parseBody() *source.Error {
	if _, err := p.expect(token.Select); err != nil {
		return err
	}
	//
	if err := p.parseSelectTargets(); err != nil {
		return err
	}
	//
	return p.parseClauses()
}

func (p *Parser) parseSelectTargets() *source.Error {
	front, err := p.front()
	if err != nil {
		return err
	}
	//
	switch front {
	case token.Boolean:
		p.advance()
		p.consumeWhitespace()
		p.query.SetBoolean()
	case token.LeftAngle:
		// Tuple select
		p.advance()
		p.consumeWhitespace()
		//
		if err := p.parseSelectTarget(); err != nil {
			return err
		}
		//
		for p.frontIs(token.Comma) {
			p.advance()
			p.consumeWhitespace()
			//
			if err := p.parseSelectTarget(); err != nil {
				return err
			}
		}
		//
		if _, err := p.expect(token.RightAngle); err != nil {
			return err
		}
	default:
		return p.parseSelectTarget()
	}
	//
	return nil
}

func (p *Parser) parseSelectTarget() *source.Error {
	synonym, err := p.expect(token.AnyIdentifier)
	if err != nil {
		return err
	}
	//
	entityType := p.synonymType(synonym.Value)
	attrRef := NoAttrRef
	// Check if select target is an attrRef
	if p.frontIs(token.Dot) {
		p.advance()
		p.consumeWhitespace()
		//
		if attrRef, err = p.parseAttributeName(entityType); err != nil {
			return err
		}
	}
	//
	p.query.AddTarget(NewAttrRefEntity(entityType, synonym.Value, attrRef))
	//
	return nil
}

// parseAttributeName parses the attribute name after a '.', enforcing the
// no-whitespace rule of 'stmt#' and checking the attribute fits the synonym
// type.
func (p *Parser) parseAttributeName(entityType EntityType) (AttributeRefType, *source.Error) {
	// Don't consume whitespace yet, for 'stmt#'
	attrName, err := p.expectNoWs(token.AnyIdentifier)
	if err != nil {
		return NoAttrRef, err
	}
	//
	attrRef, ok := attrRefTypes[attrName]
	if !ok {
		return NoAttrRef, source.NewSyntaxError(
			fmt.Sprintf("Invalid attribute name. Received: %s", attrName.Value))
	}
	//
	if attrName == token.Stmt {
		if _, err := p.expectNoWs(token.NumberSign); err != nil {
			return NoAttrRef, err
		}
	}
	//
	p.consumeWhitespace()
	// Check the synonym has the attribute
	if !validAttrRefs[entityType][attrRef] {
		p.query.AddSemanticError(
			fmt.Sprintf("[PQL Semantic Error] Invalid attribute name for the synonym type. Received: %s", attrName.Value))
	}
	//
	return attrRef, nil
}

// ============================================================================
// Clauses
// ============================================================================

func (p *Parser) parseClauses() *source.Error {
	current := noClause
	//
	for p.index < len(p.tokens) {
		front := p.tokens[p.index]
		//
		switch front {
		case token.Such:
			// 'such that' requires exactly one space between the words
			p.advance()
			//
			if _, err := p.expectNoWs(token.Space); err != nil {
				return err
			}
			//
			if _, err := p.expect(token.That); err != nil {
				return err
			}
			//
			if err := p.parseSuchThatClause(); err != nil {
				return err
			}
			//
			current = suchThatClause
		case token.Pattern:
			p.advance()
			p.consumeWhitespace()
			//
			if err := p.parsePatternClause(); err != nil {
				return err
			}
			//
			current = patternClause
		case token.With:
			p.advance()
			p.consumeWhitespace()
			//
			if err := p.parseWithClause(); err != nil {
				return err
			}
			//
			current = withClause
		case token.And:
			p.advance()
			p.consumeWhitespace()
			//
			var err *source.Error
			//
			switch current {
			case suchThatClause:
				err = p.parseSuchThatClause()
			case patternClause:
				err = p.parsePatternClause()
			case withClause:
				err = p.parseWithClause()
			default:
				err = source.NewSyntaxError(
					fmt.Sprintf("Expected: such/pattern/with. Received: %s", front.Value))
			}
			//
			if err != nil {
				return err
			}
		default:
			// Additional tokens will be caught by Parse()
			return nil
		}
	}
	//
	return nil
}

func (p *Parser) parseSuchThatClause() *source.Error {
	// Do not consume whitespace yet: no space is permitted between a
	// relation name and '*'
	relation, err := p.expectNoWs(token.AnyIdentifier)
	if err != nil {
		return err
	}
	//
	transitive := false
	//
	if p.frontIsNoWs(token.Star) {
		if !transitiveRelations[relation] {
			return source.NewSyntaxError("Expected: (. Received: *")
		}
		//
		p.advance()
		//
		transitive = true
	}
	//
	p.consumeWhitespace()
	//
	switch relation {
	case token.Follows:
		return p.parseStmtAndStmtArgs(pick(transitive, FollowsTClause, FollowsClause))
	case token.Parent:
		return p.parseStmtAndStmtArgs(pick(transitive, ParentTClause, ParentClause))
	case token.Next:
		return p.parseStmtAndStmtArgs(pick(transitive, NextTClause, NextClause))
	case token.Affects:
		return p.parseStmtAndStmtArgs(pick(transitive, AffectsTClause, AffectsClause))
	case token.NextBip:
		return p.parseStmtAndStmtArgs(pick(transitive, NextBipTClause, NextBipClause))
	case token.AffectsBip:
		return p.parseStmtAndStmtArgs(pick(transitive, AffectsBipTClause, AffectsBipClause))
	case token.Calls:
		return p.parseProcAndProcArgs(pick(transitive, CallsTClause, CallsClause))
	case token.Uses:
		return p.parseUsesModifiesClause(UsesPClause, UsesSClause)
	case token.Modifies:
		return p.parseUsesModifiesClause(ModifiesPClause, ModifiesSClause)
	default:
		return source.NewSyntaxError(
			fmt.Sprintf("Invalid relation. Received: %s", relation.Value))
	}
}

// '(' stmtRef ',' stmtRef ')'
func (p *Parser) parseStmtAndStmtArgs(clauseType ClauseType) *source.Error {
	var clause Clause
	clause.clauseType = clauseType
	//
	if _, err := p.expect(token.LeftParen); err != nil {
		return err
	}
	//
	if err := p.parseStmtRef(&clause); err != nil {
		return err
	}
	//
	if _, err := p.expect(token.Comma); err != nil {
		return err
	}
	//
	if err := p.parseStmtRef(&clause); err != nil {
		return err
	}
	//
	if _, err := p.expect(token.RightParen); err != nil {
		return err
	}
	//
	p.query.AddClause(clause)
	//
	return nil
}

// '(' procRef ',' procRef ')'
func (p *Parser) parseProcAndProcArgs(clauseType ClauseType) *source.Error {
	var clause Clause
	clause.clauseType = clauseType
	//
	if _, err := p.expect(token.LeftParen); err != nil {
		return err
	}
	//
	if err := p.parseProcRef(&clause); err != nil {
		return err
	}
	//
	if _, err := p.expect(token.Comma); err != nil {
		return err
	}
	//
	if err := p.parseProcRef(&clause); err != nil {
		return err
	}
	//
	if _, err := p.expect(token.RightParen); err != nil {
		return err
	}
	//
	p.query.AddClause(clause)
	//
	return nil
}

// 'Uses'/'Modifies' take either a stmtRef or an entRef as first argument;
// the choice between the statement and procedure variant is made from the
// shape of that argument.
func (p *Parser) parseUsesModifiesClause(procType ClauseType, stmtType ClauseType) *source.Error {
	var clause Clause
	//
	if _, err := p.expect(token.LeftParen); err != nil {
		return err
	}
	//
	front, err := p.front()
	if err != nil {
		return err
	}
	//
	switch {
	case front == token.Underscore:
		// A wildcard first argument is ambiguous, hence disallowed
		p.advance()
		p.consumeWhitespace()
		p.query.AddSemanticError("[PQL Semantic Error] A wildcard cannot be the first argument of Uses/Modifies.")
		clause.clauseType = procType
		clause.params = append(clause.params, NewEntity(WildcardType, "_"))
	case front.Is(token.AnyNumber):
		clause.clauseType = stmtType
		//
		if err := p.parseStmtRef(&clause); err != nil {
			return err
		}
	case front == token.Quote:
		clause.clauseType = procType
		//
		if err := p.parseProcRef(&clause); err != nil {
			return err
		}
	case front.Kind == token.IDENTIFIER:
		if stmtRefTypes[p.synonymType(front.Value)] {
			clause.clauseType = stmtType
			//
			if err := p.parseStmtRef(&clause); err != nil {
				return err
			}
		} else {
			clause.clauseType = procType
			//
			if err := p.parseProcRef(&clause); err != nil {
				return err
			}
		}
	default:
		return source.NewSyntaxError(
			fmt.Sprintf("Unexpected token. Received: %s", front.Value))
	}
	//
	if _, err := p.expect(token.Comma); err != nil {
		return err
	}
	//
	if err := p.parseVarRef(&clause); err != nil {
		return err
	}
	//
	if _, err := p.expect(token.RightParen); err != nil {
		return err
	}
	//
	p.query.AddClause(clause)
	//
	return nil
}

// ============================================================================
// Pattern clauses
// ============================================================================

func (p *Parser) parsePatternClause() *source.Error {
	synonym, err := p.expect(token.AnyIdentifier)
	if err != nil {
		return err
	}
	//
	entityType := p.synonymType(synonym.Value)
	//
	switch entityType {
	case AssignType:
		return p.parsePatternAssignClause(synonym.Value)
	case IfType:
		return p.parsePatternIfClause(synonym.Value)
	case WhileType:
		return p.parsePatternWhileClause(synonym.Value)
	default:
		p.query.AddSemanticError(
			fmt.Sprintf("[PQL Semantic Error] Synonym cannot appear in a pattern clause. Received: %s", synonym.Value))
		//
		return p.parsePatternInvalidClause(synonym.Value, entityType)
	}
}

// assign : syn-assign '(' entRef ',' expression-spec ')'
func (p *Parser) parsePatternAssignClause(synonymName string) *source.Error {
	clause := Clause{PatternAssignClause, []Entity{NewEntity(AssignType, synonymName)}}
	//
	if _, err := p.expect(token.LeftParen); err != nil {
		return err
	}
	//
	if err := p.parseVarRef(&clause); err != nil {
		return err
	}
	//
	if _, err := p.expect(token.Comma); err != nil {
		return err
	}
	//
	if err := p.parseExprSpec(&clause); err != nil {
		return err
	}
	//
	if _, err := p.expect(token.RightParen); err != nil {
		return err
	}
	//
	p.query.AddClause(clause)
	//
	return nil
}

// if : syn-if '(' entRef ',' '_' ',' '_' ')'
func (p *Parser) parsePatternIfClause(synonymName string) *source.Error {
	clause := Clause{PatternIfClause, []Entity{NewEntity(IfType, synonymName)}}
	//
	if _, err := p.expect(token.LeftParen); err != nil {
		return err
	}
	//
	if err := p.parseVarRef(&clause); err != nil {
		return err
	}
	//
	for _, expected := range []token.Token{token.Comma, token.Underscore, token.Comma, token.Underscore, token.RightParen} {
		if _, err := p.expect(expected); err != nil {
			return err
		}
	}
	//
	p.query.AddClause(clause)
	//
	return nil
}

// while : syn-while '(' entRef ',' '_' ')'
func (p *Parser) parsePatternWhileClause(synonymName string) *source.Error {
	clause := Clause{PatternWhileClause, []Entity{NewEntity(WhileType, synonymName)}}
	//
	if _, err := p.expect(token.LeftParen); err != nil {
		return err
	}
	//
	if err := p.parseVarRef(&clause); err != nil {
		return err
	}
	//
	for _, expected := range []token.Token{token.Comma, token.Underscore, token.RightParen} {
		if _, err := p.expect(expected); err != nil {
			return err
		}
	}
	//
	p.query.AddClause(clause)
	//
	return nil
}

// A pattern clause on a synonym of the wrong type is a semantic error, but
// the tail must still be consumed gracefully as either the two-argument or
// three-argument form.
func (p *Parser) parsePatternInvalidClause(synonymName string, entityType EntityType) *source.Error {
	temp := Clause{PatternAssignClause, []Entity{NewEntity(entityType, synonymName)}}
	//
	if _, err := p.expect(token.LeftParen); err != nil {
		return err
	}
	//
	if err := p.parseVarRef(&temp); err != nil {
		return err
	}
	//
	if _, err := p.expect(token.Comma); err != nil {
		return err
	}
	//
	if err := p.parseExprSpec(&temp); err != nil {
		return err
	}
	//
	front, err := p.front()
	if err != nil {
		return err
	}
	//
	if front == token.RightParen { // two arguments
		p.advance()
		p.consumeWhitespace()
		p.query.AddClause(temp)
		//
		return nil
	}
	// three arguments
	for _, expected := range []token.Token{token.Comma, token.Underscore, token.RightParen} {
		if _, err := p.expect(expected); err != nil {
			return err
		}
	}
	// The second argument of the three-argument form must be a wildcard
	if !temp.params[2].IsWildcard() {
		return source.NewSyntaxError(
			fmt.Sprintf("Expected: _. Received: %s", temp.params[2].Value()))
	}
	//
	p.query.AddClause(Clause{PatternIfClause, []Entity{temp.params[0], temp.params[1]}})
	//
	return nil
}

// ============================================================================
// With clauses
// ============================================================================

func (p *Parser) parseWithClause() *source.Error {
	clause := Clause{WithClause, nil}
	//
	if err := p.parseRef(&clause); err != nil {
		return err
	}
	//
	if _, err := p.expect(token.Equal); err != nil {
		return err
	}
	//
	if err := p.parseRef(&clause); err != nil {
		return err
	}
	// Verify both sides compare in the same domain
	if len(clause.params) == 2 && isNumberRef(clause.params[0]) != isNumberRef(clause.params[1]) {
		p.query.AddSemanticError("[PQL Semantic Error] A with clause cannot compare a name with a number.")
	}
	//
	p.query.AddClause(clause)
	//
	return nil
}

// ref : '"' IDENT '"' | INTEGER | attrRef | prog_line-synonym
func (p *Parser) parseRef(clause *Clause) *source.Error {
	front, err := p.front()
	if err != nil {
		return err
	}
	//
	switch {
	case front == token.Quote:
		p.advance()
		p.consumeWhitespace()
		//
		name, err := p.expect(token.AnyIdentifier)
		if err != nil {
			return err
		}
		//
		if _, err := p.expect(token.Quote); err != nil {
			return err
		}
		//
		clause.params = append(clause.params, NewEntity(NameType, name.Value))
	case front.Is(token.AnyNumber):
		p.advance()
		p.consumeWhitespace()
		clause.params = append(clause.params, NewEntity(NumberType, removeLeadingZeros(front.Value)))
	case front.Kind == token.IDENTIFIER:
		p.advance()
		p.consumeWhitespace()
		//
		entityType := p.synonymType(front.Value)
		//
		if entityType == ProgLineType {
			clause.params = append(clause.params, NewEntity(entityType, front.Value))
			return nil
		}
		// Anything else must be an attrRef
		if !p.frontIs(token.Dot) {
			p.query.AddSemanticError(
				fmt.Sprintf("[PQL Semantic Error] Synonym in a with clause must have an attribute reference. Received: %s", front.Value))
			clause.params = append(clause.params, NewEntity(entityType, front.Value))
			//
			return nil
		}
		//
		p.advance()
		p.consumeWhitespace()
		//
		attrRef, err := p.parseAttributeName(entityType)
		if err != nil {
			return err
		}
		//
		clause.params = append(clause.params, NewAttrRefEntity(entityType, front.Value, attrRef))
	default:
		return source.NewSyntaxError(
			fmt.Sprintf("Unexpected token. Received: %s", front.Value))
	}
	//
	return nil
}

// ============================================================================
// Shared argument parsers
// ============================================================================

// stmtRef : synonym | '_' | INTEGER
func (p *Parser) parseStmtRef(clause *Clause) *source.Error {
	front, err := p.front()
	if err != nil {
		return err
	}
	//
	switch {
	case front.Kind == token.IDENTIFIER:
		p.advance()
		p.consumeWhitespace()
		//
		entityType := p.synonymType(front.Value)
		if !stmtRefTypes[entityType] {
			p.query.AddSemanticError(
				fmt.Sprintf("[PQL Semantic Error] Synonym does not refer to a statement. Received: %s", front.Value))
		}
		//
		clause.params = append(clause.params, NewEntity(entityType, front.Value))
	case front == token.Underscore:
		p.advance()
		p.consumeWhitespace()
		clause.params = append(clause.params, NewEntity(WildcardType, "_"))
	case front.Is(token.AnyNumber):
		p.advance()
		p.consumeWhitespace()
		//
		number := removeLeadingZeros(front.Value)
		if number == "0" {
			p.query.AddSemanticError("[PQL Semantic Error] Statement number cannot be 0.")
		}
		//
		clause.params = append(clause.params, NewEntity(NumberType, number))
	default:
		return source.NewSyntaxError(
			fmt.Sprintf("Unexpected token. Received: %s", front.Value))
	}
	//
	return nil
}

// varRef : variable-synonym | '_' | '"' IDENT '"'
func (p *Parser) parseVarRef(clause *Clause) *source.Error {
	return p.parseEntRef(clause, func(t EntityType) bool { return t == VariableType })
}

// procRef : procedure-synonym | '_' | '"' IDENT '"'
func (p *Parser) parseProcRef(clause *Clause) *source.Error {
	return p.parseEntRef(clause, func(t EntityType) bool { return t == ProcedureType })
}

func (p *Parser) parseEntRef(clause *Clause, refTypeCheck func(EntityType) bool) *source.Error {
	front, err := p.front()
	if err != nil {
		return err
	}
	//
	switch {
	case front.Kind == token.IDENTIFIER:
		p.advance()
		p.consumeWhitespace()
		//
		entityType := p.synonymType(front.Value)
		if !refTypeCheck(entityType) {
			p.query.AddSemanticError(
				fmt.Sprintf("[PQL Semantic Error] Synonym does not refer to the required entity. Received: %s", front.Value))
		}
		//
		clause.params = append(clause.params, NewEntity(entityType, front.Value))
	case front == token.Underscore:
		p.advance()
		p.consumeWhitespace()
		clause.params = append(clause.params, NewEntity(WildcardType, "_"))
	case front == token.Quote:
		p.advance()
		p.consumeWhitespace()
		//
		name, err := p.expect(token.AnyIdentifier)
		if err != nil {
			return err
		}
		//
		if _, err := p.expect(token.Quote); err != nil {
			return err
		}
		//
		clause.params = append(clause.params, NewEntity(NameType, name.Value))
	default:
		return source.NewSyntaxError(
			fmt.Sprintf("Unexpected token. Received: %s", front.Value))
	}
	//
	return nil
}

// expression-spec : '"' expr '"' | '_' '"' expr '"' '_' | '_'
func (p *Parser) parseExprSpec(clause *Clause) *source.Error {
	front, err := p.front()
	if err != nil {
		return err
	}
	//
	if front == token.Quote {
		return p.parseExpression(clause, true)
	}
	//
	if _, err := p.expect(token.Underscore); err != nil {
		return err
	}
	//
	front, err = p.front()
	if err != nil {
		return err
	}
	//
	if front == token.Quote {
		if err := p.parseExpression(clause, false); err != nil {
			return err
		}
		//
		if _, err := p.expectNoWs(token.Underscore); err != nil {
			return err
		}
	} else {
		clause.params = append(clause.params, NewEntity(WildcardType, "_"))
	}
	//
	p.consumeWhitespace()
	//
	return nil
}

func (p *Parser) parseExpression(clause *Clause, exactMatch bool) *source.Error {
	if _, err := p.expect(token.Quote); err != nil {
		return err
	}
	// Collect the infix expression tokens between the quotes
	var infix []token.Token
	//
	for {
		front, err := p.front()
		if err != nil {
			return err
		}
		//
		if front == token.Quote {
			break
		}
		//
		if front.Is(token.AnyNumber) {
			// Canonicalise numeric literals
			front = token.New(token.NUMBER, removeLeadingZeros(front.Value))
		}
		//
		infix = append(infix, front)
		p.advance()
		p.consumeWhitespace()
	}
	//
	if _, err := p.expect(token.Quote); err != nil {
		return err
	}
	//
	postfix, err := InfixToPostfix(infix)
	if err != nil {
		return err
	}
	//
	entityType := SubExpressionType
	if exactMatch {
		entityType = ExpressionType
	}
	//
	clause.params = append(clause.params, NewEntity(entityType, postfix))
	//
	return nil
}

// ============================================================================
// Token-stream helpers
// ============================================================================

// front returns the next token without consuming it, failing when the
// stream is exhausted.
func (p *Parser) front() (token.Token, *source.Error) {
	if p.index >= len(p.tokens) {
		return token.Token{}, source.NewSyntaxError("Unexpected end of query.")
	}
	//
	return p.tokens[p.index], nil
}

// frontIs checks the next token against an expected one, returning false at
// end of stream.
func (p *Parser) frontIs(expected token.Token) bool {
	return p.index < len(p.tokens) && p.tokens[p.index].Is(expected)
}

// frontIsNoWs is frontIs (the parser never skips whitespace implicitly, so
// the two coincide; the name documents intent at whitespace-sensitive call
// sites).
func (p *Parser) frontIsNoWs(expected token.Token) bool {
	return p.frontIs(expected)
}

// advance consumes the next token.
func (p *Parser) advance() {
	p.index++
}

// expect validates the next token against the given one (kind-only when the
// expected value is empty), consumes it, and then skips any whitespace.
func (p *Parser) expect(expected token.Token) (token.Token, *source.Error) {
	tok, err := p.expectNoWs(expected)
	if err != nil {
		return tok, err
	}
	//
	p.consumeWhitespace()
	//
	return tok, nil
}

// expectNoWs is expect without the trailing whitespace consumption, for the
// whitespace-sensitive spots of the grammar.
func (p *Parser) expectNoWs(expected token.Token) (token.Token, *source.Error) {
	front, err := p.front()
	if err != nil {
		return token.Token{}, err
	}
	//
	if !front.Is(expected) {
		if expected.Value == "" {
			return token.Token{}, source.NewSyntaxError(
				fmt.Sprintf("Unexpected token. Received: %s", front.Value))
		}
		//
		return token.Token{}, source.NewSyntaxError(
			fmt.Sprintf("Expected: %s. Received: %s", expected.Value, front.Value))
	}
	//
	p.advance()
	//
	return front, nil
}

// consumeWhitespace skips any whitespace tokens at the front of the stream.
func (p *Parser) consumeWhitespace() {
	for p.index < len(p.tokens) && p.tokens[p.index].Kind == token.WHITESPACE {
		p.index++
	}
}

// synonymType looks up a synonym's declared type, recording a semantic
// error for undeclared synonyms.
func (p *Parser) synonymType(name string) EntityType {
	entityType, declared := p.synonyms[name]
	if !declared {
		p.query.AddSemanticError(
			fmt.Sprintf("[PQL Semantic Error] Undeclared synonym. Received: %s", name))
		//
		return UndefinedType
	}
	//
	return entityType
}

// pick returns the first clause type when the condition holds, and the
// second otherwise.
func pick(cond bool, a ClauseType, b ClauseType) ClauseType {
	if cond {
		return a
	}
	//
	return b
}
