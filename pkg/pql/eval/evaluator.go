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
package eval

import (
	"strconv"
	"strings"

	"github.com/simplelang/go-spa/pkg/interner"
	"github.com/simplelang/go-spa/pkg/pkb"
	"github.com/simplelang/go-spa/pkg/pql"
	"github.com/simplelang/go-spa/pkg/table"
)

// Evaluator turns a parsed query into a sequence of relation lookups,
// filters and joins over the knowledge base, projecting the final table back
// to user-visible names.
type Evaluator struct {
	pkb   *pkb.Pkb
	query *pql.Query
}

// NewEvaluator constructs an evaluator for the given knowledge base and
// query.
func NewEvaluator(kb *pkb.Pkb, query *pql.Query) *Evaluator {
	return &Evaluator{kb, query}
}

// EvaluateQuery produces the result list for this evaluator's query.  A
// query carrying semantic errors, or one whose clauses are provably
// unsatisfiable, yields the empty result ("FALSE" for BOOLEAN queries).
func (p *Evaluator) EvaluateQuery() []string {
	if p.query.HasSemanticErrors() || p.canShortCircuit() {
		return p.extractResults(table.New(1))
	}
	//
	return p.extractResults(p.executeQuery())
}

// ============================================================================
// Short-circuit scan
// ============================================================================

// canShortCircuit scans the clauses for provably-empty conditions, allowing
// evaluation to be skipped entirely.
func (p *Evaluator) canShortCircuit() bool {
	for _, clause := range p.query.Clauses() {
		params := clause.Params()
		//
		switch clause.Type() {
		case pql.FollowsClause, pql.FollowsTClause:
			if isSelfRelated(params[0], params[1]) || isDescendingPair(params[0], params[1]) {
				return true
			}
		case pql.ParentClause, pql.ParentTClause:
			if isSelfRelated(params[0], params[1]) || isDescendingPair(params[0], params[1]) {
				return true
			}
			// Only container statements can be parents
			lhs := params[0]
			isContainer := lhs.IsStmtSynonym() || lhs.IsWhileSynonym() ||
				lhs.IsIfSynonym() || lhs.IsProgLineSynonym()
			//
			if lhs.IsSynonym() && !isContainer {
				return true
			}
		case pql.UsesSClause:
			// A read statement never uses anything
			if params[0].IsReadSynonym() {
				return true
			}
		case pql.ModifiesSClause:
			// A print statement never modifies anything
			if params[0].IsPrintSynonym() {
				return true
			}
		}
	}
	//
	return false
}

// isSelfRelated checks for a non-wildcard parameter related to itself.
func isSelfRelated(lhs pql.Entity, rhs pql.Entity) bool {
	return !lhs.IsWildcard() && lhs == rhs
}

// isDescendingPair checks for two literal numbers with the right-hand side
// before the left.
func isDescendingPair(lhs pql.Entity, rhs pql.Entity) bool {
	if !lhs.IsNumber() || !rhs.IsNumber() {
		return false
	}
	//
	a, _ := strconv.Atoi(lhs.Value())
	b, _ := strconv.Atoi(rhs.Value())
	//
	return b < a
}

// ============================================================================
// Execution
// ============================================================================

// executeQuery evaluates every clause in scheduled order and assembles the
// final result table.
func (p *Evaluator) executeQuery() *table.Table {
	var clauseResults []*table.Table
	//
	for _, group := range SortClauses(p.query.Targets(), p.query.Clauses()) {
		for _, clause := range group {
			result := p.executeClause(clause)
			if result.Empty() {
				// short circuit
				return table.New(1)
			}
			//
			clauseResults = append(clauseResults, result)
		}
	}
	// Start from the one-row sentinel
	final := trueTable()
	//
	for _, result := range clauseResults {
		if anonymousOnly(result) {
			// A pure existence check; non-emptiness was already observed
			continue
		}
		// Drop the (at most one) anonymous column, then fold in
		result.DropColumnNamed("")
		final.NaturalJoin(result)
		//
		if final.Empty() {
			return final
		}
	}
	// Join in any query target not yet constrained by a clause
	for _, target := range p.query.Targets() {
		if final.ColumnIndex(target.Value()) >= 0 {
			continue
		}
		//
		universe := p.tableFromEntity(target)
		universe.SetHeader(target.Value())
		final.NaturalJoin(universe)
	}
	//
	return final
}

// executeClause fetches the backing relation of a clause and constrains it
// with the clause parameters.
func (p *Evaluator) executeClause(clause pql.Clause) *table.Table {
	switch clause.Type() {
	case pql.FollowsClause:
		return p.suchThatTable(p.pkb.FollowsTable(), clause)
	case pql.FollowsTClause:
		return p.suchThatTable(p.pkb.FollowsTTable(), clause)
	case pql.ParentClause:
		return p.suchThatTable(p.pkb.ParentTable(), clause)
	case pql.ParentTClause:
		return p.suchThatTable(p.pkb.ParentTTable(), clause)
	case pql.UsesSClause:
		return p.suchThatTable(p.pkb.UsesSTable(), clause)
	case pql.UsesPClause:
		return p.suchThatTable(p.pkb.UsesPTable(), clause)
	case pql.ModifiesSClause:
		return p.suchThatTable(p.pkb.ModifiesSTable(), clause)
	case pql.ModifiesPClause:
		return p.suchThatTable(p.pkb.ModifiesPTable(), clause)
	case pql.CallsClause:
		return p.suchThatTable(p.pkb.CallsTable(), clause)
	case pql.CallsTClause:
		return p.suchThatTable(p.pkb.CallsTTable(), clause)
	case pql.NextClause:
		return p.suchThatTable(p.pkb.NextTable(), clause)
	case pql.NextTClause:
		return p.suchThatTable(p.pkb.NextTTable(), clause)
	case pql.AffectsClause:
		return p.suchThatTable(p.pkb.AffectsTable(), clause)
	case pql.AffectsTClause:
		return p.suchThatTable(p.pkb.AffectsTTable(), clause)
	case pql.NextBipClause:
		return p.suchThatTable(p.pkb.NextBipTable(), clause)
	case pql.NextBipTClause:
		return p.suchThatTable(p.pkb.NextBipTTable(), clause)
	case pql.AffectsBipClause:
		return p.suchThatTable(p.pkb.AffectsBipTable(), clause)
	case pql.AffectsBipTClause:
		return p.suchThatTable(p.pkb.AffectsBipTTable(), clause)
	case pql.PatternAssignClause:
		return p.patternAssignTable(clause)
	case pql.PatternIfClause:
		return p.patternCondTable(p.pkb.PatternIfTable(), clause)
	case pql.PatternWhileClause:
		return p.patternCondTable(p.pkb.PatternWhileTable(), clause)
	case pql.WithClause:
		return p.withTable(clause)
	default:
		panic("unreachable")
	}
}

// suchThatTable constrains a binary relation table with the two clause
// parameters.
func (p *Evaluator) suchThatTable(result *table.Table, clause pql.Clause) *table.Table {
	var (
		params   = clause.Params()
		lhs, rhs = params[0], params[1]
		header1  = ""
		header2  = ""
	)
	// Nothing to do when the parameter is a wildcard
	if !lhs.IsWildcard() {
		if lhs.IsSynonym() {
			header1 = lhs.Value()
			// The type filter is omitted when the column's universe already
			// covers the synonym's type
			if !canOmitFilterLhs(clause.Type(), lhs) {
				result.FilterColumn(0, p.valuesFromEntity(lhs))
			}
		} else {
			result.FilterColumn(0, p.literalValues(lhs))
		}
	}
	// A relation between a synonym and itself keeps only the diagonal
	if lhs.IsSynonym() && lhs == rhs {
		for _, row := range result.Rows() {
			if row[0] != row[1] {
				result.DeleteRow(row)
			}
		}
		//
		result.DropColumn(1)
		result.SetHeader(header1)
		//
		return result
	}
	//
	if !rhs.IsWildcard() {
		if rhs.IsSynonym() {
			header2 = rhs.Value()
			//
			if !canOmitFilterRhs(clause.Type(), rhs) {
				result.FilterColumn(1, p.valuesFromEntity(rhs))
			}
		} else {
			result.FilterColumn(1, p.literalValues(rhs))
		}
	}
	//
	result.SetHeader(header1, header2)
	//
	return result
}

// patternAssignTable constrains the assign-pattern relation: the left-hand
// variable and the postfix right-hand expression.
func (p *Evaluator) patternAssignTable(clause pql.Clause) *table.Table {
	var (
		result   = p.pkb.PatternAssignTable()
		params   = clause.Params()
		synonym  = params[0]
		lhs, rhs = params[1], params[2]
		header2  = ""
	)
	//
	if lhs.IsSynonym() { // guaranteed to be a variable synonym
		header2 = lhs.Value()
		result.FilterColumn(1, p.valuesFromEntity(lhs))
	} else if lhs.IsName() {
		result.FilterColumn(1, p.literalValues(lhs))
	}
	// else wildcard: leave the column unconstrained
	//
	postfix := rhs.Value()
	//
	if rhs.IsExpression() {
		values := make(table.ValueSet)
		if ref, ok := p.pkb.LookupEntity(postfix); ok {
			values[ref] = true
		}
		//
		result.FilterColumn(2, values)
	} else if rhs.IsSubExpression() {
		// Sub-expression semantics via substring search on the interned text
		for _, row := range result.Rows() {
			if !strings.Contains(p.pkb.EntityFromIntRef(row[2]), postfix) {
				result.DeleteRow(row)
			}
		}
	}
	// else wildcard: leave the column unconstrained
	//
	result.DropColumn(2)
	result.SetHeader(synonym.Value(), header2)
	//
	return result
}

// patternCondTable constrains an if- or while-pattern relation on its
// control variable.
func (p *Evaluator) patternCondTable(result *table.Table, clause pql.Clause) *table.Table {
	var (
		params  = clause.Params()
		synonym = params[0]
		cond    = params[1]
		header2 = ""
	)
	//
	if cond.IsSynonym() { // guaranteed to be a variable synonym
		header2 = cond.Value()
		result.FilterColumn(1, p.valuesFromEntity(cond))
	} else if cond.IsName() {
		result.FilterColumn(1, p.literalValues(cond))
	}
	// else wildcard: leave the column unconstrained
	//
	result.SetHeader(synonym.Value(), header2)
	//
	return result
}

// withTable evaluates an equality between two references.  Both sides are
// rendered as two-column tables [display, comparable] and joined on the
// comparable column, so that attributes living in different reference
// namespaces (statement numbers versus interned numerals) still compare by
// value.
func (p *Evaluator) withTable(clause pql.Clause) *table.Table {
	var (
		params   = clause.Params()
		lhs, rhs = params[0], params[1]
	)
	// Both sides literal: the clause is a constant truth value
	if !lhs.IsSynonym() && !rhs.IsSynonym() {
		result := table.New(1)
		if lhs.Value() == rhs.Value() {
			result.InsertRow(table.NewRow(0)) // dummy row signifying true
		}
		//
		return result
	}
	// Both sides synonyms: join their keyed tables on the comparable column
	if lhs.IsSynonym() && rhs.IsSynonym() {
		left := p.keyedTable(lhs)
		right := p.keyedTable(rhs)
		//
		left.InnerJoinOn(right, 1, 1)
		// Columns now: lhs display, lhs key, rhs display, rhs key
		left.DropColumn(3)
		left.DropColumn(1)
		left.SetHeader(lhs.Value(), rhs.Value())
		//
		return left
	}
	// One synonym, one literal: filter the keyed table
	synonym, literal := lhs, rhs
	if !synonym.IsSynonym() {
		synonym, literal = rhs, lhs
	}
	//
	result := p.keyedTable(synonym)
	result.FilterColumn(1, p.comparableLiteral(literal))
	result.DropColumn(1)
	result.SetHeader(synonym.Value())
	//
	return result
}

// keyedTable renders a with-clause side as a two-column table: the
// synonym's own value, and the value it compares as.
func (p *Evaluator) keyedTable(entity pql.Entity) *table.Table {
	switch {
	case needsAttrRefMapping(entity):
		// call.procName / read.varName / print.varName compare as the
		// mapped name
		result := p.attrRefMappingTable(entity)
		result.SetHeader(entity.Value(), "")
		//
		return result
	case entity.AttrRef() == pql.ValueRef:
		// Constants compare as their numeric value
		result := table.New(2)
		//
		for _, row := range p.pkb.ConstTable().Rows() {
			value, _ := strconv.Atoi(p.pkb.EntityFromIntRef(row[0]))
			result.InsertRow(table.NewRow(row[0], p.pkb.IntRefFromStmtNum(value)))
		}
		//
		result.SetHeader(entity.Value(), "")
		//
		return result
	default:
		// Statements, lines and named entities compare as themselves
		single := p.tableFromEntity(entity)
		result := table.New(2)
		//
		for _, row := range single.Rows() {
			result.InsertRow(table.NewRow(row[0], row[0]))
		}
		//
		result.SetHeader(entity.Value(), "")
		//
		return result
	}
}

// comparableLiteral renders a literal as the reference set it compares
// against: numbers in the statement-number namespace, names as interned
// entities.
func (p *Evaluator) comparableLiteral(literal pql.Entity) table.ValueSet {
	values := make(table.ValueSet)
	//
	if literal.IsNumber() {
		number, _ := strconv.Atoi(literal.Value())
		values[p.pkb.IntRefFromStmtNum(number)] = true
	} else if ref, ok := p.pkb.LookupEntity(literal.Value()); ok {
		values[ref] = true
	}
	//
	return values
}

// ============================================================================
// Parameter helpers
// ============================================================================

// literalValues renders a literal clause parameter as a filter set.
// Numbers are statement references; quoted names are interned entities.
func (p *Evaluator) literalValues(literal pql.Entity) table.ValueSet {
	return p.comparableLiteral(literal)
}

// tableFromEntity fetches the single-column universe table of a synonym's
// kind.
func (p *Evaluator) tableFromEntity(entity pql.Entity) *table.Table {
	switch entity.Type() {
	case pql.StmtType, pql.ProgLineType:
		return p.pkb.StmtTable()
	case pql.ReadType:
		return p.pkb.ReadTable()
	case pql.PrintType:
		return p.pkb.PrintTable()
	case pql.CallType:
		return p.pkb.CallTable()
	case pql.WhileType:
		return p.pkb.WhileTable()
	case pql.IfType:
		return p.pkb.IfTable()
	case pql.AssignType:
		return p.pkb.AssignTable()
	case pql.VariableType:
		return p.pkb.VarTable()
	case pql.ConstantType:
		return p.pkb.ConstTable()
	case pql.ProcedureType:
		return p.pkb.ProcTable()
	default:
		return table.New(1)
	}
}

// valuesFromEntity fetches the reference set of a synonym's kind.
func (p *Evaluator) valuesFromEntity(entity pql.Entity) table.ValueSet {
	switch entity.Type() {
	case pql.StmtType, pql.ProgLineType:
		return p.pkb.StmtIntRefs()
	case pql.ReadType:
		return p.pkb.ReadIntRefs()
	case pql.PrintType:
		return p.pkb.PrintIntRefs()
	case pql.CallType:
		return p.pkb.CallIntRefs()
	case pql.WhileType:
		return p.pkb.WhileIntRefs()
	case pql.IfType:
		return p.pkb.IfIntRefs()
	case pql.AssignType:
		return p.pkb.AssignIntRefs()
	case pql.VariableType:
		return p.pkb.VarIntRefs()
	case pql.ConstantType:
		return p.pkb.ConstIntRefs()
	case pql.ProcedureType:
		return p.pkb.ProcIntRefs()
	default:
		return make(table.ValueSet)
	}
}

// attrRefMappingTable fetches the two-column statement-to-attribute mapping
// of an indirected attribute reference.
func (p *Evaluator) attrRefMappingTable(entity pql.Entity) *table.Table {
	switch entity.Type() {
	case pql.CallType:
		return p.pkb.CallProcTable()
	case pql.ReadType:
		return p.pkb.ReadVarTable()
	case pql.PrintType:
		return p.pkb.PrintVarTable()
	default:
		panic("unreachable")
	}
}

// needsAttrRefMapping checks whether an entity's attribute is indirected
// through the statement-to-attribute tables (call.procName, read.varName,
// print.varName).
func needsAttrRefMapping(entity pql.Entity) bool {
	switch entity.Type() {
	case pql.CallType:
		return entity.AttrRef() == pql.ProcNameRef
	case pql.ReadType, pql.PrintType:
		return entity.AttrRef() == pql.VarNameRef
	default:
		return false
	}
}

// canOmitFilterLhs reports when the left column's universe already equals
// the synonym's universe, making the type filter redundant.
func canOmitFilterLhs(clauseType pql.ClauseType, entity pql.Entity) bool {
	switch clauseType {
	case pql.FollowsClause, pql.FollowsTClause,
		pql.ParentClause, pql.ParentTClause,
		pql.ModifiesSClause, pql.UsesSClause,
		pql.NextClause, pql.NextTClause,
		pql.NextBipClause, pql.NextBipTClause:
		return entity.IsStmtSynonym() || entity.IsProgLineSynonym()
	case pql.AffectsClause, pql.AffectsTClause,
		pql.AffectsBipClause, pql.AffectsBipTClause:
		return entity.IsStmtSynonym() || entity.IsProgLineSynonym() ||
			entity.Type() == pql.AssignType
	case pql.ModifiesPClause, pql.UsesPClause,
		pql.CallsClause, pql.CallsTClause:
		return entity.Type() == pql.ProcedureType
	default:
		return false
	}
}

// canOmitFilterRhs reports when the right column's universe already equals
// the synonym's universe.
func canOmitFilterRhs(clauseType pql.ClauseType, entity pql.Entity) bool {
	switch clauseType {
	case pql.FollowsClause, pql.FollowsTClause,
		pql.ParentClause, pql.ParentTClause,
		pql.NextClause, pql.NextTClause,
		pql.NextBipClause, pql.NextBipTClause:
		return entity.IsStmtSynonym() || entity.IsProgLineSynonym()
	case pql.AffectsClause, pql.AffectsTClause,
		pql.AffectsBipClause, pql.AffectsBipTClause:
		return entity.IsStmtSynonym() || entity.IsProgLineSynonym() ||
			entity.Type() == pql.AssignType
	case pql.ModifiesSClause, pql.UsesSClause,
		pql.ModifiesPClause, pql.UsesPClause:
		return entity.Type() == pql.VariableType
	case pql.CallsClause, pql.CallsTClause:
		return entity.Type() == pql.ProcedureType
	default:
		return false
	}
}

// ============================================================================
// Result extraction
// ============================================================================

// trueTable is the one-row sentinel which natural join treats as identity.
func trueTable() *table.Table {
	t := table.New(1)
	t.InsertRow(table.NewRow(0))
	//
	return t
}

// anonymousOnly checks whether every column of a table is anonymous.
func anonymousOnly(t *table.Table) bool {
	for _, h := range t.Header() {
		if h != "" {
			return false
		}
	}
	//
	return true
}

// extractResults projects the final table onto the query targets, mapping
// references back to user-visible names and deduplicating whole output
// lines.
func (p *Evaluator) extractResults(result *table.Table) []string {
	if p.query.IsBoolean() {
		if result.Empty() {
			return []string{"FALSE"}
		}
		//
		return []string{"TRUE"}
	}
	//
	if result.Empty() {
		return nil
	}
	//
	var (
		targets = p.query.Targets()
		columns = make([]int, len(targets))
		mappers = make([]func(interner.IntRef) string, len(targets))
	)
	//
	for i, target := range targets {
		columns[i] = result.ColumnIndex(target.Value())
		mappers[i] = p.mappingFunction(target)
	}
	//
	var (
		results []string
		seen    = make(map[string]bool)
	)
	//
	for _, row := range result.Rows() {
		parts := make([]string, len(targets))
		for i := range targets {
			parts[i] = mappers[i](row[columns[i]])
		}
		//
		line := strings.Join(parts, " ")
		//
		if !seen[line] {
			seen[line] = true
			results = append(results, line)
		}
	}
	//
	return results
}

// mappingFunction returns the reference-to-text mapper of a target:
// indirected attributes go through the statement-to-attribute tables, and
// everything else renders as itself.
func (p *Evaluator) mappingFunction(target pql.Entity) func(interner.IntRef) string {
	if needsAttrRefMapping(target) {
		switch target.Type() {
		case pql.CallType:
			return p.pkb.ProcNameFromCallStmtIntRef
		case pql.ReadType:
			return p.pkb.VarNameFromReadStmtIntRef
		default:
			return p.pkb.VarNameFromPrintStmtIntRef
		}
	}
	//
	return p.pkb.RefString
}
