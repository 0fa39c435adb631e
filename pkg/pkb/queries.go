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
package pkb

import (
	"github.com/simplelang/go-spa/pkg/interner"
	"github.com/simplelang/go-spa/pkg/table"
)

// ============================================================================
// Table getters (by value)
// ============================================================================

// VarTable returns a copy of the variable table.
func (p *Pkb) VarTable() *table.Table { return p.varTable.Copy() }

// ProcTable returns a copy of the procedure table.
func (p *Pkb) ProcTable() *table.Table { return p.procTable.Copy() }

// ConstTable returns a copy of the constant table.
func (p *Pkb) ConstTable() *table.Table { return p.constTable.Copy() }

// StmtTable returns a copy of the statement table.
func (p *Pkb) StmtTable() *table.Table { return p.stmtTable.Copy() }

// IfTable returns a copy of the if-statement table.
func (p *Pkb) IfTable() *table.Table { return p.ifTable.Copy() }

// WhileTable returns a copy of the while-statement table.
func (p *Pkb) WhileTable() *table.Table { return p.whileTable.Copy() }

// ReadTable returns a copy of the read-statement table.
func (p *Pkb) ReadTable() *table.Table { return p.readTable.Copy() }

// PrintTable returns a copy of the print-statement table.
func (p *Pkb) PrintTable() *table.Table { return p.printTable.Copy() }

// AssignTable returns a copy of the assign-statement table.
func (p *Pkb) AssignTable() *table.Table { return p.assignTable.Copy() }

// CallTable returns a copy of the call-statement table.
func (p *Pkb) CallTable() *table.Table { return p.callTable.Copy() }

// FollowsTable returns a copy of the follows relation.
func (p *Pkb) FollowsTable() *table.Table { return p.followsTable.Copy() }

// FollowsTTable returns a copy of the transitive follows relation.
func (p *Pkb) FollowsTTable() *table.Table { return p.followsTTable.Copy() }

// ParentTable returns a copy of the parent relation.
func (p *Pkb) ParentTable() *table.Table { return p.parentTable.Copy() }

// ParentTTable returns a copy of the transitive parent relation.
func (p *Pkb) ParentTTable() *table.Table { return p.parentTTable.Copy() }

// UsesSTable returns a copy of the statement-uses relation.
func (p *Pkb) UsesSTable() *table.Table { return p.usesSTable.Copy() }

// ModifiesSTable returns a copy of the statement-modifies relation.
func (p *Pkb) ModifiesSTable() *table.Table { return p.modifiesSTable.Copy() }

// UsesPTable returns a copy of the procedure-uses relation.
func (p *Pkb) UsesPTable() *table.Table { return p.usesPTable.Copy() }

// ModifiesPTable returns a copy of the procedure-modifies relation.
func (p *Pkb) ModifiesPTable() *table.Table { return p.modifiesPTable.Copy() }

// CallsTable returns a copy of the calls relation.
func (p *Pkb) CallsTable() *table.Table { return p.callsTable.Copy() }

// CallsTTable returns a copy of the transitive calls relation.
func (p *Pkb) CallsTTable() *table.Table { return p.callsTTable.Copy() }

// NextTable returns a copy of the next relation.
func (p *Pkb) NextTable() *table.Table { return p.nextTable.Copy() }

// NextTTable returns a copy of the transitive next relation.
func (p *Pkb) NextTTable() *table.Table { return p.nextTTable.Copy() }

// AffectsTable returns a copy of the affects relation.
func (p *Pkb) AffectsTable() *table.Table { return p.affectsTable.Copy() }

// AffectsTTable returns a copy of the transitive affects relation.
func (p *Pkb) AffectsTTable() *table.Table { return p.affectsTTable.Copy() }

// NextBipTable returns a copy of the inter-procedural next relation.
func (p *Pkb) NextBipTable() *table.Table { return p.nextBipTable.Copy() }

// NextBipTTable returns a copy of the transitive inter-procedural next
// relation.
func (p *Pkb) NextBipTTable() *table.Table { return p.nextBipTTable.Copy() }

// AffectsBipTable returns a copy of the inter-procedural affects relation.
func (p *Pkb) AffectsBipTable() *table.Table { return p.affectsBipTable.Copy() }

// AffectsBipTTable returns a copy of the transitive inter-procedural affects
// relation.
func (p *Pkb) AffectsBipTTable() *table.Table { return p.affectsBipTTable.Copy() }

// CallProcTable returns a copy of the call-statement attribute mapping.
func (p *Pkb) CallProcTable() *table.Table { return p.callProcTable.Copy() }

// ReadVarTable returns a copy of the read-statement attribute mapping.
func (p *Pkb) ReadVarTable() *table.Table { return p.readVarTable.Copy() }

// PrintVarTable returns a copy of the print-statement attribute mapping.
func (p *Pkb) PrintVarTable() *table.Table { return p.printVarTable.Copy() }

// PatternAssignTable returns a copy of the assign-pattern relation.
func (p *Pkb) PatternAssignTable() *table.Table { return p.patternAssignTable.Copy() }

// PatternIfTable returns a copy of the if-pattern relation.
func (p *Pkb) PatternIfTable() *table.Table { return p.patternIfTable.Copy() }

// PatternWhileTable returns a copy of the while-pattern relation.
func (p *Pkb) PatternWhileTable() *table.Table { return p.patternWhileTable.Copy() }

// ============================================================================
// Entity reference sets
// ============================================================================

// VarIntRefs returns the set of variable references.
func (p *Pkb) VarIntRefs() table.ValueSet { return p.varTable.Column(0) }

// ProcIntRefs returns the set of procedure references.
func (p *Pkb) ProcIntRefs() table.ValueSet { return p.procTable.Column(0) }

// ConstIntRefs returns the set of constant references.
func (p *Pkb) ConstIntRefs() table.ValueSet { return p.constTable.Column(0) }

// StmtIntRefs returns the set of statement references.
func (p *Pkb) StmtIntRefs() table.ValueSet { return p.stmtTable.Column(0) }

// IfIntRefs returns the set of if-statement references.
func (p *Pkb) IfIntRefs() table.ValueSet { return p.ifTable.Column(0) }

// WhileIntRefs returns the set of while-statement references.
func (p *Pkb) WhileIntRefs() table.ValueSet { return p.whileTable.Column(0) }

// ReadIntRefs returns the set of read-statement references.
func (p *Pkb) ReadIntRefs() table.ValueSet { return p.readTable.Column(0) }

// PrintIntRefs returns the set of print-statement references.
func (p *Pkb) PrintIntRefs() table.ValueSet { return p.printTable.Column(0) }

// AssignIntRefs returns the set of assign-statement references.
func (p *Pkb) AssignIntRefs() table.ValueSet { return p.assignTable.Column(0) }

// CallIntRefs returns the set of call-statement references.
func (p *Pkb) CallIntRefs() table.ValueSet { return p.callTable.Column(0) }

// ============================================================================
// Convenience queries (single-column tables, filter then drop)
// ============================================================================

// Follower returns the statements which directly follow the given one.
func (p *Pkb) Follower(stmtNum int) *table.Table {
	return p.filterDrop(p.followsTable, 0, stmtNum)
}

// FollowedBy returns the statements directly followed by the given one.
func (p *Pkb) FollowedBy(stmtNum int) *table.Table {
	return p.filterDrop(p.followsTable, 1, stmtNum)
}

// FollowerT returns the statements which transitively follow the given one.
func (p *Pkb) FollowerT(stmtNum int) *table.Table {
	return p.filterDrop(p.followsTTable, 0, stmtNum)
}

// FollowedByT returns the statements transitively followed by the given one.
func (p *Pkb) FollowedByT(stmtNum int) *table.Table {
	return p.filterDrop(p.followsTTable, 1, stmtNum)
}

// ParentOf returns the direct parent of the given statement.
func (p *Pkb) ParentOf(stmtNum int) *table.Table {
	return p.filterDrop(p.parentTable, 1, stmtNum)
}

// ChildOf returns the direct children of the given statement.
func (p *Pkb) ChildOf(stmtNum int) *table.Table {
	return p.filterDrop(p.parentTable, 0, stmtNum)
}

// ParentTOf returns the ancestors of the given statement.
func (p *Pkb) ParentTOf(stmtNum int) *table.Table {
	return p.filterDrop(p.parentTTable, 1, stmtNum)
}

// ChildTOf returns the descendants of the given statement.
func (p *Pkb) ChildTOf(stmtNum int) *table.Table {
	return p.filterDrop(p.parentTTable, 0, stmtNum)
}

// UsedBy returns the variables used by the given statement.
func (p *Pkb) UsedBy(stmtNum int) *table.Table {
	return p.filterDrop(p.usesSTable, 0, stmtNum)
}

// UsesOf returns the statements which use the given variable.
func (p *Pkb) UsesOf(variable string) *table.Table {
	return p.filterDropEntity(p.usesSTable, 1, variable)
}

// ModifiesOf returns the statements which modify the given variable.
func (p *Pkb) ModifiesOf(variable string) *table.Table {
	return p.filterDropEntity(p.modifiesSTable, 1, variable)
}

// ModifiedByStmt returns the variables modified by the given statement.
func (p *Pkb) ModifiedByStmt(stmtNum int) *table.Table {
	return p.filterDrop(p.modifiesSTable, 0, stmtNum)
}

// filterDrop copies a relation, keeps rows whose given column holds the
// given statement, then drops that column.
func (p *Pkb) filterDrop(t *table.Table, index int, stmtNum int) *table.Table {
	filtered := t.Copy()
	filtered.FilterColumn(index, table.ValueSet{p.interner.IntRefFromStmtNum(stmtNum): true})
	filtered.DropColumn(index)
	//
	return filtered
}

// filterDropEntity is filterDrop keyed by an interned entity.
func (p *Pkb) filterDropEntity(t *table.Table, index int, entity string) *table.Table {
	values := make(table.ValueSet)
	if ref, ok := p.interner.LookupEntity(entity); ok {
		values[ref] = true
	}
	//
	filtered := t.Copy()
	filtered.FilterColumn(index, values)
	filtered.DropColumn(index)
	//
	return filtered
}

// ============================================================================
// Higher-level queries for the evaluator and extractor
// ============================================================================

// AssignUses returns the assign statements which use the given variable.
func (p *Pkb) AssignUses(variable string) map[int]bool {
	stmts := make(map[int]bool)
	//
	ref, ok := p.interner.LookupEntity(variable)
	if !ok {
		return stmts
	}
	//
	assigns := p.assignTable.Column(0)
	//
	for _, row := range p.usesSTable.Rows() {
		if row[1] == ref && assigns[row[0]] {
			stmts[p.interner.StmtNumFromIntRef(row[0])] = true
		}
	}
	//
	return stmts
}

// ModifiedBy returns the names of variables modified by the given statement.
func (p *Pkb) ModifiedBy(stmtNum int) map[string]bool {
	vars := make(map[string]bool)
	ref := p.interner.IntRefFromStmtNum(stmtNum)
	//
	for _, row := range p.modifiesSTable.Rows() {
		if row[0] == ref {
			vars[p.interner.EntityFromIntRef(row[1])] = true
		}
	}
	//
	return vars
}

// UsedVarsOf returns the names of variables used by the given statement.
func (p *Pkb) UsedVarsOf(stmtNum int) map[string]bool {
	vars := make(map[string]bool)
	ref := p.interner.IntRefFromStmtNum(stmtNum)
	//
	for _, row := range p.usesSTable.Rows() {
		if row[0] == ref {
			vars[p.interner.EntityFromIntRef(row[1])] = true
		}
	}
	//
	return vars
}

// ProcNameFromCallStmt returns the procedure called by the given call
// statement.
func (p *Pkb) ProcNameFromCallStmt(stmtNum int) string {
	return p.callProc[stmtNum]
}

// VarNameFromReadStmt returns the variable read by the given read statement.
func (p *Pkb) VarNameFromReadStmt(stmtNum int) string {
	return p.readVar[stmtNum]
}

// VarNameFromPrintStmt returns the variable printed by the given print
// statement.
func (p *Pkb) VarNameFromPrintStmt(stmtNum int) string {
	return p.printVar[stmtNum]
}

// ProcNameFromCallStmtIntRef composes the call-statement attribute mapping
// with statement dereferencing.
func (p *Pkb) ProcNameFromCallStmtIntRef(ref interner.IntRef) string {
	return p.callProc[p.interner.StmtNumFromIntRef(ref)]
}

// VarNameFromReadStmtIntRef composes the read-statement attribute mapping
// with statement dereferencing.
func (p *Pkb) VarNameFromReadStmtIntRef(ref interner.IntRef) string {
	return p.readVar[p.interner.StmtNumFromIntRef(ref)]
}

// VarNameFromPrintStmtIntRef composes the print-statement attribute mapping
// with statement dereferencing.
func (p *Pkb) VarNameFromPrintStmtIntRef(ref interner.IntRef) string {
	return p.printVar[p.interner.StmtNumFromIntRef(ref)]
}

// NextStmtsFromCfg returns the control-flow successors of a statement.
func (p *Pkb) NextStmtsFromCfg(stmtNum int) []int {
	if stmtNum < 0 || stmtNum >= len(p.cfg) {
		return nil
	}
	//
	return p.cfg[stmtNum]
}

// CfgSize returns one past the largest statement number in the control-flow
// graph.
func (p *Pkb) CfgSize() int {
	return len(p.cfg)
}

// StartStmtFromProc returns the first statement of a procedure.
func (p *Pkb) StartStmtFromProc(proc string) int {
	return p.procStart[proc]
}

// EndStmtsFromProc returns the last statements of a procedure.
func (p *Pkb) EndStmtsFromProc(proc string) []int {
	return p.procEnd[proc]
}

// ProcFromStmt returns the procedure enclosing a statement.
func (p *Pkb) ProcFromStmt(stmtNum int) string {
	return p.stmtProc[stmtNum]
}

// ProcRange returns the statement number range of a procedure.
func (p *Pkb) ProcRange(proc string) (int, int) {
	r := p.procRange[proc]
	return r[0], r[1]
}
