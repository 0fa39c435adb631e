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
	"fmt"
	"strconv"

	"github.com/simplelang/go-spa/pkg/interner"
	"github.com/simplelang/go-spa/pkg/table"
	"github.com/simplelang/go-spa/pkg/util/source"
)

// Pkb is the program knowledge base: a fixed schema of relations over
// interned references, populated once by the design extractor and read-only
// during query evaluation.  All table getters return copies which the caller
// may mutate freely.
type Pkb struct {
	interner *interner.Interner

	varTable   *table.Table
	procTable  *table.Table
	constTable *table.Table

	stmtTable   *table.Table
	ifTable     *table.Table
	whileTable  *table.Table
	readTable   *table.Table
	printTable  *table.Table
	assignTable *table.Table
	callTable   *table.Table

	followsTable  *table.Table
	followsTTable *table.Table
	parentTable   *table.Table
	parentTTable  *table.Table

	usesSTable     *table.Table
	modifiesSTable *table.Table
	usesPTable     *table.Table
	modifiesPTable *table.Table

	callsTable  *table.Table
	callsTTable *table.Table

	nextTable  *table.Table
	nextTTable *table.Table

	affectsTable  *table.Table
	affectsTTable *table.Table

	nextBipTable     *table.Table
	nextBipTTable    *table.Table
	affectsBipTable  *table.Table
	affectsBipTTable *table.Table

	callProcTable *table.Table
	readVarTable  *table.Table
	printVarTable *table.Table

	patternAssignTable *table.Table
	patternIfTable     *table.Table
	patternWhileTable  *table.Table

	// CFG adjacency, indexed by statement number.
	cfg [][]int

	// Auxiliary maps maintained alongside the attribute tables.
	callProc map[int]string
	readVar  map[int]string
	printVar map[int]string

	stmtProc  map[int]string
	procStart map[string]int
	procEnd   map[string][]int
	procRange map[string][2]int
}

// NewPkb constructs an empty knowledge base with a fresh interner.
func NewPkb() *Pkb {
	return &Pkb{
		interner: interner.NewInterner(),

		varTable:   table.New(1),
		procTable:  table.New(1),
		constTable: table.New(1),

		stmtTable:   table.New(1),
		ifTable:     table.New(1),
		whileTable:  table.New(1),
		readTable:   table.New(1),
		printTable:  table.New(1),
		assignTable: table.New(1),
		callTable:   table.New(1),

		followsTable:  table.New(2),
		followsTTable: table.New(2),
		parentTable:   table.New(2),
		parentTTable:  table.New(2),

		usesSTable:     table.New(2),
		modifiesSTable: table.New(2),
		usesPTable:     table.New(2),
		modifiesPTable: table.New(2),

		callsTable:  table.New(2),
		callsTTable: table.New(2),

		nextTable:  table.New(2),
		nextTTable: table.New(2),

		affectsTable:  table.New(2),
		affectsTTable: table.New(2),

		nextBipTable:     table.New(2),
		nextBipTTable:    table.New(2),
		affectsBipTable:  table.New(2),
		affectsBipTTable: table.New(2),

		callProcTable: table.New(2),
		readVarTable:  table.New(2),
		printVarTable: table.New(2),

		patternAssignTable: table.New(3),
		patternIfTable:     table.New(2),
		patternWhileTable:  table.New(2),

		callProc: make(map[int]string),
		readVar:  make(map[int]string),
		printVar: make(map[int]string),

		stmtProc:  make(map[int]string),
		procStart: make(map[string]int),
		procEnd:   make(map[string][]int),
		procRange: make(map[string][2]int),
	}
}

// ============================================================================
// Interner access
// ============================================================================

// IntRefFromEntity interns a given entity string.  Reserved for the
// population phase; the evaluator uses LookupEntity instead.
func (p *Pkb) IntRefFromEntity(entity string) interner.IntRef {
	return p.interner.IntRefFromEntity(entity)
}

// IntRefFromStmtNum returns the reference of a given statement number.
func (p *Pkb) IntRefFromStmtNum(stmtNum int) interner.IntRef {
	return p.interner.IntRefFromStmtNum(stmtNum)
}

// LookupEntity returns the reference of a given entity string, if it was
// ever interned.
func (p *Pkb) LookupEntity(entity string) (interner.IntRef, bool) {
	return p.interner.LookupEntity(entity)
}

// EntityFromIntRef returns the entity string behind a given reference.
func (p *Pkb) EntityFromIntRef(ref interner.IntRef) string {
	return p.interner.EntityFromIntRef(ref)
}

// StmtNumFromIntRef returns the statement number behind a given reference.
func (p *Pkb) StmtNumFromIntRef(ref interner.IntRef) int {
	return p.interner.StmtNumFromIntRef(ref)
}

// RefString renders a reference as its user-visible text: the entity string,
// or the decimal statement number.
func (p *Pkb) RefString(ref interner.IntRef) string {
	if interner.IsStmtRef(ref) {
		return strconv.Itoa(p.interner.StmtNumFromIntRef(ref))
	}
	//
	return p.interner.EntityFromIntRef(ref)
}

// ============================================================================
// Population
// ============================================================================

// AddVar records a variable name.
func (p *Pkb) AddVar(name string) {
	p.varTable.InsertRow(table.NewRow(p.interner.IntRefFromEntity(name)))
}

// AddProc records a procedure name.
func (p *Pkb) AddProc(name string) {
	p.procTable.InsertRow(table.NewRow(p.interner.IntRefFromEntity(name)))
}

// AddConst records a constant (as its decimal text).
func (p *Pkb) AddConst(value string) {
	p.constTable.InsertRow(table.NewRow(p.interner.IntRefFromEntity(value)))
}

// AddStmt records a statement number.
func (p *Pkb) AddStmt(stmtNum int) {
	p.stmtTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum)))
}

// AddIf records an if statement (also as a statement).
func (p *Pkb) AddIf(stmtNum int) {
	p.ifTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum)))
	p.AddStmt(stmtNum)
}

// AddWhile records a while statement (also as a statement).
func (p *Pkb) AddWhile(stmtNum int) {
	p.whileTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum)))
	p.AddStmt(stmtNum)
}

// AddRead records a read statement (also as a statement).
func (p *Pkb) AddRead(stmtNum int) {
	p.readTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum)))
	p.AddStmt(stmtNum)
}

// AddPrint records a print statement (also as a statement).
func (p *Pkb) AddPrint(stmtNum int) {
	p.printTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum)))
	p.AddStmt(stmtNum)
}

// AddAssign records an assign statement (also as a statement).
func (p *Pkb) AddAssign(stmtNum int) {
	p.assignTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum)))
	p.AddStmt(stmtNum)
}

// AddCall records a call statement (also as a statement).
func (p *Pkb) AddCall(stmtNum int) {
	p.callTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum)))
	p.AddStmt(stmtNum)
}

// AddFollows records that followed is directly followed by follower.  The
// followed statement must precede the follower.
func (p *Pkb) AddFollows(followed int, follower int) error {
	if followed >= follower {
		return source.NewDomainError(fmt.Sprintf("Follows(%d, %d): follower should come after followed", followed, follower))
	}
	//
	p.followsTable.InsertRow(p.stmtPair(followed, follower))
	//
	return nil
}

// AddFollowsT records a transitive follows pair.
func (p *Pkb) AddFollowsT(followed int, follower int) error {
	if followed >= follower {
		return source.NewDomainError(fmt.Sprintf("Follows*(%d, %d): follower should come after followed", followed, follower))
	}
	//
	p.followsTTable.InsertRow(p.stmtPair(followed, follower))
	//
	return nil
}

// AddParent records that parent directly contains child.  The parent must
// precede the child.
func (p *Pkb) AddParent(parent int, child int) error {
	if parent >= child {
		return source.NewDomainError(fmt.Sprintf("Parent(%d, %d): parent should come before child", parent, child))
	}
	//
	p.parentTable.InsertRow(p.stmtPair(parent, child))
	//
	return nil
}

// AddParentT records a transitive parent pair.
func (p *Pkb) AddParentT(parent int, child int) error {
	if parent >= child {
		return source.NewDomainError(fmt.Sprintf("Parent*(%d, %d): parent should come before child", parent, child))
	}
	//
	p.parentTTable.InsertRow(p.stmtPair(parent, child))
	//
	return nil
}

// AddUsesS records that a statement uses a variable.
func (p *Pkb) AddUsesS(stmtNum int, variable string) {
	p.usesSTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum), p.interner.IntRefFromEntity(variable)))
}

// AddModifiesS records that a statement modifies a variable.
func (p *Pkb) AddModifiesS(stmtNum int, variable string) {
	p.modifiesSTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum), p.interner.IntRefFromEntity(variable)))
}

// AddUsesP records that a procedure uses a variable.
func (p *Pkb) AddUsesP(proc string, variable string) {
	p.usesPTable.InsertRow(table.NewRow(p.interner.IntRefFromEntity(proc), p.interner.IntRefFromEntity(variable)))
}

// AddModifiesP records that a procedure modifies a variable.
func (p *Pkb) AddModifiesP(proc string, variable string) {
	p.modifiesPTable.InsertRow(table.NewRow(p.interner.IntRefFromEntity(proc), p.interner.IntRefFromEntity(variable)))
}

// AddCalls records that caller directly calls callee.
func (p *Pkb) AddCalls(caller string, callee string) {
	p.callsTable.InsertRow(table.NewRow(p.interner.IntRefFromEntity(caller), p.interner.IntRefFromEntity(callee)))
}

// AddCallsT records a transitive calls pair.
func (p *Pkb) AddCallsT(caller string, callee string) {
	p.callsTTable.InsertRow(table.NewRow(p.interner.IntRefFromEntity(caller), p.interner.IntRefFromEntity(callee)))
}

// AddNext records a control-flow edge between two statements.
func (p *Pkb) AddNext(from int, to int) {
	p.nextTable.InsertRow(p.stmtPair(from, to))
}

// AddNextT records a transitive control-flow pair.
func (p *Pkb) AddNextT(from int, to int) {
	p.nextTTable.InsertRow(p.stmtPair(from, to))
}

// AddAffects records that one assign statement affects another.
func (p *Pkb) AddAffects(assigner int, assignee int) {
	p.affectsTable.InsertRow(p.stmtPair(assigner, assignee))
}

// AddAffectsT records a transitive affects pair.
func (p *Pkb) AddAffectsT(assigner int, assignee int) {
	p.affectsTTable.InsertRow(p.stmtPair(assigner, assignee))
}

// AddNextBip records an inter-procedural control-flow edge.
func (p *Pkb) AddNextBip(from int, to int) {
	p.nextBipTable.InsertRow(p.stmtPair(from, to))
}

// AddNextBipT records a transitive inter-procedural control-flow pair.
func (p *Pkb) AddNextBipT(from int, to int) {
	p.nextBipTTable.InsertRow(p.stmtPair(from, to))
}

// AddAffectsBip records an inter-procedural affects pair.
func (p *Pkb) AddAffectsBip(assigner int, assignee int) {
	p.affectsBipTable.InsertRow(p.stmtPair(assigner, assignee))
}

// AddAffectsBipT records a transitive inter-procedural affects pair.
func (p *Pkb) AddAffectsBipT(assigner int, assignee int) {
	p.affectsBipTTable.InsertRow(p.stmtPair(assigner, assignee))
}

// AddCallProc records the procedure called by a call statement.
func (p *Pkb) AddCallProc(stmtNum int, proc string) {
	p.callProcTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum), p.interner.IntRefFromEntity(proc)))
	p.callProc[stmtNum] = proc
}

// AddReadVar records the variable read by a read statement.
func (p *Pkb) AddReadVar(stmtNum int, variable string) {
	p.readVarTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum), p.interner.IntRefFromEntity(variable)))
	p.readVar[stmtNum] = variable
}

// AddPrintVar records the variable printed by a print statement.
func (p *Pkb) AddPrintVar(stmtNum int, variable string) {
	p.printVarTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum), p.interner.IntRefFromEntity(variable)))
	p.printVar[stmtNum] = variable
}

// AddPatternAssign records an assign statement with its left-hand variable
// and the postfix form of its right-hand expression.
func (p *Pkb) AddPatternAssign(stmtNum int, lhs string, rhsPostfix string) {
	p.patternAssignTable.InsertRow(table.NewRow(
		p.interner.IntRefFromStmtNum(stmtNum),
		p.interner.IntRefFromEntity(lhs),
		p.interner.IntRefFromEntity(rhsPostfix)))
}

// AddPatternIf records a control variable of an if statement.
func (p *Pkb) AddPatternIf(stmtNum int, variable string) {
	p.patternIfTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum), p.interner.IntRefFromEntity(variable)))
}

// AddPatternWhile records a control variable of a while statement.
func (p *Pkb) AddPatternWhile(stmtNum int, variable string) {
	p.patternWhileTable.InsertRow(table.NewRow(p.interner.IntRefFromStmtNum(stmtNum), p.interner.IntRefFromEntity(variable)))
}

// AddCfgEdge records an edge in the control-flow graph.  The graph grows on
// demand to hold the largest statement number seen.
func (p *Pkb) AddCfgEdge(from int, to int) {
	for len(p.cfg) <= from {
		p.cfg = append(p.cfg, nil)
	}
	//
	p.cfg[from] = append(p.cfg[from], to)
}

// SetStmtProc records the procedure enclosing a statement.
func (p *Pkb) SetStmtProc(stmtNum int, proc string) {
	p.stmtProc[stmtNum] = proc
}

// SetProcStart records the first statement of a procedure.
func (p *Pkb) SetProcStart(proc string, stmtNum int) {
	p.procStart[proc] = stmtNum
}

// AddProcEnd records a last statement of a procedure.
func (p *Pkb) AddProcEnd(proc string, stmtNum int) {
	p.procEnd[proc] = append(p.procEnd[proc], stmtNum)
}

// SetProcRange records the statement number range of a procedure.
func (p *Pkb) SetProcRange(proc string, first int, last int) {
	p.procRange[proc] = [2]int{first, last}
}

func (p *Pkb) stmtPair(a int, b int) table.Row {
	return table.NewRow(p.interner.IntRefFromStmtNum(a), p.interner.IntRefFromStmtNum(b))
}
