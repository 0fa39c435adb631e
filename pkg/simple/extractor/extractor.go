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
package extractor

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/simplelang/go-spa/pkg/pkb"
	"github.com/simplelang/go-spa/pkg/simple"
	"github.com/simplelang/go-spa/pkg/util/source"
)

// Extract traverses a parsed SIMPLE program and populates a fresh knowledge
// base: entity and statement tables, Follows/Parent/Calls/Next and their
// materialised closures, transitive Uses/Modifies, the control-flow graph,
// Affects, the inter-procedural variants, and the pattern and attribute
// tables.
func Extract(program *simple.Program) (*pkb.Pkb, error) {
	x := &extractor{
		kb:         pkb.NewPkb(),
		procs:      make(map[string]*simple.Procedure),
		parent:     make(map[int]int),
		usesDirect: make(map[int]map[string]bool),
		modsDirect: make(map[int]map[string]bool),
		assigns:    make(map[int]*simple.AssignStmt),
		reads:      make(map[int]string),
		callees:    make(map[string]map[string]bool),
		callSites:  make(map[int]string),
	}
	//
	for _, proc := range program.Procedures {
		x.procs[proc.Name] = proc
	}
	// Phase 1: per-procedure walk
	for _, proc := range program.Procedures {
		if err := x.walkProcedure(proc); err != nil {
			return nil, err
		}
	}
	// Phase 2: the call graph must be acyclic and closed
	order, err := x.topologicalCallOrder(program)
	if err != nil {
		return nil, err
	}
	// Phase 3: transitive uses/modifies through calls and containers
	x.propagateUsesModifies(order)
	// Phase 4: relation closures
	x.closeFollowsParent()
	x.closeCalls()
	// Phase 5: control flow, affects and the inter-procedural variants
	x.buildControlFlow(program)
	//
	log.Debugf("extracted %d statements across %d procedures", x.maxStmt, len(program.Procedures))
	//
	return x.kb, nil
}

type extractor struct {
	kb      *pkb.Pkb
	maxStmt int

	procs map[string]*simple.Procedure
	// direct parent statement, absent for top-level statements
	parent map[int]int
	// direct (call-free) uses/modifies per statement
	usesDirect map[int]map[string]bool
	modsDirect map[int]map[string]bool
	// assign statements by number
	assigns map[int]*simple.AssignStmt
	// variable read, per read statement
	reads map[int]string
	// direct callees per procedure
	callees map[string]map[string]bool
	// callee per call statement
	callSites map[int]string
	// procedure-level uses/modifies, including via calls
	procUses map[string]map[string]bool
	procMods map[string]map[string]bool
	// follows and parent edge lists for closure computation
	followsEdges [][2]int
	parentEdges  [][2]int
	// intra-procedural control-flow graph
	cfg [][]int
}

// ============================================================================
// Phase 1: statement walk
// ============================================================================

func (x *extractor) walkProcedure(proc *simple.Procedure) error {
	x.kb.AddProc(proc.Name)
	//
	if err := x.walkStmtLst(proc.Body, 0, proc.Name); err != nil {
		return err
	}
	//
	first := proc.Body[0].StmtNum()
	last := x.lastStmtNum(proc.Body)
	//
	x.kb.SetProcStart(proc.Name, first)
	x.kb.SetProcRange(proc.Name, first, last)
	//
	return nil
}

// walkStmtLst records the statements of one list: their kinds, follows and
// parent edges, direct uses/modifies, and the pattern and attribute tables.
func (x *extractor) walkStmtLst(stmts []simple.Stmt, parent int, proc string) error {
	for i, stmt := range stmts {
		num := stmt.StmtNum()
		x.maxStmt = max(x.maxStmt, num)
		x.kb.SetStmtProc(num, proc)
		//
		if parent != 0 {
			x.parent[num] = parent
			x.parentEdges = append(x.parentEdges, [2]int{parent, num})
			//
			if err := x.kb.AddParent(parent, num); err != nil {
				return err
			}
		}
		//
		if i+1 < len(stmts) {
			next := stmts[i+1].StmtNum()
			x.followsEdges = append(x.followsEdges, [2]int{num, next})
			//
			if err := x.kb.AddFollows(num, next); err != nil {
				return err
			}
		}
		//
		if err := x.walkStmt(stmt, proc); err != nil {
			return err
		}
	}
	//
	return nil
}

func (x *extractor) walkStmt(stmt simple.Stmt, proc string) error {
	num := stmt.StmtNum()
	//
	switch s := stmt.(type) {
	case *simple.ReadStmt:
		x.kb.AddRead(num)
		x.kb.AddVar(s.Var)
		x.kb.AddReadVar(num, s.Var)
		x.addModifies(num, s.Var)
		x.reads[num] = s.Var
	case *simple.PrintStmt:
		x.kb.AddPrint(num)
		x.kb.AddVar(s.Var)
		x.kb.AddPrintVar(num, s.Var)
		x.addUses(num, s.Var)
	case *simple.CallStmt:
		if _, ok := x.procs[s.Proc]; !ok {
			return source.NewSourceError(
				fmt.Sprintf("Procedure %s calls undefined procedure %s.", proc, s.Proc))
		}
		//
		x.kb.AddCall(num)
		x.kb.AddCallProc(num, s.Proc)
		x.kb.AddCalls(proc, s.Proc)
		x.callSites[num] = s.Proc
		//
		if x.callees[proc] == nil {
			x.callees[proc] = make(map[string]bool)
		}
		//
		x.callees[proc][s.Proc] = true
	case *simple.AssignStmt:
		x.kb.AddAssign(num)
		x.kb.AddVar(s.Lhs)
		x.addModifies(num, s.Lhs)
		x.walkExpr(num, s.Rhs)
		x.kb.AddPatternAssign(num, s.Lhs, postfixOf(s.Rhs))
		x.assigns[num] = s
	case *simple.WhileStmt:
		x.kb.AddWhile(num)
		//
		for _, v := range condVars(s.Cond) {
			x.kb.AddVar(v)
			x.kb.AddPatternWhile(num, v)
			x.addUses(num, v)
		}
		//
		x.walkCondConsts(s.Cond)
		//
		if err := x.walkStmtLst(s.Body, num, proc); err != nil {
			return err
		}
	case *simple.IfStmt:
		x.kb.AddIf(num)
		//
		for _, v := range condVars(s.Cond) {
			x.kb.AddVar(v)
			x.kb.AddPatternIf(num, v)
			x.addUses(num, v)
		}
		//
		x.walkCondConsts(s.Cond)
		//
		if err := x.walkStmtLst(s.Then, num, proc); err != nil {
			return err
		}
		//
		if err := x.walkStmtLst(s.Else, num, proc); err != nil {
			return err
		}
	}
	//
	return nil
}

func (x *extractor) addUses(num int, v string) {
	if x.usesDirect[num] == nil {
		x.usesDirect[num] = make(map[string]bool)
	}
	//
	x.usesDirect[num][v] = true
}

func (x *extractor) addModifies(num int, v string) {
	if x.modsDirect[num] == nil {
		x.modsDirect[num] = make(map[string]bool)
	}
	//
	x.modsDirect[num][v] = true
}

func (x *extractor) walkExpr(num int, expr simple.Expr) {
	switch e := expr.(type) {
	case *simple.VarExpr:
		x.kb.AddVar(e.Name)
		x.addUses(num, e.Name)
	case *simple.ConstExpr:
		x.kb.AddConst(e.Value)
	case *simple.BinaryExpr:
		x.walkExpr(num, e.Lhs)
		x.walkExpr(num, e.Rhs)
	}
}

func (x *extractor) walkCondConsts(cond simple.CondExpr) {
	switch c := cond.(type) {
	case *simple.NotCond:
		x.walkCondConsts(c.Cond)
	case *simple.AndCond:
		x.walkCondConsts(c.Lhs)
		x.walkCondConsts(c.Rhs)
	case *simple.OrCond:
		x.walkCondConsts(c.Lhs)
		x.walkCondConsts(c.Rhs)
	case *simple.RelCond:
		x.collectExprConsts(c.Lhs)
		x.collectExprConsts(c.Rhs)
	}
}

func (x *extractor) collectExprConsts(expr simple.Expr) {
	switch e := expr.(type) {
	case *simple.ConstExpr:
		x.kb.AddConst(e.Value)
	case *simple.BinaryExpr:
		x.collectExprConsts(e.Lhs)
		x.collectExprConsts(e.Rhs)
	}
}

// lastStmtNum returns the largest statement number in a list, accounting
// for nested bodies.
func (x *extractor) lastStmtNum(stmts []simple.Stmt) int {
	last := 0
	//
	for _, stmt := range stmts {
		num := stmt.StmtNum()
		//
		switch s := stmt.(type) {
		case *simple.WhileStmt:
			num = max(num, x.lastStmtNum(s.Body))
		case *simple.IfStmt:
			num = max(num, x.lastStmtNum(s.Then), x.lastStmtNum(s.Else))
		}
		//
		last = max(last, num)
	}
	//
	return last
}

// ============================================================================
// Phase 2: call graph ordering
// ============================================================================

// topologicalCallOrder orders procedures callees-first, failing on
// recursive or cyclic calls.
func (x *extractor) topologicalCallOrder(program *simple.Program) ([]string, error) {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	//
	var (
		colour = make(map[string]int)
		order  []string
		visit  func(name string) error
	)
	//
	visit = func(name string) error {
		switch colour[name] {
		case grey:
			return source.NewSourceError(
				fmt.Sprintf("Recursive or cyclic call involving procedure %s.", name))
		case black:
			return nil
		}
		//
		colour[name] = grey
		//
		for callee := range x.callees[name] {
			if err := visit(callee); err != nil {
				return err
			}
		}
		//
		colour[name] = black
		order = append(order, name)
		//
		return nil
	}
	//
	for _, proc := range program.Procedures {
		if err := visit(proc.Name); err != nil {
			return nil, err
		}
	}
	// order is callees-first already
	return order, nil
}

// ============================================================================
// Phase 3: transitive uses/modifies
// ============================================================================

// propagateUsesModifies lifts direct uses/modifies to procedures (through
// calls), to call statements, and to container ancestors, then records the
// final relations.
func (x *extractor) propagateUsesModifies(order []string) {
	x.procUses = make(map[string]map[string]bool)
	x.procMods = make(map[string]map[string]bool)
	// Procedure level, callees first
	for _, name := range order {
		uses := make(map[string]bool)
		mods := make(map[string]bool)
		//
		x.forEachStmt(x.procs[name].Body, func(stmt simple.Stmt) {
			num := stmt.StmtNum()
			//
			for v := range x.usesDirect[num] {
				uses[v] = true
			}
			//
			for v := range x.modsDirect[num] {
				mods[v] = true
			}
		})
		//
		for callee := range x.callees[name] {
			for v := range x.procUses[callee] {
				uses[v] = true
			}
			//
			for v := range x.procMods[callee] {
				mods[v] = true
			}
		}
		//
		x.procUses[name] = uses
		x.procMods[name] = mods
	}
	// Call statements inherit their callee's relations
	for num, callee := range x.callSites {
		for v := range x.procUses[callee] {
			x.addUses(num, v)
		}
		//
		for v := range x.procMods[callee] {
			x.addModifies(num, v)
		}
	}
	// Containers inherit from their descendants.  Snapshot first: the
	// propagation inserts ancestor entries into the maps being read.
	for num, uses := range snapshot(x.usesDirect) {
		for a := x.parent[num]; a != 0; a = x.parent[a] {
			for v := range uses {
				x.addUses(a, v)
			}
		}
	}
	//
	for num, mods := range snapshot(x.modsDirect) {
		for a := x.parent[num]; a != 0; a = x.parent[a] {
			for v := range mods {
				x.addModifies(a, v)
			}
		}
	}
	// Record the final statement and procedure relations
	for num, uses := range x.usesDirect {
		for v := range uses {
			x.kb.AddUsesS(num, v)
		}
	}
	//
	for num, mods := range x.modsDirect {
		for v := range mods {
			x.kb.AddModifiesS(num, v)
		}
	}
	//
	for name, uses := range x.procUses {
		for v := range uses {
			x.kb.AddUsesP(name, v)
		}
	}
	//
	for name, mods := range x.procMods {
		for v := range mods {
			x.kb.AddModifiesP(name, v)
		}
	}
}

// snapshot copies the outer map and its variable sets.
func snapshot(m map[int]map[string]bool) map[int]map[string]bool {
	dup := make(map[int]map[string]bool, len(m))
	//
	for num, vars := range m {
		set := make(map[string]bool, len(vars))
		for v := range vars {
			set[v] = true
		}
		//
		dup[num] = set
	}
	//
	return dup
}

// forEachStmt visits every statement in a list, including nested ones.
func (x *extractor) forEachStmt(stmts []simple.Stmt, fn func(simple.Stmt)) {
	for _, stmt := range stmts {
		fn(stmt)
		//
		switch s := stmt.(type) {
		case *simple.WhileStmt:
			x.forEachStmt(s.Body, fn)
		case *simple.IfStmt:
			x.forEachStmt(s.Then, fn)
			x.forEachStmt(s.Else, fn)
		}
	}
}

// ============================================================================
// Phase 4: closures of Follows, Parent and Calls
// ============================================================================

func (x *extractor) closeFollowsParent() {
	n := x.maxStmt + 1
	//
	closePairs(x.followsEdges, n, func(a, b int) {
		// edges only run forwards, so the ordering invariant holds
		_ = x.kb.AddFollowsT(a, b)
	})
	//
	closePairs(x.parentEdges, n, func(a, b int) {
		_ = x.kb.AddParentT(a, b)
	})
}

func (x *extractor) closeCalls() {
	for caller, callees := range x.callees {
		// depth-first reachability over the acyclic call graph
		var (
			visited = make(map[string]bool)
			stack   []string
		)
		//
		for callee := range callees {
			stack = append(stack, callee)
		}
		//
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			//
			if visited[top] {
				continue
			}
			//
			visited[top] = true
			x.kb.AddCallsT(caller, top)
			//
			for next := range x.callees[top] {
				stack = append(stack, next)
			}
		}
	}
}

// postfixOf renders an expression in the canonical postfix form: tokens
// separated by single spaces with one leading and one trailing space.
func postfixOf(expr simple.Expr) string {
	var parts []string
	//
	var walk func(simple.Expr)
	walk = func(e simple.Expr) {
		switch e := e.(type) {
		case *simple.VarExpr:
			parts = append(parts, e.Name)
		case *simple.ConstExpr:
			parts = append(parts, e.Value)
		case *simple.BinaryExpr:
			walk(e.Lhs)
			walk(e.Rhs)
			parts = append(parts, e.Op)
		}
	}
	//
	walk(expr)
	//
	return " " + strings.Join(parts, " ") + " "
}

// condVars returns the distinct control variables of a condition, in first
// appearance order.
func condVars(cond simple.CondExpr) []string {
	var (
		vars []string
		seen = make(map[string]bool)
	)
	//
	var walkExpr func(simple.Expr)
	walkExpr = func(e simple.Expr) {
		switch e := e.(type) {
		case *simple.VarExpr:
			if !seen[e.Name] {
				seen[e.Name] = true
				vars = append(vars, e.Name)
			}
		case *simple.BinaryExpr:
			walkExpr(e.Lhs)
			walkExpr(e.Rhs)
		}
	}
	//
	var walk func(simple.CondExpr)
	walk = func(c simple.CondExpr) {
		switch c := c.(type) {
		case *simple.NotCond:
			walk(c.Cond)
		case *simple.AndCond:
			walk(c.Lhs)
			walk(c.Rhs)
		case *simple.OrCond:
			walk(c.Lhs)
			walk(c.Rhs)
		case *simple.RelCond:
			walkExpr(c.Lhs)
			walkExpr(c.Rhs)
		}
	}
	//
	walk(cond)
	//
	return vars
}
