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
	"github.com/bits-and-blooms/bitset"

	"github.com/simplelang/go-spa/pkg/simple"
)

// buildControlFlow constructs the per-procedure control-flow graph and
// everything derived from it: Next and its closure, Affects and its
// closure, and the inter-procedural (branch-in/branch-out) variants.
func (x *extractor) buildControlFlow(program *simple.Program) {
	x.cfg = make([][]int, x.maxStmt+1)
	//
	procEnds := make(map[string][]int)
	//
	for _, proc := range program.Procedures {
		x.linkStmtLst(proc.Body, 0)
		//
		ends := tails(proc.Body)
		procEnds[proc.Name] = ends
		//
		for _, end := range ends {
			x.kb.AddProcEnd(proc.Name, end)
		}
	}
	// Record Next and the raw adjacency
	for from, succs := range x.cfg {
		for _, to := range succs {
			x.kb.AddCfgEdge(from, to)
			x.kb.AddNext(from, to)
		}
	}
	//
	closeAdjacency(x.cfg, x.kb.AddNextT)
	// Affects over the intra-procedural graph
	affects := make([][]int, x.maxStmt+1)
	//
	for num, assign := range x.assigns {
		for _, affected := range x.affectsFrom(num, assign.Lhs, x.cfg, false) {
			affects[num] = append(affects[num], affected)
			x.kb.AddAffects(num, affected)
		}
	}
	//
	closeAdjacency(affects, x.kb.AddAffectsT)
	// Branch-in/branch-out graph: calls branch into their callee, and the
	// callee's exit points return to the call's successors
	bip := make([][]int, x.maxStmt+1)
	for from, succs := range x.cfg {
		bip[from] = append([]int(nil), succs...)
	}
	//
	for call, callee := range x.callSites {
		returns := bip[call]
		bip[call] = []int{x.kb.StartStmtFromProc(callee)}
		//
		for _, end := range procEnds[callee] {
			bip[end] = append(bip[end], returns...)
		}
	}
	//
	for from, succs := range bip {
		for _, to := range succs {
			x.kb.AddNextBip(from, to)
		}
	}
	//
	closeAdjacency(bip, x.kb.AddNextBipT)
	// Affects over the branch graph: call statements are traversed into
	// their callee, so they neither use nor kill by themselves
	affectsBip := make([][]int, x.maxStmt+1)
	//
	for num, assign := range x.assigns {
		for _, affected := range x.affectsFrom(num, assign.Lhs, bip, true) {
			affectsBip[num] = append(affectsBip[num], affected)
			x.kb.AddAffectsBip(num, affected)
		}
	}
	//
	closeAdjacency(affectsBip, x.kb.AddAffectsBipT)
}

// linkStmtLst wires the control-flow edges of one statement list, where
// follow is the statement control reaches after the list (0 when control
// leaves the enclosing procedure).
func (x *extractor) linkStmtLst(stmts []simple.Stmt, follow int) {
	for i, stmt := range stmts {
		num := stmt.StmtNum()
		//
		next := follow
		if i+1 < len(stmts) {
			next = stmts[i+1].StmtNum()
		}
		//
		switch s := stmt.(type) {
		case *simple.WhileStmt:
			// into the loop, and onwards when the condition fails
			x.addCfgEdge(num, s.Body[0].StmtNum())
			x.linkStmtLst(s.Body, num)
			//
			if next != 0 {
				x.addCfgEdge(num, next)
			}
		case *simple.IfStmt:
			x.addCfgEdge(num, s.Then[0].StmtNum())
			x.addCfgEdge(num, s.Else[0].StmtNum())
			x.linkStmtLst(s.Then, next)
			x.linkStmtLst(s.Else, next)
		default:
			if next != 0 {
				x.addCfgEdge(num, next)
			}
		}
	}
}

func (x *extractor) addCfgEdge(from int, to int) {
	x.cfg[from] = append(x.cfg[from], to)
}

// tails returns the exit points of a statement list: the statements from
// which control leaves it.
func tails(stmts []simple.Stmt) []int {
	last := stmts[len(stmts)-1]
	//
	switch s := last.(type) {
	case *simple.IfStmt:
		return append(tails(s.Then), tails(s.Else)...)
	default:
		// a while loop exits at its own condition check
		return []int{last.StmtNum()}
	}
}

// affectsFrom walks the given graph from an assign statement modifying
// variable v, collecting the assign statements its value reaches.  A path
// is cut at any statement which modifies v again; when transparentCalls is
// set, call statements neither use nor kill since the walk follows them
// into their callee.
func (x *extractor) affectsFrom(from int, v string, adj [][]int, transparentCalls bool) []int {
	var (
		affected []int
		visited  = bitset.New(uint(len(adj)))
		stack    = append([]int(nil), adj[from]...)
	)
	//
	for len(stack) > 0 {
		num := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		//
		if visited.Test(uint(num)) {
			continue
		}
		//
		visited.Set(uint(num))
		// an assign whose right-hand side reads v is affected
		if _, ok := x.assigns[num]; ok && x.usesDirect[num][v] {
			affected = append(affected, num)
		}
		//
		if x.kills(num, v, transparentCalls) {
			continue
		}
		//
		stack = append(stack, adj[num]...)
	}
	//
	return affected
}

// kills checks whether a statement redefines v, halting an affects path.
// Containers never kill: they are traversed, not executed.
func (x *extractor) kills(num int, v string, transparentCalls bool) bool {
	if assign, ok := x.assigns[num]; ok {
		return assign.Lhs == v
	}
	//
	if read, ok := x.reads[num]; ok {
		return read == v
	}
	//
	if callee, ok := x.callSites[num]; ok {
		if transparentCalls {
			return false
		}
		//
		return x.procMods[callee][v]
	}
	//
	return false
}
