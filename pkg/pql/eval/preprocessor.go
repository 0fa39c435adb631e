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
	"sort"

	"github.com/simplelang/go-spa/pkg/pql"
)

// Relations which are cheap to evaluate; everything reached through the
// control-flow graph is expensive.
var cheapClauses = map[pql.ClauseType]bool{
	pql.FollowsClause:   true,
	pql.FollowsTClause:  true,
	pql.ParentClause:    true,
	pql.ParentTClause:   true,
	pql.UsesSClause:     true,
	pql.UsesPClause:     true,
	pql.ModifiesSClause: true,
	pql.ModifiesPClause: true,
	pql.CallsClause:     true,
	pql.CallsTClause:    true,
	pql.WithClause:      true,
}

// SortClauses partitions clauses into evaluation groups: first the clauses
// without synonyms (pure existence checks), then groups whose synonyms form
// a connected component disjoint from the query targets, then groups
// connected to at least one target.  Within each group, clauses which bind
// a literal or wildcard come first, then pattern clauses, then cheap
// relations before expensive ones; ties keep source order.
func SortClauses(targets []pql.Entity, clauses []pql.Clause) [][]pql.Clause {
	var (
		noSynonym []pql.Clause
		// synonym -> component id, via union by smallest clause index
		components = newComponents()
	)
	// Partition clauses and union their synonyms
	for i, clause := range clauses {
		synonyms := clauseSynonyms(clause)
		//
		if len(synonyms) == 0 {
			noSynonym = append(noSynonym, clause)
			continue
		}
		//
		components.add(i, synonyms)
	}
	// Split components by target connectivity
	targetSynonyms := make(map[string]bool)
	for _, target := range targets {
		targetSynonyms[target.Value()] = true
	}
	//
	var disconnected, connected [][]int
	//
	for _, component := range components.groups() {
		touchesTarget := false
		//
		for _, i := range component {
			for _, syn := range clauseSynonyms(clauses[i]) {
				if targetSynonyms[syn] {
					touchesTarget = true
				}
			}
		}
		//
		if touchesTarget {
			connected = append(connected, component)
		} else {
			disconnected = append(disconnected, component)
		}
	}
	// Assemble ordered groups
	var groups [][]pql.Clause
	//
	if len(noSynonym) > 0 {
		groups = append(groups, noSynonym)
	}
	//
	for _, component := range append(disconnected, connected...) {
		groups = append(groups, orderByCost(clauses, component))
	}
	//
	return groups
}

// clauseSynonyms returns the synonym names appearing in a clause, in
// parameter order.
func clauseSynonyms(clause pql.Clause) []string {
	var synonyms []string
	//
	for _, param := range clause.Params() {
		if param.IsSynonym() {
			synonyms = append(synonyms, param.Value())
		}
	}
	//
	return synonyms
}

// orderByCost sorts the clauses of one component by evaluation cost,
// breaking ties by source order.
func orderByCost(clauses []pql.Clause, component []int) []pql.Clause {
	sort.SliceStable(component, func(a, b int) bool {
		return clauseCost(clauses[component[a]]) < clauseCost(clauses[component[b]])
	})
	//
	ordered := make([]pql.Clause, len(component))
	for j, i := range component {
		ordered[j] = clauses[i]
	}
	//
	return ordered
}

// clauseCost ranks a clause: literal or wildcard arguments make it most
// selective, then pattern clauses, then cheap relations, then the
// CFG-derived relations.
func clauseCost(clause pql.Clause) int {
	for _, param := range clause.Params() {
		if param.IsName() || param.IsNumber() || param.IsWildcard() {
			return 0
		}
	}
	//
	switch clause.Type() {
	case pql.PatternAssignClause, pql.PatternIfClause, pql.PatternWhileClause:
		return 1
	default:
		if cheapClauses[clause.Type()] {
			return 2
		}
		//
		return 3
	}
}

// components is a small union-find over clause indices keyed by shared
// synonyms.
type components struct {
	// synonym -> representative clause index
	bySynonym map[string]int
	// representative clause index -> member clause indices
	members map[int][]int
}

func newComponents() *components {
	return &components{make(map[string]int), make(map[int][]int)}
}

// add merges clause i into the components of its synonyms, fusing
// components which share a synonym.
func (p *components) add(i int, synonyms []string) {
	rep := i
	p.members[i] = append(p.members[i], i)
	//
	for _, syn := range synonyms {
		other, ok := p.bySynonym[syn]
		//
		switch {
		case !ok:
			p.bySynonym[syn] = rep
		case other != rep:
			// Fuse the two components under the smaller representative
			lo, hi := min(rep, other), max(rep, other)
			p.members[lo] = append(p.members[lo], p.members[hi]...)
			delete(p.members, hi)
			//
			for syn2, r := range p.bySynonym {
				if r == hi {
					p.bySynonym[syn2] = lo
				}
			}
			//
			rep = lo
		}
	}
}

// groups returns the components, ordered by their smallest clause index,
// members in source order.
func (p *components) groups() [][]int {
	reps := make([]int, 0, len(p.members))
	for rep := range p.members {
		reps = append(reps, rep)
	}
	//
	sort.Ints(reps)
	//
	groups := make([][]int, 0, len(reps))
	//
	for _, rep := range reps {
		member := p.members[rep]
		sort.Ints(member)
		groups = append(groups, member)
	}
	//
	return groups
}
