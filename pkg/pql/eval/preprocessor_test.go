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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplelang/go-spa/pkg/pql"
)

func syn(entityType pql.EntityType, name string) pql.Entity {
	return pql.NewEntity(entityType, name)
}

func num(value string) pql.Entity {
	return pql.NewEntity(pql.NumberType, value)
}

func Test_Preprocessor_01_NoSynonymBucket(t *testing.T) {
	clauses := []pql.Clause{
		pql.NewClause(pql.FollowsClause, num("1"), num("2")),
		pql.NewClause(pql.FollowsClause, syn(pql.StmtType, "s"), num("2")),
	}
	//
	groups := SortClauses([]pql.Entity{syn(pql.StmtType, "s")}, clauses)
	//
	assert.Len(t, groups, 2)
	// the pure existence check comes first
	assert.Len(t, groups[0], 1)
	assert.Equal(t, pql.FollowsClause, groups[0][0].Type())
	assert.Empty(t, clauseSynonyms(groups[0][0]))
}

func Test_Preprocessor_02_ConnectivityGrouping(t *testing.T) {
	// s1-s2 are connected through s2; v is its own component
	clauses := []pql.Clause{
		pql.NewClause(pql.FollowsClause, syn(pql.StmtType, "s1"), syn(pql.StmtType, "s2")),
		pql.NewClause(pql.ParentClause, syn(pql.StmtType, "s2"), syn(pql.StmtType, "s3")),
		pql.NewClause(pql.UsesSClause, syn(pql.AssignType, "a"), syn(pql.VariableType, "v")),
	}
	//
	groups := SortClauses([]pql.Entity{syn(pql.VariableType, "v")}, clauses)
	//
	assert.Len(t, groups, 2)
	// the disconnected s-component precedes the target-connected one
	assert.Len(t, groups[0], 2)
	assert.Len(t, groups[1], 1)
	assert.Equal(t, pql.UsesSClause, groups[1][0].Type())
}

func Test_Preprocessor_03_CostOrdering(t *testing.T) {
	// same component: n appears in all three
	clauses := []pql.Clause{
		pql.NewClause(pql.NextTClause, syn(pql.ProgLineType, "n"), syn(pql.ProgLineType, "m")),
		pql.NewClause(pql.FollowsClause, syn(pql.ProgLineType, "n"), syn(pql.ProgLineType, "m")),
		pql.NewClause(pql.NextClause, syn(pql.ProgLineType, "n"), num("3")),
	}
	//
	groups := SortClauses([]pql.Entity{syn(pql.ProgLineType, "n")}, clauses)
	//
	assert.Len(t, groups, 1)
	// the literal-bearing clause first, then cheap before expensive
	assert.Equal(t, pql.NextClause, groups[0][0].Type())
	assert.Equal(t, pql.FollowsClause, groups[0][1].Type())
	assert.Equal(t, pql.NextTClause, groups[0][2].Type())
}

func Test_Preprocessor_04_SourceOrderTies(t *testing.T) {
	clauses := []pql.Clause{
		pql.NewClause(pql.FollowsClause, syn(pql.StmtType, "s"), syn(pql.StmtType, "t")),
		pql.NewClause(pql.ParentClause, syn(pql.StmtType, "s"), syn(pql.StmtType, "t")),
	}
	//
	groups := SortClauses(nil, clauses)
	//
	assert.Len(t, groups, 1)
	assert.Equal(t, pql.FollowsClause, groups[0][0].Type())
	assert.Equal(t, pql.ParentClause, groups[0][1].Type())
}

func Test_Preprocessor_05_PatternBeforeRelations(t *testing.T) {
	clauses := []pql.Clause{
		pql.NewClause(pql.AffectsClause, syn(pql.AssignType, "a"), syn(pql.AssignType, "b")),
		pql.NewClause(pql.PatternAssignClause,
			syn(pql.AssignType, "a"), syn(pql.VariableType, "v"), syn(pql.VariableType, "v")),
	}
	//
	groups := SortClauses(nil, clauses)
	//
	assert.Len(t, groups, 1)
	assert.Equal(t, pql.PatternAssignClause, groups[0][0].Type())
}

func Test_Preprocessor_06_AttrRefSynonymsConnect(t *testing.T) {
	// a with clause on c.procName shares the synonym c
	clauses := []pql.Clause{
		pql.NewClause(pql.WithClause,
			pql.NewAttrRefEntity(pql.CallType, "c", pql.ProcNameRef),
			pql.NewEntity(pql.NameType, "main")),
		pql.NewClause(pql.FollowsClause, syn(pql.CallType, "c"), syn(pql.StmtType, "s")),
	}
	//
	groups := SortClauses(nil, clauses)
	//
	assert.Len(t, groups, 1)
	assert.Len(t, groups[0], 2)
}
