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
	"testing"

	"github.com/simplelang/go-spa/pkg/table"
	"github.com/simplelang/go-spa/pkg/util/source"
)

func Test_Pkb_01_EntityTables(t *testing.T) {
	kb := NewPkb()
	kb.AddVar("x")
	kb.AddVar("x")
	kb.AddProc("main")
	kb.AddConst("42")
	//
	if kb.VarTable().Size() != 1 {
		t.Errorf("variables are a set")
	}
	//
	ref, ok := kb.LookupEntity("main")
	if !ok || !kb.ProcTable().Contains(table.NewRow(ref)) {
		t.Errorf("missing procedure main")
	}
}

func Test_Pkb_02_StmtKindsPartition(t *testing.T) {
	kb := NewPkb()
	kb.AddAssign(1)
	kb.AddWhile(2)
	kb.AddRead(3)
	//
	if kb.StmtTable().Size() != 3 {
		t.Errorf("every kind insert also lands in the statement table")
	}
	//
	if kb.AssignTable().Size() != 1 || kb.WhileTable().Size() != 1 || kb.ReadTable().Size() != 1 {
		t.Errorf("statement kinds are partitioned")
	}
}

func Test_Pkb_03_DomainViolations(t *testing.T) {
	kb := NewPkb()
	//
	if err := kb.AddFollows(5, 3); err == nil {
		t.Errorf("Follows(5, 3) must be rejected")
	}
	//
	if err := kb.AddFollows(3, 3); err == nil {
		t.Errorf("Follows(3, 3) must be rejected")
	}
	//
	if err := kb.AddParent(7, 2); !source.IsKind(err, source.Domain) {
		t.Errorf("expected a domain violation, got %v", err)
	}
	//
	if err := kb.AddFollows(3, 5); err != nil {
		t.Errorf("Follows(3, 5) must be accepted: %v", err)
	}
}

func Test_Pkb_04_ConvenienceGetters(t *testing.T) {
	kb := NewPkb()
	//
	if err := kb.AddFollows(1, 2); err != nil {
		t.Fatal(err)
	}
	//
	if err := kb.AddParent(2, 3); err != nil {
		t.Fatal(err)
	}
	//
	follower := kb.Follower(1)
	if follower.Size() != 1 || !follower.Contains(table.NewRow(kb.IntRefFromStmtNum(2))) {
		t.Errorf("unexpected follower of 1")
	}
	//
	if kb.FollowedBy(2).Size() != 1 {
		t.Errorf("unexpected followedBy of 2")
	}
	//
	parent := kb.ParentOf(3)
	if parent.Size() != 1 || !parent.Contains(table.NewRow(kb.IntRefFromStmtNum(2))) {
		t.Errorf("unexpected parent of 3")
	}
	//
	if kb.ChildOf(2).Size() != 1 {
		t.Errorf("unexpected children of 2")
	}
}

func Test_Pkb_05_GettersReturnCopies(t *testing.T) {
	kb := NewPkb()
	kb.AddVar("x")
	//
	copied := kb.VarTable()
	copied.InsertRow(table.NewRow(kb.IntRefFromStmtNum(9)))
	//
	if kb.VarTable().Size() != 1 {
		t.Errorf("mutating a returned table leaked into the store")
	}
}

func Test_Pkb_06_AttributeHelpers(t *testing.T) {
	kb := NewPkb()
	kb.AddCall(1)
	kb.AddCallProc(1, "helper")
	kb.AddRead(2)
	kb.AddReadVar(2, "x")
	kb.AddPrint(3)
	kb.AddPrintVar(3, "y")
	//
	if kb.ProcNameFromCallStmtIntRef(kb.IntRefFromStmtNum(1)) != "helper" {
		t.Errorf("call attribute lookup failed")
	}
	//
	if kb.VarNameFromReadStmtIntRef(kb.IntRefFromStmtNum(2)) != "x" {
		t.Errorf("read attribute lookup failed")
	}
	//
	if kb.VarNameFromPrintStmtIntRef(kb.IntRefFromStmtNum(3)) != "y" {
		t.Errorf("print attribute lookup failed")
	}
}

func Test_Pkb_07_RefString(t *testing.T) {
	kb := NewPkb()
	kb.AddVar("x")
	//
	ref, _ := kb.LookupEntity("x")
	if kb.RefString(ref) != "x" {
		t.Errorf("entity reference renders as its text")
	}
	//
	if kb.RefString(kb.IntRefFromStmtNum(12)) != "12" {
		t.Errorf("statement reference renders as its number")
	}
}

func Test_Pkb_08_HigherLevelQueries(t *testing.T) {
	kb := NewPkb()
	kb.AddAssign(1)
	kb.AddAssign(2)
	kb.AddRead(3)
	kb.AddUsesS(1, "x")
	kb.AddUsesS(2, "y")
	kb.AddModifiesS(1, "x")
	kb.AddModifiesS(3, "x")
	//
	assigns := kb.AssignUses("x")
	if len(assigns) != 1 || !assigns[1] {
		t.Errorf("unexpected assign users of x: %v", assigns)
	}
	//
	if len(kb.AssignUses("ghost")) != 0 {
		t.Errorf("an unknown variable has no users")
	}
	//
	mods := kb.ModifiedBy(1)
	if len(mods) != 1 || !mods["x"] {
		t.Errorf("unexpected modifications of 1: %v", mods)
	}
	//
	uses := kb.UsedVarsOf(2)
	if len(uses) != 1 || !uses["y"] {
		t.Errorf("unexpected uses of 2: %v", uses)
	}
}

func Test_Pkb_09_Cfg(t *testing.T) {
	kb := NewPkb()
	kb.AddCfgEdge(1, 2)
	kb.AddCfgEdge(2, 1)
	kb.AddCfgEdge(2, 3)
	//
	next := kb.NextStmtsFromCfg(2)
	if len(next) != 2 {
		t.Errorf("expected two successors of 2, got %v", next)
	}
	//
	if kb.NextStmtsFromCfg(99) != nil {
		t.Errorf("out-of-range statements have no successors")
	}
}
