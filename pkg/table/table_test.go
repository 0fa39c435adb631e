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
package table

import (
	"testing"

	"github.com/simplelang/go-spa/pkg/interner"
	"github.com/simplelang/go-spa/pkg/util"
)

func Test_Table_01_InsertContains(t *testing.T) {
	tbl := New(2)
	tbl.InsertRow(NewRow(1, 2))
	tbl.InsertRow(NewRow(3, 4))
	// duplicates are ignored
	tbl.InsertRow(NewRow(1, 2))
	//
	if tbl.Size() != 2 {
		t.Errorf("expected 2 rows, got %d", tbl.Size())
	}
	//
	if !tbl.Contains(NewRow(1, 2)) || !tbl.Contains(NewRow(3, 4)) {
		t.Errorf("missing inserted rows")
	}
	//
	if tbl.Contains(NewRow(2, 1)) {
		t.Errorf("contains a row which was never inserted")
	}
}

func Test_Table_02_DeleteRow(t *testing.T) {
	tbl := New(1)
	tbl.InsertRow(NewRow(7))
	//
	if !tbl.DeleteRow(NewRow(7)) {
		t.Errorf("failed to delete an existing row")
	}
	//
	if tbl.DeleteRow(NewRow(7)) {
		t.Errorf("deleted a row twice")
	}
	//
	if !tbl.Empty() {
		t.Errorf("table should be empty")
	}
}

func Test_Table_03_FilterColumn(t *testing.T) {
	tbl := fixture([][2]interner.IntRef{{1, 10}, {2, 20}, {3, 30}})
	tbl.FilterColumn(0, ValueSet{1: true, 3: true})
	//
	check_Rows(t, tbl, []Row{{1, 10}, {3, 30}})
}

func Test_Table_04_FilterIdempotence(t *testing.T) {
	values := ValueSet{2: true}
	//
	once := fixture([][2]interner.IntRef{{1, 10}, {2, 20}, {3, 30}})
	once.FilterColumn(0, values)
	//
	twice := fixture([][2]interner.IntRef{{1, 10}, {2, 20}, {3, 30}})
	twice.FilterColumn(0, values)
	twice.FilterColumn(0, values)
	//
	check_SameRows(t, once, twice)
}

func Test_Table_05_DropFilterCommute(t *testing.T) {
	values := ValueSet{1: true, 2: true}
	// filter on column 0, then drop column 1
	a := fixture([][2]interner.IntRef{{1, 10}, {2, 20}, {3, 30}})
	a.FilterColumn(0, values)
	a.DropColumn(1)
	// drop column 1, then filter on column 0
	b := fixture([][2]interner.IntRef{{1, 10}, {2, 20}, {3, 30}})
	b.DropColumn(1)
	b.FilterColumn(0, values)
	//
	check_SameRows(t, a, b)
}

func Test_Table_06_DropColumnNamed(t *testing.T) {
	tbl := NewWithHeader("a", "b")
	tbl.InsertRow(NewRow(1, 2))
	//
	if tbl.DropColumnNamed("c") {
		t.Errorf("dropped a column which does not exist")
	}
	//
	if !tbl.DropColumnNamed("b") {
		t.Errorf("failed to drop an existing column")
	}
	//
	check_Rows(t, tbl, []Row{{1}})
	//
	if tbl.ColumnIndex("b") != -1 {
		t.Errorf("column b should be gone")
	}
}

func Test_Table_07_Concatenate(t *testing.T) {
	a := New(2)
	a.InsertRow(NewRow(1, 2))
	//
	b := New(2)
	b.InsertRow(NewRow(3, 4))
	b.InsertRow(NewRow(1, 2))
	//
	a.Concatenate(b)
	//
	check_Rows(t, a, []Row{{1, 2}, {3, 4}})
}

func Test_Table_08_NaturalJoinIdentity(t *testing.T) {
	// T joined with the one-row sentinel is T
	sentinel := New(1)
	sentinel.InsertRow(NewRow(0))
	//
	tbl := NewWithHeader("s", "v")
	tbl.InsertRow(NewRow(1, 10))
	tbl.InsertRow(NewRow(2, 20))
	//
	joined := sentinel.Copy()
	joined.NaturalJoin(tbl)
	joined.DropColumn(0)
	//
	check_SameRows(t, joined, tbl)
}

func Test_Table_09_NaturalJoinCommon(t *testing.T) {
	a := NewWithHeader("s", "v")
	a.InsertRow(NewRow(1, 10))
	a.InsertRow(NewRow(2, 20))
	//
	b := NewWithHeader("v", "p")
	b.InsertRow(NewRow(10, 100))
	b.InsertRow(NewRow(30, 300))
	//
	a.NaturalJoin(b)
	// matched column of b is dropped
	check_Header(t, a, []string{"s", "v", "p"})
	check_Rows(t, a, []Row{{1, 10, 100}})
}

func Test_Table_10_NaturalJoinAnonymous(t *testing.T) {
	// anonymous columns never participate, so this is a cross join
	a := NewWithHeader("")
	a.InsertRow(NewRow(1))
	//
	b := NewWithHeader("")
	b.InsertRow(NewRow(2))
	b.InsertRow(NewRow(3))
	//
	a.NaturalJoin(b)
	//
	check_Header(t, a, []string{"", ""})
	check_Rows(t, a, []Row{{1, 2}, {1, 3}})
}

func Test_Table_11_InnerJoinKeepsColumns(t *testing.T) {
	a := NewWithHeader("s", "")
	a.InsertRow(NewRow(1, 10))
	a.InsertRow(NewRow(2, 20))
	//
	b := NewWithHeader("c", "")
	b.InsertRow(NewRow(5, 10))
	//
	a.InnerJoinOn(b, 1, 1)
	// the index-pair form keeps the duplicated join column
	check_Header(t, a, []string{"s", "", "c", ""})
	check_Rows(t, a, []Row{{1, 10, 5, 10}})
}

func Test_Table_12_InnerJoinPairs(t *testing.T) {
	a := New(2)
	a.InsertRow(NewRow(1, 10))
	a.InsertRow(NewRow(2, 20))
	//
	b := New(2)
	b.InsertRow(NewRow(1, 10))
	b.InsertRow(NewRow(2, 30))
	//
	a.InnerJoin(b, []util.Pair[int, int]{util.NewPair(0, 0), util.NewPair(1, 1)})
	//
	check_Rows(t, a, []Row{{1, 10, 1, 10}})
}

func Test_Table_13_InnerJoinNamed(t *testing.T) {
	a := NewWithHeader("s", "v")
	a.InsertRow(NewRow(1, 10))
	//
	b := NewWithHeader("v")
	b.InsertRow(NewRow(10))
	b.InsertRow(NewRow(20))
	//
	a.InnerJoinNamed(b, "v")
	//
	check_Header(t, a, []string{"s", "v"})
	check_Rows(t, a, []Row{{1, 10}})
}

func Test_Table_14_SetHeader(t *testing.T) {
	tbl := New(2)
	tbl.SetHeader("x", "y")
	//
	if tbl.ColumnIndex("x") != 0 || tbl.ColumnIndex("y") != 1 {
		t.Errorf("unexpected column indices")
	}
}

func Test_Table_15_CopyIsolation(t *testing.T) {
	tbl := NewWithHeader("a")
	tbl.InsertRow(NewRow(1))
	//
	dup := tbl.Copy()
	dup.InsertRow(NewRow(2))
	dup.SetHeader("b")
	//
	if tbl.Size() != 1 || tbl.ColumnIndex("a") != 0 {
		t.Errorf("mutating a copy changed the original")
	}
}

func Test_Row_01_HashEquality(t *testing.T) {
	a := NewRow(1, 2, 3)
	b := NewRow(1, 2, 3)
	c := NewRow(3, 2, 1)
	//
	if !a.Equals(b) || a.Hash() != b.Hash() {
		t.Errorf("equal rows must hash equal")
	}
	//
	if a.Equals(c) {
		t.Errorf("distinct rows compared equal")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func fixture(pairs [][2]interner.IntRef) *Table {
	tbl := New(2)
	//
	for _, pair := range pairs {
		tbl.InsertRow(NewRow(pair[0], pair[1]))
	}
	//
	return tbl
}

func check_Rows(t *testing.T, tbl *Table, expected []Row) {
	t.Helper()
	//
	if tbl.Size() != len(expected) {
		t.Errorf("expected %d rows, got %d", len(expected), tbl.Size())
		return
	}
	//
	for _, row := range expected {
		if !tbl.Contains(row) {
			t.Errorf("missing expected row %v", row)
		}
	}
}

func check_SameRows(t *testing.T, a *Table, b *Table) {
	t.Helper()
	//
	if a.Size() != b.Size() {
		t.Errorf("tables differ in size: %d vs %d", a.Size(), b.Size())
		return
	}
	//
	for _, row := range a.Rows() {
		if !b.Contains(row) {
			t.Errorf("row %v missing from second table", row)
		}
	}
}

func check_Header(t *testing.T, tbl *Table, expected []string) {
	t.Helper()
	//
	header := tbl.Header()
	if len(header) != len(expected) {
		t.Errorf("expected header %v, got %v", expected, header)
		return
	}
	//
	for i := range expected {
		if header[i] != expected[i] {
			t.Errorf("expected header %v, got %v", expected, header)
			return
		}
	}
}
