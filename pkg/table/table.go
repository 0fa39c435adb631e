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
	"fmt"

	"github.com/simplelang/go-spa/pkg/interner"
	"github.com/simplelang/go-spa/pkg/util"
	"github.com/simplelang/go-spa/pkg/util/collection/hash"
)

// ValueSet is a set of references used for column filtering.
type ValueSet = map[interner.IntRef]bool

// Table is a set of fixed-width rows with an optional name per column.  A
// column whose name is the empty string is anonymous: natural join never
// matches two anonymous columns.
type Table struct {
	header []string
	rows   *hash.Set[Row]
}

// New constructs a table with n anonymous columns.
func New(n int) *Table {
	return &Table{make([]string, n), hash.NewSet[Row](0)}
}

// NewWithHeader constructs a table with the given named columns.
func NewWithHeader(header ...string) *Table {
	return &Table{header, hash.NewSet[Row](0)}
}

// Header returns the column names of this table.
func (p *Table) Header() []string {
	return p.header
}

// SetHeader replaces the column names of this table.  The new header must
// have the same width.
func (p *Table) SetHeader(header ...string) {
	if len(header) != len(p.header) {
		panic(fmt.Sprintf("header width %d does not match table width %d", len(header), len(p.header)))
	}
	//
	p.header = header
}

// ColumnIndex returns the index of the column with the given name, or -1 if
// no such column exists.
func (p *Table) ColumnIndex(name string) int {
	for i, h := range p.header {
		if h == name {
			return i
		}
	}
	//
	return -1
}

// InsertRow adds a row to this table.  Duplicate rows are ignored.
func (p *Table) InsertRow(row Row) {
	if len(row) != len(p.header) {
		panic(fmt.Sprintf("row width %d does not match table width %d", len(row), len(p.header)))
	}
	//
	p.rows.Insert(row)
}

// DeleteRow removes a row from this table, returning whether a deletion
// happened.
func (p *Table) DeleteRow(row Row) bool {
	return p.rows.Remove(row)
}

// Contains checks whether this table holds the given row.
func (p *Table) Contains(row Row) bool {
	return p.rows.Contains(row)
}

// Size returns the number of rows in this table.
func (p *Table) Size() int {
	return int(p.rows.Size())
}

// Empty checks whether this table holds no rows.
func (p *Table) Empty() bool {
	return p.rows.Size() == 0
}

// Rows returns the rows of this table in no particular order.
func (p *Table) Rows() []Row {
	rows := make([]Row, 0, p.rows.Size())
	//
	p.rows.Iter(func(r Row) bool {
		rows = append(rows, r)
		return true
	})
	//
	return rows
}

// Column returns the set of values held in a given column.
func (p *Table) Column(index int) ValueSet {
	values := make(ValueSet)
	//
	p.rows.Iter(func(r Row) bool {
		values[r[index]] = true
		return true
	})
	//
	return values
}

// Copy returns a deep copy of this table.
func (p *Table) Copy() *Table {
	header := make([]string, len(p.header))
	copy(header, p.header)
	//
	dup := &Table{header, hash.NewSet[Row](p.rows.Size())}
	//
	p.rows.Iter(func(r Row) bool {
		dup.rows.Insert(r.clone())
		return true
	})
	//
	return dup
}

// FilterColumn retains exactly those rows whose given column holds one of
// the given values.
func (p *Table) FilterColumn(index int, values ValueSet) {
	filtered := hash.NewSet[Row](0)
	//
	p.rows.Iter(func(r Row) bool {
		if values[r[index]] {
			filtered.Insert(r)
		}
		//
		return true
	})
	//
	p.rows = filtered
}

// DropColumn removes the column at the given index, narrowing every row.
func (p *Table) DropColumn(index int) {
	if index < 0 || index >= len(p.header) {
		panic(fmt.Sprintf("column index %d out of bounds", index))
	}
	//
	header := make([]string, 0, len(p.header)-1)
	header = append(header, p.header[:index]...)
	header = append(header, p.header[index+1:]...)
	//
	narrowed := hash.NewSet[Row](p.rows.Size())
	//
	p.rows.Iter(func(r Row) bool {
		dup := make(Row, 0, len(r)-1)
		dup = append(dup, r[:index]...)
		dup = append(dup, r[index+1:]...)
		narrowed.Insert(dup)
		//
		return true
	})
	//
	p.header = header
	p.rows = narrowed
}

// DropColumnNamed removes the first column with the given name, returning
// false if no such column exists.
func (p *Table) DropColumnNamed(name string) bool {
	index := p.ColumnIndex(name)
	if index < 0 {
		return false
	}
	//
	p.DropColumn(index)
	//
	return true
}

// Concatenate appends the other table's rows to this table.  Both tables
// must have the same width; headers are unchanged.
func (p *Table) Concatenate(other *Table) {
	if len(other.header) != len(p.header) {
		panic(fmt.Sprintf("cannot concatenate width %d with width %d", len(other.header), len(p.header)))
	}
	//
	other.rows.Iter(func(r Row) bool {
		p.rows.Insert(r.clone())
		return true
	})
}

// NaturalJoin joins this table with the other on all pairs of equally-named
// (non-anonymous) columns, dropping the matched columns of the other table.
// When no columns match this degenerates to a cross join.
func (p *Table) NaturalJoin(other *Table) {
	pairs := p.columnIndexPairs(other)
	//
	if len(pairs) == 0 {
		p.crossJoin(other)
		return
	}
	//
	p.join(other, pairs, true)
}

// InnerJoin joins this table with the other on the given explicit column
// index pairs.  Unlike natural join, duplicated join columns are kept.
func (p *Table) InnerJoin(other *Table, pairs []util.Pair[int, int]) {
	p.join(other, pairs, false)
}

// InnerJoinOn joins this table with the other on a single explicit column
// pair, keeping the duplicated column.
func (p *Table) InnerJoinOn(other *Table, thisIndex int, otherIndex int) {
	p.InnerJoin(other, []util.Pair[int, int]{util.NewPair(thisIndex, otherIndex)})
}

// InnerJoinNamed joins this table with the other on the column of the given
// name, which must exist in both tables.  The other table's join column is
// dropped, as for natural join.
func (p *Table) InnerJoinNamed(other *Table, name string) {
	i, j := p.ColumnIndex(name), other.ColumnIndex(name)
	if i < 0 || j < 0 {
		panic(fmt.Sprintf("column %q not common to both tables", name))
	}
	//
	p.join(other, []util.Pair[int, int]{util.NewPair(i, j)}, true)
}

// ============================================================================
// Helpers
// ============================================================================

// columnIndexPairs returns the column index pairs whose names are non-empty
// and equal in both tables.
func (p *Table) columnIndexPairs(other *Table) []util.Pair[int, int] {
	var pairs []util.Pair[int, int]
	//
	for i, h := range p.header {
		if h == "" {
			continue
		}
		//
		if j := other.ColumnIndex(h); j >= 0 {
			pairs = append(pairs, util.NewPair(i, j))
		}
	}
	//
	return pairs
}

// join implements the shared machinery of natural and inner joins.  A hash
// index is built on the other table's join columns so each of our rows only
// meets candidate partners.
func (p *Table) join(other *Table, pairs []util.Pair[int, int], dropMatched bool) {
	// Build hash index over the other table's join columns.
	index := make(map[uint64][]Row, other.Size())
	//
	other.rows.Iter(func(s Row) bool {
		key := joinKey(s, pairs, false)
		index[key] = append(index[key], s)
		//
		return true
	})
	// Decide which of the other table's columns are dropped from the result.
	omit := make(map[int]bool)
	if dropMatched {
		for _, pair := range pairs {
			omit[pair.Right] = true
		}
	}
	// Probe the index with each of our rows.
	joined := hash.NewSet[Row](0)
	//
	p.rows.Iter(func(r Row) bool {
		key := joinKey(r, pairs, true)
		//
		for _, s := range index[key] {
			if matches(r, s, pairs) {
				joined.Insert(r.concat(s, omit))
			}
		}
		//
		return true
	})
	// Construct the result header.
	header := make([]string, 0, len(p.header)+len(other.header)-len(omit))
	header = append(header, p.header...)
	//
	for j, h := range other.header {
		if !omit[j] {
			header = append(header, h)
		}
	}
	//
	p.header = header
	p.rows = joined
}

// crossJoin forms the cartesian product of this table with the other.
func (p *Table) crossJoin(other *Table) {
	joined := hash.NewSet[Row](0)
	//
	p.rows.Iter(func(r Row) bool {
		other.rows.Iter(func(s Row) bool {
			joined.Insert(r.concat(s, nil))
			return true
		})
		//
		return true
	})
	//
	header := make([]string, 0, len(p.header)+len(other.header))
	header = append(header, p.header...)
	header = append(header, other.header...)
	//
	p.header = header
	p.rows = joined
}

// joinKey hashes the join columns of a row, using the left or right side of
// each index pair.
func joinKey(r Row, pairs []util.Pair[int, int], left bool) uint64 {
	seed := uint64(len(pairs))
	//
	for _, pair := range pairs {
		var v interner.IntRef
		if left {
			v = r[pair.Left]
		} else {
			v = r[pair.Right]
		}
		//
		seed ^= uint64(v) + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	}
	//
	return seed
}

// matches checks the join columns are pairwise equal.
func matches(r Row, s Row, pairs []util.Pair[int, int]) bool {
	for _, pair := range pairs {
		if r[pair.Left] != s[pair.Right] {
			return false
		}
	}
	//
	return true
}
