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
	"github.com/simplelang/go-spa/pkg/interner"
)

// Row is a fixed-width vector of references.  Equality and hashing are by
// value.
type Row []interner.IntRef

// NewRow constructs a row from the given references.
func NewRow(refs ...interner.IntRef) Row {
	return Row(refs)
}

// Equals compares two rows for value equality.
func (r Row) Equals(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	//
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	//
	return true
}

// Hash combines the row elements into a hashcode, seeding with the width so
// rows of different widths hash apart.
func (r Row) Hash() uint64 {
	seed := uint64(len(r))
	for _, v := range r {
		seed ^= uint64(v) + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	}
	//
	return seed
}

// clone returns a fresh copy of this row.
func (r Row) clone() Row {
	dup := make(Row, len(r))
	copy(dup, r)
	//
	return dup
}

// concat returns a fresh row holding this row followed by the other row,
// skipping the other row's columns listed in omit.
func (r Row) concat(other Row, omit map[int]bool) Row {
	dup := make(Row, 0, len(r)+len(other)-len(omit))
	dup = append(dup, r...)
	//
	for j, v := range other {
		if !omit[j] {
			dup = append(dup, v)
		}
	}
	//
	return dup
}
