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
package hash

import (
	"sort"
	"testing"
)

func Test_HashSet_01(t *testing.T) {
	check_HashSet(t, []uint{1, 2, 3, 4, 3, 2, 1})
}

func Test_HashSet_02(t *testing.T) {
	items := make([]uint, 0, 2000)
	// every item twice
	for i := 0; i < 1000; i++ {
		items = append(items, uint(i), uint(i))
	}
	//
	check_HashSet(t, items)
}

func Test_HashSet_03_Collisions(t *testing.T) {
	// clashKey hashes everything to the same bucket
	set := NewSet[clashKey](0)
	//
	for i := 0; i < 100; i++ {
		set.Insert(clashKey{uint(i)})
	}
	//
	if set.Size() != 100 {
		t.Errorf("expected 100 items, got %d", set.Size())
	}
	//
	for i := 0; i < 100; i++ {
		if !set.Contains(clashKey{uint(i)}) {
			t.Errorf("missing item %d", i)
		}
	}
}

func Test_HashSet_04_Remove(t *testing.T) {
	set := NewSet[testKey](0)
	set.Insert(testKey{1})
	set.Insert(testKey{2})
	//
	if !set.Remove(testKey{1}) {
		t.Errorf("failed to remove an existing item")
	}
	//
	if set.Remove(testKey{1}) {
		t.Errorf("removed an item twice")
	}
	//
	if set.Size() != 1 || set.Contains(testKey{1}) || !set.Contains(testKey{2}) {
		t.Errorf("unexpected set contents after removal")
	}
}

func Test_HashSet_05_Iter(t *testing.T) {
	set := NewSet[testKey](0)
	//
	for i := 0; i < 10; i++ {
		set.Insert(testKey{uint(i)})
	}
	//
	count := 0
	set.Iter(func(testKey) bool {
		count++
		return true
	})
	//
	if count != 10 {
		t.Errorf("iterated %d items, expected 10", count)
	}
	// early termination
	count = 0
	set.Iter(func(testKey) bool {
		count++
		return count < 3
	})
	//
	if count != 3 {
		t.Errorf("iteration did not stop early (%d)", count)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_HashSet(t *testing.T, items []uint) {
	t.Helper()
	//
	set := NewSet[testKey](0)
	dups := uint(0)
	// Insert items
	for _, item := range items {
		if set.Insert(testKey{item}) {
			// Duplicate item inserted
			dups++
		}
	}
	// Sort items
	sort.Slice(items, func(i, j int) bool {
		return items[i] < items[j]
	})
	//
	count := uint(0)
	// Count unique items
	for i := 0; i < len(items); i++ {
		if i == 0 || items[i-1] != items[i] {
			count++
		}
	}
	//
	if set.Size() != count {
		t.Errorf("expected %d unique items, got %d", count, set.Size())
	}
	//
	if dups != uint(len(items))-count {
		t.Errorf("expected %d duplicates, got %d", uint(len(items))-count, dups)
	}
	//
	for _, item := range items {
		if !set.Contains(testKey{item}) {
			t.Errorf("missing item %d", item)
		}
	}
}

type testKey struct {
	item uint
}

func (k testKey) Equals(other testKey) bool {
	return k.item == other.item
}

func (k testKey) Hash() uint64 {
	return uint64(k.item) * 0x9e3779b9
}

type clashKey struct {
	item uint
}

func (k clashKey) Equals(other clashKey) bool {
	return k.item == other.item
}

func (k clashKey) Hash() uint64 {
	return 42
}
