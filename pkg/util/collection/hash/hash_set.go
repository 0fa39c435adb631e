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

// A reasonably simple hashset implementation which permits collisions.
// Collisions are handled gracefully using buckets, rather than assuming the
// hash function uniquely identifies the data in question.

// Hasher provides a generic definition of a hashing function suitable for use
// within the hashset.
type Hasher[T any] interface {
	// Check whether two items are equal (or not).
	Equals(T) bool
	// Return a suitable hashcode.
	Hash() uint64
}

// Set defines a generic set implementation backed by a map.  This is a true
// hashtable in that collisions are handled gracefully using buckets.
type Set[T Hasher[T]] struct {
	// items maps hashcodes to *buckets* of items.
	items map[uint64]hashSetBucket[T]
	// count of items held.
	count uint
}

// NewSet creates a new Set with a given underlying capacity.
func NewSet[T Hasher[T]](size uint) *Set[T] {
	items := make(map[uint64]hashSetBucket[T], size)
	return &Set[T]{items, 0}
}

// Size returns the number of unique items stored in this Set.
//
//nolint:revive
func (p *Set[T]) Size() uint {
	return p.count
}

// Insert a new item into this set, returning true if it was already contained
// and false otherwise.
//
//nolint:revive
func (p *Set[T]) Insert(item T) bool {
	var b1 hashSetBucket[T]
	// Compute item's hashcode
	hash := item.Hash()
	// Lookup existing bucket
	b1 = p.items[hash]
	// Insert new item
	r := b1.insert(item)
	// Update map
	p.items[hash] = b1
	//
	if !r {
		p.count++
	}
	// Done
	return r
}

// Contains checks whether the given item is contained within this set, or not.
//
//nolint:revive
func (p *Set[T]) Contains(item T) bool {
	hash := item.Hash()

	if bucket, ok := p.items[hash]; ok {
		return bucket.contains(item)
	}

	return false
}

// Remove a given item from this set, returning true if it was contained and
// false otherwise.
//
//nolint:revive
func (p *Set[T]) Remove(item T) bool {
	hash := item.Hash()
	//
	bucket, ok := p.items[hash]
	if !ok {
		return false
	}
	//
	if !bucket.remove(item) {
		return false
	}
	// Either update or delete the bucket
	if len(bucket.items) == 0 {
		delete(p.items, hash)
	} else {
		p.items[hash] = bucket
	}
	//
	p.count--
	//
	return true
}

// Iter visits every item in this set, in no particular order, until the
// given function returns false.
//
//nolint:revive
func (p *Set[T]) Iter(fn func(T) bool) {
	for _, b := range p.items {
		for _, item := range b.items {
			if !fn(item) {
				return
			}
		}
	}
}

// ============================================================================
// Bucket
// ============================================================================

type hashSetBucket[T Hasher[T]] struct {
	items []T
}

// Insert an item into this bucket, returning true if it was already present.
func (b *hashSetBucket[T]) insert(item T) bool {
	if b.contains(item) {
		return true
	}
	//
	b.items = append(b.items, item)
	//
	return false
}

func (b *hashSetBucket[T]) contains(item T) bool {
	for _, i := range b.items {
		if item.Equals(i) {
			return true
		}
	}
	//
	return false
}

func (b *hashSetBucket[T]) remove(item T) bool {
	for j, i := range b.items {
		if item.Equals(i) {
			b.items = append(b.items[:j], b.items[j+1:]...)
			return true
		}
	}
	//
	return false
}
