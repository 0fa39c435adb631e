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
package interner

import (
	"fmt"
)

// IntRef is a dense integer alias for an interned entity or statement
// number.  Entity references are even and statement references odd, so the
// two namespaces are disjoint and a reference's namespace is recoverable
// without a map lookup.
type IntRef uint32

// Interner assigns IntRefs to every distinct string (variable name,
// procedure name, constant, postfix expression) and statement number.  It is
// populated once by the source pipeline and read-only thereafter.
type Interner struct {
	// entity string -> even ref
	entityRefs map[string]IntRef
	// inverse of entityRefs, indexed by ref >> 1
	entities []string
}

// NewInterner constructs an empty interner.
func NewInterner() *Interner {
	return &Interner{
		entityRefs: make(map[string]IntRef),
	}
}

// IntRefFromEntity returns the reference for a given entity string, creating
// one on demand.
func (p *Interner) IntRefFromEntity(entity string) IntRef {
	if ref, ok := p.entityRefs[entity]; ok {
		return ref
	}
	//
	ref := IntRef(len(p.entities) << 1)
	p.entityRefs[entity] = ref
	p.entities = append(p.entities, entity)
	//
	return ref
}

// IntRefFromStmtNum returns the reference for a given statement number.
// Statement references are monotonic in the statement number.
func (p *Interner) IntRefFromStmtNum(stmtNum int) IntRef {
	if stmtNum < 0 {
		panic(fmt.Sprintf("negative statement number %d", stmtNum))
	}
	//
	return IntRef(stmtNum<<1) | 1
}

// LookupEntity returns the reference for a given entity string, if one was
// ever interned.
func (p *Interner) LookupEntity(entity string) (IntRef, bool) {
	ref, ok := p.entityRefs[entity]
	return ref, ok
}

// EntityFromIntRef returns the entity string behind a given reference,
// panicking if the reference is a statement reference or was never interned.
func (p *Interner) EntityFromIntRef(ref IntRef) string {
	if ref&1 == 1 {
		panic(fmt.Sprintf("reference %d is a statement reference", ref))
	}
	//
	index := int(ref >> 1)
	if index >= len(p.entities) {
		panic(fmt.Sprintf("unknown entity reference %d", ref))
	}
	//
	return p.entities[index]
}

// StmtNumFromIntRef returns the statement number behind a given reference,
// panicking if the reference is an entity reference.
func (p *Interner) StmtNumFromIntRef(ref IntRef) int {
	if ref&1 == 0 {
		panic(fmt.Sprintf("reference %d is an entity reference", ref))
	}
	//
	return int(ref >> 1)
}

// IsStmtRef checks whether a given reference names a statement number.
func IsStmtRef(ref IntRef) bool {
	return ref&1 == 1
}
