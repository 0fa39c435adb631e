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
)

// closePairs materialises the transitive closure of an edge list over nodes
// 0..n-1, emitting every reachable pair.
func closePairs(edges [][2]int, n int, emit func(from int, to int)) {
	adj := make([][]int, n)
	//
	for _, edge := range edges {
		adj[edge[0]] = append(adj[edge[0]], edge[1])
	}
	//
	closeAdjacency(adj, emit)
}

// closeAdjacency materialises the transitive closure of a dense adjacency
// list, emitting every reachable pair.  Reachability is computed per source
// by breadth-first search over a bitset of visited nodes.
func closeAdjacency(adj [][]int, emit func(from int, to int)) {
	n := uint(len(adj))
	//
	for from := range adj {
		if len(adj[from]) == 0 {
			continue
		}
		//
		visited := bitset.New(n)
		queue := make([]int, 0, len(adj[from]))
		queue = append(queue, adj[from]...)
		//
		for head := 0; head < len(queue); head++ {
			next := queue[head]
			//
			if visited.Test(uint(next)) {
				continue
			}
			//
			visited.Set(uint(next))
			queue = append(queue, adj[next]...)
		}
		//
		for to, ok := visited.NextSet(0); ok; to, ok = visited.NextSet(to + 1) {
			emit(from, int(to))
		}
	}
}
