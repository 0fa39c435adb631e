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
package termio

import (
	"fmt"
	"io"
	"strings"
)

// TablePrinter is useful for printing tables to the terminal.
type TablePrinter struct {
	widths []uint
	rows   [][]string
}

// NewTablePrinter constructs a new table with given dimensions.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	widths := make([]uint, width)
	rows := make([][]string, height)
	// Construct the table
	for i := uint(0); i < height; i++ {
		rows[i] = make([]string, width)
	}
	//
	return &TablePrinter{widths, rows}
}

// Set the contents of a given cell in this table.
func (p *TablePrinter) Set(col uint, row uint, val string) {
	p.widths[col] = max(p.widths[col], uint(len(val)))
	p.rows[row][col] = val
}

// Get the contents of a given cell in this table.
func (p *TablePrinter) Get(col uint, row uint) string {
	return p.rows[row][col]
}

// Print the table to the given writer, clipping every column to maxWidth
// characters when maxWidth is non-zero.
func (p *TablePrinter) Print(out io.Writer, maxWidth uint) {
	widths := make([]uint, len(p.widths))
	//
	for i, w := range p.widths {
		if maxWidth != 0 {
			w = min(w, maxWidth)
		}
		//
		widths[i] = w
	}
	//
	for _, row := range p.rows {
		for col, cell := range row {
			if uint(len(cell)) > widths[col] {
				cell = cell[:widths[col]]
			}
			//
			fmt.Fprintf(out, " %s |", pad(cell, widths[col]))
		}
		//
		fmt.Fprintln(out)
	}
}

func pad(cell string, width uint) string {
	if uint(len(cell)) >= width {
		return cell
	}
	//
	return cell + strings.Repeat(" ", int(width)-len(cell))
}
