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
	"os"

	"golang.org/x/term"

	"github.com/simplelang/go-spa/pkg/util"
)

// TerminalWidth returns the width of the attached terminal, or nothing when
// standard output is not a terminal (in which case output should not be
// clipped).
func TerminalWidth() util.Option[uint] {
	fd := int(os.Stdout.Fd())
	//
	if !term.IsTerminal(fd) {
		return util.None[uint]()
	}
	//
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return util.None[uint]()
	}
	//
	return util.Some(uint(width))
}
