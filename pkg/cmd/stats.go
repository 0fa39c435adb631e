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
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/simplelang/go-spa/pkg/table"
	"github.com/simplelang/go-spa/pkg/util/termio"
)

// statsCmd summarises the knowledge base extracted from a program.
var statsCmd = &cobra.Command{
	Use:   "stats source_file",
	Short: "Summarise the knowledge base extracted from a SIMPLE program.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		kb := openSession(args[0]).Pkb()
		//
		relations := []struct {
			name  string
			table *table.Table
		}{
			{"variable", kb.VarTable()},
			{"procedure", kb.ProcTable()},
			{"constant", kb.ConstTable()},
			{"stmt", kb.StmtTable()},
			{"assign", kb.AssignTable()},
			{"read", kb.ReadTable()},
			{"print", kb.PrintTable()},
			{"call", kb.CallTable()},
			{"while", kb.WhileTable()},
			{"if", kb.IfTable()},
			{"follows", kb.FollowsTable()},
			{"follows*", kb.FollowsTTable()},
			{"parent", kb.ParentTable()},
			{"parent*", kb.ParentTTable()},
			{"usesS", kb.UsesSTable()},
			{"modifiesS", kb.ModifiesSTable()},
			{"usesP", kb.UsesPTable()},
			{"modifiesP", kb.ModifiesPTable()},
			{"calls", kb.CallsTable()},
			{"calls*", kb.CallsTTable()},
			{"next", kb.NextTable()},
			{"next*", kb.NextTTable()},
			{"affects", kb.AffectsTable()},
			{"affects*", kb.AffectsTTable()},
			{"nextBip", kb.NextBipTable()},
			{"nextBip*", kb.NextBipTTable()},
			{"affectsBip", kb.AffectsBipTable()},
			{"affectsBip*", kb.AffectsBipTTable()},
		}
		//
		printer := termio.NewTablePrinter(2, uint(len(relations)))
		//
		for i, relation := range relations {
			printer.Set(0, uint(i), relation.name)
			printer.Set(1, uint(i), strconv.Itoa(relation.table.Size()))
		}
		//
		printer.Print(os.Stdout, termio.TerminalWidth().UnwrapOr(0))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
