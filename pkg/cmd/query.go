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
	"strings"

	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simplelang/go-spa/pkg/util/termio"
)

// queryCmd evaluates ad-hoc queries against a SIMPLE source file.
var queryCmd = &cobra.Command{
	Use:   "query [flags] source_file",
	Short: "Evaluate PQL queries against a SIMPLE program.",
	Long: `Evaluate PQL queries against a SIMPLE program.
	Queries are given either directly with --query, or one per line
	with --file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		queries := gatherQueries(cmd)
		if len(queries) == 0 {
			fmt.Println("no queries given (use --query or --file)")
			os.Exit(1)
		}
		//
		session := openSession(args[0])
		asJSON := GetFlag(cmd, "json")
		//
		for _, queryText := range queries {
			results, err := session.Evaluate(queryText)
			if err != nil {
				// The query failed; report it and continue with the next
				log.Error(err)
				results = nil
			}
			//
			if asJSON {
				printJSON(queryText, results)
			} else {
				printResults(queryText, results)
			}
		}
	},
}

// gatherQueries collects the queries from the flags: one from --query
// and/or one per non-blank line of --file.
func gatherQueries(cmd *cobra.Command) []string {
	var queries []string
	//
	if q := GetString(cmd, "query"); q != "" {
		queries = append(queries, q)
	}
	//
	if filename := GetString(cmd, "file"); filename != "" {
		contents, err := os.ReadFile(filename)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		for _, line := range strings.Split(string(contents), "\n") {
			if strings.TrimSpace(line) != "" {
				queries = append(queries, line)
			}
		}
	}
	//
	return queries
}

// printResults renders a result list as a terminal table, clipped to the
// terminal width when attached to one.
func printResults(queryText string, results []string) {
	fmt.Printf("%s\n", queryText)
	//
	if len(results) == 0 {
		fmt.Println("  (no results)")
		return
	}
	//
	printer := termio.NewTablePrinter(1, uint(len(results)))
	for i, result := range results {
		printer.Set(0, uint(i), result)
	}
	//
	printer.Print(os.Stdout, termio.TerminalWidth().UnwrapOr(0))
}

func printJSON(queryText string, results []string) {
	if results == nil {
		results = []string{}
	}
	//
	bytes, err := json.Marshal(map[string]any{
		"query":   queryText,
		"results": results,
	})
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	//
	fmt.Println(string(bytes))
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringP("query", "q", "", "query text to evaluate")
	queryCmd.Flags().StringP("file", "f", "", "file holding one query per line")
	queryCmd.Flags().Bool("json", false, "emit results as JSON")
}
