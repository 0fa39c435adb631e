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

	"github.com/spf13/cobra"

	"github.com/simplelang/go-spa/pkg/autotester"
)

// autotesterCmd runs a batch query file and writes the XML answer document.
var autotesterCmd = &cobra.Command{
	Use:   "autotester source_file query_file output_file",
	Short: "Evaluate a batch query file and write the answers as XML.",
	Long: `Evaluate a batch query file and write the answers as XML.
	The query file is composed of five-line blocks: identifier, comment,
	query, expected answers, and time budget.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 3 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if err := autotester.Run(args[0], args[1], args[2]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(autotesterCmd)
}
