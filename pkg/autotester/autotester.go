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
package autotester

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// QueryCase is one five-line block of a query file: an identifier, a
// comment, the query text, the expected answers and the expected runtime.
type QueryCase struct {
	ID       string
	Comment  string
	Query    string
	Expected string
	Budget   string
}

// ParseQueryFile splits a query file into its five-line blocks.  Blank
// lines between blocks are skipped.
func ParseQueryFile(contents string) ([]QueryCase, error) {
	var (
		lines []string
		cases []QueryCase
	)
	//
	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" && len(lines)%5 == 0 {
			continue
		}
		//
		lines = append(lines, line)
	}
	//
	if len(lines)%5 != 0 {
		return nil, fmt.Errorf("query file is not composed of five-line blocks (%d lines)", len(lines))
	}
	//
	for i := 0; i < len(lines); i += 5 {
		cases = append(cases, QueryCase{
			ID:       strings.TrimSpace(lines[i]),
			Comment:  strings.TrimSpace(lines[i+1]),
			Query:    lines[i+2],
			Expected: strings.TrimSpace(lines[i+3]),
			Budget:   strings.TrimSpace(lines[i+4]),
		})
	}
	//
	return cases, nil
}

// xmlQueries is the shape of the answer document.
type xmlQueries struct {
	XMLName xml.Name   `xml:"queries"`
	Queries []xmlQuery `xml:"query"`
}

type xmlQuery struct {
	ID       string `xml:"id"`
	QueryStr string `xml:"querystr"`
	Answer   string `xml:"answer"`
}

// xmlError is the answer document produced when the source program itself
// cannot be analysed.
type xmlError struct {
	XMLName xml.Name `xml:"error"`
	Message string   `xml:",chardata"`
}

// Run evaluates every query of a query file against a source file, writing
// the XML answer document to the given path.
func Run(sourceFile string, queryFile string, outputFile string) error {
	contents, err := os.ReadFile(queryFile)
	if err != nil {
		return err
	}
	//
	cases, err := ParseQueryFile(string(contents))
	if err != nil {
		return err
	}
	//
	session, err := NewSession(sourceFile)
	if err != nil {
		// The program itself is unusable: report it and serve no queries
		log.Errorf("source error: %v", err)
		return writeXML(outputFile, xmlError{Message: err.Error()})
	}
	//
	document := xmlQueries{}
	//
	for _, c := range cases {
		results, err := session.Evaluate(c.Query)
		if err != nil {
			// A failed query yields an empty answer; continue with the next
			log.Warnf("query %s: %v", c.ID, err)
			results = nil
		}
		//
		document.Queries = append(document.Queries, xmlQuery{
			ID:       c.ID,
			QueryStr: c.Query,
			Answer:   formatAnswer(results),
		})
	}
	//
	return writeXML(outputFile, document)
}

// formatAnswer renders a result list as the comma-separated answer string.
// Results are sorted so the document is reproducible; the result list
// itself carries no order.
func formatAnswer(results []string) string {
	if len(results) == 0 {
		return "none"
	}
	//
	sorted := append([]string(nil), results...)
	sort.Strings(sorted)
	//
	return strings.Join(sorted, ",")
}

func writeXML(outputFile string, document any) error {
	bytes, err := xml.MarshalIndent(document, "", "  ")
	if err != nil {
		return err
	}
	//
	return os.WriteFile(outputFile, append(bytes, '\n'), 0644)
}
