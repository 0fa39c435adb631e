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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplelang/go-spa/pkg/util/source"
)

func Test_Autotester_01_ParseQueryFile(t *testing.T) {
	cases, err := ParseQueryFile(`1
comment one
variable v; Select v
x,y
5000
2 - second
comment two
Select BOOLEAN
TRUE
5000
`)
	//
	assert.NoError(t, err)
	assert.Len(t, cases, 2)
	assert.Equal(t, "1", cases[0].ID)
	assert.Equal(t, "variable v; Select v", cases[0].Query)
	assert.Equal(t, "x,y", cases[0].Expected)
	assert.Equal(t, "2 - second", cases[1].ID)
}

func Test_Autotester_02_MalformedQueryFile(t *testing.T) {
	_, err := ParseQueryFile("only\nthree\nlines")
	//
	assert.Error(t, err)
}

func Test_Autotester_03_FormatAnswer(t *testing.T) {
	assert.Equal(t, "none", formatAnswer(nil))
	assert.Equal(t, "1,2,x", formatAnswer([]string{"x", "2", "1"}))
}

func Test_Autotester_04_Session(t *testing.T) {
	session, err := NewSessionFromSource(source.NewSourceFile("test",
		[]byte(`procedure p { x = 1; y = x + 1; }`)))
	//
	assert.NoError(t, err)
	//
	results, err2 := session.Evaluate("variable v; Select v")
	assert.NoError(t, err2)
	assert.ElementsMatch(t, []string{"x", "y"}, results)
	// a syntax error fails the query but not the session
	_, err2 = session.Evaluate("variable v; Select")
	assert.Error(t, err2)
	//
	results, err2 = session.Evaluate("variable v; Select v such that Modifies(1, v)")
	assert.NoError(t, err2)
	assert.ElementsMatch(t, []string{"x"}, results)
}

func Test_Autotester_05_RunWritesXml(t *testing.T) {
	dir := t.TempDir()
	//
	sourceFile := filepath.Join(dir, "program.txt")
	queryFile := filepath.Join(dir, "queries.txt")
	outputFile := filepath.Join(dir, "out.xml")
	//
	writeFile(t, sourceFile, `procedure p { x = 1; y = x + 1; }`)
	writeFile(t, queryFile, "1\nall variables\nvariable v; Select v\nx,y\n5000\n")
	//
	assert.NoError(t, Run(sourceFile, queryFile, outputFile))
	//
	contents, err := os.ReadFile(outputFile)
	assert.NoError(t, err)
	//
	text := string(contents)
	assert.True(t, strings.Contains(text, "<queries>"))
	assert.True(t, strings.Contains(text, "<answer>x,y</answer>"))
}

func Test_Autotester_06_RunReportsSourceError(t *testing.T) {
	dir := t.TempDir()
	//
	sourceFile := filepath.Join(dir, "program.txt")
	queryFile := filepath.Join(dir, "queries.txt")
	outputFile := filepath.Join(dir, "out.xml")
	//
	writeFile(t, sourceFile, `procedure p {`)
	writeFile(t, queryFile, "1\ncomment\nvariable v; Select v\nnone\n5000\n")
	//
	assert.NoError(t, Run(sourceFile, queryFile, outputFile))
	//
	contents, err := os.ReadFile(outputFile)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(contents), "<error>"))
	assert.True(t, strings.Contains(string(contents), "SPA Source Error"))
}

// ===================================================================
// Test Helpers
// ===================================================================

func writeFile(t *testing.T, path string, contents string) {
	t.Helper()
	//
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}
