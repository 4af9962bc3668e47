// Copyright Consensys Software Inc.
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
package compiler

import (
	"testing"

	"github.com/0xPolygonMiden/air-script/pkg/airscript/ast"
	"github.com/0xPolygonMiden/air-script/pkg/util/source"
)

func TestParser_01(t *testing.T) {
	module := parseModule(t, `
def Example

trace_columns:
    main: [a, b, c[3]]
    aux: [p]

public_inputs:
    stack: [16]

periodic_columns:
    k: [1, 0]

random_values:
    rand: [2]

boundary_constraints:
    enf a.first = stack[0]

integrity_constraints:
    let x = a + b
    enf a' = x * 2 when b
`)
	//
	if module.Name.Name != "Example" {
		t.Errorf("expected module Example, found %s", module.Name)
	}
	//
	if len(module.Trace.Main) != 3 || len(module.Trace.Aux) != 1 {
		t.Fatalf("malformed trace declaration")
	}
	//
	if module.Trace.Main[2].Width != 3 {
		t.Errorf("expected group of width 3, found %d", module.Trace.Main[2].Width)
	}
	//
	if len(module.Boundary) != 1 || len(module.Integrity) != 2 {
		t.Fatalf("malformed constraint sections")
	}
	// enf a' = x * 2 when b
	enforce, ok := module.Integrity[1].(*ast.EnforceStmt)
	if !ok || enforce.Selector == nil {
		t.Fatalf("expected selected constraint")
	}
	//
	access, ok := enforce.Left.(*ast.Access)
	if !ok || access.Offset != 1 {
		t.Errorf("expected next-row access on left-hand side")
	}
}

func TestParser_02(t *testing.T) {
	module := parseModule(t, `
def Example

trace_columns:
    main: [a, c[4]]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = sum([x + y for (x, y) in (c[0..2], c[2..4])])
`)
	//
	enforce := module.Integrity[0].(*ast.EnforceStmt)
	//
	fold, ok := enforce.Right.(*ast.Fold)
	if !ok || fold.Op != ast.SUM {
		t.Fatalf("expected sum fold")
	}
	//
	comprehension, ok := fold.Arg.(*ast.Comprehension)
	if !ok || len(comprehension.Bindings) != 2 {
		t.Fatalf("expected comprehension over two iterables")
	}
	//
	slice, ok := comprehension.Bindings[1].Iterable.(*ast.SliceAccess)
	if !ok || slice.Start != 2 || slice.End != 4 {
		t.Errorf("malformed slice iterable")
	}
}

func TestParser_03(t *testing.T) {
	// A dangling operator is reported as a syntax error.
	input := `def Example

integrity_constraints:
    enf a' = a +
`
	srcfile := source.NewSourceFile("test.air", []byte(input))
	//
	_, _, errors := Parse(srcfile)
	if len(errors) == 0 {
		t.Fatalf("expected a syntax error")
	}
	//
	if errors[0].Code() != SYNTAX_ERROR {
		t.Errorf("expected a syntax error, found %s", errors[0].Code())
	}
}

// Parsing recovers at line granularity, so independent errors are all
// reported.
func TestParser_04(t *testing.T) {
	input := `def Example

trace_columns:
    main: [a, ]

integrity_constraints:
    enf a' =
    enf = a
`
	srcfile := source.NewSourceFile("test.air", []byte(input))
	//
	_, _, errors := Parse(srcfile)
	if len(errors) < 3 {
		t.Errorf("expected at least 3 errors, found %d", len(errors))
	}
}

// ===================================================================

func parseModule(t *testing.T, input string) *ast.Module {
	srcfile := source.NewSourceFile("test.air", []byte(input))
	//
	module, srcmap, errors := Parse(srcfile)
	//
	for i := range errors {
		t.Errorf("unexpected error: %s", errors[i].Message())
	}
	//
	if module == nil || srcmap == nil {
		t.FailNow()
	}
	//
	return module
}
