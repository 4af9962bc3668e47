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

	"github.com/0xPolygonMiden/air-script/pkg/air"
	"github.com/0xPolygonMiden/air-script/pkg/util/source"
)

func TestCompileBasic_01(t *testing.T) {
	a := compile(t, `
def Example

trace_columns:
    main: [a, b]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = p[0]

integrity_constraints:
    enf a' = a + b
`)
	//
	if a.Width(air.MAIN) != 2 || a.Width(air.AUX) != 0 {
		t.Errorf("expected widths 2/0, found %d/%d", a.Width(air.MAIN), a.Width(air.AUX))
	}
	//
	if len(a.Constraints(air.AUX)) != 0 {
		t.Errorf("unexpected auxiliary constraints")
	}
	//
	roots := a.Constraints(air.MAIN)
	if len(roots) != 2 {
		t.Fatalf("expected 2 main constraints, found %d", len(roots))
	}
	//
	checkRoot(t, roots[0], air.FIRST_ROW, 1)
	checkRoot(t, roots[1], air.EVERY_FRAME, 1)
}

func TestCompilePeriodic_01(t *testing.T) {
	a := compile(t, `
def Example

trace_columns:
    main: [a, b]

public_inputs:
    p: [2]

periodic_columns:
    k: [1, 1, 1, 0]

boundary_constraints:
    enf a.first = p[0]

integrity_constraints:
    enf a' = a + b
    enf a' = k * a
`)
	//
	roots := a.Constraints(air.MAIN)
	if len(roots) != 3 {
		t.Fatalf("expected 3 main constraints, found %d", len(roots))
	}
	// Periodic references contribute nothing to the degree.
	checkRoot(t, roots[2], air.EVERY_FRAME, 1)
	//
	columns := a.PeriodicColumns()
	if len(columns) != 1 || len(columns[0].Pattern) != 4 {
		t.Errorf("malformed periodic columns table")
	}
}

func TestCompileAux_01(t *testing.T) {
	a := compile(t, `
def Example

trace_columns:
    main: [a]
    aux: [p]

public_inputs:
    stack: [1]

random_values:
    rand: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf p' = p * (a + $rand[0])
`)
	//
	if a.Width(air.AUX) != 1 || a.RandomWidth() != 2 {
		t.Errorf("malformed auxiliary declarations")
	}
	//
	roots := a.Constraints(air.AUX)
	if len(roots) != 1 {
		t.Fatalf("expected 1 auxiliary constraint, found %d", len(roots))
	}
	//
	checkRoot(t, roots[0], air.EVERY_FRAME, 2)
}

// Random references promote a main-column boundary constraint to the
// auxiliary segment.
func TestCompileAux_02(t *testing.T) {
	a := compile(t, `
def Example

trace_columns:
    main: [a]
    aux: [p]

public_inputs:
    stack: [1]

random_values:
    rand: [2]

boundary_constraints:
    enf a.first = $rand[1]

integrity_constraints:
    enf a' = a
`)
	//
	roots := a.Constraints(air.AUX)
	if len(roots) != 1 {
		t.Fatalf("expected 1 auxiliary constraint, found %d", len(roots))
	}
	//
	checkRoot(t, roots[0], air.FIRST_ROW, 1)
}

func TestCompileLet_01(t *testing.T) {
	a := compile(t, `
def Example

trace_columns:
    main: [a, b, c, d]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    let z = [[a+b, c+d], [1*a, 2*b]]
    enf a' = z[0][0] + z[0][1] + z[1][0] + z[1][1]
`)
	//
	roots := a.Constraints(air.MAIN)
	if len(roots) != 2 {
		t.Fatalf("expected 2 main constraints, found %d", len(roots))
	}
	//
	checkRoot(t, roots[1], air.EVERY_FRAME, 1)
	// The node for a+b must be shared: re-interning it must not grow the
	// graph.
	g := a.Graph()
	before := g.Len()
	g.Add(g.ColumnAccess(air.MAIN, 0, 0), g.ColumnAccess(air.MAIN, 1, 0))
	//
	if g.Len() != before {
		t.Errorf("a+b not shared across uses")
	}
}

func TestCompileComprehension_01(t *testing.T) {
	a := compile(t, `
def Example

trace_columns:
    main: [a, c[4]]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = sum([x * y for (x, y) in (c[0..4], c[0..4])])
`)
	//
	roots := a.Constraints(air.MAIN)
	if len(roots) != 2 {
		t.Fatalf("expected 2 main constraints, found %d", len(roots))
	}
	//
	checkRoot(t, roots[1], air.EVERY_FRAME, 2)
}

func TestCompileComprehension_02(t *testing.T) {
	a := compile(t, `
def Example

trace_columns:
    main: [a, c[4]]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = prod([x + i for (x, i) in (c[1..3], 0..2)])
`)
	//
	roots := a.Constraints(air.MAIN)
	checkRoot(t, roots[1], air.EVERY_FRAME, 2)
}

func TestCompileSelector_01(t *testing.T) {
	a := compile(t, `
def Example

trace_columns:
    main: [a, s]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = a when s
`)
	//
	roots := a.Constraints(air.MAIN)
	// The selector multiplies the constraint, raising its degree.
	checkRoot(t, roots[1], air.EVERY_FRAME, 2)
}

func TestCompileEvaluator_01(t *testing.T) {
	a := compile(t, `
def Example

trace_columns:
    main: [a, b]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf double([a, b])

ev double([main: [x, y]]):
    enf x' = 2 * y
`)
	//
	roots := a.Constraints(air.MAIN)
	if len(roots) != 2 {
		t.Fatalf("expected 2 main constraints, found %d", len(roots))
	}
	//
	checkRoot(t, roots[1], air.EVERY_FRAME, 1)
	// Inlining must produce the same node as writing the body directly.
	g := a.Graph()
	before := g.Len()
	two := g.Constant64(2)
	g.Sub(g.ColumnAccess(air.MAIN, 0, 1), g.Mul(two, g.ColumnAccess(air.MAIN, 1, 0)))
	//
	if g.Len() != before {
		t.Errorf("inlined constraint differs from its direct form")
	}
}

func TestCompileSegmentAccess_01(t *testing.T) {
	a := compile(t, `
def Example

trace_columns:
    main: [a, b]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = $main[0] + $main[1]
`)
	//
	roots := a.Constraints(air.MAIN)
	checkRoot(t, roots[1], air.EVERY_FRAME, 1)
}

func TestCompileConstants_01(t *testing.T) {
	a := compile(t, `
def Example

const A = 2
const B = [1, 0]
const C = [[1, 2], [3, 4]]

trace_columns:
    main: [a]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = B[0] + C[1][1]

integrity_constraints:
    enf a' = A * a
`)
	//
	if len(a.Constants()) != 3 {
		t.Errorf("expected 3 constants, found %d", len(a.Constants()))
	}
	// B[0] + C[1][1] folds to a single literal.
	roots := a.Constraints(air.MAIN)
	checkRoot(t, roots[0], air.FIRST_ROW, 1)
	checkRoot(t, roots[1], air.EVERY_FRAME, 1)
}

func TestCompilePower_01(t *testing.T) {
	a := compile(t, `
def Example

trace_columns:
    main: [a]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = a^3 - a
`)
	//
	roots := a.Constraints(air.MAIN)
	checkRoot(t, roots[1], air.EVERY_FRAME, 3)
}

// Determinism: repeated compilations intern nodes identically.
func TestCompileDeterminism_01(t *testing.T) {
	input := `
def Example

trace_columns:
    main: [a, b]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = p[0]
    enf b.last = p[1]

integrity_constraints:
    enf a' = a * b + 1
`
	first := compile(t, input)
	second := compile(t, input)
	//
	if first.Graph().Len() != second.Graph().Len() {
		t.Fatalf("node numbering differs between compilations")
	}
	//
	for _, segment := range []air.Segment{air.MAIN, air.AUX} {
		lhs, rhs := first.Constraints(segment), second.Constraints(segment)
		//
		if len(lhs) != len(rhs) {
			t.Fatalf("constraint lists differ between compilations")
		}
		//
		for i := range lhs {
			if lhs[i] != rhs[i] {
				t.Errorf("constraint %d differs between compilations", i)
			}
		}
	}
}

// ===================================================================
// Error scenarios
// ===================================================================

func TestCompileError_BoundaryConflict(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0
    enf a.first = 1

integrity_constraints:
    enf a' = a
`)
	//
	checkErrorCode(t, errors, BOUNDARY_CONFLICT)
	// The second occurrence is primary; the first is the hint.
	if _, _, ok := errors[0].Hint(); !ok {
		t.Errorf("expected a secondary span pointing at the first occurrence")
	}
}

func TestCompileError_IntegrityBoundary(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a.first = 0
`)
	//
	checkErrorCode(t, errors, INTEGRITY_REFERENCES_BOUNDARY)
}

func TestCompileError_PeriodicLength(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a]

public_inputs:
    p: [2]

periodic_columns:
    k: [1, 0, 0]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = k * a
`)
	//
	checkErrorCode(t, errors, INVALID_PERIODIC_LENGTH)
}

func TestCompileError_Undeclared(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = q
`)
	//
	checkErrorCode(t, errors, UNDECLARED_IDENTIFIER)
}

func TestCompileError_Duplicate(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a, a]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = a
`)
	//
	checkErrorCode(t, errors, DUPLICATE_IDENTIFIER)
}

func TestCompileError_IndexRange(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = p[5]

integrity_constraints:
    enf a' = a
`)
	//
	checkErrorCode(t, errors, INDEX_OUT_OF_RANGE)
}

func TestCompileError_EmptyPublicInputs(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = a
`)
	//
	checkErrorCode(t, errors, EMPTY_PUBLIC_INPUTS)
}

func TestCompileError_MissingMainTrace(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    aux: [p]

public_inputs:
    stack: [1]

boundary_constraints:
    enf p.first = 0

integrity_constraints:
    enf p' = p
`)
	//
	checkErrorCode(t, errors, MISSING_MAIN_TRACE)
}

func TestCompileError_EmptyTrace(t *testing.T) {
	errors := compileErrors(t, `
def Example

public_inputs:
    p: [2]
`)
	//
	checkErrorCode(t, errors, EMPTY_TRACE)
}

func TestCompileError_PublicInIntegrity(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = p[0]
`)
	//
	checkErrorCode(t, errors, INTEGRITY_REFERENCES_PUBLIC_INPUT)
}

func TestCompileError_PeriodicInBoundary(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a]

public_inputs:
    p: [2]

periodic_columns:
    k: [1, 0]

boundary_constraints:
    enf a.first = k

integrity_constraints:
    enf a' = a
`)
	//
	checkErrorCode(t, errors, BOUNDARY_REFERENCES_PERIODIC)
}

func TestCompileError_NextInBoundary(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a, b]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = b'

integrity_constraints:
    enf a' = a
`)
	//
	checkErrorCode(t, errors, BOUNDARY_REFERENCES_NEXT)
}

func TestCompileError_NextOnPeriodic(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a]

public_inputs:
    p: [2]

periodic_columns:
    k: [1, 0]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = k'
`)
	//
	checkErrorCode(t, errors, NEXT_APPLIED_TO_NON_TRACE)
}

func TestCompileError_NonLiteralExponent(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a, b]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = a^b
`)
	//
	checkErrorCode(t, errors, NON_LITERAL_EXPONENT)
}

func TestCompileError_ShapeMismatch(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a, b]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    let v = [a, b] + [a]
    enf a' = a
`)
	//
	checkErrorCode(t, errors, SHAPE_MISMATCH)
}

func TestCompileError_Overflow(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = 0

integrity_constraints:
    enf a' = 99999999999999999999999999
`)
	//
	checkErrorCode(t, errors, OVERFLOW_ERROR)
}

// Independently broken constraints are all diagnosed in one pass.
func TestCompileError_Batching(t *testing.T) {
	errors := compileErrors(t, `
def Example

trace_columns:
    main: [a]

public_inputs:
    p: [2]

boundary_constraints:
    enf a.first = q
    enf a.last = r

integrity_constraints:
    enf a' = s
`)
	//
	if len(errors) != 3 {
		t.Errorf("expected 3 errors, found %d", len(errors))
	}
}

// ===================================================================

func compile(t *testing.T, input string) *air.Air {
	srcfile := source.NewSourceFile("test.air", []byte(input))
	//
	a, errors := CompileSourceFile(srcfile)
	//
	for i := range errors {
		t.Errorf("unexpected error: %s", errors[i].Message())
	}
	//
	if a == nil {
		t.FailNow()
	}
	//
	return a
}

func compileErrors(t *testing.T, input string) []Diagnostic {
	srcfile := source.NewSourceFile("test.air", []byte(input))
	//
	a, errors := CompileSourceFile(srcfile)
	//
	if a != nil || len(errors) == 0 {
		t.Fatalf("expected compilation to fail")
	}
	//
	return errors
}

func checkErrorCode(t *testing.T, errors []Diagnostic, code ErrorCode) {
	for i := range errors {
		if errors[i].Code() == code {
			return
		}
	}
	//
	t.Errorf("expected a %s error", code)
}

func checkRoot(t *testing.T, root air.ConstraintRoot, domain air.Domain, degree uint) {
	if root.Domain() != domain {
		t.Errorf("expected domain %s, found %s", domain, root.Domain())
	}
	//
	if root.Degree() != degree {
		t.Errorf("expected degree %d, found %d", degree, root.Degree())
	}
}
