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
	"fmt"
	"math/bits"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/0xPolygonMiden/air-script/pkg/air"
	"github.com/0xPolygonMiden/air-script/pkg/airscript/ast"
	"github.com/0xPolygonMiden/air-script/pkg/util/source"
)

// CompileSourceFile parses and compiles a given source file, producing either
// the lowered IR or a non-empty list of diagnostics.  No partial IR is ever
// returned.
func CompileSourceFile(srcfile *source.File) (*air.Air, []Diagnostic) {
	module, srcmap, errors := Parse(srcfile)
	if len(errors) > 0 {
		return nil, errors
	}
	//
	return CompileModule(module, srcmap)
}

// CompileModule compiles an already-parsed module, given the source map
// produced alongside it.  Declarations are processed first, with their errors
// batched; constraints are then lowered with errors batched per constraint;
// finally degrees are computed and the IR assembled.
func CompileModule(module *ast.Module, srcmap *source.Map[ast.Node]) (*air.Air, []Diagnostic) {
	start := time.Now()
	//
	graph := air.NewGraph()
	//
	t := &translator{
		srcmap:       srcmap,
		symbols:      NewSymbolTable(),
		graph:        graph,
		airIR:        air.NewAir(module.Name.Name, graph),
		boundarySeen: make(map[boundaryKey]ast.Node),
	}
	// Declarations, in declaration order.
	t.declareModule(module)
	//
	if len(t.errors) > 0 {
		return nil, t.errors
	}
	// Constraints, after all declarations.
	t.translateConstraints(module)
	//
	if len(t.errors) > 0 {
		return nil, t.errors
	}
	// Degree computation is the one fatal phase: overflow aborts the batch
	// and is returned alone.
	degrees, err := graph.Degrees()
	if err != nil {
		span := srcmap.Get(module.Name)
		diag := NewDiagnostic(srcmap.Source(), DEGREE_OVERFLOW, span, err.Error())
		//
		return nil, []Diagnostic{diag}
	}
	//
	for _, root := range t.pending {
		t.airIR.AddConstraint(root.segment, air.NewConstraintRoot(root.node, root.domain, degrees[root.node]))
	}
	//
	log.Debugf("compiled %s: %d nodes, %d constraints in %s",
		module.Name, graph.Len(), len(t.pending), time.Since(start))
	//
	return t.airIR, t.errors
}

// ============================================================================
// Declarations
// ============================================================================

// Process all declarations of a module: allocate bindings into the global
// scope, check the declaration-time invariants, and populate the IR's
// constants, public inputs and periodic columns tables.
func (t *translator) declareModule(module *ast.Module) {
	for _, decl := range module.Constants {
		t.declareConstant(decl)
	}
	//
	t.declareTrace(module)
	//
	if len(module.PublicInputs) == 0 {
		t.errorFor(module.Name, EMPTY_PUBLIC_INPUTS, "module declares no public inputs")
	}
	//
	for i, decl := range module.PublicInputs {
		t.declareSymbol(decl.Name, &PublicBinding{uint(i), decl.Size})
		t.airIR.AddPublicInput(air.PublicInput{Name: decl.Name.Name, Size: decl.Size})
	}
	//
	for i, decl := range module.Periodic {
		t.declarePeriodic(uint(i), decl)
	}
	//
	if module.Random != nil {
		t.declareRandom(module.Random)
	}
	//
	for _, decl := range module.Evaluators {
		t.declareSymbol(decl.Name, &EvaluatorBinding{decl})
	}
}

// Constants are restricted to literal scalars, vectors and matrices.
func (t *translator) declareConstant(decl *ast.ConstantDecl) {
	value, ok := constantValue(decl.Value)
	if !ok {
		t.errorFor(decl, UNSUPPORTED_FEATURE, "constant values must be literal")
		return
	}
	//
	t.declareSymbol(decl.Name, &ConstantBinding{value})
	t.airIR.AddConstant(air.Constant{Name: decl.Name.Name, Value: value})
}

func constantValue(expr ast.Expr) (air.ConstValue, bool) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return air.ConstValue{Kind: air.SCALAR_CONST, Scalar: e.Value}, true
	case *ast.Vector:
		vector, ok := literalVector(e)
		return air.ConstValue{Kind: air.VECTOR_CONST, Vector: vector}, ok
	case *ast.Matrix:
		matrix := make([][]uint64, len(e.Rows))
		//
		for i, row := range e.Rows {
			vector, ok := literalVector(row)
			if !ok {
				return air.ConstValue{}, false
			}
			//
			matrix[i] = vector
		}
		//
		return air.ConstValue{Kind: air.MATRIX_CONST, Matrix: matrix}, true
	default:
		return air.ConstValue{}, false
	}
}

func literalVector(vector *ast.Vector) ([]uint64, bool) {
	values := make([]uint64, len(vector.Elements))
	//
	for i, element := range vector.Elements {
		literal, ok := element.(*ast.IntLiteral)
		if !ok {
			return nil, false
		}
		//
		values[i] = literal.Value
	}
	//
	return values, true
}

// Trace bindings are assigned contiguous column indices per segment,
// starting at zero, in declaration order.
func (t *translator) declareTrace(module *ast.Module) {
	trace := module.Trace
	//
	if trace == nil || (len(trace.Main) == 0 && len(trace.Aux) == 0) {
		t.errorFor(anchorOf(module, trace), EMPTY_TRACE, "module declares no trace columns")
		return
	}
	//
	if len(trace.Main) == 0 {
		t.errorFor(trace, MISSING_MAIN_TRACE, "auxiliary trace declared without a main trace")
		return
	}
	//
	t.airIR.SetWidth(air.MAIN, t.declareColumns(air.MAIN, trace.Main))
	t.airIR.SetWidth(air.AUX, t.declareColumns(air.AUX, trace.Aux))
}

func (t *translator) declareColumns(segment air.Segment, columns []*ast.ColumnDecl) uint {
	width := uint(0)
	//
	for _, column := range columns {
		t.declareSymbol(column.Name, &ColumnBinding{segment, width, column.Width})
		width += column.Width
	}
	//
	return width
}

// Periodic columns must have power-of-two length at least two; their ordinal
// is their position in declaration order.
func (t *translator) declarePeriodic(ordinal uint, decl *ast.PeriodicColumnDecl) {
	length := uint(len(decl.Pattern))
	//
	if length < 2 || bits.OnesCount(length) != 1 {
		msg := fmt.Sprintf("pattern length %d is not a power of two at least 2", length)
		t.errorFor(decl, INVALID_PERIODIC_LENGTH, msg)
	}
	// Still declared, avoiding spurious undeclared-identifier errors in the
	// constraints referencing it.
	t.declareSymbol(decl.Name, &PeriodicBinding{ordinal, length})
	t.airIR.AddPeriodicColumn(air.PeriodicColumn{Name: decl.Name.Name, Pattern: decl.Pattern})
}

// The random values array binds both its own name and any named
// sub-bindings, which partition the array in declaration order.
func (t *translator) declareRandom(decl *ast.RandomValuesDecl) {
	t.declareSymbol(decl.Name, &RandomBinding{0, decl.Size})
	//
	offset := uint(0)
	for _, binding := range decl.Bindings {
		t.declareSymbol(binding.Name, &RandomBinding{offset, binding.Width})
		offset += binding.Width
	}
	//
	t.airIR.SetRandomWidth(decl.Size)
}

// Anchor a trace diagnostic at the trace declaration when one exists, and at
// the module name otherwise.
func anchorOf(module *ast.Module, trace *ast.TraceDecl) ast.Node {
	if trace != nil {
		return trace
	}
	//
	return module.Name
}
