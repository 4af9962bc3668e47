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

	"github.com/0xPolygonMiden/air-script/pkg/air"
	"github.com/0xPolygonMiden/air-script/pkg/airscript/ast"
	"github.com/0xPolygonMiden/air-script/pkg/util/source"
)

// Section identifies which constraint section is currently being lowered,
// since most access forms are legal in one section only.
type section uint8

const (
	// BOUNDARY_SECTION is the boundary_constraints section.
	BOUNDARY_SECTION section = iota
	// INTEGRITY_SECTION is the integrity_constraints section.
	INTEGRITY_SECTION
)

// Key identifying one (segment, column, boundary) triple, of which each may
// be constrained at most once.
type boundaryKey struct {
	segment air.Segment
	column  uint
	bound   ast.Boundary
}

// Translator lowers the constraint sections of a module into the arithmetic
// graph, producing one pending constraint root per enforced equation.  Errors
// are accumulated rather than thrown, so that every independently broken
// constraint is diagnosed in one pass.
type translator struct {
	srcmap  *source.Map[ast.Node]
	symbols *SymbolTable
	graph   *air.Graph
	airIR   *air.Air
	errors  []Diagnostic
	// Section currently being lowered.
	section section
	// Set whilst inlining an evaluator body, to reject recursive inlining.
	inlining bool
	// Boundary accessors seen so far, for conflict detection.  The value is
	// the node of the earlier access, for the "previously constrained here"
	// hint.
	boundarySeen map[boundaryKey]ast.Node
	// Constraint roots in source order, pending degree computation.
	pending []pendingRoot
}

type pendingRoot struct {
	node    air.NodeId
	domain  air.Domain
	segment air.Segment
}

// Lower both constraint sections of a module.  Each section gets its own
// scope for let-bound variables; the scope is released on every exit path.
func (t *translator) translateConstraints(module *ast.Module) {
	t.translateSection(module.Boundary, BOUNDARY_SECTION)
	t.translateSection(module.Integrity, INTEGRITY_SECTION)
}

func (t *translator) translateSection(statements []ast.Statement, sec section) {
	defer t.symbols.Enter()()
	//
	t.section = sec
	//
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *ast.LetStmt:
			t.translateLet(s)
		case *ast.EnforceStmt:
			t.translateEnforce(s, nil)
		case *ast.EnforceCallStmt:
			t.translateCall(s)
		}
	}
}

// let x = e binds x to the lowered value of e for the remainder of the
// section.  The binding is substituted at use sites; sharing of equal
// sub-expressions is supplied by the graph, not by the binding.
func (t *translator) translateLet(stmt *ast.LetStmt) {
	value, ok := t.lowerExpr(stmt.Value)
	if !ok {
		return
	}
	//
	t.declareSymbol(stmt.Name, &VariableBinding{value})
}

// enf L = R lowers to the single node L - R, multiplied by the selector when
// one is given.  The extra selector is non-nil when the statement is being
// inlined from an evaluator call that itself carried a selector.
func (t *translator) translateEnforce(stmt *ast.EnforceStmt, extra *air.NodeId) {
	if t.section == BOUNDARY_SECTION {
		t.translateBoundaryEnforce(stmt)
		return
	}
	//
	left, lok := t.lowerScalar(stmt.Left)
	right, rok := t.lowerScalar(stmt.Right)
	//
	if !lok || !rok {
		return
	}
	//
	constraint := t.graph.Sub(left, right)
	//
	constraint, ok := t.applySelector(stmt.Selector, constraint)
	if !ok {
		return
	}
	//
	if extra != nil {
		constraint = t.graph.Mul(*extra, constraint)
	}
	// Classify by reachable accesses.
	domain := air.EVERY_ROW
	if t.graph.HasRowOffset(constraint) {
		domain = air.EVERY_FRAME
	}
	//
	t.emitRoot(constraint, domain, t.classify(constraint, air.MAIN))
}

// A boundary constraint anchors a single column at the first or last row.
// The accessed column determines the constraint's segment, except that
// random-value references promote a main-column constraint to the auxiliary
// segment.
func (t *translator) translateBoundaryEnforce(stmt *ast.EnforceStmt) {
	access, ok := stmt.Left.(*ast.Access)
	if !ok || access.Bound == ast.NO_BOUND {
		t.errorFor(stmt.Left, UNSUPPORTED_FEATURE,
			"boundary constraints must constrain a single column at .first or .last")
		return
	}
	// Identify the constrained column for conflict detection.
	column, cok := t.resolveBoundaryColumn(access)
	//
	left, lok := t.lowerScalar(stmt.Left)
	right, rok := t.lowerScalar(stmt.Right)
	//
	if !cok || !lok || !rok {
		return
	}
	//
	if prev, conflict := t.boundarySeen[column]; conflict {
		msg := fmt.Sprintf("column %s is already constrained at .%s", access.Name, access.Bound)
		t.errors = append(t.errors,
			t.diagnosticFor(access.Name, BOUNDARY_CONFLICT, msg).
				WithHint(t.srcmap.Get(prev), "previously constrained here"))
		//
		return
	}
	//
	t.boundarySeen[column] = stmt.Left
	//
	constraint := t.graph.Sub(left, right)
	//
	constraint, ok = t.applySelector(stmt.Selector, constraint)
	if !ok {
		return
	}
	//
	domain := air.FIRST_ROW
	if access.Bound == ast.LAST {
		domain = air.LAST_ROW
	}
	//
	t.emitRoot(constraint, domain, t.classify(constraint, column.segment))
}

// Resolve the column constrained by a boundary accessor.
func (t *translator) resolveBoundaryColumn(access *ast.Access) (boundaryKey, bool) {
	var key boundaryKey
	//
	binding, _, ok := t.symbols.Resolve(access.Name.Name)
	if !ok {
		t.errorFor(access.Name, UNDECLARED_IDENTIFIER,
			fmt.Sprintf("unknown identifier %s", access.Name))
		//
		return key, false
	}
	//
	column, ok := binding.(*ColumnBinding)
	if !ok {
		t.errorFor(access.Name, UNSUPPORTED_FEATURE,
			fmt.Sprintf("%s is not a trace column", access.Name))
		//
		return key, false
	}
	//
	index := column.Offset
	//
	switch {
	case len(access.Indices) == 1:
		if access.Indices[0] >= column.Width {
			t.indexError(access.Name, access.Indices[0], column.Width)
			return key, false
		}
		//
		index += access.Indices[0]
	case column.Width > 1:
		t.errorFor(access.Name, EXPECTED_SCALAR,
			fmt.Sprintf("%s is a group and must be indexed", access.Name))
		//
		return key, false
	}
	//
	return boundaryKey{column.Segment, index, access.Bound}, true
}

// enf name([..]) inlines the named evaluator's constraints with the actual
// columns substituted for its formal parameters.
func (t *translator) translateCall(stmt *ast.EnforceCallStmt) {
	call := stmt.Call
	//
	if t.section != INTEGRITY_SECTION {
		t.errorFor(call, UNSUPPORTED_FEATURE, "evaluator calls are only valid in integrity constraints")
		return
	}
	//
	if t.inlining {
		t.errorFor(call, UNSUPPORTED_FEATURE, "evaluators cannot call other evaluators")
		return
	}
	//
	binding, _, ok := t.symbols.Resolve(call.Name.Name)
	if !ok {
		t.errorFor(call.Name, UNDECLARED_IDENTIFIER, fmt.Sprintf("unknown identifier %s", call.Name))
		return
	}
	//
	evaluator, ok := binding.(*EvaluatorBinding)
	if !ok {
		t.errorFor(call.Name, UNSUPPORTED_FEATURE, fmt.Sprintf("%s is not an evaluator", call.Name))
		return
	}
	// Lower the selector outside the parameter scope.
	var extra *air.NodeId
	//
	if stmt.Selector != nil {
		selector, ok := t.lowerScalar(stmt.Selector)
		if !ok {
			return
		}
		//
		extra = &selector
	}
	// Pair up declared parameter segments with argument vectors.
	segments := make([][]*ast.ColumnDecl, 0, 2)
	segments = append(segments, evaluator.Decl.Params.Main)
	//
	if evaluator.Decl.Params.Aux != nil {
		segments = append(segments, evaluator.Decl.Params.Aux)
	}
	//
	if len(call.Args) != len(segments) {
		msg := fmt.Sprintf("%s expects %d argument vectors, found %d", call.Name, len(segments), len(call.Args))
		t.errorFor(call, SHAPE_MISMATCH, msg)
		//
		return
	}
	//
	release := t.symbols.Enter()
	defer release()
	//
	for i, formals := range segments {
		if !t.bindParameters(formals, call.Args[i]) {
			return
		}
	}
	//
	t.inlining = true
	defer func() { t.inlining = false }()
	//
	for _, stmt := range evaluator.Decl.Body {
		switch s := stmt.(type) {
		case *ast.LetStmt:
			t.translateLet(s)
		case *ast.EnforceStmt:
			t.translateEnforce(s, extra)
		case *ast.EnforceCallStmt:
			t.errorFor(s.Call, UNSUPPORTED_FEATURE, "evaluators cannot call other evaluators")
		}
	}
}

// Bind one segment's formal parameters to the columns of an argument vector.
func (t *translator) bindParameters(formals []*ast.ColumnDecl, args *ast.Vector) bool {
	if len(formals) != len(args.Elements) {
		msg := fmt.Sprintf("expected %d columns, found %d", len(formals), len(args.Elements))
		t.errorFor(args, SHAPE_MISMATCH, msg)
		//
		return false
	}
	//
	for i, formal := range formals {
		actual, ok := t.resolveColumnArgument(args.Elements[i], formal.Width)
		if !ok {
			return false
		}
		//
		t.declareSymbol(formal.Name, actual)
	}
	//
	return true
}

// Resolve an evaluator argument to the trace columns it names.  Arguments
// must be plain column accesses, of the same width as the formal parameter.
func (t *translator) resolveColumnArgument(arg ast.Expr, width uint) (*ColumnBinding, bool) {
	access, ok := arg.(*ast.Access)
	if !ok || access.Offset != 0 || access.Bound != ast.NO_BOUND {
		t.errorFor(arg, UNSUPPORTED_FEATURE, "evaluator arguments must be trace columns")
		return nil, false
	}
	//
	binding, _, ok := t.symbols.Resolve(access.Name.Name)
	if !ok {
		t.errorFor(access.Name, UNDECLARED_IDENTIFIER, fmt.Sprintf("unknown identifier %s", access.Name))
		return nil, false
	}
	//
	column, ok := binding.(*ColumnBinding)
	if !ok {
		t.errorFor(access.Name, UNSUPPORTED_FEATURE,
			fmt.Sprintf("%s is not a trace column", access.Name))
		//
		return nil, false
	}
	//
	offset := column.Offset
	actualWidth := column.Width
	//
	if len(access.Indices) == 1 {
		if access.Indices[0] >= column.Width {
			t.indexError(access.Name, access.Indices[0], column.Width)
			return nil, false
		}
		//
		offset += access.Indices[0]
		actualWidth = 1
	} else if len(access.Indices) > 1 {
		t.errorFor(access.Name, EXPECTED_VECTOR, fmt.Sprintf("%s is not a matrix", access.Name))
		return nil, false
	}
	//
	if actualWidth != width {
		msg := fmt.Sprintf("expected %d columns, found %d", width, actualWidth)
		t.errorFor(arg, SHAPE_MISMATCH, msg)
		//
		return nil, false
	}
	//
	return &ColumnBinding{column.Segment, offset, width}, true
}

// Multiply a constraint by its selector, transforming "enf C when s" into
// "enf s * C".
func (t *translator) applySelector(selector ast.Expr, constraint air.NodeId) (air.NodeId, bool) {
	if selector == nil {
		return constraint, true
	}
	//
	s, ok := t.lowerScalar(selector)
	if !ok {
		return constraint, false
	}
	//
	return t.graph.Mul(s, constraint), true
}

// Classify a constraint's segment: a constraint belongs to the auxiliary
// list when its expression reaches the auxiliary segment or a random value,
// regardless of which column it nominally constrains.
func (t *translator) classify(constraint air.NodeId, nominal air.Segment) air.Segment {
	if nominal == air.AUX || t.graph.RequiresAux(constraint) {
		return air.AUX
	}
	//
	return air.MAIN
}

func (t *translator) emitRoot(node air.NodeId, domain air.Domain, segment air.Segment) {
	t.pending = append(t.pending, pendingRoot{node, domain, segment})
}

// ============================================================================
// Expression lowering
// ============================================================================

// Lower an expression, requiring a scalar result.
func (t *translator) lowerScalar(expr ast.Expr) (air.NodeId, bool) {
	value, ok := t.lowerExpr(expr)
	//
	if !ok {
		return 0, false
	}
	//
	if value.Kind() != SCALAR {
		t.errorFor(expr, EXPECTED_SCALAR, "expected a single value")
		return 0, false
	}
	//
	return value.Scalar(), true
}

// Lower an expression to its shaped value.  On failure, one or more
// diagnostics have been reported against the smallest offending
// sub-expression.
func (t *translator) lowerExpr(expr ast.Expr) (Value, bool) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return ScalarValue(t.graph.Constant64(e.Value)), true
	case *ast.Access:
		return t.lowerAccess(e)
	case *ast.SliceAccess:
		t.errorFor(e.Name, EXPECTED_SCALAR, "slices are only valid as comprehension iterables")
		return Value{}, false
	case *ast.SegmentAccess:
		return t.lowerSegmentAccess(e)
	case *ast.RandomAccess:
		return t.lowerRandomAccess(e)
	case *ast.Unary:
		inner, ok := t.lowerScalar(e.Expr)
		if !ok {
			return Value{}, false
		}
		//
		zero := t.graph.Constant64(0)
		//
		return ScalarValue(t.graph.Sub(zero, inner)), true
	case *ast.Binary:
		return t.lowerBinary(e)
	case *ast.Vector:
		return t.lowerVector(e)
	case *ast.Matrix:
		return t.lowerMatrix(e)
	case *ast.Range:
		t.errorFor(e, EXPECTED_SCALAR, "ranges are only valid as comprehension iterables")
		return Value{}, false
	case *ast.Comprehension:
		return t.lowerComprehension(e)
	case *ast.Fold:
		return t.lowerFold(e)
	case *ast.Call:
		t.errorFor(e, UNSUPPORTED_FEATURE, "evaluator calls cannot be used as values")
		return Value{}, false
	default:
		t.errorFor(expr, UNSUPPORTED_FEATURE, "unsupported expression")
		return Value{}, false
	}
}

func (t *translator) lowerBinary(e *ast.Binary) (Value, bool) {
	if e.Op == ast.EXP {
		return t.lowerPower(e)
	}
	//
	left, lok := t.lowerExpr(e.Left)
	right, rok := t.lowerExpr(e.Right)
	//
	if !lok || !rok {
		return Value{}, false
	}
	//
	apply := t.binaryOp(e.Op)
	//
	switch {
	case left.Kind() == SCALAR && right.Kind() == SCALAR:
		return ScalarValue(apply(left.Scalar(), right.Scalar())), true
	case left.Kind() == VECTOR && right.Kind() == VECTOR:
		if left.Len() != right.Len() {
			t.shapeError(e, left, right)
			return Value{}, false
		}
		//
		ids := make([]air.NodeId, left.Len())
		for i := range ids {
			ids[i] = apply(left.Vector()[i], right.Vector()[i])
		}
		//
		return VectorValue(ids), true
	case left.Kind() == MATRIX && right.Kind() == MATRIX:
		if left.Len() != right.Len() {
			t.shapeError(e, left, right)
			return Value{}, false
		}
		//
		rows := make([][]air.NodeId, left.Len())
		//
		for i := range rows {
			lhs, rhs := left.Matrix()[i], right.Matrix()[i]
			if len(lhs) != len(rhs) {
				t.shapeError(e, left, right)
				return Value{}, false
			}
			//
			rows[i] = make([]air.NodeId, len(lhs))
			for j := range rows[i] {
				rows[i][j] = apply(lhs[j], rhs[j])
			}
		}
		//
		return MatrixValue(rows), true
	default:
		t.shapeError(e, left, right)
		return Value{}, false
	}
}

func (t *translator) binaryOp(op ast.BinaryOp) func(air.NodeId, air.NodeId) air.NodeId {
	switch op {
	case ast.ADD:
		return t.graph.Add
	case ast.SUB:
		return t.graph.Sub
	default:
		return t.graph.Mul
	}
}

// e ^ n requires a literal exponent, since the constraint degree must be
// known at compile time.
func (t *translator) lowerPower(e *ast.Binary) (Value, bool) {
	exponent, ok := e.Right.(*ast.IntLiteral)
	if !ok {
		t.errorFor(e.Right, NON_LITERAL_EXPONENT, "exponent must be a literal")
		return Value{}, false
	}
	//
	base, ok := t.lowerScalar(e.Left)
	if !ok {
		return Value{}, false
	}
	//
	return ScalarValue(t.graph.Power(base, exponent.Value)), true
}

func (t *translator) lowerVector(e *ast.Vector) (Value, bool) {
	ids := make([]air.NodeId, len(e.Elements))
	ok := true
	//
	for i, element := range e.Elements {
		var eok bool
		// Keep lowering failed siblings, so that every broken element is
		// diagnosed.
		ids[i], eok = t.lowerScalar(element)
		ok = ok && eok
	}
	//
	return VectorValue(ids), ok
}

func (t *translator) lowerMatrix(e *ast.Matrix) (Value, bool) {
	rows := make([][]air.NodeId, len(e.Rows))
	ok := true
	//
	for i, row := range e.Rows {
		value, rok := t.lowerVector(row)
		rows[i] = value.Vector()
		ok = ok && rok
	}
	//
	return MatrixValue(rows), ok
}

// A comprehension binds its iterators in lockstep over equal-length
// iterables, lowering the body once per position.
func (t *translator) lowerComprehension(e *ast.Comprehension) (Value, bool) {
	var (
		iterables [][]air.NodeId
		length    uint
	)
	//
	for i, binding := range e.Bindings {
		elements, ok := t.lowerIterable(binding.Iterable)
		if !ok {
			return Value{}, false
		}
		//
		if i == 0 {
			length = uint(len(elements))
		} else if uint(len(elements)) != length {
			msg := fmt.Sprintf("iterable has %d elements, expected %d", len(elements), length)
			t.errorFor(binding.Iterable, SHAPE_MISMATCH, msg)
			//
			return Value{}, false
		}
		//
		iterables = append(iterables, elements)
	}
	//
	ids := make([]air.NodeId, 0, length)
	//
	for i := uint(0); i < length; i++ {
		id, ok := t.lowerComprehensionBody(e, iterables, i)
		if !ok {
			return Value{}, false
		}
		//
		ids = append(ids, id)
	}
	//
	return VectorValue(ids), true
}

// Lower a comprehension body at one position, with all iterators bound.
func (t *translator) lowerComprehensionBody(e *ast.Comprehension, iterables [][]air.NodeId, i uint) (air.NodeId, bool) {
	defer t.symbols.Enter()()
	//
	for k, binding := range e.Bindings {
		t.declareSymbol(binding.Name, &VariableBinding{ScalarValue(iterables[k][i])})
	}
	//
	return t.lowerScalar(e.Body)
}

// An iterable is a range of literals, a slice of a vector binding, or any
// expression lowering to a vector.
func (t *translator) lowerIterable(expr ast.Expr) ([]air.NodeId, bool) {
	switch e := expr.(type) {
	case *ast.Range:
		if e.End < e.Start {
			msg := fmt.Sprintf("range %d..%d is empty", e.Start, e.End)
			t.errorFor(e, INDEX_OUT_OF_RANGE, msg)
			//
			return nil, false
		}
		//
		ids := make([]air.NodeId, 0, e.End-e.Start)
		for v := e.Start; v < e.End; v++ {
			ids = append(ids, t.graph.Constant64(v))
		}
		//
		return ids, true
	case *ast.SliceAccess:
		return t.lowerSlice(e)
	default:
		value, ok := t.lowerExpr(expr)
		//
		if !ok {
			return nil, false
		}
		//
		if value.Kind() != VECTOR {
			t.errorFor(expr, EXPECTED_VECTOR, "expected a list to iterate over")
			return nil, false
		}
		//
		return value.Vector(), true
	}
}

// x[i..j] takes a half-open slice of the vector x resolves to.
func (t *translator) lowerSlice(e *ast.SliceAccess) ([]air.NodeId, bool) {
	value, ok := t.lowerAccess(&ast.Access{Name: e.Name})
	if !ok {
		return nil, false
	}
	//
	if value.Kind() != VECTOR {
		t.errorFor(e.Name, EXPECTED_VECTOR, fmt.Sprintf("%s cannot be sliced", e.Name))
		return nil, false
	}
	//
	if e.Start >= e.End || e.End > value.Len() {
		msg := fmt.Sprintf("slice %d..%d out of range for %s of length %d", e.Start, e.End, e.Name, value.Len())
		t.errorFor(e.Name, INDEX_OUT_OF_RANGE, msg)
		//
		return nil, false
	}
	//
	return value.Vector()[e.Start:e.End], true
}

// sum(..) / prod(..) reduce a non-empty vector with the respective binary
// operation.
func (t *translator) lowerFold(e *ast.Fold) (Value, bool) {
	value, ok := t.lowerExpr(e.Arg)
	if !ok {
		return Value{}, false
	}
	//
	if value.Kind() != VECTOR {
		t.errorFor(e.Arg, EXPECTED_VECTOR, "expected a list to fold")
		return Value{}, false
	}
	//
	if value.Len() == 0 {
		t.errorFor(e, EXPECTED_VECTOR, "cannot fold an empty list")
		return Value{}, false
	}
	//
	apply := t.graph.Add
	if e.Op == ast.PROD {
		apply = t.graph.Mul
	}
	//
	acc := value.Vector()[0]
	for _, id := range value.Vector()[1:] {
		acc = apply(acc, id)
	}
	//
	return ScalarValue(acc), true
}

// $main[i] / $aux[i] access a trace column directly by position.
func (t *translator) lowerSegmentAccess(e *ast.SegmentAccess) (Value, bool) {
	if t.section != INTEGRITY_SECTION {
		t.errorFor(e, UNSUPPORTED_FEATURE, "segment accesses are only valid in integrity constraints")
		return Value{}, false
	}
	//
	width := t.airIR.Width(e.Segment)
	//
	if e.Index >= width {
		msg := fmt.Sprintf("index %d out of range for $%s of width %d", e.Index, e.Segment, width)
		t.errorFor(e, INDEX_OUT_OF_RANGE, msg)
		//
		return Value{}, false
	}
	//
	return ScalarValue(t.graph.ColumnAccess(e.Segment, e.Index, 0)), true
}

// $name[i] accesses the random values array by its declared name.
func (t *translator) lowerRandomAccess(e *ast.RandomAccess) (Value, bool) {
	binding, _, ok := t.symbols.Resolve(e.Name.Name)
	if !ok {
		t.errorFor(e.Name, UNDECLARED_IDENTIFIER, fmt.Sprintf("unknown identifier $%s", e.Name))
		return Value{}, false
	}
	//
	random, ok := binding.(*RandomBinding)
	if !ok {
		t.errorFor(e.Name, UNSUPPORTED_FEATURE, fmt.Sprintf("%s is not a random values array", e.Name))
		return Value{}, false
	}
	//
	if e.Index >= random.Width {
		t.indexError(e.Name, e.Index, random.Width)
		return Value{}, false
	}
	//
	return ScalarValue(t.graph.RandomAccess(random.Offset + e.Index)), true
}

// Lower a named access, dispatching on what the name resolves to.
func (t *translator) lowerAccess(e *ast.Access) (Value, bool) {
	binding, _, ok := t.symbols.Resolve(e.Name.Name)
	if !ok {
		t.errorFor(e.Name, UNDECLARED_IDENTIFIER, fmt.Sprintf("unknown identifier %s", e.Name))
		return Value{}, false
	}
	//
	switch b := binding.(type) {
	case *ColumnBinding:
		return t.lowerColumnAccess(e, b)
	case *PeriodicBinding:
		return t.lowerPeriodicAccess(e, b)
	case *PublicBinding:
		return t.lowerPublicAccess(e, b)
	case *RandomBinding:
		return t.lowerRandomBindingAccess(e, b)
	case *ConstantBinding:
		return t.lowerConstantAccess(e, b)
	case *VariableBinding:
		return t.lowerVariableAccess(e, b)
	default:
		t.errorFor(e.Name, UNSUPPORTED_FEATURE, fmt.Sprintf("%s cannot be used in an expression", e.Name))
		return Value{}, false
	}
}

func (t *translator) lowerColumnAccess(e *ast.Access, column *ColumnBinding) (Value, bool) {
	// Section policy for the two row accessors.
	if e.Offset == 1 {
		if t.section == BOUNDARY_SECTION {
			t.errorFor(e.Name, BOUNDARY_REFERENCES_NEXT,
				"boundary constraints cannot use the next-row operator")
			//
			return Value{}, false
		}
		//
		if e.Bound != ast.NO_BOUND {
			t.errorFor(e.Name, BOUNDARY_REFERENCES_NEXT,
				"cannot combine a boundary accessor with the next-row operator")
			//
			return Value{}, false
		}
	}
	//
	if e.Bound != ast.NO_BOUND && t.section == INTEGRITY_SECTION {
		t.errorFor(e.Name, INTEGRITY_REFERENCES_BOUNDARY,
			"integrity constraints cannot use boundary accessors")
		//
		return Value{}, false
	}
	// Boundary accessors read the column at the anchored row itself.
	offset := e.Offset
	//
	switch len(e.Indices) {
	case 0:
		if column.Width == 1 {
			return ScalarValue(t.graph.ColumnAccess(column.Segment, column.Offset, offset)), true
		}
		//
		ids := make([]air.NodeId, column.Width)
		for i := range ids {
			ids[i] = t.graph.ColumnAccess(column.Segment, column.Offset+uint(i), offset)
		}
		//
		return VectorValue(ids), true
	case 1:
		if column.Width == 1 {
			t.errorFor(e.Name, EXPECTED_VECTOR, fmt.Sprintf("%s is not a group", e.Name))
			return Value{}, false
		}
		//
		if e.Indices[0] >= column.Width {
			t.indexError(e.Name, e.Indices[0], column.Width)
			return Value{}, false
		}
		//
		return ScalarValue(t.graph.ColumnAccess(column.Segment, column.Offset+e.Indices[0], offset)), true
	default:
		t.errorFor(e.Name, EXPECTED_VECTOR, fmt.Sprintf("%s is not a matrix", e.Name))
		return Value{}, false
	}
}

func (t *translator) lowerPeriodicAccess(e *ast.Access, periodic *PeriodicBinding) (Value, bool) {
	if t.section == BOUNDARY_SECTION {
		t.errorFor(e.Name, BOUNDARY_REFERENCES_PERIODIC,
			"boundary constraints cannot reference periodic columns")
		//
		return Value{}, false
	}
	//
	if e.Offset == 1 {
		t.errorFor(e.Name, NEXT_APPLIED_TO_NON_TRACE,
			"the next-row operator cannot be applied to a periodic column")
		//
		return Value{}, false
	}
	//
	if len(e.Indices) > 0 {
		t.errorFor(e.Name, EXPECTED_VECTOR, fmt.Sprintf("%s is not a group", e.Name))
		return Value{}, false
	}
	//
	return ScalarValue(t.graph.PeriodicAccess(periodic.Ordinal)), true
}

func (t *translator) lowerPublicAccess(e *ast.Access, public *PublicBinding) (Value, bool) {
	if t.section == INTEGRITY_SECTION {
		t.errorFor(e.Name, INTEGRITY_REFERENCES_PUBLIC_INPUT,
			"integrity constraints cannot reference public inputs")
		//
		return Value{}, false
	}
	//
	if ok := t.checkPlainAccess(e); !ok {
		return Value{}, false
	}
	//
	switch len(e.Indices) {
	case 0:
		ids := make([]air.NodeId, public.Size)
		for i := range ids {
			ids[i] = t.graph.PublicAccess(public.Ordinal, uint(i))
		}
		//
		return VectorValue(ids), true
	case 1:
		if e.Indices[0] >= public.Size {
			t.indexError(e.Name, e.Indices[0], public.Size)
			return Value{}, false
		}
		//
		return ScalarValue(t.graph.PublicAccess(public.Ordinal, e.Indices[0])), true
	default:
		t.errorFor(e.Name, EXPECTED_VECTOR, fmt.Sprintf("%s is not a matrix", e.Name))
		return Value{}, false
	}
}

func (t *translator) lowerRandomBindingAccess(e *ast.Access, random *RandomBinding) (Value, bool) {
	if ok := t.checkPlainAccess(e); !ok {
		return Value{}, false
	}
	//
	switch len(e.Indices) {
	case 0:
		if random.Width == 1 {
			return ScalarValue(t.graph.RandomAccess(random.Offset)), true
		}
		//
		ids := make([]air.NodeId, random.Width)
		for i := range ids {
			ids[i] = t.graph.RandomAccess(random.Offset + uint(i))
		}
		//
		return VectorValue(ids), true
	case 1:
		if e.Indices[0] >= random.Width {
			t.indexError(e.Name, e.Indices[0], random.Width)
			return Value{}, false
		}
		//
		return ScalarValue(t.graph.RandomAccess(random.Offset + e.Indices[0])), true
	default:
		t.errorFor(e.Name, EXPECTED_VECTOR, fmt.Sprintf("%s is not a matrix", e.Name))
		return Value{}, false
	}
}

func (t *translator) lowerConstantAccess(e *ast.Access, constant *ConstantBinding) (Value, bool) {
	if ok := t.checkPlainAccess(e); !ok {
		return Value{}, false
	}
	//
	value := constant.Value
	//
	switch value.Kind {
	case air.SCALAR_CONST:
		if len(e.Indices) > 0 {
			t.errorFor(e.Name, EXPECTED_VECTOR, fmt.Sprintf("%s is not a vector", e.Name))
			return Value{}, false
		}
		//
		return ScalarValue(t.graph.Constant64(value.Scalar)), true
	case air.VECTOR_CONST:
		switch len(e.Indices) {
		case 0:
			return VectorValue(t.internAll(value.Vector)), true
		case 1:
			if e.Indices[0] >= uint(len(value.Vector)) {
				t.indexError(e.Name, e.Indices[0], uint(len(value.Vector)))
				return Value{}, false
			}
			//
			return ScalarValue(t.graph.Constant64(value.Vector[e.Indices[0]])), true
		default:
			t.errorFor(e.Name, EXPECTED_VECTOR, fmt.Sprintf("%s is not a matrix", e.Name))
			return Value{}, false
		}
	default:
		switch len(e.Indices) {
		case 0:
			rows := make([][]air.NodeId, len(value.Matrix))
			for i, row := range value.Matrix {
				rows[i] = t.internAll(row)
			}
			//
			return MatrixValue(rows), true
		case 1:
			if e.Indices[0] >= uint(len(value.Matrix)) {
				t.indexError(e.Name, e.Indices[0], uint(len(value.Matrix)))
				return Value{}, false
			}
			//
			return VectorValue(t.internAll(value.Matrix[e.Indices[0]])), true
		default:
			row := e.Indices[0]
			//
			if row >= uint(len(value.Matrix)) {
				t.indexError(e.Name, row, uint(len(value.Matrix)))
				return Value{}, false
			}
			//
			if e.Indices[1] >= uint(len(value.Matrix[row])) {
				t.indexError(e.Name, e.Indices[1], uint(len(value.Matrix[row])))
				return Value{}, false
			}
			//
			return ScalarValue(t.graph.Constant64(value.Matrix[row][e.Indices[1]])), true
		}
	}
}

func (t *translator) lowerVariableAccess(e *ast.Access, variable *VariableBinding) (Value, bool) {
	if ok := t.checkPlainAccess(e); !ok {
		return Value{}, false
	}
	//
	value := variable.Value
	//
	switch value.Kind() {
	case SCALAR:
		if len(e.Indices) > 0 {
			t.errorFor(e.Name, EXPECTED_VECTOR, fmt.Sprintf("%s is not a vector", e.Name))
			return Value{}, false
		}
		//
		return value, true
	case VECTOR:
		switch len(e.Indices) {
		case 0:
			return value, true
		case 1:
			if e.Indices[0] >= value.Len() {
				t.indexError(e.Name, e.Indices[0], value.Len())
				return Value{}, false
			}
			//
			return ScalarValue(value.Vector()[e.Indices[0]]), true
		default:
			t.errorFor(e.Name, EXPECTED_VECTOR, fmt.Sprintf("%s is not a matrix", e.Name))
			return Value{}, false
		}
	default:
		switch len(e.Indices) {
		case 0:
			return value, true
		case 1:
			if e.Indices[0] >= value.Len() {
				t.indexError(e.Name, e.Indices[0], value.Len())
				return Value{}, false
			}
			//
			return VectorValue(value.Matrix()[e.Indices[0]]), true
		default:
			row := e.Indices[0]
			//
			if row >= value.Len() {
				t.indexError(e.Name, row, value.Len())
				return Value{}, false
			}
			//
			if e.Indices[1] >= uint(len(value.Matrix()[row])) {
				t.indexError(e.Name, e.Indices[1], uint(len(value.Matrix()[row])))
				return Value{}, false
			}
			//
			return ScalarValue(value.Matrix()[row][e.Indices[1]]), true
		}
	}
}

// Reject row accessors on bindings which are not trace columns.
func (t *translator) checkPlainAccess(e *ast.Access) bool {
	if e.Offset == 1 {
		t.errorFor(e.Name, NEXT_APPLIED_TO_NON_TRACE,
			fmt.Sprintf("the next-row operator cannot be applied to %s", e.Name))
		//
		return false
	}
	//
	if e.Bound != ast.NO_BOUND {
		t.errorFor(e.Name, UNSUPPORTED_FEATURE,
			fmt.Sprintf("boundary accessors cannot be applied to %s", e.Name))
		//
		return false
	}
	//
	return true
}

func (t *translator) internAll(values []uint64) []air.NodeId {
	ids := make([]air.NodeId, len(values))
	for i, v := range values {
		ids[i] = t.graph.Constant64(v)
	}
	//
	return ids
}

// ============================================================================
// Diagnostics helpers
// ============================================================================

// Declare a symbol, diagnosing a clash with any existing declaration.
func (t *translator) declareSymbol(id *ast.Identifier, binding Binding) {
	if prev := t.symbols.Declare(id, binding); prev != nil {
		t.errors = append(t.errors,
			t.diagnosticFor(id, DUPLICATE_IDENTIFIER, fmt.Sprintf("%s is already declared", id)).
				WithHint(t.srcmap.Get(prev), "previously declared here"))
	}
}

func (t *translator) indexError(node ast.Node, index uint, length uint) {
	msg := fmt.Sprintf("index %d out of range for length %d", index, length)
	t.errorFor(node, INDEX_OUT_OF_RANGE, msg)
}

func (t *translator) shapeError(node ast.Node, left Value, right Value) {
	msg := fmt.Sprintf("mismatched shapes (%s versus %s)", describeShape(left), describeShape(right))
	t.errorFor(node, SHAPE_MISMATCH, msg)
}

func describeShape(value Value) string {
	switch value.Kind() {
	case SCALAR:
		return "scalar"
	case VECTOR:
		return fmt.Sprintf("vector of %d", value.Len())
	default:
		return fmt.Sprintf("matrix of %d rows", value.Len())
	}
}

func (t *translator) errorFor(node ast.Node, code ErrorCode, msg string) {
	t.errors = append(t.errors, t.diagnosticFor(node, code, msg))
}

func (t *translator) diagnosticFor(node ast.Node, code ErrorCode, msg string) Diagnostic {
	return NewDiagnostic(t.srcmap.Source(), code, t.srcmap.Get(node), msg)
}
