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
	"strconv"

	"github.com/0xPolygonMiden/air-script/pkg/air"
	"github.com/0xPolygonMiden/air-script/pkg/airscript/ast"
	"github.com/0xPolygonMiden/air-script/pkg/util/source"
)

// Section keywords.  A body line beginning with one of these terminates the
// enclosing section.
var sections = map[string]bool{
	"def":                   true,
	"const":                 true,
	"trace_columns":         true,
	"public_inputs":         true,
	"periodic_columns":      true,
	"random_values":         true,
	"boundary_constraints":  true,
	"integrity_constraints": true,
	"ev":                    true,
}

// Parse a given source file into an AST module, along with a source map
// recording the span of every node.  The grammar is line-oriented: each
// declaration and each constraint occupies a single line.  Parsing recovers
// at line granularity, so that one malformed line does not suppress
// diagnostics for the rest of the module.
func Parse(srcfile *source.File) (*ast.Module, *source.Map[ast.Node], []Diagnostic) {
	tokens, errors := Lex(srcfile)
	//
	p := &parser{
		srcfile: srcfile,
		tokens:  tokens,
		srcmap:  source.NewMap[ast.Node](srcfile),
		errors:  errors,
	}
	//
	module := p.parseModule()
	//
	return module, p.srcmap, p.errors
}

type parser struct {
	srcfile *source.File
	tokens  []source.Token
	index   int
	// End offset of the most recently consumed token, used to close spans.
	lastEnd int
	srcmap  *source.Map[ast.Node]
	errors  []Diagnostic
}

// ============================================================================
// Module structure
// ============================================================================

func (p *parser) parseModule() *ast.Module {
	module := &ast.Module{}
	//
	p.skipBlankLines()
	// Module header
	if p.matchKeyword("def") {
		if name, ok := p.parseIdentifier(); ok {
			module.Name = name
			p.endOfLine()
		}
	} else {
		p.errorHere(SYNTAX_ERROR, "expected module declaration (def <Name>)")
		p.syncLine()
	}
	// Sections
	for !p.at(END_OF) {
		p.skipBlankLines()
		//
		if p.at(END_OF) {
			break
		}
		//
		tok := p.peek()
		//
		if tok.Kind != IDENTIFIER {
			p.errorHere(SYNTAX_ERROR, "expected section or declaration")
			p.syncLine()
			//
			continue
		}
		//
		switch tok.Text(p.srcfile) {
		case "const":
			p.next()
			//
			if decl, ok := p.parseConstant(tok.Span.Start()); ok {
				module.Constants = append(module.Constants, decl)
			}
		case "trace_columns":
			p.next()
			p.sectionHeader()
			module.Trace = p.parseTraceSection()
		case "public_inputs":
			p.next()
			p.sectionHeader()
			module.PublicInputs = append(module.PublicInputs, p.parsePublicSection()...)
		case "periodic_columns":
			p.next()
			p.sectionHeader()
			module.Periodic = append(module.Periodic, p.parsePeriodicSection()...)
		case "random_values":
			p.next()
			p.sectionHeader()
			module.Random = p.parseRandomSection()
		case "boundary_constraints":
			p.next()
			p.sectionHeader()
			module.Boundary = p.parseConstraintSection()
		case "integrity_constraints":
			p.next()
			p.sectionHeader()
			module.Integrity = p.parseConstraintSection()
		case "ev":
			p.next()
			//
			if decl, ok := p.parseEvaluator(tok.Span.Start()); ok {
				module.Evaluators = append(module.Evaluators, decl)
			}
		default:
			p.errorHere(SYNTAX_ERROR, fmt.Sprintf("unknown section \"%s\"", tok.Text(p.srcfile)))
			p.syncLine()
		}
	}
	//
	return module
}

// const <Name> = <literal | vector | matrix>
func (p *parser) parseConstant(start int) (*ast.ConstantDecl, bool) {
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	//
	if !p.expect(EQUALS, "=") {
		return nil, false
	}
	//
	value, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	//
	decl := &ast.ConstantDecl{Name: name, Value: value}
	p.register(decl, start)
	p.endOfLine()
	//
	return decl, true
}

// Body of trace_columns: "main: [...]" and optionally "aux: [...]".
func (p *parser) parseTraceSection() *ast.TraceDecl {
	decl := &ast.TraceDecl{}
	start := p.peek().Span.Start()
	//
	for {
		p.skipBlankLines()
		//
		tok := p.peek()
		if tok.Kind != IDENTIFIER {
			break
		}
		//
		switch tok.Text(p.srcfile) {
		case "main":
			p.next()
			p.expect(COLON, ":")
			decl.Main = p.parseColumnList()
		case "aux":
			p.next()
			p.expect(COLON, ":")
			decl.Aux = p.parseColumnList()
		default:
			p.register(decl, start)
			return decl
		}
		//
		p.endOfLine()
	}
	//
	p.register(decl, start)
	//
	return decl
}

// [a, b, c[3]]
func (p *parser) parseColumnList() []*ast.ColumnDecl {
	var columns []*ast.ColumnDecl
	//
	if !p.expect(LBRACKET, "[") {
		return nil
	}
	//
	for {
		start := p.peek().Span.Start()
		//
		name, ok := p.parseIdentifier()
		if !ok {
			p.syncLine()
			return columns
		}
		//
		column := &ast.ColumnDecl{Name: name, Width: 1}
		// Optional group width
		if p.match(LBRACKET) {
			if width, ok := p.parseNumber(); ok {
				column.Width = uint(width)
			}
			//
			p.expect(RBRACKET, "]")
		}
		//
		p.register(column, start)
		columns = append(columns, column)
		//
		if !p.match(COMMA) {
			break
		}
	}
	//
	p.expect(RBRACKET, "]")
	//
	return columns
}

// Body of public_inputs: "name: [len]" lines.
func (p *parser) parsePublicSection() []*ast.PublicInputDecl {
	var decls []*ast.PublicInputDecl
	//
	for {
		p.skipBlankLines()
		//
		tok := p.peek()
		if tok.Kind != IDENTIFIER || sections[tok.Text(p.srcfile)] {
			break
		}
		//
		start := tok.Span.Start()
		name, _ := p.parseIdentifier()
		//
		if p.expect(COLON, ":") && p.expect(LBRACKET, "[") {
			if size, ok := p.parseNumber(); ok {
				p.expect(RBRACKET, "]")
				//
				decl := &ast.PublicInputDecl{Name: name, Size: uint(size)}
				p.register(decl, start)
				decls = append(decls, decl)
			}
		}
		//
		p.endOfLine()
	}
	//
	return decls
}

// Body of periodic_columns: "name: [v, v, ...]" lines.
func (p *parser) parsePeriodicSection() []*ast.PeriodicColumnDecl {
	var decls []*ast.PeriodicColumnDecl
	//
	for {
		p.skipBlankLines()
		//
		tok := p.peek()
		if tok.Kind != IDENTIFIER || sections[tok.Text(p.srcfile)] {
			break
		}
		//
		start := tok.Span.Start()
		name, _ := p.parseIdentifier()
		//
		if p.expect(COLON, ":") && p.expect(LBRACKET, "[") {
			var pattern []uint64
			//
			for {
				value, ok := p.parseNumber()
				if !ok {
					break
				}
				//
				pattern = append(pattern, value)
				//
				if !p.match(COMMA) {
					break
				}
			}
			//
			p.expect(RBRACKET, "]")
			//
			decl := &ast.PeriodicColumnDecl{Name: name, Pattern: pattern}
			p.register(decl, start)
			decls = append(decls, decl)
		}
		//
		p.endOfLine()
	}
	//
	return decls
}

// Body of random_values: a single "name: [len]" or "name: [x, y[14]]" line.
func (p *parser) parseRandomSection() *ast.RandomValuesDecl {
	p.skipBlankLines()
	//
	tok := p.peek()
	if tok.Kind != IDENTIFIER || sections[tok.Text(p.srcfile)] {
		p.errorHere(SYNTAX_ERROR, "expected random values declaration")
		return nil
	}
	//
	start := tok.Span.Start()
	name, _ := p.parseIdentifier()
	decl := &ast.RandomValuesDecl{Name: name}
	//
	if p.expect(COLON, ":") {
		if p.peekAt(1).Kind == NUMBER {
			p.expect(LBRACKET, "[")
			//
			if size, ok := p.parseNumber(); ok {
				decl.Size = uint(size)
			}
			//
			p.expect(RBRACKET, "]")
		} else {
			decl.Bindings = p.parseColumnList()
			//
			for _, binding := range decl.Bindings {
				decl.Size += binding.Width
			}
		}
	}
	//
	p.register(decl, start)
	p.endOfLine()
	//
	return decl
}

// ev <Name>([main: [...], aux: [...]]):
func (p *parser) parseEvaluator(start int) (*ast.EvaluatorDecl, bool) {
	name, ok := p.parseIdentifier()
	if !ok {
		p.syncLine()
		return nil, false
	}
	//
	params := &ast.TraceDecl{}
	ok = p.expect(LPAREN, "(") && p.expect(LBRACKET, "[")
	//
	for ok {
		segment, segOk := p.parseIdentifier()
		if !segOk {
			ok = false
			break
		}
		//
		p.expect(COLON, ":")
		columns := p.parseColumnList()
		//
		switch segment.Name {
		case "main":
			params.Main = columns
		case "aux":
			params.Aux = columns
		default:
			p.errorFor(segment, SYNTAX_ERROR, "expected main or aux parameter list")
		}
		//
		if !p.match(COMMA) {
			break
		}
	}
	//
	if !ok || !p.expect(RBRACKET, "]") || !p.expect(RPAREN, ")") || !p.expect(COLON, ":") {
		p.syncLine()
		return nil, false
	}
	//
	p.endOfLine()
	//
	decl := &ast.EvaluatorDecl{Name: name, Params: params, Body: p.parseConstraintSection()}
	p.register(decl, start)
	//
	return decl, true
}

// Body of a constraint section: "enf ..." and "let ..." lines.
func (p *parser) parseConstraintSection() []ast.Statement {
	var statements []ast.Statement
	//
	for {
		p.skipBlankLines()
		//
		tok := p.peek()
		if tok.Kind != IDENTIFIER {
			break
		}
		//
		switch tok.Text(p.srcfile) {
		case "enf":
			p.next()
			//
			if stmt, ok := p.parseEnforce(tok.Span.Start()); ok {
				statements = append(statements, stmt)
			}
		case "let":
			p.next()
			//
			if stmt, ok := p.parseLet(tok.Span.Start()); ok {
				statements = append(statements, stmt)
			}
		default:
			return statements
		}
	}
	//
	return statements
}

// let <name> = <expr>
func (p *parser) parseLet(start int) (ast.Statement, bool) {
	name, ok := p.parseIdentifier()
	if !ok {
		p.syncLine()
		return nil, false
	}
	//
	if !p.expect(EQUALS, "=") {
		p.syncLine()
		return nil, false
	}
	//
	value, ok := p.parseExpr()
	if !ok {
		p.syncLine()
		return nil, false
	}
	//
	stmt := &ast.LetStmt{Name: name, Value: value}
	p.register(stmt, start)
	p.endOfLine()
	//
	return stmt, true
}

// enf <expr> = <expr> [when <expr>], or enf <call> [when <expr>]
func (p *parser) parseEnforce(start int) (ast.Statement, bool) {
	left, ok := p.parseExpr()
	if !ok {
		p.syncLine()
		return nil, false
	}
	// Evaluator call form has no equation.
	if call, isCall := left.(*ast.Call); isCall {
		stmt := &ast.EnforceCallStmt{Call: call}
		//
		if selector, selOk := p.parseSelector(); !selOk {
			p.syncLine()
			return nil, false
		} else {
			stmt.Selector = selector
		}
		//
		p.register(stmt, start)
		p.endOfLine()
		//
		return stmt, true
	}
	//
	if !p.expect(EQUALS, "=") {
		p.syncLine()
		return nil, false
	}
	//
	right, ok := p.parseExpr()
	if !ok {
		p.syncLine()
		return nil, false
	}
	//
	stmt := &ast.EnforceStmt{Left: left, Right: right}
	//
	if selector, selOk := p.parseSelector(); !selOk {
		p.syncLine()
		return nil, false
	} else {
		stmt.Selector = selector
	}
	//
	p.register(stmt, start)
	p.endOfLine()
	//
	return stmt, true
}

// Optional "when <expr>" suffix.
func (p *parser) parseSelector() (ast.Expr, bool) {
	if !p.matchKeyword("when") {
		return nil, true
	}
	//
	return p.parseExpr()
}

// ============================================================================
// Expressions
// ============================================================================

func (p *parser) parseExpr() (ast.Expr, bool) {
	return p.parseAdditive()
}

func (p *parser) parseAdditive() (ast.Expr, bool) {
	start := p.peek().Span.Start()
	//
	left, ok := p.parseMultiplicative()
	//
	for ok {
		var op ast.BinaryOp
		//
		if p.match(PLUS) {
			op = ast.ADD
		} else if p.match(MINUS) {
			op = ast.SUB
		} else {
			break
		}
		//
		var right ast.Expr
		//
		if right, ok = p.parseMultiplicative(); ok {
			left = &ast.Binary{Op: op, Left: left, Right: right}
			p.register(left, start)
		}
	}
	//
	return left, ok
}

func (p *parser) parseMultiplicative() (ast.Expr, bool) {
	start := p.peek().Span.Start()
	//
	left, ok := p.parseExponent()
	//
	for ok && p.match(STAR) {
		var right ast.Expr
		//
		if right, ok = p.parseExponent(); ok {
			left = &ast.Binary{Op: ast.MUL, Left: left, Right: right}
			p.register(left, start)
		}
	}
	//
	return left, ok
}

func (p *parser) parseExponent() (ast.Expr, bool) {
	start := p.peek().Span.Start()
	//
	base, ok := p.parseUnary()
	//
	if ok && p.match(CARET) {
		var exponent ast.Expr
		//
		if exponent, ok = p.parseUnary(); ok {
			base = &ast.Binary{Op: ast.EXP, Left: base, Right: exponent}
			p.register(base, start)
		}
	}
	//
	return base, ok
}

func (p *parser) parseUnary() (ast.Expr, bool) {
	start := p.peek().Span.Start()
	//
	if p.match(MINUS) {
		inner, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		//
		expr := &ast.Unary{Expr: inner}
		p.register(expr, start)
		//
		return expr, true
	}
	//
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (ast.Expr, bool) {
	tok := p.peek()
	start := tok.Span.Start()
	//
	switch tok.Kind {
	case NUMBER:
		value, ok := p.parseNumber()
		if !ok {
			return nil, false
		}
		//
		expr := &ast.IntLiteral{Value: value}
		p.register(expr, start)
		//
		return expr, true
	case IDENTIFIER:
		switch tok.Text(p.srcfile) {
		case "sum":
			return p.parseFold(ast.SUM)
		case "prod":
			return p.parseFold(ast.PROD)
		}
		//
		return p.parseAccessOrCall()
	case DOLLAR_IDENTIFIER:
		return p.parseDollarAccess()
	case LPAREN:
		p.next()
		//
		expr, ok := p.parseExpr()
		if ok {
			ok = p.expect(RPAREN, ")")
		}
		//
		return expr, ok
	case LBRACKET:
		return p.parseListExpr()
	default:
		p.errorHere(SYNTAX_ERROR, "expected expression")
		return nil, false
	}
}

// sum(...) / prod(...)
func (p *parser) parseFold(op ast.FoldOp) (ast.Expr, bool) {
	start := p.peek().Span.Start()
	p.next()
	//
	if !p.expect(LPAREN, "(") {
		return nil, false
	}
	//
	arg, ok := p.parseExpr()
	if !ok || !p.expect(RPAREN, ")") {
		return nil, false
	}
	//
	expr := &ast.Fold{Op: op, Arg: arg}
	p.register(expr, start)
	//
	return expr, true
}

// A named access (with optional indices, slice, next-row or boundary
// accessor), or an evaluator call.
func (p *parser) parseAccessOrCall() (ast.Expr, bool) {
	start := p.peek().Span.Start()
	//
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	// Evaluator call
	if p.at(LPAREN) {
		return p.parseCall(name, start)
	}
	//
	access := &ast.Access{Name: name}
	// Indices or slice
	for len(access.Indices) < 2 && p.at(LBRACKET) {
		p.next()
		//
		index, ok := p.parseNumber()
		if !ok {
			return nil, false
		}
		// Slice form
		if p.match(DOTDOT) {
			end, ok := p.parseNumber()
			if !ok || !p.expect(RBRACKET, "]") {
				return nil, false
			}
			//
			if len(access.Indices) > 0 {
				p.errorHere(SYNTAX_ERROR, "cannot slice an indexed access")
				return nil, false
			}
			//
			slice := &ast.SliceAccess{Name: name, Start: uint(index), End: uint(end)}
			p.register(slice, start)
			//
			return slice, true
		}
		//
		if !p.expect(RBRACKET, "]") {
			return nil, false
		}
		//
		access.Indices = append(access.Indices, uint(index))
	}
	// Next-row operator
	if p.match(PRIME) {
		access.Offset = 1
	}
	// Boundary accessor
	if p.match(DOT) {
		bound, ok := p.parseIdentifier()
		if !ok {
			return nil, false
		}
		//
		switch bound.Name {
		case "first":
			access.Bound = ast.FIRST
		case "last":
			access.Bound = ast.LAST
		default:
			p.errorFor(bound, SYNTAX_ERROR, "expected first or last")
			return nil, false
		}
	}
	//
	p.register(access, start)
	//
	return access, true
}

// $main[i], $aux[i] or $name[i]
func (p *parser) parseDollarAccess() (ast.Expr, bool) {
	tok := p.next()
	start := tok.Span.Start()
	name := tok.Text(p.srcfile)[1:]
	//
	if name == "" {
		p.errorHere(SYNTAX_ERROR, "expected name after $")
		return nil, false
	}
	//
	if !p.expect(LBRACKET, "[") {
		return nil, false
	}
	//
	index, ok := p.parseNumber()
	if !ok || !p.expect(RBRACKET, "]") {
		return nil, false
	}
	//
	var expr ast.Expr
	//
	switch name {
	case "main":
		expr = &ast.SegmentAccess{Segment: air.MAIN, Index: uint(index)}
	case "aux":
		expr = &ast.SegmentAccess{Segment: air.AUX, Index: uint(index)}
	default:
		id := &ast.Identifier{Name: name}
		p.srcmap.Put(id, source.NewSpan(start, start+1+len(name)))
		expr = &ast.RandomAccess{Name: id, Index: uint(index)}
	}
	//
	p.register(expr, start)
	//
	return expr, true
}

// name([a, b], [c])
func (p *parser) parseCall(name *ast.Identifier, start int) (ast.Expr, bool) {
	p.expect(LPAREN, "(")
	//
	call := &ast.Call{Name: name}
	//
	for {
		if !p.at(LBRACKET) {
			p.errorHere(SYNTAX_ERROR, "expected argument vector")
			return nil, false
		}
		//
		arg, ok := p.parseListExpr()
		if !ok {
			return nil, false
		}
		//
		vector, isVector := arg.(*ast.Vector)
		if !isVector {
			p.errorFor(arg, SYNTAX_ERROR, "expected argument vector")
			return nil, false
		}
		//
		call.Args = append(call.Args, vector)
		//
		if !p.match(COMMA) {
			break
		}
	}
	//
	if !p.expect(RPAREN, ")") {
		return nil, false
	}
	//
	p.register(call, start)
	//
	return call, true
}

// A bracketed expression: vector literal, matrix literal, or list
// comprehension.
func (p *parser) parseListExpr() (ast.Expr, bool) {
	start := p.peek().Span.Start()
	p.expect(LBRACKET, "[")
	// Matrix literal
	if p.at(LBRACKET) {
		return p.parseMatrixRows(start)
	}
	//
	first, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	// Comprehension
	if p.atKeyword("for") {
		return p.parseComprehension(first, start)
	}
	//
	vector := &ast.Vector{Elements: []ast.Expr{first}}
	//
	for p.match(COMMA) {
		element, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		//
		vector.Elements = append(vector.Elements, element)
	}
	//
	if !p.expect(RBRACKET, "]") {
		return nil, false
	}
	//
	p.register(vector, start)
	//
	return vector, true
}

// Remaining rows of a matrix literal, given "[" already consumed.
func (p *parser) parseMatrixRows(start int) (ast.Expr, bool) {
	matrix := &ast.Matrix{}
	//
	for {
		rowStart := p.peek().Span.Start()
		//
		if !p.expect(LBRACKET, "[") {
			return nil, false
		}
		//
		row := &ast.Vector{}
		//
		for {
			element, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			//
			row.Elements = append(row.Elements, element)
			//
			if !p.match(COMMA) {
				break
			}
		}
		//
		if !p.expect(RBRACKET, "]") {
			return nil, false
		}
		//
		p.register(row, rowStart)
		matrix.Rows = append(matrix.Rows, row)
		//
		if !p.match(COMMA) {
			break
		}
	}
	//
	if !p.expect(RBRACKET, "]") {
		return nil, false
	}
	//
	p.register(matrix, start)
	//
	return matrix, true
}

// Remainder of "[body for (x, y) in (xs, ys)]", given the body already
// parsed.
func (p *parser) parseComprehension(body ast.Expr, start int) (ast.Expr, bool) {
	p.matchKeyword("for")
	//
	var names []*ast.Identifier
	// Iterator names
	if p.match(LPAREN) {
		for {
			name, ok := p.parseIdentifier()
			if !ok {
				return nil, false
			}
			//
			names = append(names, name)
			//
			if !p.match(COMMA) {
				break
			}
		}
		//
		if !p.expect(RPAREN, ")") {
			return nil, false
		}
	} else {
		name, ok := p.parseIdentifier()
		if !ok {
			return nil, false
		}
		//
		names = append(names, name)
	}
	//
	if !p.matchKeyword("in") {
		p.errorHere(SYNTAX_ERROR, "expected in")
		return nil, false
	}
	// Iterables
	var iterables []ast.Expr
	//
	if p.match(LPAREN) {
		for {
			iterable, ok := p.parseIterable()
			if !ok {
				return nil, false
			}
			//
			iterables = append(iterables, iterable)
			//
			if !p.match(COMMA) {
				break
			}
		}
		//
		if !p.expect(RPAREN, ")") {
			return nil, false
		}
	} else {
		iterable, ok := p.parseIterable()
		if !ok {
			return nil, false
		}
		//
		iterables = append(iterables, iterable)
	}
	//
	if !p.expect(RBRACKET, "]") {
		return nil, false
	}
	//
	if len(names) != len(iterables) {
		span := source.NewSpan(start, p.lastEnd)
		msg := fmt.Sprintf("%d iterators bound to %d iterables", len(names), len(iterables))
		p.errors = append(p.errors, NewDiagnostic(p.srcfile, SYNTAX_ERROR, span, msg))
		//
		return nil, false
	}
	//
	comprehension := &ast.Comprehension{Body: body}
	//
	for i, name := range names {
		binding := &ast.CompBinding{Name: name, Iterable: iterables[i]}
		p.srcmap.Copy(name, binding)
		comprehension.Bindings = append(comprehension.Bindings, binding)
	}
	//
	p.register(comprehension, start)
	//
	return comprehension, true
}

// An iterable: a range (i..j), a named vector, or a slice of one.
func (p *parser) parseIterable() (ast.Expr, bool) {
	tok := p.peek()
	start := tok.Span.Start()
	//
	if tok.Kind == NUMBER {
		from, ok := p.parseNumber()
		if !ok || !p.expect(DOTDOT, "..") {
			return nil, false
		}
		//
		to, ok := p.parseNumber()
		if !ok {
			return nil, false
		}
		//
		expr := &ast.Range{Start: from, End: to}
		p.register(expr, start)
		//
		return expr, true
	}
	//
	return p.parseAccessOrCall()
}

// ============================================================================
// Helpers
// ============================================================================

func (p *parser) peek() source.Token {
	return p.tokens[p.index]
}

func (p *parser) peekAt(n int) source.Token {
	if p.index+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	//
	return p.tokens[p.index+n]
}

func (p *parser) next() source.Token {
	tok := p.tokens[p.index]
	//
	if tok.Kind != END_OF {
		p.index++
	}
	//
	p.lastEnd = tok.Span.End()
	//
	return tok
}

func (p *parser) at(kind uint) bool {
	return p.peek().Kind == kind
}

func (p *parser) atKeyword(keyword string) bool {
	tok := p.peek()
	return tok.Kind == IDENTIFIER && tok.Text(p.srcfile) == keyword
}

func (p *parser) match(kind uint) bool {
	if p.at(kind) {
		p.next()
		return true
	}
	//
	return false
}

func (p *parser) matchKeyword(keyword string) bool {
	if p.atKeyword(keyword) {
		p.next()
		return true
	}
	//
	return false
}

func (p *parser) expect(kind uint, what string) bool {
	if p.match(kind) {
		return true
	}
	//
	p.errorHere(SYNTAX_ERROR, fmt.Sprintf("expected %s", what))
	//
	return false
}

// Parse an identifier occurrence, registering its span.
func (p *parser) parseIdentifier() (*ast.Identifier, bool) {
	if !p.at(IDENTIFIER) {
		p.errorHere(SYNTAX_ERROR, "expected identifier")
		return nil, false
	}
	//
	tok := p.next()
	id := &ast.Identifier{Name: tok.Text(p.srcfile)}
	p.srcmap.Put(id, tok.Span)
	//
	return id, true
}

// Parse an unsigned decimal literal, rejecting values beyond 64 bits.
func (p *parser) parseNumber() (uint64, bool) {
	if !p.at(NUMBER) {
		p.errorHere(SYNTAX_ERROR, "expected number")
		return 0, false
	}
	//
	tok := p.next()
	//
	value, err := strconv.ParseUint(tok.Text(p.srcfile), 10, 64)
	if err != nil {
		msg := fmt.Sprintf("literal %s exceeds 64 bits", tok.Text(p.srcfile))
		p.errors = append(p.errors, NewDiagnostic(p.srcfile, OVERFLOW_ERROR, tok.Span, msg))
		//
		return 0, false
	}
	//
	return value, true
}

// Consume the end of the current line, complaining about trailing tokens.
func (p *parser) endOfLine() {
	if !p.at(NEWLINE) && !p.at(END_OF) {
		p.errorHere(SYNTAX_ERROR, "unexpected trailing input")
		p.syncLine()
		//
		return
	}
	//
	p.match(NEWLINE)
}

// Header of a section: the ":" after the section keyword.
func (p *parser) sectionHeader() {
	p.expect(COLON, ":")
	p.endOfLine()
}

func (p *parser) skipBlankLines() {
	for p.match(NEWLINE) {
	}
}

// Skip past the end of the current line, for error recovery.
func (p *parser) syncLine() {
	for !p.at(NEWLINE) && !p.at(END_OF) {
		p.next()
	}
	//
	p.match(NEWLINE)
}

// Register the span of a node as running from a given start offset up to the
// most recently consumed token.
func (p *parser) register(node ast.Node, start int) {
	p.srcmap.Put(node, source.NewSpan(start, max(start, p.lastEnd)))
}

// Report an error at the current token.
func (p *parser) errorHere(code ErrorCode, msg string) {
	p.errors = append(p.errors, NewDiagnostic(p.srcfile, code, p.peek().Span, msg))
}

// Report an error at a given node.
func (p *parser) errorFor(node ast.Node, code ErrorCode, msg string) {
	p.errors = append(p.errors, NewDiagnostic(p.srcfile, code, p.srcmap.Get(node), msg))
}
