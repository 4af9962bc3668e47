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
package ast

import (
	"github.com/0xPolygonMiden/air-script/pkg/air"
)

// Expr is an expression tree produced by the parser.
type Expr interface {
	isExpr()
}

// BinaryOp identifies a binary operator.
type BinaryOp uint8

const (
	// ADD is field addition.
	ADD BinaryOp = iota
	// SUB is field subtraction.
	SUB
	// MUL is field multiplication.
	MUL
	// EXP is exponentiation by a literal power.
	EXP
)

// FoldOp identifies a list fold.
type FoldOp uint8

const (
	// SUM reduces a list with addition.
	SUM FoldOp = iota
	// PROD reduces a list with multiplication.
	PROD
)

// Boundary identifies a boundary accessor attached to a column access.
type Boundary uint8

const (
	// NO_BOUND marks an access without a boundary accessor.
	NO_BOUND Boundary = iota
	// FIRST marks a ".first" access.
	FIRST
	// LAST marks a ".last" access.
	LAST
)

func (b Boundary) String() string {
	switch b {
	case FIRST:
		return "first"
	case LAST:
		return "last"
	default:
		return "none"
	}
}

// IntLiteral is an unsigned decimal literal.
type IntLiteral struct {
	Value uint64
}

// Access references a named binding, optionally refined by up to two literal
// indices (vector element, matrix element), a next-row offset (x') or a
// boundary accessor (x.first / x.last).
type Access struct {
	Name *Identifier
	// Literal indices applied to the binding, in order.
	Indices []uint
	// Row offset: 0 for the current row, 1 for x'.
	Offset uint
	// Boundary accessor, if any.
	Bound Boundary
}

// SliceAccess references a half-open range of elements of a named binding.
// Slices are only meaningful as comprehension iterables.
type SliceAccess struct {
	Name  *Identifier
	Start uint
	End   uint
}

// SegmentAccess references a trace column directly by position, as in
// $main[i] or $aux[i].
type SegmentAccess struct {
	Segment air.Segment
	Index   uint
}

// RandomAccess references an element of the random-values array by its
// declared name, as in $rand[i].
type RandomAccess struct {
	Name  *Identifier
	Index uint
}

// Unary is unary negation.
type Unary struct {
	Expr Expr
}

// Binary applies a binary operator to two sub-expressions.  For EXP, the
// right-hand side must be a literal.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// Vector is a literal vector of expressions.
type Vector struct {
	Elements []Expr
}

// Matrix is a literal row-major matrix of expressions.
type Matrix struct {
	Rows []*Vector
}

// Range is a half-open interval of literals, usable as a comprehension
// iterable.
type Range struct {
	Start uint64
	End   uint64
}

// CompBinding binds one comprehension iterator to an iterable.
type CompBinding struct {
	Name     *Identifier
	Iterable Expr
}

// Comprehension is a list comprehension: the body is evaluated once per
// position with all iterators bound in lockstep.
type Comprehension struct {
	Body     Expr
	Bindings []*CompBinding
}

// Fold reduces a list-valued expression with addition or multiplication.
type Fold struct {
	Op  FoldOp
	Arg Expr
}

// Call invokes an evaluator with one vector of trace columns per declared
// parameter segment.
type Call struct {
	Name *Identifier
	Args []*Vector
}

func (p *IntLiteral) isExpr()    {}
func (p *Access) isExpr()        {}
func (p *SliceAccess) isExpr()   {}
func (p *SegmentAccess) isExpr() {}
func (p *RandomAccess) isExpr()  {}
func (p *Unary) isExpr()         {}
func (p *Binary) isExpr()        {}
func (p *Vector) isExpr()        {}
func (p *Matrix) isExpr()        {}
func (p *Range) isExpr()         {}
func (p *Comprehension) isExpr() {}
func (p *Fold) isExpr()          {}
func (p *Call) isExpr()          {}
