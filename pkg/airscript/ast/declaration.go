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

// ConstantDecl declares a module-level constant.  The value is restricted by
// the grammar to a literal scalar, a vector of literals, or a matrix of
// literals.
type ConstantDecl struct {
	Name  *Identifier
	Value Expr
}

// TraceDecl declares the shape of the execution trace.  The auxiliary segment
// is optional.
type TraceDecl struct {
	Main []*ColumnDecl
	Aux  []*ColumnDecl
}

// ColumnDecl declares one trace binding: a single column (width 1), or a
// group of adjacent columns accessible by index or slice.
type ColumnDecl struct {
	Name  *Identifier
	Width uint
}

// PublicInputDecl declares a named public input array with a fixed length.
type PublicInputDecl struct {
	Name *Identifier
	Size uint
}

// PeriodicColumnDecl declares a named repeating pattern of values.
type PeriodicColumnDecl struct {
	Name    *Identifier
	Pattern []uint64
}

// RandomValuesDecl declares the verifier-supplied random values, either as a
// single named array (Size set, Bindings nil) or as a list of named
// sub-bindings whose widths sum to the array size.
type RandomValuesDecl struct {
	Name     *Identifier
	Size     uint
	Bindings []*ColumnDecl
}

// EvaluatorDecl declares an evaluator function: a named, parameterised bundle
// of integrity constraints which call sites inline with actual trace columns
// substituted for the formal parameters.
type EvaluatorDecl struct {
	Name   *Identifier
	Params *TraceDecl
	Body   []Statement
}

// Statement is a single line within a constraint section.
type Statement interface {
	isStatement()
}

// LetStmt binds a local variable to an expression for the remainder of the
// enclosing section.
type LetStmt struct {
	Name  *Identifier
	Value Expr
}

// EnforceStmt constrains two expressions to be equal, optionally gated by a
// selector.
type EnforceStmt struct {
	Left     Expr
	Right    Expr
	Selector Expr
}

// EnforceCallStmt inlines the constraints of an evaluator at this point,
// optionally gated by a selector.
type EnforceCallStmt struct {
	Call     *Call
	Selector Expr
}

func (p *LetStmt) isStatement()         {}
func (p *EnforceStmt) isStatement()     {}
func (p *EnforceCallStmt) isStatement() {}
