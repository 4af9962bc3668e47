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
	"github.com/0xPolygonMiden/air-script/pkg/air"
	"github.com/0xPolygonMiden/air-script/pkg/airscript/ast"
)

// Binding records what a resolved identifier refers to.
type Binding interface {
	isBinding()
}

// ConstantBinding binds a name to a module-level constant value.
type ConstantBinding struct {
	Value air.ConstValue
}

// ColumnBinding binds a name to one or more adjacent trace columns within a
// given segment.  Evaluator formal parameters are also column bindings, bound
// to the actual columns at each call site.
type ColumnBinding struct {
	Segment air.Segment
	// Starting column index within the segment.
	Offset uint
	// Number of adjacent columns covered (1 for a single column).
	Width uint
}

// PublicBinding binds a name to a declared public input array.
type PublicBinding struct {
	// Position within the public inputs table.
	Ordinal uint
	Size    uint
}

// PeriodicBinding binds a name to a declared periodic column.
type PeriodicBinding struct {
	// Position within the periodic columns table.
	Ordinal uint
	Length  uint
}

// RandomBinding binds a name to a range of the random values array: either
// the whole array, or a named sub-binding.
type RandomBinding struct {
	// Starting index within the random values array.
	Offset uint
	Width  uint
}

// EvaluatorBinding binds a name to an evaluator declaration, inlined at call
// sites.
type EvaluatorBinding struct {
	Decl *ast.EvaluatorDecl
}

// VariableBinding binds a let-bound name (or comprehension iterator) to its
// already-lowered value.
type VariableBinding struct {
	Value Value
}

func (p *ConstantBinding) isBinding()  {}
func (p *ColumnBinding) isBinding()    {}
func (p *PublicBinding) isBinding()    {}
func (p *PeriodicBinding) isBinding()  {}
func (p *RandomBinding) isBinding()    {}
func (p *EvaluatorBinding) isBinding() {}
func (p *VariableBinding) isBinding()  {}

// Entry in the symbol table, retaining the declaring identifier so that
// duplicate-declaration diagnostics can point back at it.
type symbol struct {
	binding Binding
	declare *ast.Identifier
}

// SymbolTable maps identifiers to their declarations under lexical scoping.
// A global layer holds the module's declarations; scoped layers are pushed
// inside constraint sections for let-bound variables, comprehension iterators
// and inlined evaluator parameters.
type SymbolTable struct {
	scopes []map[string]symbol
}

// NewSymbolTable constructs a symbol table with an empty global layer.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{[]map[string]symbol{make(map[string]symbol)}}
}

// Declare a binding for a given identifier in the innermost scope.  On
// success nil is returned; otherwise, the identifier of the conflicting
// declaration is returned.
func (p *SymbolTable) Declare(id *ast.Identifier, binding Binding) *ast.Identifier {
	scope := p.scopes[len(p.scopes)-1]
	//
	if prev, ok := scope[id.Name]; ok {
		return prev.declare
	}
	//
	scope[id.Name] = symbol{binding, id}
	//
	return nil
}

// Resolve an identifier against the innermost scope declaring it, also
// returning the declaring identifier.
func (p *SymbolTable) Resolve(name string) (Binding, *ast.Identifier, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if sym, ok := p.scopes[i][name]; ok {
			return sym.binding, sym.declare, true
		}
	}
	//
	return nil, nil, false
}

// Enter pushes a fresh scope, returning the function which pops it.  The
// intended use is "defer p.Enter()()", which guarantees the scope is released
// on every exit path.
func (p *SymbolTable) Enter() func() {
	p.scopes = append(p.scopes, make(map[string]symbol))
	//
	return func() {
		p.scopes = p.scopes[:len(p.scopes)-1]
	}
}
