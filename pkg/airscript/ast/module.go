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

// Node is anything the parser records a source span for.  Nodes are always
// pointers, hence usable as source-map keys.
type Node any

// Identifier is one occurrence of a name in the source text.  Every
// occurrence is a distinct node, so that diagnostics can point at the exact
// use site.
type Identifier struct {
	Name string
}

func (p *Identifier) String() string {
	return p.Name
}

// Module is a complete parsed AirScript module.  Declarations appear in their
// source order within each table; constraints appear in source order within
// each section.
type Module struct {
	// Declared module name.
	Name *Identifier
	// Module-level constants.
	Constants []*ConstantDecl
	// Trace column declarations, or nil when the module declares no trace.
	Trace *TraceDecl
	// Declared public inputs.
	PublicInputs []*PublicInputDecl
	// Declared periodic columns.
	Periodic []*PeriodicColumnDecl
	// Declared random values, or nil when the module declares none.
	Random *RandomValuesDecl
	// Statements of the boundary_constraints section.
	Boundary []Statement
	// Statements of the integrity_constraints section.
	Integrity []Statement
	// Declared evaluator functions.
	Evaluators []*EvaluatorDecl
}
