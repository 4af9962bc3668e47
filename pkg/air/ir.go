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
package air

// ConstValueKind distinguishes the three shapes a module-level constant can
// take.
type ConstValueKind uint8

const (
	// SCALAR_CONST constants are single values.
	SCALAR_CONST ConstValueKind = iota
	// VECTOR_CONST constants are vectors of values.
	VECTOR_CONST
	// MATRIX_CONST constants are row-major matrices of values.
	MATRIX_CONST
)

// ConstValue is the value of a module-level constant.
type ConstValue struct {
	Kind   ConstValueKind
	Scalar uint64
	Vector []uint64
	Matrix [][]uint64
}

// Constant is a named module-level constant.
type Constant struct {
	Name  string
	Value ConstValue
}

// PublicInput is a named array of values supplied by the verifier.
type PublicInput struct {
	Name string
	Size uint
}

// PeriodicColumn is a named repeating pattern of values, indexed by row
// modulo the pattern length.  The pattern length is always a power of two.
type PeriodicColumn struct {
	Name    string
	Pattern []uint64
}

// ConstraintRoot identifies one constraint: a graph node which must evaluate
// to zero over a given row domain, together with the constraint's polynomial
// degree.
type ConstraintRoot struct {
	node   NodeId
	domain Domain
	degree uint
}

// NewConstraintRoot packages a lowered constraint expression with its domain
// and degree.
func NewConstraintRoot(node NodeId, domain Domain, degree uint) ConstraintRoot {
	return ConstraintRoot{node, domain, degree}
}

// Node returns the graph index of this constraint's expression.
func (r *ConstraintRoot) Node() NodeId {
	return r.node
}

// Domain returns the row domain over which this constraint holds.
func (r *ConstraintRoot) Domain() Domain {
	return r.domain
}

// Degree returns the polynomial degree of this constraint in the trace
// variables.
func (r *ConstraintRoot) Degree() uint {
	return r.degree
}

// Air is the lowered intermediate representation of one AirScript module.  It
// owns the arithmetic graph along with the declaration tables and one ordered
// constraint-root list per trace segment.  All orderings are deterministic:
// declaration tables preserve declaration order, root lists preserve source
// order, and graph nodes are numbered in the order they were interned.  An
// Air is frozen once returned by the compiler.
type Air struct {
	name         string
	widths       [2]uint
	randomWidth  uint
	constants    []Constant
	publicInputs []PublicInput
	periodic     []PeriodicColumn
	graph        *Graph
	roots        [2][]ConstraintRoot
}

// NewAir constructs an empty IR for a module with a given name.
func NewAir(name string, graph *Graph) *Air {
	return &Air{name: name, graph: graph}
}

// Name returns the declared module name.
func (p *Air) Name() string {
	return p.name
}

// Width returns the number of trace columns in a given segment.
func (p *Air) Width(segment Segment) uint {
	return p.widths[segment]
}

// SetWidth records the number of trace columns in a given segment.
func (p *Air) SetWidth(segment Segment, width uint) {
	p.widths[segment] = width
}

// RandomWidth returns the total number of verifier-supplied random values.
func (p *Air) RandomWidth() uint {
	return p.randomWidth
}

// SetRandomWidth records the total number of verifier-supplied random values.
func (p *Air) SetRandomWidth(width uint) {
	p.randomWidth = width
}

// Constants returns the module-level constants in declaration order.
func (p *Air) Constants() []Constant {
	return p.constants
}

// AddConstant appends a module-level constant.
func (p *Air) AddConstant(constant Constant) {
	p.constants = append(p.constants, constant)
}

// PublicInputs returns the declared public inputs in declaration order.
func (p *Air) PublicInputs() []PublicInput {
	return p.publicInputs
}

// AddPublicInput appends a declared public input.
func (p *Air) AddPublicInput(input PublicInput) {
	p.publicInputs = append(p.publicInputs, input)
}

// PeriodicColumns returns the declared periodic columns in declaration order.
// A column's position in this list is its ordinal, as referenced by
// PERIODIC_REF nodes.
func (p *Air) PeriodicColumns() []PeriodicColumn {
	return p.periodic
}

// AddPeriodicColumn appends a declared periodic column.
func (p *Air) AddPeriodicColumn(column PeriodicColumn) {
	p.periodic = append(p.periodic, column)
}

// Graph returns the arithmetic graph owned by this IR.
func (p *Air) Graph() *Graph {
	return p.graph
}

// Constraints returns the ordered constraint roots for a given segment.
func (p *Air) Constraints(segment Segment) []ConstraintRoot {
	return p.roots[segment]
}

// AddConstraint appends a constraint root to a given segment's list.
func (p *Air) AddConstraint(segment Segment, root ConstraintRoot) {
	p.roots[segment] = append(p.roots[segment], root)
}
