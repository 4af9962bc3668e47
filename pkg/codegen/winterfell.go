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
package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/0xPolygonMiden/air-script/pkg/air"
)

// WinterfellTarget emits a Rust source file for a compiled module, written
// against winterfell types: a PublicInputs struct, an Air struct holding the
// trace widths and constants, and free functions for the periodic column
// values, constraint degrees, boundary constraints and transition
// constraints.  The emitted file does not implement the winterfell Air trait.
type WinterfellTarget struct{}

// Name implementation for the Target interface.
func (p *WinterfellTarget) Name() string {
	return "winterfell"
}

// Extension implementation for the Target interface.
func (p *WinterfellTarget) Extension() string {
	return ".rs"
}

// Emit implementation for the Target interface.
func (p *WinterfellTarget) Emit(w io.Writer, a *air.Air) error {
	var buf strings.Builder
	//
	emitHeader(&buf, a)
	emitPublicInputs(&buf, a)
	emitAirStruct(&buf, a)
	emitPeriodicColumns(&buf, a)
	emitDegrees(&buf, a)
	emitBoundary(&buf, a, air.MAIN)
	emitBoundary(&buf, a, air.AUX)
	emitTransition(&buf, a, air.MAIN)
	emitTransition(&buf, a, air.AUX)
	//
	_, err := io.WriteString(w, buf.String())
	//
	return err
}

func emitHeader(buf *strings.Builder, a *air.Air) {
	fmt.Fprintf(buf, "// Code generated by airc from module %s. DO NOT EDIT.\n\n", a.Name())
	buf.WriteString("use winterfell::math::{fields::f64::BaseElement as Felt, FieldElement};\n")
	buf.WriteString("use winterfell::{Air, AirContext, Assertion, EvaluationFrame, TraceInfo, TransitionConstraintDegree};\n\n")
}

func emitPublicInputs(buf *strings.Builder, a *air.Air) {
	buf.WriteString("pub struct PublicInputs {\n")
	//
	for _, input := range a.PublicInputs() {
		fmt.Fprintf(buf, "    pub %s: [Felt; %d],\n", input.Name, input.Size)
	}
	//
	buf.WriteString("}\n\n")
}

func emitAirStruct(buf *strings.Builder, a *air.Air) {
	name := airName(a)
	//
	fmt.Fprintf(buf, "pub struct %s {\n", name)
	buf.WriteString("    context: AirContext<Felt>,\n")
	buf.WriteString("    public_inputs: PublicInputs,\n")
	buf.WriteString("}\n\n")
	//
	fmt.Fprintf(buf, "impl %s {\n", name)
	fmt.Fprintf(buf, "    pub const MAIN_TRACE_WIDTH: usize = %d;\n", a.Width(air.MAIN))
	fmt.Fprintf(buf, "    pub const AUX_TRACE_WIDTH: usize = %d;\n", a.Width(air.AUX))
	fmt.Fprintf(buf, "    pub const NUM_RANDOM_VALUES: usize = %d;\n", a.RandomWidth())
	//
	for _, constant := range a.Constants() {
		emitConstant(buf, constant)
	}
	//
	buf.WriteString("}\n\n")
}

func emitConstant(buf *strings.Builder, constant air.Constant) {
	name := strings.ToUpper(constant.Name)
	//
	switch constant.Value.Kind {
	case air.SCALAR_CONST:
		fmt.Fprintf(buf, "    pub const %s: u64 = %d;\n", name, constant.Value.Scalar)
	case air.VECTOR_CONST:
		fmt.Fprintf(buf, "    pub const %s: [u64; %d] = %s;\n",
			name, len(constant.Value.Vector), rustArray(constant.Value.Vector))
	default:
		rows := make([]string, len(constant.Value.Matrix))
		for i, row := range constant.Value.Matrix {
			rows[i] = rustArray(row)
		}
		//
		fmt.Fprintf(buf, "    pub const %s: [[u64; %d]; %d] = [%s];\n",
			name, len(constant.Value.Matrix[0]), len(constant.Value.Matrix), strings.Join(rows, ", "))
	}
}

func emitPeriodicColumns(buf *strings.Builder, a *air.Air) {
	buf.WriteString("pub fn get_periodic_column_values() -> Vec<Vec<Felt>> {\n")
	buf.WriteString("    vec![\n")
	//
	for _, column := range a.PeriodicColumns() {
		values := make([]string, len(column.Pattern))
		for i, v := range column.Pattern {
			values[i] = fmt.Sprintf("Felt::new(%d)", v)
		}
		//
		fmt.Fprintf(buf, "        vec![%s],\n", strings.Join(values, ", "))
	}
	//
	buf.WriteString("    ]\n}\n\n")
}

func emitDegrees(buf *strings.Builder, a *air.Air) {
	buf.WriteString("pub fn get_transition_constraint_degrees() -> Vec<TransitionConstraintDegree> {\n")
	buf.WriteString("    vec![\n")
	//
	for _, segment := range []air.Segment{air.MAIN, air.AUX} {
		for _, root := range a.Constraints(segment) {
			if domain := root.Domain(); domain == air.EVERY_ROW || domain == air.EVERY_FRAME {
				fmt.Fprintf(buf, "        TransitionConstraintDegree::new(%d),\n", root.Degree())
			}
		}
	}
	//
	buf.WriteString("    ]\n}\n\n")
}

// Boundary constraints are emitted as zero checks over the anchored row, one
// result slot per constraint, in source order.
func emitBoundary(buf *strings.Builder, a *air.Air, segment air.Segment) {
	roots := boundaryRoots(a, segment)
	if len(roots) == 0 {
		return
	}
	//
	fmt.Fprintf(buf, "pub fn evaluate_%s_boundary_constraints(\n", segment)
	fmt.Fprintf(buf, "    public_inputs: &PublicInputs,\n")
	fmt.Fprintf(buf, "    current: &[Felt],\n")
	//
	if segment == air.AUX {
		fmt.Fprintf(buf, "    aux_current: &[Felt],\n    rand_elements: &[Felt],\n")
	}
	//
	fmt.Fprintf(buf, "    result: &mut [Felt],\n) {\n")
	//
	for i, root := range roots {
		fmt.Fprintf(buf, "    // %s row, degree %d\n", root.Domain(), root.Degree())
		fmt.Fprintf(buf, "    result[%d] = %s;\n", i, rustExpr(a, root.Node()))
	}
	//
	buf.WriteString("}\n\n")
}

func emitTransition(buf *strings.Builder, a *air.Air, segment air.Segment) {
	roots := transitionRoots(a, segment)
	if len(roots) == 0 {
		return
	}
	//
	fmt.Fprintf(buf, "pub fn evaluate_%s_transition(\n", segment)
	fmt.Fprintf(buf, "    current: &[Felt],\n    next: &[Felt],\n")
	//
	if segment == air.AUX {
		fmt.Fprintf(buf, "    aux_current: &[Felt],\n    aux_next: &[Felt],\n    rand_elements: &[Felt],\n")
	}
	//
	fmt.Fprintf(buf, "    periodic_values: &[Felt],\n    result: &mut [Felt],\n) {\n")
	//
	for i, root := range roots {
		fmt.Fprintf(buf, "    // %s, degree %d\n", root.Domain(), root.Degree())
		fmt.Fprintf(buf, "    result[%d] = %s;\n", i, rustExpr(a, root.Node()))
	}
	//
	buf.WriteString("}\n\n")
}

// Render the expression rooted at a given node as Rust source.
func rustExpr(a *air.Air, id air.NodeId) string {
	node := a.Graph().Node(id)
	//
	switch node.Op() {
	case air.CONST:
		value := node.Value()
		if value.Sign() < 0 {
			return fmt.Sprintf("-Felt::new(%s)", value.String()[1:])
		}
		//
		return fmt.Sprintf("Felt::new(%s)", value)
	case air.TRACE_ACCESS:
		row := "current"
		if node.Offset() == 1 {
			row = "next"
		}
		//
		if node.Segment() == air.AUX {
			row = "aux_" + row
		}
		//
		return fmt.Sprintf("%s[%d]", row, node.Index())
	case air.PERIODIC_REF:
		return fmt.Sprintf("periodic_values[%d]", node.Index())
	case air.PUBLIC_REF:
		input := a.PublicInputs()[node.Index()]
		return fmt.Sprintf("public_inputs.%s[%d]", input.Name, node.Element())
	case air.RANDOM_REF:
		return fmt.Sprintf("rand_elements[%d]", node.Index())
	case air.EXP:
		return fmt.Sprintf("%s.exp(%d)", rustExpr(a, node.Operands()[0]), node.Exponent())
	default:
		operands := node.Operands()
		op := OPERATORS[node.Op()].Rust
		//
		return fmt.Sprintf("(%s %s %s)", rustExpr(a, operands[0]), op, rustExpr(a, operands[1]))
	}
}

func rustArray(values []uint64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	//
	return "[" + strings.Join(parts, ", ") + "]"
}

func airName(a *air.Air) string {
	return a.Name() + "Air"
}

func boundaryRoots(a *air.Air, segment air.Segment) []air.ConstraintRoot {
	var roots []air.ConstraintRoot
	//
	for _, root := range a.Constraints(segment) {
		if root.Domain() == air.FIRST_ROW || root.Domain() == air.LAST_ROW {
			roots = append(roots, root)
		}
	}
	//
	return roots
}

func transitionRoots(a *air.Air, segment air.Segment) []air.ConstraintRoot {
	var roots []air.ConstraintRoot
	//
	for _, root := range a.Constraints(segment) {
		if root.Domain() == air.EVERY_ROW || root.Domain() == air.EVERY_FRAME {
			roots = append(roots, root)
		}
	}
	//
	return roots
}
