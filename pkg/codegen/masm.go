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

// Memory layout of the evaluation context expected by the emitted assembly.
// Each region holds one word-aligned value per slot.
const (
	// MAIN_CUR_ADDR is the base address of the current main-segment row.
	MAIN_CUR_ADDR = 0
	// MAIN_NEXT_ADDR is the base address of the next main-segment row.
	MAIN_NEXT_ADDR = 1000
	// AUX_CUR_ADDR is the base address of the current auxiliary-segment row.
	AUX_CUR_ADDR = 2000
	// AUX_NEXT_ADDR is the base address of the next auxiliary-segment row.
	AUX_NEXT_ADDR = 3000
	// PERIODIC_ADDR is the base address of the periodic column values.
	PERIODIC_ADDR = 4000
	// RANDOM_ADDR is the base address of the random values.
	RANDOM_ADDR = 5000
	// PUBLIC_ADDR is the base address of the (flattened) public inputs.
	PUBLIC_ADDR = 6000
)

// MasmTarget emits stack-machine assembly procedures, one per constraint,
// each leaving the constraint's evaluation on top of the stack.
type MasmTarget struct{}

// Name implementation for the Target interface.
func (p *MasmTarget) Name() string {
	return "masm"
}

// Extension implementation for the Target interface.
func (p *MasmTarget) Extension() string {
	return ".masm"
}

// Emit implementation for the Target interface.
func (p *MasmTarget) Emit(w io.Writer, a *air.Air) error {
	var buf strings.Builder
	//
	fmt.Fprintf(&buf, "# Code generated by airc from module %s. DO NOT EDIT.\n", a.Name())
	buf.WriteString("#\n")
	buf.WriteString("# Each procedure evaluates one constraint over the evaluation context\n")
	buf.WriteString("# laid out in memory, leaving the result on top of the stack.\n")
	//
	for _, segment := range []air.Segment{air.MAIN, air.AUX} {
		for i, root := range a.Constraints(segment) {
			fmt.Fprintf(&buf, "\n# %s constraint %d (%s, degree %d)\n", segment, i, root.Domain(), root.Degree())
			fmt.Fprintf(&buf, "proc.%s_constraint_%d\n", segment, i)
			//
			p.emitNode(&buf, a, root.Node())
			//
			buf.WriteString("end\n")
		}
	}
	//
	_, err := io.WriteString(w, buf.String())
	//
	return err
}

// Emit stack code evaluating a given node.  Binary operands are pushed right
// then left, so that the left operand ends up on top.
func (p *MasmTarget) emitNode(buf *strings.Builder, a *air.Air, id air.NodeId) {
	node := a.Graph().Node(id)
	//
	switch node.Op() {
	case air.CONST:
		fmt.Fprintf(buf, "    push.%s\n", node.Value())
	case air.TRACE_ACCESS:
		fmt.Fprintf(buf, "    mem_load.%d\n", traceAddress(node))
	case air.PERIODIC_REF:
		fmt.Fprintf(buf, "    mem_load.%d\n", PERIODIC_ADDR+node.Index())
	case air.PUBLIC_REF:
		fmt.Fprintf(buf, "    mem_load.%d\n", publicAddress(a, node))
	case air.RANDOM_REF:
		fmt.Fprintf(buf, "    mem_load.%d\n", RANDOM_ADDR+node.Index())
	case air.EXP:
		p.emitNode(buf, a, node.Operands()[0])
		fmt.Fprintf(buf, "    exp.%d\n", node.Exponent())
	default:
		operands := node.Operands()
		//
		p.emitNode(buf, a, operands[1])
		p.emitNode(buf, a, operands[0])
		fmt.Fprintf(buf, "    %s\n", OPERATORS[node.Op()].Masm)
	}
}

func traceAddress(node *air.Node) uint {
	switch {
	case node.Segment() == air.MAIN && node.Offset() == 0:
		return MAIN_CUR_ADDR + node.Index()
	case node.Segment() == air.MAIN:
		return MAIN_NEXT_ADDR + node.Index()
	case node.Offset() == 0:
		return AUX_CUR_ADDR + node.Index()
	default:
		return AUX_NEXT_ADDR + node.Index()
	}
}

// Public inputs are flattened in declaration order.
func publicAddress(a *air.Air, node *air.Node) uint {
	address := uint(PUBLIC_ADDR)
	//
	for i, input := range a.PublicInputs() {
		if uint(i) == node.Index() {
			break
		}
		//
		address += input.Size
	}
	//
	return address + node.Element()
}
