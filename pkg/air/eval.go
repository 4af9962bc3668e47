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

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// Frame holds the trace values visible to a constraint at one evaluation
// point: the current row and its successor, for both segments.
type Frame struct {
	// Current and next row of the main segment.
	Main [2][]fr.Element
	// Current and next row of the auxiliary segment.
	Aux [2][]fr.Element
}

// Inputs holds the out-of-trace values a constraint may reference: public
// inputs, the periodic column values at the evaluation point, and the
// verifier-supplied random values.
type Inputs struct {
	Public   [][]fr.Element
	Periodic []fr.Element
	Random   []fr.Element
}

// EvalAt evaluates the expression rooted at a given node over a concrete
// frame.  This is an oracle for exercising lowered constraints against a
// known field; the compiler itself never commits to one.  An out-of-bounds
// reference indicates the graph was not produced by the compiler, and is
// reported as an error rather than a panic.
func (g *Graph) EvalAt(id NodeId, frame *Frame, inputs *Inputs) (fr.Element, error) {
	var val fr.Element
	//
	node := g.Node(id)
	//
	switch node.op {
	case CONST:
		val.SetBigInt(node.value)
	case TRACE_ACCESS:
		row := frame.Main[node.offset]
		if node.segment == AUX {
			row = frame.Aux[node.offset]
		}
		//
		if node.index >= uint(len(row)) {
			return val, fmt.Errorf("trace access %s[%d] out of bounds", node.segment, node.index)
		}
		//
		val = row[node.index]
	case PERIODIC_REF:
		if node.index >= uint(len(inputs.Periodic)) {
			return val, fmt.Errorf("periodic reference %d out of bounds", node.index)
		}
		//
		val = inputs.Periodic[node.index]
	case PUBLIC_REF:
		if node.index >= uint(len(inputs.Public)) || node.element >= uint(len(inputs.Public[node.index])) {
			return val, fmt.Errorf("public reference %d[%d] out of bounds", node.index, node.element)
		}
		//
		val = inputs.Public[node.index][node.element]
	case RANDOM_REF:
		if node.index >= uint(len(inputs.Random)) {
			return val, fmt.Errorf("random reference %d out of bounds", node.index)
		}
		//
		val = inputs.Random[node.index]
	case ADD, SUB, MUL:
		lhs, err := g.EvalAt(node.left, frame, inputs)
		if err != nil {
			return val, err
		}
		//
		rhs, err := g.EvalAt(node.right, frame, inputs)
		if err != nil {
			return val, err
		}
		//
		switch node.op {
		case ADD:
			val.Add(&lhs, &rhs)
		case SUB:
			val.Sub(&lhs, &rhs)
		default:
			val.Mul(&lhs, &rhs)
		}
	case EXP:
		base, err := g.EvalAt(node.left, frame, inputs)
		if err != nil {
			return val, err
		}
		//
		val.Exp(base, new(big.Int).SetUint64(node.exponent))
	}
	//
	return val, nil
}
