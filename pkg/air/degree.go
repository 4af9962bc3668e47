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
	"errors"
	"math"
	"math/bits"
)

// ErrDegreeOverflow is reported when the degree of some constraint does not
// fit a machine word.  This aborts compilation since the prover could never
// size a composition polynomial for such a constraint.
var ErrDegreeOverflow = errors.New("constraint degree overflows")

// Degrees computes the polynomial degree (in the trace variables) of every
// node in this graph.  Since operands always precede their node, a single
// forward pass suffices, with every node's degree computed from the degrees
// of its operands:
//
//	leaves have degree 0, except trace accesses which have degree 1;
//	addition and subtraction take the operand maximum;
//	multiplication sums the operand degrees;
//	exponentiation scales the base degree by the exponent.
func (g *Graph) Degrees() ([]uint, error) {
	degrees := make([]uint, len(g.nodes))
	//
	for i := range g.nodes {
		n := &g.nodes[i]
		//
		switch n.op {
		case TRACE_ACCESS:
			degrees[i] = 1
		case ADD, SUB:
			degrees[i] = max(degrees[n.left], degrees[n.right])
		case MUL:
			d, carry := bits.Add64(uint64(degrees[n.left]), uint64(degrees[n.right]), 0)
			if carry != 0 || d > math.MaxUint {
				return nil, ErrDegreeOverflow
			}
			//
			degrees[i] = uint(d)
		case EXP:
			hi, d := bits.Mul64(uint64(degrees[n.left]), n.exponent)
			if hi != 0 || d > math.MaxUint {
				return nil, ErrDegreeOverflow
			}
			//
			degrees[i] = uint(d)
		default:
			// CONST, PERIODIC_REF, PUBLIC_REF and RANDOM_REF all have degree
			// zero in the trace variables.
			degrees[i] = 0
		}
	}
	//
	return degrees, nil
}
