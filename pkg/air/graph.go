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
	"math/big"
)

// Key used for hash-consing nodes.  Two nodes are structurally equal exactly
// when their keys are equal.  CONST values are keyed by their decimal text,
// since big.Int is not comparable.
type nodeKey struct {
	op          Op
	left, right NodeId
	literal     string
	segment     Segment
	index       uint
	element     uint
	offset      uint
	exponent    uint64
}

// Graph is an append-only arena of arithmetic nodes together with a
// hash-consing index guaranteeing structural uniqueness: interning a node
// which is structurally equal to an existing node returns the existing index.
// A graph is mutated only whilst constraints are being lowered into it, after
// which it is effectively frozen inside the returned IR.
type Graph struct {
	nodes []Node
	index map[nodeKey]NodeId
}

// NewGraph constructs an empty graph.
func NewGraph() *Graph {
	return &Graph{nil, make(map[nodeKey]NodeId)}
}

// Len returns the number of nodes interned so far.
func (g *Graph) Len() uint {
	return uint(len(g.nodes))
}

// Node returns a view of the node at a given index.
func (g *Graph) Node(id NodeId) *Node {
	return &g.nodes[id]
}

// Operands returns the ordered operand indices of the node at a given index.
func (g *Graph) Operands(id NodeId) []NodeId {
	return g.nodes[id].Operands()
}

// Constant interns a literal node.  The given value is copied, hence the
// caller retains ownership.
func (g *Graph) Constant(value *big.Int) NodeId {
	node := Node{op: CONST, value: new(big.Int).Set(value)}
	return g.intern(node)
}

// Constant64 interns a literal node holding a given unsigned value.
func (g *Graph) Constant64(value uint64) NodeId {
	return g.Constant(new(big.Int).SetUint64(value))
}

// ColumnAccess interns a trace-access node for a given column at a given row
// offset.
func (g *Graph) ColumnAccess(segment Segment, column uint, offset uint) NodeId {
	return g.intern(Node{op: TRACE_ACCESS, segment: segment, index: column, offset: offset})
}

// PeriodicAccess interns a reference to the periodic column with a given
// ordinal.
func (g *Graph) PeriodicAccess(ordinal uint) NodeId {
	return g.intern(Node{op: PERIODIC_REF, index: ordinal})
}

// PublicAccess interns a reference to one element of the public input with a
// given ordinal.
func (g *Graph) PublicAccess(ordinal uint, element uint) NodeId {
	return g.intern(Node{op: PUBLIC_REF, index: ordinal, element: element})
}

// RandomAccess interns a reference to the random value at a given absolute
// index.
func (g *Graph) RandomAccess(index uint) NodeId {
	return g.intern(Node{op: RANDOM_REF, index: index})
}

// Add interns the sum of two nodes, folding immediately when both operands
// are literals.  Observe that interning is not commutative: Add(a,b) and
// Add(b,a) are distinct nodes unless folded.
func (g *Graph) Add(left NodeId, right NodeId) NodeId {
	if l, r, ok := g.literals(left, right); ok {
		return g.Constant(new(big.Int).Add(l, r))
	}
	//
	return g.intern(Node{op: ADD, left: left, right: right})
}

// Sub interns the difference of two nodes, folding immediately when both
// operands are literals.  Folded values are plain integers and may go
// negative; the graph does not reduce modulo any field.
func (g *Graph) Sub(left NodeId, right NodeId) NodeId {
	if l, r, ok := g.literals(left, right); ok {
		return g.Constant(new(big.Int).Sub(l, r))
	}
	//
	return g.intern(Node{op: SUB, left: left, right: right})
}

// Mul interns the product of two nodes, folding immediately when both
// operands are literals.
func (g *Graph) Mul(left NodeId, right NodeId) NodeId {
	if l, r, ok := g.literals(left, right); ok {
		return g.Constant(new(big.Int).Mul(l, r))
	}
	//
	return g.intern(Node{op: MUL, left: left, right: right})
}

// Power interns the repeated multiplication of a node by itself a constant
// number of times, folding immediately when the base is a literal.
func (g *Graph) Power(base NodeId, exponent uint64) NodeId {
	if node := g.Node(base); node.op == CONST {
		e := new(big.Int).SetUint64(exponent)
		return g.Constant(new(big.Int).Exp(node.value, e, nil))
	}
	//
	return g.intern(Node{op: EXP, left: base, exponent: exponent})
}

// RequiresAux reports whether any node reachable from the given root accesses
// the auxiliary trace segment or a random value.  Constraints for which this
// holds belong to the auxiliary constraint list.
func (g *Graph) RequiresAux(root NodeId) bool {
	return g.any(root, func(n *Node) bool {
		return n.op == RANDOM_REF || (n.op == TRACE_ACCESS && n.segment == AUX)
	})
}

// HasRowOffset reports whether any node reachable from the given root is a
// trace access at row offset one.  Constraints for which this holds span a
// full frame rather than a single row.
func (g *Graph) HasRowOffset(root NodeId) bool {
	return g.any(root, func(n *Node) bool {
		return n.op == TRACE_ACCESS && n.offset == 1
	})
}

// Check whether any node reachable from the given root satisfies a predicate.
func (g *Graph) any(root NodeId, predicate func(*Node) bool) bool {
	visited := make([]bool, root+1)
	worklist := []NodeId{root}
	//
	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		//
		if visited[id] {
			continue
		}
		//
		visited[id] = true
		node := &g.nodes[id]
		//
		if predicate(node) {
			return true
		}
		// Operands always precede the node, so stay within the visited slice.
		worklist = append(worklist, node.Operands()...)
	}
	//
	return false
}

// Extract literal values when both operands are CONST nodes.
func (g *Graph) literals(left NodeId, right NodeId) (*big.Int, *big.Int, bool) {
	l, r := g.Node(left), g.Node(right)
	if l.op == CONST && r.op == CONST {
		return l.value, r.value, true
	}
	//
	return nil, nil, false
}

// Intern a node, returning the existing index for a structurally equal node
// when one exists, and appending the node otherwise.
func (g *Graph) intern(node Node) NodeId {
	key := nodeKey{
		op:       node.op,
		left:     node.left,
		right:    node.right,
		segment:  node.segment,
		index:    node.index,
		element:  node.element,
		offset:   node.offset,
		exponent: node.exponent,
	}
	//
	if node.op == CONST {
		key.literal = node.value.String()
	}
	//
	if id, ok := g.index[key]; ok {
		return id
	}
	//
	id := NodeId(len(g.nodes))
	g.nodes = append(g.nodes, node)
	g.index[key] = id
	//
	return id
}
