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
	"testing"
)

func TestGraphInterning_01(t *testing.T) {
	g := NewGraph()
	a := g.ColumnAccess(MAIN, 0, 0)
	b := g.ColumnAccess(MAIN, 0, 0)
	//
	if a != b {
		t.Errorf("equal accesses interned at distinct indices (%d, %d)", a, b)
	}
}

func TestGraphInterning_02(t *testing.T) {
	g := NewGraph()
	a := g.ColumnAccess(MAIN, 0, 0)
	b := g.ColumnAccess(MAIN, 1, 0)
	//
	lhs := g.Add(a, b)
	rhs := g.Add(a, b)
	//
	if lhs != rhs {
		t.Errorf("equal additions interned at distinct indices (%d, %d)", lhs, rhs)
	}
	//
	if g.Len() != 3 {
		t.Errorf("expected 3 nodes, found %d", g.Len())
	}
}

func TestGraphInterning_03(t *testing.T) {
	g := NewGraph()
	a := g.ColumnAccess(MAIN, 0, 0)
	b := g.ColumnAccess(MAIN, 1, 0)
	// Interning is not commutative over non-literals.
	if g.Add(a, b) == g.Add(b, a) {
		t.Errorf("Add(a,b) and Add(b,a) should be distinct nodes")
	}
}

func TestGraphInterning_04(t *testing.T) {
	g := NewGraph()
	a := g.ColumnAccess(MAIN, 0, 0)
	b := g.ColumnAccess(MAIN, 0, 1)
	//
	if a == b {
		t.Errorf("accesses at different row offsets should be distinct")
	}
	//
	if g.ColumnAccess(AUX, 0, 0) == a {
		t.Errorf("accesses in different segments should be distinct")
	}
}

func TestGraphFolding_01(t *testing.T) {
	g := NewGraph()
	sum := g.Add(g.Constant64(1), g.Constant64(2))
	//
	checkConstant(t, g, sum, "3")
}

func TestGraphFolding_02(t *testing.T) {
	g := NewGraph()
	// Folding is plain integer arithmetic, so subtraction can go negative.
	diff := g.Sub(g.Constant64(0), g.Constant64(1))
	//
	checkConstant(t, g, diff, "-1")
}

func TestGraphFolding_03(t *testing.T) {
	g := NewGraph()
	product := g.Mul(g.Constant64(3), g.Constant64(7))
	//
	checkConstant(t, g, product, "21")
}

func TestGraphFolding_04(t *testing.T) {
	g := NewGraph()
	// 2^64 exceeds a machine word, hence values are arbitrary precision.
	power := g.Power(g.Constant64(2), 64)
	//
	checkConstant(t, g, power, "18446744073709551616")
}

func TestGraphFolding_05(t *testing.T) {
	g := NewGraph()
	// Folded results are canonical, hence shared.
	lhs := g.Add(g.Constant64(1), g.Constant64(2))
	rhs := g.Constant(big.NewInt(3))
	//
	if lhs != rhs {
		t.Errorf("folded constant not shared with equal literal")
	}
}

func TestGraphFolding_06(t *testing.T) {
	g := NewGraph()
	a := g.ColumnAccess(MAIN, 0, 0)
	// Non-literal operands never fold.
	sum := g.Add(a, g.Constant64(0))
	//
	if g.Node(sum).Op() != ADD {
		t.Errorf("expected unfolded addition")
	}
}

func TestGraphDegrees_01(t *testing.T) {
	g := NewGraph()
	a := g.ColumnAccess(MAIN, 0, 0)
	b := g.ColumnAccess(MAIN, 1, 0)
	k := g.PeriodicAccess(0)
	r := g.RandomAccess(0)
	p := g.PublicAccess(0, 1)
	c := g.Constant64(42)
	//
	sum := g.Add(a, b)
	product := g.Mul(sum, b)
	power := g.Power(product, 3)
	mixed := g.Sub(power, g.Mul(k, g.Add(r, p)))
	//
	degrees, err := g.Degrees()
	if err != nil {
		t.Fatalf("unexpected degree overflow: %s", err)
	}
	//
	checkDegree(t, degrees, a, 1)
	checkDegree(t, degrees, k, 0)
	checkDegree(t, degrees, r, 0)
	checkDegree(t, degrees, p, 0)
	checkDegree(t, degrees, c, 0)
	checkDegree(t, degrees, sum, 1)
	checkDegree(t, degrees, product, 2)
	checkDegree(t, degrees, power, 6)
	checkDegree(t, degrees, mixed, 6)
}

func TestGraphDegrees_02(t *testing.T) {
	g := NewGraph()
	a := g.ColumnAccess(MAIN, 0, 0)
	// Repeatedly raising to the power 2^63 overflows the degree counter.
	for i := 0; i < 70; i++ {
		a = g.Power(a, 1<<63)
	}
	//
	if _, err := g.Degrees(); err == nil {
		t.Errorf("expected degree overflow")
	}
}

func TestGraphReachability_01(t *testing.T) {
	g := NewGraph()
	a := g.ColumnAccess(MAIN, 0, 0)
	b := g.ColumnAccess(MAIN, 1, 1)
	p := g.ColumnAccess(AUX, 0, 0)
	//
	main := g.Add(a, g.Constant64(1))
	frame := g.Sub(b, a)
	aux := g.Mul(p, a)
	rand := g.Add(a, g.RandomAccess(2))
	//
	if g.RequiresAux(main) || g.RequiresAux(frame) {
		t.Errorf("main-only expressions misclassified as auxiliary")
	}
	//
	if !g.RequiresAux(aux) || !g.RequiresAux(rand) {
		t.Errorf("auxiliary expressions misclassified as main")
	}
	//
	if g.HasRowOffset(main) || g.HasRowOffset(aux) {
		t.Errorf("single-row expressions misclassified as frames")
	}
	//
	if !g.HasRowOffset(frame) {
		t.Errorf("next-row expression misclassified as single-row")
	}
}

// ===================================================================

func checkConstant(t *testing.T, g *Graph, id NodeId, want string) {
	node := g.Node(id)
	//
	if node.Op() != CONST {
		t.Fatalf("expected constant node, found %s", node.Op())
	}
	//
	if node.Value().String() != want {
		t.Errorf("expected %s, found %s", want, node.Value())
	}
}

func checkDegree(t *testing.T, degrees []uint, id NodeId, want uint) {
	if degrees[id] != want {
		t.Errorf("node %d: expected degree %d, found %d", id, want, degrees[id])
	}
}
