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
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

func TestEvalConst_1(t *testing.T) {
	g := NewGraph()
	e := g.Constant64(1)
	//
	CheckEval(t, g, e, 1)
}

func TestEvalAdd_1(t *testing.T) {
	g := NewGraph()
	e := g.Add(g.ColumnAccess(MAIN, 0, 0), g.Constant64(2))
	//
	CheckEval(t, g, e, 12)
}

func TestEvalSub_1(t *testing.T) {
	g := NewGraph()
	e := g.Sub(g.ColumnAccess(MAIN, 1, 0), g.ColumnAccess(MAIN, 0, 0))
	//
	CheckEval(t, g, e, 10)
}

func TestEvalSub_2(t *testing.T) {
	g := NewGraph()
	// Negative folded constants reduce into the field.
	e := g.Sub(g.Constant64(0), g.Constant64(1))
	//
	var want fr.Element
	//
	want.SetOne()
	want.Neg(&want)
	//
	CheckEvalElement(t, g, e, want)
}

func TestEvalMul_1(t *testing.T) {
	g := NewGraph()
	e := g.Mul(g.ColumnAccess(MAIN, 0, 1), g.ColumnAccess(AUX, 0, 0))
	//
	CheckEval(t, g, e, 11*100)
}

func TestEvalExp_1(t *testing.T) {
	g := NewGraph()
	e := g.Power(g.ColumnAccess(MAIN, 0, 0), 3)
	//
	CheckEval(t, g, e, 1000)
}

func TestEvalRefs_1(t *testing.T) {
	g := NewGraph()
	e := g.Add(g.PeriodicAccess(0), g.Add(g.PublicAccess(0, 1), g.RandomAccess(0)))
	//
	CheckEval(t, g, e, 5+31+400)
}

// ===================================================================

// Fixed evaluation point used across these tests:
//
//	main current = [10, 20], main next = [11, 21]
//	aux current = [100], aux next = [101]
//	public = [[30, 31]], periodic = [5], random = [400]
func testFrame() (*Frame, *Inputs) {
	frame := &Frame{
		Main: [2][]fr.Element{elements(10, 20), elements(11, 21)},
		Aux:  [2][]fr.Element{elements(100), elements(101)},
	}
	//
	inputs := &Inputs{
		Public:   [][]fr.Element{elements(30, 31)},
		Periodic: elements(5),
		Random:   elements(400),
	}
	//
	return frame, inputs
}

func elements(values ...uint64) []fr.Element {
	row := make([]fr.Element, len(values))
	for i, v := range values {
		row[i].SetUint64(v)
	}
	//
	return row
}

func CheckEval(t *testing.T, g *Graph, id NodeId, want uint64) {
	var expected fr.Element
	//
	expected.SetUint64(want)
	CheckEvalElement(t, g, id, expected)
}

func CheckEvalElement(t *testing.T, g *Graph, id NodeId, want fr.Element) {
	frame, inputs := testFrame()
	//
	got, err := g.EvalAt(id, frame, inputs)
	if err != nil {
		t.Fatalf("evaluation failed: %s", err)
	}
	//
	if !got.Equal(&want) {
		t.Errorf("evaluation failed: expected %s, found %s", want.String(), got.String())
	}
}
