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
)

// ValueKind distinguishes the shapes an expression can lower to.
type ValueKind uint8

const (
	// SCALAR values are single graph nodes.
	SCALAR ValueKind = iota
	// VECTOR values are ordered collections of graph nodes.
	VECTOR
	// MATRIX values are row-major grids of graph nodes.
	MATRIX
)

// Value is the shaped result of lowering one expression: a scalar, vector or
// matrix of graph node indices.  Values exist only inside the expression
// compiler; the IR itself exposes scalar constraint roots only.
type Value struct {
	kind   ValueKind
	scalar air.NodeId
	vector []air.NodeId
	matrix [][]air.NodeId
}

// ScalarValue wraps a single node index.
func ScalarValue(id air.NodeId) Value {
	return Value{kind: SCALAR, scalar: id}
}

// VectorValue wraps an ordered collection of node indices.
func VectorValue(ids []air.NodeId) Value {
	return Value{kind: VECTOR, vector: ids}
}

// MatrixValue wraps a row-major grid of node indices.
func MatrixValue(rows [][]air.NodeId) Value {
	return Value{kind: MATRIX, matrix: rows}
}

// Kind returns the shape of this value.
func (v *Value) Kind() ValueKind {
	return v.kind
}

// Scalar returns the node index of a scalar value.
func (v *Value) Scalar() air.NodeId {
	return v.scalar
}

// Vector returns the node indices of a vector value.
func (v *Value) Vector() []air.NodeId {
	return v.vector
}

// Matrix returns the node indices of a matrix value.
func (v *Value) Matrix() [][]air.NodeId {
	return v.matrix
}

// Len returns the number of elements in a vector value, or the number of rows
// in a matrix value.
func (v *Value) Len() uint {
	if v.kind == MATRIX {
		return uint(len(v.matrix))
	}
	//
	return uint(len(v.vector))
}
