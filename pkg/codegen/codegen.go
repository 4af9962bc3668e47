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
	"io"

	"github.com/0xPolygonMiden/air-script/pkg/air"
)

//go:generate go run internal/generator/main.go

// Target is a code emitter reading a lowered IR and producing source text for
// one backend.  Emitters rely on the IR's ordering guarantees (declaration
// order tables, source-order roots, intern-order nodes) for deterministic
// output.
type Target interface {
	// Name of this target, as given on the command line.
	Name() string
	// Extension is the canonical file extension of emitted sources.
	Extension() string
	// Emit source code for a given IR.
	Emit(w io.Writer, a *air.Air) error
}

// Targets returns all known targets, primary first.
func Targets() []Target {
	return []Target{&WinterfellTarget{}, &MasmTarget{}}
}

// Lookup the target with a given name.
func Lookup(name string) (Target, bool) {
	for _, target := range Targets() {
		if target.Name() == name {
			return target, true
		}
	}
	//
	return nil, false
}
