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
package main

import (
	"fmt"
	"os"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

// Operator spellings per backend, from which operators.go is generated.
type operator struct {
	Op   string
	Rust string
	Masm string
}

type operators struct {
	Operators []operator
}

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2025, "air-script")
	//
	data := operators{[]operator{
		{Op: "ADD", Rust: "+", Masm: "add"},
		{Op: "SUB", Rust: "-", Masm: "sub"},
		{Op: "MUL", Rust: "*", Masm: "mul"},
	}}
	//
	err := bgen.Generate(data, "codegen", "templates", bavard.Entry{
		File:      "../../operators.go",
		Templates: []string{"operators.go.tmpl"},
	})
	//
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
