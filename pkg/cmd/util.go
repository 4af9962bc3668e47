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
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/0xPolygonMiden/air-script/pkg/airscript/compiler"
	"github.com/0xPolygonMiden/air-script/pkg/util/source"
)

// GetFlag gets an expected flag, or exits with status 2 if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected flag, or exits with status 2 if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Print a batch of diagnostics to stderr with appropriate highlighting.
func printDiagnostics(errors []compiler.Diagnostic) {
	for i := range errors {
		printDiagnostic(&errors[i], "error")
		//
		if span, hint, ok := errors[i].Hint(); ok {
			note := compiler.NewDiagnostic(errors[i].SourceFile(), errors[i].Code(), span, hint)
			printDiagnostic(&note, "note")
		}
	}
}

// Print a diagnostic as "<severity>: <message>" followed by the offending
// source line with a caret run underneath.
func printDiagnostic(diag *compiler.Diagnostic, severity string) {
	span := diag.Span()
	line := diag.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	//
	fmt.Fprintf(os.Stderr, "%s: %s\n", severity, diag.Message())
	fmt.Fprintf(os.Stderr, "%s:%d:%d\n", diag.SourceFile().Filename(), line.Number(), 1+lineOffset)
	// Print line, truncated to the terminal width when stderr is a terminal.
	text := line.String()
	//
	if width, ok := terminalWidth(); ok && len(text) > width {
		text = text[:width]
	}
	//
	fmt.Fprintln(os.Stderr, text)
	// Print indent (todo: account for tabs)
	fmt.Fprint(os.Stderr, strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Fprintln(os.Stderr, strings.Repeat("^", length))
}

func terminalWidth() (int, bool) {
	fd := int(os.Stderr.Fd())
	//
	if !term.IsTerminal(fd) {
		return 0, false
	}
	//
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 0, false
	}
	//
	return width, true
}

// Read a source file, exiting with a usage error on failure.
func readSourceFile(filename string) *source.File {
	srcfile, err := source.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(2)
	}
	//
	return srcfile
}
