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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/0xPolygonMiden/air-script/pkg/airscript/compiler"
	"github.com/0xPolygonMiden/air-script/pkg/codegen"
)

var transpileCmd = &cobra.Command{
	Use:   "transpile [flags] constraint_file",
	Short: "compile an AirScript module into target source code.",
	Long: `Compile a given AirScript module into source code implementing its constraints
	 for a given target (winterfell Rust code by default).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		output := GetString(cmd, "output")
		targetName := GetString(cmd, "target")
		//
		target, ok := codegen.Lookup(targetName)
		if !ok {
			fmt.Fprintf(os.Stderr, "error: unknown target \"%s\"\n", targetName)
			os.Exit(2)
		}
		// Derive output path from the input when not given.
		if output == "" {
			output = replaceExtension(args[0], target.Extension())
		}
		// Compile
		srcfile := readSourceFile(args[0])
		//
		airIR, errors := compiler.CompileSourceFile(srcfile)
		if len(errors) > 0 {
			printDiagnostics(errors)
			os.Exit(1)
		}
		// Emit
		outfile, err := os.Create(output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(2)
		}
		//
		defer outfile.Close()
		//
		if err := target.Emit(outfile, airIR); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(2)
		}
		//
		log.Debugf("wrote %s (%s target)", output, target.Name())
	},
}

// Swap the extension of a given path for the target's canonical one.
func replaceExtension(path string, extension string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		path = path[:i]
	}
	//
	return path + extension
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(transpileCmd)
	transpileCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
	transpileCmd.Flags().StringP("output", "o", "", "specify output file.")
	transpileCmd.Flags().StringP("target", "t", "winterfell", "specify compilation target.")
}
