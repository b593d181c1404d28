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

	"github.com/consensys/go-tapevm/pkg/dump"
	"github.com/consensys/go-tapevm/pkg/isa"
	"github.com/consensys/go-tapevm/pkg/vm"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] file.s",
	Short: "assemble a program and print its tape.",
	Long: `Assemble a given program and print the instructions of the resulting tape,
	along with the offset of each.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := GetConfig(cmd)
		config.DebugInfo = true
		//
		program := BuildSourceFile(config, args[0], isa.NewMachine(os.Stdout))
		//
		colour = colour && !GetFlag(cmd, "no-colour")
		writeDump(program)
	},
}

// Whether to colour dumps (determined by the terminal)
var colour = term.IsTerminal(int(os.Stdout.Fd()))

func writeDump(program *vm.Program[*isa.Machine]) {
	cfg := dump.Config{Colour: colour}
	//
	if err := dump.Write(os.Stdout, program.DebugInfo(), program.Dumper(), cfg); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Bool("no-colour", false, "disable coloured output")
}
