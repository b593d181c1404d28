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

	"github.com/consensys/go-tapevm/pkg/isa"
	"github.com/consensys/go-tapevm/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] file.s",
	Short: "assemble and execute a program.",
	Long: `Assemble a given program and execute it until it halts.  Output produced
	by the program is written to stdout, whilst its result is logged.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := GetConfig(cmd)
		env := isa.NewMachine(os.Stdout).WithCounter(GetUint(cmd, "counter")).WithFuel(GetUint(cmd, "fuel"))
		// Dumping requires debug information
		if GetFlag(cmd, "dump") {
			config.DebugInfo = true
		}
		//
		program := BuildSourceFile(config, args[0], env)
		//
		if GetFlag(cmd, "dump") {
			writeDump(program)
		}
		// Execute program
		stats := util.NewPerfStats()
		//
		if err := program.Execute(); err != nil {
			log.Error(err)
			os.Exit(5)
		}
		//
		stats.Log(fmt.Sprintf("Running %s on %s cpu", args[0], program.CPU().Name()))
		log.Infof("halted with result %d", env.Result)
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Uint("counter", 0, "initial value of the loop counter")
	runCmd.Flags().Uint("fuel", 0, "initial amount of fuel available to tick")
	runCmd.Flags().Bool("dump", false, "dump the program before running it")
}
