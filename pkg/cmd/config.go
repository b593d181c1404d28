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
	"github.com/consensys/go-tapevm/pkg/tape"
	"github.com/consensys/go-tapevm/pkg/util"
	"github.com/consensys/go-tapevm/pkg/util/source"
	"github.com/consensys/go-tapevm/pkg/vm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Config captures the options shared by all commands which build programs.
type Config struct {
	// Name of the dispatch strategy
	Cpu string
	// Initial capacity of the tape (in words)
	Capacity uint
	// Maximum size of the tape (in words), or zero if unbounded.
	Limit uint
	// Record debug information
	DebugInfo bool
}

// GetConfig extracts the build configuration from the flags of a command.
func GetConfig(cmd *cobra.Command) Config {
	return Config{
		Cpu:       GetString(cmd, "cpu"),
		Capacity:  GetUint(cmd, "capacity"),
		Limit:     GetUint(cmd, "limit"),
		DebugInfo: GetFlag(cmd, "debug-info"),
	}
}

// Storage constructs the tape storage described by this configuration.
func (p Config) Storage() tape.Storage {
	if p.Limit != 0 {
		return tape.NewBoundedVector(p.Limit)
	}
	//
	return tape.NewVector(p.Capacity)
}

// Build a program from a given listing over a given environment.
func (p Config) Build(listing isa.Listing, env *isa.Machine) (*vm.Program[*isa.Machine], error) {
	cpu, err := vm.NewCPU[*isa.Machine](p.Cpu)
	if err != nil {
		return nil, err
	}
	//
	machine := vm.NewMachine(cpu, p.Storage(), env).WithDebugInfo(p.DebugInfo)
	//
	return machine.Program(func(builder *isa.Builder, _ *isa.Machine) error {
		return listing.Emit(builder)
	})
}

// BuildSourceFile reads, assembles and builds a program from a given source
// file, exiting on failure.
func BuildSourceFile(config Config, filename string, env *isa.Machine) *vm.Program[*isa.Machine] {
	log.Debug(fmt.Sprintf("reading source file %s", filename))
	// Read source file
	file, err := source.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	// Assemble source file
	listing, errors := isa.Assemble(file)
	if len(errors) != 0 {
		for _, err := range errors {
			printSyntaxError(&err)
		}
		//
		os.Exit(3)
	}
	// Build program
	stats := util.NewPerfStats()
	program, err := config.Build(listing, env)
	//
	if err != nil {
		log.Error(err)
		os.Exit(4)
	}
	//
	stats.Log(fmt.Sprintf("Building %s (%d instructions)", filename, program.Len()))
	//
	return program
}
