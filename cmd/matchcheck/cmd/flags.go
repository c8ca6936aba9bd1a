// Copyright 2026 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Common flags
const (
	flagComplexityLimit    flagName = "complexity-limit"
	flagExhaustivePatterns flagName = "exhaustive-patterns"
	flagJSON               flagName = "json"
	flagNoPruning          flagName = "no-pruning"
	flagPolicy             flagName = "policy"
	flagPrecisePointerSize flagName = "precise-pointer-size"
	flagStrict             flagName = "strict"
)

func addCheckFlags(f *pflag.FlagSet) {
	f.Bool(string(flagJSON), false, "write the results as JSON")
	f.Bool(string(flagStrict), false,
		"exit with a non-zero code if an arm is unreachable or a match is not exhaustive")
	f.Bool(string(flagExhaustivePatterns), false,
		"treat empty types nested in the scrutinee as empty")
	f.String(string(flagPolicy), "legacy",
		"how to treat empty types behind references and union fields (legacy|strict)")
	f.Int(string(flagComplexityLimit), 0,
		"abort a match after visiting this many rows (0 means no limit)")
	f.Bool(string(flagPrecisePointerSize), false,
		"give isize and usize the range of their 64-bit counterparts")

	f.Bool(string(flagNoPruning), false, "disable relevancy pruning")
	f.MarkHidden(string(flagNoPruning))
}

type flagName string

// ensureAdded detects if a flag is being used without it first being
// added to the flagSet.
func (f flagName) ensureAdded(cmd *Command) {
	if cmd.Flags().Lookup(string(f)) == nil {
		panic(fmt.Sprintf("Cmd %q uses flag %q without adding it", cmd.Name(), f))
	}
}

// Changed reports whether the flag was set on the command line.
func (f flagName) Changed(cmd *Command) bool {
	f.ensureAdded(cmd)
	return cmd.Flags().Changed(string(f))
}

func (f flagName) Bool(cmd *Command) bool {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetBool(string(f))
	return v
}

func (f flagName) Int(cmd *Command) int {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetInt(string(f))
	return v
}

func (f flagName) String(cmd *Command) string {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetString(string(f))
	return v
}
