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
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"matchcheck.dev/go/internal/matchdebug"
	"matchcheck.dev/go/matchfile"
	"matchcheck.dev/go/pattern"
)

func newCheckCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] file...",
		Short: "check the matches in match files",
		Long: `check reads the given match files, or standard input for "-", and
reports for each match:

  - the arms that can never be reached, because earlier arms cover all
    of their values;
  - the parts of or-patterns that can never be reached;
  - range patterns that share an endpoint with other ranges, such as
    0..=10 and 10..=20;
  - patterns for the values that no arm covers, if any.

Flags set on the command line override the options of the match files.

The MATCHCHECK_DEBUG environment variable holds comma-separated debug
settings:

  log=1       trace the computation to stderr
  strict      enable internal consistency checks
  nopruning   disable relevancy pruning
  policy=p    default validity policy (legacy|strict)
`,
		Args: cobra.MinimumNArgs(1),
		RunE: mkRunE(c, runCheck),
	}
	addCheckFlags(cmd.Flags())
	return cmd
}

func runCheck(cmd *Command, args []string) error {
	if err := matchdebug.Init(); err != nil {
		return err
	}
	cfg, err := checkConfig(cmd)
	if err != nil {
		return err
	}

	var reports []*matchfile.Report
	for _, name := range args {
		r, err := checkFile(cmd, name, cfg)
		if err != nil {
			fmt.Fprintln(cmd.Stderr(), err)
			continue
		}
		reports = append(reports, r)
	}

	w := cmd.OutOrStdout()
	if flagJSON.Bool(cmd) {
		if err := matchfile.WriteJSON(w, reports); err != nil {
			return err
		}
	} else {
		p := message.NewPrinter(getLang())
		for _, r := range reports {
			if err := r.WriteText(w, p); err != nil {
				return err
			}
		}
	}

	if flagStrict.Bool(cmd) {
		for _, r := range reports {
			if r.HasFindings() {
				return ErrFindings
			}
		}
	}
	return nil
}

func checkConfig(cmd *Command) (*matchfile.Config, error) {
	cfg := &matchfile.Config{
		NoPruning: flagNoPruning.Bool(cmd),
		Debug:     matchdebug.Flags,
	}
	if flagExhaustivePatterns.Changed(cmd) {
		v := flagExhaustivePatterns.Bool(cmd)
		cfg.Options.ExhaustivePatterns = &v
	}
	if flagPrecisePointerSize.Changed(cmd) {
		v := flagPrecisePointerSize.Bool(cmd)
		cfg.Options.PrecisePointerSize = &v
	}
	if flagComplexityLimit.Changed(cmd) {
		v := flagComplexityLimit.Int(cmd)
		cfg.Options.ComplexityLimit = &v
	}
	if flagPolicy.Changed(cmd) {
		var p pattern.ValidityPolicy
		if err := p.UnmarshalText([]byte(flagPolicy.String(cmd))); err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", flagPolicy, err)
		}
		cfg.Options.Policy = &p
	}
	return cfg, nil
}

func checkFile(cmd *Command, name string, cfg *matchfile.Config) (*matchfile.Report, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	f, err := matchfile.Parse(name, data)
	if err != nil {
		return nil, err
	}
	return f.Check(cfg)
}
