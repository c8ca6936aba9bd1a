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
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestHelp(t *testing.T) {
	run := func(args ...string) error {
		cmd, _ := New(args)
		cmd.SetOutput(io.Discard)
		return cmd.Run(context.Background())
	}
	for _, args := range [][]string{
		{"help"},
		{"--help"},
		{"help", "check"},
		{"check", "-h"},
		{"version", "--help"},
	} {
		qt.Check(t, qt.IsNil(run(args...)), qt.Commentf("args %q", args))
	}
}

func TestCheckStdin(t *testing.T) {
	t.Setenv("LC_ALL", "en")
	run := func(input string, args ...string) (string, error) {
		cmd, err := New(append([]string{"check"}, args...))
		qt.Assert(t, qt.IsNil(err))
		var out bytes.Buffer
		cmd.SetOutput(&out)
		cmd.SetInput(strings.NewReader(input))
		err = cmd.Run(context.Background())
		return out.String(), err
	}

	const bools = "scrutinee: bool\narms:\n  - true\n"
	out, err := run(bools, "-")
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(out, "-: match 1 on bool\n  not exhaustive: pattern `false` not covered\n"))

	_, err = run(bools, "--strict", "-")
	qt.Check(t, qt.ErrorIs(err, ErrFindings))

	out, err = run("scrutinee: bool\narms: [1]\n", "-")
	qt.Check(t, qt.ErrorIs(err, ErrPrintedError))
	qt.Check(t, qt.StringContains(out, "mismatched types: expected bool, found integer"))
}
