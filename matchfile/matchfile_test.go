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

package matchfile_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/kr/pretty"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"matchcheck.dev/go/internal/matchdebug"
	"matchcheck.dev/go/internal/matchtxtar"
	"matchcheck.dev/go/matchfile"
	"matchcheck.dev/go/pattern"
)

func TestCheck(t *testing.T) {
	test := matchtxtar.TxTarTest{
		Root: "testdata",
		Name: "check",
	}
	test.Run(t, func(tc *matchtxtar.Test) {
		cfg := &matchfile.Config{NoPruning: tc.HasTag("nopruning")}
		if v, ok := tc.Value("policy"); ok {
			var p pattern.ValidityPolicy
			qt.Assert(tc, qt.IsNil(p.UnmarshalText([]byte(v))))
			cfg.Options.Policy = &p
		}
		if _, ok := tc.Value("exhaustive_patterns"); ok {
			v := tc.Bool("exhaustive_patterns")
			cfg.Options.ExhaustivePatterns = &v
		}

		var reports []*matchfile.Report
		for _, in := range tc.Inputs() {
			f, err := matchfile.Parse(in.Name, in.Data)
			if err != nil {
				fmt.Fprintln(tc, "error:", err)
				continue
			}
			r, err := f.Check(cfg)
			if err != nil {
				fmt.Fprintln(tc, "error:", err)
				continue
			}
			qt.Assert(tc, qt.IsNil(r.WriteText(tc, nil)))
			reports = append(reports, r)
		}
		if tc.HasTag("json") {
			qt.Assert(tc, qt.IsNil(matchfile.WriteJSON(tc.Writer("json"), reports)))
		}
	})
}

func TestParse(t *testing.T) {
	f, err := matchfile.Parse("test.yaml", []byte(`
decls: |
  enum E { A, B }
scrutinee: E
validity: maybe-invalid
options:
  exhaustive_patterns: true
  policy: strict
  complexity_limit: 100
arms:
  - E::A
  - pat: E::B
    guard: true
  - "[_, ..]"
`))
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(f.Scrutinee, "E"))
	qt.Check(t, qt.Equals(f.Validity, pattern.MaybeInvalid))
	qt.Check(t, qt.Equals(*f.Options.Policy, pattern.PolicyStrict))
	qt.Check(t, qt.IsTrue(*f.Options.ExhaustivePatterns))
	qt.Check(t, qt.Equals(*f.Options.ComplexityLimit, 100))
	qt.Check(t, qt.IsNil(f.Options.PrecisePointerSize))
	qt.Check(t, qt.DeepEquals(f.Arms, []matchfile.Arm{
		{Pat: "E::A", Line: 11},
		{Pat: "E::B", Guard: true, Line: 12},
		{Pat: "[_, ..]", Line: 14},
	}), qt.Commentf("%# v", pretty.Formatter(f.Arms)))
	qt.Check(t, qt.HasLen(f.AllMatches(), 1))
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		desc, in, err string
	}{{
		desc: "empty",
		in:   "",
		err:  "test.yaml: empty match file",
	}, {
		desc: "no scrutinee",
		in:   "arms: [_]",
		err:  "test.yaml: no scrutinee",
	}, {
		desc: "no scrutinee in list",
		in:   "matches:\n- name: a\n",
		err:  "test.yaml: match 1 has no scrutinee",
	}, {
		desc: "unquoted slice pattern",
		in:   "scrutinee: '[u8]'\narms:\n  - [_, ..]\n",
		err:  `test.yaml: line 3: arm must be a pattern or a mapping; .*`,
	}, {
		desc: "mapping without pattern",
		in:   "scrutinee: u8\narms:\n  - guard: true\n",
		err:  "test.yaml: line 3: arm has no pattern",
	}, {
		desc: "unknown policy",
		in:   "scrutinee: u8\noptions:\n  policy: lenient\n",
		err:  `test.yaml: .*unknown validity policy "lenient"`,
	}, {
		desc: "unknown field",
		in:   "scrutinee: u8\nscrutine: u8\n",
		err:  `(?s)test.yaml: .*field scrutine not found.*`,
	}}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := matchfile.Parse("test.yaml", []byte(tc.in))
			qt.Assert(t, qt.ErrorMatches(err, tc.err))
		})
	}
}

func TestConfigOverrides(t *testing.T) {
	f, err := matchfile.Parse("test.yaml", []byte(`
scrutinee: Result<u8, !>
options:
  exhaustive_patterns: false
arms:
  - Ok(_)
`))
	qt.Assert(t, qt.IsNil(err))

	r, err := f.Check(nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.DeepEquals(r.Matches[0].Witnesses, []string{"Err(_)"}))
	qt.Check(t, qt.IsTrue(r.HasFindings()))

	on := true
	r, err = f.Check(&matchfile.Config{Options: matchfile.Options{ExhaustivePatterns: &on}})
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.IsTrue(r.Matches[0].Exhaustive))
	qt.Check(t, qt.IsFalse(r.HasFindings()))

	limit := 1
	_, err = f.Check(&matchfile.Config{Options: matchfile.Options{ComplexityLimit: &limit}})
	qt.Check(t, qt.ErrorIs(err, pattern.ErrComplexityLimit))
}

func TestPointerSize(t *testing.T) {
	f, err := matchfile.Parse("test.yaml", []byte(`
matches:
  - scrutinee: usize
    arms: [0..=18446744073709551615]
  - scrutinee: usize
    options:
      precise_pointer_size: true
    arms: [0..=18446744073709551615]
  - scrutinee: usize
    arms: [0..=10, 11..]
  - scrutinee: isize
    arms: [..=-1, 0..]
`))
	qt.Assert(t, qt.IsNil(err))
	r, err := f.Check(nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.DeepEquals(r.Matches[0].Witnesses, []string{"usize::MAX.."}))
	qt.Check(t, qt.IsTrue(r.Matches[1].Exhaustive))
	qt.Check(t, qt.IsTrue(r.Matches[2].Exhaustive))
	qt.Check(t, qt.IsTrue(r.Matches[3].Exhaustive))
}

func TestDebugPolicy(t *testing.T) {
	f, err := matchfile.Parse("void.yaml", []byte(`
decls: |
  enum Void {}
matches:
  - name: default
    scrutinee: Void
    validity: maybe-invalid
  - name: legacy
    scrutinee: Void
    validity: maybe-invalid
    options:
      policy: legacy
`))
	qt.Assert(t, qt.IsNil(err))

	// The debug policy is a default: a policy in the file wins.
	cfg := &matchfile.Config{Debug: matchdebug.Config{Policy: pattern.PolicyStrict}}
	r, err := f.Check(cfg)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.DeepEquals(r.Matches[0].Witnesses, []string{"_"}))
	qt.Check(t, qt.IsTrue(r.Matches[1].Exhaustive))

	// So does a policy given on the command line.
	legacy := pattern.PolicyLegacy
	cfg.Options.Policy = &legacy
	r, err = f.Check(cfg)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.IsTrue(r.Matches[0].Exhaustive))
}

func TestWriteText(t *testing.T) {
	r := &matchfile.Report{
		File: "many.yaml",
		Matches: []*matchfile.MatchReport{{
			Scrutinee: "u16",
			Arms:      []matchfile.ArmReport{{Pat: "0", Line: 3, Useful: true}},
			Witnesses: []string{"1", "2", "3", "4", "5"},
		}, {
			Name:      "pair",
			Scrutinee: "(bool, bool)",
			Witnesses: []string{"(true, _)", "(false, true)"},
		}},
	}
	var buf bytes.Buffer
	qt.Assert(t, qt.IsNil(r.WriteText(&buf, message.NewPrinter(language.English))))
	qt.Check(t, qt.Equals(buf.String(), "many.yaml: match 1 on u16\n"+
		"  not exhaustive: patterns `1`, `2`, `3` and 2 more not covered\n"+
		"many.yaml: pair on (bool, bool)\n"+
		"  not exhaustive: patterns `(true, _)` and `(false, true)` not covered\n"))
}

func TestWriteJSON(t *testing.T) {
	f, err := matchfile.Parse("test.yaml", []byte(`
scrutinee: bool
arms: ["true", "true"]
`))
	qt.Assert(t, qt.IsNil(err))
	r, err := f.Check(nil)
	qt.Assert(t, qt.IsNil(err))

	var buf bytes.Buffer
	qt.Assert(t, qt.IsNil(matchfile.WriteJSON(&buf, []*matchfile.Report{r})))

	var got []map[string]any
	qt.Assert(t, qt.IsNil(json.Unmarshal(buf.Bytes(), &got)))
	qt.Assert(t, qt.HasLen(got, 1))
	m := got[0]["matches"].([]any)[0].(map[string]any)
	qt.Check(t, qt.Equals(m["exhaustive"], any(false)))
	qt.Check(t, qt.DeepEquals(m["witnesses"], any([]any{"false"})))
	arms := m["arms"].([]any)
	qt.Check(t, qt.Equals(arms[1].(map[string]any)["useful"], any(false)))
}
