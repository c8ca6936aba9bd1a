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

package matchfile

import (
	"fmt"

	"matchcheck.dev/go/internal/matchdebug"
	"matchcheck.dev/go/pattern"
	"matchcheck.dev/go/schema"
	"matchcheck.dev/go/syntax"
)

// A Config holds the settings of a check that apply to all matches.
type Config struct {
	// Options override the options of every match.
	Options Options

	// NoPruning disables the relevancy optimization, which may result in
	// more witnesses being reported.
	NoPruning bool

	// Debug holds the debug settings, usually matchdebug.Flags.
	Debug matchdebug.Config
}

// Check checks all matches of f. An error is returned if the declarations,
// a scrutinee type or a pattern is invalid, or if a match exceeds its
// complexity limit.
func (f *File) Check(cfg *Config) (*Report, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	decls, err := syntax.ParseFile(f.Decls)
	if err != nil {
		return nil, fmt.Errorf("%s: decls: %w", f.Filename, err)
	}
	env, err := schema.NewEnv(decls)
	if err != nil {
		return nil, fmt.Errorf("%s: decls: %w", f.Filename, err)
	}

	r := &Report{File: f.Filename}
	for i, m := range f.AllMatches() {
		mr, err := m.check(env, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", f.Filename, m.label(i), err)
		}
		r.Matches = append(r.Matches, mr)
	}
	return r, nil
}

func (m *Match) label(i int) string {
	if m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("match %d", i+1)
}

func (m *Match) check(env *schema.Env, cfg *Config) (*MatchReport, error) {
	ty, err := env.ParseType(m.Scrutinee)
	if err != nil {
		return nil, fmt.Errorf("scrutinee: %w", err)
	}
	arms := make([]pattern.MatchArm[*schema.Type], len(m.Arms))
	for i, a := range m.Arms {
		p, err := env.ParsePat(a.Pat, ty)
		if err != nil {
			return nil, fmt.Errorf("arm %d (line %d): %w", i+1, a.Line, err)
		}
		arms[i] = pattern.MatchArm[*schema.Type]{Pat: p, HasGuard: a.Guard}
	}

	opts := m.Options.merge(cfg.Options)
	cx := &schema.Context{}
	if opts.ExhaustivePatterns != nil {
		cx.ExhaustivePatterns = *opts.ExhaustivePatterns
	}
	if opts.PrecisePointerSize != nil {
		cx.PrecisePointerSizeMatching = *opts.PrecisePointerSize
	}
	mcx := pattern.NewMatchCtxt[*schema.Type](cx)
	mcx.Policy = cfg.Debug.Policy
	if opts.Policy != nil {
		mcx.Policy = *opts.Policy
	}
	if opts.ComplexityLimit != nil {
		mcx.ComplexityLimit = *opts.ComplexityLimit
	}
	mcx.NoPruning = cfg.NoPruning
	matchdebug.Configure(mcx, cfg.Debug)

	ur, err := pattern.ComputeMatchUsefulness(mcx, arms, ty, m.Validity)
	if err != nil {
		return nil, err
	}

	mr := &MatchReport{
		Name:       m.Name,
		Scrutinee:  m.Scrutinee,
		Arms:       make([]ArmReport, 0, len(m.Arms)),
		Exhaustive: ur.Exhaustive(),
		Complexity: mcx.Complexity(),
	}
	var useful []pattern.MatchArm[*schema.Type]
	for i, au := range ur.ArmUsefulness {
		ar := ArmReport{
			Pat:    m.Arms[i].Pat,
			Line:   m.Arms[i].Line,
			Guard:  m.Arms[i].Guard,
			Useful: au.Usefulness.Useful,
		}
		for _, p := range au.Usefulness.RedundantSubpatterns {
			ar.Redundant = append(ar.Redundant, schema.FormatPat(p))
		}
		if ar.Useful {
			useful = append(useful, au.Arm)
		}
		mr.Arms = append(mr.Arms, ar)
	}
	for _, w := range ur.NonExhaustivenessWitnesses {
		mr.Witnesses = append(mr.Witnesses, schema.FormatWitness(w))
	}

	overlaps, err := pattern.OverlappingRangeEndpoints(mcx, useful)
	if err != nil {
		return nil, err
	}
	for _, o := range overlaps {
		ov := Overlap{
			Pat: schema.FormatPat(o.Pat),
			On:  schema.FormatWitness(pattern.NewWitness[*schema.Type](o.OverlapsOn, nil, o.Pat.Ty())),
		}
		for _, p := range o.OverlapsWith {
			ov.With = append(ov.With, schema.FormatPat(p))
		}
		mr.Overlaps = append(mr.Overlaps, ov)
	}
	return mr, nil
}
