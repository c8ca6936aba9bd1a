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

// Package matchfile reads match description files and checks the matches
// they describe.
//
// A match file is a YAML document holding type declarations and one or
// more matches on a scrutinee of a declared or builtin type:
//
//	decls: |
//	  struct Pair(Option<u32>, bool)
//	scrutinee: Pair
//	validity: valid
//	options:
//	  exhaustive_patterns: false
//	  policy: legacy
//	arms:
//	  - Pair(Some(0), _)
//	  - pat: Pair(_, false)
//	    guard: true
//
// Patterns that start with a YAML indicator such as '[', '{', '&' or a
// quote, or that contain ": ", must be quoted.
package matchfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"matchcheck.dev/go/pattern"
)

// A File is a parsed match file.
type File struct {
	// Filename is the name the file was read from. It is used for
	// reporting only.
	Filename string `yaml:"-"`

	// Decls holds the type declarations shared by all matches.
	Decls string `yaml:"decls"`

	// A file describes either a single match inline or a list of matches.
	Match   `yaml:",inline"`
	Matches []Match `yaml:"matches"`
}

// A Match describes a single match expression.
type Match struct {
	Name      string                     `yaml:"name"`
	Scrutinee string                     `yaml:"scrutinee"`
	Validity  pattern.ValidityConstraint `yaml:"validity"`
	Options   Options                    `yaml:"options"`
	Arms      []Arm                      `yaml:"arms"`
}

// Options tune the analysis of a match. Unset options keep their default
// value or the value set by a Config.
type Options struct {
	ExhaustivePatterns *bool                   `yaml:"exhaustive_patterns"`
	Policy             *pattern.ValidityPolicy `yaml:"policy"`
	ComplexityLimit    *int                    `yaml:"complexity_limit"`
	PrecisePointerSize *bool                   `yaml:"precise_pointer_size"`
}

// merge returns o with the options set in override replacing its own.
func (o Options) merge(override Options) Options {
	if override.ExhaustivePatterns != nil {
		o.ExhaustivePatterns = override.ExhaustivePatterns
	}
	if override.Policy != nil {
		o.Policy = override.Policy
	}
	if override.ComplexityLimit != nil {
		o.ComplexityLimit = override.ComplexityLimit
	}
	if override.PrecisePointerSize != nil {
		o.PrecisePointerSize = override.PrecisePointerSize
	}
	return o
}

// An Arm is a match arm: a pattern with an optional guard. In YAML, an arm
// is either a pattern string or a mapping with the keys pat and guard.
type Arm struct {
	Pat   string `yaml:"pat"`
	Guard bool   `yaml:"guard"`

	// Line is the line of the arm in the file.
	Line int `yaml:"-"`
}

// UnmarshalYAML implements [yaml.Unmarshaler].
func (a *Arm) UnmarshalYAML(n *yaml.Node) error {
	a.Line = n.Line
	switch n.Kind {
	case yaml.ScalarNode:
		a.Pat = n.Value
		return nil
	case yaml.MappingNode:
		type plain Arm
		if err := n.Decode((*plain)(a)); err != nil {
			return err
		}
		if a.Pat == "" {
			return fmt.Errorf("line %d: arm has no pattern", n.Line)
		}
		return nil
	}
	return fmt.Errorf("line %d: arm must be a pattern or a mapping; patterns starting with '[' or '{' must be quoted", n.Line)
}

// Parse parses the contents of a match file.
func Parse(filename string, data []byte) (*File, error) {
	f := &File{Filename: filename}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty match file", filename)
		}
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if f.Scrutinee != "" && len(f.Matches) > 0 {
		return nil, fmt.Errorf("%s: cannot have both a scrutinee and a list of matches", filename)
	}
	if f.Scrutinee == "" && len(f.Matches) == 0 {
		return nil, fmt.Errorf("%s: no scrutinee", filename)
	}
	for i, m := range f.Matches {
		if m.Scrutinee == "" {
			return nil, fmt.Errorf("%s: match %d has no scrutinee", filename, i+1)
		}
	}
	return f, nil
}

// AllMatches returns the matches described by f.
func (f *File) AllMatches() []Match {
	if len(f.Matches) > 0 {
		return f.Matches
	}
	return []Match{f.Match}
}
