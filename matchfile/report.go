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
	"encoding/json"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// A Report holds the results of checking the matches of a file.
type Report struct {
	File    string         `json:"file"`
	Matches []*MatchReport `json:"matches"`
}

// A MatchReport holds the results of checking a single match.
type MatchReport struct {
	Name       string      `json:"name,omitempty"`
	Scrutinee  string      `json:"scrutinee"`
	Arms       []ArmReport `json:"arms"`
	Exhaustive bool        `json:"exhaustive"`

	// Witnesses holds patterns for values not covered by any arm.
	Witnesses []string `json:"witnesses,omitempty"`

	Overlaps []Overlap `json:"overlapping_ranges,omitempty"`

	// Complexity is the number of rows visited by the computation.
	Complexity int `json:"complexity"`
}

// An ArmReport holds the verdict for one arm.
type ArmReport struct {
	Pat       string   `json:"pat"`
	Line      int      `json:"line,omitempty"`
	Guard     bool     `json:"guard,omitempty"`
	Useful    bool     `json:"useful"`
	Redundant []string `json:"redundant_subpatterns,omitempty"`
}

// An Overlap reports a range pattern that shares an endpoint with other
// range patterns.
type Overlap struct {
	Pat  string   `json:"pat"`
	On   string   `json:"on"`
	With []string `json:"with"`
}

// HasFindings reports whether some arm is unreachable or has unreachable
// subpatterns, or some match is not exhaustive.
func (r *Report) HasFindings() bool {
	for _, m := range r.Matches {
		if m.hasFindings() {
			return true
		}
	}
	return false
}

func (m *MatchReport) hasFindings() bool {
	if !m.Exhaustive {
		return true
	}
	for _, a := range m.Arms {
		if !a.Useful || len(a.Redundant) > 0 {
			return true
		}
	}
	return false
}

// maxWitnesses is the number of witnesses listed before the rest is
// summarized.
const maxWitnesses = 3

// WriteText writes a human-readable form of r to w. Numbers are formatted
// with p, which defaults to an English printer.
func (r *Report) WriteText(w io.Writer, p *message.Printer) error {
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	for i, m := range r.Matches {
		label := m.Name
		if label == "" {
			label = p.Sprintf("match %d", i+1)
		}
		p.Fprintf(w, "%s: %s on %s\n", r.File, label, m.Scrutinee)

		for j, a := range m.Arms {
			if !a.Useful {
				p.Fprintf(w, "  arm %d (line %d) is unreachable: %s\n", j+1, a.Line, a.Pat)
			}
			for _, s := range a.Redundant {
				p.Fprintf(w, "  arm %d (line %d) has an unreachable subpattern: %s\n", j+1, a.Line, s)
			}
		}
		for _, o := range m.Overlaps {
			p.Fprintf(w, "  range %s overlaps %s on %s\n", o.Pat, strings.Join(o.With, ", "), o.On)
		}
		if !m.Exhaustive {
			p.Fprintf(w, "  not exhaustive: %s\n", notCovered(p, m.Witnesses))
		}
		if !m.hasFindings() && len(m.Overlaps) == 0 {
			p.Fprintf(w, "  ok\n")
		}
	}
	return nil
}

// notCovered lists witnesses the way a compiler reports them.
func notCovered(p *message.Printer, witnesses []string) string {
	quoted := make([]string, 0, maxWitnesses)
	for i, w := range witnesses {
		if i == maxWitnesses {
			break
		}
		quoted = append(quoted, "`"+w+"`")
	}
	switch n := len(witnesses); {
	case n == 1:
		return p.Sprintf("pattern %s not covered", quoted[0])
	case n <= maxWitnesses:
		last := len(quoted) - 1
		return p.Sprintf("patterns %s and %s not covered", strings.Join(quoted[:last], ", "), quoted[last])
	default:
		return p.Sprintf("patterns %s and %d more not covered", strings.Join(quoted, ", "), n-maxWitnesses)
	}
}

// WriteJSON writes reports to w as an indented JSON array.
func WriteJSON(w io.Writer, reports []*Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(reports)
}
