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

package bruteforce

import (
	"testing"

	"github.com/go-quicktest/qt"

	"matchcheck.dev/go/schema"
	"matchcheck.dev/go/syntax"
)

func TestEnumerate(t *testing.T) {
	f, err := syntax.ParseFile("enum E { A, B(bool), C(!) }")
	qt.Assert(t, qt.IsNil(err))
	env, err := schema.NewEnv(f)
	qt.Assert(t, qt.IsNil(err))

	e := &Enumerator{MaxSliceLen: 2, Limit: 1000}
	testCases := []struct {
		ty   string
		n    int
		want bool
	}{
		{"bool", 2, true},
		{"u8", 256, true},
		{"(bool, i8)", 512, true},
		{"E", 3, true},
		{"[bool]", 7, true},
		{"[bool; 3]", 8, true},
		{"&Option<bool>", 3, true},
		{"!", 0, true},
		{"u16", 0, false},
		{"str", 0, false},
		{"(u8, u8)", 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.ty, func(t *testing.T) {
			ty, err := env.ParseType(tc.ty)
			qt.Assert(t, qt.IsNil(err))
			vals, ok := e.Enumerate(ty)
			qt.Assert(t, qt.Equals(ok, tc.want))
			qt.Check(t, qt.HasLen(vals, tc.n))
		})
	}
}

func TestMatches(t *testing.T) {
	env, err := schema.NewEnv(nil)
	qt.Assert(t, qt.IsNil(err))
	ty, err := env.ParseType("[u8]")
	qt.Assert(t, qt.IsNil(err))
	vals, ok := (&Enumerator{MaxSliceLen: 2}).Enumerate(ty)
	qt.Assert(t, qt.IsTrue(ok))

	count := func(src string) int {
		p, err := env.ParsePat(src, ty)
		qt.Assert(t, qt.IsNil(err))
		n := 0
		for _, v := range vals {
			if Matches(p, v) {
				n++
			}
		}
		return n
	}
	qt.Check(t, qt.Equals(count("[]"), 1))
	qt.Check(t, qt.Equals(count("[_]"), 256))
	qt.Check(t, qt.Equals(count("[0, ..]"), 1+256))
	qt.Check(t, qt.Equals(count("[.., 0..=1]"), 2+2*256))
	qt.Check(t, qt.Equals(count("[1, .., 2]"), 1))
	qt.Check(t, qt.Equals(count("[1] | [2]"), 2))
	qt.Check(t, qt.Equals(count("$C"), 0))
}
