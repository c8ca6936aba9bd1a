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

package schema_test

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestLower(t *testing.T) {
	env := newEnv(t)
	testCases := []struct {
		ty, pat, want string
	}{
		{"u8", "0..=100", "0..101"},
		{"u8", "7", "7"},
		{"u8", "5..", "5..+∞"},
		{"u8", "..=9", "-∞..10"},
		{"u8", "..3", "-∞..3"},
		{"usize", "0..", "0..+∞"},
		{"u8", "u8::MAX", "255"},
		{"i8", "i8::MIN..=-1", "-128..0"},
		{"usize", "usize::MAX..", "18446744073709551615..+∞"},
		{"i8", "-128..0", "-128..0"},
		{"char", "'a'..='z'", "97..123"},
		{"u8", "x", "_"},
		{"u8", "x @ 3", "3"},
		{"bool", "true | false", "true | false"},
		{"&str", `"hi"`, `&("hi")`},
		{"Option<u8>", "Some(3)", "Variant(1)(3)"},
		{"Option<u8>", "None", "Variant(0)"},
		{"&Option<u8>", "Some(_)", "&(Variant(1)(_))"},
		{"&Option<u8>", "&None", "&(Variant(0))"},
		{"Pair", "Pair(Some(_), true)", "Struct(Variant(1)(_), true)"},
		{"Point", "Point { y: 1, .. }", "Struct(_, 1)"},
		{"Unit", "Unit", "Struct"},
		{"Color", "Color::Green", "Variant(1)"},
		{"Color", "Blue", "Variant(2)"},
		{"Ext", "Ext::C { x: 0 }", "Variant(2)(0)"},
		{"(u8, bool, char)", "(1, ..)", "Struct(1, _, _)"},
		{"(u8, bool, char)", "(.., 'a')", "Struct(_, _, 97)"},
		{"[u8]", "[a, .., b]", "[1, .., 1](_, _)"},
		{"[u8]", "[]", "[0]"},
		{"[u8; 2]", "[_, .., _]", "[2](_, _)"},
		{"[u8; 3]", "[0, ..]", "[1, .., 0](0)"},
		{"U", "U { b: true }", "UnionField(_, true)"},
		{"opaque<u8>", "3", "3"},
		{"opaque<u8>", "_", "_"},
	}
	for _, tc := range testCases {
		t.Run(tc.ty+"/"+tc.pat, func(t *testing.T) {
			p, err := env.ParsePat(tc.pat, parseType(t, env, tc.ty))
			qt.Assert(t, qt.IsNil(err))
			qt.Check(t, qt.Equals(p.String(), tc.want))
		})
	}
}

func TestLowerOpaqueConstants(t *testing.T) {
	env := newEnv(t)
	ty := parseType(t, env, "u8")
	a, err := env.ParsePat("$A", ty)
	qt.Assert(t, qt.IsNil(err))
	b, err := env.ParsePat("$A", ty)
	qt.Assert(t, qt.IsNil(err))
	// Each occurrence is a distinct constant.
	qt.Check(t, qt.Not(qt.Equals(a.Ctor(), b.Ctor())))
}

func TestLowerErrors(t *testing.T) {
	env := newEnv(t)
	testCases := []struct {
		ty, pat, err string
	}{
		{"u8", "256", "literal out of range for u8"},
		{"u8", "-1", "literal out of range for u8"},
		{"u8", "10..=5", "lower range bound must be less than or equal to upper"},
		{"u8", "5..5", "lower range bound must be less than upper"},
		{"bool", "1", "mismatched types: expected bool, found integer"},
		{"u8", "i32::MAX", "mismatched types: expected u8, found i32::MAX"},
		{"(u8, u8)", "[a]", `mismatched types: expected \(u8, u8\), found slice pattern`},
		{"Color", "Purple", "cannot find Purple in type Color"},
		{"Color", "Color::Purple", "no variant named Purple in enum Color"},
		{"Point", "Point { x: 1 }", "pattern does not mention field y"},
		{"Point", "Point { x: 1, z: 2, .. }", "Point has no field named z"},
		{"(u8, u8)", "(1, 2, 3)", "this pattern has 3 fields, but the corresponding type has 2 fields"},
		{"[u8; 2]", "[1, 2, 3]", "pattern requires 3 elements but array has 2"},
		{"[u8; 2]", "[1, 2, 3, ..]", "pattern requires at least 3 elements but array has 2"},
		{"U", "U { a: 1, b: true }", "union patterns must name exactly one field"},
		{"Option<u8>", "Some", "expected unit struct, unit variant or constant, found Some"},
		{"(u8, u8)", "(x @ .., 1)", "'..' can only be bound in slice patterns"},
	}
	for _, tc := range testCases {
		t.Run(tc.ty+"/"+tc.pat, func(t *testing.T) {
			_, err := env.ParsePat(tc.pat, parseType(t, env, tc.ty))
			qt.Assert(t, qt.ErrorMatches(err, `\d+:\d+: `+tc.err))
		})
	}
}
