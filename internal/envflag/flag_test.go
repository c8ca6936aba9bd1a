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

package envflag

import (
	"fmt"
	"testing"

	"github.com/go-quicktest/qt"
)

type testFlags struct {
	Foo    bool
	BarBaz bool

	DefaultFalse bool `envflag:"default:false"`
	DefaultTrue  bool `envflag:"default:true"`
}

type testTypes struct {
	StringDefaultFoo string `envflag:"default:foo"`
	IntDefault5      int    `envflag:"default:5"`
}

type deprecatedFlags struct {
	Foo bool `envflag:"deprecated"`
	Bar bool `envflag:"deprecated,default:true"`
}

type mode int

func (m *mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "lax":
		*m = 0
	case "strict":
		*m = 1
	default:
		return fmt.Errorf("unknown mode %q", b)
	}
	return nil
}

type textFlags struct {
	Mode mode `envflag:"default:strict"`
	Log  int
}

func success[T comparable](want T) func(t *testing.T) {
	return func(t *testing.T) {
		var x T
		err := Init(&x, "TEST_VAR")
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(x, want))
	}
}

func failure[T comparable](want T, wantError string) func(t *testing.T) {
	return func(t *testing.T) {
		var x T
		err := Init(&x, "TEST_VAR")
		qt.Assert(t, qt.ErrorMatches(err, wantError))
		qt.Assert(t, qt.Equals(x, want))
	}
}

func invalid[T comparable](want T) func(t *testing.T) {
	return func(t *testing.T) {
		var x T
		err := Init(&x, "TEST_VAR")
		qt.Assert(t, qt.ErrorIs(err, ErrInvalid))
		qt.Assert(t, qt.Equals(x, want))
	}
}

var tests = []struct {
	testName string
	envVal   string
	test     func(t *testing.T)
}{{
	testName: "Empty",
	envVal:   "",
	test:     success(testFlags{DefaultTrue: true}),
}, {
	testName: "JustCommas",
	envVal:   ",,",
	test:     success(testFlags{DefaultTrue: true}),
}, {
	testName: "Unknown",
	envVal:   "ratchet",
	test: failure(testFlags{DefaultTrue: true},
		"cannot parse TEST_VAR: unknown flag \"ratchet\""),
}, {
	testName: "Set",
	envVal:   ",foo,",
	test:     success(testFlags{Foo: true, DefaultTrue: true}),
}, {
	testName: "TwoFlags",
	envVal:   "barbaz,foo",
	test:     success(testFlags{Foo: true, BarBaz: true, DefaultTrue: true}),
}, {
	testName: "ToggleDefaults",
	envVal:   "defaulttrue=0,defaultfalse=true",
	test:     success(testFlags{DefaultFalse: true}),
}, {
	testName: "MultipleUnknown",
	envVal:   "other1,other2,foo",
	test: failure(testFlags{Foo: true, DefaultTrue: true},
		"cannot parse TEST_VAR: unknown flag \"other1\"\nunknown flag \"other2\""),
}, {
	testName: "InvalidIntForBool",
	envVal:   "foo=2",
	test:     invalid(testFlags{DefaultTrue: true}),
}, {
	testName: "StringValue",
	envVal:   "stringdefaultfoo=bar",
	test:     success(testTypes{StringDefaultFoo: "bar", IntDefault5: 5}),
}, {
	testName: "StringAlone",
	envVal:   "stringdefaultfoo",
	test: failure(testTypes{StringDefaultFoo: "foo", IntDefault5: 5},
		"cannot parse TEST_VAR: value needed for string flag \"stringdefaultfoo\""),
}, {
	testName: "IntValue",
	envVal:   "intdefault5=123",
	test:     success(testTypes{StringDefaultFoo: "foo", IntDefault5: 123}),
}, {
	testName: "IntEmpty",
	envVal:   "intdefault5=",
	test:     invalid(testTypes{StringDefaultFoo: "foo", IntDefault5: 5}),
}, {
	testName: "TextDefault",
	envVal:   "log=1",
	test:     success(textFlags{Mode: 1, Log: 1}),
}, {
	testName: "TextValue",
	envVal:   "mode=lax",
	test:     success(textFlags{Mode: 0}),
}, {
	testName: "TextInvalid",
	envVal:   "mode=loose",
	test:     invalid(textFlags{Mode: 1}),
}, {
	testName: "TextAlone",
	envVal:   "mode",
	test: failure(textFlags{Mode: 1},
		"cannot parse TEST_VAR: value needed for mode flag \"mode\""),
}, {
	testName: "Deprecated",
	envVal:   "foo=1",
	test: failure(deprecatedFlags{Bar: true},
		`cannot parse TEST_VAR: cannot change default value of deprecated flag "foo"`),
}, {
	testName: "DeprecatedNoop",
	envVal:   "bar=1,foo=false",
	test:     success(deprecatedFlags{Bar: true}),
}}

func TestInit(t *testing.T) {
	for _, test := range tests {
		t.Run(test.testName, func(t *testing.T) {
			t.Setenv("TEST_VAR", test.envVal)
			test.test(t)
		})
	}
}
