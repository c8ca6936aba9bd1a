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

package pattern

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestComputeMatchUsefulness(t *testing.T) {
	pair := tupleTy(tyBool, tyBool)
	slice := sliceTy(tyBool)
	testCases := []struct {
		desc      string
		cx        testCx
		ty        *testTy
		validity  ValidityConstraint
		policy    ValidityPolicy
		noPruning bool
		arms      []*tpat
		useful    []bool
		witnesses []string
	}{{
		desc:   "bool",
		ty:     tyBool,
		arms:   []*tpat{pat(Bool(true), tyBool), pat(Bool(false), tyBool), wild(tyBool)},
		useful: []bool{true, true, false},
	}, {
		desc:      "missing bool",
		ty:        tyBool,
		arms:      []*tpat{pat(Bool(true), tyBool)},
		useful:    []bool{true},
		witnesses: []string{"false"},
	}, {
		desc: "integer ranges",
		ty:   tyU8,
		arms: []*tpat{
			pat(rng(0, 100), tyU8),
			pat(rng(50, 150), tyU8),
			pat(rng(0, 200), tyU8),
		},
		useful:    []bool{true, true, false},
		witnesses: []string{"201..256"},
	}, {
		desc: "pair",
		ty:   pair,
		arms: []*tpat{
			pat(Struct{}, pair, pat(Bool(true), tyBool), wild(tyBool)),
			pat(Struct{}, pair, wild(tyBool), pat(Bool(true), tyBool)),
		},
		useful:    []bool{true, true},
		witnesses: []string{"Struct(false, false)"},
	}, {
		desc: "all pairs",
		ty:   pair,
		arms: []*tpat{
			pat(Struct{}, pair, pat(Bool(true), tyBool), wild(tyBool)),
			pat(Struct{}, pair, wild(tyBool), pat(Bool(true), tyBool)),
			pat(Struct{}, pair, pat(Bool(false), tyBool), pat(Bool(false), tyBool)),
			pat(Struct{}, pair, pat(Bool(true), tyBool), pat(Bool(true), tyBool)),
		},
		useful: []bool{true, true, true, false},
	}, {
		desc:      "empty scrutinee",
		ty:        tyNever,
		validity:  ValidOnly,
		witnesses: nil,
	}, {
		desc:     "empty scrutinee maybe invalid",
		ty:       tyNever,
		validity: MaybeInvalid,
	}, {
		desc:      "empty scrutinee maybe invalid strict",
		ty:        tyNever,
		validity:  MaybeInvalid,
		policy:    PolicyStrict,
		witnesses: []string{"NonExhaustive"},
	}, {
		desc:      "nested empty type",
		ty:        optionTy(tyNever),
		arms:      []*tpat{pat(Variant(0), optionTy(tyNever))},
		useful:    []bool{true},
		witnesses: []string{"Variant(1)(_)"},
	}, {
		desc:   "nested empty type with exhaustive patterns",
		cx:     testCx{exhaustivePatterns: true},
		ty:     optionTy(tyNever),
		arms:   []*tpat{pat(Variant(0), optionTy(tyNever))},
		useful: []bool{true},
	}, {
		desc:      "nested empty type maybe invalid strict",
		cx:        testCx{exhaustivePatterns: true},
		ty:        optionTy(tyNever),
		validity:  MaybeInvalid,
		policy:    PolicyStrict,
		arms:      []*tpat{pat(Variant(0), optionTy(tyNever))},
		useful:    []bool{true},
		witnesses: []string{"Variant(1)(_)"},
	}, {
		desc:     "nested empty type maybe invalid legacy",
		cx:       testCx{exhaustivePatterns: true},
		ty:       optionTy(tyNever),
		validity: MaybeInvalid,
		arms:     []*tpat{pat(Variant(0), optionTy(tyNever))},
		useful:   []bool{true},
	}, {
		desc: "slices",
		ty:   slice,
		arms: []*tpat{
			pat(NewSlice(NoArrayLen, VarLen(1, 0)), slice, pat(Bool(true), tyBool)),
			pat(NewSlice(NoArrayLen, VarLen(0, 1)), slice, pat(Bool(false), tyBool)),
		},
		useful:    []bool{true, true},
		witnesses: []string{"[0]"},
	}, {
		desc:      "slices without pruning",
		ty:        slice,
		noPruning: true,
		arms: []*tpat{
			pat(NewSlice(NoArrayLen, VarLen(1, 0)), slice, pat(Bool(true), tyBool)),
			pat(NewSlice(NoArrayLen, VarLen(0, 1)), slice, pat(Bool(false), tyBool)),
		},
		useful:    []bool{true, true},
		witnesses: []string{"[1, .., 1](false, true)", "[0]"},
	}, {
		desc: "slice lengths",
		ty:   slice,
		arms: []*tpat{
			pat(NewSlice(NoArrayLen, FixedLen(0)), slice),
			pat(NewSlice(NoArrayLen, VarLen(0, 0)), slice),
			pat(NewSlice(NoArrayLen, FixedLen(1)), slice, wild(tyBool)),
		},
		useful: []bool{true, true, false},
	}, {
		desc:      "strings",
		ty:        tyStr,
		arms:      []*tpat{pat(Str("a"), tyStr), pat(Str("a"), tyStr)},
		useful:    []bool{true, false},
		witnesses: []string{"NonExhaustive"},
	}, {
		desc:   "or-pattern",
		ty:     tyBool,
		arms:   []*tpat{or(tyBool, pat(Bool(true), tyBool), pat(Bool(false), tyBool)), wild(tyBool)},
		useful: []bool{true, false},
	}}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			useful, witnesses, err := check(tc.cx, armsOf(tc.arms...), tc.ty, tc.validity, tc.policy, tc.noPruning)
			qt.Assert(t, qt.IsNil(err))
			qt.Check(t, qt.DeepEquals(useful, tc.useful))
			qt.Check(t, qt.DeepEquals(witnesses, tc.witnesses))
		})
	}
}

func TestGuards(t *testing.T) {
	arms := armsOf(pat(Bool(true), tyBool), pat(Bool(true), tyBool))
	arms[0].HasGuard = true
	useful, witnesses, err := check(testCx{}, arms, tyBool, ValidOnly, PolicyLegacy, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.DeepEquals(useful, []bool{true, true}))
	qt.Check(t, qt.DeepEquals(witnesses, []string{"false"}))

	// A guarded wildcard does not make a match exhaustive.
	arms = armsOf(wild(tyBool))
	arms[0].HasGuard = true
	_, witnesses, err = check(testCx{}, arms, tyBool, ValidOnly, PolicyLegacy, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.DeepEquals(witnesses, []string{"false", "true"}))
}

func TestRedundantSubpatterns(t *testing.T) {
	first := pat(Bool(true), tyBool)
	second := pat(Bool(true), tyBool)
	third := pat(Bool(false), tyBool)
	arms := armsOf(first, or(tyBool, second, third))

	mcx := NewMatchCtxt[*testTy](testCx{})
	r, err := ComputeMatchUsefulness(mcx, arms, tyBool, ValidOnly)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(r.Exhaustive()))

	u := r.ArmUsefulness[1].Usefulness
	qt.Check(t, qt.IsTrue(u.Useful))
	qt.Assert(t, qt.HasLen(u.RedundantSubpatterns, 1))
	qt.Check(t, qt.Equals(u.RedundantSubpatterns[0], second))
	qt.Check(t, qt.IsTrue(third.IsUseful()))
	qt.Check(t, qt.HasLen(r.ArmUsefulness[0].Usefulness.RedundantSubpatterns, 0))
}

func TestComplexityLimit(t *testing.T) {
	triple := tupleTy(tyBool, tyBool, tyBool)
	arms := armsOf(pat(Struct{}, triple, pat(Bool(true), tyBool), pat(Bool(true), tyBool), pat(Bool(true), tyBool)))

	mcx := NewMatchCtxt[*testTy](testCx{})
	mcx.ComplexityLimit = 2
	_, err := ComputeMatchUsefulness(mcx, arms, triple, ValidOnly)
	qt.Assert(t, qt.ErrorIs(err, ErrComplexityLimit))
	var cerr *ComplexityError
	qt.Assert(t, qt.IsTrue(errors.As(err, &cerr)))
	qt.Check(t, qt.Equals(cerr.Limit, 2))
	qt.Check(t, qt.ErrorMatches(err, `pattern complexity limit reached \(limit 2\)`))

	mcx = NewMatchCtxt[*testTy](testCx{})
	_, err = ComputeMatchUsefulness(mcx, arms, triple, ValidOnly)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.IsTrue(mcx.Complexity() > 2))
}

func TestTypeCxError(t *testing.T) {
	bad := &testTy{name: "bad"}
	mcx := NewMatchCtxt[*testTy](testCx{})
	_, err := ComputeMatchUsefulness(mcx, armsOf(wild(bad)), bad, ValidOnly)
	qt.Check(t, qt.ErrorMatches(err, `no constructors for bad`))
}

func TestNoPruning(t *testing.T) {
	// With pruning, constructors that match fewer rows than Missing are
	// not searched for witnesses.
	pair := tupleTy(tyBool, tyBool)
	arms := func() []MatchArm[*testTy] {
		return armsOf(pat(Struct{}, pair, pat(Bool(true), tyBool), pat(Bool(true), tyBool)))
	}
	pruned, w1, err := check(testCx{}, arms(), pair, ValidOnly, PolicyLegacy, false)
	qt.Assert(t, qt.IsNil(err))

	mcx := NewMatchCtxt[*testTy](testCx{})
	mcx.NoPruning = true
	r, err := ComputeMatchUsefulness(mcx, arms(), pair, ValidOnly)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.DeepEquals(pruned, []bool{r.ArmUsefulness[0].Usefulness.Useful}))

	var w2 []string
	for _, w := range r.NonExhaustivenessWitnesses {
		w2 = append(w2, w.String())
	}
	qt.Check(t, qt.DeepEquals(w1, []string{"Struct(false, _)"}))
	qt.Check(t, qt.DeepEquals(w2, []string{"Struct(true, false)", "Struct(false, _)"}))
}

func TestAssertf(t *testing.T) {
	mcx := NewMatchCtxt[*testTy](testCx{})
	mcx.Assertf(false, "not checked")

	mcx.Strict = true
	qt.Check(t, qt.PanicMatches(func() {
		mcx.Assertf(false, "row %d", 3)
	}, `assertion failed: row 3`))
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	flags := log.Flags()
	log.SetFlags(0)
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	}()

	pair := tupleTy(tyBool, tyBool)
	mcx := NewMatchCtxt[*testTy](testCx{})
	mcx.LogLevel = 1
	_, err := ComputeMatchUsefulness(mcx, armsOf(wild(pair)), pair, ValidOnly)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.StringContains(buf.String(), "  1 matrix (bool, bool):"))
	qt.Check(t, qt.StringContains(buf.String(), "... matrix bool:"))
}
