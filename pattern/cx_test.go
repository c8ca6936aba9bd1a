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
	"fmt"
	"strings"
)

// testTy is a minimal type representation for testing the algorithm
// without a schema.
type testTy struct {
	name   string
	set    ConstructorSet
	fields [][]*testTy // per variant
	elem   *testTy
	opaque bool
}

func (t *testTy) String() string { return t.name }

var (
	tyBool  = &testTy{name: "bool", set: BoolSet{}}
	tyU8    = &testTy{name: "u8", set: IntegerSet{Ranges: []IntRange{rng(0, 255)}}}
	tyNever = &testTy{name: "!", set: EmptySet{}}
	tyStr   = &testTy{name: "str", set: UnlistableSet{}}
)

func tupleTy(elems ...*testTy) *testTy {
	names := make([]string, len(elems))
	empty := false
	for i, e := range elems {
		names[i] = e.name
		if _, ok := e.set.(EmptySet); ok {
			empty = true
		}
	}
	return &testTy{
		name:   "(" + strings.Join(names, ", ") + ")",
		set:    StructSet{Empty: empty},
		fields: [][]*testTy{elems},
	}
}

// optionTy returns an enum with variants None and Some(elem).
func optionTy(elem *testTy) *testTy {
	some := VariantVisible
	if _, ok := elem.set.(EmptySet); ok {
		some = VariantEmpty
	}
	return &testTy{
		name:   fmt.Sprintf("Option<%s>", elem),
		set:    VariantSet{Variants: []VariantVisibility{VariantVisible, some}},
		fields: [][]*testTy{nil, {elem}},
	}
}

func refTy(elem *testTy) *testTy {
	return &testTy{name: "&" + elem.name, set: RefSet{}, elem: elem}
}

func sliceTy(elem *testTy) *testTy {
	return &testTy{name: "[" + elem.name + "]", set: SliceSet{ArrayLen: NoArrayLen}, elem: elem}
}

type testCx struct {
	exhaustivePatterns bool
}

func (cx testCx) CtorArity(c Constructor, t *testTy) int {
	return len(cx.CtorSubTypes(c, t))
}

func (testCx) CtorSubTypes(c Constructor, t *testTy) []*testTy {
	switch c := c.(type) {
	case Struct, UnionField:
		return t.fields[0]
	case Variant:
		return t.fields[c]
	case Ref:
		return []*testTy{t.elem}
	case Slice:
		tys := make([]*testTy, c.Arity())
		for i := range tys {
			tys[i] = t.elem
		}
		return tys
	}
	return nil
}

func (testCx) CtorsForTy(t *testTy) (ConstructorSet, error) {
	if t.set == nil {
		return nil, fmt.Errorf("no constructors for %s", t)
	}
	return t.set, nil
}

func (testCx) IsOpaqueTy(t *testTy) bool { return t.opaque }

func (cx testCx) IsExhaustivePatternsFeatureOn() bool { return cx.exhaustivePatterns }

type tpat = DeconstructedPat[*testTy]

func rng(lo, hi int64) IntRange {
	return NewIntRange(FiniteInt64(lo), FiniteInt64(hi), Included)
}

func lit(n int64) IntRange { return IntRangeFromSingleton(FiniteInt64(n)) }

func wild(t *testTy) *tpat { return NewWildcard(t) }

func pat(c Constructor, t *testTy, fields ...*tpat) *tpat {
	return NewPat(c, fields, t)
}

func or(t *testTy, alts ...*tpat) *tpat { return NewOrPat(alts, t) }

func armsOf(pats ...*tpat) []MatchArm[*testTy] {
	arms := make([]MatchArm[*testTy], len(pats))
	for i, p := range pats {
		arms[i] = MatchArm[*testTy]{Pat: p}
	}
	return arms
}

// check runs the computation in strict mode and returns the usefulness
// of each arm and the witnesses in their debug form.
func check(cx testCx, arms []MatchArm[*testTy], ty *testTy, v ValidityConstraint, policy ValidityPolicy, noPruning bool) ([]bool, []string, error) {
	mcx := NewMatchCtxt[*testTy](cx)
	mcx.Strict = true
	mcx.Policy = policy
	mcx.NoPruning = noPruning
	r, err := ComputeMatchUsefulness(mcx, arms, ty, v)
	if err != nil {
		return nil, nil, err
	}
	var useful []bool
	for _, a := range r.ArmUsefulness {
		useful = append(useful, a.Usefulness.Useful)
	}
	var witnesses []string
	for _, w := range r.NonExhaustivenessWitnesses {
		witnesses = append(witnesses, w.String())
	}
	return useful, witnesses, nil
}
