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

// Package bruteforce checks match results against a naive oracle: it
// enumerates every value of a small type and matches patterns against
// them one by one.
package bruteforce

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"matchcheck.dev/go/pattern"
	"matchcheck.dev/go/schema"
)

// A Value is a value of a schema type. Integers and chars are singleton
// ranges; arrays and slices have a fixed-length Slice constructor.
type Value struct {
	Ctor   pattern.Constructor
	Fields []*Value
}

func (v *Value) String() string {
	var b strings.Builder
	b.WriteString(v.Ctor.String())
	if len(v.Fields) > 0 {
		b.WriteByte('(')
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}

// Enumerator lists the values of types. Slices are enumerated up to
// MaxSliceLen elements and enumeration gives up beyond Limit values.
type Enumerator struct {
	MaxSliceLen int
	Limit       int
}

// Enumerate returns all values of t. It reports false if t has more than
// e.Limit values or contains a type whose values cannot be listed, such as
// str, floats, unions, opaque types or integers wider than 8 bits.
func (e *Enumerator) Enumerate(t *schema.Type) (vals []*Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, stop := r.(tooMany); !stop {
				panic(r)
			}
			vals, ok = nil, false
		}
	}()
	return e.values(t), true
}

type tooMany struct{}

func (e *Enumerator) check(n int) {
	if e.Limit > 0 && n > e.Limit {
		panic(tooMany{})
	}
}

func (e *Enumerator) values(t *schema.Type) []*Value {
	switch t.Kind {
	case schema.NeverKind:
		return nil

	case schema.BoolKind:
		return []*Value{{Ctor: pattern.Bool(false)}, {Ctor: pattern.Bool(true)}}

	case schema.IntKind:
		if t.Bits > 8 {
			panic(tooMany{})
		}
		lo, hi := t.Min().Int64(), t.Max().Int64()
		var out []*Value
		for i := lo; i <= hi; i++ {
			out = append(out, &Value{Ctor: pattern.IntRangeFromSingleton(pattern.FiniteInt64(i))})
		}
		return out

	case schema.TupleKind:
		return e.product(pattern.Struct{}, t.Elems)

	case schema.RefKind:
		var out []*Value
		for _, v := range e.values(t.Elem) {
			out = append(out, &Value{Ctor: pattern.Ref{}, Fields: []*Value{v}})
		}
		return out

	case schema.ArrayKind:
		return e.product(pattern.NewSlice(t.Len, pattern.FixedLen(t.Len)), repeat(t.Elem, t.Len))

	case schema.SliceKind:
		var out []*Value
		for n := 0; n <= e.MaxSliceLen; n++ {
			out = append(out, e.product(pattern.NewSlice(pattern.NoArrayLen, pattern.FixedLen(n)), repeat(t.Elem, n))...)
			e.check(len(out))
		}
		return out

	case schema.AdtKind:
		def := t.Def
		switch def.Kind {
		case schema.StructDef:
			return e.product(pattern.Struct{}, fieldTypes(def.Variants[0]))
		case schema.EnumDef:
			var out []*Value
			for i, v := range def.Variants {
				out = append(out, e.product(pattern.Variant(i), fieldTypes(v))...)
				e.check(len(out))
			}
			return out
		}
	}
	panic(tooMany{})
}

// product returns the values with constructor c whose fields range over
// all values of tys.
func (e *Enumerator) product(c pattern.Constructor, tys []*schema.Type) []*Value {
	out := [][]*Value{nil}
	for _, t := range tys {
		vals := e.values(t)
		e.check(len(out) * len(vals))
		next := make([][]*Value, 0, len(out)*len(vals))
		for _, prefix := range out {
			for _, v := range vals {
				fields := append(prefix[:len(prefix):len(prefix)], v)
				next = append(next, fields)
			}
		}
		out = next
	}
	vals := make([]*Value, len(out))
	for i, fields := range out {
		vals[i] = &Value{Ctor: c, Fields: fields}
	}
	return vals
}

func repeat(t *schema.Type, n int) []*schema.Type {
	tys := make([]*schema.Type, n)
	for i := range tys {
		tys[i] = t
	}
	return tys
}

func fieldTypes(v *schema.Variant) []*schema.Type {
	tys := make([]*schema.Type, len(v.Fields))
	for i, f := range v.Fields {
		tys[i] = f.Type
	}
	return tys
}

// Matches reports whether p matches v. Opaque constants match nothing.
func Matches(p *schema.Pat, v *Value) bool {
	switch p.Ctor().(type) {
	case pattern.Wildcard:
		return true
	case pattern.Or:
		for _, alt := range p.Fields() {
			if Matches(alt, v) {
				return true
			}
		}
		return false
	case pattern.Opaque:
		return false
	}
	fields, ok := alignFields(p.Ctor(), p.Fields(), v)
	if !ok {
		return false
	}
	for i, f := range fields {
		if f != nil && !Matches(f, v.Fields[i]) {
			return false
		}
	}
	return true
}

// MatchesWitness reports whether w matches v. The special constructors
// NonExhaustive and Hidden stand for values the witness does not name and
// match anything.
func MatchesWitness(w *schema.Witness, v *Value) bool {
	switch w.Ctor().(type) {
	case pattern.Wildcard, pattern.NonExhaustive, pattern.Hidden:
		return true
	}
	fields, ok := alignFields(w.Ctor(), w.Fields(), v)
	if !ok {
		return false
	}
	for i, f := range fields {
		if f != nil && !MatchesWitness(f, v.Fields[i]) {
			return false
		}
	}
	return true
}

// alignFields checks the head constructor c against v and returns the
// subpatterns of c for the fields of v. Fields of v that fall into the
// middle of a variable-length slice pattern get a nil subpattern.
func alignFields[P any](c pattern.Constructor, fields []*P, v *Value) ([]*P, bool) {
	if !pattern.IsCoveredBy(v.Ctor, c) {
		return nil, false
	}
	s, ok := c.(pattern.Slice)
	if !ok || !s.Kind.VarLen {
		return fields, true
	}
	out := make([]*P, len(v.Fields))
	copy(out, fields[:s.Kind.Prefix])
	copy(out[len(out)-s.Kind.Suffix:], fields[s.Kind.Prefix:])
	return out, true
}

// A Generator produces random patterns for a type.
type Generator struct {
	Rand *rand.Rand

	// MaxSliceLen bounds the number of subpatterns of slice patterns.
	MaxSliceLen int
}

// bounds are the integer literals used in generated patterns; they are few
// so that ranges overlap often.
var bounds = []int64{-128, -1, 0, 1, 5, 10, 100, 127, 200, 255}

// Pat returns a random pattern for t, nested at most depth levels.
func (g *Generator) Pat(t *schema.Type, depth int) *schema.Pat {
	r := g.Rand
	if depth <= 0 || r.IntN(4) == 0 {
		return pattern.NewWildcard(t)
	}
	if r.IntN(8) == 0 {
		alts := []*schema.Pat{g.Pat(t, depth-1), g.Pat(t, depth-1)}
		return pattern.NewOrPat(alts, t)
	}

	switch t.Kind {
	case schema.BoolKind:
		return pattern.NewPat[*schema.Type](pattern.Bool(r.IntN(2) == 1), nil, t)

	case schema.IntKind:
		return pattern.NewPat[*schema.Type](g.intRange(t), nil, t)

	case schema.TupleKind:
		return g.fields(pattern.Struct{}, t, t.Elems, depth)

	case schema.RefKind:
		return g.fields(pattern.Ref{}, t, []*schema.Type{t.Elem}, depth)

	case schema.ArrayKind, schema.SliceKind:
		arrayLen := pattern.NoArrayLen
		maxLen := g.MaxSliceLen
		if t.Kind == schema.ArrayKind {
			arrayLen = t.Len
			maxLen = t.Len
		}
		var kind pattern.SliceKind
		if r.IntN(2) == 0 {
			prefix := r.IntN(maxLen + 1)
			kind = pattern.VarLen(prefix, r.IntN(maxLen-prefix+1))
		} else if arrayLen != pattern.NoArrayLen {
			kind = pattern.FixedLen(arrayLen)
		} else {
			kind = pattern.FixedLen(r.IntN(maxLen + 1))
		}
		c := pattern.NewSlice(arrayLen, kind)
		return g.fields(c, t, repeat(t.Elem, c.Arity()), depth)

	case schema.AdtKind:
		def := t.Def
		if def.Kind == schema.StructDef {
			return g.fields(pattern.Struct{}, t, fieldTypes(def.Variants[0]), depth)
		}
		if def.Kind == schema.EnumDef && len(def.Variants) > 0 {
			i := r.IntN(len(def.Variants))
			return g.fields(pattern.Variant(i), t, fieldTypes(def.Variants[i]), depth)
		}
	}
	return pattern.NewWildcard(t)
}

func (g *Generator) fields(c pattern.Constructor, t *schema.Type, tys []*schema.Type, depth int) *schema.Pat {
	fields := make([]*schema.Pat, len(tys))
	for i, ft := range tys {
		fields[i] = g.Pat(ft, depth-1)
	}
	return pattern.NewPat(c, fields, t)
}

func (g *Generator) intRange(t *schema.Type) pattern.IntRange {
	var in []int64
	tmin, tmax := t.Min(), t.Max()
	for _, b := range bounds {
		if x := apd.NewBigInt(b); x.Cmp(tmin) >= 0 && x.Cmp(tmax) <= 0 {
			in = append(in, b)
		}
	}
	lo := in[g.Rand.IntN(len(in))]
	hi := in[g.Rand.IntN(len(in))]
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi || g.Rand.IntN(3) == 0 {
		return pattern.IntRangeFromSingleton(pattern.FiniteInt64(lo))
	}
	end := pattern.Included
	if g.Rand.IntN(2) == 0 {
		end = pattern.Excluded
	}
	return pattern.NewIntRange(pattern.FiniteInt64(lo), pattern.FiniteInt64(hi), end)
}

// Check compares the usefulness report for arms against the oracle over
// vals and returns a description of each discrepancy. Arms must not be
// guarded and the scrutinee type must not contain empty types, which the
// algorithm may treat as inhabited.
func Check(arms []*schema.Pat, r *pattern.UsefulnessReport[*schema.Type], vals []*Value) []string {
	var problems []string
	matched := make([]bool, len(vals))
	for i, p := range arms {
		useful := false
		for j, v := range vals {
			if !matched[j] && Matches(p, v) {
				useful = true
			}
		}
		for j, v := range vals {
			if Matches(p, v) {
				matched[j] = true
			}
		}
		if got := r.ArmUsefulness[i].Usefulness.Useful; got != useful {
			problems = append(problems, fmt.Sprintf("arm %d (%v): useful is %v, want %v", i, p, got, useful))
		}
	}

	exhaustive := true
	for _, m := range matched {
		exhaustive = exhaustive && m
	}
	if r.Exhaustive() != exhaustive {
		problems = append(problems, fmt.Sprintf("exhaustive is %v, want %v", r.Exhaustive(), exhaustive))
	}

	for _, w := range r.NonExhaustivenessWitnesses {
		found := false
		for j, v := range vals {
			if !matched[j] && MatchesWitness(w, v) {
				found = true
				break
			}
		}
		if !found {
			problems = append(problems, fmt.Sprintf("witness %v matches no unmatched value", w))
		}
	}
	return problems
}
