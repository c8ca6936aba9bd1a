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

package schema

import (
	"fmt"

	"matchcheck.dev/go/pattern"
)

// Context describes the types of an Env to the usefulness algorithm. It
// implements [pattern.TypeCx] for *Type.
//
// A Context caches type information and must not be used concurrently.
type Context struct {
	// ExhaustivePatterns lets matches omit arms for uninhabited types
	// nested anywhere in the scrutinee, not only at the top level.
	ExhaustivePatterns bool

	// PrecisePointerSizeMatching treats isize and usize as having the
	// range of their 64-bit counterparts. By default, their ranges are
	// unbounded, so that matching them exhaustively requires a wildcard
	// or an open-ended range.
	PrecisePointerSizeMatching bool

	uninhabited map[*Type]bool
}

var _ pattern.TypeCx[*Type] = (*Context)(nil)

func (cx *Context) IsExhaustivePatternsFeatureOn() bool { return cx.ExhaustivePatterns }

func (cx *Context) IsOpaqueTy(t *Type) bool { return t.Kind == OpaqueKind }

// fields returns the types of the fields of a struct-like constructor of t.
func (cx *Context) fields(c pattern.Constructor, t *Type) []*Type {
	variant := func(v *Variant) []*Type {
		tys := make([]*Type, len(v.Fields))
		for i, f := range v.Fields {
			tys[i] = f.Type
		}
		return tys
	}
	switch c := c.(type) {
	case pattern.Struct:
		switch t.Kind {
		case TupleKind:
			return t.Elems
		case AdtKind:
			return variant(t.Def.Variants[0])
		}
	case pattern.Variant:
		if t.Kind == AdtKind {
			return variant(t.Def.Variants[c])
		}
	case pattern.UnionField:
		if t.Kind == AdtKind {
			return variant(t.Def.Variants[0])
		}
	case pattern.Ref:
		if t.Kind == RefKind {
			return []*Type{t.Elem}
		}
	case pattern.Slice:
		tys := make([]*Type, c.Arity())
		for i := range tys {
			tys[i] = t.Elem
		}
		return tys
	case pattern.Bool, pattern.IntRange, pattern.FloatRange, pattern.Str:
		return nil
	}
	panic(fmt.Sprintf("schema: constructor %v is not valid for type %v", c, t))
}

func (cx *Context) CtorArity(c pattern.Constructor, t *Type) int {
	return len(cx.fields(c, t))
}

func (cx *Context) CtorSubTypes(c pattern.Constructor, t *Type) []*Type {
	return cx.fields(c, t)
}

// CtorsForTy returns the constructors of t.
func (cx *Context) CtorsForTy(t *Type) (pattern.ConstructorSet, error) {
	switch t.Kind {
	case BoolKind:
		return pattern.BoolSet{}, nil

	case CharKind:
		// Surrogates are not valid chars.
		return pattern.IntegerSet{Ranges: []pattern.IntRange{
			pattern.NewIntRange(pattern.FiniteInt64(0), pattern.FiniteInt64(0xD7FF), pattern.Included),
			pattern.NewIntRange(pattern.FiniteInt64(0xE000), pattern.FiniteInt64(0x10FFFF), pattern.Included),
		}}, nil

	case IntKind:
		return pattern.IntegerSet{Ranges: []pattern.IntRange{cx.intRange(t)}}, nil

	case SliceKind:
		return pattern.SliceSet{
			ArrayLen:       pattern.NoArrayLen,
			SubtypeIsEmpty: cx.IsUninhabited(t.Elem),
		}, nil

	case ArrayKind:
		return pattern.SliceSet{
			ArrayLen:       t.Len,
			SubtypeIsEmpty: cx.IsUninhabited(t.Elem),
		}, nil

	case RefKind:
		return pattern.RefSet{}, nil

	case NeverKind:
		return pattern.EmptySet{}, nil

	case TupleKind:
		return pattern.StructSet{Empty: cx.IsUninhabited(t)}, nil

	case AdtKind:
		def := t.Def
		switch def.Kind {
		case UnionDef:
			return pattern.UnionSet{}, nil
		case StructDef:
			return pattern.StructSet{Empty: cx.IsUninhabited(t)}, nil
		}
		if len(def.Variants) == 0 && !def.NonExhaustive {
			return pattern.EmptySet{}, nil
		}
		set := pattern.VariantSet{
			Variants:      make([]pattern.VariantVisibility, len(def.Variants)),
			NonExhaustive: def.NonExhaustive,
		}
		for i, v := range def.Variants {
			switch {
			case cx.variantUninhabited(v):
				set.Variants[i] = pattern.VariantEmpty
			case v.Hidden:
				set.Variants[i] = pattern.VariantHidden
			default:
				set.Variants[i] = pattern.VariantVisible
			}
		}
		return set, nil

	case FloatKind, StrKind, OpaqueKind:
		return pattern.UnlistableSet{}, nil
	}
	return nil, fmt.Errorf("schema: no constructors for type %v", t)
}

// intRange returns the range of values of the integer type t.
func (cx *Context) intRange(t *Type) pattern.IntRange {
	lo := pattern.Finite(t.Min())
	hi := pattern.Finite(t.Max())
	if t.PtrSized && !cx.PrecisePointerSizeMatching {
		hi = pattern.PosInfinity()
		if t.Signed {
			lo = pattern.NegInfinity()
		}
		return pattern.NewIntRange(lo, hi, pattern.Excluded)
	}
	return pattern.NewIntRange(lo, hi, pattern.Included)
}

// IsUninhabited reports whether t has no values.
func (cx *Context) IsUninhabited(t *Type) bool {
	if u, ok := cx.uninhabited[t]; ok {
		return u
	}
	if cx.uninhabited == nil {
		cx.uninhabited = map[*Type]bool{}
	}
	u := cx.isUninhabited(t)
	cx.uninhabited[t] = u
	return u
}

func (cx *Context) isUninhabited(t *Type) bool {
	switch t.Kind {
	case NeverKind:
		return true
	case TupleKind:
		for _, e := range t.Elems {
			if cx.IsUninhabited(e) {
				return true
			}
		}
	case ArrayKind:
		return t.Len > 0 && cx.IsUninhabited(t.Elem)
	case AdtKind:
		switch t.Def.Kind {
		case StructDef:
			return cx.variantUninhabited(t.Def.Variants[0])
		case EnumDef:
			// A non-exhaustive enum may gain inhabited variants.
			if t.Def.NonExhaustive {
				return false
			}
			for _, v := range t.Def.Variants {
				if !cx.variantUninhabited(v) {
					return false
				}
			}
			return true
		}
	}
	// References, slices, unions and opaque types are always considered
	// inhabited.
	return false
}

func (cx *Context) variantUninhabited(v *Variant) bool {
	for _, f := range v.Fields {
		if cx.IsUninhabited(f.Type) {
			return true
		}
	}
	return false
}
