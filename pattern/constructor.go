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
	"slices"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// A Constructor is the head of a value or of a pattern: the way a value of
// a given type is shaped at its top level. The set of constructors that
// apply to a type is supplied by a [TypeCx].
//
// Besides the constructors of values, there are constructors that only
// occur in patterns (Wildcard, Or) or only inside the algorithm (Missing,
// NonExhaustive, Hidden).
type Constructor interface {
	isConstructor()
	String() string
}

type (
	// Struct is the single constructor of structs and tuples.
	Struct struct{}

	// Variant is the constructor of the enum variant with the given index.
	Variant int

	// Ref is the constructor of references. It has one field.
	Ref struct{}

	// UnionField is the constructor of unions. Its fields are all the
	// fields of the union, of which a pattern sets at most one.
	UnionField struct{}

	// Bool is a boolean literal.
	Bool bool

	// Str is a string literal. Strings cannot be listed exhaustively.
	Str string

	// Opaque is a constant that cannot be inspected. It matches nothing but
	// itself: every occurrence in a pattern gets a fresh id.
	Opaque uint64

	// Or is the head of an or-pattern; its fields are the alternatives.
	Or struct{}

	// Wildcard matches anything. It only occurs in patterns.
	Wildcard struct{}

	// NonExhaustive stands for the constructors of a type that cannot be
	// listed, such as those of a type declared open for extension.
	NonExhaustive struct{}

	// Hidden stands for the variants that must not be named in witnesses.
	Hidden struct{}

	// Missing stands for all constructors of a column that do not occur
	// in the column.
	Missing struct{}
)

func (Struct) isConstructor()        {}
func (Variant) isConstructor()       {}
func (Ref) isConstructor()           {}
func (UnionField) isConstructor()    {}
func (Bool) isConstructor()          {}
func (Str) isConstructor()           {}
func (Opaque) isConstructor()        {}
func (Or) isConstructor()            {}
func (Wildcard) isConstructor()      {}
func (NonExhaustive) isConstructor() {}
func (Hidden) isConstructor()        {}
func (Missing) isConstructor()       {}
func (IntRange) isConstructor()      {}
func (FloatRange) isConstructor()    {}
func (Slice) isConstructor()         {}

func (Struct) String() string        { return "Struct" }
func (v Variant) String() string     { return fmt.Sprintf("Variant(%d)", int(v)) }
func (Ref) String() string           { return "&" }
func (UnionField) String() string    { return "UnionField" }
func (b Bool) String() string        { return fmt.Sprint(bool(b)) }
func (s Str) String() string         { return fmt.Sprintf("%q", string(s)) }
func (o Opaque) String() string      { return fmt.Sprintf("Opaque(%d)", uint64(o)) }
func (Or) String() string            { return "Or" }
func (Wildcard) String() string      { return "_" }
func (NonExhaustive) String() string { return "NonExhaustive" }
func (Hidden) String() string        { return "Hidden" }
func (Missing) String() string       { return "Missing" }

// isWildcard reports whether c is the Wildcard constructor.
func isWildcard(c Constructor) bool {
	_, ok := c.(Wildcard)
	return ok
}

func isMissing(c Constructor) bool {
	_, ok := c.(Missing)
	return ok
}

// IsCoveredBy reports whether every value with constructor c is matched by
// a pattern with constructor other. The relation is not symmetric: other
// is a pattern constructor, c is a constructor obtained by splitting.
//
// Both constructors must belong to the same type.
func IsCoveredBy(c, other Constructor) bool {
	if isWildcard(c) {
		panic("pattern: constructor splitting should not have returned Wildcard")
	}
	if isWildcard(other) {
		return true
	}
	switch c := c.(type) {
	case Missing, NonExhaustive, Hidden:
		// Only a wildcard pattern can match these special constructors.
		return false
	case Struct:
		if _, ok := other.(Struct); ok {
			return true
		}
	case Ref:
		if _, ok := other.(Ref); ok {
			return true
		}
	case UnionField:
		if _, ok := other.(UnionField); ok {
			return true
		}
	case Variant:
		if o, ok := other.(Variant); ok {
			return c == o
		}
	case Bool:
		if o, ok := other.(Bool); ok {
			return c == o
		}
	case IntRange:
		if o, ok := other.(IntRange); ok {
			return c.isSubrange(o)
		}
	case FloatRange:
		if o, ok := other.(FloatRange); ok {
			return c.isSubrange(o)
		}
	case Str:
		if o, ok := other.(Str); ok {
			return c == o
		}
	case Slice:
		if o, ok := other.(Slice); ok {
			return o.Kind.coversLength(c.Arity())
		}
	case Opaque:
		o, ok := other.(Opaque)
		return ok && c == o
	}
	if _, ok := other.(Opaque); ok {
		return false
	}
	panic(fmt.Sprintf("pattern: trying to compare incompatible constructors %v and %v", c, other))
}

// A RangeEnd tells whether the upper bound of a range is part of it.
type RangeEnd uint8

const (
	Included RangeEnd = iota
	Excluded
)

func (e RangeEnd) String() string {
	if e == Excluded {
		return ".."
	}
	return "..="
}

// A MaybeInfiniteInt is an integer boundary extended with -∞ and +∞.
// Finite values are kept exactly, so every integer type, including 128-bit
// ones and the value just after their maximum, can be represented.
//
// MaybeInfiniteInt values are immutable.
type MaybeInfiniteInt struct {
	inf int8 // -1: -∞, 0: finite, +1: +∞
	n   apd.BigInt
}

// NegInfinity returns -∞.
func NegInfinity() MaybeInfiniteInt { return MaybeInfiniteInt{inf: -1} }

// PosInfinity returns +∞.
func PosInfinity() MaybeInfiniteInt { return MaybeInfiniteInt{inf: 1} }

// Finite returns the boundary with value x.
func Finite(x *apd.BigInt) MaybeInfiniteInt {
	var m MaybeInfiniteInt
	m.n.Set(x)
	return m
}

// FiniteInt64 returns the boundary with value x.
func FiniteInt64(x int64) MaybeInfiniteInt {
	var m MaybeInfiniteInt
	m.n.SetInt64(x)
	return m
}

// IsFinite reports whether x is neither -∞ nor +∞.
func (x MaybeInfiniteInt) IsFinite() bool { return x.inf == 0 }

// IsNegInfinity reports whether x is -∞.
func (x MaybeInfiniteInt) IsNegInfinity() bool { return x.inf < 0 }

// IsPosInfinity reports whether x is +∞.
func (x MaybeInfiniteInt) IsPosInfinity() bool { return x.inf > 0 }

// BigInt returns a copy of the value of a finite boundary.
func (x MaybeInfiniteInt) BigInt() *apd.BigInt {
	if x.inf != 0 {
		panic("pattern: BigInt of infinite boundary")
	}
	return new(apd.BigInt).Set(&x.n)
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x MaybeInfiniteInt) Cmp(y MaybeInfiniteInt) int {
	switch {
	case x.inf < y.inf:
		return -1
	case x.inf > y.inf:
		return 1
	case x.inf != 0:
		return 0
	}
	return x.n.Cmp(&y.n)
}

func (x MaybeInfiniteInt) add(d int64) MaybeInfiniteInt {
	if x.inf != 0 {
		return x
	}
	var m MaybeInfiniteInt
	m.n.Add(&x.n, apd.NewBigInt(d))
	return m
}

// PlusOne returns x+1. Infinities are unchanged.
func (x MaybeInfiniteInt) PlusOne() MaybeInfiniteInt { return x.add(1) }

// MinusOne returns x-1. Infinities are unchanged.
func (x MaybeInfiniteInt) MinusOne() MaybeInfiniteInt { return x.add(-1) }

func (x MaybeInfiniteInt) String() string {
	switch {
	case x.inf < 0:
		return "-∞"
	case x.inf > 0:
		return "+∞"
	}
	return x.n.String()
}

func minInt(x, y MaybeInfiniteInt) MaybeInfiniteInt {
	if x.Cmp(y) <= 0 {
		return x
	}
	return y
}

func maxInt(x, y MaybeInfiniteInt) MaybeInfiniteInt {
	if x.Cmp(y) >= 0 {
		return x
	}
	return y
}

// An IntRange is the half-open range [Lo, Hi) of integers. Integer literals
// are represented as singleton ranges. Lo < Hi always holds.
type IntRange struct {
	Lo, Hi MaybeInfiniteInt
}

// NewIntRange returns the range from lo to hi, which is included in the
// range if end is Included.
func NewIntRange(lo, hi MaybeInfiniteInt, end RangeEnd) IntRange {
	if end == Included {
		hi = hi.PlusOne()
	}
	if lo.Cmp(hi) >= 0 {
		panic(fmt.Sprintf("pattern: malformed range %v..%v", lo, hi))
	}
	return IntRange{Lo: lo, Hi: hi}
}

// IntRangeFromSingleton returns the range containing only x.
func IntRangeFromSingleton(x MaybeInfiniteInt) IntRange {
	return IntRange{Lo: x, Hi: x.PlusOne()}
}

// IsSingleton reports whether r contains exactly one value.
func (r IntRange) IsSingleton() bool {
	// Infinite boundaries do not move with PlusOne, so an infinite range
	// is never a singleton.
	return r.Lo.IsFinite() && r.Lo.PlusOne().Cmp(r.Hi) == 0
}

// Equal reports whether r and o are the same range.
func (r IntRange) Equal(o IntRange) bool {
	return r.Lo.Cmp(o.Lo) == 0 && r.Hi.Cmp(o.Hi) == 0
}

func (r IntRange) isSubrange(o IntRange) bool {
	return o.Lo.Cmp(r.Lo) <= 0 && r.Hi.Cmp(o.Hi) <= 0
}

// Intersection returns the values common to r and o, if any.
func (r IntRange) Intersection(o IntRange) (IntRange, bool) {
	if r.Lo.Cmp(o.Hi) < 0 && o.Lo.Cmp(r.Hi) < 0 {
		return IntRange{Lo: maxInt(r.Lo, o.Lo), Hi: minInt(r.Hi, o.Hi)}, true
	}
	return IntRange{}, false
}

func (r IntRange) String() string {
	if r.IsSingleton() {
		return r.Lo.String()
	}
	return fmt.Sprintf("%v..%v", r.Lo, r.Hi)
}

// presence tells whether a constructor produced by splitting was seen in
// the column.
type presence bool

const (
	unseen presence = false
	seen   presence = true
)

type splitRange struct {
	presence presence
	r        IntRange
}

// split partitions r into subranges such that each subrange is either
// contained in or disjoint from every range in column. Each subrange is
// annotated with whether it intersects the column.
func (r IntRange) split(column []IntRange) []splitRange {
	// Parenthesis matching: the start of a range counts +1 and its end -1.
	// Between two boundaries we are inside some column range iff the count
	// is positive.
	type boundary struct {
		at    MaybeInfiniteInt
		delta int
	}
	var bdys []boundary
	for _, c := range column {
		if x, ok := r.Intersection(c); ok {
			bdys = append(bdys, boundary{x.Lo, 1}, boundary{x.Hi, -1})
		}
	}
	// Only the accumulated count between distinct boundaries matters, so
	// the order of deltas at equal boundaries is irrelevant.
	slices.SortFunc(bdys, func(a, b boundary) int {
		if c := a.at.Cmp(b.at); c != 0 {
			return c
		}
		return a.delta - b.delta
	})
	bdys = append(bdys, boundary{r.Hi, 0})

	var out []splitRange
	count := 0
	prev := r.Lo
	for _, b := range bdys {
		if prev.Cmp(b.at) != 0 {
			p := unseen
			if count > 0 {
				p = seen
			}
			out = append(out, splitRange{p, IntRange{Lo: prev, Hi: b.at}})
		}
		prev = b.at
		count += b.delta
	}
	return out
}

// A FloatRange is a range of floating-point values. Floats are never split:
// their constructor sets are unlistable.
type FloatRange struct {
	Lo, Hi float64
	End    RangeEnd
}

func (r FloatRange) isSubrange(o FloatRange) bool {
	if !(r.Lo >= o.Lo) {
		return false
	}
	switch {
	case r.Hi < o.Hi:
		return true
	case r.Hi == o.Hi:
		return r.End == o.End || r.End == Excluded
	}
	return false
}

func (r FloatRange) String() string {
	if r.Lo == r.Hi && r.End == Included {
		return fmt.Sprint(r.Lo)
	}
	return fmt.Sprintf("%v%v%v", r.Lo, r.End, r.Hi)
}

// A SliceKind is the shape of a slice pattern: either a fixed length, or a
// prefix and a suffix around a variable-length middle.
type SliceKind struct {
	VarLen bool
	Prefix int // the length, for fixed-length slices
	Suffix int
}

// FixedLen returns the kind of slices of length n.
func FixedLen(n int) SliceKind { return SliceKind{Prefix: n} }

// VarLen returns the kind of slices with a prefix and a suffix of the given
// lengths and any number of elements in between.
func VarLen(prefix, suffix int) SliceKind {
	return SliceKind{VarLen: true, Prefix: prefix, Suffix: suffix}
}

// Arity returns the number of fields of a slice of this kind.
func (k SliceKind) Arity() int { return k.Prefix + k.Suffix }

func (k SliceKind) coversLength(n int) bool {
	if k.VarLen {
		return k.Arity() <= n
	}
	return k.Prefix == n
}

// NoArrayLen is the ArrayLen of slices whose length is not fixed by their type.
const NoArrayLen = -1

// A Slice is the constructor of arrays and slices.
type Slice struct {
	// ArrayLen is the length of the array type, or NoArrayLen.
	ArrayLen int
	Kind     SliceKind
}

// NewSlice returns the slice constructor for the given kind. A
// variable-length kind that exactly fills the array becomes fixed-length.
func NewSlice(arrayLen int, kind SliceKind) Slice {
	if arrayLen != NoArrayLen && kind.VarLen {
		switch n := kind.Arity(); {
		case n == arrayLen:
			kind = FixedLen(arrayLen)
		case n > arrayLen:
			panic(fmt.Sprintf("pattern: slice pattern of length %d longer than its array length %d", n, arrayLen))
		}
	}
	return Slice{ArrayLen: arrayLen, Kind: kind}
}

// Arity returns the number of fields of the constructor.
func (s Slice) Arity() int { return s.Kind.Arity() }

func (s Slice) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if s.Kind.VarLen {
		fmt.Fprintf(&b, "%d, .., %d", s.Kind.Prefix, s.Kind.Suffix)
	} else {
		fmt.Fprintf(&b, "%d", s.Kind.Prefix)
	}
	b.WriteByte(']')
	return b.String()
}

type splitSlice struct {
	presence presence
	s        Slice
}

// split splits the lengths covered by s into a list of slice constructors,
// each of which is either covered by some slice of column or by none.
//
// For a variable-length s, all lengths below the longest pattern seen in
// the column are listed one by one as fixed-length slices; the remaining
// lengths are represented by a single variable-length slice with the
// longest prefix and suffix seen.
func (s Slice) split(column []Slice) []splitSlice {
	arity := s.Arity()
	maxSlice := s.Kind
	// Any length at or above minVarLen is covered by a variable-length
	// slice in the column.
	minVarLen := int(^uint(0) >> 1)
	seenFixed := map[int]bool{}
	var smaller []int

	if maxSlice.VarLen {
		maxFixed := 0
		for _, c := range column {
			if !c.Kind.VarLen {
				n := c.Kind.Prefix
				maxFixed = max(maxFixed, n)
				if arity <= n {
					seenFixed[n] = true
				}
				continue
			}
			maxSlice.Prefix = max(maxSlice.Prefix, c.Kind.Prefix)
			maxSlice.Suffix = max(maxSlice.Suffix, c.Kind.Suffix)
			minVarLen = min(minVarLen, c.Kind.Arity())
		}
		// maxSlice must be longer than every fixed-length slice in the
		// column. The prefix and suffix are kept apart for reporting.
		if maxFixed+1 >= maxSlice.Arity() {
			maxSlice.Prefix = maxFixed + 1 - maxSlice.Suffix
		}
		if s.ArrayLen != NoArrayLen && maxSlice.Arity() >= s.ArrayLen {
			maxSlice = FixedLen(s.ArrayLen)
		}
		if s.ArrayLen == NoArrayLen {
			for n := arity; n < maxSlice.Arity(); n++ {
				smaller = append(smaller, n)
			}
		}
	} else {
		for _, c := range column {
			if c.Kind.VarLen {
				minVarLen = min(minVarLen, c.Kind.Arity())
			} else if c.Kind.Prefix == arity {
				seenFixed[arity] = true
			}
		}
	}

	kinds := make([]SliceKind, 0, len(smaller)+1)
	for _, n := range smaller {
		kinds = append(kinds, FixedLen(n))
	}
	kinds = append(kinds, maxSlice)

	out := make([]splitSlice, 0, len(kinds))
	for _, k := range kinds {
		n := k.Arity()
		p := unseen
		if minVarLen <= n || seenFixed[n] {
			p = seen
		}
		out = append(out, splitSlice{p, NewSlice(s.ArrayLen, k)})
	}
	return out
}
