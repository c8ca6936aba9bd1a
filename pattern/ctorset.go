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

// A ConstructorSet describes the constructors of a type, as needed by
// constructor splitting.
type ConstructorSet interface {
	isConstructorSet()
}

// A VariantVisibility tells how a variant may take part in exhaustiveness
// checking.
type VariantVisibility uint8

const (
	// VariantVisible variants are listed normally.
	VariantVisible VariantVisibility = iota
	// VariantHidden variants must be matched, but are reported as _ in
	// witnesses.
	VariantHidden
	// VariantEmpty variants are uninhabited and may be omitted depending on
	// the place validity and on whether exhaustive patterns are enabled.
	VariantEmpty
)

type (
	// StructSet is the set of the single Struct constructor. Empty
	// indicates that the struct is uninhabited.
	StructSet struct{ Empty bool }

	// VariantSet lists the variants of an enum in declaration order.
	// The index of a variant in Variants is its Variant constructor.
	VariantSet struct {
		Variants []VariantVisibility

		// NonExhaustive marks an enum that may get more variants; it can
		// only be matched exhaustively with a wildcard.
		NonExhaustive bool
	}

	// RefSet is the set of the single Ref constructor.
	RefSet struct{}

	// UnionSet is the set of the single UnionField constructor.
	UnionSet struct{}

	// BoolSet is the set {false, true}.
	BoolSet struct{}

	// IntegerSet is the union of one or two disjoint ranges.
	IntegerSet struct{ Ranges []IntRange }

	// SliceSet is the set of array or slice constructors. ArrayLen is
	// NoArrayLen for slices.
	SliceSet struct {
		ArrayLen       int
		SubtypeIsEmpty bool
	}

	// UnlistableSet is the set of a type whose values cannot be listed,
	// such as strings or floats.
	UnlistableSet struct{}

	// EmptySet is the set of a type with no constructors at all.
	EmptySet struct{}
)

func (StructSet) isConstructorSet()     {}
func (VariantSet) isConstructorSet()    {}
func (RefSet) isConstructorSet()        {}
func (UnionSet) isConstructorSet()      {}
func (BoolSet) isConstructorSet()       {}
func (IntegerSet) isConstructorSet()    {}
func (SliceSet) isConstructorSet()      {}
func (UnlistableSet) isConstructorSet() {}
func (EmptySet) isConstructorSet()      {}

// isIntegers reports whether set is a set of integer ranges.
func isIntegers(set ConstructorSet) bool {
	_, ok := set.(IntegerSet)
	return ok
}

// A splitConstructorSet partitions the constructors of a type relative to
// the constructors seen in a column. Each constructor in Present is either
// covered by or disjoint from each seen constructor. Missing holds the
// constructors that no pattern mentions; MissingEmpty holds those that are
// uninhabited.
type splitConstructorSet struct {
	present      []Constructor
	missing      []Constructor
	missingEmpty []Constructor
}

// split computes the splitting of set relative to the column constructors
// ctors. Wildcards in ctors are ignored.
func split[Ty any](pcx PlaceCtxt[Ty], set ConstructorSet, ctors []Constructor) splitConstructorSet {
	var (
		present      []Constructor
		missing      []Constructor
		missingEmpty []Constructor
		seenCtors    []Constructor
	)
	for _, c := range ctors {
		switch c.(type) {
		case Wildcard:
		case Opaque:
			// Opaque constants cover nothing but themselves and are
			// reported as present as is.
			present = append(present, c)
		default:
			seenCtors = append(seenCtors, c)
		}
	}

	switch set := set.(type) {
	case StructSet:
		if len(seenCtors) > 0 {
			present = append(present, Struct{})
		} else if set.Empty {
			missingEmpty = append(missingEmpty, Struct{})
		} else {
			missing = append(missing, Struct{})
		}

	case RefSet:
		if len(seenCtors) > 0 {
			present = append(present, Ref{})
		} else {
			missing = append(missing, Ref{})
		}

	case UnionSet:
		if len(seenCtors) > 0 {
			present = append(present, UnionField{})
		} else {
			missing = append(missing, UnionField{})
		}

	case VariantSet:
		seenSet := make([]bool, len(set.Variants))
		for _, c := range seenCtors {
			seenSet[c.(Variant)] = true
		}
		skippedHidden := false
		for i, vis := range set.Variants {
			v := Variant(i)
			switch {
			case seenSet[i]:
				present = append(present, v)
			case vis == VariantEmpty:
				missingEmpty = append(missingEmpty, v)
			case vis == VariantHidden:
				skippedHidden = true
			default:
				missing = append(missing, v)
			}
		}
		if skippedHidden {
			missing = append(missing, Hidden{})
		}
		if set.NonExhaustive {
			missing = append(missing, NonExhaustive{})
		}

	case BoolSet:
		var seenFalse, seenTrue bool
		for _, c := range seenCtors {
			if c.(Bool) {
				seenTrue = true
			} else {
				seenFalse = true
			}
		}
		for _, b := range []struct {
			ok bool
			c  Bool
		}{{seenFalse, false}, {seenTrue, true}} {
			if b.ok {
				present = append(present, b.c)
			} else {
				missing = append(missing, b.c)
			}
		}

	case IntegerSet:
		column := make([]IntRange, 0, len(seenCtors))
		for _, c := range seenCtors {
			column = append(column, c.(IntRange))
		}
		for _, r := range set.Ranges {
			for _, sr := range r.split(column) {
				if sr.presence == seen {
					present = append(present, sr.r)
				} else {
					missing = append(missing, sr.r)
				}
			}
		}

	case SliceSet:
		column := make([]Slice, 0, len(seenCtors))
		for _, c := range seenCtors {
			column = append(column, c.(Slice))
		}
		base := NewSlice(set.ArrayLen, VarLen(0, 0))
		for _, ss := range base.split(column) {
			switch {
			case ss.presence == seen:
				present = append(present, ss.s)
			case set.SubtypeIsEmpty && ss.s.Arity() != 0:
				missingEmpty = append(missingEmpty, ss.s)
			default:
				missing = append(missing, ss.s)
			}
		}

	case UnlistableSet:
		// Values of this type cannot be listed: every seen constructor is
		// present as is and the rest is represented by NonExhaustive.
		present = append(present, seenCtors...)
		missing = append(missing, NonExhaustive{})

	case EmptySet:
		// Listing NonExhaustive here makes the type look inhabited unless
		// empty constructors may be omitted.
		missingEmpty = append(missingEmpty, NonExhaustive{})

	default:
		panic("pattern: unknown constructor set")
	}

	// Uninhabited constructors are only treated as such with the exhaustive
	// patterns feature, or for a scrutinee of a type with no constructors.
	_, noCtors := set.(EmptySet)
	if !pcx.mcx.IsExhaustivePatternsFeatureOn() && !(pcx.IsScrutinee && noCtors) {
		missing = append(missing, missingEmpty...)
		missingEmpty = nil
	}

	return splitConstructorSet{
		present:      present,
		missing:      missing,
		missingEmpty: missingEmpty,
	}
}
