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

// A patternColumn is a list of patterns for the same place, used by lints
// that walk the arms column by column. Or-patterns are flattened.
type patternColumn[Ty any] struct {
	pats []*DeconstructedPat[Ty]
}

func newPatternColumn[Ty any](arms []MatchArm[Ty]) *patternColumn[Ty] {
	c := &patternColumn[Ty]{pats: make([]*DeconstructedPat[Ty], 0, len(arms))}
	for _, arm := range arms {
		c.expandAndPush(arm.Pat)
	}
	return c
}

func (c *patternColumn[Ty]) expandAndPush(p *DeconstructedPat[Ty]) {
	c.pats = append(c.pats, p.flatten()...)
}

// specialize returns one column per field of ctor, holding the fields of
// the patterns that cover ctor.
func (c *patternColumn[Ty]) specialize(pcx PlaceCtxt[Ty], ctor Constructor) []*patternColumn[Ty] {
	arity := pcx.ctorArity(ctor)
	if arity == 0 {
		return nil
	}
	cols := make([]*patternColumn[Ty], arity)
	for i := range cols {
		cols[i] = &patternColumn[Ty]{}
	}
	for _, p := range c.pats {
		if !IsCoveredBy(ctor, p.ctor) {
			continue
		}
		for i, f := range p.specialize(pcx, ctor) {
			cols[i].expandAndPush(f)
		}
	}
	return cols
}

// OverlappingRanges reports a range pattern whose first or last value is
// also the last or first value of other range patterns in the same place,
// as in 0..=10 and 10..=20.
type OverlappingRanges[Ty any] struct {
	Pat          *DeconstructedPat[Ty]
	OverlapsWith []*DeconstructedPat[Ty]

	// OverlapsOn is the singleton range of the shared endpoint.
	OverlapsOn IntRange
}

// OverlappingRangeEndpoints returns the integer range patterns of arms that
// share exactly an endpoint with another range pattern. Singleton patterns
// are not reported. Callers usually pass only the arms found useful.
func OverlappingRangeEndpoints[Ty any](mcx *MatchCtxt[Ty], arms []MatchArm[Ty]) ([]OverlappingRanges[Ty], error) {
	var out []OverlappingRanges[Ty]
	if err := collectOverlappingRangeEndpoints(mcx, newPatternColumn(arms), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectOverlappingRangeEndpoints[Ty any](mcx *MatchCtxt[Ty], col *patternColumn[Ty], out *[]OverlappingRanges[Ty]) error {
	if len(col.pats) == 0 {
		return nil
	}
	pcx := PlaceCtxt[Ty]{mcx: mcx, Ty: col.pats[0].ty}
	set, err := pcx.ctorsForTy()
	if err != nil {
		return err
	}
	ctors := make([]Constructor, len(col.pats))
	for i, p := range col.pats {
		ctors[i] = p.ctor
	}
	splitSet := split(pcx, set, ctors)

	if !isIntegers(set) {
		for _, ctor := range splitSet.present {
			for _, sub := range col.specialize(pcx, ctor) {
				if err := collectOverlappingRangeEndpoints(mcx, sub, out); err != nil {
					return err
				}
			}
		}
		return nil
	}

	// Two ranges that overlap produce their intersection as a singleton
	// range when split.
	for _, c := range splitSet.present {
		overlapRange, ok := c.(IntRange)
		if !ok || !overlapRange.IsSingleton() {
			continue
		}
		overlap := overlapRange.Lo
		var prefixes, suffixes []*DeconstructedPat[Ty]
		for _, p := range col.pats {
			r, ok := p.ctor.(IntRange)
			if !ok || r.IsSingleton() {
				continue
			}
			switch {
			case r.Lo.Cmp(overlap) == 0:
				// overlap..=hi overlaps with every lo..=overlap seen so far.
				if len(prefixes) > 0 {
					*out = append(*out, OverlappingRanges[Ty]{
						Pat:          p,
						OverlapsWith: append([]*DeconstructedPat[Ty](nil), prefixes...),
						OverlapsOn:   overlapRange,
					})
				}
				suffixes = append(suffixes, p)
			case r.Hi.Cmp(overlap.PlusOne()) == 0:
				if len(suffixes) > 0 {
					*out = append(*out, OverlappingRanges[Ty]{
						Pat:          p,
						OverlapsWith: append([]*DeconstructedPat[Ty](nil), suffixes...),
						OverlapsOn:   overlapRange,
					})
				}
				prefixes = append(prefixes, p)
			}
		}
	}
	return nil
}
