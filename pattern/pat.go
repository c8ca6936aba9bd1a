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

// A DeconstructedPat is a pattern split into its head constructor and the
// patterns for the fields of that constructor. Patterns are built by the
// client before the usefulness computation, which marks the subpatterns it
// finds useful.
//
// An or-pattern has constructor Or and its alternatives as fields.
type DeconstructedPat[Ty any] struct {
	ctor   Constructor
	fields []*DeconstructedPat[Ty]
	ty     Ty

	// Data is left untouched by the algorithm. Clients may use it to link
	// a pattern to its source.
	Data any

	useful bool
}

// NewPat returns a pattern with constructor ctor and the given fields.
func NewPat[Ty any](ctor Constructor, fields []*DeconstructedPat[Ty], ty Ty) *DeconstructedPat[Ty] {
	return &DeconstructedPat[Ty]{ctor: ctor, fields: fields, ty: ty}
}

// NewWildcard returns a wildcard pattern of type ty.
func NewWildcard[Ty any](ty Ty) *DeconstructedPat[Ty] {
	return &DeconstructedPat[Ty]{ctor: Wildcard{}, ty: ty}
}

// NewOrPat returns the or-pattern with the given alternatives.
func NewOrPat[Ty any](alts []*DeconstructedPat[Ty], ty Ty) *DeconstructedPat[Ty] {
	return &DeconstructedPat[Ty]{ctor: Or{}, fields: alts, ty: ty}
}

func (p *DeconstructedPat[Ty]) Ctor() Constructor { return p.ctor }
func (p *DeconstructedPat[Ty]) Ty() Ty            { return p.ty }

// Fields returns the subpatterns of p. The result must not be modified.
func (p *DeconstructedPat[Ty]) Fields() []*DeconstructedPat[Ty] { return p.fields }

// IsOrPat reports whether p is an or-pattern.
func (p *DeconstructedPat[Ty]) IsOrPat() bool {
	_, ok := p.ctor.(Or)
	return ok
}

// flatten returns the alternatives of p with nested or-patterns expanded,
// or p itself if it is not an or-pattern.
func (p *DeconstructedPat[Ty]) flatten() []*DeconstructedPat[Ty] {
	if !p.IsOrPat() {
		return []*DeconstructedPat[Ty]{p}
	}
	var alts []*DeconstructedPat[Ty]
	for _, f := range p.fields {
		alts = append(alts, f.flatten()...)
	}
	return alts
}

// specialize returns the subpatterns of p for the fields of other, which
// must be covered by the constructor of p.
func (p *DeconstructedPat[Ty]) specialize(pcx PlaceCtxt[Ty], other Constructor) []*DeconstructedPat[Ty] {
	wildcards := func() []*DeconstructedPat[Ty] {
		tys := pcx.ctorSubTypes(other)
		pats := make([]*DeconstructedPat[Ty], len(tys))
		for i, t := range tys {
			pats[i] = NewWildcard(t)
		}
		return pats
	}

	switch c := p.ctor.(type) {
	case Wildcard:
		return wildcards()

	case Slice:
		o, ok := other.(Slice)
		if !ok || c.Arity() == o.Arity() {
			break
		}
		// A variable-length pattern covering a longer slice: fill the gap
		// between prefix and suffix with wildcards.
		if !c.Kind.VarLen {
			panic(fmt.Sprintf("pattern: fixed-length slice %v cannot cover %v", c, o))
		}
		pats := wildcards()
		copy(pats, p.fields[:c.Kind.Prefix])
		copy(pats[len(pats)-c.Kind.Suffix:], p.fields[c.Arity()-c.Kind.Suffix:])
		return pats
	}
	return p.fields
}

// setUseful marks p as useful.
func (p *DeconstructedPat[Ty]) setUseful() { p.useful = true }

// IsUseful reports whether p was found useful. An or-pattern is useful if
// one of its alternatives is.
func (p *DeconstructedPat[Ty]) IsUseful() bool {
	if p.useful {
		return true
	}
	if p.IsOrPat() {
		// Or-patterns are expanded in the matrix, so only their
		// alternatives are ever marked.
		for _, f := range p.fields {
			if f.IsUseful() {
				p.useful = true
				return true
			}
		}
	}
	return false
}

// RedundantSubpatterns returns the outermost subpatterns of p that were
// not found useful, such as unreachable alternatives of an or-pattern.
func (p *DeconstructedPat[Ty]) RedundantSubpatterns() []*DeconstructedPat[Ty] {
	if !p.IsUseful() {
		return []*DeconstructedPat[Ty]{p}
	}
	var out []*DeconstructedPat[Ty]
	for _, f := range p.fields {
		out = append(out, f.RedundantSubpatterns()...)
	}
	return out
}

func (p *DeconstructedPat[Ty]) String() string {
	var b strings.Builder
	writeDebug(&b, p.ctor, p.fields)
	return b.String()
}

// writeDebug writes a constructor-level rendering of a pattern. Clients
// that know the types render patterns in source syntax instead.
func writeDebug[P fmt.Stringer](b *strings.Builder, c Constructor, fields []P) {
	if _, ok := c.(Or); ok {
		for i, f := range fields {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(f.String())
		}
		return
	}
	b.WriteString(c.String())
	if len(fields) == 0 {
		return
	}
	b.WriteByte('(')
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	b.WriteByte(')')
}

// A WitnessPat is a pattern built by the algorithm to describe values that
// are not matched. Witnesses contain no or-patterns; wildcards stand for
// any value of their type.
type WitnessPat[Ty any] struct {
	ctor   Constructor
	fields []*WitnessPat[Ty]
	ty     Ty
}

// NewWitness returns the witness with constructor ctor and the given fields.
func NewWitness[Ty any](ctor Constructor, fields []*WitnessPat[Ty], ty Ty) *WitnessPat[Ty] {
	return &WitnessPat[Ty]{ctor: ctor, fields: fields, ty: ty}
}

// WildcardWitness returns the witness matching any value of type ty.
func WildcardWitness[Ty any](ty Ty) *WitnessPat[Ty] {
	return &WitnessPat[Ty]{ctor: Wildcard{}, ty: ty}
}

func (w *WitnessPat[Ty]) Ctor() Constructor         { return w.ctor }
func (w *WitnessPat[Ty]) Ty() Ty                    { return w.ty }
func (w *WitnessPat[Ty]) Fields() []*WitnessPat[Ty] { return w.fields }

func (w *WitnessPat[Ty]) String() string {
	var b strings.Builder
	writeDebug(&b, w.ctor, w.fields)
	return b.String()
}
