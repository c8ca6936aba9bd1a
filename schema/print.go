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
	"strings"

	"matchcheck.dev/go/pattern"
	"matchcheck.dev/go/syntax"
)

// FormatPat returns the source form of a lowered pattern.
func FormatPat(p *Pat) string {
	if n, ok := p.Data.(syntax.Node); ok {
		return syntax.Format(n)
	}
	return p.String()
}

// FormatWitness returns a witness in pattern syntax. Integer bounds that
// coincide with the limits of their type are written as T::MIN and
// T::MAX.
func FormatWitness(w *Witness) string {
	var b strings.Builder
	writeWitness(&b, w)
	return b.String()
}

func writeWitness(b *strings.Builder, w *Witness) {
	t := w.Ty()
	fields := w.Fields()
	switch c := w.Ctor().(type) {
	case pattern.Bool:
		fmt.Fprint(b, bool(c))

	case pattern.Str:
		fmt.Fprintf(b, "%q", string(c))

	case pattern.IntRange:
		writeIntRange(b, c, t)

	case pattern.FloatRange:
		b.WriteString(c.String())

	case pattern.Ref:
		b.WriteByte('&')
		writeWitness(b, fields[0])

	case pattern.Slice:
		b.WriteByte('[')
		for i, f := range fields {
			if c.Kind.VarLen && i == c.Kind.Prefix {
				b.WriteString("..")
				b.WriteString(", ")
			}
			writeWitness(b, f)
			if i < len(fields)-1 {
				b.WriteString(", ")
			}
		}
		if c.Kind.VarLen && c.Kind.Suffix == 0 {
			if len(fields) > 0 {
				b.WriteString(", ")
			}
			b.WriteString("..")
		}
		b.WriteByte(']')

	case pattern.Struct, pattern.Variant, pattern.UnionField:
		writeAdt(b, c, t, fields)

	default:
		b.WriteByte('_')
	}
}

func writeList(b *strings.Builder, fields []*Witness) {
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		writeWitness(b, f)
	}
}

func writeAdt(b *strings.Builder, c pattern.Constructor, t *Type, fields []*Witness) {
	if t.Kind == TupleKind {
		b.WriteByte('(')
		writeList(b, fields)
		if len(fields) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
		return
	}

	def := t.Def
	v := def.Variants[0]
	name := def.Name
	if idx, ok := c.(pattern.Variant); ok {
		v = def.Variants[idx]
		name = v.Name
		if !def.Builtin {
			name = def.Name + "::" + v.Name
		}
	}
	b.WriteString(name)

	switch {
	case len(v.Fields) == 0:

	case !v.Named:
		b.WriteByte('(')
		writeList(b, fields)
		b.WriteByte(')')

	default:
		b.WriteString(" { ")
		elided := false
		n := 0
		for i, f := range fields {
			if _, ok := f.Ctor().(pattern.Wildcard); ok {
				elided = true
				continue
			}
			if n > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s: ", v.Fields[i].Name)
			writeWitness(b, f)
			n++
		}
		if elided {
			if n > 0 {
				b.WriteString(", ")
			}
			b.WriteString("..")
		}
		b.WriteString(" }")
	}
}

func writeIntRange(b *strings.Builder, r pattern.IntRange, t *Type) {
	if r.IsSingleton() {
		writeInt(b, r.Lo, t)
		return
	}
	min := pattern.Finite(t.Min())
	switch {
	case r.Lo.IsNegInfinity() && r.Hi.IsPosInfinity():
		b.WriteByte('_')

	case r.Hi.IsPosInfinity():
		writeInt(b, r.Lo, t)
		b.WriteString("..")

	case r.Hi.Cmp(min) <= 0:
		// Values below the minimum of a pointer-sized type.
		if !r.Lo.IsNegInfinity() {
			writeInt(b, r.Lo, t)
		}
		b.WriteString("..")
		writeInt(b, min, t)

	default:
		if !r.Lo.IsNegInfinity() {
			writeInt(b, r.Lo, t)
		}
		b.WriteString("..=")
		writeInt(b, r.Hi.MinusOne(), t)
	}
}

func writeInt(b *strings.Builder, x pattern.MaybeInfiniteInt, t *Type) {
	if t.Kind == CharKind {
		b.WriteString(syntax.QuoteChar(rune(x.BigInt().Int64())))
		return
	}
	max := pattern.Finite(t.Max())
	switch {
	case x.Cmp(max) >= 0:
		fmt.Fprintf(b, "%s::MAX", t.Name)
	case t.Signed && x.Cmp(pattern.Finite(t.Min())) <= 0:
		fmt.Fprintf(b, "%s::MIN", t.Name)
	default:
		b.WriteString(x.String())
	}
}
