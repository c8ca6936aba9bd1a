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

package syntax

import (
	"fmt"
	"strings"
)

// Format returns the source form of a pattern, type or declaration.
func Format(n Node) string {
	var b strings.Builder
	format(&b, n)
	return b.String()
}

func format(b *strings.Builder, n Node) {
	switch x := n.(type) {
	case *WildPat:
		b.WriteString("_")

	case *BindPat:
		b.WriteString(x.Name)
		if x.Sub != nil {
			b.WriteString(" @ ")
			format(b, x.Sub)
		}

	case *LitPat:
		if x.Neg {
			b.WriteByte('-')
		}
		b.WriteString(x.Value)

	case *RangePat:
		if x.Lo != nil {
			format(b, x.Lo)
		}
		if x.Inclusive {
			b.WriteString("..=")
		} else {
			b.WriteString("..")
		}
		if x.Hi != nil {
			format(b, x.Hi)
		}

	case *TuplePat:
		b.WriteByte('(')
		formatList(b, x.Elems)
		if len(x.Elems) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')

	case *RestPat:
		if x.Name != "" {
			b.WriteString(x.Name)
			b.WriteString(" @ ")
		}
		b.WriteString("..")

	case *SlicePat:
		b.WriteByte('[')
		formatList(b, x.Elems)
		b.WriteByte(']')

	case *RefPat:
		b.WriteByte('&')
		format(b, x.Sub)

	case *PathPat:
		b.WriteString(strings.Join(x.Path, "::"))
		if x.Parens {
			b.WriteByte('(')
			formatList(b, x.Args)
			b.WriteByte(')')
		}

	case *StructPat:
		b.WriteString(strings.Join(x.Path, "::"))
		b.WriteString(" {")
		for i, f := range x.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte(' ')
			format(b, f)
		}
		if x.Rest {
			if len(x.Fields) > 0 {
				b.WriteByte(',')
			}
			b.WriteString(" ..")
		}
		b.WriteString(" }")

	case *FieldPat:
		if bp, ok := x.Value.(*BindPat); ok && bp.Name == x.Name && bp.Sub == nil {
			b.WriteString(x.Name)
			return
		}
		b.WriteString(x.Name)
		b.WriteString(": ")
		format(b, x.Value)

	case *OrPat:
		for i, a := range x.Alts {
			if i > 0 {
				b.WriteString(" | ")
			}
			format(b, a)
		}

	case *OpaquePat:
		b.WriteByte('$')
		b.WriteString(x.Name)

	case *NamedType:
		b.WriteString(x.Name)
		if len(x.Args) > 0 {
			b.WriteByte('<')
			formatList(b, x.Args)
			b.WriteByte('>')
		}

	case *TupleType:
		b.WriteByte('(')
		formatList(b, x.Elems)
		if len(x.Elems) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')

	case *ArrayType:
		b.WriteByte('[')
		format(b, x.Elem)
		fmt.Fprintf(b, "; %d]", x.Len)

	case *SliceType:
		b.WriteByte('[')
		format(b, x.Elem)
		b.WriteByte(']')

	case *RefType:
		b.WriteByte('&')
		format(b, x.Elem)

	case *NeverType:
		b.WriteByte('!')

	case *StructDecl:
		formatAttrs(b, x.Attrs)
		b.WriteString("struct ")
		b.WriteString(x.Name)
		formatFields(b, x.Fields, x.Named)

	case *EnumDecl:
		formatAttrs(b, x.Attrs)
		b.WriteString("enum ")
		b.WriteString(x.Name)
		if len(x.Variants) == 0 {
			b.WriteString(" {}")
			return
		}
		b.WriteString(" {")
		for i, v := range x.Variants {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte(' ')
			format(b, v)
		}
		b.WriteString(" }")

	case *UnionDecl:
		formatAttrs(b, x.Attrs)
		b.WriteString("union ")
		b.WriteString(x.Name)
		formatFields(b, x.Fields, true)

	case *VariantDecl:
		formatAttrs(b, x.Attrs)
		b.WriteString(x.Name)
		formatFields(b, x.Fields, x.Named)

	case *FieldDecl:
		if x.Name != "" {
			b.WriteString(x.Name)
			b.WriteString(": ")
		}
		format(b, x.Type)

	default:
		panic(fmt.Sprintf("syntax: unknown node type %T", n))
	}
}

func formatList[N Node](b *strings.Builder, list []N) {
	for i, n := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		format(b, n)
	}
}

func formatAttrs(b *strings.Builder, attrs []string) {
	for _, a := range attrs {
		fmt.Fprintf(b, "#[%s] ", a)
	}
}

func formatFields(b *strings.Builder, fields []*FieldDecl, named bool) {
	switch {
	case named && len(fields) == 0:
		b.WriteString(" {}")
	case named:
		b.WriteString(" {")
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte(' ')
			format(b, f)
		}
		b.WriteString(" }")
	case len(fields) > 0:
		b.WriteByte('(')
		formatList(b, fields)
		b.WriteByte(')')
	}
}
