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

	"github.com/cockroachdb/apd/v3"
	"matchcheck.dev/go/syntax"
)

// Kind is the kind of a type.
type Kind uint8

const (
	BoolKind Kind = iota
	CharKind
	IntKind
	FloatKind
	StrKind
	NeverKind
	TupleKind
	ArrayKind
	SliceKind
	RefKind
	AdtKind
	OpaqueKind
)

// A Type is a resolved type. Types are compared by pointer for primitives
// and declarations, and structurally otherwise; use Identical.
type Type struct {
	Kind Kind
	Name string // primitive or declaration name

	// Integers and floats
	Bits     int
	Signed   bool
	PtrSized bool

	Elems []*Type // tuple elements
	Elem  *Type   // array, slice, reference and opaque element
	Len   int     // array length

	Def *Def // structs, enums and unions
}

// DefKind is the kind of a declaration.
type DefKind uint8

const (
	StructDef DefKind = iota
	EnumDef
	UnionDef
)

// A Def is a struct, enum or union declaration. Structs and unions have a
// single variant holding their fields.
type Def struct {
	Name     string
	Kind     DefKind
	Variants []*Variant

	// NonExhaustive enums may gain variants: they must be matched with a
	// wildcard.
	NonExhaustive bool

	// Builtin is set for Option and Result, whose variants are printed
	// without the enum name.
	Builtin bool

	// Args holds the type arguments of a builtin instantiation.
	Args []*Type

	pos syntax.Pos
}

// A Variant is an enum variant or the body of a struct or union.
type Variant struct {
	Name   string
	Fields []*Field
	Named  bool

	// Hidden variants are not named in witnesses.
	Hidden bool
}

// A Field is a field of a variant. Name is empty for tuple fields.
type Field struct {
	Name string
	Type *Type
}

// FieldIndex returns the index of the named field, or -1.
func (v *Variant) FieldIndex(name string) int {
	for i, f := range v.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// VariantIndex returns the index of the named variant, or -1.
func (d *Def) VariantIndex(name string) int {
	for i, v := range d.Variants {
		if v.Name == name {
			return i
		}
	}
	return -1
}

func intType(name string, bits int, signed, ptrSized bool) *Type {
	return &Type{Kind: IntKind, Name: name, Bits: bits, Signed: signed, PtrSized: ptrSized}
}

// Primitive types.
var (
	Bool  = &Type{Kind: BoolKind, Name: "bool"}
	Char  = &Type{Kind: CharKind, Name: "char"}
	Str   = &Type{Kind: StrKind, Name: "str"}
	F32   = &Type{Kind: FloatKind, Name: "f32", Bits: 32}
	F64   = &Type{Kind: FloatKind, Name: "f64", Bits: 64}
	Never = &Type{Kind: NeverKind, Name: "!"}
	Unit  = &Type{Kind: TupleKind}

	I8    = intType("i8", 8, true, false)
	I16   = intType("i16", 16, true, false)
	I32   = intType("i32", 32, true, false)
	I64   = intType("i64", 64, true, false)
	I128  = intType("i128", 128, true, false)
	Isize = intType("isize", 64, true, true)
	U8    = intType("u8", 8, false, false)
	U16   = intType("u16", 16, false, false)
	U32   = intType("u32", 32, false, false)
	U64   = intType("u64", 64, false, false)
	U128  = intType("u128", 128, false, false)
	Usize = intType("usize", 64, false, true)
)

var primitives = map[string]*Type{}

func init() {
	for _, t := range []*Type{
		Bool, Char, Str, F32, F64,
		I8, I16, I32, I64, I128, Isize,
		U8, U16, U32, U64, U128, Usize,
	} {
		primitives[t.Name] = t
	}
}

// TupleOf returns the tuple type with the given elements.
func TupleOf(elems ...*Type) *Type {
	if len(elems) == 0 {
		return Unit
	}
	return &Type{Kind: TupleKind, Elems: elems}
}

// RefTo returns the reference type &elem.
func RefTo(elem *Type) *Type { return &Type{Kind: RefKind, Elem: elem} }

// ArrayOf returns the array type [elem; n].
func ArrayOf(elem *Type, n int) *Type { return &Type{Kind: ArrayKind, Elem: elem, Len: n} }

// SliceOf returns the slice type [elem].
func SliceOf(elem *Type) *Type { return &Type{Kind: SliceKind, Elem: elem} }

// OpaqueOf returns an opaque alias of elem.
func OpaqueOf(elem *Type) *Type { return &Type{Kind: OpaqueKind, Name: "opaque", Elem: elem} }

// Min returns the smallest value of an integer or char type.
func (t *Type) Min() *apd.BigInt {
	if t.Kind == CharKind || !t.Signed {
		return apd.NewBigInt(0)
	}
	n := new(apd.BigInt).Lsh(apd.NewBigInt(1), uint(t.Bits-1))
	return n.Neg(n)
}

// Max returns the largest value of an integer or char type.
func (t *Type) Max() *apd.BigInt {
	if t.Kind == CharKind {
		return apd.NewBigInt(0x10FFFF)
	}
	bits := t.Bits
	if t.Signed {
		bits--
	}
	n := new(apd.BigInt).Lsh(apd.NewBigInt(1), uint(bits))
	return n.Sub(n, apd.NewBigInt(1))
}

func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	switch t.Kind {
	case TupleKind:
		b.WriteByte('(')
		for i, e := range t.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b)
		}
		if len(t.Elems) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case ArrayKind:
		b.WriteByte('[')
		t.Elem.write(b)
		fmt.Fprintf(b, "; %d]", t.Len)
	case SliceKind:
		b.WriteByte('[')
		t.Elem.write(b)
		b.WriteByte(']')
	case RefKind:
		b.WriteByte('&')
		t.Elem.write(b)
	case OpaqueKind:
		b.WriteString("opaque<")
		t.Elem.write(b)
		b.WriteByte('>')
	case AdtKind:
		b.WriteString(t.Def.Name)
		if len(t.Def.Args) > 0 {
			b.WriteByte('<')
			for i, a := range t.Def.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				a.write(b)
			}
			b.WriteByte('>')
		}
	default:
		b.WriteString(t.Name)
	}
}

// Identical reports whether t and u denote the same type.
func Identical(t, u *Type) bool {
	if t == u {
		return true
	}
	if t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case TupleKind:
		if len(t.Elems) != len(u.Elems) {
			return false
		}
		for i := range t.Elems {
			if !Identical(t.Elems[i], u.Elems[i]) {
				return false
			}
		}
		return true
	case ArrayKind:
		return t.Len == u.Len && Identical(t.Elem, u.Elem)
	case SliceKind, RefKind, OpaqueKind:
		return Identical(t.Elem, u.Elem)
	case AdtKind:
		return t.Def == u.Def
	}
	// Primitives are singletons.
	return false
}
