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

import "slices"

// A Node is a node of the syntax tree.
type Node interface {
	Pos() Pos
}

// Pattern nodes.
type (
	// A Pat is a pattern.
	Pat interface {
		Node
		patNode()
	}

	// WildPat is the pattern _.
	WildPat struct {
		At Pos
	}

	// BindPat binds a name, optionally to a subpattern: x or x @ p.
	BindPat struct {
		At   Pos
		Name string
		Sub  Pat // or nil
	}

	// LitPat is a literal pattern. Kind is INT, FLOAT, CHAR, STRING or
	// IDENT. An IDENT literal is true, false or an integer type constant
	// such as u8::MAX. Neg is set for negative numbers.
	LitPat struct {
		At    Pos
		Kind  Token
		Value string
		Neg   bool
	}

	// RangePat is a range a..=b, a..b, a.., ..=b or ..b. Lo or Hi is nil for a
	// half-open range.
	RangePat struct {
		At        Pos
		Lo, Hi    *LitPat
		Inclusive bool
	}

	// TuplePat is a tuple (a, b, ..). Elements may include a RestPat.
	TuplePat struct {
		At    Pos
		Elems []Pat
	}

	// RestPat is the .. placeholder in tuples and slices, optionally bound
	// as in x @ .. .
	RestPat struct {
		At   Pos
		Name string
	}

	// SlicePat is a slice or array pattern [a, .., b].
	SlicePat struct {
		At    Pos
		Elems []Pat
	}

	// RefPat is a reference pattern &p.
	RefPat struct {
		At  Pos
		Sub Pat
	}

	// PathPat is a path, optionally followed by tuple fields: Enum::V,
	// None, Some(x), Pair(a, b).
	PathPat struct {
		At     Pos
		Path   []string
		Args   []Pat
		Parens bool
	}

	// StructPat is a path followed by named fields: Point { x: 0, .. }.
	StructPat struct {
		At     Pos
		Path   []string
		Fields []*FieldPat
		Rest   bool
	}

	// FieldPat is a named field in a StructPat. A shorthand field x has a
	// BindPat value.
	FieldPat struct {
		At    Pos
		Name  string
		Value Pat
	}

	// OrPat is an or-pattern a | b.
	OrPat struct {
		At   Pos
		Alts []Pat
	}

	// OpaquePat is an opaque constant $NAME.
	OpaquePat struct {
		At   Pos
		Name string
	}
)

func (p *WildPat) Pos() Pos   { return p.At }
func (p *BindPat) Pos() Pos   { return p.At }
func (p *LitPat) Pos() Pos    { return p.At }
func (p *RangePat) Pos() Pos  { return p.At }
func (p *TuplePat) Pos() Pos  { return p.At }
func (p *RestPat) Pos() Pos   { return p.At }
func (p *SlicePat) Pos() Pos  { return p.At }
func (p *RefPat) Pos() Pos    { return p.At }
func (p *PathPat) Pos() Pos   { return p.At }
func (p *StructPat) Pos() Pos { return p.At }
func (p *FieldPat) Pos() Pos  { return p.At }
func (p *OrPat) Pos() Pos     { return p.At }
func (p *OpaquePat) Pos() Pos { return p.At }

func (*WildPat) patNode()   {}
func (*BindPat) patNode()   {}
func (*LitPat) patNode()    {}
func (*RangePat) patNode()  {}
func (*TuplePat) patNode()  {}
func (*RestPat) patNode()   {}
func (*SlicePat) patNode()  {}
func (*RefPat) patNode()    {}
func (*PathPat) patNode()   {}
func (*StructPat) patNode() {}
func (*OrPat) patNode()     {}
func (*OpaquePat) patNode() {}

// Type nodes.
type (
	// A Type is a type expression.
	Type interface {
		Node
		typeNode()
	}

	// NamedType is a primitive or declared type, with optional type
	// arguments as in Option<u8>.
	NamedType struct {
		At   Pos
		Name string
		Args []Type
	}

	// TupleType is a tuple type. The unit type () has no elements.
	TupleType struct {
		At    Pos
		Elems []Type
	}

	// ArrayType is [T; N].
	ArrayType struct {
		At   Pos
		Elem Type
		Len  int
	}

	// SliceType is [T].
	SliceType struct {
		At   Pos
		Elem Type
	}

	// RefType is &T.
	RefType struct {
		At   Pos
		Elem Type
	}

	// NeverType is !.
	NeverType struct {
		At Pos
	}
)

func (t *NamedType) Pos() Pos { return t.At }
func (t *TupleType) Pos() Pos { return t.At }
func (t *ArrayType) Pos() Pos { return t.At }
func (t *SliceType) Pos() Pos { return t.At }
func (t *RefType) Pos() Pos   { return t.At }
func (t *NeverType) Pos() Pos { return t.At }

func (*NamedType) typeNode() {}
func (*TupleType) typeNode() {}
func (*ArrayType) typeNode() {}
func (*SliceType) typeNode() {}
func (*RefType) typeNode()   {}
func (*NeverType) typeNode() {}

// Declaration nodes.
type (
	// A Decl is a type declaration.
	Decl interface {
		Node
		DeclName() string
	}

	// StructDecl declares a struct with tuple fields, named fields, or
	// no fields at all.
	StructDecl struct {
		At     Pos
		Attrs  []string
		Name   string
		Fields []*FieldDecl
		Named  bool
	}

	// EnumDecl declares an enum.
	EnumDecl struct {
		At       Pos
		Attrs    []string
		Name     string
		Variants []*VariantDecl
	}

	// UnionDecl declares a union with named fields.
	UnionDecl struct {
		At     Pos
		Attrs  []string
		Name   string
		Fields []*FieldDecl
	}

	// VariantDecl is a variant of an enum.
	VariantDecl struct {
		At     Pos
		Attrs  []string
		Name   string
		Fields []*FieldDecl
		Named  bool
	}

	// FieldDecl is a field. Name is empty for tuple fields.
	FieldDecl struct {
		At   Pos
		Name string
		Type Type
	}
)

func (d *StructDecl) Pos() Pos  { return d.At }
func (d *EnumDecl) Pos() Pos    { return d.At }
func (d *UnionDecl) Pos() Pos   { return d.At }
func (d *VariantDecl) Pos() Pos { return d.At }
func (d *FieldDecl) Pos() Pos   { return d.At }

func (d *StructDecl) DeclName() string { return d.Name }
func (d *EnumDecl) DeclName() string   { return d.Name }
func (d *UnionDecl) DeclName() string  { return d.Name }

var intTypeNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
}

// IsIntTypeName reports whether name is a builtin integer type.
func IsIntTypeName(name string) bool { return intTypeNames[name] }

// HasAttr reports whether attrs contains name.
func HasAttr(attrs []string, name string) bool {
	return slices.Contains(attrs, name)
}

// A File is a list of declarations.
type File struct {
	Decls []Decl
}
