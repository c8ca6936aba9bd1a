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
	"errors"
	"fmt"

	"matchcheck.dev/go/syntax"
)

// An Env holds the declarations of a match file and resolves type
// expressions against them.
type Env struct {
	defs  map[string]*Def
	types map[string]*Type // named and instantiated types

	opaqueID uint64
}

// NewEnv returns an environment for the declarations of f, which may be nil.
func NewEnv(f *syntax.File) (*Env, error) {
	e := &Env{
		defs:  map[string]*Def{},
		types: map[string]*Type{},
	}
	if f == nil {
		return e, nil
	}
	var errs syntax.ErrorList

	// Declare all names first so that declarations may refer to each
	// other in any order.
	for _, d := range f.Decls {
		name := d.DeclName()
		if _, ok := primitives[name]; ok || name == "Option" || name == "Result" || name == "opaque" {
			errs.Addf(d.Pos(), "cannot redeclare builtin type %s", name)
			continue
		}
		if _, ok := e.defs[name]; ok {
			errs.Addf(d.Pos(), "%s redeclared", name)
			continue
		}
		def := &Def{Name: name, pos: d.Pos()}
		e.defs[name] = def
		e.types[name] = &Type{Kind: AdtKind, Name: name, Def: def}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	for _, d := range f.Decls {
		def := e.defs[d.DeclName()]
		switch d := d.(type) {
		case *syntax.StructDecl:
			def.Kind = StructDef
			def.Variants = []*Variant{e.variant(&errs, d.Name, d.Fields, d.Named)}
		case *syntax.UnionDecl:
			def.Kind = UnionDef
			def.Variants = []*Variant{e.variant(&errs, d.Name, d.Fields, true)}
			if len(d.Fields) == 0 {
				errs.Addf(d.At, "union %s has no fields", d.Name)
			}
		case *syntax.EnumDecl:
			def.Kind = EnumDef
			def.NonExhaustive = syntax.HasAttr(d.Attrs, "non_exhaustive")
			for _, vd := range d.Variants {
				if def.VariantIndex(vd.Name) >= 0 {
					errs.Addf(vd.At, "variant %s::%s redeclared", d.Name, vd.Name)
				}
				v := e.variant(&errs, vd.Name, vd.Fields, vd.Named)
				v.Hidden = syntax.HasAttr(vd.Attrs, "hidden")
				def.Variants = append(def.Variants, v)
			}
		}
	}
	if len(errs) == 0 {
		for _, d := range f.Decls {
			e.checkFinite(&errs, e.defs[d.DeclName()])
		}
	}
	errs.RemoveMultiples()
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Env) variant(errs *syntax.ErrorList, name string, fields []*syntax.FieldDecl, named bool) *Variant {
	v := &Variant{Name: name, Named: named}
	for _, fd := range fields {
		if named && v.FieldIndex(fd.Name) >= 0 {
			errs.Addf(fd.At, "field %s redeclared", fd.Name)
		}
		t, err := e.resolve(fd.Type)
		if err != nil {
			addErr(errs, fd.Type.Pos(), err)
			t = Never
		}
		v.Fields = append(v.Fields, &Field{Name: fd.Name, Type: t})
	}
	return v
}

func addErr(errs *syntax.ErrorList, pos syntax.Pos, err error) {
	var se *syntax.Error
	if errors.As(err, &se) {
		*errs = append(*errs, se)
		return
	}
	errs.Add(pos, err.Error())
}

// checkFinite reports a declaration that contains itself without going
// through a reference or a slice.
func (e *Env) checkFinite(errs *syntax.ErrorList, def *Def) {
	seen := map[*Def]bool{}
	var reaches func(t *Type) bool
	reaches = func(t *Type) bool {
		switch t.Kind {
		case TupleKind:
			for _, x := range t.Elems {
				if reaches(x) {
					return true
				}
			}
		case ArrayKind, OpaqueKind:
			return reaches(t.Elem)
		case AdtKind:
			if t.Def == def {
				return true
			}
			if seen[t.Def] {
				return false
			}
			seen[t.Def] = true
			for _, v := range t.Def.Variants {
				for _, f := range v.Fields {
					if reaches(f.Type) {
						return true
					}
				}
			}
		}
		return false
	}
	for _, v := range def.Variants {
		for _, f := range v.Fields {
			if reaches(f.Type) {
				errs.Addf(def.pos, "recursive type %s has infinite size", def.Name)
				return
			}
		}
	}
}

// Lookup returns the declared type with the given name.
func (e *Env) Lookup(name string) (*Type, bool) {
	t, ok := e.types[name]
	return t, ok
}

// ParseType parses and resolves a type expression.
func (e *Env) ParseType(src string) (*Type, error) {
	x, err := syntax.ParseType(src)
	if err != nil {
		return nil, err
	}
	return e.resolve(x)
}

func (e *Env) resolve(x syntax.Type) (*Type, error) {
	switch x := x.(type) {
	case *syntax.NeverType:
		return Never, nil

	case *syntax.RefType:
		t, err := e.resolve(x.Elem)
		if err != nil {
			return nil, err
		}
		return RefTo(t), nil

	case *syntax.SliceType:
		t, err := e.resolve(x.Elem)
		if err != nil {
			return nil, err
		}
		return SliceOf(t), nil

	case *syntax.ArrayType:
		t, err := e.resolve(x.Elem)
		if err != nil {
			return nil, err
		}
		return ArrayOf(t, x.Len), nil

	case *syntax.TupleType:
		elems, err := e.resolveList(x.Elems)
		if err != nil {
			return nil, err
		}
		return TupleOf(elems...), nil

	case *syntax.NamedType:
		args, err := e.resolveList(x.Args)
		if err != nil {
			return nil, err
		}
		return e.named(x, args)
	}
	panic(fmt.Sprintf("schema: unknown type node %T", x))
}

func (e *Env) resolveList(list []syntax.Type) ([]*Type, error) {
	var out []*Type
	for _, x := range list {
		t, err := e.resolve(x)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (e *Env) named(x *syntax.NamedType, args []*Type) (*Type, error) {
	wantArgs := func(n int) error {
		if len(args) != n {
			return &syntax.Error{Pos: x.At, Msg: fmt.Sprintf("%s takes %d type arguments, got %d", x.Name, n, len(args))}
		}
		return nil
	}
	switch x.Name {
	case "Option":
		if err := wantArgs(1); err != nil {
			return nil, err
		}
		return e.instantiate("Option", args, []*Variant{
			{Name: "None"},
			{Name: "Some", Fields: []*Field{{Type: args[0]}}},
		}), nil

	case "Result":
		if err := wantArgs(2); err != nil {
			return nil, err
		}
		return e.instantiate("Result", args, []*Variant{
			{Name: "Ok", Fields: []*Field{{Type: args[0]}}},
			{Name: "Err", Fields: []*Field{{Type: args[1]}}},
		}), nil

	case "opaque":
		if err := wantArgs(1); err != nil {
			return nil, err
		}
		return OpaqueOf(args[0]), nil
	}

	if err := wantArgs(0); err != nil {
		return nil, err
	}
	if t, ok := primitives[x.Name]; ok {
		return t, nil
	}
	if t, ok := e.types[x.Name]; ok {
		return t, nil
	}
	return nil, &syntax.Error{Pos: x.At, Msg: fmt.Sprintf("undefined type %s", x.Name)}
}

// instantiate returns the builtin enum name with the given arguments. The
// same instantiation always yields the same type.
func (e *Env) instantiate(name string, args []*Type, variants []*Variant) *Type {
	def := &Def{Name: name, Kind: EnumDef, Variants: variants, Builtin: true, Args: args}
	t := &Type{Kind: AdtKind, Name: name, Def: def}
	key := t.String()
	if prev, ok := e.types[key]; ok {
		return prev
	}
	e.types[key] = t
	return t
}

// newOpaqueID returns a fresh id for an opaque constant.
func (e *Env) newOpaqueID() uint64 {
	e.opaqueID++
	return e.opaqueID
}
