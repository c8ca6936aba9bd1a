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
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"
	"matchcheck.dev/go/pattern"
	"matchcheck.dev/go/syntax"
)

// Pat is a pattern over the types of this package.
type Pat = pattern.DeconstructedPat[*Type]

// Witness is a witness pattern over the types of this package.
type Witness = pattern.WitnessPat[*Type]

// ParsePat parses src and lowers it against type t.
func (e *Env) ParsePat(src string, t *Type) (*Pat, error) {
	x, err := syntax.ParsePat(src)
	if err != nil {
		return nil, err
	}
	return e.Lower(x, t)
}

// Lower converts a parsed pattern for a value of type t into the form
// used by the usefulness computation. The Data field of each resulting
// pattern holds the syntax node it was lowered from.
//
// References are dereferenced implicitly: a pattern that is neither a
// reference pattern nor a binding matches through any number of
// references. A single identifier that does not name a variant or unit
// struct of the expected type is a binding; it is an error for such an
// identifier to start with an uppercase letter.
func (e *Env) Lower(p syntax.Pat, t *Type) (*Pat, error) {
	l := &lowerer{env: e}
	x := l.lower(p, t)
	l.errs.RemoveMultiples()
	if err := l.errs.Err(); err != nil {
		return nil, err
	}
	return x, nil
}

type lowerer struct {
	env  *Env
	errs syntax.ErrorList
}

// errorf records an error and returns a wildcard so that lowering can
// continue.
func (l *lowerer) errorf(n syntax.Node, t *Type, format string, args ...interface{}) *Pat {
	l.errs.Addf(n.Pos(), format, args...)
	return pattern.NewWildcard(t)
}

func (l *lowerer) mismatch(p syntax.Pat, t *Type) *Pat {
	return l.errorf(p, t, "mismatched types: expected %v, found %s", t, describe(p))
}

func describe(p syntax.Pat) string {
	switch p := p.(type) {
	case *syntax.LitPat:
		switch p.Kind {
		case syntax.INT:
			return "integer"
		case syntax.FLOAT:
			return "float"
		case syntax.CHAR:
			return "char"
		case syntax.STRING:
			return "string"
		}
		if strings.Contains(p.Value, "::") {
			return p.Value
		}
		return "bool"
	case *syntax.RangePat:
		return "range pattern"
	case *syntax.TuplePat:
		return "tuple pattern"
	case *syntax.SlicePat:
		return "slice pattern"
	case *syntax.RefPat:
		return "reference pattern"
	}
	return fmt.Sprintf("pattern %s", syntax.Format(p))
}

func (l *lowerer) lower(p syntax.Pat, t *Type) *Pat {
	x := l.lowerPat(p, t)
	if x.Data == nil {
		x.Data = p
	}
	return x
}

func (l *lowerer) lowerPat(p syntax.Pat, t *Type) *Pat {
	switch p := p.(type) {
	case *syntax.WildPat:
		return pattern.NewWildcard(t)

	case *syntax.BindPat:
		if p.Sub == nil {
			return pattern.NewWildcard(t)
		}
		return l.lower(p.Sub, t)

	case *syntax.OrPat:
		alts := make([]*Pat, len(p.Alts))
		for i, a := range p.Alts {
			alts[i] = l.lower(a, t)
		}
		return pattern.NewOrPat(alts, t)

	case *syntax.OpaquePat:
		return pattern.NewPat(pattern.Constructor(pattern.Opaque(l.env.newOpaqueID())), nil, t)

	case *syntax.RestPat:
		return l.errorf(p, t, "'..' patterns are only allowed in tuple, tuple struct and slice patterns")

	case *syntax.PathPat:
		if len(p.Path) == 1 && !p.Parens && !l.resolves(p.Path[0], t) {
			name := p.Path[0]
			if r, _ := utf8.DecodeRuneInString(name); unicode.IsUpper(r) {
				return l.errorf(p, t, "cannot find %s in type %v", name, t)
			}
			return pattern.NewWildcard(t)
		}
	}

	switch t.Kind {
	case OpaqueKind:
		// Patterns reveal the underlying type.
		return l.lower(p, t.Elem)

	case RefKind:
		if _, ok := p.(*syntax.RefPat); !ok {
			return pattern.NewPat[*Type](pattern.Ref{}, []*Pat{l.lower(p, t.Elem)}, t)
		}
	}

	switch p := p.(type) {
	case *syntax.RefPat:
		if t.Kind != RefKind {
			return l.mismatch(p, t)
		}
		return pattern.NewPat[*Type](pattern.Ref{}, []*Pat{l.lower(p.Sub, t.Elem)}, t)

	case *syntax.LitPat:
		return l.lit(p, t)

	case *syntax.RangePat:
		return l.rangePat(p, t)

	case *syntax.TuplePat:
		if t.Kind != TupleKind {
			return l.mismatch(p, t)
		}
		return pattern.NewPat[*Type](pattern.Struct{}, l.fieldsWithRest(p, p.Elems, t.Elems), t)

	case *syntax.SlicePat:
		return l.slice(p, t)

	case *syntax.PathPat:
		return l.path(p, t)

	case *syntax.StructPat:
		return l.structPat(p, t)
	}
	panic(fmt.Sprintf("schema: unknown pattern node %T", p))
}

// resolves reports whether name is a variant or unit struct of t, looking
// through references and opaque types.
func (l *lowerer) resolves(name string, t *Type) bool {
	for t.Kind == RefKind || t.Kind == OpaqueKind {
		t = t.Elem
	}
	if t.Kind != AdtKind {
		return false
	}
	switch t.Def.Kind {
	case EnumDef:
		return t.Def.VariantIndex(name) >= 0
	case StructDef:
		return t.Def.Name == name
	}
	return false
}

func (l *lowerer) intValue(p *syntax.LitPat, t *Type) (*apd.BigInt, bool) {
	n, err := syntax.ParseInt(p.Value)
	if err != nil {
		l.errs.Add(p.At, err.Error())
		return nil, false
	}
	if p.Neg {
		n.Neg(n)
	}
	if n.Cmp(t.Min()) < 0 || n.Cmp(t.Max()) > 0 {
		l.errs.Addf(p.At, "literal out of range for %v", t)
		return nil, false
	}
	return n, true
}

func (l *lowerer) floatValue(p *syntax.LitPat, t *Type) (float64, bool) {
	d, err := syntax.ParseFloat(p.Value)
	if err != nil {
		l.errs.Add(p.At, err.Error())
		return 0, false
	}
	if p.Neg {
		d.Neg(d)
	}
	f, err := d.Float64()
	if err != nil || math.IsInf(f, 0) || (t.Bits == 32 && math.IsInf(float64(float32(f)), 0)) {
		l.errs.Addf(p.At, "literal out of range for %v", t)
		return 0, false
	}
	if t.Bits == 32 {
		f = float64(float32(f))
	}
	return f, true
}

// bound returns the value of an integer or char literal of type t.
func (l *lowerer) bound(p *syntax.LitPat, t *Type) (pattern.MaybeInfiniteInt, bool) {
	switch {
	case t.Kind == IntKind && p.Kind == syntax.INT:
		n, ok := l.intValue(p, t)
		if !ok {
			return pattern.MaybeInfiniteInt{}, false
		}
		return pattern.Finite(n), true

	case t.Kind == IntKind && p.Kind == syntax.IDENT && p.Value == t.Name+"::MAX":
		return pattern.Finite(t.Max()), true

	case t.Kind == IntKind && p.Kind == syntax.IDENT && p.Value == t.Name+"::MIN":
		return pattern.Finite(t.Min()), true

	case t.Kind == CharKind && p.Kind == syntax.CHAR:
		r, err := syntax.UnquoteChar(p.Value)
		if err != nil {
			l.errs.Add(p.At, err.Error())
			return pattern.MaybeInfiniteInt{}, false
		}
		return pattern.FiniteInt64(int64(r)), true
	}
	l.mismatch(p, t)
	return pattern.MaybeInfiniteInt{}, false
}

func (l *lowerer) lit(p *syntax.LitPat, t *Type) *Pat {
	switch t.Kind {
	case BoolKind:
		if p.Kind == syntax.IDENT && (p.Value == "true" || p.Value == "false") {
			return pattern.NewPat[*Type](pattern.Bool(p.Value == "true"), nil, t)
		}

	case IntKind, CharKind:
		b, ok := l.bound(p, t)
		if !ok {
			return pattern.NewWildcard(t)
		}
		return pattern.NewPat[*Type](pattern.IntRangeFromSingleton(b), nil, t)

	case FloatKind:
		if p.Kind == syntax.INT || p.Kind == syntax.FLOAT {
			f, ok := l.floatValue(p, t)
			if !ok {
				return pattern.NewWildcard(t)
			}
			return pattern.NewPat[*Type](pattern.FloatRange{Lo: f, Hi: f, End: pattern.Included}, nil, t)
		}

	case StrKind:
		if p.Kind == syntax.STRING {
			s, err := syntax.Unquote(p.Value)
			if err != nil {
				return l.errorf(p, t, "%v", err)
			}
			return pattern.NewPat[*Type](pattern.Str(s), nil, t)
		}
	}
	return l.mismatch(p, t)
}

func (l *lowerer) rangePat(p *syntax.RangePat, t *Type) *Pat {
	end := pattern.Excluded
	if p.Inclusive || p.Hi == nil {
		end = pattern.Included
	}

	switch t.Kind {
	case IntKind, CharKind:
		// An omitted bound is infinite. Splitting clips ranges to the
		// values of the type, which may itself be unbounded.
		lo, hi := pattern.NegInfinity(), pattern.PosInfinity()
		ok := true
		if p.Lo != nil {
			lo, ok = l.bound(p.Lo, t)
		}
		if p.Hi != nil && ok {
			hi, ok = l.bound(p.Hi, t)
		}
		if !ok {
			return pattern.NewWildcard(t)
		}
		if c := lo.Cmp(hi); c > 0 || (c == 0 && end == pattern.Excluded) {
			return l.emptyRange(p, t, end)
		}
		return pattern.NewPat[*Type](pattern.NewIntRange(lo, hi, end), nil, t)

	case FloatKind:
		lo, hi := math.Inf(-1), math.Inf(1)
		ok := true
		if p.Lo != nil {
			lo, ok = l.floatLit(p.Lo, t)
		}
		if p.Hi != nil && ok {
			hi, ok = l.floatLit(p.Hi, t)
		}
		if !ok {
			return pattern.NewWildcard(t)
		}
		if lo > hi || (lo == hi && end == pattern.Excluded) {
			return l.emptyRange(p, t, end)
		}
		return pattern.NewPat[*Type](pattern.FloatRange{Lo: lo, Hi: hi, End: end}, nil, t)
	}
	return l.mismatch(p, t)
}

func (l *lowerer) floatLit(p *syntax.LitPat, t *Type) (float64, bool) {
	if p.Kind != syntax.INT && p.Kind != syntax.FLOAT {
		l.mismatch(p, t)
		return 0, false
	}
	return l.floatValue(p, t)
}

func (l *lowerer) emptyRange(p *syntax.RangePat, t *Type, end pattern.RangeEnd) *Pat {
	if end == pattern.Excluded {
		return l.errorf(p, t, "lower range bound must be less than upper")
	}
	return l.errorf(p, t, "lower range bound must be less than or equal to upper")
}

// fieldsWithRest lowers the patterns elems against the field types tys.
// At most one element may be a rest pattern, which stands for wildcards
// for any number of fields.
func (l *lowerer) fieldsWithRest(n syntax.Node, elems []syntax.Pat, tys []*Type) []*Pat {
	rest := -1
	for i, e := range elems {
		r, ok := e.(*syntax.RestPat)
		if !ok {
			continue
		}
		if rest >= 0 {
			l.errs.Add(r.At, "'..' can only be used once per pattern")
		}
		if r.Name != "" {
			l.errs.Add(r.At, "'..' can only be bound in slice patterns")
		}
		rest = i
	}

	out := make([]*Pat, len(tys))
	for i, t := range tys {
		out[i] = pattern.NewWildcard(t)
	}
	switch {
	case rest < 0 && len(elems) != len(tys):
		l.errs.Addf(n.Pos(), "this pattern has %d fields, but the corresponding type has %d fields", len(elems), len(tys))
		return out
	case rest >= 0 && len(elems)-1 > len(tys):
		l.errs.Addf(n.Pos(), "this pattern has %d fields, but the corresponding type has %d fields", len(elems)-1, len(tys))
		return out
	case rest < 0:
		for i, e := range elems {
			out[i] = l.lower(e, tys[i])
		}
		return out
	}

	for i, e := range elems[:rest] {
		out[i] = l.lower(e, tys[i])
	}
	suffix := elems[rest+1:]
	off := len(tys) - len(suffix)
	for i, e := range suffix {
		out[off+i] = l.lower(e, tys[off+i])
	}
	return out
}

func (l *lowerer) slice(p *syntax.SlicePat, t *Type) *Pat {
	if t.Kind != ArrayKind && t.Kind != SliceKind {
		return l.mismatch(p, t)
	}

	var prefix, suffix []*Pat
	rest := false
	for _, e := range p.Elems {
		if _, ok := e.(*syntax.RestPat); ok {
			if rest {
				return l.errorf(e, t, "'..' can only be used once per slice pattern")
			}
			rest = true
			continue
		}
		x := l.lower(e, t.Elem)
		if rest {
			suffix = append(suffix, x)
		} else {
			prefix = append(prefix, x)
		}
	}

	kind := pattern.FixedLen(len(prefix))
	if rest {
		kind = pattern.VarLen(len(prefix), len(suffix))
	}
	arrayLen := pattern.NoArrayLen
	if t.Kind == ArrayKind {
		arrayLen = t.Len
		switch n := kind.Arity(); {
		case !rest && n != t.Len:
			return l.errorf(p, t, "pattern requires %d elements but array has %d", n, t.Len)
		case rest && n > t.Len:
			return l.errorf(p, t, "pattern requires at least %d elements but array has %d", n, t.Len)
		}
	}
	fields := append(prefix, suffix...)
	return pattern.NewPat[*Type](pattern.NewSlice(arrayLen, kind), fields, t)
}

// resolvePath returns the constructor named by path for a value of type t.
func (l *lowerer) resolvePath(n syntax.Pat, path []string, t *Type) (*Variant, pattern.Constructor, bool) {
	if t.Kind != AdtKind {
		l.mismatch(n, t)
		return nil, nil, false
	}
	def := t.Def
	idx := -1
	switch len(path) {
	case 1:
		switch {
		case def.Kind == EnumDef:
			idx = def.VariantIndex(path[0])
		case def.Name == path[0]:
			idx = 0
		}
	case 2:
		if path[0] == def.Name && def.Kind == EnumDef {
			idx = def.VariantIndex(path[1])
			if idx < 0 {
				l.errs.Addf(n.Pos(), "no variant named %s in enum %s", path[1], def.Name)
				return nil, nil, false
			}
		}
	}
	if idx < 0 {
		l.mismatch(n, t)
		return nil, nil, false
	}

	var c pattern.Constructor
	switch def.Kind {
	case EnumDef:
		c = pattern.Variant(idx)
	case StructDef:
		c = pattern.Struct{}
	case UnionDef:
		c = pattern.UnionField{}
	}
	return def.Variants[idx], c, true
}

func fieldTypes(v *Variant) []*Type {
	tys := make([]*Type, len(v.Fields))
	for i, f := range v.Fields {
		tys[i] = f.Type
	}
	return tys
}

func (l *lowerer) path(p *syntax.PathPat, t *Type) *Pat {
	v, c, ok := l.resolvePath(p, p.Path, t)
	if !ok {
		return pattern.NewWildcard(t)
	}
	if _, ok := c.(pattern.UnionField); ok {
		return l.errorf(p, t, "union patterns must name exactly one field")
	}
	switch {
	case p.Parens && v.Named:
		return l.errorf(p, t, "expected tuple struct or tuple variant, found %s", v.Name)
	case !p.Parens && len(v.Fields) > 0:
		return l.errorf(p, t, "expected unit struct, unit variant or constant, found %s", v.Name)
	}
	return pattern.NewPat(c, l.fieldsWithRest(p, p.Args, fieldTypes(v)), t)
}

func (l *lowerer) structPat(p *syntax.StructPat, t *Type) *Pat {
	v, c, ok := l.resolvePath(p, p.Path, t)
	if !ok {
		return pattern.NewWildcard(t)
	}
	_, isUnion := c.(pattern.UnionField)
	if isUnion {
		switch {
		case p.Rest:
			return l.errorf(p, t, "'..' cannot be used in union patterns")
		case len(p.Fields) != 1:
			return l.errorf(p, t, "union patterns must name exactly one field")
		}
	}

	tys := fieldTypes(v)
	fields := make([]*Pat, len(tys))
	for i, ft := range tys {
		fields[i] = pattern.NewWildcard(ft)
	}
	seen := make([]bool, len(tys))
	for _, f := range p.Fields {
		i := v.FieldIndex(f.Name)
		if i < 0 || !v.Named {
			l.errs.Addf(f.At, "%s has no field named %s", v.Name, f.Name)
			continue
		}
		if seen[i] {
			l.errs.Addf(f.At, "field %s bound multiple times in the pattern", f.Name)
			continue
		}
		seen[i] = true
		fields[i] = l.lower(f.Value, tys[i])
	}
	if !p.Rest && !isUnion {
		for i, ok := range seen {
			if !ok {
				l.errs.Addf(p.At, "pattern does not mention field %s", v.Fields[i].Name)
			}
		}
	}
	return pattern.NewPat(c, fields, t)
}
