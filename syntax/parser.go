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
	"strconv"
)

// The parser stops at the first error.
type bailout struct{}

type parser struct {
	scanner Scanner
	errors  ErrorList

	// Next token
	pos Pos
	tok Token
	lit string

	// Newlines are insignificant inside brackets.
	depth int
}

func (p *parser) init(src []byte) {
	p.scanner.Init(src, &p.errors)
	p.next()
}

func (p *parser) next() {
	for {
		p.pos, p.tok, p.lit = p.scanner.Scan()
		if len(p.errors) > 0 {
			panic(bailout{})
		}
		if p.tok != NEWLINE || p.depth == 0 {
			return
		}
	}
}

func (p *parser) errorf(pos Pos, format string, args ...interface{}) {
	p.errors.Addf(pos, format, args...)
	panic(bailout{})
}

func (p *parser) errorExpected(pos Pos, what string) {
	found := p.tok.String()
	if p.tok.IsLiteral() {
		found = p.lit
	}
	p.errorf(pos, "expected %s, found %s", what, found)
}

func (p *parser) expect(tok Token) Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorExpected(pos, "'"+tok.String()+"'")
	}
	p.next()
	return pos
}

// open consumes an opening bracket and enters a nested context.
func (p *parser) open(tok Token) Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorExpected(pos, "'"+tok.String()+"'")
	}
	p.depth++
	p.next()
	return pos
}

// close consumes a closing bracket and leaves a nested context.
func (p *parser) close(tok Token) Pos {
	p.depth--
	return p.expect(tok)
}

func (p *parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

func (p *parser) skipNewlines() {
	for p.tok == NEWLINE || p.tok == SEMICOLON {
		p.next()
	}
}

func (p *parser) ident() string {
	lit := p.lit
	if p.tok != IDENT {
		p.errorExpected(p.pos, "identifier")
	}
	p.next()
	return lit
}

// list parses a comma-separated list up to the closing token close, which
// is consumed. A trailing comma is allowed. It reports whether a comma was
// seen after the last element.
func (p *parser) list(close Token, f func()) (trailingComma bool) {
	for p.tok != close && p.tok != EOF {
		f()
		trailingComma = false
		if !p.got(COMMA) {
			break
		}
		trailingComma = true
	}
	p.close(close)
	return trailingComma
}

// ---------------------------------------------------------------------------
// Patterns

func (p *parser) parsePat() Pat {
	pos := p.pos
	p.got(OR) // leading |
	x := p.parseSinglePat()
	if p.tok != OR {
		return x
	}
	alts := []Pat{x}
	for p.got(OR) {
		alts = append(alts, p.parseSinglePat())
	}
	return &OrPat{At: pos, Alts: alts}
}

func (p *parser) parseSinglePat() Pat {
	pos := p.pos
	switch p.tok {
	case IDENT:
		switch p.lit {
		case "_":
			p.next()
			return &WildPat{At: pos}
		case "true", "false":
			lit := &LitPat{At: pos, Kind: IDENT, Value: p.lit}
			p.next()
			return lit
		}
		return p.parsePathPat()

	case INT, FLOAT, CHAR, STRING, SUB:
		lo := p.parseLit()
		return p.parseRangeRest(lo)

	case DOTDOTEQ:
		p.next()
		hi := p.parseLit()
		return &RangePat{At: pos, Hi: hi, Inclusive: true}

	case DOTDOT:
		p.next()
		switch {
		case p.tok == INT, p.tok == FLOAT, p.tok == CHAR, p.tok == SUB,
			p.tok == IDENT && IsIntTypeName(p.lit):
			return &RangePat{At: pos, Hi: p.parseLit()}
		}
		return &RestPat{At: pos}

	case AND:
		p.next()
		return &RefPat{At: pos, Sub: p.parseSinglePat()}

	case DOLLAR:
		p.next()
		return &OpaquePat{At: pos, Name: p.ident()}

	case LPAREN:
		p.open(LPAREN)
		var elems []Pat
		trailing := p.list(RPAREN, func() {
			elems = append(elems, p.parsePat())
		})
		if len(elems) == 1 && !trailing {
			if _, ok := elems[0].(*RestPat); !ok {
				return elems[0] // parenthesized pattern
			}
		}
		return &TuplePat{At: pos, Elems: elems}

	case LBRACK:
		p.open(LBRACK)
		var elems []Pat
		p.list(RBRACK, func() {
			elems = append(elems, p.parsePat())
		})
		return &SlicePat{At: pos, Elems: elems}
	}
	p.errorExpected(pos, "pattern")
	return nil
}

func (p *parser) parseLit() *LitPat {
	pos := p.pos
	neg := p.got(SUB)
	switch p.tok {
	case INT, FLOAT:
	case IDENT:
		if !neg && IsIntTypeName(p.lit) {
			path := []string{p.ident()}
			for p.got(PATHSEP) {
				path = append(path, p.ident())
			}
			return p.intConst(pos, path)
		}
		p.errorExpected(p.pos, "literal")
	case CHAR, STRING:
		if !neg {
			break
		}
		fallthrough
	default:
		p.errorExpected(p.pos, "literal")
	}
	lit := &LitPat{At: pos, Kind: p.tok, Value: p.lit, Neg: neg}
	p.next()
	return lit
}

// parseRangeRest parses the remainder of a range starting with lo, if any.
func (p *parser) parseRangeRest(lo *LitPat) Pat {
	switch p.tok {
	case DOTDOTEQ:
		p.next()
		return &RangePat{At: lo.At, Lo: lo, Hi: p.parseLit(), Inclusive: true}
	case DOTDOT:
		p.next()
		switch p.tok {
		case INT, FLOAT, CHAR, STRING, SUB:
			return &RangePat{At: lo.At, Lo: lo, Hi: p.parseLit()}
		case IDENT:
			if IsIntTypeName(p.lit) {
				return &RangePat{At: lo.At, Lo: lo, Hi: p.parseLit()}
			}
		}
		return &RangePat{At: lo.At, Lo: lo}
	}
	return lo
}

// intConst returns the literal for an integer type constant such as
// u8::MAX.
func (p *parser) intConst(pos Pos, path []string) *LitPat {
	if len(path) != 2 || (path[1] != "MAX" && path[1] != "MIN") {
		p.errorf(pos, "expected %s::MAX or %s::MIN", path[0], path[0])
	}
	return &LitPat{At: pos, Kind: IDENT, Value: path[0] + "::" + path[1]}
}

func (p *parser) parsePathPat() Pat {
	pos := p.pos
	path := []string{p.ident()}
	for p.got(PATHSEP) {
		path = append(path, p.ident())
	}
	if IsIntTypeName(path[0]) {
		return p.parseRangeRest(p.intConst(pos, path))
	}

	switch p.tok {
	case AT:
		if len(path) != 1 {
			p.errorf(pos, "binding name must be a single identifier")
		}
		p.next()
		if p.tok == DOTDOT {
			p.next()
			return &RestPat{At: pos, Name: path[0]}
		}
		return &BindPat{At: pos, Name: path[0], Sub: p.parseSinglePat()}

	case LPAREN:
		p.open(LPAREN)
		x := &PathPat{At: pos, Path: path, Parens: true}
		p.list(RPAREN, func() {
			x.Args = append(x.Args, p.parsePat())
		})
		return x

	case LBRACE:
		p.open(LBRACE)
		x := &StructPat{At: pos, Path: path}
		p.list(RBRACE, func() {
			if x.Rest {
				p.errorf(p.pos, "'..' must be the last field")
			}
			fpos := p.pos
			if p.got(DOTDOT) {
				x.Rest = true
				return
			}
			name := p.ident()
			f := &FieldPat{At: fpos, Name: name}
			if p.got(COLON) {
				f.Value = p.parsePat()
			} else {
				f.Value = &BindPat{At: fpos, Name: name}
			}
			x.Fields = append(x.Fields, f)
		})
		return x
	}
	return &PathPat{At: pos, Path: path}
}

// ---------------------------------------------------------------------------
// Types

func (p *parser) parseType() Type {
	pos := p.pos
	switch p.tok {
	case NOT:
		p.next()
		return &NeverType{At: pos}

	case AND:
		p.next()
		return &RefType{At: pos, Elem: p.parseType()}

	case LPAREN:
		p.open(LPAREN)
		var elems []Type
		trailing := p.list(RPAREN, func() {
			elems = append(elems, p.parseType())
		})
		if len(elems) == 1 && !trailing {
			return elems[0]
		}
		return &TupleType{At: pos, Elems: elems}

	case LBRACK:
		p.open(LBRACK)
		elem := p.parseType()
		if !p.got(SEMICOLON) {
			p.close(RBRACK)
			return &SliceType{At: pos, Elem: elem}
		}
		lpos, lit := p.pos, p.lit
		p.expect(INT)
		n, err := strconv.Atoi(lit)
		if err != nil || n < 0 {
			p.errorf(lpos, "invalid array length %s", lit)
		}
		p.close(RBRACK)
		return &ArrayType{At: pos, Elem: elem, Len: n}

	case IDENT:
		t := &NamedType{At: pos, Name: p.ident()}
		if p.tok == LANGLE {
			p.open(LANGLE)
			p.list(RANGLE, func() {
				t.Args = append(t.Args, p.parseType())
			})
		}
		return t
	}
	p.errorExpected(pos, "type")
	return nil
}

// ---------------------------------------------------------------------------
// Declarations

func (p *parser) parseAttrs() []string {
	var attrs []string
	for p.tok == HASH {
		p.next()
		p.open(LBRACK)
		attrs = append(attrs, p.ident())
		p.close(RBRACK)
	}
	return attrs
}

func (p *parser) parseFields(named bool, close Token) []*FieldDecl {
	var fields []*FieldDecl
	p.list(close, func() {
		f := &FieldDecl{At: p.pos}
		if named {
			f.Name = p.ident()
			p.expect(COLON)
		}
		f.Type = p.parseType()
		fields = append(fields, f)
	})
	return fields
}

// parseBody parses the optional fields of a struct or variant.
func (p *parser) parseBody() (fields []*FieldDecl, named bool) {
	switch p.tok {
	case LPAREN:
		p.open(LPAREN)
		return p.parseFields(false, RPAREN), false
	case LBRACE:
		p.open(LBRACE)
		return p.parseFields(true, RBRACE), true
	}
	return nil, false
}

func (p *parser) parseDecl() Decl {
	attrs := p.parseAttrs()
	pos := p.pos
	switch kw := p.ident(); kw {
	case "struct":
		d := &StructDecl{At: pos, Attrs: attrs, Name: p.ident()}
		d.Fields, d.Named = p.parseBody()
		return d

	case "enum":
		d := &EnumDecl{At: pos, Attrs: attrs, Name: p.ident()}
		p.open(LBRACE)
		p.list(RBRACE, func() {
			attrs := p.parseAttrs()
			v := &VariantDecl{At: p.pos, Attrs: attrs}
			v.Name = p.ident()
			v.Fields, v.Named = p.parseBody()
			d.Variants = append(d.Variants, v)
		})
		return d

	case "union":
		d := &UnionDecl{At: pos, Attrs: attrs, Name: p.ident()}
		p.open(LBRACE)
		d.Fields = p.parseFields(true, RBRACE)
		return d

	default:
		p.errorf(pos, "expected struct, enum or union, found %s", kw)
	}
	return nil
}

func (p *parser) parseFile() *File {
	f := &File{}
	p.skipNewlines()
	for p.tok != EOF {
		f.Decls = append(f.Decls, p.parseDecl())
		if p.tok != EOF && p.tok != NEWLINE && p.tok != SEMICOLON {
			p.errorExpected(p.pos, "newline or ';'")
		}
		p.skipNewlines()
	}
	return f
}

// ---------------------------------------------------------------------------
// Entry points

func parse[T any](src string, f func(p *parser) T) (x T, err error) {
	var p parser
	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(bailout); !ok {
				panic(e)
			}
			var zero T
			x, err = zero, p.errors.Err()
		}
	}()
	p.init([]byte(src))
	x = f(&p)
	p.skipNewlines()
	if p.tok != EOF {
		p.errorExpected(p.pos, "end of input")
	}
	return x, nil
}

// ParsePat parses a single pattern.
func ParsePat(src string) (Pat, error) {
	return parse(src, (*parser).parsePat)
}

// ParseType parses a single type.
func ParseType(src string) (Type, error) {
	return parse(src, (*parser).parseType)
}

// ParseFile parses a list of declarations separated by newlines or
// semicolons.
func ParseFile(src string) (*File, error) {
	return parse(src, (*parser).parseFile)
}

// MustParsePat is like ParsePat but panics on error.
func MustParsePat(src string) Pat {
	x, err := ParsePat(src)
	if err != nil {
		panic(fmt.Sprintf("syntax: parsing %q: %v", src, err))
	}
	return x
}
