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

import "fmt"

// Token is the set of lexical tokens of the match language.
type Token int

const (
	ILLEGAL Token = iota
	EOF
	NEWLINE   // newline
	SEMICOLON // ;

	literalBeg
	IDENT  // Pair
	INT    // 12, 0xff, 1_000
	FLOAT  // 1.5, 2e10
	CHAR   // 'a'
	STRING // "abc"
	literalEnd

	operatorBeg
	LPAREN   // (
	RPAREN   // )
	LBRACK   // [
	RBRACK   // ]
	LBRACE   // {
	RBRACE   // }
	LANGLE   // <
	RANGLE   // >
	COMMA    // ,
	COLON    // :
	PATHSEP  // ::
	DOTDOT   // ..
	DOTDOTEQ // ..=
	AT       // @
	OR       // |
	AND      // &
	NOT      // !
	HASH     // #
	DOLLAR   // $
	SUB      // -
	operatorEnd
)

var tokens = [...]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	NEWLINE:   "newline",
	SEMICOLON: ";",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	CHAR:   "CHAR",
	STRING: "STRING",

	LPAREN:   "(",
	RPAREN:   ")",
	LBRACK:   "[",
	RBRACK:   "]",
	LBRACE:   "{",
	RBRACE:   "}",
	LANGLE:   "<",
	RANGLE:   ">",
	COMMA:    ",",
	COLON:    ":",
	PATHSEP:  "::",
	DOTDOT:   "..",
	DOTDOTEQ: "..=",
	AT:       "@",
	OR:       "|",
	AND:      "&",
	NOT:      "!",
	HASH:     "#",
	DOLLAR:   "$",
	SUB:      "-",
}

func (tok Token) String() string {
	if 0 <= tok && tok < Token(len(tokens)) && tokens[tok] != "" {
		return tokens[tok]
	}
	return fmt.Sprintf("token(%d)", int(tok))
}

// IsLiteral reports whether tok is an identifier or a basic literal.
func (tok Token) IsLiteral() bool { return literalBeg < tok && tok < literalEnd }

// Pos is a position in a source text. Line and Column are 1-based.
type Pos struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether the position is set.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes before q.
func (p Pos) Before(q Pos) bool { return p.Offset < q.Offset }
