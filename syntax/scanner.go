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
	"unicode"
	"unicode/utf8"
)

// A Scanner tokenizes the source text of declarations, types and patterns.
// It must be initialized with Init before use.
type Scanner struct {
	// immutable state
	src  []byte
	errs *ErrorList

	// scanning state
	ch         rune // current character
	offset     int  // character offset
	rdOffset   int  // reading offset (position after current character)
	line       int  // current line
	lineOffset int  // offset of the current line
}

const eof = -1

// Init prepares s to tokenize src. Errors are added to errs.
func (s *Scanner) Init(src []byte, errs *ErrorList) {
	s.src = src
	s.errs = errs

	s.ch = ' '
	s.offset = 0
	s.rdOffset = 0
	s.line = 1
	s.lineOffset = 0

	s.next()
}

// Read the next Unicode char into s.ch.
// s.ch < 0 means end-of-file.
func (s *Scanner) next() {
	if s.ch == '\n' {
		s.line++
		s.lineOffset = s.rdOffset
	}
	if s.rdOffset >= len(s.src) {
		s.offset = len(s.src)
		s.ch = eof
		return
	}
	s.offset = s.rdOffset
	r, w := rune(s.src[s.rdOffset]), 1
	switch {
	case r == 0:
		s.error(s.offset, "illegal character NUL")
	case r >= utf8.RuneSelf:
		// not ASCII
		r, w = utf8.DecodeRune(s.src[s.rdOffset:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.offset, "illegal UTF-8 encoding")
		}
	}
	s.rdOffset += w
	s.ch = r
}

// peek returns the byte following the most recently read character without
// advancing the scanner.
func (s *Scanner) peek() byte {
	if s.rdOffset < len(s.src) {
		return s.src[s.rdOffset]
	}
	return 0
}

func (s *Scanner) pos(offs int) Pos {
	// offs is always on the current line or the previous token.
	line, lineOffset := s.line, s.lineOffset
	if offs < lineOffset {
		line, lineOffset = 1, 0
		for i := 0; i < offs; i++ {
			if s.src[i] == '\n' {
				line++
				lineOffset = i + 1
			}
		}
	}
	return Pos{Offset: offs, Line: line, Column: offs - lineOffset + 1}
}

func (s *Scanner) error(offs int, msg string) {
	if s.errs != nil {
		s.errs.Add(s.pos(offs), msg)
	}
}

func (s *Scanner) errorf(offs int, format string, args ...interface{}) {
	s.error(offs, fmt.Sprintf(format, args...))
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9' || ch >= utf8.RuneSelf && unicode.IsDigit(ch)
}

func digitVal(ch rune) int {
	switch {
	case '0' <= ch && ch <= '9':
		return int(ch - '0')
	case 'a' <= ch && ch <= 'f':
		return int(ch - 'a' + 10)
	case 'A' <= ch && ch <= 'F':
		return int(ch - 'A' + 10)
	}
	return 16 // larger than any legal digit val
}

func (s *Scanner) scanIdentifier() string {
	offs := s.offset
	for isLetter(s.ch) || isDigit(s.ch) {
		s.next()
	}
	return string(s.src[offs:s.offset])
}

func (s *Scanner) scanDigits(base int) {
	for s.ch == '_' || digitVal(s.ch) < base {
		s.next()
	}
}

func (s *Scanner) scanNumber() (Token, string) {
	offs := s.offset
	tok := INT

	if s.ch == '0' {
		s.next()
		base := 0
		switch s.ch {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			s.next()
			start := s.offset
			s.scanDigits(base)
			if s.offset == start {
				s.errorf(offs, "illegal %s number", map[int]string{16: "hexadecimal", 8: "octal", 2: "binary"}[base])
			}
			return INT, string(s.src[offs:s.offset])
		}
	}
	s.scanDigits(10)

	// A '.' only starts a fraction if it is followed by a digit, so that
	// 0..5 is a range.
	if s.ch == '.' && '0' <= s.peek() && s.peek() <= '9' {
		tok = FLOAT
		s.next()
		s.scanDigits(10)
	}
	if s.ch == 'e' || s.ch == 'E' {
		tok = FLOAT
		s.next()
		if s.ch == '-' || s.ch == '+' {
			s.next()
		}
		start := s.offset
		s.scanDigits(10)
		if s.offset == start {
			s.error(offs, "exponent has no digits")
		}
	}
	return tok, string(s.src[offs:s.offset])
}

// scanEscape parses an escape sequence where quote is the accepted escaped
// quote. In case of a syntax error, it stops at the offending character
// (without consuming it) and returns false.
func (s *Scanner) scanEscape(quote rune) bool {
	offs := s.offset

	switch s.ch {
	case 'n', 'r', 't', '\\', '0', '\'', '"':
		s.next()
		return true
	case 'x':
		s.next()
		for i := 0; i < 2; i++ {
			if digitVal(s.ch) >= 16 {
				s.error(offs, "illegal character in escape sequence")
				return false
			}
			s.next()
		}
		return true
	case 'u':
		s.next()
		if s.ch != '{' {
			s.error(offs, "missing '{' in unicode escape")
			return false
		}
		s.next()
		n := 0
		for digitVal(s.ch) < 16 {
			n++
			s.next()
		}
		if s.ch != '}' || n == 0 || n > 6 {
			s.error(offs, "illegal unicode escape")
			return false
		}
		s.next()
		return true
	}
	msg := "unknown escape sequence"
	if s.ch < 0 {
		msg = "escape sequence not terminated"
	}
	s.error(offs, msg)
	return false
}

func (s *Scanner) scanQuoted(quote rune) string {
	// opening quote already consumed
	offs := s.offset - 1
	for s.ch != quote {
		ch := s.ch
		if ch == '\n' || ch < 0 {
			if quote == '\'' {
				s.error(offs, "character literal not terminated")
			} else {
				s.error(offs, "string literal not terminated")
			}
			return string(s.src[offs:s.offset])
		}
		s.next()
		if ch == '\\' {
			s.scanEscape(quote)
		}
	}
	s.next()
	return string(s.src[offs:s.offset])
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.ch {
		case ' ', '\t', '\r':
			s.next()
		case '/':
			if s.peek() != '/' {
				return
			}
			for s.ch != '\n' && s.ch != eof {
				s.next()
			}
		default:
			return
		}
	}
}

// Scan scans the next token and returns the token position, the token, and
// its literal string if applicable. The source end is indicated by EOF.
//
// Newlines are returned as NEWLINE tokens. Comments start with //
// and extend to the end of the line.
func (s *Scanner) Scan() (pos Pos, tok Token, lit string) {
	s.skipWhitespace()

	pos = s.pos(s.offset)
	switch ch := s.ch; {
	case isLetter(ch):
		return pos, IDENT, s.scanIdentifier()
	case '0' <= ch && ch <= '9':
		tok, lit = s.scanNumber()
		return pos, tok, lit
	}

	ch := s.ch
	s.next() // always make progress
	switch ch {
	case eof:
		tok = EOF
	case '\n':
		tok, lit = NEWLINE, "\n"
	case ';':
		tok = SEMICOLON
	case '"':
		tok, lit = STRING, s.scanQuoted('"')
	case '\'':
		tok, lit = CHAR, s.scanQuoted('\'')
	case '(':
		tok = LPAREN
	case ')':
		tok = RPAREN
	case '[':
		tok = LBRACK
	case ']':
		tok = RBRACK
	case '{':
		tok = LBRACE
	case '}':
		tok = RBRACE
	case '<':
		tok = LANGLE
	case '>':
		tok = RANGLE
	case ',':
		tok = COMMA
	case ':':
		tok = COLON
		if s.ch == ':' {
			s.next()
			tok = PATHSEP
		}
	case '.':
		tok = ILLEGAL
		if s.ch == '.' {
			s.next()
			tok = DOTDOT
			if s.ch == '=' {
				s.next()
				tok = DOTDOTEQ
			}
		} else {
			s.error(pos.Offset, "unexpected '.'")
		}
	case '@':
		tok = AT
	case '|':
		tok = OR
	case '&':
		tok = AND
	case '!':
		tok = NOT
	case '#':
		tok = HASH
	case '$':
		tok = DOLLAR
	case '-':
		tok = SUB
	default:
		s.errorf(pos.Offset, "illegal character %#U", ch)
		tok, lit = ILLEGAL, string(ch)
	}
	return pos, tok, lit
}
