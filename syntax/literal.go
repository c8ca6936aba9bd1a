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
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"
)

// ParseInt returns the value of an INT literal. Literals without a base
// prefix are decimal, even with leading zeros.
func ParseInt(lit string) (*apd.BigInt, error) {
	base := 10
	if len(lit) > 1 && lit[0] == '0' {
		switch lit[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			base = 0
		}
	}
	s := lit
	if base == 10 {
		s = strings.ReplaceAll(lit, "_", "")
	}
	n, ok := new(apd.BigInt).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer literal %s", lit)
	}
	return n, nil
}

// ParseFloat returns the value of a FLOAT or INT literal.
func ParseFloat(lit string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(strings.ReplaceAll(lit, "_", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid float literal %s: %w", lit, err)
	}
	return d, nil
}

// Unquote returns the value of a CHAR or STRING literal, including its
// quotes.
func Unquote(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != lit[len(lit)-1] || (lit[0] != '"' && lit[0] != '\'') {
		return "", fmt.Errorf("invalid quoted literal %s", lit)
	}
	s := lit[1 : len(lit)-1]
	var b strings.Builder
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r != '\\' {
			b.WriteRune(r)
			s = s[size:]
			continue
		}
		if len(s) < 2 {
			return "", fmt.Errorf("unterminated escape in %s", lit)
		}
		c := s[1]
		s = s[2:]
		switch c {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(c)
		case 'x':
			if len(s) < 2 {
				return "", fmt.Errorf("invalid escape in %s", lit)
			}
			v, err := strconv.ParseUint(s[:2], 16, 8)
			if err != nil || v > 0x7f {
				return "", fmt.Errorf("invalid escape in %s", lit)
			}
			b.WriteByte(byte(v))
			s = s[2:]
		case 'u':
			end := strings.IndexByte(s, '}')
			if len(s) < 3 || s[0] != '{' || end < 0 {
				return "", fmt.Errorf("invalid unicode escape in %s", lit)
			}
			v, err := strconv.ParseUint(s[1:end], 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", fmt.Errorf("invalid unicode escape in %s", lit)
			}
			b.WriteRune(rune(v))
			s = s[end+1:]
		default:
			return "", fmt.Errorf("unknown escape sequence in %s", lit)
		}
	}
	return b.String(), nil
}

// UnquoteChar returns the value of a CHAR literal.
func UnquoteChar(lit string) (rune, error) {
	s, err := Unquote(lit)
	if err != nil {
		return 0, err
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, fmt.Errorf("character literal %s must hold exactly one character", lit)
	}
	return r, nil
}

// QuoteChar returns r as a character literal.
func QuoteChar(r rune) string {
	switch r {
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	case '\n':
		return `'\n'`
	case '\r':
		return `'\r'`
	case '\t':
		return `'\t'`
	case 0:
		return `'\0'`
	}
	if strconv.IsPrint(r) {
		return "'" + string(r) + "'"
	}
	return fmt.Sprintf(`'\u{%x}'`, r)
}
