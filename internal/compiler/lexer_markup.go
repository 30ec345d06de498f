// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"strings"
	"unicode/utf8"
)

// specials maps the single character tokens to their types.
var specials = [256]tokenTyp{
	'|': tokenPipe,
	'.': tokenDot,
	':': tokenColon,
	',': tokenComma,
	'[': tokenOpenSquare,
	']': tokenCloseSquare,
	'(': tokenOpenRound,
	')': tokenCloseRound,
	'?': tokenQuestion,
	'-': tokenDash,
}

// lexMarkup splits the markup of a tag or a variable into tokens. The last
// token is always tokenEndOfString. If lax is true, characters that do not
// begin a token are skipped, otherwise they are an error.
func lexMarkup(markup string, lax bool) ([]token, error) {
	tokens := make([]token, 0, 8)
	src := markup
	for {
		src = strings.TrimLeft(src, whitespace)
		if src == "" {
			break
		}
		typ, n := scanMarkupToken(src)
		if n == 0 {
			if lax {
				_, size := utf8.DecodeRuneInString(src)
				src = src[size:]
				continue
			}
			r, _ := utf8.DecodeRuneInString(src)
			return nil, syntaxErrorf("Unexpected character %c", r)
		}
		tokens = append(tokens, token{typ: typ, txt: src[:n]})
		src = src[n:]
	}
	tokens = append(tokens, token{typ: tokenEndOfString})
	return tokens, nil
}

// scanMarkupToken scans the token at the beginning of src and returns its
// type and length. It returns a zero length if src does not begin with a
// token.
func scanMarkupToken(src string) (tokenTyp, int) {
	c := src[0]
	// Comparison operators.
	switch c {
	case '=':
		if strings.HasPrefix(src, "==") {
			return tokenComparison, 2
		}
	case '!':
		if strings.HasPrefix(src, "!=") {
			return tokenComparison, 2
		}
	case '<':
		if strings.HasPrefix(src, "<>") || strings.HasPrefix(src, "<=") {
			return tokenComparison, 2
		}
		return tokenComparison, 1
	case '>':
		if strings.HasPrefix(src, ">=") {
			return tokenComparison, 2
		}
		return tokenComparison, 1
	case 'c':
		if strings.HasPrefix(src, "contains") && len(src) > 8 && strings.IndexByte(whitespace, src[8]) >= 0 {
			return tokenComparison, 8
		}
	case '\'', '"':
		if i := strings.IndexByte(src[1:], c); i >= 0 {
			return tokenString, i + 2
		}
	}
	// Numbers.
	if n := scanNumber(src); n > 0 {
		return tokenNumber, n
	}
	// Identifiers.
	if c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' {
		n := 1
		for n < len(src) && (isWordChar(src[n]) || src[n] == '-') {
			n++
		}
		if n < len(src) && src[n] == '?' {
			n++
		}
		return tokenID, n
	}
	if strings.HasPrefix(src, "..") {
		return tokenDotDot, 2
	}
	if typ := specials[c]; typ != 0 {
		return typ, 1
	}
	return 0, 0
}

// scanNumber returns the length of the number at the beginning of src, or 0
// if src does not begin with a number. A number is an optional minus sign,
// digits and an optional fractional part.
func scanNumber(src string) int {
	i := 0
	if i < len(src) && src[i] == '-' {
		i++
	}
	start := i
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i == start {
		return 0
	}
	if i+1 < len(src) && src[i] == '.' && isDigit(src[i+1]) {
		i += 2
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	return i
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
