// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"strconv"

	"github.com/liquidgo/liquid/ast"
)

// Token type.
type tokenTyp int

const (
	// Template tokens.
	tokenText tokenTyp = iota // text
	tokenRaw                  // content of a raw tag
	tokenTag                  // {% markup %}
	tokenVar                  // {{ markup }}
	tokenEOF                  // end of the template

	// Markup tokens.
	tokenComparison  // == != <> < > <= >= contains
	tokenString      // 'abc' "abc"
	tokenNumber      // 12 -3.5
	tokenID          // name
	tokenDotDot      // ..
	tokenPipe        // |
	tokenDot         // .
	tokenColon       // :
	tokenComma       // ,
	tokenOpenSquare  // [
	tokenCloseSquare // ]
	tokenOpenRound   // (
	tokenCloseRound  // )
	tokenQuestion    // ?
	tokenDash        // -
	tokenEndOfString // end of the markup
)

var tokenNames = map[tokenTyp]string{
	tokenText:        "text",
	tokenRaw:         "raw",
	tokenTag:         "tag",
	tokenVar:         "variable",
	tokenEOF:         "EOF",
	tokenComparison:  "comparison",
	tokenString:      "string",
	tokenNumber:      "number",
	tokenID:          "id",
	tokenDotDot:      "dotdot",
	tokenPipe:        "pipe",
	tokenDot:         "dot",
	tokenColon:       "colon",
	tokenComma:       "comma",
	tokenOpenSquare:  "open_square",
	tokenCloseSquare: "close_square",
	tokenOpenRound:   "open_round",
	tokenCloseRound:  "close_round",
	tokenQuestion:    "question",
	tokenDash:        "dash",
	tokenEndOfString: "end_of_string",
}

func (tt tokenTyp) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	panic("invalid token type")
}

// token is a template token or a markup token.
type token struct {
	typ tokenTyp      // type
	pos *ast.Position // position in the source
	txt string        // text, markup of tags and variables
	lin int           // line
	src string        // original source of tags and variables, delimiters included
}

// String returns the string representation of the token for error messages,
// for example `[:comparison, "=="]`.
func (tok token) String() string {
	if tok.typ == tokenEndOfString {
		return "[:end_of_string]"
	}
	return "[:" + tok.typ.String() + ", " + strconv.Quote(tok.txt) + "]"
}
