// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"strconv"
	"strings"

	"github.com/liquidgo/liquid/ast"
	"github.com/liquidgo/liquid/native"
)

// maxKeywordArgs is the maximum number of keyword arguments of a filter.
const maxKeywordArgs = 255

// markupParser parses the tokens of the markup of a tag or a variable.
//
// Its methods panic with a *SyntaxError if the markup is not valid. In lax
// mode, trailing tokens and filters with invalid arguments are ignored.
type markupParser struct {
	tokens []token
	p      int
	pos    *ast.Position // position of the tag or variable
	lax    bool
}

// newMarkupParser returns a parser for markup. pos is the position assigned
// to the parsed nodes.
func newMarkupParser(markup string, pos *ast.Position, lax bool) *markupParser {
	tokens, err := lexMarkup(markup, lax)
	if err != nil {
		panic(err)
	}
	return &markupParser{tokens: tokens, pos: pos, lax: lax}
}

// look reports whether the token ahead positions after the current one has
// type typ.
func (mp *markupParser) look(typ tokenTyp, ahead int) bool {
	i := mp.p + ahead
	if i >= len(mp.tokens) {
		return false
	}
	return mp.tokens[i].typ == typ
}

// current returns the current token.
func (mp *markupParser) current() token {
	return mp.tokens[mp.p]
}

// consume consumes the current token if it has type typ and panics otherwise.
func (mp *markupParser) consume(typ tokenTyp) token {
	tok := mp.tokens[mp.p]
	if tok.typ != typ {
		panic(syntaxErrorf("Expected %s but found %s", typ, tok.typ))
	}
	mp.p++
	return tok
}

// consumeOpt consumes the current token if it has type typ.
func (mp *markupParser) consumeOpt(typ tokenTyp) (token, bool) {
	tok := mp.tokens[mp.p]
	if tok.typ != typ {
		return token{}, false
	}
	mp.p++
	return tok, true
}

// idOpt consumes the current token if it is the identifier name.
func (mp *markupParser) idOpt(name string) bool {
	tok := mp.tokens[mp.p]
	if tok.typ != tokenID || tok.txt != name {
		return false
	}
	mp.p++
	return true
}

// end checks that the whole markup has been parsed. In lax mode the
// remaining tokens are ignored.
func (mp *markupParser) end() {
	if mp.lax {
		mp.p = len(mp.tokens) - 1
		return
	}
	if !mp.atEnd() {
		panic(syntaxErrorf("Expected %s but found %s", tokenEndOfString, mp.current().typ))
	}
}

// atEnd reports whether all the tokens have been consumed.
func (mp *markupParser) atEnd() bool {
	return mp.tokens[mp.p].typ == tokenEndOfString
}

// expression parses an expression.
func (mp *markupParser) expression() ast.Expression {
	tok := mp.tokens[mp.p]
	switch tok.typ {
	case tokenID:
		mp.p++
		if !mp.look(tokenDot, 0) && !mp.look(tokenOpenSquare, 0) {
			if lit := keywordLiteral(mp.pos, tok.txt); lit != nil {
				return lit
			}
		}
		return ast.NewLookup(mp.pos, tok.txt, nil, mp.lookupKeys())
	case tokenOpenSquare:
		mp.p++
		name := mp.expression()
		mp.consume(tokenCloseSquare)
		return ast.NewLookup(mp.pos, "", name, mp.lookupKeys())
	case tokenString:
		mp.p++
		return ast.NewLiteral(mp.pos, tok.txt[1:len(tok.txt)-1])
	case tokenNumber:
		mp.p++
		return ast.NewLiteral(mp.pos, parseNumber(tok.txt))
	case tokenOpenRound:
		mp.p++
		start := mp.expression()
		mp.consume(tokenDotDot)
		end := mp.expression()
		mp.consume(tokenCloseRound)
		return ast.NewRange(mp.pos, start, end)
	}
	panic(syntaxErrorf("%s is not a valid expression", tok))
}

// keywordLiteral returns the literal for the keyword name, or nil if name is
// not a keyword.
func keywordLiteral(pos *ast.Position, name string) ast.Expression {
	switch name {
	case "nil", "null":
		return ast.NewLiteral(pos, nil)
	case "true":
		return ast.NewLiteral(pos, true)
	case "false":
		return ast.NewLiteral(pos, false)
	case "empty":
		return ast.NewMethodLiteral(pos, native.Empty)
	case "blank":
		return ast.NewMethodLiteral(pos, native.Blank)
	}
	return nil
}

// parseNumber parses a number token. Integers that overflow an int are
// returned as float64.
func parseNumber(s string) interface{} {
	if !strings.Contains(s, ".") {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// lookupKeys parses the keys that follow the name of a variable lookup.
func (mp *markupParser) lookupKeys() []*ast.Key {
	var keys []*ast.Key
	for {
		switch {
		case mp.look(tokenOpenSquare, 0):
			mp.p++
			index := mp.expression()
			mp.consume(tokenCloseSquare)
			keys = append(keys, &ast.Key{Index: index})
		case mp.look(tokenDot, 0):
			mp.p++
			keys = append(keys, &ast.Key{Name: mp.consume(tokenID).txt})
		default:
			return keys
		}
	}
}

// filtered parses an expression followed by filters, as in the variable
// {{ a | f: b, c: d }}. It returns nil if the markup is empty.
func (mp *markupParser) filtered() ast.Expression {
	if mp.atEnd() {
		return nil
	}
	var expr ast.Expression
	if mp.lax {
		if err := catchSyntaxError(func() { expr = mp.expression() }); err != nil {
			mp.skipTo(tokenPipe)
		}
	} else {
		expr = mp.expression()
	}
	var filters []*ast.Filter
	for {
		if _, ok := mp.consumeOpt(tokenPipe); !ok {
			break
		}
		if !mp.lax {
			filters = append(filters, mp.filter())
			continue
		}
		var f *ast.Filter
		if err := catchSyntaxError(func() { f = mp.filter() }); err != nil {
			mp.skipTo(tokenPipe)
			continue
		}
		filters = append(filters, f)
	}
	mp.end()
	if expr == nil {
		expr = ast.NewLiteral(mp.pos, nil)
	}
	if filters == nil {
		return expr
	}
	return ast.NewFiltered(mp.pos, expr, filters)
}

// skipTo skips the tokens up to the first token of type typ or the end of
// the markup.
func (mp *markupParser) skipTo(typ tokenTyp) {
	for !mp.atEnd() && mp.tokens[mp.p].typ != typ {
		mp.p++
	}
}

// filter parses a filter after the pipe.
func (mp *markupParser) filter() *ast.Filter {
	name := mp.consume(tokenID).txt
	var args []ast.Expression
	var kwargs []*ast.KeywordArg
	if _, ok := mp.consumeOpt(tokenColon); ok {
		for {
			if mp.look(tokenID, 0) && mp.look(tokenColon, 1) {
				key := mp.consume(tokenID).txt
				mp.p++
				kwargs = append(kwargs, ast.NewKeywordArg(mp.pos, key, mp.expression()))
				if len(kwargs) > maxKeywordArgs {
					panic(syntaxErrorf("Filter keyword arguments exceed the limit of %d", maxKeywordArgs))
				}
			} else {
				args = append(args, mp.expression())
			}
			if _, ok := mp.consumeOpt(tokenComma); !ok {
				break
			}
		}
	}
	if mp.lax && !mp.atEnd() && !mp.look(tokenPipe, 0) {
		panic(syntaxErrorf("Expected %s but found %s", tokenPipe, mp.current().typ))
	}
	return ast.NewFilter(mp.pos, name, args, kwargs)
}

// condition parses a condition of an if, elsif or unless tag. The and and or
// operators are right associative: "a and b or c" is "a and (b or c)".
func (mp *markupParser) condition() ast.Expression {
	left := mp.comparison()
	switch {
	case mp.idOpt("and"):
		return ast.NewLogical(mp.pos, ast.OperatorAnd, left, mp.condition())
	case mp.idOpt("or"):
		return ast.NewLogical(mp.pos, ast.OperatorOr, left, mp.condition())
	}
	return left
}

// comparison parses an expression optionally compared with another one.
func (mp *markupParser) comparison() ast.Expression {
	left := mp.expression()
	tok, ok := mp.consumeOpt(tokenComparison)
	if !ok {
		return left
	}
	right := mp.expression()
	return ast.NewComparison(mp.pos, comparisonOperator(tok.txt), left, right)
}

func comparisonOperator(s string) ast.OperatorType {
	switch s {
	case "==":
		return ast.OperatorEqual
	case "!=", "<>":
		return ast.OperatorNotEqual
	case "<":
		return ast.OperatorLess
	case "<=":
		return ast.OperatorLessEqual
	case ">":
		return ast.OperatorGreater
	case ">=":
		return ast.OperatorGreaterEqual
	}
	return ast.OperatorContains
}

// attributes parses the attributes of an include or a render tag, as in
// ", a: 1, b: c". The commas are optional.
func (mp *markupParser) attributes() []*ast.KeywordArg {
	var attrs []*ast.KeywordArg
	for !mp.atEnd() {
		if mp.lax && !(mp.look(tokenID, 0) && mp.look(tokenColon, 1) ||
			mp.look(tokenComma, 0) && mp.look(tokenID, 1) && mp.look(tokenColon, 2)) {
			mp.p++
			continue
		}
		mp.consumeOpt(tokenComma)
		name := mp.consume(tokenID).txt
		mp.consume(tokenColon)
		attrs = append(attrs, ast.NewKeywordArg(mp.pos, name, mp.expression()))
	}
	return attrs
}

// isLiteral reports whether expr is a literal, or a range with literal
// bounds.
func isLiteral(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.Literal, *ast.MethodLiteral:
		return true
	case *ast.Range:
		return isLiteral(e.Start) && isLiteral(e.End)
	}
	return false
}
