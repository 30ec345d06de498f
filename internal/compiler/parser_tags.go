// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/liquidgo/liquid/ast"
)

// cycleGroups numbers the groups of the unnamed cycles with non literal
// values.
var cycleGroups int64

// parseTag parses the tag with the given name and markup.
func (p *parsing) parseTag(tok token, name, markup string) {

	switch name {

	case "#":
		if strings.Contains(markup, "\n") {
			for _, line := range strings.Split(markup, "\n")[1:] {
				line = strings.TrimLeft(line, whitespace)
				if line != "" && line[0] != '#' {
					panic(syntaxError(tok.pos, "Syntax error in tag '#' - Each line of comments must be prefixed by the '#' character"))
				}
			}
		}

	case "liquid":
		p.parseLiquid(tok, markup)

	case "raw":
		if p.mode == ErrorModeStrict && strings.Trim(markup, whitespace) != "" {
			panic(syntaxError(tok.pos, "Syntax Error in 'raw' - Valid syntax: raw"))
		}

	case "echo":
		var expr ast.Expression
		p.parseMarkup(tok, tagContext(markup), func(lax bool) {
			expr = newMarkupParser(markup, tok.pos, lax).filtered()
		})
		if expr == nil {
			expr = ast.NewLiteral(tok.pos, nil)
		}
		p.addChild(ast.NewOutput(tok.pos, expr, true), false)

	case "assign":
		i := strings.IndexByte(markup, '=')
		var target string
		if i > 0 {
			target = strings.Trim(markup[:i], whitespace)
		}
		if !isVariableSignature(target) || strings.HasPrefix(markup[i+1:], "=") {
			panic(syntaxError(tok.pos, "Syntax Error in 'assign' - Valid syntax: assign [var] = [source]"))
		}
		value := markup[i+1:]
		var expr ast.Expression
		p.parseMarkup(tok, `in "{{`+value+`}}"`, func(lax bool) {
			expr = newMarkupParser(value, tok.pos, lax).filtered()
		})
		if expr == nil {
			expr = ast.NewLiteral(tok.pos, nil)
		}
		p.addChild(ast.NewAssign(tok.pos, target, expr), true)

	case "capture":
		target := strings.Trim(markup, whitespace)
		if len(target) >= 2 && (target[0] == '"' || target[0] == '\'') && target[len(target)-1] == target[0] {
			target = target[1 : len(target)-1]
		}
		if !isVariableSignature(target) {
			panic(syntaxError(tok.pos, "Syntax Error in 'capture' - Valid syntax: capture [var]"))
		}
		p.openBlock(tok, ast.NewCapture(tok.pos, target))

	case "increment", "decrement":
		p.addChild(ast.NewIncrement(tok.pos, strings.Trim(markup, whitespace), name == "decrement"), false)

	case "if", "unless":
		var cond ast.Expression
		p.parseMarkup(tok, tagContext(markup), func(lax bool) {
			mp := newMarkupParser(markup, tok.pos, lax)
			cond = mp.condition()
			mp.end()
		})
		p.openBlock(tok, ast.NewIf(tok.pos, cond, name == "unless"))

	case "elsif":
		n, ok := p.parent().(*ast.If)
		if !ok || !p.inBlock() {
			p.unknownTag(tok, name)
		}
		var cond ast.Expression
		p.parseMarkup(tok, tagContext(markup), func(lax bool) {
			mp := newMarkupParser(markup, tok.pos, lax)
			cond = mp.condition()
			mp.end()
		})
		n.Branches = append(n.Branches, &ast.Branch{Position: tok.pos, Cond: cond})

	case "else":
		if !p.inBlock() {
			p.unknownTag(tok, name)
		}
		switch n := p.parent().(type) {
		case *ast.If:
			n.Branches = append(n.Branches, &ast.Branch{Position: tok.pos})
		case *ast.For:
			if n.Else == nil {
				n.Else = []ast.Node{}
			}
		case *ast.Case:
			n.Clauses = append(n.Clauses, &ast.When{Position: tok.pos, Else: true})
		default:
			p.unknownTag(tok, name)
		}

	case "case":
		var expr ast.Expression
		err := catchSyntaxError(func() {
			p.parseMarkup(tok, tagContext(markup), func(lax bool) {
				mp := newMarkupParser(markup, tok.pos, lax)
				expr = mp.expression()
				mp.end()
			})
		})
		if err != nil {
			panic(syntaxError(tok.pos, "Syntax Error in tag 'case' - Valid syntax: case [condition]"))
		}
		p.openBlock(tok, ast.NewCase(tok.pos, expr))

	case "when":
		n, ok := p.parent().(*ast.Case)
		if !ok || !p.inBlock() {
			p.unknownTag(tok, name)
		}
		var values []ast.Expression
		err := catchSyntaxError(func() {
			p.parseMarkup(tok, tagContext(markup), func(lax bool) {
				mp := newMarkupParser(markup, tok.pos, lax)
				values = []ast.Expression{mp.expression()}
				for {
					if _, ok := mp.consumeOpt(tokenComma); !ok && !mp.idOpt("or") {
						break
					}
					values = append(values, mp.expression())
				}
				mp.end()
			})
		})
		if err != nil {
			panic(syntaxError(tok.pos, "Syntax Error in tag 'case' - Valid when condition: {%% when [condition] [or condition2...] %%}"))
		}
		n.Clauses = append(n.Clauses, &ast.When{Position: tok.pos, Values: values})

	case "for":
		node := &ast.For{Position: tok.pos}
		p.parseMarkup(tok, tagContext(markup), func(lax bool) {
			*node = ast.For{Position: tok.pos}
			mp := newMarkupParser(markup, tok.pos, lax)
			node.Variable = mp.consume(tokenID).txt
			if !mp.idOpt("in") {
				panic(syntaxErrorf("For loops require an 'in' clause"))
			}
			node.Collection = mp.expression()
			node.CollectionSource = node.Collection.String()
			node.Reversed = mp.idOpt("reversed")
			for !mp.atEnd() {
				if lax && !mp.look(tokenComma, 0) && !mp.look(tokenID, 0) {
					mp.p++
					continue
				}
				mp.consumeOpt(tokenComma)
				attr := mp.current()
				if attr.typ != tokenID || attr.txt != "limit" && attr.txt != "offset" {
					if lax {
						mp.p++
						continue
					}
					panic(syntaxErrorf("Invalid attribute in for loop. Valid attributes are limit and offset"))
				}
				mp.p++
				mp.consume(tokenColon)
				if attr.txt == "limit" {
					node.Limit = mp.expression()
					continue
				}
				if mp.idOpt("continue") {
					node.OffsetContinue = true
					node.Offset = nil
					continue
				}
				node.Offset = mp.expression()
				node.OffsetContinue = false
			}
		})
		p.openBlock(tok, node)

	case "tablerow":
		node := &ast.Tablerow{Position: tok.pos}
		p.parseMarkup(tok, tagContext(markup), func(lax bool) {
			*node = ast.Tablerow{Position: tok.pos}
			mp := newMarkupParser(markup, tok.pos, lax)
			node.Variable = mp.consume(tokenID).txt
			if !mp.idOpt("in") {
				panic(syntaxErrorf("For loops require an 'in' clause"))
			}
			node.Collection = mp.expression()
			node.CollectionSource = node.Collection.String()
			for !mp.atEnd() {
				mp.consumeOpt(tokenComma)
				attr := mp.current()
				if attr.typ != tokenID || attr.txt != "cols" && attr.txt != "limit" && attr.txt != "offset" {
					if lax {
						mp.p++
						continue
					}
					panic(syntaxErrorf("Invalid attribute '%s' in tablerow loop. Valid attributes are cols, limit, offset, and range", attr.txt))
				}
				mp.p++
				mp.consume(tokenColon)
				switch attr.txt {
				case "cols":
					node.Cols = mp.expression()
				case "limit":
					node.Limit = mp.expression()
				case "offset":
					node.Offset = mp.expression()
				}
			}
		})
		p.openBlock(tok, node)

	case "cycle":
		var name ast.Expression
		var values []ast.Expression
		err := catchSyntaxError(func() {
			p.parseMarkup(tok, tagContext(markup), func(lax bool) {
				mp := newMarkupParser(markup, tok.pos, lax)
				name = nil
				values = []ast.Expression{mp.expression()}
				if _, ok := mp.consumeOpt(tokenColon); ok {
					name = values[0]
					values[0] = mp.expression()
				}
				for {
					if _, ok := mp.consumeOpt(tokenComma); !ok {
						break
					}
					values = append(values, mp.expression())
				}
				mp.end()
			})
		})
		if err != nil {
			panic(syntaxError(tok.pos, "Syntax Error in 'cycle' - Valid syntax: cycle [name :] var [, var2, var3 ...]"))
		}
		p.addChild(ast.NewCycle(tok.pos, name, values, cycleGroup(name, values)), false)

	case "break":
		p.addChild(ast.NewBreak(tok.pos), false)

	case "continue":
		p.addChild(ast.NewContinue(tok.pos), false)

	case "ifchanged":
		p.openBlock(tok, ast.NewIfchanged(tok.pos))

	case "include":
		node := &ast.Include{Position: tok.pos}
		p.parseMarkup(tok, tagContext(markup), func(lax bool) {
			*node = ast.Include{Position: tok.pos}
			mp := newMarkupParser(markup, tok.pos, lax)
			node.Template = mp.expression()
			node.Variable, node.For, node.Alias = mp.partialVariable()
			node.Attributes = mp.attributes()
		})
		p.addChild(node, false)

	case "render":
		node := &ast.Render{Position: tok.pos}
		p.parseMarkup(tok, tagContext(markup), func(lax bool) {
			*node = ast.Render{Position: tok.pos}
			mp := newMarkupParser(markup, tok.pos, lax)
			if !mp.look(tokenString, 0) {
				panic(syntaxError(tok.pos, "Syntax error in tag 'render' - Template name must be a quoted string"))
			}
			name := mp.consume(tokenString).txt
			node.Template = name[1 : len(name)-1]
			node.Variable, node.For, node.Alias = mp.partialVariable()
			node.Attributes = mp.attributes()
		})
		p.addChild(node, false)

	default:
		if p.inBlock() && name == "end"+blockName(p.parent()) {
			p.closeBlock()
			return
		}
		p.unknownTag(tok, name)

	}

}

// partialVariable parses the "with" or "for" clause and the "as" clause of
// an include or a render tag.
func (mp *markupParser) partialVariable() (variable ast.Expression, isFor bool, alias string) {
	switch {
	case mp.idOpt("with"):
		variable = mp.expression()
	case mp.idOpt("for"):
		variable = mp.expression()
		isFor = true
	}
	if mp.idOpt("as") {
		alias = mp.consume(tokenID).txt
	}
	return
}

// cycleGroup returns the group of an unnamed cycle. Cycles with the same
// literal values share the group.
func cycleGroup(name ast.Expression, values []ast.Expression) string {
	if name != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("l:")
	for i, v := range values {
		if !isLiteral(v) {
			return "u:" + strconv.FormatInt(atomic.AddInt64(&cycleGroups, 1), 10)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	return b.String()
}

// tagContext returns the context of the errors in the markup of a tag.
func tagContext(markup string) string {
	return `in "` + strings.Trim(markup, whitespace) + `"`
}

// isVariableSignature reports whether s is a valid target of the assign and
// capture tags.
func isVariableSignature(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case isWordChar(c), c == '-', c == '.', c == '[', c == ']':
		default:
			return false
		}
	}
	return true
}
