// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler implements the lexer and the parser of Liquid templates.
package compiler

import (
	"strings"
	"unicode/utf8"

	"github.com/liquidgo/liquid/ast"
)

// ErrorMode controls how the parser handles the syntax errors in the markup
// of tags and variables.
type ErrorMode int

const (
	// ErrorModeStrict fails on every syntax error.
	ErrorModeStrict ErrorMode = iota

	// ErrorModeLax ignores trailing tokens, invalid filters and unexpected
	// characters in the markup.
	ErrorModeLax

	// ErrorModeWarn parses the markup in strict mode and, on error, records
	// a warning and parses it again in lax mode.
	ErrorModeWarn
)

// String returns the name of the error mode.
func (mode ErrorMode) String() string {
	switch mode {
	case ErrorModeLax:
		return "lax"
	case ErrorModeWarn:
		return "warn"
	}
	return "strict"
}

// maxNesting is the maximum nesting level of blocks.
const maxNesting = 100

// tagNames contains the names of the tags, used to suggest a name for an
// unknown tag.
var tagNames = []string{
	"assign", "break", "capture", "case", "comment", "continue", "cycle",
	"decrement", "doc", "echo", "else", "elsif", "for", "if", "ifchanged",
	"include", "increment", "liquid", "raw", "render", "tablerow", "unless",
	"when", "endcapture", "endcase", "endcomment", "enddoc", "endfor", "endif",
	"endifchanged", "endraw", "endtablerow", "endunless",
}

// parsing is a parsing state.
type parsing struct {

	// Path of the template.
	path string

	// Error mode.
	mode ErrorMode

	// Ancestors from the root up to the parent.
	ancestors []ast.Node

	// blank[i] reports whether the body of ancestors[i] is blank.
	blank []bool

	// Index of the first ancestor that can be closed. In the liquid tag
	// only the blocks opened by the tag itself can be closed.
	floor int

	// Warnings recorded in warn mode.
	warnings []*SyntaxError
}

// ParseTemplateSource parses the template source src and returns its tree.
// path is the path of the template, it is empty if the template is not
// read from a file system. In ErrorModeWarn it also returns the warnings.
func ParseTemplateSource(src, path string, mode ErrorMode) (tree *ast.Tree, warnings []*SyntaxError, err error) {

	tree = ast.NewTree(path, nil)

	var p = &parsing{
		path:      path,
		mode:      mode,
		ancestors: []ast.Node{tree},
		blank:     []bool{true},
		floor:     1,
	}

	lex := scanTemplate(src)

	defer func() {
		lex.drain()
		if r := recover(); r != nil {
			if e, ok := r.(*SyntaxError); ok {
				if e.Path == "" {
					e.Path = path
				}
				tree = nil
				warnings = nil
				err = e
			} else {
				panic(r)
			}
		}
	}()

	for tok := range lex.Tokens() {
		if tok.typ == tokenEOF {
			if len(p.ancestors) > 1 {
				panic(syntaxError(tok.pos, "'%s' tag was never closed", blockName(p.parent())))
			}
			continue
		}
		p.parseToken(tok)
	}

	if lex.err != nil {
		lex.err.Path = path
		return nil, nil, lex.err
	}

	for _, w := range p.warnings {
		w.Path = path
	}

	return tree, p.warnings, nil
}

// parent returns the innermost open node.
func (p *parsing) parent() ast.Node {
	return p.ancestors[len(p.ancestors)-1]
}

// parseToken parses a template token.
func (p *parsing) parseToken(tok token) {
	switch tok.typ {
	case tokenText:
		p.addChild(ast.NewText(tok.pos, tok.txt), strings.Trim(tok.txt, whitespace) == "")
	case tokenRaw:
		p.addChild(ast.NewText(tok.pos, tok.txt), false)
	case tokenVar:
		var expr ast.Expression
		p.parseMarkup(tok, `in "{{`+tok.txt+`}}"`, func(lax bool) {
			expr = newMarkupParser(tok.txt, tok.pos, lax).filtered()
		})
		if expr == nil {
			expr = ast.NewLiteral(tok.pos, nil)
		}
		p.addChild(ast.NewOutput(tok.pos, expr, false), false)
	case tokenTag:
		name, markup := splitTagName(tok.txt)
		if name == "" {
			panic(syntaxError(tok.pos, "Tag '%s' was not properly terminated with regexp: /\\%%\\}/", tok.src))
		}
		p.parseTag(tok, name, markup)
	}
}

// parseMarkup calls parse to parse the markup of tok according to the error
// mode. parse receives whether the markup should be parsed in lax mode.
// Syntax errors raised by the markup parser are completed with the position
// of the token and with context.
func (p *parsing) parseMarkup(tok token, context string, parse func(lax bool)) {
	complete := func(err *SyntaxError) *SyntaxError {
		if err.Pos.Line == 0 {
			err.Pos = *tok.pos
			err.Pos.Line = tok.lin
		}
		if err.markup && err.Context == "" {
			err.Context = context
		}
		return err
	}
	switch p.mode {
	case ErrorModeLax:
		if err := catchSyntaxError(func() { parse(true) }); err != nil {
			panic(complete(err))
		}
	case ErrorModeWarn:
		err := catchSyntaxError(func() { parse(false) })
		if err == nil {
			return
		}
		p.warnings = append(p.warnings, complete(err))
		if err := catchSyntaxError(func() { parse(true) }); err != nil {
			panic(complete(err))
		}
	default:
		if err := catchSyntaxError(func() { parse(false) }); err != nil {
			panic(complete(err))
		}
	}
}

// addChild adds node to the body of the parent. blank reports whether node
// is blank.
func (p *parsing) addChild(node ast.Node, blank bool) {
	i := len(p.ancestors) - 1
	p.blank[i] = p.blank[i] && blank
	switch n := p.ancestors[i].(type) {
	case *ast.Tree:
		n.Nodes = append(n.Nodes, node)
	case *ast.If:
		b := n.Branches[len(n.Branches)-1]
		b.Body = append(b.Body, node)
	case *ast.Case:
		// The nodes before the first when are discarded.
		if len(n.Clauses) > 0 {
			c := n.Clauses[len(n.Clauses)-1]
			c.Body = append(c.Body, node)
		}
	case *ast.For:
		if n.Else != nil {
			n.Else = append(n.Else, node)
		} else {
			n.Body = append(n.Body, node)
		}
	case *ast.Tablerow:
		n.Body = append(n.Body, node)
	case *ast.Capture:
		n.Body = append(n.Body, node)
	case *ast.Ifchanged:
		n.Body = append(n.Body, node)
	default:
		panic("unexpected parent node")
	}
}

// openBlock adds the block node to the parent and makes it the new parent.
func (p *parsing) openBlock(tok token, node ast.Node) {
	if len(p.ancestors) > maxNesting {
		panic(syntaxError(tok.pos, "Nesting too deep"))
	}
	// The blankness of the parent is updated when the block is closed.
	p.addChild(node, true)
	p.ancestors = append(p.ancestors, node)
	p.blank = append(p.blank, true)
}

// closeBlock closes the innermost block. If the block is blank, its white
// space text nodes are removed.
func (p *parsing) closeBlock() {
	i := len(p.ancestors) - 1
	node, blank := p.ancestors[i], p.blank[i]
	p.ancestors = p.ancestors[:i]
	p.blank = p.blank[:i]
	if blank {
		switch n := node.(type) {
		case *ast.If:
			for _, b := range n.Branches {
				b.Body = removeBlankText(b.Body)
			}
		case *ast.Case:
			for _, c := range n.Clauses {
				c.Body = removeBlankText(c.Body)
			}
		case *ast.For:
			n.Body = removeBlankText(n.Body)
			if n.Else != nil {
				n.Else = removeBlankText(n.Else)
			}
		}
	}
	if _, ok := node.(*ast.Capture); ok {
		blank = true
	}
	p.blank[i-1] = p.blank[i-1] && blank
}

// removeBlankText removes the white space text nodes from nodes.
func removeBlankText(nodes []ast.Node) []ast.Node {
	j := 0
	for _, node := range nodes {
		if t, ok := node.(*ast.Text); ok && strings.Trim(t.Text, whitespace) == "" {
			continue
		}
		nodes[j] = node
		j++
	}
	return nodes[:j]
}

// blockName returns the tag name of a block node.
func blockName(node ast.Node) string {
	switch n := node.(type) {
	case *ast.If:
		if n.Unless {
			return "unless"
		}
		return "if"
	case *ast.Case:
		return "case"
	case *ast.For:
		return "for"
	case *ast.Tablerow:
		return "tablerow"
	case *ast.Capture:
		return "capture"
	case *ast.Ifchanged:
		return "ifchanged"
	}
	return ""
}

// unknownTag panics with the error for the tag name that is not valid in
// the current position.
func (p *parsing) unknownTag(tok token, name string) {
	if p.inBlock() {
		block := blockName(p.parent())
		switch {
		case name == "else":
			panic(syntaxError(tok.pos, "%s tag does not expect 'else' tag", block))
		case strings.HasPrefix(name, "end"):
			panic(syntaxError(tok.pos, "'%s' is not a valid delimiter for %s tags. use end%s", name, block, block))
		}
	} else if name == "else" || name == "end" {
		panic(syntaxError(tok.pos, "Unexpected outer '%s' tag", name))
	}
	err := syntaxError(tok.pos, "Unknown tag '%s'", name)
	if s := suggest(name, tagNames); s != name {
		err.Suggestion = s
	}
	panic(err)
}

// inBlock reports whether the innermost open block can receive an
// intermediate or an end tag.
func (p *parsing) inBlock() bool {
	return len(p.ancestors)-1 >= p.floor
}

// parseLiquid parses the markup of a liquid tag. Each line is a tag
// without delimiters; lines beginning with '#' are comments.
func (p *parsing) parseLiquid(tok token, markup string) {
	line := tok.lin + strings.Count(tok.txt[:len(tok.txt)-len(markup)], "\n")
	floor := p.floor
	depth := len(p.ancestors)
	p.floor = depth
	defer func() { p.floor = floor }()
	lines := strings.Split(markup, "\n")
	for i := 0; i < len(lines); i++ {
		src := strings.Trim(lines[i], whitespace)
		if src == "" {
			continue
		}
		pos := *tok.pos
		pos.Line = line + i
		t := token{typ: tokenTag, pos: &pos, txt: src, lin: line + i, src: src}
		name, rest := splitTagName(src)
		switch name {
		case "":
			r, _ := utf8.DecodeRuneInString(src)
			panic(syntaxError(t.pos, "Unknown tag '%c'", r))
		case "#":
			continue
		case "comment":
			// Skip up to the matching endcomment line.
			for nested := 1; nested > 0; {
				i++
				if i == len(lines) {
					panic(syntaxError(t.pos, "'comment' tag was never closed"))
				}
				switch n, _ := splitTagName(strings.Trim(lines[i], whitespace)); n {
				case "comment":
					nested++
				case "endcomment":
					nested--
				}
			}
			continue
		case "raw", "doc":
			panic(syntaxError(t.pos, "Syntax Error in 'liquid' - %s tag is not supported in the liquid tag", name))
		}
		p.parseTag(t, name, rest)
	}
	if len(p.ancestors) > depth {
		panic(syntaxError(tok.pos, "'%s' tag was never closed", blockName(p.parent())))
	}
}
