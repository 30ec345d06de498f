// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"strings"
	"unicode/utf8"

	"github.com/liquidgo/liquid/ast"
)

// whitespace is the set of characters removed by the whitespace control
// delimiters {%-, -%}, {{- and -}}.
const whitespace = " \t\n\v\f\r"

// scanTemplate scans a template source and returns a lexer.
func scanTemplate(text string) *lexer {
	tokens := make(chan token, 20)
	lex := &lexer{
		text:   text,
		src:    text,
		line:   1,
		column: 1,
		tokens: tokens,
	}
	go lex.scan()
	return lex
}

// Tokens returns a channel to read the scanned tokens.
func (l *lexer) Tokens() <-chan token {
	return l.tokens
}

// drain reads all the remaining tokens, so that the scan goroutine can
// terminate.
func (l *lexer) drain() {
	for range l.tokens {
	}
}

// lexer maintains the scanner status.
//
// Text tokens are emitted with the white space already removed by the
// whitespace control delimiters of the adjacent tags and variables. The
// content of raw tags is emitted as a single raw token, and the comment and
// doc tags are consumed by the lexer with their content.
type lexer struct {
	text     string       // text on which the scans are performed
	src      string       // slice of the text used during the scan
	line     int          // current line starting from 1
	column   int          // current column starting from 1
	tokens   chan token   // tokens, is closed at the end of the scan
	pending  *token       // text token not yet emitted
	trimNext bool         // trims the leading white space of the next text
	err      *SyntaxError // error, reports whether there was an error
}

func (l *lexer) errorf(format string, a ...interface{}) *SyntaxError {
	return syntaxError(l.position(0), format, a...)
}

// position returns the position of the next length bytes.
func (l *lexer) position(length int) *ast.Position {
	start := len(l.text) - len(l.src)
	end := start + length - 1
	if length == 0 {
		end = start
	}
	return &ast.Position{Line: l.line, Column: l.column, Start: start, End: end}
}

// advance advances the scan by n bytes.
func (l *lexer) advance(n int) {
	for _, c := range l.src[:n] {
		if c == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}
	l.src = l.src[n:]
}

// scan scans the text by placing the tokens on the tokens channel. If an
// error occurs, it puts the error in err, closes the channel and returns.
func (l *lexer) scan() {

	defer close(l.tokens)

	for len(l.src) > 0 {
		i := indexDelimiter(l.src)
		if i == -1 {
			l.lexText(len(l.src))
			break
		}
		if i > 0 {
			l.lexText(i)
		}
		var err *SyntaxError
		if l.src[1] == '{' {
			err = l.lexVar()
		} else {
			err = l.lexTag()
		}
		if err != nil {
			l.err = err
			return
		}
	}

	l.flush(false)
	l.tokens <- token{typ: tokenEOF, pos: l.position(0), lin: l.line}
}

// indexDelimiter returns the index of the first "{{" or "{%" in s, or -1.
func indexDelimiter(s string) int {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '{' && (s[i+1] == '{' || s[i+1] == '%') {
			return i
		}
	}
	return -1
}

// lexText lexes a text of n bytes. The text is kept pending until the next
// tag or variable is lexed.
func (l *lexer) lexText(n int) {
	tok := token{typ: tokenText, pos: l.position(n), txt: l.src[:n], lin: l.line}
	if l.trimNext {
		tok.txt = strings.TrimLeft(tok.txt, whitespace)
		l.trimNext = false
	}
	l.pending = &tok
	l.advance(n)
}

// flush emits the pending text, removing its trailing white space if trim is
// true.
func (l *lexer) flush(trim bool) {
	if l.pending == nil {
		return
	}
	tok := *l.pending
	l.pending = nil
	if trim {
		tok.txt = strings.TrimRight(tok.txt, whitespace)
	}
	if tok.txt != "" {
		l.tokens <- tok
	}
}

// splitTrim splits the content of a tag or variable into the markup and the
// whitespace control flags.
func splitTrim(inner string) (markup string, left, right bool) {
	if inner == "" {
		return "", false, false
	}
	left = inner[0] == '-'
	right = inner[len(inner)-1] == '-'
	if left {
		inner = inner[1:]
	}
	if right && len(inner) > 0 {
		inner = inner[:len(inner)-1]
	}
	return inner, left, right
}

// lexVar lexes a variable {{ ... }}.
func (l *lexer) lexVar() *SyntaxError {
	end := -1
	for j := 2; j < len(l.src); j++ {
		c := l.src[j]
		if c == '}' {
			if j+1 < len(l.src) && l.src[j+1] == '}' {
				end = j + 2
				break
			}
			return l.errorf("Variable '%s' was not properly terminated with regexp: /\\}\\}/", l.src[:j+1])
		}
		if c == '{' && j+1 < len(l.src) && l.src[j+1] == '%' {
			src := "{{"
			if k := strings.Index(l.src[j:], "%}"); k >= 0 {
				src = l.src[:j+k+2]
			}
			return l.errorf("Variable '%s' was not properly terminated with regexp: /\\}\\}/", src)
		}
	}
	if end == -1 {
		return l.errorf("Variable '{{' was not properly terminated with regexp: /\\}\\}/")
	}
	markup, left, right := splitTrim(l.src[2 : end-2])
	l.flush(left)
	l.tokens <- token{typ: tokenVar, pos: l.position(end), txt: markup, lin: l.line, src: l.src[:end]}
	l.advance(end)
	l.trimNext = right
	return nil
}

// lexTag lexes a tag {% ... %}.
func (l *lexer) lexTag() *SyntaxError {
	k := strings.Index(l.src[2:], "%}")
	if k == -1 {
		return l.errorf("Tag '{%%' was not properly terminated with regexp: /\\%%\\}/")
	}
	end := k + 4
	markup, left, right := splitTrim(l.src[2 : end-2])
	l.flush(left)
	name, _ := splitTagName(markup)
	switch name {
	case "comment", "doc":
		return l.lexComment(name, end)
	case "raw":
		l.tokens <- token{typ: tokenTag, pos: l.position(end), txt: markup, lin: l.line, src: l.src[:end]}
		l.advance(end)
		return l.lexRaw(right)
	}
	l.tokens <- token{typ: tokenTag, pos: l.position(end), txt: markup, lin: l.line, src: l.src[:end]}
	l.advance(end)
	l.trimNext = right
	return nil
}

// nextTag finds the next tag in s starting from the index i and returns its
// start and end indexes, its name and its whitespace control flags. It
// returns start -1 if there are no more tags and end -1 if the tag is not
// terminated.
func nextTag(s string, i int) (start, end int, name string, left, right bool) {
	j := strings.Index(s[i:], "{%")
	if j == -1 {
		return -1, -1, "", false, false
	}
	start = i + j
	k := strings.Index(s[start+2:], "%}")
	if k == -1 {
		return start, -1, "", false, false
	}
	end = start + k + 4
	var markup string
	markup, left, right = splitTrim(s[start+2 : end-2])
	name, _ = splitTagName(markup)
	return start, end, name, left, right
}

// lexRaw lexes the content of a raw tag up to the endraw tag. trim reports
// whether the raw tag removes the white space that follows it.
func (l *lexer) lexRaw(trim bool) *SyntaxError {
	i := 0
	for {
		start, end, name, left, right := nextTag(l.src, i)
		if start == -1 || end == -1 {
			return l.errorf("'raw' tag was never closed")
		}
		if name != "endraw" {
			i = start + 2
			continue
		}
		body := l.src[:start]
		if trim {
			body = strings.TrimLeft(body, whitespace)
		}
		if left {
			body = strings.TrimRight(body, whitespace)
		}
		if body != "" {
			l.tokens <- token{typ: tokenRaw, pos: l.position(start), txt: body, lin: l.line}
		}
		l.advance(end)
		l.trimNext = right
		return nil
	}
}

// lexComment consumes a comment or a doc tag, its content and its end tag.
// Comments can be nested and can contain raw tags; doc tags cannot be
// nested. The tag starts at the beginning of src and ends at index end.
func (l *lexer) lexComment(name string, end int) *SyntaxError {
	depth := 1
	i := end
	for {
		start, end, tag, _, right := nextTag(l.src, i)
		if start == -1 || end == -1 {
			return l.errorf("'%s' tag was never closed", name)
		}
		i = end
		switch tag {
		case "raw":
			if name == "doc" {
				continue
			}
			for {
				s, e, t, _, _ := nextTag(l.src, i)
				if s == -1 || e == -1 {
					return l.errorf("'%s' tag was never closed", name)
				}
				i = e
				if t == "endraw" {
					break
				}
			}
		case "comment":
			if name == "comment" {
				depth++
			}
		case "doc":
			if name == "doc" {
				return l.errorf("Syntax Error in 'doc' - Nested doc tags are not allowed")
			}
		case "end" + name:
			depth--
		}
		if depth == 0 {
			l.advance(end)
			l.trimNext = right
			return nil
		}
	}
}

// splitTagName splits the markup of a tag into the tag name and the rest.
// The name is "#" for an inline comment, otherwise it is a sequence of
// letters, digits and underscores. The name is empty if the markup does not
// begin with a valid name.
func splitTagName(markup string) (name, rest string) {
	s := strings.TrimLeft(markup, whitespace)
	if strings.HasPrefix(s, "#") {
		return "#", s[1:]
	}
	n := 0
	for n < len(s) && isWordChar(s[n]) {
		n++
	}
	if n == 0 {
		return "", s
	}
	if n < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[n:]); r >= utf8.RuneSelf {
			return "", s
		}
	}
	return s[:n], strings.TrimLeft(s[n:], whitespace)
}

func isWordChar(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
