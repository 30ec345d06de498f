// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var typeTests = map[string][]tokenTyp{
	``:                                 {},
	`a`:                                {tokenText},
	`{`:                                {tokenText},
	`}}`:                               {tokenText},
	`{{a}}`:                            {tokenVar},
	`a{{ b }}c`:                        {tokenText, tokenVar, tokenText},
	`{% if a %}b{% endif %}`:           {tokenTag, tokenText, tokenTag},
	`{% raw %}{{ a }}{% endraw %}`:     {tokenTag, tokenRaw},
	`{% raw %}{% endraw %}`:            {tokenTag},
	`{% raw %}{% if %}{% endraw %}b`:   {tokenTag, tokenRaw, tokenText},
	`{% comment %}{{ a{% endcomment %}b`: {tokenText},
	`{% comment %}{% comment %}a{% endcomment %}{% endcomment %}`: {},
	`{% comment %}{% raw %}{% endcomment %}{% endraw %}{% endcomment %}`: {},
	`{% doc %}{{ a }}{% enddoc %}`: {},
	`{{ a }}{% # a comment %}`:     {tokenVar, tokenTag},
	"a\n{%- if b -%}\n":            {tokenText, tokenTag},
}

func TestLexerTypes(t *testing.T) {
	for source, types := range typeTests {
		var lex = scanTemplate(source)
		var got []tokenTyp
		for tok := range lex.Tokens() {
			if tok.typ == tokenEOF {
				break
			}
			got = append(got, tok.typ)
		}
		lex.drain()
		if lex.err != nil {
			t.Errorf("source: %q, error %s\n", source, lex.err)
			continue
		}
		if len(got) == 0 && len(types) == 0 {
			continue
		}
		if diff := cmp.Diff(types, got); diff != "" {
			t.Errorf("source: %q, unexpected types (-want +got):\n%s", source, diff)
		}
	}
}

var trimTests = []struct {
	src  string
	txts []string
}{
	{"a  {{- b -}}  c", []string{"a", " b ", "c"}},
	{"a  {{ b }}  c", []string{"a  ", " b ", "  c"}},
	{" \n{%- if a -%}\n x \n{%- endif -%}\n ", []string{" if a ", "x", " endif "}},
	{"a\n{%- raw -%}\n x \n{%- endraw -%}\nb", []string{"a", " raw ", "x", "b"}},
	{"a {%- comment -%} x {%- endcomment -%} b", []string{"a", "b"}},
	{"{{-a-}}", []string{"a"}},
}

func TestLexerTrim(t *testing.T) {
	for _, test := range trimTests {
		var lex = scanTemplate(test.src)
		var got []string
		for tok := range lex.Tokens() {
			if tok.typ == tokenEOF {
				break
			}
			got = append(got, tok.txt)
		}
		lex.drain()
		if lex.err != nil {
			t.Errorf("source: %q, error %s\n", test.src, lex.err)
			continue
		}
		if diff := cmp.Diff(test.txts, got); diff != "" {
			t.Errorf("source: %q, unexpected texts (-want +got):\n%s", test.src, diff)
		}
	}
}

var lexerErrorTests = map[string]string{
	"{{ a":               `Liquid syntax error (line 1): Variable '{{' was not properly terminated with regexp: /\}\}/`,
	"{{ a }":              `Liquid syntax error (line 1): Variable '{{ a }' was not properly terminated with regexp: /\}\}/`,
	"a\n{% if a":          `Liquid syntax error (line 2): Tag '{%' was not properly terminated with regexp: /\%\}/`,
	"{% raw %}a":          `Liquid syntax error (line 1): 'raw' tag was never closed`,
	"{% comment %}a":      `Liquid syntax error (line 1): 'comment' tag was never closed`,
	"{% doc %}{% doc %}":  `Liquid syntax error (line 1): Syntax Error in 'doc' - Nested doc tags are not allowed`,
	"{{ a {% b %} }}":     `Liquid syntax error (line 1): Variable '{{ a {% b %}' was not properly terminated with regexp: /\}\}/`,
}

func TestLexerErrors(t *testing.T) {
	for source, expected := range lexerErrorTests {
		var lex = scanTemplate(source)
		lex.drain()
		if lex.err == nil {
			t.Errorf("source: %q, expecting error %q, got no error\n", source, expected)
			continue
		}
		if got := lex.err.Error(); got != expected {
			t.Errorf("source: %q, unexpected error %q, expecting %q\n", source, got, expected)
		}
	}
}

func TestLexerLines(t *testing.T) {
	var lex = scanTemplate("a\nb{{ c }}\n\n{% d %}")
	var lines []int
	for tok := range lex.Tokens() {
		lines = append(lines, tok.lin)
	}
	if diff := cmp.Diff([]int{1, 2, 2, 4, 4}, lines); diff != "" {
		t.Errorf("unexpected lines (-want +got):\n%s", diff)
	}
}

var markupTests = map[string][]tokenTyp{
	``:                      {tokenEndOfString},
	`a`:                     {tokenID, tokenEndOfString},
	`a-b?`:                  {tokenID, tokenEndOfString},
	`a.b[0]`:                {tokenID, tokenDot, tokenID, tokenOpenSquare, tokenNumber, tokenCloseSquare, tokenEndOfString},
	`(1..5)`:                {tokenOpenRound, tokenNumber, tokenDotDot, tokenNumber, tokenCloseRound, tokenEndOfString},
	`-1.5`:                  {tokenNumber, tokenEndOfString},
	`'a' "b"`:               {tokenString, tokenString, tokenEndOfString},
	`a == b contains c`:     {tokenID, tokenComparison, tokenID, tokenComparison, tokenID, tokenEndOfString},
	`a <> b`:                {tokenID, tokenComparison, tokenID, tokenEndOfString},
	`contains`:              {tokenID, tokenEndOfString},
	`a | f: 'x', y: 2`:      {tokenID, tokenPipe, tokenID, tokenColon, tokenString, tokenComma, tokenID, tokenColon, tokenNumber, tokenEndOfString},
	"a\n|\tb":               {tokenID, tokenPipe, tokenID, tokenEndOfString},
}

func TestLexerMarkup(t *testing.T) {
	for markup, types := range markupTests {
		tokens, err := lexMarkup(markup, false)
		if err != nil {
			t.Errorf("markup: %q, error %s\n", markup, err)
			continue
		}
		got := make([]tokenTyp, len(tokens))
		for i, tok := range tokens {
			got[i] = tok.typ
		}
		if diff := cmp.Diff(types, got); diff != "" {
			t.Errorf("markup: %q, unexpected types (-want +got):\n%s", markup, diff)
		}
	}
}

func TestLexerMarkupUnexpectedCharacter(t *testing.T) {
	_, err := lexMarkup("a @ b", false)
	if err == nil {
		t.Fatal("expecting error, got no error")
	}
	if got := err.(*SyntaxError).Message(); got != "Unexpected character @" {
		t.Fatalf("unexpected error %q", got)
	}
	tokens, err := lexMarkup("a @ b", true)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("unexpected %d tokens, expecting 3", len(tokens))
	}
}
