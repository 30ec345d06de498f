// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/liquidgo/liquid/ast"
)

// outline returns a compact representation of nodes, used to compare trees.
func outline(nodes []ast.Node) string {
	var b strings.Builder
	for i, node := range nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch n := node.(type) {
		case *ast.Text:
			b.WriteString(strconv.Quote(n.Text))
		case *ast.If:
			for j, br := range n.Branches {
				switch {
				case j == 0:
					b.WriteString(n.String())
				case br.Cond == nil:
					b.WriteString(" else")
				default:
					b.WriteString(" elsif " + br.Cond.String())
				}
				b.WriteString("[" + outline(br.Body) + "]")
			}
		case *ast.Case:
			b.WriteString(n.String())
			for _, c := range n.Clauses {
				if c.Else {
					b.WriteString(" else")
				} else {
					var values []string
					for _, v := range c.Values {
						values = append(values, v.String())
					}
					b.WriteString(" when " + strings.Join(values, ", "))
				}
				b.WriteString("[" + outline(c.Body) + "]")
			}
		case *ast.For:
			b.WriteString(n.String() + "[" + outline(n.Body) + "]")
			if n.Else != nil {
				b.WriteString(" else[" + outline(n.Else) + "]")
			}
		case *ast.Tablerow:
			b.WriteString(n.String() + "[" + outline(n.Body) + "]")
		case *ast.Capture:
			b.WriteString(n.String() + "[" + outline(n.Body) + "]")
		case *ast.Ifchanged:
			b.WriteString(n.String() + "[" + outline(n.Body) + "]")
		default:
			b.WriteString(node.(interface{ String() string }).String())
		}
	}
	return b.String()
}

var treeTests = []struct {
	src  string
	tree string
}{
	{"", ""},
	{"a", `"a"`},
	{"{{ a }}", "{{ a }}"},
	{"{{}}", "{{ nil }}"},
	{"{{ a.b[0]['c'] }}", `{{ a.b[0]["c"] }}`},
	{"{{ ['a b'].c }}", `{{ ["a b"].c }}`},
	{"{{ empty.size }}", "{{ empty.size }}"},
	{"{{ empty }}", "{{ empty }}"},
	{"{{ nil }}", "{{ nil }}"},
	{"{{ null }}", "{{ nil }}"},
	{"{{ 1.50 }}", "{{ 1.5 }}"},
	{"{{ -3 }}", "{{ -3 }}"},
	{"{{ (1..n) }}", "{{ (1..n) }}"},
	{"{{ a | upcase }}", "{{ a | upcase }}"},
	{"{{ a | slice: 1, 2 | f: x: 1, 2 }}", "{{ a | slice: 1, 2 | f: 2, x: 1 }}"},
	{"{% echo a | size %}", "echo a | size"},
	{"{% assign x = a | upcase %}", "assign x = a | upcase"},
	{"{% assign a.b-c = 1 %}", "assign a.b-c = 1"},
	{"{% capture x %}a{% endcapture %}", `capture x["a"]`},
	{"{% capture 'x' %}{% endcapture %}", "capture x[]"},
	{"{% increment c %}{% decrement c %}", "increment c decrement c"},
	{"{% if a %}b{% endif %}", `if a["b"]`},
	{"{% if a == 1 and b or c %}{% endif %}", "if a == 1 and b or c[]"},
	{"{% if a %}1{% elsif b %}2{% else %}3{% endif %}", `if a["1"] elsif b["2"] else["3"]`},
	{"{% unless a contains 'b' %}c{% endunless %}", `unless a contains "b"["c"]`},
	{"{% case a %} x {% when 1, 2 or 3 %}b{% else %}c{% endcase %}", `case a when 1, 2, 3["b"] else["c"]`},
	{"{% for i in items %}{{ i }}{% else %}none{% endfor %}", `for i in items[{{ i }}] else["none"]`},
	{"{% for i in (1..3) reversed limit: 2 offset: 1 %}{% endfor %}", "for i in (1..3) reversed limit: 2 offset: 1[]"},
	{"{% for i in items offset:continue, limit:2 %}{% break %}{% continue %}{% endfor %}", "for i in items limit: 2 offset: continue[break continue]"},
	{"{% tablerow i in items cols: 2 limit: 3 %}{{ i }}{% endtablerow %}", "tablerow i in items cols: 2 limit: 3[{{ i }}]"},
	{"{% cycle 'a', 'b' %}{% cycle g: 1, 2 %}", `cycle "a", "b" cycle g: 1, 2`},
	{"{% ifchanged %}a{% endifchanged %}", `ifchanged["a"]`},
	{"{% include 'p' with a as b, c: 1 %}", `include "p" with a as b, c: 1`},
	{"{% include p for items %}", "include p for items"},
	{"{% render 'p', c: 1 d: 2 %}", `render "p", c: 1, d: 2`},
	{"{% render 'p' for items as item %}", `render "p" for items as item`},
	{"{% raw %}{{ a }}{% endraw %}", `"{{ a }}"`},
	{"{% comment %}{% if %}{% endcomment %}", ""},
	{"{% # a\n   # b %}", ""},
	{"a{% liquid\n  assign x = 1\n  # comment\n  if x\n    echo x\n  endif\n%}b", `"a" assign x = 1 if x[echo x] "b"`},
	{"{% liquid comment\n if\n endcomment\n echo 1 %}", "echo 1"},
}

func TestTrees(t *testing.T) {
	for _, test := range treeTests {
		tree, _, err := ParseTemplateSource(test.src, "", ErrorModeStrict)
		if err != nil {
			t.Errorf("source: %q, %s\n", test.src, err)
			continue
		}
		if diff := cmp.Diff(test.tree, outline(tree.Nodes)); diff != "" {
			t.Errorf("source: %q, unexpected tree (-want +got):\n%s", test.src, diff)
		}
	}
}

var blankTests = []struct {
	src  string
	tree string
}{
	{"{% if a %} \n {% endif %}", "if a[]"},
	{"{% if a %} {% assign b = 1 %} {% else %} {% endif %}", "if a[assign b = 1] else[]"},
	{"{% if a %} {{ b }} {% endif %}", `if a[" " {{ b }} " "]`},
	{"{% for i in a %} {% capture c %}x{% endcapture %} {% endfor %}", `for i in a[capture c["x"]]`},
	{"{% for i in a %} {% if b %} {% endif %} {% endfor %}", "for i in a[if b[]]"},
	{"{% for i in a %} {% if b %}x{% endif %} {% endfor %}", `for i in a[" " if b["x"] " "]`},
	{"{% case a %} {% when 1 %} {% endcase %}", "case a when 1[]"},
	{"{% tablerow i in a %} {% endtablerow %}", `tablerow i in a[" "]`},
	{"{% if a %} {% raw %} {% endraw %} {% endif %}", `if a[" " " " " "]`},
}

func TestBlankBodies(t *testing.T) {
	for _, test := range blankTests {
		tree, _, err := ParseTemplateSource(test.src, "", ErrorModeStrict)
		if err != nil {
			t.Errorf("source: %q, %s\n", test.src, err)
			continue
		}
		if diff := cmp.Diff(test.tree, outline(tree.Nodes)); diff != "" {
			t.Errorf("source: %q, unexpected tree (-want +got):\n%s", test.src, diff)
		}
	}
}

var treeErrorTests = []struct {
	src string
	err string
}{
	{"{{ a b }}", `Liquid syntax error (line 1): Expected end_of_string but found id in "{{ a b }}"`},
	{"{{ a | }}", `Liquid syntax error (line 1): Expected id but found end_of_string in "{{ a | }}"`},
	{"{{ == }}", `Liquid syntax error (line 1): [:comparison, "=="] is not a valid expression in "{{ == }}"`},
	{"\n{{ a @ b }}", `Liquid syntax error (line 2): Unexpected character @ in "{{ a @ b }}"`},
	{"{% if a %}", "Liquid syntax error (line 1): 'if' tag was never closed"},
	{"{% for i in a %}{% if b %}{% endfor %}", "Liquid syntax error (line 1): 'endfor' is not a valid delimiter for if tags. use endif"},
	{"{% capture a %}{% else %}{% endcapture %}", "Liquid syntax error (line 1): capture tag does not expect 'else' tag"},
	{"{% else %}", "Liquid syntax error (line 1): Unexpected outer 'else' tag"},
	{"{% endif %}", "Liquid syntax error (line 1): Unknown tag 'endif'"},
	{"{% foo %}", "Liquid syntax error (line 1): Unknown tag 'foo'"},
	{"{% if a %}{% when 1 %}{% endif %}", "Liquid syntax error (line 1): Unknown tag 'when'"},
	{"{% for i a %}{% endfor %}", `Liquid syntax error (line 1): For loops require an 'in' clause in "i a"`},
	{"{% for i in a foo: 1 %}{% endfor %}", `Liquid syntax error (line 1): Invalid attribute in for loop. Valid attributes are limit and offset in "i in a foo: 1"`},
	{"{% assign = 1 %}", "Liquid syntax error (line 1): Syntax Error in 'assign' - Valid syntax: assign [var] = [source]"},
	{"{% capture %}{% endcapture %}", "Liquid syntax error (line 1): Syntax Error in 'capture' - Valid syntax: capture [var]"},
	{"{% cycle %}", "Liquid syntax error (line 1): Syntax Error in 'cycle' - Valid syntax: cycle [name :] var [, var2, var3 ...]"},
	{"{% case %}{% endcase %}", "Liquid syntax error (line 1): Syntax Error in tag 'case' - Valid syntax: case [condition]"},
	{"{% render p %}", "Liquid syntax error (line 1): Syntax error in tag 'render' - Template name must be a quoted string"},
	{"{% raw a %}{% endraw %}", "Liquid syntax error (line 1): Syntax Error in 'raw' - Valid syntax: raw"},
	{"{% # a\n b %}", "Liquid syntax error (line 1): Syntax error in tag '#' - Each line of comments must be prefixed by the '#' character"},
	{"{% liquid\n if a\n%}", "Liquid syntax error (line 1): 'if' tag was never closed"},
	{"{% liquid\n\n foo\n%}", "Liquid syntax error (line 3): Unknown tag 'foo'"},
	{"{% if a %}{% liquid endif %}{% endif %}", "Liquid syntax error (line 1): Unknown tag 'endif'"},
	{"{{ a | f: " + strings.Repeat("k: 1, ", 256) + "k: 1 }}", ""},
}

func TestTreeErrors(t *testing.T) {
	for _, test := range treeErrorTests {
		_, _, err := ParseTemplateSource(test.src, "", ErrorModeStrict)
		if err == nil {
			t.Errorf("source: %q, expecting error, got no error\n", test.src)
			continue
		}
		if test.err == "" {
			continue
		}
		if got := err.Error(); got != test.err {
			t.Errorf("source: %q, unexpected error:\n%s\nexpecting:\n%s\n", test.src, got, test.err)
		}
	}
}

func TestKeywordArgsLimit(t *testing.T) {
	src := "{{ a | f: " + strings.Repeat("k: 1, ", 256) + "k: 1 }}"
	_, _, err := ParseTemplateSource(src, "", ErrorModeStrict)
	if err == nil {
		t.Fatal("expecting error, got no error")
	}
	if got := err.(*SyntaxError).Message(); got != "Filter keyword arguments exceed the limit of 255" {
		t.Fatalf("unexpected error %q", got)
	}
	src = "{{ a | f: " + strings.Repeat("k: 1, ", 254) + "k: 1 }}"
	if _, _, err = ParseTemplateSource(src, "", ErrorModeStrict); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
}

func TestNestingTooDeep(t *testing.T) {
	src := strings.Repeat("{% if a %}", 101) + strings.Repeat("{% endif %}", 101)
	_, _, err := ParseTemplateSource(src, "", ErrorModeStrict)
	if err == nil {
		t.Fatal("expecting error, got no error")
	}
	if got := err.(*SyntaxError).Message(); got != "Nesting too deep" {
		t.Fatalf("unexpected error %q", got)
	}
	src = strings.Repeat("{% if a %}", 100) + strings.Repeat("{% endif %}", 100)
	if _, _, err = ParseTemplateSource(src, "", ErrorModeStrict); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
}

func TestSyntaxErrorPath(t *testing.T) {
	_, _, err := ParseTemplateSource("\n\n{% foo %}", "product", ErrorModeStrict)
	if err == nil {
		t.Fatal("expecting error, got no error")
	}
	if got := err.Error(); got != "Liquid syntax error (product line 3): Unknown tag 'foo'" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestUnknownTagSuggestion(t *testing.T) {
	_, _, err := ParseTemplateSource("{% endfr %}", "", ErrorModeStrict)
	if err == nil {
		t.Fatal("expecting error, got no error")
	}
	e := err.(*SyntaxError)
	if e.Suggestion == "" {
		t.Fatalf("expecting a suggestion for %q", e.Message())
	}
	if strings.Contains(e.Error(), e.Suggestion) {
		t.Fatalf("unexpected suggestion in the error message %q", e.Error())
	}
}

var laxTests = []struct {
	src  string
	tree string
}{
	{"{{ a b }}", "{{ a }}"},
	{"{{ a @ | upcase }}", "{{ a | upcase }}"},
	{"{{ a | f: | upcase }}", "{{ a | upcase }}"},
	{"{% if a == 1 b %}{% endif %}", "if a == 1[]"},
	{"{% for i in items foo limit: 2 %}{% endfor %}", "for i in items limit: 2[]"},
	{"{% raw a %}b{% endraw %}", `"b"`},
}

func TestLaxMode(t *testing.T) {
	for _, test := range laxTests {
		tree, _, err := ParseTemplateSource(test.src, "", ErrorModeLax)
		if err != nil {
			t.Errorf("source: %q, %s\n", test.src, err)
			continue
		}
		if diff := cmp.Diff(test.tree, outline(tree.Nodes)); diff != "" {
			t.Errorf("source: %q, unexpected tree (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestWarnMode(t *testing.T) {
	tree, warnings, err := ParseTemplateSource("{{ a b }}\n{{ c }}\n{{ d | }}", "t", ErrorModeWarn)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if got := outline(tree.Nodes); got != `{{ a }} "\n" {{ c }} "\n" {{ d }}` {
		t.Fatalf("unexpected tree %s", got)
	}
	var messages []string
	for _, w := range warnings {
		messages = append(messages, w.Error())
	}
	expected := []string{
		`Liquid syntax error (t line 1): Expected end_of_string but found id in "{{ a b }}"`,
		`Liquid syntax error (t line 3): Expected id but found end_of_string in "{{ d | }}"`,
	}
	if diff := cmp.Diff(expected, messages); diff != "" {
		t.Fatalf("unexpected warnings (-want +got):\n%s", diff)
	}
}

func TestCycleGroups(t *testing.T) {
	tree, _, err := ParseTemplateSource("{% cycle 'a', 'b' %}{% cycle 'a', 'b' %}{% cycle x, 'b' %}{% cycle x, 'b' %}{% cycle (1..2), 3 %}", "", ErrorModeStrict)
	if err != nil {
		t.Fatal(err)
	}
	var groups []string
	for _, n := range tree.Nodes {
		groups = append(groups, n.(*ast.Cycle).Group)
	}
	if groups[0] != `l:"a", "b"` || groups[0] != groups[1] {
		t.Fatalf("expecting literal cycles to share the group, got %q and %q", groups[0], groups[1])
	}
	if !strings.HasPrefix(groups[2], "u:") || groups[2] == groups[3] {
		t.Fatalf("expecting non literal cycles to have distinct groups, got %q and %q", groups[2], groups[3])
	}
	if groups[4] != "l:(1..2), 3" {
		t.Fatalf("unexpected group %q", groups[4])
	}
}

func TestLiquidTagLines(t *testing.T) {
	tree, _, err := ParseTemplateSource("{% liquid\n  assign a = 1\n\n  echo a\n%}", "", ErrorModeStrict)
	if err != nil {
		t.Fatal(err)
	}
	lines := []int{tree.Nodes[0].Pos().Line, tree.Nodes[1].Pos().Line}
	if diff := cmp.Diff([]int{2, 4}, lines); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}
