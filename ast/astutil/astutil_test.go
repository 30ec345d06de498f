// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astutil_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/liquidgo/liquid/ast"
	"github.com/liquidgo/liquid/ast/astutil"
	"github.com/liquidgo/liquid/internal/compiler"
)

func parse(t *testing.T, src string) *ast.Tree {
	t.Helper()
	tree, _, err := compiler.ParseTemplateSource(src, "page", compiler.ErrorModeStrict)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestInspect(t *testing.T) {
	tree := parse(t, "{% if a %}x{% endif %}{{ b | upcase }}")
	var types []string
	astutil.Inspect(tree, func(node ast.Node) bool {
		if node != nil {
			types = append(types, fmt.Sprintf("%T", node))
		}
		return true
	})
	expected := []string{
		"*ast.Tree",
		"*ast.If", "*ast.Lookup", "*ast.Text",
		"*ast.Output", "*ast.Filtered", "*ast.Lookup", "*ast.Filter",
	}
	if diff := cmp.Diff(expected, types); diff != "" {
		t.Fatalf("unexpected nodes (-want +got):\n%s", diff)
	}
}

func TestInspectSkipsChildren(t *testing.T) {
	tree := parse(t, "{% for i in (1..3) %}{{ i }}{% endfor %}")
	n := 0
	astutil.Inspect(tree, func(node ast.Node) bool {
		if node == nil {
			return false
		}
		n++
		_, isFor := node.(*ast.For)
		return !isFor
	})
	if n != 2 {
		t.Fatalf("expected 2 visited nodes, got %d", n)
	}
}

func TestDump(t *testing.T) {
	tree := parse(t, "a{% for i in items %}{{ i }}{% endfor %}")
	var b strings.Builder
	if err := astutil.Dump(&b, tree); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), b.String())
	}
	if lines[0] != `Tree: "page":1:1` {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if lines[1] != `│    Text (1:1) "a"` {
		t.Fatalf("unexpected second line %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "│    For (1:2) ") {
		t.Fatalf("unexpected third line %q", lines[2])
	}
	for _, line := range lines[3:] {
		if !strings.HasPrefix(line, "│    │    ") {
			t.Fatalf("expected indented line, got %q", line)
		}
	}
}

func TestDumpNil(t *testing.T) {
	if err := astutil.Dump(&strings.Builder{}, nil); err == nil {
		t.Fatal("expected error")
	}
}
