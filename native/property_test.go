// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package native

import (
	"errors"
	"testing"
)

type product struct {
	Title     string
	CreatedAt int
	Price     float64 `liquid:"cost"`
	Secret    string  `liquid:"-"`
	hidden    int
}

func (p product) Summary() string { return "about " + p.Title }

func (p *product) Fail() (string, error) { return "", errors.New("boom") }

var propertyTests = []struct {
	value    interface{}
	key      interface{}
	command  bool
	expected interface{}
}{
	{[]interface{}{1, 2, 3}, 0, false, 1},
	{[]interface{}{1, 2, 3}, -1, false, 3},
	{[]interface{}{1, 2, 3}, 3, false, nil},
	{[]interface{}{1, 2, 3}, -4, false, nil},
	{[]interface{}{1, 2, 3}, "size", true, 3},
	{[]interface{}{1, 2, 3}, "size", false, nil},
	{[]interface{}{1, 2, 3}, "first", true, 1},
	{[]interface{}{1, 2, 3}, "last", true, 3},
	{[]interface{}{}, "first", true, nil},
	{map[string]interface{}{"a": 1}, "a", false, 1},
	{map[string]interface{}{"a": 1}, "size", true, 1},
	{map[string]interface{}{"size": "big"}, "size", true, "big"},
	{map[string]interface{}{"a": 1}, 0, false, nil},
	{map[string]int{"a": 5}, "a", false, 5},
	{"héllo", "size", true, 5},
	{"hello", "first", true, nil},
	{Range{2, 5}, "size", true, 4},
	{Range{2, 5}, "first", true, 2},
	{Range{2, 5}, "last", true, 5},
	{product{Title: "shoe"}, "title", false, "shoe"},
	{product{CreatedAt: 9}, "created_at", false, 9},
	{product{Price: 1.5}, "cost", false, 1.5},
	{product{Price: 1.5}, "price", false, nil},
	{product{Secret: "x"}, "secret", false, nil},
	{product{hidden: 1}, "hidden", false, nil},
	{product{Title: "shoe"}, "summary", false, "about shoe"},
	{&product{Title: "boot"}, "title", false, "boot"},
	{nil, "a", true, nil},
	{5, "a", true, nil},
}

func TestProperty(t *testing.T) {
	for _, test := range propertyTests {
		got, err := Property(test.value, test.key, test.command)
		if err != nil {
			t.Errorf("Property(%#v, %#v): unexpected error %q", test.value, test.key, err)
			continue
		}
		if !Equal(got, test.expected) {
			t.Errorf("Property(%#v, %#v): expecting %#v, got %#v", test.value, test.key, test.expected, got)
		}
	}
}

func TestPropertyMapFirst(t *testing.T) {
	got, _ := Property(NewOrderedMap("x", 1, "y", 2), "first", true)
	if !Equal(got, []interface{}{"x", 1}) {
		t.Errorf("expecting [x 1], got %#v", got)
	}
}

func TestPropertyMethodError(t *testing.T) {
	_, err := Property(&product{}, "fail", false)
	if err == nil || err.Error() != "boom" {
		t.Errorf("expecting error \"boom\", got %v", err)
	}
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Title":     "title",
		"CreatedAt": "created_at",
		"URL":       "url",
		"HTMLBody":  "html_body",
		"ID2":       "id2",
	}
	for name, expected := range tests {
		if got := snakeCase(name); got != expected {
			t.Errorf("snakeCase(%q): expecting %q, got %q", name, expected, got)
		}
	}
}

var compareTests = []struct {
	a, b     interface{}
	expected int
	err      string
}{
	{1, 2, -1, ""},
	{2, 1.5, 1, ""},
	{1.0, 1, 0, ""},
	{"a", "b", -1, ""},
	{"b", "B", 1, ""},
	{1, "1", 0, "comparison of Integer with String failed"},
	{"1", 1.5, 0, "comparison of String with Float failed"},
}

func TestCompare(t *testing.T) {
	for _, test := range compareTests {
		got, err := Compare(test.a, test.b)
		if test.err != "" {
			if err == nil || err.Error() != test.err {
				t.Errorf("Compare(%#v, %#v): expecting error %q, got %v", test.a, test.b, test.err, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Compare(%#v, %#v): unexpected error %q", test.a, test.b, err)
			continue
		}
		if got != test.expected {
			t.Errorf("Compare(%#v, %#v): expecting %d, got %d", test.a, test.b, test.expected, got)
		}
	}
	if _, err := Compare(nil, 1); err != ErrNotOrdered {
		t.Errorf("Compare(nil, 1): expecting ErrNotOrdered, got %v", err)
	}
}

func TestEqualAndContains(t *testing.T) {
	if !Equal(1, 1.0) || Equal(1, "1") || !Equal(nil, nil) || Equal(nil, false) {
		t.Fatal("unexpected Equal result on scalars")
	}
	if !Equal([]interface{}{1, "a"}, []interface{}{1.0, "a"}) {
		t.Fatal("expecting arrays to be equal")
	}
	if !Contains("hello", "ell") || Contains("hello", nil) || !Contains("a1", 1) {
		t.Fatal("unexpected Contains result on strings")
	}
	if !Contains([]interface{}{1, 2}, 2) || Contains([]interface{}{1, 2}, "2") {
		t.Fatal("unexpected Contains result on arrays")
	}
	if !Contains(map[string]interface{}{"k": 1}, "k") || Contains(map[string]interface{}{"k": 1}, 1) {
		t.Fatal("unexpected Contains result on maps")
	}
}

func TestToInteger(t *testing.T) {
	tests := []struct {
		v   interface{}
		n   int
		err bool
	}{
		{3, 3, false},
		{"12", 12, false},
		{" 7 ", 7, false},
		{"-2", -2, false},
		{"1.5", 0, true},
		{2.5, 0, true},
		{nil, 0, true},
		{"abc", 0, true},
	}
	for _, test := range tests {
		n, err := ToInteger(test.v)
		if (err != nil) != test.err || n != test.n {
			t.Errorf("ToInteger(%#v): expecting (%d, error %t), got (%d, %v)", test.v, test.n, test.err, n, err)
		}
	}
	if LeadingInt("12abc") != 12 || LeadingInt("abc") != 0 || LeadingInt(" -3x") != -3 {
		t.Error("unexpected LeadingInt result")
	}
}
