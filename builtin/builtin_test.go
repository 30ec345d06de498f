// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtin

import (
	"math"
	"testing"
	"time"

	"github.com/liquidgo/liquid/native"
)

type vars = map[string]interface{}
type list = []interface{}

// filter applies the named filter and returns the inspected result, or the
// error message prefixed by "error: ".
func filter(name string, input interface{}, args ...interface{}) string {
	return filterKw(name, input, nil, args...)
}

func filterKw(name string, input interface{}, kwargs vars, args ...interface{}) string {
	v, err := Filters()[name](input, args, kwargs)
	if err != nil {
		return "error: " + err.Error()
	}
	return native.Inspect(v)
}

var items = list{vars{"a": 1}, vars{"a": 2}, vars{"b": 3}}

const pm = "2024-03-05 14:07:09 +0100"

var tests = []struct {
	got      string
	expected string
}{

	// size
	{filter("size", "hello"), "5"},
	{filter("size", "è"), "1"},
	{filter("size", list{1, 2}), "2"},
	{filter("size", vars{"a": 1}), "1"},
	{filter("size", native.Range{Start: 1, End: 5}), "5"},
	{filter("size", nil), "0"},
	{filter("size", native.Range{Start: math.MinInt, End: math.MaxInt}), "9223372036854775807"},
	{filter("size", 12), "0"},
	{filter("size", "a", 1), "error: wrong number of arguments (given 2, expected 1)"},

	// downcase, upcase, capitalize
	{filter("downcase", "ABC"), `"abc"`},
	{filter("downcase", nil), `""`},
	{filter("upcase", "abc"), `"ABC"`},
	{filter("capitalize", "hello WORLD"), `"Hello world"`},
	{filter("capitalize", "élan"), `"Élan"`},
	{filter("capitalize", ""), `""`},

	// append, prepend
	{filter("append", "a", "b"), `"ab"`},
	{filter("append", nil, 1), `"1"`},
	{filter("append", "a"), "error: wrong number of arguments (given 1, expected 2)"},
	{filterKw("append", "a", vars{"x": 1}, "b"), "error: wrong number of arguments (given 3, expected 2)"},
	{filter("prepend", "b", "a"), `"ab"`},

	// remove, replace
	{filter("remove", "abcabc", "b"), `"acac"`},
	{filter("remove_first", "abcabc", "b"), `"acabc"`},
	{filter("remove_last", "abcabc", "b"), `"abcac"`},
	{filter("remove_last", "abc", "x"), `"abc"`},
	{filter("replace", "abcabc", "b", "x"), `"axcaxc"`},
	{filter("replace", "abc", "b"), `"ac"`},
	{filter("replace_first", "abcabc", "b", "x"), `"axcabc"`},
	{filter("replace_last", "abcabc", "b", "x"), `"abcaxc"`},
	{filter("replace_last", "abcabc", "b"), "error: wrong number of arguments (given 2, expected 3)"},

	// slice
	{filter("slice", "hello", 1), `"e"`},
	{filter("slice", "hello", 1, 3), `"ell"`},
	{filter("slice", "hello", -3, 2), `"ll"`},
	{filter("slice", "hello", 3, 10), `"lo"`},
	{filter("slice", "hello", 10), `""`},
	{filter("slice", "hello", 1, 0), `""`},
	{filter("slice", list{1, 2, 3}, 1, 2), "[2, 3]"},
	{filter("slice", list{1, 2, 3}, -1), "[3]"},
	{filter("slice", list{1, 2, 3}, 5), "[]"},
	{filter("slice", "hello", "a"), "error: invalid integer"},

	// split
	{filter("split", "a,b,c", ","), `["a", "b", "c"]`},
	{filter("split", "  a  b ", " "), `["a", "b"]`},
	{filter("split", "abc", ""), `["a", "b", "c"]`},
	{filter("split", "a,b,,", ","), `["a", "b"]`},
	{filter("split", "", ","), "[]"},

	// strip
	{filter("strip", "  a \n"), `"a"`},
	{filter("lstrip", "  a \n"), `"a \n"`},
	{filter("rstrip", "  a \n"), `"  a"`},
	{filter("strip_html", "<p>Hi <b>there</b></p><script>x()</script><!-- c --><style>p{}</style>"), `"Hi there"`},
	{filter("strip_newlines", "a\nb\r\nc"), `"abc"`},
	{filter("newline_to_br", "a\nb\r\nc"), `"a<br />\nb<br />\nc"`},

	// truncate
	{filter("truncate", "Ground control to Major Tom.", 20), `"Ground control to..."`},
	{filter("truncate", "Ground control to Major Tom.", 25, ", and so on"), `"Ground control, and so on"`},
	{filter("truncate", "Ground control to Major Tom.", 20, ""), `"Ground control to Ma"`},
	{filter("truncate", "Ground control to Major Tom.", 2), `"..."`},
	{filter("truncate", "abc", 5), `"abc"`},
	{filter("truncate", nil), "nil"},
	{filter("truncatewords", "Ground control to Major Tom.", 3), `"Ground control to..."`},
	{filter("truncatewords", "Ground control to Major Tom.", 3, "--"), `"Ground control to--"`},
	{filter("truncatewords", "Ground control to Major Tom.", 3, ""), `"Ground control to"`},
	{filter("truncatewords", "Ground control", 0), `"Ground..."`},
	{filter("truncatewords", "Ground  control", 2), `"Ground  control"`},

	// escape
	{filter("escape", "Have you read 'James & the Giant Peach'?"), `"Have you read &#39;James &amp; the Giant Peach&#39;?"`},
	{filter("escape", `<a href="x">`), `"&lt;a href=&quot;x&quot;&gt;"`},
	{filter("escape", nil), "nil"},
	{filter("h", "<"), `"&lt;"`},
	{filter("escape_once", "1 &lt; 2 & 3"), `"1 &lt; 2 &amp; 3"`},
	{filter("escape_once", "&#39; &#x27; &amp"), `"&#39; &#x27; &amp;amp"`},

	// url
	{filter("url_encode", "john@liquid.com"), `"john%40liquid.com"`},
	{filter("url_encode", "Tetsuro Takara"), `"Tetsuro+Takara"`},
	{filter("url_encode", nil), "nil"},
	{filter("url_decode", "%27Stop%21%27+said+Fred"), `"'Stop!' said Fred"`},
	{filter("url_decode", "100%"), `"100%"`},
	{filter("url_decode", "%ff"), "error: invalid byte sequence in UTF-8"},

	// base64
	{filter("base64_encode", "one two three"), `"b25lIHR3byB0aHJlZQ=="`},
	{filter("base64_decode", "b25lIHR3byB0aHJlZQ=="), `"one two three"`},
	{filter("base64_decode", "b25l!"), "error: invalid base64 provided to base64_decode"},
	{filter("base64_encode", "??>"), `"Pz8+"`},
	{filter("base64_url_safe_encode", "??>"), `"Pz8-"`},
	{filter("base64_url_safe_decode", "Pz8-"), `"??>"`},
	{filter("base64_url_safe_decode", "YQ"), `"a"`},
	{filter("base64_url_safe_decode", "Pz8+"), "error: invalid base64 provided to base64_url_safe_decode"},

	// join
	{filter("join", list{"a", "b", "c"}, ", "), `"a, b, c"`},
	{filter("join", list{"a", list{"b", "c"}}), `"a b c"`},
	{filter("join", list{1, nil, true}, "-"), `"1--true"`},
	{filter("join", "abc"), `"abc"`},
	{filter("join", nil), `""`},
	{filter("join", native.Range{Start: 1, End: 3}, "+"), `"1+2+3"`},
	{filter("join", native.Range{Start: 1, End: math.MaxInt}, ","), "error: range is too large"},
	{filter("reverse", native.Range{Start: 1, End: 1000000000}), "error: range is too large"},
	{filter("join", native.Range{Start: math.MaxInt - 1, End: math.MaxInt}, ","), `"9223372036854775806,9223372036854775807"`},
	{filter("first", native.Range{Start: 1, End: math.MaxInt}), "1"},

	// first, last
	{filter("first", list{1, 2, 3}), "1"},
	{filter("first", "abc"), `"a"`},
	{filter("first", list{}), "nil"},
	{filter("first", nil), "nil"},
	{filter("first", native.Range{Start: 3, End: 5}), "3"},
	{filter("last", list{1, 2, 3}), "3"},
	{filter("last", "abc"), `"c"`},
	{filter("last", native.NewOrderedMap("a", 1, "b", 2)), `["b", 2]`},

	// concat
	{filter("concat", list{1, 2}, list{3}), "[1, 2, 3]"},
	{filter("concat", nil, list{3}), "[3]"},
	{filter("concat", list{1}, "a"), "error: concat filter requires an array argument"},

	// map, where, reject
	{filter("map", items, "a"), "[1, 2, nil]"},
	{filter("map", list{"x"}, "a"), "[nil]"},
	{filter("map", list{1, 2}, "a"), "error: cannot select the property 'a'"},
	{filter("where", items, "a", 2), `[{"a"=>2}]`},
	{filter("where", items, "a"), `[{"a"=>1}, {"a"=>2}]`},
	{filter("where", vars{"a": 1}, "a", 1), `[{"a"=>1}]`},
	{filter("where", nil, "a", 1), "[]"},
	{filter("reject", items, "a"), `[{"b"=>3}]`},
	{filter("reject", items, "a", 1), `[{"a"=>2}, {"b"=>3}]`},

	// sort
	{filter("sort", list{3, 1, 2}), "[1, 2, 3]"},
	{filter("sort", list{"b", "a", "C"}), `["C", "a", "b"]`},
	{filter("sort", list{2, nil, 1}), "[1, 2, nil]"},
	{filter("sort", list{2, 1.5, 1}), "[1, 1.5, 2]"},
	{filter("sort", list{1, "a"}), "error: cannot sort values of incompatible types"},
	{filter("sort", list{vars{"a": 2}, vars{"b": 3}, vars{"a": 1}}, "a"), `[{"a"=>1}, {"a"=>2}, {"b"=>3}]`},
	{filter("sort_natural", list{"b", "a", "C"}), `["a", "b", "C"]`},

	// uniq, reverse, compact
	{filter("uniq", list{1, 2, 1, "1"}), `[1, 2, "1"]`},
	{filter("uniq", list{vars{"a": 1}, vars{"a": 1, "b": 2}}, "a"), `[{"a"=>1}]`},
	{filter("reverse", list{1, 2, 3}), "[3, 2, 1]"},
	{filter("reverse", "abc"), `["abc"]`},
	{filter("compact", list{1, nil, 2}), "[1, 2]"},
	{filter("compact", items, "a"), `[{"a"=>1}, {"a"=>2}]`},

	// sum
	{filter("sum", list{1, 2, 3}), "6"},
	{filter("sum", list{1, "2.5"}), "3.5"},
	{filter("sum", list{0.1, 0.2}), "0.3"},
	{filter("sum", list{}), "0"},
	{filter("sum", items, "a"), "3"},
	{filter("sum", list{1, "x", nil}), "1"},

	// default
	{filter("default", nil, "x"), `"x"`},
	{filter("default", false, "x"), `"x"`},
	{filter("default", "", "x"), `"x"`},
	{filter("default", list{}, "x"), `"x"`},
	{filter("default", "a", "x"), `"a"`},
	{filter("default", 0, "x"), "0"},
	{filter("default", nil), `""`},
	{filterKw("default", false, vars{"allow_false": true}, "x"), "false"},
	{filterKw("default", nil, vars{"allow_false": true}, "x"), `"x"`},
	{filterKw("default", false, vars{"allow": true}, "x"), "error: unknown keyword: allow"},

	// math
	{filter("abs", -3), "3"},
	{filter("abs", "-2.5"), "2.5"},
	{filter("abs", "abc"), "0"},
	{filter("plus", 4, 2), "6"},
	{filter("plus", 4, "2.5"), "6.5"},
	{filter("plus", 1.1, 2.2), "3.3"},
	{filter("plus", "3", "4"), "7"},
	{filter("minus", 4, 2), "2"},
	{filter("minus", 16, 4.5), "11.5"},
	{filter("times", 3, 2), "6"},
	{filter("times", 3, 1.15), "3.45"},
	{filter("divided_by", 16, 4), "4"},
	{filter("divided_by", 5, 3), "1"},
	{filter("divided_by", -7, 2), "-4"},
	{filter("divided_by", 20, 7.0), "2.857142857142857"},
	{filter("divided_by", 5, 0), "error: divided by 0"},
	{filter("divided_by", 5.0, 0), "error: divided by 0"},
	{filter("modulo", 3, 2), "1"},
	{filter("modulo", -7, 3), "2"},
	{filter("modulo", 7, -3), "-2"},
	{filter("modulo", 183.357, 12), "3.357"},
	{filter("modulo", 1, 0), "error: divided by 0"},
	{filter("round", 1.2), "1"},
	{filter("round", 2.7), "3"},
	{filter("round", 2.5), "3"},
	{filter("round", -2.5), "-3"},
	{filter("round", 183.357, 2), "183.36"},
	{filter("round", 1234, -2), "1200"},
	{filter("round", 5), "5"},
	{filter("round", 1.5, 3000000000), "1.5"},
	{filter("round", 1.5, 1000000000), "1.5"},
	{filter("round", 1.5, -3000000000), "0"},
	{filter("round", 1234, -3000000000), "0"},
	{filter("plus", math.MaxInt, 1), "9.223372036854776e+18"},
	{filter("minus", math.MinInt, 1), "-9.223372036854776e+18"},
	{filter("times", math.MaxInt, 2), "1.8446744073709552e+19"},
	{filter("times", -1, math.MinInt), "9.223372036854776e+18"},
	{filter("divided_by", math.MinInt, -1), "9.223372036854776e+18"},
	{filter("abs", math.MinInt), "9.223372036854776e+18"},
	{filter("plus", math.MaxInt, -1), "9223372036854775806"},
	{filter("sum", list{math.MaxInt, 1}), "9.223372036854776e+18"},
	{filter("ceil", 1.2), "2"},
	{filter("ceil", "3.5"), "4"},
	{filter("ceil", 7), "7"},
	{filter("floor", 1.2), "1"},
	{filter("floor", -1.5), "-2"},
	{filter("at_least", 4, 5), "5"},
	{filter("at_least", 4, 3), "4"},
	{filter("at_most", 4, 5), "4"},
	{filter("at_most", 4, "3.5"), "3.5"},

	// date
	{filter("date", pm, "%Y-%m-%d %H:%M:%S %z"), `"2024-03-05 14:07:09 +0100"`},
	{filter("date", pm, "%a, %b %e, %y"), `"Tue, Mar  5, 24"`},
	{filter("date", pm, "%-d %B %Y"), `"5 March 2024"`},
	{filter("date", pm, "%I:%M %p"), `"02:07 PM"`},
	{filter("date", pm, "%l%P"), `" 2pm"`},
	{filter("date", pm, "%^a %^B"), `"TUE MARCH"`},
	{filter("date", pm, "%j %u %w"), `"065 2 2"`},
	{filter("date", pm, "%F %T %:z"), `"2024-03-05 14:07:09 +01:00"`},
	{filter("date", pm, "%D %R"), `"03/05/24 14:07"`},
	{filter("date", pm, "%3N %L"), `"000 000"`},
	{filter("date", pm, "%5Y|%_m|%-m|%%|%Q"), `"02024| 3|3|%|%Q"`},
	{filter("date", "2024-03-05", "%d/%m/%Y"), `"05/03/2024"`},
	{filter("date", "March 5, 2024", "%d/%m/%Y"), `"05/03/2024"`},
	{filter("date", "not a date", "%Y"), `"not a date"`},
	{filter("date", pm, ""), `"2024-03-05 14:07:09 +0100"`},
	{filter("date", nil, "%Y"), "nil"},
	{filter("date", "", "%Y"), `""`},
	{filter("date", time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC), "%c"), `"Sat Feb  3 04:05:06 2001"`},
	{filter("date", time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC), "%s %Z"), `"981173106 UTC"`},

	// json
	{filter("json", native.NewOrderedMap("b", 1, "a", list{1.0, "x<"})), `"{\"b\":1,\"a\":[1.0,\"x<\"]}"`},
	{filter("json", nil), `"null"`},
	{filter("json", native.Range{Start: 1, End: 3}), `"\"1..3\""`},

	// markdownify
	{filter("markdownify", "# Hi"), `"<h1>Hi</h1>\n"`},
	{filter("markdownify", "*a*"), `"<p><em>a</em></p>\n"`},
}

func TestFilters(t *testing.T) {
	for i, expr := range tests {
		if expr.got != expr.expected {
			t.Errorf("%d. got %s, expecting %s\n", i, expr.got, expr.expected)
		}
	}
}

func TestDateNow(t *testing.T) {
	defer func(f func() time.Time) { now = f }(now)
	now = func() time.Time { return time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC) }
	for _, input := range []string{"now", "today", "Now"} {
		if got := filter("date", input, "%Y-%m-%d"); got != `"2030-01-02"` {
			t.Errorf("input %q: got %s, expecting %q", input, got, "2030-01-02")
		}
	}
}

func TestDateTimestamp(t *testing.T) {
	ts := time.Date(2020, 6, 15, 12, 0, 0, 0, time.UTC).Unix()
	expected := `"` + time.Unix(ts, 0).Format("2006-01-02") + `"`
	if got := filter("date", int(ts), "%Y-%m-%d"); got != expected {
		t.Errorf("got %s, expecting %s", got, expected)
	}
	if got := filter("date", "1592222400", "%Y-%m-%d"); got != expected {
		t.Errorf("got %s, expecting %s", got, expected)
	}
}

func TestFiltersAreComplete(t *testing.T) {
	names := []string{
		"size", "downcase", "upcase", "capitalize", "append", "prepend", "remove",
		"remove_first", "remove_last", "replace", "replace_first", "replace_last",
		"slice", "split", "strip", "lstrip", "rstrip", "strip_html", "strip_newlines",
		"newline_to_br", "truncate", "truncatewords", "escape", "h", "escape_once",
		"url_encode", "url_decode", "base64_encode", "base64_decode",
		"base64_url_safe_encode", "base64_url_safe_decode", "join", "first", "last",
		"concat", "map", "where", "reject", "sort", "sort_natural", "uniq", "reverse",
		"compact", "sum", "default", "abs", "plus", "minus", "times", "divided_by",
		"modulo", "round", "ceil", "floor", "at_least", "at_most", "date",
		"markdownify", "json",
	}
	filters := Filters()
	for _, name := range names {
		if filters[name] == nil {
			t.Errorf("missing filter %q", name)
		}
	}
	if len(filters) != len(names) {
		t.Errorf("expected %d filters, got %d", len(names), len(filters))
	}
}
