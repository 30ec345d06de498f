// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package builtin provides the standard Liquid filters.
//
// Every filter is an exported function with the native.Filter signature,
// so that a host can register only some of them or register them with
// different names. Filters returns all the filters with their standard
// names:
//
//	native.Filters{
//		// strings
//		"append":         builtin.Append,
//		"capitalize":     builtin.Capitalize,
//		"downcase":       builtin.Downcase,
//		"lstrip":         builtin.Lstrip,
//		"newline_to_br":  builtin.NewlineToBr,
//		"prepend":        builtin.Prepend,
//		"remove":         builtin.Remove,
//		"remove_first":   builtin.RemoveFirst,
//		"remove_last":    builtin.RemoveLast,
//		"replace":        builtin.Replace,
//		"replace_first":  builtin.ReplaceFirst,
//		"replace_last":   builtin.ReplaceLast,
//		"rstrip":         builtin.Rstrip,
//		"size":           builtin.Size,
//		"slice":          builtin.Slice,
//		"split":          builtin.Split,
//		"strip":          builtin.Strip,
//		"strip_html":     builtin.StripHTML,
//		"strip_newlines": builtin.StripNewlines,
//		"truncate":       builtin.Truncate,
//		"truncatewords":  builtin.Truncatewords,
//		"upcase":         builtin.Upcase,
//
//		// html and url
//		"base64_decode":          builtin.Base64Decode,
//		"base64_encode":          builtin.Base64Encode,
//		"base64_url_safe_decode": builtin.Base64URLSafeDecode,
//		"base64_url_safe_encode": builtin.Base64URLSafeEncode,
//		"escape":                 builtin.Escape,
//		"escape_once":            builtin.EscapeOnce,
//		"h":                      builtin.Escape,
//		"url_decode":             builtin.URLDecode,
//		"url_encode":             builtin.URLEncode,
//
//		// arrays
//		"compact":      builtin.Compact,
//		"concat":       builtin.Concat,
//		"first":        builtin.First,
//		"join":         builtin.Join,
//		"last":         builtin.Last,
//		"map":          builtin.Map,
//		"reject":       builtin.Reject,
//		"reverse":      builtin.Reverse,
//		"sort":         builtin.Sort,
//		"sort_natural": builtin.SortNatural,
//		"sum":          builtin.Sum,
//		"uniq":         builtin.Uniq,
//		"where":        builtin.Where,
//
//		// math
//		"abs":        builtin.Abs,
//		"at_least":   builtin.AtLeast,
//		"at_most":    builtin.AtMost,
//		"ceil":       builtin.Ceil,
//		"divided_by": builtin.DividedBy,
//		"floor":      builtin.Floor,
//		"minus":      builtin.Minus,
//		"modulo":     builtin.Modulo,
//		"plus":       builtin.Plus,
//		"round":      builtin.Round,
//		"times":      builtin.Times,
//
//		// others
//		"date":        builtin.Date,
//		"default":     builtin.Default,
//		"json":        builtin.JSON,
//		"markdownify": builtin.Markdownify,
//	}
//
// A filter called with a wrong number of arguments returns an error such as
// "wrong number of arguments (given 1, expected 2)", where the input counts
// as the first argument.
package builtin

import (
	"strconv"

	"github.com/liquidgo/liquid/native"
)

// Filters returns the standard filters. Each call returns a new map that
// the caller can modify.
func Filters() native.Filters {
	return native.Filters{
		"abs":                    Abs,
		"append":                 Append,
		"at_least":               AtLeast,
		"at_most":                AtMost,
		"base64_decode":          Base64Decode,
		"base64_encode":          Base64Encode,
		"base64_url_safe_decode": Base64URLSafeDecode,
		"base64_url_safe_encode": Base64URLSafeEncode,
		"capitalize":             Capitalize,
		"ceil":                   Ceil,
		"compact":                Compact,
		"concat":                 Concat,
		"date":                   Date,
		"default":                Default,
		"divided_by":             DividedBy,
		"downcase":               Downcase,
		"escape":                 Escape,
		"escape_once":            EscapeOnce,
		"first":                  First,
		"floor":                  Floor,
		"h":                      Escape,
		"join":                   Join,
		"json":                   JSON,
		"last":                   Last,
		"lstrip":                 Lstrip,
		"map":                    Map,
		"markdownify":            Markdownify,
		"minus":                  Minus,
		"modulo":                 Modulo,
		"newline_to_br":          NewlineToBr,
		"plus":                   Plus,
		"prepend":                Prepend,
		"reject":                 Reject,
		"remove":                 Remove,
		"remove_first":           RemoveFirst,
		"remove_last":            RemoveLast,
		"replace":                Replace,
		"replace_first":          ReplaceFirst,
		"replace_last":           ReplaceLast,
		"reverse":                Reverse,
		"round":                  Round,
		"rstrip":                 Rstrip,
		"size":                   Size,
		"slice":                  Slice,
		"sort":                   Sort,
		"sort_natural":           SortNatural,
		"split":                  Split,
		"strip":                  Strip,
		"strip_html":             StripHTML,
		"strip_newlines":         StripNewlines,
		"sum":                    Sum,
		"times":                  Times,
		"truncate":               Truncate,
		"truncatewords":          Truncatewords,
		"uniq":                   Uniq,
		"upcase":                 Upcase,
		"url_decode":             URLDecode,
		"url_encode":             URLEncode,
		"where":                  Where,
	}
}

// arity returns an error if a filter has been called with less than min or
// more than max arguments. The input and the keyword arguments, as a whole,
// count as arguments.
func arity(args []interface{}, kwargs map[string]interface{}, min, max int) error {
	given := 1 + len(args)
	if len(kwargs) > 0 {
		given++
	}
	if min <= given && given <= max {
		return nil
	}
	expected := strconv.Itoa(min)
	if max != min {
		expected += ".." + strconv.Itoa(max)
	}
	return native.Errorf("wrong number of arguments (given %d, expected %s)", given, expected)
}

// arg returns the i-th positional argument, or nil if it has not been passed.
func arg(args []interface{}, i int) interface{} {
	if i < len(args) {
		return args[i]
	}
	return nil
}

// toString returns v converted to a string as it is rendered.
func toString(v interface{}) string {
	return native.ToOutput(native.ToLiquid(v))
}

// toInteger converts v to an integer. It returns an error if v is not an
// integer or a string with an integer.
func toInteger(v interface{}) (int, error) {
	return native.ToInteger(native.ToLiquid(v))
}
