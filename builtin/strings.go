// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtin

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/liquidgo/liquid/native"
)

// spaces are the characters removed by the strip filters.
const spaces = " \t\n\v\f\r\x00"

var (
	htmlBlocks = regexp.MustCompile(`(?is)<script.*?</script>|<!--.*?-->|<style.*?</style>`)
	htmlTags   = regexp.MustCompile(`(?s)<.*?>`)
	lineBreaks = regexp.MustCompile(`\r?\n`)
)

// Size returns the number of characters of a string or the number of
// elements of an array, a map or a range. It returns 0 for other values.
func Size(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	return native.Len(native.ToLiquid(input)), nil
}

// Downcase converts the input to lowercase.
func Downcase(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	return strings.ToLower(toString(input)), nil
}

// Upcase converts the input to uppercase.
func Upcase(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	return strings.ToUpper(toString(input)), nil
}

// Capitalize converts the first character of the input to uppercase and the
// others to lowercase.
func Capitalize(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	s := toString(input)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return "", nil
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:]), nil
}

// Append appends a string to the input.
func Append(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	return toString(input) + toString(args[0]), nil
}

// Prepend prepends a string to the input.
func Prepend(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	return toString(args[0]) + toString(input), nil
}

// Remove removes every occurrence of a string from the input.
func Remove(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	return strings.ReplaceAll(toString(input), toString(args[0]), ""), nil
}

// RemoveFirst removes the first occurrence of a string from the input.
func RemoveFirst(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	return strings.Replace(toString(input), toString(args[0]), "", 1), nil
}

// RemoveLast removes the last occurrence of a string from the input.
func RemoveLast(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	return replaceLast(toString(input), toString(args[0]), ""), nil
}

// Replace replaces every occurrence of a string in the input. The
// replacement defaults to the empty string.
func Replace(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 3); err != nil {
		return nil, err
	}
	return strings.ReplaceAll(toString(input), toString(args[0]), toString(arg(args, 1))), nil
}

// ReplaceFirst replaces the first occurrence of a string in the input.
func ReplaceFirst(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 3); err != nil {
		return nil, err
	}
	return strings.Replace(toString(input), toString(args[0]), toString(arg(args, 1)), 1), nil
}

// ReplaceLast replaces the last occurrence of a string in the input.
func ReplaceLast(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 3, 3); err != nil {
		return nil, err
	}
	return replaceLast(toString(input), toString(args[0]), toString(args[1])), nil
}

func replaceLast(s, old, new string) string {
	i := strings.LastIndex(s, old)
	if i < 0 {
		return s
	}
	return s[:i] + new + s[i+len(old):]
}

// Slice returns the element, or the character, of the input at the given
// offset. With a length it returns a sub-array, or a substring, of that
// length. A negative offset counts from the end.
func Slice(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 3); err != nil {
		return nil, err
	}
	offset, err := toInteger(args[0])
	if err != nil {
		return nil, err
	}
	length := 1
	if v := arg(args, 1); v != nil {
		if length, err = toInteger(v); err != nil {
			return nil, err
		}
	}
	input = native.ToLiquid(input)
	if native.KindOf(input) == native.KindArray {
		elems := native.ArrayValues(input)
		from, to, ok := sliceBounds(len(elems), offset, length)
		if !ok {
			return []interface{}{}, nil
		}
		return append([]interface{}{}, elems[from:to]...), nil
	}
	runes := []rune(toString(input))
	from, to, ok := sliceBounds(len(runes), offset, length)
	if !ok {
		return "", nil
	}
	return string(runes[from:to]), nil
}

// sliceBounds returns the bounds of the slice of a sequence with n elements
// starting at offset with the given length. It returns false if the slice
// is empty.
func sliceBounds(n, offset, length int) (int, int, bool) {
	if offset < 0 {
		offset += n
	}
	if offset < 0 || offset >= n || length <= 0 {
		return 0, 0, false
	}
	end := n
	if length < n-offset {
		end = offset + length
	}
	return offset, end, true
}

// Split splits the input on a separator. A single space separator splits on
// runs of white space, an empty separator splits every character. Trailing
// empty strings are removed.
func Split(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	s, sep := toString(input), toString(args[0])
	var parts []string
	switch sep {
	case " ":
		parts = strings.Fields(s)
	case "":
		parts = strings.Split(s, "")
	default:
		parts = strings.Split(s, sep)
	}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	elems := make([]interface{}, len(parts))
	for i, p := range parts {
		elems[i] = p
	}
	return elems, nil
}

// Strip removes the white space at the beginning and at the end of the
// input.
func Strip(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	return strings.Trim(toString(input), spaces), nil
}

// Lstrip removes the white space at the beginning of the input.
func Lstrip(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	return strings.TrimLeft(toString(input), spaces), nil
}

// Rstrip removes the white space at the end of the input.
func Rstrip(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	return strings.TrimRight(toString(input), spaces), nil
}

// StripHTML removes the HTML tags from the input, together with the content
// of the script and style elements and the comments.
func StripHTML(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	s := htmlBlocks.ReplaceAllString(toString(input), "")
	return htmlTags.ReplaceAllString(s, ""), nil
}

// StripNewlines removes the line breaks from the input.
func StripNewlines(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	return lineBreaks.ReplaceAllString(toString(input), ""), nil
}

// NewlineToBr inserts a "<br />" before each line break of the input.
func NewlineToBr(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	return lineBreaks.ReplaceAllString(toString(input), "<br />\n"), nil
}

// Truncate shortens the input to the given number of characters, 50 by
// default, ellipsis included. The ellipsis defaults to "...".
func Truncate(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 3); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, nil
	}
	length := 50
	if v := arg(args, 0); v != nil {
		var err error
		if length, err = toInteger(v); err != nil {
			return nil, err
		}
	}
	ellipsis := "..."
	if len(args) > 1 {
		ellipsis = toString(args[1])
	}
	s := toString(input)
	if utf8.RuneCountInString(s) <= length {
		return s, nil
	}
	n := length - utf8.RuneCountInString(ellipsis)
	if n < 0 {
		n = 0
	}
	return string([]rune(s)[:n]) + ellipsis, nil
}

// Truncatewords shortens the input to the given number of words, 15 by
// default, followed by an ellipsis. The ellipsis defaults to "...".
func Truncatewords(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 3); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, nil
	}
	words := 15
	if v := arg(args, 0); v != nil {
		var err error
		if words, err = toInteger(v); err != nil {
			return nil, err
		}
	}
	if words <= 0 {
		words = 1
	}
	ellipsis := "..."
	if len(args) > 1 {
		ellipsis = toString(args[1])
	}
	s := toString(input)
	fields := strings.Fields(s)
	if len(fields) <= words {
		return s, nil
	}
	return strings.Join(fields[:words], " ") + ellipsis, nil
}
