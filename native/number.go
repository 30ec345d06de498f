// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package native

import (
	"strconv"
	"strings"
)

// ToInteger converts v to an integer. Integers are returned as they are,
// other values are converted to text that must be a valid integer literal,
// optionally surrounded by white space. Otherwise it returns an
// *ArgumentError with message "invalid integer".
func ToInteger(v interface{}) (int, error) {
	if KindOf(v) == KindInt {
		return IntValue(v), nil
	}
	s := strings.TrimSpace(ToOutput(v))
	s = strings.ReplaceAll(s, "_", "")
	n, err := strconv.ParseInt(s, 10, 0)
	if err != nil {
		return 0, Errorf("invalid integer")
	}
	return int(n), nil
}

// LeadingInt returns the integer at the beginning of s, ignoring leading
// white space, or 0 if s does not begin with an integer. For example
// LeadingInt("12abc") returns 12.
func LeadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0
	}
	return n
}

// ToRangeBound converts v to a bound of a range: integers as they are, nil
// and strings by their leading integer, floats truncated. Other values are
// converted as by ToInteger.
func ToRangeBound(v interface{}) (int, error) {
	switch KindOf(v) {
	case KindInt:
		return IntValue(v), nil
	case KindNil:
		return 0, nil
	case KindString:
		return LeadingInt(StringValue(v)), nil
	case KindFloat:
		return int(FloatValue(v)), nil
	}
	return ToInteger(v)
}
