// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtin

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/liquidgo/liquid/native"
)

var htmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&#39;",
)

// escapeOnce matches the characters to escape, excluding the ampersands that
// already begin an entity.
var escapeOnce = regexp.MustCompile(`["<>']|&(?:[a-zA-Z]+|#\d+|#[xX][0-9a-fA-F]+);|&`)

// Escape escapes the HTML special characters of the input. It returns nil
// if the input is nil.
func Escape(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, nil
	}
	return htmlEscaper.Replace(toString(input)), nil
}

// EscapeOnce escapes the HTML special characters of the input without
// escaping again the existing entities.
func EscapeOnce(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	s := escapeOnce.ReplaceAllStringFunc(toString(input), func(m string) string {
		if len(m) > 1 {
			return m
		}
		return htmlEscaper.Replace(m)
	})
	return s, nil
}

// URLEncode escapes the input so that it can be placed in a URL query. It
// returns nil if the input is nil.
func URLEncode(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, nil
	}
	return url.QueryEscape(toString(input)), nil
}

// URLDecode decodes a string escaped by URLEncode. Invalid escape sequences
// are left as they are.
func URLDecode(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, nil
	}
	s := toString(input)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	s = b.String()
	if !utf8.ValidString(s) {
		return nil, native.Errorf("invalid byte sequence in UTF-8")
	}
	return s, nil
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	}
	return c - 'A' + 10
}

// Base64Encode encodes the input in base64.
func Base64Encode(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	return base64.StdEncoding.EncodeToString([]byte(toString(input))), nil
}

// Base64Decode decodes an input encoded in base64.
func Base64Decode(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(toString(input))
	if err != nil {
		return nil, native.Errorf("invalid base64 provided to base64_decode")
	}
	return string(b), nil
}

// Base64URLSafeEncode encodes the input in base64 with the URL and file name
// safe alphabet.
func Base64URLSafeEncode(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	return base64.URLEncoding.EncodeToString([]byte(toString(input))), nil
}

// Base64URLSafeDecode decodes an input encoded in base64 with the URL and
// file name safe alphabet. The padding is optional.
func Base64URLSafeDecode(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	s := strings.TrimRight(toString(input), "=")
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, native.Errorf("invalid base64 provided to base64_url_safe_decode")
	}
	return string(b), nil
}
