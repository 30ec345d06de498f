// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtin

import (
	"bytes"
	"encoding/json"

	"github.com/yuin/goldmark"

	"github.com/liquidgo/liquid/native"
)

// Markdownify converts the input from Markdown to HTML.
func Markdownify(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if err := goldmark.Convert([]byte(toString(input)), &b); err != nil {
		return nil, err
	}
	return b.String(), nil
}

// JSON returns the JSON encoding of the input. The keys of the maps are
// encoded in iteration order, ranges and drops as their text.
func JSON(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if err := encodeJSON(&b, jsonValue(input)); err != nil {
		return nil, native.Errorf("json: %s", err)
	}
	return b.String(), nil
}

// jsonValue returns the value encoded by encoding/json as v.
func jsonValue(v interface{}) interface{} {
	v = native.ToLiquid(v)
	switch native.KindOf(v) {
	case native.KindNil:
		return nil
	case native.KindBool:
		return native.BoolValue(v)
	case native.KindInt:
		return native.IntValue(v)
	case native.KindFloat:
		return json.Number(native.FormatFloat(native.FloatValue(v)))
	case native.KindString:
		return native.StringValue(v)
	case native.KindArray:
		elems := native.ArrayValues(v)
		values := make([]interface{}, len(elems))
		for i, e := range elems {
			values[i] = jsonValue(e)
		}
		return values
	case native.KindMap:
		keys, get := native.MapEntries(v)
		obj := jsonObject{keys: keys, values: make([]interface{}, len(keys))}
		for i, key := range keys {
			obj.values[i] = jsonValue(get(key))
		}
		return obj
	}
	return native.ToOutput(v)
}

// jsonObject is a JSON object with ordered keys.
type jsonObject struct {
	keys   []string
	values []interface{}
}

func (obj jsonObject) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, key := range obj.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := encodeJSON(&b, key); err != nil {
			return nil, err
		}
		b.WriteByte(':')
		if err := encodeJSON(&b, obj.values[i]); err != nil {
			return nil, err
		}
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// encodeJSON writes the JSON encoding of v to b without escaping the HTML
// characters.
func encodeJSON(b *bytes.Buffer, v interface{}) error {
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	b.Truncate(b.Len() - 1)
	return nil
}
