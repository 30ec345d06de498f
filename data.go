// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package liquid

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/liquidgo/liquid/native"
)

// DecodeData decodes a YAML or JSON document with a mapping at the top level
// and returns its values, to be used as the variables of a rendering. The
// nested mappings are decoded as *native.OrderedMap values so that they are
// iterated in the order of the document. An empty document returns an empty
// map.
func DecodeData(data []byte) (map[string]interface{}, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return map[string]interface{}{}, nil
	}
	return decodeVars(doc.Content[0])
}

// decodeVars decodes a YAML mapping node as variables. A zero node is an
// empty mapping.
func decodeVars(node *yaml.Node) (map[string]interface{}, error) {
	vars := map[string]interface{}{}
	if node.Kind == 0 {
		return vars, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: data is not a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		v, err := decodeNode(node.Content[i+1])
		if err != nil {
			return nil, err
		}
		vars[node.Content[i].Value] = v
	}
	return vars, nil
}

// decodeNode decodes a YAML node as a template value.
func decodeNode(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return decodeNode(node.Content[0])
	case yaml.AliasNode:
		return decodeNode(node.Alias)
	case yaml.MappingNode:
		m := native.NewOrderedMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := decodeNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(node.Content[i].Value, v)
		}
		return m, nil
	case yaml.SequenceNode:
		s := make([]interface{}, len(node.Content))
		for i, n := range node.Content {
			v, err := decodeNode(n)
			if err != nil {
				return nil, err
			}
			s[i] = v
		}
		return s, nil
	}
	var v interface{}
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

var errFrontMatter = errors.New("front matter is not closed")

// SplitFrontMatter splits a template source in its YAML front matter,
// delimited by two "---" lines at the beginning of the source, and the
// template. If the source does not start with a front matter, it returns a
// nil map and the source.
func SplitFrontMatter(src string) (map[string]interface{}, string, error) {
	const delim = "---"
	if !strings.HasPrefix(src, delim+"\n") && !strings.HasPrefix(src, delim+"\r\n") {
		return nil, src, nil
	}
	rest := src[strings.IndexByte(src, '\n')+1:]
	for offset := 0; offset <= len(rest); {
		line := rest[offset:]
		end := strings.IndexByte(line, '\n')
		if end >= 0 {
			line = line[:end]
		}
		if strings.TrimRight(line, "\r") == delim {
			vars, err := DecodeData([]byte(rest[:offset]))
			if err != nil {
				return nil, "", err
			}
			if end < 0 {
				return vars, "", nil
			}
			return vars, rest[offset+end+1:], nil
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return nil, "", errFrontMatter
}
