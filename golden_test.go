// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package liquid

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// goldenCase is a conformance case of the testdata/golden directory.
type goldenCase struct {
	Name         string            `yaml:"name"`
	Template     string            `yaml:"template"`
	Environment  yaml.Node         `yaml:"environment"`
	Partials     map[string]string `yaml:"partials"`
	Expected     string            `yaml:"expected"`
	Error        string            `yaml:"error"`
	ErrorPrefix  string            `yaml:"error_prefix"`
	ErrorMode    string            `yaml:"error_mode"`
	RenderErrors bool              `yaml:"render_errors"`
	LaxFilters   bool              `yaml:"lax_filters"`
}

var errorModes = map[string]ErrorMode{
	"":       ErrorModeStrict,
	"strict": ErrorModeStrict,
	"lax":    ErrorModeLax,
	"warn":   ErrorModeWarn,
}

func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "golden", "*.yml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, file := range files {
		data, err := os.ReadFile(file)
		require.NoError(t, err)
		var cases []goldenCase
		require.NoError(t, yaml.Unmarshal(data, &cases), file)
		base := strings.TrimSuffix(filepath.Base(file), ".yml")
		for _, c := range cases {
			c := c
			t.Run(base+"/"+c.Name, func(t *testing.T) {
				runGolden(t, c)
			})
		}
	}
}

func runGolden(t *testing.T, c goldenCase) {
	mode, ok := errorModes[c.ErrorMode]
	require.True(t, ok, "unknown error mode %q", c.ErrorMode)
	env, err := decodeVars(&c.Environment)
	require.NoError(t, err)

	template, err := Parse(c.Template, &BuildOptions{
		ErrorMode:  mode,
		FileSystem: MapFS(c.Partials),
	})
	if err != nil {
		checkGoldenError(t, c, err)
		return
	}
	out, err := template.Render(env, &RunOptions{
		RenderErrorsInline: c.RenderErrors,
		LaxFilters:         c.LaxFilters,
	})
	if c.RenderErrors {
		require.Equal(t, c.Expected, out)
		return
	}
	if err != nil {
		checkGoldenError(t, c, err)
		return
	}
	require.Empty(t, c.Error+c.ErrorPrefix, "expected an error")
	require.Equal(t, c.Expected, out)
}

func checkGoldenError(t *testing.T, c goldenCase, err error) {
	t.Helper()
	switch {
	case c.Error != "":
		require.EqualError(t, err, c.Error)
	case c.ErrorPrefix != "":
		require.True(t, strings.HasPrefix(err.Error(), c.ErrorPrefix), "error %q has not prefix %q", err, c.ErrorPrefix)
	default:
		require.NoError(t, err)
	}
}
