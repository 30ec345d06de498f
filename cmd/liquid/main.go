// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Liquid renders Liquid templates from the command line.
//
// Usage:
//
//	liquid render TEMPLATE [--data file] [--partials dir|archive.txtar] [--inline-errors] [--lax] [--lax-filters] [--watch]
//	liquid parse TEMPLATE [--lax]
//	liquid repl [--data file]
//	liquid version
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/liquidgo/liquid"
)

// version is the version of the command. It is set at build time.
var version = "devel"

// errorStyle is the style of the errors printed on stderr.
var errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "liquid",
		Short:         "Render Liquid templates",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newRenderCmd(), newParseCmd(), newReplCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "liquid version %s\n", version)
		},
	}
}

// printError prints err on w with a bold red color. The errors of an Errors
// value are printed one per line, followed by the suggestion, if any.
func printError(w io.Writer, err error) {
	var errs liquid.Errors
	if errors.As(err, &errs) {
		for _, e := range errs {
			printError(w, e)
		}
		return
	}
	fmt.Fprintln(w, errorStyle.Render(err.Error()))
	if s := suggestion(err); s != "" {
		fmt.Fprintf(w, "did you mean '%s'?\n", s)
	}
}

// suggestion returns the suggested tag or filter name of err.
func suggestion(err error) string {
	var se *liquid.SyntaxError
	if errors.As(err, &se) {
		return se.Suggestion
	}
	var re *liquid.RenderError
	if errors.As(err, &re) {
		return re.Suggestion
	}
	return ""
}

// loadData reads the variables from a YAML or JSON file. An empty name
// returns no variables.
func loadData(name string) (map[string]interface{}, error) {
	if name == "" {
		return map[string]interface{}{}, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	vars, err := liquid.DecodeData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", name, err)
	}
	return vars, nil
}
