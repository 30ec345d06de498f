// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/liquidgo/liquid"
	"github.com/liquidgo/liquid/ast"
)

const (
	replPrompt     = "liquid> "
	replMorePrompt = "   ...> "
)

func newReplCmd() *cobra.Command {
	var data, partials string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Render templates interactively",
		Long: "Repl reads templates line by line and renders them.\n\n" +
			"The variables assigned by a line with only assign and capture tags\n" +
			"are kept for the following lines. A line with an unclosed block\n" +
			"continues on the next line.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := loadData(data)
			if err != nil {
				return err
			}
			var fsys liquid.FileSystem
			if partials != "" {
				if fsys, err = partialsFS(partials, "", false); err != nil {
					return err
				}
			}
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          replPrompt,
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer rl.Close()
			r := &repl{vars: vars, partials: fsys}
			return r.run(rl, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "YAML or JSON file with the variables")
	cmd.Flags().StringVarP(&partials, "partials", "p", "", "directory or txtar archive with the partials")
	return cmd
}

// lineReader reads the lines of a repl.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// repl is a read-eval-print loop.
type repl struct {
	vars     map[string]interface{}
	partials liquid.FileSystem

	// prelude contains the lines with only assignments. It is rendered
	// before every line.
	prelude string
}

// run reads the lines from rl until the end of the input.
func (r *repl) run(rl lineReader, out, errOut io.Writer) error {
	var pending string
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				pending = ""
				rl.SetPrompt(replPrompt)
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
		src := pending + line
		if strings.TrimSpace(src) == "" {
			continue
		}
		output, err := r.eval(src)
		if err != nil && isUnclosed(err) {
			pending = src + "\n"
			rl.SetPrompt(replMorePrompt)
			continue
		}
		pending = ""
		rl.SetPrompt(replPrompt)
		if output != "" {
			fmt.Fprintln(out, output)
		}
		if err != nil {
			printError(errOut, err)
		}
	}
}

// eval renders src after the prelude and returns the output.
func (r *repl) eval(src string) (string, error) {
	options := &liquid.BuildOptions{FileSystem: r.partials}
	line, err := liquid.Parse(src, options)
	if err != nil {
		return "", err
	}
	template, err := liquid.Parse(r.prelude+src, options)
	if err != nil {
		return "", err
	}
	out, err := template.Render(r.vars, &liquid.RunOptions{RenderErrorsInline: true})
	if err == nil && onlyAssignments(line.Tree()) {
		r.prelude += src
	}
	return out, err
}

// onlyAssignments reports whether the nodes of tree are only assign and
// capture tags and blank text.
func onlyAssignments(tree *ast.Tree) bool {
	for _, node := range tree.Nodes {
		switch n := node.(type) {
		case *ast.Assign, *ast.Capture:
		case *ast.Text:
			if strings.TrimSpace(n.Text) != "" {
				return false
			}
		default:
			return false
		}
	}
	return len(tree.Nodes) > 0
}

// isUnclosed reports whether err is a syntax error for a block that is not
// closed.
func isUnclosed(err error) bool {
	var e *liquid.SyntaxError
	return errors.As(err, &e) && strings.HasSuffix(e.Message(), "was never closed")
}
