// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liquidgo/liquid"
	"github.com/liquidgo/liquid/ast/astutil"
)

func newParseCmd() *cobra.Command {
	var lax bool
	cmd := &cobra.Command{
		Use:   "parse TEMPLATE",
		Short: "Print the tree of a template file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			_, body, err := liquid.SplitFrontMatter(string(src))
			if err != nil {
				return err
			}
			options := &liquid.BuildOptions{ErrorMode: liquid.ErrorModeWarn}
			if lax {
				options.ErrorMode = liquid.ErrorModeLax
			}
			template, err := liquid.Parse(body, options)
			if err != nil {
				return err
			}
			for _, w := range template.Warnings() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}
			return astutil.Dump(cmd.OutOrStdout(), template.Tree())
		},
	}
	cmd.Flags().BoolVar(&lax, "lax", false, "parse the template in lax mode")
	return cmd
}
