// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liquidgo/liquid"
)

type renderFlags struct {
	data         string
	partials     string
	inlineErrors bool
	lax          bool
	laxFilters   bool
	watch        bool
}

func (f *renderFlags) errorMode() liquid.ErrorMode {
	if f.lax {
		return liquid.ErrorModeLax
	}
	return liquid.ErrorModeStrict
}

func newRenderCmd() *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render TEMPLATE",
		Short: "Render a template file",
		Long: "Render renders a template file to the standard output.\n\n" +
			"The variables are read from the --data file, YAML or JSON, and from the\n" +
			"YAML front matter of the template. The partials are read from the\n" +
			"--partials directory, or txtar archive, and by default from the\n" +
			"directory of the template.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partials, err := partialsFS(f.partials, args[0], f.watch)
			if err != nil {
				return err
			}
			if c, ok := partials.(io.Closer); ok {
				defer c.Close()
			}
			r := &renderer{file: args[0], flags: f, partials: partials}
			if f.watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return r.watch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
			}
			r.read = func() (string, error) {
				src, err := os.ReadFile(r.file)
				return string(src), err
			}
			return r.render(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.data, "data", "d", "", "YAML or JSON file with the variables")
	flags.StringVarP(&f.partials, "partials", "p", "", "directory or txtar archive with the partials")
	flags.BoolVar(&f.inlineErrors, "inline-errors", false, "render the errors in the output")
	flags.BoolVar(&f.lax, "lax", false, "parse the template in lax mode")
	flags.BoolVar(&f.laxFilters, "lax-filters", false, "ignore undefined filters")
	flags.BoolVarP(&f.watch, "watch", "w", false, "render again when the template or a partial changes")
	return cmd
}

// partialsFS returns the file system of the partials. name is a directory or
// a txtar archive. If it is empty, the partials are read from the directory
// of the template file.
func partialsFS(name, file string, watch bool) (liquid.FileSystem, error) {
	if name == "" {
		name = filepath.Dir(file)
	}
	if strings.HasSuffix(name, ".txtar") {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		return liquid.TxtarFS(data), nil
	}
	if watch {
		return liquid.WatchFS(name, "")
	}
	return liquid.DirFS(name, ""), nil
}

// renderer renders a template file.
type renderer struct {
	file     string
	flags    *renderFlags
	read     func() (string, error)
	partials liquid.FileSystem
	cache    *liquid.Cache
}

// render renders the template to out. If the errors are rendered inline,
// they are also printed on errOut.
func (r *renderer) render(out, errOut io.Writer) error {
	src, err := r.read()
	if err != nil {
		return err
	}
	front, body, err := liquid.SplitFrontMatter(src)
	if err != nil {
		return err
	}
	vars, err := loadData(r.flags.data)
	if err != nil {
		return err
	}
	template, err := liquid.Parse(body, &liquid.BuildOptions{
		ErrorMode:  r.flags.errorMode(),
		FileSystem: r.partials,
		Cache:      r.cache,
	})
	if err != nil {
		return err
	}
	err = template.Run(out, vars, &liquid.RunOptions{
		Scope:              front,
		RenderErrorsInline: r.flags.inlineErrors,
		LaxFilters:         r.flags.laxFilters,
	})
	var errs liquid.Errors
	if errors.As(err, &errs) {
		printError(errOut, errs)
		return nil
	}
	return err
}

// watch renders the template, and renders it again every time the template
// or one of its partials changes, until ctx is done.
func (r *renderer) watch(ctx context.Context, out, errOut io.Writer) error {
	ext := filepath.Ext(r.file)
	name := strings.TrimSuffix(filepath.Base(r.file), ext)
	templates, err := liquid.WatchFS(filepath.Dir(r.file), "%s"+ext)
	if err != nil {
		return err
	}
	defer templates.Close()
	r.read = func() (string, error) {
		return templates.ReadTemplateFile(name)
	}
	r.cache = liquid.NewCache()
	changed := make(chan struct{}, 1)
	notify := func(string) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
	templates.InvalidateOnChange(r.cache, notify)
	if w, ok := r.partials.(*liquid.WatchFileSystem); ok {
		w.InvalidateOnChange(r.cache, notify)
	}
	for {
		if err := r.render(out, errOut); err != nil {
			printError(errOut, err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
		case err := <-templates.Errors():
			return err
		}
	}
}
