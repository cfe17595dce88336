// Golang port of Overleaf
// Copyright (C) 2024 Jakob Ackermann <das7pad@outlook.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/kr/pretty"
	"golang.org/x/sync/errgroup"

	"github.com/das7pad/less-go/pkg/errors"
	"github.com/das7pad/less-go/pkg/less"
	"github.com/das7pad/less-go/pkg/less/pkg/loader"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/renderer"
)

type builder struct {
	cfg    config
	c      *less.Compiler
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
	expand bool
	color  bool
}

type result struct {
	input   string
	output  string
	imports []string
	err     error
}

func newBuilder(cfg config, logger *slog.Logger, stdout, stderr io.Writer) (*builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var l loader.Loader = loader.FileSystem{}
	if cfg.Root != "" {
		l = loader.NewJailed(cfg.Root)
	}
	cfg.Options.Logger = logger
	c, err := less.NewCompiler(cfg.Options, l)
	if err != nil {
		return nil, err
	}
	return &builder{
		cfg:    cfg,
		c:      c,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
		color:  isTerminal(stderr),
	}, nil
}

// buildAll compiles inputs concurrently. Results are returned in input
// order, stdout output is written in that order too.
func (b *builder) buildAll(inputs []string) ([]result, error) {
	t0 := time.Now()
	results := make([]result, len(inputs))
	eg := &errgroup.Group{}
	eg.SetLimit(b.cfg.Concurrency)
	for i, input := range inputs {
		i, input := i, input
		eg.Go(func() error {
			results[i] = b.build(input)
			return nil
		})
	}
	_ = eg.Wait()

	m := &errors.MergedError{}
	for _, r := range results {
		if r.err != nil {
			_, _ = fmt.Fprintln(b.stderr, less.FormatError(r.err, b.color))
			m.Add(errors.Tag(r.err, r.input))
			continue
		}
		if b.cfg.OutDir == "" && r.output != "" {
			_, _ = io.WriteString(b.stdout, r.output)
		}
	}
	b.logger.Info(
		"build",
		slog.Int("inputs", len(inputs)),
		slog.Int("failed", len(m.Errors())),
		slog.String("took", time.Since(t0).String()),
	)
	return results, m.Finalize()
}

func (b *builder) build(input string) result {
	t0 := time.Now()
	ctx := b.c.NewContext()
	r := result{input: input}
	if b.expand {
		s, err := b.expandFile(ctx, input)
		r.imports = ctx.Imports()
		if err != nil {
			r.err = err
			return r
		}
		r.output = pretty.Sprintf("%# v\n", s)
		return r
	}
	css, err := ctx.CompileFile(input)
	r.imports = ctx.Imports()
	if err != nil {
		r.err = err
		return r
	}
	if err = b.write(ctx, input, css, &r); err != nil {
		r.err = err
		return r
	}
	for _, w := range ctx.Warnings() {
		b.logger.Warn(w.String(), slog.String("input", input))
	}
	b.logger.Debug(
		"compiled",
		slog.String("input", input),
		slog.String("size", units.HumanSize(float64(len(css)))),
		slog.Int("imports", len(r.imports)),
		slog.String("took", time.Since(t0).String()),
	)
	return r
}

func (b *builder) expandFile(ctx *less.Context, input string) (*node.Stylesheet, error) {
	text, err := b.c.Loader().Load(input)
	if err != nil {
		return nil, errors.Tag(err, "load "+input)
	}
	return ctx.Expand(text, input)
}

func outputPath(dir, input string) string {
	name := filepath.Base(input)
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".css"
	return filepath.Join(dir, name)
}

func (b *builder) write(ctx *less.Context, input, css string, r *result) error {
	m := ctx.SourceMap()
	if b.cfg.OutDir == "" {
		if m != nil {
			blob, err := m.JSON()
			if err != nil {
				return errors.Tag(err, "serialize source map")
			}
			css = renderer.InlineSourceMap(css, blob)
		}
		if !strings.HasSuffix(css, "\n") {
			css += "\n"
		}
		r.output = css
		return nil
	}
	dst := outputPath(b.cfg.OutDir, input)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Tag(err, "create output dir")
	}
	if m != nil {
		blob, err := m.JSON()
		if err != nil {
			return errors.Tag(err, "serialize source map")
		}
		if err = os.WriteFile(dst+".map", []byte(blob), 0o644); err != nil {
			return errors.Tag(err, "write source map")
		}
		css += "\n/*# sourceMappingURL=" + filepath.Base(dst) + ".map */"
	}
	if err := os.WriteFile(dst, []byte(css), 0o644); err != nil {
		return errors.Tag(err, "write "+dst)
	}
	return nil
}
