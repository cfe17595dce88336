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
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/docker/go-units"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/das7pad/less-go/pkg/errors"
	"github.com/das7pad/less-go/pkg/less/pkg/esbuildPlugin"
)

type bundleOptions struct {
	outDir string
	minify bool
}

func (b *builder) bundle(entryPoints []string, o bundleOptions) error {
	t0 := time.Now()
	sourceMap := api.SourceMapNone
	if b.cfg.SourceMap {
		sourceMap = api.SourceMapLinked
	}
	res := api.Build(api.BuildOptions{
		EntryPoints:       entryPoints,
		Bundle:            true,
		Outdir:            o.outDir,
		Write:             false,
		MinifyWhitespace:  o.minify,
		MinifySyntax:      o.minify,
		MinifyIdentifiers: o.minify,
		Sourcemap:         sourceMap,
		LogLevel:          api.LogLevelSilent,
		Plugins:           []api.Plugin{esbuildPlugin.Plugin(b.c)},
	})
	for _, m := range res.Warnings {
		b.logger.Warn(m.Text, messageAttrs(m)...)
	}
	if len(res.Errors) > 0 {
		m := &errors.MergedError{}
		for _, msg := range res.Errors {
			b.logger.Error(msg.Text, messageAttrs(msg)...)
			for _, n := range msg.Notes {
				_, _ = io.WriteString(b.stderr, n.Text+"\n")
			}
			m.Add(errors.New(msg.Text))
		}
		return errors.Tag(m.Finalize(), "bundle")
	}
	for _, f := range res.OutputFiles {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return errors.Tag(err, "create output dir")
		}
		if err := os.WriteFile(f.Path, f.Contents, 0o644); err != nil {
			return errors.Tag(err, "write "+f.Path)
		}
		b.logger.Info(
			"wrote",
			slog.String("path", f.Path),
			slog.String("size", units.HumanSize(float64(len(f.Contents)))),
		)
	}
	b.logger.Info("bundle", slog.String("took", time.Since(t0).String()))
	return nil
}

func messageAttrs(m api.Message) []any {
	if m.Location == nil {
		return nil
	}
	return []any{
		slog.String("file", m.Location.File),
		slog.Int("line", m.Location.Line),
		slog.Int("column", m.Location.Column),
	}
}
