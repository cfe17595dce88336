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

// Package esbuildPlugin compiles .less files that are imported into an
// esbuild bundle.
package esbuildPlugin

import (
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/das7pad/less-go/pkg/less"
	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/evaluator"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

const Name = "less"

func Plugin(c *less.Compiler) api.Plugin {
	return api.Plugin{
		Name: Name,
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{
				Filter: `\.less$`,
			}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				return load(c, args.Path), nil
			})
		},
	}
}

func load(c *less.Compiler, p string) api.OnLoadResult {
	ctx := c.NewContext()
	css, err := ctx.CompileFile(p)
	res := api.OnLoadResult{
		PluginName: Name,
		ResolveDir: filepath.Dir(p),
		WatchFiles: append([]string{p}, ctx.Imports()...),
		Warnings:   convertWarnings(ctx.Warnings()),
	}
	if err != nil {
		res.Errors = []api.Message{convertError(err, p)}
		return res
	}
	res.Contents = &css
	res.Loader = api.LoaderCSS
	return res
}

func location(p node.Position) *api.Location {
	if !p.IsKnown() {
		return nil
	}
	return &api.Location{
		File:   p.File,
		Line:   p.Line,
		Column: p.Column - 1,
	}
}

func convertError(err error, p string) api.Message {
	e, ok := diagnostics.AsError(err)
	if !ok {
		return api.Message{
			PluginName: Name,
			Text:       err.Error(),
			Location:   &api.Location{File: p},
		}
	}
	m := api.Message{
		PluginName: Name,
		Text:       e.Type.String() + ": " + e.Message(),
		Location:   location(e.Pos),
		Detail:     e,
	}
	trace := strings.Split(strings.TrimSpace(less.FormatError(e, false)), "\n")
	for _, line := range trace[1:] {
		m.Notes = append(m.Notes, api.Note{Text: line})
	}
	return m
}

func convertWarnings(in []evaluator.Warning) []api.Message {
	out := make([]api.Message, 0, len(in))
	for _, w := range in {
		out = append(out, api.Message{
			PluginName: Name,
			Text:       w.Message,
			Location:   location(w.Pos),
		})
	}
	return out
}
