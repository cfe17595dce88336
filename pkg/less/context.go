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

package less

import (
	"path"
	"strings"

	"github.com/das7pad/less-go/pkg/errors"
	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/evaluator"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/renderer"
)

// Context runs compiles for a single output. It is not safe for
// concurrent use.
type Context struct {
	c *Compiler

	text      map[string]string
	imports   []string
	warnings  []evaluator.Warning
	sourceMap *renderer.SourceMap
}

// Parse returns the tree for text. The tree may be shared through the
// parse cache and must not be modified.
func (ctx *Context) Parse(text, path string) (*node.Stylesheet, error) {
	return ctx.c.cache.Parse(text, path)
}

// Eval expands imports and mixins of s into a new tree of plain CSS
// rules.
func (ctx *Context) Eval(s *node.Stylesheet) (*node.Stylesheet, error) {
	o := ctx.c.o
	e := evaluator.New(evaluator.Options{
		Loader:               ctx.c.loader,
		Functions:            ctx.c.functions,
		Parse:                ctx.c.cache.Parse,
		ImportOnce:           o.ImportOnce,
		IncludePaths:         o.IncludePaths,
		MixinRecursionLimit:  o.MixinRecursionLimit,
		ImportRecursionLimit: o.ImportRecursionLimit,
		Tracing:              o.Tracing,
		Strict:               o.Strict,
		Logger:               o.Logger,
	})
	out, err := e.Eval(s)
	ctx.imports = e.Imports()
	ctx.warnings = e.Warnings()
	return out, err
}

// Expand parses and evaluates text.
func (ctx *Context) Expand(text, path string) (*node.Stylesheet, error) {
	ctx.text = map[string]string{path: text}
	s, err := ctx.Parse(text, path)
	if err != nil {
		return nil, err
	}
	return ctx.Eval(s)
}

// Render serializes s. With source maps enabled the map is available from
// SourceMap afterwards.
func (ctx *Context) Render(s *node.Stylesheet) string {
	o := ctx.c.o
	b := renderer.NewBuffer(renderer.Options{
		Compress:  o.Compress,
		Indent:    o.Indent,
		SourceMap: o.SourceMap,
		File:      outputName(s.File),
	})
	b.Node(s)
	ctx.sourceMap = b.SourceMap(ctx.sources())
	return b.String()
}

func (ctx *Context) Compile(text, path string) (string, error) {
	s, err := ctx.Expand(text, path)
	if err != nil {
		return "", err
	}
	return ctx.Render(s), nil
}

func (ctx *Context) CompileFile(p string) (string, error) {
	text, err := ctx.c.loader.Load(p)
	if err != nil {
		return "", errors.Tag(err, "load "+p)
	}
	return ctx.Compile(text, p)
}

func (ctx *Context) SourceMap() *renderer.SourceMap {
	return ctx.sourceMap
}

// Imports lists the files imported by the last compile.
func (ctx *Context) Imports() []string {
	return ctx.imports
}

func (ctx *Context) Warnings() []evaluator.Warning {
	return ctx.warnings
}

func (ctx *Context) sources() map[string]string {
	if !ctx.c.o.SourceMap {
		return nil
	}
	out := make(map[string]string, len(ctx.imports)+1)
	for p, text := range ctx.text {
		out[p] = text
	}
	for _, p := range ctx.imports {
		if _, ok := out[p]; ok {
			continue
		}
		if text, err := ctx.c.loader.Load(p); err == nil {
			out[p] = text
		}
	}
	return out
}

func outputName(p string) string {
	if p == "" {
		return ""
	}
	return strings.TrimSuffix(path.Base(p), path.Ext(p)) + ".css"
}

// FormatError renders compile errors with their trace, other errors are
// returned as is.
func FormatError(err error, color bool) string {
	e, ok := diagnostics.AsError(err)
	if !ok {
		return err.Error()
	}
	f := diagnostics.Formatter{Header: renderer.Header, Color: color}
	return f.Format(e)
}
