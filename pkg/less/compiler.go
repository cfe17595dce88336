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

// Package less compiles stylesheets written in the LESS dialect to CSS.
//
// A Compiler holds the configuration and caches that can be shared by
// concurrent compiles. Each compile runs in its own Context, which
// collects the imported files, warnings and the source map.
package less

import (
	"io"
	"log/slog"

	"github.com/das7pad/less-go/pkg/errors"
	"github.com/das7pad/less-go/pkg/less/pkg/functions"
	"github.com/das7pad/less-go/pkg/less/pkg/loader"
)

type Compiler struct {
	o         Options
	loader    loader.Loader
	functions *functions.Registry
	cache     *ParseCache
}

type CompilerOption func(c *Compiler)

// WithParseCache shares parsed trees between compilers.
func WithParseCache(pc *ParseCache) CompilerOption {
	return func(c *Compiler) {
		c.cache = pc
	}
}

// WithFunctions replaces the built-in function registry.
func WithFunctions(r *functions.Registry) CompilerOption {
	return func(c *Compiler) {
		c.functions = r
	}
}

func NewCompiler(o Options, l loader.Loader, opts ...CompilerOption) (*Compiler, error) {
	if err := o.Validate(); err != nil {
		return nil, errors.Tag(err, "options are invalid")
	}
	if l == nil {
		l = loader.FileSystem{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Compiler{
		o:         o,
		loader:    l,
		functions: functions.Builtins(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		pc, err := NewParseCache(DefaultParseCacheSize)
		if err != nil {
			return nil, err
		}
		c.cache = pc
	}
	return c, nil
}

func (c *Compiler) Options() Options {
	return c.o
}

func (c *Compiler) Loader() loader.Loader {
	return c.loader
}

func (c *Compiler) NewContext() *Context {
	return &Context{c: c}
}
