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

// Package evaluator expands imports and mixins, resolves variables and
// computes values. Every block runs three passes in order: imports, mixin
// calls, then everything else. The result is a flat tree of CSS rules.
package evaluator

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/functions"
	"github.com/das7pad/less-go/pkg/less/pkg/loader"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/parser"
)

const (
	DefaultMixinRecursionLimit  = 64
	DefaultImportRecursionLimit = 32
)

type ParseFunc func(text, path string) (*node.Stylesheet, error)

type Options struct {
	Loader    loader.Loader
	Functions *functions.Registry
	// Parse parses imported files. The returned tree is not modified.
	Parse ParseFunc

	ImportOnce           bool
	IncludePaths         []string
	MixinRecursionLimit  int
	ImportRecursionLimit int
	Tracing              bool
	Strict               bool
	Logger               *slog.Logger
}

type Warning struct {
	Pos     node.Position
	Message string
}

func (w Warning) String() string {
	if !w.Pos.IsKnown() {
		return w.Message
	}
	return fmt.Sprintf(
		"%s:%d:%d: %s", w.Pos.File, w.Pos.Line, w.Pos.Column, w.Message,
	)
}

// Evaluator holds the state of a single compilation.
type Evaluator struct {
	o Options

	sheets   map[string]*node.Stylesheet
	imported map[string]bool
	imports  []string

	closures  map[*node.Mixin][]*frame
	fromMixin map[*node.Definition]bool
	done      map[node.Node]bool

	// origins records the imports that spliced a rule into its block.
	origins map[node.Node]origin

	depth int

	// guardDefault is the value of default() while evaluating a guard.
	guardDefault *bool

	warnings []Warning
}

func New(o Options) *Evaluator {
	if o.Functions == nil {
		o.Functions = functions.Builtins()
	}
	if o.Parse == nil {
		o.Parse = parser.Parse
	}
	if o.MixinRecursionLimit <= 0 {
		o.MixinRecursionLimit = DefaultMixinRecursionLimit
	}
	if o.ImportRecursionLimit <= 0 {
		o.ImportRecursionLimit = DefaultImportRecursionLimit
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Evaluator{
		o:         o,
		sheets:    make(map[string]*node.Stylesheet),
		imported:  make(map[string]bool),
		closures:  make(map[*node.Mixin][]*frame),
		fromMixin: make(map[*node.Definition]bool),
		done:      make(map[node.Node]bool),
		origins:   make(map[node.Node]origin),
	}
}

// Eval evaluates a copy of s. s itself is left untouched.
func (e *Evaluator) Eval(s *node.Stylesheet) (*node.Stylesheet, error) {
	root := node.CopyBlock(s.Block)
	var chain []string
	if s.File != "" && e.o.Loader != nil {
		p := e.o.Loader.Normalize(s.File)
		chain = append(chain, p)
		e.imported[p] = true
	}
	if err := e.evalBlock(root, nil, chain); err != nil {
		return nil, diagnostics.Annotate(err, s)
	}
	return &node.Stylesheet{
		Position: s.Position,
		Block:    flatten(root),
	}, nil
}

// Imports lists the normalized paths of all imported files in import
// order.
func (e *Evaluator) Imports() []string {
	return e.imports
}

func (e *Evaluator) Warnings() []Warning {
	return e.warnings
}

func (e *Evaluator) warn(err *diagnostics.Error) error {
	if e.o.Strict {
		return err
	}
	w := Warning{Pos: err.Pos, Message: err.Message()}
	e.warnings = append(e.warnings, w)
	e.o.Logger.Warn(
		w.Message,
		slog.String("type", err.Type.String()),
		slog.String("file", w.Pos.File),
		slog.Int("line", w.Pos.Line),
		slog.Int("column", w.Pos.Column),
	)
	return nil
}

func (e *Evaluator) trace(pos node.Position, what string) *node.Comment {
	return &node.Comment{Position: pos, Body: " " + what + " ", Block: true}
}

// evalBlock runs the three passes over bl in place. outer excludes the
// frame of bl itself.
func (e *Evaluator) evalBlock(bl *node.Block, outer []*frame, chain []string) error {
	return e.evalFrame(newBlockFrame(bl, outer), chain)
}

func (e *Evaluator) evalFrame(f *frame, chain []string) error {
	if err := e.expandImports(f.block, f.scope, chain); err != nil {
		return err
	}
	if err := e.expandMixins(f.block, f.scope, chain); err != nil {
		return err
	}
	return e.evalRules(f.block, f.scope, chain)
}

func (e *Evaluator) evalRules(bl *node.Block, scope []*frame, chain []string) error {
	for i := 0; i < bl.Len(); i++ {
		n := bl.At(i)
		if e.done[n] {
			continue
		}
		keep, err := e.evalRule(n, scope, e.chain(n, chain))
		if err != nil {
			return e.annotate(err, n)
		}
		if !keep {
			bl.Splice(i, 1)
			i--
		}
	}
	return nil
}

func (e *Evaluator) evalRule(n node.Node, scope []*frame, chain []string) (bool, error) {
	switch n := n.(type) {
	case *node.Rule:
		name, err := e.interpolate(n.Property.Name, n.Property.Pos(), scope, 0)
		if err != nil {
			return false, err
		}
		n.Property.Name = name
		v, err := e.value(n.Value, scope, valueContext{})
		if err != nil {
			return false, err
		}
		n.Value = v
	case *node.Ruleset:
		if n.Guard != nil {
			ok, err := e.guard(n.Guard, scope)
			if err != nil || !ok {
				return false, err
			}
			n.Guard = nil
		}
		sels, err := e.selectors(n.Selectors, scope)
		if err != nil {
			return false, err
		}
		n.Selectors = sels
		return true, e.evalBlock(n.Block, scope, chain)
	case *node.Media:
		features, err := e.features(n.Features, scope)
		if err != nil {
			return false, err
		}
		n.Features = features
		return true, e.evalBlock(n.Block, scope, chain)
	case *node.BlockDirective:
		if n.Prelude != nil {
			v, err := e.value(n.Prelude, scope, valueContext{})
			if err != nil {
				return false, err
			}
			n.Prelude = v
		}
		return true, e.evalBlock(n.Block, scope, chain)
	case *node.Directive:
		if n.Value != nil {
			v, err := e.value(n.Value, scope, valueContext{})
			if err != nil {
				return false, err
			}
			n.Value = v
		}
	}
	return true, nil
}

// origin is the import chain of a rule spliced in from an import. imports
// lists the @import statements that pulled it in, innermost first.
type origin struct {
	chain   []string
	imports []*node.Import
}

func (e *Evaluator) chain(n node.Node, chain []string) []string {
	if o, ok := e.origins[n]; ok {
		return o.chain
	}
	return chain
}

// annotate pushes n and the imports that spliced n in onto the error
// context.
func (e *Evaluator) annotate(err error, n node.Node) error {
	err = diagnostics.Annotate(err, n)
	for _, imp := range e.origins[n].imports {
		err = diagnostics.Annotate(err, imp)
	}
	return err
}

func dir(pos node.Position) string {
	if pos.File == "" {
		return ""
	}
	return filepath.Dir(pos.File)
}
