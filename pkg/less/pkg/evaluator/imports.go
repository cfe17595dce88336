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

package evaluator

import (
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/das7pad/less-go/pkg/errors"
	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

func (e *Evaluator) expandImports(bl *node.Block, scope []*frame, chain []string) error {
	for i := 0; i < bl.Len(); i++ {
		imp, ok := bl.At(i).(*node.Import)
		if !ok || e.done[imp] {
			continue
		}
		out, err := e.importRules(imp, scope, chain)
		if err != nil {
			return diagnostics.Annotate(err, imp)
		}
		bl.Splice(i, 1, out...)
		i += len(out) - 1
	}
	return nil
}

func importTarget(n node.Node) (string, bool) {
	switch v := n.(type) {
	case *node.Quoted:
		return v.Value, false
	case *node.URL:
		if q, ok := v.Value.(*node.Quoted); ok {
			return q.Value, true
		}
		if a, ok := v.Value.(*node.Anonymous); ok {
			return a.Value, true
		}
	case *node.Anonymous:
		return v.Value, false
	case *node.Keyword:
		return v.Value, false
	}
	return "", false
}

func isCSSImport(imp *node.Import, target string, url bool) bool {
	if imp.Options.CSS {
		return true
	}
	if imp.Options.Less || imp.Options.Inline {
		return false
	}
	if url || strings.HasPrefix(target, "//") || strings.Contains(target, "://") {
		return true
	}
	ext := path.Ext(strings.SplitN(target, "?", 2)[0])
	return ext == ".css"
}

// resolve looks for target next to the importing file, then in the
// include paths.
func (e *Evaluator) resolve(imp *node.Import, target string) (string, bool) {
	candidates := []string{target}
	if path.Ext(target) == "" {
		candidates = []string{target + ".less", target}
	}
	var dirs []string
	if filepath.IsAbs(target) {
		dirs = []string{""}
	} else {
		dirs = append(dirs, dir(imp.Pos()))
		dirs = append(dirs, e.o.IncludePaths...)
	}
	for _, d := range dirs {
		for _, c := range candidates {
			p := e.o.Loader.Normalize(filepath.Join(d, c))
			if e.o.Loader.Exists(p) {
				return p, true
			}
		}
	}
	return "", false
}

func (e *Evaluator) importRules(imp *node.Import, scope []*frame, chain []string) ([]node.Node, error) {
	p, err := e.value(imp.Path, scope, valueContext{})
	if err != nil {
		return nil, err
	}
	target, url := importTarget(p)
	if target == "" {
		return nil, diagnostics.New(
			diagnostics.ImportError, imp.Pos(),
			"path", renderValue(p),
			"reason", "the path must be a string or url",
		)
	}
	features, err := e.features(imp.Features, scope)
	if err != nil {
		return nil, err
	}
	if isCSSImport(imp, target, url) {
		out := &node.Import{
			Position: imp.Position,
			Path:     p,
			Features: features,
		}
		e.done[out] = true
		return []node.Node{out}, nil
	}
	if e.o.Loader == nil {
		return nil, diagnostics.New(
			diagnostics.ImportError, imp.Pos(),
			"path", strconv.Quote(target), "reason", "no loader configured",
		)
	}
	resolved, ok := e.resolve(imp, target)
	if !ok {
		if imp.Options.Optional {
			return nil, nil
		}
		return nil, diagnostics.New(
			diagnostics.ImportError, imp.Pos(),
			"path", strconv.Quote(target), "reason", "file not found",
		).WithCause(&errors.NotFoundError{Path: target})
	}

	once := imp.Options.Once || (e.o.ImportOnce && !imp.Options.Multiple)
	if once && e.imported[resolved] {
		return nil, nil
	}
	if slices.Contains(chain, resolved) {
		return nil, diagnostics.New(
			diagnostics.ImportRecurse, imp.Pos(),
			"path", strconv.Quote(target), "reason", "imports itself",
		)
	}
	if len(chain) >= e.o.ImportRecursionLimit {
		return nil, diagnostics.New(
			diagnostics.ImportRecurse, imp.Pos(),
			"path", strconv.Quote(target),
			"reason", "exceeds the import depth limit of "+
				strconv.Itoa(e.o.ImportRecursionLimit),
		)
	}
	if !e.imported[resolved] {
		e.imports = append(e.imports, resolved)
	}
	e.imported[resolved] = true

	var rules []node.Node
	if imp.Options.Inline {
		text, err := e.o.Loader.Load(resolved)
		if err != nil {
			return nil, importFailed(imp, target, err)
		}
		rules = []node.Node{&node.Anonymous{Position: imp.Position, Value: text}}
	} else {
		sheet, err := e.stylesheet(imp, target, resolved)
		if err != nil {
			return nil, err
		}
		body := node.CopyBlock(sheet.Block)
		inner := newBlockFrame(body, scope)
		nested := append(slices.Clip(chain), resolved)
		if err = e.expandImports(body, inner.scope, nested); err != nil {
			return nil, err
		}
		for _, r := range body.Rules {
			o, ok := e.origins[r]
			if !ok {
				o.chain = nested
			}
			o.imports = append(o.imports, imp)
			e.origins[r] = o
		}
		rules = body.Rules
	}

	if features != nil {
		rules = []node.Node{&node.Media{
			Position: imp.Position,
			Features: features,
			Block:    node.NewBlock(imp.Position, rules...),
		}}
	}
	if e.o.Tracing {
		what := "import " + strconv.Quote(target)
		rules = append(
			append([]node.Node{e.trace(imp.Position, "begin "+what)}, rules...),
			e.trace(imp.Position, "end "+what),
		)
	}
	return rules, nil
}

// stylesheet parses an import once per compilation.
func (e *Evaluator) stylesheet(imp *node.Import, target, resolved string) (*node.Stylesheet, error) {
	if s, ok := e.sheets[resolved]; ok {
		return s, nil
	}
	text, err := e.o.Loader.Load(resolved)
	if err != nil {
		return nil, importFailed(imp, target, err)
	}
	s, err := e.o.Parse(text, resolved)
	if err != nil {
		if _, ok := diagnostics.AsError(err); ok {
			return nil, err
		}
		return nil, importFailed(imp, target, err)
	}
	e.sheets[resolved] = s
	return s, nil
}

func importFailed(imp *node.Import, target string, err error) error {
	return diagnostics.New(
		diagnostics.ImportError, imp.Pos(),
		"path", strconv.Quote(target), "reason", err.Error(),
	).WithCause(err)
}
