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
	"slices"
	"strconv"
	"strings"

	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/mixinIndex"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

const maxNamespaceDepth = 8

// definition is a mixin or a ruleset that can be called as mixin.
type definition struct {
	n     node.Node
	owner *frame
	// outer lists the enclosing namespaces inside owner, outermost first.
	outer []node.Node
}

func body(n node.Node) *node.Block {
	switch n := n.(type) {
	case *node.Mixin:
		return n.Block
	case *node.Ruleset:
		return n.Block
	}
	return nil
}

func (e *Evaluator) index(f *frame) *mixinIndex.Tree[*definition] {
	if f.block == nil {
		return nil
	}
	if f.index != nil && f.indexVersion == f.block.Version() {
		return f.index
	}
	f.index = mixinIndex.New[*definition]()
	f.indexVersion = f.block.Version()
	indexBlock(f.index, f, f.block, nil, nil)
	return f.index
}

func indexBlock(t *mixinIndex.Tree[*definition], f *frame, bl *node.Block, prefix []string, outer []node.Node) {
	if len(outer) > maxNamespaceDepth {
		return
	}
	nested := slices.Clip(outer)
	for _, n := range bl.Rules {
		switch n := n.(type) {
		case *node.Mixin:
			path := append(slices.Clip(prefix), n.Name)
			t.Insert(path, &definition{n: n, owner: f, outer: outer})
			if n.Params.Required() == 0 {
				indexBlock(t, f, n.Block, path, append(nested, n))
			}
		case *node.Ruleset:
			for _, sel := range n.Selectors.Selectors {
				p, ok := definitionPath(sel)
				if !ok {
					continue
				}
				path := append(slices.Clip(prefix), p...)
				t.Insert(path, &definition{n: n, owner: f, outer: outer})
				indexBlock(t, f, n.Block, path, append(nested, n))
			}
		}
	}
}

// closure returns the scope a definition was declared in. Mixins bind it
// once, the first time they are looked at.
func (e *Evaluator) closure(d *definition) []*frame {
	m, isMixin := d.n.(*node.Mixin)
	if isMixin {
		if c, ok := e.closures[m]; ok {
			return c
		}
	}
	scope := d.owner.scope
	for _, o := range d.outer {
		scope = newBlockFrame(body(o), scope).scope
	}
	if isMixin {
		e.closures[m] = scope
	}
	return scope
}

func (e *Evaluator) expandMixins(bl *node.Block, scope []*frame, chain []string) error {
	for i := 0; i < bl.Len(); i++ {
		call, ok := bl.At(i).(*node.MixinCall)
		if !ok {
			continue
		}
		out, err := e.callMixin(call, scope, e.chain(call, chain))
		if err != nil {
			return e.annotate(err, call)
		}
		bl.Splice(i, 1, out...)
		i += len(out) - 1
	}
	return nil
}

type argument struct {
	name  string
	value node.Node
}

type candidate struct {
	d       *definition
	params  *frame
	closure []*frame
}

func (c candidate) guard() *node.Guard {
	switch n := c.d.n.(type) {
	case *node.Mixin:
		return n.Guard
	case *node.Ruleset:
		return n.Guard
	}
	return nil
}

func (c candidate) scope(caller []*frame) []*frame {
	inner := c.closure
	if c.params != nil {
		inner = c.params.scope
	}
	return append(slices.Clip(inner), caller...)
}

func (e *Evaluator) callMixin(call *node.MixinCall, scope []*frame, chain []string) ([]node.Node, error) {
	e.depth++
	defer func() { e.depth-- }()
	path, err := e.callPath(call.Selector, scope)
	if err != nil {
		return nil, err
	}
	name := strings.Join(path, " ")
	if e.depth > e.o.MixinRecursionLimit {
		return nil, diagnostics.New(
			diagnostics.MixinRecurse, call.Pos(),
			"selector", name,
			"limit", strconv.Itoa(e.o.MixinRecursionLimit),
		)
	}
	args, err := e.callArgs(call.Args, scope)
	if err != nil {
		return nil, err
	}

	var defs []*definition
	for _, f := range scope {
		if t := e.index(f); t != nil {
			if defs = t.Exact(path); len(defs) > 0 {
				break
			}
		}
	}
	if len(defs) == 0 {
		return nil, e.undefinedMixin(call, path, scope, "")
	}

	var candidates []candidate
	for _, d := range defs {
		c := candidate{d: d, closure: e.closure(d)}
		ok, err := e.namespacesMatch(d, c.closure)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		switch n := d.n.(type) {
		case *node.Mixin:
			c.params, ok, err = e.bind(n, args, c.closure, scope)
			if err != nil {
				return nil, err
			}
		case *node.Ruleset:
			ok = len(args) == 0
		}
		if ok {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, e.undefinedMixin(
			call, path, scope, ", no definition accepts the arguments",
		)
	}

	selected, err := e.selectCandidates(candidates, scope)
	if err != nil {
		return nil, err
	}
	var out []node.Node
	for _, c := range selected {
		rules, err := e.runMixin(call, name, c, scope, chain)
		if err != nil {
			return nil, diagnostics.Annotate(err, c.d.n)
		}
		out = append(out, rules...)
	}
	return out, nil
}

// selectCandidates evaluates the guards. default() is true in the guards
// of candidates that apply only when no other candidate matched.
func (e *Evaluator) selectCandidates(candidates []candidate, caller []*frame) ([]candidate, error) {
	pass := make([]bool, len(candidates))
	deferred := make([]bool, len(candidates))
	matched := false
	for i, c := range candidates {
		g := c.guard()
		if g != nil && usesDefault(g) {
			deferred[i] = true
			continue
		}
		ok := true
		if g != nil {
			var err error
			if ok, err = e.guard(g, c.scope(caller)); err != nil {
				return nil, err
			}
		}
		pass[i] = ok
		matched = matched || ok
	}
	isDefault := !matched
	for i, c := range candidates {
		if !deferred[i] {
			continue
		}
		e.guardDefault = &isDefault
		ok, err := e.guard(c.guard(), c.scope(caller))
		e.guardDefault = nil
		if err != nil {
			return nil, err
		}
		pass[i] = ok
	}
	var out []candidate
	for i, c := range candidates {
		if pass[i] {
			out = append(out, c)
		}
	}
	return out, nil
}

func usesDefault(n node.Node) bool {
	switch n := n.(type) {
	case *node.Guard:
		return slices.ContainsFunc(n.Conditions, func(c *node.Condition) bool {
			return usesDefault(c)
		})
	case *node.Condition:
		return usesDefault(n.Left) || (n.Right != nil && usesDefault(n.Right))
	case *node.FunctionCall:
		return strings.EqualFold(n.Name, "default")
	case *node.Expression:
		return slices.ContainsFunc(n.Values, usesDefault)
	case *node.Paren:
		return usesDefault(n.Value)
	case *node.Negation:
		return usesDefault(n.Value)
	}
	return false
}

func (e *Evaluator) namespacesMatch(d *definition, closure []*frame) (bool, error) {
	for _, o := range d.outer {
		r, ok := o.(*node.Ruleset)
		if !ok || r.Guard == nil {
			continue
		}
		if ok, err := e.guard(r.Guard, closure); err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (e *Evaluator) undefinedMixin(call *node.MixinCall, path []string, scope []*frame, detail string) error {
	name := strings.Join(path, " ")
	if detail == "" && len(path) > 0 {
		var names []string
		for _, f := range scope {
			t := e.index(f)
			if t == nil {
				continue
			}
			if m := t.Subsequence(path[len(path)-1:]); len(m) > 0 && detail == "" {
				detail = ", did you mean " + strings.Join(m[0].Path, " ") + "?"
			}
			for _, m := range t.Within(nil, maxNamespaceDepth) {
				names = append(names, strings.Join(m.Path, " "))
			}
		}
		if detail == "" {
			detail = suggest(name, names, "")
		}
	}
	return diagnostics.New(
		diagnostics.MixinUndefined, call.Pos(),
		"selector", name, "detail", detail,
	)
}

func (e *Evaluator) callArgs(a *node.MixinCallArgs, scope []*frame) ([]argument, error) {
	if a == nil {
		return nil, nil
	}
	out := make([]argument, 0, len(a.Args))
	for _, arg := range a.Args {
		v, err := e.value(arg.Value, scope, valueContext{})
		if err != nil {
			return nil, err
		}
		out = append(out, argument{name: arg.Name, value: v})
	}
	return out, nil
}

func expressionOf(pos node.Position, vv []node.Node) node.Node {
	if len(vv) == 1 {
		return vv[0]
	}
	return &node.Expression{Position: pos, Values: vv}
}

// bind matches the arguments against the parameters of m. Defaults are
// evaluated in the mixin scope and may refer to earlier parameters.
func (e *Evaluator) bind(m *node.Mixin, args []argument, closure, caller []*frame) (*frame, bool, error) {
	pf := newParamFrame(closure)
	defaults := append(slices.Clip(pf.scope), caller...)
	var positional []node.Node
	named := make(map[string]node.Node)
	for _, a := range args {
		if a.name == "" {
			positional = append(positional, a.value)
		} else {
			named[a.name] = a.value
		}
	}
	for name := range named {
		if !slices.ContainsFunc(m.Params.Params, func(p *node.Parameter) bool {
			return p.Name == name && !p.Variadic
		}) {
			return nil, false, nil
		}
	}

	var all []node.Node
	next := 0
	for _, p := range m.Params.Params {
		switch {
		case p.Variadic:
			rest := positional[next:]
			next = len(positional)
			pf.bind(p.Name, expressionOf(p.Position, rest))
			all = append(all, rest...)
		case p.Name == "":
			if next >= len(positional) {
				return nil, false, nil
			}
			want, err := e.value(p.Value, defaults, valueContext{})
			if err != nil {
				return nil, false, err
			}
			if !equal(want, positional[next]) {
				return nil, false, nil
			}
			all = append(all, positional[next])
			next++
		default:
			v, ok := named[p.Name]
			switch {
			case ok:
			case next < len(positional):
				v = positional[next]
				next++
			case p.Value != nil:
				var err error
				if v, err = e.value(p.Value, defaults, valueContext{}); err != nil {
					return nil, false, err
				}
			default:
				return nil, false, nil
			}
			pf.bind(p.Name, v)
			all = append(all, v)
		}
	}
	if next < len(positional) {
		if !m.Params.IsVariadic() {
			return nil, false, nil
		}
		all = append(all, positional[next:]...)
	}
	pf.bind("arguments", expressionOf(m.Position, all))
	return pf, true, nil
}

// runMixin evaluates a copy of the candidate body. Variables defined in the
// body are resolved here and exported to the caller.
func (e *Evaluator) runMixin(call *node.MixinCall, name string, c candidate, caller []*frame, chain []string) ([]node.Node, error) {
	bl := node.CopyBlock(body(c.d.n))
	f := newBlockFrame(bl, c.scope(caller))
	if err := e.evalFrame(f, chain); err != nil {
		return nil, err
	}
	var out []node.Node
	for _, n := range bl.Rules {
		switch n := n.(type) {
		case *node.Definition:
			v, err := e.lookupVariable(
				&node.Variable{Position: n.Position, Name: n.Name}, n.Name, f.scope,
			)
			if err != nil {
				// Unused definitions may refer to missing variables.
				continue
			}
			d := &node.Definition{Position: n.Position, Name: n.Name, Value: v}
			e.fromMixin[d] = true
			out = append(out, d)
			continue
		case *node.Mixin:
			if _, ok := e.closures[n]; !ok {
				e.closures[n] = f.scope
			}
		}
		if call.Important {
			markImportant(n)
		}
		out = append(out, n)
	}
	if e.o.Tracing {
		out = append(
			append([]node.Node{e.trace(call.Position, "begin mixin "+name)}, out...),
			e.trace(call.Position, "end mixin "+name),
		)
	}
	for _, n := range out {
		e.done[n] = true
	}
	return out, nil
}

func markImportant(n node.Node) {
	switch n := n.(type) {
	case *node.Rule:
		n.Important = true
	case *node.Ruleset:
		for _, r := range n.Block.Rules {
			markImportant(r)
		}
	case *node.Media:
		for _, r := range n.Block.Rules {
			markImportant(r)
		}
	}
}
