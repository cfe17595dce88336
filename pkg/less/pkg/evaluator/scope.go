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
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/mixinIndex"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

type binding struct {
	def    *node.Definition
	value  node.Node
	active bool
}

// frame is one level of the scope stack. Block frames expose the
// definitions of a block, parameter frames hold the bound arguments of a
// mixin call.
type frame struct {
	block  *node.Block
	params map[string]*binding
	// scope is the lexical scope with this frame innermost.
	scope []*frame

	version  int
	own      map[string]*binding
	imported map[string]*binding

	index        *mixinIndex.Tree[*definition]
	indexVersion int
}

func newBlockFrame(b *node.Block, outer []*frame) *frame {
	f := &frame{block: b, version: -1, indexVersion: -1}
	f.scope = push(f, outer)
	return f
}

func newParamFrame(outer []*frame) *frame {
	f := &frame{params: make(map[string]*binding)}
	f.scope = push(f, outer)
	return f
}

// push returns a new scope slice with f innermost.
func push(f *frame, outer []*frame) []*frame {
	out := make([]*frame, 0, len(outer)+1)
	out = append(out, f)
	return append(out, outer...)
}

func (f *frame) bind(name string, v node.Node) {
	f.params[name] = &binding{value: v}
}

// refresh rebuilds the definition maps after the block changed. The last
// definition of a name wins, definitions spliced in by mixin calls only
// apply when the block has none of its own.
func (f *frame) refresh(fromMixin map[*node.Definition]bool) {
	if f.block == nil || f.version == f.block.Version() {
		return
	}
	f.version = f.block.Version()
	f.own = make(map[string]*binding)
	f.imported = make(map[string]*binding)
	for i := 0; i < f.block.Len(); i++ {
		d, ok := f.block.At(i).(*node.Definition)
		if !ok {
			continue
		}
		if fromMixin[d] {
			f.imported[d.Name] = &binding{def: d}
		} else {
			f.own[d.Name] = &binding{def: d}
		}
	}
}

func (e *Evaluator) binding(f *frame, name string) (*binding, bool) {
	if f.params != nil {
		b, ok := f.params[name]
		return b, ok
	}
	f.refresh(e.fromMixin)
	if b, ok := f.own[name]; ok {
		return b, true
	}
	b, ok := f.imported[name]
	return b, ok
}

// lookupVariable walks the scope innermost first. Definitions are
// evaluated lazily at the use site, so references in their value resolve
// against scope rather than the scope of the definition.
func (e *Evaluator) lookupVariable(v *node.Variable, name string, scope []*frame) (node.Node, error) {
	for _, f := range scope {
		b, ok := e.binding(f, name)
		if !ok {
			continue
		}
		if b.def == nil {
			return b.value, nil
		}
		if b.active {
			return nil, diagnostics.New(
				diagnostics.VarCircularReference, v.Pos(), "name", "@"+name,
			)
		}
		b.active = true
		out, err := e.value(b.def.Value, scope, valueContext{})
		b.active = false
		if err != nil {
			return nil, diagnostics.Annotate(err, b.def)
		}
		return out, nil
	}
	return nil, diagnostics.New(
		diagnostics.VarUndefined, v.Pos(),
		"name", "@"+name,
		"detail", suggest(name, e.variableNames(scope), "@"),
	)
}

func (e *Evaluator) variableNames(scope []*frame) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, f := range scope {
		if f.params != nil {
			for name := range f.params {
				add(name)
			}
			continue
		}
		f.refresh(e.fromMixin)
		for name := range f.own {
			add(name)
		}
		for name := range f.imported {
			add(name)
		}
	}
	return out
}

// suggest returns a did-you-mean hint for the closest candidate.
func suggest(target string, candidates []string, prefix string) string {
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		for _, c := range candidates {
			if fuzzy.MatchFold(c, target) {
				ranks = append(ranks, fuzzy.Rank{Target: c, Distance: len(target) - len(c)})
			}
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ", did you mean " + prefix + ranks[0].Target + "?"
}
