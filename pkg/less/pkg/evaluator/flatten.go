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
	"strings"

	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

// flattener lifts nested rulesets to the top level and bubbles media
// queries out of rulesets.
type flattener struct {
	root *[]node.Node
}

func flatten(bl *node.Block) *node.Block {
	var root []node.Node
	f := flattener{root: &root}
	f.rules(bl.Rules, nil, nil, &root)
	return node.NewBlock(bl.Position, compact(root)...)
}

func compact(nn []node.Node) []node.Node {
	out := nn[:0]
	for _, n := range nn {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// reserve appends a placeholder and returns its index, parents are
// emitted before their nested rules.
func reserve(into *[]node.Node) int {
	*into = append(*into, nil)
	return len(*into) - 1
}

func isKeyframes(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), "keyframes")
}

func isConditional(name string) bool {
	switch strings.ToLower(name) {
	case "@supports", "@document", "@-moz-document", "@container", "@layer":
		return true
	}
	return false
}

// combine joins the queries of nested media blocks with "and".
func combine(outer, inner *node.Features) *node.Features {
	if outer == nil {
		return inner
	}
	out := &node.Features{Position: inner.Position}
	for _, o := range outer.Features {
		for _, i := range inner.Features {
			var values []node.Node
			values = append(values, o)
			values = append(values, &node.Keyword{Position: i.Pos(), Value: "and"})
			values = append(values, i)
			out.Features = append(out.Features, &node.Expression{
				Position: o.Pos(), Values: values,
			})
		}
	}
	return out
}

// rules emits rulesets and at-rules into into and returns the
// declarations that belong to the ruleset of sel.
func (f flattener) rules(rules []node.Node, sel *node.Selectors, media *node.Features, into *[]node.Node) []node.Node {
	var decls []node.Node
	leaf := func(n node.Node) {
		if sel == nil {
			*into = append(*into, n)
		} else {
			decls = append(decls, n)
		}
	}
	for _, n := range rules {
		switch n := n.(type) {
		case *node.Definition, *node.Mixin, *node.MixinCall:
		case *node.Ruleset:
			joined := join(sel, n.Selectors)
			idx := reserve(into)
			inner := f.rules(n.Block.Rules, joined, media, into)
			if len(inner) > 0 {
				(*into)[idx] = &node.Ruleset{
					Position:  n.Position,
					Selectors: joined,
					Block:     node.NewBlock(n.Block.Position, inner...),
				}
			}
		case *node.Media:
			features := combine(media, n.Features)
			idx := reserve(f.root)
			var inner []node.Node
			f.wrap(n.Block.Rules, sel, features, &inner)
			if inner = compact(inner); len(inner) > 0 {
				(*f.root)[idx] = &node.Media{
					Position: n.Position,
					Features: features,
					Block:    node.NewBlock(n.Block.Position, inner...),
				}
			}
		case *node.BlockDirective:
			var inner []node.Node
			switch {
			case isKeyframes(n.Name):
				f.rules(n.Block.Rules, nil, nil, &inner)
			case isConditional(n.Name):
				f.wrap(n.Block.Rules, sel, media, &inner)
				if inner = compact(inner); len(inner) == 0 {
					continue
				}
			default:
				f.rules(n.Block.Rules, nil, media, &inner)
			}
			out := &node.BlockDirective{
				Position: n.Position,
				Name:     n.Name,
				Prelude:  n.Prelude,
				Block:    node.NewBlock(n.Block.Position, compact(inner)...),
			}
			if sel == nil || isConditional(n.Name) {
				*into = append(*into, out)
			} else {
				*f.root = append(*f.root, out)
			}
		case *node.Import:
			*into = append(*into, n)
		default:
			leaf(n)
		}
	}
	return decls
}

// wrap emits the rules of a bubbled block, declarations are wrapped into a
// ruleset of the enclosing selector.
func (f flattener) wrap(rules []node.Node, sel *node.Selectors, media *node.Features, into *[]node.Node) {
	if sel == nil {
		f.rules(rules, nil, media, into)
		return
	}
	idx := reserve(into)
	decls := f.rules(rules, sel, media, into)
	if len(decls) > 0 {
		(*into)[idx] = &node.Ruleset{
			Position:  sel.Position,
			Selectors: sel,
			Block:     node.NewBlock(sel.Position, decls...),
		}
	}
}
