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

func (e *Evaluator) selectors(s *node.Selectors, scope []*frame) (*node.Selectors, error) {
	out := &node.Selectors{Position: s.Position}
	for _, sel := range s.Selectors {
		c, err := e.selector(sel, scope)
		if err != nil {
			return nil, err
		}
		out.Selectors = append(out.Selectors, c)
	}
	return out, nil
}

func (e *Evaluator) selector(s *node.Selector, scope []*frame) (*node.Selector, error) {
	out := &node.Selector{Position: s.Position}
	for _, el := range s.Elements {
		switch el := el.(type) {
		case *node.TextElement:
			name, err := e.interpolate(el.Name, el.Pos(), scope, 0)
			if err != nil {
				return nil, err
			}
			out.Elements = append(out.Elements, &node.TextElement{
				Position: el.Position, Combinator: el.Combinator, Name: name,
			})
		case *node.AttributeElement:
			name, err := e.interpolate(el.Name, el.Pos(), scope, 0)
			if err != nil {
				return nil, err
			}
			c := &node.AttributeElement{
				Position:   el.Position,
				Combinator: el.Combinator,
				Name:       name,
				Op:         el.Op,
			}
			if el.Value != nil {
				v, err := e.value(el.Value, scope, valueContext{})
				if err != nil {
					return nil, err
				}
				c.Value = v
			}
			out.Elements = append(out.Elements, c)
		}
	}
	return out, nil
}

// callPath returns the namespace path of a mixin call like "#ns > .m".
func (e *Evaluator) callPath(s *node.Selector, scope []*frame) ([]string, error) {
	sel, err := e.selector(s, scope)
	if err != nil {
		return nil, err
	}
	path := make([]string, 0, len(sel.Elements))
	for _, el := range sel.Elements {
		if t, ok := el.(*node.TextElement); ok {
			path = append(path, t.Name)
		}
	}
	return path, nil
}

// definitionPath returns the path under which a ruleset selector can be
// called as mixin. Only class and id chains qualify.
func definitionPath(s *node.Selector) ([]string, bool) {
	path := make([]string, 0, len(s.Elements))
	for _, el := range s.Elements {
		t, ok := el.(*node.TextElement)
		if !ok || len(t.Name) < 2 || strings.Contains(t.Name, "@{") {
			return nil, false
		}
		if t.Name[0] != '.' && t.Name[0] != '#' {
			return nil, false
		}
		switch t.Combinator {
		case node.CombinatorNone, node.CombinatorDescendant, node.CombinatorChild:
		default:
			return nil, false
		}
		path = append(path, t.Name)
	}
	return path, len(path) > 0
}

func withCombinator(el node.Element, c node.Combinator) node.Element {
	switch el := node.Copy(el).(type) {
	case *node.TextElement:
		el.Combinator = c
		return el
	case *node.AttributeElement:
		el.Combinator = c
		return el
	}
	return el
}

func hasParentReference(s *node.Selector) bool {
	for _, el := range s.Elements {
		if t, ok := el.(*node.TextElement); ok && strings.HasPrefix(t.Name, "&") {
			return true
		}
	}
	return false
}

// replaceParent substitutes every "&" in child with the elements of
// parent. A suffix like "&-title" extends the last parent element.
func replaceParent(parent, child *node.Selector) *node.Selector {
	out := &node.Selector{Position: child.Position}
	for i, el := range child.Elements {
		t, ok := el.(*node.TextElement)
		if !ok || !strings.HasPrefix(t.Name, "&") {
			out.Elements = append(out.Elements, node.Copy(el).(node.Element))
			continue
		}
		for j, pe := range parent.Elements {
			c := pe.Comb()
			if j == 0 && i > 0 {
				c = t.Combinator
			}
			out.Elements = append(out.Elements, withCombinator(pe, c))
		}
		suffix := t.Name[1:]
		if suffix == "" {
			continue
		}
		last := len(out.Elements) - 1
		if lt, ok := out.Elements[last].(*node.TextElement); ok {
			lt.Name += suffix
		} else {
			out.Elements = append(out.Elements, &node.TextElement{
				Position: t.Position, Name: suffix,
			})
		}
	}
	return out
}

// stripParent drops "&" references of a selector without parent.
func stripParent(s *node.Selector) *node.Selector {
	out := &node.Selector{Position: s.Position}
	for _, el := range s.Elements {
		t, ok := el.(*node.TextElement)
		if ok && strings.HasPrefix(t.Name, "&") {
			if suffix := t.Name[1:]; suffix != "" {
				out.Elements = append(out.Elements, &node.TextElement{
					Position: t.Position, Combinator: t.Combinator, Name: suffix,
				})
			}
			continue
		}
		out.Elements = append(out.Elements, el)
	}
	if len(out.Elements) > 0 {
		out.Elements[0] = withCombinator(out.Elements[0], node.CombinatorNone)
	}
	return out
}

// join combines nested selectors with their parents, the result is the
// cartesian product of both lists in parent major order.
func join(parents, child *node.Selectors) *node.Selectors {
	out := &node.Selectors{Position: child.Position}
	if parents == nil {
		for _, c := range child.Selectors {
			out.Selectors = append(out.Selectors, stripParent(c))
		}
		return out
	}
	for _, p := range parents.Selectors {
		for _, c := range child.Selectors {
			if hasParentReference(c) {
				out.Selectors = append(out.Selectors, replaceParent(p, c))
				continue
			}
			s := &node.Selector{Position: c.Position}
			s.Elements = append(s.Elements, p.Elements...)
			for i, el := range c.Elements {
				if i == 0 && el.Comb() == node.CombinatorNone {
					el = withCombinator(el, node.CombinatorDescendant)
				}
				s.Elements = append(s.Elements, el)
			}
			out.Selectors = append(out.Selectors, s)
		}
	}
	return out
}
