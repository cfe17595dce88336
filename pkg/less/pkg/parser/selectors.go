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

package parser

import (
	"strings"

	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/recognizer"
)

func (p *parser) ruleset() (node.Node, bool, error) {
	pos := p.pos()
	sels, ok, err := p.selectors()
	if err != nil || !ok {
		return nil, false, err
	}
	g, _, err := p.guard()
	if err != nil {
		return nil, false, err
	}
	p.s.SkipWS()
	if p.s.Peek0() != '{' {
		return nil, false, nil
	}
	b, err := p.block()
	if err != nil {
		return nil, false, err
	}
	return &node.Ruleset{
		Position: pos, Selectors: sels, Guard: g, Block: b,
	}, true, nil
}

func (p *parser) selectors() (*node.Selectors, bool, error) {
	pos := p.pos()
	var list []*node.Selector
	for {
		sel, ok, err := p.selector()
		if err != nil || !ok {
			return nil, false, err
		}
		list = append(list, sel)
		m := p.s.Mark()
		p.s.SkipWS()
		if !p.s.SeekIf(",") {
			p.s.Restore(m)
			break
		}
		p.s.SkipWS()
	}
	return &node.Selectors{Position: pos, Selectors: list}, true, nil
}

var guardStart = recognizer.Sequence(
	recognizer.Literal("when"), recognizer.WordBoundary,
)

func (p *parser) selector() (*node.Selector, bool, error) {
	pos := p.pos()
	var elements []node.Element
	for {
		m := p.s.Mark()
		comb := p.combinator(len(elements) == 0)
		switch p.s.Peek0() {
		case '{', ',', ';', ')', '(', '}':
			p.s.Restore(m)
			return p.finishSelector(pos, elements)
		}
		if p.s.Test(guardStart) && len(elements) > 0 {
			p.s.Restore(m)
			return p.finishSelector(pos, elements)
		}
		e, ok, err := p.element(comb)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			p.s.Restore(m)
			return p.finishSelector(pos, elements)
		}
		elements = append(elements, e)
	}
}

func (p *parser) finishSelector(pos node.Position, elements []node.Element) (*node.Selector, bool, error) {
	if len(elements) == 0 {
		return nil, false, nil
	}
	return &node.Selector{Position: pos, Elements: elements}, true, nil
}

// combinator consumes the combinator in front of the next element. A
// leading run of whitespace is not a combinator.
func (p *parser) combinator(leading bool) node.Combinator {
	ws := p.s.SkipWS()
	var c node.Combinator
	switch p.s.Peek0() {
	case '>':
		c = node.CombinatorChild
	case '+':
		c = node.CombinatorAdjacent
	case '~':
		c = node.CombinatorSibling
	case '|':
		if p.s.Peek(1) != '=' {
			c = node.CombinatorNamespace
		}
	}
	if c != node.CombinatorNone {
		p.s.Seek1()
		p.s.SkipWS()
		return c
	}
	if ws && !leading {
		return node.CombinatorDescendant
	}
	return node.CombinatorNone
}

// nameRun consumes selector name characters and @{var} interpolations.
func (p *parser) nameRun() string {
	start := p.s.Index()
	for {
		if _, ok := p.s.Match(recognizer.Interpolation); ok {
			continue
		}
		if _, ok := p.s.Match(recognizer.SelectorPart); ok {
			continue
		}
		return p.s.Slice(start)
	}
}

func (p *parser) element(comb node.Combinator) (node.Element, bool, error) {
	pos := p.pos()
	start := p.s.Index()
	text := func() (node.Element, bool, error) {
		return &node.TextElement{
			Position: pos, Combinator: comb, Name: p.s.Slice(start),
		}, true, nil
	}
	switch c := p.s.Peek0(); {
	case c == '&':
		p.s.Seek1()
		p.nameRun()
		return text()
	case c == '*':
		p.s.Seek1()
		return text()
	case c == '.' || c == '#':
		p.s.Seek1()
		if p.nameRun() == "" {
			return nil, false, nil
		}
		return text()
	case c == ':':
		p.s.Seek1()
		p.s.SeekIf(":")
		if p.nameRun() == "" {
			return nil, false, nil
		}
		if p.s.Peek0() == '(' {
			p.s.Seek1()
			if _, stop := p.scanRaw(")", false); stop != ')' {
				return nil, false, nil
			}
			p.s.Seek1()
		}
		return text()
	case c == '[':
		return p.attributeElement(comb)
	case recognizer.IsDigit(c):
		if _, ok := p.s.Match(recognizer.Number); !ok || !p.s.SeekIf("%") {
			return nil, false, nil
		}
		return text()
	case c == '@' && p.s.Peek(1) != '{':
		return nil, false, nil
	}
	if p.nameRun() == "" {
		return nil, false, nil
	}
	return text()
}

var attributeOperators = []string{"~=", "|=", "^=", "$=", "*=", "="}

func (p *parser) attributeElement(comb node.Combinator) (node.Element, bool, error) {
	pos := p.pos()
	p.s.Seek1()
	p.s.SkipWS()
	start := p.s.Index()
	if p.nameRun() == "" && p.s.Peek0() != '*' {
		return nil, false, nil
	}
	p.s.SeekIf("*")
	if p.s.Peek0() == '|' && p.s.Peek(1) != '=' {
		p.s.Seek1()
		p.nameRun()
	}
	name := p.s.Slice(start)
	p.s.SkipWS()
	e := &node.AttributeElement{Position: pos, Combinator: comb, Name: name}
	for _, op := range attributeOperators {
		if p.s.SeekIf(op) {
			e.Op = op
			break
		}
	}
	if e.Op != "" {
		p.s.SkipWS()
		vPos := p.pos()
		switch c := p.s.Peek0(); {
		case c == '"' || c == '\'':
			v, _, err := p.quoted(false)
			if err != nil {
				return nil, false, err
			}
			e.Value = v
		case p.s.Test(recognizer.Interpolation):
			v, _, _ := p.variable()
			e.Value = v
		default:
			v := p.nameRun()
			if v == "" {
				return nil, false, nil
			}
			e.Value = &node.Keyword{Position: vPos, Value: v}
		}
		p.s.SkipWS()
	}
	if !p.s.SeekIf("]") {
		return nil, false, nil
	}
	return e, true, nil
}

// simpleMixinSelector reports whether sel only consists of class and id
// elements joined by descendant or child combinators.
func simpleMixinSelector(sel *node.Selector) bool {
	for _, e := range sel.Elements {
		t, ok := e.(*node.TextElement)
		if !ok || (!strings.HasPrefix(t.Name, ".") && !strings.HasPrefix(t.Name, "#")) {
			return false
		}
		switch t.Combinator {
		case node.CombinatorNone, node.CombinatorDescendant, node.CombinatorChild:
		default:
			return false
		}
	}
	return true
}
