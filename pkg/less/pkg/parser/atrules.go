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
	"github.com/das7pad/less-go/pkg/less/pkg/stream"
)

var atKeyword = recognizer.Sequence(recognizer.Char('@'), recognizer.Identifier)

// conditionRules take a list of feature queries like @media does.
var conditionRules = map[string]bool{
	"@supports":  true,
	"@container": true,
}

func (p *parser) importStatement() (node.Node, bool, error) {
	pos := p.pos()
	if !p.word("@import") {
		return nil, false, nil
	}
	p.s.SkipWS()
	imp := &node.Import{Position: pos}
	if p.s.SeekIf("(") {
		for {
			p.s.SkipWS()
			name, ok := p.s.Match(recognizer.Identifier)
			if !ok {
				return nil, false, p.expect("import option")
			}
			switch name {
			case "once":
				imp.Options.Once = true
			case "multiple":
				imp.Options.Multiple = true
			case "css":
				imp.Options.CSS = true
			case "less":
				imp.Options.Less = true
			case "inline":
				imp.Options.Inline = true
			case "optional":
				imp.Options.Optional = true
			case "reference":
				// Unsupported, import the rules like a plain import.
			default:
				return nil, false, p.expect("import option")
			}
			p.s.SkipWS()
			if p.s.SeekIf(")") {
				break
			}
			if !p.s.SeekIf(",") {
				return nil, false, p.expect("')'")
			}
		}
		p.s.SkipWS()
	}
	var path node.Node
	var ok bool
	var err error
	switch c := p.s.Peek0(); {
	case c == '"' || c == '\'':
		path, ok, err = p.quoted(false)
	case p.s.Test(recognizer.URLStart):
		path, ok, err = p.attempt(p.url)
	case c == '@':
		path, ok, err = p.variable()
	}
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, p.expect("import path")
	}
	imp.Path = path
	p.s.SkipWS()
	if !p.atTerminator() {
		features, ok, err := p.mediaFeatures()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, p.expect("';'")
		}
		imp.Features = features
		p.s.SkipWS()
		if !p.atTerminator() {
			return nil, false, p.expect("';'")
		}
	}
	p.s.SeekIf(";")
	return imp, true, nil
}

func (p *parser) media() (node.Node, bool, error) {
	pos := p.pos()
	if !p.word("@media") {
		return nil, false, nil
	}
	p.s.SkipWS()
	features, ok, err := p.mediaFeatures()
	if err != nil || !ok {
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
	return &node.Media{Position: pos, Features: features, Block: b}, true, nil
}

func (p *parser) mediaFeatures() (*node.Features, bool, error) {
	pos := p.pos()
	var list []node.Node
	for {
		q, ok, err := p.mediaQuery()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}
		list = append(list, q)
		m := p.s.Mark()
		p.s.SkipWS()
		if !p.s.SeekIf(",") {
			p.s.Restore(m)
			break
		}
		p.s.SkipWS()
	}
	if len(list) == 0 {
		return nil, false, nil
	}
	return &node.Features{Position: pos, Features: list}, true, nil
}

func (p *parser) mediaQuery() (node.Node, bool, error) {
	pos := p.pos()
	var items []node.Node
	for {
		m := p.s.Mark()
		if len(items) > 0 {
			p.s.SkipWS()
		}
		var n node.Node
		var ok bool
		var err error
		switch c := p.s.Peek0(); {
		case c == '(':
			n, ok, err = p.attempt(p.mediaFeature)
		case c == '@':
			n, ok, err = p.variable()
		case p.s.Test(recognizer.Identifier):
			kPos := p.pos()
			v, _ := p.s.Match(recognizer.Identifier)
			n, ok = &node.Keyword{Position: kPos, Value: v}, true
		}
		if err != nil {
			return nil, false, err
		}
		if !ok {
			p.s.Restore(m)
			break
		}
		items = append(items, n)
	}
	switch len(items) {
	case 0:
		return nil, false, nil
	case 1:
		return items[0], true, nil
	}
	return &node.Expression{Position: pos, Values: items}, true, nil
}

func (p *parser) mediaFeature() (node.Node, bool, error) {
	pos := p.pos()
	p.s.Seek1()
	p.s.SkipWS()
	propPos := p.pos()
	name := p.propertyName()
	if name == "" {
		return nil, false, nil
	}
	f := &node.Feature{
		Position: pos,
		Property: &node.Property{Position: propPos, Name: name},
	}
	p.s.SkipWS()
	if p.s.SeekIf(":") {
		p.s.SkipWS()
		v, ok, err := p.expression()
		if err != nil || !ok {
			return nil, false, err
		}
		f.Value = v
		p.s.SkipWS()
	}
	if !p.s.SeekIf(")") {
		return nil, false, nil
	}
	return f, true, nil
}

// directive parses any other at-rule, with or without a block.
func (p *parser) directive() (node.Node, bool, error) {
	pos := p.pos()
	name, ok := p.s.Match(atKeyword)
	if !ok {
		return nil, false, nil
	}
	p.s.SkipWS()
	var prelude node.Node
	if conditionRules[strings.ToLower(name)] {
		m := p.s.Mark()
		f, ok, err := p.mediaFeatures()
		if err != nil {
			return nil, false, err
		}
		p.s.SkipWS()
		if ok && p.s.Peek0() == '{' {
			prelude = f
		} else {
			p.s.Restore(m)
		}
	}
	if c := p.s.Peek0(); prelude == nil && c != '{' && c != ';' {
		m := p.s.Mark()
		v, ok, err := p.expressionList()
		if err != nil {
			return nil, false, err
		}
		p.s.SkipWS()
		if ok && (p.s.Peek0() == '{' || p.atTerminator()) {
			prelude = v
		} else {
			p.s.Restore(m)
			vPos := p.pos()
			raw, stop := p.scanRaw(";{}", false)
			if stop == stream.EOF {
				return nil, false, p.expect("'{' or ';'")
			}
			prelude = &node.Anonymous{
				Position: vPos, Value: strings.TrimSpace(raw),
			}
		}
	}
	if p.s.Peek0() == '{' {
		b, err := p.block()
		if err != nil {
			return nil, false, err
		}
		return &node.BlockDirective{
			Position: pos, Name: name, Prelude: prelude, Block: b,
		}, true, nil
	}
	p.s.SeekIf(";")
	return &node.Directive{Position: pos, Name: name, Value: prelude}, true, nil
}
