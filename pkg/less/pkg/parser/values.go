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
	"strconv"

	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/recognizer"
)

// expressionList parses comma separated expressions.
func (p *parser) expressionList() (node.Node, bool, error) {
	pos := p.pos()
	first, ok, err := p.expression()
	if err != nil || !ok {
		return nil, false, err
	}
	values := []node.Node{first}
	for {
		m := p.s.Mark()
		p.s.SkipWS()
		if !p.s.SeekIf(",") {
			p.s.Restore(m)
			break
		}
		p.s.SkipWS()
		n, ok, err := p.expression()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			p.s.Restore(m)
			break
		}
		values = append(values, n)
	}
	if len(values) == 1 {
		return first, true, nil
	}
	return &node.ExpressionList{Position: pos, Values: values}, true, nil
}

// expression parses whitespace separated values.
func (p *parser) expression() (node.Node, bool, error) {
	pos := p.pos()
	var values []node.Node
	for {
		m := p.s.Mark()
		if len(values) > 0 {
			p.s.SkipWS()
		}
		n, ok, err := p.addition()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			p.s.Restore(m)
			break
		}
		values = append(values, n)
	}
	switch len(values) {
	case 0:
		return nil, false, nil
	case 1:
		return values[0], true, nil
	}
	return &node.Expression{Position: pos, Values: values}, true, nil
}

func (p *parser) addition() (node.Node, bool, error) {
	left, ok, err := p.multiplication()
	if err != nil || !ok {
		return nil, false, err
	}
	for {
		m := p.s.Mark()
		wsBefore := p.s.SkipWS()
		op := p.s.Peek0()
		if op != '+' && op != '-' {
			p.s.Restore(m)
			return left, true, nil
		}
		// "a -b" is a list of two values, "a - b" and "a-b" subtract.
		if wsBefore && !recognizer.IsWhitespace(p.s.Peek(1)) {
			p.s.Restore(m)
			return left, true, nil
		}
		p.s.Seek1()
		p.s.SkipWS()
		right, ok, err := p.multiplication()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			p.s.Restore(m)
			return left, true, nil
		}
		left = &node.Operation{
			Position: left.Pos(), Op: op, Left: left, Right: right,
		}
	}
}

func (p *parser) multiplication() (node.Node, bool, error) {
	left, ok, err := p.operand()
	if err != nil || !ok {
		return nil, false, err
	}
	for {
		m := p.s.Mark()
		p.s.SkipWS()
		op := p.s.Peek0()
		if op != '*' && op != '/' {
			p.s.Restore(m)
			return left, true, nil
		}
		p.s.Seek1()
		p.s.SkipWS()
		right, ok, err := p.operand()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			p.s.Restore(m)
			return left, true, nil
		}
		left = &node.Operation{
			Position: left.Pos(), Op: op, Left: left, Right: right,
		}
	}
}

func (p *parser) operand() (node.Node, bool, error) {
	pos := p.pos()
	if p.s.Peek0() == '-' {
		switch p.s.Peek(1) {
		case '@', '(':
			m := p.s.Mark()
			p.s.Seek1()
			v, ok, err := p.primary()
			if err != nil || !ok {
				p.s.Restore(m)
				return nil, false, err
			}
			return &node.Negation{Position: pos, Value: v}, true, nil
		}
	}
	return p.primary()
}

func isNumberStart(c0, c1, c2 byte) bool {
	if c0 == '+' || c0 == '-' {
		c0, c1 = c1, c2
	}
	return recognizer.IsDigit(c0) || (c0 == '.' && recognizer.IsDigit(c1))
}

func (p *parser) primary() (node.Node, bool, error) {
	c := p.s.Peek0()
	switch {
	case c == '(':
		return p.attempt(p.paren)
	case c == '"' || c == '\'':
		return p.quoted(false)
	case c == '~' && (p.s.Peek(1) == '"' || p.s.Peek(1) == '\''):
		p.s.Seek1()
		return p.quoted(true)
	case p.s.Test(recognizer.URLStart):
		return p.attempt(p.url)
	case p.s.Test(recognizer.UnicodeRange):
		pos := p.pos()
		v, _ := p.s.Match(recognizer.UnicodeRange)
		return &node.UnicodeRange{Position: pos, Value: v}, true, nil
	case c == '%' && p.s.Peek(1) == '(':
		return p.attempt(p.functionCall)
	case c == '#':
		return p.color()
	case isNumberStart(c, p.s.Peek(1), p.s.Peek(2)):
		return p.dimension()
	case c == '@':
		return p.variable()
	}
	if p.s.Test(recognizer.Identifier) {
		return p.attempt(p.keywordOrCall)
	}
	return nil, false, nil
}

func (p *parser) paren() (node.Node, bool, error) {
	pos := p.pos()
	p.s.Seek1()
	p.s.SkipWS()
	v, ok, err := p.expression()
	if err != nil || !ok {
		return nil, false, err
	}
	p.s.SkipWS()
	if !p.s.SeekIf(")") {
		return nil, false, nil
	}
	return &node.Paren{Position: pos, Value: v}, true, nil
}

func (p *parser) quoted(escaped bool) (node.Node, bool, error) {
	pos := p.pos()
	if escaped {
		pos.Column--
	}
	delim := p.s.Peek0()
	p.s.Seek1()
	start := p.s.Index()
	for {
		if p.s.AtEOF() {
			return nil, false, p.expect(strconv.QuoteRune(rune(delim)))
		}
		switch p.s.Peek0() {
		case '\\':
			if p.s.Index()+1 >= len(p.s.Raw()) {
				return nil, false, diagnostics.New(
					diagnostics.InvalidEscape, p.pos(), "escape", `"\"`,
				)
			}
			p.s.Seek(2)
		case delim:
			v := p.s.Slice(start)
			p.s.Seek1()
			return &node.Quoted{
				Position: pos, Delim: delim, Escaped: escaped, Value: v,
			}, true, nil
		default:
			p.s.Seek1()
		}
	}
}

func (p *parser) url() (node.Node, bool, error) {
	pos := p.pos()
	p.s.Seek(len("url("))
	p.s.SkipWhitespace()
	var v node.Node
	switch c := p.s.Peek0(); {
	case c == '"' || c == '\'':
		q, _, err := p.quoted(false)
		if err != nil {
			return nil, false, err
		}
		v = q
	case p.s.Test(recognizer.VariableName):
		n, _, err := p.variable()
		if err != nil {
			return nil, false, err
		}
		v = n
	default:
		vPos := p.pos()
		start := p.s.Index()
		for !p.s.AtEOF() {
			c = p.s.Peek0()
			if c == ')' || recognizer.IsWhitespace(c) {
				break
			}
			if c == '\\' {
				p.s.Seek1()
			}
			p.s.Seek1()
		}
		v = &node.Anonymous{Position: vPos, Value: p.s.Slice(start)}
	}
	p.s.SkipWhitespace()
	if !p.s.SeekIf(")") {
		return nil, false, nil
	}
	return &node.URL{Position: pos, Value: v}, true, nil
}

func (p *parser) color() (node.Node, bool, error) {
	pos := p.pos()
	m := p.s.Mark()
	v, ok := p.s.Match(recognizer.HexColor)
	if !ok {
		return nil, false, nil
	}
	if recognizer.IsIdentChar(p.s.Peek0()) {
		p.s.Restore(m)
		return nil, false, nil
	}
	c, ok := node.ParseHexColor(v)
	if !ok {
		p.s.Restore(m)
		return nil, false, nil
	}
	c.Position = pos
	return c, true, nil
}

func (p *parser) dimension() (node.Node, bool, error) {
	pos := p.pos()
	m := p.s.Mark()
	start := p.s.Index()
	if c := p.s.Peek0(); c == '+' || c == '-' {
		p.s.Seek1()
	}
	if _, ok := p.s.Match(recognizer.Number); !ok {
		p.s.Restore(m)
		return nil, false, nil
	}
	v, err := strconv.ParseFloat(p.s.Slice(start), 64)
	if err != nil {
		p.s.Restore(m)
		return nil, false, nil
	}
	unitPos := p.pos()
	unitStart := p.s.Index()
	unit, _ := p.s.Match(recognizer.Unit)
	if c := p.s.Peek0(); unit != "" && (recognizer.IsDigit(c) || c == '_') {
		p.s.Match(recognizer.SelectorPart)
		return nil, false, diagnostics.New(
			diagnostics.InvalidUnit, unitPos,
			"unit", strconv.Quote(p.s.Slice(unitStart)),
		)
	}
	return &node.Dimension{Position: pos, Value: v, Unit: unit}, true, nil
}

func (p *parser) variable() (node.Node, bool, error) {
	pos := p.pos()
	if v, ok := p.s.Match(recognizer.VariableVariable); ok {
		return &node.Variable{
			Position: pos, Name: v[2:], Indirect: true,
		}, true, nil
	}
	if v, ok := p.s.Match(recognizer.Interpolation); ok {
		return &node.Variable{
			Position: pos, Name: v[2 : len(v)-1], Curly: true,
		}, true, nil
	}
	if v, ok := p.s.Match(recognizer.VariableName); ok {
		return &node.Variable{Position: pos, Name: v[1:]}, true, nil
	}
	return nil, false, nil
}

func (p *parser) keywordOrCall() (node.Node, bool, error) {
	pos := p.pos()
	name, _ := p.s.Match(recognizer.Identifier)
	if p.s.Peek0() != '(' {
		return &node.Keyword{Position: pos, Value: name}, true, nil
	}
	return p.callArgs(pos, name)
}

func (p *parser) functionCall() (node.Node, bool, error) {
	pos := p.pos()
	p.s.Seek1()
	return p.callArgs(pos, "%")
}

// callArgs parses "(args)" of a function call. Arguments outside of the
// expression grammar, like "alpha(opacity=50)", are kept verbatim.
func (p *parser) callArgs(pos node.Position, name string) (node.Node, bool, error) {
	p.s.Seek1()
	m := p.s.Mark()
	args, ok, err := p.functionArgs()
	if err != nil {
		return nil, false, err
	}
	if ok {
		return &node.FunctionCall{Position: pos, Name: name, Args: args}, true, nil
	}
	p.s.Restore(m)
	argPos := p.pos()
	raw, stop := p.scanRaw(")", false)
	if stop != ')' {
		return nil, false, nil
	}
	p.s.Seek1()
	return &node.FunctionCall{
		Position: pos,
		Name:     name,
		Args:     []node.Node{&node.Anonymous{Position: argPos, Value: raw}},
	}, true, nil
}

func (p *parser) functionArgs() ([]node.Node, bool, error) {
	p.s.SkipWS()
	if p.s.SeekIf(")") {
		return nil, true, nil
	}
	var args []node.Node
	for {
		p.s.SkipWS()
		arg, ok, err := p.expression()
		if err != nil || !ok {
			return nil, false, err
		}
		args = append(args, arg)
		p.s.SkipWS()
		if p.s.SeekIf(")") {
			return args, true, nil
		}
		if !p.s.SeekIf(",") {
			return nil, false, nil
		}
	}
}
