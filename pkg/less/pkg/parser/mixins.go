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
	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/recognizer"
)

func (p *parser) mixinDefinition() (node.Node, bool, error) {
	pos := p.pos()
	sel, ok, err := p.selector()
	if err != nil || !ok {
		return nil, false, err
	}
	if len(sel.Elements) != 1 || !simpleMixinSelector(sel) {
		return nil, false, nil
	}
	p.s.SkipWS()
	if p.s.Peek0() != '(' {
		return nil, false, nil
	}
	params, ok, err := p.mixinParams()
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
	return &node.Mixin{
		Position: pos,
		Name:     sel.Elements[0].(*node.TextElement).Name,
		Params:   params,
		Guard:    g,
		Block:    b,
	}, true, nil
}

type listEntry struct {
	pos   node.Position
	name  string
	value node.Node
	// def marks "@name: value".
	def      bool
	variadic bool
	delim    byte
}

// delimitedList parses "(entry, entry; ...)" and returns the entries with
// the delimiter that followed each of them.
func (p *parser) delimitedList(entry func() (listEntry, bool, error)) ([]listEntry, bool, bool, error) {
	p.s.Seek1()
	var out []listEntry
	semicolon := false
	for {
		p.s.SkipWS()
		if p.s.SeekIf(")") {
			return out, semicolon, true, nil
		}
		e, ok, err := entry()
		if err != nil || !ok {
			return nil, false, false, err
		}
		p.s.SkipWS()
		switch c := p.s.Peek0(); c {
		case ',', ';':
			p.s.Seek1()
			e.delim = c
			semicolon = semicolon || c == ';'
		case ')':
		default:
			return nil, false, false, nil
		}
		out = append(out, e)
	}
}

// groups splits entries on ";" delimiters. Without any ";" every entry is
// its own group.
func groups(entries []listEntry, semicolon bool) [][]listEntry {
	var out [][]listEntry
	if !semicolon {
		for i := range entries {
			out = append(out, entries[i:i+1])
		}
		return out
	}
	start := 0
	for i, e := range entries {
		if e.delim != ',' {
			out = append(out, entries[start:i+1])
			start = i + 1
		}
	}
	if start < len(entries) {
		out = append(out, entries[start:])
	}
	return out
}

func mergeValues(pos node.Position, g []listEntry) node.Node {
	if len(g) == 1 {
		return g[0].value
	}
	values := make([]node.Node, len(g))
	for i, e := range g {
		values[i] = e.value
	}
	return &node.ExpressionList{Position: pos, Values: values}
}

func (p *parser) paramEntry() (listEntry, bool, error) {
	e := listEntry{pos: p.pos()}
	if p.s.SeekIf("...") {
		e.variadic = true
		return e, true, nil
	}
	if v, ok := p.s.Match(recognizer.VariableName); ok {
		e.name = v[1:]
		p.s.SkipWS()
		switch {
		case p.s.SeekIf("..."):
			e.variadic = true
			return e, true, nil
		case p.s.SeekIf(":"):
			p.s.SkipWS()
			value, ok, err := p.expression()
			if err != nil || !ok {
				return e, false, err
			}
			e.value = value
			e.def = true
		}
		return e, true, nil
	}
	value, ok, err := p.expression()
	if err != nil || !ok {
		return e, false, err
	}
	e.value = value
	return e, true, nil
}

func (p *parser) mixinParams() (*node.MixinParams, bool, error) {
	pos := p.pos()
	entries, semicolon, ok, err := p.delimitedList(p.paramEntry)
	if err != nil || !ok {
		return nil, false, err
	}
	params := &node.MixinParams{Position: pos}
	for _, g := range groups(entries, semicolon) {
		first := g[0]
		if len(g) > 1 {
			// Only a default value or a pattern may continue with commas.
			if (first.name != "" && !first.def) || first.variadic {
				return nil, false, diagnostics.New(
					diagnostics.MixedDelimiters, first.pos,
					"where", "mixin parameters",
				)
			}
			for _, e := range g[1:] {
				if e.name != "" || e.variadic {
					return nil, false, diagnostics.New(
						diagnostics.MixedDelimiters, e.pos,
						"where", "mixin parameters",
					)
				}
			}
		}
		if first.variadic && first.name == "" {
			params.Variadic = true
			continue
		}
		params.Params = append(params.Params, &node.Parameter{
			Position: first.pos,
			Name:     first.name,
			Value:    mergeValues(first.pos, g),
			Variadic: first.variadic,
		})
	}
	return params, true, nil
}

func (p *parser) argEntry() (listEntry, bool, error) {
	e := listEntry{pos: p.pos()}
	m := p.s.Mark()
	if v, ok := p.s.Match(recognizer.VariableName); ok {
		p.s.SkipWS()
		if p.s.SeekIf(":") {
			e.name = v[1:]
			p.s.SkipWS()
		} else {
			p.s.Restore(m)
		}
	}
	value, ok, err := p.expression()
	if err != nil || !ok {
		return e, false, err
	}
	e.value = value
	return e, true, nil
}

func (p *parser) mixinCallArgs() (*node.MixinCallArgs, bool, error) {
	pos := p.pos()
	entries, semicolon, ok, err := p.delimitedList(p.argEntry)
	if err != nil || !ok {
		return nil, false, err
	}
	args := &node.MixinCallArgs{Position: pos, Delim: ','}
	if semicolon {
		args.Delim = ';'
	}
	for _, g := range groups(entries, semicolon) {
		for _, e := range g[1:] {
			if e.name != "" {
				return nil, false, diagnostics.New(
					diagnostics.MixedDelimiters, e.pos,
					"where", "mixin arguments",
				)
			}
		}
		args.Args = append(args.Args, &node.Argument{
			Position: g[0].pos,
			Name:     g[0].name,
			Value:    mergeValues(g[0].pos, g),
		})
	}
	return args, true, nil
}

func (p *parser) mixinCall() (node.Node, bool, error) {
	pos := p.pos()
	sel, ok, err := p.selector()
	if err != nil || !ok {
		return nil, false, err
	}
	if !simpleMixinSelector(sel) {
		return nil, false, nil
	}
	call := &node.MixinCall{Position: pos, Selector: sel}
	p.s.SkipWS()
	if p.s.Peek0() == '(' {
		args, ok, err := p.mixinCallArgs()
		if err != nil || !ok {
			return nil, false, err
		}
		call.Args = args
		p.s.SkipWS()
	}
	call.Important = p.important()
	p.s.SkipWS()
	if !p.atTerminator() {
		return nil, false, nil
	}
	p.s.SeekIf(";")
	return call, true, nil
}

func (p *parser) guard() (*node.Guard, bool, error) {
	m := p.s.Mark()
	p.s.SkipWS()
	pos := p.pos()
	if !p.word("when") {
		p.s.Restore(m)
		return nil, false, nil
	}
	g := &node.Guard{Position: pos}
	for {
		p.s.SkipWS()
		c, ok, err := p.condition()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, p.expect("guard condition")
		}
		g.Conditions = append(g.Conditions, c)
		m = p.s.Mark()
		p.s.SkipWS()
		if !p.s.SeekIf(",") {
			p.s.Restore(m)
			return g, true, nil
		}
	}
}

func (p *parser) condition() (*node.Condition, bool, error) {
	left, ok, err := p.conditionTerm()
	if err != nil || !ok {
		return nil, false, err
	}
	for {
		m := p.s.Mark()
		p.s.SkipWS()
		op := ""
		switch {
		case p.word("and"):
			op = "and"
		case p.word("or"):
			op = "or"
		default:
			p.s.Restore(m)
			return left, true, nil
		}
		p.s.SkipWS()
		right, ok, err := p.conditionTerm()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, p.expect("guard condition")
		}
		left = &node.Condition{
			Position: left.Position, Op: op, Left: left, Right: right,
		}
	}
}

var comparisons = []string{">=", "=<", "<=", "=>", ">", "<", "="}

func (p *parser) conditionTerm() (*node.Condition, bool, error) {
	pos := p.pos()
	m := p.s.Mark()
	negate := p.word("not")
	if negate {
		p.s.SkipWS()
	}
	if !p.s.SeekIf("(") {
		p.s.Restore(m)
		return nil, false, nil
	}
	p.s.SkipWS()
	var c *node.Condition
	if p.s.Peek0() == '(' || p.s.Test(guardNot) {
		inner, ok, err := p.condition()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, p.expect("guard condition")
		}
		c = inner
	} else {
		left, ok, err := p.expression()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, p.expect("guard operand")
		}
		c = &node.Condition{Position: pos, Left: left}
		p.s.SkipWS()
		for _, op := range comparisons {
			if p.s.SeekIf(op) {
				c.Op = op
				break
			}
		}
		if c.Op != "" {
			p.s.SkipWS()
			right, ok, err := p.expression()
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, p.expect("guard operand")
			}
			c.Right = right
		}
	}
	p.s.SkipWS()
	if !p.s.SeekIf(")") {
		return nil, false, p.expect("')'")
	}
	c.Negate = c.Negate != negate
	return c, true, nil
}

var guardNot = recognizer.Sequence(
	recognizer.Literal("not"), recognizer.WordBoundary,
)
