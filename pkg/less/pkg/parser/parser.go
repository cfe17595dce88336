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

// Package parser turns stylesheet source into a node tree. Every parselet
// returns the parsed node and whether it matched; a parselet that does not
// match leaves the stream where it found it.
package parser

import (
	"strconv"
	"strings"

	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/recognizer"
	"github.com/das7pad/less-go/pkg/less/pkg/stream"
)

type parser struct {
	s    *stream.Stream
	file string
}

// Parse parses a complete stylesheet. file is recorded in every node
// position and may be empty.
func Parse(text, file string) (*node.Stylesheet, error) {
	p := &parser{s: stream.New(text), file: file}
	pos := p.pos()
	rules, err := p.statements()
	if err != nil {
		return nil, err
	}
	p.s.SkipWS()
	if !p.s.AtEOF() {
		if p.s.Peek0() == '/' && p.s.Peek(1) == '*' {
			return nil, p.unterminatedComment()
		}
		return nil, diagnostics.New(
			diagnostics.IncompleteParse, p.pos(), "remainder", p.found(),
		)
	}
	return &node.Stylesheet{
		Position: pos,
		Block:    node.NewBlock(pos, rules...),
	}, nil
}

// ParseValue parses a standalone property value.
func ParseValue(text, file string) (node.Node, error) {
	p := &parser{s: stream.New(text), file: file}
	p.s.SkipWS()
	v, ok, err := p.expressionList()
	if err != nil {
		return nil, err
	}
	p.s.SkipWS()
	if !ok || !p.s.AtEOF() {
		return nil, diagnostics.New(
			diagnostics.IncompleteParse, p.pos(), "remainder", p.found(),
		)
	}
	return v, nil
}

func (p *parser) pos() node.Position {
	return node.Position{
		File:   p.file,
		Line:   p.s.Line() + 1,
		Column: p.s.Column() + 1,
	}
}

type parselet func() (node.Node, bool, error)

// attempt runs fn and rolls the stream back unless fn matched.
func (p *parser) attempt(fn parselet) (node.Node, bool, error) {
	m := p.s.Mark()
	n, ok, err := fn()
	if err != nil || !ok {
		p.s.Restore(m)
	}
	return n, ok, err
}

const maxSnippet = 24

func (p *parser) found() string {
	if p.s.AtEOF() {
		return "end of input"
	}
	r := p.s.Remainder()
	if i := strings.IndexByte(r, '\n'); i != -1 {
		r = r[:i]
	}
	if len(r) > maxSnippet {
		r = r[:maxSnippet] + "..."
	}
	return strconv.Quote(r)
}

func (p *parser) expect(what string) error {
	if p.s.AtEOF() {
		return diagnostics.New(
			diagnostics.UnexpectedEOF, p.pos(), "expected", what,
		)
	}
	return diagnostics.New(
		diagnostics.ExpectedMismatch, p.pos(),
		"expected", what, "found", p.found(),
	)
}

func (p *parser) unterminatedComment() error {
	return diagnostics.New(
		diagnostics.UnexpectedEOF, p.pos(), "expected", "'*/'",
	)
}

// word consumes w when it is not followed by further identifier chars.
func (p *parser) word(w string) bool {
	if !p.s.Test(recognizer.Sequence(
		recognizer.Literal(w), recognizer.WordBoundary,
	)) {
		return false
	}
	p.s.Seek(len(w))
	return true
}

func (p *parser) atTerminator() bool {
	switch p.s.Peek0() {
	case ';', '}':
		return true
	}
	return p.s.AtEOF()
}

func (p *parser) statements() ([]node.Node, error) {
	var out []node.Node
	for {
		p.s.SkipWhitespace()
		start := p.s.Index()
		for _, c := range p.s.SkipComments(true) {
			out = append(out, &node.Comment{
				Position: node.Position{
					File:   p.file,
					Line:   c.Line + 1,
					Column: c.Column + 1,
				},
				Body:  c.Body,
				Block: true,
			})
		}
		if p.s.Index() != start {
			continue
		}
		switch p.s.Peek0() {
		case '}':
			return out, nil
		case ';':
			p.s.Seek1()
			continue
		}
		if p.s.AtEOF() {
			return out, nil
		}
		n, ok, err := p.statement()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, n)
	}
}

func (p *parser) statement() (node.Node, bool, error) {
	var order []parselet
	if p.s.Peek0() == '@' {
		order = []parselet{
			p.definition, p.rule, p.importStatement, p.media, p.directive,
			p.ruleset,
		}
	} else {
		order = []parselet{
			p.mixinDefinition, p.rule, p.mixinCall, p.ruleset,
		}
	}
	for _, fn := range order {
		n, ok, err := p.attempt(fn)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return n, true, nil
		}
	}
	return nil, false, nil
}

// block parses "{ statements }". Once the opening brace is consumed any
// failure is fatal.
func (p *parser) block() (*node.Block, error) {
	pos := p.pos()
	if !p.s.SeekIf("{") {
		return nil, p.expect("'{'")
	}
	rules, err := p.statements()
	if err != nil {
		return nil, err
	}
	if !p.s.SeekIf("}") {
		if p.s.Peek0() == '/' && p.s.Peek(1) == '*' {
			return nil, p.unterminatedComment()
		}
		return nil, p.expect("'}'")
	}
	return node.NewBlock(pos, rules...), nil
}

func (p *parser) definition() (node.Node, bool, error) {
	pos := p.pos()
	if p.s.Test(recognizer.VariableVariable) {
		return nil, false, nil
	}
	name, ok := p.s.Match(recognizer.VariableName)
	if !ok {
		return nil, false, nil
	}
	p.s.SkipWS()
	if !p.s.SeekIf(":") {
		return nil, false, nil
	}
	p.s.SkipWS()
	if p.s.Peek0() == '{' {
		// Detached rulesets are not supported.
		return nil, false, p.expect("a variable value")
	}
	v, _, ok, err := p.ruleValue()
	if err != nil || !ok {
		return nil, false, err
	}
	p.s.SeekIf(";")
	return &node.Definition{Position: pos, Name: name[1:], Value: v}, true, nil
}

func (p *parser) propertyName() string {
	start := p.s.Index()
	m := p.s.Mark()
	p.s.SeekIf("*")
	first := true
	for {
		if _, ok := p.s.Match(recognizer.Interpolation); ok {
			first = false
			continue
		}
		if first {
			c := p.s.Peek0()
			if !recognizer.IsIdentStart(c) && c != '\\' {
				break
			}
		}
		if _, ok := p.s.Match(recognizer.SelectorPart); ok {
			first = false
			continue
		}
		break
	}
	if first {
		p.s.Restore(m)
		return ""
	}
	return p.s.Slice(start)
}

func (p *parser) rule() (node.Node, bool, error) {
	pos := p.pos()
	name := p.propertyName()
	if name == "" {
		return nil, false, nil
	}
	p.s.SkipWS()
	if !p.s.SeekIf(":") {
		return nil, false, nil
	}
	p.s.SkipWS()
	var v node.Node
	var important, ok bool
	var err error
	if strings.HasPrefix(name, "--") {
		v, important, ok = p.rawValue()
	} else {
		v, important, ok, err = p.ruleValue()
	}
	if err != nil || !ok {
		return nil, false, err
	}
	p.s.SeekIf(";")
	return &node.Rule{
		Position:  pos,
		Property:  &node.Property{Position: pos, Name: name},
		Value:     v,
		Important: important,
	}, true, nil
}

// ruleValue parses a declaration value up to the terminating ";" or "}".
// Values the expression grammar cannot express are kept verbatim.
func (p *parser) ruleValue() (node.Node, bool, bool, error) {
	m := p.s.Mark()
	v, ok, err := p.expressionList()
	if err != nil {
		return nil, false, false, err
	}
	if ok {
		p.s.SkipWS()
		important := p.important()
		p.s.SkipWS()
		if p.atTerminator() {
			return v, important, true, nil
		}
	}
	p.s.Restore(m)
	v, important, ok := p.rawValue()
	return v, important, ok, nil
}

func (p *parser) important() bool {
	_, ok := p.s.Match(recognizer.Important)
	return ok
}

func (p *parser) rawValue() (node.Node, bool, bool) {
	pos := p.pos()
	raw, stop := p.scanRaw(";}", true)
	if stop == '{' {
		return nil, false, false
	}
	raw = strings.TrimSpace(raw)
	important := false
	if i := strings.LastIndexByte(raw, '!'); i != -1 {
		if recognizer.Important.Match(raw, i, len(raw)) == len(raw) {
			important = true
			raw = strings.TrimSpace(raw[:i])
		}
	}
	return &node.Anonymous{Position: pos, Value: raw}, important, true
}

// scanRaw consumes text up to the first top level byte in stop, balancing
// parentheses, brackets and quotes. With failOnBrace an opening brace at
// the top level also ends the scan and is returned as stop byte.
func (p *parser) scanRaw(stop string, failOnBrace bool) (string, byte) {
	start := p.s.Index()
	depth := 0
	var quote byte
	for !p.s.AtEOF() {
		c := p.s.Peek0()
		switch {
		case quote != 0:
			if c == '\\' {
				p.s.Seek1()
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case (c == ')' || c == ']') && depth > 0:
			depth--
		case depth == 0 && strings.IndexByte(stop, c) != -1:
			return p.s.Slice(start), c
		case depth == 0 && failOnBrace && c == '{':
			return p.s.Slice(start), c
		}
		p.s.Seek1()
	}
	return p.s.Slice(start), stream.EOF
}
