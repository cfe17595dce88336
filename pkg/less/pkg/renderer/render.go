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

package renderer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

// Render serializes n with the given options.
func Render(n node.Node, o Options) string {
	b := NewBuffer(o)
	b.Node(n)
	return b.String()
}

// Node writes a statement or value node.
func (b *Buffer) Node(n node.Node) {
	switch n := n.(type) {
	case *node.Stylesheet:
		b.statements(n.Block, true)
		if !b.compress && b.sb.Len() > 0 {
			b.WriteByte('\n')
		}
	case *node.Block:
		b.statements(n, true)
	default:
		if isStatement(n) {
			b.statement(n, true)
			return
		}
		b.value(n)
	}
}

func isStatement(n node.Node) bool {
	switch n.(type) {
	case *node.Ruleset, *node.Rule, *node.Definition, *node.Mixin,
		*node.MixinCall, *node.Import, *node.Media, *node.Directive,
		*node.BlockDirective, *node.Comment:
		return true
	}
	return false
}

func (b *Buffer) dropped(n node.Node) bool {
	c, ok := n.(*node.Comment)
	if !ok {
		return false
	}
	return !c.Block || (b.compress && !strings.HasPrefix(c.Body, "!"))
}

// statements writes the rules of a block, top marks the root level where
// no leading line break is needed.
func (b *Buffer) statements(bl *node.Block, top bool) {
	last := -1
	for i, n := range bl.Rules {
		if !b.dropped(n) {
			last = i
		}
	}
	first := true
	for i, n := range bl.Rules {
		if b.dropped(n) {
			continue
		}
		if !first || !top {
			b.newline()
		}
		first = false
		b.statement(n, i == last)
	}
}

func (b *Buffer) block(bl *node.Block) {
	b.space(" {", "{")
	b.depth++
	b.statements(bl, false)
	b.depth--
	if len(bl.Rules) > 0 {
		b.newline()
	}
	b.WriteByte('}')
}

// terminate writes the semicolon after a declaration like statement. In
// compress mode the last one in a block is omitted.
func (b *Buffer) terminate(last bool) {
	if !b.compress || !last {
		b.WriteByte(';')
	}
}

func (b *Buffer) statement(n node.Node, last bool) {
	b.mark(n.Pos())
	switch n := n.(type) {
	case *node.Ruleset:
		b.selectors(n.Selectors, true)
		b.guard(n.Guard)
		b.block(n.Block)
	case *node.Rule:
		b.WriteString(n.Property.Name)
		b.space(": ", ":")
		b.value(n.Value)
		if n.Important {
			b.space(" !important", "!important")
		}
		b.terminate(last)
	case *node.Definition:
		b.WriteByte('@')
		b.WriteString(n.Name)
		b.space(": ", ":")
		b.value(n.Value)
		b.terminate(last)
	case *node.Mixin:
		b.WriteString(n.Name)
		b.mixinParams(n.Params)
		b.guard(n.Guard)
		b.block(n.Block)
	case *node.MixinCall:
		b.selector(n.Selector)
		if n.Args != nil {
			b.mixinCallArgs(n.Args)
		}
		if n.Important {
			b.space(" !important", "!important")
		}
		b.terminate(last)
	case *node.Import:
		b.WriteString("@import ")
		if names := n.Options.Names(); len(names) > 0 {
			b.WriteByte('(')
			b.WriteString(strings.Join(names, ", "))
			b.WriteString(") ")
		}
		b.value(n.Path)
		if n.Features != nil {
			b.WriteByte(' ')
			b.features(n.Features)
		}
		b.terminate(last)
	case *node.Media:
		b.WriteString("@media ")
		b.features(n.Features)
		b.block(n.Block)
	case *node.Directive:
		b.WriteString(n.Name)
		if n.Value != nil {
			b.WriteByte(' ')
			b.value(n.Value)
		}
		b.terminate(last)
	case *node.BlockDirective:
		b.WriteString(n.Name)
		if n.Prelude != nil {
			b.WriteByte(' ')
			b.value(n.Prelude)
		}
		b.block(n.Block)
	case *node.Comment:
		if n.Block {
			b.WriteString("/*")
			b.WriteString(n.Body)
			b.WriteString("*/")
		} else {
			b.WriteString("//")
			b.WriteString(n.Body)
		}
	case *node.Anonymous:
		// Inline imports.
		b.WriteString(n.Value)
	default:
		panic(fmt.Sprintf("renderer: %s is not a statement", n.Kind()))
	}
}

func (b *Buffer) selectors(s *node.Selectors, multiline bool) {
	for i, sel := range s.Selectors {
		if i > 0 {
			b.WriteByte(',')
			if multiline {
				b.newline()
			} else {
				b.space(" ", "")
			}
		}
		b.selector(sel)
	}
}

func (b *Buffer) selector(s *node.Selector) {
	for i, e := range s.Elements {
		b.combinator(e.Comb(), i == 0)
		switch e := e.(type) {
		case *node.TextElement:
			b.WriteString(e.Name)
		case *node.AttributeElement:
			b.WriteByte('[')
			b.WriteString(e.Name)
			if e.Op != "" {
				b.WriteString(e.Op)
				b.value(e.Value)
			}
			b.WriteByte(']')
		}
	}
}

func (b *Buffer) combinator(c node.Combinator, first bool) {
	switch c {
	case node.CombinatorNone:
	case node.CombinatorDescendant:
		if !first {
			b.WriteByte(' ')
		}
	case node.CombinatorNamespace:
		b.WriteByte('|')
	default:
		switch {
		case b.compress:
			b.WriteString(c.String())
		case first:
			b.WriteString(c.String())
			b.WriteByte(' ')
		default:
			b.WriteByte(' ')
			b.WriteString(c.String())
			b.WriteByte(' ')
		}
	}
}

func (b *Buffer) guard(g *node.Guard) {
	if g == nil {
		return
	}
	b.WriteString(" when ")
	for i, c := range g.Conditions {
		if i > 0 {
			b.space(", ", ",")
		}
		b.condition(c)
	}
}

func isLogical(c *node.Condition) bool {
	return c.Op == "and" || c.Op == "or"
}

func (b *Buffer) condition(c *node.Condition) {
	if isLogical(c) {
		if c.Negate {
			b.WriteString("not (")
		}
		b.condition(c.Left.(*node.Condition))
		b.WriteByte(' ')
		b.WriteString(c.Op)
		b.WriteByte(' ')
		right := c.Right.(*node.Condition)
		if isLogical(right) && !right.Negate {
			b.WriteByte('(')
			b.condition(right)
			b.WriteByte(')')
		} else {
			b.condition(right)
		}
		if c.Negate {
			b.WriteByte(')')
		}
		return
	}
	if c.Negate {
		b.WriteString("not ")
	}
	b.WriteByte('(')
	b.value(c.Left)
	if c.Op != "" {
		b.WriteByte(' ')
		b.WriteString(c.Op)
		b.WriteByte(' ')
		b.value(c.Right)
	}
	b.WriteByte(')')
}

func (b *Buffer) mixinParams(p *node.MixinParams) {
	b.WriteByte('(')
	sep := ","
	for _, param := range p.Params {
		if _, ok := param.Value.(*node.ExpressionList); ok {
			sep = ";"
		}
	}
	n := 0
	for _, param := range p.Params {
		if n > 0 {
			b.space(sep+" ", sep)
		}
		n++
		if param.Name != "" {
			b.WriteByte('@')
			b.WriteString(param.Name)
			if param.Variadic {
				b.WriteString("...")
				continue
			}
			if param.Value != nil {
				b.space(": ", ":")
			}
		}
		if param.Value != nil {
			b.value(param.Value)
		}
	}
	if p.Variadic {
		if n > 0 {
			b.space(sep+" ", sep)
		}
		n++
		b.WriteString("...")
	}
	if sep == ";" && n == 1 {
		b.WriteByte(';')
	}
	b.WriteByte(')')
}

func (b *Buffer) mixinCallArgs(a *node.MixinCallArgs) {
	b.WriteByte('(')
	sep := ","
	if a.Delim == ';' {
		sep = ";"
	}
	for i, arg := range a.Args {
		if i > 0 {
			b.space(sep+" ", sep)
		}
		if arg.Name != "" {
			b.WriteByte('@')
			b.WriteString(arg.Name)
			b.space(": ", ":")
		}
		b.value(arg.Value)
	}
	if sep == ";" && len(a.Args) == 1 {
		b.WriteByte(';')
	}
	b.WriteByte(')')
}

func (b *Buffer) features(f *node.Features) {
	for i, q := range f.Features {
		if i > 0 {
			b.space(", ", ",")
		}
		b.value(q)
	}
}

// value writes a value node.
func (b *Buffer) value(n node.Node) {
	switch n := n.(type) {
	case nil:
	case *node.Dimension:
		b.WriteString(FormatNumber(n.Value))
		b.WriteString(n.Unit)
	case *node.Color:
		b.color(n)
	case *node.Quoted:
		if n.Escaped {
			b.WriteByte('~')
		}
		b.WriteQuoted(n.Delim, n.Value)
	case *node.Keyword:
		b.WriteString(n.Value)
	case *node.Anonymous:
		b.WriteString(n.Value)
	case *node.UnicodeRange:
		b.WriteString(n.Value)
	case *node.URL:
		b.WriteString("url(")
		b.value(n.Value)
		b.WriteByte(')')
	case *node.Variable:
		switch {
		case n.Curly:
			b.WriteString("@{")
			b.WriteString(n.Name)
			b.WriteByte('}')
		case n.Indirect:
			b.WriteString("@@")
			b.WriteString(n.Name)
		default:
			b.WriteByte('@')
			b.WriteString(n.Name)
		}
	case *node.Expression:
		for i, v := range n.Values {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.value(v)
		}
	case *node.ExpressionList:
		for i, v := range n.Values {
			if i > 0 {
				b.space(", ", ",")
			}
			b.value(v)
		}
	case *node.Operation:
		b.value(n.Left)
		if n.Op == '/' {
			b.WriteByte('/')
		} else {
			b.WriteByte(' ')
			b.WriteByte(n.Op)
			b.WriteByte(' ')
		}
		b.value(n.Right)
	case *node.Negation:
		b.WriteByte('-')
		b.value(n.Value)
	case *node.Paren:
		b.WriteByte('(')
		b.value(n.Value)
		b.WriteByte(')')
	case *node.FunctionCall:
		b.WriteString(n.Name)
		b.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				b.space(", ", ",")
			}
			b.value(arg)
		}
		b.WriteByte(')')
	case *node.Feature:
		b.WriteByte('(')
		b.WriteString(n.Property.Name)
		if n.Value != nil {
			b.space(": ", ":")
			b.value(n.Value)
		}
		b.WriteByte(')')
	case *node.Features:
		b.features(n)
	case *node.Selector:
		b.selector(n)
	case *node.Selectors:
		b.selectors(n, false)
	case *node.Guard:
		b.guard(n)
	case *node.Condition:
		b.condition(n)
	case *node.MixinParams:
		b.mixinParams(n)
	case *node.MixinCallArgs:
		b.mixinCallArgs(n)
	case *node.Property:
		b.WriteString(n.Name)
	default:
		if isStatement(n) {
			b.statement(n, true)
			return
		}
		panic(fmt.Sprintf("renderer: cannot render %s as value", n.Kind()))
	}
}

func clampByte(v float64) int {
	return int(math.Round(math.Max(0, math.Min(255, v))))
}

func (b *Buffer) color(c *node.Color) {
	if c.Token != "" {
		b.WriteString(c.Token)
		return
	}
	if c.A >= 1 {
		b.WriteString(fmt.Sprintf("#%02x%02x%02x",
			clampByte(c.R), clampByte(c.G), clampByte(c.B)))
		return
	}
	sep := ", "
	if b.compress {
		sep = ","
	}
	b.WriteString("rgba(")
	b.WriteString(strconv.Itoa(clampByte(c.R)))
	b.WriteString(sep)
	b.WriteString(strconv.Itoa(clampByte(c.G)))
	b.WriteString(sep)
	b.WriteString(strconv.Itoa(clampByte(c.B)))
	b.WriteString(sep)
	b.WriteString(FormatNumber(math.Max(0, c.A)))
	b.WriteByte(')')
}
