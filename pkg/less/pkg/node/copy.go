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

package node

import (
	"fmt"
)

// Copy returns a deep copy of n. Parsed trees may be shared between
// compiles, evaluation always works on copies.
func Copy(n Node) Node {
	if n == nil {
		return nil
	}
	switch n := n.(type) {
	case *Stylesheet:
		c := *n
		c.Block = CopyBlock(n.Block)
		return &c
	case *Block:
		return CopyBlock(n)
	case *Ruleset:
		c := *n
		c.Selectors = copySelectors(n.Selectors)
		c.Guard = copyGuard(n.Guard)
		c.Block = CopyBlock(n.Block)
		return &c
	case *Selectors:
		return copySelectors(n)
	case *Selector:
		return CopySelector(n)
	case *TextElement:
		c := *n
		return &c
	case *AttributeElement:
		c := *n
		c.Value = Copy(n.Value)
		return &c
	case *Rule:
		c := *n
		c.Property = copyProperty(n.Property)
		c.Value = Copy(n.Value)
		return &c
	case *Property:
		return copyProperty(n)
	case *Definition:
		c := *n
		c.Value = Copy(n.Value)
		return &c
	case *Variable:
		c := *n
		return &c
	case *Mixin:
		c := *n
		c.Params = copyParams(n.Params)
		c.Guard = copyGuard(n.Guard)
		c.Block = CopyBlock(n.Block)
		return &c
	case *MixinParams:
		return copyParams(n)
	case *Parameter:
		return copyParameter(n)
	case *MixinCall:
		c := *n
		c.Selector = CopySelector(n.Selector)
		c.Args = copyArgs(n.Args)
		return &c
	case *MixinCallArgs:
		return copyArgs(n)
	case *Argument:
		return copyArgument(n)
	case *Guard:
		return copyGuard(n)
	case *Condition:
		return copyCondition(n)
	case *Import:
		c := *n
		c.Path = Copy(n.Path)
		c.Features = copyFeatures(n.Features)
		return &c
	case *Media:
		c := *n
		c.Features = copyFeatures(n.Features)
		c.Block = CopyBlock(n.Block)
		return &c
	case *Features:
		return copyFeatures(n)
	case *Feature:
		c := *n
		c.Property = copyProperty(n.Property)
		c.Value = Copy(n.Value)
		return &c
	case *Directive:
		c := *n
		c.Value = Copy(n.Value)
		return &c
	case *BlockDirective:
		c := *n
		c.Prelude = Copy(n.Prelude)
		c.Block = CopyBlock(n.Block)
		return &c
	case *Dimension:
		c := *n
		return &c
	case *Color:
		c := *n
		return &c
	case *Quoted:
		c := *n
		return &c
	case *Keyword:
		c := *n
		return &c
	case *Anonymous:
		c := *n
		return &c
	case *URL:
		c := *n
		c.Value = Copy(n.Value)
		return &c
	case *UnicodeRange:
		c := *n
		return &c
	case *Expression:
		c := *n
		c.Values = copyNodes(n.Values)
		return &c
	case *ExpressionList:
		c := *n
		c.Values = copyNodes(n.Values)
		return &c
	case *Operation:
		c := *n
		c.Left = Copy(n.Left)
		c.Right = Copy(n.Right)
		return &c
	case *Negation:
		c := *n
		c.Value = Copy(n.Value)
		return &c
	case *Paren:
		c := *n
		c.Value = Copy(n.Value)
		return &c
	case *FunctionCall:
		c := *n
		c.Args = copyNodes(n.Args)
		return &c
	case *Comment:
		c := *n
		return &c
	default:
		panic(fmt.Sprintf("node: copy of unknown node %T", n))
	}
}

func CopyBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	return &Block{
		Position: b.Position,
		Rules:    copyNodes(b.Rules),
	}
}

func copyNodes(nn []Node) []Node {
	if nn == nil {
		return nil
	}
	out := make([]Node, len(nn))
	for i, n := range nn {
		out[i] = Copy(n)
	}
	return out
}

func copySelectors(s *Selectors) *Selectors {
	if s == nil {
		return nil
	}
	c := *s
	c.Selectors = make([]*Selector, len(s.Selectors))
	for i, sel := range s.Selectors {
		c.Selectors[i] = CopySelector(sel)
	}
	return &c
}

func CopySelector(s *Selector) *Selector {
	if s == nil {
		return nil
	}
	c := *s
	c.Elements = make([]Element, len(s.Elements))
	for i, e := range s.Elements {
		c.Elements[i] = Copy(e).(Element)
	}
	return &c
}

func copyProperty(p *Property) *Property {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func copyGuard(g *Guard) *Guard {
	if g == nil {
		return nil
	}
	c := *g
	c.Conditions = make([]*Condition, len(g.Conditions))
	for i, cond := range g.Conditions {
		c.Conditions[i] = copyCondition(cond)
	}
	return &c
}

func copyCondition(cond *Condition) *Condition {
	if cond == nil {
		return nil
	}
	c := *cond
	c.Left = Copy(cond.Left)
	c.Right = Copy(cond.Right)
	return &c
}

func copyParams(p *MixinParams) *MixinParams {
	if p == nil {
		return nil
	}
	c := *p
	c.Params = make([]*Parameter, len(p.Params))
	for i, param := range p.Params {
		c.Params[i] = copyParameter(param)
	}
	return &c
}

func copyParameter(p *Parameter) *Parameter {
	c := *p
	c.Value = Copy(p.Value)
	return &c
}

func copyArgs(a *MixinCallArgs) *MixinCallArgs {
	if a == nil {
		return nil
	}
	c := *a
	c.Args = make([]*Argument, len(a.Args))
	for i, arg := range a.Args {
		c.Args[i] = copyArgument(arg)
	}
	return &c
}

func copyArgument(a *Argument) *Argument {
	c := *a
	c.Value = Copy(a.Value)
	return &c
}

func copyFeatures(f *Features) *Features {
	if f == nil {
		return nil
	}
	c := *f
	c.Features = copyNodes(f.Features)
	return &c
}
