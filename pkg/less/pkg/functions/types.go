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

package functions

import (
	"strings"

	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

// Bool returns the keyword "true" or "false".
func Bool(pos node.Position, v bool) *node.Keyword {
	if v {
		return &node.Keyword{Position: pos, Value: "true"}
	}
	return &node.Keyword{Position: pos, Value: "false"}
}

func is(fn func(n node.Node) bool) Invoke {
	return func(env *Env, args []node.Node) (node.Node, error) {
		return Bool(env.Pos, fn(args[0])), nil
	}
}

func isColor(n node.Node) bool {
	switch v := n.(type) {
	case *node.Color:
		return true
	case *node.Keyword:
		_, ok := node.ColorFromKeyword(v.Value)
		return ok
	}
	return false
}

func hasUnit(unit string) func(n node.Node) bool {
	return func(n node.Node) bool {
		d, ok := n.(*node.Dimension)
		return ok && strings.EqualFold(d.Unit, unit)
	}
}

func isUnit(env *Env, args []node.Node) (node.Node, error) {
	u, err := unitName(args[1])
	if err != nil {
		return nil, err
	}
	return Bool(env.Pos, hasUnit(u)(args[0])), nil
}

func typeFunctions() []Function {
	return []Function{
		{Name: "iscolor", Signature: "*", Invoke: is(isColor)},
		{Name: "isnumber", Signature: "*", Invoke: is(func(n node.Node) bool {
			_, ok := n.(*node.Dimension)
			return ok
		})},
		{Name: "isstring", Signature: "*", Invoke: is(func(n node.Node) bool {
			_, ok := n.(*node.Quoted)
			return ok
		})},
		{Name: "iskeyword", Signature: "*", Invoke: is(func(n node.Node) bool {
			_, ok := n.(*node.Keyword)
			return ok
		})},
		{Name: "isurl", Signature: "*", Invoke: is(func(n node.Node) bool {
			_, ok := n.(*node.URL)
			return ok
		})},
		{Name: "ispixel", Signature: "*", Invoke: is(hasUnit("px"))},
		{Name: "isem", Signature: "*", Invoke: is(hasUnit("em"))},
		{Name: "ispercentage", Signature: "*", Invoke: is(hasUnit("%"))},
		{Name: "isunit", Signature: "**", Invoke: isUnit},
	}
}

func builtinFunctions() []Function {
	var out []Function
	out = append(out, colorFunctions()...)
	out = append(out, mathFunctions()...)
	out = append(out, unitFunctions()...)
	out = append(out, stringFunctions()...)
	out = append(out, typeFunctions()...)
	return out
}
