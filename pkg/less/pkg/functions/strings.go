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

	"github.com/das7pad/less-go/pkg/errors"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/renderer"
)

// text returns the body of strings and the rendering of other values.
func text(n node.Node) string {
	if q, ok := n.(*node.Quoted); ok {
		return q.Value
	}
	return renderer.Render(n, renderer.Options{Indent: renderer.DefaultIndent})
}

func e(env *Env, args []node.Node) (node.Node, error) {
	return &node.Anonymous{Position: env.Pos, Value: text(args[0])}, nil
}

const hexDigits = "0123456789ABCDEF"

func keepUnescaped(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*',/?@&+$", c) != -1
}

// urlEscape follows encodeURI and additionally escapes "=:#;()".
func urlEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepUnescaped(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&15])
	}
	return b.String()
}

func escape(env *Env, args []node.Node) (node.Node, error) {
	return &node.Anonymous{Position: env.Pos, Value: urlEscape(text(args[0]))}, nil
}

// format substitutes %s, %d and %a with the remaining arguments. Upper
// case variants url-escape the value, "%%" is a literal percent.
func format(env *Env, args []node.Node) (node.Node, error) {
	q := args[0].(*node.Quoted)
	rest := args[1:]
	var b strings.Builder
	s := q.Value
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		verb := s[i+1]
		switch verb {
		case '%':
			b.WriteByte('%')
			i++
			continue
		case 's', 'S', 'd', 'D', 'a', 'A':
		default:
			b.WriteByte(c)
			continue
		}
		i++
		if len(rest) == 0 {
			return nil, errors.New("not enough arguments for format")
		}
		arg := rest[0]
		rest = rest[1:]
		var v string
		if verb == 's' || verb == 'S' {
			v = text(arg)
		} else {
			v = renderer.Render(arg, renderer.Options{Indent: renderer.DefaultIndent})
		}
		if 'A' <= verb && verb <= 'Z' {
			v = urlEscape(v)
		}
		b.WriteString(v)
	}
	return &node.Quoted{
		Position: env.Pos,
		Delim:    q.Delim,
		Escaped:  q.Escaped,
		Value:    b.String(),
	}, nil
}

func stringFunctions() []Function {
	return []Function{
		{Name: "e", Signature: "*", Invoke: e},
		{Name: "escape", Signature: "*", Invoke: escape},
		{Name: "%", Signature: "q:*.", Invoke: format},
	}
}
