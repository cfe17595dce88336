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
	"strings"

	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

const maxHeader = 72

// Header returns a one line summary of n for diagnostics, e.g. the
// selectors of a ruleset without its body.
func Header(n node.Node) string {
	b := NewBuffer(Options{Indent: DefaultIndent})
	switch n := n.(type) {
	case *node.Stylesheet:
		if n.File != "" {
			return "stylesheet '" + n.File + "'"
		}
		return "stylesheet"
	case *node.Ruleset:
		b.selectors(n.Selectors, false)
		b.guard(n.Guard)
	case *node.Mixin:
		b.WriteString(n.Name)
		b.mixinParams(n.Params)
		b.guard(n.Guard)
	case *node.MixinCall:
		b.selector(n.Selector)
		if n.Args != nil {
			b.mixinCallArgs(n.Args)
		}
	case *node.Media:
		b.WriteString("@media ")
		b.features(n.Features)
	case *node.BlockDirective:
		b.WriteString(n.Name)
		if n.Prelude != nil {
			b.WriteByte(' ')
			b.value(n.Prelude)
		}
	case *node.Block:
		return "block"
	default:
		b.Node(n)
	}
	s := strings.TrimSuffix(b.String(), ";")
	if i := strings.IndexByte(s, '\n'); i != -1 {
		s = s[:i] + " ..."
	}
	if len(s) > maxHeader {
		s = s[:maxHeader] + "..."
	}
	return s
}
