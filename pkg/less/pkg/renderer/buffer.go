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

// Package renderer serializes node trees. Evaluated trees render as CSS,
// trees straight from the parser render as canonical source that parses
// back into an equal tree.
package renderer

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

const DefaultIndent = 2

type Options struct {
	Compress bool
	// Indent is the number of spaces per nesting level.
	Indent int
	// SourceMap enables collection of a source map, see Buffer.SourceMap.
	SourceMap bool
	// File is the name of the generated file in the source map.
	File string
}

// Buffer accumulates output. It tracks the nesting depth, the compress
// flag and the delimiter of the quoted string currently being written.
type Buffer struct {
	sb       strings.Builder
	compress bool
	indent   int
	depth    int
	quote    byte
	line     int
	column   int
	sm       *sourceMapWriter
}

func NewBuffer(o Options) *Buffer {
	b := &Buffer{compress: o.Compress, indent: o.Indent}
	if b.indent < 0 {
		b.indent = 0
	}
	if o.SourceMap {
		b.sm = newSourceMapWriter(o.File)
	}
	return b
}

func (b *Buffer) String() string {
	return b.sb.String()
}

func (b *Buffer) Compress() bool {
	return b.compress
}

func (b *Buffer) WriteString(s string) {
	b.sb.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i != -1 {
		b.line += strings.Count(s, "\n")
		b.column = len(s) - i - 1
	} else {
		b.column += len(s)
	}
}

func (b *Buffer) WriteByte(c byte) error {
	b.sb.WriteByte(c)
	if c == '\n' {
		b.line++
		b.column = 0
	} else {
		b.column++
	}
	return nil
}

// space writes s in pretty mode and compressed in compress mode.
func (b *Buffer) space(pretty, compressed string) {
	if b.compress {
		b.WriteString(compressed)
	} else {
		b.WriteString(pretty)
	}
}

func (b *Buffer) newline() {
	if b.compress {
		return
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", b.depth*b.indent))
}

func (b *Buffer) mark(p node.Position) {
	if b.sm != nil && p.IsKnown() {
		b.sm.add(b.line, b.column, p)
	}
}

// WriteQuoted writes a quoted string. Within an active quote using the
// same delimiter the inner delimiters are escaped.
func (b *Buffer) WriteQuoted(delim byte, v string) {
	outer := b.quote
	if outer == delim {
		b.WriteByte('\\')
	}
	b.WriteByte(delim)
	b.quote = delim
	b.writeQuotedBody(v, outer)
	b.quote = outer
	if outer == delim {
		b.WriteByte('\\')
	}
	b.WriteByte(delim)
}

func (b *Buffer) writeQuotedBody(v string, outer byte) {
	if outer == 0 || outer != b.quote {
		b.WriteString(v)
		return
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\\' && i+1 < len(v) {
			b.WriteByte(c)
			i++
			b.WriteByte(v[i])
			continue
		}
		if c == outer {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
}

// EscapeQuote escapes the unescaped occurrences of delim in the string
// body v.
func EscapeQuote(delim byte, v string) string {
	if delim == 0 || strings.IndexByte(v, delim) == -1 {
		return v
	}
	b := NewBuffer(Options{Indent: DefaultIndent})
	b.quote = delim
	b.writeQuotedBody(v, delim)
	return b.String()
}

// InQuote renders n as if it was placed inside a string using delim.
func InQuote(delim byte, n node.Node) string {
	b := NewBuffer(Options{Indent: DefaultIndent})
	b.quote = delim
	b.value(n)
	return b.String()
}

// FormatNumber renders v with up to eight decimals and no trailing zeros.
func FormatNumber(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "0"
	}
	s := decimal.NewFromFloat(v).Round(8).String()
	if s == "-0" {
		return "0"
	}
	return s
}
