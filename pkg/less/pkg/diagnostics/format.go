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

package diagnostics

import (
	"strconv"
	"strings"

	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

// DefaultWindow is the number of frames kept at each end of a long trace.
const DefaultWindow = 6

type Formatter struct {
	// Header renders a one line summary of a frame.
	Header func(n node.Node) string
	// Window is the number of frames shown at the start and at the end.
	Window int
	// Color enables ANSI highlighting.
	Color bool
}

func (f Formatter) header(n node.Node) string {
	if f.Header != nil {
		return f.Header(n)
	}
	return n.Kind().String()
}

func (f Formatter) window() int {
	if f.Window <= 0 {
		return DefaultWindow
	}
	return f.Window
}

// Format renders err with its context as a multi line trace, innermost
// frame first. Frames of @import statements are never skipped.
func (f Formatter) Format(err *Error) string {
	var b strings.Builder
	if f.Color {
		b.WriteString("\x1b[1;31m")
	}
	b.WriteString(err.Type.Family().String())
	b.WriteString(" (")
	b.WriteString(err.Type.String())
	b.WriteString(")")
	if f.Color {
		b.WriteString("\x1b[0m")
	}
	b.WriteString(": ")
	b.WriteString(err.Message())
	b.WriteByte('\n')

	file := ""
	if err.Pos.IsKnown() {
		file = err.Pos.File
		f.writeFileHeader(&b, file)
		b.WriteString("  ")
		b.WriteString(strconv.Itoa(err.Pos.Line))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(err.Pos.Column))
		b.WriteString("  <- raised here\n")
	}

	n := len(err.Context)
	w := f.window()
	skipped := 0
	for i, frame := range err.Context {
		inWindow := n <= 2*w || i < w || i >= n-w
		if !inWindow && frame.Kind() != node.KindImport {
			skipped++
			continue
		}
		if skipped > 0 {
			b.WriteString("  ... skipped ")
			b.WriteString(strconv.Itoa(skipped))
			b.WriteString(" frames ...\n")
			skipped = 0
		}
		p := frame.Pos()
		if p.File != file || (i == 0 && !err.Pos.IsKnown()) {
			file = p.File
			f.writeFileHeader(&b, file)
		}
		b.WriteString("  ")
		if p.IsKnown() {
			b.WriteString(strconv.Itoa(p.Line))
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(p.Column))
			b.WriteString("  ")
		}
		b.WriteString(f.header(frame))
		b.WriteByte('\n')
	}
	return b.String()
}

func (f Formatter) writeFileHeader(b *strings.Builder, file string) {
	if file == "" {
		file = "<input>"
	}
	b.WriteString("In '")
	b.WriteString(file)
	b.WriteString("':\n")
}
