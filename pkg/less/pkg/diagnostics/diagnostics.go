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

// Package diagnostics holds the error kinds raised while parsing and
// evaluating stylesheets, together with the formatting of the node
// context accumulated while an error travels up the evaluator frames.
package diagnostics

import (
	"strconv"
	"strings"

	"github.com/das7pad/less-go/pkg/errors"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

type Param struct {
	Name  string
	Value string
}

type Error struct {
	Type   Type
	Params []Param
	// Pos is where the error was raised. Syntax errors have no Context.
	Pos node.Position
	// Context lists the enclosing nodes, innermost first.
	Context []node.Node
	Cause   error
}

// New creates an error of the given type. kv alternates parameter names
// and values.
func New(t Type, pos node.Position, kv ...string) *Error {
	e := &Error{Type: t, Pos: pos}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Params = append(e.Params, Param{Name: kv[i], Value: kv[i+1]})
	}
	return e
}

func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

func (e *Error) Param(name string) string {
	for _, p := range e.Params {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

func (e *Error) Message() string {
	return Expand(e.Type.Template(), e.Params)
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Pos.IsKnown() {
		writePosition(&b, e.Pos)
		b.WriteString(": ")
	}
	b.WriteString(e.Type.String())
	b.WriteString(": ")
	b.WriteString(e.Message())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) IsUserFacing() {}

// Push records n as the next enclosing frame.
func (e *Error) Push(n node.Node) {
	if n == nil {
		return
	}
	if l := len(e.Context); l > 0 && e.Context[l-1] == n {
		return
	}
	e.Context = append(e.Context, n)
}

// Annotate pushes n onto the context of a diagnostics error in err and
// returns err unchanged.
func Annotate(err error, n node.Node) error {
	var e *Error
	if errors.As(err, &e) {
		e.Push(n)
	}
	return err
}

func Is(err error, t Type) bool {
	e, ok := AsError(err)
	return ok && e.Type == t
}

func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Expand substitutes %(name)s placeholders with the matching parameter.
// Unknown names expand to an empty string, "%%" is a literal percent.
func Expand(template string, params []Param) string {
	var b strings.Builder
	for {
		i := strings.IndexByte(template, '%')
		if i == -1 || i+1 == len(template) {
			b.WriteString(template)
			return b.String()
		}
		b.WriteString(template[:i])
		template = template[i:]
		if template[1] == '%' {
			b.WriteByte('%')
			template = template[2:]
			continue
		}
		end := strings.Index(template, ")s")
		if template[1] != '(' || end == -1 {
			b.WriteByte('%')
			template = template[1:]
			continue
		}
		name := template[2:end]
		for _, p := range params {
			if p.Name == name {
				b.WriteString(p.Value)
				break
			}
		}
		template = template[end+2:]
	}
}

func writePosition(b *strings.Builder, p node.Position) {
	if p.File != "" {
		b.WriteString(p.File)
		b.WriteByte(':')
	}
	b.WriteString(strconv.Itoa(p.Line))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(p.Column))
}
