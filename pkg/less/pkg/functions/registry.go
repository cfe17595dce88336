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

// Package functions holds the registry of callable stylesheet functions.
// A Registry is immutable once built and may be shared by concurrent
// compiles.
package functions

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/das7pad/less-go/pkg/errors"
	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

// Env describes the call site of a function.
type Env struct {
	Name string
	Pos  node.Position
}

// Invoke computes the result of a call. Returning a nil node leaves the
// call in the output as a plain CSS function.
type Invoke func(env *Env, args []node.Node) (node.Node, error)

// Function binds a name to an implementation. The Signature has one
// character per argument:
//
//	c  color
//	d  dimension
//	n  number, the unit is ignored
//	q  quoted string
//	k  keyword
//	*  anything
//
// A ':' starts the optional arguments, a trailing '.' repeats the last
// kind. "cc:n" takes two colors and an optional number, "n." takes one or
// more numbers.
type Function struct {
	Name      string
	Signature string
	Invoke    Invoke
}

type signature struct {
	kinds    []byte
	required int
	variadic bool
}

func parseSignature(s string) (signature, error) {
	sig := signature{required: -1}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case 'c', 'd', 'n', 'q', 'k', '*':
			if sig.variadic {
				return sig, errors.New("kind after variadic marker")
			}
			sig.kinds = append(sig.kinds, c)
		case ':':
			if sig.required != -1 {
				return sig, errors.New("duplicate optional marker")
			}
			sig.required = len(sig.kinds)
		case '.':
			if len(sig.kinds) == 0 || sig.variadic {
				return sig, errors.New("misplaced variadic marker")
			}
			sig.variadic = true
		default:
			return sig, errors.New("unknown kind " + strconv.QuoteRune(rune(c)))
		}
	}
	if sig.required == -1 {
		sig.required = len(sig.kinds)
	}
	return sig, nil
}

func (s signature) expected() string {
	switch {
	case s.variadic:
		return "at least " + strconv.Itoa(s.required)
	case s.required == len(s.kinds):
		return strconv.Itoa(s.required)
	default:
		return strconv.Itoa(s.required) + " to " + strconv.Itoa(len(s.kinds))
	}
}

func kindName(k byte) string {
	switch k {
	case 'c':
		return "color"
	case 'd':
		return "dimension"
	case 'n':
		return "number"
	case 'q':
		return "string"
	case 'k':
		return "keyword"
	}
	return "any"
}

// coerce checks arg against kind k. Color names pass as colors.
func coerce(k byte, arg node.Node) (node.Node, bool) {
	switch k {
	case 'c':
		switch v := arg.(type) {
		case *node.Color:
			return v, true
		case *node.Keyword:
			if c, ok := node.ColorFromKeyword(v.Value); ok {
				c.Position = v.Position
				return c, true
			}
		}
		return arg, false
	case 'd', 'n':
		_, ok := arg.(*node.Dimension)
		return arg, ok
	case 'q':
		_, ok := arg.(*node.Quoted)
		return arg, ok
	case 'k':
		_, ok := arg.(*node.Keyword)
		return arg, ok
	}
	return arg, true
}

func (s signature) check(env *Env, args []node.Node) ([]node.Node, error) {
	if len(args) < s.required || (!s.variadic && len(args) > len(s.kinds)) {
		return nil, diagnostics.New(
			diagnostics.ArgCount, env.Pos,
			"name", env.Name,
			"expected", s.expected(),
			"got", strconv.Itoa(len(args)),
		)
	}
	out := make([]node.Node, len(args))
	for i, arg := range args {
		k := s.kinds[min(i, len(s.kinds)-1)]
		v, ok := coerce(k, arg)
		if !ok {
			return nil, diagnostics.New(
				diagnostics.ArgType, env.Pos,
				"name", env.Name,
				"index", strconv.Itoa(i+1),
				"expected", kindName(k),
				"got", arg.Kind().String(),
			)
		}
		out[i] = v
	}
	return out, nil
}

type entry struct {
	fn  Function
	sig signature
}

type Registry struct {
	fns map[string]entry
}

// NewRegistry validates the signatures of fns. Names are case-insensitive,
// later functions replace earlier ones of the same name.
func NewRegistry(fns ...Function) (*Registry, error) {
	r := &Registry{fns: make(map[string]entry, len(fns))}
	if err := r.add(fns); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) add(fns []Function) error {
	for _, fn := range fns {
		if fn.Name == "" || fn.Invoke == nil {
			return &errors.ValidationError{Msg: "function needs name and body"}
		}
		sig, err := parseSignature(fn.Signature)
		if err != nil {
			return errors.Tag(err, "signature of "+fn.Name)
		}
		r.fns[strings.ToLower(fn.Name)] = entry{fn: fn, sig: sig}
	}
	return nil
}

// With returns a new registry holding the functions of r and fns.
func (r *Registry) With(fns ...Function) (*Registry, error) {
	out := &Registry{fns: make(map[string]entry, len(r.fns)+len(fns))}
	for k, v := range r.fns {
		out.fns[k] = v
	}
	if err := out.add(fns); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.fns[strings.ToLower(name)]
	return ok
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.fns))
	for k := range r.fns {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Call validates args and invokes the function named by env. A nil node
// without error means the call stays a plain CSS function, this is the
// case for unknown names.
func (r *Registry) Call(env *Env, args []node.Node) (node.Node, error) {
	e, ok := r.fns[strings.ToLower(env.Name)]
	if !ok {
		return nil, nil
	}
	args, err := e.sig.check(env, args)
	if err != nil {
		return nil, err
	}
	out, err := e.fn.Invoke(env, args)
	if err != nil {
		if _, ok := diagnostics.AsError(err); ok {
			return nil, err
		}
		return nil, diagnostics.New(
			diagnostics.FunctionCallError, env.Pos,
			"name", env.Name,
			"reason", err.Error(),
		).WithCause(err)
	}
	return out, nil
}

var builtins = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(builtinFunctions()...)
	if err != nil {
		panic(errors.Tag(err, "builtin functions"))
	}
	return r
})

// Builtins returns the shared registry of built-in functions.
func Builtins() *Registry {
	return builtins()
}
