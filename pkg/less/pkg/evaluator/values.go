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

package evaluator

import (
	"strings"

	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/functions"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/renderer"
)

type valueContext struct {
	// inParens enables division between literals.
	inParens bool
	// noMath keeps operations as written, used for calc() arguments.
	noMath bool
}

// cssFunctions take their arguments verbatim.
var cssFunctions = map[string]bool{
	"calc":    true,
	"var":     true,
	"env":     true,
	"clamp":   true,
	"element": true,
}

func renderValue(n node.Node) string {
	return renderer.Render(n, renderer.Options{Indent: renderer.DefaultIndent})
}

// text is the substitution of a value in strings and selectors.
func text(n node.Node) string {
	switch v := n.(type) {
	case *node.Quoted:
		return v.Value
	case *node.Anonymous:
		return v.Value
	}
	return renderValue(n)
}

// quotedText is the substitution of a value inside a string delimited by
// delim.
func quotedText(delim byte, n node.Node) string {
	switch v := n.(type) {
	case *node.Quoted:
		return renderer.EscapeQuote(delim, v.Value)
	case *node.Anonymous:
		return renderer.EscapeQuote(delim, v.Value)
	}
	return renderer.InQuote(delim, n)
}

// interpolate substitutes @{name} references in s. A non-zero delim is
// the quote of the string s belongs to.
func (e *Evaluator) interpolate(s string, pos node.Position, scope []*frame, delim byte) (string, error) {
	if !strings.Contains(s, "@{") {
		return s, nil
	}
	var b strings.Builder
	for {
		i := strings.Index(s, "@{")
		if i == -1 {
			break
		}
		j := strings.IndexByte(s[i:], '}')
		if j == -1 {
			break
		}
		name := s[i+2 : i+j]
		b.WriteString(s[:i])
		v, err := e.lookupVariable(
			&node.Variable{Position: pos, Name: name, Curly: true}, name, scope,
		)
		if err != nil {
			return "", err
		}
		if delim == 0 {
			b.WriteString(text(v))
		} else {
			b.WriteString(quotedText(delim, v))
		}
		s = s[i+j+1:]
	}
	b.WriteString(s)
	return b.String(), nil
}

// isShorthand reports whether n is a literal division like "12px/1.5".
func isShorthand(n node.Node) bool {
	switch v := n.(type) {
	case *node.Dimension:
		return true
	case *node.Operation:
		return v.Op == '/' && isShorthand(v.Left) && isShorthand(v.Right)
	}
	return false
}

func (e *Evaluator) values(nn []node.Node, scope []*frame, ctx valueContext) ([]node.Node, error) {
	out := make([]node.Node, len(nn))
	for i, n := range nn {
		v, err := e.value(n, scope, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Evaluator) value(n node.Node, scope []*frame, ctx valueContext) (node.Node, error) {
	switch n := n.(type) {
	case *node.Variable:
		name := n.Name
		if n.Indirect {
			v, err := e.lookupVariable(n, name, scope)
			if err != nil {
				return nil, err
			}
			name = strings.TrimPrefix(text(v), "@")
		}
		return e.lookupVariable(n, name, scope)
	case *node.Quoted:
		delim := n.Delim
		if n.Escaped {
			delim = 0
		}
		v, err := e.interpolate(n.Value, n.Pos(), scope, delim)
		if err != nil {
			return nil, err
		}
		if n.Escaped {
			return &node.Anonymous{Position: n.Position, Value: v}, nil
		}
		return &node.Quoted{Position: n.Position, Delim: n.Delim, Value: v}, nil
	case *node.URL:
		v, err := e.value(n.Value, scope, ctx)
		if err != nil {
			return nil, err
		}
		return &node.URL{Position: n.Position, Value: v}, nil
	case *node.Expression:
		vv, err := e.values(n.Values, scope, ctx)
		if err != nil {
			return nil, err
		}
		if len(vv) == 1 {
			return vv[0], nil
		}
		return &node.Expression{Position: n.Position, Values: vv}, nil
	case *node.ExpressionList:
		vv, err := e.values(n.Values, scope, ctx)
		if err != nil {
			return nil, err
		}
		return &node.ExpressionList{Position: n.Position, Values: vv}, nil
	case *node.Paren:
		inner := ctx
		inner.inParens = true
		v, err := e.value(n.Value, scope, inner)
		if err != nil {
			return nil, err
		}
		if !ctx.noMath {
			switch v.(type) {
			case *node.Dimension, *node.Color:
				return v, nil
			}
		}
		return &node.Paren{Position: n.Position, Value: v}, nil
	case *node.Negation:
		v, err := e.value(n.Value, scope, ctx)
		if err != nil {
			return nil, err
		}
		if d, ok := v.(*node.Dimension); ok && !ctx.noMath {
			return &node.Dimension{Position: n.Position, Value: -d.Value, Unit: d.Unit}, nil
		}
		return &node.Negation{Position: n.Position, Value: v}, nil
	case *node.Operation:
		l, err := e.value(n.Left, scope, ctx)
		if err != nil {
			return nil, err
		}
		r, err := e.value(n.Right, scope, ctx)
		if err != nil {
			return nil, err
		}
		if ctx.noMath || (n.Op == '/' && !ctx.inParens && isShorthand(n)) {
			return &node.Operation{Position: n.Position, Op: n.Op, Left: l, Right: r}, nil
		}
		return e.operate(n, l, r)
	case *node.FunctionCall:
		return e.call(n, scope, ctx)
	case *node.Feature:
		if n.Value == nil {
			return n, nil
		}
		v, err := e.value(n.Value, scope, ctx)
		if err != nil {
			return nil, err
		}
		return &node.Feature{Position: n.Position, Property: n.Property, Value: v}, nil
	case *node.Features:
		return e.features(n, scope)
	}
	return n, nil
}

func (e *Evaluator) call(n *node.FunctionCall, scope []*frame, ctx valueContext) (node.Node, error) {
	name := strings.ToLower(n.Name)
	if name == "default" && len(n.Args) == 0 && e.guardDefault != nil {
		return functions.Bool(n.Position, *e.guardDefault), nil
	}
	inner := valueContext{inParens: true, noMath: ctx.noMath || cssFunctions[name]}
	args, err := e.values(n.Args, scope, inner)
	if err != nil {
		return nil, err
	}
	plain := &node.FunctionCall{Position: n.Position, Name: n.Name, Args: args}
	if inner.noMath {
		return plain, nil
	}
	out, err := e.o.Functions.Call(&functions.Env{Name: n.Name, Pos: n.Pos()}, args)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return plain, nil
	}
	return out, nil
}

func (e *Evaluator) features(f *node.Features, scope []*frame) (*node.Features, error) {
	if f == nil {
		return nil, nil
	}
	vv, err := e.values(f.Features, scope, valueContext{inParens: true})
	if err != nil {
		return nil, err
	}
	return &node.Features{Position: f.Position, Features: vv}, nil
}

func keywordColor(n node.Node) node.Node {
	if k, ok := n.(*node.Keyword); ok {
		if c, ok := node.ColorFromKeyword(k.Value); ok {
			c.Position = k.Position
			return c
		}
	}
	return n
}

func invalidOperation(n *node.Operation, l, r node.Node) error {
	return diagnostics.New(
		diagnostics.InvalidOperation, n.Pos(),
		"op", string(n.Op), "left", renderValue(l), "right", renderValue(r),
	)
}

func (e *Evaluator) operate(n *node.Operation, l, r node.Node) (node.Node, error) {
	switch l.(type) {
	case *node.Color, *node.Dimension:
		r = keywordColor(r)
	}
	switch r.(type) {
	case *node.Color, *node.Dimension:
		l = keywordColor(l)
	}
	switch a := l.(type) {
	case *node.Dimension:
		switch b := r.(type) {
		case *node.Dimension:
			return e.dimensionOp(n, a, b)
		case *node.Color:
			if n.Op == '+' || n.Op == '*' {
				return colorOp(n, b, a.Value, a.Value, a.Value)
			}
		}
	case *node.Color:
		switch b := r.(type) {
		case *node.Color:
			return colorOp(n, a, b.R, b.G, b.B)
		case *node.Dimension:
			return colorOp(n, a, b.Value, b.Value, b.Value)
		}
	}
	return nil, invalidOperation(n, l, r)
}

func apply(op byte, a, b float64) (float64, bool) {
	switch op {
	case '+':
		return a + b, true
	case '-':
		return a - b, true
	case '*':
		return a * b, true
	case '/':
		if b == 0 {
			return 0, false
		}
		return a / b, true
	}
	return 0, false
}

func (e *Evaluator) dimensionOp(n *node.Operation, a, b *node.Dimension) (node.Node, error) {
	unit := a.Unit
	v := b.Value
	switch {
	case a.Unit == "":
		unit = b.Unit
	case b.Unit == "" || strings.EqualFold(a.Unit, b.Unit):
	default:
		if c, ok := functions.Convert(b.Value, b.Unit, a.Unit); ok {
			v = c
		} else if n.Op == '+' || n.Op == '-' {
			err := e.warn(diagnostics.New(
				diagnostics.IncompatibleUnits, n.Pos(),
				"left", a.Unit, "right", b.Unit,
			))
			if err != nil {
				return nil, err
			}
		}
	}
	out, ok := apply(n.Op, a.Value, v)
	if !ok {
		return nil, invalidOperation(n, a, b)
	}
	return &node.Dimension{Position: n.Position, Value: out, Unit: unit}, nil
}

func colorOp(n *node.Operation, a *node.Color, r, g, b float64) (node.Node, error) {
	var out [3]float64
	for i, pair := range [3][2]float64{{a.R, r}, {a.G, g}, {a.B, b}} {
		v, ok := apply(n.Op, pair[0], pair[1])
		if !ok {
			return nil, diagnostics.New(
				diagnostics.InvalidOperation, n.Pos(),
				"op", string(n.Op), "left", renderValue(a),
				"right", renderer.FormatNumber(pair[1]),
			)
		}
		out[i] = min(255, max(0, v))
	}
	c := node.NewColor(out[0], out[1], out[2], a.A)
	c.Position = n.Position
	return c, nil
}

func (e *Evaluator) guard(g *node.Guard, scope []*frame) (bool, error) {
	for _, c := range g.Conditions {
		ok, err := e.condition(c, scope)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func (e *Evaluator) condition(c *node.Condition, scope []*frame) (bool, error) {
	ok, err := e.evalCondition(c, scope)
	if err != nil {
		return false, diagnostics.Annotate(err, c)
	}
	return ok != c.Negate, nil
}

func (e *Evaluator) evalCondition(c *node.Condition, scope []*frame) (bool, error) {
	ctx := valueContext{inParens: true}
	switch c.Op {
	case "and", "or":
		l, err := e.condition(c.Left.(*node.Condition), scope)
		if err != nil {
			return false, err
		}
		if (c.Op == "and") != l {
			return l, nil
		}
		return e.condition(c.Right.(*node.Condition), scope)
	case "":
		v, err := e.value(c.Left, scope, ctx)
		if err != nil {
			return false, err
		}
		k, ok := v.(*node.Keyword)
		return ok && k.Value == "true", nil
	}
	l, err := e.value(c.Left, scope, ctx)
	if err != nil {
		return false, err
	}
	r, err := e.value(c.Right, scope, ctx)
	if err != nil {
		return false, err
	}
	return e.compare(c, l, r)
}

func (e *Evaluator) compare(c *node.Condition, l, r node.Node) (bool, error) {
	op := c.Op
	switch op {
	case "=<":
		op = "<="
	case "=>":
		op = ">="
	}
	a, aOK := l.(*node.Dimension)
	b, bOK := r.(*node.Dimension)
	if aOK && bOK {
		v := b.Value
		if a.Unit != "" && b.Unit != "" && !strings.EqualFold(a.Unit, b.Unit) {
			var ok bool
			if v, ok = functions.Convert(b.Value, b.Unit, a.Unit); !ok {
				return false, e.warn(diagnostics.New(
					diagnostics.IncompatibleUnits, c.Pos(),
					"left", a.Unit, "right", b.Unit,
				))
			}
		}
		switch op {
		case "<":
			return a.Value < v, nil
		case "<=":
			return a.Value <= v, nil
		case ">":
			return a.Value > v, nil
		case ">=":
			return a.Value >= v, nil
		}
		return a.Value == v, nil
	}
	if op == "=" {
		return equal(l, r), nil
	}
	return false, e.warn(diagnostics.New(
		diagnostics.InvalidOperation, c.Pos(),
		"op", op, "left", renderValue(l), "right", renderValue(r),
	))
}

func equal(l, r node.Node) bool {
	if a, ok := keywordColor(l).(*node.Color); ok {
		if b, ok := keywordColor(r).(*node.Color); ok {
			return a.R == b.R && a.G == b.G && a.B == b.B && a.A == b.A
		}
	}
	return text(l) == text(r)
}
