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
	"math"

	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

func dimension(args []node.Node, i int) *node.Dimension {
	return args[i].(*node.Dimension)
}

// unary keeps the unit of its argument.
func unary(fn func(float64) float64) Invoke {
	return func(env *Env, args []node.Node) (node.Node, error) {
		d := dimension(args, 0)
		return &node.Dimension{
			Position: env.Pos, Value: fn(d.Value), Unit: d.Unit,
		}, nil
	}
}

func round(env *Env, args []node.Node) (node.Node, error) {
	d := dimension(args, 0)
	places := 0.0
	if len(args) == 2 {
		places = math.Max(0, math.Floor(dimension(args, 1).Value))
	}
	p := math.Pow(10, places)
	return &node.Dimension{
		Position: env.Pos, Value: math.Round(d.Value*p) / p, Unit: d.Unit,
	}, nil
}

func percentage(env *Env, args []node.Node) (node.Node, error) {
	return &node.Dimension{
		Position: env.Pos, Value: dimension(args, 0).Value * 100, Unit: "%",
	}, nil
}

// radians reads an angle, plain numbers are radians.
func radians(d *node.Dimension) float64 {
	if v, ok := Convert(d.Value, d.Unit, "rad"); ok {
		return v
	}
	return d.Value
}

func trig(fn func(float64) float64) Invoke {
	return func(env *Env, args []node.Node) (node.Node, error) {
		return &node.Dimension{
			Position: env.Pos, Value: fn(radians(dimension(args, 0))),
		}, nil
	}
}

func inverseTrig(fn func(float64) float64) Invoke {
	return func(env *Env, args []node.Node) (node.Node, error) {
		return &node.Dimension{
			Position: env.Pos, Value: fn(dimension(args, 0).Value), Unit: "rad",
		}, nil
	}
}

// binary computes with the unit of the first argument, the second one is
// converted when possible.
func binary(fn func(a, b float64) float64) Invoke {
	return func(env *Env, args []node.Node) (node.Node, error) {
		a, b := dimension(args, 0), dimension(args, 1)
		v := b.Value
		if a.Unit != "" && b.Unit != "" {
			v, _ = Convert(b.Value, b.Unit, a.Unit)
		}
		unit := a.Unit
		if unit == "" {
			unit = b.Unit
		}
		return &node.Dimension{
			Position: env.Pos, Value: fn(a.Value, v), Unit: unit,
		}, nil
	}
}

// extreme picks the smallest or largest argument. Mixed incompatible units
// leave the call to the CSS min() and max() functions.
func extreme(less bool) Invoke {
	return func(env *Env, args []node.Node) (node.Node, error) {
		var best *node.Dimension
		bestValue := 0.0
		unit := ""
		for i := range args {
			d := dimension(args, i)
			if unit == "" {
				unit = d.Unit
			}
			v, ok := d.Value, true
			if d.Unit != "" {
				v, ok = Convert(d.Value, d.Unit, unit)
			}
			if !ok {
				return nil, nil
			}
			if best == nil || (less && v < bestValue) || (!less && v > bestValue) {
				best, bestValue = d, v
			}
		}
		out := *best
		out.Position = env.Pos
		return &out, nil
	}
}

func pi(env *Env, _ []node.Node) (node.Node, error) {
	return &node.Dimension{Position: env.Pos, Value: math.Pi}, nil
}

func mathFunctions() []Function {
	return []Function{
		{Name: "ceil", Signature: "n", Invoke: unary(math.Ceil)},
		{Name: "floor", Signature: "n", Invoke: unary(math.Floor)},
		{Name: "round", Signature: "n:n", Invoke: round},
		{Name: "sqrt", Signature: "n", Invoke: unary(math.Sqrt)},
		{Name: "abs", Signature: "n", Invoke: unary(math.Abs)},
		{Name: "percentage", Signature: "n", Invoke: percentage},
		{Name: "sin", Signature: "n", Invoke: trig(math.Sin)},
		{Name: "cos", Signature: "n", Invoke: trig(math.Cos)},
		{Name: "tan", Signature: "n", Invoke: trig(math.Tan)},
		{Name: "asin", Signature: "n", Invoke: inverseTrig(math.Asin)},
		{Name: "acos", Signature: "n", Invoke: inverseTrig(math.Acos)},
		{Name: "atan", Signature: "n", Invoke: inverseTrig(math.Atan)},
		{Name: "pow", Signature: "nn", Invoke: binary(math.Pow)},
		{Name: "mod", Signature: "nn", Invoke: binary(math.Mod)},
		{Name: "min", Signature: "n.", Invoke: extreme(true)},
		{Name: "max", Signature: "n.", Invoke: extreme(false)},
		{Name: "pi", Signature: "", Invoke: pi},
	}
}
