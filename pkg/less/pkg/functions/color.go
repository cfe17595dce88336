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

	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

// hsla has hue in degrees, saturation, lightness and alpha in [0, 1].
type hsla struct {
	hue        float64
	saturation float64
	lightness  float64
	alpha      float64
}

func toHSLA(c *node.Color) hsla {
	r := c.R / 255
	g := c.G / 255
	b := c.B / 255
	lower := min(r, g, b)
	upper := max(r, g, b)
	d := upper - lower
	l := (lower + upper) / 2
	h := hsla{alpha: c.A, lightness: l}
	if d != 0 {
		switch upper {
		case r:
			h.hue = 60 * (g - b) / d
		case g:
			h.hue = 60*(b-r)/d + 120
		case b:
			h.hue = 60*(r-g)/d + 240
		}
		h.hue = math.Mod(h.hue+360, 360)
		h.saturation = d / (1 - math.Abs(2*l-1))
	}
	return h
}

func (s hsla) toColor(pos node.Position) *node.Color {
	c := (1 - math.Abs(2*s.lightness-1)) * s.saturation
	h := math.Mod(math.Mod(s.hue, 360)+360, 360) / 60
	x := c * (1 - math.Abs(math.Mod(h, 2)-1))
	var r, g, b float64
	switch {
	case h < 1:
		r, g, b = c, x, 0
	case h < 2:
		r, g, b = x, c, 0
	case h < 3:
		r, g, b = 0, c, x
	case h < 4:
		r, g, b = 0, x, c
	case h < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := s.lightness - c/2
	out := node.NewColor(255*(r+m), 255*(g+m), 255*(b+m), s.alpha)
	out.Position = pos
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// fraction reads percentages as hundredths and other numbers as is.
func fraction(n node.Node) float64 {
	d := n.(*node.Dimension)
	if d.Unit == "%" {
		return d.Value / 100
	}
	return d.Value
}

func channel(n node.Node) float64 {
	d := n.(*node.Dimension)
	if d.Unit == "%" {
		return d.Value * 255 / 100
	}
	return d.Value
}

func mixColor(pos node.Position, c1, c2 *node.Color, p float64) *node.Color {
	w := p*2 - 1
	a := c1.A - c2.A
	w1 := w
	if w*a != -1 {
		w1 = (w + a) / (1 + w*a)
	}
	w1 = (w1 + 1) / 2
	w2 := 1 - w1
	out := node.NewColor(
		c1.R*w1+c2.R*w2,
		c1.G*w1+c2.G*w2,
		c1.B*w1+c2.B*w2,
		c1.A*p+c2.A*(1-p),
	)
	out.Position = pos
	return out
}

func percent(v float64) *node.Dimension {
	return &node.Dimension{Value: v * 100, Unit: "%"}
}

func number(v float64, unit string) *node.Dimension {
	return &node.Dimension{Value: v, Unit: unit}
}

func rgb(env *Env, args []node.Node) (node.Node, error) {
	a := 1.0
	if len(args) == 4 {
		a = clamp01(fraction(args[3]))
	}
	c := node.NewColor(channel(args[0]), channel(args[1]), channel(args[2]), a)
	c.Position = env.Pos
	return c, nil
}

func hsl(env *Env, args []node.Node) (node.Node, error) {
	h := hsla{
		hue:        args[0].(*node.Dimension).Value,
		saturation: clamp01(fraction(args[1])),
		lightness:  clamp01(fraction(args[2])),
		alpha:      1,
	}
	if len(args) == 4 {
		h.alpha = clamp01(fraction(args[3]))
	}
	return h.toColor(env.Pos), nil
}

// adjust builds a function that shifts one HSL property by the amount
// given as second argument.
func adjust(fn func(h *hsla, amount float64)) Invoke {
	return func(env *Env, args []node.Node) (node.Node, error) {
		h := toHSLA(args[0].(*node.Color))
		amount := 0.0
		if len(args) > 1 {
			amount = fraction(args[1])
		}
		fn(&h, amount)
		return h.toColor(env.Pos), nil
	}
}

func spin(env *Env, args []node.Node) (node.Node, error) {
	h := toHSLA(args[0].(*node.Color))
	h.hue = math.Mod(h.hue+args[1].(*node.Dimension).Value, 360)
	if h.hue < 0 {
		h.hue += 360
	}
	return h.toColor(env.Pos), nil
}

func alphaSetter(fn func(a, amount float64) float64) Invoke {
	return func(env *Env, args []node.Node) (node.Node, error) {
		c := *args[0].(*node.Color)
		c.Token = ""
		c.Position = env.Pos
		c.A = clamp01(fn(c.A, fraction(args[1])))
		return &c, nil
	}
}

func mix(env *Env, args []node.Node) (node.Node, error) {
	p := 0.5
	if len(args) == 3 {
		p = clamp01(fraction(args[2]))
	}
	return mixColor(env.Pos, args[0].(*node.Color), args[1].(*node.Color), p), nil
}

func mixWith(r, g, b float64) Invoke {
	return func(env *Env, args []node.Node) (node.Node, error) {
		p := 0.5
		if len(args) == 2 {
			p = clamp01(fraction(args[1]))
		}
		base := node.NewColor(r, g, b, 1)
		return mixColor(env.Pos, base, args[0].(*node.Color), p), nil
	}
}

func component(fn func(c *node.Color) *node.Dimension) Invoke {
	return func(env *Env, args []node.Node) (node.Node, error) {
		d := fn(args[0].(*node.Color))
		d.Position = env.Pos
		return d, nil
	}
}

// alpha is also an IE filter, "alpha(opacity=50)" stays as is.
func alpha(env *Env, args []node.Node) (node.Node, error) {
	c, ok := args[0].(*node.Color)
	if !ok {
		if k, isKeyword := args[0].(*node.Keyword); isKeyword {
			if c, ok = node.ColorFromKeyword(k.Value); !ok {
				return nil, diagnostics.New(
					diagnostics.BadColor, env.Pos, "value", k.Value,
				)
			}
		} else {
			return nil, nil
		}
	}
	return &node.Dimension{Position: env.Pos, Value: c.A}, nil
}

func colorFunctions() []Function {
	return []Function{
		{Name: "rgb", Signature: "nnn", Invoke: rgb},
		{Name: "rgba", Signature: "nnnn", Invoke: rgb},
		{Name: "hsl", Signature: "nnn", Invoke: hsl},
		{Name: "hsla", Signature: "nnnn", Invoke: hsl},
		{Name: "lighten", Signature: "cn", Invoke: adjust(func(h *hsla, v float64) {
			h.lightness = clamp01(h.lightness + v)
		})},
		{Name: "darken", Signature: "cn", Invoke: adjust(func(h *hsla, v float64) {
			h.lightness = clamp01(h.lightness - v)
		})},
		{Name: "saturate", Signature: "cn", Invoke: adjust(func(h *hsla, v float64) {
			h.saturation = clamp01(h.saturation + v)
		})},
		{Name: "desaturate", Signature: "cn", Invoke: adjust(func(h *hsla, v float64) {
			h.saturation = clamp01(h.saturation - v)
		})},
		{Name: "greyscale", Signature: "c", Invoke: adjust(func(h *hsla, _ float64) {
			h.saturation = 0
		})},
		{Name: "spin", Signature: "cn", Invoke: spin},
		{Name: "fade", Signature: "cn", Invoke: alphaSetter(func(_, v float64) float64 {
			return v
		})},
		{Name: "fadein", Signature: "cn", Invoke: alphaSetter(func(a, v float64) float64 {
			return a + v
		})},
		{Name: "fadeout", Signature: "cn", Invoke: alphaSetter(func(a, v float64) float64 {
			return a - v
		})},
		{Name: "mix", Signature: "cc:n", Invoke: mix},
		{Name: "tint", Signature: "c:n", Invoke: mixWith(255, 255, 255)},
		{Name: "shade", Signature: "c:n", Invoke: mixWith(0, 0, 0)},
		{Name: "hue", Signature: "c", Invoke: component(func(c *node.Color) *node.Dimension {
			return number(math.Round(toHSLA(c).hue), "")
		})},
		{Name: "saturation", Signature: "c", Invoke: component(func(c *node.Color) *node.Dimension {
			return percent(toHSLA(c).saturation)
		})},
		{Name: "lightness", Signature: "c", Invoke: component(func(c *node.Color) *node.Dimension {
			return percent(toHSLA(c).lightness)
		})},
		{Name: "red", Signature: "c", Invoke: component(func(c *node.Color) *node.Dimension {
			return number(c.R, "")
		})},
		{Name: "green", Signature: "c", Invoke: component(func(c *node.Color) *node.Dimension {
			return number(c.G, "")
		})},
		{Name: "blue", Signature: "c", Invoke: component(func(c *node.Color) *node.Dimension {
			return number(c.B, "")
		})},
		{Name: "alpha", Signature: "*", Invoke: alpha},
	}
}
