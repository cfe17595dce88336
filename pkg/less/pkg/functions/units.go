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
	"strings"

	"github.com/das7pad/less-go/pkg/errors"
	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

type unitInfo struct {
	group string
	// factor converts into the base unit of the group.
	factor float64
}

var units = map[string]unitInfo{
	"m":    {"length", 1},
	"cm":   {"length", 0.01},
	"mm":   {"length", 0.001},
	"q":    {"length", 0.00025},
	"in":   {"length", 0.0254},
	"px":   {"length", 0.0254 / 96},
	"pt":   {"length", 0.0254 / 72},
	"pc":   {"length", 0.0254 / 72 * 12},
	"s":    {"duration", 1},
	"ms":   {"duration", 0.001},
	"rad":  {"angle", 1 / (2 * math.Pi)},
	"deg":  {"angle", 1.0 / 360},
	"grad": {"angle", 1.0 / 400},
	"turn": {"angle", 1},
	"hz":   {"frequency", 1},
	"khz":  {"frequency", 1000},
	"dpi":  {"resolution", 1},
	"dpcm": {"resolution", 2.54},
	"dppx": {"resolution", 96},
	"x":    {"resolution", 96},
}

// relative units are valid but never convert.
var relativeUnits = map[string]bool{
	"%": true, "em": true, "rem": true, "ex": true, "ch": true,
	"vw": true, "vh": true, "vmin": true, "vmax": true, "fr": true,
	"lh": true, "rlh": true, "cap": true, "ic": true,
	"cqw": true, "cqh": true, "cqi": true, "cqb": true,
	"cqmin": true, "cqmax": true,
	"svw": true, "svh": true, "lvw": true, "lvh": true,
	"dvw": true, "dvh": true,
}

// KnownUnit reports whether u is a CSS unit. The empty unit is known.
func KnownUnit(u string) bool {
	if u == "" {
		return true
	}
	u = strings.ToLower(u)
	_, ok := units[u]
	return ok || relativeUnits[u]
}

// UnitGroup returns "length", "angle", "duration", "frequency" or
// "resolution" for convertible units and "" otherwise.
func UnitGroup(u string) string {
	return units[strings.ToLower(u)].group
}

// Convert converts v from one unit into another of the same group.
func Convert(v float64, from, to string) (float64, bool) {
	if strings.EqualFold(from, to) {
		return v, true
	}
	a, ok := units[strings.ToLower(from)]
	if !ok {
		return v, false
	}
	b, ok := units[strings.ToLower(to)]
	if !ok || a.group != b.group {
		return v, false
	}
	return v * a.factor / b.factor, true
}

// unitName reads a unit given as keyword or string argument.
func unitName(n node.Node) (string, error) {
	switch v := n.(type) {
	case *node.Keyword:
		return v.Value, nil
	case *node.Quoted:
		return v.Value, nil
	}
	return "", errors.New("expected a unit, got " + n.Kind().String())
}

func unit(env *Env, args []node.Node) (node.Node, error) {
	d := *args[0].(*node.Dimension)
	d.Position = env.Pos
	d.Unit = ""
	if len(args) == 2 {
		u, err := unitName(args[1])
		if err != nil {
			return nil, err
		}
		d.Unit = u
	}
	return &d, nil
}

func getUnit(env *Env, args []node.Node) (node.Node, error) {
	return &node.Anonymous{
		Position: env.Pos,
		Value:    args[0].(*node.Dimension).Unit,
	}, nil
}

func convert(env *Env, args []node.Node) (node.Node, error) {
	d := *args[0].(*node.Dimension)
	d.Position = env.Pos
	to, err := unitName(args[1])
	if err != nil {
		return nil, err
	}
	if !KnownUnit(to) {
		return nil, diagnostics.New(diagnostics.UnknownUnit, env.Pos, "unit", to)
	}
	if v, ok := Convert(d.Value, d.Unit, to); ok {
		d.Value = v
		d.Unit = to
	}
	return &d, nil
}

func unitFunctions() []Function {
	return []Function{
		{Name: "unit", Signature: "d:*", Invoke: unit},
		{Name: "get-unit", Signature: "d", Invoke: getUnit},
		{Name: "convert", Signature: "d*", Invoke: convert},
	}
}
