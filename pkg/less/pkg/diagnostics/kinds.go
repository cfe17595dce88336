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

type Family uint8

const (
	Syntax Family = iota
	Execution
)

func (f Family) String() string {
	if f == Syntax {
		return "SyntaxError"
	}
	return "ExecutionError"
}

type Type uint8

const (
	ExpectedMismatch Type = iota
	IncompleteParse
	MixedDelimiters
	InvalidEscape
	InvalidUnit
	UnexpectedEOF

	ArgCount
	ArgType
	MixinUndefined
	MixinRecurse
	ImportRecurse
	VarUndefined
	VarCircularReference
	IncompatibleUnits
	InvalidOperation
	ImportError
	UnknownUnit
	FunctionCallError
	BadColor
)

type kindInfo struct {
	name     string
	family   Family
	template string
}

var kinds = [...]kindInfo{
	ExpectedMismatch: {
		"ExpectedMismatch", Syntax,
		"expected %(expected)s, found %(found)s",
	},
	IncompleteParse: {
		"IncompleteParse", Syntax,
		"unable to parse remainder %(remainder)s",
	},
	MixedDelimiters: {
		"MixedDelimiters", Syntax,
		"mixed ',' and ';' delimiters in %(where)s",
	},
	InvalidEscape: {
		"InvalidEscape", Syntax,
		"invalid escape sequence %(escape)s",
	},
	InvalidUnit: {
		"InvalidUnit", Syntax,
		"invalid unit %(unit)s",
	},
	UnexpectedEOF: {
		"UnexpectedEOF", Syntax,
		"unexpected end of input, expected %(expected)s",
	},
	ArgCount: {
		"ArgCount", Execution,
		"%(name)s() takes %(expected)s arguments, got %(got)s",
	},
	ArgType: {
		"ArgType", Execution,
		"%(name)s() argument %(index)s must be %(expected)s, got %(got)s",
	},
	MixinUndefined: {
		"MixinUndefined", Execution,
		"no mixin or ruleset matching %(selector)s%(detail)s",
	},
	MixinRecurse: {
		"MixinRecurse", Execution,
		"mixin %(selector)s exceeded the recursion limit of %(limit)s",
	},
	ImportRecurse: {
		"ImportRecurse", Execution,
		"import of %(path)s %(reason)s",
	},
	VarUndefined: {
		"VarUndefined", Execution,
		"variable %(name)s is undefined%(detail)s",
	},
	VarCircularReference: {
		"VarCircularReference", Execution,
		"variable %(name)s references itself",
	},
	IncompatibleUnits: {
		"IncompatibleUnits", Execution,
		"incompatible units %(left)s and %(right)s",
	},
	InvalidOperation: {
		"InvalidOperation", Execution,
		"cannot apply %(op)s to %(left)s and %(right)s",
	},
	ImportError: {
		"ImportError", Execution,
		"cannot import %(path)s: %(reason)s",
	},
	UnknownUnit: {
		"UnknownUnit", Execution,
		"unknown unit %(unit)s",
	},
	FunctionCallError: {
		"FunctionCallError", Execution,
		"error evaluating %(name)s(): %(reason)s",
	},
	BadColor: {
		"BadColor", Execution,
		"%(value)s is not a color",
	},
}

func (t Type) String() string {
	if int(t) < len(kinds) {
		return kinds[t].name
	}
	return "Unknown"
}

func (t Type) Family() Family {
	if int(t) < len(kinds) {
		return kinds[t].family
	}
	return Execution
}

func (t Type) Template() string {
	if int(t) < len(kinds) {
		return kinds[t].template
	}
	return ""
}
