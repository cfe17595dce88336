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

package recognizer

func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func IsAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func IsHex(c byte) bool {
	return IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func IsWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// IsIdentStart accepts the first byte of an identifier after an optional
// leading dash. Bytes >= 0x80 belong to multi byte runes, which are valid
// identifier characters in CSS.
func IsIdentStart(c byte) bool {
	return IsAlpha(c) || c == '_' || c == '-' || c >= 0x80
}

func IsIdentChar(c byte) bool {
	return IsIdentStart(c) || IsDigit(c)
}

var (
	escape = Sequence(Char('\\'), Any())

	Whitespace = OneOrMore(Class(IsWhitespace))

	Digits = OneOrMore(Class(IsDigit))

	exponent = Sequence(CharSet("eE"), ZeroOrOne(CharSet("+-")), Digits)

	Identifier = Sequence(
		ZeroOrOne(Char('-')),
		Choice(Class(IsIdentStart), escape),
		ZeroOrMore(Choice(Class(IsIdentChar), escape)),
	)

	// Number matches an unsigned decimal, the sign is handled by callers
	// since it depends on surrounding whitespace.
	Number = Sequence(
		Choice(
			Sequence(Digits, ZeroOrOne(Sequence(Char('.'), Digits))),
			Sequence(Char('.'), Digits),
		),
		ZeroOrOne(exponent),
	)

	Unit = Choice(
		Char('%'),
		OneOrMore(Class(IsAlpha)),
	)

	HexColor = Sequence(Char('#'), OneOrMore(Class(IsHex)))

	UnicodeRange = Sequence(
		LiteralFold("U+"),
		OneOrMore(Choice(Class(IsHex), Char('?'))),
		ZeroOrOne(Sequence(Char('-'), OneOrMore(Class(IsHex)))),
	)

	PropertyName = Sequence(
		ZeroOrOne(Char('*')),
		Identifier,
	)

	// VariableName matches @name without the interpolation form @{name}.
	VariableName = Sequence(Char('@'), Identifier)

	// VariableVariable matches @@name.
	VariableVariable = Sequence(Char('@'), Char('@'), Identifier)

	Interpolation = Sequence(Literal("@{"), Identifier, Char('}'))

	Important = Sequence(
		Char('!'),
		ZeroOrMore(Class(IsWhitespace)),
		LiteralFold("important"),
	)

	// SelectorPart matches the run of characters that make up one simple
	// selector component name, e.g. the "btn" of ".btn".
	SelectorPart = OneOrMore(Choice(Class(IsIdentChar), escape))

	URLStart = LiteralFold("url(")

	WordBoundary = NotLookahead(Class(IsIdentChar))
)
