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

// Package node defines the stylesheet syntax tree. The set of node types is
// closed: every type embeds Position, which carries the unexported marker
// method, so only this package can add new kinds.
package node

//go:generate stringer -type=Kind -trimprefix=Kind

type Kind uint8

const (
	KindStylesheet Kind = iota
	KindBlock
	KindRuleset
	KindSelectors
	KindSelector
	KindTextElement
	KindAttributeElement
	KindRule
	KindProperty
	KindDefinition
	KindVariable
	KindMixin
	KindMixinParams
	KindParameter
	KindMixinCall
	KindMixinCallArgs
	KindArgument
	KindGuard
	KindCondition
	KindImport
	KindMedia
	KindFeatures
	KindFeature
	KindDirective
	KindBlockDirective
	KindDimension
	KindColor
	KindQuoted
	KindKeyword
	KindAnonymous
	KindURL
	KindUnicodeRange
	KindExpression
	KindExpressionList
	KindOperation
	KindNegation
	KindParen
	KindFunctionCall
	KindComment
)

// Position points into the source. Line and Column are one based, the zero
// value means unknown.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) Pos() Position {
	return p
}

func (p Position) IsKnown() bool {
	return p.Line > 0
}

func (Position) sealed() {}

type Node interface {
	Kind() Kind
	Pos() Position
	sealed()
}

// BlockNode is implemented by nodes owning a Block.
type BlockNode interface {
	Node
	Body() *Block
}
