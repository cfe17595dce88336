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

package node

type Stylesheet struct {
	Position
	Block *Block
}

func (*Stylesheet) Kind() Kind { return KindStylesheet }

func (s *Stylesheet) Body() *Block { return s.Block }

type Ruleset struct {
	Position
	Selectors *Selectors
	Guard     *Guard
	Block     *Block
}

func (*Ruleset) Kind() Kind { return KindRuleset }

func (r *Ruleset) Body() *Block { return r.Block }

type Selectors struct {
	Position
	Selectors []*Selector
}

func (*Selectors) Kind() Kind { return KindSelectors }

type Selector struct {
	Position
	Elements []Element
}

func (*Selector) Kind() Kind { return KindSelector }

type Combinator uint8

const (
	CombinatorNone Combinator = iota
	CombinatorDescendant
	CombinatorChild
	CombinatorAdjacent
	CombinatorSibling
	CombinatorNamespace
)

func (c Combinator) String() string {
	switch c {
	case CombinatorDescendant:
		return " "
	case CombinatorChild:
		return ">"
	case CombinatorAdjacent:
		return "+"
	case CombinatorSibling:
		return "~"
	case CombinatorNamespace:
		return "|"
	}
	return ""
}

type Element interface {
	Node
	Comb() Combinator
}

// TextElement is one simple selector component like ".btn", "#nav", "a",
// ":hover", "&" or "50%". Name may contain @{var} interpolations.
type TextElement struct {
	Position
	Combinator Combinator
	Name       string
}

func (*TextElement) Kind() Kind { return KindTextElement }

func (e *TextElement) Comb() Combinator { return e.Combinator }

// AttributeElement is [Name Op Value]. Op and Value are empty for [Name].
type AttributeElement struct {
	Position
	Combinator Combinator
	Name       string
	Op         string
	Value      Node
}

func (*AttributeElement) Kind() Kind { return KindAttributeElement }

func (e *AttributeElement) Comb() Combinator { return e.Combinator }

type Rule struct {
	Position
	Property  *Property
	Value     Node
	Important bool
}

func (*Rule) Kind() Kind { return KindRule }

type Property struct {
	Position
	Name string
}

func (*Property) Kind() Kind { return KindProperty }

// Definition binds a variable, Name excludes the leading "@".
type Definition struct {
	Position
	Name  string
	Value Node
}

func (*Definition) Kind() Kind { return KindDefinition }

// Variable references a definition by Name, excluding the leading "@".
// Indirect marks "@@name", Curly marks the "@{name}" form.
type Variable struct {
	Position
	Name     string
	Indirect bool
	Curly    bool
}

func (*Variable) Kind() Kind { return KindVariable }

type Mixin struct {
	Position
	Name   string
	Params *MixinParams
	Guard  *Guard
	Block  *Block
}

func (*Mixin) Kind() Kind { return KindMixin }

func (m *Mixin) Body() *Block { return m.Block }

type MixinParams struct {
	Position
	Params []*Parameter
	// Variadic marks a trailing anonymous "...".
	Variadic bool
}

func (*MixinParams) Kind() Kind { return KindMixinParams }

// Required is the number of parameters without default value, excluding
// variadic ones.
func (p *MixinParams) Required() int {
	n := 0
	for _, param := range p.Params {
		if !param.Variadic && (param.Name == "" || param.Value == nil) {
			n++
		}
	}
	return n
}

func (p *MixinParams) IsVariadic() bool {
	if p.Variadic {
		return true
	}
	for _, param := range p.Params {
		if param.Variadic {
			return true
		}
	}
	return false
}

// Parameter is either a named variable with an optional default Value or
// an anonymous pattern whose Value must equal the argument.
type Parameter struct {
	Position
	Name     string
	Value    Node
	Variadic bool
}

func (*Parameter) Kind() Kind { return KindParameter }

type MixinCall struct {
	Position
	Selector  *Selector
	Args      *MixinCallArgs
	Important bool
}

func (*MixinCall) Kind() Kind { return KindMixinCall }

type MixinCallArgs struct {
	Position
	Args []*Argument
	// Delim is ',' or ';'.
	Delim byte
}

func (*MixinCallArgs) Kind() Kind { return KindMixinCallArgs }

type Argument struct {
	Position
	Name  string
	Value Node
}

func (*Argument) Kind() Kind { return KindArgument }

// Guard is a disjunction of conditions: "when (a), (b)".
type Guard struct {
	Position
	Conditions []*Condition
}

func (*Guard) Kind() Kind { return KindGuard }

// Condition compares Left and Right with Op. Op "and"/"or" combine two
// nested conditions, an empty Op tests Left for truth.
type Condition struct {
	Position
	Op     string
	Left   Node
	Right  Node
	Negate bool
}

func (*Condition) Kind() Kind { return KindCondition }

type ImportOptions struct {
	Once     bool
	Multiple bool
	CSS      bool
	Less     bool
	Inline   bool
	Optional bool
}

func (o ImportOptions) Names() []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}
	add(o.Once, "once")
	add(o.Multiple, "multiple")
	add(o.CSS, "css")
	add(o.Less, "less")
	add(o.Inline, "inline")
	add(o.Optional, "optional")
	return out
}

type Import struct {
	Position
	Path     Node
	Features *Features
	Options  ImportOptions
}

func (*Import) Kind() Kind { return KindImport }

type Media struct {
	Position
	Features *Features
	Block    *Block
}

func (*Media) Kind() Kind { return KindMedia }

func (m *Media) Body() *Block { return m.Block }

// Features is a comma separated list of media queries.
type Features struct {
	Position
	Features []Node
}

func (*Features) Kind() Kind { return KindFeatures }

// Feature is a parenthesized "(name: value)" media feature.
type Feature struct {
	Position
	Property *Property
	Value    Node
}

func (*Feature) Kind() Kind { return KindFeature }

// Directive is an at-rule without block, Name includes the "@".
type Directive struct {
	Position
	Name  string
	Value Node
}

func (*Directive) Kind() Kind { return KindDirective }

type BlockDirective struct {
	Position
	Name    string
	Prelude Node
	Block   *Block
}

func (*BlockDirective) Kind() Kind { return KindBlockDirective }

func (d *BlockDirective) Body() *Block { return d.Block }

type Dimension struct {
	Position
	Value float64
	Unit  string
}

func (*Dimension) Kind() Kind { return KindDimension }

// Color channels are in [0, 255], alpha in [0, 1]. Token keeps the source
// spelling of an unmodified color.
type Color struct {
	Position
	R, G, B float64
	A       float64
	Token   string
}

func (*Color) Kind() Kind { return KindColor }

type Quoted struct {
	Position
	Delim   byte
	Escaped bool
	Value   string
}

func (*Quoted) Kind() Kind { return KindQuoted }

type Keyword struct {
	Position
	Value string
}

func (*Keyword) Kind() Kind { return KindKeyword }

// Anonymous is raw text that is passed through verbatim.
type Anonymous struct {
	Position
	Value string
}

func (*Anonymous) Kind() Kind { return KindAnonymous }

type URL struct {
	Position
	Value Node
}

func (*URL) Kind() Kind { return KindURL }

type UnicodeRange struct {
	Position
	Value string
}

func (*UnicodeRange) Kind() Kind { return KindUnicodeRange }

// Expression is a space separated list of values.
type Expression struct {
	Position
	Values []Node
}

func (*Expression) Kind() Kind { return KindExpression }

// ExpressionList is a comma separated list of values.
type ExpressionList struct {
	Position
	Values []Node
}

func (*ExpressionList) Kind() Kind { return KindExpressionList }

type Operation struct {
	Position
	Op    byte
	Left  Node
	Right Node
}

func (*Operation) Kind() Kind { return KindOperation }

type Negation struct {
	Position
	Value Node
}

func (*Negation) Kind() Kind { return KindNegation }

type Paren struct {
	Position
	Value Node
}

func (*Paren) Kind() Kind { return KindParen }

type FunctionCall struct {
	Position
	Name string
	Args []Node
}

func (*FunctionCall) Kind() Kind { return KindFunctionCall }

type Comment struct {
	Position
	Body  string
	Block bool
}

func (*Comment) Kind() Kind { return KindComment }
