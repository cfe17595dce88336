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

package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
)

var ignorePositions = cmp.Options{
	cmpopts.IgnoreTypes(node.Position{}),
	cmpopts.IgnoreUnexported(node.Block{}),
}

func dim(v float64, unit string) *node.Dimension {
	return &node.Dimension{Value: v, Unit: unit}
}

func kw(v string) *node.Keyword {
	return &node.Keyword{Value: v}
}

func variable(name string) *node.Variable {
	return &node.Variable{Name: name}
}

func sel(elements ...node.Element) *node.Selector {
	return &node.Selector{Elements: elements}
}

func text(c node.Combinator, name string) *node.TextElement {
	return &node.TextElement{Combinator: c, Name: name}
}

func ruleset(s *node.Selector, rules ...node.Node) *node.Ruleset {
	return &node.Ruleset{
		Selectors: &node.Selectors{Selectors: []*node.Selector{s}},
		Block:     node.NewBlock(node.Position{}, rules...),
	}
}

func rule(name string, v node.Node) *node.Rule {
	return &node.Rule{Property: &node.Property{Name: name}, Value: v}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []node.Node
	}{
		{
			name: "variable and ruleset",
			in:   "@a: 1; .rule { prop: @a; }",
			want: []node.Node{
				&node.Definition{Name: "a", Value: dim(1, "")},
				ruleset(sel(text(node.CombinatorNone, ".rule")),
					rule("prop", variable("a")),
				),
			},
		},
		{
			name: "mixin definition and call",
			in:   ".m(@arg){ a: @arg + 1; } .rule { .m(10); }",
			want: []node.Node{
				&node.Mixin{
					Name: ".m",
					Params: &node.MixinParams{Params: []*node.Parameter{
						{Name: "arg"},
					}},
					Block: node.NewBlock(node.Position{},
						rule("a", &node.Operation{
							Op: '+', Left: variable("arg"), Right: dim(1, ""),
						}),
					),
				},
				ruleset(sel(text(node.CombinatorNone, ".rule")),
					&node.MixinCall{
						Selector: sel(text(node.CombinatorNone, ".m")),
						Args: &node.MixinCallArgs{Delim: ',', Args: []*node.Argument{
							{Value: dim(10, "")},
						}},
					},
				),
			},
		},
		{
			name: "signed numbers",
			in:   "a { b: 1 -2; c: 1 - 2; d: 1-2; e: -@x; f: -webkit-box; }",
			want: []node.Node{
				ruleset(sel(text(node.CombinatorNone, "a")),
					rule("b", &node.Expression{Values: []node.Node{
						dim(1, ""), dim(-2, ""),
					}}),
					rule("c", &node.Operation{Op: '-', Left: dim(1, ""), Right: dim(2, "")}),
					rule("d", &node.Operation{Op: '-', Left: dim(1, ""), Right: dim(2, "")}),
					rule("e", &node.Negation{Value: variable("x")}),
					rule("f", kw("-webkit-box")),
				),
			},
		},
		{
			name: "precedence",
			in:   "a { b: 1 + 2 * 3; c: (1 + 2) * 3; }",
			want: []node.Node{
				ruleset(sel(text(node.CombinatorNone, "a")),
					rule("b", &node.Operation{
						Op:   '+',
						Left: dim(1, ""),
						Right: &node.Operation{
							Op: '*', Left: dim(2, ""), Right: dim(3, ""),
						},
					}),
					rule("c", &node.Operation{
						Op: '*',
						Left: &node.Paren{Value: &node.Operation{
							Op: '+', Left: dim(1, ""), Right: dim(2, ""),
						}},
						Right: dim(3, ""),
					}),
				),
			},
		},
		{
			name: "namespace with whitespace",
			in:   "ns | g, a |b { }",
			want: []node.Node{
				&node.Ruleset{
					Selectors: &node.Selectors{Selectors: []*node.Selector{
						sel(
							text(node.CombinatorNone, "ns"),
							text(node.CombinatorNamespace, "g"),
						),
						sel(
							text(node.CombinatorNone, "a"),
							text(node.CombinatorNamespace, "b"),
						),
					}},
					Block: node.NewBlock(node.Position{}),
				},
			},
		},
		{
			name: "combinators",
			in:   ".a > .b + .c ~ .d .e, ns|f { }",
			want: []node.Node{
				&node.Ruleset{
					Selectors: &node.Selectors{Selectors: []*node.Selector{
						sel(
							text(node.CombinatorNone, ".a"),
							text(node.CombinatorChild, ".b"),
							text(node.CombinatorAdjacent, ".c"),
							text(node.CombinatorSibling, ".d"),
							text(node.CombinatorDescendant, ".e"),
						),
						sel(
							text(node.CombinatorNone, "ns"),
							text(node.CombinatorNamespace, "f"),
						),
					}},
					Block: node.NewBlock(node.Position{}),
				},
			},
		},
		{
			name: "interpolation in selectors",
			in:   ".col-@{i}[data-@{name}=\"x\"]:hover { }",
			want: []node.Node{
				ruleset(sel(
					text(node.CombinatorNone, ".col-@{i}"),
					&node.AttributeElement{
						Name:  "data-@{name}",
						Op:    "=",
						Value: &node.Quoted{Delim: '"', Value: "x"},
					},
					text(node.CombinatorNone, ":hover"),
				)),
			},
		},
		{
			name: "guards",
			in:   ".m(@a) when (@a > 1) and not (@a = 3), (default()) { }",
			want: []node.Node{
				&node.Mixin{
					Name: ".m",
					Params: &node.MixinParams{Params: []*node.Parameter{
						{Name: "a"},
					}},
					Guard: &node.Guard{Conditions: []*node.Condition{
						{
							Op: "and",
							Left: &node.Condition{
								Op: ">", Left: variable("a"), Right: dim(1, ""),
							},
							Right: &node.Condition{
								Op: "=", Left: variable("a"), Right: dim(3, ""),
								Negate: true,
							},
						},
						{Left: &node.FunctionCall{Name: "default"}},
					}},
					Block: node.NewBlock(node.Position{}),
				},
			},
		},
		{
			name: "semicolon arguments",
			in:   ".m(@a: 1, 2; @rest...) { } .x { .m(1, 2; 3) !important; }",
			want: []node.Node{
				&node.Mixin{
					Name: ".m",
					Params: &node.MixinParams{Params: []*node.Parameter{
						{Name: "a", Value: &node.ExpressionList{Values: []node.Node{
							dim(1, ""), dim(2, ""),
						}}},
						{Name: "rest", Variadic: true},
					}},
					Block: node.NewBlock(node.Position{}),
				},
				ruleset(sel(text(node.CombinatorNone, ".x")),
					&node.MixinCall{
						Selector: sel(text(node.CombinatorNone, ".m")),
						Args: &node.MixinCallArgs{Delim: ';', Args: []*node.Argument{
							{Value: &node.ExpressionList{Values: []node.Node{
								dim(1, ""), dim(2, ""),
							}}},
							{Value: dim(3, "")},
						}},
						Important: true,
					},
				),
			},
		},
		{
			name: "import and media",
			in:   "@import (once, css) 'a.css' screen; @media screen and (min-width: 768px) { a { b: c } }",
			want: []node.Node{
				&node.Import{
					Path: &node.Quoted{Delim: '\'', Value: "a.css"},
					Features: &node.Features{Features: []node.Node{
						kw("screen"),
					}},
					Options: node.ImportOptions{Once: true, CSS: true},
				},
				&node.Media{
					Features: &node.Features{Features: []node.Node{
						&node.Expression{Values: []node.Node{
							kw("screen"),
							kw("and"),
							&node.Feature{
								Property: &node.Property{Name: "min-width"},
								Value:    dim(768, "px"),
							},
						}},
					}},
					Block: node.NewBlock(node.Position{},
						ruleset(sel(text(node.CombinatorNone, "a")),
							rule("b", kw("c")),
						),
					),
				},
			},
		},
		{
			name: "supports",
			in:   "@supports not (display: grid) { a { b: c } }",
			want: []node.Node{
				&node.BlockDirective{
					Name: "@supports",
					Prelude: &node.Features{Features: []node.Node{
						&node.Expression{Values: []node.Node{
							kw("not"),
							&node.Feature{
								Property: &node.Property{Name: "display"},
								Value:    kw("grid"),
							},
						}},
					}},
					Block: node.NewBlock(node.Position{},
						ruleset(sel(text(node.CombinatorNone, "a")), rule("b", kw("c"))),
					),
				},
			},
		},
		{
			name: "directives",
			in:   "@charset \"utf-8\"; @font-face { font-family: x; } @keyframes fade { from { a: b } 50% { a: c } }",
			want: []node.Node{
				&node.Directive{Name: "@charset", Value: &node.Quoted{Delim: '"', Value: "utf-8"}},
				&node.BlockDirective{
					Name:  "@font-face",
					Block: node.NewBlock(node.Position{}, rule("font-family", kw("x"))),
				},
				&node.BlockDirective{
					Name:    "@keyframes",
					Prelude: kw("fade"),
					Block: node.NewBlock(node.Position{},
						ruleset(sel(text(node.CombinatorNone, "from")), rule("a", kw("b"))),
						ruleset(sel(text(node.CombinatorNone, "50%")), rule("a", kw("c"))),
					),
				},
			},
		},
		{
			name: "values",
			in:   "a { b: url(x.png) #fff ~\"raw\" U+0025-00FF; c: fn(1, 2px) !important; d: alpha(opacity=50); e: 12px/1.5 'x'; }",
			want: []node.Node{
				ruleset(sel(text(node.CombinatorNone, "a")),
					rule("b", &node.Expression{Values: []node.Node{
						&node.URL{Value: &node.Anonymous{Value: "x.png"}},
						&node.Color{R: 255, G: 255, B: 255, A: 1, Token: "#fff"},
						&node.Quoted{Delim: '"', Escaped: true, Value: "raw"},
						&node.UnicodeRange{Value: "U+0025-00FF"},
					}}),
					&node.Rule{
						Property: &node.Property{Name: "c"},
						Value: &node.FunctionCall{Name: "fn", Args: []node.Node{
							dim(1, ""), dim(2, "px"),
						}},
						Important: true,
					},
					rule("d", &node.FunctionCall{Name: "alpha", Args: []node.Node{
						&node.Anonymous{Value: "opacity=50"},
					}}),
					rule("e", &node.Expression{Values: []node.Node{
						&node.Operation{Op: '/', Left: dim(12, "px"), Right: dim(1.5, "")},
						&node.Quoted{Delim: '\'', Value: "x"},
					}}),
				),
			},
		},
		{
			name: "comments",
			in:   "/* keep */\n// drop\na { /* inner */ b: c /* value */; }",
			want: []node.Node{
				&node.Comment{Body: " keep ", Block: true},
				ruleset(sel(text(node.CombinatorNone, "a")),
					&node.Comment{Body: " inner ", Block: true},
					rule("b", kw("c")),
				),
			},
		},
		{
			name: "fallback value",
			in:   "a { filter: progid:DXImageTransform.Microsoft.gradient(enabled=false); }",
			want: []node.Node{
				ruleset(sel(text(node.CombinatorNone, "a")),
					rule("filter", &node.Anonymous{
						Value: "progid:DXImageTransform.Microsoft.gradient(enabled=false)",
					}),
				),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in, "test.less")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got.Block.Rules, ignorePositions); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want diagnostics.Type
	}{
		{name: "stray brace", in: ".a { b: c; } }", want: diagnostics.IncompleteParse},
		{name: "unclosed block", in: ".a { b: c;", want: diagnostics.UnexpectedEOF},
		{name: "unclosed string", in: ".a { b: \"c", want: diagnostics.UnexpectedEOF},
		{name: "unclosed comment", in: ".a { } /* open", want: diagnostics.UnexpectedEOF},
		{name: "bad unit", in: ".a { width: 5px2; }", want: diagnostics.InvalidUnit},
		{name: "bad escape", in: ".a { content: \"abc\\", want: diagnostics.InvalidEscape},
		{name: "mixed delimiters", in: ".m(@a, @b; @c) { }", want: diagnostics.MixedDelimiters},
		{name: "unexpected token", in: ".a { b: c; ) }", want: diagnostics.ExpectedMismatch},
		{name: "bad import option", in: "@import (bogus) 'a';", want: diagnostics.ExpectedMismatch},
		{name: "detached ruleset", in: "@r: { a: b; };", want: diagnostics.ExpectedMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in, "test.less")
			if err == nil {
				t.Fatalf("Parse() error = nil, want %s", tt.want)
			}
			if !diagnostics.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse(".a {\n  b: c;\n  width: 5px2;\n}", "x.less")
	var e *diagnostics.Error
	if !diagnostics.Is(err, diagnostics.InvalidUnit) {
		t.Fatalf("Parse() error = %v", err)
	}
	e = err.(*diagnostics.Error)
	want := node.Position{File: "x.less", Line: 3, Column: 11}
	if e.Pos != want {
		t.Errorf("Pos = %+v, want %+v", e.Pos, want)
	}
	if got := e.Param("unit"); got != `"px2"` {
		t.Errorf("unit = %s", got)
	}
}

func TestParsePositions(t *testing.T) {
	s, err := Parse("@a: 1;\n.b {\n  c: d;\n}", "p.less")
	if err != nil {
		t.Fatal(err)
	}
	rs := s.Block.At(1).(*node.Ruleset)
	if got := rs.Pos(); got != (node.Position{File: "p.less", Line: 2, Column: 1}) {
		t.Errorf("ruleset position = %+v", got)
	}
	r := rs.Block.At(0).(*node.Rule)
	if got := r.Pos(); got != (node.Position{File: "p.less", Line: 3, Column: 3}) {
		t.Errorf("rule position = %+v", got)
	}
}

func TestParseValue(t *testing.T) {
	got, err := ParseValue(" 1px solid red ", "")
	if err != nil {
		t.Fatal(err)
	}
	want := &node.Expression{Values: []node.Node{dim(1, "px"), kw("solid"), kw("red")}}
	if diff := cmp.Diff(want, got, ignorePositions); diff != "" {
		t.Errorf("ParseValue() mismatch (-want +got):\n%s", diff)
	}
	if _, err = ParseValue("1px )", ""); !diagnostics.Is(err, diagnostics.IncompleteParse) {
		t.Errorf("ParseValue() error = %v", err)
	}
}
