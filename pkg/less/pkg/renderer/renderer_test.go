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

package renderer

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/parser"
	"github.com/das7pad/less-go/pkg/less/pkg/vlq"
)

var ignorePositions = cmp.Options{
	cmpopts.IgnoreTypes(node.Position{}),
	cmpopts.IgnoreUnexported(node.Block{}),
}

func TestRenderRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{
			name: "variables",
			in:   "@a: 1; .b { c: @a; d: @@e; }",
		},
		{
			name: "mixins",
			in:   ".m(@a; @b: 2) when (iscolor(@a)) { c: @a @b; } .x { .m(#fff; 3) !important; }",
		},
		{
			name: "semicolon arguments",
			in:   ".m(@a: 1, 2; @rest...) { } .x { .m(1, 2; 3) !important; }",
		},
		{
			name: "signed numbers",
			in:   "a { b: 1 -2; c: 1 - 2; d: 1-2; e: -@x; f: -webkit-box; }",
		},
		{
			name: "precedence",
			in:   "a { b: 1 + 2 * 3; c: (1 + 2) * 3; }",
		},
		{
			name: "combinators",
			in:   ".a > .b + .c ~ .d .e, ns|f { }",
		},
		{
			name: "namespace with whitespace",
			in:   "ns | f { }",
		},
		{
			name: "interpolation",
			in:   `.col-@{i}[data-@{name}="x"]:hover { }`,
		},
		{
			name: "guards",
			in:   ".m(@a) when (@a > 1) and not (@a = 3), (default()) { }",
		},
		{
			name: "nested guards",
			in:   ".g when not ((@a) and (@b)), ((@c) or (@d)) and (@e) { }",
		},
		{
			name: "import and media",
			in:   "@import (once, css) 'a.css' screen; @media screen and (min-width: 768px) { a { b: c } }",
		},
		{
			name: "directives",
			in:   `@charset "utf-8"; @font-face { font-family: x; } @keyframes fade { from { a: b } 50% { a: c } }`,
		},
		{
			name: "values",
			in:   `a { b: url(x.png) #fff ~"raw" U+0025-00FF; c: fn(1, 2px) !important; d: alpha(opacity=50); e: 12px/1.5 'x'; }`,
		},
		{
			name: "comments",
			in:   "/* keep */\n// drop\na { /* inner */ b: c /* value */; }",
		},
		{
			name: "fallback value",
			in:   "a { filter: progid:DXImageTransform.Microsoft.gradient(enabled=false); }",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := parser.Parse(tt.in, "in.less")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			out := Render(tree, Options{Indent: DefaultIndent})
			again, err := parser.Parse(out, "out.less")
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", out, err)
			}
			if diff := cmp.Diff(tree, again, ignorePositions); diff != "" {
				t.Errorf("re-parsed tree differs (-want +got):\n%s\nrendered:\n%s", diff, out)
			}
			if got := Render(again, Options{Indent: DefaultIndent}); got != out {
				t.Errorf("Render() not stable:\n%s\nvs\n%s", got, out)
			}
		})
	}
}

func TestRenderFormatting(t *testing.T) {
	const in = ".a, .b > .c { color: red; .d { e: 1px 2px; } }"
	tests := []struct {
		name string
		o    Options
		want string
	}{
		{
			name: "pretty",
			o:    Options{Indent: DefaultIndent},
			want: ".a,\n.b > .c {\n  color: red;\n  .d {\n    e: 1px 2px;\n  }\n}\n",
		},
		{
			name: "wide indent",
			o:    Options{Indent: 4},
			want: ".a,\n.b > .c {\n    color: red;\n    .d {\n        e: 1px 2px;\n    }\n}\n",
		},
		{
			name: "compress",
			o:    Options{Compress: true},
			want: ".a,.b>.c{color:red;.d{e:1px 2px}}",
		},
	}
	tree, err := parser.Parse(in, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tree, tt.o); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderCompressedPreludes(t *testing.T) {
	tree, err := parser.Parse(
		"@supports (display: grid) and (gap: 1px) { a { b: c } } "+
			"@media (min-width: 10px) { d { e: f } }", "",
	)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got := Render(tree, Options{Compress: true})
	want := "@supports (display:grid) and (gap:1px){a{b:c}}" +
		"@media (min-width:10px){d{e:f}}"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderComments(t *testing.T) {
	tree, err := parser.Parse("/*! license */ /* note */ a { b: c; }", "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got, want := Render(tree, Options{Compress: true}), "/*! license */a{b:c}"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
	if got := Render(tree, Options{Indent: 2}); !strings.Contains(got, "/* note */") {
		t.Errorf("Render() dropped comment in pretty mode: %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{1, "1"},
		{100, "100"},
		{12.5, "12.5"},
		{-0.25, "-0.25"},
		{1.0 / 3, "0.33333333"},
		{0.1 + 0.2, "0.3"},
		{math.Copysign(0, -1), "0"},
		{math.NaN(), "0"},
		{math.Inf(1), "0"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.v); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestRenderColor(t *testing.T) {
	tests := []struct {
		name string
		c    *node.Color
		o    Options
		want string
	}{
		{
			name: "token",
			c:    &node.Color{R: 255, G: 255, B: 255, A: 1, Token: "#FFF"},
			want: "#FFF",
		},
		{
			name: "opaque",
			c:    &node.Color{R: 255, G: 0, B: 127.6, A: 1},
			want: "#ff0080",
		},
		{
			name: "clamped",
			c:    &node.Color{R: 300, G: -4, B: 0, A: 1},
			want: "#ff0000",
		},
		{
			name: "translucent",
			c:    &node.Color{R: 255, G: 0, B: 0, A: 0.5},
			want: "rgba(255, 0, 0, 0.5)",
		},
		{
			name: "translucent compressed",
			c:    &node.Color{R: 255, G: 0, B: 0, A: 0.5},
			o:    Options{Compress: true},
			want: "rgba(255,0,0,0.5)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.c, tt.o); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInQuote(t *testing.T) {
	type args struct {
		delim byte
		n     node.Node
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "same delimiter",
			args: args{'"', &node.Quoted{Delim: '"', Value: "a"}},
			want: `\"a\"`,
		},
		{
			name: "other delimiter",
			args: args{'"', &node.Quoted{Delim: '\'', Value: "a"}},
			want: `'a'`,
		},
		{
			name: "inner delimiter",
			args: args{'\'', &node.Quoted{Delim: '\'', Value: `x'y`}},
			want: `\'x\'y\'`,
		},
		{
			name: "list",
			args: args{'"', &node.Expression{Values: []node.Node{
				&node.Keyword{Value: "a"},
				&node.Quoted{Delim: '"', Value: "b"},
			}}},
			want: `a \"b\"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InQuote(tt.args.delim, tt.args.n); got != tt.want {
				t.Errorf("InQuote() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEscapeQuote(t *testing.T) {
	type args struct {
		delim byte
		v     string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{"no delimiter", args{0, `a"b`}, `a"b`},
		{"other delimiter", args{'\'', `a"b`}, `a"b`},
		{"same delimiter", args{'"', `say "hi"`}, `say \"hi\"`},
		{"already escaped", args{'\'', `it\'s`}, `it\'s`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeQuote(tt.args.delim, tt.args.v); got != tt.want {
				t.Errorf("EscapeQuote() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHeader(t *testing.T) {
	tree, err := parser.Parse(strings.Join([]string{
		".a, .b when (@x) { c: d; }",
		".m(@a: 1) { }",
		"@media screen { }",
		"." + strings.Repeat("x", 100) + " { }",
	}, "\n"), "h.less")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	rs := tree.Block.Rules[0].(*node.Ruleset)
	tests := []struct {
		name string
		n    node.Node
		want string
	}{
		{"stylesheet", tree, "stylesheet 'h.less'"},
		{"ruleset", rs, ".a, .b when (@x)"},
		{"rule", rs.Block.Rules[0], "c: d"},
		{"mixin", tree.Block.Rules[1], ".m(@a: 1)"},
		{"media", tree.Block.Rules[2], "@media screen"},
		{"long", tree.Block.Rules[3], "." + strings.Repeat("x", 71) + "..."},
		{"block", rs.Block, "block"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Header(tt.n); got != tt.want {
				t.Errorf("Header() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSourceMap(t *testing.T) {
	const src = "a {\n  b: c;\n}"
	tree, err := parser.Parse(src, "/out/a.less")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b := NewBuffer(Options{
		Indent:    DefaultIndent,
		SourceMap: true,
		File:      "/out/a.css",
	})
	b.Node(tree)
	if got, want := b.String(), "a {\n  b: c;\n}\n"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	m := b.SourceMap(map[string]string{"/out/a.less": src})
	want := &SourceMap{
		Version:        3,
		File:           "/out/a.css",
		Sources:        []string{"a.less"},
		SourcesContent: []string{src},
		Names:          []string{},
		Mappings:       "AAAA;EACE",
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("SourceMap() mismatch (-want +got):\n%s", diff)
	}
	segment := strings.Split(m.Mappings, ";")[1]
	fields, err := vlq.DecodeAll(segment)
	if err != nil {
		t.Fatalf("DecodeAll() error = %v", err)
	}
	if diff := cmp.Diff([]int{2, 0, 1, 2}, fields); diff != "" {
		t.Errorf("segment mismatch (-want +got):\n%s", diff)
	}

	if NewBuffer(Options{}).SourceMap(nil) != nil {
		t.Errorf("SourceMap() without collection != nil")
	}
}

func TestInlineSourceMap(t *testing.T) {
	got := InlineSourceMap("a{}", "{}")
	want := "a{}\n/*# sourceMappingURL=data:application/json;base64,e30= */"
	if got != want {
		t.Errorf("InlineSourceMap() = %q, want %q", got, want)
	}
}
