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
	"strconv"
	"strings"
	"testing"

	"github.com/das7pad/less-go/pkg/less/pkg/diagnostics"
	"github.com/das7pad/less-go/pkg/less/pkg/loader"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/parser"
	"github.com/das7pad/less-go/pkg/less/pkg/renderer"
)

const mainFile = "main.less"

type args struct {
	files map[string]string
	in    string
	o     Options
}

func evaluate(t *testing.T, a args) (*node.Stylesheet, *Evaluator, error) {
	t.Helper()
	files := loader.Map{mainFile: a.in}
	for k, v := range a.files {
		files[k] = v
	}
	s, err := parser.Parse(a.in, mainFile)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	o := a.o
	o.Loader = files
	e := New(o)
	out, err := e.Eval(s)
	return out, e, err
}

func compile(t *testing.T, a args) (string, *Evaluator, error) {
	t.Helper()
	out, e, err := evaluate(t, a)
	if err != nil {
		return "", e, err
	}
	return renderer.Render(out, renderer.Options{Compress: true}), e, nil
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "variable",
			args: args{in: "@a: 1; .rule { prop: @a; }"},
			want: ".rule{prop:1}",
		},
		{
			name: "mixin",
			args: args{in: ".m(@arg){ a: @arg + 1; } .rule { .m(10); }"},
			want: ".rule{a:11}",
		},
		{
			name: "import",
			args: args{
				files: map[string]string{
					"base.less":  "@color: #abc; @import 'child.less';",
					"child.less": ".child { font-size: 12px; } @size: 12px;",
				},
				in: "@import 'base.less'; .ruleset { color: @color; font-size: @size; }",
			},
			want: ".child{font-size:12px}.ruleset{color:#abc;font-size:12px}",
		},
		{
			name: "shadowing",
			args: args{in: "@a: 1; .x { @a: 2; b: @a; } .y { b: @a; }"},
			want: ".x{b:2}.y{b:1}",
		},
		{
			name: "lazy definition",
			args: args{in: ".x { b: @a; } @a: 3;"},
			want: ".x{b:3}",
		},
		{
			name: "definition resolved at the use site",
			args: args{in: "@a: @b; @b: 2; .x { @b: 1; c: @a; } .y { c: @a; }"},
			want: ".x{c:1}.y{c:2}",
		},
		{
			name: "definition only defined at the use site",
			args: args{in: "@a: @b; .x { @b: 1; c: @a; }"},
			want: ".x{c:1}",
		},
		{
			name: "exponent",
			args: args{in: ".a { d: 1e3; e: 2.5E-1 * 2em; }"},
			want: ".a{d:1000;e:0.5em}",
		},
		{
			name: "indirect variable",
			args: args{in: `@name: "color"; @color: red; .a { b: @@name; }`},
			want: ".a{b:red}",
		},
		{
			name: "nesting",
			args: args{in: ".a { color: red; .b { c: d; } &:hover { e: f; } &-x { g: h; } }"},
			want: ".a{color:red}.a .b{c:d}.a:hover{e:f}.a-x{g:h}",
		},
		{
			name: "selector lists",
			args: args{in: ".a, .b { .c, .d { x: y; } }"},
			want: ".a .c,.a .d,.b .c,.b .d{x:y}",
		},
		{
			name: "child combinator",
			args: args{in: ".a { > .b { x: y; } }"},
			want: ".a>.b{x:y}",
		},
		{
			name: "parent after",
			args: args{in: ".a { .x & { y: z; } }"},
			want: ".x .a{y:z}",
		},
		{
			name: "interpolated selector",
			args: args{in: "@p: banner; .@{p} { a: b; }"},
			want: ".banner{a:b}",
		},
		{
			name: "media bubbling",
			args: args{in: ".a { x: y; @media screen { x: z; } }"},
			want: ".a{x:y}@media screen{.a{x:z}}",
		},
		{
			name: "nested media",
			args: args{in: "@media screen { @media (min-width: 10px) { .a { x: y; } } }"},
			want: "@media screen and (min-width:10px){.a{x:y}}",
		},
		{
			name: "supports bubbling",
			args: args{in: ".a { @supports (display: grid) { b: c; } }"},
			want: "@supports (display:grid){.a{b:c}}",
		},
		{
			name: "keyframes",
			args: args{in: "@keyframes spin { from { a: b; } to { a: c; } }"},
			want: "@keyframes spin{from{a:b}to{a:c}}",
		},
		{
			name: "font-face",
			args: args{in: "@font-face { font-family: x; }"},
			want: "@font-face{font-family:x}",
		},
		{
			name: "directive",
			args: args{in: `@charset "utf-8"; .a { b: c; }`},
			want: `@charset "utf-8";.a{b:c}`,
		},
		{
			name: "operations",
			args: args{in: ".a { w: (10px + 5) * 2; h: 12px/1.5; c: #111 + #222; d: 1cm + 10mm; }"},
			want: ".a{w:30px;h:12px/1.5;c:#333333;d:2cm}",
		},
		{
			name: "division of variables",
			args: args{in: "@w: 10px; .a { b: @w / 2; }"},
			want: ".a{b:5px}",
		},
		{
			name: "functions",
			args: args{in: ".a { c: lighten(#000, 50%); d: foo(1 + 1); e: calc(100% - 10px); }"},
			want: ".a{c:#808080;d:foo(2);e:calc(100% - 10px)}",
		},
		{
			name: "strings",
			args: args{in: `@v: "world"; .a { b: ~"hello @{v}"; c: "x@{v}"; }`},
			want: `.a{b:hello world;c:"xworld"}`,
		},
		{
			name: "interpolation escapes the outer quote",
			args: args{in: `@q: 'say "hi"'; @s: "it's"; ` +
				`.x { a: "outer @{q}"; b: '@{s}'; c: "@{s}"; d: ~"@{q}"; }`},
			want: `.x{a:"outer say \"hi\"";b:'it\'s';c:"it's";d:say "hi"}`,
		},
		{
			name: "interpolation keeps escaped quotes",
			args: args{in: `@q: 'a \'b\''; @l: 1px "x"; .x { a: '@{q}'; b: "@{l}"; }`},
			want: `.x{a:'a \'b\'';b:"1px \"x\""}`,
		},
		{
			name: "guards with default",
			args: args{in: ".m(@a) when (@a > 10) { x: big; } " +
				".m(@a) when (default()) { x: small; } " +
				".a { .m(20); } .b { .m(1); }"},
			want: ".a{x:big}.b{x:small}",
		},
		{
			name: "guard false matches silently",
			args: args{in: ".m(@a) when (@a = 1) { x: y; } .a { .m(2); b: c; }"},
			want: ".a{b:c}",
		},
		{
			name: "ruleset guard",
			args: args{in: "@mode: dark; .a when (@mode = dark) { b: c; } .d when (@mode = light) { e: f; }"},
			want: ".a{b:c}",
		},
		{
			name: "pattern matching",
			args: args{in: ".m(dark; @c) { color: @c; } .m(light; @c) { color: white; } .a { .m(dark; black); }"},
			want: ".a{color:black}",
		},
		{
			name: "named and default arguments",
			args: args{in: ".m(@a: 1; @b: 2) { x: @a @b; } .c { .m(@b: 3); }"},
			want: ".c{x:1 3}",
		},
		{
			name: "arguments",
			args: args{in: ".m(@a; @b) { box-shadow: @arguments; } .c { .m(1px; 2px); }"},
			want: ".c{box-shadow:1px 2px}",
		},
		{
			name: "rest",
			args: args{in: ".m(@a; @rest...) { x: @rest; } .c { .m(1; 2; 3); }"},
			want: ".c{x:2 3}",
		},
		{
			name: "important",
			args: args{in: ".m() { a: b; } .c { .m() !important; }"},
			want: ".c{a:b!important}",
		},
		{
			name: "ruleset as mixin",
			args: args{in: ".base { a: b; } .c { .base; }"},
			want: ".base{a:b}.c{a:b}",
		},
		{
			name: "nested rules from mixin",
			args: args{in: ".m() { .inner { a: b; } } .c { .m(); }"},
			want: ".c .inner{a:b}",
		},
		{
			name: "namespace",
			args: args{in: "#ns { .m() { a: b; } } .c { #ns > .m(); }"},
			want: ".c{a:b}",
		},
		{
			name: "closure",
			args: args{in: ".outer { @v: 1; .m() { x: @v; } } .c { @v: 2; .outer > .m(); }"},
			want: ".c{x:1}",
		},
		{
			name: "mixin exports variables",
			args: args{in: ".m() { @r: 5px; } .c { .m(); w: @r; }"},
			want: ".c{w:5px}",
		},
		{
			name: "own definitions win",
			args: args{in: ".m() { @r: 5px; } .c { @r: 1px; .m(); w: @r; }"},
			want: ".c{w:1px}",
		},
		{
			name: "css import",
			args: args{in: `@import "x.css"; .a { b: c; }`},
			want: `@import "x.css";.a{b:c}`,
		},
		{
			name: "inline import",
			args: args{
				files: map[string]string{"a.css": "x{y:z}"},
				in:    `@import (inline) "a.css"; .b { c: d; }`,
			},
			want: "x{y:z}.b{c:d}",
		},
		{
			name: "optional import",
			args: args{in: `@import (optional) "missing"; .a { b: c; }`},
			want: ".a{b:c}",
		},
		{
			name: "import with media",
			args: args{
				files: map[string]string{"b.less": ".b { c: d; }"},
				in:    `@import "b" screen;`,
			},
			want: "@media screen{.b{c:d}}",
		},
		{
			name: "import path variable",
			args: args{
				files: map[string]string{"lib/b.less": ".b { c: d; }"},
				in:    `@dir: "lib"; @import "@{dir}/b";`,
			},
			want: ".b{c:d}",
		},
		{
			name: "empty rulesets",
			args: args{in: ".a { } .b { .c { } d: e; }"},
			want: ".b{d:e}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := compile(t, tt.args)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  args
		want  diagnostics.Type
		param string
		value string
	}{
		{
			name:  "mixin undefined",
			args:  args{in: ".a { .missing(); }"},
			want:  diagnostics.MixinUndefined,
			param: "selector",
			value: ".missing",
		},
		{
			name:  "mixin suggestion",
			args:  args{in: ".mixin() { a: b; } .a { .mixn(); }"},
			want:  diagnostics.MixinUndefined,
			param: "detail",
			value: ", did you mean .mixin?",
		},
		{
			name:  "namespace suggestion",
			args:  args{in: "#ns { .m() { a: b; } } .a { .m(); }"},
			want:  diagnostics.MixinUndefined,
			param: "detail",
			value: ", did you mean #ns .m?",
		},
		{
			name:  "arguments mismatch",
			args:  args{in: ".m(@a) { x: @a; } .c { .m(); }"},
			want:  diagnostics.MixinUndefined,
			param: "detail",
			value: ", no definition accepts the arguments",
		},
		{
			name:  "variable undefined",
			args:  args{in: ".a { b: @missing; }"},
			want:  diagnostics.VarUndefined,
			param: "name",
			value: "@missing",
		},
		{
			name:  "variable suggestion",
			args:  args{in: "@colour: red; .a { b: @color; }"},
			want:  diagnostics.VarUndefined,
			param: "detail",
			value: ", did you mean @colour?",
		},
		{
			name:  "circular",
			args:  args{in: "@a: @b; @b: @a; .x { y: @a; }"},
			want:  diagnostics.VarCircularReference,
			param: "name",
			value: "@a",
		},
		{
			name:  "self reference",
			args:  args{in: "@a: @a + 1; .x { y: @a; }"},
			want:  diagnostics.VarCircularReference,
			param: "name",
			value: "@a",
		},
		{
			name:  "invalid operation",
			args:  args{in: ".a { b: foo + 1; }"},
			want:  diagnostics.InvalidOperation,
			param: "op",
			value: "+",
		},
		{
			name:  "division by zero",
			args:  args{in: ".a { b: (1px / 0); }"},
			want:  diagnostics.InvalidOperation,
			param: "op",
			value: "/",
		},
		{
			name:  "import not found",
			args:  args{in: `@import "nope";`},
			want:  diagnostics.ImportError,
			param: "path",
			value: `"nope"`,
		},
		{
			name: "import cycle",
			args: args{
				files: map[string]string{
					"a.less": `@import "b";`,
					"b.less": `@import "main";`,
				},
				in: `@import "a";`,
			},
			want:  diagnostics.ImportRecurse,
			param: "reason",
			value: "imports itself",
		},
		{
			name: "import limit",
			args: args{
				files: map[string]string{
					"a.less": `@import "b";`,
					"b.less": `.b { c: d; }`,
				},
				in: `@import "a";`,
				o:  Options{ImportRecursionLimit: 2},
			},
			want:  diagnostics.ImportRecurse,
			param: "reason",
			value: "exceeds the import depth limit of 2",
		},
		{
			name:  "function arguments",
			args:  args{in: ".a { b: rgb(1, 2); }"},
			want:  diagnostics.ArgCount,
			param: "name",
			value: "rgb",
		},
		{
			name:  "unknown unit",
			args:  args{in: ".a { b: convert(1px, foo); }"},
			want:  diagnostics.UnknownUnit,
			param: "unit",
			value: "foo",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := compile(t, tt.args)
			e, ok := diagnostics.AsError(err)
			if !ok {
				t.Fatalf("Eval() error = %v, want diagnostics error", err)
			}
			if e.Type != tt.want {
				t.Errorf("Eval() error = %v, want %v", e, tt.want)
			}
			if got := e.Param(tt.param); got != tt.value {
				t.Errorf("Param(%q) = %q, want %q", tt.param, got, tt.value)
			}
		})
	}
}

func TestErrorContext(t *testing.T) {
	_, _, err := compile(t, args{in: ".a { @media screen { b: @missing; } }"})
	e, ok := diagnostics.AsError(err)
	if !ok {
		t.Fatalf("Eval() error = %v", err)
	}
	var kinds []string
	for _, n := range e.Context {
		kinds = append(kinds, n.Kind().String())
	}
	want := "Rule Media Ruleset Stylesheet"
	if got := strings.Join(kinds, " "); got != want {
		t.Errorf("Context = %s, want %s", got, want)
	}
	if e.Pos.Line != 1 || e.Pos.Column != 25 {
		t.Errorf("Pos = %v, want 1:25", e.Pos)
	}
}

func contextKinds(e *diagnostics.Error) string {
	var kinds []string
	for _, n := range e.Context {
		kinds = append(kinds, n.Kind().String())
	}
	return strings.Join(kinds, " ")
}

func TestErrorContextImports(t *testing.T) {
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "direct",
			args: args{
				files: map[string]string{"a.less": ".x { c: @undef; }"},
				in:    "@import 'a';",
			},
			want: "Rule Ruleset Import Stylesheet",
		},
		{
			name: "nested",
			args: args{
				files: map[string]string{
					"a.less": "@import 'b';",
					"b.less": ".x { c: @undef; }",
				},
				in: "@import 'a';",
			},
			want: "Rule Ruleset Import Import Stylesheet",
		},
		{
			name: "mixin call",
			args: args{
				files: map[string]string{"a.less": ".x { .missing(); }"},
				in:    ".w { @import 'a'; }",
			},
			want: "MixinCall Ruleset Import Ruleset Stylesheet",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := compile(t, tt.args)
			e, ok := diagnostics.AsError(err)
			if !ok {
				t.Fatalf("Eval() error = %v", err)
			}
			if got := contextKinds(e); got != tt.want {
				t.Errorf("Context = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestImportFrameOutsideWindow(t *testing.T) {
	in := ".w1 { .w2 { .w3 { .w4 { .w5 { .w6 { .w7 { @import 'deep'; } } } } } } }"
	files := map[string]string{"deep.less": ".m() { .m(); } .x { .m(); }"}
	_, _, err := compile(t, args{
		files: files,
		in:    in,
		o:     Options{MixinRecursionLimit: 10},
	})
	e, ok := diagnostics.AsError(err)
	if !ok || e.Type != diagnostics.MixinRecurse {
		t.Fatalf("Eval() error = %v, want MixinRecurse", err)
	}
	if !strings.Contains(contextKinds(e), "Ruleset Import Ruleset") {
		t.Fatalf("Context = %s, want an import frame", contextKinds(e))
	}
	out := diagnostics.Formatter{}.Format(e)
	if !strings.Contains(out, "... skipped ") {
		t.Errorf("Format() did not skip frames:\n%s", out)
	}
	if !strings.Contains(out, "  1:43  Import\n") {
		t.Errorf("Format() dropped the import frame:\n%s", out)
	}
}

func TestMixinRecursionLimit(t *testing.T) {
	loop := func(n int) string {
		return ".loop(@i) when (@i > 0) { w: @i; .loop(@i - 1); } " +
			".a { .loop(" + strconv.Itoa(n) + "); }"
	}
	o := Options{MixinRecursionLimit: 5}

	got, _, err := compile(t, args{in: loop(4), o: o})
	if err != nil {
		t.Fatalf("Eval() at the limit error = %v", err)
	}
	if want := ".a{w:4;w:3;w:2;w:1}"; got != want {
		t.Errorf("Eval() = %q, want %q", got, want)
	}

	_, _, err = compile(t, args{in: loop(5), o: o})
	e, ok := diagnostics.AsError(err)
	if !ok || e.Type != diagnostics.MixinRecurse {
		t.Fatalf("Eval() beyond the limit error = %v, want MixinRecurse", err)
	}
	if e.Param("limit") != "5" || e.Param("selector") != ".loop" {
		t.Errorf("Eval() error = %v", e)
	}
}

func TestImportOnce(t *testing.T) {
	files := map[string]string{"a.less": ".a { x: y; }"}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "multiple",
			args: args{files: files, in: `@import "a"; @import "a";`},
			want: ".a{x:y}.a{x:y}",
		},
		{
			name: "global once",
			args: args{
				files: files,
				in:    `@import "a"; @import "a";`,
				o:     Options{ImportOnce: true},
			},
			want: ".a{x:y}",
		},
		{
			name: "once option",
			args: args{files: files, in: `@import (once) "a"; @import (once) "a";`},
			want: ".a{x:y}",
		},
		{
			name: "multiple option overrides global once",
			args: args{
				files: files,
				in:    `@import "a"; @import (multiple) "a";`,
				o:     Options{ImportOnce: true},
			},
			want: ".a{x:y}.a{x:y}",
		},
		{
			name: "once skips cycles",
			args: args{
				files: map[string]string{"b.less": `@import "main"; .b { c: d; }`},
				in:    `@import "b";`,
				o:     Options{ImportOnce: true},
			},
			want: ".b{c:d}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := compile(t, tt.args)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImportResolution(t *testing.T) {
	a := args{
		files: map[string]string{
			"src/sub/y.less": `@import "z"; @import "x";`,
			"src/sub/z.less": ".z { a: b; }",
			"lib/x.less":     ".x { a: b; }",
		},
		in: `@import "src/sub/y";`,
		o:  Options{IncludePaths: []string{"lib"}},
	}
	got, e, err := compile(t, a)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if want := ".z{a:b}.x{a:b}"; got != want {
		t.Errorf("Eval() = %q, want %q", got, want)
	}
	want := []string{"src/sub/y.less", "src/sub/z.less", "lib/x.less"}
	if strings.Join(e.Imports(), ",") != strings.Join(want, ",") {
		t.Errorf("Imports() = %v, want %v", e.Imports(), want)
	}
}

func TestImportParseOnce(t *testing.T) {
	parsed := 0
	a := args{
		files: map[string]string{"a.less": ".a { x: y; }"},
		in:    `@import "a"; .b { @import "a"; }`,
		o: Options{Parse: func(text, path string) (*node.Stylesheet, error) {
			parsed++
			return parser.Parse(text, path)
		}},
	}
	got, _, err := compile(t, a)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if want := ".a{x:y}.b .a{x:y}"; got != want {
		t.Errorf("Eval() = %q, want %q", got, want)
	}
	if parsed != 1 {
		t.Errorf("parsed %d times, want 1", parsed)
	}
}

func TestStrict(t *testing.T) {
	in := ".a { b: 1px + 1em; }"
	got, e, err := compile(t, args{in: in})
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != ".a{b:2px}" {
		t.Errorf("Eval() = %q", got)
	}
	if len(e.Warnings()) != 1 {
		t.Fatalf("Warnings() = %v, want one", e.Warnings())
	}
	if w := e.Warnings()[0].String(); w != "main.less:1:9: incompatible units px and em" {
		t.Errorf("Warning = %q", w)
	}

	_, _, err = compile(t, args{in: in, o: Options{Strict: true}})
	if !diagnostics.Is(err, diagnostics.IncompatibleUnits) {
		t.Errorf("Eval() error = %v, want IncompatibleUnits", err)
	}
}

func TestTracing(t *testing.T) {
	a := args{
		files: map[string]string{"a.less": ".a { x: y; }"},
		in:    `@import "a"; .m() { b: c; } .d { .m(); }`,
		o:     Options{Tracing: true},
	}
	out, _, err := evaluate(t, a)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	got := renderer.Render(out, renderer.Options{Indent: 2})
	for _, want := range []string{
		`/* begin import "a" */`,
		`/* end import "a" */`,
		"/* begin mixin .m */\n  b: c;\n  /* end mixin .m */",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q is missing %q", got, want)
		}
	}
}

func TestEvalKeepsInput(t *testing.T) {
	in := ".m(@a) { x: @a; .n() { y: @a; } } .c { .m(1); .n(); } .d { .m(2); .n(); }"
	s, err := parser.Parse(in, mainFile)
	if err != nil {
		t.Fatal(err)
	}
	before := renderer.Render(s, renderer.Options{Indent: 2})
	var outputs []string
	for i := 0; i < 2; i++ {
		out, err := New(Options{Loader: loader.Map{}}).Eval(s)
		if err != nil {
			t.Fatalf("Eval() error = %v", err)
		}
		outputs = append(outputs, renderer.Render(out, renderer.Options{Compress: true}))
	}
	if after := renderer.Render(s, renderer.Options{Indent: 2}); after != before {
		t.Errorf("Eval() modified its input:\n%s\n%s", before, after)
	}
	want := ".c{x:1;y:1}.d{x:2;y:2}"
	for _, got := range outputs {
		if got != want {
			t.Errorf("Eval() = %q, want %q", got, want)
		}
	}
}

func TestCompressEquivalence(t *testing.T) {
	inputs := []string{
		".a { b: c; .d { e: 1px 2px; } }",
		".a, .b { @media screen { c: d; } }",
		"@keyframes k { from { a: b; } }",
	}
	normalize := func(s string) string {
		s = strings.Join(strings.Fields(s), "")
		return strings.ReplaceAll(s, ";}", "}")
	}
	for _, in := range inputs {
		out, _, err := evaluate(t, args{in: in})
		if err != nil {
			t.Fatalf("Eval(%q) error = %v", in, err)
		}
		pretty := renderer.Render(out, renderer.Options{Indent: 2})
		compressed := renderer.Render(out, renderer.Options{Compress: true})
		if normalize(pretty) != normalize(compressed) {
			t.Errorf("renders differ:\n%s\n%s", pretty, compressed)
		}
	}
}
