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

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/pflag"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestCompileToStdout(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.less":    "@import 'vars'; .a { color: @c; }",
		"b.less":    ".m() { x: y; } .b { .m(); }",
		"vars.less": "@c: red;",
	})
	stdout, _, err := runCLI(t,
		"--compress",
		filepath.Join(dir, "a.less"), filepath.Join(dir, "b.less"),
	)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if want := ".a{color:red}\n.b{x:y}\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestCompileToOutDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{"styles/main.less": ".a { b: c; }"})
	out := filepath.Join(dir, "out")
	stdout, _, err := runCLI(t,
		"-o", out, "--source-map", filepath.Join(dir, "styles/main.less"),
	)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q", stdout)
	}
	css, err := os.ReadFile(filepath.Join(out, "main.css"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(css), ".a {\n  b: c;\n}") ||
		!strings.HasSuffix(string(css), "/*# sourceMappingURL=main.css.map */") {
		t.Errorf("main.css = %q", css)
	}
	if _, err = os.Stat(filepath.Join(out, "main.css.map")); err != nil {
		t.Errorf("source map missing: %v", err)
	}
}

func TestCompileError(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.less":     ".ok { a: b; }",
		"broken.less": ".a { .missing(); }",
	})
	stdout, stderr, err := runCLI(t, "-x",
		filepath.Join(dir, "ok.less"), filepath.Join(dir, "broken.less"),
	)
	if err == nil {
		t.Fatal("run() error = nil")
	}
	if stdout != ".ok{a:b}\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "(MixinUndefined)") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestExpandFlag(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.less": ".a { b: c; }"})
	stdout, _, err := runCLI(t, "--expand", filepath.Join(dir, "main.less"))
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout, "node.Ruleset") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestBundleCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.less": "@import 'box'; .page { .box(2px); }",
		"box.less":  ".box(@r) { border-radius: @r; }",
	})
	dist := filepath.Join(dir, "dist")
	_, _, err := runCLI(t, "bundle", "--bundle-dir", dist, filepath.Join(dir, "main.less"))
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	css, err := os.ReadFile(filepath.Join(dist, "main.css"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(css), "border-radius: 2px") {
		t.Errorf("main.css = %q", css)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"lessc.yaml": "compress: true\nindent: 4\ninclude_paths: [lib]\ndebounce: 1s\n",
		".env":       "LESSC_TRACING=true\n",
		"bad.yaml":   "compres: true\n",
	})
	t.Setenv("LESSC_INDENT", "3")
	t.Cleanup(func() { _ = os.Unsetenv("LESSC_TRACING") })

	fs := pflag.NewFlagSet("lessc", pflag.ContinueOnError)
	f := &flags{}
	f.register(fs)
	err := fs.Parse([]string{
		"--config", filepath.Join(dir, "lessc.yaml"),
		"--env-file", filepath.Join(dir, ".env"),
		"-I", "vendor",
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.load(fs)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	want := defaultConfig()
	want.Compress = true
	want.Indent = 3
	want.IncludePaths = []string{"vendor"}
	want.Debounce = time.Second
	want.Tracing = true
	if diff := cmp.Diff(want, got, cmpopts.IgnoreTypes(&slog.Logger{})); diff != "" {
		t.Errorf("load() mismatch (-want +got):\n%s", diff)
	}

	if _, err = loadConfig(filepath.Join(dir, "bad.yaml"), ""); err == nil {
		t.Errorf("loadConfig() with unknown field error = nil")
	}
	t.Setenv("LESSC_CONCURRENCY", "many")
	if _, err = loadConfig("", ""); err == nil {
		t.Errorf("loadConfig() with malformed env error = nil")
	}
}

func TestConfigValidate(t *testing.T) {
	c := defaultConfig()
	c.LogFormat = "xml"
	if err := c.Validate(); err == nil {
		t.Errorf("Validate() error = nil")
	}
	c = defaultConfig()
	c.Concurrency = 0
	if err := c.Validate(); err == nil {
		t.Errorf("Validate() error = nil")
	}
}

func TestWatcherTrack(t *testing.T) {
	cfg := defaultConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b, err := newBuilder(cfg, logger, io.Discard, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	w, err := newWatcher(b)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = w.Close() }()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.less")
	shared := filepath.Join(dir, "shared.less")
	err = w.track([]result{
		{input: a, imports: []string{shared}},
		{input: filepath.Join(dir, "b.less"), imports: []string{shared}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := w.affected(shared); len(got) != 2 {
		t.Errorf("affected(shared) = %v", got)
	}
	if err = w.track([]result{{input: a}}); err != nil {
		t.Fatal(err)
	}
	if got := w.affected(shared); len(got) != 1 {
		t.Errorf("affected(shared) after re-track = %v", got)
	}
	if diff := cmp.Diff([]string{a}, w.affected(a)); diff != "" {
		t.Errorf("affected(a) mismatch (-want +got):\n%s", diff)
	}
	if !w.dirs[dir] {
		t.Errorf("directory %s not watched", dir)
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("out", "src/theme.dark.less"); got != filepath.Join("out", "theme.dark.css") {
		t.Errorf("outputPath() = %q", got)
	}
}
