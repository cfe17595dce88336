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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type flags struct {
	config  string
	envFile string
	verbose bool
	watch   bool
	expand  bool

	// overrides are applied when the matching flag was set.
	overrides config
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.config, "config", "", "YAML config file")
	fs.StringVar(&f.envFile, "env-file", "", "load LESSC_* variables from a .env file")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log every compiled file")

	o := &f.overrides
	d := defaultConfig()
	fs.BoolVarP(&o.Compress, "compress", "x", d.Compress, "minify the output")
	fs.IntVar(&o.Indent, "indent", d.Indent, "spaces per nesting level")
	fs.BoolVar(&o.ImportOnce, "import-once", d.ImportOnce, "import every file at most once")
	fs.StringSliceVarP(&o.IncludePaths, "include-path", "I", nil, "additional import search paths")
	fs.IntVar(&o.MixinRecursionLimit, "mixin-recursion-limit", d.MixinRecursionLimit, "maximum mixin call depth")
	fs.IntVar(&o.ImportRecursionLimit, "import-recursion-limit", d.ImportRecursionLimit, "maximum import depth")
	fs.BoolVar(&o.Tracing, "tracing", d.Tracing, "mark mixin and import output with comments")
	fs.BoolVar(&o.Strict, "strict", d.Strict, "treat warnings as errors")
	fs.BoolVar(&o.SourceMap, "source-map", d.SourceMap, "emit source maps")
	fs.StringVarP(&o.OutDir, "out-dir", "o", d.OutDir, "write .css files here instead of stdout")
	fs.StringVar(&o.Root, "root", d.Root, "only allow imports below this directory")
	fs.IntVarP(&o.Concurrency, "concurrency", "j", d.Concurrency, "parallel compiles")
	fs.DurationVar(&o.Debounce, "debounce", d.Debounce, "delay before rebuilding in watch mode")
	fs.StringVar(&o.LogFormat, "log-format", d.LogFormat, "auto, text or json")
}

func override[T any](fs *pflag.FlagSet, name string, dst *T, v T) {
	if fs.Changed(name) {
		*dst = v
	}
}

func (f *flags) load(fs *pflag.FlagSet) (config, error) {
	c, err := loadConfig(f.config, f.envFile)
	if err != nil {
		return c, err
	}
	o := f.overrides
	override(fs, "compress", &c.Compress, o.Compress)
	override(fs, "indent", &c.Indent, o.Indent)
	override(fs, "import-once", &c.ImportOnce, o.ImportOnce)
	override(fs, "include-path", &c.IncludePaths, o.IncludePaths)
	override(fs, "mixin-recursion-limit", &c.MixinRecursionLimit, o.MixinRecursionLimit)
	override(fs, "import-recursion-limit", &c.ImportRecursionLimit, o.ImportRecursionLimit)
	override(fs, "tracing", &c.Tracing, o.Tracing)
	override(fs, "strict", &c.Strict, o.Strict)
	override(fs, "source-map", &c.SourceMap, o.SourceMap)
	override(fs, "out-dir", &c.OutDir, o.OutDir)
	override(fs, "root", &c.Root, o.Root)
	override(fs, "concurrency", &c.Concurrency, o.Concurrency)
	override(fs, "debounce", &c.Debounce, o.Debounce)
	override(fs, "log-format", &c.LogFormat, o.LogFormat)
	return c, nil
}

func (f *flags) builder(cmd *cobra.Command) (*builder, error) {
	c, err := f.load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), c.LogFormat, f.verbose)
	b, err := newBuilder(c, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	b.expand = f.expand
	return b, nil
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           "lessc [flags] <input.less>...",
		Short:         "Compile LESS stylesheets to CSS",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := f.builder(cmd)
			if err != nil {
				return err
			}
			if !f.watch {
				_, err = b.buildAll(args)
				return err
			}
			w, err := newWatcher(b)
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()
			return w.Run(cmd.Context(), args)
		},
	}
	f.register(cmd.PersistentFlags())
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "rebuild on changes")
	cmd.Flags().BoolVar(&f.expand, "expand", false, "print the evaluated tree instead of CSS")
	cmd.AddCommand(newBundleCommand(f))
	return cmd
}

func newBundleCommand(f *flags) *cobra.Command {
	o := bundleOptions{}
	cmd := &cobra.Command{
		Use:   "bundle [flags] <entry>...",
		Short: "Bundle entry points with esbuild, compiling .less imports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := f.builder(cmd)
			if err != nil {
				return err
			}
			if o.outDir == "" {
				o.outDir = b.cfg.OutDir
			}
			if o.outDir == "" {
				o.outDir = "dist"
			}
			return b.bundle(args, o)
		},
	}
	cmd.Flags().BoolVar(&o.minify, "minify", false, "minify the bundle")
	cmd.Flags().StringVar(&o.outDir, "bundle-dir", "", "output directory of the bundle")
	return cmd
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
