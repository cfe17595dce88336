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
	"io"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/das7pad/less-go/pkg/errors"
	"github.com/das7pad/less-go/pkg/less"
	"github.com/das7pad/less-go/pkg/options/env"
)

type config struct {
	less.Options `yaml:",inline"`

	// OutDir receives one .css file per input, stdout is used when empty.
	OutDir string `yaml:"out_dir"`
	// Root jails imports to files below it when set.
	Root        string        `yaml:"root"`
	Concurrency int           `yaml:"concurrency"`
	Debounce    time.Duration `yaml:"debounce"`
	LogFormat   string        `yaml:"log_format"`
}

func defaultConfig() config {
	return config{
		Options:     less.DefaultOptions(),
		Concurrency: runtime.NumCPU(),
		Debounce:    100 * time.Millisecond,
		LogFormat:   "auto",
	}
}

func (c *config) Validate() error {
	if err := c.Options.Validate(); err != nil {
		return err
	}
	if c.Concurrency <= 0 {
		return &errors.ValidationError{
			Msg: "concurrency must be greater than 0",
		}
	}
	if c.Debounce < 0 {
		return &errors.ValidationError{Msg: "debounce must not be negative"}
	}
	switch c.LogFormat {
	case "auto", "text", "json":
	default:
		return &errors.ValidationError{
			Msg: "log_format must be one of auto, text or json",
		}
	}
	return nil
}

func (c *config) readFile(p string) error {
	blob, err := os.ReadFile(p)
	if err != nil {
		return errors.Tag(err, "read config")
	}
	d := yaml.NewDecoder(bytes.NewReader(blob))
	d.KnownFields(true)
	if err = d.Decode(c); err != nil && err != io.EOF {
		return errors.Tag(err, "parse config "+p)
	}
	return nil
}

func (c *config) readEnv() error {
	var err error
	m := &errors.MergedError{}
	c.Compress, err = env.GetBool("COMPRESS", c.Compress)
	m.Add(err)
	c.Indent, err = env.GetInt("INDENT", c.Indent)
	m.Add(err)
	c.ImportOnce, err = env.GetBool("IMPORT_ONCE", c.ImportOnce)
	m.Add(err)
	c.IncludePaths = env.GetStringList("INCLUDE_PATH", c.IncludePaths)
	c.MixinRecursionLimit, err = env.GetInt(
		"MIXIN_RECURSION_LIMIT", c.MixinRecursionLimit,
	)
	m.Add(err)
	c.ImportRecursionLimit, err = env.GetInt(
		"IMPORT_RECURSION_LIMIT", c.ImportRecursionLimit,
	)
	m.Add(err)
	c.Tracing, err = env.GetBool("TRACING", c.Tracing)
	m.Add(err)
	c.Strict, err = env.GetBool("STRICT", c.Strict)
	m.Add(err)
	c.SourceMap, err = env.GetBool("SOURCE_MAP", c.SourceMap)
	m.Add(err)
	c.OutDir = env.GetString("OUT_DIR", c.OutDir)
	c.Root = env.GetString("ROOT", c.Root)
	c.Concurrency, err = env.GetInt("CONCURRENCY", c.Concurrency)
	m.Add(err)
	c.Debounce, err = env.GetDuration("DEBOUNCE", c.Debounce)
	m.Add(err)
	c.LogFormat = env.GetString("LOG_FORMAT", c.LogFormat)
	return m.Finalize()
}

// loadConfig layers the defaults, the config file and the environment.
// Variables from envFile do not override the process environment.
func loadConfig(file, envFile string) (config, error) {
	c := defaultConfig()
	if file != "" {
		if err := c.readFile(file); err != nil {
			return c, err
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return c, errors.Tag(err, "load env file")
		}
	}
	if err := c.readEnv(); err != nil {
		return c, errors.Tag(err, "environment")
	}
	return c, nil
}
