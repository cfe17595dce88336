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

package less

import (
	"log/slog"

	"github.com/das7pad/less-go/pkg/errors"
	"github.com/das7pad/less-go/pkg/less/pkg/evaluator"
	"github.com/das7pad/less-go/pkg/less/pkg/renderer"
)

type Options struct {
	Compress bool `yaml:"compress"`
	// Indent is the number of spaces per nesting level, ignored when
	// compressing.
	Indent int `yaml:"indent"`

	// ImportOnce skips repeated imports of a file unless the import
	// carries the (multiple) option.
	ImportOnce           bool     `yaml:"import_once"`
	IncludePaths         []string `yaml:"include_paths"`
	MixinRecursionLimit  int      `yaml:"mixin_recursion_limit"`
	ImportRecursionLimit int      `yaml:"import_recursion_limit"`

	// Tracing brackets mixin and import output with comments.
	Tracing bool `yaml:"tracing"`
	// Strict turns warnings like incompatible units into errors.
	Strict    bool `yaml:"strict"`
	SourceMap bool `yaml:"source_map"`

	Logger *slog.Logger `yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		Indent:               renderer.DefaultIndent,
		ImportOnce:           true,
		MixinRecursionLimit:  evaluator.DefaultMixinRecursionLimit,
		ImportRecursionLimit: evaluator.DefaultImportRecursionLimit,
	}
}

func (o *Options) Validate() error {
	if o.Indent < 0 || o.Indent > 16 {
		return &errors.ValidationError{
			Msg: "indent must be between 0 and 16",
		}
	}
	if o.MixinRecursionLimit <= 0 {
		return &errors.ValidationError{
			Msg: "mixin_recursion_limit must be greater than 0",
		}
	}
	if o.ImportRecursionLimit <= 0 {
		return &errors.ValidationError{
			Msg: "import_recursion_limit must be greater than 0",
		}
	}
	for _, p := range o.IncludePaths {
		if p == "" {
			return &errors.ValidationError{
				Msg: "include_paths must not contain empty entries",
			}
		}
	}
	return nil
}
