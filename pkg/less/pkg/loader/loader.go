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

// Package loader supplies stylesheet text by path.
package loader

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/das7pad/less-go/pkg/errors"
)

type Loader interface {
	Exists(p string) bool
	Load(p string) (string, error)
	// Normalize returns the canonical form of p used as cache key.
	Normalize(p string) string
}

type FileSystem struct{}

func (FileSystem) Exists(p string) bool {
	s, err := os.Stat(p)
	return err == nil && !s.IsDir()
}

func (FileSystem) Load(p string) (string, error) {
	blob, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &errors.NotFoundError{Path: p}
		}
		return "", errors.Tag(err, "read "+p)
	}
	return string(blob), nil
}

func (FileSystem) Normalize(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Jailed restricts a FileSystem to files under Root with one of the
// allowed extensions.
type Jailed struct {
	Root       string
	Extensions []string
	fs         FileSystem
}

func NewJailed(root string, extensions ...string) *Jailed {
	if len(extensions) == 0 {
		extensions = []string{".less", ".css"}
	}
	return &Jailed{
		Root:       FileSystem{}.Normalize(root),
		Extensions: extensions,
	}
}

func (j *Jailed) allowed(p string) bool {
	p = j.Normalize(p)
	rel, err := filepath.Rel(j.Root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return slices.Contains(j.Extensions, filepath.Ext(p))
}

func (j *Jailed) Exists(p string) bool {
	return j.allowed(p) && j.fs.Exists(j.Normalize(p))
}

func (j *Jailed) Load(p string) (string, error) {
	if !j.allowed(p) {
		return "", &errors.ValidationError{
			Msg: "path outside of " + j.Root + " or with disallowed extension: " + p,
		}
	}
	return j.fs.Load(j.Normalize(p))
}

// Normalize resolves relative paths against Root.
func (j *Jailed) Normalize(p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(j.Root, p)
	}
	return filepath.Clean(p)
}

// Map is an in-memory loader keyed by slash separated paths.
type Map map[string]string

func (m Map) Exists(p string) bool {
	_, ok := m[m.Normalize(p)]
	return ok
}

func (m Map) Load(p string) (string, error) {
	s, ok := m[m.Normalize(p)]
	if !ok {
		return "", &errors.NotFoundError{Path: p}
	}
	return s, nil
}

func (m Map) Normalize(p string) string {
	p = filepath.ToSlash(filepath.Clean(p))
	return strings.TrimPrefix(p, "./")
}
