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
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/das7pad/less-go/pkg/cache"
	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/parser"
)

const DefaultParseCacheSize = 1024

// ParseCache holds parsed trees keyed by path and content digest. It is
// safe for concurrent use, cached trees must not be modified.
type ParseCache struct {
	trees *cache.Flight[*node.Stylesheet]
}

func NewParseCache(size int) (*ParseCache, error) {
	trees, err := cache.NewFlight[*node.Stylesheet](size)
	if err != nil {
		return nil, err
	}
	return &ParseCache{trees: trees}, nil
}

func cacheKey(text, path string) string {
	h, _ := blake2b.New256(nil)
	_, _ = h.Write([]byte(path))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *ParseCache) Parse(text, path string) (*node.Stylesheet, error) {
	return c.trees.GetOrLoad(cacheKey(text, path), func() (*node.Stylesheet, error) {
		return parser.Parse(text, path)
	})
}

func (c *ParseCache) Len() int {
	return c.trees.Len()
}
