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

package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Flight is a bounded LRU cache that collapses concurrent loads of the
// same key into one call.
type Flight[V any] struct {
	items *lru.Cache[string, V]
	group singleflight.Group
}

func NewFlight[V any](size int) (*Flight[V], error) {
	items, err := lru.New[string, V](size)
	if err != nil {
		return nil, err
	}
	return &Flight[V]{items: items}, nil
}

func (c *Flight[V]) Get(k string) (V, bool) {
	return c.items.Get(k)
}

// GetOrLoad returns the cached value for k or stores the result of load.
// Failed loads are not cached.
func (c *Flight[V]) GetOrLoad(k string, load func() (V, error)) (V, error) {
	if v, ok := c.items.Get(k); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(k, func() (interface{}, error) {
		if v, ok := c.items.Get(k); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		c.items.Add(k, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

func (c *Flight[V]) Len() int {
	return c.items.Len()
}

func (c *Flight[V]) Purge() {
	c.items.Purge()
}
