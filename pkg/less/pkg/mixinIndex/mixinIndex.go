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

// Package mixinIndex stores mixin and ruleset definitions in a prefix tree
// keyed by selector path segments, e.g. ["#ns", ".button"].
package mixinIndex

import (
	"slices"
	"sort"
)

type Tree[V any] struct {
	root entry[V]
	size int
}

type entry[V any] struct {
	children map[string]*entry[V]
	// order keeps the insertion order of children for stable walks.
	order  []string
	values []V
}

func New[V any]() *Tree[V] {
	return &Tree[V]{}
}

// Len is the number of inserted values.
func (t *Tree[V]) Len() int {
	return t.size
}

// Insert appends v at path. Values at one path keep insertion order.
func (t *Tree[V]) Insert(path []string, v V) {
	e := &t.root
	for _, s := range path {
		next, ok := e.children[s]
		if !ok {
			if e.children == nil {
				e.children = make(map[string]*entry[V])
			}
			next = &entry[V]{}
			e.children[s] = next
			e.order = append(e.order, s)
		}
		e = next
	}
	e.values = append(e.values, v)
	t.size++
}

func (t *Tree[V]) find(path []string) *entry[V] {
	e := &t.root
	for _, s := range path {
		next, ok := e.children[s]
		if !ok {
			return nil
		}
		e = next
	}
	return e
}

// Exact returns the values stored at path.
func (t *Tree[V]) Exact(path []string) []V {
	if e := t.find(path); e != nil {
		return e.values
	}
	return nil
}

// Match is a value with the full path it was stored at.
type Match[V any] struct {
	Path  []string
	Value V
}

// Within returns the values stored below prefix with at most depth extra
// segments, in depth first insertion order.
func (t *Tree[V]) Within(prefix []string, depth int) []Match[V] {
	e := t.find(prefix)
	if e == nil {
		return nil
	}
	var out []Match[V]
	e.walk(slices.Clone(prefix), depth, func(p []string, v V) {
		out = append(out, Match[V]{Path: slices.Clone(p), Value: v})
	})
	return out
}

func (e *entry[V]) walk(path []string, depth int, fn func([]string, V)) {
	for _, v := range e.values {
		fn(path, v)
	}
	if depth == 0 {
		return
	}
	for _, s := range e.order {
		e.children[s].walk(append(path, s), depth-1, fn)
	}
}

// Subsequence returns the values whose path contains the segments of
// path in order, not necessarily adjacent, and ends with the last one.
// ["#ns", ".m"] finds ["#ns", ".m"] and ["#ns", "#inner", ".m"].
func (t *Tree[V]) Subsequence(path []string) []Match[V] {
	if len(path) == 0 {
		return nil
	}
	seen := make(map[*entry[V]]bool)
	var out []Match[V]
	var visit func(e *entry[V], at []string, rest []string)
	visit = func(e *entry[V], at []string, rest []string) {
		for _, s := range e.order {
			child := e.children[s]
			p := append(at[:len(at):len(at)], s)
			if s == rest[0] {
				if len(rest) == 1 {
					if !seen[child] {
						seen[child] = true
						for _, v := range child.values {
							out = append(out, Match[V]{Path: p, Value: v})
						}
					}
				} else {
					visit(child, p, rest[1:])
				}
			}
			visit(child, p, rest)
		}
	}
	visit(&t.root, nil, path)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Path) < len(out[j].Path)
	})
	return out
}

// Paths lists every path holding at least one value.
func (t *Tree[V]) Paths() [][]string {
	var out [][]string
	t.root.walk(nil, -1, func(p []string, _ V) {
		if n := len(out); n > 0 && slices.Equal(out[n-1], p) {
			return
		}
		out = append(out, slices.Clone(p))
	})
	return out
}
