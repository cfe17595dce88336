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

// Package recognizer provides allocation free character matching
// primitives. A Recognizer reports the end offset of a match or FAIL. It
// never keeps state between calls, so recognizers are safe to share and to
// call speculatively.
package recognizer

import (
	"strings"
)

// FAIL is returned by Match when the input does not match.
const FAIL = -1

type Recognizer interface {
	Match(s string, pos, end int) int
}

type literal string

func (r literal) Match(s string, pos, end int) int {
	n := len(r)
	if end-pos < n {
		return FAIL
	}
	if s[pos:pos+n] != string(r) {
		return FAIL
	}
	return pos + n
}

// Literal matches the exact string v.
func Literal(v string) Recognizer {
	return literal(v)
}

type foldLiteral string

func (r foldLiteral) Match(s string, pos, end int) int {
	n := len(r)
	if end-pos < n {
		return FAIL
	}
	if !strings.EqualFold(s[pos:pos+n], string(r)) {
		return FAIL
	}
	return pos + n
}

// LiteralFold matches v ignoring ASCII case.
func LiteralFold(v string) Recognizer {
	return foldLiteral(v)
}

type char byte

func (r char) Match(s string, pos, end int) int {
	if pos < end && s[pos] == byte(r) {
		return pos + 1
	}
	return FAIL
}

// Char matches the single byte c.
func Char(c byte) Recognizer {
	return char(c)
}

type charSet [256]bool

func (r *charSet) Match(s string, pos, end int) int {
	if pos < end && r[s[pos]] {
		return pos + 1
	}
	return FAIL
}

// CharSet matches any one byte of chars.
func CharSet(chars string) Recognizer {
	r := &charSet{}
	for i := 0; i < len(chars); i++ {
		r[chars[i]] = true
	}
	return r
}

type charRange struct {
	lo, hi byte
}

func (r charRange) Match(s string, pos, end int) int {
	if pos < end && s[pos] >= r.lo && s[pos] <= r.hi {
		return pos + 1
	}
	return FAIL
}

// Range matches one byte in [lo, hi].
func Range(lo, hi byte) Recognizer {
	return charRange{lo: lo, hi: hi}
}

// Class matches one byte accepted by fn.
type Class func(c byte) bool

func (r Class) Match(s string, pos, end int) int {
	if pos < end && r(s[pos]) {
		return pos + 1
	}
	return FAIL
}

type anyChar struct{}

func (anyChar) Match(_ string, pos, end int) int {
	if pos < end {
		return pos + 1
	}
	return FAIL
}

// Any matches any one byte.
func Any() Recognizer {
	return anyChar{}
}

type lookahead struct {
	r      Recognizer
	negate bool
}

func (r lookahead) Match(s string, pos, end int) int {
	ok := r.r.Match(s, pos, end) != FAIL
	if ok != r.negate {
		return pos
	}
	return FAIL
}

// Lookahead succeeds without consuming input when r matches at pos.
func Lookahead(r Recognizer) Recognizer {
	return lookahead{r: r}
}

// NotLookahead succeeds without consuming input when r does not match.
func NotLookahead(r Recognizer) Recognizer {
	return lookahead{r: r, negate: true}
}

type sequence []Recognizer

func (r sequence) Match(s string, pos, end int) int {
	for _, sub := range r {
		pos = sub.Match(s, pos, end)
		if pos == FAIL {
			return FAIL
		}
	}
	return pos
}

// Sequence matches each recognizer in turn and fails on the first
// failure. Earlier matches are never retried.
func Sequence(rr ...Recognizer) Recognizer {
	return sequence(rr)
}

type choice []Recognizer

func (r choice) Match(s string, pos, end int) int {
	for _, sub := range r {
		if n := sub.Match(s, pos, end); n != FAIL {
			return n
		}
	}
	return FAIL
}

// Choice returns the first alternative that matches. This is ordered
// choice, not longest match.
func Choice(rr ...Recognizer) Recognizer {
	return choice(rr)
}

type cardinality struct {
	r        Recognizer
	min, max int
}

func (r cardinality) Match(s string, pos, end int) int {
	n := 0
	for r.max < 0 || n < r.max {
		next := r.r.Match(s, pos, end)
		if next == FAIL {
			break
		}
		n++
		if next == pos {
			// zero width match, repeating it would not terminate
			break
		}
		pos = next
	}
	if n < r.min {
		return FAIL
	}
	return pos
}

// Cardinality matches r greedily between lo and hi times. A negative hi is
// unbounded.
func Cardinality(r Recognizer, lo, hi int) Recognizer {
	return cardinality{r: r, min: lo, max: hi}
}

func ZeroOrOne(r Recognizer) Recognizer {
	return cardinality{r: r, min: 0, max: 1}
}

func ZeroOrMore(r Recognizer) Recognizer {
	return cardinality{r: r, min: 0, max: -1}
}

func OneOrMore(r Recognizer) Recognizer {
	return cardinality{r: r, min: 1, max: -1}
}
