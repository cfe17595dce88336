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

// Package stream implements a position tracking cursor over stylesheet
// source text with O(1) mark and restore.
package stream

import (
	"strings"

	"github.com/das7pad/less-go/pkg/less/pkg/recognizer"
)

// EOF is returned by Peek beyond the end of the input.
const EOF byte = 0

type Mark struct {
	index  int
	line   int
	column int
}

func (m Mark) Index() int {
	return m.index
}

type Stream struct {
	raw    string
	index  int
	line   int
	column int
}

func New(raw string) *Stream {
	return &Stream{raw: raw}
}

func (s *Stream) Raw() string {
	return s.raw
}

func (s *Stream) Index() int {
	return s.index
}

// Line is zero based.
func (s *Stream) Line() int {
	return s.line
}

// Column is zero based.
func (s *Stream) Column() int {
	return s.column
}

func (s *Stream) AtEOF() bool {
	return s.index >= len(s.raw)
}

// Peek returns the byte k positions ahead of the cursor.
func (s *Stream) Peek(k int) byte {
	i := s.index + k
	if i < 0 || i >= len(s.raw) {
		return EOF
	}
	return s.raw[i]
}

// Peek0 returns the byte under the cursor.
func (s *Stream) Peek0() byte {
	return s.Peek(0)
}

// Seek advances the cursor by n bytes, tracking lines and columns.
func (s *Stream) Seek(n int) {
	end := s.index + n
	if end > len(s.raw) {
		end = len(s.raw)
	}
	for ; s.index < end; s.index++ {
		if s.raw[s.index] == '\n' {
			s.line++
			s.column = 0
		} else {
			s.column++
		}
	}
}

func (s *Stream) Seek1() {
	s.Seek(1)
}

// SeekTo moves the cursor forward to the absolute offset i.
func (s *Stream) SeekTo(i int) {
	if i > s.index {
		s.Seek(i - s.index)
	}
}

func (s *Stream) Mark() Mark {
	return Mark{index: s.index, line: s.line, column: s.column}
}

func (s *Stream) Restore(m Mark) {
	s.index = m.index
	s.line = m.line
	s.column = m.column
}

// Test reports whether r matches at the cursor without consuming input.
func (s *Stream) Test(r recognizer.Recognizer) bool {
	return r.Match(s.raw, s.index, len(s.raw)) != recognizer.FAIL
}

// Match consumes a match of r and returns the matched text.
func (s *Stream) Match(r recognizer.Recognizer) (string, bool) {
	end := r.Match(s.raw, s.index, len(s.raw))
	if end == recognizer.FAIL {
		return "", false
	}
	start := s.index
	s.Seek(end - start)
	return s.raw[start:end], true
}

// SeekIf consumes the literal v when it is next in the input.
func (s *Stream) SeekIf(v string) bool {
	if strings.HasPrefix(s.raw[s.index:], v) {
		s.Seek(len(v))
		return true
	}
	return false
}

func (s *Stream) SkipWhitespace() int {
	start := s.index
	for s.index < len(s.raw) && recognizer.IsWhitespace(s.raw[s.index]) {
		s.Seek1()
	}
	return s.index - start
}

// SkipComments skips line and block comments. Block comments are
// returned when keepBlock is set.
func (s *Stream) SkipComments(keepBlock bool) []Comment {
	var out []Comment
	for {
		c, ok := s.skipComment()
		if !ok {
			return out
		}
		if keepBlock && c.Block {
			out = append(out, c)
		}
	}
}

// SkipWS skips any run of whitespace and comments and reports whether
// anything was skipped.
func (s *Stream) SkipWS() bool {
	start := s.index
	for {
		n := s.SkipWhitespace()
		if _, ok := s.skipComment(); !ok && n == 0 {
			break
		}
	}
	return s.index != start
}

type Comment struct {
	Body   string
	Block  bool
	Line   int
	Column int
}

func (s *Stream) skipComment() (Comment, bool) {
	if s.Peek0() != '/' {
		return Comment{}, false
	}
	c := Comment{Line: s.line, Column: s.column}
	switch s.Peek(1) {
	case '/':
		end := strings.IndexByte(s.raw[s.index:], '\n')
		if end == -1 {
			end = len(s.raw) - s.index
		}
		c.Body = s.raw[s.index+2 : s.index+end]
		s.Seek(end)
		return c, true
	case '*':
		end := strings.Index(s.raw[s.index+2:], "*/")
		if end == -1 {
			return Comment{}, false
		}
		c.Block = true
		c.Body = s.raw[s.index+2 : s.index+2+end]
		s.Seek(end + 4)
		return c, true
	}
	return Comment{}, false
}

// Remainder returns the unconsumed input.
func (s *Stream) Remainder() string {
	return s.raw[s.index:]
}

// Slice returns the raw text between the offset start and the cursor.
func (s *Stream) Slice(start int) string {
	return s.raw[start:s.index]
}
