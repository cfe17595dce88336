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

package stream

import (
	"reflect"
	"testing"

	"github.com/das7pad/less-go/pkg/less/pkg/recognizer"
)

func TestStreamPeekPastEnd(t *testing.T) {
	s := New("ab")
	if got := s.Peek(2); got != EOF {
		t.Errorf("Peek(2) = %q, want EOF", got)
	}
	if got := s.Peek(-1); got != EOF {
		t.Errorf("Peek(-1) = %q, want EOF", got)
	}
	s.Seek(10)
	if !s.AtEOF() || s.Index() != 2 {
		t.Errorf("Seek past end: index=%d", s.Index())
	}
}

func TestStreamPositions(t *testing.T) {
	s := New(".a {\n  color: red;\n}")
	s.Seek(7)
	if s.Line() != 1 || s.Column() != 2 {
		t.Errorf("position = %d:%d, want 1:2", s.Line(), s.Column())
	}
	m := s.Mark()
	s.Seek(12)
	if s.Line() != 2 || s.Column() != 0 {
		t.Errorf("position = %d:%d, want 2:0", s.Line(), s.Column())
	}
	s.Restore(m)
	if s.Index() != 7 || s.Line() != 1 || s.Column() != 2 {
		t.Errorf("Restore() = %d %d:%d", s.Index(), s.Line(), s.Column())
	}
}

func TestStreamMatch(t *testing.T) {
	s := New("color: red")
	v, ok := s.Match(recognizer.Identifier)
	if !ok || v != "color" {
		t.Errorf("Match() = %q, %v", v, ok)
	}
	if _, ok = s.Match(recognizer.Identifier); ok {
		t.Errorf("Match() at colon succeeded")
	}
	if s.Index() != 5 {
		t.Errorf("failed Match moved cursor to %d", s.Index())
	}
	if !s.SeekIf(":") || s.Peek0() != ' ' {
		t.Errorf("SeekIf() did not consume colon")
	}
}

func TestStreamSkipComments(t *testing.T) {
	s := New("// line\n/* block */ /* two */.a")
	if !s.SkipWS() {
		t.Fatalf("SkipWS() = false")
	}
	if s.Peek0() != '.' {
		t.Errorf("SkipWS() stopped at %q", s.Remainder())
	}

	s = New("/* keep */// drop\n")
	got := s.SkipComments(true)
	want := []Comment{{Body: " keep ", Block: true, Line: 0, Column: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SkipComments() = %#v, want %#v", got, want)
	}
	if s.Remainder() != "\n" {
		t.Errorf("Remainder() = %q", s.Remainder())
	}
}

func TestStreamUnterminatedComment(t *testing.T) {
	s := New("/* open")
	if s.SkipWS() {
		t.Errorf("SkipWS() consumed an unterminated comment")
	}
}
