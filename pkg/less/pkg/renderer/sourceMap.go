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

package renderer

import (
	"encoding/base64"
	"encoding/json"
	"path"
	"strings"

	"github.com/das7pad/less-go/pkg/less/pkg/node"
	"github.com/das7pad/less-go/pkg/less/pkg/vlq"
)

type SourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

func (m *SourceMap) JSON() (string, error) {
	blob, err := json.Marshal(m)
	return string(blob), err
}

type sourceMapWriter struct {
	sm       SourceMap
	dir      string
	sourceId map[string]int
	mappings []byte

	genLine    int
	genColumn  int
	lineHasSeg bool
	lastSource int
	lastLine   int
	lastColumn int
}

func newSourceMapWriter(file string) *sourceMapWriter {
	return &sourceMapWriter{
		sm: SourceMap{
			Version: 3,
			File:    file,
			Sources: make([]string, 0, 8),
			Names:   []string{},
		},
		dir:      path.Dir(file),
		sourceId: make(map[string]int),
	}
}

func (w *sourceMapWriter) source(f string) int {
	if id, ok := w.sourceId[f]; ok {
		return id
	}
	id := len(w.sm.Sources)
	w.sourceId[f] = id
	w.sm.Sources = append(w.sm.Sources, f)
	return id
}

func (w *sourceMapWriter) add(line, column int, p node.Position) {
	for w.genLine < line {
		w.mappings = append(w.mappings, ';')
		w.genLine++
		w.genColumn = 0
		w.lineHasSeg = false
	}
	if w.lineHasSeg {
		w.mappings = append(w.mappings, ',')
	}
	id := w.source(p.File)
	w.mappings = vlq.Encode(w.mappings, column-w.genColumn)
	w.mappings = vlq.Encode(w.mappings, id-w.lastSource)
	w.mappings = vlq.Encode(w.mappings, p.Line-1-w.lastLine)
	w.mappings = vlq.Encode(w.mappings, p.Column-1-w.lastColumn)
	w.genColumn = column
	w.lastSource = id
	w.lastLine = p.Line - 1
	w.lastColumn = p.Column - 1
	w.lineHasSeg = true
}

// SourceMap returns the collected source map, or nil when disabled.
// contents maps source files to their text and is optional.
func (b *Buffer) SourceMap(contents map[string]string) *SourceMap {
	if b.sm == nil {
		return nil
	}
	m := b.sm.sm
	m.Sources = make([]string, len(b.sm.sm.Sources))
	for i, f := range b.sm.sm.Sources {
		m.Sources[i] = relativeSource(b.sm.dir, f)
		if contents != nil {
			m.SourcesContent = append(m.SourcesContent, contents[f])
		}
	}
	m.Mappings = string(b.sm.mappings)
	return &m
}

func relativeSource(dir, f string) string {
	if f == "" || dir == "." || !path.IsAbs(f) {
		return f
	}
	if rel, ok := strings.CutPrefix(f, dir+"/"); ok {
		return rel
	}
	return f
}

// InlineSourceMap appends m to css as a base64 data URL comment.
func InlineSourceMap(css string, m string) string {
	const prefix = "\n/*# sourceMappingURL=data:application/json;base64,"
	const suffix = " */"
	enc := base64.StdEncoding
	n := enc.EncodedLen(len(m))
	buf := make([]byte, len(css)+len(prefix)+n+len(suffix))
	idx := copy(buf, css)
	idx += copy(buf[idx:], prefix)
	enc.Encode(buf[idx:], []byte(m))
	idx += n
	copy(buf[idx:], suffix)
	return string(buf)
}
