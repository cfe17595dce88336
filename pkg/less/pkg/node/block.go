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

package node

// Block is an ordered sequence of rules. Splice may change the length while
// a caller iterates by index, so loops must re-read Len on every step.
type Block struct {
	Position
	Rules   []Node
	version int
}

func (*Block) Kind() Kind { return KindBlock }

func NewBlock(p Position, rules ...Node) *Block {
	return &Block{Position: p, Rules: rules}
}

func (b *Block) Len() int {
	return len(b.Rules)
}

func (b *Block) At(i int) Node {
	return b.Rules[i]
}

func (b *Block) Append(nn ...Node) {
	b.Rules = append(b.Rules, nn...)
	b.version++
}

// Splice replaces count rules starting at start with nn. Rules before
// start keep their index.
func (b *Block) Splice(start, count int, nn ...Node) {
	if start < 0 || start > len(b.Rules) {
		panic("node: splice start out of range")
	}
	if start+count > len(b.Rules) {
		count = len(b.Rules) - start
	}
	delta := len(nn) - count
	switch {
	case delta == 0:
		copy(b.Rules[start:], nn)
	case delta < 0:
		copy(b.Rules[start:], nn)
		copy(b.Rules[start+len(nn):], b.Rules[start+count:])
		for i := len(b.Rules) + delta; i < len(b.Rules); i++ {
			b.Rules[i] = nil
		}
		b.Rules = b.Rules[:len(b.Rules)+delta]
	default:
		out := make([]Node, 0, len(b.Rules)+delta)
		out = append(out, b.Rules[:start]...)
		out = append(out, nn...)
		out = append(out, b.Rules[start+count:]...)
		b.Rules = out
	}
	b.version++
}

// Version changes on every mutation, callers use it to invalidate derived
// indexes.
func (b *Block) Version() int {
	return b.version
}
