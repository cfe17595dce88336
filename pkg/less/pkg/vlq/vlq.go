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

// Package vlq implements the base64 variable length quantities used by
// source map mappings.
package vlq

import (
	"github.com/das7pad/less-go/pkg/errors"
)

const (
	base64 = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

	shift        = 5
	continuation = 1 << shift
	mask         = continuation - 1
)

var decodeTable = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(base64); i++ {
		t[base64[i]] = int8(i)
	}
	return t
}()

var (
	ErrTruncated   = errors.New("vlq: truncated value")
	ErrInvalidChar = errors.New("vlq: invalid base64 character")
)

// Encode appends the encoding of value to b.
func Encode(b []byte, value int) []byte {
	switch value {
	case 0:
		return append(b, 'A')
	case 1:
		return append(b, 'C')
	}
	if value < 0 {
		value = -value<<1 | 1
	} else {
		value <<= 1
	}
	for value > 0 {
		field := value & mask
		value >>= shift
		if value > 0 {
			field |= continuation
		}
		b = append(b, base64[field])
	}
	return b
}

// Decode reads one value from the start of s and returns it together with
// the number of bytes consumed.
func Decode(s string) (int, int, error) {
	value := 0
	for i := 0; i < len(s); i++ {
		field := decodeTable[s[i]]
		if field == -1 {
			return 0, 0, ErrInvalidChar
		}
		value |= int(field&mask) << (shift * i)
		if field&continuation == 0 {
			if value&1 == 1 {
				return -(value >> 1), i + 1, nil
			}
			return value >> 1, i + 1, nil
		}
	}
	return 0, 0, ErrTruncated
}

// DecodeAll decodes a run of values like one mappings segment.
func DecodeAll(s string) ([]int, error) {
	var out []int
	for len(s) > 0 {
		v, n, err := Decode(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		s = s[n:]
	}
	return out, nil
}
