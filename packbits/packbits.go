// seehuhn.de/go/printraster - convert rendered document pages to printer formats
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package packbits implements the PackBits-style run-length encoding
// used by HP PCL raster graphics (compression mode 2).
//
// The encoded stream is a sequence of runs, each introduced by a
// control byte c:
//
//	0x00 … 0x7f: the next c+1 bytes are literal data
//	0x81 … 0xff: the next byte is repeated 257-c times
//	0x80:        no-op
//
// Runs never exceed 127 repeats or 127 literal bytes.
package packbits

import "errors"

// ErrTruncated is returned by AppendDecoded when the encoded data ends
// in the middle of a run.
var ErrTruncated = errors.New("truncated PackBits stream")

// MaxEncodedLen returns the worst-case encoded size for n input bytes.
// In the worst case every input byte becomes a literal run of one.
func MaxEncodedLen(n int) int {
	return 2*n + 2
}

// AppendEncoded appends the PackBits encoding of src to dst and returns
// the extended slice.
func AppendEncoded(dst, src []byte) []byte {
	for len(src) > 0 {
		if len(src) == 1 {
			// single byte on the end
			dst = append(dst, 0x00, src[0])
			break
		}

		if src[0] == src[1] {
			// repeated sequence
			count := 2
			for count < len(src) && count < 127 && src[count] == src[0] {
				count++
			}
			dst = append(dst, byte(257-count), src[0])
			src = src[count:]
			continue
		}

		// non-repeated sequence; stop one byte early so that a
		// trailing pair starts a new repeated run
		count := 1
		for count < len(src)-1 && count < 127 && src[count] != src[count+1] {
			count++
		}
		dst = append(dst, byte(count-1))
		dst = append(dst, src[:count]...)
		src = src[count:]
	}
	return dst
}

// AppendDecoded appends the decoded form of the PackBits stream src to
// dst and returns the extended slice.
func AppendDecoded(dst, src []byte) ([]byte, error) {
	for len(src) > 0 {
		c := src[0]
		src = src[1:]
		switch {
		case c <= 0x7f:
			n := int(c) + 1
			if len(src) < n {
				return dst, ErrTruncated
			}
			dst = append(dst, src[:n]...)
			src = src[n:]
		case c == 0x80:
			// no-op
		default:
			if len(src) < 1 {
				return dst, ErrTruncated
			}
			n := 257 - int(c)
			for i := 0; i < n; i++ {
				dst = append(dst, src[0])
			}
			src = src[1:]
		}
	}
	return dst, nil
}
