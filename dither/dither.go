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

// Package dither reduces 8-bit gray scanlines to 1-bit output using a
// 64×64 ordered threshold matrix.
package dither

// Size is the edge length of the threshold matrix.
const Size = 64

// Matrix is a threshold matrix.  Entry (y%Size, x%Size) is compared
// against the 8-bit sample at device position (x, y).
type Matrix [Size][Size]byte

// Polarity selects which side of the threshold sets a bit in the
// packed output.
type Polarity int

const (
	// BlackIsOne sets a bit for samples at or below the threshold.
	// This is the convention for black_1 output and for PCL, where a
	// set bit deposits toner.
	BlackIsOne Polarity = iota

	// WhiteIsOne sets a bit for samples above the threshold, the
	// convention for sgray_1 output where 1 means white.
	WhiteIsOne
)

var ordered Matrix

func init() {
	// 64×64 Bayer matrix: interleaving the bit-reversed coordinate
	// bits yields thresholds 0…4095, which are then scaled to one
	// byte.  Every threshold value 0…255 occurs exactly 16 times.
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			v := 0
			xc := x ^ y
			yc := y
			for bit := 0; bit < 6; bit++ {
				v <<= 2
				v |= (yc>>bit)&1 | ((xc>>bit)&1)<<1
			}
			ordered[y][x] = byte(v >> 4)
		}
	}
}

// Ordered returns the standard ordered-dither matrix.  The returned
// matrix is shared and must not be modified.
func Ordered() *Matrix {
	return &ordered
}

// Uniform returns a matrix with every threshold set to t.  A uniform
// matrix with t=127 turns dithering into a fixed 50% threshold, used
// for bi-level output.
func Uniform(t byte) *Matrix {
	m := new(Matrix)
	for y := range m {
		for x := range m[y] {
			m[y][x] = t
		}
	}
	return m
}

// Row returns the matrix row used for device line y.
func (m *Matrix) Row(y int) *[Size]byte {
	return &m[y&(Size-1)]
}

// Reduce dithers the 8-bit samples in line into out as a packed 1-bit
// bitmap, most significant bit first.  x0 is the device x coordinate of
// the first sample, which fixes the horizontal phase of the matrix.
// It returns the number of bytes written, (len(line)+7)/8.
func (m *Matrix) Reduce(out, line []byte, y, x0 int, pol Polarity) int {
	row := m.Row(y)

	n := 0
	bit := byte(128)
	var acc byte
	for i, s := range line {
		t := row[(x0+i)&(Size-1)]
		var on bool
		if pol == WhiteIsOne {
			on = s > t
		} else {
			on = s <= t
		}
		if on {
			acc |= bit
		}
		if bit == 1 {
			out[n] = acc
			n++
			acc = 0
			bit = 128
		} else {
			bit >>= 1
		}
	}
	if bit != 128 {
		out[n] = acc
		n++
	}
	return n
}
