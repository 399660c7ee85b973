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

// Package scanline converts rendered scanlines between the pixel
// layouts produced by renderers and the tightly packed layouts the
// output encoders expect.
//
// Renderers draw into band buffers with a padding byte per pixel
// (RGBX or RGBX16), because that is what image libraries produce
// efficiently.  The raster wire formats carry plain RGB.  All
// conversions work in place, narrowing the row.
package scanline

// PackRGBX packs n RGBX pixels (4 bytes each) into RGB (3 bytes each).
// The row is modified in place; only the first 3*n bytes are
// meaningful afterwards.
func PackRGBX(row []byte, n int) {
	src := 0
	dst := 0
	for i := 0; i < n; i++ {
		row[dst] = row[src]
		row[dst+1] = row[src+1]
		row[dst+2] = row[src+2]
		src += 4
		dst += 3
	}
}

// PackRGBX16 packs n RGBX pixels with 16 bits per component (8 bytes
// each) into 16-bit RGB (6 bytes each), in place.
func PackRGBX16(row []byte, n int) {
	src := 0
	dst := 0
	for i := 0; i < n; i++ {
		copy(row[dst:dst+6], row[src:src+6])
		src += 8
		dst += 6
	}
}

// InvertGray inverts n single-byte gray samples in place.  Black
// ("K") output uses 0 for white and 255 for full ink, the opposite of
// the luminance samples renderers produce.
func InvertGray(row []byte, n int) {
	for i := 0; i < n; i++ {
		row[i] = ^row[i]
	}
}
