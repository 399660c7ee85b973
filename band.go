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

package printraster

import (
	"image"
	"image/color"

	"seehuhn.de/go/printraster/raster"
)

// FromRGBA converts the rendered RGBA image into the band's pixel
// format.  The image must be at least Width by Height pixels;
// renderers which draw with Go's image libraries use this to fill the
// band after drawing.
func (b *Band) FromRGBA(img *image.RGBA) {
	stride := b.Stride()
	for y := 0; y < b.Height; y++ {
		src := img.Pix[y*img.Stride:]
		dst := b.Pixels[y*stride:]

		switch {
		case b.BytesPerPixel == 1:
			for x := 0; x < b.Width; x++ {
				r := uint32(src[4*x])
				g := uint32(src[4*x+1])
				bl := uint32(src[4*x+2])
				// BT.601 luma, as in image/color.GrayModel
				dst[x] = byte((19595*r + 38470*g + 7471*bl + 1<<15) >> 16)
			}
		case b.ColorSpace == raster.ColorSpaceCMYK:
			for x := 0; x < b.Width; x++ {
				c, m, ye, k := color.RGBToCMYK(src[4*x], src[4*x+1], src[4*x+2])
				dst[4*x] = c
				dst[4*x+1] = m
				dst[4*x+2] = ye
				dst[4*x+3] = k
			}
		case b.BytesPerPixel == 4:
			copy(dst[:4*b.Width], src[:4*b.Width])
		case b.BytesPerPixel == 8:
			for x := 0; x < b.Width; x++ {
				for i := 0; i < 4; i++ {
					v := src[4*x+i]
					dst[8*x+2*i] = v
					dst[8*x+2*i+1] = v
				}
			}
		}
	}
}
