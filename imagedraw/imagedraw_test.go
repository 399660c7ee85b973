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

package imagedraw

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/printraster"
	"seehuhn.de/go/printraster/raster"
)

func apply(m matrix.Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestPlacementFit checks scale-to-fit placement: the image is scaled
// into the page minus half-inch margins and centered.
func TestPlacementFit(t *testing.T) {
	opt := &Options{PageWidth: 612, PageHeight: 792, Scaling: "fit"}
	m := placement(image.Rect(0, 0, 100, 150), opt)

	// scale = min(576/100, 756/150) = 5.04, centered
	x, y := apply(m, 0, 0) // top left corner of the image
	if !near(x, 54) || !near(y, 774) {
		t.Errorf("top left at (%g, %g), want (54, 774)", x, y)
	}
	x, y = apply(m, 100, 150) // bottom right corner
	if !near(x, 558) || !near(y, 18) {
		t.Errorf("bottom right at (%g, %g), want (558, 18)", x, y)
	}
}

// TestPlacementFill checks that borderless auto placement scales the
// image to cover the full page.
func TestPlacementFill(t *testing.T) {
	opt := &Options{PageWidth: 612, PageHeight: 792, Borderless: true}
	m := placement(image.Rect(0, 0, 100, 150), opt)

	// scale = max(612/100, 792/150) = 6.12; the image overflows
	// vertically and is centered
	x, y := apply(m, 0, 0)
	if !near(x, 0) || !near(y, (792+150*6.12)/2) {
		t.Errorf("top left at (%g, %g)", x, y)
	}
	x, _ = apply(m, 100, 0)
	if !near(x, 612) {
		t.Errorf("right edge at %g, want 612", x)
	}
}

// TestPlacementRotate checks that a landscape image turns 90 degrees
// on a portrait page.
func TestPlacementRotate(t *testing.T) {
	opt := &Options{PageWidth: 612, PageHeight: 792, Scaling: "fit"}
	m := placement(image.Rect(0, 0, 200, 100), opt)

	// rotated size 100x200, scale = min(576/100, 756/200) = 3.78
	x0, y0 := apply(m, 0, 0)
	x1, y1 := apply(m, 200, 100)
	w := math.Abs(x1 - x0)
	h := math.Abs(y1 - y0)
	if !near(w, 378) || !near(h, 756) {
		t.Errorf("rotated image spans %gx%g, want 378x756", w, h)
	}
}

func TestPlacementNone(t *testing.T) {
	opt := &Options{PageWidth: 612, PageHeight: 792, Scaling: "none"}
	m := placement(image.Rect(0, 0, 300, 300), opt)

	// 300 pixels render as one inch
	x0, _ := apply(m, 0, 0)
	x1, _ := apply(m, 300, 0)
	if !near(x1-x0, 72) {
		t.Errorf("image spans %g points, want 72", x1-x0)
	}
}

// TestRender draws a black/white image one-to-one into a band and
// checks the gray samples.
func TestRender(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= 5 {
				c = color.RGBA{255, 255, 255, 255}
			}
			src.Set(x, y, c)
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, src); err != nil {
		t.Fatal(err)
	}

	// page size equal to the image, so that the placement is the
	// identity apart from the flip
	rend, err := New(buf, &Options{PageWidth: 10, PageHeight: 10, Scaling: "fill"})
	if err != nil {
		t.Fatal(err)
	}
	if rend.NumPages() != 1 {
		t.Errorf("NumPages = %d", rend.NumPages())
	}

	pg, err := rend.Page(1)
	if err != nil {
		t.Fatal(err)
	}
	band := &printraster.Band{
		Pixels:        make([]byte, 10*10),
		Height:        10,
		Width:         10,
		BytesPerPixel: 1,
		ColorSpace:    raster.ColorSpacesGray,
	}
	m := matrix.Matrix{1, 0, 0, -1, 0, 10} // page points to band pixels
	if err := pg.Render(band, m); err != nil {
		t.Fatal(err)
	}

	if v := band.Pixels[5*10+2]; v > 32 {
		t.Errorf("left half sample %d, want near black", v)
	}
	if v := band.Pixels[5*10+7]; v < 224 {
		t.Errorf("right half sample %d, want near white", v)
	}
}
