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

// Package imagedraw prints a single raster image, scaled and centered
// on the page.
package imagedraw

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/printraster"
)

// Options control how the image is placed on the page.
type Options struct {
	// PageWidth and PageHeight give the page size in points.
	PageWidth  float64
	PageHeight float64

	// Borderless indicates that the page prints without margins.
	Borderless bool

	// Scaling is the IPP "print-scaling" value: "auto", "auto-fit",
	// "fill", "fit" or "none".  An empty value means "auto".
	Scaling string
}

// Renderer places one decoded image on a page.  It implements
// printraster.Renderer with a single page.
type Renderer struct {
	src       *image.RGBA
	placement matrix.Matrix

	img *image.RGBA // band-sized scratch
}

// Open decodes the image file and prepares it for printing.
func Open(fname string, opt *Options) (*Renderer, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return New(f, opt)
}

// New decodes an image from r and prepares it for printing.
func New(r io.Reader, opt *Options) (*Renderer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	src, ok := img.(*image.RGBA)
	if !ok {
		src = image.NewRGBA(img.Bounds())
		draw.Draw(src, src.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	return &Renderer{
		src:       src,
		placement: placement(src.Bounds(), opt),
	}, nil
}

// placement computes the matrix mapping source pixel coordinates
// (origin at the top left corner, y growing down) to page coordinates
// in points (origin at the bottom left corner, y growing up).
func placement(b image.Rectangle, opt *Options) matrix.Matrix {
	w := float64(b.Dx())
	h := float64(b.Dy())

	// flip into y-up image coordinates
	m := matrix.Matrix{1, 0, 0, -1, 0, h}

	// rotate a landscape image onto a portrait page and vice versa
	ew, eh := w, h
	if (w > h) != (opt.PageWidth > opt.PageHeight) {
		m = m.Mul(matrix.Matrix{0, -1, 1, 0, 0, w})
		ew, eh = h, w
	}

	// printable area for scaling decisions
	targetW, targetH := opt.PageWidth, opt.PageHeight
	fill := false
	switch opt.Scaling {
	case "fill":
		fill = true
	case "auto", "":
		fill = opt.Borderless
	}
	if !fill && !opt.Borderless {
		targetW -= 36
		targetH -= 36
	}

	var scale float64
	switch {
	case opt.Scaling == "none":
		// 1/300 inch per pixel, the common photo resolution
		scale = 72.0 / 300
	case fill:
		scale = max(opt.PageWidth/ew, opt.PageHeight/eh)
	default:
		scale = min(targetW/ew, targetH/eh)
	}

	return m.Mul(matrix.Matrix{
		scale, 0, 0, scale,
		(opt.PageWidth - scale*ew) / 2,
		(opt.PageHeight - scale*eh) / 2,
	})
}

// NumPages returns 1.
func (r *Renderer) NumPages() int {
	return 1
}

// Close releases the renderer.
func (r *Renderer) Close() error {
	return nil
}

// Page returns the single page.
func (r *Renderer) Page(pageNo int) (printraster.Page, error) {
	return (*page)(r), nil
}

type page Renderer

func (p *page) Render(band *printraster.Band, m matrix.Matrix) error {
	if p.img == nil || p.img.Bounds().Dx() != band.Width ||
		p.img.Bounds().Dy() != band.Height {
		p.img = image.NewRGBA(image.Rect(0, 0, band.Width, band.Height))
	}
	draw.Draw(p.img, p.img.Bounds(), image.White, image.Point{}, draw.Src)

	t := p.placement.Mul(m)
	dr := f64.Aff3{t[0], t[2], t[4], t[1], t[3], t[5]}
	xdraw.BiLinear.Transform(p.img, dr, p.src, p.src.Bounds(), draw.Over, nil)

	band.FromRGBA(p.img)
	return nil
}

func (p *page) Close() error {
	return nil
}
