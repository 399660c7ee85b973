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

// Package pdfdraw renders PDF pages into the pixel bands of the
// printing driver.
//
// Each page is parsed once per band: re-running the content stream
// with a band-specific transform trades repeated parsing for bounded
// memory, which is what the banded driver needs for large pages at
// high resolutions.
package pdfdraw

import (
	"fmt"
	"os"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/reader"

	"seehuhn.de/go/printraster"
)

// Renderer renders the pages of one PDF document.  It implements
// printraster.Renderer.
type Renderer struct {
	getter   pdf.Getter
	reader   *reader.Reader
	numPages int

	// destination page size in points
	pageWidth  float64
	pageHeight float64

	painter *painter
	closer  *os.File
}

// Open opens a PDF file for rendering onto pages of the given size in
// points.
func Open(fname string, pageWidth, pageHeight float64) (*Renderer, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	r, err := pdf.NewReader(f, nil)
	if err != nil {
		f.Close()
		return nil, err
	}
	rend, err := New(r, pageWidth, pageHeight)
	if err != nil {
		f.Close()
		return nil, err
	}
	rend.closer = f
	return rend, nil
}

// New creates a renderer for an already opened PDF document.
func New(r pdf.Getter, pageWidth, pageHeight float64) (*Renderer, error) {
	numPages, err := pagetree.NumPages(r)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		getter:     r,
		reader:     reader.New(r, nil),
		numPages:   numPages,
		pageWidth:  pageWidth,
		pageHeight: pageHeight,
	}, nil
}

// NumPages returns the number of pages in the document.
func (r *Renderer) NumPages() int {
	return r.numPages
}

// Close releases the underlying file, if the renderer opened one.
func (r *Renderer) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Page loads page number pageNo (1-based).
func (r *Renderer) Page(pageNo int) (printraster.Page, error) {
	pageDict, err := pagetree.GetPage(r.getter, pageNo-1)
	if err != nil {
		return nil, err
	}

	content, err := r.contentTransform(pageDict)
	if err != nil {
		return nil, err
	}

	return &page{rend: r, dict: pageDict, content: content}, nil
}

// contentTransform computes the matrix placing the page's content on
// the destination page: the MediaBox, rotated according to the page's
// Rotate entry, is centered on the destination page and scaled down
// if it does not fit.  Content is never scaled up.
func (r *Renderer) contentTransform(pageDict pdf.Object) (matrix.Matrix, error) {
	dict, err := pdf.GetDictTyped(r.getter, pageDict, "Page")
	if err != nil {
		return matrix.Identity, err
	}

	mediaBox, err := pdf.GetArray(r.getter, dict["MediaBox"])
	if err != nil {
		return matrix.Identity, err
	}
	if len(mediaBox) < 4 {
		return matrix.Identity, fmt.Errorf("missing or invalid MediaBox")
	}
	var corner [4]float64
	for i := 0; i < 4; i++ {
		num, err := pdf.GetNumber(r.getter, mediaBox[i])
		if err != nil {
			return matrix.Identity, err
		}
		corner[i] = float64(num)
	}
	llx, lly := corner[0], corner[1]
	boxW := corner[2] - corner[0]
	boxH := corner[3] - corner[1]
	if boxW <= 0 || boxH <= 0 {
		return matrix.Identity, fmt.Errorf("empty MediaBox")
	}

	rotate := 0
	if num, err := pdf.GetNumber(r.getter, dict["Rotate"]); err == nil {
		rotate = ((int(num) % 360) + 360) % 360
	}

	// move the lower left corner of the MediaBox to the origin, then
	// rotate into display orientation
	m := matrix.Translate(-llx, -lly)
	w, h := boxW, boxH
	switch rotate {
	case 90:
		m = m.Mul(matrix.Matrix{0, -1, 1, 0, 0, boxW})
		w, h = boxH, boxW
	case 180:
		m = m.Mul(matrix.Matrix{-1, 0, 0, -1, boxW, boxH})
	case 270:
		m = m.Mul(matrix.Matrix{0, 1, -1, 0, boxH, 0})
		w, h = boxH, boxW
	}

	scale := 1.0
	if s := r.pageWidth / w; s < scale {
		scale = s
	}
	if s := r.pageHeight / h; s < scale {
		scale = s
	}

	fit := matrix.Matrix{
		scale, 0, 0, scale,
		(r.pageWidth - scale*w) / 2,
		(r.pageHeight - scale*h) / 2,
	}
	return m.Mul(fit), nil
}

type page struct {
	rend    *Renderer
	dict    pdf.Object
	content matrix.Matrix
}

func (p *page) Render(band *printraster.Band, m matrix.Matrix) error {
	r := p.rend
	if r.painter == nil || r.painter.width != band.Width ||
		r.painter.height != band.Height {
		r.painter = newPainter(r.reader, band.Width, band.Height)
	}
	r.painter.reset()

	r.reader.Reset()
	r.painter.install()

	if err := r.reader.ParsePage(p.dict, p.content.Mul(m)); err != nil {
		return err
	}

	band.FromRGBA(r.painter.img)
	return nil
}

func (p *page) Close() error {
	return nil
}
