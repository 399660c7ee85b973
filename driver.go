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
	"io"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/printraster/raster"
	"seehuhn.de/go/printraster/scanline"
)

// DefaultMaxBandBytes is the default ceiling for the band buffer
// size.  Pages whose full pixel data would exceed the ceiling are
// rendered in several horizontal bands.
const DefaultMaxBandBytes = 16 * 1024 * 1024

// Band is a horizontal strip of device pixels which the renderer
// draws into.  Row 0 of the buffer corresponds to device row Y, with
// rows running down the page.
type Band struct {
	Pixels []byte
	Y      int // device row of the first buffer row
	Height int // number of rows
	Width  int // pixels per row

	// The pixel format of the buffer: 1 byte for gray, 4 bytes for
	// RGBX and CMYK, 8 bytes for 16-bit RGBX.
	BytesPerPixel int
	ColorSpace    uint32
}

// Stride returns the number of buffer bytes per row.
func (b *Band) Stride() int {
	return b.Width * b.BytesPerPixel
}

// Renderer supplies document pages to the rendering driver.
type Renderer interface {
	// NumPages returns the number of pages in the document.
	NumPages() int

	// Page loads page number pageNo (1-based).
	Page(pageNo int) (Page, error)
}

// Page is a single loaded document page.
type Page interface {
	// Render draws the page content into the band.  m maps page
	// coordinates (points, origin at the bottom left corner) to band
	// pixel coordinates (origin at the top left corner of the band,
	// y growing down).  The band has been filled with white before
	// the call.
	Render(band *Band, m matrix.Matrix) error

	// Close releases the page.
	Close() error
}

// Config holds optional settings for Transform.
type Config struct {
	// MaxBandBytes caps the size of the band buffer.  Zero means
	// DefaultMaxBandBytes.
	MaxBandBytes int

	// FirstPage is the first document page to print (1-based).  Zero
	// means page 1.
	FirstPage int

	// Progress, if non-nil, is called after each page with the
	// running counts of completed impressions and media sheets.
	Progress func(impressions, sheets int)
}

// driver carries the state of one transformation run.
type driver struct {
	p   *Parameters
	r   Renderer
	enc Encoder
	cfg Config

	band     *Band
	fill     byte // band fill value for blank content
	back     matrix.Matrix
	xscale   float64
	yscale   float64
	pageHpix int

	impressions int
	sheets      int
}

// Transform runs the complete job: it renders every page of every
// copy in bands, packs the pixels into the output format, and feeds
// them to the encoder for the output format of p.  Progress and
// memory use are controlled by cfg, which may be nil.
//
// Output is written incrementally; when Transform returns an error
// the bytes already written to w must be discarded.
func Transform(w io.Writer, p *Parameters, r Renderer, cfg *Config) error {
	d := &driver{
		p:   p,
		r:   r,
		enc: NewEncoder(w, p),
	}
	if cfg != nil {
		d.cfg = *cfg
	}
	if d.cfg.MaxBandBytes <= 0 {
		d.cfg.MaxBandBytes = DefaultMaxBandBytes
	}
	if d.cfg.FirstPage < 1 {
		d.cfg.FirstPage = 1
	}

	h := &p.Header
	d.xscale = float64(h.HorizDPI) / 72
	d.yscale = float64(h.VertDPI) / 72
	d.pageHpix = int(h.CUPSHeight)

	bpp := bandBytesPerPixel(h)
	stride := int(h.CUPSWidth) * bpp
	height := d.cfg.MaxBandBytes / stride
	if height < 1 {
		height = 1
	} else if height > d.pageHpix {
		height = d.pageHpix
	}
	d.band = &Band{
		Pixels:        make([]byte, height*stride),
		Height:        height,
		Width:         int(h.CUPSWidth),
		BytesPerPixel: bpp,
		ColorSpace:    h.CUPSColorSpace,
	}
	d.fill = byte(255)
	if h.CUPSColorSpace == raster.ColorSpaceCMYK {
		d.fill = 0
	}

	d.back = matrix.Identity
	if p.Pages > 1 && h.Duplex {
		d.back = BackTransform(p.SheetBack, h.Tumble,
			float64(h.PageSize[0]), float64(h.PageSize[1]))
	}

	for c := 0; c < p.Copies; c++ {
		for page := 1; page <= p.Pages; page++ {
			if err := d.renderPage(page); err != nil {
				return err
			}
		}
		if p.Copies > 1 && p.Pages%2 == 1 && h.Duplex {
			if err := d.blankPage(p.Pages + 1); err != nil {
				return err
			}
		}
	}

	return d.enc.Close()
}

// pageHeader returns the header for the given page number, using the
// back side header for even pages of duplex jobs.
func (d *driver) pageHeader(page int) *raster.PageHeader {
	if d.p.Header.Duplex && page%2 == 0 {
		return &d.p.BackHeader
	}
	return &d.p.Header
}

func (d *driver) renderPage(page int) error {
	pg, err := d.r.Page(d.cfg.FirstPage + page - 1)
	if err != nil {
		return &RenderError{Page: page, Err: err}
	}
	defer pg.Close()

	if err := d.enc.StartPage(d.pageHeader(page), page); err != nil {
		return err
	}
	left, top, right, bottom := d.enc.Window()

	backSide := d.p.Header.Duplex && page%2 == 0

	bandEnd := top
	for y := top; y < bottom; y++ {
		if y >= bandEnd {
			d.band.Y = y
			bandEnd = y + d.band.Height
			if bandEnd > bottom {
				bandEnd = bottom
			}

			fillBytes(d.band.Pixels, d.fill)

			m := matrix.Matrix{
				d.xscale, 0, 0, -d.yscale,
				0, float64(d.pageHpix - d.band.Y),
			}
			if backSide {
				m = d.back.Mul(m)
			}
			if err := pg.Render(d.band, m); err != nil {
				return &RenderError{Page: page, Err: err}
			}
		}

		line := d.packLine(y, left, right)
		if err := d.enc.WriteLine(y, line); err != nil {
			return err
		}
	}

	if err := d.enc.EndPage(); err != nil {
		return err
	}
	d.pageDone(page)
	return nil
}

// packLine converts the band row for device row y into the packed
// format expected by the encoder, in place.
func (d *driver) packLine(y, left, right int) []byte {
	h := d.pageHeader(1)
	bpp := d.band.BytesPerPixel
	stride := d.band.Stride()
	n := right - left
	row := d.band.Pixels[(y-d.band.Y)*stride+left*bpp:]

	switch h.CUPSBitsPerPixel {
	case 24:
		row = row[:4*n]
		scanline.PackRGBX(row, n)
		return row[:3*n]
	case 48:
		row = row[:8*n]
		scanline.PackRGBX16(row, n)
		return row[:6*n]
	case 32:
		return row[:4*n]
	default:
		row = row[:n]
		if h.CUPSColorSpace == raster.ColorSpaceBlack && h.CUPSBitsPerPixel >= 8 {
			scanline.InvertGray(row, n)
		}
		return row
	}
}

// blankPage emits a synthetic white back page so that the next copy
// of a duplex job starts on a new sheet.
func (d *driver) blankPage(page int) error {
	if err := d.enc.StartPage(d.pageHeader(page), page); err != nil {
		return err
	}
	left, top, right, bottom := d.enc.Window()

	// one white row, packed once and reused for every scanline
	stride := d.band.Stride()
	fillBytes(d.band.Pixels[:stride], d.fill)
	d.band.Y = top
	line := d.packLine(top, left, right)

	for y := top; y < bottom; y++ {
		if err := d.enc.WriteLine(y, line); err != nil {
			return err
		}
	}

	if err := d.enc.EndPage(); err != nil {
		return err
	}
	d.pageDone(page)
	return nil
}

func (d *driver) pageDone(page int) {
	d.impressions++
	if !d.p.Header.Duplex || page%2 == 0 {
		d.sheets++
	}
	if d.cfg.Progress != nil {
		d.cfg.Progress(d.impressions, d.sheets)
	}
}

// bandBytesPerPixel returns the band buffer pixel size for the output
// pixel format: rendered bands use one byte per gray sample, RGBX for
// 24-bit color, CMYK for 32-bit color, and 16-bit RGBX for 48-bit
// color.
func bandBytesPerPixel(h *raster.PageHeader) int {
	switch {
	case h.CUPSBitsPerPixel <= 8:
		return 1
	case h.CUPSBitsPerPixel == 48:
		return 8
	default:
		return 4
	}
}

func fillBytes(buf []byte, v byte) {
	for i := range buf {
		buf[i] = v
	}
}
