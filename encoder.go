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

	"seehuhn.de/go/printraster/dither"
	"seehuhn.de/go/printraster/pcl"
	"seehuhn.de/go/printraster/raster"
)

// Encoder is one output format of the rendering driver.  The driver
// calls StartPage, then WriteLine for every device row inside the
// window, then EndPage, for each page of the job, and finally Close.
type Encoder interface {
	// StartPage begins page number page (1-based).
	StartPage(h *raster.PageHeader, page int) error

	// Window returns the device pixel region transmitted for the
	// current page: rows top <= y < bottom, columns left <= x < right.
	Window() (left, top, right, bottom int)

	// WriteLine writes the scanline for device row y.  The line
	// covers the columns of the window, in the packed pixel format of
	// the page header, except that 1-bit formats receive one 8-bit
	// gray sample per pixel and dither internally.
	WriteLine(y int, line []byte) error

	// EndPage finishes the current page.
	EndPage() error

	// Close finishes the output stream.  It does not close the
	// underlying writer.
	Close() error
}

// NewEncoder returns the encoder for the output format of p, writing
// to w.
func NewEncoder(w io.Writer, p *Parameters) Encoder {
	if p.Format == FormatPCL {
		enc := pcl.NewEncoder(w, int(p.Header.Integer[raster.PWGTotalPageCount]))
		enc.SetDither(p.Dither)
		return enc
	}

	format := raster.PWG
	if p.Format == FormatApple {
		format = raster.Apple
	}
	return &rasterOutput{
		enc:    raster.NewEncoder(w, format),
		params: p,
	}
}

// rasterOutput adapts the raster stream encoder to the driver's
// Encoder interface: it selects the front or back header by page
// parity and dithers 1-bit pages.
type rasterOutput struct {
	enc    *raster.Encoder
	params *Parameters

	h   *raster.PageHeader
	out []byte // packed row scratch for 1-bit output
}

func (r *rasterOutput) StartPage(h *raster.PageHeader, page int) error {
	r.h = h
	if h.CUPSBitsPerPixel == 1 && r.out == nil {
		r.out = make([]byte, h.CUPSBytesPerLine)
	}
	return r.enc.WriteHeader(h)
}

func (r *rasterOutput) Window() (left, top, right, bottom int) {
	return 0, 0, int(r.h.CUPSWidth), int(r.h.CUPSHeight)
}

func (r *rasterOutput) WriteLine(y int, line []byte) error {
	if r.h.CUPSBitsPerPixel != 1 {
		return r.enc.WriteLine(line)
	}

	pol := dither.BlackIsOne
	if r.h.CUPSColorSpace == raster.ColorSpacesGray {
		pol = dither.WhiteIsOne
	}
	r.params.Dither.Reduce(r.out, line, y, 0, pol)
	return r.enc.WriteLine(r.out)
}

func (r *rasterOutput) EndPage() error {
	return nil
}

func (r *rasterOutput) Close() error {
	return r.enc.Close()
}
