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

// Package pcl encodes monochrome HP PCL raster output for laser
// printers.
//
// PCL pages are 1-bit bitmaps produced by ordered dithering of 8-bit
// gray scanlines.  Unlike the raster formats, PCL does not image the
// full sheet: each page has hardware margins, and only the scanlines
// and columns inside the clip window returned by [Encoder.Window] are
// transmitted.  Blank scanlines are skipped using the relative
// vertical move command instead of being sent.
package pcl

import (
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/printraster/dither"
	"seehuhn.de/go/printraster/packbits"
	"seehuhn.de/go/printraster/raster"
)

var (
	errNoPage   = errors.New("WriteLine called before StartPage")
	errLineSize = errors.New("scanline does not match clip window width")
)

// mediaCodes maps the page length, rounded to whole points, to the
// PCL page size code sent with the "&l#A" command.  Sizes not in the
// table are left to the printer default.
var mediaCodes = map[int]int{
	540:  80,  // Monarch envelope
	595:  25,  // A5
	624:  90,  // DL envelope
	649:  91,  // C5 envelope
	684:  81,  // COM-10 envelope
	709:  100, // B5 envelope
	756:  1,   // Executive
	792:  2,   // US Letter
	842:  26,  // A4
	1008: 3,   // US Legal
	1191: 27,  // A3
	1224: 6,   // Tabloid
}

// Encoder writes a PCL print job to an output stream.  Pages are
// numbered from 1; in duplex jobs odd pages are front sides.
type Encoder struct {
	w      io.Writer
	pages  int // total pages in the job
	matrix *dither.Matrix

	wroteReset bool

	h    *raster.PageHeader
	page int

	left, top     int
	right, bottom int

	blanks int
	out    []byte // dithered scanline
	comp   []byte // compression scratch
}

// NewEncoder returns an encoder writing a PCL job to w.  totalPages is
// the number of pages the job will contain, including repeated copies;
// the encoder needs it to decide whether a duplex page is followed by
// its back side.
func NewEncoder(w io.Writer, totalPages int) *Encoder {
	return &Encoder{
		w:      w,
		pages:  totalPages,
		matrix: dither.Ordered(),
	}
}

// SetDither replaces the threshold matrix used to reduce gray
// scanlines to one bit.  The default is the ordered matrix; bi-level
// output uses dither.Uniform(127).
func (e *Encoder) SetDither(m *dither.Matrix) {
	e.matrix = m
}

// StartPage begins page number page (1-based).  The header gives the
// page geometry; only HorizDPI, VertDPI, CUPSWidth, CUPSHeight,
// PageSize, Duplex and Tumble are used.
func (e *Encoder) StartPage(h *raster.PageHeader, page int) error {
	if !e.wroteReset {
		if err := e.print("\033E"); err != nil {
			return err
		}
		e.wroteReset = true
	}

	e.h = h
	e.page = page

	xdpi := int(h.HorizDPI)
	ydpi := int(h.VertDPI)
	// metric sizes give fractional point lengths, A4 is 841.89
	length := int(h.PageSize[1] + 0.5)

	// 1/6" top and bottom margins; A4 gets side margins exposing an
	// 8 inch print area, everything else 1/4".
	e.top = ydpi / 6
	e.bottom = int(h.CUPSHeight) - ydpi/6
	if length == 842 {
		e.left = (int(h.CUPSWidth) - 8*xdpi) / 2
		e.right = e.left + 8*xdpi
	} else {
		e.left = xdpi / 4
		e.right = int(h.CUPSWidth) - xdpi/4
	}

	if !h.Duplex || page%2 == 1 {
		// Front side or simplex: 12 LPI, 10 CPI, portrait.
		if err := e.print("\033&l12D\033&k12H"); err != nil {
			return err
		}
		if err := e.print("\033&l0O"); err != nil {
			return err
		}
		if code, ok := mediaCodes[length]; ok {
			if err := e.print("\033&l%dA", code); err != nil {
				return err
			}
		}
		// Top margin in lines, perforation skip off.
		if err := e.print("\033&l%dE\033&l0L", 12*e.top/ydpi); err != nil {
			return err
		}
		if h.Duplex {
			mode := 1
			if h.Tumble {
				mode = 2
			}
			if err := e.print("\033&l%dS", mode); err != nil {
				return err
			}
		}
	} else {
		// Print on the back side of the current sheet.
		if err := e.print("\033&a2G"); err != nil {
			return err
		}
	}

	if err := e.print("\033*t%dR", xdpi); err != nil {
		return err
	}
	if err := e.print("\033*r%dS", e.right-e.left); err != nil {
		return err
	}
	if err := e.print("\033*r%dT", e.bottom-e.top); err != nil {
		return err
	}
	if err := e.print("\033&a0H\033&a%dV", 720*e.top/ydpi); err != nil {
		return err
	}

	// PackBits compression, start graphics.
	if err := e.print("\033*b2M"); err != nil {
		return err
	}
	if err := e.print("\033*r1A"); err != nil {
		return err
	}

	e.blanks = 0
	n := (e.right - e.left + 7) / 8
	if cap(e.out) < n {
		e.out = make([]byte, n)
	}
	e.out = e.out[:n]
	if cap(e.comp) < packbits.MaxEncodedLen(n) {
		e.comp = make([]byte, 0, packbits.MaxEncodedLen(n))
	}
	return nil
}

// Window returns the clip window of the current page in device pixels.
// Only scanlines top <= y < bottom are transmitted, and each scanline
// covers the columns left <= x < right.
func (e *Encoder) Window() (left, top, right, bottom int) {
	return e.left, e.top, e.right, e.bottom
}

// WriteLine encodes one scanline.  y is the device line number and
// line holds the 8-bit gray samples for the columns of the clip
// window, right-left bytes with white as 255.
func (e *Encoder) WriteLine(y int, line []byte) error {
	if e.h == nil {
		return errNoPage
	}
	if len(line) != e.right-e.left {
		return errLineSize
	}

	if line[0] == 255 && allEqual(line) {
		e.blanks++
		return nil
	}
	if e.blanks > 0 {
		if err := e.print("\033*b%dY", e.blanks); err != nil {
			return err
		}
		e.blanks = 0
	}

	n := e.matrix.Reduce(e.out, line, y, e.left, dither.BlackIsOne)

	e.comp = packbits.AppendEncoded(e.comp[:0], e.out[:n])
	if err := e.print("\033*b%dW", len(e.comp)); err != nil {
		return err
	}
	_, err := e.w.Write(e.comp)
	return err
}

// EndPage ends the current page.  Trailing blank lines are dropped.
// The formfeed is suppressed on the front side of a duplex sheet when
// another page follows, so that the back side lands on the same sheet.
func (e *Encoder) EndPage() error {
	if e.h == nil {
		return errNoPage
	}
	if err := e.print("\033*r0B"); err != nil {
		return err
	}
	if !(e.h.Duplex && e.page%2 == 1 && e.page < e.pages) {
		if err := e.print("\014"); err != nil {
			return err
		}
	}
	e.h = nil
	e.blanks = 0
	return nil
}

// Close ends the job with a printer reset.  It does not close the
// underlying writer.
func (e *Encoder) Close() error {
	if e.h != nil {
		if err := e.EndPage(); err != nil {
			return err
		}
	}
	if !e.wroteReset {
		// empty job
		if err := e.print("\033E"); err != nil {
			return err
		}
	}
	return e.print("\033E")
}

func (e *Encoder) print(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(e.w, format, args...)
	return err
}

func allEqual(line []byte) bool {
	for _, b := range line[1:] {
		if b != line[0] {
			return false
		}
	}
	return true
}
