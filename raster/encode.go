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

package raster

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Format selects the raster stream flavour.
type Format int

const (
	// PWG writes a PWG Raster stream ("RaS2" sync word, CUPS v2 page
	// headers in big-endian byte order).
	PWG Format = iota

	// Apple writes an Apple Raster (URF) stream ("UNIRAST\x00" file
	// header, 32-byte page headers).
	Apple
)

const (
	syncPWG   = "RaS2"
	syncApple = "UNIRAST\x00"
)

var (
	errNoPage   = errors.New("WriteLine called before WriteHeader")
	errLineSize = errors.New("scanline does not match CUPSBytesPerLine")
)

// ErrPageFull is returned when more lines are written to a page than
// its header announced.
var ErrPageFull = errors.New("too many scanlines for page")

// Encoder writes a raster stream, one page header followed by the
// page's scanlines at a time.  Lines are buffered so that consecutive
// identical lines collapse into a single repeated line group.
type Encoder struct {
	w      io.Writer
	format Format

	wroteSync bool
	h         *PageHeader
	bpc       int // bytes per pixel
	perLine   int

	line    []byte // last line of the current group
	repeat  int    // number of buffered copies of line, 0 if none
	written int    // lines written to the current page, including buffered

	buf []byte // encoding scratch
}

// NewEncoder returns an encoder writing a raster stream to w.
func NewEncoder(w io.Writer, format Format) *Encoder {
	return &Encoder{w: w, format: format}
}

// WriteHeader finishes the current page, if any, and starts a new page
// described by h.  The caller must not modify h until the next call to
// WriteHeader or Close.
func (e *Encoder) WriteHeader(h *PageHeader) error {
	if err := e.flushPage(); err != nil {
		return err
	}

	if !e.wroteSync {
		if err := e.writeSync(h); err != nil {
			return err
		}
		e.wroteSync = true
	}

	var err error
	switch e.format {
	case PWG:
		err = e.writePWGHeader(h)
	case Apple:
		err = e.writeAppleHeader(h)
	default:
		err = fmt.Errorf("unknown raster format %d", e.format)
	}
	if err != nil {
		return err
	}

	e.h = h
	e.bpc = h.BytesPerColor()
	e.perLine = int(h.CUPSBytesPerLine)
	if cap(e.line) < e.perLine {
		e.line = make([]byte, e.perLine)
	}
	e.line = e.line[:e.perLine]
	e.repeat = 0
	e.written = 0
	return nil
}

// WriteLine appends one scanline to the current page.  The line must
// be exactly CUPSBytesPerLine bytes long.
func (e *Encoder) WriteLine(line []byte) error {
	if e.h == nil {
		return errNoPage
	}
	if len(line) != e.perLine {
		return errLineSize
	}
	if e.written >= int(e.h.CUPSHeight) {
		return ErrPageFull
	}
	e.written++

	if e.repeat > 0 && e.repeat < 256 && bytes.Equal(line, e.line) {
		e.repeat++
		return nil
	}
	if err := e.flushGroup(); err != nil {
		return err
	}
	copy(e.line, line)
	e.repeat = 1
	return nil
}

// Close finishes the final page.  It does not close the underlying
// writer.
func (e *Encoder) Close() error {
	return e.flushPage()
}

func (e *Encoder) flushPage() error {
	if e.h == nil {
		return nil
	}
	if err := e.flushGroup(); err != nil {
		return err
	}
	if e.written != int(e.h.CUPSHeight) {
		return fmt.Errorf("page has %d scanlines, header announced %d",
			e.written, e.h.CUPSHeight)
	}
	e.h = nil
	return nil
}

// flushGroup writes the buffered line group: one repeat-count byte
// followed by the run-length encoded pixels of the line.
func (e *Encoder) flushGroup() error {
	if e.repeat == 0 {
		return nil
	}

	e.buf = e.buf[:0]
	e.buf = append(e.buf, byte(e.repeat-1))
	e.buf = e.encodeLine(e.buf, e.line)
	e.repeat = 0

	_, err := e.w.Write(e.buf)
	return err
}

// encodeLine appends the run-length encoding of one line to dst.  Runs
// are counted in whole pixels of e.bpc bytes: a control byte 0…127
// repeats the following pixel control+1 times, a control byte 129…255
// introduces 257−control literal pixels.
func (e *Encoder) encodeLine(dst, line []byte) []byte {
	bpc := e.bpc
	n := len(line) / bpc

	pixel := func(i int) []byte { return line[i*bpc : i*bpc+bpc] }

	for pos := 0; pos < n; {
		if pos+1 == n {
			dst = append(dst, 0)
			dst = append(dst, pixel(pos)...)
			break
		}

		if bytes.Equal(pixel(pos), pixel(pos+1)) {
			count := 2
			for pos+count < n && count < 128 &&
				bytes.Equal(pixel(pos+count), pixel(pos)) {
				count++
			}
			dst = append(dst, byte(count-1))
			dst = append(dst, pixel(pos)...)
			pos += count
			continue
		}

		count := 1
		for pos+count < n-1 && count < 128 &&
			!bytes.Equal(pixel(pos+count), pixel(pos+count+1)) {
			count++
		}
		if count == 1 {
			dst = append(dst, 0)
			dst = append(dst, pixel(pos)...)
		} else {
			dst = append(dst, byte(257-count))
			dst = append(dst, line[pos*bpc:(pos+count)*bpc]...)
		}
		pos += count
	}
	return dst
}

func (e *Encoder) writeSync(h *PageHeader) error {
	switch e.format {
	case PWG:
		_, err := io.WriteString(e.w, syncPWG)
		return err
	case Apple:
		var buf [12]byte
		copy(buf[:8], syncApple)
		binary.BigEndian.PutUint32(buf[8:], h.Integer[PWGTotalPageCount])
		_, err := e.w.Write(buf[:])
		return err
	}
	return nil
}

// writeAppleHeader writes the 32-byte URF page header.
func (e *Encoder) writeAppleHeader(h *PageHeader) error {
	var cs byte
	switch h.CUPSColorSpace {
	case ColorSpacesGray:
		cs = 0
	case ColorSpacesRGB:
		cs = 1
	case ColorSpaceAdobeRGB:
		cs = 3
	case ColorSpaceGray, ColorSpaceBlack:
		cs = 4
	case ColorSpaceRGB:
		cs = 5
	case ColorSpaceCMYK:
		cs = 6
	default:
		return fmt.Errorf("color space %d not representable in URF", h.CUPSColorSpace)
	}

	var duplex byte = 1
	if h.Duplex {
		if h.Tumble {
			duplex = 2
		} else {
			duplex = 3
		}
	}

	var buf [32]byte
	buf[0] = byte(h.CUPSBitsPerPixel)
	buf[1] = cs
	buf[2] = duplex
	buf[3] = byte(h.Integer[PWGPrintQuality])
	binary.BigEndian.PutUint32(buf[12:], h.CUPSWidth)
	binary.BigEndian.PutUint32(buf[16:], h.CUPSHeight)
	binary.BigEndian.PutUint32(buf[20:], h.HorizDPI)
	_, err := e.w.Write(buf[:])
	return err
}

// writePWGHeader writes the 1796-byte CUPS v2 page header in
// big-endian byte order.
func (e *Encoder) writePWGHeader(h *PageHeader) error {
	var buf []byte

	buf = appendCString(buf, h.MediaClass)
	buf = appendCString(buf, h.MediaColor)
	buf = appendCString(buf, h.MediaType)
	buf = appendCString(buf, h.OutputType)

	u32 := []uint32{
		h.AdvanceDistance,
		h.AdvanceMedia,
		b2u(h.Collate),
		h.CutMedia,
		b2u(h.Duplex),
		h.HorizDPI,
		h.VertDPI,
		h.BoundingBox.Left,
		h.BoundingBox.Bottom,
		h.BoundingBox.Right,
		h.BoundingBox.Top,
		b2u(h.InsertSheet),
		h.Jog,
		h.LeadingEdge,
		h.MarginLeft,
		h.MarginBottom,
		b2u(h.ManualFeed),
		h.MediaPosition,
		h.MediaWeight,
		b2u(h.MirrorPrint),
		b2u(h.NegativePrint),
		h.NumCopies,
		h.Orientation,
		b2u(h.OutputFaceUp),
		h.Width,
		h.Length,
		b2u(h.Separations),
		b2u(h.TraySwitch),
		b2u(h.Tumble),
		h.CUPSWidth,
		h.CUPSHeight,
		h.CUPSMediaType,
		h.CUPSBitsPerColor,
		h.CUPSBitsPerPixel,
		h.CUPSBytesPerLine,
		h.CUPSColorOrder,
		h.CUPSColorSpace,
		h.CUPSCompression,
		h.CUPSRowCount,
		h.CUPSRowFeed,
		h.CUPSRowStep,
		h.NumColors,
	}
	for _, v := range u32 {
		buf = binary.BigEndian.AppendUint32(buf, v)
	}

	f32 := []float32{
		h.BorderlessScalingFactor,
		h.PageSize[0],
		h.PageSize[1],
		h.ImagingBBox.Left,
		h.ImagingBBox.Bottom,
		h.ImagingBBox.Right,
		h.ImagingBBox.Top,
	}
	for _, v := range f32 {
		buf = appendFloat32(buf, v)
	}
	for _, v := range h.Integer {
		buf = binary.BigEndian.AppendUint32(buf, v)
	}
	for _, v := range h.Real {
		buf = appendFloat32(buf, v)
	}
	for _, s := range h.String {
		buf = appendCString(buf, s)
	}
	buf = appendCString(buf, h.MarkerType)
	buf = appendCString(buf, h.RenderingIntent)
	buf = appendCString(buf, h.PageSizeName)

	_, err := e.w.Write(buf)
	return err
}

func appendCString(dst []byte, s string) []byte {
	var field [64]byte
	copy(field[:63], s)
	return append(dst, field[:]...)
}

func appendFloat32(dst []byte, v float32) []byte {
	return binary.BigEndian.AppendUint32(dst, math.Float32bits(v))
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

