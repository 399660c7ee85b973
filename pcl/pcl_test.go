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

package pcl

import (
	"bytes"
	"strings"
	"testing"

	"seehuhn.de/go/printraster/dither"
	"seehuhn.de/go/printraster/raster"
)

func testHeader(widthPts, lengthPts float32, dpi uint32) *raster.PageHeader {
	return &raster.PageHeader{
		HorizDPI:   dpi,
		VertDPI:    dpi,
		CUPSWidth:  uint32(widthPts) * dpi / 72,
		CUPSHeight: uint32(lengthPts) * dpi / 72,
		PageSize:   [2]float32{widthPts, lengthPts},
	}
}

// TestA4Margins checks the A4 page setup: the A4 page size code and a
// centered 8 inch wide print area.
func TestA4Margins(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf, 1)

	h := testHeader(595, 842, 300)
	if err := enc.StartPage(h, 1); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "\033&l26A") {
		t.Errorf("missing A4 page size command in %q", out)
	}
	if !strings.Contains(out, "\033*r2400S") {
		t.Errorf("missing 8 inch raster width in %q", out)
	}

	left, top, right, bottom := enc.Window()
	cupsWidth := int(h.CUPSWidth)
	if left != (cupsWidth-2400)/2 || right != left+2400 {
		t.Errorf("window columns [%d, %d), want centered 2400", left, right)
	}
	if top != 50 || bottom != int(h.CUPSHeight)-50 {
		t.Errorf("window rows [%d, %d), want 1/6 inch margins", top, bottom)
	}
}

func TestLetterMargins(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf, 1)

	h := testHeader(612, 792, 300)
	if err := enc.StartPage(h, 1); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "\033&l2A") {
		t.Errorf("missing Letter page size command in %q", buf.String())
	}

	left, _, right, _ := enc.Window()
	if left != 75 || right != int(h.CUPSWidth)-75 {
		t.Errorf("window columns [%d, %d), want 1/4 inch margins", left, right)
	}
}

// TestBlankLines checks that runs of blank scanlines turn into a
// single relative vertical move, and that trailing blank lines are
// dropped entirely.
func TestBlankLines(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf, 1)
	enc.SetDither(dither.Uniform(127))

	h := testHeader(612, 792, 72)
	if err := enc.StartPage(h, 1); err != nil {
		t.Fatal(err)
	}
	left, top, right, bottom := enc.Window()

	blank := bytes.Repeat([]byte{255}, right-left)
	black := make([]byte, right-left)

	y := top
	for ; y < top+10; y++ {
		if err := enc.WriteLine(y, blank); err != nil {
			t.Fatal(err)
		}
	}
	before := buf.Len()
	if err := enc.WriteLine(y, black); err != nil {
		t.Fatal(err)
	}
	y++
	moved := buf.Bytes()[before:]
	if !bytes.HasPrefix(moved, []byte("\033*b10Y")) {
		t.Errorf("expected vertical move by 10, got %q", moved)
	}

	// the black line is a run of 0xff bytes, PackBits-compressed
	n := (right - left + 7) / 8
	if !bytes.Contains(moved, append([]byte("\033*b2W"), byte(257-n), 0xff)) {
		t.Errorf("unexpected raster data %q", moved)
	}

	before = buf.Len()
	for ; y < bottom; y++ {
		if err := enc.WriteLine(y, blank); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.EndPage(); err != nil {
		t.Fatal(err)
	}
	tail := buf.Bytes()[before:]
	if !bytes.Equal(tail, []byte("\033*r0B\014")) {
		t.Errorf("trailing blank lines not dropped: %q", tail)
	}
}

// TestDuplex checks the duplex page protocol: duplex mode on the
// front side, no formfeed between the sides of a sheet, and back side
// selection for even pages.
func TestDuplex(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf, 2)

	h := testHeader(612, 792, 72)
	h.Duplex = true

	if err := enc.StartPage(h, 1); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\033&l1S") {
		t.Errorf("missing duplex mode on front side: %q", buf.String())
	}
	if err := enc.EndPage(); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "\014") {
		t.Error("formfeed between the two sides of a sheet")
	}

	before := buf.Len()
	if err := enc.StartPage(h, 2); err != nil {
		t.Fatal(err)
	}
	back := buf.String()[before:]
	if !strings.Contains(back, "\033&a2G") {
		t.Errorf("missing back side selection: %q", back)
	}
	if strings.Contains(back, "\033&l1S") {
		t.Error("duplex mode repeated on the back side")
	}
	if err := enc.EndPage(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\014") {
		t.Error("missing formfeed after the back side")
	}

	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "\033E") {
		t.Error("job does not end with a printer reset")
	}
}

func TestTumble(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf, 2)

	h := testHeader(612, 792, 72)
	h.Duplex = true
	h.Tumble = true

	if err := enc.StartPage(h, 1); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\033&l2S") {
		t.Errorf("missing short edge duplex mode: %q", buf.String())
	}
}

// TestEmptyJob checks that a job without pages still resets the
// printer twice, once at the start and once at the end.
func TestEmptyJob(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf, 0)
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\033E\033E" {
		t.Errorf("got %q, want two printer resets", buf.String())
	}
}

func TestLineWidthCheck(t *testing.T) {
	enc := NewEncoder(&bytes.Buffer{}, 1)
	h := testHeader(612, 792, 72)
	if err := enc.StartPage(h, 1); err != nil {
		t.Fatal(err)
	}
	_, top, _, _ := enc.Window()
	if err := enc.WriteLine(top, make([]byte, 3)); err == nil {
		t.Error("WriteLine accepted a scanline of the wrong width")
	}
}
