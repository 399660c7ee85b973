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

// Package raster encodes PWG Raster and Apple Raster (URF) streams.
//
// Both formats share the same structure: a file header identifying the
// format, followed by one header and one run-length encoded pixel
// payload per page.  PWG Raster uses the CUPS v2 page header (1796
// bytes, big-endian); Apple Raster uses a compact 32-byte page header.
// The pixel payload encoding is identical in both formats.
package raster

// Color spaces used in page headers.  The values are the CUPS
// cupsColorSpace enumeration.
const (
	ColorSpaceGray     = 0  // device gray, white = 255
	ColorSpaceRGB      = 1  // device RGB
	ColorSpaceBlack    = 3  // device black ("K"), black = 255
	ColorSpaceCMYK     = 6  // device CMYK
	ColorSpacesGray    = 18 // gray with sRGB gamma, white = 255
	ColorSpacesRGB     = 19 // sRGB
	ColorSpaceAdobeRGB = 20 // AdobeRGB (1998)
)

// Chunky is the only color order supported by this package: each pixel
// carries all of its color components consecutively.
const Chunky = 0

// Orientations for the page header.
const (
	RotateNone             = 0
	RotateCounterClockwise = 1
	RotateUpsideDown       = 2
	RotateClockwise        = 3
)

// Indices into the PageHeader Integer array with the meanings assigned
// by PWG 5102.4.
const (
	PWGTotalPageCount     = 0
	PWGCrossFeedTransform = 1
	PWGFeedTransform      = 2
	PWGPrintQuality       = 8
)

// BoundingBox is a set of page margins in points.
type BoundingBox struct {
	Left   uint32
	Bottom uint32
	Right  uint32
	Top    uint32
}

// ImagingBox is an imageable area in points.
type ImagingBox struct {
	Left   float32
	Bottom float32
	Right  float32
	Top    float32
}

// PageHeader describes one page of a raster stream.  The fields mirror
// the CUPS v2 page header; PWG Raster reinterprets some of them but
// keeps the wire layout.
//
// For PWG output, MediaClass must be "PwgRaster" and Integer[0] holds
// the total page count of the job.
type PageHeader struct {
	MediaClass      string
	MediaColor      string
	MediaType       string
	OutputType      string
	AdvanceDistance uint32
	AdvanceMedia    uint32
	Collate         bool
	CutMedia        uint32
	Duplex          bool
	HorizDPI        uint32
	VertDPI         uint32
	BoundingBox     BoundingBox
	InsertSheet     bool
	Jog             uint32
	LeadingEdge     uint32
	MarginLeft      uint32
	MarginBottom    uint32
	ManualFeed      bool
	MediaPosition   uint32
	MediaWeight     uint32
	MirrorPrint     bool
	NegativePrint   bool
	NumCopies       uint32
	Orientation     uint32
	OutputFaceUp    bool
	Width           uint32 // page width in points
	Length          uint32 // page length in points
	Separations     bool
	TraySwitch      bool
	Tumble          bool

	CUPSWidth        uint32 // raster width in pixels
	CUPSHeight       uint32 // raster height in pixels
	CUPSMediaType    uint32
	CUPSBitsPerColor uint32
	CUPSBitsPerPixel uint32
	CUPSBytesPerLine uint32
	CUPSColorOrder   uint32
	CUPSColorSpace   uint32
	CUPSCompression  uint32
	CUPSRowCount     uint32
	CUPSRowFeed      uint32
	CUPSRowStep      uint32

	NumColors               uint32
	BorderlessScalingFactor float32
	PageSize                [2]float32 // width, length in points
	ImagingBBox             ImagingBox
	Integer                 [16]uint32
	Real                    [16]float32
	String                  [16]string
	MarkerType              string
	RenderingIntent         string
	PageSizeName            string
}

// BytesPerColor returns the number of bytes occupied by one pixel,
// the run unit of the payload encoding.
func (h *PageHeader) BytesPerColor() int {
	return int(h.CUPSBitsPerPixel+7) / 8
}
