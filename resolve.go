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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/printraster/dither"
	"seehuhn.de/go/printraster/raster"
)

// Output MIME types.
const (
	FormatPWG   = "image/pwg-raster"
	FormatApple = "image/urf"
	FormatPCL   = "application/vnd.hp-pcl"
)

// IPP print-quality values.
const (
	QualityDraft  = 3
	QualityNormal = 4
	QualityHigh   = 5
)

// Capabilities describes what the destination printer advertises.
type Capabilities struct {
	// Resolutions is the list of supported resolutions, ordered from
	// lowest to highest, each in the form "300dpi" or "300x600dpi".
	Resolutions []string

	// Types is the list of supported raster pixel types, e.g.
	// "sgray_8" or "srgb_8".
	Types []string

	// SheetBack is the back side transform needed by the printer:
	// "normal", "flipped", "manual-tumble" or "rotated".
	SheetBack string
}

// Defaults supplies fallback values for unset job options, typically
// taken from the printer's "xxx-default" attributes.
type Defaults struct {
	Media          string // default media size name
	PrintColorMode string
	Sides          string
}

// Parameters is the frozen result of negotiating job options against
// printer capabilities.  It is immutable once resolved.
type Parameters struct {
	Format string // output MIME type

	Copies int
	Pages  int // document pages, before duplex adjustment

	Color      bool
	BiLevel    bool
	Borderless bool
	Quality    int

	// SheetBack is the printer's back side transform policy, copied
	// from the capabilities for use by the rendering driver.
	SheetBack string

	Media  Media
	Header raster.PageHeader

	// BackHeader is the header for even pages of duplex jobs.  It is
	// only valid if Header.Duplex is set and Pages > 1.
	BackHeader raster.PageHeader

	// Dither is the threshold matrix for 1-bit output.
	Dither *dither.Matrix
}

// pixelType describes the header fields implied by a raster pixel
// type name.
type pixelType struct {
	colorSpace   uint32
	bitsPerColor uint32
	bitsPerPixel uint32
	numColors    uint32
}

var pixelTypes = map[string]pixelType{
	"black_1":      {raster.ColorSpaceBlack, 1, 1, 1},
	"sgray_1":      {raster.ColorSpacesGray, 1, 1, 1},
	"black_8":      {raster.ColorSpaceBlack, 8, 8, 1},
	"sgray_8":      {raster.ColorSpacesGray, 8, 8, 1},
	"rgb_8":        {raster.ColorSpaceRGB, 8, 24, 3},
	"srgb_8":       {raster.ColorSpacesRGB, 8, 24, 3},
	"adobe-rgb_8":  {raster.ColorSpaceAdobeRGB, 8, 24, 3},
	"adobe-rgb_16": {raster.ColorSpaceAdobeRGB, 16, 48, 3},
	"cmyk_8":       {raster.ColorSpaceCMYK, 8, 32, 4},
}

// Resolve negotiates the job options against the printer capabilities
// and produces the raster parameters for the job.  format is the
// output MIME type, color says whether the document contains color,
// and pages is the number of document pages.
func Resolve(format string, opts Options, caps *Capabilities, defaults *Defaults, color bool, pages int) (*Parameters, error) {
	p := &Parameters{
		Format:    format,
		Pages:     pages,
		Quality:   QualityNormal,
		SheetBack: caps.SheetBack,
	}

	// copies

	p.Copies = 1
	if copies := opts.Get("copies"); copies != "" {
		n, err := strconv.Atoi(copies)
		if err != nil || n < 1 || n > 9999 {
			return nil, &NegotiationError{Option: "copies", Value: copies}
		}
		p.Copies = n
	}

	// media size

	media, borderless, err := resolveMedia(opts, defaults)
	if err != nil {
		return nil, err
	}
	p.Media = media
	p.Borderless = borderless || media.Borderless()

	// resolution

	res := opts.Get("printer-resolution")
	if res != "" && !containsFold(caps.Resolutions, res) {
		// unsupported request, fall back to quality-based selection
		res = ""
	}
	if q := opts.Get("print-quality"); q != "" {
		if n, err := strconv.Atoi(q); err == nil &&
			n >= QualityDraft && n <= QualityHigh {
			p.Quality = n
		}
	}
	if res == "" && len(caps.Resolutions) > 0 {
		switch p.Quality {
		case QualityDraft:
			res = caps.Resolutions[0]
		case QualityHigh:
			res = caps.Resolutions[len(caps.Resolutions)-1]
		default:
			res = caps.Resolutions[len(caps.Resolutions)/2]
		}
	}
	if res == "" {
		return nil, &NegotiationError{
			Option: "printer-resolution",
			Err:    errors.New("no supported resolutions"),
		}
	}
	xdpi, ydpi, err := ParseResolution(res)
	if err != nil {
		return nil, &NegotiationError{Option: "printer-resolution", Value: res, Err: err}
	}

	// color mode

	mode := opts.Get("print-color-mode")
	if mode == "" {
		mode = defaults.PrintColorMode
	}
	switch mode {
	case "monochrome", "process-monochrome", "auto-monochrome":
		color = false
	case "bi-level", "process-bi-level":
		color = false
		p.BiLevel = true
		p.Quality = QualityDraft
	}
	p.Color = color

	// pixel type

	typeName := selectType(caps.Types, color, p.Quality)
	if typeName == "" {
		return nil, &NegotiationError{
			Option: "pwg-raster-document-type-supported",
			Err:    errors.New("no supported raster types"),
		}
	}

	// sides

	var sides string
	if pages == 1 {
		sides = "one-sided"
	} else if sides = opts.Get("sides"); sides == "" {
		if sides = defaults.Sides; sides == "" {
			sides = "one-sided"
		}
	}

	adjusted := pages
	if p.Copies > 1 && pages%2 == 1 && sides != "one-sided" {
		// reserve a blank back side so each copy starts on a new sheet
		adjusted++
	}

	// headers

	if err := initPageHeader(&p.Header, media, typeName, xdpi, ydpi, sides, ""); err != nil {
		return nil, err
	}
	if pages > 1 {
		if err := initPageHeader(&p.BackHeader, media, typeName, xdpi, ydpi, sides, caps.SheetBack); err != nil {
			return nil, err
		}
	}

	total := uint32(p.Copies * adjusted)
	p.Header.Integer[raster.PWGTotalPageCount] = total
	p.BackHeader.Integer[raster.PWGTotalPageCount] = total
	p.Header.Integer[raster.PWGPrintQuality] = uint32(p.Quality)
	p.BackHeader.Integer[raster.PWGPrintQuality] = uint32(p.Quality)

	if p.BiLevel {
		p.Dither = dither.Uniform(127)
	} else {
		p.Dither = dither.Ordered()
	}

	return p, nil
}

// resolveMedia determines the page size from the "media" or
// "media-col" options, falling back to the default size.
func resolveMedia(opts Options, defaults *Defaults) (media Media, borderless bool, err error) {
	if name := opts.Get("media"); name != "" {
		media, ok := MediaForPWG(name)
		if !ok {
			media, ok = MediaForLegacy(name)
		}
		if !ok {
			return Media{}, false, &NegotiationError{Option: "media", Value: name}
		}
		return media, false, nil
	}

	if colValue := opts.Get("media-col"); colValue != "" {
		col, err := ParseOptions(colValue)
		if err != nil {
			return Media{}, false, &NegotiationError{Option: "media-col", Value: colValue, Err: err}
		}

		var ok bool
		if name := col.Get("media-size-name"); name != "" {
			media, ok = MediaForPWG(name)
			if !ok {
				return Media{}, false, &NegotiationError{Option: "media-size-name", Value: name}
			}
		} else if sizeValue := col.Get("media-size"); sizeValue != "" {
			size, err := ParseOptions(sizeValue)
			if err != nil {
				return Media{}, false, &NegotiationError{Option: "media-size", Value: sizeValue, Err: err}
			}
			x, err1 := strconv.Atoi(size.Get("x-dimension"))
			y, err2 := strconv.Atoi(size.Get("y-dimension"))
			if err1 != nil || err2 != nil {
				return Media{}, false, &NegotiationError{Option: "media-size", Value: sizeValue}
			}
			media = MediaForSize(x, y)
			ok = true
		}

		borderless = col.Get("media-bottom-margin") == "0" &&
			col.Get("media-left-margin") == "0" &&
			col.Get("media-right-margin") == "0" &&
			col.Get("media-top-margin") == "0"

		if ok {
			return media, borderless, nil
		}
	}

	name := defaults.Media
	if name == "" {
		name = "na_letter_8.5x11in"
	}
	media, ok := MediaForPWG(name)
	if !ok {
		return Media{}, false, &NegotiationError{Option: "media-default", Value: name}
	}
	return media, borderless, nil
}

// ParseResolution parses a resolution value of the form "300dpi" or
// "300x600dpi".
func ParseResolution(s string) (xdpi, ydpi int, err error) {
	if n, _ := fmt.Sscanf(s, "%dx%ddpi", &xdpi, &ydpi); n == 2 {
		return xdpi, ydpi, nil
	}
	if n, _ := fmt.Sscanf(s, "%ddpi", &xdpi); n == 1 {
		return xdpi, xdpi, nil
	}
	return 0, 0, errors.New("malformed resolution value")
}

// selectType picks the raster pixel type from the supported list.
func selectType(types []string, color bool, quality int) string {
	has := func(name string) bool {
		return containsFold(types, name)
	}

	if color {
		if quality == QualityHigh {
			switch {
			case has("adobe-rgb_16"):
				return "adobe-rgb_16"
			case has("adobe-rgb_8"):
				return "adobe-rgb_8"
			}
		}
		switch {
		case has("srgb_8"):
			return "srgb_8"
		case has("cmyk_8"):
			return "cmyk_8"
		}
	}

	if quality == QualityDraft {
		switch {
		case has("black_1"):
			return "black_1"
		case has("sgray_1"):
			return "sgray_1"
		}
	} else {
		switch {
		case has("black_8"):
			return "black_8"
		case has("sgray_8"):
			return "sgray_8"
		}
	}

	// last resort: any supported type, preferring gray
	for _, name := range []string{
		"black_8", "sgray_8", "black_1", "sgray_1",
		"srgb_8", "adobe-rgb_8", "adobe-rgb_16", "cmyk_8",
	} {
		if has(name) {
			return name
		}
	}
	return ""
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(v string) bool {
		return strings.EqualFold(v, s)
	})
}

// initPageHeader fills in a page header for the given media size,
// pixel type and resolution.  sheetBack, if non-empty, marks the
// header as a back side header and sets the cross-feed and feed
// transforms accordingly.
func initPageHeader(h *raster.PageHeader, m Media, typeName string, xdpi, ydpi int, sides, sheetBack string) error {
	pt, ok := pixelTypes[typeName]
	if !ok {
		return &NegotiationError{Option: "pwg-raster-document-type-supported", Value: typeName}
	}

	*h = raster.PageHeader{
		MediaClass:   "PwgRaster",
		PageSizeName: m.Name,
		HorizDPI:     uint32(xdpi),
		VertDPI:      uint32(ydpi),

		CUPSWidth:  uint32(m.Width * xdpi / 2540),
		CUPSHeight: uint32(m.Length * ydpi / 2540),

		CUPSBitsPerColor: pt.bitsPerColor,
		CUPSBitsPerPixel: pt.bitsPerPixel,
		CUPSColorOrder:   raster.Chunky,
		CUPSColorSpace:   pt.colorSpace,
		NumColors:        pt.numColors,
	}
	h.CUPSBytesPerLine = (h.CUPSWidth*pt.bitsPerPixel + 7) / 8

	h.PageSize[0] = float32(m.Width) * 72 / 2540
	h.PageSize[1] = float32(m.Length) * 72 / 2540
	h.Width = uint32(h.PageSize[0] + 0.5)
	h.Length = uint32(h.PageSize[1] + 0.5)

	switch sides {
	case "one-sided":
		// nothing to do
	case "two-sided-long-edge":
		h.Duplex = true
	case "two-sided-short-edge":
		h.Duplex = true
		h.Tumble = true
	default:
		return &NegotiationError{Option: "sides", Value: sides}
	}

	const negOne = ^uint32(0)
	h.Integer[raster.PWGCrossFeedTransform] = 1
	h.Integer[raster.PWGFeedTransform] = 1
	switch sheetBack {
	case "", "normal":
		// no transform
	case "flipped":
		if h.Tumble {
			h.Integer[raster.PWGCrossFeedTransform] = negOne
		} else {
			h.Integer[raster.PWGFeedTransform] = negOne
		}
	case "manual-tumble":
		if h.Tumble {
			h.Integer[raster.PWGCrossFeedTransform] = negOne
			h.Integer[raster.PWGFeedTransform] = negOne
		}
	case "rotated":
		if !h.Tumble {
			h.Integer[raster.PWGCrossFeedTransform] = negOne
			h.Integer[raster.PWGFeedTransform] = negOne
		}
	default:
		return &NegotiationError{Option: "pwg-raster-document-sheet-back", Value: sheetBack}
	}

	return nil
}
