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

package pdfdraw

import (
	"bytes"
	goimage "image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/matrix"
	geompath "seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/font/dict"
	"seehuhn.de/go/pdf/font/glyphdata"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"
	pdfimage "seehuhn.de/go/pdf/graphics/image"
	"seehuhn.de/go/pdf/reader"
	"seehuhn.de/go/postscript/cid"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyph"
)

// painter implements the reader callbacks which rasterize page
// content into an RGBA image.  The reader's CTM maps user space
// directly to image pixels, with y growing down.
type painter struct {
	rd     *reader.Reader
	img    *goimage.RGBA
	ras    *vector.Rasterizer
	width  int
	height int

	path      []pathSeg
	fontCache map[font.Instance]*sfnt.Font
}

type pathSeg struct {
	op   int // 0: move, 1: line, 2: curve, 3: close
	args [6]float64
}

func newPainter(rd *reader.Reader, width, height int) *painter {
	return &painter{
		rd:        rd,
		img:       goimage.NewRGBA(goimage.Rect(0, 0, width, height)),
		ras:       vector.NewRasterizer(width, height),
		width:     width,
		height:    height,
		fontCache: make(map[font.Instance]*sfnt.Font),
	}
}

// reset clears the image to white.
func (p *painter) reset() {
	draw.Draw(p.img, p.img.Bounds(), goimage.White, goimage.Point{}, draw.Src)
	p.path = p.path[:0]
}

// install registers the painter's callbacks with the reader.  This
// must be repeated after every call to reader.Reset.
func (p *painter) install() {
	rd := p.rd
	rd.PathMoveTo = p.pathMoveTo
	rd.PathLineTo = p.pathLineTo
	rd.PathCurveTo = p.pathCurveTo
	rd.PathRectangle = p.pathRectangle
	rd.PathClose = p.pathClose
	rd.PathPaint = p.pathPaint
	rd.DrawXObject = p.drawXObject
	rd.Character = p.character
}

// device maps a user space point to image pixels.
func (p *painter) device(x, y float64) (float64, float64) {
	m := p.rd.CTM
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func (p *painter) pathMoveTo(x, y float64) error {
	p.path = append(p.path, pathSeg{op: 0, args: [6]float64{x, y}})
	return nil
}

func (p *painter) pathLineTo(x, y float64) error {
	p.path = append(p.path, pathSeg{op: 1, args: [6]float64{x, y}})
	return nil
}

func (p *painter) pathCurveTo(x1, y1, x2, y2, x3, y3 float64) error {
	p.path = append(p.path, pathSeg{op: 2, args: [6]float64{x1, y1, x2, y2, x3, y3}})
	return nil
}

func (p *painter) pathRectangle(x, y, w, h float64) error {
	p.pathMoveTo(x, y)
	p.pathLineTo(x+w, y)
	p.pathLineTo(x+w, y+h)
	p.pathLineTo(x, y+h)
	return p.pathClose()
}

func (p *painter) pathClose() error {
	p.path = append(p.path, pathSeg{op: 3})
	return nil
}

func (p *painter) pathPaint(op string) error {
	switch op {
	case "f", "F", "f*":
		p.tracePath()
		p.fillWith(p.rd.FillColor)
	case "S":
		p.stroke()
	case "s":
		p.pathClose()
		p.stroke()
	case "B", "B*":
		p.tracePath()
		p.fillWith(p.rd.FillColor)
		p.stroke()
	case "b", "b*":
		p.pathClose()
		p.tracePath()
		p.fillWith(p.rd.FillColor)
		p.stroke()
	case "n":
		// end path without painting
	}
	p.path = p.path[:0]
	p.ras.Reset(p.width, p.height)
	return nil
}

// tracePath replays the recorded path into the rasterizer.
func (p *painter) tracePath() {
	p.ras.Reset(p.width, p.height)
	for _, seg := range p.path {
		switch seg.op {
		case 0:
			x, y := p.device(seg.args[0], seg.args[1])
			p.ras.MoveTo(float32(x), float32(y))
		case 1:
			x, y := p.device(seg.args[0], seg.args[1])
			p.ras.LineTo(float32(x), float32(y))
		case 2:
			x1, y1 := p.device(seg.args[0], seg.args[1])
			x2, y2 := p.device(seg.args[2], seg.args[3])
			x3, y3 := p.device(seg.args[4], seg.args[5])
			p.ras.CubeTo(float32(x1), float32(y1), float32(x2), float32(y2),
				float32(x3), float32(y3))
		case 3:
			p.ras.ClosePath()
		}
	}
}

func (p *painter) fillWith(c pdfcolor.Color) {
	src := goimage.NewUniform(toGoColor(c))
	p.ras.Draw(p.img, p.img.Bounds(), src, goimage.Point{})
}

// stroke approximates stroking by filling a quad for each path
// segment.  Curves are flattened to their chord.
func (p *painter) stroke() {
	p.ras.Reset(p.width, p.height)

	lineWidth := p.rd.LineWidth
	if lineWidth <= 0 {
		lineWidth = 1
	}
	ctm := p.rd.CTM
	scale := (math.Abs(ctm[0]) + math.Abs(ctm[3])) / 2
	hw := lineWidth * scale / 2
	if hw < 0.5 {
		hw = 0.5
	}

	var startX, startY, curX, curY float64
	for _, seg := range p.path {
		switch seg.op {
		case 0:
			curX, curY = p.device(seg.args[0], seg.args[1])
			startX, startY = curX, curY
			continue
		case 1:
			x, y := p.device(seg.args[0], seg.args[1])
			p.strokeSegment(curX, curY, x, y, hw)
			curX, curY = x, y
		case 2:
			x, y := p.device(seg.args[4], seg.args[5])
			p.strokeSegment(curX, curY, x, y, hw)
			curX, curY = x, y
		case 3:
			p.strokeSegment(curX, curY, startX, startY, hw)
			curX, curY = startX, startY
		}
	}

	src := goimage.NewUniform(toGoColor(p.rd.StrokeColor))
	p.ras.Draw(p.img, p.img.Bounds(), src, goimage.Point{})
}

func (p *painter) strokeSegment(x0, y0, x1, y1, hw float64) {
	vx, vy := x1-x0, y1-y0
	l := math.Hypot(vx, vy)
	if l == 0 {
		return
	}
	nx, ny := -vy/l*hw, vx/l*hw

	p.ras.MoveTo(float32(x0+nx), float32(y0+ny))
	p.ras.LineTo(float32(x1+nx), float32(y1+ny))
	p.ras.LineTo(float32(x1-nx), float32(y1-ny))
	p.ras.LineTo(float32(x0-nx), float32(y0-ny))
	p.ras.ClosePath()
}

// character renders one glyph by filling its outline.  If the font
// program cannot be loaded, the glyph is approximated by a filled box
// so that text remains visible in the output.
func (p *painter) character(c cid.CID, text string, width float64) error {
	f := p.rd.TextFont
	if f == nil {
		return nil
	}

	sf, err := p.getFont(f)
	if err != nil || sf == nil || sf.Outlines == nil {
		x, y := p.rd.GetTextPositionDevice()
		p.pathRectangle(x, y, width, p.rd.TextFontSize)
		p.tracePath()
		p.fillWith(p.rd.FillColor)
		p.path = p.path[:0]
		p.ras.Reset(p.width, p.height)
		return nil
	}

	gid := p.lookupGlyph(sf, c, text)

	scale := p.rd.TextFontSize / float64(sf.UnitsPerEm)
	hs := p.rd.TextHorizontalScaling
	m := matrix.Matrix{scale * hs, 0, 0, scale, 0, 0}.
		Mul(p.rd.TextMatrix).Mul(p.rd.CTM)

	dev := func(v vec.Vec2) (float32, float32) {
		return float32(m[0]*v.X + m[2]*v.Y + m[4]),
			float32(m[1]*v.X + m[3]*v.Y + m[5])
	}

	for cmd, pts := range sf.Outlines.Path(gid) {
		switch cmd {
		case geompath.CmdMoveTo:
			x, y := dev(pts[0])
			p.ras.MoveTo(x, y)
		case geompath.CmdLineTo:
			x, y := dev(pts[0])
			p.ras.LineTo(x, y)
		case geompath.CmdQuadTo:
			x1, y1 := dev(pts[0])
			x2, y2 := dev(pts[1])
			p.ras.QuadTo(x1, y1, x2, y2)
		case geompath.CmdCubeTo:
			x1, y1 := dev(pts[0])
			x2, y2 := dev(pts[1])
			x3, y3 := dev(pts[2])
			p.ras.CubeTo(x1, y1, x2, y2, x3, y3)
		case geompath.CmdClose:
			p.ras.ClosePath()
		}
	}

	p.fillWith(p.rd.FillColor)
	p.ras.Reset(p.width, p.height)
	return nil
}

// lookupGlyph maps the character to a glyph, preferring the font's
// cmap table for text with known Unicode values.
func (p *painter) lookupGlyph(sf *sfnt.Font, c cid.CID, text string) glyph.ID {
	runes := []rune(text)
	if len(runes) > 0 {
		if subtable, err := sf.CMapTable.GetBest(); err == nil && subtable != nil {
			if g := subtable.Lookup(runes[0]); g != 0 {
				return g
			}
		}
	}
	return glyph.ID(c)
}

// getFont extracts and parses the embedded font program.
func (p *painter) getFont(f font.Instance) (*sfnt.Font, error) {
	if sf, ok := p.fontCache[f]; ok {
		return sf, nil
	}

	info := f.FontInfo()
	var stream *glyphdata.Stream
	switch v := info.(type) {
	case *dict.FontInfoSimple:
		stream = v.FontFile
	case *dict.FontInfoGlyfEmbedded:
		stream = v.FontFile
	case *dict.FontInfoCID:
		stream = v.FontFile
	}
	if stream == nil {
		p.fontCache[f] = nil
		return nil, nil
	}

	var buf bytes.Buffer
	if err := stream.WriteTo(&buf, nil); err != nil {
		return nil, err
	}
	sf, err := sfnt.Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}

	p.fontCache[f] = sf
	return sf, nil
}

// drawXObject draws image XObjects.  Form XObjects are not handled.
func (p *painter) drawXObject(name string) error {
	if p.rd.Resources == nil || p.rd.Resources.XObject == nil {
		return nil
	}
	obj, ok := p.rd.Resources.XObject[pdf.Name(name)]
	if !ok {
		return nil
	}

	ext := pdf.NewExtractor(p.rd.R)
	imgDict, err := pdfimage.ExtractDict(ext, obj)
	if err != nil {
		// probably a form XObject
		return nil
	}

	var buf bytes.Buffer
	if err := imgDict.WriteData(&buf); err != nil {
		return err
	}
	src := decodeImage(imgDict, buf.Bytes())
	if src == nil {
		return nil
	}

	// The CTM maps the unit square to device pixels; source pixel
	// (sx, sy) sits at (sx/W, 1-sy/H) in the unit square.
	b := src.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	m := matrix.Matrix{1 / w, 0, 0, -1 / h, 0, 1}.Mul(p.rd.CTM)

	dr := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	xdraw.BiLinear.Transform(p.img, dr, src, b, draw.Over, nil)
	return nil
}

// decodeImage converts the PDF image data to a Go image, either by
// decoding an embedded JPEG stream or by interpreting raw samples.
func decodeImage(imgDict *pdfimage.Dict, data []byte) goimage.Image {
	if img, _, err := goimage.Decode(bytes.NewReader(data)); err == nil {
		return img
	}

	switch imgDict.ColorSpace.Family() {
	case pdfcolor.FamilyDeviceGray:
		img := goimage.NewGray(goimage.Rect(0, 0, imgDict.Width, imgDict.Height))
		if len(data) >= len(img.Pix) {
			copy(img.Pix, data)
			return img
		}
	case pdfcolor.FamilyDeviceRGB:
		img := goimage.NewRGBA(goimage.Rect(0, 0, imgDict.Width, imgDict.Height))
		n := imgDict.Width * imgDict.Height
		if len(data) >= 3*n {
			for i := 0; i < n; i++ {
				img.Pix[4*i] = data[3*i]
				img.Pix[4*i+1] = data[3*i+1]
				img.Pix[4*i+2] = data[3*i+2]
				img.Pix[4*i+3] = 255
			}
			return img
		}
	}
	return nil
}

func toGoColor(c pdfcolor.Color) color.Color {
	if c == nil {
		return color.Black
	}

	vals, _, _ := pdfcolor.Operator(c)
	switch c.ColorSpace().Family() {
	case pdfcolor.FamilyDeviceGray, pdfcolor.FamilyCalGray:
		return color.Gray{Y: uint8(clamp01(vals[0]) * 255)}
	case pdfcolor.FamilyDeviceRGB, pdfcolor.FamilyCalRGB:
		return color.RGBA{
			R: uint8(clamp01(vals[0]) * 255),
			G: uint8(clamp01(vals[1]) * 255),
			B: uint8(clamp01(vals[2]) * 255),
			A: 255,
		}
	case pdfcolor.FamilyDeviceCMYK:
		return color.CMYK{
			C: uint8(clamp01(vals[0]) * 255),
			M: uint8(clamp01(vals[1]) * 255),
			Y: uint8(clamp01(vals[2]) * 255),
			K: uint8(clamp01(vals[3]) * 255),
		}
	}
	return color.Black
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
