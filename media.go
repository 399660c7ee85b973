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
	"fmt"
	"strconv"
	"strings"
)

// Media is a physical page size.  Dimensions are in hundredths of
// millimeters, the unit used by PWG 5101.1 self-describing media size
// names.
type Media struct {
	Name   string // PWG self-describing name
	Width  int    // cross-feed dimension
	Length int    // feed dimension
}

// standardMedia lists the sizes known by name, used both for legacy
// name lookup and for matching a media-col size back to a named size.
var standardMedia = []Media{
	{"iso_a3_297x420mm", 29700, 42000},
	{"iso_a4_210x297mm", 21000, 29700},
	{"iso_a5_148x210mm", 14800, 21000},
	{"iso_b5_176x250mm", 17600, 25000},
	{"iso_c5_162x229mm", 16200, 22900},
	{"iso_dl_110x220mm", 11000, 22000},
	{"jis_b5_182x257mm", 18200, 25700},
	{"na_5x7_5x7in", 12700, 17780},
	{"na_executive_7.25x10.5in", 18415, 26670},
	{"na_govt-letter_8x10in", 20320, 25400},
	{"na_index-4x6_4x6in", 10160, 15240},
	{"na_ledger_11x17in", 27940, 43180},
	{"na_legal_8.5x14in", 21590, 35560},
	{"na_letter_8.5x11in", 21590, 27940},
	{"na_monarch_3.875x7.5in", 9842, 19050},
	{"na_number-10_4.125x9.5in", 10477, 24130},
}

// legacyMedia maps the CUPS legacy media names to PWG names.
var legacyMedia = map[string]string{
	"a3":         "iso_a3_297x420mm",
	"a4":         "iso_a4_210x297mm",
	"a5":         "iso_a5_148x210mm",
	"executive":  "na_executive_7.25x10.5in",
	"isob5":      "iso_b5_176x250mm",
	"jisb5":      "jis_b5_182x257mm",
	"envc5":      "iso_c5_162x229mm",
	"envdl":      "iso_dl_110x220mm",
	"env10":      "na_number-10_4.125x9.5in",
	"com10":      "na_number-10_4.125x9.5in",
	"ledger":     "na_ledger_11x17in",
	"tabloid":    "na_ledger_11x17in",
	"legal":      "na_legal_8.5x14in",
	"letter":     "na_letter_8.5x11in",
	"monarch":    "na_monarch_3.875x7.5in",
	"envmonarch": "na_monarch_3.875x7.5in",
	"photo":      "na_index-4x6_4x6in",
	"5x7":        "na_5x7_5x7in",
	"8x10":       "na_govt-letter_8x10in",
}

// hundredths per unit for the dimension suffixes of self-describing
// media size names.
var mediaUnits = map[string]float64{
	"cm": 1000,
	"ft": 30480,
	"in": 2540,
	"m":  100000,
	"mm": 100,
	"pt": 2540.0 / 72.0,
}

// MediaForPWG parses a PWG self-describing media size name such as
// "na_letter_8.5x11in" or "iso_a4_210x297mm".  The dimensions are
// taken from the name itself, so any well-formed name resolves, not
// only the sizes in the standard registry.
func MediaForPWG(name string) (Media, bool) {
	idx := strings.LastIndex(name, "_")
	if idx < 0 || strings.Index(name, "_") == idx {
		return Media{}, false
	}
	dims := name[idx+1:]

	var unit string
	for u := range mediaUnits {
		if strings.HasSuffix(dims, u) && len(u) > len(unit) {
			unit = u
		}
	}
	if unit == "" {
		return Media{}, false
	}
	dims = strings.TrimSuffix(dims, unit)

	ws, ls, ok := strings.Cut(dims, "x")
	if !ok {
		return Media{}, false
	}
	w, err1 := strconv.ParseFloat(ws, 64)
	l, err2 := strconv.ParseFloat(ls, 64)
	if err1 != nil || err2 != nil || w <= 0 || l <= 0 {
		return Media{}, false
	}

	scale := mediaUnits[unit]
	return Media{
		Name:   name,
		Width:  int(w * scale),
		Length: int(l * scale),
	}, true
}

// MediaForLegacy resolves an old-style media name such as "letter" or
// "a4".
func MediaForLegacy(name string) (Media, bool) {
	pwg, ok := legacyMedia[strings.ToLower(name)]
	if !ok {
		return Media{}, false
	}
	return MediaForPWG(pwg)
}

// MediaForSize finds the named size matching the given dimensions in
// hundredths of millimeters, within a tolerance of half a millimeter.
// If no standard size matches, a custom size is returned.
func MediaForSize(width, length int) Media {
	const eps = 50
	for _, m := range standardMedia {
		dw := m.Width - width
		dl := m.Length - length
		if dw >= -eps && dw <= eps && dl >= -eps && dl <= eps {
			return m
		}
	}
	return Media{
		Name: fmt.Sprintf("custom_%gx%gmm",
			float64(width)/100, float64(length)/100),
		Width:  width,
		Length: length,
	}
}

// Borderless reports whether the size is one of the photo sizes that
// are printed borderless by convention (4x6in, 5x7in and 8x10in).
func (m Media) Borderless() bool {
	switch {
	case m.Width == 10160 && m.Length == 15240:
		return true
	case m.Width == 12700 && m.Length == 17780:
		return true
	case m.Width == 20320 && m.Length == 25400:
		return true
	}
	return false
}
