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
	"bytes"
	"strings"
	"testing"
)

// TestPCLMetricMedia checks that metric page sizes coming out of the
// negotiation select the right PCL page size code.  Metric media have
// fractional point lengths (A4 is 841.89 pt), which must still match
// the whole-point media table.
func TestPCLMetricMedia(t *testing.T) {
	cases := []struct {
		media string
		code  string
		left  int
		right int
	}{
		// A4 exposes a centered 8 inch print area
		{"iso_a4_210x297mm", "\033&l26A", 40, 2440},
		// DL envelope gets the regular 1/4 inch side margins
		{"iso_dl_110x220mm", "\033&l90A", 75, 1224},
	}
	for _, c := range cases {
		p, err := Resolve(FormatPCL, Options{"media": c.media},
			testCaps(), &Defaults{}, false, 1)
		if err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		enc := NewEncoder(&buf, p)
		if err := enc.StartPage(&p.Header, 1); err != nil {
			t.Fatal(err)
		}

		if out := buf.String(); !strings.Contains(out, c.code) {
			t.Errorf("%s: page size command %q missing in %q",
				c.media, c.code, out)
		}
		left, _, right, _ := enc.Window()
		if left != c.left || right != c.right {
			t.Errorf("%s: window columns [%d, %d), want [%d, %d)",
				c.media, left, right, c.left, c.right)
		}
	}
}
