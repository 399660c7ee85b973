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

import "seehuhn.de/go/geom/matrix"

// BackTransform returns the transform applied to back side content of
// duplex sheets, in page coordinates (points, origin at the bottom
// left).  sheetBack is the printer's back side policy ("normal",
// "flipped", "manual-tumble" or "rotated"), tumble the job's tumble
// flag, and width and length the page dimensions in points.
func BackTransform(sheetBack string, tumble bool, width, length float64) matrix.Matrix {
	switch sheetBack {
	case "flipped":
		if tumble {
			return matrix.Matrix{-1, 0, 0, 1, width, 0}
		}
		return matrix.Matrix{1, 0, 0, -1, 0, length}
	case "manual-tumble":
		if tumble {
			return matrix.Matrix{-1, 0, 0, -1, width, length}
		}
	case "rotated":
		if !tumble {
			return matrix.Matrix{-1, 0, 0, -1, width, length}
		}
	}
	return matrix.Identity
}
