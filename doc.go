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

// Package printraster converts rendered document pages to the raster
// formats understood by printers: PWG Raster, Apple Raster (URF) and
// HP PCL.
//
// A print job runs in three steps.  [Resolve] negotiates the IPP job
// options against the printer's capabilities and produces the frozen
// job [Parameters]: page size, resolution, pixel format and duplex
// mode.  A [Renderer] supplies the document pages; the pdfdraw and
// imagedraw subpackages provide renderers for PDF files and for
// single images.  [Transform] then drives the renderer page by page
// and feeds the pixels to the output encoder.
//
// Pages are rendered in horizontal bands so that memory use stays
// bounded regardless of page size and resolution.  The renderer is
// called once per band with a transform mapping page coordinates into
// the band, and the driver hands the finished scanlines to the
// encoder while the next band is prepared.
package printraster
