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

import "strconv"

// NegotiationError indicates that the requested job options could not
// be matched against the printer's capabilities.  No output has been
// produced when a NegotiationError is returned.
type NegotiationError struct {
	Option string // the option that could not be resolved
	Value  string // the offending value, if any
	Err    error
}

func (err *NegotiationError) Error() string {
	msg := "cannot negotiate " + strconv.Quote(err.Option)
	if err.Value != "" {
		msg += " value " + strconv.Quote(err.Value)
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *NegotiationError) Unwrap() error {
	return err.Err
}

// RenderError indicates that the page renderer failed.  Output written
// before the failure has already reached the sink and must be
// considered corrupt.
type RenderError struct {
	Page int // 1-based page number
	Err  error
}

func (err *RenderError) Error() string {
	return "cannot render page " + strconv.Itoa(err.Page) + ": " + err.Err.Error()
}

func (err *RenderError) Unwrap() error {
	return err.Err
}
