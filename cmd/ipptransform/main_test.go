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

package main

import (
	"testing"
)

func TestEnvOptions(t *testing.T) {
	t.Setenv("IPP_COPIES", "2")
	t.Setenv("IPP_MEDIA_DEFAULT", "iso_a4_210x297mm")
	t.Setenv("IPP_PRINT_SCALING_DEFAULT", "fit")

	opts := envOptions()
	want := map[string]string{
		"copies":                "2",
		"media-default":         "iso_a4_210x297mm",
		"print-scaling-default": "fit",
	}
	for name, value := range want {
		if got := opts.Get(name); got != value {
			t.Errorf("option %q = %q, want %q", name, got, value)
		}
	}
}

// TestJobOptions checks that command line options override the ones
// from the environment.
func TestJobOptions(t *testing.T) {
	t.Setenv("IPP_COPIES", "2")
	t.Setenv("IPP_SIDES", "one-sided")

	opts, err := jobOptions("copies=5")
	if err != nil {
		t.Fatal(err)
	}
	if got := opts.Get("copies"); got != "5" {
		t.Errorf("copies = %q, want %q", got, "5")
	}
	if got := opts.Get("sides"); got != "one-sided" {
		t.Errorf("sides = %q, want %q", got, "one-sided")
	}
}
