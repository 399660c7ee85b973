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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseOptions(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Options
	}{
		{"empty", "", Options{}},
		{
			"simple",
			"media=na_letter_8.5x11in copies=2",
			Options{"media": "na_letter_8.5x11in", "copies": "2"},
		},
		{
			"quoted",
			`job-name="my document" title='a b'`,
			Options{"job-name": "my document", "title": "a b"},
		},
		{
			"boolean",
			"fitplot nocollate",
			Options{"fitplot": "true", "collate": "false"},
		},
		{
			"collection",
			"media-col={media-size={x-dimension=21000 y-dimension=29700} media-top-margin=0}",
			Options{"media-col": "media-size={x-dimension=21000 y-dimension=29700} media-top-margin=0"},
		},
		{
			"whitespace",
			"  sides=two-sided-long-edge\tprint-quality=5 ",
			Options{"sides": "two-sided-long-edge", "print-quality": "5"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseOptions(c.in)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(c.want, got); d != "" {
				t.Errorf("options differ (-want +got):\n%s", d)
			}
		})
	}
}

func TestParseOptionsNested(t *testing.T) {
	opts, err := ParseOptions("media-col={media-size={x-dimension=10160 y-dimension=15240} media-left-margin=0}")
	if err != nil {
		t.Fatal(err)
	}

	col, err := ParseOptions(opts.Get("media-col"))
	if err != nil {
		t.Fatal(err)
	}
	size, err := ParseOptions(col.Get("media-size"))
	if err != nil {
		t.Fatal(err)
	}
	if size.Get("x-dimension") != "10160" || size.Get("y-dimension") != "15240" {
		t.Errorf("unexpected media-size %v", size)
	}
	if col.Get("media-left-margin") != "0" {
		t.Errorf("unexpected margin %q", col.Get("media-left-margin"))
	}
}

func TestParseOptionsErrors(t *testing.T) {
	for _, in := range []string{
		"media-col={unclosed",
		`title="unterminated`,
		"=value",
	} {
		if _, err := ParseOptions(in); err == nil {
			t.Errorf("ParseOptions(%q) succeeded, want error", in)
		}
	}
}
