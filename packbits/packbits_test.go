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

package packbits

import (
	"bytes"
	"testing"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		out  []byte
	}{
		{"empty", nil, nil},
		{"single", []byte{0x55}, []byte{0x00, 0x55}},
		{"pair", []byte{7, 7}, []byte{0xff, 7}},
		{"literal", []byte{1, 2, 3}, []byte{0x02, 1, 2, 3}},
		{"run", bytes.Repeat([]byte{9}, 5), []byte{0xfc, 9}},
		{
			// a run longer than 127 bytes splits into two runs
			"longrun",
			bytes.Repeat([]byte{0xaa}, 200),
			[]byte{0x82, 0xaa, 0xb8, 0xaa},
		},
		{
			// trailing pair after literal data starts a repeated run
			"mixed",
			[]byte{1, 2, 3, 3},
			[]byte{0x01, 1, 2, 0xff, 3},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := AppendEncoded(nil, c.in)
			if !bytes.Equal(got, c.out) {
				t.Errorf("AppendEncoded(%v) = %x, want %x", c.in, got, c.out)
			}
			if len(got) > MaxEncodedLen(len(c.in)) {
				t.Errorf("encoded size %d exceeds MaxEncodedLen(%d) = %d",
					len(got), len(c.in), MaxEncodedLen(len(c.in)))
			}
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	cases := [][]byte{
		{0x02, 1, 2},   // literal run missing a byte
		{0xfc},         // repeat run missing the byte
		{0x00},         // single literal missing
	}
	for _, in := range cases {
		if _, err := AppendDecoded(nil, in); err != ErrTruncated {
			t.Errorf("AppendDecoded(%x) error = %v, want ErrTruncated", in, err)
		}
	}
}

func TestDecodeNoOp(t *testing.T) {
	got, err := AppendDecoded(nil, []byte{0x80, 0x00, 0x42, 0x80})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x42}) {
		t.Errorf("got %x, want 42", got)
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("a"))
	f.Add([]byte("aaaa"))
	f.Add([]byte("abcabc"))
	f.Add(bytes.Repeat([]byte{0}, 300))

	f.Fuzz(func(t *testing.T, in []byte) {
		enc := AppendEncoded(nil, in)
		if len(enc) > MaxEncodedLen(len(in)) {
			t.Errorf("encoded size %d exceeds bound %d", len(enc), MaxEncodedLen(len(in)))
		}
		dec, err := AppendDecoded(nil, enc)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(dec, in) {
			t.Errorf("round trip: got %x, want %x", dec, in)
		}
	})
}

func BenchmarkEncode(b *testing.B) {
	line := make([]byte, 2550)
	for i := range line {
		if i/100%2 == 0 {
			line[i] = 0xff
		} else {
			line[i] = byte(i)
		}
	}
	buf := make([]byte, 0, MaxEncodedLen(len(line)))
	b.SetBytes(int64(len(line)))
	for i := 0; i < b.N; i++ {
		AppendEncoded(buf[:0], line)
	}
}
