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

package dither

import (
	"bytes"
	"testing"
)

// TestOrderedDistribution verifies that the threshold values are
// evenly distributed, so that mid-gray areas render as a 50% pattern.
func TestOrderedDistribution(t *testing.T) {
	var count [256]int
	m := Ordered()
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			count[m[y][x]]++
		}
	}
	for v, n := range count {
		if n != Size*Size/256 {
			t.Errorf("threshold %d occurs %d times, want %d", v, n, Size*Size/256)
		}
	}
}

func TestUniform(t *testing.T) {
	m := Uniform(127)

	line := []byte{0, 64, 127, 128, 200, 255, 127, 128}
	out := make([]byte, 1)

	n := m.Reduce(out, line, 0, 0, BlackIsOne)
	if n != 1 {
		t.Fatalf("Reduce returned %d, want 1", n)
	}
	// samples <= 127 set a bit
	if out[0] != 0b11100010 {
		t.Errorf("BlackIsOne: got %08b, want 11100010", out[0])
	}

	m.Reduce(out, line, 0, 0, WhiteIsOne)
	if out[0] != 0b00011101 {
		t.Errorf("WhiteIsOne: got %08b, want 00011101", out[0])
	}
}

// TestReducePadding checks that the final partial byte is padded with
// zero bits.
func TestReducePadding(t *testing.T) {
	m := Uniform(127)
	line := []byte{0, 0, 0} // three black samples
	out := []byte{0xff}

	n := m.Reduce(out, line, 0, 0, BlackIsOne)
	if n != 1 {
		t.Fatalf("Reduce returned %d, want 1", n)
	}
	if out[0] != 0b11100000 {
		t.Errorf("got %08b, want 11100000", out[0])
	}
}

// TestReducePhase verifies that x0 fixes the horizontal phase of the
// matrix: dithering a long line in two pieces must give the same bits
// as dithering it at once.
func TestReducePhase(t *testing.T) {
	m := Ordered()

	line := make([]byte, 256)
	for i := range line {
		line[i] = byte(i)
	}

	whole := make([]byte, 32)
	m.Reduce(whole, line, 5, 0, BlackIsOne)

	first := make([]byte, 16)
	second := make([]byte, 16)
	m.Reduce(first, line[:128], 5, 0, BlackIsOne)
	m.Reduce(second, line[128:], 5, 128, BlackIsOne)

	got := append(append([]byte{}, first...), second...)
	if !bytes.Equal(got, whole) {
		t.Errorf("split dithering differs from whole-line dithering")
	}
}

// TestRowWrap checks that the matrix repeats with period Size in both
// directions.
func TestRowWrap(t *testing.T) {
	m := Ordered()
	if m.Row(3) != m.Row(3+Size) {
		t.Errorf("Row(3) != Row(%d)", 3+Size)
	}

	line := make([]byte, Size)
	for i := range line {
		line[i] = 127
	}
	a := make([]byte, Size/8)
	b := make([]byte, Size/8)
	m.Reduce(a, line, 7, 0, BlackIsOne)
	m.Reduce(b, line, 7, Size, BlackIsOne)
	if !bytes.Equal(a, b) {
		t.Errorf("horizontal phase does not wrap at %d", Size)
	}
}

func BenchmarkReduce(b *testing.B) {
	m := Ordered()
	line := make([]byte, 2550)
	for i := range line {
		line[i] = byte(i * 7)
	}
	out := make([]byte, (len(line)+7)/8)
	b.SetBytes(int64(len(line)))
	for i := 0; i < b.N; i++ {
		m.Reduce(out, line, i, 0, BlackIsOne)
	}
}
