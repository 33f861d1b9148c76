// Copyright 2024 The rvm Authors
// This file is part of the rvm library.
//
// The rvm library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The rvm library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the rvm library. If not, see <http://www.gnu.org/licenses/>.

package merkle

import "testing"

func TestPositionHeight(t *testing.T) {
	cases := []struct {
		index uint64
		want  uint64
	}{
		{0, 0}, {2, 0}, {4, 0}, {6, 0},
		{1, 1}, {5, 1}, {9, 1},
		{3, 2}, {11, 2},
		{7, 3},
	}
	for _, c := range cases {
		if got := (Position{index: c.index}).Height(); got != c.want {
			t.Errorf("Height(%d) = %d, want %d", c.index, got, c.want)
		}
	}
}

func TestPositionParentChildRoundTrip(t *testing.T) {
	for _, idx := range []uint64{0, 1, 2, 3, 4, 5, 6} {
		p := Position{index: idx}
		parent := p.Parent()
		if p.Index() != parent.LeftChild().Index() && p.Index() != parent.RightChild().Index() {
			t.Errorf("index %d is not a child of its own parent %d", idx, parent.Index())
		}
		if p.Sibling().Sibling().Index() != p.Index() {
			t.Errorf("Sibling is not an involution for index %d", idx)
		}
	}
}

func TestRootPosition(t *testing.T) {
	cases := []struct {
		leaves uint64
		want   uint64
	}{
		{1, 1},
		{2, 3},
		{3, 3},
		{4, 7},
		{7, 7},
		{8, 15},
	}
	for _, c := range cases {
		if got := rootPosition(c.leaves).Index(); got != c.want {
			t.Errorf("rootPosition(%d) = %d, want %d", c.leaves, got, c.want)
		}
	}
}

func TestPeakPositionsSevenLeaves(t *testing.T) {
	peaks := peakPositions(7)
	want := []uint64{3, 9, 12}
	if len(peaks) != len(want) {
		t.Fatalf("peakPositions(7) = %v, want indices %v", peaks, want)
	}
	for i, p := range peaks {
		if p.Index() != want[i] {
			t.Errorf("peak %d = %d, want %d", i, p.Index(), want[i])
		}
	}
}

func TestPeakPositionsPerfectTree(t *testing.T) {
	peaks := peakPositions(4)
	if len(peaks) != 1 {
		t.Fatalf("peakPositions(4) = %v, want a single peak", peaks)
	}
	if peaks[0].Index() != 3 {
		t.Errorf("peakPositions(4)[0] = %d, want 3", peaks[0].Index())
	}
}
