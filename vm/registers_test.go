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

package vm

import "testing"

func TestReservedRegistersNotWritable(t *testing.T) {
	rf := NewRegisterFile()
	for idx := uint8(0); idx < numReserved; idx++ {
		before := rf.Read(idx)
		if err := rf.Write(idx, 0xdead); err == nil {
			t.Errorf("Write(%d) succeeded, want ReservedRegisterNotWritable", idx)
		}
		if rf.Read(idx) != before {
			t.Errorf("Write(%d) mutated state despite failing", idx)
		}
	}
}

func TestZeroAndOneConstants(t *testing.T) {
	rf := NewRegisterFile()
	if rf.Read(RegZERO) != 0 {
		t.Errorf("ZERO = %d, want 0", rf.Read(RegZERO))
	}
	if rf.Read(RegONE) != 1 {
		t.Errorf("ONE = %d, want 1", rf.Read(RegONE))
	}
}

func TestGeneralRegisterWrite(t *testing.T) {
	rf := NewRegisterFile()
	if err := rf.Write(numReserved, 42); err != nil {
		t.Fatalf("Write to a general register failed: %v", err)
	}
	if got := rf.Read(numReserved); got != 42 {
		t.Errorf("read back = %d, want 42", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	rf := NewRegisterFile()
	_ = rf.Write(numReserved, 7)
	snap := rf.Snapshot()
	_ = rf.Write(numReserved, 99)
	rf.Restore(snap)
	if got := rf.Read(numReserved); got != 7 {
		t.Errorf("Restore did not roll back register value: got %d, want 7", got)
	}
}
