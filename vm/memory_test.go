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

import (
	"errors"
	"testing"
)

func TestMemoryGrowStackBounds(t *testing.T) {
	m := NewVmMemory(64, 0)
	if err := m.GrowStack(32); err != nil {
		t.Fatalf("GrowStack(32): %v", err)
	}
	if m.SP() > m.HP() {
		t.Fatalf("SP %d exceeds HP %d", m.SP(), m.HP())
	}
	if err := m.GrowHeapBy(32); err != nil {
		t.Fatalf("GrowHeapBy(32): %v", err)
	}
	if m.SP() != m.HP() {
		t.Fatalf("SP=%d HP=%d, want equal after filling the buffer", m.SP(), m.HP())
	}
	if err := m.GrowStack(1); !isPanic(err, PanicMemoryOverflow) {
		t.Errorf("GrowStack past HP = %v, want MemoryOverflow", err)
	}
}

func TestMemoryUncommittedAccessOverflows(t *testing.T) {
	m := NewVmMemory(64, 0)
	_ = m.GrowStack(8)
	_ = m.GrowHeapBy(8)
	// [8, 56) is uncommitted.
	if _, err := m.ReadBytes(16, 8); !isPanic(err, PanicMemoryOverflow) {
		t.Errorf("read in uncommitted gap = %v, want MemoryOverflow", err)
	}
	if _, err := m.ReadBytes(0, 8); err != nil {
		t.Errorf("read inside stack region: %v", err)
	}
	if _, err := m.ReadBytes(56, 8); err != nil {
		t.Errorf("read inside heap region: %v", err)
	}
}

func TestMemoryWriteOverlap(t *testing.T) {
	m := NewVmMemory(64, 16)
	if err := m.WriteBytes(8, []byte{1}); !isPanic(err, PanicMemoryWriteOverlap) {
		t.Errorf("write into tx region = %v, want MemoryWriteOverlap", err)
	}
}

func isPanic(err error, reason PanicReason) bool {
	var p *Panic
	return errors.As(err, &p) && p.Reason == reason
}
