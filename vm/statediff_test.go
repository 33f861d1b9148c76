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

// TestStateDiffRoundTrip mirrors the rollback_to/reset_vm_state law: after
// a register write, a stack grow, and a balance insert are recorded, applying the
// inverse restores every observable value to what it was before.
func TestStateDiffRoundTrip(t *testing.T) {
	const memSize = 4096
	const txSize = 64
	it := New(memStorage{}, noCode{}, memSize, txSize, 1_000_000, 1_000_000, DefaultGasCosts(), 64)

	r0 := uint8(numReserved)
	startReg := it.regs.Read(r0)
	startSP := it.mem.SP()
	var key [32]byte
	key[0] = 0xAA
	_, hadBefore := it.storage.Get("balances", key)

	diff := it.BeginDiff()
	if err := it.writeReg(r0, startReg+1); err != nil {
		t.Fatalf("writeReg: %v", err)
	}
	if err := it.mem.GrowStack(132); err != nil {
		t.Fatalf("GrowStack: %v", err)
	}
	diff.recordMemoryRegionGrow(regionStack, startSP, it.mem.SP())
	var val [32]byte
	val[0] = 0x01
	it.storagePut("balances", key, val)
	it.EndDiff()

	if it.regs.Read(r0) == startReg {
		t.Fatal("test setup did not actually mutate the register")
	}

	it.ApplyInverse(diff)

	if got := it.regs.Read(r0); got != startReg {
		t.Errorf("register after inverse = %d, want %d", got, startReg)
	}
	if it.mem.SP() != startSP {
		t.Errorf("SP after inverse = %d, want %d", it.mem.SP(), startSP)
	}
	_, hadAfter := it.storage.Get("balances", key)
	if hadAfter != hadBefore {
		t.Errorf("balance entry present after inverse = %v, want %v", hadAfter, hadBefore)
	}
}

func TestStateDiffReceiptRoundTrip(t *testing.T) {
	it := New(memStorage{}, noCode{}, 4096, 64, 1_000_000, 1_000_000, DefaultGasCosts(), 64)
	diff := it.BeginDiff()
	if err := it.appendReceipt(Receipt{Kind: ReceiptLogEvent}); err != nil {
		t.Fatalf("appendReceipt: %v", err)
	}
	it.EndDiff()
	if it.receipts.Len() != 1 {
		t.Fatalf("receipts.Len() = %d, want 1", it.receipts.Len())
	}
	it.ApplyInverse(diff)
	if it.receipts.Len() != 0 {
		t.Errorf("receipts.Len() after inverse = %d, want 0", it.receipts.Len())
	}
}
