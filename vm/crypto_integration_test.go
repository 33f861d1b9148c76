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

// TestCryptoOpcodeWithoutProviderPanics confirms an interpreter created via
// New (which defaults CryptoOps to noCryptoOps) reports ContractNotFound on
// a crypto opcode rather than dereferencing a nil CryptoOps, until a real
// provider is wired in with SetCryptoOps.
func TestCryptoOpcodeWithoutProviderPanics(t *testing.T) {
	code := program(instr(OpK256, 0, 0, 0, 0))
	it := newTestInterpreter(t, code)
	if _, err := it.Run(); !isPanic(err, PanicContractNotFound) {
		t.Errorf("K256 without a CryptoOps provider = %v, want ContractNotFound panic", err)
	}
}

// stubCryptoOps lets SetCryptoOps be exercised without pulling in the
// cryptoops package itself (which imports vm, so importing it from an
// internal vm test would be a cycle).
type stubCryptoOps struct{ digest [32]byte }

func (s stubCryptoOps) Eck1(*VmMemory, uint64, uint64, uint64) (bool, error) { return false, nil }
func (s stubCryptoOps) Ecr1(*VmMemory, uint64, uint64, uint64) (bool, error) { return false, nil }
func (s stubCryptoOps) Ed19(*VmMemory, uint64, uint64, uint64) (bool, error) { return false, nil }
func (s stubCryptoOps) S256(*VmMemory, uint64, uint64, uint64) error         { return nil }
func (s stubCryptoOps) K256(mem *VmMemory, dst, _, _ uint64) error {
	return mem.WriteBytes(dst, s.digest[:])
}
func (s stubCryptoOps) EcOp(*VmMemory, uint64, uint64, uint64, uint8) (bool, error) {
	return false, nil
}
func (s stubCryptoOps) EPair(*VmMemory, uint64, uint64, int) (bool, error) { return false, nil }

func TestCryptoOpcodeDispatchesToWiredProvider(t *testing.T) {
	code := program(instr(OpK256, numReserved, numReserved+1, numReserved+2, 0), instr(OpRET, 0, 0, 0, 0))
	it := newTestInterpreter(t, code)
	var digest [32]byte
	digest[0] = 0xAB
	it.SetCryptoOps(stubCryptoOps{digest: digest})
	_ = it.writeReg(numReserved, 512) // dst
	if _, err := it.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got, err := it.Memory().ReadBytes(512, 32)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if got[0] != 0xAB {
		t.Errorf("K256 dispatch did not reach the wired provider: got %x", got)
	}
	if it.Registers().Read(RegERR) != 0 {
		t.Errorf("ERR after successful K256 = %d, want 0", it.Registers().Read(RegERR))
	}
}
