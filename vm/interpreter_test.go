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
	"testing"

	"github.com/probeum/rvm/common"
)

// memStorage is an in-memory Storage used only by tests.
type memStorage map[string]map[[32]byte][32]byte

func (s memStorage) Get(mapID string, key [32]byte) ([32]byte, bool) {
	m, ok := s[mapID]
	if !ok {
		return [32]byte{}, false
	}
	v, ok := m[key]
	return v, ok
}

func (s memStorage) Put(mapID string, key, val [32]byte) {
	m, ok := s[mapID]
	if !ok {
		m = make(map[[32]byte][32]byte)
		s[mapID] = m
	}
	m[key] = val
}

func (s memStorage) Remove(mapID string, key [32]byte) {
	if m, ok := s[mapID]; ok {
		delete(m, key)
	}
}

type noCode struct{}

func (noCode) CodeOf(common.ContractId) ([]byte, bool) { return nil, false }

// instr encodes a standard 3-address instruction into its 4-byte word.
func instr(op Opcode, ra, rb, rc, rd uint8) []byte {
	buf := encode(instruction{Op: op, Ra: ra, Rb: rb, Rc: rc, Rd: rd})
	return buf[:]
}

// instrWide encodes a wide-immediate instruction.
func instrWide(op Opcode, ra uint8, imm uint32) []byte {
	buf := encode(instruction{Op: op, Ra: ra, Imm: imm})
	return buf[:]
}

func program(instrs ...[]byte) []byte {
	var out []byte
	for _, i := range instrs {
		out = append(out, i...)
	}
	return out
}

func newTestInterpreter(t *testing.T, code []byte) *Interpreter {
	t.Helper()
	const memSize = 4096
	const txSize = 64
	it := New(memStorage{}, noCode{}, memSize, txSize, 1_000_000, 1_000_000, DefaultGasCosts(), 64)
	// Commit the lower half of memory as stack so the loaded program and
	// the scratch words the tests address lie in the committed region.
	if err := it.mem.GrowStack(memSize / 2); err != nil {
		t.Fatalf("growing stack: %v", err)
	}
	if err := it.mem.WriteBytes(txSize, code); err != nil {
		t.Fatalf("loading code: %v", err)
	}
	it.regs.SystemSet(RegPC, txSize)
	return it
}

func TestInterpreterArithmeticAndReturn(t *testing.T) {
	code := program(
		instrWide(OpADDI, numReserved, 5),
		instrWide(OpADDI, numReserved, 7),
		instr(OpRET, numReserved, 0, 0, 0),
	)
	it := newTestInterpreter(t, code)
	result, err := it.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != 12 {
		t.Errorf("result = %d, want 12", result)
	}
	if !it.Halted() {
		t.Error("interpreter should be halted after top-level RET")
	}
}

func TestInterpreterSPNeverExceedsHP(t *testing.T) {
	code := program(instrWide(OpCFEI, 0, 64), instr(OpRET, 0, 0, 0, 0))
	it := newTestInterpreter(t, code)
	if _, err := it.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if it.mem.SP() > it.mem.HP() {
		t.Errorf("SP %d exceeds HP %d", it.mem.SP(), it.mem.HP())
	}
}

func TestInterpreterDivisionByZeroSuppressible(t *testing.T) {
	r0 := numReserved
	// DIV r0(dst) <- r0(dividend) / ZERO(divisor): divisor is always 0.
	code := program(instr(OpDIV, 0, r0, RegZERO, r0), instr(OpRET, r0, 0, 0, 0))
	it := newTestInterpreter(t, code)
	it.regs.SystemSet(RegFLAG, 1)
	_ = it.writeReg(r0, 9)
	result, err := it.Run()
	if err != nil {
		t.Fatalf("Run with FLAG suppression: %v", err)
	}
	if result != 0 {
		t.Errorf("suppressed DIV result = %d, want 0", result)
	}
	if it.regs.Read(RegERR) != 1 {
		t.Errorf("ERR = %d, want 1 after suppressed panic", it.regs.Read(RegERR))
	}
}

func TestInterpreterDivisionByZeroPanicsWithoutFlag(t *testing.T) {
	r0 := numReserved
	code := program(instr(OpDIV, 0, r0, RegZERO, r0), instr(OpRET, r0, 0, 0, 0))
	it := newTestInterpreter(t, code)
	if _, err := it.Run(); !isPanic(err, PanicArithmeticOverflow) {
		t.Errorf("Run without FLAG = %v, want ArithmeticOverflow panic", err)
	}
}
