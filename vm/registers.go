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

// NumRegisters is the fixed register file size.
const NumRegisters = 64

// Reserved register indices. ZERO and ONE are read-only constants; the
// rest are written only by the interpreter itself through the helpers
// below, never by ordinary opcode destination writes.
const (
	RegZERO = iota
	RegONE
	RegOF
	RegERR
	RegPC
	RegSSP
	RegSP
	RegFP
	RegHP
	RegGGAS
	RegCGAS
	RegBAL
	RegIS
	RegRET
	RegRETL
	RegFLAG
	numReserved
)

// RegisterFile is the fixed array of 64 u64 general-purpose and system
// registers. ZERO and ONE are read-only constants; the other reserved
// registers are writable only through dedicated methods, never through
// the general Write path used by opcode destinations.
type RegisterFile struct {
	words [NumRegisters]uint64
}

// NewRegisterFile returns a register file with ZERO/ONE seeded and every
// other register at zero.
func NewRegisterFile() *RegisterFile {
	rf := &RegisterFile{}
	rf.words[RegONE] = 1
	return rf
}

// Read returns the value of register idx. Out-of-range indices return 0,
// matching the decode-time bounds check that should have already
// rejected the instruction.
func (rf *RegisterFile) Read(idx uint8) uint64 {
	if int(idx) >= NumRegisters {
		return 0
	}
	return rf.words[idx]
}

// Write sets register idx to v through the general opcode-destination
// path. Writes to ZERO, ONE, or any other reserved register fail with
// PanicReservedRegisterNotWritable; callers that need to update a
// reserved register use the System* setters instead.
func (rf *RegisterFile) Write(idx uint8, v uint64) error {
	if int(idx) < numReserved {
		return panicErr(PanicReservedRegisterNotWritable)
	}
	if int(idx) >= NumRegisters {
		return panicErr(PanicReservedRegisterNotWritable)
	}
	rf.words[idx] = v
	return nil
}

// SystemSet writes a reserved register directly. Only the interpreter's
// PC-advance, call/return, and gas-accounting helpers call this.
func (rf *RegisterFile) SystemSet(idx uint8, v uint64) {
	rf.words[idx] = v
}

// Snapshot returns a copy of the full register array, used by CallFrame
// to save/restore on CALL/RET.
func (rf *RegisterFile) Snapshot() [NumRegisters]uint64 {
	return rf.words
}

// Restore overwrites the register array from a previously taken snapshot.
func (rf *RegisterFile) Restore(words [NumRegisters]uint64) {
	rf.words = words
}
