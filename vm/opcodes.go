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

import "encoding/binary"

// Opcode identifies a decoded instruction.
type Opcode uint8

const (
	OpNOOP Opcode = iota
	OpADD
	OpSUB
	OpMUL
	OpDIV
	OpMOD
	OpADDI
	OpAND
	OpOR
	OpXOR
	OpSLL
	OpSRL
	OpNOT
	OpEQ
	OpLT
	OpGT
	OpLW
	OpSW
	OpALOC
	OpCFEI
	OpCFSI
	OpJMP
	OpJNZ
	OpCALL
	OpRET
	OpRETD
	OpRVRT
	OpLOG
	OpTR
	OpTRO
	OpSWW
	OpSRW
	OpECK1
	OpECR1
	OpED19
	OpS256
	OpK256
	OpECOP
	OpEPAR
	OpGTF
	OpGM
	opCount
)

// instruction is a decoded 32-bit word: opcode:8 | ra:6 | rb:6 | rc:6 |
// rd:6, or opcode:8 | ra:6 | imm18 for the wide-immediate shape used by
// ADDI/JMP/JNZ/CFEI/CFSI/GTF/GM.
type instruction struct {
	Op   Opcode
	Ra   uint8
	Rb   uint8
	Rc   uint8
	Rd   uint8
	Imm  uint32 // valid when Op uses the wide-immediate shape
	wide bool
}

const regIndexMask = 0x3F // 6 bits addresses 64 registers

// wideImmediateOps is the set of opcodes that consume the 18-bit
// immediate shape instead of three register operands.
var wideImmediateOps = map[Opcode]bool{
	OpADDI: true,
	OpJMP:  true,
	OpJNZ:  true,
	OpCFEI: true,
	OpCFSI: true,
	OpGTF:  true,
	OpGM:   true,
}

// encode packs an instruction into 4 little-endian bytes.
func encode(i instruction) [4]byte {
	var word uint32
	word |= uint32(i.Op)
	word |= uint32(i.Ra&regIndexMask) << 8
	if wideImmediateOps[i.Op] {
		word |= (i.Imm & 0x3FFFF) << 14
	} else {
		word |= uint32(i.Rb&regIndexMask) << 14
		word |= uint32(i.Rc&regIndexMask) << 20
		word |= uint32(i.Rd&regIndexMask) << 26
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], word)
	return buf
}

// decode unpacks 4 little-endian bytes into an instruction. It fails
// with InvalidInstruction if the opcode byte is out of range.
func decode(buf [4]byte) (instruction, error) {
	word := binary.LittleEndian.Uint32(buf[:])
	op := Opcode(word & 0xFF)
	if op >= opCount {
		return instruction{}, panicErr(PanicInvalidInstruction)
	}
	ra := uint8((word >> 8) & regIndexMask)
	i := instruction{Op: op, Ra: ra}
	if wideImmediateOps[op] {
		i.Imm = (word >> 14) & 0x3FFFF
		i.wide = true
	} else {
		i.Rb = uint8((word >> 14) & regIndexMask)
		i.Rc = uint8((word >> 20) & regIndexMask)
		i.Rd = uint8((word >> 26) & regIndexMask)
	}
	return i, nil
}
