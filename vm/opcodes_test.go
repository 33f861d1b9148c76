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

func TestInstructionEncodeDecodeRoundTrip(t *testing.T) {
	cases := []instruction{
		{Op: OpADD, Ra: 3, Rb: 4, Rc: 5, Rd: 6},
		{Op: OpNOOP},
		{Op: OpADDI, Ra: 10, Imm: 0x1FFFF, wide: true},
		{Op: OpJMP, Imm: 12, wide: true},
		{Op: OpRET, Ra: 1},
	}
	for _, want := range cases {
		buf := encode(want)
		got, err := decode(buf)
		if err != nil {
			t.Fatalf("decode(encode(%+v)): %v", want, err)
		}
		if got != want {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
		}
	}
}

func TestDecodeRejectsUnknownOpcode(t *testing.T) {
	buf := [4]byte{byte(opCount), 0, 0, 0}
	if _, err := decode(buf); !isPanic(err, PanicInvalidInstruction) {
		t.Errorf("decode of unknown opcode = %v, want InvalidInstruction", err)
	}
}
