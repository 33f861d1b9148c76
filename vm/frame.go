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

import "github.com/probeum/rvm/common"

// CallFrame is a saved execution environment pushed by CALL and popped by
// RET. Popping restores every saved register, which in turn restores
// PC/FP/SP/HP since those live in the register file.
type CallFrame struct {
	To             common.ContractId
	AssetID        common.AssetId
	SavedRegisters [NumRegisters]uint64
	CodeSize       uint64
	A              uint64
	B              uint64
}

// frameStack is the nested sequence of CallFrame values live during
// execution, deepest call last.
type frameStack struct {
	frames []CallFrame
}

func (s *frameStack) push(f CallFrame) { s.frames = append(s.frames, f) }

// pop removes and returns the innermost frame. The boolean is false if
// the stack was already empty (the caller is in the external/script
// context).
func (s *frameStack) pop() (CallFrame, bool) {
	if len(s.frames) == 0 {
		return CallFrame{}, false
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, true
}

func (s *frameStack) depth() int { return len(s.frames) }

func (s *frameStack) top() (CallFrame, bool) {
	if len(s.frames) == 0 {
		return CallFrame{}, false
	}
	return s.frames[len(s.frames)-1], true
}
