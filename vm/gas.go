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

// GasCosts is the injected per-opcode cost table. The core never hard
// codes a cost; callers supply one, typically DefaultGasCosts.
type GasCosts struct {
	Trivial    uint64
	Arithmetic uint64
	Mul        uint64
	DivMod     uint64
	Bitwise    uint64
	MemOp      uint64
	Jump       uint64
	Call       uint64
	Ret        uint64
	Crypto     uint64
	StorageOp  uint64
}

// DefaultGasCosts returns a representative cost table; consensus
// parameters are expected to override it with their own schedule.
func DefaultGasCosts() GasCosts {
	return GasCosts{
		Trivial:    1,
		Arithmetic: 2,
		Mul:        3,
		DivMod:     5,
		Bitwise:    2,
		MemOp:      3,
		Jump:       2,
		Call:       50,
		Ret:        10,
		Crypto:     300,
		StorageOp:  30,
	}
}

// costOf returns the configured cost for op.
func costOf(costs GasCosts, op Opcode) uint64 {
	switch op {
	case OpADD, OpSUB, OpADDI:
		return costs.Arithmetic
	case OpMUL:
		return costs.Mul
	case OpDIV, OpMOD:
		return costs.DivMod
	case OpAND, OpOR, OpXOR, OpSLL, OpSRL:
		return costs.Bitwise
	case OpLW, OpSW, OpALOC, OpCFEI, OpCFSI:
		return costs.MemOp
	case OpJMP, OpJNZ:
		return costs.Jump
	case OpCALL:
		return costs.Call
	case OpRET, OpRETD, OpRVRT:
		return costs.Ret
	case OpECK1, OpECR1, OpED19, OpS256, OpK256, OpECOP, OpEPAR:
		return costs.Crypto
	case OpSWW, OpSRW, OpTR, OpTRO:
		return costs.StorageOp
	default:
		return costs.Trivial
	}
}

// useGas decrements both CGAS and GGAS by cost. A context-gas shortfall
// is OutOfGas and unwinds to the caller (or terminates the top-level
// script); a global-gas shortfall panics the whole transaction.
func (it *Interpreter) useGas(cost uint64) error {
	cgas := it.regs.Read(RegCGAS)
	ggas := it.regs.Read(RegGGAS)
	if ggas < cost {
		return panicErr(PanicOutOfGas)
	}
	it.regs.SystemSet(RegGGAS, ggas-cost)
	if cgas < cost {
		return errOutOfGasInFrame
	}
	it.regs.SystemSet(RegCGAS, cgas-cost)
	return nil
}
