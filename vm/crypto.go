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

// CryptoOps is the set of memory-in/memory-out cryptographic primitives
// the ECK1/ECR1/ED19/S256/K256/ECOP/EPAR opcodes dispatch to. Defined
// here, the consumer, so package cryptoops can implement it without vm
// importing cryptoops.
type CryptoOps interface {
	Eck1(mem *VmMemory, dst, sigOffset, msgOffset uint64) (bool, error)
	Ecr1(mem *VmMemory, dst, sigOffset, msgOffset uint64) (bool, error)
	Ed19(mem *VmMemory, sigOffset, pubkeyOffset, msgLen uint64) (bool, error)
	S256(mem *VmMemory, dst, srcOffset, n uint64) error
	K256(mem *VmMemory, dst, srcOffset, n uint64) error
	EcOp(mem *VmMemory, dst, aOffset, bOffset uint64, mode uint8) (bool, error)
	EPair(mem *VmMemory, dst, pairsOffset uint64, pairCount int) (bool, error)
}

// SetCryptoOps wires a CryptoOps implementation into the interpreter. An
// interpreter with no CryptoOps set panics ContractNotFound-style on any
// crypto opcode, via noCryptoOps below, rather than on a nil dereference.
func (it *Interpreter) SetCryptoOps(c CryptoOps) { it.crypto = c }

type noCryptoOps struct{}

func (noCryptoOps) Eck1(*VmMemory, uint64, uint64, uint64) (bool, error) { return false, panicErr(PanicContractNotFound) }
func (noCryptoOps) Ecr1(*VmMemory, uint64, uint64, uint64) (bool, error) { return false, panicErr(PanicContractNotFound) }
func (noCryptoOps) Ed19(*VmMemory, uint64, uint64, uint64) (bool, error) { return false, panicErr(PanicContractNotFound) }
func (noCryptoOps) S256(*VmMemory, uint64, uint64, uint64) error         { return panicErr(PanicContractNotFound) }
func (noCryptoOps) K256(*VmMemory, uint64, uint64, uint64) error         { return panicErr(PanicContractNotFound) }
func (noCryptoOps) EcOp(*VmMemory, uint64, uint64, uint64, uint8) (bool, error) {
	return false, panicErr(PanicContractNotFound)
}
func (noCryptoOps) EPair(*VmMemory, uint64, uint64, int) (bool, error) {
	return false, panicErr(PanicContractNotFound)
}

// cryptoResult turns a (success bool, err error) pair from a CryptoOps
// call into the same ERR-latching-without-panic behavior the FLAG
// register gives arithmetic panics: a bounds-violation error still
// propagates as a panic, but a clean cryptographic failure only sets
// ERR=1 and continues.
func (it *Interpreter) cryptoResult(ok bool, err error) (Outcome, error) {
	if err != nil {
		return OutcomeHalted, err
	}
	errVal := uint64(0)
	if !ok {
		errVal = 1
	}
	it.setSystemReg(RegERR, errVal)
	return OutcomeContinue, nil
}
