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

package cryptoops

import "github.com/probeum/rvm/vm"

// Ops implements vm.CryptoOps over this package's free functions, the
// concrete value an Interpreter is wired to via SetCryptoOps.
type Ops struct{}

func (Ops) Eck1(mem *vm.VmMemory, dst, sigOffset, msgOffset uint64) (bool, error) {
	return Eck1(mem, dst, sigOffset, msgOffset)
}

func (Ops) Ecr1(mem *vm.VmMemory, dst, sigOffset, msgOffset uint64) (bool, error) {
	return Ecr1(mem, dst, sigOffset, msgOffset)
}

func (Ops) Ed19(mem *vm.VmMemory, sigOffset, pubkeyOffset, msgLen uint64) (bool, error) {
	return Ed19(mem, sigOffset, pubkeyOffset, msgLen)
}

func (Ops) S256(mem *vm.VmMemory, dst, srcOffset, n uint64) error {
	return S256(mem, dst, srcOffset, n)
}

func (Ops) K256(mem *vm.VmMemory, dst, srcOffset, n uint64) error {
	return K256(mem, dst, srcOffset, n)
}

func (Ops) EcOp(mem *vm.VmMemory, dst, aOffset, bOffset uint64, mode uint8) (bool, error) {
	return EcOp(mem, dst, aOffset, bOffset, mode)
}

func (Ops) EPair(mem *vm.VmMemory, dst, pairsOffset uint64, pairCount int) (bool, error) {
	return EPair(mem, dst, pairsOffset, pairCount)
}
