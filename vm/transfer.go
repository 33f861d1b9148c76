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

// idFromWord packs a 64-bit register value into the low 8 bytes of a
// 32-byte id, the same simplified contract/asset-id ABI CALL already
// uses instead of addressing a full id through memory.
func idFromWord(w uint64) common.Hash {
	var id common.Hash
	id[24] = byte(w >> 56)
	id[25] = byte(w >> 48)
	id[26] = byte(w >> 40)
	id[27] = byte(w >> 32)
	id[28] = byte(w >> 24)
	id[29] = byte(w >> 16)
	id[30] = byte(w >> 8)
	id[31] = byte(w)
	return id
}

// balancesMapID/stateMapID mirror store.StorageLayer's own mapID
// namespacing exactly (package store cannot be imported here: it already
// imports vm for Storage/Code), so SWW/SRW/TR/TRO mutate the same
// balances/state submaps StorageLayer's Balance/SetBalance/ContractState
// helpers and PerSubmapRoot compute over.
func balancesMapID(c common.ContractId) string { return "balances/" + c.Hex() }
func stateMapID(c common.ContractId) string    { return "state/" + c.Hex() }

func beUint64(v [32]byte) uint64 {
	var n uint64
	for _, b := range v[24:] {
		n = n<<8 | uint64(b)
	}
	return n
}

func putBEUint64(n uint64) [32]byte {
	var v [32]byte
	v[24] = byte(n >> 56)
	v[25] = byte(n >> 48)
	v[26] = byte(n >> 40)
	v[27] = byte(n >> 32)
	v[28] = byte(n >> 24)
	v[29] = byte(n >> 16)
	v[30] = byte(n >> 8)
	v[31] = byte(n)
	return v
}

func (it *Interpreter) contractBalance(c common.ContractId, asset common.AssetId) uint64 {
	v, ok := it.storage.Get(balancesMapID(c), asset)
	if !ok {
		return 0
	}
	return beUint64(v)
}

func (it *Interpreter) setContractBalance(c common.ContractId, asset common.AssetId, amount uint64) {
	it.storagePut(balancesMapID(c), asset, putBEUint64(amount))
}

// doSWW writes the word in Rb to the current contract's storage slot
// keyed by the 32 bytes read from memory at Ra, zero-extended to the
// fixed Val32 width (the same big-endian word encoding Balance/SetBalance
// use). Only valid in an internal (contract-call) context.
func (it *Interpreter) doSWW(ins instruction) (Outcome, error) {
	frame, ok := it.frames.top()
	if !ok {
		return OutcomeHalted, panicErr(PanicExpectedInternalContext)
	}
	keyBytes, err := it.mem.ReadBytes(readOperand(it, ins.Ra), 32)
	if err != nil {
		return OutcomeHalted, err
	}
	var key common.Key32
	copy(key[:], keyBytes)
	it.storagePut(stateMapID(frame.To), key, putBEUint64(readOperand(it, ins.Rb)))
	return OutcomeContinue, nil
}

// doSRW loads the current contract's storage slot keyed by the 32 bytes
// read from memory at Ra into Rd, decoded as a big-endian word (0 if the
// slot was never written). Only valid in an internal context.
func (it *Interpreter) doSRW(ins instruction) (Outcome, error) {
	frame, ok := it.frames.top()
	if !ok {
		return OutcomeHalted, panicErr(PanicExpectedInternalContext)
	}
	keyBytes, err := it.mem.ReadBytes(readOperand(it, ins.Ra), 32)
	if err != nil {
		return OutcomeHalted, err
	}
	var key common.Key32
	copy(key[:], keyBytes)
	val, ok := it.storage.Get(stateMapID(frame.To), key)
	if !ok {
		return OutcomeContinue, it.writeReg(ins.Rd, 0)
	}
	return OutcomeContinue, it.writeReg(ins.Rd, beUint64(val))
}

// doTR moves amount of the asset named by Rc from the calling contract's
// balance to the contract named by Ra, appending a Transfer receipt. Only
// valid in an internal context: a script has no contract balance of its
// own to debit.
func (it *Interpreter) doTR(ins instruction) (Outcome, error) {
	frame, ok := it.frames.top()
	if !ok {
		return OutcomeHalted, panicErr(PanicExpectedInternalContext)
	}
	dest := common.ContractId(idFromWord(readOperand(it, ins.Ra)))
	amount := readOperand(it, ins.Rb)
	asset := common.AssetId(idFromWord(readOperand(it, ins.Rc)))

	srcBal := it.contractBalance(frame.To, asset)
	if srcBal < amount {
		return OutcomeHalted, panicErr(PanicArithmeticOverflow)
	}
	it.setContractBalance(frame.To, asset, srcBal-amount)
	it.setContractBalance(dest, asset, it.contractBalance(dest, asset)+amount)
	return OutcomeContinue, it.appendReceipt(Receipt{Kind: ReceiptTransfer, ID: dest, AssetID: asset, Amount: amount})
}

// doTRO moves amount of the asset named by Rc out of the calling
// contract's balance toward an external output (named by Ra; the
// transaction's outputs vector itself is outside this engine's model, so
// the index travels in the receipt only), appending a TransferOut
// receipt. Only valid in an internal context.
func (it *Interpreter) doTRO(ins instruction) (Outcome, error) {
	frame, ok := it.frames.top()
	if !ok {
		return OutcomeHalted, panicErr(PanicExpectedInternalContext)
	}
	outputIndex := readOperand(it, ins.Ra)
	amount := readOperand(it, ins.Rb)
	asset := common.AssetId(idFromWord(readOperand(it, ins.Rc)))

	srcBal := it.contractBalance(frame.To, asset)
	if srcBal < amount {
		return OutcomeHalted, panicErr(PanicArithmeticOverflow)
	}
	it.setContractBalance(frame.To, asset, srcBal-amount)
	return OutcomeContinue, it.appendReceipt(Receipt{Kind: ReceiptTransferOut, ID: frame.To, AssetID: asset, Amount: amount, Data: uint64ToBytes(outputIndex)})
}

func uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}
