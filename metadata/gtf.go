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

package metadata

import (
	"github.com/holiman/uint256"

	"github.com/probeum/rvm/common"
	"github.com/probeum/rvm/vm"
)

// Selector names one queryable field or offset. Generic selectors apply to
// every variant. Create/Upload/Upgrade-only selectors panic
// InvalidMetadataIdentifier when queried against the wrong Kind; input and
// output selectors panic InputNotFound/OutputNotFound when the entry at the
// index is missing or of another variant.
type Selector uint16

const (
	// Generic.
	SelectorType Selector = iota
	SelectorScriptInputsCount
	SelectorScriptOutputsCount
	SelectorScriptWitnessesCount
	SelectorInputContractOutputIndex
	SelectorPolicyGasPrice
	SelectorPolicyMaturity

	// Input, variant-qualified by InputKind.
	SelectorInputCoinOwner
	SelectorInputCoinAmount
	SelectorInputContractContractID
	SelectorInputMessageSender

	// Output, variant-qualified by OutputKind.
	SelectorOutputCoinTo
	SelectorOutputChangeTo
	SelectorOutputContractContractID
	SelectorOutputContractCreatedContractID

	// Create-only.
	SelectorCreateStorageSlotsCount

	// Upload-only.
	SelectorUploadProofLen

	// Upgrade-only.
	SelectorUpgradePurpose
)

// layout describes, for the generic offset selectors, the fixed byte
// width of one serialized input/output entry, mirroring the packed
// encoding described for the serialized transaction region.
const (
	inputEntryWidth  = 72 // kind(1, padded to 8) + owner/contract(32) + amount(8) + pad
	outputEntryWidth = 40 // kind(1, padded to 8) + to(32)

	inputsOffsetBase  = 8 // tx header fixed fields preceding the inputs vector
	ownerOffsetInCoin = 8 // kind tag occupies the first 8 bytes of an entry
)

func inputsOffsetAt(index int) uint64 {
	return inputsOffsetBase + uint64(index)*inputEntryWidth
}

// query resolves selector/index against tx, returning either a scalar
// value or (for offset-shaped selectors) tx.TxOffset plus the field's
// byte offset within the serialized transaction, computed with
// saturating addition so an absurd index cannot wrap a u64 offset into
// a small, falsely-valid one.
func query(tx *ExecutableTransaction, sel Selector, index int) (uint64, error) {
	switch sel {
	case SelectorType:
		return uint64(tx.Kind), nil

	case SelectorScriptInputsCount:
		return uint64(len(tx.Inputs)), nil
	case SelectorScriptOutputsCount:
		return uint64(len(tx.Outputs)), nil
	case SelectorScriptWitnessesCount:
		return uint64(len(tx.Witnesses)), nil

	case SelectorInputContractOutputIndex:
		out, ok := tx.InputContractOutputIndex[index]
		if !ok {
			return 0, vm.NewPanic(vm.PanicInputNotFound)
		}
		return uint64(out), nil

	case SelectorPolicyGasPrice:
		if !tx.Policy.GasPriceSet {
			return 0, vm.NewPanic(vm.PanicPolicyIsNotSet)
		}
		return tx.Policy.GasPrice, nil
	case SelectorPolicyMaturity:
		if !tx.Policy.MaturitySet {
			return 0, vm.NewPanic(vm.PanicPolicyIsNotSet)
		}
		return tx.Policy.Maturity, nil

	case SelectorInputCoinOwner:
		if _, err := inputAt(tx, index, InputCoin); err != nil {
			return 0, err
		}
		return saturatingAdd3(tx.TxOffset, inputsOffsetAt(index), ownerOffsetInCoin), nil

	case SelectorInputCoinAmount:
		if _, err := inputAt(tx, index, InputCoin); err != nil {
			return 0, err
		}
		return tx.Inputs[index].Amount, nil

	case SelectorInputContractContractID:
		if _, err := inputAt(tx, index, InputContract); err != nil {
			return 0, err
		}
		return saturatingAdd3(tx.TxOffset, inputsOffsetAt(index), 0), nil

	case SelectorInputMessageSender:
		if _, err := inputAt(tx, index, InputMessage); err != nil {
			return 0, err
		}
		return saturatingAdd3(tx.TxOffset, inputsOffsetAt(index), 0), nil

	case SelectorOutputCoinTo:
		if _, err := outputAt(tx, index, OutputCoin); err != nil {
			return 0, err
		}
		return saturatingAdd3(tx.TxOffset, outputsOffsetAt(tx, index), 8), nil

	case SelectorOutputChangeTo:
		if _, err := outputAt(tx, index, OutputChange); err != nil {
			return 0, err
		}
		return saturatingAdd3(tx.TxOffset, outputsOffsetAt(tx, index), 8), nil

	case SelectorOutputContractContractID:
		if _, err := outputAt(tx, index, OutputContract); err != nil {
			return 0, err
		}
		return saturatingAdd3(tx.TxOffset, outputsOffsetAt(tx, index), 8), nil

	case SelectorOutputContractCreatedContractID:
		if _, err := outputAt(tx, index, OutputContractCreated); err != nil {
			return 0, err
		}
		return saturatingAdd3(tx.TxOffset, outputsOffsetAt(tx, index), 8), nil

	case SelectorCreateStorageSlotsCount:
		if tx.Kind != KindCreate {
			return 0, vm.NewPanic(vm.PanicInvalidMetadataIdentifier)
		}
		if len(tx.StorageSlots) == 0 {
			return 0, vm.NewPanic(vm.PanicStorageSlotsNotFound)
		}
		return uint64(len(tx.StorageSlots)), nil

	case SelectorUploadProofLen:
		if tx.Kind != KindUpload {
			return 0, vm.NewPanic(vm.PanicInvalidMetadataIdentifier)
		}
		if len(tx.UploadProof) == 0 {
			return 0, vm.NewPanic(vm.PanicProofInUploadNotFound)
		}
		return uint64(len(tx.UploadProof)), nil

	case SelectorUpgradePurpose:
		if tx.Kind != KindUpgrade {
			return 0, vm.NewPanic(vm.PanicInvalidMetadataIdentifier)
		}
		return uint64(tx.UpgradePurpose), nil

	default:
		return 0, vm.NewPanic(vm.PanicInvalidMetadataIdentifier)
	}
}

// Query is the exported GTF/GM entry point: pure lookup from (tx, selector,
// index) to a word, agreeing byte-for-byte with the serialized
// transaction's own offsets for offset-shaped selectors.
func Query(tx *ExecutableTransaction, sel Selector, index int) (uint64, error) {
	return query(tx, sel, index)
}

func inputAt(tx *ExecutableTransaction, index int, want InputKind) (Input, error) {
	if index < 0 || index >= len(tx.Inputs) {
		return Input{}, vm.NewPanic(vm.PanicInputNotFound)
	}
	in := tx.Inputs[index]
	if in.Kind != want {
		return Input{}, vm.NewPanic(vm.PanicInputNotFound)
	}
	return in, nil
}

func outputAt(tx *ExecutableTransaction, index int, want OutputKind) (Output, error) {
	if index < 0 || index >= len(tx.Outputs) {
		return Output{}, vm.NewPanic(vm.PanicOutputNotFound)
	}
	out := tx.Outputs[index]
	if out.Kind != want {
		return Output{}, vm.NewPanic(vm.PanicOutputNotFound)
	}
	return out, nil
}

func outputsOffsetAt(tx *ExecutableTransaction, index int) uint64 {
	base := inputsOffsetBase + uint64(len(tx.Inputs))*inputEntryWidth
	return base + uint64(index)*outputEntryWidth
}

// saturatingAdd3 adds three u64 offsets, clamping to math.MaxUint64 instead
// of wrapping, using uint256 so the intermediate sum cannot silently
// overflow back into u64 range before the saturation check runs.
func saturatingAdd3(a, b, c uint64) uint64 {
	sum := new(uint256.Int).SetUint64(a)
	sum.Add(sum, new(uint256.Int).SetUint64(b))
	sum.Add(sum, new(uint256.Int).SetUint64(c))
	if !sum.IsUint64() {
		return ^uint64(0)
	}
	return sum.Uint64()
}

// GetCaller resolves the caller's contract id from an internal call
// context: callerFP must be non-zero (we are not at the top level) and
// the context must be internal (a contract, not a predicate or script).
func GetCaller(isInternal bool, callerFP uint64, caller common.ContractId) (common.ContractId, error) {
	if !isInternal {
		return common.ContractId{}, vm.NewPanic(vm.PanicExpectedInternalContext)
	}
	if callerFP == 0 {
		return common.ContractId{}, vm.NewPanic(vm.PanicExpectedNestedCaller)
	}
	return caller, nil
}

// GetGasPrice resolves GM GetGasPrice, forbidden inside predicate
// contexts regardless of whether a policy gas price is configured.
func GetGasPrice(isPredicate bool, tx *ExecutableTransaction) (uint64, error) {
	if isPredicate {
		return 0, vm.NewPanic(vm.PanicCanNotGetGasPriceInPredicate)
	}
	return query(tx, SelectorPolicyGasPrice, 0)
}
