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
	"testing"

	"github.com/probeum/rvm/vm"
)

func scriptTxWithCoinAndContract() *ExecutableTransaction {
	return &ExecutableTransaction{
		Kind:    KindScript,
		TxOffset: 1000,
		Inputs: []Input{
			{Kind: InputCoin, Owner: [32]byte{0xAA}, Amount: 42},
			{Kind: InputContract, Contract: [32]byte{0xBB}},
		},
	}
}

func TestScriptInputsCount(t *testing.T) {
	tx := scriptTxWithCoinAndContract()
	got, err := Query(tx, SelectorScriptInputsCount, 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got != 2 {
		t.Errorf("ScriptInputsCount = %d, want 2", got)
	}
}

func TestInputCoinOwnerOffset(t *testing.T) {
	tx := scriptTxWithCoinAndContract()
	got, err := Query(tx, SelectorInputCoinOwner, 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := tx.TxOffset + inputsOffsetAt(0) + ownerOffsetInCoin
	if got != want {
		t.Errorf("InputCoinOwner = %d, want %d", got, want)
	}
}

func TestInputCoinAmountOnContractInputPanics(t *testing.T) {
	tx := scriptTxWithCoinAndContract()
	_, err := Query(tx, SelectorInputCoinAmount, 1)
	if reason, ok := vm.AsPanic(err); !ok || reason != vm.PanicInputNotFound {
		t.Errorf("Query(InputCoinAmount, 1) = %v, want InputNotFound panic", err)
	}
}

func TestQueryIsPure(t *testing.T) {
	tx := scriptTxWithCoinAndContract()
	a, err1 := Query(tx, SelectorInputCoinOwner, 0)
	b, err2 := Query(tx, SelectorInputCoinOwner, 0)
	if err1 != nil || err2 != nil {
		t.Fatalf("Query errors: %v, %v", err1, err2)
	}
	if a != b {
		t.Errorf("Query is not pure: %d != %d", a, b)
	}
}

func TestUnsetPolicyGasPricePanics(t *testing.T) {
	tx := scriptTxWithCoinAndContract()
	_, err := Query(tx, SelectorPolicyGasPrice, 0)
	if reason, ok := vm.AsPanic(err); !ok || reason != vm.PanicPolicyIsNotSet {
		t.Errorf("Query(PolicyGasPrice) on unset policy = %v, want PolicyIsNotSet panic", err)
	}
}

func TestCreateSelectorOnScriptTxPanicsInvalidMetadataIdentifier(t *testing.T) {
	tx := scriptTxWithCoinAndContract()
	_, err := Query(tx, SelectorCreateStorageSlotsCount, 0)
	if reason, ok := vm.AsPanic(err); !ok || reason != vm.PanicInvalidMetadataIdentifier {
		t.Errorf("Query(CreateStorageSlotsCount) on Script tx = %v, want InvalidMetadataIdentifier panic", err)
	}
}

func TestGetGasPriceForbiddenInPredicate(t *testing.T) {
	tx := scriptTxWithCoinAndContract()
	tx.Policy.GasPrice = 7
	tx.Policy.GasPriceSet = true
	_, err := GetGasPrice(true, tx)
	if reason, ok := vm.AsPanic(err); !ok || reason != vm.PanicCanNotGetGasPriceInPredicate {
		t.Errorf("GetGasPrice(predicate=true) = %v, want CanNotGetGasPriceInPredicate panic", err)
	}
	got, err := GetGasPrice(false, tx)
	if err != nil {
		t.Fatalf("GetGasPrice(predicate=false): %v", err)
	}
	if got != 7 {
		t.Errorf("GetGasPrice = %d, want 7", got)
	}
}

func scriptTxWithAllOutputKinds() *ExecutableTransaction {
	tx := scriptTxWithCoinAndContract()
	tx.Outputs = []Output{
		{Kind: OutputCoin, To: [32]byte{0x01}},
		{Kind: OutputChange, To: [32]byte{0x02}},
		{Kind: OutputContract, To: [32]byte{0x03}},
		{Kind: OutputContractCreated, To: [32]byte{0x04}},
	}
	return tx
}

func TestOutputSelectorsCoverAllFourVariants(t *testing.T) {
	tx := scriptTxWithAllOutputKinds()
	cases := []struct {
		sel   Selector
		index int
	}{
		{SelectorOutputCoinTo, 0},
		{SelectorOutputChangeTo, 1},
		{SelectorOutputContractContractID, 2},
		{SelectorOutputContractCreatedContractID, 3},
	}
	for _, c := range cases {
		got, err := Query(tx, c.sel, c.index)
		if err != nil {
			t.Fatalf("Query(%v, %d): %v", c.sel, c.index, err)
		}
		want := tx.TxOffset + outputsOffsetAt(tx, c.index) + 8
		if got != want {
			t.Errorf("Query(%v, %d) = %d, want %d", c.sel, c.index, got, want)
		}
	}
}

func TestOutputSelectorWrongVariantPanicsOutputNotFound(t *testing.T) {
	tx := scriptTxWithAllOutputKinds()
	_, err := Query(tx, SelectorOutputChangeTo, 0)
	if reason, ok := vm.AsPanic(err); !ok || reason != vm.PanicOutputNotFound {
		t.Errorf("Query(OutputChangeTo, 0) = %v, want OutputNotFound panic", err)
	}
}

func TestGetCallerRequiresInternalNestedContext(t *testing.T) {
	var contract [32]byte
	contract[0] = 0xCC
	if _, err := GetCaller(false, 1, contract); err == nil {
		t.Error("GetCaller with isInternal=false should panic")
	}
	if _, err := GetCaller(true, 0, contract); err == nil {
		t.Error("GetCaller with callerFP=0 should panic")
	}
	got, err := GetCaller(true, 1, contract)
	if err != nil {
		t.Fatalf("GetCaller: %v", err)
	}
	if got != contract {
		t.Errorf("GetCaller = %x, want %x", got, contract)
	}
}
