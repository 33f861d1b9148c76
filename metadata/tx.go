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

// Package metadata implements the ExecutableTransaction tagged sum and the
// GTF/GM oracle that queries it by selector, mirroring the way the teacher
// dispatches over its TxData variants by a fixed type discriminator.
package metadata

import "github.com/probeum/rvm/common"

// Kind discriminates the ExecutableTransaction variants, consumed directly
// by the GTF oracle's variant checks.
type Kind uint8

const (
	KindScript Kind = iota
	KindCreate
	KindBlob
	KindUpload
	KindUpgrade
)

func (k Kind) String() string {
	switch k {
	case KindScript:
		return "Script"
	case KindCreate:
		return "Create"
	case KindBlob:
		return "Blob"
	case KindUpload:
		return "Upload"
	case KindUpgrade:
		return "Upgrade"
	default:
		return "Unknown"
	}
}

// InputKind discriminates transaction inputs.
type InputKind uint8

const (
	InputCoin InputKind = iota
	InputContract
	InputMessage
)

// OutputKind discriminates transaction outputs.
type OutputKind uint8

const (
	OutputCoin OutputKind = iota
	OutputChange
	OutputContract
	OutputContractCreated
)

// Input is one entry of a transaction's inputs vector. Only the fields
// relevant to the selectors in gtf.go are modeled; an owner/amount pair
// for coins, a contract id for contract inputs.
type Input struct {
	Kind     InputKind
	Owner    common.Hash
	Amount   uint64
	Contract common.ContractId
}

// Output is one entry of a transaction's outputs vector.
type Output struct {
	Kind OutputKind
	To   common.Hash
}

// Policy holds the optional gas-price and maturity policies a transaction
// may set; absence of a policy is modeled by its *Set flag being false,
// not a sentinel zero value, and querying it panics PolicyIsNotSet.
type Policy struct {
	GasPrice    uint64
	GasPriceSet bool
	Maturity    uint64
	MaturitySet bool
}

// ExecutableTransaction is the tagged sum over the five transaction
// variants. Every field beyond Kind is shared structure; variant-specific
// data lives in the Create/Upload/Upgrade-only fields below, each read
// only when Kind matches.
type ExecutableTransaction struct {
	Kind Kind

	Inputs  []Input
	Outputs []Output
	Witnesses [][]byte
	Policy  Policy

	// InputContractOutputIndex maps an input's position among Contract-kind
	// inputs back to the output index that returns its updated state,
	// precomputed by the transaction builder.
	InputContractOutputIndex map[int]int

	// Create-only.
	StorageSlots []common.Hash

	// Upload-only.
	UploadProof []common.Hash

	// Upgrade-only.
	UpgradePurpose uint8

	// Serialized holds the in-memory serialized transaction bytes, the
	// ground truth GTF offset results are computed against.
	Serialized []byte
	// TxOffset is the memory offset at which Serialized begins once
	// loaded into VM memory.
	TxOffset uint64
}

// ExecutableType returns the variant discriminator, the single value the
// GTF oracle consults to reject selectors applied to the wrong variant.
func (tx *ExecutableTransaction) ExecutableType() Kind { return tx.Kind }
