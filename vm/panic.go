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

// PanicReason tags why execution terminated abnormally. The numeric value
// is part of the receipt ABI: it appears verbatim in panic receipts, so
// existing tags are never renumbered.
type PanicReason uint8

const (
	PanicNone PanicReason = iota
	PanicMemoryOverflow
	PanicMemoryWriteOverlap
	PanicArithmeticOverflow
	PanicErrorFlag
	PanicTransactionValidity
	PanicExpectedInternalContext
	PanicExpectedNestedCaller
	PanicCanNotGetGasPriceInPredicate
	PanicInvalidMetadataIdentifier
	PanicInputNotFound
	PanicOutputNotFound
	PanicWitnessNotFound
	PanicPolicyIsNotSet
	PanicProofInUploadNotFound
	PanicStorageSlotsNotFound
	PanicReservedRegisterNotWritable
	PanicContractNotFound
	PanicOutOfGas
	PanicInvalidInstruction
)

var panicNames = [...]string{
	"None",
	"MemoryOverflow",
	"MemoryWriteOverlap",
	"ArithmeticOverflow",
	"ErrorFlag",
	"TransactionValidity",
	"ExpectedInternalContext",
	"ExpectedNestedCaller",
	"CanNotGetGasPriceInPredicate",
	"InvalidMetadataIdentifier",
	"InputNotFound",
	"OutputNotFound",
	"WitnessNotFound",
	"PolicyIsNotSet",
	"ProofInUploadNotFound",
	"StorageSlotsNotFound",
	"ReservedRegisterNotWritable",
	"ContractNotFound",
	"OutOfGas",
	"InvalidInstruction",
}

func (r PanicReason) String() string {
	if int(r) < len(panicNames) {
		return panicNames[r]
	}
	return "Unknown"
}

func (r PanicReason) Error() string { return "vm panic: " + r.String() }

// suppressible reports whether FLAG bit 0 may convert this panic into an
// ERR-latched continuation instead of unwinding. Memory-safety, validity,
// and not-found panics are never suppressible.
func (r PanicReason) suppressible() bool {
	switch r {
	case PanicArithmeticOverflow, PanicErrorFlag:
		return true
	default:
		return false
	}
}

// Panic wraps a PanicReason as an error value so it can travel through
// ordinary Go error returns while remaining distinguishable via errors.As.
type Panic struct{ Reason PanicReason }

func (p *Panic) Error() string { return p.Reason.Error() }

func panicErr(r PanicReason) error { return &Panic{Reason: r} }

// NewPanic constructs a Panic error for reason r, for use by packages
// outside vm (metadata's GTF oracle, transactor's predicate verifier)
// that must raise the same typed panics the interpreter does.
func NewPanic(r PanicReason) error { return panicErr(r) }

// AsPanic reports whether err is a Panic and, if so, which reason it
// carries.
func AsPanic(err error) (PanicReason, bool) {
	p, ok := err.(*Panic)
	if !ok {
		return PanicNone, false
	}
	return p.Reason, true
}
