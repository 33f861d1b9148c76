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

// Package transactor drives one transaction through its full lifecycle:
// precheck, predicate verification, script execution, and finalization,
// the way core.StateProcessor walks a block's transactions through the
// EVM and commits the result.
package transactor

import (
	"github.com/google/uuid"

	"github.com/probeum/rvm/common"
	"github.com/probeum/rvm/metadata"
	"github.com/probeum/rvm/vm"
)

// State names a node in the transaction lifecycle state machine.
type State uint8

const (
	StatePreCheck State = iota
	StatePredicatesVerifying
	StateExecuting
	StateReverting
	StateFinalizing
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePreCheck:
		return "PreCheck"
	case StatePredicatesVerifying:
		return "PredicatesVerifying"
	case StateExecuting:
		return "Executing"
	case StateReverting:
		return "Reverting"
	case StateFinalizing:
		return "Finalizing"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Verdict is the terminal classification of a finished transaction.
type Verdict uint8

const (
	VerdictSuccess Verdict = iota
	VerdictRevert
	VerdictInvalid
	VerdictPanic
)

// TransactionalStorage is the full storage contract a Transactor drives:
// vm.Storage's live Get/Put/Remove view, plus the commit/revert lifecycle
// that moves whole-snapshot copies between live and transacted the way
// store.StorageLayer implements it.
type TransactionalStorage interface {
	vm.Storage
	Commit()
	Revert()
	Persist() error
	Rollback()
}

// Params bundles the resource ceilings a Transactor enforces while
// stepping a transaction, mirroring spec.md §5's configuration surface.
type Params struct {
	MemSize     uint64
	TxSize      uint64
	GlobalGas   uint64
	ContextGas  uint64
	MaxReceipts int
	Costs       vm.GasCosts
}

// Result is what a completed Transactor run reports.
type Result struct {
	Verdict   Verdict
	ReturnVal uint64
	Receipts  []vm.Receipt
	Err       error
}

// Transactor walks one ExecutableTransaction through PreCheck →
// PredicatesVerifying → Executing → Reverting|Finalizing → Done.
type Transactor struct {
	state State
	id    string

	tx      *metadata.ExecutableTransaction
	params  Params
	storage TransactionalStorage
	code    vm.Code
	crypto  vm.CryptoOps
}

// New creates a Transactor for tx, not yet advanced past PreCheck.
func New(tx *metadata.ExecutableTransaction, params Params, storage TransactionalStorage, code vm.Code, crypto vm.CryptoOps) *Transactor {
	return &Transactor{
		state:   StatePreCheck,
		id:      uuid.NewString(),
		tx:      tx,
		params:  params,
		storage: storage,
		code:    code,
		crypto:  crypto,
	}
}

// State reports the current lifecycle state.
func (t *Transactor) State() State { return t.state }

// ID returns the per-invocation correlation id used in log lines.
func (t *Transactor) ID() string { return t.id }

// Run drives the Transactor to completion: precheck, predicate
// verification (sequential), script execution, then commit or revert.
func (t *Transactor) Run(predicates []Predicate) Result {
	if !t.precheck() {
		t.state = StateDone
		t.storage.Revert()
		return Result{Verdict: VerdictInvalid}
	}

	t.state = StatePredicatesVerifying
	verdicts, err := VerifyPredicates(predicates, t.tx, t.params, t.storage)
	if err != nil || !allValid(verdicts) {
		t.state = StateDone
		t.storage.Revert()
		return Result{Verdict: VerdictInvalid, Err: err}
	}

	t.state = StateExecuting
	it := vm.New(t.storage, t.code, t.params.MemSize, t.params.TxSize, t.params.GlobalGas, t.params.ContextGas, t.params.Costs, t.params.MaxReceipts)
	if t.crypto != nil {
		it.SetCryptoOps(t.crypto)
	}
	it.SetMetadataOracle(metadata.Oracle{Tx: t.tx})

	script, ok := t.code.CodeOf(common.ContractId{})
	if !ok {
		t.state = StateDone
		t.storage.Revert()
		return Result{Verdict: VerdictInvalid}
	}
	// Grow the stack over the transaction region and the script so the
	// load lands in committed memory.
	err = it.Memory().GrowStack(t.params.TxSize + uint64(len(script)))
	if err == nil {
		err = it.Memory().WriteBytes(t.params.TxSize, script)
	}
	if err != nil {
		t.state = StateDone
		t.storage.Revert()
		return Result{Verdict: VerdictInvalid, Err: err}
	}
	it.Registers().SystemSet(vm.RegPC, t.params.TxSize)

	diff := it.BeginDiff()
	result, runErr := it.Run()
	it.EndDiff()

	if runErr != nil {
		t.state = StateReverting
		it.ApplyInverse(diff)
		t.storage.Revert()
		t.state = StateDone
		if _, ok := vm.AsPanic(runErr); ok {
			return Result{Verdict: VerdictPanic, Err: runErr, Receipts: it.Receipts().All()}
		}
		return Result{Verdict: VerdictRevert, Err: runErr, Receipts: it.Receipts().All()}
	}

	if lastIsRevert(it.Receipts()) {
		t.state = StateReverting
		it.ApplyInverse(diff)
		t.storage.Revert()
		t.state = StateDone
		return Result{Verdict: VerdictRevert, ReturnVal: result, Receipts: it.Receipts().All()}
	}

	t.state = StateFinalizing
	t.storage.Commit()
	t.state = StateDone
	return Result{Verdict: VerdictSuccess, ReturnVal: result, Receipts: it.Receipts().All()}
}

// Persist flushes the committed transaction tier to durable storage, the
// per-block operation a caller runs once after a batch of Transactor.Run
// calls has committed. Rollback discards everything since the last
// Persist, restoring live and transacted to the persisted tier.
func (t *Transactor) Persist() error { return t.storage.Persist() }
func (t *Transactor) Rollback()      { t.storage.Rollback() }

// precheck validates the structural invariants checked before any
// predicate or script runs: the transaction is present, and a Script
// transaction has at least one input. Witnesses and resource ceilings are
// not checked here.
func (t *Transactor) precheck() bool {
	if t.tx == nil {
		return false
	}
	if len(t.tx.Inputs) == 0 && t.tx.Kind == metadata.KindScript {
		return false
	}
	return true
}

func allValid(verdicts []bool) bool {
	for _, v := range verdicts {
		if !v {
			return false
		}
	}
	return true
}

func lastIsRevert(log *vm.ReceiptLog) bool {
	return terminalReceiptKind(log) == vm.ReceiptRevert
}
