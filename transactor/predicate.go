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

package transactor

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/probeum/rvm/common"
	"github.com/probeum/rvm/metadata"
	"github.com/probeum/rvm/vm"
)

// Predicate is one input's unlocking bytecode, verified against the
// transaction view: GM GetGasPrice panics, storage reads see live state,
// and storage writes are discarded. CALL resolves every contract id to the
// predicate's own bytecode; it is not rejected.
type Predicate struct {
	InputIndex int
	Bytecode   []byte
	Params     Params
}

type predicateCode struct{ bytecode []byte }

func (c predicateCode) CodeOf(common.ContractId) ([]byte, bool) { return c.bytecode, true }

type readOnlyStorage struct{ vm.Storage }

func (readOnlyStorage) Put(string, [32]byte, [32]byte) {}
func (readOnlyStorage) Remove(string, [32]byte)        {}

// verifyOne runs a single predicate to completion against a read-only view
// of storage and reports whether it halted successfully (RET, not RVRT or
// a panic).
func verifyOne(p Predicate, tx *metadata.ExecutableTransaction, storage vm.Storage) bool {
	ro := readOnlyStorage{storage}
	it := vm.New(ro, predicateCode{p.Bytecode}, p.Params.MemSize, p.Params.TxSize, p.Params.GlobalGas, p.Params.ContextGas, p.Params.Costs, p.Params.MaxReceipts)
	it.SetMetadataOracle(metadata.PredicateOracle{Tx: tx})
	it.Registers().SystemSet(vm.RegPC, p.Params.TxSize)
	// Grow the stack over the transaction region and the bytecode so the
	// load lands in committed memory.
	err := it.Memory().GrowStack(p.Params.TxSize + uint64(len(p.Bytecode)))
	if err == nil {
		err = it.Memory().WriteBytes(p.Params.TxSize, p.Bytecode)
	}
	if err != nil {
		return false
	}
	if _, err := it.Run(); err != nil {
		return false
	}
	return terminalReceiptKind(it.Receipts()) == vm.ReceiptReturn
}

// terminalReceiptKind finds the receipt that actually decided how
// execution ended, skipping the closing ScriptResult receipt Run()
// always appends on a clean halt.
func terminalReceiptKind(log *vm.ReceiptLog) vm.ReceiptKind {
	all := log.All()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Kind == vm.ReceiptScriptResult {
			continue
		}
		return all[i].Kind
	}
	return vm.ReceiptPanic
}

// VerifyPredicates runs every predicate sequentially in input order,
// returning one verdict per predicate.
func VerifyPredicates(predicates []Predicate, tx *metadata.ExecutableTransaction, params Params, storage vm.Storage) ([]bool, error) {
	verdicts := make([]bool, len(predicates))
	for i, p := range predicates {
		verdicts[i] = verifyOne(p, tx, storage)
	}
	return verdicts, nil
}

// VerifyPredicatesAsync runs every predicate concurrently, bounded by
// maxConcurrent in-flight verifiers via a token-bucket limiter, and must
// produce the same bit-identical verdicts VerifyPredicates does: each
// predicate is a pure function of its own input and a read-only
// transaction view, so ordering never affects the outcome.
func VerifyPredicatesAsync(ctx context.Context, predicates []Predicate, tx *metadata.ExecutableTransaction, params Params, storage vm.Storage, maxConcurrent int) ([]bool, error) {
	verdicts := make([]bool, len(predicates))
	sem := make(chan struct{}, maxConcurrent)
	limiter := rate.NewLimiter(rate.Limit(maxConcurrent), maxConcurrent)

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range predicates {
		i, p := i, p
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()
			verdicts[i] = verifyOne(p, tx, storage)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}
