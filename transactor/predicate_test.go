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
	"encoding/binary"
	"testing"

	"github.com/probeum/rvm/metadata"
	"github.com/probeum/rvm/vm"
)

// memStorage is a trivial in-memory vm.Storage used only by these tests.
type memStorage map[string]map[[32]byte][32]byte

func (s memStorage) Get(mapID string, key [32]byte) ([32]byte, bool) {
	m, ok := s[mapID]
	if !ok {
		return [32]byte{}, false
	}
	v, ok := m[key]
	return v, ok
}

func (s memStorage) Put(mapID string, key, val [32]byte) {
	m, ok := s[mapID]
	if !ok {
		m = make(map[[32]byte][32]byte)
		s[mapID] = m
	}
	m[key] = val
}

func (s memStorage) Remove(mapID string, key [32]byte) {
	if m, ok := s[mapID]; ok {
		delete(m, key)
	}
}

// Commit/Revert/Persist/Rollback satisfy TransactionalStorage with no-ops:
// these tests only exercise predicate verification and Run's verdict
// classification, never the commit/revert snapshot discipline itself.
func (s memStorage) Commit()        {}
func (s memStorage) Revert()        {}
func (s memStorage) Persist() error { return nil }
func (s memStorage) Rollback()      {}

// firstGeneralRegister is the lowest register index not reserved by the
// interpreter for system use (see vm.RegisterFile's reserved block).
const firstGeneralRegister = 16

// wideInstr encodes the opcode:8 | ra:6 | imm18 shape used by
// ADDI/JMP/JNZ/CFEI/CFSI/GTF/GM, mirroring vm's own unexported encode().
func wideInstr(op vm.Opcode, ra uint8, imm uint32) []byte {
	word := uint32(op)
	word |= uint32(ra&0x3F) << 8
	word |= (imm & 0x3FFFF) << 14
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, word)
	return buf
}

// stdInstr encodes the opcode:8 | ra:6 | rb:6 | rc:6 | rd:6 shape.
func stdInstr(op vm.Opcode, ra, rb, rc, rd uint8) []byte {
	word := uint32(op)
	word |= uint32(ra&0x3F) << 8
	word |= uint32(rb&0x3F) << 14
	word |= uint32(rc&0x3F) << 20
	word |= uint32(rd&0x3F) << 26
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, word)
	return buf
}

// gtfImm packs a GTF/GM selector and index into the 18-bit wide
// immediate, matching vm's splitGTFImm layout (selector in the high
// bits, index in the low 8).
func gtfImm(selector metadata.Selector, index int) uint32 {
	return uint32(selector)<<8 | uint32(index)
}

func program(instrs ...[]byte) []byte {
	var out []byte
	for _, i := range instrs {
		out = append(out, i...)
	}
	return out
}

func testParams() Params {
	return Params{
		MemSize:     4096,
		TxSize:      64,
		GlobalGas:   1_000_000,
		ContextGas:  1_000_000,
		MaxReceipts: 64,
		Costs:       vm.DefaultGasCosts(),
	}
}

func gasPriceTx() *metadata.ExecutableTransaction {
	tx := &metadata.ExecutableTransaction{
		Kind:     metadata.KindScript,
		TxOffset: 1000,
		Inputs:   []metadata.Input{{Kind: metadata.InputCoin, Owner: [32]byte{0xAA}, Amount: 1}},
	}
	tx.Policy.GasPrice = 7
	tx.Policy.GasPriceSet = true
	return tx
}

// TestPredicateForbiddenGasPriceQueryFails exercises scenario 8: a
// predicate that calls GM GetGasPrice must fail verification, even
// though the transaction's own policy has a gas price set (so the only
// reason it can fail is the predicate-context prohibition, not an unset
// policy).
func TestPredicateForbiddenGasPriceQueryFails(t *testing.T) {
	code := program(
		wideInstr(vm.OpGM, firstGeneralRegister, gtfImm(metadata.SelectorPolicyGasPrice, 0)),
		stdInstr(vm.OpRET, firstGeneralRegister, 0, 0, 0),
	)
	tx := gasPriceTx()
	predicates := []Predicate{{InputIndex: 0, Bytecode: code, Params: testParams()}}

	verdicts, err := VerifyPredicates(predicates, tx, testParams(), memStorage{})
	if err != nil {
		t.Fatalf("VerifyPredicates: %v", err)
	}
	if len(verdicts) != 1 || verdicts[0] {
		t.Errorf("verdicts = %v, want [false]", verdicts)
	}
}

// TestScriptCanReadGasPriceOutsidePredicate confirms the same selector
// succeeds once it is no longer a predicate querying it, isolating the
// failure above to the predicate-context rule rather than a broken
// oracle.
func TestScriptCanReadGasPriceOutsidePredicate(t *testing.T) {
	code := program(
		wideInstr(vm.OpGM, firstGeneralRegister, gtfImm(metadata.SelectorPolicyGasPrice, 0)),
		stdInstr(vm.OpRET, firstGeneralRegister, 0, 0, 0),
	)
	tx := gasPriceTx()
	predicates := []Predicate{{InputIndex: 0, Bytecode: code, Params: testParams()}}

	verdicts, err := VerifyPredicates(predicates, tx, testParams(), memStorage{})
	if err != nil {
		t.Fatalf("VerifyPredicates: %v", err)
	}
	if verdicts[0] {
		t.Fatalf("predicate unexpectedly succeeded reading gas price")
	}

	params := testParams()
	tr := New(tx, params, memStorage{}, predicateCode{code}, nil)
	result := tr.Run(nil)
	if result.Verdict != VerdictSuccess {
		t.Fatalf("script Run() verdict = %v, want Success (err=%v)", result.Verdict, result.Err)
	}
	if result.ReturnVal != tx.Policy.GasPrice {
		t.Errorf("script ReturnVal = %d, want %d", result.ReturnVal, tx.Policy.GasPrice)
	}
}

// TestVerifyPredicatesSequentialAndParallelAgree checks the predicate
// law that sequential and concurrent verification produce identical,
// order-independent verdicts for the same predicate set.
func TestVerifyPredicatesSequentialAndParallelAgree(t *testing.T) {
	succeed := program(
		wideInstr(vm.OpADDI, firstGeneralRegister, 1),
		stdInstr(vm.OpRET, firstGeneralRegister, 0, 0, 0),
	)
	revert := program(
		wideInstr(vm.OpADDI, firstGeneralRegister, 0),
		stdInstr(vm.OpRVRT, firstGeneralRegister, 0, 0, 0),
	)
	forbidden := program(
		wideInstr(vm.OpGM, firstGeneralRegister, gtfImm(metadata.SelectorPolicyGasPrice, 0)),
		stdInstr(vm.OpRET, firstGeneralRegister, 0, 0, 0),
	)

	tx := gasPriceTx()
	predicates := []Predicate{
		{InputIndex: 0, Bytecode: succeed, Params: testParams()},
		{InputIndex: 1, Bytecode: revert, Params: testParams()},
		{InputIndex: 2, Bytecode: succeed, Params: testParams()},
		{InputIndex: 3, Bytecode: forbidden, Params: testParams()},
	}

	seq, err := VerifyPredicates(predicates, tx, testParams(), memStorage{})
	if err != nil {
		t.Fatalf("VerifyPredicates: %v", err)
	}
	par, err := VerifyPredicatesAsync(context.Background(), predicates, tx, testParams(), memStorage{}, 2)
	if err != nil {
		t.Fatalf("VerifyPredicatesAsync: %v", err)
	}
	if len(seq) != len(par) {
		t.Fatalf("length mismatch: seq=%d par=%d", len(seq), len(par))
	}
	for i := range seq {
		if seq[i] != par[i] {
			t.Errorf("verdict[%d]: sequential=%v parallel=%v", i, seq[i], par[i])
		}
	}
	want := []bool{true, false, true, false}
	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("seq[%d] = %v, want %v", i, seq[i], want[i])
		}
	}
}
