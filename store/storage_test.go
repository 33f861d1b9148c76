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

package store

import (
	"path/filepath"
	"testing"

	"github.com/probeum/rvm/common"
)

func newTestLayer(t *testing.T) *StorageLayer {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "db"), 1<<20, 16)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCommitThenRevertIsNoOp(t *testing.T) {
	s := newTestLayer(t)
	contract := common.HexToHash("0x01")
	asset := common.HexToHash("0x02")

	s.SetBalance(contract, asset, 100)
	s.Commit()
	before := s.Balance(contract, asset)

	s.SetBalance(contract, asset, 999)
	s.Revert()

	if got := s.Balance(contract, asset); got != before {
		t.Errorf("balance after commit();revert() = %d, want %d", got, before)
	}
}

func TestPersistThenRollbackRoundTrips(t *testing.T) {
	s := newTestLayer(t)
	contract := common.HexToHash("0x03")
	var key, val common.Key32
	key[0] = 0x01
	val[0] = 0x02

	s.SetContractState(contract, key, val)
	s.Commit()
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	var otherVal common.Val32
	otherVal[0] = 0xFF
	s.SetContractState(contract, key, otherVal)
	s.Commit()

	s.Rollback()
	got, ok := s.ContractState(contract, key)
	if !ok {
		t.Fatal("state missing after rollback")
	}
	if got != val {
		t.Errorf("state after persist();rollback() = %x, want %x", got, val)
	}
}

func TestCodeRoundTripsThroughPersistence(t *testing.T) {
	s := newTestLayer(t)
	contract := common.HexToHash("0x04")
	code := []byte{0x01, 0x02, 0x03, 0x04, 0x05}

	s.SetCode(contract, code)
	s.Commit()
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	s.codeCache.Purge()
	delete(s.live.contracts, contract)

	got, ok := s.CodeOf(contract)
	if !ok {
		t.Fatal("code missing after persistence round trip")
	}
	if string(got) != string(code) {
		t.Errorf("code = %x, want %x", got, code)
	}
}

func TestPerSubmapRootChangesWithContent(t *testing.T) {
	s := newTestLayer(t)
	contract := common.HexToHash("0x05")
	mapID := stateMapID(contract)

	empty := s.PerSubmapRoot(mapID)

	var k, v common.Key32
	k[0] = 0x01
	v[0] = 0x02
	s.SetContractState(contract, k, v)

	nonEmpty := s.PerSubmapRoot(mapID)
	if empty == nonEmpty {
		t.Error("PerSubmapRoot did not change after a state write")
	}

	again := s.PerSubmapRoot(mapID)
	if again != nonEmpty {
		t.Error("PerSubmapRoot is not deterministic across calls")
	}
}

func TestGetMissingKeyReturnsFalse(t *testing.T) {
	s := newTestLayer(t)
	var key [32]byte
	if _, ok := s.Get("nonexistent", key); ok {
		t.Error("Get on an absent map reported ok=true")
	}
}
