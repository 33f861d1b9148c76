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

// Package store implements the triple-buffered contract/asset/state
// store: live, transacted, and persisted snapshots of the same schema,
// with commit/revert/persist/rollback transferring ownership between
// them exactly as core/state's StateDB snapshot/commit discipline does.
package store

import (
	"sort"

	lru "github.com/hashicorp/golang-lru"
	"github.com/VictoriaMetrics/fastcache"
	"github.com/golang/snappy"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/probeum/rvm/common"
	"github.com/probeum/rvm/merkle"
)

// snapshot is one of the three schema-identical slots: every submap
// beyond bytecode is addressed through a flat (mapID, 32-byte key) pair
// so a single generic accessor serves balances, contract state, and the
// code-root index alike.
type snapshot struct {
	generic   map[string]map[common.Hash]common.Hash
	contracts map[common.ContractId][]byte
}

func newSnapshot() snapshot {
	return snapshot{
		generic:   make(map[string]map[common.Hash]common.Hash),
		contracts: make(map[common.ContractId][]byte),
	}
}

func (s snapshot) clone() snapshot {
	out := newSnapshot()
	for mapID, m := range s.generic {
		cp := make(map[common.Hash]common.Hash, len(m))
		for k, v := range m {
			cp[k] = v
		}
		out.generic[mapID] = cp
	}
	for id, code := range s.contracts {
		cp := make([]byte, len(code))
		copy(cp, code)
		out.contracts[id] = cp
	}
	return out
}

// Submap name conventions: balances and contract state are namespaced
// per contract so PerSubmapRoot can filter by outer key without a
// second index.
func balancesMapID(c common.ContractId) string { return "balances/" + c.Hex() }
func stateMapID(c common.ContractId) string    { return "state/" + c.Hex() }

const (
	codeRootSaltMapID = "coderoot.salt"
	codeRootRootMapID = "coderoot.root"
)

// StorageLayer is the engine's layered key/value store: mutations touch
// live only; commit/revert/persist/rollback move whole-snapshot copies
// between live, transacted, and persisted, per the fixed discipline in
// spec.md §4.3.
type StorageLayer struct {
	live, transacted, persisted snapshot

	db        *leveldb.DB
	hot       *fastcache.Cache
	codeCache *lru.Cache
}

// Open creates a StorageLayer backed by a LevelDB instance at dbPath for
// the persisted tier, a hotCacheBytes-sized read cache in front of live,
// and an LRU of codeCacheEntries decoded contract bytecodes.
func Open(dbPath string, hotCacheBytes, codeCacheEntries int) (*StorageLayer, error) {
	db, err := leveldb.OpenFile(dbPath, nil)
	if err != nil {
		return nil, err
	}
	codeCache, err := lru.New(codeCacheEntries)
	if err != nil {
		return nil, err
	}
	return &StorageLayer{
		live:        newSnapshot(),
		transacted:  newSnapshot(),
		persisted:   newSnapshot(),
		db:          db,
		hot:         fastcache.New(hotCacheBytes),
		codeCache:   codeCache,
	}, nil
}

// Close releases the backing LevelDB handle.
func (s *StorageLayer) Close() error { return s.db.Close() }

func hotKey(mapID string, key common.Hash) []byte {
	b := make([]byte, 0, len(mapID)+1+common.HashLength)
	b = append(b, mapID...)
	b = append(b, ':')
	b = append(b, key.Bytes()...)
	return b
}

// Get implements vm.Storage: reads consult the hot cache first, falling
// back to the live snapshot and populating the cache on a miss.
func (s *StorageLayer) Get(mapID string, key [32]byte) ([32]byte, bool) {
	k := common.Hash(key)
	if cached := s.hot.Get(nil, hotKey(mapID, k)); cached != nil {
		var v common.Hash
		copy(v[:], cached)
		return [32]byte(v), true
	}
	m, ok := s.live.generic[mapID]
	if !ok {
		return [32]byte{}, false
	}
	v, ok := m[k]
	if ok {
		s.hot.Set(hotKey(mapID, k), v.Bytes())
	}
	return [32]byte(v), ok
}

// Put implements vm.Storage: writes go to live only.
func (s *StorageLayer) Put(mapID string, key, val [32]byte) {
	m, ok := s.live.generic[mapID]
	if !ok {
		m = make(map[common.Hash]common.Hash)
		s.live.generic[mapID] = m
	}
	k, v := common.Hash(key), common.Hash(val)
	m[k] = v
	s.hot.Set(hotKey(mapID, k), v.Bytes())
}

// Remove implements vm.Storage.
func (s *StorageLayer) Remove(mapID string, key [32]byte) {
	k := common.Hash(key)
	if m, ok := s.live.generic[mapID]; ok {
		delete(m, k)
	}
	s.hot.Del(hotKey(mapID, k))
}

// SetCode deploys bytecode for a contract into live, primed into the LRU
// decoded-bytecode cache.
func (s *StorageLayer) SetCode(id common.ContractId, code []byte) {
	s.live.contracts[id] = code
	s.codeCache.Add(id, code)
}

// CodeOf implements vm.Code: LRU, then live, then the persisted tier
// (snappy-compressed on disk).
func (s *StorageLayer) CodeOf(id common.ContractId) ([]byte, bool) {
	if v, ok := s.codeCache.Get(id); ok {
		return v.([]byte), true
	}
	if code, ok := s.live.contracts[id]; ok {
		s.codeCache.Add(id, code)
		return code, true
	}
	raw, err := s.db.Get(codeKey(id), nil)
	if err != nil {
		return nil, false
	}
	code, err := snappy.Decode(nil, raw)
	if err != nil {
		return nil, false
	}
	s.codeCache.Add(id, code)
	return code, true
}

func codeKey(id common.ContractId) []byte {
	return append([]byte("code/"), id.Bytes()...)
}

// Balance returns the balance of assetID held by contract c.
func (s *StorageLayer) Balance(c common.ContractId, assetID common.AssetId) uint64 {
	v, ok := s.Get(balancesMapID(c), assetID)
	if !ok {
		return 0
	}
	return beUint64(v[:])
}

// SetBalance sets the balance of assetID held by contract c.
func (s *StorageLayer) SetBalance(c common.ContractId, assetID common.AssetId, amount uint64) {
	var v common.Hash
	putBEUint64(v[:], amount)
	s.Put(balancesMapID(c), assetID, v)
}

// ContractState reads a state slot.
func (s *StorageLayer) ContractState(c common.ContractId, key common.Key32) (common.Val32, bool) {
	v, ok := s.Get(stateMapID(c), key)
	return v, ok
}

// SetContractState writes a state slot.
func (s *StorageLayer) SetContractState(c common.ContractId, key common.Key32, val common.Val32) {
	s.Put(stateMapID(c), key, val)
}

// CodeRoot reads the (salt, root) pair recorded when a contract's code
// was committed.
func (s *StorageLayer) CodeRoot(c common.ContractId) (salt, root common.Hash, ok bool) {
	salt, okSalt := s.Get(codeRootSaltMapID, c)
	root, okRoot := s.Get(codeRootRootMapID, c)
	return salt, root, okSalt && okRoot
}

// SetCodeRoot records the (salt, root) pair for contract c.
func (s *StorageLayer) SetCodeRoot(c common.ContractId, salt, root common.Hash) {
	s.Put(codeRootSaltMapID, c, salt)
	s.Put(codeRootRootMapID, c, root)
}

// Commit accepts the in-flight transaction: transacted <- live.
func (s *StorageLayer) Commit() { s.transacted = s.live.clone() }

// Revert discards the in-flight transaction: live <- transacted.
func (s *StorageLayer) Revert() {
	s.live = s.transacted.clone()
	s.hot.Reset()
}

// Persist flushes the transacted snapshot to the persisted tier and to
// live: persisted <- transacted; live <- transacted.
func (s *StorageLayer) Persist() error {
	s.persisted = s.transacted.clone()
	s.live = s.transacted.clone()
	s.hot.Reset()

	batch := new(leveldb.Batch)
	for mapID, m := range s.persisted.generic {
		for k, v := range m {
			batch.Put(hotKey(mapID, k), v.Bytes())
		}
	}
	for id, code := range s.persisted.contracts {
		batch.Put(codeKey(id), snappy.Encode(nil, code))
	}
	return s.db.Write(batch, nil)
}

// Rollback discards all unflushed work: live <- persisted; transacted <-
// persisted.
func (s *StorageLayer) Rollback() {
	s.live = s.persisted.clone()
	s.transacted = s.persisted.clone()
	s.hot.Reset()
}

// PerSubmapRoot computes the ephemeral Merkle root over mapID's entries
// in live, sorted by inner key ascending, values serialized as the raw
// 32 fixed-width bytes spec.md §4.3 prescribes.
func (s *StorageLayer) PerSubmapRoot(mapID string) common.Hash {
	m := s.live.generic[mapID]
	keys := make([]common.Hash, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessHash(keys[i], keys[j]) })

	tree := merkle.New(merkle.MapStore{})
	for _, k := range keys {
		v := m[k]
		entry := make([]byte, 0, 2*common.HashLength)
		entry = append(entry, k.Bytes()...)
		entry = append(entry, v.Bytes()...)
		_ = tree.Push(entry)
	}
	return tree.Root()
}

func lessHash(a, b common.Hash) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func beUint64(b []byte) uint64 {
	var v uint64
	for i := 24; i < 32; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func putBEUint64(b []byte, v uint64) {
	for i := 31; i >= 24; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}
