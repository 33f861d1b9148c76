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

package merkle

import (
	"errors"
	"fmt"
	"math"

	"github.com/probeum/rvm/common"
)

// ErrTooLarge is returned by Push and Load when the requested leaf count
// overflows the addressable in-order index space.
var ErrTooLarge = errors.New("merkle: tree capacity exceeded")

// ProofIndexError is returned by Prove when the requested leaf index does
// not exist yet.
type ProofIndexError struct{ Index uint64 }

func (e *ProofIndexError) Error() string {
	return fmt.Sprintf("merkle: invalid proof index %d", e.Index)
}

// LoadError is returned when an expected persisted node is missing from
// the backing NodeStore.
type LoadError struct{ Index uint64 }

func (e *LoadError) Error() string {
	return fmt.Sprintf("merkle: missing persisted node at index %d", e.Index)
}

// NodeStore persists Merkle nodes keyed by their in-order index. push keys
// every node it creates, including merged peaks that are later folded into
// taller ones on a subsequent push — the index space is permanent even
// though the current peak stack changes shape as leaves are added.
type NodeStore interface {
	Get(index uint64) (common.Hash, bool)
	Put(index uint64, hash common.Hash)
}

// MapStore is an in-memory NodeStore, used directly by callers that only
// need an ephemeral tree (e.g. a per-submap root computation) and by tests.
type MapStore map[uint64]common.Hash

func (m MapStore) Get(index uint64) (common.Hash, bool) { h, ok := m[index]; return h, ok }
func (m MapStore) Put(index uint64, hash common.Hash)    { m[index] = hash }

// Tree is an append-only binary Merkle Mountain Range. Only the current
// peak stack is held in memory, ordered tallest to shortest; internal
// nodes below the peaks live solely in storage.
type Tree struct {
	leavesCount uint64
	peaks       []node
	storage     NodeStore
}

// New returns an empty tree backed by storage.
func New(storage NodeStore) *Tree {
	return &Tree{storage: storage}
}

// LeavesCount reports how many leaves have been pushed.
func (t *Tree) LeavesCount() uint64 { return t.leavesCount }

// Push appends a leaf carrying data, merging equal-height peaks until the
// stack is strictly descending again. Every node created, peak or
// intermediate, is persisted under its in-order index before Push returns.
// Push may leave storage partially mutated if it fails partway through
// with ErrTooLarge; callers requiring atomicity must wrap the call in
// their own reversible scope.
func (t *Tree) Push(data []byte) error {
	if t.leavesCount == math.MaxUint64/2 {
		return ErrTooLarge
	}
	cur := node{position: LeafPosition(t.leavesCount), hash: leafHash(data)}
	t.storage.Put(cur.position.Index(), cur.hash)

	for len(t.peaks) > 0 && t.peaks[len(t.peaks)-1].position.Height() == cur.position.Height() {
		left := t.peaks[len(t.peaks)-1]
		t.peaks = t.peaks[:len(t.peaks)-1]
		merged := node{
			position: left.position.Parent(),
			hash:     nodeHash(left.hash, cur.hash),
		}
		t.storage.Put(merged.position.Index(), merged.hash)
		cur = merged
	}
	t.peaks = append(t.peaks, cur)
	t.leavesCount++
	return nil
}

// Peaks returns the current peak-stack snapshot, tallest to shortest, for
// a caller to persist alongside the tree's backing NodeStore.
func (t *Tree) Peaks() []Node {
	out := make([]Node, len(t.peaks))
	for i, p := range t.peaks {
		out[i] = Node{Position: p.position, Hash: p.hash}
	}
	return out
}

// PushAll appends every entry of data in order, merging peaks once per
// leaf as Push does. It stops and returns ErrTooLarge at the first entry
// that would overflow the tree, leaving every prior entry committed.
func (t *Tree) PushAll(data [][]byte) error {
	for _, d := range data {
		if err := t.Push(d); err != nil {
			return err
		}
	}
	return nil
}

// Root folds the peak stack right-to-left with nodeHash. An empty tree
// returns the fixed EmptyRoot.
func (t *Tree) Root() common.Hash {
	return foldPeaks(peakHashes(t.peaks))
}

func peakHashes(peaks []node) []common.Hash {
	hs := make([]common.Hash, len(peaks))
	for i, p := range peaks {
		hs[i] = p.hash
	}
	return hs
}

// foldPeaks combines peak hashes (tallest to shortest) right-to-left into
// a single root: H(p0, H(p1, H(p2, ... pn))).
func foldPeaks(peaks []common.Hash) common.Hash {
	if len(peaks) == 0 {
		return EmptyRoot
	}
	acc := peaks[len(peaks)-1]
	for i := len(peaks) - 2; i >= 0; i-- {
		acc = nodeHash(peaks[i], acc)
	}
	return acc
}

// ownPeak locates which peak covers leaf index and the leaf-number offset
// at which that peak's leaf range begins.
func ownPeak(peaks []Position, index uint64) (ownIdx int, offset uint64, err error) {
	off := uint64(0)
	for i, pk := range peaks {
		size := uint64(1) << pk.Height()
		if index >= off && index < off+size {
			return i, off, nil
		}
		off += size
	}
	return -1, 0, &ProofIndexError{Index: index}
}

// Prove returns the current root together with the sibling path proving
// that the leaf at index is part of the tree: the climb from the leaf to
// its owning peak, followed by the remaining peaks in fold order (the
// peaks after the owning one, then the peaks before it in reverse).
func (t *Tree) Prove(index uint64) (common.Hash, []common.Hash, error) {
	if index >= t.leavesCount {
		return common.Hash{}, nil, &ProofIndexError{Index: index}
	}
	peakPos := make([]Position, len(t.peaks))
	for i, p := range t.peaks {
		peakPos[i] = p.position
	}
	ownIdx, _, err := ownPeak(peakPos, index)
	if err != nil {
		return common.Hash{}, nil, err
	}

	var proof []common.Hash
	cur := LeafPosition(index)
	for cur.Index() != peakPos[ownIdx].Index() {
		sib := cur.Sibling()
		h, ok := t.storage.Get(sib.Index())
		if !ok {
			return common.Hash{}, nil, &LoadError{Index: sib.Index()}
		}
		proof = append(proof, h)
		cur = cur.Parent()
	}
	for i := ownIdx + 1; i < len(t.peaks); i++ {
		proof = append(proof, t.peaks[i].hash)
	}
	for i := ownIdx - 1; i >= 0; i-- {
		proof = append(proof, t.peaks[i].hash)
	}
	return t.Root(), proof, nil
}

// Verify checks a proof produced by Prove against a claimed root, without
// needing access to a NodeStore: peak shape is a pure function of
// leavesCount.
func Verify(root common.Hash, index, leavesCount uint64, data []byte, proof []common.Hash) bool {
	if index >= leavesCount {
		return false
	}
	peaks := peakPositions(leavesCount)
	ownIdx, _, err := ownPeak(peaks, index)
	if err != nil {
		return false
	}

	cur := LeafPosition(index)
	curHash := leafHash(data)
	pi := 0
	for cur.Index() != peaks[ownIdx].Index() {
		if pi >= len(proof) {
			return false
		}
		sib := cur.Sibling()
		if cur.Index() < sib.Index() {
			curHash = nodeHash(curHash, proof[pi])
		} else {
			curHash = nodeHash(proof[pi], curHash)
		}
		pi++
		cur = cur.Parent()
	}

	nAfter := len(peaks) - 1 - ownIdx
	if pi+nAfter > len(proof) {
		return false
	}
	afterHashes := proof[pi : pi+nAfter]
	pi += nAfter

	acc := curHash
	if nAfter > 0 {
		accAfter := afterHashes[nAfter-1]
		for i := nAfter - 2; i >= 0; i-- {
			accAfter = nodeHash(afterHashes[i], accAfter)
		}
		acc = nodeHash(curHash, accAfter)
	}

	nBefore := ownIdx
	if pi+nBefore > len(proof) {
		return false
	}
	for _, h := range proof[pi : pi+nBefore] {
		acc = nodeHash(h, acc)
	}
	return acc == root
}

// Load rebuilds the peak stack for a tree known to hold leavesCount
// leaves, reading each predicted peak from storage.
func Load(storage NodeStore, leavesCount uint64) (*Tree, error) {
	if leavesCount > math.MaxUint64/2 {
		return nil, ErrTooLarge
	}
	positions := peakPositions(leavesCount)
	peaks := make([]node, len(positions))
	for i, pos := range positions {
		h, ok := storage.Get(pos.Index())
		if !ok {
			return nil, &LoadError{Index: pos.Index()}
		}
		peaks[i] = node{position: pos, hash: h}
	}
	return &Tree{leavesCount: leavesCount, peaks: peaks, storage: storage}, nil
}

// Reset drops the in-memory peak stack. Storage is left untouched: past
// nodes are not garbage collected, only no longer reachable as peaks.
func (t *Tree) Reset() {
	t.leavesCount = 0
	t.peaks = nil
}
