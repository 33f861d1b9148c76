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
	"testing"
)

func leafData(i int) []byte { return []byte{byte(i)} }

// TestSevenLeafTree exercises the worked example: root folds three peaks
// of sizes 4, 2, 1, and the proof for leaf 4 is [leaf5, leaf6, peak(L0..L3)].
func TestSevenLeafTree(t *testing.T) {
	store := MapStore{}
	tree := New(store)
	for i := 0; i < 7; i++ {
		if err := tree.Push(leafData(i)); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}

	l0, l1, l2, l3 := leafHash(leafData(0)), leafHash(leafData(1)), leafHash(leafData(2)), leafHash(leafData(3))
	l4, l5, l6 := leafHash(leafData(4)), leafHash(leafData(5)), leafHash(leafData(6))
	a := nodeHash(nodeHash(l0, l1), nodeHash(l2, l3))
	c := nodeHash(l4, l5)
	wantRoot := nodeHash(a, nodeHash(c, l6))

	if got := tree.Root(); got != wantRoot {
		t.Errorf("root = %x, want %x", got, wantRoot)
	}

	root, proof, err := tree.Prove(4)
	if err != nil {
		t.Fatalf("prove(4): %v", err)
	}
	if root != wantRoot {
		t.Errorf("prove root = %x, want %x", root, wantRoot)
	}
	if len(proof) != 3 {
		t.Fatalf("proof length = %d, want 3", len(proof))
	}
	if proof[0] != l5 || proof[1] != l6 || proof[2] != a {
		t.Errorf("proof = %x, want [leaf5, leaf6, node(L0..L3)]", proof)
	}

	if !Verify(root, 4, 7, leafData(4), proof) {
		t.Errorf("Verify rejected a valid proof for index 4")
	}
	if Verify(root, 4, 7, leafData(5), proof) {
		t.Errorf("Verify accepted a proof against the wrong leaf data")
	}
}

func TestEmptyTree(t *testing.T) {
	tree := New(MapStore{})
	if got := tree.Root(); got != EmptyRoot {
		t.Errorf("root of empty tree = %x, want EmptyRoot", got)
	}
	if _, _, err := tree.Prove(0); err == nil {
		t.Fatal("prove(0) on an empty tree should fail")
	} else {
		var perr *ProofIndexError
		if !errors.As(err, &perr) || perr.Index != 0 {
			t.Errorf("prove(0) error = %v, want ProofIndexError{0}", err)
		}
	}
}

func TestLoadMismatch(t *testing.T) {
	store := MapStore{}
	tree := New(store)
	for i := 0; i < 5; i++ {
		if err := tree.Push(leafData(i)); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if _, err := Load(store, 10); err == nil {
		t.Fatal("Load with a leaf count taller than the pushed data should fail")
	} else {
		var lerr *LoadError
		if !errors.As(err, &lerr) {
			t.Errorf("Load error = %v, want a LoadError", err)
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	store := MapStore{}
	tree := New(store)
	for i := 0; i < 11; i++ {
		if err := tree.Push(leafData(i)); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	wantRoot := tree.Root()

	loaded, err := Load(store, 11)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.Root(); got != wantRoot {
		t.Errorf("loaded root = %x, want %x", got, wantRoot)
	}
}

func TestProveVerifyAllIndices(t *testing.T) {
	store := MapStore{}
	tree := New(store)
	const n = 13
	for i := 0; i < n; i++ {
		if err := tree.Push(leafData(i)); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	root := tree.Root()
	for i := uint64(0); i < n; i++ {
		_, proof, err := tree.Prove(i)
		if err != nil {
			t.Fatalf("prove(%d): %v", i, err)
		}
		if !Verify(root, i, n, leafData(int(i)), proof) {
			t.Errorf("Verify failed for index %d", i)
		}
	}
}

func TestReset(t *testing.T) {
	tree := New(MapStore{})
	for i := 0; i < 3; i++ {
		_ = tree.Push(leafData(i))
	}
	tree.Reset()
	if tree.LeavesCount() != 0 {
		t.Errorf("LeavesCount after Reset = %d, want 0", tree.LeavesCount())
	}
	if got := tree.Root(); got != EmptyRoot {
		t.Errorf("Root after Reset = %x, want EmptyRoot", got)
	}
}
