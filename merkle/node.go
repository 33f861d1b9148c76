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
	"crypto/sha256"

	"github.com/probeum/rvm/common"
)

const (
	leafPrefix     = 0x00
	internalPrefix = 0x01
)

// EmptyRoot is the root hash of a tree holding zero leaves: H() of the
// empty byte string, a fixed sentinel rather than a derived value.
var EmptyRoot = common.Hash(sha256.Sum256(nil))

// leafHash computes H(0x00 || data), the hash of a leaf carrying data.
func leafHash(data []byte) common.Hash {
	h := sha256.New()
	h.Write([]byte{leafPrefix})
	h.Write(data)
	var out common.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// nodeHash computes H(0x01 || left || right), the hash of an internal node
// with the given child hashes.
func nodeHash(left, right common.Hash) common.Hash {
	h := sha256.New()
	h.Write([]byte{internalPrefix})
	h.Write(left[:])
	h.Write(right[:])
	var out common.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// node is a single entry of the tree's in-memory node table: the position
// it occupies and the hash it carries.
type node struct {
	position Position
	hash     common.Hash
}

// Node is the exported form of a peak: its Position and the hash it
// carries, the shape Tree.Peaks returns for a caller to persist.
type Node struct {
	Position Position
	Hash     common.Hash
}
