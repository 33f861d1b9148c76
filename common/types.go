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

// Package common holds the fixed-width identifier types shared by every
// package in the engine: 32-byte hashes, contract/asset ids, storage keys
// and values.
package common

import (
	"encoding/hex"
	"fmt"
)

// HashLength is the length in bytes of a Hash.
const HashLength = 32

// Word is a single VM register / memory word.
type Word = uint64

// Hash is a 32 byte value, the common shape for every fixed-width identifier
// in the engine (contract ids, asset ids, storage keys/values, Merkle node
// hashes).
type Hash [HashLength]byte

// BytesToHash sets h to the value of b, cropping from the left if b is
// longer than HashLength and zero-padding on the left if shorter.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash parses a "0x"-prefixed or bare hex string into a Hash.
func HexToHash(s string) Hash {
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		s = s[2:]
	}
	b, _ := hex.DecodeString(s)
	return BytesToHash(b)
}

// SetBytes sets h to the value of b, see BytesToHash.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// Bytes returns the byte slice view of h.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the "0x"-prefixed hex encoding of h.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	for _, b := range h {
		if b != 0 {
			return false
		}
	}
	return true
}

// Format implements fmt.Formatter so %x/%v/%s all produce sensible output,
// matching the teacher's common.Hash.Format.
func (h Hash) Format(s fmt.State, c rune) {
	switch c {
	case 'x', 'X', 'v', 's':
		fmt.Fprint(s, h.Hex())
	default:
		fmt.Fprintf(s, "%%!%c(hash=%s)", c, h.Hex())
	}
}

// ContractId identifies a deployed contract's bytecode and state namespace.
type ContractId = Hash

// AssetId identifies a fungible asset type tracked by the balances map.
type AssetId = Hash

// Key32 is a 32-byte key into a contract's state map.
type Key32 = Hash

// Val32 is a 32-byte value stored in a contract's state map.
type Val32 = Hash

// Salt is the 32-byte salt used when deriving a contract's code root.
type Salt = Hash

// Root32 is a 32-byte Merkle root (code root, receipts root, MMR root).
type Root32 = Hash

// EmptyHash is the zero-valued Hash, used as a sentinel for "no value".
var EmptyHash = Hash{}
