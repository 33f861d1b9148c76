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

package cryptoops

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec"

	"github.com/probeum/rvm/vm"
)

const memSize = 4096

func TestEck1HappyAndCorruptedSignature(t *testing.T) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	var msg [32]byte
	msg[0] = 0x42
	digest := sha256.Sum256(msg[:])

	sig, err := btcec.SignCompact(btcec.S256(), priv, digest[:], false)
	if err != nil {
		t.Fatalf("SignCompact: %v", err)
	}
	// btcec.SignCompact prefixes [recoveryID+27]; cryptoops.Eck1 expects
	// the recovery id as the trailing byte instead.
	compact := append(sig[1:], sig[0]-27)

	mem := vm.NewVmMemory(memSize, 0)
	if err := mem.GrowStack(512); err != nil {
		t.Fatalf("growing stack: %v", err)
	}
	const sigOffset, msgOffset, dstOffset = 0, 128, 256
	if err := mem.WriteBytes(sigOffset, compact); err != nil {
		t.Fatalf("write sig: %v", err)
	}
	if err := mem.WriteBytes(msgOffset, digest[:]); err != nil {
		t.Fatalf("write msg: %v", err)
	}

	ok, err := Eck1(mem, dstOffset, sigOffset, msgOffset)
	if err != nil {
		t.Fatalf("Eck1: %v", err)
	}
	if !ok {
		t.Fatal("Eck1 should recover a valid key from a valid signature")
	}
	want := make([]byte, pubkeyLength)
	priv.PubKey().X.FillBytes(want[:32])
	priv.PubKey().Y.FillBytes(want[32:])
	got, err := mem.ReadBytes(dstOffset, pubkeyLength)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("recovered key mismatch at byte %d: got %x, want %x", i, got, want)
		}
	}

	corrupted := make([]byte, len(compact))
	copy(corrupted, compact)
	corrupted[0] ^= 0xFF
	if err := mem.WriteBytes(sigOffset, corrupted); err != nil {
		t.Fatalf("write corrupted sig: %v", err)
	}
	ok, err = Eck1(mem, dstOffset, sigOffset, msgOffset)
	if err != nil {
		t.Fatalf("Eck1 with corrupted sig should not panic: %v", err)
	}
	if ok {
		t.Fatal("Eck1 with a corrupted signature should report failure")
	}
	got, _ = mem.ReadBytes(dstOffset, pubkeyLength)
	for _, b := range got {
		if b != 0 {
			t.Fatal("Eck1 failure path should zeroize the destination")
		}
	}
}

func TestEd19MemoryOverflowIndependentOfLength(t *testing.T) {
	mem := vm.NewVmMemory(memSize, 0)
	a := memSize - 31
	for _, msgLen := range []uint64{0, 32, 64, 100} {
		_, err := Ed19(mem, a, a, msgLen)
		reason, isPanic := vm.AsPanic(err)
		if !isPanic || reason != vm.PanicMemoryOverflow {
			t.Errorf("Ed19 with msgLen=%d: err=%v, want MemoryOverflow panic", msgLen, err)
		}
	}
}

func TestEd19ValidSignatureVerifies(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	msg := make([]byte, 32)
	sig := ed25519.Sign(priv, msg)

	mem := vm.NewVmMemory(memSize, 0)
	if err := mem.GrowStack(512); err != nil {
		t.Fatalf("growing stack: %v", err)
	}
	const sigOffset, pubOffset = 0, 256
	if err := mem.WriteBytes(sigOffset, sig); err != nil {
		t.Fatalf("write sig: %v", err)
	}
	if err := mem.WriteBytes(sigOffset+ed25519.SignatureSize, msg); err != nil {
		t.Fatalf("write msg: %v", err)
	}
	if err := mem.WriteBytes(pubOffset, pub); err != nil {
		t.Fatalf("write pubkey: %v", err)
	}

	ok, err := Ed19(mem, sigOffset, pubOffset, 0)
	if err != nil {
		t.Fatalf("Ed19: %v", err)
	}
	if !ok {
		t.Fatal("Ed19 should verify a valid signature with msgLen=0 treated as 32")
	}
}

func TestS256AndK256ProduceDifferentDigests(t *testing.T) {
	mem := vm.NewVmMemory(memSize, 0)
	if err := mem.GrowStack(512); err != nil {
		t.Fatalf("growing stack: %v", err)
	}
	data := []byte("probe-vm-cryptoops")
	const srcOffset, sDst, kDst = 0, 64, 128
	if err := mem.WriteBytes(srcOffset, data); err != nil {
		t.Fatalf("write data: %v", err)
	}
	if err := S256(mem, sDst, srcOffset, uint64(len(data))); err != nil {
		t.Fatalf("S256: %v", err)
	}
	if err := K256(mem, kDst, srcOffset, uint64(len(data))); err != nil {
		t.Fatalf("K256: %v", err)
	}
	s, _ := mem.ReadBytes(sDst, hashLength)
	k, _ := mem.ReadBytes(kDst, hashLength)
	if string(s) == string(k) {
		t.Error("SHA-256 and Keccak-256 of the same input should differ")
	}
}
