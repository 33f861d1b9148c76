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

// Package cryptoops implements the VM's memory-in/memory-out cryptographic
// primitives: secp256k1 recovery, secp256r1 recovery, ed25519 verification,
// sha256, keccak256, and BN254 point/pairing operations. Every primitive
// bounds-checks its input regions against the VM's memory before touching
// them, then either writes its result and reports success, or zeroizes the
// destination and reports failure — it never panics on a cryptographically
// invalid input, only on a memory-safety violation.
package cryptoops

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/sha256"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"golang.org/x/crypto/sha3"

	"github.com/probeum/rvm/vm"
)

const (
	sigLength    = 64
	hashLength   = 32
	pubkeyLength = 64 // uncompressed X||Y, no leading tag byte
)

func zero(mem *vm.VmMemory, dst, n uint64) error {
	return mem.WriteBytes(dst, make([]byte, n))
}

// Eck1 recovers a secp256k1 public key from a 65-byte compact signature
// (r||s||recoveryID) at sigOffset against the 32-byte message digest at
// msgOffset, writing the 64-byte uncompressed key to dst on success.
func Eck1(mem *vm.VmMemory, dst, sigOffset, msgOffset uint64) (bool, error) {
	sig, err := mem.ReadBytes(sigOffset, sigLength+1)
	if err != nil {
		return false, err
	}
	msg, err := mem.ReadBytes(msgOffset, hashLength)
	if err != nil {
		return false, err
	}
	// Reserve the destination region up front so a failure path still
	// performs its one write, per the bounds-check-then-write contract.
	if _, err := mem.ReadBytes(dst, pubkeyLength); err != nil {
		return false, err
	}

	compact := make([]byte, sigLength+1)
	compact[0] = sig[64] + 27
	copy(compact[1:], sig[:64])

	pub, _, err := btcec.RecoverCompact(btcec.S256(), compact, msg)
	if err != nil {
		return false, zero(mem, dst, pubkeyLength)
	}

	out := make([]byte, pubkeyLength)
	pub.X.FillBytes(out[:32])
	pub.Y.FillBytes(out[32:])
	if err := mem.WriteBytes(dst, out); err != nil {
		return false, err
	}
	return true, nil
}

// Ecr1 recovers a secp256r1 (P-256) public key from a 64-byte signature
// (r||s) plus an explicit 1-byte recovery id, against the 32-byte message
// digest at msgOffset.
func Ecr1(mem *vm.VmMemory, dst, sigOffset, msgOffset uint64) (bool, error) {
	sig, err := mem.ReadBytes(sigOffset, sigLength+1)
	if err != nil {
		return false, err
	}
	msg, err := mem.ReadBytes(msgOffset, hashLength)
	if err != nil {
		return false, err
	}
	if _, err := mem.ReadBytes(dst, pubkeyLength); err != nil {
		return false, err
	}

	curve := elliptic.P256()
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	recID := sig[64]

	pub, ok := recoverP256(curve, r, s, recID, msg)
	if !ok {
		return false, zero(mem, dst, pubkeyLength)
	}

	out := make([]byte, pubkeyLength)
	pub.X.FillBytes(out[:32])
	pub.Y.FillBytes(out[32:])
	if err := mem.WriteBytes(dst, out); err != nil {
		return false, err
	}
	return true, nil
}

// recoverP256 reconstructs the candidate public key for recovery id recID
// (0 or 1, selecting the even/odd y root of x = r) and accepts it only if
// it verifies the signature over msg.
func recoverP256(curve elliptic.Curve, r, s *big.Int, recID byte, msg []byte) (*ecdsa.PublicKey, bool) {
	params := curve.Params()
	x := new(big.Int).Set(r)
	if x.Cmp(params.P) >= 0 {
		return nil, false
	}
	ySquared := new(big.Int).Exp(x, big.NewInt(3), params.P)
	threeX := new(big.Int).Mul(x, big.NewInt(3))
	ySquared.Sub(ySquared, threeX)
	ySquared.Add(ySquared, params.B)
	ySquared.Mod(ySquared, params.P)
	y := new(big.Int).ModSqrt(ySquared, params.P)
	if y == nil {
		return nil, false
	}
	if y.Bit(0) != uint(recID&1) {
		y.Sub(params.P, y)
	}
	pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
	return pub, ecdsa.Verify(pub, msg, r, s)
}

// S256 writes the SHA-256 digest of the n bytes at srcOffset to dst.
func S256(mem *vm.VmMemory, dst, srcOffset, n uint64) error {
	data, err := mem.ReadBytes(srcOffset, n)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(data)
	return mem.WriteBytes(dst, sum[:])
}

// K256 writes the Keccak-256 digest of the n bytes at srcOffset to dst.
func K256(mem *vm.VmMemory, dst, srcOffset, n uint64) error {
	data, err := mem.ReadBytes(srcOffset, n)
	if err != nil {
		return err
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	sum := h.Sum(nil)
	return mem.WriteBytes(dst, sum)
}

// Ed19 verifies an ed25519 signature. sigOffset holds the 64-byte
// signature, pubkeyOffset the 32-byte public key, and the message
// immediately follows the signature region; msgLen of 0 is treated as 32
// per the fixed-length convention for short messages.
func Ed19(mem *vm.VmMemory, sigOffset, pubkeyOffset, msgLen uint64) (bool, error) {
	effLen := msgLen
	if effLen == 0 {
		effLen = hashLength
	}
	sig, err := mem.ReadBytes(sigOffset, ed25519.SignatureSize)
	if err != nil {
		return false, err
	}
	pub, err := mem.ReadBytes(pubkeyOffset, ed25519.PublicKeySize)
	if err != nil {
		return false, err
	}
	msg, err := mem.ReadBytes(sigOffset+ed25519.SignatureSize, effLen)
	if err != nil {
		return false, err
	}
	return ed25519.Verify(pub, msg, sig), nil
}

// EcOp performs a BN254 G1 point operation: mode 0 is point addition of
// the two points at aOffset/bOffset, mode 1 is scalar multiplication of
// the point at aOffset by the scalar at bOffset.
func EcOp(mem *vm.VmMemory, dst, aOffset, bOffset uint64, mode uint8) (bool, error) {
	a, err := readG1(mem, aOffset)
	if err != nil {
		return false, err
	}
	if _, err := mem.ReadBytes(dst, 64); err != nil {
		return false, err
	}
	if a == nil {
		return false, zero(mem, dst, 64)
	}

	var out bn254.G1Affine
	switch mode {
	case 0:
		b, err := readG1(mem, bOffset)
		if err != nil {
			return false, err
		}
		if b == nil {
			return false, zero(mem, dst, 64)
		}
		out.Add(a, b)
	case 1:
		scalarBytes, err := mem.ReadBytes(bOffset, 32)
		if err != nil {
			return false, err
		}
		var scalar big.Int
		scalar.SetBytes(scalarBytes)
		out.ScalarMultiplication(a, &scalar)
	default:
		return false, zero(mem, dst, 64)
	}

	buf := out.RawBytes()
	if err := mem.WriteBytes(dst, buf[:]); err != nil {
		return false, err
	}
	return true, nil
}

func readG1(mem *vm.VmMemory, offset uint64) (*bn254.G1Affine, error) {
	raw, err := mem.ReadBytes(offset, 64)
	if err != nil {
		return nil, err
	}
	var p bn254.G1Affine
	if err := p.Unmarshal(raw); err != nil {
		return nil, nil
	}
	return &p, nil
}

// EPair checks a BN254 pairing product over the pairCount (G1, G2) pairs
// starting at pairsOffset, writing 1 to dst if the product equals the
// identity in GT and 0 otherwise. Malformed curve points are a failure,
// not a panic.
func EPair(mem *vm.VmMemory, dst, pairsOffset uint64, pairCount int) (bool, error) {
	const pairWidth = 64 + 128 // G1 affine + G2 affine
	g1s := make([]bn254.G1Affine, 0, pairCount)
	g2s := make([]bn254.G2Affine, 0, pairCount)
	for i := 0; i < pairCount; i++ {
		base := pairsOffset + uint64(i)*pairWidth
		g1Raw, err := mem.ReadBytes(base, 64)
		if err != nil {
			return false, err
		}
		g2Raw, err := mem.ReadBytes(base+64, 128)
		if err != nil {
			return false, err
		}
		var g1 bn254.G1Affine
		var g2 bn254.G2Affine
		if err := g1.Unmarshal(g1Raw); err != nil {
			return false, zero(mem, dst, 1)
		}
		if err := g2.Unmarshal(g2Raw); err != nil {
			return false, zero(mem, dst, 1)
		}
		g1s = append(g1s, g1)
		g2s = append(g2s, g2)
	}

	ok, err := bn254.PairingCheck(g1s, g2s)
	if err != nil || !ok {
		return false, zero(mem, dst, 1)
	}
	if err := mem.WriteBytes(dst, []byte{1}); err != nil {
		return false, err
	}
	return true, nil
}
