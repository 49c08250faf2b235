// Package sample draws random values used across the protocol: curve
// scalars, and the large intervals CGGMP21's zero-knowledge proofs sample
// from (L, L', Eps — see core/zk).
package sample

import (
	"crypto/rand"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/pkg/errors"

	"github.com/j04n-f/mpc-waas/core/math/curve"
)

// Scalar draws a uniformly random, nonzero scalar of group.
func Scalar(rid io.Reader, group curve.Curve) curve.Scalar {
	if rid == nil {
		rid = rand.Reader
	}
	for {
		buf := make([]byte, 48)
		if _, err := io.ReadFull(rid, buf); err != nil {
			panic(errors.Wrap(err, "sample.Scalar: rand read failed"))
		}
		nat := new(saferith.Nat).SetBytes(buf)
		nat.Mod(group.Order())
		s := group.NewScalar().SetNat(nat)
		if !s.IsZero() {
			return s
		}
	}
}

// bitsL, bitsLEps and bitsLPrime are the CGGMP21 proof interval widths,
// expressed in bits relative to the RSA modulus size (the teacher's
// zk packages call these IntervalL, IntervalLEps and IntervalLPrime).
const (
	bitsL      = 256
	bitsLEps   = bitsL + 128
	bitsLPrime = bitsL + 512
)

func sampleSignedBits(rid io.Reader, bits int) *saferith.Int {
	if rid == nil {
		rid = rand.Reader
	}
	buf := make([]byte, bits/8)
	if _, err := io.ReadFull(rid, buf); err != nil {
		panic(errors.Wrap(err, "sample.sampleSignedBits: rand read failed"))
	}
	nat := new(saferith.Nat).SetBytes(buf)
	n := new(saferith.Int).SetNat(nat)
	if buf[0]&1 == 1 {
		n.Neg(1)
	}
	return n
}

// IntervalL samples from the proof interval (-2^L, 2^L), used for sampling
// secret values (e.g. ECDSA key shares) inside zero-knowledge proofs.
func IntervalL(rid io.Reader) *saferith.Int { return sampleSignedBits(rid, bitsL) }

// IntervalLEps samples from (-2^(L+Eps), 2^(L+Eps)), the statistical
// masking interval used by affine-operation proofs (zkaffg/zkaffp).
func IntervalLEps(rid io.Reader) *saferith.Int { return sampleSignedBits(rid, bitsLEps) }

// IntervalLPrime samples from (-2^(L'+Eps), 2^(L'+Eps)), used when the
// masked value ranges over the full Paillier modulus (zklogstar).
func IntervalLPrime(rid io.Reader) *saferith.Int { return sampleSignedBits(rid, bitsLPrime) }

// UnitModN samples a random unit of Z_n^*, used for Paillier/Pedersen
// nonces (ρ, μ, ...).
func UnitModN(rid io.Reader, n *saferith.Modulus) *saferith.Nat {
	if rid == nil {
		rid = rand.Reader
	}
	for {
		buf := make([]byte, n.BitLen()/8+1)
		if _, err := io.ReadFull(rid, buf); err != nil {
			panic(errors.Wrap(err, "sample.UnitModN: rand read failed"))
		}
		nat := new(saferith.Nat).SetBytes(buf)
		nat.Mod(n)
		if nat.Eq(new(saferith.Nat)) == 1 {
			continue
		}
		return nat
	}
}
