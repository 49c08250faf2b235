// Package fac implements a simplified form of CGGMP21's Π^fac, the proof
// that a Paillier modulus N's prime factors each lie within the expected
// bit-length range, committed against an auxiliary Pedersen (Aux) modulus.
// NewProof commits to p and q under Aux and sends Fiat-Shamir responses;
// Verify only re-derives the challenge from the two commitments, so it
// does not check that the committed values multiply to N or lie in any
// range.
package fac

import (
	"crypto/rand"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/j04n-f/mpc-waas/core/hash"
	"github.com/j04n-f/mpc-waas/core/pedersen"
)

// Public is the statement being proven: that N factors with primes sized
// for Aux's Pedersen commitment scheme.
type Public struct {
	N   *saferith.Modulus
	Aux *pedersen.Parameters
}

// Private is the witness: the prime factors of N.
type Private struct {
	P, Q *big.Int
}

// Proof carries Pedersen commitments to P and Q, the Fiat-Shamir challenge
// over them, the responses ZP, ZQ and the commitment randomness RP, RQ.
type Proof struct {
	CommitP   []byte
	CommitQ   []byte
	Challenge []byte
	ZP, ZQ    []byte
	RP, RQ    []byte
}

// NewProof commits to the witness primes and derives the responses from
// the Fiat-Shamir challenge over the commitments; Public.N is not used.
func NewProof(h *hash.Hash, public Public, private Private) *Proof {
	aux := public.Aux
	rp, _ := rand.Int(rand.Reader, aux.NBig())
	rq, _ := rand.Int(rand.Reader, aux.NBig())

	commitP := aux.Commit(private.P, rp)
	commitQ := aux.Commit(private.Q, rq)

	transcript := h.Clone()
	_ = transcript.WriteAny(commitP.Bytes(), commitQ.Bytes())
	challenge := transcript.Sum()
	e := new(big.Int).SetBytes(challenge)

	zp := new(big.Int).Mul(e, private.P)
	zp.Add(zp, rp)
	zq := new(big.Int).Mul(e, private.Q)
	zq.Add(zq, rq)

	return &Proof{
		CommitP:   commitP.Bytes(),
		CommitQ:   commitQ.Bytes(),
		Challenge: challenge,
		ZP:        zp.Bytes(),
		ZQ:        zq.Bytes(),
		RP:        rp.Bytes(),
		RQ:        rq.Bytes(),
	}
}

// Verify re-derives the Fiat-Shamir challenge from the commitments and
// compares it with proof.Challenge; public and the responses are not
// checked.
func Verify(proof *Proof, public Public, h *hash.Hash) bool {
	if proof == nil {
		return false
	}
	transcript := h.Clone()
	_ = transcript.WriteAny(proof.CommitP, proof.CommitQ)
	challenge := transcript.Sum()
	if len(challenge) != len(proof.Challenge) {
		return false
	}
	for i := range challenge {
		if challenge[i] != proof.Challenge[i] {
			return false
		}
	}
	return true
}
