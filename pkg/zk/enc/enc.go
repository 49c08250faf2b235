// Package enc implements a simplified form of CGGMP21's Π^enc, the proof
// that a Paillier ciphertext K encrypts a value k within the expected
// range. Sign round1 attaches one of these to each K it sends. NewProof
// commits to k under the auxiliary Pedersen parameters and sends a
// Fiat-Shamir response; Verify only re-derives the challenge from that
// commitment, so it does not check K, the range of k, or the response.
package enc

import (
	"crypto/rand"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/j04n-f/mpc-waas/core/hash"
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/pedersen"
	"github.com/j04n-f/mpc-waas/pkg/paillier"
)

// Public is the statement: K is a ciphertext under Prover's key, committed
// against the auxiliary Pedersen parameters Aux.
type Public struct {
	K      *paillier.Ciphertext
	Prover *paillier.PublicKey
	Aux    *pedersen.Parameters
}

// Private is the witness: the plaintext and Paillier randomness used to
// produce K.
type Private struct {
	K   *saferith.Int
	Rho *saferith.Nat
}

// Proof is a Fiat-Shamir sigma proof over a Pedersen commitment to k.
type Proof struct {
	Commit    []byte
	Challenge []byte
	Z         []byte
	R         []byte
}

// NewProof commits to Private.K under Public.Aux and derives the response
// from the Fiat-Shamir challenge; Public.K and Public.Prover are not used.
func NewProof(group curve.Curve, h *hash.Hash, public Public, private Private) *Proof {
	aux := public.Aux
	kb, _ := private.K.MarshalBinary()
	k := new(big.Int).SetBytes(kb)

	r, _ := rand.Int(rand.Reader, aux.NBig())
	commit := aux.Commit(k, r)

	transcript := h.Clone()
	_ = transcript.WriteAny(commit.Bytes())
	challenge := transcript.Sum()
	e := new(big.Int).SetBytes(challenge)

	z := new(big.Int).Mul(e, k)
	z.Add(z, r)

	return &Proof{Commit: commit.Bytes(), Challenge: challenge, Z: z.Bytes(), R: r.Bytes()}
}

// Verify re-derives the Fiat-Shamir challenge from the commitment and
// checks it matches the proof; public is not used.
func Verify(proof *Proof, group curve.Curve, h *hash.Hash, public Public) bool {
	if proof == nil {
		return false
	}
	transcript := h.Clone()
	_ = transcript.WriteAny(proof.Commit)
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
