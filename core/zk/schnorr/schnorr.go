// Package schnorr implements the Schnorr proof of knowledge of a discrete
// log, used by keygen's final confirmation round to prove each party
// still knows its ECDSA secret share after the ceremony completes.
package schnorr

import (
	"github.com/cronokirby/saferith"

	"github.com/j04n-f/mpc-waas/core/hash"
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/math/sample"
)

// Randomizer is the prover's ephemeral nonce a and its commitment A = [a]G,
// sampled ahead of time (keygen round1) and revealed as part of the
// proof only once the final configuration is known (round4).
type Randomizer struct {
	group       curve.Curve
	secretNonce curve.Scalar
	commitment  curve.Point
}

// NewRandomizer samples a fresh Schnorr randomizer over group.
func NewRandomizer(group curve.Curve) *Randomizer {
	a := sample.Scalar(nil, group)
	return &Randomizer{group: group, secretNonce: a, commitment: a.ActOnBase()}
}

// Commitment returns A = [a]G, broadcast in keygen round3 as
// `SchnorrCommitments`.
func (r *Randomizer) Commitment() curve.Point { return r.commitment }

// Proof is (A, z): A is the commitment, z = a + c*x is the response to
// the Fiat-Shamir challenge c derived from the transcript.
type Proof struct {
	Commitment curve.Point
	Z          curve.Scalar
}

// Prove produces a proof of knowledge of secret, the discrete log of
// public, binding the challenge to h and an optional extra context value.
func (r *Randomizer) Prove(h *hash.Hash, public curve.Point, secret curve.Scalar, extra interface{}) *Proof {
	c := h.Clone()
	_ = c.WriteAny(r.commitment, public)
	if extra != nil {
		_ = c.WriteAny(extra)
	}
	challenge := challengeScalar(c, r.group)

	z := challenge.Mul(secret).Add(r.secretNonce)
	return &Proof{Commitment: r.commitment, Z: z}
}

// Verify checks that proof attests knowledge of public's discrete log.
func (p *Proof) Verify(h *hash.Hash, group curve.Curve, public curve.Point, extra interface{}) bool {
	c := h.Clone()
	_ = c.WriteAny(p.Commitment, public)
	if extra != nil {
		_ = c.WriteAny(extra)
	}
	challenge := challengeScalar(c, group)

	lhs := p.Z.ActOnBase()
	rhs := challenge.Act(public).Add(p.Commitment)
	return lhs.Equal(rhs)
}

func challengeScalar(h *hash.Hash, group curve.Curve) curve.Scalar {
	digest := h.Sum()
	nat := new(saferith.Nat).SetBytes(digest)
	return group.NewScalar().SetNat(nat)
}
