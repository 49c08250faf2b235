package sign

import (
	"github.com/cronokirby/saferith"

	"github.com/j04n-f/mpc-waas/core/hash"
	"github.com/j04n-f/mpc-waas/core/math/curve"
)

// hashToScalar reduces h's digest to a scalar, the same construction
// schnorr's challengeScalar uses for its Fiat-Shamir challenges; here it
// derives both the per-signer binding factors and the signature
// challenge.
func hashToScalar(h *hash.Hash, group curve.Curve) curve.Scalar {
	digest := h.Sum()
	nat := new(saferith.Nat).SetBytes(digest)
	return group.NewScalar().SetNat(nat)
}

// newChallengeHash builds the transcript for the Schnorr challenge
// c = H(R, Y, message), shared between round2's Finalize and
// Signature.Verify so both derive identical challenges.
func newChallengeHash(groupCommitment, publicKey curve.Point, message []byte) *hash.Hash {
	h := hash.New(nil)
	_ = h.WriteAny(groupCommitment, publicKey, message)
	return h
}
