package sign

import "github.com/j04n-f/mpc-waas/core/math/curve"

// Signature is a FROST/Schnorr signature: z·G = R + c·Y, where c is the
// Fiat-Shamir challenge over (R, Y, message). Unlike CGGMP21's ECDSA
// (r, s) pair, this is a native Schnorr signature and does not verify
// against pkg/ecdsa's equation.
type Signature struct {
	R curve.Point
	Z curve.Scalar
}

// Verify reports whether s is a valid signature by publicKey over
// message.
func (s *Signature) Verify(group curve.Curve, publicKey curve.Point, message []byte) bool {
	h := newChallengeHash(s.R, publicKey, message)
	challenge := hashToScalar(h, group)

	lhs := s.Z.ActOnBase()
	rhs := s.R.Add(challenge.Act(publicKey))
	return lhs.Equal(rhs)
}
