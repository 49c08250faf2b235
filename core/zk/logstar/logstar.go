// Package zklogstar implements CGGMP21's Π^log*: a proof that a Paillier
// ciphertext C encrypts the discrete log of a public curve point X, i.e.
// C = Enc(x) and X = [x]G. Sign round3 uses it so a party revealing Δᵢ =
// [kᵢγᵢ]G can be checked against the Paillier ciphertext it derived Δᵢ
// from, without revealing kᵢ or γᵢ.
package zklogstar

import (
	"crypto/rand"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/j04n-f/mpc-waas/core/hash"
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/math/sample"
	"github.com/j04n-f/mpc-waas/core/paillier"
	"github.com/j04n-f/mpc-waas/core/pedersen"
)

// Public is the statement: C = Enc_prover(x), X = [x]⋅G.
type Public struct {
	C      *paillier.Ciphertext
	X      curve.Point
	Prover *paillier.PublicKey
	Aux    *pedersen.Parameters
}

// Private is the witness.
type Private struct {
	X   *saferith.Int // the plaintext/discrete-log
	Rho *saferith.Nat // nonce used for C
}

// Proof is the sigma-protocol transcript.
type Proof struct {
	A         []byte // commitment ciphertext
	CommitG   curve.Point
	Challenge []byte
	Z         []byte
	W         []byte
}

func natToBigLog(n *saferith.Nat) *big.Int {
	b, _ := n.MarshalBinary()
	return new(big.Int).SetBytes(b)
}

// NewProof proves knowledge of x with C=Enc(x), X=[x]G.
func NewProof(group curve.Curve, h *hash.Hash, public Public, private Private) *Proof {
	alpha := sample.IntervalLEps(rand.Reader)

	A, r := public.Prover.Enc(alpha)
	alphaScalar := group.NewScalar().SetNat(intervalToNat(alpha))
	if alpha.IsNegative() {
		alphaScalar = alphaScalar.Negate()
	}
	commitG := alphaScalar.ActOnBase()

	ab, _ := A.MarshalBinary()
	cb, _ := commitG.MarshalBinary()

	transcript := h.Clone()
	_ = transcript.WriteAny(ab, cb)
	challengeBytes := transcript.Sum()
	e := new(big.Int).SetBytes(challengeBytes)

	z := new(big.Int).Mul(e, intToBigLog(private.X))
	z.Add(z, intToBigLog(alpha))

	np := public.Prover.N()
	w := new(big.Int).Exp(natToBigLog(private.Rho), e, np)
	w.Mul(w, natToBigLog(r))
	w.Mod(w, np)

	return &Proof{A: ab, CommitG: commitG, Challenge: challengeBytes, Z: z.Bytes(), W: w.Bytes()}
}

// Verify re-derives the challenge and checks both the Paillier and
// curve consistency equations.
func (p *Proof) Verify(group curve.Curve, h *hash.Hash, public Public) bool {
	if p == nil {
		return false
	}
	cb, _ := p.CommitG.MarshalBinary()

	transcript := h.Clone()
	_ = transcript.WriteAny(p.A, cb)
	challenge := transcript.Sum()
	if !bytesEqualLog(challenge, p.Challenge) {
		return false
	}

	e := new(big.Int).SetBytes(p.Challenge)
	z := new(saferith.Nat).SetBytes(p.Z)
	w := new(saferith.Nat).SetBytes(p.W)
	zInt := new(saferith.Int).SetNat(z)

	lhs := public.Prover.EncWithNonce(zInt, w)
	rhsA := &paillier.Ciphertext{}
	_ = rhsA.UnmarshalBinary(p.A)
	rhsC := public.C.Clone().Mul(public.Prover, bigToSaferithIntLog(e))
	rhs := rhsA.Add(public.Prover, rhsC)
	if !bytesEqualLog(marshalLog(lhs), marshalLog(rhs)) {
		return false
	}

	zScalar := group.NewScalar().SetNat(z)
	eScalar := group.NewScalar().SetNat(new(saferith.Nat).SetBytes(e.Bytes()))
	lhsPoint := zScalar.ActOnBase()
	rhsPoint := eScalar.Act(public.X).Add(p.CommitG)
	return lhsPoint.Equal(rhsPoint)
}

func intToBigLog(i *saferith.Int) *big.Int {
	b, _ := i.MarshalBinary()
	m := new(big.Int).SetBytes(b)
	if i.IsNegative() {
		m.Neg(m)
	}
	return m
}

func intervalToNat(i *saferith.Int) *saferith.Nat {
	b, _ := i.MarshalBinary()
	return new(saferith.Nat).SetBytes(b)
}

func bigToSaferithIntLog(b *big.Int) *saferith.Int {
	nat := new(saferith.Nat).SetBytes(b.Bytes())
	return new(saferith.Int).SetNat(nat)
}

func marshalLog(ct *paillier.Ciphertext) []byte {
	b, _ := ct.MarshalBinary()
	return b
}

func bytesEqualLog(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
