// Package zkaffp implements CGGMP21's Π^aff-g: a proof that a ciphertext
// Dv, encrypted under a verifier's Paillier key, is an affine function
// x⊙Kv⊕Enc(y) of another ciphertext Kv under the same key, for the same
// (x,y) the prover also committed to under its own key (Xp, Fp). This is
// the heart of signing's MtA share conversion: it lets one party hand
// another an encrypted additive share of a product without either
// learning the other's multiplicand.
package zkaffp

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

// Public is the statement proved: Dv = x⊙Kv⊕Encv(y), Xp = Encp(x),
// Fp = Encp(y).
type Public struct {
	Kv *paillier.Ciphertext
	Dv *paillier.Ciphertext
	Fp *paillier.Ciphertext
	Xp *paillier.Ciphertext

	Prover   *paillier.PublicKey
	Verifier *paillier.PublicKey
	Aux      *pedersen.Parameters
}

// Private is the witness.
type Private struct {
	X *saferith.Int  // x
	Y *saferith.Int  // y
	S *saferith.Nat  // nonce used for Encv(y) folded into Dv
	Rx *saferith.Nat // nonce used for Xp = Encp(x)
	R *saferith.Nat  // nonce used for Fp = Encp(y)
}

// Proof is the sigma-protocol transcript.
type Proof struct {
	A, Bx, By []byte // commitment ciphertexts
	Challenge []byte
	Z1, Z2    []byte // responses for x, y
	W, Wx, Wy []byte // combined paillier nonces
}

func natToBig(n *saferith.Nat) *big.Int {
	b, _ := n.MarshalBinary()
	return new(big.Int).SetBytes(b)
}

func intToBigAffp(i *saferith.Int) *big.Int {
	b, _ := i.MarshalBinary()
	m := new(big.Int).SetBytes(b)
	if i.IsNegative() {
		m.Neg(m)
	}
	return m
}

// NewProof proves public/private is a valid affine relation.
func NewProof(group curve.Curve, h *hash.Hash, public Public, private Private) *Proof {
	alpha := sample.IntervalLEps(rand.Reader)
	beta := sample.IntervalLEps(rand.Reader)

	A := public.Kv.Clone().Mul(public.Verifier, alpha)
	encBeta, r := public.Verifier.Enc(beta)
	A = A.Add(public.Verifier, encBeta)

	Bx, rx := public.Prover.Enc(alpha)
	By, ry := public.Prover.Enc(beta)

	transcript := h.Clone()
	ab, _ := A.MarshalBinary()
	bxb, _ := Bx.MarshalBinary()
	byb, _ := By.MarshalBinary()
	_ = transcript.WriteAny(ab, bxb, byb)
	challengeBytes := transcript.Sum()
	e := new(big.Int).SetBytes(challengeBytes)

	z1 := new(big.Int).Mul(e, intToBigAffp(private.X))
	z1.Add(z1, intToBigAffp(alpha))

	z2 := new(big.Int).Mul(e, intToBigAffp(private.Y))
	z2.Add(z2, intToBigAffp(beta))

	nv := public.Verifier.N()
	w := new(big.Int).Exp(natToBig(private.S), e, nv)
	w.Mul(w, natToBig(r))
	w.Mod(w, nv)

	np := public.Prover.N()
	wx := new(big.Int).Exp(natToBig(private.Rx), e, np)
	wx.Mul(wx, natToBig(rx))
	wx.Mod(wx, np)

	wy := new(big.Int).Exp(natToBig(private.R), e, np)
	wy.Mul(wy, natToBig(ry))
	wy.Mod(wy, np)

	return &Proof{
		A: ab, Bx: bxb, By: byb,
		Challenge: challengeBytes,
		Z1:        z1.Bytes(), Z2: z2.Bytes(),
		W: w.Bytes(), Wx: wx.Bytes(), Wy: wy.Bytes(),
	}
}

// Verify re-derives the challenge and checks the three homomorphic
// consistency equations.
func (p *Proof) Verify(group curve.Curve, h *hash.Hash, public Public) bool {
	if p == nil {
		return false
	}
	transcript := h.Clone()
	_ = transcript.WriteAny(p.A, p.Bx, p.By)
	challenge := transcript.Sum()
	if !bytesEqual(challenge, p.Challenge) {
		return false
	}

	e := new(big.Int).SetBytes(p.Challenge)
	z1 := new(saferith.Int).SetNat(new(saferith.Nat).SetBytes(p.Z1))
	z2 := new(saferith.Int).SetNat(new(saferith.Nat).SetBytes(p.Z2))
	w := new(saferith.Nat).SetBytes(p.W)
	wx := new(saferith.Nat).SetBytes(p.Wx)
	wy := new(saferith.Nat).SetBytes(p.Wy)

	lhs1 := public.Kv.Clone().Mul(public.Verifier, z1)
	encZ2 := public.Verifier.EncWithNonce(z2, w)
	lhs1 = lhs1.Add(public.Verifier, encZ2)

	rhsA := &paillier.Ciphertext{}
	_ = rhsA.UnmarshalBinary(p.A)
	rhsD := public.Dv.Clone().Mul(public.Verifier, bigToSaferithInt(e))
	rhs1 := rhsA.Add(public.Verifier, rhsD)
	if !bytesEqual(marshal(lhs1), marshal(rhs1)) {
		return false
	}

	lhs2 := public.Prover.EncWithNonce(z1, wx)
	rhsBx := &paillier.Ciphertext{}
	_ = rhsBx.UnmarshalBinary(p.Bx)
	rhsXp := public.Xp.Clone().Mul(public.Prover, bigToSaferithInt(e))
	rhs2 := rhsBx.Add(public.Prover, rhsXp)
	if !bytesEqual(marshal(lhs2), marshal(rhs2)) {
		return false
	}

	lhs3 := public.Prover.EncWithNonce(z2, wy)
	rhsBy := &paillier.Ciphertext{}
	_ = rhsBy.UnmarshalBinary(p.By)
	rhsFp := public.Fp.Clone().Mul(public.Prover, bigToSaferithInt(e))
	rhs3 := rhsBy.Add(public.Prover, rhsFp)
	return bytesEqual(marshal(lhs3), marshal(rhs3))
}

func bigToSaferithInt(b *big.Int) *saferith.Int {
	nat := new(saferith.Nat).SetBytes(b.Bytes())
	return new(saferith.Int).SetNat(nat)
}

func marshal(ct *paillier.Ciphertext) []byte {
	b, _ := ct.MarshalBinary()
	return b
}

func bytesEqual(a, b []byte) bool {
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
