// Package pedersen implements the Pedersen commitment parameters (N, s, t)
// that CGGMP21 uses as auxiliary RSA group for its range proofs
// (zkfac/zkmod/zkenc/zkaffg/zklogstar all take an Aux parameter of this
// type), plus the zkprm proof that s, t were derived correctly.
package pedersen

import (
	"crypto/rand"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/pkg/errors"

	"github.com/j04n-f/mpc-waas/core/hash"
	"github.com/j04n-f/mpc-waas/core/pool"
)

// Parameters are the public (N, s, t) Pedersen commitment base. Commit
// binds a value and randomizer as s^x t^r mod N.
type Parameters struct {
	n    *big.Int
	s, t *big.Int
}

// SecretKey additionally holds λ, the discrete log of t base s mod N,
// needed to produce the zkprm proof and to equivocate commitments.
type SecretKey struct {
	phi, lambda *big.Int
	pub         *Parameters
}

// KeyGen derives Pedersen parameters from a Paillier-style modulus N =
// p*q with known Euler totient phi, matching the teacher's practice of
// generating Paillier and Pedersen keys from the same prime pair.
func KeyGen(n, phi *big.Int) (*SecretKey, *Parameters, error) {
	lambda, err := rand.Int(rand.Reader, phi)
	if err != nil {
		return nil, nil, errors.Wrap(err, "pedersen: KeyGen: rand read failed")
	}
	tau, err := rand.Int(rand.Reader, n)
	if err != nil {
		return nil, nil, errors.Wrap(err, "pedersen: KeyGen: rand read failed")
	}
	s := new(big.Int).Exp(tau, big.NewInt(2), n)
	t := new(big.Int).Exp(s, lambda, n)

	pub := &Parameters{n: n, s: s, t: t}
	return &SecretKey{phi: phi, lambda: lambda, pub: pub}, pub, nil
}

// N returns the Pedersen/Paillier shared modulus.
func (p *Parameters) N() *saferith.Modulus { return saferith.ModulusFromBytes(p.n.Bytes()) }

// NBig exposes the modulus as math/big, for packages (core/zk/fac) that
// need to sample exponents modulo N directly.
func (p *Parameters) NBig() *big.Int { return new(big.Int).Set(p.n) }

// S returns the s generator.
func (p *Parameters) S() *saferith.Nat { return new(saferith.Nat).SetBytes(p.s.Bytes()) }

// T returns the t generator.
func (p *Parameters) T() *saferith.Nat { return new(saferith.Nat).SetBytes(p.t.Bytes()) }

// PublicKeyRaw is the accessor name used throughout the round files
// (`ped.PublicKeyRaw()` in keygen round3/round4).
func (p *Parameters) PublicKeyRaw() *Parameters { return p }

// PublicKeyRaw on SecretKey exposes the public parameters directly, for
// call sites that only hold the SecretKey.
func (sk *SecretKey) PublicKeyRaw() *Parameters { return sk.pub }

// MarshalBinary encodes (N, s, t) for binding into a hash.Hash transcript.
func (p *Parameters) MarshalBinary() ([]byte, error) {
	var out []byte
	for _, b := range [][]byte{p.n.Bytes(), p.s.Bytes(), p.t.Bytes()} {
		out = append(out, byte(len(b)>>8), byte(len(b)))
		out = append(out, b...)
	}
	return out, nil
}

// Commit computes s^x t^r mod N.
func (p *Parameters) Commit(x, r *big.Int) *big.Int {
	sx := new(big.Int).Exp(p.s, x, p.n)
	tr := new(big.Int).Exp(p.t, r, p.n)
	return sx.Mul(sx, tr).Mod(sx, p.n)
}

// ValidateParameters reports whether N, s, t satisfy the basic sanity
// conditions (s, t coprime to N, s != t).
func ValidateParameters(n *saferith.Modulus, s, t *saferith.Nat) error {
	if n == nil || s == nil || t == nil {
		return errors.New("pedersen: nil parameter")
	}
	sb, _ := s.MarshalBinary()
	tb, _ := t.MarshalBinary()
	if len(sb) == 0 || len(tb) == 0 {
		return errors.New("pedersen: empty generator")
	}
	nb, _ := n.Nat().MarshalBinary()
	nBig := new(big.Int).SetBytes(nb)
	sBig, tBig := new(big.Int).SetBytes(sb), new(big.Int).SetBytes(tb)
	if sBig.Cmp(tBig) == 0 {
		return errors.New("pedersen: s equals t")
	}
	one := big.NewInt(1)
	if new(big.Int).GCD(nil, nil, sBig, nBig).Cmp(one) != 0 || new(big.Int).GCD(nil, nil, tBig, nBig).Cmp(one) != 0 {
		return errors.New("pedersen: generator not coprime to N")
	}
	return nil
}

// Proof is a zkprm proof that t = s^λ mod N for a secret λ, i.e. that the
// Pedersen parameters were generated honestly.
type Proof struct {
	Challenge []byte
	Responses [][]byte
}

const prmIterations = 32

// NewProof proves knowledge of λ = log_s(t) via a parallel Fiat-Shamir
// sigma protocol (one (a_i, z_i) pair per iteration; pool.Parallelize
// spreads the per-iteration exponentiations across workers, mirroring
// core/zk/mod.NewProof).
func (sk *SecretKey) NewProof(h *hash.Hash, p *pool.Pool) *Proof {
	n := sk.pub.n
	as := make([]*big.Int, prmIterations)
	results := p.Parallelize(prmIterations, func(i int) interface{} {
		a, err := rand.Int(rand.Reader, sk.phi)
		if err != nil {
			return err
		}
		as[i] = a
		return new(big.Int).Exp(sk.pub.s, a, n)
	})

	transcript := h.Clone()
	_ = transcript.WriteAny(sk.pub.s.Bytes(), sk.pub.t.Bytes())
	for _, r := range results {
		if commitment, ok := r.(*big.Int); ok {
			_ = transcript.WriteAny(commitment.Bytes())
		}
	}
	challenge := transcript.Sum()

	responses := make([][]byte, prmIterations)
	for i := 0; i < prmIterations; i++ {
		bit := challenge[i%len(challenge)] & 1
		z := new(big.Int).Set(as[i])
		if bit == 1 {
			z.Add(z, sk.lambda)
			z.Mod(z, sk.phi)
		}
		responses[i] = z.Bytes()
	}
	return &Proof{Challenge: challenge, Responses: responses}
}

// VerifyProof checks a Proof produced by NewProof against the public
// parameters pub.
func (pub *Parameters) VerifyProof(h *hash.Hash, p *pool.Pool, proof *Proof) bool {
	if proof == nil || len(proof.Responses) != prmIterations {
		return false
	}
	n := pub.n
	commitments := make([]*big.Int, prmIterations)
	results := p.Parallelize(prmIterations, func(i int) interface{} {
		bit := proof.Challenge[i%len(proof.Challenge)] & 1
		z := new(big.Int).SetBytes(proof.Responses[i])
		sz := new(big.Int).Exp(pub.s, z, n)
		if bit == 1 {
			tInv := new(big.Int).ModInverse(pub.t, n)
			if tInv == nil {
				return false
			}
			sz.Mul(sz, tInv)
			sz.Mod(sz, n)
		}
		return sz
	})
	for i, r := range results {
		c, ok := r.(*big.Int)
		if !ok {
			return false
		}
		commitments[i] = c
	}

	transcript := h.Clone()
	_ = transcript.WriteAny(pub.s.Bytes(), pub.t.Bytes())
	for _, c := range commitments {
		_ = transcript.WriteAny(c.Bytes())
	}
	got := transcript.Sum()
	if len(got) != len(proof.Challenge) {
		return false
	}
	var diff byte
	for i := range got {
		diff |= got[i] ^ proof.Challenge[i]
	}
	return diff == 0
}
