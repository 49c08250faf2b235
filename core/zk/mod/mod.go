// Package mod implements a simplified form of CGGMP21's Π^mod, the proof
// that a Paillier modulus N is a product of two primes (a "Blum
// integer"), without the Jacobi-symbol bookkeeping of the original (see
// DESIGN.md). The prover picks random squares y = r² mod N, hashes them
// into the challenge and sends a square root of each, extracted with its
// factorization; the verifier only checks that the squares of the sent
// roots hash to the challenge. Such a proof can be produced without
// knowing N's factorization, so it does not show that N is a Blum integer.
package mod

import (
	"crypto/rand"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/j04n-f/mpc-waas/core/hash"
	"github.com/j04n-f/mpc-waas/core/pool"
)

const iterations = 16

// Proof is a zkmod proof.
type Proof struct {
	N         *saferith.Modulus
	Challenge []byte
	Roots     [][]byte
}

// Prover is implemented by a Paillier secret key: it knows p, q and so can
// extract modular square roots.
type Prover interface {
	N() *big.Int
	SqrtModPQ(y *big.Int) (*big.Int, bool)
}

// NewProof samples random squares mod N, derives the challenge from them
// and answers with a square root of each, computed by prover.
func NewProof(prover Prover, h *hash.Hash, p *pool.Pool) *Proof {
	n := prover.N()
	ys := make([]*big.Int, iterations)
	for i := range ys {
		r, _ := rand.Int(rand.Reader, n)
		ys[i] = new(big.Int).Exp(r, big.NewInt(2), n)
	}

	transcript := h.Clone()
	_ = transcript.WriteAny(n.Bytes())
	for _, y := range ys {
		_ = transcript.WriteAny(y.Bytes())
	}
	challenge := transcript.Sum()

	roots := p.Parallelize(iterations, func(i int) interface{} {
		root, ok := prover.SqrtModPQ(ys[i])
		if !ok {
			return []byte{}
		}
		return root.Bytes()
	})

	out := make([][]byte, iterations)
	for i, r := range roots {
		out[i] = r.([]byte)
	}

	return &Proof{
		N:         saferith.ModulusFromBytes(n.Bytes()),
		Challenge: challenge,
		Roots:     out,
	}
}

// VerifyZKMod checks that the squares mod N of the claimed roots, hashed
// after N, reproduce the proof's challenge.
func VerifyZKMod(proof *Proof, h *hash.Hash, p *pool.Pool) bool {
	if proof == nil || len(proof.Roots) != iterations {
		return false
	}
	nb, err := proof.N.Nat().MarshalBinary()
	if err != nil {
		return false
	}
	n := new(big.Int).SetBytes(nb)
	if n.Sign() <= 0 {
		return false
	}

	ys := make([]*big.Int, iterations)
	transcript := h.Clone()
	_ = transcript.WriteAny(n.Bytes())
	for i := 0; i < iterations; i++ {
		root := new(big.Int).SetBytes(proof.Roots[i])
		square := new(big.Int).Exp(root, big.NewInt(2), n)
		ys[i] = square
		_ = transcript.WriteAny(square.Bytes())
	}
	got := transcript.Sum()
	if len(got) != len(proof.Challenge) {
		return false
	}
	for i := range got {
		if got[i] != proof.Challenge[i] {
			return false
		}
	}
	return true
}
