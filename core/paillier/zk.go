package paillier

import (
	"github.com/j04n-f/mpc-waas/core/hash"
	zkfac "github.com/j04n-f/mpc-waas/core/zk/fac"
	zkmod "github.com/j04n-f/mpc-waas/core/zk/mod"

	"github.com/j04n-f/mpc-waas/core/pool"
)

// NewZKModProof proves that sk's modulus N is a Blum integer (keygen
// round3's `pk.NewZKModProof(h.Clone(), r.Pool)` call).
func (sk *SecretKey) NewZKModProof(h *hash.Hash, p *pool.Pool) *zkmod.Proof {
	return zkmod.NewProof(sk, h, p)
}

// VerifyZKMod re-exports zkmod.VerifyZKMod under the paillier package, as
// keygen round4 calls it (`paillier.VerifyZKMod(body.Mod, ...)`).
func VerifyZKMod(proof *zkmod.Proof, h *hash.Hash, p *pool.Pool) bool {
	return zkmod.VerifyZKMod(proof, h, p)
}

// NewZKFACProof proves sk's prime factors are correctly sized relative to
// public.Aux (keygen round3's `pk.NewZKFACProof(h.Clone(), zkfac.Public{...})`).
func (sk *SecretKey) NewZKFACProof(h *hash.Hash, public zkfac.Public) *zkfac.Proof {
	return zkfac.NewProof(h, public, zkfac.Private{P: sk.p, Q: sk.q})
}

// VerifyZKFAC checks a zkfac proof (keygen round4's
// `paillierKey.VerifyZKFAC(body.Fac, zkfac.Public{...}, r.HashForID(from))`).
// The receiver is only used for call-site parity with the teacher, who
// routes this through the local party's key manager handle.
func (sk *SecretKey) VerifyZKFAC(proof *zkfac.Proof, public zkfac.Public, h *hash.Hash) bool {
	return zkfac.Verify(proof, public, h)
}
