// Package keygen implements the CGGMP21 distributed key generation
// ceremony: a five-round protocol in which n parties jointly derive a
// secp256k1 keypair, each holding only a Shamir share of the private key.
package keygen

import (
	"crypto/rand"

	"github.com/j04n-f/mpc-waas/core/hash"
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/math/polynomial"
	"github.com/j04n-f/mpc-waas/core/math/sample"
	"github.com/j04n-f/mpc-waas/core/paillier"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pedersen"
	"github.com/j04n-f/mpc-waas/core/zk/schnorr"
	"github.com/j04n-f/mpc-waas/lib/round"
	"github.com/j04n-f/mpc-waas/lib/types"
)

var _ round.Round = (*round1)(nil)

// round1 is the first keygen round: no input messages, its Finalize
// samples every party's contribution (VSS polynomial, Paillier/Pedersen
// keys, RID/ChainKey, Schnorr randomizer) and commits to them.
type round1 struct {
	*round.Helper

	// PreviousSecretECDSA is nil for a fresh keygen; a non-nil value
	// (supplied by a future reshare operation) would be added to the
	// freshly sampled shares instead of replacing them.
	PreviousSecretECDSA curve.Scalar
}

type broadcast2 struct {
	round.NormalBroadcastContent
	Commitment hash.Commitment
}

// VerifyMessage implements round.Round.
func (round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round1) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
//
//   - sample RIDᵢ, chain key Cᵢ
//   - sample the degree-t VSS polynomial fᵢ(X) whose constant is this
//     party's ECDSA secret share
//   - generate Paillier and Pedersen keys
//   - sample a Schnorr randomizer for the final confirmation proof
//   - commit to everything and broadcast the commitment
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()

	var rid, chainKey types.RID
	if _, err := rand.Read(rid[:]); err != nil {
		return r, err
	}
	if _, err := rand.Read(chainKey[:]); err != nil {
		return r, err
	}

	ecdsaSecret := sample.Scalar(rand.Reader, group)
	vssSecret := polynomial.NewPolynomial(group, r.Threshold(), ecdsaSecret, func() curve.Scalar {
		return sample.Scalar(rand.Reader, group)
	})
	vssPublic := polynomial.NewPolynomialExponent(vssSecret)

	paillierSecret, paillierPublic, err := paillier.KeyGen()
	if err != nil {
		return r, err
	}
	pedersenSecret, pedersenPublic, err := pedersen.KeyGen(paillierPublic.N(), paillierSecret.Phi())
	if err != nil {
		return r, err
	}

	elgamalSecret := sample.Scalar(rand.Reader, group)
	elgamalPublic := elgamalSecret.ActOnBase()

	schnorrRand := schnorr.NewRandomizer(group)

	commitment, decommitment, err := r.Hash().Commit(
		rid, chainKey, vssPublic, elgamalPublic, paillierPublic, pedersenPublic,
		schnorrRand.Commitment(),
	)
	if err != nil {
		return r, err
	}

	if err := r.BroadcastMessage(out, &broadcast2{Commitment: commitment}); err != nil {
		return r, err
	}

	return &round2{
		round1:         r,
		RID:            rid,
		ChainKey:       chainKey,
		VSSSecret:      vssSecret,
		VSSPublic:      vssPublic,
		PaillierSecret: paillierSecret,
		PaillierPublic: map[party.ID]*paillier.PublicKey{r.SelfID(): paillierPublic},
		PedersenSecret: pedersenSecret,
		PedersenPublic: map[party.ID]*pedersen.Parameters{r.SelfID(): pedersenPublic},
		ElGamalSecret:  elgamalSecret,
		ElGamalPublic:  map[party.ID]curve.Point{r.SelfID(): elgamalPublic},
		SchnorrRand:    schnorrRand,
		Decommitment:   decommitment,
		Commitments:    make(map[party.ID]hash.Commitment),
	}, nil
}

func (r *round1) CanFinalize() bool { return true }

// MessageContent implements round.Round.
func (round1) MessageContent() round.Content { return nil }

// RoundNumber implements round.Content.
func (broadcast2) RoundNumber() round.Number { return 2 }

// BroadcastContent implements round.BroadcastRound.
func (round1) BroadcastContent() round.BroadcastContent { return &broadcast2{} }

// Number implements round.Round.
func (round1) Number() round.Number { return 1 }
