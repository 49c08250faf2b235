// Package keygen implements FROST's Pedersen DKG: a three-round protocol
// in which n parties jointly derive a secp256k1 keypair via verifiable
// secret sharing, each proving knowledge of its polynomial's constant
// term up front to block a rogue-key attack. It produces the same
// protocols/cmp/config.Config type CGGMP21's keygen does (minus the
// Paillier/Pedersen auxiliary material FROST signing never needs), so
// the rest of the service — vault sealing, wallet records — is
// protocol-agnostic.
package keygen

import (
	"crypto/rand"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/math/polynomial"
	"github.com/j04n-f/mpc-waas/core/math/sample"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/zk/schnorr"
	"github.com/j04n-f/mpc-waas/lib/round"
)

var _ round.Round = (*round1)(nil)

// round1 has no input messages; its Finalize samples this party's VSS
// polynomial and a Schnorr proof of knowledge of its constant term.
type round1 struct {
	*round.Helper
}

type broadcast2 struct {
	round.NormalBroadcastContent
	VSSPublic *polynomial.Exponent
	Proof     *schnorr.Proof
}

func (broadcast2) RoundNumber() round.Number { return 2 }

func (round1) VerifyMessage(round.Message) error { return nil }
func (round1) StoreMessage(round.Message) error  { return nil }

// Finalize implements round.Round.
//
//   - sample the degree-t VSS polynomial fᵢ(X) whose constant term is
//     this party's contribution to the joint ECDSA secret
//   - prove knowledge of fᵢ(0) bound to this party's ID, so a party
//     cannot choose its contribution as a function of others' public
//     shares (the classic rogue-key attack on naive threshold Schnorr)
//   - broadcast the polynomial's exponent commitments and the proof
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()

	secret := sample.Scalar(rand.Reader, group)
	vssSecret := polynomial.NewPolynomial(group, r.Threshold(), secret, func() curve.Scalar {
		return sample.Scalar(rand.Reader, group)
	})
	vssPublic := polynomial.NewPolynomialExponent(vssSecret)

	randomizer := schnorr.NewRandomizer(group)
	proof := randomizer.Prove(r.HashForID(r.SelfID()), vssPublic.Constant(), secret, r.SelfID())

	if err := r.BroadcastMessage(out, &broadcast2{VSSPublic: vssPublic, Proof: proof}); err != nil {
		return r, err
	}

	return &round2{
		round1:             r,
		VSSSecret:          vssSecret,
		VSSPublic:          map[party.ID]*polynomial.Exponent{r.SelfID(): vssPublic},
		Proofs:             map[party.ID]*schnorr.Proof{r.SelfID(): proof},
		MessageBroadcasted: make(map[party.ID]bool),
	}, nil
}

func (r *round1) CanFinalize() bool { return true }

func (round1) MessageContent() round.Content { return nil }

func (round1) BroadcastContent() round.BroadcastContent { return &broadcast2{} }

func (round1) Number() round.Number { return 1 }
