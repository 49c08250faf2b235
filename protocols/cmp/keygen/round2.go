package keygen

import (
	"github.com/j04n-f/mpc-waas/core/hash"
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/math/polynomial"
	"github.com/j04n-f/mpc-waas/core/paillier"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pedersen"
	"github.com/j04n-f/mpc-waas/core/zk/schnorr"
	"github.com/j04n-f/mpc-waas/lib/round"
	"github.com/j04n-f/mpc-waas/lib/types"
)

var _ round.Round = (*round2)(nil)

type round2 struct {
	*round1

	RID      types.RID
	ChainKey types.RID

	VSSSecret *polynomial.Polynomial
	VSSPublic *polynomial.Exponent

	PaillierSecret *paillier.SecretKey
	PaillierPublic map[party.ID]*paillier.PublicKey

	PedersenSecret *pedersen.SecretKey
	PedersenPublic map[party.ID]*pedersen.Parameters

	ElGamalSecret curve.Scalar
	ElGamalPublic map[party.ID]curve.Point

	SchnorrRand  *schnorr.Randomizer
	Decommitment hash.Decommitment

	Commitments        map[party.ID]hash.Commitment
	MessageBroadcasted map[party.ID]bool
}

type broadcast3 struct {
	round.NormalBroadcastContent
	RID               types.RID
	ChainKey          types.RID
	VSSPublic         *polynomial.Exponent
	SchnorrCommitment curve.Point
	ElGamalPublic     curve.Point
	PaillierPublic    *paillier.PublicKey
	PedersenPublic    *pedersen.Parameters
	Decommitment      hash.Decommitment
}

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round2) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if r.Commitments == nil {
		r.Commitments = make(map[party.ID]hash.Commitment)
	}
	r.Commitments[msg.From] = body.Commitment
	if r.MessageBroadcasted == nil {
		r.MessageBroadcasted = make(map[party.ID]bool)
	}
	r.MessageBroadcasted[msg.From] = true
	return nil
}

// VerifyMessage implements round.Round.
func (round2) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round2) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round: reveals this party's RID, keys and VSS
// commitment alongside the decommitment, so every other party can check
// it against the commitment it stored in round1.
func (r *round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	if len(r.MessageBroadcasted) != r.N()-1 {
		return nil, round.ErrNotEnoughMessages
	}

	if err := r.BroadcastMessage(out, &broadcast3{
		RID:               r.RID,
		ChainKey:          r.ChainKey,
		VSSPublic:         r.VSSPublic,
		SchnorrCommitment: r.SchnorrRand.Commitment(),
		ElGamalPublic:     r.ElGamalPublic[r.SelfID()],
		PaillierPublic:    r.PaillierPublic[r.SelfID()],
		PedersenPublic:    r.PedersenPublic[r.SelfID()],
		Decommitment:      r.Decommitment,
	}); err != nil {
		return r, err
	}

	return &round3{
		round2:             r,
		MessageBroadcasted: make(map[party.ID]bool),
	}, nil
}

func (r *round2) CanFinalize() bool { return len(r.MessageBroadcasted) == r.N()-1 }

// MessageContent implements round.Round.
func (round2) MessageContent() round.Content { return nil }

// RoundNumber implements round.Content.
func (broadcast3) RoundNumber() round.Number { return 3 }

// BroadcastContent implements round.BroadcastRound.
func (r *round2) BroadcastContent() round.BroadcastContent {
	return &broadcast3{
		VSSPublic:         polynomial.NewPolynomialExponent(r.VSSSecret),
		SchnorrCommitment: r.Group().NewPoint(),
		ElGamalPublic:     r.Group().NewPoint(),
	}
}

// Number implements round.Round.
func (round2) Number() round.Number { return 2 }
