package sign

import (
	"errors"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/lib/round"
)

var _ round.Round = (*round3)(nil)

type round3 struct {
	*round2

	GroupCommitment curve.Point
	Challenge       curve.Scalar

	Zs                 map[party.ID]curve.Scalar
	MessageBroadcasted map[party.ID]bool
}

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round3) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast3)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	r.Zs[msg.From] = body.Z
	r.MessageBroadcasted[msg.From] = true
	return nil
}

func (round3) VerifyMessage(round.Message) error { return nil }
func (round3) StoreMessage(round.Message) error  { return nil }

// Finalize implements round.Round: sum every signer's response share
// into the aggregate signature and verify it before publishing, so a
// corrupted share aborts the ceremony instead of handing out an invalid
// signature.
func (r *round3) Finalize(chan<- *round.Message) (round.Session, error) {
	if len(r.MessageBroadcasted) != r.N()-1 {
		return nil, round.ErrNotEnoughMessages
	}

	z := r.Group().NewScalar()
	for _, j := range r.PartyIDs() {
		z = z.Add(r.Zs[j])
	}

	sig := &Signature{R: r.GroupCommitment, Z: z}
	if !sig.Verify(r.Group(), r.PublicKey, r.Message) {
		return r.AbortRound(errors.New("frost/sign: aggregated signature failed verification")), nil
	}

	return r.ResultRound(sig), nil
}

func (r *round3) CanFinalize() bool { return len(r.MessageBroadcasted) == r.N()-1 }

func (round3) MessageContent() round.Content { return nil }

func (round3) BroadcastContent() round.BroadcastContent { return &broadcast3{} }

func (round3) Number() round.Number { return 3 }
