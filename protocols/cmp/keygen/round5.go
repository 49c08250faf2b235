package keygen

import (
	"errors"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/lib/round"
	"github.com/j04n-f/mpc-waas/protocols/cmp/config"
)

var _ round.Round = (*round5)(nil)

// round5 is the last keygen round: every party has already committed to
// (and revealed) the same final Config; all that remains is to confirm
// each party still knows its own ECDSA share before anyone trusts the
// ceremony's output.
type round5 struct {
	*round4

	Config       *config.Config
	PublicShares map[party.ID]curve.Point

	MessageBroadcasted map[party.ID]bool
}

// StoreBroadcastMessage implements round.BroadcastRound: verify the
// Schnorr confirmation proof from each peer against its public share.
func (r *round5) StoreBroadcastMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*broadcast5)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}

	h := r.Hash().Clone()
	_ = h.WriteAny(r.Config, from)
	if !body.SchnorrResponse.Verify(h, r.Group(), r.PublicShares[from], nil) {
		return errors.New("keygen: failed to validate schnorr confirmation proof")
	}

	r.MessageBroadcasted[from] = true
	return nil
}

// VerifyMessage implements round.Round.
func (round5) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round5) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round: every party's share is confirmed, so
// the ceremony's output is ready.
func (r *round5) Finalize(chan<- *round.Message) (round.Session, error) {
	if len(r.MessageBroadcasted) != r.N()-1 {
		return nil, round.ErrNotEnoughMessages
	}
	return r.ResultRound(r.Config), nil
}

func (r *round5) CanFinalize() bool { return len(r.MessageBroadcasted) == r.N()-1 }

// MessageContent implements round.Round.
func (round5) MessageContent() round.Content { return nil }

// BroadcastContent implements round.BroadcastRound.
func (round5) BroadcastContent() round.BroadcastContent { return &broadcast5{} }

// Number implements round.Round.
func (round5) Number() round.Number { return 5 }
