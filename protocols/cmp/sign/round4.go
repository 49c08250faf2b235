package sign

import (
	"github.com/cronokirby/saferith"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/lib/round"
)

var _ round.Round = (*round4)(nil)

// round4 combines every party's revealed δⱼ into R, the ephemeral public
// nonce, then produces this party's signature share.
type round4 struct {
	*round3

	Gamma       curve.Point
	DeltaShares map[party.ID]curve.Scalar

	MessageBroadcasted map[party.ID]bool
}

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round4) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast4)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	r.DeltaShares[msg.From] = body.DeltaShare
	r.MessageBroadcasted[msg.From] = true
	return nil
}

// VerifyMessage implements round.Round.
func (round4) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round4) StoreMessage(round.Message) error { return nil }

func (r *round4) CanFinalize() bool { return len(r.MessageBroadcasted) == r.N()-1 }

// messageHashToScalar reduces a message digest to a scalar the same way
// standard ECDSA does, via bits2int mod the group order.
func messageHashToScalar(group curve.Curve, digest []byte) curve.Scalar {
	nat := new(saferith.Nat).SetBytes(digest)
	nat.Mod(group.Order())
	return group.NewScalar().SetNat(nat)
}

// Finalize implements round.Round.
//
//   - δ = Σⱼ δⱼ, R = [δ⁻¹]⋅Γ
//   - σᵢ = m⋅kᵢ + R|ₓ⋅χᵢ
//   - broadcast σᵢ so round5 can sum and verify the final signature
func (r *round4) Finalize(out chan<- *round.Message) (round.Session, error) {
	if !r.CanFinalize() {
		return nil, round.ErrNotEnoughMessages
	}

	delta := r.Group().NewScalar()
	for _, j := range r.PartyIDs() {
		delta = delta.Add(r.DeltaShares[j])
	}
	if delta.IsZero() {
		return r.AbortRound(round.ErrNilFields), nil
	}

	bigR := delta.Invert().Act(r.Gamma)
	rScalar := bigR.XScalar()

	m := messageHashToScalar(r.Group(), r.Message)
	sigma := m.Mul(r.KShare).Add(rScalar.Mul(r.ChiShare))

	if err := r.BroadcastMessage(out, &broadcast5{SigmaShare: sigma}); err != nil {
		return r, err
	}

	return &round5{
		round4:             r,
		SigmaShares:        map[party.ID]curve.Scalar{r.SelfID(): sigma},
		Delta:              delta,
		BigDelta:           delta.ActOnBase(),
		BigR:               bigR,
		R:                  rScalar,
		MessageBroadcasted: make(map[party.ID]bool),
	}, nil
}

// MessageContent implements round.Round.
func (round4) MessageContent() round.Content { return nil }

// BroadcastContent implements round.BroadcastRound.
func (round4) BroadcastContent() round.BroadcastContent { return &broadcast5{} }

// Number implements round.Round.
func (round4) Number() round.Number { return 4 }
