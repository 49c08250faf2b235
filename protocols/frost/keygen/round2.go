package keygen

import (
	"errors"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/math/polynomial"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/zk/schnorr"
	"github.com/j04n-f/mpc-waas/lib/round"
)

var _ round.Round = (*round2)(nil)

type round2 struct {
	*round1

	VSSSecret *polynomial.Polynomial
	VSSPublic map[party.ID]*polynomial.Exponent
	Proofs    map[party.ID]*schnorr.Proof

	MessageBroadcasted map[party.ID]bool
}

// message3 carries this party's VSS share fᵢ(j) for recipient j, sent
// privately rather than broadcast.
type message3 struct {
	Share curve.Scalar
}

func (message3) RoundNumber() round.Number { return 3 }

// StoreBroadcastMessage implements round.BroadcastRound.
//
//   - check the VSS polynomial has the expected degree
//   - verify the sender's proof of knowledge of its polynomial's
//     constant term, binding the commitment to that specific sender
func (r *round2) StoreBroadcastMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*broadcast2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.VSSPublic.Degree() != r.Threshold() {
		return errors.New("frost/keygen: vss polynomial has incorrect degree")
	}
	if !body.Proof.Verify(r.HashForID(from), r.Group(), body.VSSPublic.Constant(), from) {
		return errors.New("frost/keygen: invalid proof of knowledge of polynomial constant")
	}

	r.VSSPublic[from] = body.VSSPublic
	r.Proofs[from] = body.Proof
	r.MessageBroadcasted[from] = true
	return nil
}

// VerifyMessage implements round.Round.
func (round2) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round2) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round: privately send every other party its
// VSS share fᵢ(j).
func (r *round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	if len(r.MessageBroadcasted) != r.N()-1 {
		return nil, round.ErrNotEnoughMessages
	}

	for _, j := range r.OtherPartyIDs() {
		share := r.VSSSecret.EvaluateForParty(j)
		if err := r.SendMessage(out, &message3{Share: share}, j); err != nil {
			return r, err
		}
	}

	return &round3{
		round2:            r,
		Shares:            map[party.ID]curve.Scalar{r.SelfID(): r.VSSSecret.EvaluateForParty(r.SelfID())},
		MessagesForwarded: make(map[party.ID]bool),
	}, nil
}

func (r *round2) CanFinalize() bool { return len(r.MessageBroadcasted) == r.N()-1 }

// MessageContent implements round.Round.
func (round2) MessageContent() round.Content { return nil }

// BroadcastContent implements round.BroadcastRound.
func (round2) BroadcastContent() round.BroadcastContent { return &broadcast2{} }

// Number implements round.Round.
func (round2) Number() round.Number { return 2 }
