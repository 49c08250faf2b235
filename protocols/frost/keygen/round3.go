package keygen

import (
	"errors"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/math/polynomial"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/lib/round"
	"github.com/j04n-f/mpc-waas/protocols/cmp/config"
)

var _ round.Round = (*round3)(nil)

type round3 struct {
	*round2

	// Shares[j] is the VSS share this party received from j.
	Shares map[party.ID]curve.Scalar

	MessagesForwarded map[party.ID]bool
}

// VerifyMessage implements round.Round: check the received share against
// the sender's published VSS commitment.
func (r *round3) VerifyMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*message3)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}

	expected := r.VSSPublic[from].EvaluateForParty(r.SelfID())
	if !body.Share.ActOnBase().Equal(expected) {
		return errors.New("frost/keygen: share failed VSS verification")
	}
	return nil
}

// StoreMessage implements round.Round.
func (r *round3) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message3)
	r.Shares[msg.From] = body.Share
	r.MessagesForwarded[msg.From] = true
	return nil
}

// Finalize implements round.Round.
//
//   - sum every received share into this party's final ECDSA secret
//   - sum every party's VSS polynomial into the joint public polynomial
//   - produce a protocols/cmp/config.Config carrying only the ECDSA
//     material FROST signing needs; the Paillier/Pedersen/ElGamal
//     fields stay nil, since nothing in this protocol populates them
func (r *round3) Finalize(chan<- *round.Message) (round.Session, error) {
	if len(r.MessagesForwarded) != r.N()-1 {
		return nil, round.ErrNotEnoughMessages
	}

	secret := r.Shares[r.SelfID()]
	for _, j := range r.OtherPartyIDs() {
		secret = secret.Add(r.Shares[j])
	}

	polys := make([]*polynomial.Exponent, 0, r.N())
	for _, j := range r.PartyIDs() {
		polys = append(polys, r.VSSPublic[j])
	}
	jointPoly, err := polynomial.Sum(polys)
	if err != nil {
		return r, err
	}

	cfg := &config.Config{
		Group:       r.Group(),
		ID:          r.SelfID(),
		Threshold:   r.Threshold(),
		ECDSA:       secret,
		PublicPoint: jointPoly.Constant(),
		Public:      make(map[party.ID]*config.Public, r.N()),
	}
	for _, j := range r.PartyIDs() {
		cfg.Public[j] = &config.Public{ECDSA: jointPoly.EvaluateForParty(j)}
	}

	return r.ResultRound(cfg), nil
}

func (r *round3) CanFinalize() bool { return len(r.MessagesForwarded) == r.N()-1 }

// MessageContent implements round.Round.
func (round3) MessageContent() round.Content { return &message3{} }

// Number implements round.Round.
func (round3) Number() round.Number { return 3 }
