package sign

import (
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
	zkaffp "github.com/j04n-f/mpc-waas/core/zk/affp"
	"github.com/j04n-f/mpc-waas/lib/round"
)

var _ round.Round = (*round3)(nil)

// round3 collects every peer's Γⱼ and MtA contribution, completing this
// party's additive shares of δ = kγ and χ = kx.
type round3 struct {
	*round2

	DeltaShare curve.Scalar
	ChiShare   curve.Scalar

	MessageBroadcasted map[party.ID]bool
	MessageP2P         map[party.ID]bool
}

type broadcast4 struct {
	round.NormalBroadcastContent
	DeltaShare curve.Scalar
}

// RoundNumber implements round.Content.
func (broadcast4) RoundNumber() round.Number { return 4 }

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round3) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast3)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	r.BigGammaShare[msg.From] = body.BigGammaShare
	r.MessageBroadcasted[msg.From] = true
	return nil
}

// VerifyMessage implements round.Round: check both MtA affine proofs
// a peer sent, proving its D ciphertexts (decryptable only by this
// party) are well-formed affine transforms of this party's Kᵢ.
func (r *round3) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message3)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	from := msg.From
	self := r.SelfID()

	if !body.DeltaProof.Verify(r.Group(), r.HashForID(from), zkaffp.Public{
		Kv: r.K[self], Dv: body.DeltaD, Fp: body.DeltaF, Xp: r.G[from],
		Prover: r.Paillier[from], Verifier: r.Paillier[self], Aux: r.Pedersen[self],
	}) {
		return round.ErrInvalidContent
	}

	if !body.ChiProof.Verify(r.Group(), r.HashForID(from), zkaffp.Public{
		Kv: r.K[self], Dv: body.ChiD, Fp: body.ChiF, Xp: body.ChiX,
		Prover: r.Paillier[from], Verifier: r.Paillier[self], Aux: r.Pedersen[self],
	}) {
		return round.ErrInvalidContent
	}

	return nil
}

// StoreMessage implements round.Round: decrypt the two MtA ciphertexts
// this peer sent and fold them into this party's running δ/χ shares.
func (r *round3) StoreMessage(msg round.Message) error {
	body, ok := msg.Content.(*message3)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	from := msg.From

	deltaPlain, err := r.SecretPaillier.Decode(body.DeltaD)
	if err != nil {
		return err
	}
	chiPlain, err := r.SecretPaillier.Decode(body.ChiD)
	if err != nil {
		return err
	}

	r.DeltaShare = r.DeltaShare.Add(intToScalarSign(r.Group(), deltaPlain))
	r.ChiShare = r.ChiShare.Add(intToScalarSign(r.Group(), chiPlain))

	if r.MessageP2P == nil {
		r.MessageP2P = make(map[party.ID]bool)
	}
	r.MessageP2P[from] = true
	return nil
}

func (r *round3) CanFinalize() bool {
	return len(r.MessageBroadcasted) == r.N()-1 && len(r.MessageP2P) == r.N()-1
}

// Finalize implements round.Round: reveal δᵢ, the only non-secret
// intermediate in the protocol (it is needed to jointly recompute R).
func (r *round3) Finalize(out chan<- *round.Message) (round.Session, error) {
	if !r.CanFinalize() {
		return nil, round.ErrNotEnoughMessages
	}

	gamma := r.Group().NewPoint()
	for _, j := range r.PartyIDs() {
		gamma = gamma.Add(r.BigGammaShare[j])
	}

	if err := r.BroadcastMessage(out, &broadcast4{DeltaShare: r.DeltaShare}); err != nil {
		return r, err
	}

	return &round4{
		round3:             r,
		Gamma:              gamma,
		DeltaShares:        map[party.ID]curve.Scalar{r.SelfID(): r.DeltaShare},
		MessageBroadcasted: make(map[party.ID]bool),
	}, nil
}

// MessageContent implements round.Round.
func (round3) MessageContent() round.Content { return &message3{} }

// BroadcastContent implements round.BroadcastRound.
func (round3) BroadcastContent() round.BroadcastContent { return &broadcast4{} }

// Number implements round.Round.
func (round3) Number() round.Number { return 3 }
