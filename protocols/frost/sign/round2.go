package sign

import (
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/lib/round"
)

var _ round.Round = (*round2)(nil)

type round2 struct {
	*round1

	NonceD curve.Scalar
	NonceE curve.Scalar

	Commitments        map[party.ID]commitment
	MessageBroadcasted map[party.ID]bool
}

type broadcast3 struct {
	round.NormalBroadcastContent
	Z curve.Scalar
}

func (broadcast3) RoundNumber() round.Number { return 3 }

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round2) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	r.Commitments[msg.From] = body.Commitment
	r.MessageBroadcasted[msg.From] = true
	return nil
}

func (round2) VerifyMessage(round.Message) error { return nil }
func (round2) StoreMessage(round.Message) error  { return nil }

// bindingFactor derives signer's per-signature binding factor ρ, binding
// its nonce commitments to the message and every other signer's
// commitments so a malicious signer can't reuse a commitment across
// signatures or influence another signer's share of R.
func (r *round2) bindingFactor(signer party.ID) curve.Scalar {
	h := r.Hash().Clone()
	_ = h.WriteAny(signer, r.Message)
	for _, j := range r.PartyIDs() {
		com := r.Commitments[j]
		_ = h.WriteAny(j, com.D, com.E)
	}
	return hashToScalar(h, r.Group())
}

// Finalize implements round.Round.
//
//   - derive every signer's binding factor ρ_j and sum D_j + ρ_j·E_j
//     into the group commitment R
//   - derive the Schnorr challenge c = H(R, Y, message)
//   - contribute this signer's share z = d + e·ρ + λ·x·c, where λ is
//     this signer's Lagrange coefficient within the signer set
func (r *round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	if len(r.MessageBroadcasted) != r.N()-1 {
		return nil, round.ErrNotEnoughMessages
	}

	group := r.Group()
	groupCommitment := group.NewPoint()
	for _, j := range r.PartyIDs() {
		com := r.Commitments[j]
		rho := r.bindingFactor(j)
		groupCommitment = groupCommitment.Add(com.D.Add(rho.Act(com.E)))
	}

	challenge := hashToScalar(newChallengeHash(groupCommitment, r.PublicKey, r.Message), group)

	rho := r.bindingFactor(r.SelfID())
	lambda := lagrangeCoefficient(group, r.PartyIDs(), r.SelfID())
	z := r.NonceD.Add(r.NonceE.Mul(rho)).Add(lambda.Mul(r.SecretECDSA).Mul(challenge))

	if err := r.BroadcastMessage(out, &broadcast3{Z: z}); err != nil {
		return r, err
	}

	return &round3{
		round2:             r,
		GroupCommitment:    groupCommitment,
		Challenge:          challenge,
		Zs:                 map[party.ID]curve.Scalar{r.SelfID(): z},
		MessageBroadcasted: make(map[party.ID]bool),
	}, nil
}

func (r *round2) CanFinalize() bool { return len(r.MessageBroadcasted) == r.N()-1 }

func (round2) MessageContent() round.Content { return nil }

func (round2) BroadcastContent() round.BroadcastContent { return &broadcast3{} }

func (round2) Number() round.Number { return 2 }
