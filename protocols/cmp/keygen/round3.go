package keygen

import (
	"errors"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/math/polynomial"
	"github.com/j04n-f/mpc-waas/core/paillier"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pedersen"
	zkfac "github.com/j04n-f/mpc-waas/core/zk/fac"
	zkmod "github.com/j04n-f/mpc-waas/core/zk/mod"
	"github.com/j04n-f/mpc-waas/lib/round"
	"github.com/j04n-f/mpc-waas/lib/types"
)

var _ round.Round = (*round3)(nil)

type round3 struct {
	*round2

	RIDs      map[party.ID]types.RID
	ChainKeys map[party.ID]types.RID
	VSSPublic map[party.ID]*polynomial.Exponent
	Schnorr   map[party.ID]curve.Point

	MessageBroadcasted map[party.ID]bool
}

type message4 struct {
	// Share = Encⱼ(fᵢ(j)), encrypted under the recipient's Paillier key.
	Share *paillier.Ciphertext
	Fac   *zkfac.Proof
}

type broadcast4 struct {
	round.NormalBroadcastContent
	Mod *zkmod.Proof
	Prm *pedersen.Proof
}

// StoreBroadcastMessage implements round.BroadcastRound.
//
//   - check the VSS polynomial has the expected degree
//   - check RID/ChainKey are well-formed
//   - verify the commitment broadcast in round1 opens to this message
func (r *round3) StoreBroadcastMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*broadcast3)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if err := body.RID.Validate(); err != nil {
		return err
	}
	if err := body.ChainKey.Validate(); err != nil {
		return err
	}
	if err := body.Decommitment.Validate(); err != nil {
		return err
	}
	if body.VSSPublic.Degree() != r.Threshold() {
		return errors.New("keygen: vss polynomial has incorrect degree")
	}

	commitment, ok := r.Commitments[from]
	if !ok {
		return errors.New("keygen: no commitment stored for party")
	}
	if !r.Hash().Clone().Decommit(
		commitment, body.Decommitment,
		body.RID, body.ChainKey, body.VSSPublic, body.ElGamalPublic,
		body.PaillierPublic, body.PedersenPublic, body.SchnorrCommitment,
	) {
		return errors.New("keygen: failed to decommit round1 broadcast")
	}

	if r.RIDs == nil {
		r.RIDs = make(map[party.ID]types.RID)
		r.ChainKeys = make(map[party.ID]types.RID)
		r.VSSPublic = make(map[party.ID]*polynomial.Exponent)
		r.Schnorr = make(map[party.ID]curve.Point)
	}
	r.RIDs[from] = body.RID
	r.ChainKeys[from] = body.ChainKey
	r.VSSPublic[from] = body.VSSPublic
	r.Schnorr[from] = body.SchnorrCommitment
	r.PaillierPublic[from] = body.PaillierPublic
	r.PedersenPublic[from] = body.PedersenPublic
	r.ElGamalPublic[from] = body.ElGamalPublic

	r.MessageBroadcasted[from] = true
	return nil
}

// VerifyMessage implements round.Round.
func (round3) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round3) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
//
//   - combine every RID/ChainKey contribution via XOR
//   - broadcast a zkmod proof for N and a zkprm proof for (s,t)
//   - encrypt and send each peer their VSS share, with a zkfac proof of
//     this party's Paillier modulus
func (r *round3) Finalize(out chan<- *round.Message) (round.Session, error) {
	if len(r.MessageBroadcasted) != r.N()-1 {
		return nil, round.ErrNotEnoughMessages
	}

	rid := types.EmptyRID()
	chainKey := types.EmptyRID()
	for _, j := range r.PartyIDs() {
		if j == r.SelfID() {
			rid.XOR(r.RID)
			chainKey.XOR(r.ChainKey)
			continue
		}
		rid.XOR(r.RIDs[j])
		chainKey.XOR(r.ChainKeys[j])
	}

	h := r.Hash().Clone()
	_ = h.WriteAny(rid, r.SelfID())

	mod := r.PaillierSecret.NewZKModProof(h.Clone(), r.Pool)
	prm := r.PedersenSecret.NewProof(h.Clone(), r.Pool)

	if err := r.BroadcastMessage(out, &broadcast4{Mod: mod, Prm: prm}); err != nil {
		return r, err
	}

	for _, j := range r.OtherPartyIDs() {
		share := r.VSSSecret.EvaluateForParty(j)
		ct, _ := r.PaillierPublic[j].Encode(curve.MakeInt(share))
		fac := r.PaillierSecret.NewZKFACProof(h.Clone(), zkfac.Public{
			N:   r.PaillierPublic[r.SelfID()].ParamN(),
			Aux: r.PedersenPublic[j],
		})
		if err := r.SendMessage(out, &message4{Share: ct, Fac: fac}, j); err != nil {
			return r, err
		}
	}

	r.UpdateHashState(rid)
	return &round4{
		round3:             r,
		RID:                rid,
		ChainKey:           chainKey,
		MessageBroadcasted: make(map[party.ID]bool),
		MessagesForwarded:  make(map[party.ID]bool),
		Shares:             make(map[party.ID]curve.Scalar),
	}, nil
}

func (r *round3) CanFinalize() bool { return len(r.MessageBroadcasted) == r.N()-1 }

// MessageContent implements round.Round.
func (round3) MessageContent() round.Content { return nil }

// RoundNumber implements round.Content.
func (message4) RoundNumber() round.Number { return 4 }

// RoundNumber implements round.Content.
func (broadcast4) RoundNumber() round.Number { return 4 }

// BroadcastContent implements round.BroadcastRound.
func (round3) BroadcastContent() round.BroadcastContent { return &broadcast4{} }

// Number implements round.Round.
func (round3) Number() round.Number { return 3 }
