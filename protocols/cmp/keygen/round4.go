package keygen

import (
	"errors"

	"github.com/cronokirby/saferith"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/math/polynomial"
	"github.com/j04n-f/mpc-waas/core/zk/schnorr"
	zkfac "github.com/j04n-f/mpc-waas/core/zk/fac"
	zkmod "github.com/j04n-f/mpc-waas/core/zk/mod"
	"github.com/j04n-f/mpc-waas/lib/round"
	"github.com/j04n-f/mpc-waas/lib/types"
	"github.com/j04n-f/mpc-waas/protocols/cmp/config"

	"github.com/j04n-f/mpc-waas/core/party"
)

// broadcast5 is round5's expected input: a Schnorr proof of knowledge of
// this party's final ECDSA share, binding the confirmation to the
// completed config.
type broadcast5 struct {
	round.NormalBroadcastContent
	SchnorrResponse *schnorr.Proof
}

// RoundNumber implements round.Content.
func (broadcast5) RoundNumber() round.Number { return 5 }

var _ round.Round = (*round4)(nil)

type round4 struct {
	*round3

	RID      types.RID
	ChainKey types.RID

	// Shares[j] is the VSS share this party received from j, once
	// decrypted and verified.
	Shares map[party.ID]curve.Scalar

	MessageBroadcasted map[party.ID]bool
	MessagesForwarded  map[party.ID]bool
}

// StoreBroadcastMessage implements round.BroadcastRound: verify the
// zkmod and zkprm proofs each party attached to its own Paillier/Pedersen
// parameters.
func (r *round4) StoreBroadcastMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*broadcast4)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}

	if !zkmod.VerifyZKMod(body.Mod, r.HashForID(from), r.Pool) {
		return errors.New("keygen: failed to validate mod proof")
	}
	if !r.PedersenPublic[from].VerifyProof(r.HashForID(from), r.Pool, body.Prm) {
		return errors.New("keygen: failed to validate prm proof")
	}

	r.MessageBroadcasted[from] = true
	return nil
}

// VerifyMessage implements round.Round: check the share ciphertext is
// well-formed and the zkfac proof it carries is valid.
func (r *round4) VerifyMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*message4)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}

	self := r.PaillierPublic[r.SelfID()]
	if !self.ValidateCiphertexts(body.Share) {
		return errors.New("keygen: invalid share ciphertext")
	}

	if !r.PaillierSecret.VerifyZKFAC(body.Fac, zkfac.Public{
		N:   r.PaillierPublic[from].ParamN(),
		Aux: r.PedersenPublic[r.SelfID()],
	}, r.HashForID(from)) {
		return errors.New("keygen: failed to validate fac proof")
	}
	return nil
}

// StoreMessage implements round.Round: decrypt the share and check it
// against the sender's published VSS commitment.
func (r *round4) StoreMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*message4)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}

	decrypted, err := r.PaillierSecret.Decode(body.Share)
	if err != nil {
		return err
	}
	share := intToScalar(r.Group(), decrypted)

	expected := r.VSSPublic[from].EvaluateForParty(r.SelfID())
	if !share.ActOnBase().Equal(expected) {
		return errors.New("keygen: share failed VSS verification")
	}

	r.Shares[from] = share
	r.MessagesForwarded[from] = true
	return nil
}

// Finalize implements round.Round.
//
//   - sum every received share into this party's final ECDSA secret
//   - sum every party's VSS polynomial into the joint public polynomial
//   - broadcast a Schnorr proof of knowledge of the new secret share
func (r *round4) Finalize(out chan<- *round.Message) (round.Session, error) {
	if len(r.MessageBroadcasted) != r.N()-1 || len(r.MessagesForwarded) != r.N()-1 {
		return nil, round.ErrNotEnoughMessages
	}

	secret := r.Group().NewScalar()
	if r.PreviousSecretECDSA != nil {
		secret.Set(r.PreviousSecretECDSA)
	}
	secret = secret.Add(r.VSSSecret.EvaluateForParty(r.SelfID()))
	for _, j := range r.OtherPartyIDs() {
		secret = secret.Add(r.Shares[j])
	}

	polys := make([]*polynomial.Exponent, 0, r.N())
	for _, j := range r.PartyIDs() {
		if j == r.SelfID() {
			polys = append(polys, r.VSSPublic[r.SelfID()])
			continue
		}
		polys = append(polys, r.VSSPublic[j])
	}
	jointPoly, err := polynomial.Sum(polys)
	if err != nil {
		return r, err
	}

	publicShares := make(map[party.ID]curve.Point, r.N())
	for _, j := range r.PartyIDs() {
		publicShares[j] = jointPoly.EvaluateForParty(j)
	}

	cfg := &config.Config{
		Group:          r.Group(),
		ID:             r.SelfID(),
		Threshold:      r.Threshold(),
		ECDSA:          secret,
		SecretPaillier: r.PaillierSecret,
		RID:            r.RID,
		ChainKey:    r.ChainKey,
		PublicPoint: jointPoly.Constant(),
		Public:      make(map[party.ID]*config.Public, r.N()),
	}
	for _, j := range r.PartyIDs() {
		cfg.Public[j] = &config.Public{
			ECDSA:    publicShares[j],
			ElGamal:  r.ElGamalPublic[j],
			Paillier: r.PaillierPublic[j],
			Pedersen: r.PedersenPublic[j],
		}
	}

	h := r.Hash().Clone()
	_ = h.WriteAny(cfg, r.SelfID())
	proof := r.SchnorrRand.Prove(h, publicShares[r.SelfID()], secret, nil)

	if err := r.BroadcastMessage(out, &broadcast5{SchnorrResponse: proof}); err != nil {
		return r, err
	}

	r.UpdateHashState(cfg)
	return &round5{
		round4:             r,
		Config:             cfg,
		PublicShares:       publicShares,
		MessageBroadcasted: make(map[party.ID]bool),
	}, nil
}

func (r *round4) CanFinalize() bool {
	return len(r.MessageBroadcasted) == r.N()-1 && len(r.MessagesForwarded) == r.N()-1
}

// intToScalar reduces a signed saferith.Int (a decrypted VSS share) into a
// curve scalar, preserving sign since paillier.SecretKey.Decode returns the
// signed representative in (-N/2, N/2].
func intToScalar(group curve.Curve, i *saferith.Int) curve.Scalar {
	b, _ := i.MarshalBinary()
	nat := new(saferith.Nat).SetBytes(b)
	s := group.NewScalar().SetNat(nat)
	if i.IsNegative() {
		s = s.Negate()
	}
	return s
}

// MessageContent implements round.Round.
func (round4) MessageContent() round.Content { return &message4{} }

// BroadcastContent implements round.BroadcastRound.
func (round4) BroadcastContent() round.BroadcastContent { return &broadcast5{} }

// Number implements round.Round.
func (round4) Number() round.Number { return 4 }
