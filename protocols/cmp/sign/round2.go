package sign

import (
	"crypto/rand"

	"github.com/cronokirby/saferith"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/math/sample"
	"github.com/j04n-f/mpc-waas/core/paillier"
	"github.com/j04n-f/mpc-waas/core/party"
	zkaffp "github.com/j04n-f/mpc-waas/core/zk/affp"
	"github.com/j04n-f/mpc-waas/lib/round"
	zkenc "github.com/j04n-f/mpc-waas/pkg/zk/enc"
)

var _ round.Round = (*round2)(nil)

type round2 struct {
	*round1

	K, G          map[party.ID]*paillier.Ciphertext
	BigGammaShare map[party.ID]curve.Point

	GammaShare *saferith.Int
	KShare     curve.Scalar
	KNonce     *saferith.Nat
	GNonce     *saferith.Nat

	MessageBroadcasted map[party.ID]bool
	MessageP2P         map[party.ID]bool
}

type broadcast3 struct {
	round.NormalBroadcastContent
	BigGammaShare curve.Point
}

// message3 carries this party's MtA contributions to a single peer: its
// affine share of kⱼγᵢ (Delta) and of kⱼxᵢ (Chi), each proven via Π^aff-g.
type message3 struct {
	DeltaD     *paillier.Ciphertext
	DeltaF     *paillier.Ciphertext
	DeltaProof *zkaffp.Proof

	ChiD     *paillier.Ciphertext
	ChiF     *paillier.Ciphertext
	ChiX     *paillier.Ciphertext
	ChiProof *zkaffp.Proof
}

// RoundNumber implements round.Content.
func (broadcast3) RoundNumber() round.Number { return 3 }

// RoundNumber implements round.Content.
func (message3) RoundNumber() round.Number { return 3 }

// StoreBroadcastMessage implements round.BroadcastRound: store each
// peer's Kⱼ and Gⱼ. The zkenc proof for Kⱼ arrives as a direct message and
// is checked in VerifyMessage.
func (r *round2) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	r.K[msg.From] = body.K
	r.G[msg.From] = body.G
	r.MessageBroadcasted[msg.From] = true
	return nil
}

// VerifyMessage implements round.Round.
func (r *round2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	from := msg.From
	if r.K[from] == nil {
		return round.ErrInvalidContent
	}
	if !zkenc.Verify(body.ProofEnc, r.Group(), r.HashForID(from), zkenc.Public{
		K:      r.K[from],
		Prover: r.Paillier[from],
		Aux:    r.Pedersen[r.SelfID()],
	}) {
		return round.ErrInvalidContent
	}
	return nil
}

// StoreMessage implements round.Round.
func (r *round2) StoreMessage(msg round.Message) error {
	if r.MessageP2P == nil {
		r.MessageP2P = make(map[party.ID]bool)
	}
	r.MessageP2P[msg.From] = true
	return nil
}

func (r *round2) CanFinalize() bool {
	return len(r.MessageBroadcasted) == r.N()-1 && len(r.MessageP2P) == r.N()-1
}

// mtaEncode homomorphically computes D = a⊙Kv ⊕ Encv(beta), the affine
// ciphertext an MtA prover sends a verifier, together with the nonce used
// for Encv(beta) (needed later for the aff-g proof).
func mtaEncode(pkVerifier *paillier.PublicKey, Kv *paillier.Ciphertext, a, beta *saferith.Int) (*paillier.Ciphertext, *saferith.Nat) {
	D := Kv.Clone().Mul(pkVerifier, a)
	encBeta, nonce := pkVerifier.Enc(beta)
	D = D.Add(pkVerifier, encBeta)
	return D, nonce
}

func intToScalarSign(group curve.Curve, i *saferith.Int) curve.Scalar {
	b, _ := i.MarshalBinary()
	nat := new(saferith.Nat).SetBytes(b)
	s := group.NewScalar().SetNat(nat)
	if i.IsNegative() {
		s = s.Negate()
	}
	return s
}

// Finalize implements round.Round.
//
//   - broadcast Γᵢ = [γᵢ]⋅G
//   - for every peer j, run two MtA exchanges (one for kⱼγᵢ, one for
//     kⱼxᵢ) so the final signature can be computed without anyone
//     decrypting another party's kⱼ
func (r *round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	if !r.CanFinalize() {
		return nil, round.ErrNotEnoughMessages
	}
	group := r.Group()

	if err := r.BroadcastMessage(out, &broadcast3{BigGammaShare: r.BigGammaShare[r.SelfID()]}); err != nil {
		return r, err
	}

	gammaScalar := intToScalarSign(group, r.GammaShare)
	xCipher, xNonce := r.Paillier[r.SelfID()].Enc(curve.MakeInt(r.SecretECDSA))

	deltaShare := r.KShare.Mul(gammaScalar)
	chiShare := r.KShare.Mul(r.SecretECDSA)

	for _, j := range r.OtherPartyIDs() {
		betaDelta := sample.IntervalLEps(rand.Reader)
		betaChi := sample.IntervalLEps(rand.Reader)

		deltaD, deltaNonce := mtaEncode(r.Paillier[j], r.K[j], r.GammaShare, betaDelta)
		deltaF, deltaFNonce := r.Paillier[r.SelfID()].Enc(betaDelta)
		deltaProof := zkaffp.NewProof(group, r.HashForID(r.SelfID()), zkaffp.Public{
			Kv: r.K[j], Dv: deltaD, Fp: deltaF, Xp: r.G[r.SelfID()],
			Prover: r.Paillier[r.SelfID()], Verifier: r.Paillier[j], Aux: r.Pedersen[j],
		}, zkaffp.Private{
			X: r.GammaShare, Y: betaDelta, S: deltaNonce, Rx: r.GNonce, R: deltaFNonce,
		})

		chiD, chiNonce := mtaEncode(r.Paillier[j], r.K[j], curve.MakeInt(r.SecretECDSA), betaChi)
		chiF, chiFNonce := r.Paillier[r.SelfID()].Enc(betaChi)
		chiProof := zkaffp.NewProof(group, r.HashForID(r.SelfID()), zkaffp.Public{
			Kv: r.K[j], Dv: chiD, Fp: chiF, Xp: xCipher,
			Prover: r.Paillier[r.SelfID()], Verifier: r.Paillier[j], Aux: r.Pedersen[j],
		}, zkaffp.Private{
			X: curve.MakeInt(r.SecretECDSA), Y: betaChi, S: chiNonce, Rx: xNonce, R: chiFNonce,
		})

		if err := r.SendMessage(out, &message3{
			DeltaD: deltaD, DeltaF: deltaF, DeltaProof: deltaProof,
			ChiD: chiD, ChiF: chiF, ChiX: xCipher, ChiProof: chiProof,
		}, j); err != nil {
			return r, err
		}

		deltaShare = deltaShare.Sub(intToScalarSign(group, betaDelta))
		chiShare = chiShare.Sub(intToScalarSign(group, betaChi))
	}

	return &round3{
		round2:             r,
		DeltaShare:         deltaShare,
		ChiShare:           chiShare,
		MessageBroadcasted: make(map[party.ID]bool),
		MessageP2P:         make(map[party.ID]bool),
	}, nil
}

// MessageContent implements round.Round.
func (round2) MessageContent() round.Content { return &message2{} }

// BroadcastContent implements round.BroadcastRound.
func (round2) BroadcastContent() round.BroadcastContent { return &broadcast3{} }

// Number implements round.Round.
func (round2) Number() round.Number { return 2 }
