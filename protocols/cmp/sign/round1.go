// Package sign implements CGGMP21's interactive threshold-signing
// protocol: t+1 parties holding Shamir shares of an ECDSA key jointly
// produce a standard, publicly verifiable (r,s) signature, via an MtA
// share conversion over Paillier ciphertexts so no party's additive
// share of k or γ is ever exposed.
package sign

import (
	"crypto/rand"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/math/sample"
	"github.com/j04n-f/mpc-waas/core/paillier"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pedersen"
	"github.com/j04n-f/mpc-waas/lib/round"
	zkenc "github.com/j04n-f/mpc-waas/pkg/zk/enc"
)

var _ round.Round = (*round1)(nil)

// round1 is signing's first round: every party commits to an ephemeral
// nonce share kᵢ and mask γᵢ, Paillier-encrypted under its own key so the
// MtA exchange in round2 can operate on them without decryption.
type round1 struct {
	*round.Helper

	PublicKey curve.Point

	SecretECDSA    curve.Scalar
	SecretPaillier *paillier.SecretKey
	Paillier       map[party.ID]*paillier.PublicKey
	Pedersen       map[party.ID]*pedersen.Parameters
	ECDSA          map[party.ID]curve.Point

	Message []byte
}

type broadcast2 struct {
	round.NormalBroadcastContent
	K *paillier.Ciphertext
	G *paillier.Ciphertext
}

type message2 struct {
	ProofEnc *zkenc.Proof
}

// RoundNumber implements round.Content.
func (broadcast2) RoundNumber() round.Number { return 2 }

// RoundNumber implements round.Content.
func (message2) RoundNumber() round.Number { return 2 }

// VerifyMessage implements round.Round.
func (round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round1) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
//
//   - γᵢ ← 𝔽, Γᵢ = [γᵢ]⋅G
//   - Gᵢ = Encᵢ(γᵢ; νᵢ)
//   - kᵢ ← 𝔽, Kᵢ = Encᵢ(kᵢ; ρᵢ)
//   - broadcast (Kᵢ, Gᵢ), and send every peer a zkenc proof that Kᵢ is
//     well-formed
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	gammaShare, bigGammaShare := sample.ScalarPointPair(rand.Reader, r.Group())
	G, gNonce := r.Paillier[r.SelfID()].Enc(curve.MakeInt(gammaShare))

	kShare := sample.Scalar(rand.Reader, r.Group())
	K, kNonce := r.Paillier[r.SelfID()].Enc(curve.MakeInt(kShare))

	if err := r.BroadcastMessage(out, &broadcast2{K: K, G: G}); err != nil {
		return r, err
	}

	otherIDs := r.OtherPartyIDs()
	errs := r.Pool.Parallelize(len(otherIDs), func(i int) interface{} {
		j := otherIDs[i]
		proof := zkenc.NewProof(r.Group(), r.HashForID(r.SelfID()), zkenc.Public{
			K:      K,
			Prover: r.Paillier[r.SelfID()],
			Aux:    r.Pedersen[j],
		}, zkenc.Private{
			K:   curve.MakeInt(kShare),
			Rho: kNonce,
		})
		return r.SendMessage(out, &message2{ProofEnc: proof}, j)
	})
	for _, e := range errs {
		if e != nil {
			return r, e.(error)
		}
	}

	return &round2{
		round1:             r,
		K:                  map[party.ID]*paillier.Ciphertext{r.SelfID(): K},
		G:                  map[party.ID]*paillier.Ciphertext{r.SelfID(): G},
		BigGammaShare:      map[party.ID]curve.Point{r.SelfID(): bigGammaShare},
		GammaShare:         curve.MakeInt(gammaShare),
		KShare:             kShare,
		KNonce:             kNonce,
		GNonce:             gNonce,
		MessageBroadcasted: make(map[party.ID]bool),
	}, nil
}

func (r *round1) CanFinalize() bool { return true }

// MessageContent implements round.Round.
func (round1) MessageContent() round.Content { return nil }

// BroadcastContent implements round.BroadcastRound.
func (round1) BroadcastContent() round.BroadcastContent { return &broadcast2{} }

// Number implements round.Round.
func (round1) Number() round.Number { return 1 }
