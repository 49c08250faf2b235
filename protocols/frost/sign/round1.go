package sign

import (
	"crypto/rand"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/math/sample"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/lib/round"
)

var _ round.Round = (*round1)(nil)

// round1 has no input messages; its Finalize samples this party's pair
// of signing nonces and commits to them.
type round1 struct {
	*round.Helper

	PublicKey   curve.Point
	SecretECDSA curve.Scalar
	Public      map[party.ID]curve.Point
	Message     []byte
}

// commitment is one signer's pair of nonce commitments (D, E) = ([d]G, [e]G).
type commitment struct {
	D curve.Point
	E curve.Point
}

type broadcast2 struct {
	round.NormalBroadcastContent
	Commitment commitment
}

func (broadcast2) RoundNumber() round.Number { return 2 }

func (round1) VerifyMessage(round.Message) error { return nil }
func (round1) StoreMessage(round.Message) error  { return nil }

// Finalize implements round.Round: sample a pair of nonces per the
// FROST binding-factor construction (two nonces, not one, so the
// per-signer binding factor can't be chosen by an adversary who only
// sees a single commitment) and broadcast their commitments.
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()

	d := sample.Scalar(rand.Reader, group)
	e := sample.Scalar(rand.Reader, group)
	com := commitment{D: d.ActOnBase(), E: e.ActOnBase()}

	if err := r.BroadcastMessage(out, &broadcast2{Commitment: com}); err != nil {
		return r, err
	}

	return &round2{
		round1:             r,
		NonceD:             d,
		NonceE:             e,
		Commitments:        map[party.ID]commitment{r.SelfID(): com},
		MessageBroadcasted: make(map[party.ID]bool),
	}, nil
}

func (r *round1) CanFinalize() bool { return true }

func (round1) MessageContent() round.Content { return nil }

func (round1) BroadcastContent() round.BroadcastContent { return &broadcast2{} }

func (round1) Number() round.Number { return 1 }
