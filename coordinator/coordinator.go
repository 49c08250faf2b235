// Package coordinator drives wallet creation and signing across the
// participant quorum: picking which participants join a ceremony
// (spec.md §9's cold-storage Open Question) and fanning RPCs out to them
// in bounded parallel, grounded on golang.org/x/sync/errgroup's
// SetLimit-bounded fan-out pattern.
package coordinator

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/j04n-f/mpc-waas/ceremonyerr"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/coordinator/rpcclient"
	"github.com/j04n-f/mpc-waas/model"
)

// Participant is one quorum member's reachable address and RPC client.
type Participant struct {
	ID     party.ID
	Client *rpcclient.Client
}

// Coordinator owns the full participant roster and the policy for
// selecting a ceremony's quorum out of it.
type Coordinator struct {
	threshold    int
	participants map[party.ID]*rpcclient.Client
	cold         map[party.ID]bool // offline-by-default participants (spec.md §9)
	ceremonyTTL  time.Duration
}

// New builds a Coordinator over participants, with threshold the number
// of tolerated corruptions (a quorum needs threshold+1 members) and cold
// the set of participant IDs kept out of signing quorums unless Sign is
// called with elevated set.
func New(participants []Participant, threshold int, cold []party.ID, ceremonyTTL time.Duration) *Coordinator {
	byID := make(map[party.ID]*rpcclient.Client, len(participants))
	for _, p := range participants {
		byID[p.ID] = p.Client
	}
	coldSet := make(map[party.ID]bool, len(cold))
	for _, id := range cold {
		coldSet[id] = true
	}
	return &Coordinator{
		threshold:    threshold,
		participants: byID,
		cold:         coldSet,
		ceremonyTTL:  ceremonyTTL,
	}
}

// SelectQuorum resolves spec.md §9's cold-storage Open Question:
// DKG always uses every participant; Sign excludes cold participants
// unless elevated is set, in which case the full roster is eligible.
func (c *Coordinator) SelectQuorum(kind model.CeremonyKind, elevated bool) model.Quorum {
	all := make([]party.ID, 0, len(c.participants))
	for id := range c.participants {
		all = append(all, id)
	}
	all = party.Sorted(all)

	if kind == model.CeremonyDKG || elevated {
		return model.Quorum(all)
	}

	online := make([]party.ID, 0, len(all))
	for _, id := range all {
		if !c.cold[id] {
			online = append(online, id)
		}
	}
	return model.Quorum(online)
}

// CreateWallet runs a DKG ceremony across every participant, returning
// the resulting wallet once every participant's StartDKG call agrees on
// the same public key.
func (c *Coordinator) CreateWallet(ctx context.Context, threshold int) (*model.Wallet, error) {
	quorum := c.SelectQuorum(model.CeremonyDKG, false)
	if len(quorum) < threshold+1 {
		return nil, ceremonyerr.InvalidInput("quorum smaller than threshold+1")
	}

	ceremonyID := model.NewCeremonyID()
	deadline := time.Now().Add(c.ceremonyTTL)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(len(quorum))

	responses := make([]*rpcclient.StartDKGResponse, len(quorum))
	for i, id := range quorum {
		i, id := i, id
		client, ok := c.participants[id]
		if !ok {
			return nil, ceremonyerr.InvalidInput("unknown participant " + string(id))
		}
		group.Go(func() error {
			resp, err := client.StartDKG(gctx, rpcclient.StartDKGRequest{
				CeremonyID: ceremonyID,
				Self:       id,
				Quorum:     quorum,
				Threshold:  threshold,
				Deadline:   deadline,
			})
			if err != nil {
				return errors.Wrapf(err, "participant %s", id)
			}
			responses[i] = resp
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, ceremonyerr.RelayFailure(err)
	}

	publicKey := responses[0].PublicKey
	for _, resp := range responses[1:] {
		if string(resp.PublicKey) != string(publicKey) {
			return nil, ceremonyerr.ProtocolAbort(0, "", errors.New("participants disagree on public key"))
		}
	}

	return &model.Wallet{
		ID:        responses[0].WalletID,
		Curve:     "secp256k1",
		Threshold: threshold,
		N:         len(quorum),
		PublicKey: publicKey,
		CreatedAt: time.Now(),
	}, nil
}

// Sign runs a signing ceremony over digest for wallet, using the
// online-only quorum unless elevated. Every signer must return the same
// (r, s); Sign fails closed if they disagree.
func (c *Coordinator) Sign(ctx context.Context, wallet model.Wallet, digest [32]byte, elevated bool) (r, s []byte, err error) {
	quorum := c.SelectQuorum(model.CeremonySign, elevated)
	if len(quorum) < wallet.Threshold+1 {
		return nil, nil, ceremonyerr.InvalidInput("online quorum smaller than threshold+1")
	}

	ceremonyID := model.NewCeremonyID()
	deadline := time.Now().Add(c.ceremonyTTL)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(len(quorum))

	responses := make([]*rpcclient.StartSignResponse, len(quorum))
	for i, id := range quorum {
		i, id := i, id
		client, ok := c.participants[id]
		if !ok {
			return nil, nil, ceremonyerr.InvalidInput("unknown participant " + string(id))
		}
		group.Go(func() error {
			resp, err := client.StartSign(gctx, rpcclient.StartSignRequest{
				CeremonyID: ceremonyID,
				Self:       id,
				WalletID:   wallet.ID,
				Quorum:     quorum,
				Digest:     digest,
				Deadline:   deadline,
			})
			if err != nil {
				return errors.Wrapf(err, "participant %s", id)
			}
			responses[i] = resp
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, ceremonyerr.RelayFailure(err)
	}

	r, s = responses[0].R, responses[0].S
	for _, resp := range responses[1:] {
		if string(resp.R) != string(r) || string(resp.S) != string(s) {
			return nil, nil, ceremonyerr.ProtocolAbort(0, "", errors.New("signers disagree on signature"))
		}
	}
	return r, s, nil
}

// DeleteShare instructs every quorum member to destroy its sealed share
// for wallet, e.g. after a CreateWallet call that failed partway through.
func (c *Coordinator) DeleteShare(ctx context.Context, wallet model.WalletID, quorum model.Quorum) error {
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(len(quorum))
	for _, id := range quorum {
		id := id
		client, ok := c.participants[id]
		if !ok {
			continue
		}
		group.Go(func() error {
			return client.DeleteShare(gctx, rpcclient.DeleteShareRequest{WalletID: wallet})
		})
	}
	if err := group.Wait(); err != nil {
		return ceremonyerr.RelayFailure(err)
	}
	return nil
}
