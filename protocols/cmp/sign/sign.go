package sign

import (
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/paillier"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pedersen"
	"github.com/j04n-f/mpc-waas/core/pool"
	"github.com/j04n-f/mpc-waas/lib/round"
	"github.com/j04n-f/mpc-waas/protocols/cmp/config"
)

// Start builds the first round of a signing ceremony: signerIDs must be a
// subset of cfg.Public of size threshold+1 (spec.md §4.2: "sign requires
// exactly t+1 online participants"), including cfg.ID itself. message is
// the digest to be signed.
func Start(cfg *config.Config, signerIDs []party.ID, message []byte, sessionID []byte, pl *pool.Pool) round.Session {
	helper := round.NewHelper(sessionID, cfg.ID, signerIDs, cfg.Threshold, cfg.Group, pl)

	paillierPublic := make(map[party.ID]*paillier.PublicKey, len(signerIDs))
	pedersenPublic := make(map[party.ID]*pedersen.Parameters, len(signerIDs))
	ecdsaPublic := make(map[party.ID]curve.Point, len(signerIDs))
	for _, id := range signerIDs {
		pub := cfg.Public[id]
		paillierPublic[id] = pub.Paillier
		pedersenPublic[id] = pub.Pedersen
		ecdsaPublic[id] = pub.ECDSA
	}

	return &round1{
		Helper:         helper,
		PublicKey:      cfg.PublicPoint,
		SecretECDSA:    cfg.ECDSA,
		SecretPaillier: cfg.SecretPaillier,
		Paillier:       paillierPublic,
		Pedersen:       pedersenPublic,
		ECDSA:          ecdsaPublic,
		Message:        message,
	}
}
