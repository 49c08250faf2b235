// Package sign implements FROST's two-round threshold Schnorr signing
// protocol over secp256k1: signers first commit to a pair of nonces,
// then combine them into a single group commitment and each contribute
// one share of the response, so the aggregate (R, z) verifies against
// the joint public key produced by protocols/frost/keygen without any
// signer ever reconstructing the full secret.
package sign

import (
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pool"
	"github.com/j04n-f/mpc-waas/lib/round"
	"github.com/j04n-f/mpc-waas/protocols/cmp/config"
)

// Start begins a FROST signing ceremony among signerIDs, a subset of
// cfg's parties of size at least cfg.Threshold+1, producing a
// *Signature on success.
func Start(cfg *config.Config, signerIDs []party.ID, message []byte, sessionID []byte, pl *pool.Pool) round.Session {
	helper := round.NewHelper(sessionID, cfg.ID, signerIDs, cfg.Threshold, cfg.Group, pl)

	public := make(map[party.ID]curve.Point, len(signerIDs))
	for _, id := range signerIDs {
		public[id] = cfg.Public[id].ECDSA
	}

	return &round1{
		Helper:      helper,
		PublicKey:   cfg.PublicPoint,
		SecretECDSA: cfg.ECDSA,
		Public:      public,
		Message:     message,
	}
}
