package keygen

import (
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pool"
	"github.com/j04n-f/mpc-waas/lib/round"
)

// Start builds the first round of a keygen ceremony for self, among
// partyIDs, tolerating threshold corruptions over group. sessionID binds
// every message in the ceremony to this exact run (spec.md §4.4: DKG
// ceremonies are identified by a digest over the quorum and a nonce).
// previousSecret is nil for a fresh keygen; supplying the prior ECDSA
// share turns this into a key-refresh (share rotation without changing
// the public key).
func Start(self party.ID, partyIDs []party.ID, threshold int, group curve.Curve, sessionID []byte, pl *pool.Pool, previousSecret curve.Scalar) round.Session {
	helper := round.NewHelper(sessionID, self, partyIDs, threshold, group, pl)
	return &round1{Helper: helper, PreviousSecretECDSA: previousSecret}
}
