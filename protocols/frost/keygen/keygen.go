package keygen

import (
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pool"
	"github.com/j04n-f/mpc-waas/lib/round"
)

// Start begins a FROST distributed key generation ceremony among
// partyIDs, producing a protocols/cmp/config.Config on success so the
// rest of the service (vault sealing, wallet records) stays
// protocol-agnostic.
func Start(self party.ID, partyIDs []party.ID, threshold int, group curve.Curve, sessionID []byte, pl *pool.Pool) round.Session {
	helper := round.NewHelper(sessionID, self, partyIDs, threshold, group, pl)
	return &round1{Helper: helper}
}
