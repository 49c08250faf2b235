package participant

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pool"
	"github.com/j04n-f/mpc-waas/model"
	"github.com/j04n-f/mpc-waas/protocols/cmp/config"
	frostkeygen "github.com/j04n-f/mpc-waas/protocols/frost/keygen"
	frostsign "github.com/j04n-f/mpc-waas/protocols/frost/sign"
)

// runFrostDKG mirrors runDKG but starts FROST's round chain instead of
// CGGMP21's, exercising the same Ceremony wrapper, the same run() network
// simulation loop, and the same config.Config output type.
func runFrostDKG(t *testing.T, ids []party.ID, threshold int) map[party.ID]*config.Config {
	t.Helper()
	sessionID := []byte("frost-dkg-session")

	ceremonies := make(map[party.ID]*Ceremony, len(ids))
	for _, id := range ids {
		session := frostkeygen.Start(id, ids, threshold, curve.Secp256k1{}, sessionID, pool.NewPool(1))
		ceremonies[id] = New(model.NewCeremonyID(), model.CeremonyDKG, session, time.Now().Add(time.Minute))
	}

	terminals := run(t, ceremonies)
	configs := make(map[party.ID]*config.Config, len(ids))
	for id, term := range terminals {
		require.Nil(t, term.Err, "party %s aborted", id)
		cfg, ok := term.Output.(*config.Config)
		require.True(t, ok)
		configs[id] = cfg
	}
	return configs
}

// TestFrostAndCGGMP21ShareCeremonyPolymorphism drives a FROST DKG and sign
// through the exact same Ceremony type CGGMP21 uses (see TestDKGHappyPath
// and TestSignWithTwoOfThreeOnline), demonstrating that Ceremony's
// advance/deadline/id surface is genuinely protocol-agnostic rather than
// CGGMP21-shaped with FROST bolted on.
func TestFrostAndCGGMP21ShareCeremonyPolymorphism(t *testing.T) {
	ids := partyIDs(3)
	configs := runFrostDKG(t, ids, 1)

	var publicKey curve.Point
	for _, id := range ids {
		cfg := configs[id]
		require.Equal(t, id, cfg.ID)
		require.Equal(t, 1, cfg.Threshold)
		// FROST signing needs no Paillier material, unlike CGGMP21.
		require.Nil(t, cfg.SecretPaillier)
		if publicKey == nil {
			publicKey = cfg.PublicPoint
		} else {
			require.True(t, publicKey.Equal(cfg.PublicPoint))
		}
	}

	signers := ids[:2]
	message := make([]byte, 32)
	_, err := rand.Read(message)
	require.NoError(t, err)

	sessionID := []byte("frost-sign-session")
	ceremonies := make(map[party.ID]*Ceremony, len(signers))
	for _, id := range signers {
		session := frostsign.Start(configs[id], signers, message, sessionID, pool.NewPool(1))
		ceremonies[id] = New(model.NewCeremonyID(), model.CeremonySign, session, time.Now().Add(time.Minute))
	}

	terminals := run(t, ceremonies)
	for _, id := range signers {
		term := terminals[id]
		require.Nil(t, term.Err, "party %s aborted", id)
		sig, ok := term.Output.(*frostsign.Signature)
		require.True(t, ok)
		require.True(t, sig.Verify(curve.Secp256k1{}, publicKey, message))
	}
}
