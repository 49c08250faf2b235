package participant

import (
	"crypto/rand"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pool"
	"github.com/j04n-f/mpc-waas/lib/round"
	"github.com/j04n-f/mpc-waas/metrics"
	"github.com/j04n-f/mpc-waas/model"
	"github.com/j04n-f/mpc-waas/pkg/ecdsa"
	"github.com/j04n-f/mpc-waas/protocols/cmp/config"
	"github.com/j04n-f/mpc-waas/protocols/cmp/keygen"
	"github.com/j04n-f/mpc-waas/protocols/cmp/sign"
)

func partyIDs(n int) []party.ID {
	ids := make([]party.ID, n)
	for i := 0; i < n; i++ {
		ids[i] = party.ID(strconv.Itoa(i + 1))
	}
	return ids
}

// run drives every ceremony to a Terminal by repeatedly routing each
// party's outbound messages into its recipients' inboxes, simulating an
// in-process network. It fails the test if any ceremony aborts or the
// run doesn't converge within a bounded number of rounds.
func run(t *testing.T, ceremonies map[party.ID]*Ceremony) map[party.ID]*Terminal {
	t.Helper()

	inboxes := make(map[party.ID][]*round.Message, len(ceremonies))
	terminals := make(map[party.ID]*Terminal, len(ceremonies))

	for step := 0; step < 50 && len(terminals) < len(ceremonies); step++ {
		for id, c := range ceremonies {
			if _, done := terminals[id]; done {
				continue
			}
			out, term, err := c.Advance(time.Now(), inboxes[id])
			require.NoError(t, err)
			inboxes[id] = nil
			for _, msg := range out {
				inboxes[msg.To] = append(inboxes[msg.To], msg)
			}
			if term != nil {
				terminals[id] = term
			}
		}
	}
	require.Len(t, terminals, len(ceremonies), "ceremonies did not converge")
	return terminals
}

func runDKG(t *testing.T, ids []party.ID, threshold int) map[party.ID]*config.Config {
	t.Helper()
	sessionID := []byte("dkg-session")

	ceremonies := make(map[party.ID]*Ceremony, len(ids))
	for _, id := range ids {
		session := keygen.Start(id, ids, threshold, curve.Secp256k1{}, sessionID, pool.NewPool(1), nil)
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

func TestDKGHappyPath(t *testing.T) {
	ids := partyIDs(3)
	configs := runDKG(t, ids, 1)

	var publicKey curve.Point
	for _, id := range ids {
		cfg := configs[id]
		require.Equal(t, id, cfg.ID)
		require.Equal(t, 1, cfg.Threshold)
		require.NotNil(t, cfg.SecretPaillier)
		if publicKey == nil {
			publicKey = cfg.PublicPoint
		} else {
			require.True(t, publicKey.Equal(cfg.PublicPoint), "all parties must agree on the joint public key")
		}
	}
}

func TestSignWithTwoOfThreeOnline(t *testing.T) {
	ids := partyIDs(3)
	configs := runDKG(t, ids, 1)

	signers := ids[:2] // 2 of 3, matching threshold+1 = 2
	message := make([]byte, 32)
	_, err := rand.Read(message)
	require.NoError(t, err)

	sessionID := []byte("sign-session")
	ceremonies := make(map[party.ID]*Ceremony, len(signers))
	for _, id := range signers {
		session := sign.Start(configs[id], signers, message, sessionID, pool.NewPool(1))
		ceremonies[id] = New(model.NewCeremonyID(), model.CeremonySign, session, time.Now().Add(time.Minute))
	}

	terminals := run(t, ceremonies)
	publicKey := configs[signers[0]].PublicPoint
	for _, id := range signers {
		term := terminals[id]
		require.Nil(t, term.Err, "party %s aborted", id)
		sig, ok := term.Output.(*ecdsa.Signature)
		require.True(t, ok)
		require.True(t, sig.Verify(publicKey, message), "signature produced by party %s must verify", id)
	}
}

// A cheating participant corrupting its own broadcast (e.g. its round3 RID
// contribution, which must reopen the commitment from round1) is covered
// in protocols/cmp/keygen's own test suite, where the tamper can reach
// into the round-internal broadcast content; see
// TestCheatingParticipantAbortsCeremony there for the scenario this
// package's Ceremony.Advance surfaces as an aborted Terminal.

func TestRoundTimeoutAborts(t *testing.T) {
	ids := partyIDs(2)
	sessionID := []byte("timeout-session")
	session := keygen.Start(ids[0], ids, 1, curve.Secp256k1{}, sessionID, pool.NewPool(1), nil)

	c := New(model.NewCeremonyID(), model.CeremonyDKG, session, time.Now().Add(-time.Second))
	_, term, err := c.Advance(time.Now(), nil)
	require.NoError(t, err)
	require.NotNil(t, term)
	require.NotNil(t, term.Err)
	require.Equal(t, "round_timeout", string(term.Err.Kind))

	// Advancing again returns the same terminal instead of re-running
	// protocol logic against a dead session.
	_, term2, err := c.Advance(time.Now(), nil)
	require.NoError(t, err)
	require.NotNil(t, term2)
	require.Equal(t, term.Err.Kind, term2.Err.Kind)
}

func TestNewWithMetricsReportsStartRoundsAndCompletion(t *testing.T) {
	m := metrics.New()
	ids := partyIDs(3)
	sessionID := []byte("dkg-session-metrics")

	ceremonies := make(map[party.ID]*Ceremony, len(ids))
	for _, id := range ids {
		session := keygen.Start(id, ids, 1, curve.Secp256k1{}, sessionID, pool.NewPool(1), nil)
		ceremonies[id] = NewWithMetrics(model.NewCeremonyID(), model.CeremonyDKG, session, time.Now().Add(time.Minute), m)
	}

	terminals := run(t, ceremonies)
	for _, term := range terminals {
		require.Nil(t, term.Err)
	}

	require.Equal(t, float64(len(ids)), testutil.ToFloat64(m.CeremoniesStarted.WithLabelValues(model.CeremonyDKG.String())))
	require.Equal(t, float64(len(ids)), testutil.ToFloat64(m.CeremoniesCompleted.WithLabelValues(model.CeremonyDKG.String(), "success")))
	require.Equal(t, uint64(1), testutil.CollectAndCount(m.RoundDuration), "one time series for the dkg kind label, aggregating every round's observation")
}

func TestNewWithMetricsReportsAbortOutcome(t *testing.T) {
	m := metrics.New()
	ids := partyIDs(2)
	sessionID := []byte("timeout-session-metrics")
	session := keygen.Start(ids[0], ids, 1, curve.Secp256k1{}, sessionID, pool.NewPool(1), nil)

	c := NewWithMetrics(model.NewCeremonyID(), model.CeremonyDKG, session, time.Now().Add(-time.Second), m)
	_, term, err := c.Advance(time.Now(), nil)
	require.NoError(t, err)
	require.NotNil(t, term.Err)

	require.Equal(t, float64(1), testutil.ToFloat64(m.CeremoniesStarted.WithLabelValues(model.CeremonyDKG.String())))
	require.Equal(t, float64(1), testutil.ToFloat64(m.CeremoniesCompleted.WithLabelValues(model.CeremonyDKG.String(), string(term.Err.Kind))))
}
