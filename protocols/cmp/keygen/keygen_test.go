package keygen

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pool"
	"github.com/j04n-f/mpc-waas/lib/round"
)

func partyIDs(n int) []party.ID {
	ids := make([]party.ID, n)
	for i := 0; i < n; i++ {
		ids[i] = party.ID(strconv.Itoa(i + 1))
	}
	return ids
}

// TestCheatingParticipantAbortsCeremony corrupts the cheater's round3
// broadcast (its RID contribution) after it leaves the cheater's Finalize,
// so it no longer opens the commitment the cheater published in round1.
// Every honest party must abort rather than accept the ceremony.
func TestCheatingParticipantAbortsCeremony(t *testing.T) {
	ids := partyIDs(3)
	cheater := ids[0]
	sessionID := []byte("cheater-session")

	sessions := make(map[party.ID]round.Session, len(ids))
	for _, id := range ids {
		helper := round.NewHelper(sessionID, id, ids, 1, curve.Secp256k1{}, pool.NewPool(1))
		sessions[id] = &round1{Helper: helper}
	}

	inboxes := make(map[party.ID][]round.Message, len(ids))
	terminal := func(s round.Session) bool {
		n := s.Number()
		return n == round.AbortNumber || n == round.OutputNumber
	}

	for step := 0; step < 50; step++ {
		for id, session := range sessions {
			if terminal(session) {
				continue
			}
			for _, msg := range inboxes[id] {
				var err error
				if msg.Broadcast {
					br, ok := session.(round.BroadcastRound)
					require.True(t, ok)
					err = br.StoreBroadcastMessage(msg)
				} else {
					if err = session.VerifyMessage(msg); err == nil {
						err = session.StoreMessage(msg)
					}
				}
				if err != nil {
					sessions[id] = &round.Abort{Err: err}
					break
				}
			}
			inboxes[id] = nil
			if terminal(sessions[id]) || !sessions[id].CanFinalize() {
				continue
			}

			out := make(chan *round.Message)
			done := make(chan struct{})
			var next round.Session
			var ferr error
			go func() {
				next, ferr = sessions[id].Finalize(out)
				close(out)
				close(done)
			}()
			for m := range out {
				if m.From == cheater {
					if body, ok := m.Content.(*broadcast3); ok {
						tampered := *body
						tampered.RID[0] ^= 0xFF
						m.Content = &tampered
					}
				}
				inboxes[m.To] = append(inboxes[m.To], *m)
			}
			<-done
			require.NoError(t, ferr)
			sessions[id] = next
		}

		allTerminal := true
		for _, s := range sessions {
			if !terminal(s) {
				allTerminal = false
			}
		}
		if allTerminal {
			break
		}
	}

	for id, s := range sessions {
		if id == cheater {
			continue
		}
		require.Equal(t, round.AbortNumber, s.Number(), "honest party %s should have aborted", id)
	}
}
