package relay

import (
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/j04n-f/mpc-waas/metrics"
	"github.com/j04n-f/mpc-waas/wire"
)

type signer struct{ priv ed25519.PrivateKey }

func (s signer) Sign(digest []byte) []byte { return ed25519.Sign(s.priv, digest) }

func signedEnvelope(t *testing.T, room uuid.UUID, sender uint16, priv ed25519.PrivateKey, round uint16, payload string) *wire.Envelope {
	t.Helper()
	e := wire.New(room, sender, wire.Broadcast, round, []byte(payload))
	e.Sign(signer{priv: priv})
	return e
}

func TestIssueUniqueIdxIdempotentAndBounded(t *testing.T) {
	r := New(time.Minute)
	room := uuid.New()
	r.CreateRoom(room, 2)

	pub1, _, _ := ed25519.GenerateKey(nil)
	pub2, _, _ := ed25519.GenerateKey(nil)
	pub3, _, _ := ed25519.GenerateKey(nil)

	id1, err := r.IssueUniqueIdx(room, pub1)
	require.NoError(t, err)
	require.Equal(t, "1", string(id1))

	// retry with the same identity returns the same index
	id1Again, err := r.IssueUniqueIdx(room, pub1)
	require.NoError(t, err)
	require.Equal(t, id1, id1Again)

	id2, err := r.IssueUniqueIdx(room, pub2)
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)

	_, err = r.IssueUniqueIdx(room, pub3)
	require.ErrorIs(t, err, ErrRoomFull)
}

func TestBroadcastRejectsUnauthenticated(t *testing.T) {
	r := New(time.Minute)
	room := uuid.New()
	r.CreateRoom(room, 2)

	pub, _, _ := ed25519.GenerateKey(nil)
	id, err := r.IssueUniqueIdx(room, pub)
	require.NoError(t, err)
	require.Equal(t, "1", string(id))

	_, otherPriv, _ := ed25519.GenerateKey(nil)
	env := signedEnvelope(t, room, 1, otherPriv, 1, "hello")
	_, err = r.Broadcast(room, env)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestBroadcastAndSubscribeTotalOrder(t *testing.T) {
	r := New(time.Minute)
	room := uuid.New()
	r.CreateRoom(room, 2)

	pub, priv, _ := ed25519.GenerateKey(nil)
	_, err := r.IssueUniqueIdx(room, pub)
	require.NoError(t, err)

	ctx := context.Background()
	sub, err := r.Subscribe(ctx, room, 1)
	require.NoError(t, err)
	defer sub.Close()

	for i := 1; i <= 3; i++ {
		env := signedEnvelope(t, room, 1, priv, 1, "msg")
		seq, err := r.Broadcast(room, env)
		require.NoError(t, err)
		require.Equal(t, uint64(i), seq)
	}

	for i := 1; i <= 3; i++ {
		select {
		case env := <-sub.Envelopes:
			require.Equal(t, uint64(i), env.Seq)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for envelope %d", i)
		}
	}
}

func TestSubscribeResumeFromSeq(t *testing.T) {
	r := New(time.Minute)
	room := uuid.New()
	r.CreateRoom(room, 2)

	pub, priv, _ := ed25519.GenerateKey(nil)
	_, err := r.IssueUniqueIdx(room, pub)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := r.Broadcast(room, signedEnvelope(t, room, 1, priv, 1, "msg"))
		require.NoError(t, err)
	}

	// resume from seq 2: expect only envelopes with seq >= 2
	sub, err := r.Subscribe(ctx, room, 2)
	require.NoError(t, err)
	defer sub.Close()

	first := <-sub.Envelopes
	require.Equal(t, uint64(2), first.Seq)
	second := <-sub.Envelopes
	require.Equal(t, uint64(3), second.Seq)
}

func TestSubscribeUnknownRoom(t *testing.T) {
	r := New(time.Minute)
	_, err := r.Subscribe(context.Background(), uuid.New(), 0)
	require.ErrorIs(t, err, ErrRoomUnknown)
}

func TestWithMetricsRecordsBroadcastsAndRooms(t *testing.T) {
	m := metrics.New()
	r := New(time.Minute).WithMetrics(m)
	room := uuid.New()
	r.CreateRoom(room, 2)
	require.Equal(t, float64(1), testutil.ToFloat64(m.RoomsActive))

	pub, priv, _ := ed25519.GenerateKey(nil)
	_, err := r.IssueUniqueIdx(room, pub)
	require.NoError(t, err)

	_, err = r.Broadcast(room, signedEnvelope(t, room, 1, priv, 1, "hello"))
	require.NoError(t, err)
	require.Equal(t, float64(1), testutil.ToFloat64(m.BroadcastsTotal.WithLabelValues("accepted")))

	_, otherPriv, _ := ed25519.GenerateKey(nil)
	_, err = r.Broadcast(room, signedEnvelope(t, room, 1, otherPriv, 1, "bad"))
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.Equal(t, float64(1), testutil.ToFloat64(m.BroadcastsTotal.WithLabelValues("unauthenticated")))
}
