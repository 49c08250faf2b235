package wire

import (
	"crypto/ed25519"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type ed25519Signer struct{ priv ed25519.PrivateKey }

func (s ed25519Signer) Sign(digest []byte) []byte { return ed25519.Sign(s.priv, digest) }

func TestEnvelopeRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	e := New(uuid.New(), 1, Broadcast, 2, []byte("round-2 payload"))
	e.Seq = 7
	e.Sign(ed25519Signer{priv: priv})
	require.True(t, e.Verify(pub))

	data, err := e.MarshalBinary()
	require.NoError(t, err)

	var got Envelope
	require.NoError(t, got.UnmarshalBinary(data))

	require.Equal(t, e.RoomID, got.RoomID)
	require.Equal(t, e.SenderIdx, got.SenderIdx)
	require.Equal(t, e.RecipientIdx, got.RecipientIdx)
	require.Equal(t, e.Round, got.Round)
	require.Equal(t, e.Seq, got.Seq)
	require.Equal(t, e.Payload, got.Payload)
	require.True(t, got.Verify(pub))
}

func TestEnvelopeTamperedPayloadFailsVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	e := New(uuid.New(), 1, 2, 1, []byte("original"))
	e.Sign(ed25519Signer{priv: priv})

	e.Payload = []byte("tampered")
	require.False(t, e.Verify(pub))
}

func TestEnvelopeUnmarshalTruncated(t *testing.T) {
	var got Envelope
	require.Error(t, got.UnmarshalBinary([]byte{1, 2, 3}))
}
