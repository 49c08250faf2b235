package memvault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	sealedID, err := v.Seal(ctx, "wallet/w1/share/1", []byte("super secret scalar"))
	require.NoError(t, err)

	got, err := v.Open(ctx, sealedID)
	require.NoError(t, err)
	require.Equal(t, []byte("super secret scalar"), got)
}

func TestOpenUnknownFails(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	_, err = v.Open(context.Background(), "does-not-exist")
	require.Error(t, err)
}

func TestDestroyIsIdempotent(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	sealedID, err := v.Seal(ctx, "wallet/w1/share/1", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, v.Destroy(ctx, sealedID))
	require.NoError(t, v.Destroy(ctx, sealedID)) // second call, same effect

	_, err = v.Open(ctx, sealedID)
	require.Error(t, err)
}

func TestSealOverwritesPreviousBlob(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	sealedID, err := v.Seal(ctx, "wallet/w1/share/1", []byte("v1"))
	require.NoError(t, err)
	sealedID2, err := v.Seal(ctx, "wallet/w1/share/1", []byte("v2"))
	require.NoError(t, err)
	require.Equal(t, sealedID, sealedID2)

	got, err := v.Open(ctx, sealedID)
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)
}
