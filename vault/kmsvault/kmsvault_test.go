package kmsvault

import (
	"context"
	cryptorand "crypto/rand"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/stretchr/testify/require"
)

// fakeKMS wraps data keys with a fixed XOR mask instead of talking to AWS,
// just enough to exercise kmsvault's envelope-encryption wiring.
type fakeKMS struct{ mask byte }

func (f *fakeKMS) GenerateDataKey(context.Context, *kms.GenerateDataKeyInput, ...func(*kms.Options)) (*kms.GenerateDataKeyOutput, error) {
	plaintext := make([]byte, 32)
	if _, err := io.ReadFull(cryptorand.Reader, plaintext); err != nil {
		return nil, err
	}
	wrapped := make([]byte, len(plaintext))
	for i, b := range plaintext {
		wrapped[i] = b ^ f.mask
	}
	return &kms.GenerateDataKeyOutput{Plaintext: plaintext, CiphertextBlob: wrapped}, nil
}

func (f *fakeKMS) Decrypt(_ context.Context, in *kms.DecryptInput, _ ...func(*kms.Options)) (*kms.DecryptOutput, error) {
	plaintext := make([]byte, len(in.CiphertextBlob))
	for i, b := range in.CiphertextBlob {
		plaintext[i] = b ^ f.mask
	}
	return &kms.DecryptOutput{Plaintext: plaintext}, nil
}

func TestSealOpenRoundTrip(t *testing.T) {
	v := &Vault{client: &fakeKMS{mask: 0x42}, keyID: "alias/test"}

	ctx := context.Background()
	sealedID, err := v.Seal(ctx, "wallet/w1/share/1", []byte("share plaintext"))
	require.NoError(t, err)

	got, err := v.Open(ctx, sealedID)
	require.NoError(t, err)
	require.Equal(t, []byte("share plaintext"), got)

	require.NoError(t, v.Destroy(ctx, sealedID))
}

func TestOpenRejectsTamperedSealedID(t *testing.T) {
	v := &Vault{client: &fakeKMS{mask: 0x42}, keyID: "alias/test"}

	ctx := context.Background()
	sealedID, err := v.Seal(ctx, "k", []byte("x"))
	require.NoError(t, err)

	_, err = v.Open(ctx, sealedID+"tampered")
	require.Error(t, err)
}
