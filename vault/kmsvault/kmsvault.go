// Package kmsvault is the production vault.Client: each Seal call asks
// AWS KMS for a fresh data key, encrypts the plaintext locally with that
// data key via nacl/secretbox, and stores the KMS-wrapped data key
// alongside the ciphertext. The participant process never holds (or even
// requests) the KMS customer master key itself — only the one-time data
// key, which it discards immediately after sealing.
package kmsvault

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/j04n-f/mpc-waas/vault"
)

const nonceSize = 24

// KMS is the subset of *kms.Client this package calls, narrowed so tests
// can substitute a fake.
type KMS interface {
	GenerateDataKey(ctx context.Context, in *kms.GenerateDataKeyInput, opts ...func(*kms.Options)) (*kms.GenerateDataKeyOutput, error)
	Decrypt(ctx context.Context, in *kms.DecryptInput, opts ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

var _ vault.Client = (*Vault)(nil)

// Vault seals under a single KMS customer master key identified by KeyID
// (an alias or key ARN).
type Vault struct {
	client KMS
	keyID  string
}

// New wraps an existing kms.Client. keyID is the CMK used to wrap every
// per-blob data key.
func New(client *kms.Client, keyID string) *Vault {
	return &Vault{client: client, keyID: keyID}
}

// Seal implements vault.Client.
func (v *Vault) Seal(ctx context.Context, _ string, plaintext []byte) (string, error) {
	dataKey, err := v.client.GenerateDataKey(ctx, &kms.GenerateDataKeyInput{
		KeyId:   aws.String(v.keyID),
		KeySpec: types.DataKeySpecAes256,
	})
	if err != nil {
		return "", errors.Wrap(err, "kmsvault: GenerateDataKey")
	}
	defer zero(dataKey.Plaintext)

	var key [32]byte
	copy(key[:], dataKey.Plaintext)

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(cryptorand.Reader, nonce[:]); err != nil {
		return "", errors.Wrap(err, "kmsvault: generate nonce")
	}
	ciphertext := secretbox.Seal(nil, plaintext, &nonce, &key)

	return encodeSealedID(dataKey.CiphertextBlob, nonce[:], ciphertext), nil
}

// Open implements vault.Client.
func (v *Vault) Open(ctx context.Context, sealedID string) ([]byte, error) {
	wrappedKey, nonceBytes, ciphertext, err := decodeSealedID(sealedID)
	if err != nil {
		return nil, err
	}

	out, err := v.client.Decrypt(ctx, &kms.DecryptInput{
		CiphertextBlob: wrappedKey,
		KeyId:          aws.String(v.keyID),
	})
	if err != nil {
		return nil, errors.Wrap(err, "kmsvault: Decrypt data key")
	}
	defer zero(out.Plaintext)

	var key [32]byte
	copy(key[:], out.Plaintext)

	var nonce [nonceSize]byte
	copy(nonce[:], nonceBytes)

	plaintext, ok := secretbox.Open(nil, ciphertext, &nonce, &key)
	if !ok {
		return nil, errors.New("kmsvault: authentication failed")
	}
	return plaintext, nil
}

// Destroy implements vault.Client. The sealed blob is self-contained (no
// server-side state keyed on sealedID beyond the CMK itself), so destroy
// is a caller-side no-op: once the sealedID string is discarded, the blob
// is unrecoverable. Idempotent by construction.
func (v *Vault) Destroy(context.Context, string) error {
	return nil
}

// encodeSealedID packs the KMS-wrapped data key, nonce, and ciphertext
// into one opaque base64 string: [u32 len][wrapped key][nonce][ciphertext].
func encodeSealedID(wrappedKey, nonce, ciphertext []byte) string {
	buf := make([]byte, 4+len(wrappedKey)+len(nonce)+len(ciphertext))
	binary.BigEndian.PutUint32(buf[:4], uint32(len(wrappedKey)))
	off := 4
	off += copy(buf[off:], wrappedKey)
	off += copy(buf[off:], nonce)
	copy(buf[off:], ciphertext)
	return base64.RawURLEncoding.EncodeToString(buf)
}

func decodeSealedID(sealedID string) (wrappedKey, nonce, ciphertext []byte, err error) {
	buf, err := base64.RawURLEncoding.DecodeString(sealedID)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "kmsvault: decode sealed id")
	}
	if len(buf) < 4+nonceSize {
		return nil, nil, nil, errors.New("kmsvault: sealed id too short")
	}
	wrappedLen := binary.BigEndian.Uint32(buf[:4])
	rest := buf[4:]
	if uint32(len(rest)) < wrappedLen+nonceSize {
		return nil, nil, nil, errors.New("kmsvault: sealed id truncated")
	}
	wrappedKey = rest[:wrappedLen]
	nonce = rest[wrappedLen : wrappedLen+nonceSize]
	ciphertext = rest[wrappedLen+nonceSize:]
	return wrappedKey, nonce, ciphertext, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
