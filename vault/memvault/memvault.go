// Package memvault is an in-process vault.Client for tests and local
// development: it seals blobs with golang.org/x/crypto/nacl/secretbox
// under a master key that — unlike vault/kmsvault — lives in this same
// process, so it must never be used in production.
package memvault

import (
	"context"
	cryptorand "crypto/rand"
	"io"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/j04n-f/mpc-waas/vault"
)

const keySize = 32
const nonceSize = 24

var _ vault.Client = (*Vault)(nil)

// Vault is a mutex-guarded map of sealed blobs. The zero value is not
// usable; construct with New.
type Vault struct {
	mu     sync.Mutex
	key    [keySize]byte
	blobs  map[string][]byte // sealedID -> nonce || ciphertext
}

// New creates a Vault sealing under a freshly generated master key.
func New() (*Vault, error) {
	var key [keySize]byte
	if _, err := io.ReadFull(cryptorand.Reader, key[:]); err != nil {
		return nil, errors.Wrap(err, "memvault: generate master key")
	}
	return &Vault{key: key, blobs: make(map[string][]byte)}, nil
}

// Seal implements vault.Client. The sealedID is the caller's key: a
// second Seal under the same key overwrites the blob, matching spec.md
// §4.5's reshare-friendly semantics.
func (v *Vault) Seal(_ context.Context, key string, plaintext []byte) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(cryptorand.Reader, nonce[:]); err != nil {
		return "", errors.Wrap(err, "memvault: generate nonce")
	}

	sealed := make([]byte, nonceSize, nonceSize+len(plaintext)+secretbox.Overhead)
	copy(sealed, nonce[:])
	sealed = secretbox.Seal(sealed, plaintext, &nonce, &v.key)

	v.mu.Lock()
	v.blobs[key] = sealed
	v.mu.Unlock()
	return key, nil
}

// Open implements vault.Client.
func (v *Vault) Open(_ context.Context, sealedID string) ([]byte, error) {
	v.mu.Lock()
	sealed, ok := v.blobs[sealedID]
	v.mu.Unlock()
	if !ok {
		return nil, errors.Errorf("memvault: no blob under %q", sealedID)
	}
	if len(sealed) < nonceSize {
		return nil, errors.New("memvault: corrupt blob")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &v.key)
	if !ok {
		return nil, errors.Errorf("memvault: authentication failed for %q", sealedID)
	}
	return plaintext, nil
}

// Destroy implements vault.Client. Idempotent: destroying a sealedID that
// is not present is not an error.
func (v *Vault) Destroy(_ context.Context, sealedID string) error {
	v.mu.Lock()
	delete(v.blobs, sealedID)
	v.mu.Unlock()
	return nil
}
