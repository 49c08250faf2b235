// Package identity holds the process-wide long-term Ed25519 identity key
// (spec.md §9 "Global participant identity"): loaded once at startup from
// a sealed blob, injected into the wire codec as a signer capability, and
// zeroized at tear-down. No other component reads the private key.
package identity

import (
	"context"
	"crypto/ed25519"
	cryptorand "crypto/rand"

	"github.com/pkg/errors"

	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/vault"
)

// Identity wraps one participant's long-term signing key.
type Identity struct {
	Self party.ID
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// Generate creates a fresh identity keypair, used the first time a
// participant starts up.
func Generate(self party.ID) (*Identity, error) {
	pub, priv, err := ed25519.GenerateKey(cryptorand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "identity: generate key")
	}
	return &Identity{Self: self, pub: pub, priv: priv}, nil
}

// sealedKey is the vault path the identity key is sealed under, distinct
// from any wallet share key.
const sealedKey = "identity/key"

// Load opens the identity's sealed blob from v (spec.md §9: "initialized
// at startup from a configured sealed blob").
func Load(ctx context.Context, v vault.Client, self party.ID, sealedID string) (*Identity, error) {
	plaintext, err := v.Open(ctx, sealedID)
	if err != nil {
		return nil, errors.Wrap(err, "identity: open sealed key")
	}
	defer zero(plaintext)
	if len(plaintext) != ed25519.PrivateKeySize {
		return nil, errors.New("identity: sealed blob has wrong size for an ed25519 key")
	}
	priv := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	copy(priv, plaintext)
	return &Identity{Self: self, pub: priv.Public().(ed25519.PublicKey), priv: priv}, nil
}

// Seal persists id's private key into v under sealedKey, returning the
// sealed identifier Load needs to recover it.
func (id *Identity) Seal(ctx context.Context, v vault.Client) (string, error) {
	sealedID, err := v.Seal(ctx, sealedKey, id.priv)
	if err != nil {
		return "", errors.Wrap(err, "identity: seal key")
	}
	return sealedID, nil
}

// Public returns this identity's public key, the value every peer
// registers at room creation to verify this party's envelopes.
func (id *Identity) Public() ed25519.PublicKey { return id.pub }

// Sign implements wire.Signer.
func (id *Identity) Sign(digest []byte) []byte {
	return ed25519.Sign(id.priv, digest)
}

// Destroy zeroizes the private key material. Idempotent.
func (id *Identity) Destroy() {
	zero(id.priv)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
