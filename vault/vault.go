// Package vault defines the sealed-secret-storage capability spec.md
// §4.5 calls the "vault collaborator": seal, open, destroy a plaintext
// blob under an opaque identifier, with the sealing key never held by the
// participant process itself.
package vault

import "context"

// Client is implemented by every vault backend (vault/memvault for tests
// and local dev, vault/kmsvault for production). All calls are synchronous
// with the caller responsible for imposing a timeout via ctx, per spec.md
// §4.5: "All calls are synchronous with bounded timeouts; on timeout the
// participant treats the ceremony as failed."
type Client interface {
	// Seal encrypts plaintext and stores it under key, returning an
	// opaque sealed identifier Open/Destroy later use. Calling Seal
	// again with the same key overwrites the previous blob.
	Seal(ctx context.Context, key string, plaintext []byte) (sealedID string, err error)

	// Open decrypts and returns the blob sealedID refers to. Ciphertext
	// integrity failure is a hard error (spec.md §4.5).
	Open(ctx context.Context, sealedID string) (plaintext []byte, err error)

	// Destroy removes the blob sealedID refers to. Idempotent: destroying
	// an already-destroyed or never-sealed id returns nil (spec.md §8,
	// "delete_share applied twice has the same effect as applied once").
	Destroy(ctx context.Context, sealedID string) error
}
