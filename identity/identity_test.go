package identity

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/j04n-f/mpc-waas/vault/memvault"
)

func TestSealLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	v, err := memvault.New()
	if err != nil {
		t.Fatalf("memvault.New: %v", err)
	}

	id, err := Generate("1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	sealedID, err := id.Seal(ctx, v)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	loaded, err := Load(ctx, v, "1", sealedID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.Public().Equal(id.Public()) {
		t.Fatalf("loaded public key does not match the original")
	}

	digest := []byte("round trip digest")
	sig := loaded.Sign(digest)
	if !ed25519.Verify(loaded.Public(), digest, sig) {
		t.Fatalf("signature from loaded identity did not verify")
	}
}

func TestDestroyZeroizesKey(t *testing.T) {
	id, err := Generate("1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	id.Destroy()
	id.Destroy() // idempotent

	for _, b := range id.priv {
		if b != 0 {
			t.Fatalf("private key not zeroized after Destroy")
		}
	}
}
