package secretarena

import (
	"bytes"
	"testing"
)

func TestPutUseRoundTrip(t *testing.T) {
	a := New()
	defer a.Destroy()

	if err := a.Put("ecdsa-share", []byte("top secret scalar")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got []byte
	err := a.Use("ecdsa-share", func(secret []byte) error {
		got = append([]byte(nil), secret...)
		return nil
	})
	if err != nil {
		t.Fatalf("Use: %v", err)
	}
	if !bytes.Equal(got, []byte("top secret scalar")) {
		t.Fatalf("got %q, want %q", got, "top secret scalar")
	}
}

func TestUseUnknownNameFails(t *testing.T) {
	a := New()
	defer a.Destroy()

	err := a.Use("missing", func([]byte) error { return nil })
	if err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDestroyPreventsFurtherUse(t *testing.T) {
	a := New()
	if err := a.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	a.Destroy()
	a.Destroy() // idempotent

	if err := a.Put("k2", []byte("v2")); err != ErrDestroyed {
		t.Fatalf("Put after destroy: got %v, want ErrDestroyed", err)
	}
	if err := a.Use("k", func([]byte) error { return nil }); err != ErrDestroyed {
		t.Fatalf("Use after destroy: got %v, want ErrDestroyed", err)
	}
}

func TestForgetDropsOnlyOneSecret(t *testing.T) {
	a := New()
	defer a.Destroy()

	_ = a.Put("nonce", []byte("ephemeral"))
	_ = a.Put("share", []byte("durable"))

	a.Forget("nonce")

	if err := a.Use("nonce", func([]byte) error { return nil }); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if err := a.Use("share", func([]byte) error { return nil }); err != nil {
		t.Fatalf("share should still be present: %v", err)
	}
}
