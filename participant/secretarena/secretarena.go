// Package secretarena holds ceremony-scoped secret material — ECDSA key
// shares and the intermediate randomness rounds produce — encrypted at
// rest in locked, non-swappable memory via awnumar/memguard, the same
// enclave-until-use idiom the teacher pack's signer.SessionManager uses
// for session keys. An Arena is destroyed when its ceremony reaches a
// Terminal state, is cancelled, or its process unwinds from a panic.
package secretarena

import (
	"sync"

	"github.com/awnumar/memguard"
	"github.com/pkg/errors"
)

// ErrNotFound is returned by Use when no secret is stored under name.
var ErrNotFound = errors.New("secretarena: no secret under that name")

// ErrDestroyed is returned by Put/Use once the arena has been destroyed.
var ErrDestroyed = errors.New("secretarena: arena already destroyed")

// Arena is a ceremony-scoped collection of secrets, each sealed in its own
// memguard.Enclave. The zero value is not usable; construct with New.
type Arena struct {
	mu        sync.Mutex
	enclaves  map[string]*memguard.Enclave
	destroyed bool
}

// New creates an empty, live arena.
func New() *Arena {
	return &Arena{enclaves: make(map[string]*memguard.Enclave)}
}

// Put seals a copy of secret under name, overwriting any previous value
// stored there. The caller's slice is not modified; callers that hold the
// only other copy should zero it themselves once Put returns.
func (a *Arena) Put(name string, secret []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.destroyed {
		return ErrDestroyed
	}
	buf := make([]byte, len(secret))
	copy(buf, secret)
	a.enclaves[name] = memguard.NewEnclave(buf)
	return nil
}

// Use opens the named secret into locked memory for the duration of fn,
// then destroys the locked buffer immediately on return — the plaintext
// never outlives the callback.
func (a *Arena) Use(name string, fn func(secret []byte) error) error {
	a.mu.Lock()
	enc, ok := a.enclaves[name]
	destroyed := a.destroyed
	a.mu.Unlock()
	if destroyed {
		return ErrDestroyed
	}
	if !ok {
		return ErrNotFound
	}

	buf, err := enc.Open()
	if err != nil {
		return errors.Wrap(err, "secretarena: open enclave")
	}
	defer buf.Destroy()

	return fn(buf.Bytes())
}

// Forget destroys and drops a single named secret without tearing down
// the rest of the arena (used once a round's ephemeral nonce is consumed).
func (a *Arena) Forget(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.enclaves, name)
}

// Destroy wipes every secret in the arena. Safe to call more than once and
// safe to defer unconditionally at ceremony start (covers panics).
func (a *Arena) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.destroyed {
		return
	}
	a.enclaves = nil
	a.destroyed = true
}
