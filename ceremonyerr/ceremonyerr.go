// Package ceremonyerr defines the typed error taxonomy surfaced by the
// core, per spec.md §7. Every constructor builds its cause with
// github.com/pkg/errors (the teacher's error-wrapping library), so the
// cause returned by Unwrap carries a stack trace that %+v prints. *Error
// has no Format method: formatting it directly prints Error() only.
package ceremonyerr

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/j04n-f/mpc-waas/core/party"
)

// Kind is one of the six error kinds spec.md §7 names.
type Kind string

const (
	KindProtocolAbort Kind = "protocol_abort"
	KindRoundTimeout  Kind = "round_timeout"
	KindRelayFailure  Kind = "relay_failure"
	KindVaultFailure  Kind = "vault_failure"
	KindInvalidInput  Kind = "invalid_input"
	KindCancelled     Kind = "cancelled"
)

// Error is the concrete type every constructor below returns. Round and
// Blame are zero-valued when not applicable to Kind.
type Error struct {
	Kind  Kind
	Round int
	Blame party.ID
	Op    string // vault operation name, set only for VaultFailure
	cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindProtocolAbort:
		if e.Blame != "" {
			return fmt.Sprintf("ceremony: protocol abort at round %d, blame %s: %v", e.Round, e.Blame, e.cause)
		}
		return fmt.Sprintf("ceremony: protocol abort at round %d: %v", e.Round, e.cause)
	case KindRoundTimeout:
		return fmt.Sprintf("ceremony: round %d timed out", e.Round)
	case KindRelayFailure:
		return fmt.Sprintf("ceremony: relay failure: %v", e.cause)
	case KindVaultFailure:
		return fmt.Sprintf("ceremony: vault %s failed: %v", e.Op, e.cause)
	case KindInvalidInput:
		return fmt.Sprintf("ceremony: invalid input: %v", e.cause)
	case KindCancelled:
		return "ceremony: cancelled"
	default:
		return fmt.Sprintf("ceremony: %s", e.Kind)
	}
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// ProtocolAbort records a cryptographic check failing during a round,
// fatal to the ceremony but not to the participant process.
func ProtocolAbort(round int, blame party.ID, reason error) *Error {
	return &Error{Kind: KindProtocolAbort, Round: round, Blame: blame, cause: errors.WithStack(reason)}
}

// RoundTimeout records a deadline passing before a round completed.
func RoundTimeout(round int) *Error {
	return &Error{Kind: KindRoundTimeout, Round: round, cause: errors.Errorf("round %d timeout", round)}
}

// RelayFailure records a lost subscription, lag eviction, or refused
// broadcast.
func RelayFailure(cause error) *Error {
	return &Error{Kind: KindRelayFailure, cause: errors.WithStack(cause)}
}

// VaultFailure records a seal/open/destroy failure. Fatal if it happens
// while persisting a share on DKG success (spec.md §7 invariant).
func VaultFailure(op string, cause error) *Error {
	return &Error{Kind: KindVaultFailure, Op: op, cause: errors.WithStack(cause)}
}

// InvalidInput records a malformed digest, undersized quorum, or
// duplicate index.
func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, cause: errors.New(msg)}
}

// Cancelled records the coordinator or caller cancelling the ceremony.
func Cancelled() *Error {
	return &Error{Kind: KindCancelled, cause: errors.New("cancelled")}
}

// Is lets errors.Is(err, &ceremonyerr.Error{Kind: ceremonyerr.KindRoundTimeout})
// work by matching on Kind, since Round/Blame vary between instances of the
// same Kind. A target that is not an *Error never matches.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
