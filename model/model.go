// Package model holds the serializable, protocol-agnostic records the rest
// of the service operates on: wallets, sealed key shares, ceremonies, and
// relay rooms. None of these types touch cryptography directly — they are
// the handles ceremonyerr, vault, relay, participant and coordinator pass
// around.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/j04n-f/mpc-waas/core/party"
)

// WalletID identifies a wallet across its lifetime.
type WalletID uuid.UUID

func NewWalletID() WalletID { return WalletID(uuid.New()) }
func (w WalletID) String() string { return uuid.UUID(w).String() }

// CeremonyID identifies one DKG or signing run. A ceremony's RoomID is
// always equal to its CeremonyID (spec.md §3, Room).
type CeremonyID uuid.UUID

func NewCeremonyID() CeremonyID { return CeremonyID(uuid.New()) }
func (c CeremonyID) String() string { return uuid.UUID(c).String() }

// RoomID is the relay-side name for a CeremonyID.
type RoomID = CeremonyID

// ShareVersion tags every sealed share so a future reshare/rotation
// ceremony (unspecified by spec.md §9, Non-goal today) can bump it without
// breaking existing vault blobs.
type ShareVersion uint32

// InitialShareVersion is assigned to every share produced by a DKG.
const InitialShareVersion ShareVersion = 1

// CeremonyKind distinguishes the two protocol variants a Ceremony can run.
type CeremonyKind int

const (
	CeremonyDKG CeremonyKind = iota
	CeremonySign
)

func (k CeremonyKind) String() string {
	switch k {
	case CeremonyDKG:
		return "dkg"
	case CeremonySign:
		return "sign"
	default:
		return "unknown"
	}
}

// AbortReason records why a ceremony terminated without success, per
// spec.md §4.2's "Terminal states" taxonomy.
type AbortReason struct {
	Kind  string   // InvalidProof | InconsistentCommitment | RoundTimeout | RelayFailure | Cancelled
	Round int      // round at which the abort occurred, 0 if not round-scoped
	Blame party.ID // offending party, empty if no single party is to blame
}

func (a AbortReason) String() string {
	if a.Blame != "" {
		return fmt.Sprintf("%s{round:%d, blame:%s}", a.Kind, a.Round, a.Blame)
	}
	return fmt.Sprintf("%s{round:%d}", a.Kind, a.Round)
}

// Wallet is the durable record produced by a successful DKG. Immutable
// after creation (spec.md §3, Wallet lifecycle).
type Wallet struct {
	ID        WalletID
	Curve     string
	Threshold int
	N         int
	PublicKey []byte // compressed point Q
	Address   string
	CreatedAt time.Time
}

// ShareKey is the vault path a wallet's i-th share is sealed under:
// wallet/{WalletId}/share/{i}, exactly as spec.md §6 "Persisted state"
// specifies.
func (w Wallet) ShareKey(i party.ID) string {
	return fmt.Sprintf("wallet/%s/share/%s", w.ID, i)
}

// KeyShare is the opaque, per-participant handle to a sealed secret share.
// The plaintext scalar never appears here — only vault's SealedID and
// enough metadata to locate and later destroy the blob.
type KeyShare struct {
	WalletID WalletID
	Index    party.ID
	SealedID string
	Version  ShareVersion
}

// Quorum is the set of participant indices executing one ceremony.
type Quorum []party.ID

func (q Quorum) Contains(id party.ID) bool { return party.Contains([]party.ID(q), id) }

// Ceremony is a single DKG or signing run.
type Ceremony struct {
	ID             CeremonyID
	Kind           CeremonyKind
	WalletID       WalletID // zero value for DKG
	Quorum         Quorum
	Digest         [32]byte // sign only
	RoomID         RoomID
	ExpectedRounds int
	Deadline       time.Time
	Elevated       bool // allows a cold-storage participant into a Sign quorum
}

// Room is the relay's view of one ceremony's pub/sub channel.
type Room struct {
	ID      RoomID
	Members map[party.ID]bool
	NextSeq uint64
}

func NewRoom(id RoomID) *Room {
	return &Room{ID: id, Members: make(map[party.ID]bool)}
}
