// Package round defines the state-machine contract every ceremony round
// implements: a Round consumes the previous round's broadcast/P2P
// messages, and its Finalize produces either the next Round or a terminal
// Session (Abort or Output).
package round

import (
	"github.com/pkg/errors"

	"github.com/j04n-f/mpc-waas/core/party"
)

// Number identifies a round within a protocol (1-indexed). Terminal
// sessions use the sentinel values below.
type Number int

const (
	// Undefined is the zero Number, never returned by a real round.
	Undefined Number = 0
	// AbortNumber is returned by Number() on an aborted session.
	AbortNumber Number = -1
	// OutputNumber is returned by Number() on a completed session.
	OutputNumber Number = -2
)

// Sentinel errors returned by Round implementations, matching the
// teacher's round*.go error checks.
var (
	ErrInvalidContent    = errors.New("round: invalid message content")
	ErrNilFields         = errors.New("round: message has nil fields")
	ErrNotEnoughMessages = errors.New("round: not enough messages received to finalize")
	ErrDuplicateMessage  = errors.New("round: duplicate message from party")
)

// Content is protocol message content tagged with the round number it
// belongs to, so a Round can reject content sent for the wrong round.
type Content interface {
	RoundNumber() Number
}

// BroadcastContent is Content that every party must see identically;
// Round.BroadcastContent returns a zero value of the expected type so the
// transport layer knows how to decode an incoming broadcast.
type BroadcastContent interface {
	Content
}

// NormalBroadcastContent is embedded by broadcast content structs that
// carry no extra reliable-broadcast metadata (the teacher's echo-broadcast
// extension point; unused here but kept for API parity).
type NormalBroadcastContent struct{}

// RoundNumber is overridden by each broadcastN type; this default of 0
// must never be the value actually used by a round.
func (NormalBroadcastContent) RoundNumber() Number { return Undefined }

// Message is an inbound or outbound protocol message. To is empty for
// broadcast content.
type Message struct {
	From      party.ID
	To        party.ID
	Content   Content
	Broadcast bool
}

// Round is a single step of a ceremony. A concrete roundN type embeds the
// previous round (roundN embeds *round(N-1)) so Helper and all
// accumulated state flow forward automatically.
type Round interface {
	// VerifyMessage validates an inbound point-to-point message's
	// cryptographic content before StoreMessage is called.
	VerifyMessage(msg Message) error
	// StoreMessage records a verified point-to-point message.
	StoreMessage(msg Message) error
	// Finalize is called once CanFinalize reports true. It returns the
	// next round, a terminal session, or an error.
	Finalize(out chan<- *Message) (Session, error)
	// CanFinalize reports whether every message this round needs has
	// been stored.
	CanFinalize() bool
	// MessageContent returns a zero value of the point-to-point content
	// type this round expects, for transport-layer decoding.
	MessageContent() Content
	// Number identifies this round (or a terminal sentinel).
	Number() Number
}

// BroadcastRound is a Round that also expects a reliably-broadcast
// message every party must receive identically.
type BroadcastRound interface {
	Round
	StoreBroadcastMessage(msg Message) error
	BroadcastContent() BroadcastContent
}

// Session is what Finalize returns: either the next Round, or a terminal
// Abort/Output. All three satisfy Round so a driver loop can treat them
// uniformly.
type Session interface {
	Round
}
