package round

import (
	"github.com/j04n-f/mpc-waas/core/hash"
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pool"
)

// Helper carries everything every round needs regardless of protocol: the
// party set, the curve, the running transcript hash, and the worker pool
// for concurrent proof work. Every roundN embeds either *Helper directly
// (sign) or a previous round that does (keygen).
type Helper struct {
	// sessionID is the ceremony-wide session identifier mixed into the
	// transcript hash, binding every message to this exact run.
	sessionID []byte

	self      party.ID
	partyIDs  []party.ID
	threshold int
	group     curve.Curve

	h *hash.Hash

	// Pool bounds concurrent zero-knowledge proof work across parties
	// (core/pool.Pool.Parallelize), exactly as the teacher's round1.go
	// uses r.Pool.Parallelize to prove zkenc for every other party.
	Pool *pool.Pool
}

// NewHelper builds the shared round state for a new ceremony.
func NewHelper(sessionID []byte, self party.ID, partyIDs []party.ID, threshold int, group curve.Curve, p *pool.Pool) *Helper {
	if p == nil {
		p = pool.NewPool(0)
	}
	ids := party.Sorted(partyIDs)
	return &Helper{
		sessionID: sessionID,
		self:      self,
		partyIDs:  ids,
		threshold: threshold,
		group:     group,
		h:         hash.New(sessionID),
		Pool:      p,
	}
}

// SelfID returns this participant's ID.
func (h *Helper) SelfID() party.ID { return h.self }

// PartyIDs returns every participant in the ceremony, including self.
func (h *Helper) PartyIDs() []party.ID { return h.partyIDs }

// OtherPartyIDs returns every participant except self.
func (h *Helper) OtherPartyIDs() []party.ID { return party.Remove(h.partyIDs, h.self) }

// N returns the number of participants.
func (h *Helper) N() int { return len(h.partyIDs) }

// Threshold returns t, the number of corruptions tolerated (t+1 parties
// must cooperate to sign).
func (h *Helper) Threshold() int { return h.threshold }

// Group returns the elliptic curve this ceremony operates over.
func (h *Helper) Group() curve.Curve { return h.group }

// Hash returns the running transcript hash.
func (h *Helper) Hash() *hash.Hash { return h.h }

// HashForID returns a transcript hash bound to a specific party, used when
// a proof's Fiat-Shamir challenge must be unique per verifier (zkenc,
// zkaffg: each recipient gets its own challenge derived from the shared
// transcript plus their ID).
func (h *Helper) HashForID(id party.ID) *hash.Hash {
	c := h.h.Clone()
	_ = c.WriteAny([]byte(id))
	return c
}

// UpdateHashState folds items into the shared transcript hash, advancing
// it for every subsequent round (the teacher's r.UpdateHashState(rid)
// call at the end of keygen round3).
func (h *Helper) UpdateHashState(items ...interface{}) {
	_ = h.h.WriteAny(items...)
}

// BroadcastMessage sends content to every other party via out.
func (h *Helper) BroadcastMessage(out chan<- *Message, content BroadcastContent) error {
	for _, id := range h.OtherPartyIDs() {
		out <- &Message{From: h.self, To: id, Content: content, Broadcast: true}
	}
	return nil
}

// SendMessage sends content to a single party via out.
func (h *Helper) SendMessage(out chan<- *Message, content Content, to party.ID) error {
	out <- &Message{From: h.self, To: to, Content: content}
	return nil
}

// AbortRound produces a terminal Session recording why the ceremony
// failed (the teacher's r.AbortRound(err) call in sign round5).
func (h *Helper) AbortRound(err error) Session {
	return &Abort{Helper: h, Err: err}
}

// ResultRound produces a terminal Session carrying the ceremony's output
// (a signature for signing, a Config for keygen).
func (h *Helper) ResultRound(result interface{}) Session {
	return &Output{Helper: h, Result: result}
}

// Abort is a terminal Session: the ceremony failed.
type Abort struct {
	*Helper
	Err error
}

func (*Abort) VerifyMessage(Message) error                        { return nil }
func (*Abort) StoreMessage(Message) error                         { return nil }
func (a *Abort) Finalize(chan<- *Message) (Session, error)        { return a, nil }
func (*Abort) CanFinalize() bool                                  { return true }
func (*Abort) MessageContent() Content                            { return nil }
func (*Abort) Number() Number                                     { return AbortNumber }

// Output is a terminal Session: the ceremony succeeded.
type Output struct {
	*Helper
	Result interface{}
}

func (*Output) VerifyMessage(Message) error                 { return nil }
func (*Output) StoreMessage(Message) error                  { return nil }
func (o *Output) Finalize(chan<- *Message) (Session, error) { return o, nil }
func (*Output) CanFinalize() bool                           { return true }
func (*Output) MessageContent() Content                     { return nil }
func (*Output) Number() Number                              { return OutputNumber }
