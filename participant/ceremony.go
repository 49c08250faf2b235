// Package participant hosts the node-side ceremony runner: the generic
// Ceremony wrapper that drives any lib/round.Session to completion
// regardless of which protocol produced it; callers feed it inbound
// messages. Keeping the driver generic
// over round.Session is what lets CGGMP21 (DKG, sign) and FROST share one
// orchestration path, the polymorphism DESIGN.md calls out.
package participant

import (
	"sync"
	"time"

	"github.com/j04n-f/mpc-waas/ceremonyerr"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/lib/round"
	"github.com/j04n-f/mpc-waas/metrics"
	"github.com/j04n-f/mpc-waas/model"
)

// Terminal is what a Ceremony produces once its round chain reaches an
// Output or Abort session.
type Terminal struct {
	Kind   model.CeremonyKind
	Output interface{} // *config.Config for DKG; *ecdsa.Signature for CGGMP21 Sign, *frost/sign.Signature for FROST Sign
	Err    *ceremonyerr.Error
}

// Ceremony drives one protocol run's round.Session forward as inbound
// messages arrive, independent of which protocol owns the session —
// CGGMP21 and FROST ceremonies are both just a Ceremony around their
// first round.Session.
type Ceremony struct {
	mu sync.Mutex

	id       model.CeremonyID
	kind     model.CeremonyKind
	session  round.Session
	deadline time.Time
	pending  []*round.Message // messages for rounds after the current one

	metrics       *metrics.Metrics
	roundStarted  time.Time
	reportedStart bool
	reportedEnd   bool
}

// New wraps a protocol's first round as a Ceremony. first is typically
// the return value of keygen.Start or sign.Start (or the FROST
// equivalents).
func New(id model.CeremonyID, kind model.CeremonyKind, first round.Session, deadline time.Time) *Ceremony {
	return &Ceremony{id: id, kind: kind, session: first, deadline: deadline, roundStarted: time.Now()}
}

// NewWithMetrics is New, additionally reporting ceremony/round outcomes
// into m.
func NewWithMetrics(id model.CeremonyID, kind model.CeremonyKind, first round.Session, deadline time.Time, m *metrics.Metrics) *Ceremony {
	c := New(id, kind, first, deadline)
	c.metrics = m
	return c
}

// ID returns the ceremony's identifier.
func (c *Ceremony) ID() model.CeremonyID { return c.id }

// Deadline returns the time, set once in New and shared by every round,
// after which Advance aborts the ceremony with a round timeout.
func (c *Ceremony) Deadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deadline
}

// Number reports the round the ceremony is currently waiting on.
func (c *Ceremony) Number() round.Number {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Number()
}

// Advance stores inbound messages for the current round, keeps messages
// for later rounds until the ceremony reaches them, drops messages for
// earlier rounds, and — if that completes the round — finalizes it,
// returning the resulting
// outbound messages and, if the ceremony reached a terminal state, its
// Terminal. A non-nil error is a bug in the ceremony driver itself,
// never a protocol-level failure (those surface as an aborted Terminal).
func (c *Ceremony) Advance(now time.Time, inbound []*round.Message) ([]*round.Message, *Terminal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reportStartLocked()

	if term := c.checkTerminal(); term != nil {
		c.reportTerminalLocked(term)
		return nil, term, nil
	}

	if now.After(c.deadline) {
		term := c.abort(ceremonyerr.RoundTimeout(int(c.session.Number())))
		c.reportTerminalLocked(term)
		return nil, term, nil
	}

	inbound = append(c.pending, inbound...)
	c.pending = nil
	current := c.session.Number()
	for _, msg := range inbound {
		if n := msg.Content.RoundNumber(); n > current {
			c.pending = append(c.pending, msg)
			continue
		} else if n < current {
			continue
		}
		if err := c.storeLocked(msg); err != nil {
			term := c.abort(ceremonyerr.ProtocolAbort(int(c.session.Number()), msg.From, err))
			c.reportTerminalLocked(term)
			return nil, term, nil
		}
	}

	if !c.session.CanFinalize() {
		return nil, nil, nil
	}

	outbound, next, err := finalize(c.session)
	if err != nil {
		term := c.abort(ceremonyerr.ProtocolAbort(int(c.session.Number()), "", err))
		c.reportTerminalLocked(term)
		return nil, term, nil
	}
	c.reportRoundLocked()
	c.session = next

	term := c.checkTerminal()
	c.reportTerminalLocked(term)
	return outbound, term, nil
}

func (c *Ceremony) reportStartLocked() {
	if c.metrics == nil || c.reportedStart {
		return
	}
	c.reportedStart = true
	c.metrics.CeremoniesStarted.WithLabelValues(c.kind.String()).Inc()
}

func (c *Ceremony) reportRoundLocked() {
	if c.metrics == nil {
		return
	}
	c.metrics.RoundDuration.WithLabelValues(c.kind.String()).Observe(time.Since(c.roundStarted).Seconds())
	c.roundStarted = time.Now()
}

func (c *Ceremony) reportTerminalLocked(term *Terminal) {
	if c.metrics == nil || term == nil || c.reportedEnd {
		return
	}
	c.reportedEnd = true
	outcome := "success"
	if term.Err != nil {
		outcome = string(term.Err.Kind)
	}
	c.metrics.CeremoniesCompleted.WithLabelValues(c.kind.String(), outcome).Inc()
}

func (c *Ceremony) storeLocked(msg *round.Message) error {
	if msg.Broadcast {
		br, ok := c.session.(round.BroadcastRound)
		if !ok {
			return round.ErrInvalidContent
		}
		return br.StoreBroadcastMessage(*msg)
	}
	if err := c.session.VerifyMessage(*msg); err != nil {
		return err
	}
	return c.session.StoreMessage(*msg)
}

// checkTerminal reports the ceremony's Terminal if its current session is
// already Output or Abort (e.g. on the call immediately after Finalize
// produced one, or a second Advance call after termination).
func (c *Ceremony) checkTerminal() *Terminal {
	switch s := c.session.(type) {
	case *round.Output:
		return &Terminal{Kind: c.kind, Output: s.Result}
	case *round.Abort:
		return &Terminal{Kind: c.kind, Err: asAbortErr(s.Err)}
	default:
		return nil
	}
}

func (c *Ceremony) abort(err *ceremonyerr.Error) *Terminal {
	c.session = &round.Abort{Err: err}
	return &Terminal{Kind: c.kind, Err: err}
}

func asAbortErr(err error) *ceremonyerr.Error {
	if ce, ok := err.(*ceremonyerr.Error); ok {
		return ce
	}
	return ceremonyerr.ProtocolAbort(0, party.ID(""), err)
}

// finalize runs session.Finalize on a goroutine so BroadcastMessage's
// synchronous channel sends never deadlock against this function
// draining the same channel.
func finalize(session round.Session) ([]*round.Message, round.Session, error) {
	out := make(chan *round.Message)
	type result struct {
		next round.Session
		err  error
	}
	resultc := make(chan result, 1)
	go func() {
		next, err := session.Finalize(out)
		close(out)
		resultc <- result{next, err}
	}()

	var outbound []*round.Message
	for msg := range out {
		outbound = append(outbound, msg)
	}
	res := <-resultc
	return outbound, res.next, res.err
}
