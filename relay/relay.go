// Package relay implements the room-scoped pub/sub substrate spec.md §4.1
// describes: issue_unique_idx, broadcast, and subscribe over an in-memory,
// per-room ordered log. The relay authenticates envelopes against
// identities registered at room creation; it never interprets payloads.
package relay

import (
	"context"
	"crypto/ed25519"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/metrics"
	"github.com/j04n-f/mpc-waas/model"
	"github.com/j04n-f/mpc-waas/wire"
)

// Sentinel errors matching spec.md §4.1's named failure modes.
var (
	ErrRoomUnknown     = errors.New("relay: unknown room")
	ErrRoomFull        = errors.New("relay: room full")
	ErrUnauthenticated = errors.New("relay: unauthenticated")
	ErrRateLimited     = errors.New("relay: rate limited")
	ErrPayloadTooLarge = errors.New("relay: payload too large")
	ErrLagged          = errors.New("relay: subscriber lagged past the eviction window")
)

// MaxPayloadBytes bounds a single envelope's payload, guarding the
// in-memory log against unbounded growth per broadcast.
const MaxPayloadBytes = 1 << 20

// DefaultBacklog is the number of envelopes a room's ring buffer retains
// before evicting the oldest (spec.md §4.1 "Backpressure").
const DefaultBacklog = 4096

// DefaultRateLimit bounds broadcasts per room per second.
const DefaultRateLimit = 200

const heartbeatInterval = 25 * time.Second

// Envelope is re-exported for callers that only need the relay's API
// surface, not the wire package directly.
type Envelope = wire.Envelope

// Subscription is a live stream of envelopes for one subscriber. Envelopes
// closes (with a prior send on Err, if any) when the subscription ends.
type Subscription struct {
	Envelopes <-chan *Envelope
	Err       <-chan error

	cancel func()
}

// Close ends the subscription and releases its room-side resources.
func (s *Subscription) Close() { s.cancel() }

type subscriber struct {
	id   int
	ch   chan *Envelope
	errc chan error
}

type room struct {
	mu sync.Mutex

	n          int
	identities map[party.ID]ed25519.PublicKey
	idxByKey   map[string]party.ID
	nextIdx    int

	seq       uint64
	log       []*Envelope // ring buffer
	oldestSeq uint64      // seq of the newest evicted envelope (0 before any eviction); log[0] has seq oldestSeq+1, and log is empty when oldestSeq == seq
	backlog   int

	subs    map[int]*subscriber
	nextSub int

	rateWindowStart time.Time
	rateCount       int
	rateLimit       int

	lastActivity time.Time
}

func newRoom(n, backlog, rateLimit int) *room {
	return &room{
		n:            n,
		identities:   make(map[party.ID]ed25519.PublicKey),
		idxByKey:     make(map[string]party.ID),
		nextIdx:      1,
		backlog:      backlog,
		subs:         make(map[int]*subscriber),
		rateLimit:    rateLimit,
		lastActivity: time.Now(),
	}
}

// Relay is the room registry. The zero value is not usable; construct
// with New.
type Relay struct {
	mu        sync.Mutex
	rooms     map[model.RoomID]*room
	backlog   int
	rateLimit int
	ttl       time.Duration
	metrics   *metrics.Metrics
}

// New creates a Relay. ttl is the inactivity window after which an empty
// room is eligible for garbage collection (spec.md §3, Room lifecycle).
func New(ttl time.Duration) *Relay {
	return &Relay{
		rooms:     make(map[model.RoomID]*room),
		backlog:   DefaultBacklog,
		rateLimit: DefaultRateLimit,
		ttl:       ttl,
	}
}

// WithMetrics attaches m, so every broadcast and room transition reports
// into it. Returns r for chaining off New.
func (r *Relay) WithMetrics(m *metrics.Metrics) *Relay {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
	return r
}

// CreateRoom lazily creates — or returns the existing — room for roomID,
// sized for n members (spec.md §4.3: "Ask the relay to create the room").
func (r *Relay) CreateRoom(roomID model.RoomID, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = newRoom(n, r.backlog, r.rateLimit)
		if r.metrics != nil {
			r.metrics.RoomsActive.Set(float64(len(r.rooms)))
		}
	}
}

func (r *Relay) getRoom(roomID model.RoomID) (*room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[roomID]
	if !ok {
		return nil, ErrRoomUnknown
	}
	return rm, nil
}

// IssueUniqueIdx implements spec.md §4.1's issue_unique_idx: first-come,
// first-served assignment in [1..n], idempotent per (room, identity).
func (r *Relay) IssueUniqueIdx(roomID model.RoomID, pub ed25519.PublicKey) (party.ID, error) {
	rm, err := r.getRoom(roomID)
	if err != nil {
		return "", err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	key := string(pub)
	if id, ok := rm.idxByKey[key]; ok {
		return id, nil
	}
	if rm.nextIdx > rm.n {
		return "", ErrRoomFull
	}
	id := party.ID(strconv.Itoa(rm.nextIdx))
	rm.nextIdx++
	rm.idxByKey[key] = id
	rm.identities[id] = append(ed25519.PublicKey(nil), pub...)
	rm.lastActivity = time.Now()
	return id, nil
}

func senderID(env *Envelope) party.ID {
	return party.ID(strconv.Itoa(int(env.SenderIdx)))
}

// Broadcast implements spec.md §4.1's broadcast: authenticate, assign a
// monotonic seq, append to the ordered log, fan out to live subscribers.
func (r *Relay) Broadcast(roomID model.RoomID, env *Envelope) (uint64, error) {
	rm, err := r.getRoom(roomID)
	if err != nil {
		return 0, err
	}

	if len(env.Payload) > MaxPayloadBytes {
		return 0, ErrPayloadTooLarge
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if !rm.checkRateLimitLocked() {
		return 0, ErrRateLimited
	}

	pub, ok := rm.identities[senderID(env)]
	if !ok || !env.Verify(pub) {
		if r.metrics != nil {
			r.metrics.BroadcastsTotal.WithLabelValues("unauthenticated").Inc()
		}
		return 0, ErrUnauthenticated
	}

	rm.seq++
	env.Seq = rm.seq
	rm.log = append(rm.log, env)
	if len(rm.log) > rm.backlog {
		evicted := len(rm.log) - rm.backlog
		rm.log = rm.log[evicted:]
		rm.oldestSeq += uint64(evicted)
	}
	rm.lastActivity = time.Now()

	for _, sub := range rm.subs {
		select {
		case sub.ch <- env:
		default:
			// Subscriber's channel is full: treat like an eviction-lag
			// disconnect rather than block the broadcaster.
			rm.disconnectLockedOne(sub, ErrLagged)
		}
	}
	if r.metrics != nil {
		r.metrics.BroadcastsTotal.WithLabelValues("accepted").Inc()
	}
	return env.Seq, nil
}

func (rm *room) checkRateLimitLocked() bool {
	now := time.Now()
	if now.Sub(rm.rateWindowStart) > time.Second {
		rm.rateWindowStart = now
		rm.rateCount = 0
	}
	rm.rateCount++
	return rm.rateCount <= rm.rateLimit
}

func (rm *room) disconnectLockedOne(sub *subscriber, err error) {
	delete(rm.subs, sub.id)
	select {
	case sub.errc <- err:
	default:
	}
	close(sub.ch)
}

// Subscribe implements spec.md §4.1's subscribe: delivers envelopes with
// seq >= fromSeq in increasing order, then live envelopes as they arrive.
func (r *Relay) Subscribe(ctx context.Context, roomID model.RoomID, fromSeq uint64) (*Subscription, error) {
	rm, err := r.getRoom(roomID)
	if err != nil {
		return nil, err
	}

	rm.mu.Lock()
	if rm.oldestSeq > 0 && fromSeq <= rm.oldestSeq {
		rm.mu.Unlock()
		return nil, ErrLagged
	}

	ch := make(chan *Envelope, rm.backlog)
	var backfillFrom uint64
	if fromSeq > rm.oldestSeq {
		backfillFrom = fromSeq - rm.oldestSeq - 1
	}
	if backfillFrom > uint64(len(rm.log)) {
		backfillFrom = uint64(len(rm.log))
	}
	for _, env := range rm.log[backfillFrom:] {
		ch <- env
	}

	id := rm.nextSub
	rm.nextSub++
	sub := &subscriber{id: id, ch: ch, errc: make(chan error, 1)}
	rm.subs[id] = sub
	rm.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	go func() {
		<-subCtx.Done()
		rm.mu.Lock()
		if _, ok := rm.subs[id]; ok {
			delete(rm.subs, id)
			close(ch)
		}
		rm.mu.Unlock()
	}()

	return &Subscription{Envelopes: ch, Err: sub.errc, cancel: cancel}, nil
}

// HeartbeatInterval is the maximum gap between relay pushes to a live
// subscriber (spec.md §4.1: "heartbeats at a bounded interval").
func HeartbeatInterval() time.Duration { return heartbeatInterval }

// GC drops rooms that have had no activity for longer than the relay's
// configured ttl (spec.md §3, Room: "garbage-collected after inactivity
// TTL").
func (r *Relay) GC() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for id, rm := range r.rooms {
		rm.mu.Lock()
		idle := len(rm.subs) == 0 && now.Sub(rm.lastActivity) > r.ttl
		rm.mu.Unlock()
		if idle {
			delete(r.rooms, id)
		}
	}
	if r.metrics != nil {
		r.metrics.RoomsActive.Set(float64(len(r.rooms)))
	}
}
