// Package http exposes relay.Relay over HTTP, grounded on the teacher
// pack's one Gin-based wallet service example for the request/response
// shapes and on slowdrip-network-slowdrip-miner's internal/api/server.go
// for the healthz/readyz/metrics surface. The subscribe stream uses
// gin-contrib/sse directly (not gin.Context.SSEvent) so heartbeats can be
// interleaved with envelope events on the same encoder.
package http

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/j04n-f/mpc-waas/metrics"
	"github.com/j04n-f/mpc-waas/relay"
	"github.com/j04n-f/mpc-waas/wire"
)

// Router builds the relay's HTTP surface. m is optional; with nil,
// /metrics serves the default Prometheus registry (promhttp.Handler)
// instead of m's.
func Router(r *relay.Relay, m *metrics.Metrics) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	engine.GET("/readyz", func(c *gin.Context) { c.String(http.StatusOK, "ready") })
	if m != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	} else {
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	rooms := engine.Group("/rooms/:room_id")
	rooms.POST("/issue_unique_idx", issueUniqueIdx(r))
	rooms.POST("/broadcast", broadcast(r))
	rooms.GET("/subscribe", subscribe(r))

	return engine
}

func roomID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed room_id"})
		return uuid.UUID{}, false
	}
	return id, true
}

// issueUniqueIdxRequest carries the participant's identity public key and
// a proof-of-possession signature over the room id, per spec.md §4.1:
// "Unauthenticated if identity proof is invalid".
type issueUniqueIdxRequest struct {
	Identity string `json:"identity"` // base64 ed25519 public key
	Proof    string `json:"proof"`    // base64 signature over room_id bytes
}

func issueUniqueIdx(r *relay.Relay) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := roomID(c)
		if !ok {
			return
		}
		var req issueUniqueIdxRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		pub, err := base64.StdEncoding.DecodeString(req.Identity)
		if err != nil || len(pub) != ed25519.PublicKeySize {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid identity"})
			return
		}
		proof, err := base64.StdEncoding.DecodeString(req.Proof)
		if err != nil || !ed25519.Verify(ed25519.PublicKey(pub), id[:], proof) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid identity proof"})
			return
		}

		idx, err := r.IssueUniqueIdx(id, ed25519.PublicKey(pub))
		switch err {
		case nil:
			c.JSON(http.StatusOK, gin.H{"index": idx})
		case relay.ErrRoomFull:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case relay.ErrRoomUnknown:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}

func broadcast(r *relay.Relay) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := roomID(c)
		if !ok {
			return
		}
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var env wire.Envelope
		if err := env.UnmarshalBinary(body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		seq, err := r.Broadcast(id, &env)
		switch err {
		case nil:
			c.JSON(http.StatusOK, gin.H{"seq": seq})
		case relay.ErrRoomUnknown:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case relay.ErrUnauthenticated:
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case relay.ErrPayloadTooLarge:
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case relay.ErrRateLimited:
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}

func subscribe(r *relay.Relay) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := roomID(c)
		if !ok {
			return
		}
		from, _ := strconv.ParseUint(c.Query("from"), 10, 64)

		sub, err := r.Subscribe(c.Request.Context(), id, from)
		if err != nil {
			if err == relay.ErrRoomUnknown {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if err == relay.ErrLagged {
				c.JSON(http.StatusGone, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer sub.Close()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		ticker := time.NewTicker(relay.HeartbeatInterval())
		defer ticker.Stop()

		streamEnvelopes(c.Request.Context(), c.Writer, sub, ticker)
	}
}

// streamEnvelopes pushes backfilled and live envelopes as SSE "message"
// events and idle ticks as "heartbeat" events, until the client
// disconnects, the subscription errors (spec.md §4.1 Lagged), or the
// subscriber's channel closes.
func streamEnvelopes(ctx context.Context, w gin.ResponseWriter, sub *relay.Subscription, ticker *time.Ticker) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-sub.Err:
			if ok && err != nil {
				_ = sse.Encode(w, sse.Event{Event: "error", Data: err.Error()})
				w.Flush()
			}
			return
		case env, ok := <-sub.Envelopes:
			if !ok {
				return
			}
			data, err := env.MarshalBinary()
			if err != nil {
				continue
			}
			_ = sse.Encode(w, sse.Event{
				Event: "message",
				Id:    strconv.FormatUint(env.Seq, 10),
				Data:  base64.StdEncoding.EncodeToString(data),
			})
			w.Flush()
		case <-ticker.C:
			_ = sse.Encode(w, sse.Event{Event: "heartbeat", Data: time.Now().UTC().Format(time.RFC3339)})
			w.Flush()
		}
	}
}
