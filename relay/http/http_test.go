package http

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/j04n-f/mpc-waas/metrics"
	"github.com/j04n-f/mpc-waas/relay"
	"github.com/j04n-f/mpc-waas/wire"
)

func init() { gin.SetMode(gin.TestMode) }

type testSigner struct{ priv ed25519.PrivateKey }

func (s testSigner) Sign(digest []byte) []byte { return ed25519.Sign(s.priv, digest) }

func TestIssueUniqueIdxAndBroadcastOverHTTP(t *testing.T) {
	r := relay.New(time.Minute)
	room := uuid.New()
	r.CreateRoom(room, 2)
	engine := Router(r, nil)

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	proof := ed25519.Sign(priv, room[:])

	body, _ := json.Marshal(issueUniqueIdxRequest{
		Identity: base64.StdEncoding.EncodeToString(pub),
		Proof:    base64.StdEncoding.EncodeToString(proof),
	})
	req := httptest.NewRequest("POST", "/rooms/"+room.String()+"/issue_unique_idx", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	var idxResp struct {
		Index string `json:"index"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &idxResp))
	require.Equal(t, "1", idxResp.Index)

	env := wire.New(room, 1, wire.Broadcast, 1, []byte("hello"))
	env.Sign(testSigner{priv: priv})
	data, err := env.MarshalBinary()
	require.NoError(t, err)

	req = httptest.NewRequest("POST", "/rooms/"+room.String()+"/broadcast", bytes.NewReader(data))
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	var seqResp struct {
		Seq uint64 `json:"seq"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seqResp))
	require.Equal(t, uint64(1), seqResp.Seq)
}

func TestIssueUniqueIdxRejectsBadProof(t *testing.T) {
	r := relay.New(time.Minute)
	room := uuid.New()
	r.CreateRoom(room, 2)
	engine := Router(r, nil)

	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	body, _ := json.Marshal(issueUniqueIdxRequest{
		Identity: base64.StdEncoding.EncodeToString(pub),
		Proof:    base64.StdEncoding.EncodeToString([]byte("not a real signature!!")),
	})
	req := httptest.NewRequest("POST", "/rooms/"+room.String()+"/issue_unique_idx", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, 401, rec.Code)
}

func TestHealthzAndReadyz(t *testing.T) {
	r := relay.New(time.Minute)
	engine := Router(r, nil)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		require.Equal(t, 200, rec.Code, path)
	}
}

func TestMetricsServesRegistryWhenProvided(t *testing.T) {
	m := metrics.New()
	r := relay.New(time.Minute).WithMetrics(m)
	room := uuid.New()
	r.CreateRoom(room, 1)
	engine := Router(r, m)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "mpcwaas_relay_rooms_active")
}

func TestSubscribeUnknownRoomReturns404(t *testing.T) {
	r := relay.New(time.Minute)
	engine := Router(r, nil)

	req := httptest.NewRequest("GET", "/rooms/"+uuid.New().String()+"/subscribe?from=0", nil)
	rec := httptest.NewRecorder()
	ctx, cancel := context.WithTimeout(req.Context(), time.Second)
	defer cancel()
	req = req.WithContext(ctx)
	engine.ServeHTTP(rec, req)
	require.Equal(t, 404, rec.Code)
}
