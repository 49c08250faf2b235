// Package rpcclient is the coordinator's unary HTTP+JSON client to one
// participant node, grounded on slowdrip-network-slowdrip-miner's
// internal/mediamtx/client.go: a thin *http.Client wrapper with a fixed
// timeout and json.Decoder-based response handling, no RPC framework.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/model"
)

// DefaultTimeout bounds a single RPC round trip. Ceremony rounds have
// their own deadline (model.Ceremony.Deadline); this only guards against
// a participant node hanging on the HTTP layer itself.
const DefaultTimeout = 10 * time.Second

// Client talks to one participant node's HTTP surface
// (POST /ceremonies/dkg, POST /ceremonies/sign, POST /shares/{wallet}/delete).
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

// New wraps a participant node reachable at base (e.g. "http://10.0.1.5:8081").
func New(base string, log zerolog.Logger) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: DefaultTimeout},
		log:  log,
	}
}

// StartDKGRequest asks a participant to join a DKG ceremony for a new
// wallet.
type StartDKGRequest struct {
	CeremonyID model.CeremonyID `json:"ceremony_id"`
	Self       party.ID         `json:"self"`
	Quorum     model.Quorum     `json:"quorum"`
	Threshold  int              `json:"threshold"`
	Deadline   time.Time        `json:"deadline"`
}

// StartDKGResponse carries the wallet this ceremony produced, once the
// participant's own Ceremony reaches a successful Terminal.
type StartDKGResponse struct {
	WalletID  model.WalletID `json:"wallet_id"`
	PublicKey []byte         `json:"public_key"`
}

// StartSignRequest asks a participant to join a signing ceremony over
// digest for wallet.
type StartSignRequest struct {
	CeremonyID model.CeremonyID `json:"ceremony_id"`
	Self       party.ID         `json:"self"`
	WalletID   model.WalletID   `json:"wallet_id"`
	Quorum     model.Quorum     `json:"quorum"`
	Digest     [32]byte         `json:"digest"`
	Deadline   time.Time        `json:"deadline"`
}

// StartSignResponse carries the produced ECDSA signature (r, s in
// big-endian fixed-width encoding).
type StartSignResponse struct {
	R []byte `json:"r"`
	S []byte `json:"s"`
}

// DeleteShareRequest asks a participant to destroy its sealed share for
// wallet, e.g. after a failed ceremony rolls back a partial DKG.
type DeleteShareRequest struct {
	WalletID model.WalletID `json:"wallet_id"`
}

// StartDKG calls POST /ceremonies/dkg.
func (c *Client) StartDKG(ctx context.Context, req StartDKGRequest) (*StartDKGResponse, error) {
	var resp StartDKGResponse
	if err := c.post(ctx, "/ceremonies/dkg", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StartSign calls POST /ceremonies/sign.
func (c *Client) StartSign(ctx context.Context, req StartSignRequest) (*StartSignResponse, error) {
	var resp StartSignResponse
	if err := c.post(ctx, "/ceremonies/sign", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteShare calls POST /shares/{wallet}/delete.
func (c *Client) DeleteShare(ctx context.Context, req DeleteShareRequest) error {
	path := fmt.Sprintf("/shares/%s/delete", req.WalletID)
	return c.post(ctx, path, req, nil)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "rpcclient: encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "rpcclient: build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn().Str("path", path).Err(err).Msg("participant rpc failed")
		return errors.Wrap(err, "rpcclient: do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return errors.Errorf("rpcclient: %s returned %d: %s", path, resp.StatusCode, errBody.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "rpcclient: decode response")
	}
	return nil
}
