package coordinator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/coordinator/rpcclient"
	"github.com/j04n-f/mpc-waas/model"
)

func fakeParticipant(t *testing.T, publicKey []byte, walletID model.WalletID) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ceremonies/dkg", func(w http.ResponseWriter, r *http.Request) {
		var req rpcclient.StartDKGRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(rpcclient.StartDKGResponse{WalletID: walletID, PublicKey: publicKey})
	})
	mux.HandleFunc("/ceremonies/sign", func(w http.ResponseWriter, r *http.Request) {
		var req rpcclient.StartSignRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(rpcclient.StartSignResponse{R: []byte("r"), S: []byte("s")})
	})
	mux.HandleFunc("/shares/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return httptest.NewServer(mux)
}

func newParticipants(t *testing.T, ids []party.ID, publicKey []byte, walletID model.WalletID) ([]Participant, func()) {
	t.Helper()
	var participants []Participant
	var servers []*httptest.Server
	for _, id := range ids {
		srv := fakeParticipant(t, publicKey, walletID)
		servers = append(servers, srv)
		participants = append(participants, Participant{ID: id, Client: rpcclient.New(srv.URL, zerolog.Nop())})
	}
	return participants, func() {
		for _, s := range servers {
			s.Close()
		}
	}
}

func TestSelectQuorumDKGUsesEveryParticipant(t *testing.T) {
	ids := []party.ID{"1", "2", "3"}
	participants, cleanup := newParticipants(t, ids, nil, model.WalletID{})
	defer cleanup()

	c := New(participants, 1, []party.ID{"3"}, time.Minute)
	quorum := c.SelectQuorum(model.CeremonyDKG, false)
	require.ElementsMatch(t, ids, []party.ID(quorum))
}

func TestSelectQuorumSignExcludesColdUnlessElevated(t *testing.T) {
	ids := []party.ID{"1", "2", "3"}
	participants, cleanup := newParticipants(t, ids, nil, model.WalletID{})
	defer cleanup()

	c := New(participants, 1, []party.ID{"3"}, time.Minute)

	quorum := c.SelectQuorum(model.CeremonySign, false)
	require.ElementsMatch(t, []party.ID{"1", "2"}, []party.ID(quorum))

	elevated := c.SelectQuorum(model.CeremonySign, true)
	require.ElementsMatch(t, ids, []party.ID(elevated))
}

func TestCreateWalletAgreesOnPublicKey(t *testing.T) {
	ids := []party.ID{"1", "2", "3"}
	walletID := model.NewWalletID()
	publicKey := []byte("the-public-key")
	participants, cleanup := newParticipants(t, ids, publicKey, walletID)
	defer cleanup()

	c := New(participants, 1, nil, time.Minute)
	wallet, err := c.CreateWallet(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, walletID, wallet.ID)
	require.Equal(t, publicKey, wallet.PublicKey)
	require.Equal(t, 3, wallet.N)
}

func TestCreateWalletRejectsUndersizedQuorum(t *testing.T) {
	ids := []party.ID{"1"}
	participants, cleanup := newParticipants(t, ids, nil, model.WalletID{})
	defer cleanup()

	c := New(participants, 2, nil, time.Minute)
	_, err := c.CreateWallet(context.Background(), 2)
	require.Error(t, err)
}

func TestSignRejectsDisagreeingSigners(t *testing.T) {
	ids := []party.ID{"1", "2"}
	var servers []*httptest.Server
	var participants []Participant
	for i, id := range ids {
		r, s := []byte("r1"), []byte("s1")
		if i == 1 {
			r, s = []byte("r2"), []byte("s2")
		}
		mux := http.NewServeMux()
		mux.HandleFunc("/ceremonies/sign", func(w http.ResponseWriter, r2 *http.Request) {
			json.NewEncoder(w).Encode(rpcclient.StartSignResponse{R: r, S: s})
		})
		srv := httptest.NewServer(mux)
		servers = append(servers, srv)
		participants = append(participants, Participant{ID: id, Client: rpcclient.New(srv.URL, zerolog.Nop())})
	}
	defer func() {
		for _, s := range servers {
			s.Close()
		}
	}()

	c := New(participants, 1, nil, time.Minute)
	wallet := model.Wallet{ID: model.NewWalletID(), Threshold: 1, N: 2}
	_, _, err := c.Sign(context.Background(), wallet, [32]byte{}, false)
	require.Error(t, err)
}
