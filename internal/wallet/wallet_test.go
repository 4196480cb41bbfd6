package wallet

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeypair() (ed25519.PrivateKey, string) {
	seed := bytes.Repeat([]byte{7}, ed25519.SeedSize)
	priv := ed25519.NewKeyFromSeed(seed)
	return priv, base58.Encode(priv.Public().(ed25519.PublicKey))
}

func TestAddressFromPrivateKey(t *testing.T) {
	priv, wantAddress := testKeypair()

	// 64-byte secret-key form.
	got, err := AddressFromPrivateKey(base58.Encode(priv))
	require.NoError(t, err)
	assert.Equal(t, wantAddress, got)

	// 32-byte seed form.
	got, err = AddressFromPrivateKey(base58.Encode(priv.Seed()))
	require.NoError(t, err)
	assert.Equal(t, wantAddress, got)
}

func TestAddressFromPrivateKey_Invalid(t *testing.T) {
	_, err := AddressFromPrivateKey("not-base58-0OIl")
	require.Error(t, err)

	// Valid base58 but the wrong key length.
	_, err = AddressFromPrivateKey(base58.Encode([]byte{1, 2, 3}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 bytes")
}

func TestBalance(t *testing.T) {
	priv, wantAddress := testKeypair()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string        `json:"method"`
			Params []interface{} `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getBalance", req.Method)
		require.Len(t, req.Params, 1)
		assert.Equal(t, wantAddress, req.Params[0])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","result":{"context":{"slot":1},"value":14556317},"id":1}`))
	}))
	defer srv.Close()

	client, err := NewClient(base58.Encode(priv), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, wantAddress, client.Address())

	balance, err := client.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(14556317), balance.Lamports)
	assert.InDelta(t, 0.014556, balance.SOL, 1e-9)
	assert.Equal(t, wantAddress, balance.Address)
}

func TestBalance_RPCError(t *testing.T) {
	priv, _ := testKeypair()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32602,"message":"Invalid params"},"id":1}`))
	}))
	defer srv.Close()

	client, err := NewClient(base58.Encode(priv), srv.URL)
	require.NoError(t, err)

	_, err = client.Balance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid params")
}
