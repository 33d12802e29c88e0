package robinhood

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, ed25519.PublicKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.Client(), "api-key", base64.StdEncoding.EncodeToString(priv.Seed()))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	client.SetBaseURL(server.URL)
	return client, pub
}

func TestNewClientRejectsBadKey(t *testing.T) {
	if _, err := NewClient(http.DefaultClient, "k", "not-base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	short := base64.StdEncoding.EncodeToString([]byte("short"))
	if _, err := NewClient(http.DefaultClient, "k", short); err == nil {
		t.Error("expected error for wrong seed length")
	}
}

func TestGetPositions(t *testing.T) {
	var gotHeaders http.Header
	client, pub := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		_, _ = w.Write([]byte(`{
			"results": [
				{"id": "p1", "currency": {"code": "BTC"}, "balance": {"amount": "0.5"}},
				{"id": "p2", "currency": {"code": "DOGE"}, "balance": {"amount": "0"}},
				{"id": "", "currency": {"code": "ETH"}, "balance": {"amount": "1"}}
			]
		}`))
	})
	client.now = func() time.Time { return time.Unix(1756380000, 0) }

	positions, err := client.GetPositions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Zero balances and malformed entries are dropped.
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}
	if positions[0].Symbol != "BTC" || !positions[0].Quantity.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("unexpected position %+v", positions[0])
	}
	if positions[0].AssetClass != "crypto" {
		t.Errorf("expected crypto asset class, got %s", positions[0].AssetClass)
	}

	// The signature must verify over apiKey + timestamp + path + method.
	signature, err := base64.StdEncoding.DecodeString(gotHeaders.Get("X-Signature"))
	if err != nil {
		t.Fatalf("failed to decode signature: %v", err)
	}
	message := "api-key" + "1756380000" + "/api/v1/crypto/accounts/" + http.MethodGet
	if !ed25519.Verify(pub, []byte(message), signature) {
		t.Error("expected signature to verify")
	}
	if gotHeaders.Get("X-Api-Key") != "api-key" {
		t.Error("expected api key header")
	}
}

func TestGetPositionsServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := client.GetPositions(context.Background()); err == nil {
		t.Error("expected error on non-200 response")
	}
}
