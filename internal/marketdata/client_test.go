package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), "test-key")
	client.SetBaseURL(server.URL)
	return client, server
}

func TestQuote(t *testing.T) {
	t.Run("stock_quote", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
				t.Errorf("expected GLOBAL_QUOTE, got %s", got)
			}
			if got := r.URL.Query().Get("symbol"); got != "AAPL" {
				t.Errorf("expected symbol AAPL, got %s", got)
			}
			_, _ = w.Write([]byte(`{"Global Quote": {"05. price": "201.5000"}}`))
		})

		price, err := client.Quote(context.Background(), "stock", "AAPL")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !price.Equal(decimal.NewFromFloat(201.5)) {
			t.Errorf("expected 201.5, got %s", price)
		}
	})

	t.Run("crypto_quote", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("function"); got != "CURRENCY_EXCHANGE_RATE" {
				t.Errorf("expected CURRENCY_EXCHANGE_RATE, got %s", got)
			}
			if got := r.URL.Query().Get("from_currency"); got != "BTC" {
				t.Errorf("expected from_currency BTC, got %s", got)
			}
			_, _ = w.Write([]byte(`{"Realtime Currency Exchange Rate": {"5. Exchange Rate": "60123.45"}}`))
		})

		price, err := client.Quote(context.Background(), "crypto", "BTC")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !price.Equal(decimal.NewFromFloat(60123.45)) {
			t.Errorf("expected 60123.45, got %s", price)
		}
	})

	t.Run("rate_limit_note_is_an_error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
		})

		if _, err := client.Quote(context.Background(), "stock", "AAPL"); err == nil {
			t.Error("expected error on rate limit note")
		}
	})

	t.Run("unknown_symbol_is_an_error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Error Message": "Invalid API call."}`))
		})

		if _, err := client.Quote(context.Background(), "stock", "NOPE"); err == nil {
			t.Error("expected error on unknown symbol")
		}
	})

	t.Run("empty_payload_is_an_error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})

		if _, err := client.Quote(context.Background(), "stock", "AAPL"); err == nil {
			t.Error("expected error on empty payload")
		}
	})
}
