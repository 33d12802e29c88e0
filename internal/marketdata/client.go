// Package marketdata fetches current USD prices for stocks and crypto and
// caches them in-process with a short TTL.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://www.alphavantage.co"

// Quoter fetches a current USD price for a symbol in an asset class.
type Quoter interface {
	Quote(ctx context.Context, assetClass, symbol string) (decimal.Decimal, error)
}

// Client fetches quotes from Alpha Vantage. Stock symbols use GLOBAL_QUOTE;
// crypto symbols use CURRENCY_EXCHANGE_RATE against USD.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
}

// NewClient creates a market data client.
func NewClient(httpClient *http.Client, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

// SetBaseURL overrides the API host. Used by tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }

// apiResponse covers both quote shapes plus the API's soft-failure fields.
// Alpha Vantage returns 200 with a "Note" when rate limited and an
// "Error Message" for unknown symbols.
type apiResponse struct {
	GlobalQuote struct {
		Price string `json:"05. price"`
	} `json:"Global Quote"`
	ExchangeRate struct {
		Rate string `json:"5. Exchange Rate"`
	} `json:"Realtime Currency Exchange Rate"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// Quote implements Quoter.
func (c *Client) Quote(ctx context.Context, assetClass, symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	switch assetClass {
	case "crypto":
		params.Set("function", "CURRENCY_EXCHANGE_RATE")
		params.Set("from_currency", symbol)
		params.Set("to_currency", "USD")
	default:
		params.Set("function", "GLOBAL_QUOTE")
		params.Set("symbol", symbol)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("market data: unexpected status %d", resp.StatusCode)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return decimal.Zero, fmt.Errorf("decoding response: %w", err)
	}
	if out.Note != "" {
		return decimal.Zero, fmt.Errorf("market data: rate limited")
	}
	if out.ErrorMessage != "" {
		return decimal.Zero, fmt.Errorf("market data: %s", out.ErrorMessage)
	}

	raw := out.GlobalQuote.Price
	if assetClass == "crypto" {
		raw = out.ExchangeRate.Rate
	}
	if raw == "" {
		return decimal.Zero, fmt.Errorf("market data: no price for %s", symbol)
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing price %q: %w", raw, err)
	}
	return price, nil
}
