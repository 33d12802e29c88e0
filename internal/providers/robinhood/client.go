// Package robinhood implements a typed client for the Robinhood crypto
// trading API. Requests are authenticated with an Ed25519 signature over
// apiKey + timestamp + path + method + body.
package robinhood

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.robinhood.com"

// Position is one crypto holding reported by the trading API.
type Position struct {
	ExternalID string
	Symbol     string
	Quantity   decimal.Decimal
	AssetClass string // always "crypto" for this client
}

// Client is a Robinhood API client.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
	signingKey ed25519.PrivateKey
	now        func() time.Time
}

// NewClient creates a Robinhood client from a base64-encoded Ed25519 seed.
func NewClient(httpClient *http.Client, apiKey, privateKeyB64 string) (*Client, error) {
	seed, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, fmt.Errorf("decoding robinhood private key: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("robinhood private key: expected %d-byte seed, got %d", ed25519.SeedSize, len(seed))
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		signingKey: ed25519.NewKeyFromSeed(seed),
		now:        time.Now,
	}, nil
}

// SetBaseURL overrides the API host. Used by tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }

// authHeaders builds the Ed25519 auth headers for one request.
func (c *Client) authHeaders(method, path, body string) map[string]string {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	message := c.apiKey + timestamp + path + method + body
	signature := ed25519.Sign(c.signingKey, []byte(message))

	return map[string]string{
		"Accept":      "application/json",
		"X-Api-Key":   c.apiKey,
		"X-Timestamp": timestamp,
		"X-Signature": base64.StdEncoding.EncodeToString(signature),
	}
}

// get performs a signed GET request and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	for k, v := range c.authHeaders(http.MethodGet, path, "") {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("robinhood: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// cryptoAccountsResponse mirrors /api/v1/crypto/accounts/.
type cryptoAccountsResponse struct {
	Results []struct {
		ID       string `json:"id"`
		Currency struct {
			Code string `json:"code"`
		} `json:"currency"`
		Balance struct {
			Amount decimal.Decimal `json:"amount"`
		} `json:"balance"`
	} `json:"results"`
}

// GetPositions fetches crypto positions with a non-zero quantity.
func (c *Client) GetPositions(ctx context.Context) ([]Position, error) {
	var out cryptoAccountsResponse
	if err := c.get(ctx, "/api/v1/crypto/accounts/", &out); err != nil {
		return nil, err
	}

	var positions []Position
	for _, r := range out.Results {
		if r.ID == "" || r.Currency.Code == "" {
			continue
		}
		if !r.Balance.Amount.IsPositive() {
			continue
		}
		positions = append(positions, Position{
			ExternalID: r.ID,
			Symbol:     r.Currency.Code,
			Quantity:   r.Balance.Amount,
			AssetClass: "crypto",
		})
	}
	return positions, nil
}
