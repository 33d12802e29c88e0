// Package coinbase implements a typed client for the Coinbase Advanced
// Trade API. Each request is authenticated with a short-lived ES256 JWT
// minted from the API key's EC private key.
package coinbase

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

const (
	defaultHost = "api.coinbase.com"
	jwtIssuer   = "cdp"
	jwtLifetime = 2 * time.Minute
)

// Balance is one currency balance with funds available.
type Balance struct {
	ExternalID string
	Currency   string
	Amount     decimal.Decimal
}

// Client is a Coinbase Advanced Trade API client.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	host       string
	keyName    string
	privateKey *ecdsa.PrivateKey
	now        func() time.Time
}

// NewClient creates a Coinbase client from an API key name and its
// PEM-encoded EC private key.
func NewClient(httpClient *http.Client, keyName, privateKeyPEM string) (*Client, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("coinbase private key: no PEM block found")
	}
	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing coinbase private key: %w", err)
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    "https://" + defaultHost,
		host:       defaultHost,
		keyName:    keyName,
		privateKey: key,
		now:        time.Now,
	}, nil
}

// SetBaseURL overrides the API host. Used by tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }

// mintJWT signs a request-scoped token. The uri claim binds the token to
// one method and path.
func (c *Client) mintJWT(method, path string) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": jwtIssuer,
		"sub": c.keyName,
		"nbf": now.Unix(),
		"exp": now.Add(jwtLifetime).Unix(),
		"uri": fmt.Sprintf("%s %s%s", method, c.host, path),
	})
	token.Header["kid"] = c.keyName
	token.Header["nonce"] = hex.EncodeToString(nonce)

	signed, err := token.SignedString(c.privateKey)
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// get performs an authenticated GET request and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	token, err := c.mintJWT(http.MethodGet, path)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("coinbase: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// accountsResponse mirrors /api/v3/brokerage/accounts.
type accountsResponse struct {
	Accounts []struct {
		UUID             string `json:"uuid"`
		Currency         string `json:"currency"`
		AvailableBalance struct {
			Value decimal.Decimal `json:"value"`
		} `json:"available_balance"`
	} `json:"accounts"`
	HasNext bool   `json:"has_next"`
	Cursor  string `json:"cursor"`
}

// GetBalances fetches all brokerage accounts, following the cursor across
// pages, and returns the balances with a positive available amount.
func (c *Client) GetBalances(ctx context.Context) ([]Balance, error) {
	var balances []Balance
	cursor := ""

	for {
		path := "/api/v3/brokerage/accounts?limit=250"
		if cursor != "" {
			path += "&cursor=" + cursor
		}

		var out accountsResponse
		if err := c.get(ctx, path, &out); err != nil {
			return nil, err
		}

		for _, a := range out.Accounts {
			if a.UUID == "" || a.Currency == "" {
				continue
			}
			if !a.AvailableBalance.Value.IsPositive() {
				continue
			}
			balances = append(balances, Balance{
				ExternalID: a.UUID,
				Currency:   a.Currency,
				Amount:     a.AvailableBalance.Value,
			})
		}

		if !out.HasNext || out.Cursor == "" {
			break
		}
		cursor = out.Cursor
	}
	return balances, nil
}
