// Package plaid implements a typed client for the subset of the Plaid API
// this service consumes: token exchange, account and holdings reads,
// cursor-based transaction sync, and liability rates.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Environment hosts.
var hosts = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://sandbox.plaid.com",
	"production":  "https://production.plaid.com",
}

// APIError is a structured error returned by the Plaid API.
type APIError struct {
	ErrorType      string `json:"error_type"`
	ErrorCode      string `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	DisplayMessage string `json:"display_message"`
	StatusCode     int    `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("plaid: %s (%s)", e.ErrorMessage, e.ErrorCode)
}

// IsLoginRequired reports whether err means the item's credentials are
// stale and the user must re-link before any further syncing.
func IsLoginRequired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == "ITEM_LOGIN_REQUIRED"
}

// Client is a Plaid API client bound to one environment and credential pair.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	clientID   string
	secret     string
}

// NewClient creates a Plaid client for the given environment
// (sandbox, development, or production).
func NewClient(httpClient *http.Client, env, clientID, secret string) *Client {
	base, ok := hosts[env]
	if !ok {
		base = hosts["sandbox"]
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		clientID:   clientID,
		secret:     secret,
	}
}

// SetBaseURL overrides the API host. Used by tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }

// post sends a JSON request with credentials injected and decodes the
// response into out. Non-2xx responses are decoded as APIError.
func (c *Client) post(ctx context.Context, path string, body map[string]interface{}, out interface{}) error {
	body["client_id"] = c.clientID
	body["secret"] = c.secret

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			return fmt.Errorf("plaid: unexpected status %d", resp.StatusCode)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// CreateLinkToken creates a short-lived Link token for the fixed local user.
func (c *Client) CreateLinkToken(ctx context.Context, clientUserID string) (*LinkTokenResult, error) {
	var out LinkTokenResult
	err := c.post(ctx, "/link/token/create", map[string]interface{}{
		"user":          map[string]string{"client_user_id": clientUserID},
		"client_name":   "finsmar",
		"products":      []string{"auth", "transactions"},
		"country_codes": []string{"US"},
		"language":      "en",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ExchangePublicToken trades a public token from Link for a long-lived
// access token and item ID.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error) {
	var out ExchangeResult
	err := c.post(ctx, "/item/public_token/exchange", map[string]interface{}{
		"public_token": publicToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAccounts fetches the item's accounts with current balances.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]AccountData, error) {
	var out struct {
		Accounts []AccountData `json:"accounts"`
	}
	err := c.post(ctx, "/accounts/get", map[string]interface{}{
		"access_token": accessToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// GetInvestmentHoldings fetches holdings and their securities for the item.
// Items without the investments product return a typed APIError the caller
// can treat as "no holdings".
func (c *Client) GetInvestmentHoldings(ctx context.Context, accessToken string) (*HoldingsResponse, error) {
	var out HoldingsResponse
	err := c.post(ctx, "/investments/holdings/get", map[string]interface{}{
		"access_token": accessToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SyncTransactions fetches one page of transaction changes at the given
// cursor. An empty cursor starts from the beginning of the item's history.
func (c *Client) SyncTransactions(ctx context.Context, accessToken, cursor string, count int) (*SyncPage, error) {
	var out SyncPage
	err := c.post(ctx, "/transactions/sync", map[string]interface{}{
		"access_token": accessToken,
		"cursor":       cursor,
		"count":        count,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// liabilitiesResponse mirrors the subset of /liabilities/get we consume.
type liabilitiesResponse struct {
	Liabilities struct {
		Mortgage []struct {
			AccountID    string `json:"account_id"`
			InterestRate struct {
				Percentage float64 `json:"percentage"`
			} `json:"interest_rate"`
		} `json:"mortgage"`
		Student []struct {
			AccountID              string  `json:"account_id"`
			InterestRatePercentage float64 `json:"interest_rate_percentage"`
		} `json:"student"`
	} `json:"liabilities"`
}

// GetLiabilities fetches per-account interest rates, flattened across
// liability types and normalized to fractions.
func (c *Client) GetLiabilities(ctx context.Context, accessToken string) ([]LiabilityRate, error) {
	var out liabilitiesResponse
	err := c.post(ctx, "/liabilities/get", map[string]interface{}{
		"access_token": accessToken,
	}, &out)
	if err != nil {
		return nil, err
	}

	var rates []LiabilityRate
	for _, m := range out.Liabilities.Mortgage {
		rates = append(rates, LiabilityRate{
			AccountID:    m.AccountID,
			InterestRate: percentToFraction(m.InterestRate.Percentage),
		})
	}
	for _, s := range out.Liabilities.Student {
		rates = append(rates, LiabilityRate{
			AccountID:    s.AccountID,
			InterestRate: percentToFraction(s.InterestRatePercentage),
		})
	}
	return rates, nil
}

func percentToFraction(pct float64) decimal.Decimal {
	return decimal.NewFromFloat(pct).DivRound(decimal.NewFromInt(100), 8)
}
