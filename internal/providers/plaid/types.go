package plaid

import (
	"github.com/shopspring/decimal"
)

// Balances holds the balance fields of a Plaid account. Current is
// preferred; Available is the fallback when Current is absent.
type Balances struct {
	Current   *decimal.Decimal `json:"current"`
	Available *decimal.Decimal `json:"available"`
}

// AccountData is one account as reported by /accounts/get.
type AccountData struct {
	AccountID string   `json:"account_id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Subtype   string   `json:"subtype"`
	Balances  Balances `json:"balances"`
}

// CurrentBalance resolves the effective balance: current, then available,
// then zero.
func (a AccountData) CurrentBalance() decimal.Decimal {
	if a.Balances.Current != nil {
		return *a.Balances.Current
	}
	if a.Balances.Available != nil {
		return *a.Balances.Available
	}
	return decimal.Zero
}

// Holding is one position within an investment account.
type Holding struct {
	AccountID  string          `json:"account_id"`
	SecurityID string          `json:"security_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// Security describes a holding's instrument.
type Security struct {
	SecurityID   string `json:"security_id"`
	TickerSymbol string `json:"ticker_symbol"`
	Name         string `json:"name"`
}

// HoldingsResponse is the result of /investments/holdings/get.
type HoldingsResponse struct {
	Holdings   []Holding  `json:"holdings"`
	Securities []Security `json:"securities"`
}

// SecurityByID indexes the response's securities for holding lookup.
func (r *HoldingsResponse) SecurityByID() map[string]Security {
	m := make(map[string]Security, len(r.Securities))
	for _, s := range r.Securities {
		m[s.SecurityID] = s
	}
	return m
}

// TransactionData is one transaction in a sync page's added or modified set.
type TransactionData struct {
	TransactionID   string          `json:"transaction_id"`
	AccountID       string          `json:"account_id"`
	Name            string          `json:"name"`
	MerchantName    string          `json:"merchant_name"`
	Amount          decimal.Decimal `json:"amount"`
	ISOCurrencyCode string          `json:"iso_currency_code"`
	Date            string          `json:"date"` // YYYY-MM-DD
	Pending         bool            `json:"pending"`
	Category        []string        `json:"category"`
	CategoryID      string          `json:"category_id"`
}

// RemovedTransaction identifies a transaction deleted upstream.
type RemovedTransaction struct {
	TransactionID string `json:"transaction_id"`
}

// SyncPage is one bounded batch of changes from /transactions/sync.
// Added, Modified, and Removed are disjoint within a page.
type SyncPage struct {
	Added      []TransactionData    `json:"added"`
	Modified   []TransactionData    `json:"modified"`
	Removed    []RemovedTransaction `json:"removed"`
	HasMore    bool                 `json:"has_more"`
	NextCursor string               `json:"next_cursor"`
}

// LiabilityRate is a flattened per-account interest rate from
// /liabilities/get.
type LiabilityRate struct {
	AccountID    string
	InterestRate decimal.Decimal // fraction, e.g. 0.0549
}

// ExchangeResult is the outcome of a public token exchange.
type ExchangeResult struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

// LinkTokenResult carries the short-lived token the frontend uses to open
// Plaid Link.
type LinkTokenResult struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
}
