package models

import (
	"github.com/shopspring/decimal"
)

// AccountSource identifies which provider a unified account was synced from.
type AccountSource string

const (
	SourcePlaid           AccountSource = "plaid"
	SourcePlaidInvestment AccountSource = "plaid_investment"
	SourceRobinhood       AccountSource = "robinhood"
	SourceCoinbase        AccountSource = "coinbase"
	SourceManual          AccountSource = "manual"
)

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeDepository AccountType = "depository"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCrypto     AccountType = "crypto"
	AccountTypeLoan       AccountType = "loan"
)

// BalanceKind distinguishes what unit an account's balance is expressed in.
type BalanceKind string

const (
	// BalanceCash means the balance is a currency amount.
	BalanceCash BalanceKind = "cash"
	// BalanceQuantity means the balance is a share or coin count and must
	// be multiplied by a price before it can be treated as money.
	BalanceQuantity BalanceKind = "quantity"
)

// NativeBalance is an account balance tagged with its unit. Valuation code
// switches on Kind so a share count is never summed as if it were USD.
type NativeBalance struct {
	Kind  BalanceKind
	Value decimal.Decimal
}

// Account is the unified representation of any balance-bearing entity
// synced from a provider or entered manually. (ExternalID, Source) is the
// idempotency key for reconciliation: sync never creates a second row for
// the same pair.
type Account struct {
	Base
	Name           string          `gorm:"not null" json:"name"`
	Source         AccountSource   `gorm:"not null;default:'manual';uniqueIndex:idx_accounts_external_source" json:"source"`
	AccountType    AccountType     `gorm:"not null" json:"account_type"`
	AccountSubtype string          `json:"account_subtype"`
	ExternalID     string          `gorm:"uniqueIndex:idx_accounts_external_source" json:"external_id"`
	Balance        decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"balance"`

	// Link to the provider connection this account came from, when known.
	PlaidItemID *string `gorm:"type:uuid" json:"plaid_item_id,omitempty"`

	// Loan terms. Set by the user or by liability sync; the reconciler
	// never clears them.
	MonthlyPayment    *decimal.Decimal `gorm:"type:numeric" json:"monthly_payment,omitempty"`
	OriginalPrincipal *decimal.Decimal `gorm:"type:numeric" json:"original_principal,omitempty"`
	InterestRate      *decimal.Decimal `gorm:"type:numeric" json:"interest_rate,omitempty"`

	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}

// NativeBalance returns the account's balance tagged with its unit.
// Depository and loan balances are currency amounts; investment and crypto
// balances are share/coin quantities.
func (a *Account) NativeBalance() NativeBalance {
	switch a.AccountType {
	case AccountTypeInvestment, AccountTypeCrypto:
		return NativeBalance{Kind: BalanceQuantity, Value: a.Balance}
	default:
		return NativeBalance{Kind: BalanceCash, Value: a.Balance}
	}
}
