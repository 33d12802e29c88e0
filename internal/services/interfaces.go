package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finsmar/internal/models"
	"finsmar/internal/pagination"
	"finsmar/internal/providers/coinbase"
	"finsmar/internal/providers/plaid"
	"finsmar/internal/providers/robinhood"
)

// PlaidAPI is the subset of the Plaid client the services consume.
// Narrowed to an interface so tests can substitute fakes.
type PlaidAPI interface {
	CreateLinkToken(ctx context.Context, clientUserID string) (*plaid.LinkTokenResult, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*plaid.ExchangeResult, error)
	GetAccounts(ctx context.Context, accessToken string) ([]plaid.AccountData, error)
	GetInvestmentHoldings(ctx context.Context, accessToken string) (*plaid.HoldingsResponse, error)
	SyncTransactions(ctx context.Context, accessToken, cursor string, count int) (*plaid.SyncPage, error)
	GetLiabilities(ctx context.Context, accessToken string) ([]plaid.LiabilityRate, error)
}

// RobinhoodAPI is the subset of the Robinhood client the services consume.
type RobinhoodAPI interface {
	GetPositions(ctx context.Context) ([]robinhood.Position, error)
}

// CoinbaseAPI is the subset of the Coinbase client the services consume.
type CoinbaseAPI interface {
	GetBalances(ctx context.Context) ([]coinbase.Balance, error)
}

// AccountUpsert carries the provider-observed state of one account into the
// reconciler. (ExternalID, Source) is the identity key.
type AccountUpsert struct {
	ExternalID     string
	Source         models.AccountSource
	Name           string
	AccountType    models.AccountType
	AccountSubtype string
	Balance        decimal.Decimal
	PlaidItemID    *string
}

// ReconcilerServicer applies provider account state onto the local unified
// account table without ever duplicating or destroying user-entered data.
type ReconcilerServicer interface {
	UpsertAccount(tx *gorm.DB, in AccountUpsert) (*models.Account, bool, error)
	SetInterestRate(tx *gorm.DB, externalID string, source models.AccountSource, rate decimal.Decimal) error
}

// ItemSyncResult summarizes one Plaid item's sync pass.
type ItemSyncResult struct {
	ItemID               string `json:"item_id"`
	AccountsSynced       int    `json:"accounts_synced"`
	HoldingsSynced       int    `json:"holdings_synced"`
	TransactionsAdded    int    `json:"transactions_added"`
	TransactionsModified int    `json:"transactions_modified"`
	TransactionsRemoved  int    `json:"transactions_removed"`
	TransactionsSkipped  int    `json:"transactions_skipped"`
}

// PlaidSyncServicer owns the Plaid side of the sync engine: linking items,
// reconciling their accounts, holdings, and liabilities, and ingesting the
// transaction change feed behind a durable cursor.
type PlaidSyncServicer interface {
	CreateLinkToken(ctx context.Context) (*plaid.LinkTokenResult, error)
	ExchangePublicToken(ctx context.Context, publicToken, institutionID, institutionName string) (*models.PlaidItem, error)
	ListItems() ([]models.PlaidItem, error)
	SyncItem(ctx context.Context, item *models.PlaidItem) (*ItemSyncResult, error)
	PruneTransactions() (int64, error)
}

// AccountValuation is one account's contribution to the portfolio overview.
type AccountValuation struct {
	AccountID     string               `json:"account_id"`
	Name          string               `json:"name"`
	Source        models.AccountSource `json:"source"`
	AccountType   models.AccountType   `json:"account_type"`
	BalanceKind   models.BalanceKind   `json:"balance_kind"`
	NativeBalance decimal.Decimal      `json:"native_balance"`
	PriceUSD      *decimal.Decimal     `json:"price_usd,omitempty"`
	ValueUSD      decimal.Decimal      `json:"value_usd"`
}

// PortfolioOverview is the full valuation of the unified account table.
// Loans are reported but excluded from TotalNetWorth.
type PortfolioOverview struct {
	TotalNetWorth   decimal.Decimal    `json:"total_net_worth"`
	CashTotal       decimal.Decimal    `json:"cash_total"`
	InvestmentTotal decimal.Decimal    `json:"investment_total"`
	CryptoTotal     decimal.Decimal    `json:"crypto_total"`
	LoanTotal       decimal.Decimal    `json:"loan_total"`
	Accounts        []AccountValuation `json:"accounts"`
	PricesAsOf      *time.Time         `json:"prices_as_of,omitempty"`
	Warnings        []string           `json:"warnings,omitempty"`
}

// PortfolioServicer computes portfolio valuations from stored balances and
// the durable market price table.
type PortfolioServicer interface {
	ComputeOverview() (*PortfolioOverview, error)
}

// CycleResult summarizes one full sync cycle across providers.
type CycleResult struct {
	StartedAt          time.Time        `json:"started_at"`
	Duration           time.Duration    `json:"duration"`
	PricesRefreshed    int              `json:"prices_refreshed"`
	PriceFailures      int              `json:"price_failures"`
	RobinhoodAccounts  int              `json:"robinhood_accounts"`
	CoinbaseAccounts   int              `json:"coinbase_accounts"`
	Items              []ItemSyncResult `json:"items"`
	TransactionsPruned int64            `json:"transactions_pruned"`
	Errors             []string         `json:"errors,omitempty"`
}

// SyncServicer orchestrates full sync cycles. RunCycle is single-flight: a
// second caller while a cycle is running gets ErrSyncInProgress instead of
// queueing.
type SyncServicer interface {
	RunCycle(ctx context.Context) (*CycleResult, error)
	StartScheduler()
	LastResult() *CycleResult
}

// AccountUpdateFields holds the user-editable fields of an account. Nil
// means "leave unchanged".
type AccountUpdateFields struct {
	Name              *string
	MonthlyPayment    *decimal.Decimal
	OriginalPrincipal *decimal.Decimal
	InterestRate      *decimal.Decimal
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	GetAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(accountID string) (*models.Account, error)
	CreateManualAccount(name string, accountType models.AccountType, subtype string, balance decimal.Decimal) (*models.Account, error)
	UpdateAccount(accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(accountID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	AccountID      *string
	BudgetCategory *string
	FromDate       *time.Time
	ToDate         *time.Time
	Pending        *bool
	SortOrder      string // "asc" or "desc"; default desc
}

// TransactionServicer defines the contract for transaction reads.
type TransactionServicer interface {
	GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(transactionID string) (*models.Transaction, error)
}

// CategorySpend is one budget category's total for a month.
type CategorySpend struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// BudgetSummary is the per-category spend for one calendar month plus the
// profile-driven cash flow estimate.
type BudgetSummary struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	Categories        []CategorySpend `json:"categories"`
	TotalSpend        decimal.Decimal `json:"total_spend"`
	MonthlySalary     decimal.Decimal `json:"monthly_salary"`
	RecurringExpenses decimal.Decimal `json:"recurring_expenses"`
	ProjectedCashFlow decimal.Decimal `json:"projected_cash_flow"`
}

// BudgetServicer defines the contract for budget reporting.
type BudgetServicer interface {
	GetMonthSummary(year int, month time.Month) (*BudgetSummary, error)
}

// ProfileServicer defines the contract for the user profile and recurring
// expenses.
type ProfileServicer interface {
	GetProfile() (*models.UserProfile, error)
	UpdateSalary(monthlySalary decimal.Decimal) (*models.UserProfile, error)
	GetExpenses(page pagination.PageRequest) (*pagination.PageResponse[models.RecurringExpense], error)
	CreateExpense(name string, amount decimal.Decimal, frequency models.ExpenseFrequency) (*models.RecurringExpense, error)
	UpdateExpense(expenseID string, name *string, amount *decimal.Decimal, frequency *models.ExpenseFrequency, isActive *bool) (*models.RecurringExpense, error)
	DeleteExpense(expenseID string) error
}
