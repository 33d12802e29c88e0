package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finsmar/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestItem creates a linked Plaid item with a unique item id.
func CreateTestItem(t *testing.T, db *gorm.DB) *models.PlaidItem {
	t.Helper()

	item := &models.PlaidItem{
		ItemID:          fmt.Sprintf("item-%d", nextID()),
		AccessToken:     fmt.Sprintf("access-token-%d", nextID()),
		UserID:          models.LocalUserID,
		InstitutionName: "Test Bank",
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test item: %v", err)
	}
	return item
}

// CreateTestAccount creates a synced depository account with the given
// external id and balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, source models.AccountSource, externalID string, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:        fmt.Sprintf("Account %d", nextID()),
		Source:      source,
		AccountType: models.AccountTypeDepository,
		ExternalID:  externalID,
		Balance:     balance,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestHoldingAccount creates a quantity-kind account whose name is the
// priced symbol.
func CreateTestHoldingAccount(t *testing.T, db *gorm.DB, source models.AccountSource, accountType models.AccountType, symbol string, quantity decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:        symbol,
		Source:      source,
		AccountType: accountType,
		ExternalID:  fmt.Sprintf("holding-%d", nextID()),
		Balance:     quantity,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test holding account: %v", err)
	}
	return account
}

// CreateTestLoanAccount creates a loan account with the given balance owed.
func CreateTestLoanAccount(t *testing.T, db *gorm.DB, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:        fmt.Sprintf("Loan %d", nextID()),
		Source:      models.SourcePlaid,
		AccountType: models.AccountTypeLoan,
		ExternalID:  fmt.Sprintf("loan-%d", nextID()),
		Balance:     balance,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test loan account: %v", err)
	}
	return account
}

// CreateTestTransaction creates a transaction on the given account dated
// daysAgo days in the past.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID string, amount decimal.Decimal, daysAgo int) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		AccountID:          accountID,
		PlaidTransactionID: fmt.Sprintf("txn-%d", nextID()),
		Name:               fmt.Sprintf("Transaction %d", nextID()),
		Amount:             amount,
		Date:               time.Now().UTC().AddDate(0, 0, -daysAgo),
		BudgetCategory:     "Miscellaneous",
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestPrice stores a durable market price for a symbol.
func CreateTestPrice(t *testing.T, db *gorm.DB, symbol string, class models.AssetClass, price decimal.Decimal) *models.MarketPrice {
	t.Helper()

	record := &models.MarketPrice{
		Symbol:     symbol,
		AssetClass: class,
		PriceUSD:   price,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test price: %v", err)
	}
	return record
}

// CreateTestExpense creates an active recurring expense.
func CreateTestExpense(t *testing.T, db *gorm.DB, amount decimal.Decimal, frequency models.ExpenseFrequency) *models.RecurringExpense {
	t.Helper()

	expense := &models.RecurringExpense{
		UserID:    models.LocalUserID,
		Name:      fmt.Sprintf("Expense %d", nextID()),
		Amount:    amount,
		Frequency: frequency,
		IsActive:  true,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
