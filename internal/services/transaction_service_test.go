package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finsmar/internal/models"
	"finsmar/internal/pagination"
	"finsmar/internal/testutil"
)

func TestGetTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)

	checking := testutil.CreateTestAccount(t, db, models.SourcePlaid, "acc-1", decimal.Zero)
	savings := testutil.CreateTestAccount(t, db, models.SourcePlaid, "acc-2", decimal.Zero)

	newest := testutil.CreateTestTransaction(t, db, checking.ID, decimal.NewFromInt(5), 1)
	testutil.CreateTestTransaction(t, db, checking.ID, decimal.NewFromInt(10), 10)
	other := testutil.CreateTestTransaction(t, db, savings.ID, decimal.NewFromInt(20), 5)
	db.Model(other).Update("budget_category", "Travel")

	t.Run("defaults_to_newest_first", func(t *testing.T) {
		page, err := svc.GetTransactions(pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 3 {
			t.Fatalf("expected 3 transactions, got %d", page.TotalItems)
		}
		if page.Data[0].ID != newest.ID {
			t.Error("expected newest transaction first")
		}
	})

	t.Run("filter_by_account", func(t *testing.T) {
		page, err := svc.GetTransactions(pagination.PageRequest{}, TransactionFilter{AccountID: &checking.ID})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 transactions for account, got %d", page.TotalItems)
		}
	})

	t.Run("filter_by_category", func(t *testing.T) {
		category := "Travel"
		page, err := svc.GetTransactions(pagination.PageRequest{}, TransactionFilter{BudgetCategory: &category})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 {
			t.Errorf("expected 1 travel transaction, got %d", page.TotalItems)
		}
	})

	t.Run("filter_by_date_range", func(t *testing.T) {
		from := time.Now().UTC().AddDate(0, 0, -7)
		page, err := svc.GetTransactions(pagination.PageRequest{}, TransactionFilter{FromDate: &from})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 transactions in range, got %d", page.TotalItems)
		}
	})

	t.Run("ascending_sort", func(t *testing.T) {
		page, err := svc.GetTransactions(pagination.PageRequest{}, TransactionFilter{SortOrder: "asc"})
		testutil.AssertNoError(t, err)
		if page.Data[len(page.Data)-1].ID != newest.ID {
			t.Error("expected newest transaction last in ascending order")
		}
	})
}

func TestGetTransactionByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)

	account := testutil.CreateTestAccount(t, db, models.SourcePlaid, "acc-1", decimal.Zero)
	created := testutil.CreateTestTransaction(t, db, account.ID, decimal.NewFromInt(5), 1)

	found, err := svc.GetTransactionByID(created.ID)
	testutil.AssertNoError(t, err)
	if found.PlaidTransactionID != created.PlaidTransactionID {
		t.Error("expected matching transaction")
	}

	_, err = svc.GetTransactionByID("0198fb00-0000-7000-8000-000000000000")
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}
