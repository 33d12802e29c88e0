package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"finsmar/internal/models"
	"finsmar/internal/pagination"
	"finsmar/internal/testutil"
)

func TestCreateManualAccount(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		account, err := svc.CreateManualAccount("Cash Jar", models.AccountTypeDepository, "cash", decimal.NewFromInt(300))
		testutil.AssertNoError(t, err)

		if account.Source != models.SourceManual {
			t.Errorf("expected manual source, got %s", account.Source)
		}
		if account.ExternalID != "" {
			t.Errorf("expected empty external id, got %q", account.ExternalID)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		_, err := svc.CreateManualAccount("", models.AccountTypeDepository, "", decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateAccountLoanTerms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)

	loan := testutil.CreateTestLoanAccount(t, db, decimal.NewFromInt(20000))

	payment := decimal.NewFromInt(350)
	principal := decimal.NewFromInt(25000)
	updated, err := svc.UpdateAccount(loan.ID, AccountUpdateFields{
		MonthlyPayment:    &payment,
		OriginalPrincipal: &principal,
	})
	testutil.AssertNoError(t, err)

	if updated.MonthlyPayment == nil || updated.OriginalPrincipal == nil {
		t.Fatal("expected loan terms set")
	}
	testutil.AssertDecimalEqual(t, payment, *updated.MonthlyPayment)
	testutil.AssertDecimalEqual(t, principal, *updated.OriginalPrincipal)
}

func TestDeleteAccount(t *testing.T) {
	t.Run("removes_account_and_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		account := testutil.CreateTestAccount(t, db, models.SourcePlaid, "acc-1", decimal.Zero)
		testutil.CreateTestTransaction(t, db, account.ID, decimal.NewFromInt(5), 1)

		testutil.AssertNoError(t, svc.DeleteAccount(account.ID))

		var accountCount, txCount int64
		db.Unscoped().Model(&models.Account{}).Count(&accountCount)
		db.Model(&models.Transaction{}).Count(&txCount)
		if accountCount != 0 || txCount != 0 {
			t.Errorf("expected hard delete, got %d accounts and %d transactions", accountCount, txCount)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		err := svc.DeleteAccount("0198fb00-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestGetAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)

	testutil.CreateTestAccount(t, db, models.SourcePlaid, "acc-1", decimal.NewFromInt(10))
	testutil.CreateTestAccount(t, db, models.SourceCoinbase, "acc-2", decimal.NewFromInt(20))

	page, err := svc.GetAccounts(pagination.PageRequest{PageSize: 1})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 2 {
		t.Errorf("expected 2 total accounts, got %d", page.TotalItems)
	}
	if len(page.Data) != 1 {
		t.Errorf("expected 1 item on the page, got %d", len(page.Data))
	}
	if page.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", page.TotalPages)
	}
}
