package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"finsmar/internal/models"
	"finsmar/internal/testutil"
)

func TestUpsertAccount(t *testing.T) {
	t.Run("creates_new_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReconcilerService()

		account, created, err := svc.UpsertAccount(db, AccountUpsert{
			ExternalID:  "ext-1",
			Source:      models.SourcePlaid,
			Name:        "Checking",
			AccountType: models.AccountTypeDepository,
			Balance:     decimal.NewFromInt(1200),
		})
		testutil.AssertNoError(t, err)

		if !created {
			t.Error("expected created to be true")
		}
		if account.ID == "" {
			t.Fatal("expected non-empty account ID")
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(1200), account.Balance)
	})

	t.Run("idempotent_on_repeat", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReconcilerService()

		in := AccountUpsert{
			ExternalID:  "ext-1",
			Source:      models.SourcePlaid,
			Name:        "Checking",
			AccountType: models.AccountTypeDepository,
			Balance:     decimal.NewFromInt(1200),
		}
		first, created, err := svc.UpsertAccount(db, in)
		testutil.AssertNoError(t, err)
		if !created {
			t.Fatal("expected first call to create")
		}

		second, created, err := svc.UpsertAccount(db, in)
		testutil.AssertNoError(t, err)
		if created {
			t.Error("expected second call to update, not create")
		}
		if first.ID != second.ID {
			t.Errorf("expected same account ID, got %s and %s", first.ID, second.ID)
		}

		var count int64
		db.Model(&models.Account{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 account, got %d", count)
		}
	})

	t.Run("same_external_id_different_source", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReconcilerService()

		_, _, err := svc.UpsertAccount(db, AccountUpsert{
			ExternalID: "shared", Source: models.SourcePlaid,
			Name: "A", AccountType: models.AccountTypeDepository, Balance: decimal.Zero,
		})
		testutil.AssertNoError(t, err)

		_, created, err := svc.UpsertAccount(db, AccountUpsert{
			ExternalID: "shared", Source: models.SourceCoinbase,
			Name: "BTC", AccountType: models.AccountTypeCrypto, Balance: decimal.NewFromFloat(0.5),
		})
		testutil.AssertNoError(t, err)
		if !created {
			t.Error("expected a distinct account per source")
		}
	})

	t.Run("updates_balance_and_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReconcilerService()

		in := AccountUpsert{
			ExternalID:  "ext-1",
			Source:      models.SourcePlaid,
			Name:        "Checking",
			AccountType: models.AccountTypeDepository,
			Balance:     decimal.NewFromInt(100),
		}
		_, _, err := svc.UpsertAccount(db, in)
		testutil.AssertNoError(t, err)

		in.Name = "Everyday Checking"
		in.Balance = decimal.NewFromInt(250)
		account, _, err := svc.UpsertAccount(db, in)
		testutil.AssertNoError(t, err)

		var stored models.Account
		db.Where("id = ?", account.ID).First(&stored)
		if stored.Name != "Everyday Checking" {
			t.Errorf("expected updated name, got %s", stored.Name)
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(250), stored.Balance)
	})

	t.Run("preserves_loan_terms", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReconcilerService()

		loan := testutil.CreateTestLoanAccount(t, db, decimal.NewFromInt(20000))
		payment := decimal.NewFromInt(350)
		db.Model(loan).Update("monthly_payment", payment)

		_, _, err := svc.UpsertAccount(db, AccountUpsert{
			ExternalID:  loan.ExternalID,
			Source:      loan.Source,
			Name:        loan.Name,
			AccountType: models.AccountTypeLoan,
			Balance:     decimal.NewFromInt(19500),
		})
		testutil.AssertNoError(t, err)

		var stored models.Account
		db.Where("id = ?", loan.ID).First(&stored)
		if stored.MonthlyPayment == nil {
			t.Fatal("expected monthly payment to survive sync")
		}
		testutil.AssertDecimalEqual(t, payment, *stored.MonthlyPayment)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(19500), stored.Balance)
	})

	t.Run("missing_external_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReconcilerService()

		_, _, err := svc.UpsertAccount(db, AccountUpsert{
			Source: models.SourcePlaid, Name: "X",
			AccountType: models.AccountTypeDepository, Balance: decimal.Zero,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestSetInterestRate(t *testing.T) {
	t.Run("sets_rate_on_match", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReconcilerService()

		loan := testutil.CreateTestLoanAccount(t, db, decimal.NewFromInt(10000))
		rate := decimal.NewFromFloat(0.0549)

		err := svc.SetInterestRate(db, loan.ExternalID, loan.Source, rate)
		testutil.AssertNoError(t, err)

		var stored models.Account
		db.Where("id = ?", loan.ID).First(&stored)
		if stored.InterestRate == nil {
			t.Fatal("expected interest rate to be set")
		}
		testutil.AssertDecimalEqual(t, rate, *stored.InterestRate)
	})

	t.Run("unknown_account_is_not_an_error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReconcilerService()

		err := svc.SetInterestRate(db, "missing", models.SourcePlaid, decimal.NewFromFloat(0.05))
		testutil.AssertNoError(t, err)
	})
}
