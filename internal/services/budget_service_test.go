package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finsmar/internal/models"
	"finsmar/internal/testutil"
)

func TestGetMonthSummary(t *testing.T) {
	t.Run("aggregates_by_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewProfileService(db))

		account := testutil.CreateTestAccount(t, db, models.SourcePlaid, "acc-1", decimal.Zero)

		august := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
		makeTransaction := func(id, category string, amount float64, date time.Time) {
			tx := models.Transaction{
				AccountID:          account.ID,
				PlaidTransactionID: id,
				Name:               id,
				Amount:             decimal.NewFromFloat(amount),
				Date:               date,
				BudgetCategory:     category,
			}
			if err := db.Create(&tx).Error; err != nil {
				t.Fatalf("failed to create transaction: %v", err)
			}
		}

		makeTransaction("t1", "Food & Drink", 20, august)
		makeTransaction("t2", "Food & Drink", 30, august)
		makeTransaction("t3", "Transportation", 15, august)
		// Refund: negative amounts never deflate a category.
		makeTransaction("t4", "Food & Drink", -10, august)
		// Different month: excluded.
		makeTransaction("t5", "Food & Drink", 99, august.AddDate(0, -1, 0))

		summary, err := svc.GetMonthSummary(2026, time.August)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, decimal.NewFromInt(65), summary.TotalSpend)
		if len(summary.Categories) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(summary.Categories))
		}

		// Sorted by total descending.
		if summary.Categories[0].Category != "Food & Drink" {
			t.Errorf("expected Food & Drink first, got %s", summary.Categories[0].Category)
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(50), summary.Categories[0].Total)
		if summary.Categories[0].Count != 2 {
			t.Errorf("expected 2 transactions counted, got %d", summary.Categories[0].Count)
		}
	})

	t.Run("cash_flow_from_profile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		profileSvc := NewProfileService(db)
		svc := NewBudgetService(db, profileSvc)

		_, err := profileSvc.UpdateSalary(decimal.NewFromInt(6000))
		testutil.AssertNoError(t, err)

		testutil.CreateTestExpense(t, db, decimal.NewFromInt(1500), models.FrequencyMonthly)
		testutil.CreateTestExpense(t, db, decimal.NewFromInt(1200), models.FrequencyYearly) // 100/month

		inactive := testutil.CreateTestExpense(t, db, decimal.NewFromInt(500), models.FrequencyMonthly)
		db.Model(inactive).Update("is_active", false)

		summary, err := svc.GetMonthSummary(2026, time.August)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, decimal.NewFromInt(6000), summary.MonthlySalary)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(1600), summary.RecurringExpenses)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(4400), summary.ProjectedCashFlow)
	})
}
