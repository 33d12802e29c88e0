package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finsmar/internal/models"
	"finsmar/internal/services"
)

func createManualAccount(t *testing.T, app *testApp, body string) models.Account {
	t.Helper()

	w := app.doRequest(t, http.MethodPost, "/api/v1/accounts", body)
	assertStatus(t, w, http.StatusCreated)

	var resp struct {
		Account models.Account `json:"account"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode account: %v", err)
	}
	return resp.Account
}

func seedTransaction(t *testing.T, app *testApp, accountID, name, category string, amount decimal.Decimal) {
	t.Helper()

	now := time.Now().UTC()
	txn := models.Transaction{
		AccountID:          accountID,
		PlaidTransactionID: fmt.Sprintf("seed-%s-%d", name, now.UnixNano()),
		Name:               name,
		Amount:             amount,
		Date:               time.Date(now.Year(), now.Month(), 5, 0, 0, 0, 0, time.UTC),
		BudgetCategory:     category,
	}
	if err := app.DB.Create(&txn).Error; err != nil {
		t.Fatalf("failed to seed transaction: %v", err)
	}
}

func TestBudgetAndProfileFlow(t *testing.T) {
	app := setupApp(t, &fakePlaid{}, &fakeRobinhood{}, &fakeCoinbase{}, &fakeQuoter{})

	account := createManualAccount(t, app,
		`{"name": "Everyday Checking", "account_type": "depository", "balance": "2500"}`)
	if account.Source != models.SourceManual {
		t.Errorf("expected manual source, got %s", account.Source)
	}

	// Salary and standing obligations feed the cash flow estimate.
	w := app.doRequest(t, http.MethodPut, "/api/v1/profile/salary", `{"monthly_salary": "6000"}`)
	assertStatus(t, w, http.StatusOK)

	w = app.doRequest(t, http.MethodPost, "/api/v1/profile/expenses",
		`{"name": "Rent", "amount": "1500", "frequency": "monthly"}`)
	assertStatus(t, w, http.StatusCreated)

	w = app.doRequest(t, http.MethodPost, "/api/v1/profile/expenses",
		`{"name": "Insurance", "amount": "1200", "frequency": "yearly"}`)
	assertStatus(t, w, http.StatusCreated)

	var created struct {
		Expense models.RecurringExpense `json:"expense"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode expense: %v", err)
	}

	seedTransaction(t, app, account.ID, "Groceries", "Food & Drink", decimal.NewFromFloat(250.40))
	seedTransaction(t, app, account.ID, "Restaurant", "Food & Drink", decimal.NewFromFloat(90.10))
	seedTransaction(t, app, account.ID, "Train", "Travel", decimal.NewFromInt(60))

	w = app.doRequest(t, http.MethodGet, "/api/v1/budget/summary", "")
	assertStatus(t, w, http.StatusOK)

	var summary services.BudgetSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if !summary.TotalSpend.Equal(decimal.NewFromFloat(400.50)) {
		t.Errorf("expected total spend 400.50, got %s", summary.TotalSpend)
	}
	if len(summary.Categories) != 2 || summary.Categories[0].Category != "Food & Drink" {
		t.Errorf("expected Food & Drink as the largest category, got %+v", summary.Categories)
	}
	// 6000 salary less 1500 rent and 100/month insurance.
	if !summary.ProjectedCashFlow.Equal(decimal.NewFromInt(4400)) {
		t.Errorf("expected projected cash flow 4400, got %s", summary.ProjectedCashFlow)
	}

	// Deactivated expenses drop out of the estimate.
	w = app.doRequest(t, http.MethodPatch, "/api/v1/profile/expenses/"+created.Expense.ID,
		`{"is_active": false}`)
	assertStatus(t, w, http.StatusOK)

	w = app.doRequest(t, http.MethodGet, "/api/v1/budget/summary", "")
	assertStatus(t, w, http.StatusOK)
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if !summary.ProjectedCashFlow.Equal(decimal.NewFromInt(4500)) {
		t.Errorf("expected projected cash flow 4500, got %s", summary.ProjectedCashFlow)
	}
}

func TestAccountLifecycle(t *testing.T) {
	app := setupApp(t, &fakePlaid{}, &fakeRobinhood{}, &fakeCoinbase{}, &fakeQuoter{})

	account := createManualAccount(t, app,
		`{"name": "Car Loan", "account_type": "loan", "balance": "18000"}`)

	// Loan terms are user-editable.
	w := app.doRequest(t, http.MethodPatch, "/api/v1/accounts/"+account.ID,
		`{"monthly_payment": "450", "interest_rate": "0.0625"}`)
	assertStatus(t, w, http.StatusOK)

	var updated struct {
		Account models.Account `json:"account"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode account: %v", err)
	}
	if updated.Account.InterestRate == nil || !updated.Account.InterestRate.Equal(decimal.NewFromFloat(0.0625)) {
		t.Errorf("expected interest rate set, got %+v", updated.Account.InterestRate)
	}

	// Loans are reported but never added to net worth.
	w = app.doRequest(t, http.MethodGet, "/api/v1/portfolio/overview", "")
	assertStatus(t, w, http.StatusOK)

	var overview services.PortfolioOverview
	if err := json.Unmarshal(w.Body.Bytes(), &overview); err != nil {
		t.Fatalf("failed to decode overview: %v", err)
	}
	if !overview.LoanTotal.Equal(decimal.NewFromInt(18000)) {
		t.Errorf("expected loan total 18000, got %s", overview.LoanTotal)
	}
	if !overview.TotalNetWorth.IsZero() {
		t.Errorf("expected loans excluded from net worth, got %s", overview.TotalNetWorth)
	}

	w = app.doRequest(t, http.MethodDelete, "/api/v1/accounts/"+account.ID, "")
	assertStatus(t, w, http.StatusNoContent)

	w = app.doRequest(t, http.MethodGet, "/api/v1/accounts/"+account.ID, "")
	assertStatus(t, w, http.StatusNotFound)
}
