package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finsmar/internal/errors"
	"finsmar/internal/models"
)

// budgetService computes per-category monthly spend and the profile-driven
// cash flow estimate.
type budgetService struct {
	db      *gorm.DB
	profile ProfileServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, profile ProfileServicer) BudgetServicer {
	return &budgetService{db: db, profile: profile}
}

// GetMonthSummary aggregates the month's spend per budget category.
//
// Amounts follow the provider convention: positive means money out. Only
// positive amounts count as spend, so refunds and income rows do not
// deflate a category's total. Aggregation happens here rather than in SQL
// so the numeric semantics are identical across backing databases.
func (s *budgetService) GetMonthSummary(year int, month time.Month) (*BudgetSummary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var transactions []models.Transaction
	err := s.db.Where("date >= ? AND date < ?", from, to).Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[string]*CategorySpend)
	totalSpend := decimal.Zero
	for _, t := range transactions {
		if !t.Amount.IsPositive() {
			continue
		}
		spend, ok := totals[t.BudgetCategory]
		if !ok {
			spend = &CategorySpend{Category: t.BudgetCategory, Total: decimal.Zero}
			totals[t.BudgetCategory] = spend
		}
		spend.Total = spend.Total.Add(t.Amount)
		spend.Count++
		totalSpend = totalSpend.Add(t.Amount)
	}

	categories := make([]CategorySpend, 0, len(totals))
	for _, spend := range totals {
		categories = append(categories, *spend)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Total.GreaterThan(categories[j].Total)
	})

	summary := &BudgetSummary{
		Year:       year,
		Month:      int(month),
		Categories: categories,
		TotalSpend: totalSpend,
	}

	profile, err := s.profile.GetProfile()
	if err != nil {
		return nil, err
	}
	summary.MonthlySalary = profile.MonthlySalary

	recurring, err := s.monthlyRecurringTotal()
	if err != nil {
		return nil, err
	}
	summary.RecurringExpenses = recurring
	summary.ProjectedCashFlow = profile.MonthlySalary.Sub(recurring)

	return summary, nil
}

// monthlyRecurringTotal sums active recurring expenses normalized to a
// per-month figure.
func (s *budgetService) monthlyRecurringTotal() (decimal.Decimal, error) {
	var expenses []models.RecurringExpense
	err := s.db.Where("user_id = ? AND is_active = ?", models.LocalUserID, true).Find(&expenses).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.MonthlyAmount())
	}
	return total, nil
}
