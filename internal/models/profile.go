package models

import (
	"github.com/shopspring/decimal"
)

// ExpenseFrequency is how often a recurring expense comes due.
type ExpenseFrequency string

const (
	FrequencyMonthly   ExpenseFrequency = "monthly"
	FrequencyYearly    ExpenseFrequency = "yearly"
	FrequencyQuarterly ExpenseFrequency = "quarterly"
	FrequencyWeekly    ExpenseFrequency = "weekly"
)

// UserProfile holds the salary estimate used by cash-flow math. One row
// per user; in practice a single row for LocalUserID.
type UserProfile struct {
	Base
	UserID        string          `gorm:"not null;uniqueIndex" json:"user_id"`
	MonthlySalary decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"monthly_salary"`
}

// RecurringExpense is a standing obligation (rent, subscriptions, premiums)
// used as a read-only input to the budget and cash-flow views.
type RecurringExpense struct {
	Base
	UserID    string           `gorm:"not null;index" json:"user_id"`
	Name      string           `gorm:"not null" json:"name"`
	Amount    decimal.Decimal  `gorm:"type:numeric;not null" json:"amount"`
	Frequency ExpenseFrequency `gorm:"not null;default:'monthly'" json:"frequency"`
	IsActive  bool             `gorm:"default:true" json:"is_active"`
}

// MonthlyAmount normalizes the expense to a per-month figure.
func (e *RecurringExpense) MonthlyAmount() decimal.Decimal {
	switch e.Frequency {
	case FrequencyYearly:
		return e.Amount.DivRound(decimal.NewFromInt(12), 8)
	case FrequencyQuarterly:
		return e.Amount.DivRound(decimal.NewFromInt(3), 8)
	case FrequencyWeekly:
		// 52 weeks over 12 months.
		return e.Amount.Mul(decimal.NewFromInt(52)).DivRound(decimal.NewFromInt(12), 8)
	default:
		return e.Amount
	}
}
