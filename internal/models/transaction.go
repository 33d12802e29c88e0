package models

import (
	"time"

	"finsmar/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is one financial movement attached to an Account. Rows are
// hard-deleted by removed-set processing and retention cleanup, so there is
// no Base embed and no soft delete. PlaidTransactionID is the system-wide
// idempotency key for change-feed delivery.
type Transaction struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AccountID string `gorm:"type:uuid;not null;index" json:"account_id"`

	PlaidTransactionID string `gorm:"not null;uniqueIndex" json:"plaid_transaction_id"`
	PlaidAccountID     string `gorm:"index" json:"plaid_account_id"`

	Name         string          `gorm:"not null" json:"name"`
	MerchantName string          `json:"merchant_name"`
	Amount       decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	Date         time.Time       `gorm:"not null;index" json:"date"`
	Pending      bool            `json:"pending"`

	PlaidPrimaryCategory  string `json:"plaid_primary_category"`
	PlaidDetailedCategory string `json:"plaid_detailed_category"`
	PlaidCategoryID       string `json:"plaid_category_id"`
	BudgetCategory        string `gorm:"not null;index" json:"budget_category"`

	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New()
	}
	return nil
}
