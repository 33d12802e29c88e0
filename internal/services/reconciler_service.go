package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finsmar/internal/errors"
	"finsmar/internal/logger"
	"finsmar/internal/models"
)

// reconcilerService applies provider-observed account state to the unified
// account table.
type reconcilerService struct{}

// NewReconcilerService creates a new ReconcilerServicer.
func NewReconcilerService() ReconcilerServicer {
	return &reconcilerService{}
}

// UpsertAccount finds the account identified by (in.ExternalID, in.Source)
// and updates its observed fields, or creates it when absent. The boolean
// return reports whether a new row was created.
//
// Repeated calls with the same input are idempotent: they never create a
// second row and never flip fields back and forth. User-owned fields (loan
// terms) are never written here.
func (s *reconcilerService) UpsertAccount(tx *gorm.DB, in AccountUpsert) (*models.Account, bool, error) {
	if in.ExternalID == "" {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "external id is required")
	}

	var account models.Account
	err := tx.Where("external_id = ? AND source = ?", in.ExternalID, in.Source).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.Account{
			Name:           in.Name,
			Source:         in.Source,
			AccountType:    in.AccountType,
			AccountSubtype: in.AccountSubtype,
			ExternalID:     in.ExternalID,
			Balance:        in.Balance,
			PlaidItemID:    in.PlaidItemID,
		}
		if err := tx.Create(&account).Error; err != nil {
			return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &account, true, nil
	}
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{
		"balance": in.Balance,
	}
	if in.Name != "" && in.Name != account.Name {
		updates["name"] = in.Name
	}
	if in.AccountSubtype != "" && in.AccountSubtype != account.AccountSubtype {
		updates["account_subtype"] = in.AccountSubtype
	}
	if in.AccountType != "" && in.AccountType != account.AccountType {
		updates["account_type"] = in.AccountType
	}
	if in.PlaidItemID != nil && (account.PlaidItemID == nil || *account.PlaidItemID != *in.PlaidItemID) {
		updates["plaid_item_id"] = *in.PlaidItemID
	}

	if err := tx.Model(&account).Updates(updates).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, false, nil
}

// SetInterestRate stores a liability interest rate on the matching account.
// A missing account is a data quality problem on the provider side, not a
// sync failure: it is logged and skipped.
func (s *reconcilerService) SetInterestRate(tx *gorm.DB, externalID string, source models.AccountSource, rate decimal.Decimal) error {
	result := tx.Model(&models.Account{}).
		Where("external_id = ? AND source = ?", externalID, source).
		Update("interest_rate", rate)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		logger.Get().Warnw("Liability rate for unknown account skipped", "external_id", externalID, "source", source)
	}
	return nil
}
