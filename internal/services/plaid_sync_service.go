package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "finsmar/internal/errors"
	"finsmar/internal/logger"
	"finsmar/internal/models"
	"finsmar/internal/providers/plaid"
)

// retentionMonths is how many calendar months of transactions are kept.
// The boundary is truncated to the first of the month, so a sync on any day
// of August keeps everything from March 1st onward.
const retentionMonths = 5

// plaidSyncService owns item linking and the Plaid sync engine.
type plaidSyncService struct {
	db         *gorm.DB
	plaid      PlaidAPI
	reconciler ReconcilerServicer
	pageSize   int
	now        func() time.Time
}

// NewPlaidSyncService creates a new PlaidSyncServicer.
func NewPlaidSyncService(db *gorm.DB, api PlaidAPI, reconciler ReconcilerServicer, pageSize int) PlaidSyncServicer {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &plaidSyncService{
		db:         db,
		plaid:      api,
		reconciler: reconciler,
		pageSize:   pageSize,
		now:        time.Now,
	}
}

// CreateLinkToken mints a Link token for the local user.
func (s *plaidSyncService) CreateLinkToken(ctx context.Context) (*plaid.LinkTokenResult, error) {
	result, err := s.plaid.CreateLinkToken(ctx, models.LocalUserID)
	if err != nil {
		return nil, classifyPlaidError(err)
	}
	return result, nil
}

// ExchangePublicToken trades a Link public token for a long-lived access
// token and stores the item. The first account sync runs immediately so the
// item is usable without waiting for the next cycle; a failure there is
// logged but does not undo the link.
func (s *plaidSyncService) ExchangePublicToken(ctx context.Context, publicToken, institutionID, institutionName string) (*models.PlaidItem, error) {
	if publicToken == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "public token is required")
	}

	result, err := s.plaid.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, classifyPlaidError(err)
	}

	item := &models.PlaidItem{
		ItemID:          result.ItemID,
		AccessToken:     result.AccessToken,
		UserID:          models.LocalUserID,
		InstitutionID:   institutionID,
		InstitutionName: institutionName,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, err := s.syncAccounts(ctx, item); err != nil {
		logger.Get().Warnw("Initial account sync after link failed", "item_id", item.ItemID, "error", err)
	}
	return item, nil
}

// ListItems returns all linked items.
func (s *plaidSyncService) ListItems() ([]models.PlaidItem, error) {
	var items []models.PlaidItem
	if err := s.db.Order("created_at").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return items, nil
}

// SyncItem runs a full sync pass for one item: account balances, investment
// holdings, liability rates, then the transaction change feed. Holdings and
// liabilities are best-effort; a stale login aborts the whole pass because
// nothing else can succeed either.
func (s *plaidSyncService) SyncItem(ctx context.Context, item *models.PlaidItem) (*ItemSyncResult, error) {
	result := &ItemSyncResult{ItemID: item.ItemID}

	synced, err := s.syncAccounts(ctx, item)
	if err != nil {
		return nil, err
	}
	result.AccountsSynced = synced

	holdings, err := s.syncHoldings(ctx, item)
	if err != nil {
		if plaid.IsLoginRequired(err) {
			return nil, classifyPlaidError(err)
		}
		logger.Get().Warnw("Holdings sync skipped", "item_id", item.ItemID, "error", err)
	}
	result.HoldingsSynced = holdings

	if err := s.syncLiabilities(ctx, item); err != nil {
		if plaid.IsLoginRequired(err) {
			return nil, classifyPlaidError(err)
		}
		logger.Get().Warnw("Liabilities sync skipped", "item_id", item.ItemID, "error", err)
	}

	if err := s.syncTransactions(ctx, item, result); err != nil {
		return nil, err
	}
	return result, nil
}

// syncAccounts reconciles the item's accounts and balances.
func (s *plaidSyncService) syncAccounts(ctx context.Context, item *models.PlaidItem) (int, error) {
	accounts, err := s.plaid.GetAccounts(ctx, item.AccessToken)
	if err != nil {
		return 0, classifyPlaidError(err)
	}

	synced := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, a := range accounts {
			if a.AccountID == "" {
				logger.Get().Warnw("Account without id skipped", "item_id", item.ItemID, "name", a.Name)
				continue
			}
			// Plaid reports an investment account's balance as the
			// brokerage's total value, securities included. Those
			// positions arrive per ticker through holdings sync, so the
			// balance must never be ingested as cash.
			if a.Type == "investment" {
				continue
			}
			_, _, err := s.reconciler.UpsertAccount(tx, AccountUpsert{
				ExternalID:     a.AccountID,
				Source:         models.SourcePlaid,
				Name:           a.Name,
				AccountType:    mapPlaidAccountType(a.Type),
				AccountSubtype: a.Subtype,
				Balance:        a.CurrentBalance(),
				PlaidItemID:    &item.ID,
			})
			if err != nil {
				return err
			}
			synced++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return synced, nil
}

// syncHoldings materializes each investment position as its own account,
// named by ticker and carrying a share quantity. Positions of the same
// security across one brokerage account are aggregated.
func (s *plaidSyncService) syncHoldings(ctx context.Context, item *models.PlaidItem) (int, error) {
	resp, err := s.plaid.GetInvestmentHoldings(ctx, item.AccessToken)
	if err != nil {
		return 0, err
	}

	securities := resp.SecurityByID()

	quantities := make(map[string]AccountUpsert)
	for _, h := range resp.Holdings {
		sec, ok := securities[h.SecurityID]
		if !ok || sec.TickerSymbol == "" {
			logger.Get().Warnw("Holding without ticker skipped", "item_id", item.ItemID, "security_id", h.SecurityID)
			continue
		}
		key := h.AccountID + ":" + sec.TickerSymbol
		if existing, ok := quantities[key]; ok {
			existing.Balance = existing.Balance.Add(h.Quantity)
			quantities[key] = existing
			continue
		}
		quantities[key] = AccountUpsert{
			ExternalID:     key,
			Source:         models.SourcePlaidInvestment,
			Name:           sec.TickerSymbol,
			AccountType:    models.AccountTypeInvestment,
			AccountSubtype: "holding",
			Balance:        h.Quantity,
			PlaidItemID:    &item.ID,
		}
	}

	synced := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, upsert := range quantities {
			if _, _, err := s.reconciler.UpsertAccount(tx, upsert); err != nil {
				return err
			}
			synced++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return synced, nil
}

// syncLiabilities copies per-account interest rates onto loan accounts.
func (s *plaidSyncService) syncLiabilities(ctx context.Context, item *models.PlaidItem) error {
	rates, err := s.plaid.GetLiabilities(ctx, item.AccessToken)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, r := range rates {
			if err := s.reconciler.SetInterestRate(tx, r.AccountID, models.SourcePlaid, r.InterestRate); err != nil {
				return err
			}
		}
		return nil
	})
}

// syncTransactions drains the item's change feed page by page. Each page's
// changes commit atomically; the cursor is persisted in its own commit only
// after the page it covers is durable, so a crash mid-sync replays at most
// one page. Replays are harmless because ingestion is idempotent on
// PlaidTransactionID.
func (s *plaidSyncService) syncTransactions(ctx context.Context, item *models.PlaidItem, result *ItemSyncResult) error {
	accountIDs, err := s.accountIDsByExternalID(item)
	if err != nil {
		return err
	}

	cursor := item.SyncCursor
	for {
		page, err := s.plaid.SyncTransactions(ctx, item.AccessToken, cursor, s.pageSize)
		if err != nil {
			return classifyPlaidError(err)
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			for _, t := range page.Added {
				if err := s.applyTransaction(tx, accountIDs, t, result); err != nil {
					return err
				}
			}
			for _, t := range page.Modified {
				if err := s.applyTransaction(tx, accountIDs, t, result); err != nil {
					return err
				}
			}
			if len(page.Removed) > 0 {
				ids := make([]string, 0, len(page.Removed))
				for _, r := range page.Removed {
					ids = append(ids, r.TransactionID)
				}
				res := tx.Where("plaid_transaction_id IN ?", ids).Delete(&models.Transaction{})
				if res.Error != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
				}
				// Removals for rows we never had are fine.
				result.TransactionsRemoved += int(res.RowsAffected)
			}
			return nil
		})
		if err != nil {
			return err
		}

		cursor = page.NextCursor
		if err := s.db.Model(item).Update("sync_cursor", cursor).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		item.SyncCursor = cursor

		if !page.HasMore {
			return nil
		}
	}
}

// applyTransaction upserts one change-feed entry. An "added" entry whose id
// already exists is treated as a modification, so replayed pages do not
// fail or duplicate.
func (s *plaidSyncService) applyTransaction(tx *gorm.DB, accountIDs map[string]string, t plaid.TransactionData, result *ItemSyncResult) error {
	accountID, ok := accountIDs[t.AccountID]
	if !ok {
		logger.Get().Warnw("Transaction for unknown account skipped",
			"plaid_transaction_id", t.TransactionID, "plaid_account_id", t.AccountID)
		result.TransactionsSkipped++
		return nil
	}

	date, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		logger.Get().Warnw("Transaction with unparseable date skipped",
			"plaid_transaction_id", t.TransactionID, "date", t.Date)
		result.TransactionsSkipped++
		return nil
	}

	fields := map[string]interface{}{
		"account_id":              accountID,
		"plaid_account_id":        t.AccountID,
		"name":                    t.Name,
		"merchant_name":           t.MerchantName,
		"amount":                  t.Amount,
		"currency_code":           t.ISOCurrencyCode,
		"date":                    date,
		"pending":                 t.Pending,
		"plaid_primary_category":  primaryCategory(t.Category),
		"plaid_detailed_category": detailedCategory(t.Category),
		"plaid_category_id":       t.CategoryID,
		"budget_category":         budgetCategoryFor(t.Category),
	}

	var existing models.Transaction
	err = tx.Where("plaid_transaction_id = ?", t.TransactionID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record := models.Transaction{
			AccountID:             accountID,
			PlaidTransactionID:    t.TransactionID,
			PlaidAccountID:        t.AccountID,
			Name:                  t.Name,
			MerchantName:          t.MerchantName,
			Amount:                t.Amount,
			CurrencyCode:          t.ISOCurrencyCode,
			Date:                  date,
			Pending:               t.Pending,
			PlaidPrimaryCategory:  primaryCategory(t.Category),
			PlaidDetailedCategory: detailedCategory(t.Category),
			PlaidCategoryID:       t.CategoryID,
			BudgetCategory:        budgetCategoryFor(t.Category),
		}
		if err := tx.Create(&record).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result.TransactionsAdded++
		return nil
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := tx.Model(&existing).Updates(fields).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	result.TransactionsModified++
	return nil
}

// accountIDsByExternalID maps the item's Plaid account ids to local account
// ids so transactions can be attributed.
func (s *plaidSyncService) accountIDsByExternalID(item *models.PlaidItem) (map[string]string, error) {
	var accounts []models.Account
	err := s.db.Where("plaid_item_id = ? AND source = ?", item.ID, models.SourcePlaid).Find(&accounts).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	m := make(map[string]string, len(accounts))
	for _, a := range accounts {
		m[a.ExternalID] = a.ID
	}
	return m, nil
}

// PruneTransactions hard-deletes transactions older than the retention
// window. The boundary is the first day of the month retentionMonths back.
func (s *plaidSyncService) PruneTransactions() (int64, error) {
	now := s.now()
	boundary := time.Date(now.Year(), now.Month()-retentionMonths, 1, 0, 0, 0, 0, time.UTC)

	res := s.db.Where("date < ?", boundary).Delete(&models.Transaction{})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected > 0 {
		logger.Get().Infow("Pruned transactions past retention", "count", res.RowsAffected, "boundary", boundary.Format("2006-01-02"))
	}
	return res.RowsAffected, nil
}

// mapPlaidAccountType folds Plaid's account types into the unified set.
// Investment accounts never reach this point; syncAccounts drops them
// before mapping.
func mapPlaidAccountType(t string) models.AccountType {
	switch t {
	case "credit", "loan":
		return models.AccountTypeLoan
	default:
		return models.AccountTypeDepository
	}
}

func primaryCategory(categories []string) string {
	if len(categories) == 0 {
		return ""
	}
	return categories[0]
}

func detailedCategory(categories []string) string {
	if len(categories) == 0 {
		return ""
	}
	return categories[len(categories)-1]
}

// classifyPlaidError folds provider failures into the application taxonomy.
// A stale login is distinct from a transient outage because the fix is a
// user action, not a retry.
func classifyPlaidError(err error) error {
	if plaid.IsLoginRequired(err) {
		return apperrors.Wrap(apperrors.ErrProviderAuth, err)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrProviderUnavailable, fmt.Errorf("plaid: %w", err))
}
