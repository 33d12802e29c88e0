package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jasonlvhit/gocron"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finsmar/internal/errors"
	"finsmar/internal/logger"
	"finsmar/internal/marketdata"
	"finsmar/internal/models"
)

// syncService orchestrates full sync cycles across every linked provider.
type syncService struct {
	db         *gorm.DB
	plaidSync  PlaidSyncServicer
	robinhood  RobinhoodAPI
	coinbase   CoinbaseAPI
	reconciler ReconcilerServicer
	prices     *marketdata.PriceCache

	interval   time.Duration
	priceDelay time.Duration
	sleep      func(time.Duration)

	running    sync.Mutex
	resultMu   sync.Mutex
	lastResult *CycleResult
}

// NewSyncService creates a new SyncServicer.
func NewSyncService(
	db *gorm.DB,
	plaidSync PlaidSyncServicer,
	robinhoodAPI RobinhoodAPI,
	coinbaseAPI CoinbaseAPI,
	reconciler ReconcilerServicer,
	prices *marketdata.PriceCache,
	interval, priceDelay time.Duration,
) SyncServicer {
	return &syncService{
		db:         db,
		plaidSync:  plaidSync,
		robinhood:  robinhoodAPI,
		coinbase:   coinbaseAPI,
		reconciler: reconciler,
		prices:     prices,
		interval:   interval,
		priceDelay: priceDelay,
		sleep:      time.Sleep,
	}
}

// StartScheduler registers the periodic cycle and starts the background
// scheduler. The manual trigger and the schedule share the same
// single-flight guard, so a cycle firing while another runs is dropped,
// never queued.
func (s *syncService) StartScheduler() {
	minutes := uint64(s.interval.Minutes())
	if minutes == 0 {
		minutes = 1
	}
	if err := gocron.Every(minutes).Minutes().Do(s.scheduledCycle); err != nil {
		logger.Get().Errorw("Failed to schedule sync cycle", "error", err)
		return
	}
	gocron.Start()
	logger.Get().Infow("Sync scheduler started", "interval", s.interval)
}

func (s *syncService) scheduledCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	if _, err := s.RunCycle(ctx); err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Code == apperrors.ErrSyncInProgress.Code {
			logger.Get().Infow("Scheduled cycle skipped; previous cycle still running")
			return
		}
		logger.Get().Errorw("Scheduled sync cycle failed", "error", err)
	}
}

// RunCycle runs one full cycle: market prices, Robinhood and Coinbase
// balances, each Plaid item, then retention cleanup. One provider failing
// never blocks the others; its error is recorded on the result instead.
func (s *syncService) RunCycle(ctx context.Context) (*CycleResult, error) {
	if !s.running.TryLock() {
		return nil, apperrors.ErrSyncInProgress
	}
	defer s.running.Unlock()

	start := time.Now()
	result := &CycleResult{StartedAt: start}
	logger.Get().Infow("Sync cycle started")

	s.refreshPrices(ctx, result)
	s.syncRobinhood(ctx, result)
	s.syncCoinbase(ctx, result)
	s.syncPlaidItems(ctx, result)

	pruned, err := s.plaidSync.PruneTransactions()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("retention cleanup: %v", err))
	}
	result.TransactionsPruned = pruned

	result.Duration = time.Since(start)
	logger.Get().Infow("Sync cycle finished",
		"duration", result.Duration,
		"prices_refreshed", result.PricesRefreshed,
		"price_failures", result.PriceFailures,
		"items", len(result.Items),
		"errors", len(result.Errors))

	s.resultMu.Lock()
	s.lastResult = result
	s.resultMu.Unlock()
	return result, nil
}

// LastResult returns the most recent completed cycle, or nil before the
// first one.
func (s *syncService) LastResult() *CycleResult {
	s.resultMu.Lock()
	defer s.resultMu.Unlock()
	return s.lastResult
}

// refreshPrices fetches a quote for every symbol held in a quantity-kind
// account and overwrites the durable price row. Fetches are sequential with
// a fixed delay between calls to stay under provider rate limits; a failed
// symbol is counted and the stale row is left in place.
func (s *syncService) refreshPrices(ctx context.Context, result *CycleResult) {
	type symbolClass struct {
		Name        string
		AccountType models.AccountType
	}
	var symbols []symbolClass
	err := s.db.Model(&models.Account{}).
		Select("DISTINCT name, account_type").
		Where("account_type IN ?", []models.AccountType{models.AccountTypeInvestment, models.AccountTypeCrypto}).
		Scan(&symbols).Error
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("price refresh: %v", err))
		return
	}

	for i, sym := range symbols {
		if i > 0 {
			s.sleep(s.priceDelay)
		}

		class := models.AssetClassStock
		if sym.AccountType == models.AccountTypeCrypto {
			class = models.AssetClassCrypto
		}

		price, ok := s.prices.Get(ctx, string(class), sym.Name)
		if !ok {
			result.PriceFailures++
			continue
		}
		if err := s.upsertMarketPrice(sym.Name, class, price); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("price store %s: %v", sym.Name, err))
			continue
		}
		result.PricesRefreshed++
	}
}

func (s *syncService) upsertMarketPrice(symbol string, class models.AssetClass, price decimal.Decimal) error {
	var existing models.MarketPrice
	err := s.db.Where("symbol = ?", symbol).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record := models.MarketPrice{Symbol: symbol, AssetClass: class, PriceUSD: price}
		if err := s.db.Create(&record).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	updates := map[string]interface{}{"price_usd": price, "asset_class": class}
	if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// syncRobinhood reconciles crypto positions as quantity accounts.
func (s *syncService) syncRobinhood(ctx context.Context, result *CycleResult) {
	positions, err := s.robinhood.GetPositions(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("robinhood: %v", err))
		return
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range positions {
			_, _, err := s.reconciler.UpsertAccount(tx, AccountUpsert{
				ExternalID:     p.ExternalID,
				Source:         models.SourceRobinhood,
				Name:           p.Symbol,
				AccountType:    models.AccountTypeCrypto,
				AccountSubtype: p.AssetClass,
				Balance:        p.Quantity,
			})
			if err != nil {
				return err
			}
			result.RobinhoodAccounts++
		}
		return nil
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("robinhood: %v", err))
	}
}

// syncCoinbase reconciles exchange balances as quantity accounts.
func (s *syncService) syncCoinbase(ctx context.Context, result *CycleResult) {
	balances, err := s.coinbase.GetBalances(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("coinbase: %v", err))
		return
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, b := range balances {
			_, _, err := s.reconciler.UpsertAccount(tx, AccountUpsert{
				ExternalID:     b.ExternalID,
				Source:         models.SourceCoinbase,
				Name:           b.Currency,
				AccountType:    models.AccountTypeCrypto,
				AccountSubtype: "exchange",
				Balance:        b.Amount,
			})
			if err != nil {
				return err
			}
			result.CoinbaseAccounts++
		}
		return nil
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("coinbase: %v", err))
	}
}

// syncPlaidItems runs each item's sync pass with failure isolation: one
// item's stale login or outage never blocks the rest.
func (s *syncService) syncPlaidItems(ctx context.Context, result *CycleResult) {
	items, err := s.plaidSync.ListItems()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("listing items: %v", err))
		return
	}

	for i := range items {
		item := &items[i]
		itemResult, err := s.plaidSync.SyncItem(ctx, item)
		if err != nil {
			logger.Get().Warnw("Item sync failed", "item_id", item.ItemID, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("item %s: %v", item.ItemID, err))
			continue
		}
		result.Items = append(result.Items, *itemResult)
	}
}
