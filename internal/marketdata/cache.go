package marketdata

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"finsmar/internal/logger"
)

// DefaultTTL is how long a fetched price stays fresh.
const DefaultTTL = 5 * time.Minute

type cacheKey struct {
	assetClass string
	symbol     string
}

type cacheEntry struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

// PriceCache is an in-process read-through price cache. A lookup within the
// TTL returns the cached price without touching the quoter; fetch failures
// are absorbed and surface as an absent price, never as an error.
type PriceCache struct {
	mu      sync.Mutex
	quoter  Quoter
	ttl     time.Duration
	entries map[cacheKey]cacheEntry
	now     func() time.Time
}

// NewPriceCache creates a cache over the given quoter. A non-positive ttl
// falls back to DefaultTTL.
func NewPriceCache(quoter Quoter, ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PriceCache{
		quoter:  quoter,
		ttl:     ttl,
		entries: make(map[cacheKey]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the USD price for (assetClass, symbol) and whether one is
// available. Stale entries are refetched; a failed refetch evicts the stale
// entry rather than serving it.
func (c *PriceCache) Get(ctx context.Context, assetClass, symbol string) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{assetClass: assetClass, symbol: symbol}
	if entry, ok := c.entries[key]; ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		return entry.price, true
	}

	price, err := c.quoter.Quote(ctx, assetClass, symbol)
	if err != nil {
		logger.Get().Warnw("Price fetch failed", "symbol", symbol, "asset_class", assetClass, "error", err)
		delete(c.entries, key)
		return decimal.Zero, false
	}

	c.entries[key] = cacheEntry{price: price, fetchedAt: c.now()}
	return price, true
}
