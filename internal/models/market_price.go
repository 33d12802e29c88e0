package models

import (
	"time"

	"finsmar/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssetClass tells the market data provider which quote endpoint to use
// for a symbol.
type AssetClass string

const (
	AssetClassStock  AssetClass = "stock"
	AssetClassCrypto AssetClass = "crypto"
)

// MarketPrice is the durable price row for one symbol: always the most
// recently fetched quote, overwritten in place on every refresh. This is
// what the valuation engine reads; it is distinct from the in-process TTL
// cache that serves ad hoc lookups.
type MarketPrice struct {
	ID         string          `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol     string          `gorm:"not null;uniqueIndex" json:"symbol"`
	AssetClass AssetClass      `gorm:"not null" json:"asset_class"`
	PriceUSD   decimal.Decimal `gorm:"type:numeric;not null" json:"price_usd"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (m *MarketPrice) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New()
	}
	return nil
}
