package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finsmar/internal/errors"
	"finsmar/internal/models"
)

// portfolioService computes valuations from stored balances and the durable
// market price table. It never calls a provider: valuation reads are O(1)
// against local state.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// ComputeOverview values every account in USD and aggregates by type.
//
// Quantity-kind balances are multiplied by the stored price for the
// account's symbol; a missing price values the position at zero and adds a
// warning rather than failing the whole overview. Cash-kind balances in
// other currencies are assumed to be USD. PricesAsOf is the oldest
// timestamp among the prices actually used, so the caller knows how stale
// the worst input was. Loans are reported but excluded from TotalNetWorth.
func (s *portfolioService) ComputeOverview() (*PortfolioOverview, error) {
	var accounts []models.Account
	if err := s.db.Order("name").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var prices []models.MarketPrice
	if err := s.db.Find(&prices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	priceBySymbol := make(map[string]models.MarketPrice, len(prices))
	for _, p := range prices {
		priceBySymbol[p.Symbol] = p
	}

	overview := &PortfolioOverview{
		TotalNetWorth:   decimal.Zero,
		CashTotal:       decimal.Zero,
		InvestmentTotal: decimal.Zero,
		CryptoTotal:     decimal.Zero,
		LoanTotal:       decimal.Zero,
		Accounts:        []AccountValuation{},
	}

	var oldestPrice *time.Time
	for _, a := range accounts {
		native := a.NativeBalance()
		valuation := AccountValuation{
			AccountID:     a.ID,
			Name:          a.Name,
			Source:        a.Source,
			AccountType:   a.AccountType,
			BalanceKind:   native.Kind,
			NativeBalance: native.Value,
		}

		switch native.Kind {
		case models.BalanceQuantity:
			price, ok := priceBySymbol[a.Name]
			if !ok {
				overview.Warnings = append(overview.Warnings,
					fmt.Sprintf("no price for %s; valued at zero", a.Name))
				valuation.ValueUSD = decimal.Zero
				break
			}
			p := price.PriceUSD
			valuation.PriceUSD = &p
			valuation.ValueUSD = native.Value.Mul(p)
			if oldestPrice == nil || price.UpdatedAt.Before(*oldestPrice) {
				t := price.UpdatedAt
				oldestPrice = &t
			}
		default:
			valuation.ValueUSD = native.Value
		}

		switch a.AccountType {
		case models.AccountTypeLoan:
			overview.LoanTotal = overview.LoanTotal.Add(valuation.ValueUSD)
		case models.AccountTypeInvestment:
			overview.InvestmentTotal = overview.InvestmentTotal.Add(valuation.ValueUSD)
			overview.TotalNetWorth = overview.TotalNetWorth.Add(valuation.ValueUSD)
		case models.AccountTypeCrypto:
			overview.CryptoTotal = overview.CryptoTotal.Add(valuation.ValueUSD)
			overview.TotalNetWorth = overview.TotalNetWorth.Add(valuation.ValueUSD)
		default:
			overview.CashTotal = overview.CashTotal.Add(valuation.ValueUSD)
			overview.TotalNetWorth = overview.TotalNetWorth.Add(valuation.ValueUSD)
		}

		overview.Accounts = append(overview.Accounts, valuation)
	}

	overview.PricesAsOf = oldestPrice
	return overview, nil
}
