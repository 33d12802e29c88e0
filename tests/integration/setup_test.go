package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"finsmar/internal/handlers"
	"finsmar/internal/logger"
	"finsmar/internal/marketdata"
	"finsmar/internal/middleware"
	"finsmar/internal/models"
	"finsmar/internal/providers/coinbase"
	"finsmar/internal/providers/plaid"
	"finsmar/internal/providers/robinhood"
	"finsmar/internal/services"
	"finsmar/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Plaid  *fakePlaid
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// fakePlaid is a minimal in-memory Plaid backend for end-to-end flows.
type fakePlaid struct {
	accounts []plaid.AccountData
	pages    []plaid.SyncPage
}

func (f *fakePlaid) CreateLinkToken(ctx context.Context, clientUserID string) (*plaid.LinkTokenResult, error) {
	return &plaid.LinkTokenResult{LinkToken: "link-test"}, nil
}

func (f *fakePlaid) ExchangePublicToken(ctx context.Context, publicToken string) (*plaid.ExchangeResult, error) {
	return &plaid.ExchangeResult{AccessToken: "access-" + publicToken, ItemID: "item-" + publicToken}, nil
}

func (f *fakePlaid) GetAccounts(ctx context.Context, accessToken string) ([]plaid.AccountData, error) {
	return f.accounts, nil
}

func (f *fakePlaid) GetInvestmentHoldings(ctx context.Context, accessToken string) (*plaid.HoldingsResponse, error) {
	return &plaid.HoldingsResponse{}, nil
}

func (f *fakePlaid) SyncTransactions(ctx context.Context, accessToken, cursor string, count int) (*plaid.SyncPage, error) {
	for i, p := range f.pages {
		if p.NextCursor == cursor && i+1 < len(f.pages) {
			return &f.pages[i+1], nil
		}
		if p.NextCursor == cursor {
			return &plaid.SyncPage{NextCursor: cursor}, nil
		}
	}
	if len(f.pages) > 0 {
		return &f.pages[0], nil
	}
	return &plaid.SyncPage{NextCursor: "cursor-0"}, nil
}

func (f *fakePlaid) GetLiabilities(ctx context.Context, accessToken string) ([]plaid.LiabilityRate, error) {
	return nil, nil
}

type fakeRobinhood struct{ positions []robinhood.Position }

func (f *fakeRobinhood) GetPositions(ctx context.Context) ([]robinhood.Position, error) {
	return f.positions, nil
}

type fakeCoinbase struct{ balances []coinbase.Balance }

func (f *fakeCoinbase) GetBalances(ctx context.Context) ([]coinbase.Balance, error) {
	return f.balances, nil
}

type fakeQuoter struct{ prices map[string]decimal.Decimal }

func (f *fakeQuoter) Quote(ctx context.Context, assetClass, symbol string) (decimal.Decimal, error) {
	price, ok := f.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("no price for %s", symbol)
	}
	return price, nil
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.PlaidItem{},
		&models.Account{},
		&models.Transaction{},
		&models.MarketPrice{},
		&models.UserProfile{},
		&models.RecurringExpense{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack over fake provider backends.
func setupApp(t *testing.T, plaidAPI *fakePlaid, rh *fakeRobinhood, cb *fakeCoinbase, quoter *fakeQuoter) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	cache := marketdata.NewPriceCache(quoter, time.Minute)

	// Services
	reconciler := services.NewReconcilerService()
	plaidSyncService := services.NewPlaidSyncService(db, plaidAPI, reconciler, 100)
	syncService := services.NewSyncService(db, plaidSyncService, rh, cb, reconciler, cache,
		30*time.Minute, 0)
	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db)
	portfolioService := services.NewPortfolioService(db)
	profileService := services.NewProfileService(db)
	budgetService := services.NewBudgetService(db, profileService)

	// Handlers
	linkHandler := handlers.NewLinkHandler(plaidSyncService)
	syncHandler := handlers.NewSyncHandler(syncService)
	accountHandler := handlers.NewAccountHandler(accountService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	profileHandler := handlers.NewProfileHandler(profileService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	link := v1.Group("/link")
	link.POST("/token", linkHandler.CreateLinkToken)
	link.POST("/exchange", linkHandler.ExchangeToken)
	link.GET("/items", linkHandler.GetItems)

	v1.POST("/sync", syncHandler.TriggerSync)
	v1.GET("/sync/status", syncHandler.GetSyncStatus)

	accounts := v1.Group("/accounts")
	accounts.GET("", accountHandler.GetAccounts)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PATCH("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	transactions := v1.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)

	v1.GET("/portfolio/overview", portfolioHandler.GetOverview)
	v1.GET("/budget/summary", budgetHandler.GetSummary)

	profile := v1.Group("/profile")
	profile.GET("", profileHandler.GetProfile)
	profile.PUT("/salary", profileHandler.UpdateSalary)
	profile.GET("/expenses", profileHandler.GetExpenses)
	profile.POST("/expenses", profileHandler.CreateExpense)
	profile.PATCH("/expenses/:id", profileHandler.UpdateExpense)
	profile.DELETE("/expenses/:id", profileHandler.DeleteExpense)

	return &testApp{DB: db, Router: router, Plaid: plaidAPI}
}

// doRequest performs an HTTP request against the test router.
func (app *testApp) doRequest(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}
