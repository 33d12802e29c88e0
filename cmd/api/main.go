package main

import (
	"fmt"
	"net/http"
	"os"

	"finsmar/internal/config"
	"finsmar/internal/database"
	"finsmar/internal/handlers"
	"finsmar/internal/logger"
	"finsmar/internal/marketdata"
	"finsmar/internal/middleware"
	"finsmar/internal/providers/coinbase"
	"finsmar/internal/providers/plaid"
	"finsmar/internal/providers/robinhood"
	"finsmar/internal/services"
	"finsmar/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "finsmar/internal/docs" // Import swagger docs
)

// @title           finsmar API
// @version         1.0
// @description     finsmar is a personal finance aggregator that syncs accounts, transactions, and portfolio data across Plaid, Robinhood, and Coinbase into one local view.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration. Missing provider credentials abort startup.
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize provider clients
	httpClient := &http.Client{Timeout: appConfig.HTTPTimeout}
	plaidClient := plaid.NewClient(httpClient, appConfig.PlaidEnv, appConfig.PlaidClientID, appConfig.PlaidSecret)
	robinhoodClient, err := robinhood.NewClient(httpClient, appConfig.RobinhoodAPIKey, appConfig.RobinhoodPrivateKey)
	if err != nil {
		return fmt.Errorf("failed to create robinhood client: %w", err)
	}
	coinbaseClient, err := coinbase.NewClient(httpClient, appConfig.CoinbaseAPIKey, appConfig.CoinbaseAPISecret)
	if err != nil {
		return fmt.Errorf("failed to create coinbase client: %w", err)
	}
	quoter := marketdata.NewClient(httpClient, appConfig.MarketDataAPIKey)
	priceCache := marketdata.NewPriceCache(quoter, marketdata.DefaultTTL)

	// Initialize services
	db := dbManager.DB()
	reconciler := services.NewReconcilerService()
	plaidSyncService := services.NewPlaidSyncService(db, plaidClient, reconciler, appConfig.SyncPageSize)
	syncService := services.NewSyncService(db, plaidSyncService, robinhoodClient, coinbaseClient,
		reconciler, priceCache, appConfig.SyncInterval, appConfig.PriceFetchDelay)
	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db)
	portfolioService := services.NewPortfolioService(db)
	profileService := services.NewProfileService(db)
	budgetService := services.NewBudgetService(db, profileService)

	// Initialize handlers
	linkHandler := handlers.NewLinkHandler(plaidSyncService)
	syncHandler := handlers.NewSyncHandler(syncService)
	accountHandler := handlers.NewAccountHandler(accountService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	profileHandler := handlers.NewProfileHandler(profileService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Plaid Link routes
	link := v1.Group("/link")
	link.POST("/token", linkHandler.CreateLinkToken)
	link.POST("/exchange", linkHandler.ExchangeToken)
	link.GET("/items", linkHandler.GetItems)

	// Sync routes
	v1.POST("/sync", syncHandler.TriggerSync)
	v1.GET("/sync/status", syncHandler.GetSyncStatus)

	// Account routes
	accounts := v1.Group("/accounts")
	accounts.GET("", accountHandler.GetAccounts)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PATCH("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Transaction routes
	transactions := v1.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)

	// Portfolio and budget routes
	v1.GET("/portfolio/overview", portfolioHandler.GetOverview)
	v1.GET("/budget/summary", budgetHandler.GetSummary)

	// Profile routes
	profile := v1.Group("/profile")
	profile.GET("", profileHandler.GetProfile)
	profile.PUT("/salary", profileHandler.UpdateSalary)
	profile.GET("/expenses", profileHandler.GetExpenses)
	profile.POST("/expenses", profileHandler.CreateExpense)
	profile.PATCH("/expenses/:id", profileHandler.UpdateExpense)
	profile.DELETE("/expenses/:id", profileHandler.DeleteExpense)

	// Background sync
	syncService.StartScheduler()

	log.Infof("Starting finsmar backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
