package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Plaid
	PlaidClientID string
	PlaidSecret   string
	PlaidEnv      string // sandbox, development, or production

	// Robinhood (Ed25519 key pair, base64-encoded)
	RobinhoodAPIKey     string
	RobinhoodPublicKey  string
	RobinhoodPrivateKey string

	// Coinbase (API key name + EC private key PEM)
	CoinbaseAPIKey    string
	CoinbaseAPISecret string

	// Market data (Alpha Vantage). Optional: without it, prices are
	// simply unavailable and valuations degrade gracefully.
	MarketDataAPIKey string

	// Sync behavior
	SyncInterval    time.Duration
	PriceFetchDelay time.Duration
	SyncPageSize    int
	HTTPTimeout     time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables. Missing provider
// credentials are a startup failure: the process must not come up half
// configured and discover it mid-sync.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),

		PlaidClientID: os.Getenv("PLAID_CLIENT_ID"),
		PlaidSecret:   os.Getenv("PLAID_SECRET"),
		PlaidEnv:      getEnv("PLAID_ENV", "sandbox"),

		RobinhoodAPIKey:     os.Getenv("ROBINHOOD_API_KEY"),
		RobinhoodPublicKey:  os.Getenv("ROBINHOOD_PUB_KEY"),
		RobinhoodPrivateKey: os.Getenv("ROBINHOOD_PRI_KEY"),

		CoinbaseAPIKey:    os.Getenv("COINBASE_API_KEY"),
		CoinbaseAPISecret: os.Getenv("COINBASE_API_SECRET"),

		MarketDataAPIKey: os.Getenv("FINANCIAL_DATA_API_KEY"),
	}

	var missing []string
	for _, v := range []struct{ name, value string }{
		{"PLAID_CLIENT_ID", config.PlaidClientID},
		{"PLAID_SECRET", config.PlaidSecret},
		{"ROBINHOOD_API_KEY", config.RobinhoodAPIKey},
		{"ROBINHOOD_PUB_KEY", config.RobinhoodPublicKey},
		{"ROBINHOOD_PRI_KEY", config.RobinhoodPrivateKey},
		{"COINBASE_API_KEY", config.CoinbaseAPIKey},
		{"COINBASE_API_SECRET", config.CoinbaseAPISecret},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	switch config.PlaidEnv {
	case "sandbox", "development", "production":
	default:
		return nil, fmt.Errorf("invalid PLAID_ENV: %s", config.PlaidEnv)
	}

	if config.MarketDataAPIKey == "" {
		log.Println("Warning: FINANCIAL_DATA_API_KEY not set; price lookups will be unavailable")
	}

	config.SyncInterval = getDurationEnv("SYNC_INTERVAL", 30*time.Minute)
	config.PriceFetchDelay = getDurationEnv("PRICE_FETCH_DELAY", 15*time.Second)
	config.HTTPTimeout = getDurationEnv("HTTP_TIMEOUT", 10*time.Second)
	config.SyncPageSize = 100

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv parses a duration environment variable, falling back to
// the default on absence or parse failure.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, value, defaultValue)
		return defaultValue
	}
	return d
}
