package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	Port             int
	APIToken         string
	DatabasePath     string
	CoinGeckoBaseURL string
	CoinGeckoAPIKey  string
	InitialBalance   decimal.Decimal
	RefreshSchedule  string
	MarketPageSize   int
	LogLevel         string
	DevMode          bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	initialBalance, err := decimal.NewFromString(getEnv("INITIAL_BALANCE", "1000000.00"))
	if err != nil {
		return nil, fmt.Errorf("invalid INITIAL_BALANCE: %w", err)
	}

	cfg := &Config{
		Port:             getEnvAsInt("PORT", 8080),
		APIToken:         getEnv("API_TOKEN", "dev-token"),
		DatabasePath:     getEnv("DATABASE_PATH", "./data/mockcrypto.db"),
		CoinGeckoBaseURL: getEnv("COINGECKO_BASE_URL", ""),
		CoinGeckoAPIKey:  getEnv("COINGECKO_API_KEY", ""),
		InitialBalance:   initialBalance,
		RefreshSchedule:  getEnv("REFRESH_SCHEDULE", "0 */5 * * * *"),
		MarketPageSize:   getEnvAsInt("MARKET_PAGE_SIZE", 50),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DevMode:          getEnvAsBool("DEV_MODE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.APIToken == "" {
		return fmt.Errorf("API_TOKEN is required")
	}
	if !c.InitialBalance.IsPositive() {
		return fmt.Errorf("INITIAL_BALANCE must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
