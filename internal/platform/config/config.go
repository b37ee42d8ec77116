package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// LocalCurrency anchors rate direction: selling it is a SELL, buying it
	// back is a BUY.
	LocalCurrency domain.CurrencyCode

	// ExecuteRateLimit throttles the session advance endpoint, formatted for
	// ulule/limiter (e.g. "10-M" for ten per minute).
	ExecuteRateLimit string

	// CORSAllowedOrigins lists the operator UI origins, comma separated.
	CORSAllowedOrigins []string

	// Fee percentage overrides; empty strings keep the built-in defaults.
	ExchangeFeePercent string
	TransferFeePercent string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOCAL_CURRENCY", string(domain.KRW))
	viper.SetDefault("EXECUTE_RATE_LIMIT", "30-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("EXCHANGE_FEE_PERCENT", "")
	viper.SetDefault("TRANSFER_FEE_PERCENT", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	localCurrency := domain.CurrencyCode(strings.ToUpper(viper.GetString("LOCAL_CURRENCY")))
	if !localCurrency.Valid() {
		log.Printf("Warning: Invalid value for LOCAL_CURRENCY ('%s'). Defaulting to %s.\n", localCurrency, domain.KRW)
		localCurrency = domain.KRW
	}
	cfg.LocalCurrency = localCurrency

	cfg.ExecuteRateLimit = viper.GetString("EXECUTE_RATE_LIMIT")
	cfg.CORSAllowedOrigins = strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",")
	cfg.ExchangeFeePercent = viper.GetString("EXCHANGE_FEE_PERCENT")
	cfg.TransferFeePercent = viper.GetString("TRANSFER_FEE_PERCENT")

	return cfg, nil
}

// FeePolicy returns the built-in fee schedule with any configured percentage
// overrides applied.
func (c *Config) FeePolicy() domain.FeePolicy {
	policy := domain.DefaultFeePolicy()
	if c.ExchangeFeePercent != "" {
		if pct, err := decimal.NewFromString(c.ExchangeFeePercent); err == nil && !pct.IsNegative() {
			policy.ExchangeFeePercent = pct
		} else {
			log.Printf("Warning: Invalid value for EXCHANGE_FEE_PERCENT ('%s'). Keeping default.\n", c.ExchangeFeePercent)
		}
	}
	if c.TransferFeePercent != "" {
		if pct, err := decimal.NewFromString(c.TransferFeePercent); err == nil && !pct.IsNegative() {
			policy.TransferFeePercent = pct
		} else {
			log.Printf("Warning: Invalid value for TRANSFER_FEE_PERCENT ('%s'). Keeping default.\n", c.TransferFeePercent)
		}
	}
	return policy
}

// RiskPolicy returns the built-in risk thresholds.
func (c *Config) RiskPolicy() domain.RiskPolicy {
	return domain.DefaultRiskPolicy()
}
