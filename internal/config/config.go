// Package config loads process configuration for shopchat. Values come from
// the environment, with an optional local .env file layered underneath, so a
// development checkout works without exporting anything by hand.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"shopchat/internal/logger"
)

// Provider names accepted for SHOPCHAT_PROVIDER.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all runtime settings for the service.
type Config struct {
	Port int

	// Generation service selection.
	Provider        string
	Model           string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Exchange-rate source.
	ExchangeRatesAppID   string
	ExchangeRatesBaseURL string

	// Catalog data file.
	CatalogPath string

	// Conversation memory cap, in turns.
	HistorySize int

	// Per-round generation call timeout and cumulative deadline for one
	// user exchange.
	RequestTimeout   time.Duration
	ExchangeDeadline time.Duration
}

// Load reads configuration from a local .env file (if present) and the
// process environment. Environment variables take precedence over .env
// entries, which take precedence over defaults.
func Load() (*Config, error) {
	// godotenv does not overwrite variables already set in the
	// environment, which gives the desired precedence for free.
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded .env file")
	}

	v := viper.New()
	v.SetDefault("PORT", 3000)
	v.SetDefault("SHOPCHAT_PROVIDER", ProviderOpenAI)
	v.SetDefault("SHOPCHAT_MODEL", "")
	v.SetDefault("SHOPCHAT_CATALOG_PATH", "data/products.csv")
	v.SetDefault("SHOPCHAT_HISTORY_SIZE", 10)
	v.SetDefault("SHOPCHAT_REQUEST_TIMEOUT", "30s")
	v.SetDefault("SHOPCHAT_EXCHANGE_DEADLINE", "2m")
	v.SetDefault("EXCHANGE_RATES_BASE_URL", "https://openexchangerates.org/api")
	v.AutomaticEnv()

	cfg := &Config{
		Port:                 v.GetInt("PORT"),
		Provider:             v.GetString("SHOPCHAT_PROVIDER"),
		Model:                v.GetString("SHOPCHAT_MODEL"),
		OpenAIAPIKey:         v.GetString("OPENAI_API_KEY"),
		AnthropicAPIKey:      v.GetString("ANTHROPIC_API_KEY"),
		ExchangeRatesAppID:   v.GetString("OPEN_EXCHANGE_RATES_APP_ID"),
		ExchangeRatesBaseURL: v.GetString("EXCHANGE_RATES_BASE_URL"),
		CatalogPath:          v.GetString("SHOPCHAT_CATALOG_PATH"),
		HistorySize:          v.GetInt("SHOPCHAT_HISTORY_SIZE"),
		RequestTimeout:       v.GetDuration("SHOPCHAT_REQUEST_TIMEOUT"),
		ExchangeDeadline:     v.GetDuration("SHOPCHAT_EXCHANGE_DEADLINE"),
	}

	if cfg.Model == "" {
		cfg.Model = defaultModelFor(cfg.Provider)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultModelFor returns the default generation model for a provider.
func defaultModelFor(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	default:
		return "gpt-4o-mini"
	}
}

// validate checks that the configuration is internally consistent and that
// the selected provider has credentials.
func (c *Config) validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when SHOPCHAT_PROVIDER=%s", ProviderOpenAI)
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when SHOPCHAT_PROVIDER=%s", ProviderAnthropic)
		}
	default:
		return fmt.Errorf("unknown provider %q (expected %s or %s)", c.Provider, ProviderOpenAI, ProviderAnthropic)
	}

	if c.HistorySize <= 0 {
		return fmt.Errorf("history size must be positive, got %d", c.HistorySize)
	}

	return nil
}
