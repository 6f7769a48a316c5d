package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Server struct {
		Port           string   `envconfig:"PORT" default:"8000"`
		AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	}

	RateLimit struct {
		Requests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"60"`
		Window   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"60s"`
	}

	Redis struct {
		Enabled bool   `envconfig:"REDIS_RATE_LIMIT" default:"false"`
		URL     string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	}

	MEXC struct {
		SpotBaseURL    string        `envconfig:"MEXC_SPOT_BASE_URL" default:"https://api.mexc.com"`
		FuturesBaseURL string        `envconfig:"MEXC_FUTURES_BASE_URL" default:"https://contract.mexc.com"`
		Timeout        time.Duration `envconfig:"MEXC_TIMEOUT" default:"10s"`
		RequestsPerSec float64       `envconfig:"MEXC_REQUESTS_PER_SEC" default:"20"`
		Burst          int           `envconfig:"MEXC_BURST" default:"40"`
	}

	Market struct {
		BinanceBaseURL    string        `envconfig:"BINANCE_BASE_URL" default:"https://api.binance.com"`
		WatchSymbols      []string      `envconfig:"WATCH_SYMBOLS" default:"BTC_USDT,ETH_USDT,SOL_USDT"`
		BroadcastInterval time.Duration `envconfig:"BROADCAST_INTERVAL" default:"5s"`
	}

	AI struct {
		Timeout time.Duration `envconfig:"AI_TIMEOUT" default:"90s"`
	}
}

// Load parses configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.RateLimit.Requests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if cfg.RateLimit.Window < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
	}
	if cfg.MEXC.Timeout < time.Second {
		return fmt.Errorf("MEXC_TIMEOUT must be at least 1s")
	}
	if cfg.Market.BroadcastInterval < time.Second {
		return fmt.Errorf("BROADCAST_INTERVAL must be at least 1s")
	}
	return nil
}
