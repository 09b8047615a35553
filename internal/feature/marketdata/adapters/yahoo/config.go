// Package yahoo provides a client for the Yahoo Finance chart API, the
// global fallback source for daily bars. It knows prices only, no
// fundamentals.
package yahoo

import (
	"os"
	"time"
)

// Config holds configuration for the Yahoo Finance API client.
type Config struct {
	BaseURL   string        // chart API (e.g. "https://query1.finance.yahoo.com")
	Timeout   time.Duration // HTTP request timeout
	RateLimit int           // requests per second
}

// LoadConfig loads Yahoo configuration from environment variables,
// falling back to the public endpoint.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:   os.Getenv("YAHOO_BASE_URL"),
		Timeout:   20 * time.Second,
		RateLimit: 2,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query1.finance.yahoo.com"
	}
	return cfg
}
