// Package eastmoney provides a client for the Eastmoney quote APIs,
// the primary domestic aggregator. It covers historical klines for
// stocks/ETFs/index futures, a current fundamentals snapshot, fund NAV
// history and main-contract resolution.
package eastmoney

import (
	"os"
	"time"
)

// Config holds configuration for the Eastmoney API client.
type Config struct {
	HistBaseURL  string        // kline API (e.g. "https://push2his.eastmoney.com")
	QuoteBaseURL string        // snapshot API (e.g. "https://push2.eastmoney.com")
	FundBaseURL  string        // fund NAV API (e.g. "https://api.fund.eastmoney.com")
	FutsBaseURL  string        // futures listing API (e.g. "https://futsseapi.eastmoney.com")
	Timeout      time.Duration // HTTP request timeout
	RateLimit    int           // requests per second against any Eastmoney host
}

// LoadConfig loads Eastmoney configuration from environment variables,
// falling back to the public endpoints.
func LoadConfig() Config {
	cfg := Config{
		HistBaseURL:  os.Getenv("EASTMONEY_HIST_BASE_URL"),
		QuoteBaseURL: os.Getenv("EASTMONEY_QUOTE_BASE_URL"),
		FundBaseURL:  os.Getenv("EASTMONEY_FUND_BASE_URL"),
		FutsBaseURL:  os.Getenv("EASTMONEY_FUTS_BASE_URL"),
		Timeout:      20 * time.Second,
		RateLimit:    5,
	}
	if cfg.HistBaseURL == "" {
		cfg.HistBaseURL = "https://push2his.eastmoney.com"
	}
	if cfg.QuoteBaseURL == "" {
		cfg.QuoteBaseURL = "https://push2.eastmoney.com"
	}
	if cfg.FundBaseURL == "" {
		cfg.FundBaseURL = "https://api.fund.eastmoney.com"
	}
	if cfg.FutsBaseURL == "" {
		cfg.FutsBaseURL = "https://futsseapi.eastmoney.com"
	}
	return cfg
}
