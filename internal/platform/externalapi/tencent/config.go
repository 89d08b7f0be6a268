// Package tencent provides clients for the Tencent stock quote and kline
// HTTP endpoints.
package tencent

import (
	"os"
	"time"
)

// Default endpoints. The quote feed is plain HTTP with a GBK body; the
// kline endpoint wraps JSON in a JS variable assignment.
const (
	defaultQuoteBaseURL = "http://qt.gtimg.cn"
	defaultKlineBaseURL = "http://web.ifzq.gtimg.cn"
)

// Config holds configuration for the Tencent API clients.
type Config struct {
	QuoteBaseURL string        // Base URL for the realtime quote feed
	KlineBaseURL string        // Base URL for the daily kline endpoint
	Timeout      time.Duration // HTTP request timeout
}

// LoadConfig loads Tencent endpoint configuration from environment
// variables, falling back to the public endpoints.
func LoadConfig() Config {
	cfg := Config{
		QuoteBaseURL: os.Getenv("TENCENT_QUOTE_BASE_URL"),
		KlineBaseURL: os.Getenv("TENCENT_KLINE_BASE_URL"),
		Timeout:      10 * time.Second,
	}
	if cfg.QuoteBaseURL == "" {
		cfg.QuoteBaseURL = defaultQuoteBaseURL
	}
	if cfg.KlineBaseURL == "" {
		cfg.KlineBaseURL = defaultKlineBaseURL
	}
	return cfg
}
