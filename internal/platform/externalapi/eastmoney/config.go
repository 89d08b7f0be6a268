// Package eastmoney provides clients for the EastMoney capital-flow and
// notices HTTP endpoints.
package eastmoney

import (
	"os"
	"time"
)

const (
	// The delay variant of the flow endpoint is more stable than push2.
	defaultFlowBaseURL    = "https://push2delay.eastmoney.com"
	defaultNoticesBaseURL = "https://np-anotice-stock.eastmoney.com"
)

// Config holds configuration for the EastMoney API clients.
type Config struct {
	FlowBaseURL    string        // Base URL for the capital-flow endpoint
	NoticesBaseURL string        // Base URL for the announcements endpoint
	Timeout        time.Duration // HTTP request timeout
}

// LoadConfig loads EastMoney endpoint configuration from environment
// variables, falling back to the public endpoints.
func LoadConfig() Config {
	cfg := Config{
		FlowBaseURL:    os.Getenv("EASTMONEY_FLOW_BASE_URL"),
		NoticesBaseURL: os.Getenv("EASTMONEY_NOTICES_BASE_URL"),
		Timeout:        10 * time.Second,
	}
	if cfg.FlowBaseURL == "" {
		cfg.FlowBaseURL = defaultFlowBaseURL
	}
	if cfg.NoticesBaseURL == "" {
		cfg.NoticesBaseURL = defaultNoticesBaseURL
	}
	return cfg
}
