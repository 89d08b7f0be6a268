// Package entity defines the domain models for the signals feature.
package entity

import (
	"time"

	"stock_signals/internal/domain/market"
)

// QuoteRecord is one symbol's realtime quote snapshot as returned by a
// quote provider. Providers drop symbols they could not resolve, so a
// batch result may be shorter than the request.
type QuoteRecord struct {
	Symbol       string      `json:"symbol"`
	Name         string      `json:"name"`
	Market       market.Code `json:"market"`
	CurrentPrice float64     `json:"current_price"`
	ChangePct    float64     `json:"change_pct"`
	ChangeAmount float64     `json:"change_amount"`
	Open         float64     `json:"open"`
	High         float64     `json:"high"`
	Low          float64     `json:"low"`
	PrevClose    float64     `json:"prev_close"`
	Volume       float64     `json:"volume"`
	Turnover     float64     `json:"turnover"`
	Timestamp    time.Time   `json:"timestamp"`
}
