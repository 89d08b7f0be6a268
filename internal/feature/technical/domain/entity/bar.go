// Package entity defines the domain models for the technical feature.
package entity

// Bar represents one trading day's OHLCV record for a symbol.
// Series are ordered oldest to newest; an empty series means "no data".
type Bar struct {
	Date   string  `json:"date"` // calendar date, "2006-01-02"
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}
