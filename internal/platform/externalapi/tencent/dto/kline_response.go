// Package dto defines data transfer objects for the Tencent API responses.
package dto

import "encoding/json"

// KlineResponse represents the JSON payload of the daily kline endpoint
// after the JS variable wrapper is stripped. Data is either a map keyed by
// vendor symbol (older format) or a bare array of rows.
type KlineResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// KlineSymbolData is the per-symbol payload of the map-shaped Data field.
// Rows live under "day" or, for adjusted series, "qfqday".
type KlineSymbolData struct {
	Day    [][]json.RawMessage `json:"day"`
	QfqDay [][]json.RawMessage `json:"qfqday"`
}
