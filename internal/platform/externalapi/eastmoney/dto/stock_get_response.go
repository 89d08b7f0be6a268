// Package dto defines data transfer objects for the EastMoney API responses.
package dto

// StockGetResponse represents the JSON response of the qt/stock/get
// endpoint. Data is null when the secid is unknown.
type StockGetResponse struct {
	Data *StockGetData `json:"data"`
}

// StockGetData carries the f-coded flow fields requested for one symbol.
type StockGetData struct {
	Code             string  `json:"f57"` // symbol
	Name             string  `json:"f58"`
	MainNetInflow    float64 `json:"f62"`
	SuperNetInflow   float64 `json:"f66"`
	BigNetInflow     float64 `json:"f72"`
	MidNetInflow     float64 `json:"f78"`
	SmallNetInflow   float64 `json:"f84"`
	MainNetInflow5D  float64 `json:"f164"`
	MainNetInflowPct float64 `json:"f184"`
}
