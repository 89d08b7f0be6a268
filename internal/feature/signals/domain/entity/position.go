package entity

// PositionRecord is one account's holding in a symbol as reported by the
// externally owned portfolio accessor.
type PositionRecord struct {
	AccountName  string  `json:"account_name"`
	CostPrice    float64 `json:"cost_price"`
	Quantity     float64 `json:"quantity"`
	TradingStyle string  `json:"trading_style"` // short / swing / long
}

// AggregatedPosition is the derived cross-account view of a holding.
type AggregatedPosition struct {
	TotalQuantity float64 `json:"total_quantity"`
	AvgCost       float64 `json:"avg_cost"`
	TotalCost     float64 `json:"total_cost"`
}

// AggregatePositions folds per-account holdings into a single view.
// AvgCost is 0 when the total quantity is 0. Returns nil for no holdings.
func AggregatePositions(records []PositionRecord) *AggregatedPosition {
	if len(records) == 0 {
		return nil
	}
	agg := &AggregatedPosition{}
	for _, r := range records {
		agg.TotalQuantity += r.Quantity
		agg.TotalCost += r.Quantity * r.CostPrice
	}
	if agg.TotalQuantity > 0 {
		agg.AvgCost = agg.TotalCost / agg.TotalQuantity
	}
	return agg
}

// PositionSnapshot is the pack-facing view of a symbol's holdings.
type PositionSnapshot struct {
	HasPosition bool                `json:"has_position"`
	Accounts    []PositionRecord    `json:"accounts"`
	Aggregated  *AggregatedPosition `json:"aggregated,omitempty"`
}
