package entity

// CapitalFlowSummary describes today's main-fund flows for one domestic
// symbol, with a derived status label and a 5-day trend line.
type CapitalFlowSummary struct {
	Status           string  `json:"status"`
	MainNetInflow    float64 `json:"main_net_inflow"`
	MainNetInflowPct float64 `json:"main_net_inflow_pct"`
	SuperNetInflow   float64 `json:"super_net_inflow"`
	BigNetInflow     float64 `json:"big_net_inflow"`
	MidNetInflow     float64 `json:"mid_net_inflow"`
	SmallNetInflow   float64 `json:"small_net_inflow"`
	Trend5D          string  `json:"trend_5d"`
}

// CapitalFlowResult is either a summary or a provider failure marker.
type CapitalFlowResult struct {
	Summary *CapitalFlowSummary `json:"summary,omitempty"`
	Err     string              `json:"error,omitempty"`
}

// OK reports whether the result carries usable data.
func (r *CapitalFlowResult) OK() bool {
	return r != nil && r.Err == "" && r.Summary != nil
}
