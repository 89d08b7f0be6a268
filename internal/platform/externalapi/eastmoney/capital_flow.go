package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"stock_signals/internal/domain/market"
	"stock_signals/internal/feature/signals/domain/entity"
	"stock_signals/internal/feature/signals/usecase"
	"stock_signals/internal/platform/externalapi/eastmoney/dto"
)

// Flow status labels derived from today's main net inflow and its
// percentage of turnover.
const (
	FlowHeavyInflow  = "heavy-inflow"  // pct > 10
	FlowClearInflow  = "clear-inflow"  // pct > 5
	FlowMildInflow   = "mild-inflow"   // inflow > 0
	FlowHeavyOutflow = "heavy-outflow" // pct < -10
	FlowClearOutflow = "clear-outflow" // pct < -5
	FlowMildOutflow  = "mild-outflow"  // inflow < 0
	FlowBalanced     = "balanced"
)

// The f-field list requested from the stock/get endpoint. Only a subset is
// mapped; the rest keeps the request identical to what the web client sends.
const flowFields = "f57,f58,f62,f184,f66,f69,f72,f75,f78,f81,f84,f87,f64,f65,f70,f71,f76,f77,f82,f83,f164,f166,f168,f170,f172,f252,f253,f254,f255,f256"

const flowUT = "fa5fd1943c7b386f172d6893dbfba10b"

// CapitalFlowClient is a CapitalFlowProvider implementation backed by the
// EastMoney stock/get endpoint. Mainland symbols only.
type CapitalFlowClient struct {
	cfg    Config
	client *http.Client
}

var _ usecase.CapitalFlowProvider = (*CapitalFlowClient)(nil)

// NewCapitalFlowClient creates a CapitalFlowClient with the given config
// and HTTP client.
func NewCapitalFlowClient(cfg Config, client *http.Client) *CapitalFlowClient {
	return &CapitalFlowClient{cfg: cfg, client: client}
}

// GetSummary fetches today's main-fund flow summary for one domestic symbol.
func (c *CapitalFlowClient) GetSummary(ctx context.Context, symbol string) (*entity.CapitalFlowSummary, error) {
	q := url.Values{}
	q.Set("secid", secID(symbol))
	q.Set("fields", flowFields)
	q.Set("ut", flowUT)
	u := fmt.Sprintf("%s/api/qt/stock/get?%s", c.cfg.FlowBaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://quote.eastmoney.com/")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("eastmoney flow http %d", res.StatusCode)
	}

	var body dto.StockGetResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode flow payload: %w", err)
	}
	if body.Data == nil {
		return nil, fmt.Errorf("eastmoney flow: no data for %s", symbol)
	}

	d := body.Data
	return &entity.CapitalFlowSummary{
		Status:           flowStatus(d.MainNetInflow, d.MainNetInflowPct),
		MainNetInflow:    d.MainNetInflow,
		MainNetInflowPct: d.MainNetInflowPct,
		SuperNetInflow:   d.SuperNetInflow,
		BigNetInflow:     d.BigNetInflow,
		MidNetInflow:     d.MidNetInflow,
		SmallNetInflow:   d.SmallNetInflow,
		Trend5D:          flowTrend5D(d.MainNetInflow5D),
	}, nil
}

// secID converts a mainland symbol to the endpoint's secid form:
// 1.{symbol} for Shanghai, 0.{symbol} for everything else.
func secID(symbol string) string {
	if market.CNExchange(symbol) == "SH" {
		return "1." + symbol
	}
	return "0." + symbol
}

// flowStatus labels today's main-fund direction with ±5/±10 pct bands.
func flowStatus(inflow, pct float64) string {
	switch {
	case inflow > 0 && pct > 10:
		return FlowHeavyInflow
	case inflow > 0 && pct > 5:
		return FlowClearInflow
	case inflow > 0:
		return FlowMildInflow
	case inflow < 0 && pct < -10:
		return FlowHeavyOutflow
	case inflow < 0 && pct < -5:
		return FlowClearOutflow
	case inflow < 0:
		return FlowMildOutflow
	default:
		return FlowBalanced
	}
}

// flowTrend5D renders the 5-day main net flow as a short label in millions.
// A zero value means the endpoint had no 5-day figure.
func flowTrend5D(v float64) string {
	if v == 0 {
		return "no data"
	}
	if v > 0 {
		return fmt.Sprintf("5-day net inflow %.1fM", v/1e6)
	}
	return fmt.Sprintf("5-day net outflow %.1fM", -v/1e6)
}
