package tencent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stock_signals/internal/domain/market"
	"stock_signals/internal/feature/signals/usecase"
	"stock_signals/internal/feature/technical/domain/entity"
	"stock_signals/internal/platform/externalapi/tencent/dto"
)

// KlineClient is a BarProvider implementation backed by the Tencent daily
// kline endpoint (forward-adjusted prices).
type KlineClient struct {
	cfg    Config
	client *http.Client
}

var _ usecase.BarProvider = (*KlineClient)(nil)

// NewKlineClient creates a KlineClient with the given config and HTTP client.
func NewKlineClient(cfg Config, client *http.Client) *KlineClient {
	return &KlineClient{cfg: cfg, client: client}
}

// GetBars fetches up to days daily bars for one symbol, oldest first.
// An empty result with a nil error means the upstream had no data.
func (k *KlineClient) GetBars(ctx context.Context, code market.Code, symbol string, days int) ([]entity.Bar, error) {
	vendor := market.VendorSymbol(symbol, code)

	q := url.Values{}
	q.Set("param", fmt.Sprintf("%s,day,,,%d,qfq", vendor, days))
	q.Set("_var", "kline_dayqfq")
	u := fmt.Sprintf("%s/appstock/app/fqkline/get?%s", k.cfg.KlineBaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := k.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("tencent kline http %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	// Strip the JS variable wrapper: kline_dayqfq={...};
	_, jsonStr, found := strings.Cut(string(body), "=")
	if !found {
		return nil, fmt.Errorf("tencent kline: unexpected body format")
	}
	jsonStr = strings.TrimSuffix(strings.TrimSpace(jsonStr), ";")

	var payload dto.KlineResponse
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("decode kline payload: %w", err)
	}

	rows, err := klineRows(payload.Data, vendor)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		slog.Warn("kline data empty", "symbol", symbol, "code", payload.Code, "msg", payload.Msg)
		return nil, nil
	}

	bars := make([]entity.Bar, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		// Row layout: date, open, close, high, low[, volume]
		bar := entity.Bar{
			Date:  cellString(row[0]),
			Open:  cellFloat(row[1]),
			Close: cellFloat(row[2]),
			High:  cellFloat(row[3]),
			Low:   cellFloat(row[4]),
		}
		if len(row) > 5 {
			bar.Volume = cellFloat(row[5])
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// klineRows extracts the bar rows from either response shape: a map keyed
// by vendor symbol with day/qfqday arrays, or a bare row array.
func klineRows(data json.RawMessage, vendor string) ([][]json.RawMessage, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var bySymbol map[string]dto.KlineSymbolData
	if err := json.Unmarshal(data, &bySymbol); err == nil {
		sd := bySymbol[vendor]
		if len(sd.Day) > 0 {
			return sd.Day, nil
		}
		return sd.QfqDay, nil
	}

	var rows [][]json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode kline rows: %w", err)
	}
	return rows, nil
}

// cellString decodes a row cell as a string.
func cellString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}

// cellFloat decodes a row cell that may be a JSON number or a quoted
// numeric string. Malformed cells decode to 0.
func cellFloat(raw json.RawMessage) float64 {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return 0
}
