package tencent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"stock_signals/internal/domain/market"
	"stock_signals/internal/feature/signals/domain/entity"
	"stock_signals/internal/feature/signals/usecase"
)

// QuoteClient is a QuoteProvider implementation backed by the Tencent
// realtime quote feed.
type QuoteClient struct {
	cfg    Config
	client *http.Client
}

var _ usecase.QuoteProvider = (*QuoteClient)(nil)

// NewQuoteClient creates a QuoteClient with the given config and HTTP client.
func NewQuoteClient(cfg Config, client *http.Client) *QuoteClient {
	return &QuoteClient{cfg: cfg, client: client}
}

// GetStockData fetches realtime quotes for a batch of symbols in one
// market. Symbols the feed could not resolve, and rows with a non-positive
// price, are dropped from the result.
func (q *QuoteClient) GetStockData(ctx context.Context, code market.Code, symbols []string) ([]entity.QuoteRecord, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	vendor := make([]string, len(symbols))
	for i, s := range symbols {
		vendor[i] = market.VendorSymbol(s, code)
	}
	u := fmt.Sprintf("%s/q=%s", q.cfg.QuoteBaseURL, strings.Join(vendor, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := q.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("tencent quote http %d", res.StatusCode)
	}

	// The feed body is GBK encoded
	body, err := io.ReadAll(transform.NewReader(res.Body, simplifiedchinese.GBK.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("decode gbk body: %w", err)
	}

	now := time.Now()
	var records []entity.QuoteRecord
	for _, line := range strings.Split(strings.TrimSpace(string(body)), ";") {
		rec, ok := parseQuoteLine(line)
		if !ok || rec.CurrentPrice <= 0 {
			continue
		}
		rec.Market = code
		rec.Timestamp = now
		records = append(records, rec)
	}
	return records, nil
}

// parseQuoteLine parses one `v_sh600519="1~name~600519~..."` line of the
// feed. The value is `~`-separated; field 35 carries "price/vol/turnover".
func parseQuoteLine(line string) (entity.QuoteRecord, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.Contains(line, `=""`) {
		return entity.QuoteRecord{}, false
	}
	_, value, found := strings.Cut(line, `="`)
	if !found {
		return entity.QuoteRecord{}, false
	}
	value = strings.TrimRight(value, `";`)
	parts := strings.Split(value, "~")
	if len(parts) < 36 {
		return entity.QuoteRecord{}, false
	}

	var turnover float64
	if tp := strings.Split(parts[35], "/"); len(tp) >= 3 {
		if v, err := strconv.ParseFloat(tp[2], 64); err == nil {
			turnover = v
		}
	}

	// US symbols come back as AAPL.OQ; indices start with "." and keep it
	symbol := parts[2]
	if strings.Contains(symbol, ".") && !strings.HasPrefix(symbol, ".") {
		symbol = strings.SplitN(symbol, ".", 2)[0]
	}

	return entity.QuoteRecord{
		Symbol:       symbol,
		Name:         parts[1],
		CurrentPrice: floatField(parts[3]),
		PrevClose:    floatField(parts[4]),
		Open:         floatField(parts[5]),
		Volume:       floatField(parts[6]),
		ChangeAmount: floatField(parts[31]),
		ChangePct:    floatField(parts[32]),
		High:         floatField(parts[33]),
		Low:          floatField(parts[34]),
		Turnover:     turnover,
	}, true
}

// floatField parses a feed field, treating empty and malformed values as 0.
func floatField(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
