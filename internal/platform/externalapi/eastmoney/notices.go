package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"stock_signals/internal/feature/signals/domain/entity"
	"stock_signals/internal/feature/signals/usecase"
	"stock_signals/internal/platform/externalapi/eastmoney/dto"
	"stock_signals/internal/shared/ratelimiter"
)

// Event types derived from announcement titles and exchange categories.
const (
	EventEarnings      = "earnings"
	EventDividend      = "dividend"
	EventSuspension    = "suspension"
	EventRepurchase    = "repurchase"
	EventFinancing     = "financing"
	EventInsider       = "insider"
	EventRegulatory    = "regulatory"
	EventRestructuring = "restructuring"
	EventMajor         = "major"
	EventNotice        = "notice"
)

const annPageSize = 50

// NoticesClient serves both news and structured events from the EastMoney
// announcements endpoint. Only mainland 6-digit symbols are queried.
type NoticesClient struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

var (
	_ usecase.NewsProvider   = (*NoticesClient)(nil)
	_ usecase.EventsProvider = (*NoticesClient)(nil)
)

// NewNoticesClient creates a NoticesClient with the given config and HTTP
// client. limiter may be nil to disable request throttling.
func NewNoticesClient(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *NoticesClient {
	return &NoticesClient{cfg: cfg, client: client, limiter: limiter}
}

// FetchNews returns recent announcements as news items, newest first.
func (n *NoticesClient) FetchNews(ctx context.Context, symbols []string, since time.Time) ([]entity.NewsItem, error) {
	items, fallback, err := n.fetchAnnouncements(ctx, symbols)
	if err != nil {
		return nil, err
	}

	var news []entity.NewsItem
	for _, item := range items {
		codes := stockCodes(item, fallback)
		if item.ArtCode == "" || strings.TrimSpace(item.Title) == "" {
			continue
		}
		published := parseNoticeDate(item.NoticeDate)
		if !since.IsZero() && published.Before(since) {
			continue
		}
		news = append(news, entity.NewsItem{
			Source:      "eastmoney",
			ExternalID:  item.ArtCode,
			Title:       strings.TrimSpace(item.Title),
			PublishTime: published,
			Importance:  noticeImportance(item.Title, columnNames(item)),
			URL:         noticeURL(codes[0], item.ArtCode),
			Symbols:     codes,
		})
	}

	sort.SliceStable(news, func(i, j int) bool {
		return news[i].PublishTime.After(news[j].PublishTime)
	})
	return dedupNews(news), nil
}

// FetchEvents returns recent announcements as typed corporate events,
// newest first with importance as the tie break.
func (n *NoticesClient) FetchEvents(ctx context.Context, symbols []string, since time.Time) ([]entity.EventItem, error) {
	items, fallback, err := n.fetchAnnouncements(ctx, symbols)
	if err != nil {
		return nil, err
	}

	var events []entity.EventItem
	for _, item := range items {
		codes := stockCodes(item, fallback)
		if item.ArtCode == "" || strings.TrimSpace(item.Title) == "" {
			continue
		}
		published := parseNoticeDate(item.NoticeDate)
		if !since.IsZero() && published.Before(since) {
			continue
		}
		title := strings.TrimSpace(item.Title)
		cols := columnNames(item)
		events = append(events, entity.EventItem{
			Source:      "eastmoney",
			ExternalID:  item.ArtCode,
			EventType:   classifyEvent(title, cols),
			Title:       title,
			PublishTime: published,
			Importance:  noticeImportance(title, cols),
			URL:         noticeURL(codes[0], item.ArtCode),
			Symbols:     codes,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].PublishTime.Equal(events[j].PublishTime) {
			return events[i].PublishTime.After(events[j].PublishTime)
		}
		return events[i].Importance > events[j].Importance
	})
	return dedupEvents(events), nil
}

// fetchAnnouncements queries the ann endpoint for all mainland symbols in
// the set. Returns the raw rows plus the fallback symbol used when a row
// carries no code of its own.
func (n *NoticesClient) fetchAnnouncements(ctx context.Context, symbols []string) ([]dto.AnnItem, string, error) {
	domestic := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if isMainlandSymbol(s) {
			domestic = append(domestic, s)
		}
	}
	if len(domestic) == 0 {
		return nil, "", nil
	}
	sort.Strings(domestic)

	q := url.Values{}
	q.Set("sr", "-1")
	q.Set("page_size", fmt.Sprintf("%d", annPageSize))
	q.Set("page_index", "1")
	q.Set("ann_type", "A")
	q.Set("stock_list", strings.Join(domestic, ","))
	q.Set("f_node", "0")
	q.Set("s_node", "0")
	u := fmt.Sprintf("%s/api/security/ann?%s", n.cfg.NoticesBaseURL, q.Encode())

	if n.limiter != nil {
		n.limiter.WaitIfNeeded()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	res, err := n.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, "", fmt.Errorf("eastmoney notices http %d", res.StatusCode)
	}

	var body dto.AnnResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, "", fmt.Errorf("decode notices payload: %w", err)
	}
	if body.Success != 1 {
		return nil, "", fmt.Errorf("eastmoney notices: %s", body.Error)
	}
	return body.Data.List, domestic[0], nil
}

// isMainlandSymbol reports whether s is a 6-digit A-share code.
func isMainlandSymbol(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stockCodes extracts the symbols an announcement belongs to, falling back
// to the first queried symbol when the row carries none.
func stockCodes(item dto.AnnItem, fallback string) []string {
	var codes []string
	for _, c := range item.Codes {
		if c.StockCode != "" {
			codes = append(codes, c.StockCode)
		}
	}
	if len(codes) == 0 {
		codes = []string{fallback}
	}
	return codes
}

func columnNames(item dto.AnnItem) []string {
	names := make([]string, 0, len(item.Columns))
	for _, c := range item.Columns {
		names = append(names, c.ColumnName)
	}
	return names
}

// parseNoticeDate parses the endpoint's timestamp, falling back to the
// date-only prefix and then to now.
func parseNoticeDate(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t
		}
	}
	return time.Now()
}

func noticeURL(symbol, artCode string) string {
	return fmt.Sprintf("https://data.eastmoney.com/notices/detail/%s/%s.html", symbol, artCode)
}

// Titles and exchange categories are in Chinese, so classification keys on
// Chinese keywords while the resulting labels stay English.

func containsAny(s string, keys ...string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// classifyEvent maps an announcement to a structured event type.
func classifyEvent(title string, columns []string) string {
	switch {
	case containsAny(title, "业绩预告", "业绩快报", "年报", "半年报", "季报", "三季报", "一季报"):
		return EventEarnings
	case containsAny(title, "分红", "派息", "除权", "除息", "送转", "股权登记"):
		return EventDividend
	case containsAny(title, "停牌", "复牌"):
		return EventSuspension
	case containsAny(title, "回购", "股份回购"):
		return EventRepurchase
	case containsAny(title, "增发", "配股", "定向增发", "发行"):
		return EventFinancing
	case containsAny(title, "减持", "增持", "股东", "董监高", "持股变动"):
		return EventInsider
	case containsAny(title, "诉讼", "仲裁", "立案", "处罚", "监管", "问询函"):
		return EventRegulatory
	case containsAny(title, "重组", "并购", "收购", "出售资产", "重大资产"):
		return EventRestructuring
	case containsAny(strings.Join(columns, "|"), "临时公告", "重大事项"):
		return EventMajor
	default:
		return EventNotice
	}
}

// noticeImportance ranks an announcement 0 (noise) to 3 (market moving).
func noticeImportance(title string, columns []string) int {
	switch {
	case containsAny(title, "重大", "业绩预告", "业绩快报", "年报", "半年报", "重组", "停牌", "复牌"):
		return 3
	case containsAny(title, "季报", "分红", "回购", "增持", "减持", "问询函", "处罚"):
		return 2
	case containsAny(strings.Join(columns, "|"), "临时"):
		return 1
	default:
		return 0
	}
}

func dedupNews(items []entity.NewsItem) []entity.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		if _, ok := seen[it.ExternalID]; ok {
			continue
		}
		seen[it.ExternalID] = struct{}{}
		out = append(out, it)
	}
	return out
}

func dedupEvents(items []entity.EventItem) []entity.EventItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		if _, ok := seen[it.ExternalID]; ok {
			continue
		}
		seen[it.ExternalID] = struct{}{}
		out = append(out, it)
	}
	return out
}
