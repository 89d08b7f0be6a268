package eastmoney

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const annBody = `{
	"success": 1,
	"error": "",
	"data": {
		"list": [
			{
				"art_code": "AN2025011500001",
				"title": "2024年年报业绩预告",
				"notice_date": "2025-01-15 18:30:00",
				"codes": [{"stock_code": "600519"}],
				"columns": [{"column_name": "业绩预告"}]
			},
			{
				"art_code": "AN2025011400002",
				"title": "关于股东减持股份的公告",
				"notice_date": "2025-01-14 09:00:00",
				"codes": [{"stock_code": "600519"}, {"stock_code": "000001"}],
				"columns": []
			},
			{
				"art_code": "AN2025011400002",
				"title": "关于股东减持股份的公告",
				"notice_date": "2025-01-14 09:00:00",
				"codes": [{"stock_code": "600519"}],
				"columns": []
			},
			{
				"art_code": "AN2025010100003",
				"title": "日常经营合同公告",
				"notice_date": "2025-01-01",
				"codes": [],
				"columns": []
			}
		]
	}
}`

func noticesServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("stock_list"); got != "000001,600519" {
			t.Errorf("expected sorted stock_list, got %q", got)
		}
		if got := r.URL.Query().Get("ann_type"); got != "A" {
			t.Errorf("expected ann_type A, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(annBody))
	}))
}

func TestNoticesClient_FetchNews_Success(t *testing.T) {
	t.Parallel()

	server := noticesServer(t)
	defer server.Close()

	client := NewNoticesClient(Config{NoticesBaseURL: server.URL}, server.Client(), nil)

	// HK symbols must be filtered out of the query
	news, err := client.FetchNews(context.Background(), []string{"600519", "000001", "00700"}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Duplicate art_code collapses, so 3 unique items remain
	if len(news) != 3 {
		t.Fatalf("expected 3 news items, got %d", len(news))
	}

	first := news[0]
	if first.ExternalID != "AN2025011500001" {
		t.Errorf("expected newest first, got %q", first.ExternalID)
	}
	if first.Importance != 3 {
		t.Errorf("expected earnings preannouncement importance 3, got %d", first.Importance)
	}
	if first.Source != "eastmoney" {
		t.Errorf("expected source eastmoney, got %q", first.Source)
	}
	if !strings.Contains(first.URL, "600519/AN2025011500001") {
		t.Errorf("unexpected url %q", first.URL)
	}

	second := news[1]
	if len(second.Symbols) != 2 {
		t.Errorf("expected both tagged symbols kept, got %v", second.Symbols)
	}
	if second.Importance != 2 {
		t.Errorf("expected holder-reduction importance 2, got %d", second.Importance)
	}

	// The codeless row falls back to the first queried symbol
	last := news[2]
	if len(last.Symbols) != 1 || last.Symbols[0] != "000001" {
		t.Errorf("expected fallback symbol 000001, got %v", last.Symbols)
	}
	if last.PublishTime.Format("2006-01-02") != "2025-01-01" {
		t.Errorf("expected date-only fallback parse, got %v", last.PublishTime)
	}
}

func TestNoticesClient_FetchNews_SinceFilter(t *testing.T) {
	t.Parallel()

	server := noticesServer(t)
	defer server.Close()

	client := NewNoticesClient(Config{NoticesBaseURL: server.URL}, server.Client(), nil)

	since := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	news, err := client.FetchNews(context.Background(), []string{"600519", "000001"}, since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(news) != 1 {
		t.Fatalf("expected 1 item after since filter, got %d", len(news))
	}
	if news[0].ExternalID != "AN2025011500001" {
		t.Errorf("expected only the newest item, got %q", news[0].ExternalID)
	}
}

func TestNoticesClient_FetchNews_NoDomesticSymbols(t *testing.T) {
	t.Parallel()

	client := NewNoticesClient(Config{NoticesBaseURL: "http://unused.test"}, &http.Client{}, nil)

	news, err := client.FetchNews(context.Background(), []string{"00700", "AAPL"}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(news) != 0 {
		t.Errorf("expected no items, got %d", len(news))
	}
}

func TestNoticesClient_FetchEvents_Success(t *testing.T) {
	t.Parallel()

	server := noticesServer(t)
	defer server.Close()

	client := NewNoticesClient(Config{NoticesBaseURL: server.URL}, server.Client(), nil)

	events, err := client.FetchEvents(context.Background(), []string{"600519", "000001"}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	if events[0].EventType != EventEarnings {
		t.Errorf("expected earnings event, got %q", events[0].EventType)
	}
	if events[1].EventType != EventInsider {
		t.Errorf("expected insider event, got %q", events[1].EventType)
	}
	if events[2].EventType != EventNotice {
		t.Errorf("expected generic notice, got %q", events[2].EventType)
	}
}

func TestNoticesClient_Fetch_APIFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": 0, "error": "rate limited", "data": {"list": []}}`))
	}))
	defer server.Close()

	client := NewNoticesClient(Config{NoticesBaseURL: server.URL}, server.Client(), nil)

	_, err := client.FetchNews(context.Background(), []string{"600519"}, time.Time{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("expected API error message, got %v", err)
	}
}

func TestNoticesClient_Fetch_HTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewNoticesClient(Config{NoticesBaseURL: server.URL}, server.Client(), nil)

	_, err := client.FetchEvents(context.Background(), []string{"600519"}, time.Time{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "eastmoney notices http") {
		t.Errorf("expected HTTP error message, got %v", err)
	}
}

func TestClassifyEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		title    string
		columns  []string
		expected string
	}{
		{"annual report", "2024年年报摘要", nil, EventEarnings},
		{"dividend", "2024年度分红派息实施公告", nil, EventDividend},
		{"suspension", "关于公司股票停牌的公告", nil, EventSuspension},
		{"repurchase", "关于以集中竞价方式回购股份的公告", nil, EventRepurchase},
		{"financing", "向特定对象发行股票并上市公告书", nil, EventFinancing},
		{"insider", "关于董监高减持计划的预披露公告", nil, EventInsider},
		{"regulatory", "关于收到问询函的公告", nil, EventRegulatory},
		{"restructuring", "重大资产重组进展公告", nil, EventRestructuring},
		{"major column", "其他公告", []string{"临时公告"}, EventMajor},
		{"generic", "日常经营合同公告", nil, EventNotice},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := classifyEvent(tt.title, tt.columns); got != tt.expected {
				t.Errorf("classifyEvent(%q) = %q, expected %q", tt.title, got, tt.expected)
			}
		})
	}
}

func TestIsMainlandSymbol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		symbol   string
		expected bool
	}{
		{"600519", true},
		{"000001", true},
		{"00700", false},  // HK, 5 digits
		{"AAPL", false},   // US
		{"60051A", false}, // non-numeric
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.symbol, func(t *testing.T) {
			t.Parallel()

			if got := isMainlandSymbol(tt.symbol); got != tt.expected {
				t.Errorf("isMainlandSymbol(%q) = %v, expected %v", tt.symbol, got, tt.expected)
			}
		})
	}
}
