package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"stock_signals/internal/domain/market"
	"stock_signals/internal/feature/technical/domain/entity"
)

// mockBarProvider is a BarProvider mock for tests.
type mockBarProvider struct {
	getBarsFn func(ctx context.Context, code market.Code, symbol string, days int) ([]entity.Bar, error)
}

func (m *mockBarProvider) GetBars(ctx context.Context, code market.Code, symbol string, days int) ([]entity.Bar, error) {
	if m.getBarsFn != nil {
		return m.getBarsFn(ctx, code, symbol, days)
	}
	return nil, nil
}

// TestNewCachingBarProvider_Defaults verifies the TTL and namespace defaults.
func TestNewCachingBarProvider_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{
			name:              "default values when zero/empty",
			ttl:               0,
			namespace:         "",
			expectedTTL:       5 * time.Minute,
			expectedNamespace: "bars",
		},
		{
			name:              "negative ttl uses default",
			ttl:               -1 * time.Minute,
			namespace:         "",
			expectedTTL:       5 * time.Minute,
			expectedNamespace: "bars",
		},
		{
			name:              "custom values preserved",
			ttl:               10 * time.Minute,
			namespace:         "custom",
			expectedTTL:       10 * time.Minute,
			expectedNamespace: "custom",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewCachingBarProvider(nil, tt.ttl, &mockBarProvider{}, tt.namespace)

			if p.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, p.ttl)
			}
			if p.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, p.namespace)
			}
		})
	}
}

// TestCachingBarProvider_GetBars_NilRedis verifies the decorator bypasses
// the cache and calls the inner provider directly when Redis is nil.
func TestCachingBarProvider_GetBars_NilRedis(t *testing.T) {
	t.Parallel()

	expectedBars := []entity.Bar{
		{Date: "2025-03-03", Open: 10.0, Close: 10.5, High: 10.6, Low: 9.9, Volume: 1000},
	}

	inner := &mockBarProvider{
		getBarsFn: func(ctx context.Context, code market.Code, symbol string, days int) ([]entity.Bar, error) {
			return expectedBars, nil
		},
	}

	p := NewCachingBarProvider(nil, 5*time.Minute, inner, "bars")

	bars, err := p.GetBars(context.Background(), market.CN, "600519", 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != len(expectedBars) {
		t.Errorf("expected %d bars, got %d", len(expectedBars), len(bars))
	}
}

// TestCachingBarProvider_GetBars_CacheHit verifies a cache hit returns the
// stored bars without touching the inner provider.
func TestCachingBarProvider_GetBars_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedBars := []entity.Bar{
		{Date: "2025-03-03", Open: 10.0, Close: 10.5},
	}
	cachedJSON, _ := json.Marshal(cachedBars)

	mock.ExpectGet("bars:CN:600519:120").SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockBarProvider{
		getBarsFn: func(ctx context.Context, code market.Code, symbol string, days int) ([]entity.Bar, error) {
			innerCalled = true
			return nil, nil
		},
	}

	p := NewCachingBarProvider(rdb, 5*time.Minute, inner, "bars")
	bars, err := p.GetBars(context.Background(), market.CN, "600519", 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner provider should not be called on cache hit")
	}
	if len(bars) != 1 {
		t.Errorf("expected 1 bar, got %d", len(bars))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingBarProvider_GetBars_CacheMiss verifies a miss falls through to
// the inner provider and stores the result.
func TestCachingBarProvider_GetBars_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedBars := []entity.Bar{
		{Date: "2025-03-03", Open: 10.0, Close: 10.5},
	}
	expectedJSON, _ := json.Marshal(expectedBars)

	mock.ExpectGet("bars:CN:600519:120").RedisNil()
	mock.ExpectSet("bars:CN:600519:120", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockBarProvider{
		getBarsFn: func(ctx context.Context, code market.Code, symbol string, days int) ([]entity.Bar, error) {
			return expectedBars, nil
		},
	}

	p := NewCachingBarProvider(rdb, 5*time.Minute, inner, "bars")
	bars, err := p.GetBars(context.Background(), market.CN, "600519", 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Errorf("expected 1 bar, got %d", len(bars))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingBarProvider_GetBars_InnerError verifies upstream errors are
// propagated unchanged.
func TestCachingBarProvider_GetBars_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("upstream error")

	mock.ExpectGet("bars:CN:600519:120").RedisNil()

	inner := &mockBarProvider{
		getBarsFn: func(ctx context.Context, code market.Code, symbol string, days int) ([]entity.Bar, error) {
			return nil, expectedErr
		},
	}

	p := NewCachingBarProvider(rdb, 5*time.Minute, inner, "bars")
	_, err := p.GetBars(context.Background(), market.CN, "600519", 120)

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingBarProvider_GetBars_CorruptedCache verifies a corrupted entry
// is deleted and the provider result re-cached.
func TestCachingBarProvider_GetBars_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedBars := []entity.Bar{
		{Date: "2025-03-03", Open: 10.0, Close: 10.5},
	}
	expectedJSON, _ := json.Marshal(expectedBars)

	mock.ExpectGet("bars:CN:600519:120").SetVal("invalid json")
	mock.ExpectDel("bars:CN:600519:120").SetVal(1)
	mock.ExpectSet("bars:CN:600519:120", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockBarProvider{
		getBarsFn: func(ctx context.Context, code market.Code, symbol string, days int) ([]entity.Bar, error) {
			return expectedBars, nil
		},
	}

	p := NewCachingBarProvider(rdb, 5*time.Minute, inner, "bars")
	bars, err := p.GetBars(context.Background(), market.CN, "600519", 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Errorf("expected 1 bar, got %d", len(bars))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestSafe verifies key escaping of characters Redis keys should not carry.
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"600519", "600519"},
		{"BRK A", "BRK_A"},
		{"key:value", "key_value"},
		{"a b:c", "a_b_c"},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			result := safe(tt.input)
			if result != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
