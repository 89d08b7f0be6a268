// Package cache provides caching decorators for data provider interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_signals/internal/domain/market"
	"stock_signals/internal/feature/signals/usecase"
	"stock_signals/internal/feature/technical/domain/entity"
)

// CachingBarProvider decorates a BarProvider with Redis caching. It
// implements the decorator pattern, transparently adding caching without
// modifying the underlying provider.
type CachingBarProvider struct {
	inner     usecase.BarProvider
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.BarProvider = (*CachingBarProvider)(nil)

// NewCachingBarProvider decorates a BarProvider with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "bars".
func NewCachingBarProvider(rdb *redis.Client, ttl time.Duration, inner usecase.BarProvider, namespace string) *CachingBarProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "bars"
	}
	return &CachingBarProvider{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// GetBars retrieves daily bars, checking cache first then falling back to
// the underlying provider.
func (c *CachingBarProvider) GetBars(ctx context.Context, code market.Code, symbol string, days int) ([]entity.Bar, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.GetBars(ctx, code, symbol, days)
	}

	key := c.cacheKey(code, symbol, days)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Bar
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the upstream provider
	out, err := c.inner.GetBars(ctx, code, symbol, days)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates a cache key for a specific query.
func (c *CachingBarProvider) cacheKey(code market.Code, symbol string, days int) string {
	return fmt.Sprintf("%s:%s:%s:%d",
		c.namespace,
		safe(string(code)),
		safe(symbol),
		days,
	)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
