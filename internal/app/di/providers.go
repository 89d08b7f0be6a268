// Package di provides dependency injection factories for creating
// application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"stock_signals/internal/feature/signals/usecase"
	"stock_signals/internal/platform/cache"
	"stock_signals/internal/platform/externalapi/eastmoney"
	"stock_signals/internal/platform/externalapi/tencent"
	infrahttp "stock_signals/internal/platform/http"
	"stock_signals/internal/shared/ratelimiter"
)

// noticesPerMinute caps announcement fetches; the endpoint throttles
// aggressive clients.
const noticesPerMinute = 20

// NewProviderSet creates the full provider map: Tencent for quotes and
// klines, EastMoney for capital flow, news and events. When rdb is non-nil
// the bar provider is wrapped with a Redis cache that expires at the next
// session open.
func NewProviderSet(rdb *redis.Client) usecase.ProviderSet {
	tencentCfg := tencent.LoadConfig()
	tencentHTTP := infrahttp.NewHTTPClient(tencentCfg.Timeout)

	eastmoneyCfg := eastmoney.LoadConfig()
	eastmoneyHTTP := infrahttp.NewHTTPClient(eastmoneyCfg.Timeout)

	var bars usecase.BarProvider = tencent.NewKlineClient(tencentCfg, tencentHTTP)
	if rdb != nil {
		bars = cache.NewCachingBarProvider(rdb, cache.TimeUntilNextOpen(), bars, "bars")
	}

	limiter := ratelimiter.NewRateLimiter(noticesPerMinute, time.Minute)
	notices := eastmoney.NewNoticesClient(eastmoneyCfg, eastmoneyHTTP, limiter)

	return usecase.ProviderSet{
		Quotes: map[string]usecase.QuoteProvider{
			"tencent": tencent.NewQuoteClient(tencentCfg, tencentHTTP),
		},
		Bars: map[string]usecase.BarProvider{
			"tencent": bars,
		},
		Flows: map[string]usecase.CapitalFlowProvider{
			"eastmoney": eastmoney.NewCapitalFlowClient(eastmoneyCfg, eastmoneyHTTP),
		},
		News: map[string]usecase.NewsProvider{
			"eastmoney": notices,
		},
		Events: map[string]usecase.EventsProvider{
			"eastmoney": notices,
		},
	}
}
