package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_signals/internal/feature/signals/usecase"
	sourceadapters "stock_signals/internal/feature/sources/adapters"
	"stock_signals/internal/platform/metrics"
)

// NewSignalPackBuilder wires a fully configured builder. Every dependency
// is optional: a nil db means default providers per facet, a nil rdb
// disables bar caching, a nil registerer disables metrics, and a nil
// portfolio means packs carry no position context.
func NewSignalPackBuilder(db *gorm.DB, rdb *redis.Client, reg prometheus.Registerer, portfolio usecase.PortfolioAccessor) *usecase.SignalPackBuilder {
	var registry usecase.SourceRegistry
	if db != nil {
		registry = sourceadapters.NewSourceRegistry(db)
	}

	var m *metrics.FetchMetrics
	if reg != nil {
		m = metrics.NewFetchMetrics(reg)
	}

	return usecase.NewBuilder(NewProviderSet(rdb), registry, portfolio, m)
}
