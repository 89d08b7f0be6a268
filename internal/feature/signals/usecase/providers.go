// Package usecase implements the signal pack builder: per-facet source
// policy, concurrent provider fan-out, memoized caching and pack assembly.
//
// Following Go convention, the provider interfaces are defined here on the
// consumer side; adapters under internal/platform implement them.
package usecase

import (
	"context"
	"time"

	"stock_signals/internal/domain/market"
	"stock_signals/internal/feature/signals/domain/entity"
	technical "stock_signals/internal/feature/technical/domain/entity"
)

// QuoteProvider fetches realtime quotes for a batch of symbols in one
// market. Symbols the upstream could not resolve are silently dropped from
// the result.
type QuoteProvider interface {
	GetStockData(ctx context.Context, code market.Code, symbols []string) ([]entity.QuoteRecord, error)
}

// BarProvider fetches historical daily bars for one symbol, oldest first.
// An empty slice with a nil error means the upstream had no data.
type BarProvider interface {
	GetBars(ctx context.Context, code market.Code, symbol string, days int) ([]technical.Bar, error)
}

// CapitalFlowProvider fetches today's main-fund flow summary for one
// domestic symbol.
type CapitalFlowProvider interface {
	GetSummary(ctx context.Context, symbol string) (*entity.CapitalFlowSummary, error)
}

// NewsProvider fetches recent news for a symbol set since a timestamp,
// newest first.
type NewsProvider interface {
	FetchNews(ctx context.Context, symbols []string, since time.Time) ([]entity.NewsItem, error)
}

// EventsProvider fetches structured corporate events for a symbol set
// since a timestamp, newest first.
type EventsProvider interface {
	FetchEvents(ctx context.Context, symbols []string, since time.Time) ([]entity.EventItem, error)
}

// PortfolioAccessor exposes externally owned position data. The builder
// treats every failure here as "no position"; holdings are supplementary
// context, never a reason to degrade a pack.
type PortfolioAccessor interface {
	GetPositionsForSymbol(ctx context.Context, symbol string) ([]entity.PositionRecord, error)
	GetAggregatedPosition(ctx context.Context, symbol string) (*entity.AggregatedPosition, error)
}

// SourceEntry is one configured provider row for a facet type.
type SourceEntry struct {
	Provider string
	Priority int
	Enabled  bool
	Config   map[string]any
}

// SourceRegistry lists the configured sources for a facet type in
// ascending priority order. An empty list means nothing is configured and
// the facet falls back to its default provider.
type SourceRegistry interface {
	ListByType(ctx context.Context, sourceType string) ([]SourceEntry, error)
}

// ProviderSet maps registry provider names to implementations, one map per
// facet type. Providers named in the registry but absent here are skipped
// during the priority walk.
type ProviderSet struct {
	Quotes map[string]QuoteProvider
	Bars   map[string]BarProvider
	Flows  map[string]CapitalFlowProvider
	News   map[string]NewsProvider
	Events map[string]EventsProvider
}
