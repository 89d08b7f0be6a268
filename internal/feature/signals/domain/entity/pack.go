package entity

import (
	"stock_signals/internal/domain/market"
	technical "stock_signals/internal/feature/technical/domain/entity"
)

// Facet names a category of data inside a signal pack. They key the
// sources and missing bookkeeping on every pack.
const (
	FacetQuote       = "quote"
	FacetKline       = "kline"
	FacetNews        = "news"
	FacetCapitalFlow = "capital_flow"
	FacetEvents      = "events"
)

// Provenance values recorded in SignalPack.Sources alongside concrete
// provider names.
const (
	SourceCache       = "cache"
	SourceDisabled    = "disabled"
	SourceUnavailable = "unavailable"
	SourceSkipped     = "skipped"
	SourceUnknown     = "unknown"
)

// TechnicalResult is either an indicator summary or a provider failure
// marker for one symbol.
type TechnicalResult struct {
	Summary *technical.Summary `json:"summary,omitempty"`
	Err     string             `json:"error,omitempty"`
}

// OK reports whether the result carries a usable summary.
func (r *TechnicalResult) OK() bool {
	return r != nil && r.Err == "" && r.Summary != nil
}

// NewsSnapshot is the per-pack news facet: the lookback window in hours
// and the capped item list.
type NewsSnapshot struct {
	Hours int        `json:"hours"`
	Items []NewsItem `json:"items"`
}

// EventsSnapshot is the per-pack events facet with a day-based lookback.
type EventsSnapshot struct {
	Days  int         `json:"days"`
	Items []EventItem `json:"items"`
}

// SignalPack bundles every facet collected for one symbol during one build
// call. Packs are built fresh per run, consumed by prompt construction and
// then discarded; they are never persisted by this module.
type SignalPack struct {
	Symbol     string      `json:"symbol"`
	Name       string      `json:"name"`
	Market     market.Code `json:"market"`
	ComputedAt string      `json:"computed_at"` // ISO timestamp, UTC

	Quote       *QuoteRecord       `json:"quote,omitempty"`
	Technical   *TechnicalResult   `json:"technical,omitempty"`
	Position    *PositionSnapshot  `json:"position,omitempty"`
	News        *NewsSnapshot      `json:"news,omitempty"`
	CapitalFlow *CapitalFlowResult `json:"capital_flow,omitempty"`
	Events      *EventsSnapshot    `json:"events,omitempty"`

	// Sources records which provider or cache path satisfied each facet.
	Sources map[string]string `json:"sources"`
	// Missing lists facets that were requested but could not be populated.
	Missing []string `json:"missing"`
}
