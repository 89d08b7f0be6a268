package usecase

import (
	"context"
	"log/slog"
	"sort"
)

// Default providers used when the registry has no rows for a facet type.
const (
	defaultQuoteProvider = "tencent"
	defaultKlineProvider = "tencent"
	defaultFlowProvider  = "eastmoney"
	defaultNewsProvider  = "eastmoney"
	defaultEventProvider = "eastmoney"
)

// sourcePolicy resolves the provider order for one facet type.
//
//   - registry missing or failing: fall back to the default (a config
//     lookup must never break a build)
//   - no rows configured: default provider
//   - rows configured but none enabled: facet disabled, skip all fetches
//   - otherwise: enabled providers in ascending priority order
func (b *SignalPackBuilder) sourcePolicy(ctx context.Context, sourceType string, defaults ...string) (providers []string, disabled bool) {
	if b.registry == nil {
		return defaults, false
	}

	entries, err := b.registry.ListByType(ctx, sourceType)
	if err != nil {
		slog.Warn("source registry lookup failed, using defaults",
			"type", sourceType, "error", err)
		return defaults, false
	}
	if len(entries) == 0 {
		return defaults, false
	}

	enabled := make([]SourceEntry, 0, len(entries))
	for _, e := range entries {
		if e.Enabled && e.Provider != "" {
			enabled = append(enabled, e)
		}
	}
	if len(enabled) == 0 {
		return nil, true
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})
	providers = make([]string, len(enabled))
	for i, e := range enabled {
		providers[i] = e.Provider
	}
	return providers, false
}
