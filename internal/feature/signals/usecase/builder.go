package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"stock_signals/internal/domain/market"
	"stock_signals/internal/feature/signals/domain/entity"
	technicalusecase "stock_signals/internal/feature/technical/usecase"
	"stock_signals/internal/platform/metrics"
)

const (
	// defaultBarDays is the history depth fetched for indicator computation.
	// 120 daily bars cover the longest window (MA60/support_l) twice over.
	defaultBarDays = 120
	// maxItemsPerPack caps news/event items attached to one pack.
	maxItemsPerPack = 5
)

// WatchSymbol identifies one watchlist entry in a build request.
type WatchSymbol struct {
	Symbol string
	Market market.Code
	Name   string
}

// BuildOptions selects which facets a build call populates.
type BuildOptions struct {
	IncludeNews        bool
	NewsHours          int
	IncludeTechnical   bool
	IncludeCapitalFlow bool
	IncludeEvents      bool
	EventsDays         int
}

// facetKey keys the per-symbol caches.
type facetKey struct {
	Market market.Code
	Symbol string
}

// batchKey keys the batched news/events caches by symbol set and window.
type batchKey struct {
	Symbols string
	Window  int
}

type cachedNews struct {
	items    []entity.NewsItem
	provider string
}

type cachedEvents struct {
	items    []entity.EventItem
	provider string
}

// SignalPackBuilder assembles per-symbol signal packs from pluggable
// providers. It owns private memoization caches scoped to its own
// lifetime (typically one agent run); construct a fresh builder per
// logical run rather than sharing one across independent runs.
//
// The caches are mutex-guarded because one build call fans out
// concurrently across facets, but a builder is not meant to serve
// overlapping BuildForSymbols calls from independent runs.
type SignalPackBuilder struct {
	providers ProviderSet
	registry  SourceRegistry
	portfolio PortfolioAccessor
	metrics   *metrics.FetchMetrics
	barDays   int

	mu          sync.Mutex
	quoteCache  map[facetKey]*entity.QuoteRecord
	techCache   map[facetKey]*entity.TechnicalResult
	flowCache   map[facetKey]*entity.CapitalFlowResult
	newsCache   map[batchKey]cachedNews
	eventsCache map[batchKey]cachedEvents

	logMu sync.Mutex
	logs  []LogEntry
}

// NewBuilder creates a SignalPackBuilder with empty caches. registry,
// portfolio and m may be nil: a nil registry means default providers
// everywhere, a nil portfolio means no position data, a nil m records no
// metrics.
func NewBuilder(providers ProviderSet, registry SourceRegistry, portfolio PortfolioAccessor, m *metrics.FetchMetrics) *SignalPackBuilder {
	return &SignalPackBuilder{
		providers:   providers,
		registry:    registry,
		portfolio:   portfolio,
		metrics:     m,
		barDays:     defaultBarDays,
		quoteCache:  make(map[facetKey]*entity.QuoteRecord),
		techCache:   make(map[facetKey]*entity.TechnicalResult),
		flowCache:   make(map[facetKey]*entity.CapitalFlowResult),
		newsCache:   make(map[batchKey]cachedNews),
		eventsCache: make(map[batchKey]cachedEvents),
	}
}

// buildState collects the per-build view of every facet. Facet tasks write
// it concurrently; assembly reads it after all tasks have settled.
type buildState struct {
	mu             sync.Mutex
	quotes         map[string]*entity.QuoteRecord
	quoteSrc       map[string]string
	tech           map[string]*entity.TechnicalResult
	techSrc        map[string]string
	flow           map[string]*entity.CapitalFlowResult
	flowSrc        map[string]string
	newsBySymbol   map[string][]entity.NewsItem
	newsSrc        string
	eventsBySymbol map[string][]entity.EventItem
	eventsSrc      string
}

func newBuildState() *buildState {
	return &buildState{
		quotes:         make(map[string]*entity.QuoteRecord),
		quoteSrc:       make(map[string]string),
		tech:           make(map[string]*entity.TechnicalResult),
		techSrc:        make(map[string]string),
		flow:           make(map[string]*entity.CapitalFlowResult),
		flowSrc:        make(map[string]string),
		newsBySymbol:   make(map[string][]entity.NewsItem),
		eventsBySymbol: make(map[string][]entity.EventItem),
	}
}

func (s *buildState) setQuote(symbol string, q *entity.QuoteRecord, src string) {
	s.mu.Lock()
	s.quotes[symbol] = q
	s.quoteSrc[symbol] = src
	s.mu.Unlock()
}

func (s *buildState) setTech(symbol string, r *entity.TechnicalResult, src string) {
	s.mu.Lock()
	s.tech[symbol] = r
	s.techSrc[symbol] = src
	s.mu.Unlock()
}

func (s *buildState) setFlow(symbol string, r *entity.CapitalFlowResult, src string) {
	s.mu.Lock()
	s.flow[symbol] = r
	s.flowSrc[symbol] = src
	s.mu.Unlock()
}

// BuildForSymbols builds one signal pack per watchlist entry. Facet
// fetches fan out concurrently and each failure degrades only its own
// facet; the call itself never fails on provider conditions.
func (b *SignalPackBuilder) BuildForSymbols(ctx context.Context, symbols []WatchSymbol, opts BuildOptions) map[string]*entity.SignalPack {
	computedAt := time.Now().UTC().Format(time.RFC3339)

	symbolSet := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		symbolSet[s.Symbol] = struct{}{}
	}

	quoteProviders, quoteDisabled := b.sourcePolicy(ctx, entity.FacetQuote, defaultQuoteProvider)
	klineProviders, klineDisabled := b.sourcePolicy(ctx, entity.FacetKline, defaultKlineProvider)
	flowProviders, flowDisabled := b.sourcePolicy(ctx, entity.FacetCapitalFlow, defaultFlowProvider)
	newsProviders, newsDisabled := b.sourcePolicy(ctx, entity.FacetNews, defaultNewsProvider)
	eventProviders, eventsDisabled := b.sourcePolicy(ctx, entity.FacetEvents, defaultEventProvider)

	state := newBuildState()
	var wg sync.WaitGroup

	// Quotes batch per market: one task per market group.
	byMarket := make(map[market.Code][]string)
	for _, s := range symbols {
		byMarket[s.Market] = append(byMarket[s.Market], s.Symbol)
	}
	for mc, syms := range byMarket {
		wg.Add(1)
		go func(mc market.Code, syms []string) {
			defer wg.Done()
			b.fetchQuotes(ctx, state, mc, syms, quoteProviders, quoteDisabled)
		}(mc, syms)
	}

	// Technical is not batchable upstream: one task per symbol.
	if opts.IncludeTechnical {
		for _, s := range symbols {
			wg.Add(1)
			go func(s WatchSymbol) {
				defer wg.Done()
				b.fetchTechnical(ctx, state, s, klineProviders, klineDisabled)
			}(s)
		}
	}

	if opts.IncludeNews {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.fetchNews(ctx, state, symbolSet, opts.NewsHours, newsProviders, newsDisabled)
		}()
	}

	// Capital flow is restricted to domestic symbols.
	if opts.IncludeCapitalFlow {
		for _, s := range symbols {
			if !s.Market.IsDomestic() {
				continue
			}
			wg.Add(1)
			go func(s WatchSymbol) {
				defer wg.Done()
				b.fetchCapitalFlow(ctx, state, s, flowProviders, flowDisabled)
			}(s)
		}
	}

	if opts.IncludeEvents {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.fetchEvents(ctx, state, symbolSet, opts.EventsDays, eventProviders, eventsDisabled)
		}()
	}

	wg.Wait()

	return b.assemble(ctx, symbols, opts, computedAt, state)
}

// fetchQuotes resolves quotes for one market group: cache first, then the
// configured providers in priority order over the still-missing symbols.
func (b *SignalPackBuilder) fetchQuotes(ctx context.Context, state *buildState, mc market.Code, syms []string, providers []string, disabled bool) {
	remaining := make(map[string]struct{})
	b.mu.Lock()
	for _, sym := range syms {
		if q, ok := b.quoteCache[facetKey{mc, sym}]; ok {
			state.setQuote(sym, q, entity.SourceCache)
			continue
		}
		remaining[sym] = struct{}{}
	}
	b.mu.Unlock()
	if len(remaining) == 0 {
		return
	}

	if disabled {
		for sym := range remaining {
			b.storeQuote(mc, sym, nil)
			state.setQuote(sym, nil, entity.SourceDisabled)
		}
		return
	}

	start := time.Now()
	b.log(entity.FacetQuote, actionStart,
		fmt.Sprintf("fetching %d quotes for %s", len(remaining), mc), 0, 0)

	fetched := 0
	for _, name := range providers {
		if len(remaining) == 0 {
			break
		}
		provider, ok := b.providers.Quotes[name]
		if !ok {
			slog.Info("quote provider not wired, skipping", "provider", name)
			continue
		}

		batch := sortedKeys(remaining)
		callStart := time.Now()
		records, err := provider.GetStockData(ctx, mc, batch)
		b.metrics.Observe(entity.FacetQuote, name, time.Since(callStart), err)
		if err != nil {
			b.log(entity.FacetQuote, actionError,
				fmt.Sprintf("%s: %v", name, err), time.Since(callStart), 0)
			continue
		}

		for i := range records {
			r := records[i]
			if _, want := remaining[r.Symbol]; !want {
				continue
			}
			b.storeQuote(mc, r.Symbol, &r)
			state.setQuote(r.Symbol, &r, name)
			delete(remaining, r.Symbol)
			fetched++
		}
	}

	// Whatever no provider could resolve stays nil.
	for sym := range remaining {
		b.storeQuote(mc, sym, nil)
		state.setQuote(sym, nil, entity.SourceUnavailable)
	}

	b.log(entity.FacetQuote, actionSuccess,
		fmt.Sprintf("%d fetched, %d unavailable (%s)", fetched, len(remaining), mc),
		time.Since(start), fetched)
}

func (b *SignalPackBuilder) storeQuote(mc market.Code, symbol string, q *entity.QuoteRecord) {
	b.mu.Lock()
	b.quoteCache[facetKey{mc, symbol}] = q
	b.mu.Unlock()
}

// fetchTechnical resolves one symbol's indicator summary: cache first,
// then providers in priority order until one call succeeds. Exhaustion
// leaves an error marker carrying the last failure.
func (b *SignalPackBuilder) fetchTechnical(ctx context.Context, state *buildState, s WatchSymbol, providers []string, disabled bool) {
	key := facetKey{s.Market, s.Symbol}

	b.mu.Lock()
	cached, ok := b.techCache[key]
	b.mu.Unlock()
	if ok {
		state.setTech(s.Symbol, cached, entity.SourceCache)
		return
	}

	if disabled {
		res := &entity.TechnicalResult{Err: "kline sources disabled"}
		b.storeTech(key, res)
		state.setTech(s.Symbol, res, entity.SourceDisabled)
		return
	}

	start := time.Now()
	var lastErr error
	for _, name := range providers {
		provider, ok := b.providers.Bars[name]
		if !ok {
			slog.Info("kline provider not wired, skipping", "provider", name)
			continue
		}

		callStart := time.Now()
		bars, err := provider.GetBars(ctx, s.Market, s.Symbol, b.barDays)
		b.metrics.Observe(entity.FacetKline, name, time.Since(callStart), err)
		if err != nil {
			lastErr = err
			b.log(entity.FacetKline, actionError,
				fmt.Sprintf("%s %s: %v", s.Symbol, name, err), time.Since(callStart), 0)
			continue
		}

		var res *entity.TechnicalResult
		if len(bars) == 0 {
			res = &entity.TechnicalResult{Err: "no bar data"}
		} else {
			summary := technicalusecase.Summarize(bars)
			res = &entity.TechnicalResult{Summary: &summary}
		}
		b.storeTech(key, res)
		state.setTech(s.Symbol, res, name)
		b.log(entity.FacetKline, actionSuccess,
			fmt.Sprintf("%s: %d bars", s.Symbol, len(bars)), time.Since(start), len(bars))
		return
	}

	msg := "no kline provider available"
	if lastErr != nil {
		msg = lastErr.Error()
	}
	res := &entity.TechnicalResult{Err: msg}
	b.storeTech(key, res)
	state.setTech(s.Symbol, res, entity.SourceUnavailable)
}

func (b *SignalPackBuilder) storeTech(key facetKey, res *entity.TechnicalResult) {
	b.mu.Lock()
	b.techCache[key] = res
	b.mu.Unlock()
}

// fetchCapitalFlow mirrors fetchTechnical for the flow facet.
func (b *SignalPackBuilder) fetchCapitalFlow(ctx context.Context, state *buildState, s WatchSymbol, providers []string, disabled bool) {
	key := facetKey{s.Market, s.Symbol}

	b.mu.Lock()
	cached, ok := b.flowCache[key]
	b.mu.Unlock()
	if ok {
		state.setFlow(s.Symbol, cached, entity.SourceCache)
		return
	}

	if disabled {
		res := &entity.CapitalFlowResult{Err: "capital flow sources disabled"}
		b.storeFlow(key, res)
		state.setFlow(s.Symbol, res, entity.SourceDisabled)
		return
	}

	start := time.Now()
	var lastErr error
	for _, name := range providers {
		provider, ok := b.providers.Flows[name]
		if !ok {
			slog.Info("capital flow provider not wired, skipping", "provider", name)
			continue
		}

		callStart := time.Now()
		summary, err := provider.GetSummary(ctx, s.Symbol)
		b.metrics.Observe(entity.FacetCapitalFlow, name, time.Since(callStart), err)
		if err != nil {
			lastErr = err
			b.log(entity.FacetCapitalFlow, actionError,
				fmt.Sprintf("%s %s: %v", s.Symbol, name, err), time.Since(callStart), 0)
			continue
		}

		var res *entity.CapitalFlowResult
		if summary == nil {
			res = &entity.CapitalFlowResult{Err: "no capital flow data"}
		} else {
			res = &entity.CapitalFlowResult{Summary: summary}
		}
		b.storeFlow(key, res)
		state.setFlow(s.Symbol, res, name)
		b.log(entity.FacetCapitalFlow, actionSuccess, s.Symbol, time.Since(start), 1)
		return
	}

	msg := "no capital flow provider available"
	if lastErr != nil {
		msg = lastErr.Error()
	}
	res := &entity.CapitalFlowResult{Err: msg}
	b.storeFlow(key, res)
	state.setFlow(s.Symbol, res, entity.SourceUnavailable)
}

func (b *SignalPackBuilder) storeFlow(key facetKey, res *entity.CapitalFlowResult) {
	b.mu.Lock()
	b.flowCache[key] = res
	b.mu.Unlock()
}

// fetchNews runs one batched fetch over the whole symbol set and
// demultiplexes the result by item symbol tags.
func (b *SignalPackBuilder) fetchNews(ctx context.Context, state *buildState, symbolSet map[string]struct{}, hours int, providers []string, disabled bool) {
	syms := sortedKeys(symbolSet)
	key := batchKey{strings.Join(syms, ","), hours}

	b.mu.Lock()
	cached, hit := b.newsCache[key]
	b.mu.Unlock()

	var items []entity.NewsItem
	src := entity.SourceUnavailable
	switch {
	case hit:
		items = cached.items
		src = entity.SourceCache
	case disabled:
		b.storeNews(key, cachedNews{provider: entity.SourceDisabled})
		src = entity.SourceDisabled
	default:
		start := time.Now()
		b.log(entity.FacetNews, actionStart,
			fmt.Sprintf("fetching news for %d symbols, %dh window", len(syms), hours), 0, 0)
		since := time.Now().Add(-time.Duration(hours) * time.Hour)
		var lastErr error
		for _, name := range providers {
			provider, ok := b.providers.News[name]
			if !ok {
				slog.Info("news provider not wired, skipping", "provider", name)
				continue
			}
			callStart := time.Now()
			fetched, err := provider.FetchNews(ctx, syms, since)
			b.metrics.Observe(entity.FacetNews, name, time.Since(callStart), err)
			if err != nil {
				lastErr = err
				b.log(entity.FacetNews, actionError,
					fmt.Sprintf("%s: %v", name, err), time.Since(callStart), 0)
				continue
			}
			items = fetched
			src = name
			b.storeNews(key, cachedNews{items: fetched, provider: name})
			b.log(entity.FacetNews, actionSuccess,
				fmt.Sprintf("%d items", len(fetched)), time.Since(start), len(fetched))
			break
		}
		if src == entity.SourceUnavailable {
			if lastErr != nil {
				b.log(entity.FacetNews, actionError, lastErr.Error(), time.Since(start), 0)
			}
			b.storeNews(key, cachedNews{provider: entity.SourceUnavailable})
		}
	}

	state.mu.Lock()
	state.newsSrc = src
	for _, it := range items {
		for _, sym := range it.Symbols {
			if _, ok := symbolSet[sym]; !ok {
				continue
			}
			state.newsBySymbol[sym] = append(state.newsBySymbol[sym], it)
		}
	}
	state.mu.Unlock()
}

func (b *SignalPackBuilder) storeNews(key batchKey, c cachedNews) {
	b.mu.Lock()
	b.newsCache[key] = c
	b.mu.Unlock()
}

// fetchEvents mirrors fetchNews with a day-based lookback.
func (b *SignalPackBuilder) fetchEvents(ctx context.Context, state *buildState, symbolSet map[string]struct{}, days int, providers []string, disabled bool) {
	syms := sortedKeys(symbolSet)
	key := batchKey{strings.Join(syms, ","), days}

	b.mu.Lock()
	cached, hit := b.eventsCache[key]
	b.mu.Unlock()

	var items []entity.EventItem
	src := entity.SourceUnavailable
	switch {
	case hit:
		items = cached.items
		src = entity.SourceCache
	case disabled:
		b.storeEvents(key, cachedEvents{provider: entity.SourceDisabled})
		src = entity.SourceDisabled
	default:
		start := time.Now()
		since := time.Now().AddDate(0, 0, -days)
		var lastErr error
		for _, name := range providers {
			provider, ok := b.providers.Events[name]
			if !ok {
				slog.Info("events provider not wired, skipping", "provider", name)
				continue
			}
			callStart := time.Now()
			fetched, err := provider.FetchEvents(ctx, syms, since)
			b.metrics.Observe(entity.FacetEvents, name, time.Since(callStart), err)
			if err != nil {
				lastErr = err
				b.log(entity.FacetEvents, actionError,
					fmt.Sprintf("%s: %v", name, err), time.Since(callStart), 0)
				continue
			}
			items = fetched
			src = name
			b.storeEvents(key, cachedEvents{items: fetched, provider: name})
			b.log(entity.FacetEvents, actionSuccess,
				fmt.Sprintf("%d items", len(fetched)), time.Since(start), len(fetched))
			break
		}
		if src == entity.SourceUnavailable {
			if lastErr != nil {
				b.log(entity.FacetEvents, actionError, lastErr.Error(), time.Since(start), 0)
			}
			b.storeEvents(key, cachedEvents{provider: entity.SourceUnavailable})
		}
	}

	state.mu.Lock()
	state.eventsSrc = src
	for _, it := range items {
		for _, sym := range it.Symbols {
			if _, ok := symbolSet[sym]; !ok {
				continue
			}
			state.eventsBySymbol[sym] = append(state.eventsBySymbol[sym], it)
		}
	}
	state.mu.Unlock()
}

func (b *SignalPackBuilder) storeEvents(key batchKey, c cachedEvents) {
	b.mu.Lock()
	b.eventsCache[key] = c
	b.mu.Unlock()
}

// assemble builds the final packs from the settled build state.
func (b *SignalPackBuilder) assemble(ctx context.Context, symbols []WatchSymbol, opts BuildOptions, computedAt string, state *buildState) map[string]*entity.SignalPack {
	packs := make(map[string]*entity.SignalPack, len(symbols))

	for _, s := range symbols {
		pack := &entity.SignalPack{
			Symbol:     s.Symbol,
			Name:       s.Name,
			Market:     s.Market,
			ComputedAt: computedAt,
			Sources:    make(map[string]string),
			Missing:    []string{},
		}

		pack.Quote = state.quotes[s.Symbol]
		pack.Sources[entity.FacetQuote] = orUnknown(state.quoteSrc[s.Symbol])
		if pack.Quote == nil {
			pack.Missing = append(pack.Missing, entity.FacetQuote)
		}

		if opts.IncludeTechnical {
			pack.Technical = state.tech[s.Symbol]
			pack.Sources[entity.FacetKline] = orUnknown(state.techSrc[s.Symbol])
			if !pack.Technical.OK() {
				pack.Missing = append(pack.Missing, entity.FacetKline)
			}
		} else {
			pack.Sources[entity.FacetKline] = entity.SourceSkipped
		}

		pack.Position = b.position(ctx, s.Symbol)

		if opts.IncludeNews {
			items := state.newsBySymbol[s.Symbol]
			if len(items) > maxItemsPerPack {
				items = items[:maxItemsPerPack]
			}
			if items == nil {
				items = []entity.NewsItem{}
			}
			pack.News = &entity.NewsSnapshot{Hours: opts.NewsHours, Items: items}
			pack.Sources[entity.FacetNews] = orUnknown(state.newsSrc)
			if len(items) == 0 {
				pack.Missing = append(pack.Missing, entity.FacetNews)
			}
		} else {
			pack.Sources[entity.FacetNews] = entity.SourceSkipped
		}

		if opts.IncludeCapitalFlow && s.Market.IsDomestic() {
			pack.CapitalFlow = state.flow[s.Symbol]
			pack.Sources[entity.FacetCapitalFlow] = orUnknown(state.flowSrc[s.Symbol])
			if !pack.CapitalFlow.OK() {
				pack.Missing = append(pack.Missing, entity.FacetCapitalFlow)
			}
		} else {
			pack.Sources[entity.FacetCapitalFlow] = entity.SourceSkipped
		}

		if opts.IncludeEvents {
			items := state.eventsBySymbol[s.Symbol]
			if len(items) > maxItemsPerPack {
				items = items[:maxItemsPerPack]
			}
			if items == nil {
				items = []entity.EventItem{}
			}
			pack.Events = &entity.EventsSnapshot{Days: opts.EventsDays, Items: items}
			pack.Sources[entity.FacetEvents] = orUnknown(state.eventsSrc)
			if len(items) == 0 {
				pack.Missing = append(pack.Missing, entity.FacetEvents)
			}
		} else {
			pack.Sources[entity.FacetEvents] = entity.SourceSkipped
		}

		packs[s.Symbol] = pack
	}

	return packs
}

// position fetches the externally owned holdings view. Accessor failures
// are swallowed: position data is supplementary context.
func (b *SignalPackBuilder) position(ctx context.Context, symbol string) *entity.PositionSnapshot {
	snap := &entity.PositionSnapshot{Accounts: []entity.PositionRecord{}}
	if b.portfolio == nil {
		return snap
	}

	records, err := b.portfolio.GetPositionsForSymbol(ctx, symbol)
	if err != nil {
		records = nil
	}
	if len(records) > 0 {
		snap.HasPosition = true
		snap.Accounts = records
	}

	agg, err := b.portfolio.GetAggregatedPosition(ctx, symbol)
	if err != nil || agg == nil {
		agg = entity.AggregatePositions(records)
	}
	snap.Aggregated = agg
	return snap
}

func orUnknown(src string) string {
	if src == "" {
		return entity.SourceUnknown
	}
	return src
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
