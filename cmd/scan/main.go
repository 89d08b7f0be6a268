// Command scan builds signal packs for a watchlist in one shot and prints
// them as JSON. Intended for manual inspection and cron-style runs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_signals/internal/app/di"
	"stock_signals/internal/domain/market"
	"stock_signals/internal/feature/signals/usecase"
	watchadapters "stock_signals/internal/feature/watchlist/adapters"
	watchusecase "stock_signals/internal/feature/watchlist/usecase"
	infradb "stock_signals/internal/platform/db"
	infraredis "stock_signals/internal/platform/redis"
)

func main() {
	var (
		symbolsArg = flag.String("symbols", "", "comma-separated watchlist, e.g. 600519,hk:00700,us:AAPL")
		newsHours  = flag.Int("news-hours", 24, "news lookback window in hours")
		eventDays  = flag.Int("event-days", 7, "events lookback window in days")
		skipTech   = flag.Bool("no-technical", false, "skip the technical facet")
		skipNews   = flag.Bool("no-news", false, "skip the news facet")
		skipFlow   = flag.Bool("no-flow", false, "skip the capital-flow facet")
		skipEvents = flag.Bool("no-events", false, "skip the events facet")
		sourcesDB  = flag.String("sources-db", os.Getenv("SOURCES_DB"), "sqlite path of the source registry (empty: defaults per facet)")
		timeout    = flag.Duration("timeout", 2*time.Minute, "whole-run timeout")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var db *gorm.DB
	if *sourcesDB != "" {
		var err error
		db, err = infradb.Open(*sourcesDB)
		if err != nil {
			log.Fatalf("failed to open config db: %v", err)
		}
	}

	watch := parseWatchlist(*symbolsArg)
	if len(watch) == 0 && db != nil {
		watch = storedWatchlist(db)
	}
	if len(watch) == 0 {
		log.Fatal("no symbols given; use -symbols 600519,hk:00700 or store a watchlist in the config db")
	}

	var rdb *redisv9.Client
	if os.Getenv("REDIS_HOST") != "" {
		if tmp, err := infraredis.NewRedisClient(); err != nil {
			slog.Warn("Redis unavailable, running without bar cache")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	builder := di.NewSignalPackBuilder(db, rdb, prometheus.DefaultRegisterer, nil)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	packs := builder.BuildForSymbols(ctx, watch, usecase.BuildOptions{
		IncludeTechnical:   !*skipTech,
		IncludeNews:        !*skipNews,
		NewsHours:          *newsHours,
		IncludeCapitalFlow: !*skipFlow,
		IncludeEvents:      !*skipEvents,
		EventsDays:         *eventDays,
	})

	out, err := json.MarshalIndent(packs, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode packs: %v", err)
	}
	if _, err := os.Stdout.Write(append(out, '\n')); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}

	for _, entry := range builder.Logs() {
		slog.Debug("build log", "facet", entry.Facet, "action", entry.Action,
			"message", entry.Message, "count", entry.Count)
	}
}

// storedWatchlist loads the active watchlist from the config db. An empty
// or failing load is not fatal here; the caller decides.
func storedWatchlist(db *gorm.DB) []usecase.WatchSymbol {
	uc := watchusecase.NewWatchlistUsecase(watchadapters.NewWatchRepository(db))
	rows, err := uc.ListActive(context.Background())
	if err != nil {
		slog.Warn("failed to load stored watchlist", "error", err)
		return nil
	}

	watch := make([]usecase.WatchSymbol, 0, len(rows))
	for _, row := range rows {
		code := market.Code(row.Market)
		switch code {
		case market.CN, market.HK, market.US:
		default:
			slog.Warn("stored watch entry has unknown market, assuming CN",
				"symbol", row.Symbol, "market", row.Market)
			code = market.CN
		}
		watch = append(watch, usecase.WatchSymbol{Symbol: row.Symbol, Market: code})
	}
	return watch
}

// parseWatchlist splits "600519,hk:00700,us:AAPL" into watch entries.
// Entries without a market prefix default to CN.
func parseWatchlist(arg string) []usecase.WatchSymbol {
	var watch []usecase.WatchSymbol
	for _, raw := range strings.Split(arg, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		code := market.CN
		symbol := raw
		if prefix, rest, found := strings.Cut(raw, ":"); found {
			switch strings.ToLower(prefix) {
			case "hk":
				code = market.HK
			case "us":
				code = market.US
			case "cn":
				code = market.CN
			default:
				slog.Warn("unknown market prefix, assuming CN", "entry", raw)
			}
			symbol = rest
		}
		watch = append(watch, usecase.WatchSymbol{Symbol: symbol, Market: code})
	}
	return watch
}
