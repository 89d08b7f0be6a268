// Package usecase implements the business logic for watchlist operations.
package usecase

import (
	"context"

	"stock_signals/internal/feature/watchlist/domain/entity"
)

// WatchRepository abstracts the persistence layer for watchlist entries.
// Following Go convention: interfaces are defined by the consumer
// (usecase), not the provider (adapters).
type WatchRepository interface {
	ListActive(ctx context.Context) ([]entity.Watch, error)
}

// WatchlistUsecase provides business logic for watchlist operations.
type WatchlistUsecase struct {
	repo WatchRepository
}

// NewWatchlistUsecase creates a new WatchlistUsecase with the given repository.
func NewWatchlistUsecase(r WatchRepository) *WatchlistUsecase {
	return &WatchlistUsecase{repo: r}
}

// ListActive returns all active watchlist entries in display order.
func (u *WatchlistUsecase) ListActive(ctx context.Context) ([]entity.Watch, error) {
	return u.repo.ListActive(ctx)
}
