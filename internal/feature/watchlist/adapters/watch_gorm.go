// Package adapters provides the repository implementations for the
// watchlist feature.
package adapters

import (
	"context"

	"gorm.io/gorm"

	"stock_signals/internal/feature/watchlist/domain/entity"
	"stock_signals/internal/feature/watchlist/usecase"
)

// watchGorm is the database implementation of the WatchRepository interface.
type watchGorm struct {
	db *gorm.DB
}

var _ usecase.WatchRepository = (*watchGorm)(nil)

// NewWatchRepository creates a watchGorm repository with the given DB
// connection.
func NewWatchRepository(db *gorm.DB) *watchGorm {
	return &watchGorm{db: db}
}

// ListActive returns all active watchlist entries ordered by sort_key.
func (r *watchGorm) ListActive(ctx context.Context) ([]entity.Watch, error) {
	var entries []entity.Watch
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
