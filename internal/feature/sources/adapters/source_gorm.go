// Package adapters provides the storage-backed source registry.
package adapters

import (
	"context"
	"encoding/json"
	"log/slog"

	"gorm.io/gorm"

	"stock_signals/internal/feature/signals/usecase"
	"stock_signals/internal/feature/sources/domain/entity"
)

// sourceGorm is the database implementation of the SourceRegistry
// interface. The registry is read-only here; rows are managed externally.
type sourceGorm struct {
	db *gorm.DB
}

var _ usecase.SourceRegistry = (*sourceGorm)(nil)

// NewSourceRegistry creates a registry backed by the given DB connection.
func NewSourceRegistry(db *gorm.DB) *sourceGorm {
	return &sourceGorm{db: db}
}

// ListByType returns the configured sources for one facet type in
// ascending priority order. Rows with malformed Config JSON keep a nil
// config instead of failing the lookup.
func (r *sourceGorm) ListByType(ctx context.Context, sourceType string) ([]usecase.SourceEntry, error) {
	var rows []entity.DataSource
	if err := r.db.WithContext(ctx).
		Where("type = ?", sourceType).
		Order("priority ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]usecase.SourceEntry, 0, len(rows))
	for _, row := range rows {
		entry := usecase.SourceEntry{
			Provider: row.Provider,
			Priority: row.Priority,
			Enabled:  row.Enabled,
		}
		if row.Config != "" {
			var cfg map[string]any
			if err := json.Unmarshal([]byte(row.Config), &cfg); err != nil {
				slog.Warn("malformed source config, ignoring",
					"source", row.Name, "type", sourceType, "error", err)
			} else {
				entry.Config = cfg
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
