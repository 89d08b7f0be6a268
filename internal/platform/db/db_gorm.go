// Package db opens the local configuration database holding the source
// registry and the stored watchlist.
package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	sourcesentity "stock_signals/internal/feature/sources/domain/entity"
	watchentity "stock_signals/internal/feature/watchlist/domain/entity"
)

// Open opens (or creates) the SQLite database at path and migrates the
// configuration tables. Rows are managed externally; this module only
// reads them.
func Open(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open config db %s: %w", path, err)
	}

	if err := gdb.AutoMigrate(
		&sourcesentity.DataSource{},
		&watchentity.Watch{},
	); err != nil {
		return nil, fmt.Errorf("migrate config db: %w", err)
	}

	return gdb, nil
}
