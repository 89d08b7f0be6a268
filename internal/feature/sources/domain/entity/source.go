// Package entity defines the domain models for the sources feature.
package entity

import "time"

// DataSource is one configured upstream feed for a facet type. Rows are
// managed elsewhere; this module only reads them to resolve the per-facet
// provider order.
type DataSource struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:255;not null"`
	Type     string `gorm:"size:32;not null;index"` // quote / kline / capital_flow / news / events
	Provider string `gorm:"size:64;not null"`
	Priority int    `gorm:"not null;default:0"` // ascending, lower tried first
	Enabled  bool   `gorm:"not null;default:true"`
	// Config holds provider-specific settings as a JSON object (cookies,
	// timeouts...). Empty means no extra configuration.
	Config    string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
