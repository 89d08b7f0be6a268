// Package entity defines the domain models for the watchlist feature.
package entity

import "time"

// Watch is one stored watchlist entry: a symbol the assistant keeps an eye
// on, with its market and display ordering.
type Watch struct {
	ID        uint      `gorm:"primaryKey"`
	Symbol    string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:8;not null;default:CN"` // CN / HK / US
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
