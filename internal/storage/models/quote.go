// Package models defines the rows persisted to ClickHouse.
package models

import "time"

// Quote is one exchange quote inside one stored snapshot.
// Opportunities are derived on read and never stored.
type Quote struct {
	// SnapshotID groups the quotes fetched together.
	SnapshotID string `json:"snapshot_id" gorm:"column:snapshot_id"`

	// Asset is the tracked asset symbol (e.g., "BTC").
	Asset string `json:"asset" gorm:"column:asset"`

	// Source names the source(s) that produced the snapshot (e.g., "quotesapi,nobitex").
	Source string `json:"source" gorm:"column:source"`

	// Exchange is the quoted exchange name.
	Exchange string `json:"exchange" gorm:"column:exchange"`

	Price         float64 `json:"price" gorm:"column:price"`
	Fee           float64 `json:"fee" gorm:"column:fee"`
	Volume        float64 `json:"volume" gorm:"column:volume"`
	Change24h     float64 `json:"change_24h" gorm:"column:change_24h"`
	PaymentMethod string  `json:"payment_method" gorm:"column:payment_method"`

	// Live is false for simulated snapshots.
	Live bool `json:"live" gorm:"column:live"`

	// FetchedAt is when the snapshot was taken.
	FetchedAt time.Time `json:"fetched_at" gorm:"column:fetched_at"`

	// InsertedAt is when the row was inserted into our database.
	InsertedAt time.Time `json:"inserted_at" gorm:"column:inserted_at"`
}

func (Quote) TableName() string { return "quote" }
