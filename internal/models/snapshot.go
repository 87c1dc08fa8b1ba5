package models

import "time"

// Snapshot is the full set of quotes for one asset from one refresh.
// A new snapshot replaces the previous one wholesale.
type Snapshot struct {
	ID     string `json:"id"`
	Asset  string `json:"asset"`
	Source string `json:"source"`

	// Live is false for simulated data so views never present it as market data.
	Live bool `json:"live"`

	FetchedAt time.Time       `json:"fetchedAt"`
	Quotes    []ExchangeQuote `json:"quotes"`
}
