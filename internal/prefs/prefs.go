// Package prefs keeps per-visitor dashboard preferences.
//
// A visitor's record is created by Init on the first dashboard visit and
// removed by Clear on explicit logout. Records also expire after the store TTL.
package prefs

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("preferences not found")

// Preferences drive the default ranking view for one visitor.
type Preferences struct {
	Asset            string    `json:"asset"`
	MinProfitPercent float64   `json:"minProfitPercent"`
	TopK             int       `json:"topK"`
	PaymentMethod    string    `json:"paymentMethod"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Store persists preferences by visitor id.
type Store interface {
	// Init returns the stored preferences, creating the defaults when none exist.
	Init(ctx context.Context, id string) (Preferences, error)

	// Get returns ErrNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (Preferences, error)

	Save(ctx context.Context, id string, p Preferences) (Preferences, error)

	// Clear is a no-op for unknown ids.
	Clear(ctx context.Context, id string) error
}

// Normalize fills zero fields from defaults and upper-cases the asset.
func Normalize(p, defaults Preferences) Preferences {
	if p.Asset == "" {
		p.Asset = defaults.Asset
	}
	if p.TopK <= 0 {
		p.TopK = defaults.TopK
	}
	p.Asset = strings.ToUpper(p.Asset)
	p.PaymentMethod = strings.ToLower(strings.TrimSpace(p.PaymentMethod))
	return p
}
