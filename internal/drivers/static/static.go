// Package static simulates quotes from the exchange catalog. Its snapshots
// are flagged as not live and it is never mixed with real sources.
package static

import (
	"context"
	"fmt"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/crawler"
	"github.com/navid-fn/spread-radar/internal/models"
)

type Source struct {
	catalog *configs.Catalog
}

func NewSource(catalog *configs.Catalog) *Source {
	return &Source{catalog: catalog}
}

func (s *Source) Name() string { return "static" }
func (s *Source) Live() bool   { return false }

// Fetch prices every catalog exchange at the asset's reference price shifted
// by the exchange's simulated offset.
func (s *Source) Fetch(ctx context.Context, asset string) ([]models.ExchangeQuote, error) {
	info, ok := s.catalog.Asset(asset)
	if !ok || info.ReferencePrice <= 0 {
		return nil, fmt.Errorf("static: no reference price for %s: %w", asset, crawler.ErrUnsupportedAsset)
	}

	quotes := make([]models.ExchangeQuote, 0, len(s.catalog.Exchanges))
	for _, ex := range s.catalog.Exchanges {
		quotes = append(quotes, ex.Quote(info.ReferencePrice*(1+ex.SimulatedOffsetPercent/100)))
	}
	return quotes, nil
}
