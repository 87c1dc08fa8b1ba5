package static

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/crawler"
)

func TestFetch(t *testing.T) {
	catalog := &configs.Catalog{
		Assets: map[string]configs.AssetInfo{"BTC": {ReferencePrice: 1000}},
		Exchanges: []configs.ExchangeInfo{
			{Name: "a", Fee: 0.1, SimulatedOffsetPercent: 0},
			{Name: "b", Fee: 0.2, SimulatedOffsetPercent: 2.5},
			{Name: "c", Fee: 0.3, SimulatedOffsetPercent: -1},
		},
	}
	src := NewSource(catalog)

	if src.Live() {
		t.Error("Expected simulated source not to be live")
	}

	quotes, err := src.Fetch(context.Background(), "btc")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := map[string]float64{"a": 1000, "b": 1025, "c": 990}
	if len(quotes) != len(expected) {
		t.Fatalf("Expected %d quotes, got %d", len(expected), len(quotes))
	}
	for _, q := range quotes {
		if math.Abs(q.Price-expected[q.Name]) > 1e-9 {
			t.Errorf("Exchange %s: expected price %v, got %v", q.Name, expected[q.Name], q.Price)
		}
	}

	if _, err := src.Fetch(context.Background(), "DOGE"); !errors.Is(err, crawler.ErrUnsupportedAsset) {
		t.Errorf("Expected ErrUnsupportedAsset for unknown asset, got %v", err)
	}
}

func TestFetchBundledCatalog(t *testing.T) {
	catalog, err := configs.LoadCatalog("../../../configs/exchanges.yaml")
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	for asset := range catalog.Assets {
		quotes, err := NewSource(catalog).Fetch(context.Background(), asset)
		if err != nil {
			t.Errorf("Asset %s: expected no error, got %v", asset, err)
			continue
		}
		if len(quotes) != len(catalog.Exchanges) {
			t.Errorf("Asset %s: expected %d quotes, got %d", asset, len(catalog.Exchanges), len(quotes))
		}
	}
}
