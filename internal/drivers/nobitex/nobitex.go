// Package nobitex reads the latest USDT market stats from Nobitex.
package nobitex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/crawler"
	"github.com/navid-fn/spread-radar/internal/models"
)

const exchangeName = "nobitex"

type symbolData struct {
	IsClosed  bool   `json:"isClosed"`
	Latest    string `json:"latest"`
	DayChange string `json:"dayChange"`
	VolumeSrc string `json:"volumeSrc"`
}

type marketDataAPIResponse struct {
	Status string                `json:"status"`
	Stats  map[string]symbolData `json:"stats"`
}

type Source struct {
	url     string
	client  *http.Client
	catalog *configs.Catalog
}

func NewSource(url string, client *http.Client, catalog *configs.Catalog) *Source {
	return &Source{url: url, client: client, catalog: catalog}
}

func (s *Source) Name() string { return exchangeName }
func (s *Source) Live() bool   { return true }

// Fetch returns at most one quote. A missing or closed market yields none.
func (s *Source) Fetch(ctx context.Context, asset string) ([]models.ExchangeQuote, error) {
	src := strings.ToLower(asset)
	q := url.Values{"srcCurrency": {src}, "dstCurrency": {"usdt"}}

	var resp marketDataAPIResponse
	if err := crawler.GetJSON(ctx, s.client, s.url+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("nobitex: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("nobitex: status %q", resp.Status)
	}

	stats, ok := resp.Stats[transformPair(asset)]
	if !ok || stats.IsClosed {
		return []models.ExchangeQuote{}, nil
	}

	price, err := strconv.ParseFloat(stats.Latest, 64)
	if err != nil {
		return nil, fmt.Errorf("nobitex: parse latest %q: %w", stats.Latest, err)
	}

	quote := s.quote(price)
	quote.Change24h = parseOptional(stats.DayChange)
	quote.Volume = parseOptional(stats.VolumeSrc)
	return []models.ExchangeQuote{quote}, nil
}

func (s *Source) quote(price float64) models.ExchangeQuote {
	if s.catalog != nil {
		if info, ok := s.catalog.Exchange(exchangeName); ok {
			return info.Quote(price)
		}
	}
	return models.ExchangeQuote{Name: exchangeName, Price: price}
}

// transformPair maps an asset to its stats key
// example: BTC -> btc-usdt
func transformPair(asset string) string {
	return strings.ToLower(asset) + "-usdt"
}

func parseOptional(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
