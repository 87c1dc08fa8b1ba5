// Package wallex reads the latest USDT market price from the Wallex markets endpoint.
package wallex

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/crawler"
	"github.com/navid-fn/spread-radar/internal/models"
)

const exchangeName = "wallex"

type market struct {
	Symbol  string `json:"symbol"`
	Enabled bool   `json:"is_market_type_enable"`
	Price   string `json:"price"`
}

type apiMarketResponse struct {
	Result struct {
		Markets []market `json:"markets"`
	} `json:"result"`
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

// Fetch returns at most one quote. A missing or disabled market yields none.
func (s *Source) Fetch(ctx context.Context, asset string) ([]models.ExchangeQuote, error) {
	var resp apiMarketResponse
	if err := crawler.GetJSON(ctx, s.client, s.url, &resp); err != nil {
		return nil, fmt.Errorf("wallex: %w", err)
	}

	symbol := marketSymbol(asset)
	for _, m := range resp.Result.Markets {
		if m.Symbol != symbol || !m.Enabled {
			continue
		}
		price, err := strconv.ParseFloat(m.Price, 64)
		if err != nil {
			return nil, fmt.Errorf("wallex: parse price %q for %s: %w", m.Price, symbol, err)
		}
		return []models.ExchangeQuote{s.quote(price)}, nil
	}
	return []models.ExchangeQuote{}, nil
}

func (s *Source) quote(price float64) models.ExchangeQuote {
	if s.catalog != nil {
		if info, ok := s.catalog.Exchange(exchangeName); ok {
			return info.Quote(price)
		}
	}
	return models.ExchangeQuote{Name: exchangeName, Price: price}
}

// marketSymbol maps an asset to its USDT market, e.g. btc -> BTCUSDT.
func marketSymbol(asset string) string {
	return strings.ToUpper(asset) + "USDT"
}
