// Package coingecko turns CoinGecko coin tickers into one quote per known exchange.
package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/crawler"
	"github.com/navid-fn/spread-radar/internal/models"
	"github.com/sirupsen/logrus"
)

type TickerResponse struct {
	Name    string   `json:"name"`
	Tickers []Ticker `json:"tickers"`
}

type Ticker struct {
	Base            string        `json:"base"`
	Target          string        `json:"target"`
	Market          Market        `json:"market"`
	ConvertedLast   ConvertedData `json:"converted_last"`
	ConvertedVolume ConvertedData `json:"converted_volume"`
	TradeURL        string        `json:"trade_url"`
	IsStale         bool          `json:"is_stale"`
	IsAnomaly       bool          `json:"is_anomaly"`
}

type Market struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

type ConvertedData struct {
	USD float64 `json:"usd"`
}

type Source struct {
	baseURL string
	client  *http.Client
	catalog *configs.Catalog
	logger  logrus.FieldLogger
}

func NewSource(baseURL string, client *http.Client, catalog *configs.Catalog, logger logrus.FieldLogger) *Source {
	return &Source{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		catalog: catalog,
		logger:  logger.WithField("source", "coingecko"),
	}
}

func (s *Source) Name() string { return "coingecko" }
func (s *Source) Live() bool   { return true }

func (s *Source) Fetch(ctx context.Context, asset string) ([]models.ExchangeQuote, error) {
	info, ok := s.catalog.Asset(asset)
	if !ok || info.CoingeckoID == "" {
		return nil, fmt.Errorf("coingecko: no coin id for %s: %w", asset, crawler.ErrUnsupportedAsset)
	}

	url := fmt.Sprintf("%s/coins/%s/tickers", s.baseURL, info.CoingeckoID)
	var resp TickerResponse
	if err := crawler.GetJSON(ctx, s.client, url, &resp); err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}

	return s.toQuotes(resp.Tickers), nil
}

// toQuotes keeps the first fresh USD(T) ticker of every catalog exchange.
func (s *Source) toQuotes(tickers []Ticker) []models.ExchangeQuote {
	quotes := make([]models.ExchangeQuote, 0)
	seen := make(map[string]bool)

	for _, t := range s.filterUSDPairs(tickers) {
		if t.IsStale || t.IsAnomaly {
			continue
		}
		ex, ok := s.catalog.Exchange(t.Market.Identifier)
		if !ok {
			s.logger.WithField("market", t.Market.Identifier).Debug("Skipping exchange missing from catalog")
			continue
		}
		if seen[ex.Name] {
			continue
		}
		seen[ex.Name] = true

		q := ex.Quote(t.ConvertedLast.USD)
		q.Volume = t.ConvertedVolume.USD
		if q.URL == "" {
			q.URL = t.TradeURL
		}
		quotes = append(quotes, q)
	}
	return quotes
}

func (s *Source) filterUSDPairs(tickers []Ticker) []Ticker {
	out := make([]Ticker, 0, len(tickers))
	for _, t := range tickers {
		switch strings.ToUpper(t.Target) {
		case "USD", "USDT", "USDC":
			out = append(out, t)
		}
	}
	return out
}
