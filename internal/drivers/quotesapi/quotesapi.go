// Package quotesapi reads ready-made exchange quotes from the remote quotes endpoint.
package quotesapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/crawler"
	"github.com/navid-fn/spread-radar/internal/models"
)

type quotesResponse struct {
	Exchanges []models.ExchangeQuote `json:"exchanges"`
}

type Source struct {
	baseURL string
	client  *http.Client
	catalog *configs.Catalog
}

// NewSource reads from baseURL; catalog fills in links and payment methods
// the endpoint leaves empty and may be nil.
func NewSource(baseURL string, client *http.Client, catalog *configs.Catalog) *Source {
	return &Source{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		catalog: catalog,
	}
}

func (s *Source) Name() string { return "quotesapi" }
func (s *Source) Live() bool   { return true }

func (s *Source) Fetch(ctx context.Context, asset string) ([]models.ExchangeQuote, error) {
	u := fmt.Sprintf("%s/quotes?%s", s.baseURL, url.Values{"asset": {strings.ToUpper(asset)}}.Encode())

	var resp quotesResponse
	if err := crawler.GetJSON(ctx, s.client, u, &resp); err != nil {
		return nil, fmt.Errorf("quotesapi: %w", err)
	}

	quotes := make([]models.ExchangeQuote, 0, len(resp.Exchanges))
	for _, q := range resp.Exchanges {
		if s.catalog != nil {
			if info, ok := s.catalog.Exchange(q.Name); ok {
				if q.URL == "" {
					q.URL = info.URL
				}
				if q.PaymentMethod == "" {
					q.PaymentMethod = info.PaymentMethod
				}
			}
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}
