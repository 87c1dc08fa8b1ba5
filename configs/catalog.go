package configs

import (
	"fmt"
	"os"
	"strings"

	"github.com/navid-fn/spread-radar/internal/models"
	"gopkg.in/yaml.v3"
)

// Catalog is the static exchange metadata joined onto upstream quotes.
// Upstream feeds carry prices only; fees, links and payment methods come from here.
type Catalog struct {
	Assets    map[string]AssetInfo `yaml:"assets"`
	Exchanges []ExchangeInfo       `yaml:"exchanges"`
}

// AssetInfo describes one tracked asset.
type AssetInfo struct {
	// CoingeckoID is the CoinGecko coin id (e.g. "bitcoin").
	CoingeckoID string `yaml:"coingecko_id"`

	// ReferencePrice seeds the simulated source.
	ReferencePrice float64 `yaml:"reference_price"`
}

// ExchangeInfo describes one exchange.
type ExchangeInfo struct {
	Name string `yaml:"name"`

	// CoingeckoID is the exchange identifier used in CoinGecko tickers.
	CoingeckoID string `yaml:"coingecko_id"`

	// Fee is the taker fee in percent.
	Fee           float64 `yaml:"fee"`
	URL           string  `yaml:"url"`
	PaymentMethod string  `yaml:"payment_method"`

	// SimulatedOffsetPercent shifts the reference price for the simulated source.
	SimulatedOffsetPercent float64 `yaml:"simulated_offset_percent"`
}

// Quote builds a quote for this exchange at price.
func (e ExchangeInfo) Quote(price float64) models.ExchangeQuote {
	return models.ExchangeQuote{
		Name:          e.Name,
		Price:         price,
		Fee:           e.Fee,
		URL:           e.URL,
		PaymentMethod: e.PaymentMethod,
	}
}

// LoadCatalog reads and parses the YAML catalog at path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses catalog YAML and normalizes asset keys to upper case.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	assets := make(map[string]AssetInfo, len(c.Assets))
	for k, v := range c.Assets {
		assets[strings.ToUpper(k)] = v
	}
	c.Assets = assets

	seen := make(map[string]bool, len(c.Exchanges))
	for _, e := range c.Exchanges {
		if e.Name == "" {
			return nil, fmt.Errorf("parse catalog: exchange without name")
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("parse catalog: duplicate exchange %q", e.Name)
		}
		seen[e.Name] = true
	}
	return &c, nil
}

// Exchange looks up an exchange by its name or CoinGecko id.
func (c *Catalog) Exchange(id string) (ExchangeInfo, bool) {
	for _, e := range c.Exchanges {
		if strings.EqualFold(e.Name, id) || (e.CoingeckoID != "" && strings.EqualFold(e.CoingeckoID, id)) {
			return e, true
		}
	}
	return ExchangeInfo{}, false
}

// Asset looks up an asset by symbol, case-insensitively.
func (c *Catalog) Asset(symbol string) (AssetInfo, bool) {
	a, ok := c.Assets[strings.ToUpper(symbol)]
	return a, ok
}
