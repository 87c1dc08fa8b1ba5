// Package drivers builds the configured quote sources.
package drivers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/crawler"
	"github.com/navid-fn/spread-radar/internal/drivers/coingecko"
	"github.com/navid-fn/spread-radar/internal/drivers/nobitex"
	"github.com/navid-fn/spread-radar/internal/drivers/quotesapi"
	"github.com/navid-fn/spread-radar/internal/drivers/static"
	"github.com/navid-fn/spread-radar/internal/drivers/wallex"
	"github.com/sirupsen/logrus"
)

// Available lists every source name Build understands.
var Available = []string{"quotesapi", "coingecko", "wallex", "nobitex", "static"}

// Build returns one source per name in cfg.Enabled, in order.
func Build(cfg configs.SourcesConfig, catalog *configs.Catalog, client *http.Client, logger logrus.FieldLogger) ([]crawler.Source, error) {
	if len(cfg.Enabled) == 0 {
		return nil, fmt.Errorf("no sources enabled, choose from %s", strings.Join(Available, ", "))
	}

	seen := make(map[string]bool, len(cfg.Enabled))
	sources := make([]crawler.Source, 0, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		name = strings.ToLower(strings.TrimSpace(name))
		if seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case "quotesapi":
			sources = append(sources, quotesapi.NewSource(cfg.QuotesAPIURL, client, catalog))
		case "coingecko":
			sources = append(sources, coingecko.NewSource(cfg.CoingeckoURL, client, catalog, logger))
		case "wallex":
			sources = append(sources, wallex.NewSource(cfg.WallexURL, client, catalog))
		case "nobitex":
			sources = append(sources, nobitex.NewSource(cfg.NobitexURL, client, catalog))
		case "static":
			sources = append(sources, static.NewSource(catalog))
		default:
			return nil, fmt.Errorf("unknown source %q, choose from %s", name, strings.Join(Available, ", "))
		}
	}
	return sources, nil
}
