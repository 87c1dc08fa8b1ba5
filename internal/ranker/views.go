package ranker

import (
	"sort"
	"strings"

	"github.com/navid-fn/spread-radar/internal/models"
)

// View is a named set of ranking parameters for one dashboard surface.
type View struct {
	Name             string  `json:"name"`
	MinProfitPercent float64 `json:"minProfitPercent"`
	Options          Options `json:"-"`
}

// Presets are the dashboard surfaces; each is a thin view over Rank.
var Presets = map[string]View{
	"arbitrage":      {Name: "arbitrage", Options: Options{TopK: 10}},
	"cross-exchange": {Name: "cross-exchange", Options: Options{TopK: 20}},
	"verified":       {Name: "verified", MinProfitPercent: 0.5, Options: Options{TopK: 5, BuyCandidates: 5, SellCandidates: 5}},
	"best":           {Name: "best", Options: Options{TopK: 1}},
}

// PresetNames returns the preset names in a stable order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Best returns the single most profitable pair at or above minProfitPercent.
func Best(quotes []models.ExchangeQuote, minProfitPercent float64) (models.OpportunityPair, bool) {
	pairs := Rank(quotes, minProfitPercent, Options{TopK: 1})
	if len(pairs) == 0 {
		return models.OpportunityPair{}, false
	}
	return pairs[0], true
}

// FilterByPaymentMethod keeps quotes tagged with method (case-insensitive).
// An empty method keeps everything.
func FilterByPaymentMethod(quotes []models.ExchangeQuote, method string) []models.ExchangeQuote {
	if method == "" {
		return quotes
	}
	out := make([]models.ExchangeQuote, 0, len(quotes))
	for _, q := range quotes {
		if strings.EqualFold(q.PaymentMethod, method) {
			out = append(out, q)
		}
	}
	return out
}

// SpreadSummary is the price range across all exchanges in a snapshot.
type SpreadSummary struct {
	Count         int                  `json:"count"`
	Lowest        models.ExchangeQuote `json:"lowest"`
	Highest       models.ExchangeQuote `json:"highest"`
	AveragePrice  float64              `json:"averagePrice"`
	Spread        float64              `json:"spread"`
	SpreadPercent float64              `json:"spreadPercent"`
}

// Summarize reports the lowest and highest quote and the gap between them.
// On equal prices the earlier quote wins.
func Summarize(quotes []models.ExchangeQuote) (SpreadSummary, bool) {
	if len(quotes) == 0 {
		return SpreadSummary{}, false
	}

	s := SpreadSummary{Count: len(quotes), Lowest: quotes[0], Highest: quotes[0]}
	total := 0.0
	for _, q := range quotes {
		total += q.Price
		if q.Price < s.Lowest.Price {
			s.Lowest = q
		}
		if q.Price > s.Highest.Price {
			s.Highest = q
		}
	}
	s.AveragePrice = total / float64(len(quotes))
	s.Spread = s.Highest.Price - s.Lowest.Price
	s.SpreadPercent = s.Spread / s.Lowest.Price * 100
	return s, true
}

// FindQuote returns the quote with the given exchange name.
func FindQuote(quotes []models.ExchangeQuote, name string) (models.ExchangeQuote, bool) {
	for _, q := range quotes {
		if strings.EqualFold(q.Name, name) {
			return q, true
		}
	}
	return models.ExchangeQuote{}, false
}
