// Package ranker turns a snapshot of exchange quotes into ranked buy/sell pairings.
//
// Everything here is pure and synchronous: the same quotes and threshold always
// produce the same output, and inputs are never mutated. Quotes are not
// validated; a zero buy price yields Inf or NaN percentages; NaN never passes
// a threshold, Inf always does. Callers filter bad quotes upstream.
package ranker

import (
	"sort"

	"github.com/navid-fn/spread-radar/internal/models"
)

// Options tunes a ranking call. The zero value ranks every pair and keeps all results.
type Options struct {
	// TopK truncates the result to the best K pairs. 0 keeps everything.
	TopK int

	// BuyCandidates limits buy legs to the N cheapest quotes. 0 means all.
	BuyCandidates int

	// SellCandidates limits sell legs to the N priciest quotes. 0 means all.
	SellCandidates int
}

// NewPair computes the pairing of buying at buy and selling at sell.
func NewPair(buy, sell models.ExchangeQuote) models.OpportunityPair {
	spread := sell.Price - buy.Price
	netProfit := spread - buy.Price*buy.Fee/100 - sell.Price*sell.Fee/100

	return models.OpportunityPair{
		BuyFrom:          buy.Name,
		SellTo:           sell.Name,
		BuyPrice:         buy.Price,
		SellPrice:        sell.Price,
		Spread:           spread,
		NetProfit:        netProfit,
		NetProfitPercent: netProfit / buy.Price * 100,
	}
}

// Rank returns the pairs whose NetProfitPercent is at least minProfitPercent,
// best first. Ties keep the order in which pairs were enumerated.
func Rank(quotes []models.ExchangeQuote, minProfitPercent float64, opts Options) []models.OpportunityPair {
	pairs := make([]models.OpportunityPair, 0)
	if len(quotes) < 2 {
		return pairs
	}

	sorted := make([]models.ExchangeQuote, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})

	n := len(sorted)
	buyLimit := n
	if opts.BuyCandidates > 0 && opts.BuyCandidates < n {
		buyLimit = opts.BuyCandidates
	}
	sellFrom := 0
	if opts.SellCandidates > 0 && opts.SellCandidates < n {
		sellFrom = n - opts.SellCandidates
	}

	// Every (i, j) with price_i <= price_j. Equal prices qualify in both
	// directions, so j may precede i in sorted order.
	for i := 0; i < buyLimit; i++ {
		for j := sellFrom; j < n; j++ {
			if j == i || sorted[i].Name == sorted[j].Name {
				continue
			}
			if j < i && sorted[j].Price != sorted[i].Price {
				continue
			}
			p := NewPair(sorted[i], sorted[j])
			if p.NetProfitPercent >= minProfitPercent {
				pairs = append(pairs, p)
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].NetProfitPercent > pairs[j].NetProfitPercent
	})

	if opts.TopK > 0 && len(pairs) > opts.TopK {
		pairs = pairs[:opts.TopK]
	}
	return pairs
}
