package ranker

import (
	"math"
	"reflect"
	"testing"

	"github.com/navid-fn/spread-radar/internal/models"
	"github.com/shopspring/decimal"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func sampleQuotes() []models.ExchangeQuote {
	return []models.ExchangeQuote{
		{Name: "kraken", Price: 101, Fee: 0.26, PaymentMethod: "bank"},
		{Name: "binance", Price: 100, Fee: 0.1, PaymentMethod: "card"},
		{Name: "bybit", Price: 104, Fee: 0.1, PaymentMethod: "crypto-only"},
		{Name: "coinbase", Price: 102.5, Fee: 0.6, PaymentMethod: "Card"},
		{Name: "okx", Price: 99.2, Fee: 0.1, PaymentMethod: "crypto-only"},
	}
}

func TestRankTwoExchangeExample(t *testing.T) {
	quotes := []models.ExchangeQuote{
		{Name: "A", Price: 100, Fee: 0.1},
		{Name: "B", Price: 110, Fee: 0.1},
	}

	pairs := Rank(quotes, 5, Options{})
	if len(pairs) != 1 {
		t.Fatalf("Expected 1 pair, got %d", len(pairs))
	}

	p := pairs[0]
	if p.BuyFrom != "A" || p.SellTo != "B" {
		t.Errorf("Expected A -> B, got %s -> %s", p.BuyFrom, p.SellTo)
	}
	if !almostEqual(p.Spread, 10) {
		t.Errorf("Expected spread 10, got %v", p.Spread)
	}
	if !almostEqual(p.NetProfit, 9.79) {
		t.Errorf("Expected net profit 9.79, got %v", p.NetProfit)
	}
	if !almostEqual(p.NetProfitPercent, 9.79) {
		t.Errorf("Expected net profit percent 9.79, got %v", p.NetProfitPercent)
	}

	if pairs := Rank(quotes, 15, Options{}); len(pairs) != 0 {
		t.Errorf("Expected no pairs above 15%%, got %d", len(pairs))
	}
}

func TestRankEmptyInput(t *testing.T) {
	for _, min := range []float64{-100, 0, 5} {
		pairs := Rank(nil, min, Options{})
		if pairs == nil {
			t.Error("Expected empty non-nil slice")
		}
		if len(pairs) != 0 {
			t.Errorf("Expected no pairs for empty input, got %d", len(pairs))
		}
	}

	single := []models.ExchangeQuote{{Name: "solo", Price: 10}}
	if pairs := Rank(single, -100, Options{}); len(pairs) != 0 {
		t.Errorf("Expected no pairs for a single quote, got %d", len(pairs))
	}
}

func TestRankProperties(t *testing.T) {
	quotes := sampleQuotes()

	tests := []struct {
		name string
		min  float64
		opts Options
	}{
		{"all pairs", -100, Options{}},
		{"zero threshold", 0, Options{}},
		{"positive threshold", 1, Options{}},
		{"top 3", -100, Options{TopK: 3}},
		{"candidate window", -100, Options{BuyCandidates: 2, SellCandidates: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := Rank(quotes, tt.min, tt.opts)

			for i, p := range pairs {
				if p.BuyFrom == p.SellTo {
					t.Errorf("Pair %d buys and sells on %s", i, p.BuyFrom)
				}
				if p.NetProfitPercent < tt.min {
					t.Errorf("Pair %d below threshold: %v < %v", i, p.NetProfitPercent, tt.min)
				}
				if p.BuyPrice > p.SellPrice {
					t.Errorf("Pair %d buys above its sell price: %v > %v", i, p.BuyPrice, p.SellPrice)
				}
				if i > 0 && pairs[i-1].NetProfitPercent < p.NetProfitPercent {
					t.Errorf("Pairs not sorted at %d: %v < %v", i, pairs[i-1].NetProfitPercent, p.NetProfitPercent)
				}
			}

			if tt.opts.TopK > 0 && len(pairs) > tt.opts.TopK {
				t.Errorf("Expected at most %d pairs, got %d", tt.opts.TopK, len(pairs))
			}
		})
	}
}

func TestRankAllPairsCount(t *testing.T) {
	quotes := sampleQuotes()
	pairs := Rank(quotes, math.Inf(-1), Options{})

	// prices are distinct: n*(n-1)/2 unordered pairs, each ranked once in its
	// buy-low direction.
	expected := len(quotes) * (len(quotes) - 1) / 2
	if len(pairs) != expected {
		t.Errorf("Expected %d pairs, got %d", expected, len(pairs))
	}
}

func TestRankBestPair(t *testing.T) {
	pairs := Rank(sampleQuotes(), 0, Options{})
	if len(pairs) == 0 {
		t.Fatal("Expected at least one profitable pair")
	}
	if pairs[0].BuyFrom != "okx" || pairs[0].SellTo != "bybit" {
		t.Errorf("Expected okx -> bybit first, got %s -> %s", pairs[0].BuyFrom, pairs[0].SellTo)
	}
}

func TestRankCandidateWindow(t *testing.T) {
	pairs := Rank(sampleQuotes(), math.Inf(-1), Options{BuyCandidates: 1, SellCandidates: 2})

	// cheapest is okx, priciest two are coinbase and bybit.
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(pairs))
	}
	for _, p := range pairs {
		if p.BuyFrom != "okx" {
			t.Errorf("Expected buy leg okx, got %s", p.BuyFrom)
		}
		if p.SellTo != "bybit" && p.SellTo != "coinbase" {
			t.Errorf("Expected sell leg bybit or coinbase, got %s", p.SellTo)
		}
	}
}

func TestRankIdempotentAndPure(t *testing.T) {
	quotes := sampleQuotes()
	original := sampleQuotes()

	first := Rank(quotes, 0, Options{TopK: 5})
	second := Rank(quotes, 0, Options{TopK: 5})

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical output for identical input")
	}
	if !reflect.DeepEqual(quotes, original) {
		t.Error("Expected input quotes to be left untouched")
	}
}

func TestRankStableTies(t *testing.T) {
	quotes := []models.ExchangeQuote{
		{Name: "a", Price: 100},
		{Name: "b", Price: 100},
		{Name: "c", Price: 110},
	}

	pairs := Rank(quotes, 0, Options{})

	// a and b share a price, so both a -> b and b -> a are ranked.
	expected := []string{"a->c", "b->c", "a->b", "b->a"}
	if len(pairs) != len(expected) {
		t.Fatalf("Expected %d pairs, got %d", len(expected), len(pairs))
	}
	for i, p := range pairs {
		if got := p.BuyFrom + "->" + p.SellTo; got != expected[i] {
			t.Errorf("Pair %d: expected %s, got %s", i, expected[i], got)
		}
	}
}

func TestRankEqualPricesBothDirections(t *testing.T) {
	quotes := []models.ExchangeQuote{
		{Name: "a", Price: 100},
		{Name: "b", Price: 100},
	}

	pairs := Rank(quotes, 0, Options{})
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].BuyFrom != "a" || pairs[1].BuyFrom != "b" {
		t.Errorf("Expected a -> b then b -> a, got %s -> %s then %s -> %s",
			pairs[0].BuyFrom, pairs[0].SellTo, pairs[1].BuyFrom, pairs[1].SellTo)
	}
	for _, p := range pairs {
		if p.NetProfitPercent != 0 {
			t.Errorf("Expected 0%% for equal prices, got %v", p.NetProfitPercent)
		}
	}

	// the sell window keeps only the priciest quote (b after the stable sort)
	pairs = Rank(quotes, 0, Options{SellCandidates: 1})
	if len(pairs) != 1 || pairs[0].SellTo != "b" {
		t.Errorf("Expected only a -> b inside the sell window, got %+v", pairs)
	}
}

func TestRankDuplicateNames(t *testing.T) {
	quotes := []models.ExchangeQuote{
		{Name: "dup", Price: 100},
		{Name: "dup", Price: 120},
	}
	if pairs := Rank(quotes, -100, Options{}); len(pairs) != 0 {
		t.Errorf("Expected same-name pair to be skipped, got %d", len(pairs))
	}
}

func TestRankZeroPrice(t *testing.T) {
	quotes := []models.ExchangeQuote{
		{Name: "zero", Price: 0},
		{Name: "also-zero", Price: 0},
		{Name: "real", Price: 10},
	}

	pairs := Rank(quotes, 0, Options{})

	// zero->real is +Inf and passes; zero->zero is NaN and never passes.
	for _, p := range pairs {
		if math.IsNaN(p.NetProfitPercent) {
			t.Error("Expected NaN pairs to be filtered out")
		}
	}
	if len(pairs) != 2 {
		t.Errorf("Expected 2 infinite pairs, got %d", len(pairs))
	}
}

func TestBest(t *testing.T) {
	p, ok := Best(sampleQuotes(), 0)
	if !ok {
		t.Fatal("Expected a best pair")
	}
	if p.BuyFrom != "okx" || p.SellTo != "bybit" {
		t.Errorf("Expected okx -> bybit, got %s -> %s", p.BuyFrom, p.SellTo)
	}

	if _, ok := Best(sampleQuotes(), 50); ok {
		t.Error("Expected no best pair above 50%")
	}
}

func TestFilterByPaymentMethod(t *testing.T) {
	quotes := sampleQuotes()

	tests := []struct {
		method   string
		expected int
	}{
		{"", 5},
		{"card", 2},
		{"CRYPTO-ONLY", 2},
		{"cash", 0},
	}

	for _, tt := range tests {
		got := FilterByPaymentMethod(quotes, tt.method)
		if len(got) != tt.expected {
			t.Errorf("Method %q: expected %d quotes, got %d", tt.method, tt.expected, len(got))
		}
	}
}

func TestSummarize(t *testing.T) {
	s, ok := Summarize(sampleQuotes())
	if !ok {
		t.Fatal("Expected a summary")
	}
	if s.Lowest.Name != "okx" || s.Highest.Name != "bybit" {
		t.Errorf("Expected okx/bybit extremes, got %s/%s", s.Lowest.Name, s.Highest.Name)
	}
	if !almostEqual(s.Spread, 4.8) {
		t.Errorf("Expected spread 4.8, got %v", s.Spread)
	}
	if s.Count != 5 {
		t.Errorf("Expected count 5, got %d", s.Count)
	}

	if _, ok := Summarize(nil); ok {
		t.Error("Expected no summary for empty input")
	}
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	if len(names) != len(Presets) {
		t.Fatalf("Expected %d names, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		v := Presets[name]
		if v.Name != name {
			t.Errorf("Preset %q carries name %q", name, v.Name)
		}
		if v.Options.TopK <= 0 {
			t.Errorf("Preset %q should cap results", name)
		}
	}
}

func TestCalculate(t *testing.T) {
	buy := models.ExchangeQuote{Name: "A", Price: 100, Fee: 0.1}
	sell := models.ExchangeQuote{Name: "B", Price: 110, Fee: 0.1}

	c, err := Calculate(buy, sell, decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	checks := map[string]struct {
		got      decimal.Decimal
		expected string
	}{
		"units":     {c.Units, "10"},
		"buyFee":    {c.BuyFee, "1"},
		"proceeds":  {c.Proceeds, "1100"},
		"sellFee":   {c.SellFee, "1.1"},
		"netProfit": {c.NetProfit, "97.9"},
		"roi":       {c.ROI, "9.79"},
	}
	for name, check := range checks {
		if !check.got.Equal(decimal.RequireFromString(check.expected)) {
			t.Errorf("Expected %s %s, got %s", name, check.expected, check.got)
		}
	}

	perUnit := NewPair(buy, sell).NetProfit * 10
	if f, _ := c.NetProfit.Float64(); !almostEqual(f, math.Round(perUnit*100)/100) {
		t.Errorf("Expected calculator to agree with pair net profit %v, got %v", perUnit, f)
	}
}

func TestCalculateRejectsBadInput(t *testing.T) {
	buy := models.ExchangeQuote{Name: "A", Price: 100}
	sell := models.ExchangeQuote{Name: "B", Price: 110}

	if _, err := Calculate(buy, sell, decimal.Zero); err != ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
	if _, err := Calculate(models.ExchangeQuote{Name: "Z"}, sell, decimal.NewFromInt(10)); err != ErrInvalidPrice {
		t.Errorf("Expected ErrInvalidPrice, got %v", err)
	}
}
