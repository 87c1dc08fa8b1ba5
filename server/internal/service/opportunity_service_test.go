package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/models"
	"github.com/navid-fn/spread-radar/internal/ranker"
	"github.com/navid-fn/spread-radar/internal/snapshot"
	"github.com/navid-fn/spread-radar/server/internal/model"
	"github.com/shopspring/decimal"
)

func newTestService(t *testing.T) *OpportunityService {
	t.Helper()
	store := snapshot.NewStore()
	store.Set(models.Snapshot{
		ID:        "s1",
		Asset:     "BTC",
		Source:    "static",
		FetchedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Quotes: []models.ExchangeQuote{
			{Name: "A", Price: 100, Fee: 0.1, PaymentMethod: "card"},
			{Name: "B", Price: 110, Fee: 0.1, PaymentMethod: "bank"},
			{Name: "C", Price: 104, Fee: 0.1, PaymentMethod: "card"},
		},
	})
	return NewOpportunityService(store, configs.RankerConfig{MinProfitPercent: 0, TopK: 10}, "btc")
}

func ptr(f float64) *float64 { return &f }

func TestOpportunities(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name     string
		query    OpportunityQuery
		expected int
		view     string
	}{
		{"defaults", OpportunityQuery{}, 3, "custom"},
		{"threshold", OpportunityQuery{MinProfitPercent: ptr(5)}, 2, "custom"},
		{"above everything", OpportunityQuery{MinProfitPercent: ptr(15)}, 0, "custom"},
		{"limit", OpportunityQuery{Limit: 1}, 1, "custom"},
		{"payment method", OpportunityQuery{PaymentMethod: "card"}, 1, "custom"},
		{"best view", OpportunityQuery{View: "best"}, 1, "best"},
		{"verified view", OpportunityQuery{View: "verified"}, 3, "verified"},
		{"lowercase asset", OpportunityQuery{Asset: "btc"}, 3, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Opportunities(tt.query)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if res.Count != tt.expected || len(res.Opportunities) != tt.expected {
				t.Errorf("Expected %d opportunities, got %d", tt.expected, res.Count)
			}
			if res.View != tt.view {
				t.Errorf("Expected view %s, got %s", tt.view, res.View)
			}
			if res.Opportunities == nil {
				t.Error("Expected non-nil opportunities")
			}
			if res.Asset != "BTC" || res.Live {
				t.Errorf("Unexpected snapshot metadata: %+v", res)
			}
		})
	}
}

func TestOpportunitiesErrors(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Opportunities(OpportunityQuery{View: "nope"}); !errors.Is(err, ErrUnknownView) {
		t.Errorf("Expected ErrUnknownView, got %v", err)
	}
	if _, err := s.Opportunities(OpportunityQuery{Asset: "ETH"}); !errors.Is(err, snapshot.ErrNoSnapshot) {
		t.Errorf("Expected ErrNoSnapshot, got %v", err)
	}
}

func TestBestAndSpread(t *testing.T) {
	s := newTestService(t)

	best, err := s.Best("", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if best.Opportunity == nil || best.Opportunity.BuyFrom != "A" || best.Opportunity.SellTo != "B" {
		t.Errorf("Expected A -> B, got %+v", best.Opportunity)
	}

	none, err := s.Best("BTC", ptr(50))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if none.Opportunity != nil {
		t.Errorf("Expected no opportunity above 50%%, got %+v", none.Opportunity)
	}

	spread, err := s.Spread("BTC")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if spread.Summary == nil || spread.Summary.Spread != 10 {
		t.Errorf("Expected spread 10, got %+v", spread.Summary)
	}
}

func TestCalculate(t *testing.T) {
	s := newTestService(t)

	res, err := s.Calculate("BTC", "a", "b", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !res.ROI.Equal(decimal.RequireFromString("9.79")) {
		t.Errorf("Expected ROI 9.79, got %s", res.ROI)
	}

	if _, err := s.Calculate("BTC", "A", "Z", decimal.NewFromInt(1)); !errors.Is(err, ErrExchangeNotFound) {
		t.Errorf("Expected ErrExchangeNotFound, got %v", err)
	}
	if _, err := s.Calculate("BTC", "A", "B", decimal.Zero); !errors.Is(err, ranker.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

type fakeQuoteRepo struct {
	limit int
}

func (f *fakeQuoteRepo) GetLatestQuotes(ctx context.Context, asset, exchange string, limit int) ([]model.QuotePoint, error) {
	f.limit = limit
	return []model.QuotePoint{{Asset: asset, Exchange: "binance", Price: 1}}, nil
}

func (f *fakeQuoteRepo) GetQuoteCountGroupByExchange(ctx context.Context, asset string) ([]model.ExchangeCount, error) {
	return []model.ExchangeCount{{Exchange: "binance", Count: 3}}, nil
}

func TestHistoryService(t *testing.T) {
	disabled := NewHistoryService(nil)
	if _, err := disabled.GetLatestQuotes(context.Background(), "BTC", "", 10); !errors.Is(err, ErrHistoryDisabled) {
		t.Errorf("Expected ErrHistoryDisabled, got %v", err)
	}

	repo := &fakeQuoteRepo{}
	hs := NewHistoryService(repo)

	tests := []struct {
		requested int
		expected  int
	}{
		{0, 100},
		{50, 50},
		{5000, maxHistoryLimit},
	}
	for _, tt := range tests {
		if _, err := hs.GetLatestQuotes(context.Background(), "BTC", "", tt.requested); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if repo.limit != tt.expected {
			t.Errorf("Requested %d: expected limit %d, got %d", tt.requested, tt.expected, repo.limit)
		}
	}

	counts, err := hs.GetCountPerExchange(context.Background(), "BTC")
	if err != nil || len(counts) != 1 {
		t.Errorf("Expected 1 count row, got %v (%v)", counts, err)
	}
}
