package service

import (
	"errors"
	"strings"
	"time"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/models"
	"github.com/navid-fn/spread-radar/internal/ranker"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownView      = errors.New("unknown view")
	ErrExchangeNotFound = errors.New("exchange not in snapshot")
)

// SnapshotReader is the read side of the snapshot store.
type SnapshotReader interface {
	Get(asset string) (models.Snapshot, error)
	Assets() []string
}

// OpportunityQuery selects and tunes a ranking. Zero fields fall back to the
// view, then to the configured defaults.
type OpportunityQuery struct {
	Asset            string
	MinProfitPercent *float64
	Limit            int
	PaymentMethod    string
	View             string
}

type OpportunityResult struct {
	Asset            string                   `json:"asset"`
	Source           string                   `json:"source"`
	Live             bool                     `json:"live"`
	FetchedAt        time.Time                `json:"fetchedAt"`
	View             string                   `json:"view"`
	MinProfitPercent float64                  `json:"minProfitPercent"`
	Count            int                      `json:"count"`
	Opportunities    []models.OpportunityPair `json:"opportunities"`
}

type BestResult struct {
	Asset       string                  `json:"asset"`
	Live        bool                    `json:"live"`
	FetchedAt   time.Time               `json:"fetchedAt"`
	Opportunity *models.OpportunityPair `json:"opportunity"`
}

type SpreadResult struct {
	Asset     string                `json:"asset"`
	Live      bool                  `json:"live"`
	FetchedAt time.Time             `json:"fetchedAt"`
	Summary   *ranker.SpreadSummary `json:"summary"`
}

type CalculationResult struct {
	Asset string `json:"asset"`
	Live  bool   `json:"live"`
	ranker.Calculation
}

type OpportunityService struct {
	store    SnapshotReader
	defaults configs.RankerConfig
	asset    string
}

// NewOpportunityService ranks snapshots from store. defaultAsset is used when
// a query names none.
func NewOpportunityService(store SnapshotReader, defaults configs.RankerConfig, defaultAsset string) *OpportunityService {
	if defaults.TopK <= 0 {
		defaults.TopK = 10
	}
	return &OpportunityService{store: store, defaults: defaults, asset: strings.ToUpper(defaultAsset)}
}

// ResolveAsset upper-cases asset, falling back to the default asset.
func (s *OpportunityService) ResolveAsset(asset string) string {
	if asset == "" {
		return s.asset
	}
	return strings.ToUpper(asset)
}

func (s *OpportunityService) Snapshot(asset string) (models.Snapshot, error) {
	return s.store.Get(s.ResolveAsset(asset))
}

func (s *OpportunityService) Assets() []string {
	return s.store.Assets()
}

func (s *OpportunityService) Opportunities(q OpportunityQuery) (OpportunityResult, error) {
	snap, err := s.Snapshot(q.Asset)
	if err != nil {
		return OpportunityResult{}, err
	}
	return s.RankSnapshot(snap, q)
}

// RankSnapshot applies q to an already loaded snapshot.
func (s *OpportunityService) RankSnapshot(snap models.Snapshot, q OpportunityQuery) (OpportunityResult, error) {
	view := ranker.View{
		Name:             "custom",
		MinProfitPercent: s.defaults.MinProfitPercent,
		Options:          ranker.Options{TopK: s.defaults.TopK},
	}
	if q.View != "" {
		preset, ok := ranker.Presets[q.View]
		if !ok {
			return OpportunityResult{}, ErrUnknownView
		}
		view = preset
	}
	if q.MinProfitPercent != nil {
		view.MinProfitPercent = *q.MinProfitPercent
	}
	if q.Limit > 0 {
		view.Options.TopK = q.Limit
	}

	quotes := ranker.FilterByPaymentMethod(snap.Quotes, q.PaymentMethod)
	pairs := ranker.Rank(quotes, view.MinProfitPercent, view.Options)

	return OpportunityResult{
		Asset:            snap.Asset,
		Source:           snap.Source,
		Live:             snap.Live,
		FetchedAt:        snap.FetchedAt,
		View:             view.Name,
		MinProfitPercent: view.MinProfitPercent,
		Count:            len(pairs),
		Opportunities:    pairs,
	}, nil
}

func (s *OpportunityService) Best(asset string, minProfitPercent *float64) (BestResult, error) {
	snap, err := s.Snapshot(asset)
	if err != nil {
		return BestResult{}, err
	}

	threshold := s.defaults.MinProfitPercent
	if minProfitPercent != nil {
		threshold = *minProfitPercent
	}

	result := BestResult{Asset: snap.Asset, Live: snap.Live, FetchedAt: snap.FetchedAt}
	if p, ok := ranker.Best(snap.Quotes, threshold); ok {
		result.Opportunity = &p
	}
	return result, nil
}

func (s *OpportunityService) Spread(asset string) (SpreadResult, error) {
	snap, err := s.Snapshot(asset)
	if err != nil {
		return SpreadResult{}, err
	}

	result := SpreadResult{Asset: snap.Asset, Live: snap.Live, FetchedAt: snap.FetchedAt}
	if summary, ok := ranker.Summarize(snap.Quotes); ok {
		result.Summary = &summary
	}
	return result, nil
}

// Calculate prices a round trip between two exchanges of the current snapshot.
func (s *OpportunityService) Calculate(asset, buyFrom, sellTo string, amount decimal.Decimal) (CalculationResult, error) {
	snap, err := s.Snapshot(asset)
	if err != nil {
		return CalculationResult{}, err
	}

	buy, ok := ranker.FindQuote(snap.Quotes, buyFrom)
	if !ok {
		return CalculationResult{}, ErrExchangeNotFound
	}
	sell, ok := ranker.FindQuote(snap.Quotes, sellTo)
	if !ok {
		return CalculationResult{}, ErrExchangeNotFound
	}

	calc, err := ranker.Calculate(buy, sell, amount)
	if err != nil {
		return CalculationResult{}, err
	}
	return CalculationResult{Asset: snap.Asset, Live: snap.Live, Calculation: calc}, nil
}

// ViewInfo describes one preset view.
type ViewInfo struct {
	Name             string  `json:"name"`
	MinProfitPercent float64 `json:"minProfitPercent"`
	TopK             int     `json:"topK"`
}

func (s *OpportunityService) Views() []ViewInfo {
	names := ranker.PresetNames()
	views := make([]ViewInfo, 0, len(names))
	for _, name := range names {
		v := ranker.Presets[name]
		views = append(views, ViewInfo{Name: v.Name, MinProfitPercent: v.MinProfitPercent, TopK: v.Options.TopK})
	}
	return views
}
