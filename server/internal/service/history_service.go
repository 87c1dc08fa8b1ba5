package service

import (
	"context"
	"errors"

	"github.com/navid-fn/spread-radar/server/internal/model"
	"github.com/navid-fn/spread-radar/server/internal/repository"
)

var ErrHistoryDisabled = errors.New("history is disabled")

const maxHistoryLimit = 1000

type HistoryService struct {
	repo repository.QuoteRepository
}

// NewHistoryService accepts a nil repo; every call then returns ErrHistoryDisabled.
func NewHistoryService(repo repository.QuoteRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

func (hs *HistoryService) Enabled() bool {
	return hs.repo != nil
}

func (hs *HistoryService) GetLatestQuotes(ctx context.Context, asset, exchange string, limit int) ([]model.QuotePoint, error) {
	if hs.repo == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return hs.repo.GetLatestQuotes(ctx, asset, exchange, limit)
}

func (hs *HistoryService) GetCountPerExchange(ctx context.Context, asset string) ([]model.ExchangeCount, error) {
	if hs.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return hs.repo.GetQuoteCountGroupByExchange(ctx, asset)
}
