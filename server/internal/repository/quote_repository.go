package repository

import (
	"context"
	"strings"

	"github.com/navid-fn/spread-radar/server/internal/model"
	"gorm.io/gorm"
)

type QuoteRepository interface {
	GetLatestQuotes(ctx context.Context, asset, exchange string, limit int) ([]model.QuotePoint, error)
	GetQuoteCountGroupByExchange(ctx context.Context, asset string) ([]model.ExchangeCount, error)
}

type gormQuoteRepository struct {
	db *gorm.DB
}

func NewGormQuoteRepository(db *gorm.DB) QuoteRepository {
	return &gormQuoteRepository{db: db}
}

func (r *gormQuoteRepository) GetLatestQuotes(ctx context.Context, asset, exchange string, limit int) ([]model.QuotePoint, error) {
	var quotes []model.QuotePoint
	query := r.db.WithContext(ctx).Where("asset = ?", strings.ToUpper(asset))
	if exchange != "" {
		query = query.Where("exchange = ?", exchange)
	}
	err := query.Order("fetched_at desc").Limit(limit).Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *gormQuoteRepository) GetQuoteCountGroupByExchange(ctx context.Context, asset string) ([]model.ExchangeCount, error) {
	var counts []model.ExchangeCount
	err := r.db.WithContext(ctx).
		Model(&model.QuotePoint{}).
		Select("exchange, count(*) as count").
		Where("asset = ?", strings.ToUpper(asset)).
		Group("exchange").
		Order("exchange").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
