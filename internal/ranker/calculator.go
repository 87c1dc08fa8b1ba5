package ranker

import (
	"errors"

	"github.com/navid-fn/spread-radar/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidPrice  = errors.New("quote price must be positive")
)

var hundred = decimal.NewFromInt(100)

// Calculation is the outcome of investing Amount in one buy/sell round trip.
// Money fields are rounded to cents; Units keeps 8 decimal places.
type Calculation struct {
	BuyFrom   string          `json:"buyFrom"`
	SellTo    string          `json:"sellTo"`
	Amount    decimal.Decimal `json:"amount"`
	Units     decimal.Decimal `json:"units"`
	BuyFee    decimal.Decimal `json:"buyFee"`
	Proceeds  decimal.Decimal `json:"proceeds"`
	SellFee   decimal.Decimal `json:"sellFee"`
	NetProfit decimal.Decimal `json:"netProfit"`
	ROI       decimal.Decimal `json:"roi"`
}

// Calculate spends amount buying at buy and sells every unit at sell.
// Per unit the result matches NewPair(buy, sell).NetProfit.
func Calculate(buy, sell models.ExchangeQuote, amount decimal.Decimal) (Calculation, error) {
	if !amount.IsPositive() {
		return Calculation{}, ErrInvalidAmount
	}
	if buy.Price <= 0 || sell.Price <= 0 {
		return Calculation{}, ErrInvalidPrice
	}

	buyPrice := decimal.NewFromFloat(buy.Price)
	sellPrice := decimal.NewFromFloat(sell.Price)

	units := amount.Div(buyPrice)
	buyFee := amount.Mul(decimal.NewFromFloat(buy.Fee)).Div(hundred)
	proceeds := units.Mul(sellPrice)
	sellFee := proceeds.Mul(decimal.NewFromFloat(sell.Fee)).Div(hundred)
	net := proceeds.Sub(sellFee).Sub(amount).Sub(buyFee)
	roi := net.Div(amount).Mul(hundred)

	return Calculation{
		BuyFrom:   buy.Name,
		SellTo:    sell.Name,
		Amount:    amount.Round(2),
		Units:     units.Round(8),
		BuyFee:    buyFee.Round(2),
		Proceeds:  proceeds.Round(2),
		SellFee:   sellFee.Round(2),
		NetProfit: net.Round(2),
		ROI:       roi.Round(2),
	}, nil
}
