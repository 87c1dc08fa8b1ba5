// Package models defines the domain models used across the application.
package models

// ExchangeQuote is one exchange's current market data for a chosen asset.
// JSON field names match the remote quotes endpoint.
type ExchangeQuote struct {
	// Name identifies the exchange; unique within a snapshot.
	Name string `json:"name"`

	// Price is the quote price in the reference currency (USD/USDT).
	Price float64 `json:"price"`

	// Fee is the percentage fee charged on trade value.
	Fee float64 `json:"fee"`

	// Volume is a liquidity proxy, informational only.
	Volume float64 `json:"volume,omitempty"`

	// Change24h is the 24h price change in percent, informational only.
	Change24h float64 `json:"change24h,omitempty"`

	// URL is an outbound link to the exchange.
	URL string `json:"url,omitempty"`

	// PaymentMethod is a display-category tag, e.g. "card" or "crypto-only".
	PaymentMethod string `json:"paymentMethod,omitempty"`
}
