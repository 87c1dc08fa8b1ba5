package model

import "time"

// QuotePoint is one historical exchange quote read back from ClickHouse.
type QuotePoint struct {
	SnapshotID    string    `gorm:"column:snapshot_id" json:"snapshotId"`
	Asset         string    `gorm:"column:asset" json:"asset"`
	Exchange      string    `gorm:"column:exchange" json:"exchange"`
	Price         float64   `gorm:"column:price;type:Float64" json:"price"`
	Fee           float64   `gorm:"column:fee;type:Float64" json:"fee"`
	Volume        float64   `gorm:"column:volume;type:Float64" json:"volume"`
	PaymentMethod string    `gorm:"column:payment_method" json:"paymentMethod"`
	Live          bool      `gorm:"column:live" json:"live"`
	FetchedAt     time.Time `gorm:"column:fetched_at;type:DateTime64(3, 'UTC')" json:"fetchedAt"`
}

func (QuotePoint) TableName() string {
	return "quote"
}

// ExchangeCount is the number of stored quotes for one exchange.
type ExchangeCount struct {
	Exchange string `json:"exchange"`
	Count    int64  `json:"count"`
}
