package models

// OpportunityPair is the result of buying on one exchange and selling on another.
// It is derived per snapshot and never persisted.
type OpportunityPair struct {
	BuyFrom   string  `json:"buyFrom"`
	SellTo    string  `json:"sellTo"`
	BuyPrice  float64 `json:"buyPrice"`
	SellPrice float64 `json:"sellPrice"`

	// Spread is SellPrice - BuyPrice.
	Spread float64 `json:"spread"`

	// NetProfit is Spread minus both legs' fees, per unit of asset.
	NetProfit float64 `json:"netProfit"`

	// NetProfitPercent is NetProfit relative to BuyPrice.
	NetProfitPercent float64 `json:"netProfitPercent"`
}
