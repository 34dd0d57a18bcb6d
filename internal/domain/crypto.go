package domain

import "github.com/shopspring/decimal"

// CryptoCurrency is a market quote for one asset. Quotes are ephemeral:
// they are fetched per request and never persisted.
type CryptoCurrency struct {
	ID                string
	Symbol            string
	Name              string
	Price             decimal.Decimal
	ChangePercent24h  float64
	Volume24h         decimal.Decimal
	MarketCap         decimal.Decimal
	CirculatingSupply decimal.Decimal
	MaxSupply         decimal.Decimal
	AllTimeHigh       decimal.Decimal
	IconURL           string
	Sparkline         []decimal.Decimal
}
