package coingecko

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

// coinMarket is the wire shape of one entry from /coins/markets.
// Numeric fields are nullable in the API, hence the pointers.
type coinMarket struct {
	ID                       string           `json:"id"`
	Symbol                   string           `json:"symbol"`
	Name                     string           `json:"name"`
	Image                    string           `json:"image"`
	CurrentPrice             *decimal.Decimal `json:"current_price"`
	MarketCap                *decimal.Decimal `json:"market_cap"`
	TotalVolume              *decimal.Decimal `json:"total_volume"`
	PriceChangePercentage24h *float64         `json:"price_change_percentage_24h"`
	CirculatingSupply        *decimal.Decimal `json:"circulating_supply"`
	MaxSupply                *decimal.Decimal `json:"max_supply"`
	ATH                      *decimal.Decimal `json:"ath"`
	SparklineIn7d            *sparklineData   `json:"sparkline_in_7d"`
}

type sparklineData struct {
	Price []decimal.Decimal `json:"price"`
}

// searchResponse is the wire shape of /search
type searchResponse struct {
	Coins []searchCoin `json:"coins"`
}

type searchCoin struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Thumb  string `json:"thumb"`
	Large  string `json:"large"`
}

func (m coinMarket) toDomain() domain.CryptoCurrency {
	coin := domain.CryptoCurrency{
		ID:      m.ID,
		Symbol:  strings.ToUpper(m.Symbol),
		Name:    m.Name,
		IconURL: m.Image,
	}
	if m.CurrentPrice != nil {
		coin.Price = *m.CurrentPrice
	}
	if m.MarketCap != nil {
		coin.MarketCap = *m.MarketCap
	}
	if m.TotalVolume != nil {
		coin.Volume24h = *m.TotalVolume
	}
	if m.PriceChangePercentage24h != nil {
		coin.ChangePercent24h = *m.PriceChangePercentage24h
	}
	if m.CirculatingSupply != nil {
		coin.CirculatingSupply = *m.CirculatingSupply
	}
	if m.MaxSupply != nil {
		coin.MaxSupply = *m.MaxSupply
	}
	if m.ATH != nil {
		coin.AllTimeHigh = *m.ATH
	}
	if m.SparklineIn7d != nil {
		coin.Sparkline = m.SparklineIn7d.Price
	}
	return coin
}

func (s searchCoin) toDomain() domain.CryptoCurrency {
	icon := s.Large
	if icon == "" {
		icon = s.Thumb
	}
	return domain.CryptoCurrency{
		ID:      s.ID,
		Symbol:  strings.ToUpper(s.Symbol),
		Name:    s.Name,
		IconURL: icon,
	}
}
