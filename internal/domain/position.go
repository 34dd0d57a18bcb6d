package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Decimal scale policy for the whole application.
// Average buy prices are quotients rounded at AvgPriceScale; the
// profit/loss ratio is rounded at RatioScale before being expressed as
// a percentage. Sums and products are kept exact.
const (
	AvgPriceScale = 8
	RatioScale    = 4
)

// Position represents a held quantity of one asset with its average
// cost basis. A position exists only while Amount > 0.
type Position struct {
	CryptoID        string
	Symbol          string
	Name            string
	Amount          decimal.Decimal
	AverageBuyPrice decimal.Decimal
	IconURL         string
}

// Validate ensures the position adheres to domain rules
func (p *Position) Validate() error {
	if p.CryptoID == "" {
		return errors.New("position crypto ID cannot be empty")
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("position amount must be positive")
	}
	if p.AverageBuyPrice.IsNegative() {
		return errors.New("position average buy price cannot be negative")
	}
	return nil
}

// CostBasis returns quantity times average buy price, the reference
// cost used for profit/loss calculation.
func (p *Position) CostBasis() decimal.Decimal {
	return p.Amount.Mul(p.AverageBuyPrice)
}

// WeightedAverageBuyPrice merges an additional buy into the position's
// cost basis: (oldAmount*oldAvg + buyAmount*buyPrice) / (oldAmount+buyAmount),
// rounded half-up at AvgPriceScale.
func (p *Position) WeightedAverageBuyPrice(buyAmount, buyPrice decimal.Decimal) decimal.Decimal {
	totalCost := p.CostBasis().Add(buyAmount.Mul(buyPrice))
	totalAmount := p.Amount.Add(buyAmount)
	return totalCost.DivRound(totalAmount, AvgPriceScale)
}

// ValuedPosition is a position combined with a live market price and
// the derived valuation figures.
type ValuedPosition struct {
	Position

	CurrentPrice      decimal.Decimal
	CurrentValue      decimal.Decimal
	ProfitLoss        decimal.Decimal
	ProfitLossPercent decimal.Decimal
}

// WithCalculatedValues values the position at currentPrice.
// ProfitLossPercent is the profit/loss over cost basis, rounded half-up
// at RatioScale and expressed as a percentage. A zero cost basis yields
// zero profit/loss and zero percent (no division by zero).
func (p Position) WithCalculatedValues(currentPrice decimal.Decimal, iconURL string) ValuedPosition {
	if iconURL != "" {
		p.IconURL = iconURL
	}

	currentValue := p.Amount.Mul(currentPrice)
	costBasis := p.CostBasis()
	profitLoss := currentValue.Sub(costBasis)

	profitLossPercent := decimal.Zero
	if costBasis.IsPositive() {
		profitLossPercent = profitLoss.
			DivRound(costBasis, RatioScale).
			Mul(decimal.NewFromInt(100))
	}

	return ValuedPosition{
		Position:          p,
		CurrentPrice:      currentPrice,
		CurrentValue:      currentValue,
		ProfitLoss:        profitLoss,
		ProfitLossPercent: profitLossPercent,
	}
}
