package domain

import "github.com/shopspring/decimal"

// AccountState holds the demo account's cash balance together with the
// portfolio valuation figures. Valuation fields are zero when the
// portfolio is empty or when market data is unavailable.
type AccountState struct {
	Balance             decimal.Decimal
	TotalPortfolioValue decimal.Decimal
	PortfolioCost       decimal.Decimal
	TotalProfitLoss     decimal.Decimal
	ProfitLossPercent   decimal.Decimal
	Items               []ValuedPosition
}

// TotalBalance returns cash plus the current value of all holdings
func (s *AccountState) TotalBalance() decimal.Decimal {
	return s.Balance.Add(s.TotalPortfolioValue)
}
