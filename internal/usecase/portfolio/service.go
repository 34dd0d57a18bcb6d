package portfolio

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

// PortfolioService combines stored positions with live market prices to
// compute current value and unrealized profit/loss. Market data
// failures degrade to fallback pricing instead of failing the caller:
// the portfolio screen must survive a market-data outage.
type PortfolioService struct {
	PortfolioRepo  domain.PortfolioRepository
	MarketData     domain.MarketDataGateway
	InitialBalance decimal.Decimal

	log zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService instance
func NewPortfolioService(
	portfolioRepo domain.PortfolioRepository,
	marketData domain.MarketDataGateway,
	initialBalance decimal.Decimal,
	log zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		PortfolioRepo:  portfolioRepo,
		MarketData:     marketData,
		InitialBalance: initialBalance,
		log:            log.With().Str("service", "portfolio").Logger(),
	}
}

// GetPortfolioWithPrices returns all held positions valued at current
// market prices. Quotes are fetched in one batched call; a position
// whose quote is missing falls back to its average buy price, so it
// shows zero profit/loss rather than failing the whole portfolio.
func (s *PortfolioService) GetPortfolioWithPrices(ctx context.Context) ([]domain.ValuedPosition, error) {
	positions, err := s.PortfolioRepo.ListPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	if len(positions) == 0 {
		return []domain.ValuedPosition{}, nil
	}

	cryptoIDs := make([]string, 0, len(positions))
	seen := make(map[string]bool, len(positions))
	for _, p := range positions {
		if !seen[p.CryptoID] {
			seen[p.CryptoID] = true
			cryptoIDs = append(cryptoIDs, p.CryptoID)
		}
	}

	quotes, err := s.MarketData.GetQuotes(ctx, cryptoIDs)
	if err != nil {
		// Degrade to fallback pricing for every position.
		s.log.Warn().Err(err).Msg("Quote fetch failed, valuing portfolio at cost")
		quotes = nil
	}

	valued := make([]domain.ValuedPosition, 0, len(positions))
	for _, p := range positions {
		currentPrice := p.AverageBuyPrice
		iconURL := ""
		if quote, ok := quotes[p.CryptoID]; ok {
			currentPrice = quote.Price
			iconURL = quote.IconURL
		}
		valued = append(valued, p.WithCalculatedValues(currentPrice, iconURL))
	}

	return valued, nil
}

// GetAccountState returns the cash balance together with portfolio
// valuation totals. An empty portfolio yields zero totals; a valuation
// failure yields the base balance-only state. Both are successes, not
// errors.
func (s *PortfolioService) GetAccountState(ctx context.Context) (*domain.AccountState, error) {
	balance, err := s.PortfolioRepo.GetBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	state := &domain.AccountState{
		Balance:             balance,
		TotalPortfolioValue: decimal.Zero,
		PortfolioCost:       decimal.Zero,
		TotalProfitLoss:     decimal.Zero,
		ProfitLossPercent:   decimal.Zero,
		Items:               []domain.ValuedPosition{},
	}

	items, err := s.GetPortfolioWithPrices(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Valuation failed, returning base account state")
		return state, nil
	}

	for _, item := range items {
		state.TotalPortfolioValue = state.TotalPortfolioValue.Add(item.CurrentValue)
		state.PortfolioCost = state.PortfolioCost.Add(item.CostBasis())
		state.TotalProfitLoss = state.TotalProfitLoss.Add(item.ProfitLoss)
	}
	if state.PortfolioCost.IsPositive() {
		state.ProfitLossPercent = state.TotalProfitLoss.
			DivRound(state.PortfolioCost, domain.RatioScale).
			Mul(decimal.NewFromInt(100))
	}
	state.Items = items

	return state, nil
}

// GetTransactionHistory returns all recorded trades, newest first
func (s *PortfolioService) GetTransactionHistory(ctx context.Context) ([]*domain.Transaction, error) {
	transactions, err := s.PortfolioRepo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// ResetPortfolio clears positions and transactions and restores the
// initial balance in one atomic unit
func (s *PortfolioService) ResetPortfolio(ctx context.Context) error {
	if err := s.PortfolioRepo.Reset(ctx, s.InitialBalance); err != nil {
		return fmt.Errorf("failed to reset portfolio: %w", err)
	}
	s.log.Info().Str("balance", s.InitialBalance.String()).Msg("Portfolio reset")
	return nil
}
