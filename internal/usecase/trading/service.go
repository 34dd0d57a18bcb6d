package trading

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

// TradeInput represents the input for settling a trade
type TradeInput struct {
	CryptoID string
	Symbol   string
	Name     string
	Amount   decimal.Decimal
	Price    decimal.Decimal
	Type     domain.TransactionType
}

// TradingService settles buy and sell trades against the portfolio
// store. Settlements are serialized by a mutex so concurrent trades
// cannot interleave their read-compute-commit cycles and break the
// balance/position invariants; the store applies each settlement in a
// single storage transaction.
type TradingService struct {
	PortfolioRepo domain.PortfolioRepository

	mu  sync.Mutex
	log zerolog.Logger
}

// NewTradingService creates a new TradingService instance
func NewTradingService(portfolioRepo domain.PortfolioRepository, log zerolog.Logger) *TradingService {
	return &TradingService{
		PortfolioRepo: portfolioRepo,
		log:           log.With().Str("service", "trading").Logger(),
	}
}

// ExecuteTrade validates and applies a buy or sell.
// On success exactly one transaction record is appended and balance and
// position are updated atomically; on failure no state changes.
// Fails with domain.ErrInsufficientBalance, domain.ErrPositionNotFound
// or domain.ErrInsufficientHoldings for the respective precondition
// violations.
func (s *TradingService) ExecuteTrade(ctx context.Context, input TradeInput) error {
	if input.CryptoID == "" {
		return errors.New("trade crypto ID cannot be empty")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("trade amount must be positive")
	}
	if input.Price.IsNegative() {
		return errors.New("trade price cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var app domain.TradeApplication
	var err error

	switch input.Type {
	case domain.TransactionTypeBuy:
		app, err = s.settleBuy(ctx, input)
	case domain.TransactionTypeSell:
		app, err = s.settleSell(ctx, input)
	default:
		return errors.New("trade type must be BUY or SELL")
	}
	if err != nil {
		return err
	}

	app.Transaction = &domain.Transaction{
		ID:           uuid.New(),
		CryptoID:     input.CryptoID,
		Symbol:       input.Symbol,
		Type:         input.Type,
		Amount:       input.Amount,
		PricePerUnit: input.Price,
		Timestamp:    time.Now(),
	}
	if err := app.Transaction.Validate(); err != nil {
		return err
	}

	if err := s.PortfolioRepo.ApplyTrade(ctx, app); err != nil {
		return fmt.Errorf("failed to apply trade: %w", err)
	}

	s.log.Info().
		Str("crypto_id", input.CryptoID).
		Str("type", string(input.Type)).
		Str("amount", input.Amount.String()).
		Str("price", input.Price.String()).
		Msg("Trade settled")

	return nil
}

// settleBuy computes the application of a buy: balance decreases by the
// cost, the position is created or merged with a weighted-average buy
// price.
func (s *TradingService) settleBuy(ctx context.Context, input TradeInput) (domain.TradeApplication, error) {
	balance, err := s.PortfolioRepo.GetBalance(ctx)
	if err != nil {
		return domain.TradeApplication{}, err
	}

	cost := input.Amount.Mul(input.Price)
	if cost.GreaterThan(balance) {
		return domain.TradeApplication{}, domain.ErrInsufficientBalance
	}

	position, err := s.PortfolioRepo.GetPosition(ctx, input.CryptoID)
	switch {
	case err == nil:
		merged := *position
		merged.AverageBuyPrice = position.WeightedAverageBuyPrice(input.Amount, input.Price)
		merged.Amount = position.Amount.Add(input.Amount)
		position = &merged
	case errors.Is(err, domain.ErrPositionNotFound):
		position = &domain.Position{
			CryptoID:        input.CryptoID,
			Symbol:          input.Symbol,
			Name:            input.Name,
			Amount:          input.Amount,
			AverageBuyPrice: input.Price,
		}
	default:
		return domain.TradeApplication{}, err
	}

	if err := position.Validate(); err != nil {
		return domain.TradeApplication{}, err
	}

	return domain.TradeApplication{
		NewBalance:     balance.Sub(cost),
		UpsertPosition: position,
	}, nil
}

// settleSell computes the application of a sell: balance increases by
// the proceeds, the position shrinks and is removed when emptied. The
// average buy price is never touched by a sell.
func (s *TradingService) settleSell(ctx context.Context, input TradeInput) (domain.TradeApplication, error) {
	position, err := s.PortfolioRepo.GetPosition(ctx, input.CryptoID)
	if err != nil {
		return domain.TradeApplication{}, err
	}

	if input.Amount.GreaterThan(position.Amount) {
		return domain.TradeApplication{}, domain.ErrInsufficientHoldings
	}

	balance, err := s.PortfolioRepo.GetBalance(ctx)
	if err != nil {
		return domain.TradeApplication{}, err
	}

	app := domain.TradeApplication{
		NewBalance: balance.Add(input.Amount.Mul(input.Price)),
	}

	remaining := position.Amount.Sub(input.Amount)
	if remaining.IsPositive() {
		reduced := *position
		reduced.Amount = remaining
		app.UpsertPosition = &reduced
	} else {
		app.DeleteCryptoID = input.CryptoID
	}

	return app, nil
}
