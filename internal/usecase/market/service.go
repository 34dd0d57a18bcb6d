package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

const (
	// DefaultPerPage is the dashboard page size
	DefaultPerPage = 20
	// MaxPerPage caps a single markets request
	MaxPerPage = 250
)

// MarketService exposes market listings, coin details and search to the
// presentation layer, delegating to the market data gateway.
type MarketService struct {
	Gateway domain.MarketDataGateway

	log zerolog.Logger
}

// NewMarketService creates a new MarketService instance
func NewMarketService(gateway domain.MarketDataGateway, log zerolog.Logger) *MarketService {
	return &MarketService{
		Gateway: gateway,
		log:     log.With().Str("service", "market").Logger(),
	}
}

// GetCryptoList returns a page of coins ordered by market cap. Page
// numbers start at 1; out-of-range paging values are clamped to the
// defaults.
func (s *MarketService) GetCryptoList(ctx context.Context, page, perPage int) ([]domain.CryptoCurrency, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}

	coins, err := s.Gateway.ListMarkets(ctx, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	return coins, nil
}

// GetCryptoDetails returns the quote for a single coin
func (s *MarketService) GetCryptoDetails(ctx context.Context, cryptoID string) (*domain.CryptoCurrency, error) {
	if cryptoID == "" {
		return nil, errors.New("crypto ID cannot be empty")
	}

	coin, err := s.Gateway.GetQuote(ctx, cryptoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", cryptoID, err)
	}
	return coin, nil
}

// Search finds coins matching a free-text query
func (s *MarketService) Search(ctx context.Context, query string) ([]domain.CryptoCurrency, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query cannot be empty")
	}

	coins, err := s.Gateway.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return coins, nil
}
