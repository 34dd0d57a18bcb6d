package market

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

// MockMarketDataGateway is a mock implementation of MarketDataGateway for testing
type MockMarketDataGateway struct {
	mock.Mock
}

func (m *MockMarketDataGateway) ListMarkets(ctx context.Context, page, perPage int) ([]domain.CryptoCurrency, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CryptoCurrency), args.Error(1)
}

func (m *MockMarketDataGateway) GetQuote(ctx context.Context, cryptoID string) (*domain.CryptoCurrency, error) {
	args := m.Called(ctx, cryptoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CryptoCurrency), args.Error(1)
}

func (m *MockMarketDataGateway) GetQuotes(ctx context.Context, cryptoIDs []string) (map[string]domain.CryptoCurrency, error) {
	args := m.Called(ctx, cryptoIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.CryptoCurrency), args.Error(1)
}

func (m *MockMarketDataGateway) Search(ctx context.Context, query string) ([]domain.CryptoCurrency, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CryptoCurrency), args.Error(1)
}

func TestGetCryptoList_ClampsPaging(t *testing.T) {
	ctx := context.Background()
	gateway := new(MockMarketDataGateway)
	service := NewMarketService(gateway, zerolog.Nop())

	expected := []domain.CryptoCurrency{
		{ID: "bitcoin", Symbol: "BTC", Price: decimal.NewFromInt(20000)},
	}
	gateway.On("ListMarkets", ctx, 1, DefaultPerPage).Return(expected, nil)

	// Zero/negative paging falls back to page 1, default page size
	coins, err := service.GetCryptoList(ctx, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, expected, coins)

	// Oversized page size clamps too
	coins, err = service.GetCryptoList(ctx, 1, MaxPerPage+1)
	require.NoError(t, err)
	assert.Equal(t, expected, coins)

	gateway.AssertExpectations(t)
}

func TestGetCryptoDetails(t *testing.T) {
	ctx := context.Background()
	gateway := new(MockMarketDataGateway)
	service := NewMarketService(gateway, zerolog.Nop())

	btc := &domain.CryptoCurrency{ID: "bitcoin", Symbol: "BTC", Price: decimal.NewFromInt(20000)}
	gateway.On("GetQuote", ctx, "bitcoin").Return(btc, nil)

	coin, err := service.GetCryptoDetails(ctx, "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, btc, coin)

	_, err = service.GetCryptoDetails(ctx, "")
	assert.Error(t, err)
}

func TestGetCryptoDetails_GatewayError(t *testing.T) {
	ctx := context.Background()
	gateway := new(MockMarketDataGateway)
	service := NewMarketService(gateway, zerolog.Nop())

	gateway.On("GetQuote", ctx, "unknowncoin").Return(nil, domain.ErrEmptyResponse)

	_, err := service.GetCryptoDetails(ctx, "unknowncoin")
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	gateway := new(MockMarketDataGateway)
	service := NewMarketService(gateway, zerolog.Nop())

	results := []domain.CryptoCurrency{{ID: "bitcoin", Symbol: "BTC"}}
	gateway.On("Search", ctx, "bit").Return(results, nil)

	coins, err := service.Search(ctx, "  bit  ")
	require.NoError(t, err)
	assert.Equal(t, results, coins)

	_, err = service.Search(ctx, "   ")
	assert.Error(t, err)

	gateway.On("Search", ctx, "fail").Return(nil, errors.New("boom"))
	_, err = service.Search(ctx, "fail")
	assert.Error(t, err)
}
