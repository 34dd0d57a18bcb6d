package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

const marketsPayload = `[
	{
		"id": "bitcoin",
		"symbol": "btc",
		"name": "Bitcoin",
		"image": "https://assets.coingecko.com/coins/images/1/large/bitcoin.png",
		"current_price": 20000.5,
		"market_cap": 400000000000,
		"total_volume": 25000000000,
		"price_change_percentage_24h": -1.25,
		"circulating_supply": 19500000,
		"max_supply": 21000000,
		"ath": 69045,
		"sparkline_in_7d": {"price": [19800, 19900.5, 20000.5]}
	},
	{
		"id": "ethereum",
		"symbol": "eth",
		"name": "Ethereum",
		"image": "https://assets.coingecko.com/coins/images/279/large/ethereum.png",
		"current_price": 1500,
		"market_cap": null,
		"total_volume": null,
		"price_change_percentage_24h": null,
		"circulating_supply": null,
		"max_supply": null,
		"ath": null
	}
]`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(zerolog.Nop(), WithBaseURL(server.URL))
}

func TestListMarkets_ParsesResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "market_cap_desc", r.URL.Query().Get("order"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		w.Write([]byte(marketsPayload))
	}))

	coins, err := client.ListMarkets(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, coins, 2)

	btc := coins[0]
	assert.Equal(t, "bitcoin", btc.ID)
	assert.Equal(t, "BTC", btc.Symbol)
	assert.Equal(t, "20000.5", btc.Price.String())
	assert.Equal(t, -1.25, btc.ChangePercent24h)
	assert.Equal(t, "21000000", btc.MaxSupply.String())
	assert.Len(t, btc.Sparkline, 3)

	// Null numeric fields default to zero
	eth := coins[1]
	assert.Equal(t, "ETH", eth.Symbol)
	assert.True(t, eth.MarketCap.IsZero())
	assert.Zero(t, eth.ChangePercent24h)
}

func TestListMarkets_EmptyPage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	_, err := client.ListMarkets(context.Background(), 99, 20)
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
}

func TestGetQuotes_FiltersByIDsAndCaches(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		w.Write([]byte(marketsPayload))
	}))

	quotes, err := client.GetQuotes(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "20000.5", quotes["bitcoin"].Price.String())

	// Second call within the TTL is served from cache
	quotes, err = client.GetQuotes(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetQuotes_ServesStaleCacheWhenAPIFails(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(marketsPayload))
	}))
	defer server.Close()

	// Zero TTL so every read goes back to the API
	client := NewClient(zerolog.Nop(), WithBaseURL(server.URL), WithCacheTTL(0))

	_, err := client.GetQuotes(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)

	fail.Store(true)
	quotes, err := client.GetQuotes(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "20000.5", quotes["bitcoin"].Price.String())
}

func TestGetQuotes_FailsWithoutCache(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetQuotes(context.Background(), []string{"bitcoin"})
	assert.Error(t, err)
}

func TestGetQuote_MissingAsset(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	_, err := client.GetQuote(context.Background(), "nosuchcoin")
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
}

func TestSearch_ParsesCoins(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "bit", r.URL.Query().Get("query"))
		w.Write([]byte(`{"coins": [
			{"id": "bitcoin", "name": "Bitcoin", "symbol": "btc", "thumb": "t.png", "large": "l.png"},
			{"id": "bitcoin-cash", "name": "Bitcoin Cash", "symbol": "bch", "thumb": "t2.png", "large": ""}
		]}`))
	}))

	coins, err := client.Search(context.Background(), "bit")
	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "BTC", coins[0].Symbol)
	assert.Equal(t, "l.png", coins[0].IconURL)
	// Falls back to thumb when no large icon
	assert.Equal(t, "t2.png", coins[1].IconURL)
}

func TestDoGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(marketsPayload))
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	coins, err := client.ListMarkets(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, coins, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.ListMarkets(context.Background(), 1, 2)
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
