// Package coingecko implements the market data gateway against the
// CoinGecko v3 REST API, with a short-lived in-memory quote cache.
// If the API fails, stale cached quotes are served where available
// (stale data > no data).
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/rs/zerolog"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

const (
	// DefaultBaseURL is the public CoinGecko API endpoint
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	// defaultCacheTTL is how long a fetched quote counts as fresh
	defaultCacheTTL = 60 * time.Second

	maxAttempts = 3
)

// Client for the CoinGecko API. Implements domain.MarketDataGateway.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger

	cacheTTL time.Duration
	mu       sync.RWMutex
	quotes   map[string]cachedQuote
}

type cachedQuote struct {
	coin      domain.CryptoCurrency
	fetchedAt time.Time
}

// Option configures the client
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests and proxies)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithAPIKey sets the demo API key sent on every request
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithCacheTTL overrides the quote cache freshness window
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cacheTTL = ttl }
}

// NewClient creates a new CoinGecko client
func NewClient(log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.With().Str("client", "coingecko").Logger(),
		cacheTTL:   defaultCacheTTL,
		quotes:     make(map[string]cachedQuote),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListMarkets retrieves a page of coins ordered by market cap descending
func (c *Client) ListMarkets(ctx context.Context, page, perPage int) ([]domain.CryptoCurrency, error) {
	query := url.Values{
		"vs_currency":             {"usd"},
		"order":                   {"market_cap_desc"},
		"per_page":                {strconv.Itoa(perPage)},
		"page":                    {strconv.Itoa(page)},
		"sparkline":               {"true"},
		"price_change_percentage": {"24h"},
	}

	coins, err := c.fetchMarkets(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(coins) == 0 {
		return nil, fmt.Errorf("%w: coins/markets page %d", domain.ErrEmptyResponse, page)
	}

	c.storeQuotes(coins)
	return coins, nil
}

// GetQuote retrieves the quote for a single asset
func (c *Client) GetQuote(ctx context.Context, cryptoID string) (*domain.CryptoCurrency, error) {
	quotes, err := c.GetQuotes(ctx, []string{cryptoID})
	if err != nil {
		return nil, err
	}
	coin, ok := quotes[cryptoID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyResponse, cryptoID)
	}
	return &coin, nil
}

// GetQuotes retrieves quotes for a set of assets in one call. Fresh
// cached quotes are served without a network round trip; when the API
// fails, stale cached quotes fill in for the assets that have them.
func (c *Client) GetQuotes(ctx context.Context, cryptoIDs []string) (map[string]domain.CryptoCurrency, error) {
	if len(cryptoIDs) == 0 {
		return map[string]domain.CryptoCurrency{}, nil
	}

	result := make(map[string]domain.CryptoCurrency, len(cryptoIDs))
	missing := make([]string, 0, len(cryptoIDs))

	c.mu.RLock()
	now := time.Now()
	for _, id := range cryptoIDs {
		if cached, ok := c.quotes[id]; ok && now.Sub(cached.fetchedAt) < c.cacheTTL {
			result[id] = cached.coin
		} else {
			missing = append(missing, id)
		}
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return result, nil
	}

	query := url.Values{
		"vs_currency":             {"usd"},
		"ids":                     {strings.Join(missing, ",")},
		"order":                   {"market_cap_desc"},
		"per_page":                {strconv.Itoa(len(missing))},
		"page":                    {"1"},
		"sparkline":               {"false"},
		"price_change_percentage": {"24h"},
	}

	coins, err := c.fetchMarkets(ctx, query)
	if err != nil {
		stale := c.staleQuotes(missing)
		if len(stale) == 0 && len(result) == 0 {
			return nil, err
		}
		c.log.Warn().Err(err).Int("stale", len(stale)).
			Msg("Quote fetch failed, serving cached quotes")
		for id, coin := range stale {
			result[id] = coin
		}
		return result, nil
	}

	c.storeQuotes(coins)
	for _, coin := range coins {
		result[coin.ID] = coin
	}
	return result, nil
}

// Search finds coins matching a free-text query. Search results carry
// identity and icon only; prices require a follow-up quote call.
func (c *Client) Search(ctx context.Context, query string) ([]domain.CryptoCurrency, error) {
	endpoint := c.baseURL + "/search?query=" + url.QueryEscape(query)

	body, err := c.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	coins := make([]domain.CryptoCurrency, 0, len(parsed.Coins))
	for _, coin := range parsed.Coins {
		coins = append(coins, coin.toDomain())
	}
	return coins, nil
}

func (c *Client) fetchMarkets(ctx context.Context, query url.Values) ([]domain.CryptoCurrency, error) {
	endpoint := c.baseURL + "/coins/markets?" + query.Encode()

	body, err := c.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var markets []coinMarket
	if err := json.Unmarshal(body, &markets); err != nil {
		return nil, fmt.Errorf("failed to parse markets response: %w", err)
	}

	coins := make([]domain.CryptoCurrency, 0, len(markets))
	for _, m := range markets {
		coins = append(coins, m.toDomain())
	}
	return coins, nil
}

// doGet performs a GET with bounded exponential backoff. Network
// errors, 429 and 5xx responses are retried; other statuses fail fast.
func (c *Client) doGet(ctx context.Context, endpoint string) ([]byte, error) {
	b := &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(b.Duration()):
			}
		}

		body, retryable, err := c.tryGet(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		c.log.Warn().Err(err).Int("attempt", attempt).Str("url", endpoint).
			Msg("Request failed, retrying")
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) tryGet(ctx context.Context, endpoint string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("API returned status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	const maxBody = 8 << 20 // guard against runaway responses
	body, err = io.ReadAll(http.MaxBytesReader(nil, resp.Body, maxBody))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}
	return body, false, nil
}

func (c *Client) storeQuotes(coins []domain.CryptoCurrency) {
	now := time.Now()
	c.mu.Lock()
	for _, coin := range coins {
		c.quotes[coin.ID] = cachedQuote{coin: coin, fetchedAt: now}
	}
	c.mu.Unlock()
}

// staleQuotes returns whatever cached quotes exist for ids, fresh or not
func (c *Client) staleQuotes(ids []string) map[string]domain.CryptoCurrency {
	stale := make(map[string]domain.CryptoCurrency)
	c.mu.RLock()
	for _, id := range ids {
		if cached, ok := c.quotes[id]; ok {
			stale[id] = cached.coin
		}
	}
	c.mu.RUnlock()
	return stale
}
