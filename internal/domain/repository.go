package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// TradeApplication bundles the full effect of one settled trade so the
// store can apply balance, position and transaction log in a single
// atomic unit: either all three persist or none do.
type TradeApplication struct {
	// NewBalance is the account balance after the trade.
	NewBalance decimal.Decimal

	// UpsertPosition is set when the trade leaves a held position
	// (buys, and sells that keep some amount).
	UpsertPosition *Position

	// DeleteCryptoID is set when a sell empties the position.
	DeleteCryptoID string

	// Transaction is the log record appended for the trade.
	Transaction *Transaction
}

// PortfolioRepository defines the interface for portfolio persistence
// operations. All decimal values are stored as exact text; the account
// row is created with the configured initial balance on first access.
type PortfolioRepository interface {
	// GetBalance retrieves the current cash balance, initializing the
	// account on first access
	GetBalance(ctx context.Context) (decimal.Decimal, error)

	// SetBalance overwrites the cash balance
	SetBalance(ctx context.Context, balance decimal.Decimal) error

	// GetPosition retrieves a position by asset ID.
	// Returns ErrPositionNotFound when the asset is not held.
	GetPosition(ctx context.Context, cryptoID string) (*Position, error)

	// ListPositions retrieves all held positions
	ListPositions(ctx context.Context) ([]*Position, error)

	// UpsertPosition creates or replaces a position
	UpsertPosition(ctx context.Context, position *Position) error

	// DeletePosition removes a position by asset ID
	DeletePosition(ctx context.Context, cryptoID string) error

	// ApplyTrade applies balance, position and transaction log changes
	// for one trade in a single storage transaction
	ApplyTrade(ctx context.Context, app TradeApplication) error

	// AppendTransaction appends a single transaction record
	AppendTransaction(ctx context.Context, tx *Transaction) error

	// ListTransactions retrieves all transactions, newest first
	ListTransactions(ctx context.Context) ([]*Transaction, error)

	// Reset clears positions and transactions and reinitializes the
	// balance in one atomic unit
	Reset(ctx context.Context, initialBalance decimal.Decimal) error
}

// MarketDataGateway defines the interface for fetching market quotes
// from the remote price API. Callers must treat failures as non-fatal
// where valuation can proceed with fallback prices.
type MarketDataGateway interface {
	// ListMarkets retrieves a page of coins ordered by market cap
	ListMarkets(ctx context.Context, page, perPage int) ([]CryptoCurrency, error)

	// GetQuote retrieves the quote for a single asset
	GetQuote(ctx context.Context, cryptoID string) (*CryptoCurrency, error)

	// GetQuotes retrieves quotes for a set of assets in one call,
	// keyed by asset ID. Assets missing from the response are simply
	// absent from the map.
	GetQuotes(ctx context.Context, cryptoIDs []string) (map[string]CryptoCurrency, error)

	// Search finds coins matching a free-text query
	Search(ctx context.Context, query string) ([]CryptoCurrency, error)
}

// SettingsRepository defines the interface for user settings persistence
type SettingsRepository interface {
	// Get retrieves the stored settings, or the defaults when none are
	// stored yet
	Get(ctx context.Context) (UserSettings, error)

	// Save persists the settings
	Save(ctx context.Context, settings UserSettings) error

	// Reset restores the default settings
	Reset(ctx context.Context) (UserSettings, error)
}

// UserRepository defines the interface for user profile access
type UserRepository interface {
	// GetProfile retrieves the current user profile
	GetProfile(ctx context.Context) (*UserProfile, error)

	// Login authenticates and returns the updated profile
	Login(ctx context.Context, username, password string) (*UserProfile, error)

	// Logout marks the user as logged out
	Logout(ctx context.Context) error
}
