package domain

import "errors"

// Sentinel errors for trade settlement and market data. Callers match
// them with errors.Is; repositories and clients wrap them with context.
var (
	// ErrInsufficientBalance is returned when a buy costs more than the
	// available cash balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrPositionNotFound is returned when selling an asset that is not
	// held, or when looking up a position that does not exist.
	ErrPositionNotFound = errors.New("position not found")

	// ErrInsufficientHoldings is returned when a sell exceeds the held
	// amount.
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrEmptyResponse is returned when the market data API answers
	// successfully but without a usable body.
	ErrEmptyResponse = errors.New("empty response body")
)
