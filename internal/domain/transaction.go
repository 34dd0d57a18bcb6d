package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a trade
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// Transaction is an append-only record of one settled trade. Records
// are never mutated or deleted except on a full portfolio reset.
type Transaction struct {
	ID           uuid.UUID
	CryptoID     string
	Symbol       string
	Type         TransactionType
	Amount       decimal.Decimal
	PricePerUnit decimal.Decimal
	Timestamp    time.Time
}

// TotalCost returns amount times price per unit
func (t *Transaction) TotalCost() decimal.Decimal {
	return t.Amount.Mul(t.PricePerUnit)
}

// Validate ensures the transaction adheres to domain rules
func (t *Transaction) Validate() error {
	if t.CryptoID == "" {
		return errors.New("transaction crypto ID cannot be empty")
	}
	if t.Type != TransactionTypeBuy && t.Type != TransactionTypeSell {
		return errors.New("transaction type must be BUY or SELL")
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction amount must be positive")
	}
	if t.PricePerUnit.IsNegative() {
		return errors.New("transaction price per unit cannot be negative")
	}
	return nil
}
