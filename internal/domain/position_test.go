package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWithCalculatedValues_ProfitScenario(t *testing.T) {
	position := Position{
		CryptoID:        "bitcoin",
		Symbol:          "BTC",
		Name:            "Bitcoin",
		Amount:          decimal.RequireFromString("2.0"),
		AverageBuyPrice: decimal.RequireFromString("10000.00"),
	}

	valued := position.WithCalculatedValues(decimal.RequireFromString("15000.00"), "")

	assert.True(t, valued.CurrentValue.Equal(decimal.RequireFromString("30000.00")),
		"current value = %s", valued.CurrentValue)
	assert.True(t, valued.ProfitLoss.Equal(decimal.RequireFromString("10000.00")),
		"profit/loss = %s", valued.ProfitLoss)
	assert.True(t, valued.ProfitLossPercent.Equal(decimal.RequireFromString("50.0000")),
		"profit/loss percent = %s", valued.ProfitLossPercent)
}

func TestWithCalculatedValues_LossScenario(t *testing.T) {
	position := Position{
		CryptoID:        "bitcoin",
		Symbol:          "BTC",
		Name:            "Bitcoin",
		Amount:          decimal.RequireFromString("1.0"),
		AverageBuyPrice: decimal.RequireFromString("20000.00"),
	}

	valued := position.WithCalculatedValues(decimal.RequireFromString("15000.00"), "")

	assert.True(t, valued.CurrentValue.Equal(decimal.RequireFromString("15000.00")))
	assert.True(t, valued.ProfitLoss.Equal(decimal.RequireFromString("-5000.00")))
	assert.True(t, valued.ProfitLossPercent.Equal(decimal.RequireFromString("-25.0000")))
}

func TestWithCalculatedValues_ZeroCostBasis(t *testing.T) {
	// Zero amount means zero cost basis: no profit/loss and no division
	// by zero in the percentage.
	position := Position{
		CryptoID:        "bitcoin",
		Symbol:          "BTC",
		Name:            "Bitcoin",
		Amount:          decimal.Zero,
		AverageBuyPrice: decimal.RequireFromString("10000.00"),
	}

	valued := position.WithCalculatedValues(decimal.RequireFromString("15000.00"), "")

	assert.True(t, valued.CurrentValue.IsZero())
	assert.True(t, valued.ProfitLoss.IsZero())
	assert.True(t, valued.ProfitLossPercent.IsZero())
}

func TestWithCalculatedValues_KeepsExistingIconWhenNoneProvided(t *testing.T) {
	position := Position{
		CryptoID:        "ethereum",
		Symbol:          "ETH",
		Name:            "Ethereum",
		Amount:          decimal.NewFromInt(1),
		AverageBuyPrice: decimal.NewFromInt(2000),
		IconURL:         "https://example.com/eth.png",
	}

	valued := position.WithCalculatedValues(decimal.NewFromInt(2500), "")
	assert.Equal(t, "https://example.com/eth.png", valued.IconURL)

	valued = position.WithCalculatedValues(decimal.NewFromInt(2500), "https://example.com/new.png")
	assert.Equal(t, "https://example.com/new.png", valued.IconURL)
}

func TestWeightedAverageBuyPrice(t *testing.T) {
	position := Position{
		CryptoID:        "bitcoin",
		Symbol:          "BTC",
		Name:            "Bitcoin",
		Amount:          decimal.RequireFromString("1.0"),
		AverageBuyPrice: decimal.RequireFromString("10000.00"),
	}

	// 1.0 @ 10000 + 1.0 @ 20000 -> 2.0 @ 15000
	avg := position.WeightedAverageBuyPrice(
		decimal.RequireFromString("1.0"),
		decimal.RequireFromString("20000.00"),
	)
	assert.True(t, avg.Equal(decimal.RequireFromString("15000")), "avg = %s", avg)

	// 1.0 @ 10000 + 2.0 @ 16000 -> 3.0 @ 14000
	avg = position.WeightedAverageBuyPrice(
		decimal.RequireFromString("2.0"),
		decimal.RequireFromString("16000.00"),
	)
	assert.True(t, avg.Equal(decimal.RequireFromString("14000")), "avg = %s", avg)
}

func TestWeightedAverageBuyPrice_RoundsHalfUp(t *testing.T) {
	position := Position{
		CryptoID:        "bitcoin",
		Symbol:          "BTC",
		Name:            "Bitcoin",
		Amount:          decimal.NewFromInt(1),
		AverageBuyPrice: decimal.NewFromInt(1),
	}

	// (1*1 + 2*2) / 3 = 5/3 = 1.66666666... -> 1.66666667 at scale 8
	avg := position.WeightedAverageBuyPrice(decimal.NewFromInt(2), decimal.NewFromInt(2))
	assert.True(t, avg.Equal(decimal.RequireFromString("1.66666667")), "avg = %s", avg)
}

func TestPositionValidate(t *testing.T) {
	valid := Position{
		CryptoID:        "bitcoin",
		Symbol:          "BTC",
		Name:            "Bitcoin",
		Amount:          decimal.NewFromInt(1),
		AverageBuyPrice: decimal.NewFromInt(10000),
	}
	assert.NoError(t, valid.Validate())

	missingID := valid
	missingID.CryptoID = ""
	assert.Error(t, missingID.Validate())

	zeroAmount := valid
	zeroAmount.Amount = decimal.Zero
	assert.Error(t, zeroAmount.Validate())

	negativePrice := valid
	negativePrice.AverageBuyPrice = decimal.NewFromInt(-1)
	assert.Error(t, negativePrice.Validate())
}
