package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

var hundred = decimal.NewFromInt(100)

// Parse reads a major-unit amount such as "1250.50". At most two decimals.
func Parse(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if value.Exponent() < -2 && !value.Equal(value.Round(2)) {
		return decimal.Zero, ErrTooManyDecimals
	}
	return value, nil
}

// Positive validates an amount received in a request body.
func Positive(value decimal.Decimal) error {
	if !value.IsPositive() {
		return ErrInvalidAmount
	}
	if !value.Equal(value.Round(2)) {
		return ErrTooManyDecimals
	}
	return nil
}

// Round rounds half-even to cents.
func Round(value decimal.Decimal) decimal.Decimal {
	return value.RoundBank(2)
}

func Format(value decimal.Decimal) string {
	return value.StringFixedBank(2)
}

// Percent returns value * pct / 100 without rounding.
func Percent(value, pct decimal.Decimal) decimal.Decimal {
	return value.Mul(pct).Div(hundred)
}
