// Package premium computes net premium and broker commission from a gross
// premium and the configured deductible fees.
package premium

import (
	"errors"
	"fmt"
	"strings"

	"sautipay/internal/currency"
	"sautipay/internal/money"

	"github.com/shopspring/decimal"
)

type FeeType string

const (
	FeeTypePercentage FeeType = "percentage"
	FeeTypeFlat       FeeType = "flat"
)

var (
	ErrInvalidFee     = errors.New("invalid fee")
	ErrUnknownFeeType = errors.New("unknown fee type")
)

var hundred = decimal.NewFromInt(100)

type DeductibleFee struct {
	Name     string          `json:"name"`
	Type     FeeType         `json:"type"`
	Value    decimal.Decimal `json:"value"`
	Enabled  bool            `json:"enabled"`
	Currency string          `json:"currency"`
}

// Deduction is one enabled fee expressed in the target currency.
type Deduction struct {
	Name     string          `json:"name"`
	Type     FeeType         `json:"type"`
	Original decimal.Decimal `json:"original"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type Result struct {
	Gross           decimal.Decimal `json:"grossPremium"`
	Currency        string          `json:"currency"`
	Deductions      []Deduction     `json:"deductions"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	Net             decimal.Decimal `json:"netPremium"`
}

// NetPremium returns gross minus all enabled fees, floored at zero.
func NetPremium(gross decimal.Decimal, fees []DeductibleFee, target string, rates currency.Provider) (decimal.Decimal, error) {
	result, err := Breakdown(gross, fees, target, rates)
	if err != nil {
		return decimal.Zero, err
	}
	return result.Net, nil
}

// Breakdown is NetPremium with the per-fee detail kept.
func Breakdown(gross decimal.Decimal, fees []DeductibleFee, target string, rates currency.Provider) (Result, error) {
	if _, err := rates.Rate(target); err != nil {
		return Result{}, err
	}
	result := Result{
		Gross:      gross,
		Currency:   target,
		Deductions: make([]Deduction, 0, len(fees)),
	}
	total := decimal.Zero
	for _, fee := range fees {
		if !fee.Enabled {
			continue
		}
		amount, err := feeAmount(gross, fee)
		if err != nil {
			return Result{}, err
		}
		original := amount
		if fee.Currency != target {
			amount, err = rates.Convert(amount, fee.Currency, target)
			if err != nil {
				return Result{}, fmt.Errorf("fee %q: %w", fee.Name, err)
			}
		}
		result.Deductions = append(result.Deductions, Deduction{
			Name:     fee.Name,
			Type:     fee.Type,
			Original: original,
			Currency: fee.Currency,
			Amount:   amount,
		})
		total = total.Add(amount)
	}
	result.TotalDeductions = total
	result.Net = decimal.Max(decimal.Zero, gross.Sub(total))
	return result, nil
}

func feeAmount(gross decimal.Decimal, fee DeductibleFee) (decimal.Decimal, error) {
	switch fee.Type {
	case FeeTypePercentage:
		return money.Percent(gross, fee.Value), nil
	case FeeTypeFlat:
		return fee.Value, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownFeeType, fee.Type)
	}
}

// Commission is net * rate / 100. Callers compute net first.
func Commission(net, rate decimal.Decimal) decimal.Decimal {
	return money.Percent(net, rate)
}

// Derived holds the computed columns shown next to a premium record.
type Derived struct {
	Net        decimal.Decimal
	Commission decimal.Decimal
}

// Derive applies the calculators in order: gross, net premium, commission.
func Derive(gross decimal.Decimal, fees []DeductibleFee, target string, commissionRate decimal.Decimal, rates currency.Provider) (Derived, error) {
	net, err := NetPremium(gross, fees, target, rates)
	if err != nil {
		return Derived{}, err
	}
	return Derived{Net: net, Commission: Commission(net, commissionRate)}, nil
}

// ValidateFee checks a fee submitted through settings. The calculator itself
// accepts any value.
func ValidateFee(fee DeductibleFee, rates currency.Provider) error {
	if strings.TrimSpace(fee.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFee)
	}
	if fee.Type != FeeTypePercentage && fee.Type != FeeTypeFlat {
		return fmt.Errorf("%w: type must be percentage or flat", ErrInvalidFee)
	}
	if !currency.ValidCode(fee.Currency) {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidFee)
	}
	if _, err := rates.Rate(fee.Currency); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFee, err)
	}
	if fee.Value.IsNegative() {
		return fmt.Errorf("%w: value must not be negative", ErrInvalidFee)
	}
	if fee.Type == FeeTypePercentage && fee.Value.GreaterThan(hundred) {
		return fmt.Errorf("%w: percentage must be between 0 and 100", ErrInvalidFee)
	}
	return nil
}

func DefaultFees() []DeductibleFee {
	return []DeductibleFee{
		{Name: "Taxes", Type: FeeTypePercentage, Value: decimal.NewFromInt(5), Enabled: true, Currency: currency.Base},
		{Name: "Stamp Duty", Type: FeeTypeFlat, Value: decimal.NewFromInt(50), Enabled: true, Currency: currency.Base},
		{Name: "Training Levy", Type: FeeTypePercentage, Value: decimal.RequireFromString("0.2"), Enabled: false, Currency: currency.Base},
	}
}
