// Package currency holds the exchange-rate table used to normalize fees and
// display amounts. Rates are expressed as units of a currency per 1 USD.
package currency

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

const Base = "USD"

var (
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrInvalidRate     = errors.New("invalid rate")
	ErrInvalidCode     = errors.New("invalid currency code")
	ErrInvalidMarkup   = errors.New("invalid markup")
)

var codeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

type Provider interface {
	Rate(code string) (decimal.Decimal, error)
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// Quote is one row of the rate snapshot shown to admins.
type Quote struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	SellRate decimal.Decimal `json:"sellRate"`
	Manual   bool            `json:"manual"`
}

type Table struct {
	mu     sync.RWMutex
	rates  map[string]decimal.Decimal
	manual map[string]bool
	markup decimal.Decimal
}

func DefaultRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.85"),
		"GBP": decimal.RequireFromString("0.73"),
		"KES": decimal.RequireFromString("129.5"),
		"UGX": decimal.NewFromInt(3780),
		"TZS": decimal.NewFromInt(2650),
		"RWF": decimal.NewFromInt(1310),
		"ZAR": decimal.RequireFromString("18.2"),
	}
}

// NewTable copies rates; USD is always present at 1.
func NewTable(rates map[string]decimal.Decimal) (*Table, error) {
	t := &Table{
		rates:  make(map[string]decimal.Decimal, len(rates)+1),
		manual: make(map[string]bool),
	}
	for code, rate := range rates {
		code = Normalize(code)
		if !codeRegex.MatchString(code) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("%w: %s=%s", ErrInvalidRate, code, rate)
		}
		t.rates[code] = rate
	}
	t.rates[Base] = decimal.NewFromInt(1)
	return t, nil
}

func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func ValidCode(code string) bool {
	return codeRegex.MatchString(code)
}

func (t *Table) Rate(code string) (decimal.Decimal, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rate, ok := t.rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return rate, nil
}

func (t *Table) Known(code string) bool {
	_, err := t.Rate(code)
	return err == nil
}

// Convert pivots through USD: amount * rate(to) / rate(from).
func (t *Table) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		if _, err := t.Rate(from); err != nil {
			return decimal.Zero, err
		}
		return amount, nil
	}
	fromRate, err := t.Rate(from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := t.Rate(to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(toRate).Div(fromRate), nil
}

// SetRate installs a manual rate. USD cannot be changed.
func (t *Table) SetRate(code string, rate decimal.Decimal) error {
	code = Normalize(code)
	if !codeRegex.MatchString(code) {
		return ErrInvalidCode
	}
	if code == Base || !rate.IsPositive() {
		return ErrInvalidRate
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rates[code] = rate
	t.manual[code] = true
	return nil
}

// SetMarkup sets the display markup percentage applied to sell rates.
func (t *Table) SetMarkup(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidMarkup
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.markup = pct
	return nil
}

func (t *Table) Markup() decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.markup
}

func (t *Table) Snapshot() []Quote {
	t.mu.RLock()
	defer t.mu.RUnlock()
	factor := decimal.NewFromInt(1).Add(t.markup.Div(decimal.NewFromInt(100)))
	quotes := make([]Quote, 0, len(t.rates))
	for code, rate := range t.rates {
		sell := rate
		if code != Base {
			sell = rate.Mul(factor).Round(6)
		}
		quotes = append(quotes, Quote{
			Currency: code,
			Rate:     rate,
			SellRate: sell,
			Manual:   t.manual[code],
		})
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Currency < quotes[j].Currency })
	return quotes
}
