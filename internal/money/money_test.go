package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
		err  error
	}{
		{in: "1000", want: "1000.00"},
		{in: " 12.5 ", want: "12.50"},
		{in: "-3.25", want: "-3.25"},
		{in: "1.230", want: "1.23"},
		{in: "1.234", err: ErrTooManyDecimals},
		{in: "", err: ErrInvalidAmount},
		{in: "12a", err: ErrInvalidAmount},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != tc.err {
			t.Fatalf("%q: expected err %v, got %v", tc.in, tc.err, err)
		}
		if tc.err == nil && Format(got) != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.in, tc.want, Format(got))
		}
	}
}

func TestPositive(t *testing.T) {
	if err := Positive(decimal.RequireFromString("0.01")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Positive(decimal.Zero); err != ErrInvalidAmount {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if err := Positive(decimal.RequireFromString("1.001")); err != ErrTooManyDecimals {
		t.Fatalf("expected too many decimals, got %v", err)
	}
}

func TestRound(t *testing.T) {
	if got := Format(Round(decimal.RequireFromString("988.235294"))); got != "988.24" {
		t.Fatalf("unexpected rounding: %s", got)
	}
	if got := Format(Round(decimal.RequireFromString("12.345"))); got != "12.34" {
		t.Fatalf("expected bankers rounding to 12.34, got %s", got)
	}
}

func TestPercent(t *testing.T) {
	got := Percent(decimal.NewFromInt(900), decimal.NewFromInt(5))
	if !got.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("expected 45, got %s", got)
	}
}
