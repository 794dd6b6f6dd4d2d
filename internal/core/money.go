// Package core holds the domain model of the household ledger.
//
// Money is stored as positive integer cents; the direction of a movement
// lives in the transaction kind. Decimal arithmetic is used at the
// boundaries (parsing, splitting) so that cent rounding stays explicit.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Money struct {
	Cents int64
}

var hundred = decimal.NewFromInt(100)

// MoneyFromFloat converts a wire amount (currency units) to cents with
// half-up rounding on the third decimal.
func MoneyFromFloat(v float64) Money {
	cents := decimal.NewFromFloat(v).Mul(hundred).Round(0).IntPart()
	return Money{Cents: cents}
}

// ParseAmount parses a user-entered amount. Both dot and comma decimal
// separators are accepted. Only strictly positive amounts are valid.
func ParseAmount(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Mul(hundred).Round(0).IntPart()
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Float returns the amount in currency units for wire encoding and display.
// Calculations stay in cents.
func (m Money) Float() float64 {
	f, _ := decimal.NewFromInt(m.Cents).Div(hundred).Float64()
	return f
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }
func (m Money) IsZero() bool      { return m.Cents == 0 }

// DivRound returns m divided by n, rounded half-up to the cent. This is the
// per-installment share of a split total; the residual cent policy is the
// caller's concern.
func (m Money) DivRound(n int) Money {
	d := decimal.NewFromInt(m.Cents).Div(decimal.NewFromInt(int64(n))).Round(0)
	return Money{Cents: d.IntPart()}
}
