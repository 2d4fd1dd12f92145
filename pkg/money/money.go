// Package money parses and validates monetary amounts. Amounts travel as
// fixed-point decimal strings on the wire and in storage; floats are never
// used anywhere in the ledger.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MaxFractionDigits bounds the scale of any amount accepted by the engine.
const MaxFractionDigits = 8

var (
	ErrMalformed   = errors.New("malformed decimal amount")
	ErrNotPositive = errors.New("amount must be greater than zero")
	ErrTooPrecise  = errors.New("amount exceeds maximum fraction digits")
)

// Parse parses a decimal string into an exact decimal value.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrMalformed
	}
	if d.Exponent() < -MaxFractionDigits {
		return decimal.Zero, ErrTooPrecise
	}
	return d, nil
}

// ParsePositive parses a decimal string and requires it to be strictly
// positive. All transfer and reward amounts go through this.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.Sign() <= 0 {
		return decimal.Zero, ErrNotPositive
	}
	return d, nil
}

// Zero returns the zero amount.
func Zero() decimal.Decimal {
	return decimal.Zero
}
