// Package core holds the domain model and the pure budget computations.
//
// All monetary amounts are decimal.Decimal values. Rounding, where it
// happens, is half away from zero at two decimal places and is applied
// once, at the final step of a computation.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-supplied amount string to a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// requires a strictly positive value. The result is rounded to two
// decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

// ParseBudget is like ParseAmount but allows zero, since a monthly
// budget of zero is a valid (if strict) setting.
func ParseBudget(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.Sign() < 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

var (
	four    = decimal.NewFromInt(4)
	twelve  = decimal.NewFromInt(12)
	thirty  = decimal.NewFromInt(30)
	hundred = decimal.NewFromInt(100)
)

// percentOf returns part/whole*100 rounded to two decimal places.
// The division and the rounding happen here and nowhere else so that
// callers cannot accumulate intermediate rounding error.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	return part.Mul(hundred).Div(whole).Round(2)
}
