// Package core provides the transaction domain types shared by every layer.
//
// This file contains the money representation and the conversions between
// integer paise and decimal rupee amounts.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in paise (1/100 rupee).
type Money struct {
	Cents int64
}

var hundred = decimal.NewFromInt(100)

// ParseAmount converts a rupee amount to paise with half-up rounding.
//
// Thousands separators are stripped before parsing. Negative values,
// amounts whose paise do not fit in an int64 and anything that is not a
// plain decimal number are rejected.
//
// Examples:
//
//	ParseAmount("1,234.50") -> 123450, nil
//	ParseAmount("500")      -> 50000, nil
//	ParseAmount("12.345")   -> 1235, nil
func ParseAmount(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if !d.Mul(hundred).Round(0).BigInt().IsInt64() {
		return Money{}, ErrInvalidAmount
	}
	return MoneyFromDecimal(d), nil
}

// MoneyFromDecimal rounds a rupee decimal half-up to whole paise.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Mul(hundred).Round(0).IntPart()}
}

// Decimal returns the rupee value as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Rupees returns the rupee value as a float64 for display and export.
// Use cents for calculations.
func (m Money) Rupees() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// String formats the amount with two decimals, e.g. "1234.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
