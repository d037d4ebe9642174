// Package money holds the fixed-point currency type used for every persisted amount.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a currency value in minor units (two decimal places).
type Amount int64

// Max is the largest unit price, line or invoice total accepted, 10^13 in
// major units.
const Max Amount = 1_000_000_000_000_000

var (
	hundred    = decimal.NewFromInt(100)
	maxDecimal = Max.Decimal()
)

// InRange reports whether d, once rounded to two places, lies within [0, Max].
func InRange(d decimal.Decimal) bool {
	r := d.Round(2)
	return !r.IsNegative() && r.LessThanOrEqual(maxDecimal)
}

// FromDecimal rounds d half away from zero to two places and returns it in minor units.
// d must satisfy InRange; larger values do not fit an Amount.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Mul(hundred).Round(0).IntPart())
}

// Decimal returns the exact decimal value of a.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// String formats a with exactly two decimal places, e.g. "340.00".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// MarshalJSON encodes a as a JSON number with two decimal places.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// Float is for display formatting only.
func (a Amount) Float() float64 {
	f, _ := a.Decimal().Float64()
	return f
}

// ParseLenient parses user-entered numeric input. Currency symbols, thousands separators and
// surrounding whitespace are ignored. Missing, malformed or negative input yields zero.
func ParseLenient(s string) decimal.Decimal {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "₹")
	clean = strings.TrimPrefix(clean, "Rs.")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(clean)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}

	return d
}
