package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/money"
)

// maxQuantity bounds a single line; anything above it is rejected by Aggregate.
const maxQuantity = 1_000_000

// ratePlaces matches the scale of the NUMERIC(7, 4) rate columns.
const ratePlaces = 4

var hundredPercent = decimal.NewFromInt(100)

// LineAmounts holds the unrounded amounts of one line.
type LineAmounts struct {
	Subtotal   decimal.Decimal
	CGSTAmount decimal.Decimal
	SGSTAmount decimal.Decimal
	TaxAmount  decimal.Decimal
	LineTotal  decimal.Decimal
}

// ComputeLine derives a line's subtotal, taxes and total at full precision.
// Rates are percentages.
func ComputeLine(quantity, unitPrice, cgstRate, sgstRate decimal.Decimal) LineAmounts {
	subtotal := quantity.Mul(unitPrice)
	cgst := subtotal.Mul(cgstRate).Shift(-2)
	sgst := subtotal.Mul(sgstRate).Shift(-2)
	tax := cgst.Add(sgst)

	return LineAmounts{
		Subtotal:   subtotal,
		CGSTAmount: cgst,
		SGSTAmount: sgst,
		TaxAmount:  tax,
		LineTotal:  subtotal.Add(tax),
	}
}

// RoundedLine is LineAmounts as persisted. TaxAmount and LineTotal are sums of
// the rounded parts so they always add up in minor units.
type RoundedLine struct {
	Subtotal   money.Amount
	CGSTAmount money.Amount
	SGSTAmount money.Amount
	TaxAmount  money.Amount
	LineTotal  money.Amount
}

func (a LineAmounts) Round() RoundedLine {
	subtotal := money.FromDecimal(a.Subtotal)
	cgst := money.FromDecimal(a.CGSTAmount)
	sgst := money.FromDecimal(a.SGSTAmount)

	return RoundedLine{
		Subtotal:   subtotal,
		CGSTAmount: cgst,
		SGSTAmount: sgst,
		TaxAmount:  cgst + sgst,
		LineTotal:  subtotal + cgst + sgst,
	}
}

// ParseQuantity normalizes user input to a whole quantity. Missing, malformed,
// negative and fractional input become 0. Values past maxQuantity are clamped to
// maxQuantity+1 so validation can report them.
func ParseQuantity(s string) int64 {
	d := money.ParseLenient(s)
	if !d.IsInteger() {
		return 0
	}

	if d.GreaterThan(decimal.NewFromInt(maxQuantity)) {
		return maxQuantity + 1
	}

	return d.IntPart()
}

// parseRate returns def for blank input and false for anything that is not a
// percentage between 0 and 100 with at most ratePlaces decimals. Finer input
// would be rounded by the rate columns and no longer match the stored amounts.
func parseRate(s string, def decimal.Decimal) (decimal.Decimal, bool) {
	if s == "" {
		return def, true
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() || d.GreaterThan(hundredPercent) || !d.Equal(d.Round(ratePlaces)) {
		return decimal.Zero, false
	}

	return d, true
}
