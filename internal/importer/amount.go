package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// normalizeNumber rewrites a cell into the dot-decimal form the invoice
// package accepts, dropping a trailing percent sign. With decimalComma the
// cell is read as "1.234,56". Cells that do not parse are returned trimmed and
// left for the aggregator to reject.
func normalizeNumber(s string, decimalComma bool) string {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" || !decimalComma {
		return s
	}

	clean := strings.TrimPrefix(s, "₹")
	clean = strings.TrimPrefix(clean, "Rs.")
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.TrimSpace(strings.ReplaceAll(clean, ",", "."))

	if _, err := decimal.NewFromString(clean); err != nil {
		return s
	}

	return clean
}

// splitRate halves a combined GST percentage. Malformed input is returned as
// is for both halves.
func splitRate(s string) (string, string) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s, s
	}

	half := d.Div(two).String()

	return half, half
}
