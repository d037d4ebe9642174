package invoice

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/money"
)

// Column widths of invoice_items.
const (
	maxItemName = 255
	maxCategory = 100
)

// Totals is the result of aggregating a set of draft rows.
type Totals struct {
	Items []LineItem
	// Skipped lists the indices of draft rows that were not eligible.
	Skipped    []int
	Subtotal   money.Amount
	CGSTTotal  money.Amount
	SGSTTotal  money.Amount
	TotalTax   money.Amount
	GrandTotal money.Amount
}

// Eligible reports whether a draft row is complete enough to count towards an invoice.
func Eligible(in LineInput) bool {
	return strings.TrimSpace(in.ItemName) != "" &&
		ParseQuantity(in.Quantity) > 0 &&
		money.ParseLenient(in.UnitPrice).IsPositive()
}

// Aggregate drops ineligible rows, computes the rest and sums them.
// It fails with ErrEmptyInvoice when nothing is left, and with a *ValidationError
// when an eligible row is invalid or an amount exceeds money.Max. Totals are
// summed as decimals and only converted once they are known to fit.
func Aggregate(lines []LineInput, defaults TaxRates) (*Totals, error) {
	totals := &Totals{}

	var fields []FieldError

	for i, in := range lines {
		if !Eligible(in) {
			totals.Skipped = append(totals.Skipped, i)
			continue
		}

		item, errs := computeItem(i, in, defaults)
		if len(errs) > 0 {
			fields = append(fields, errs...)
			continue
		}

		item.Position = len(totals.Items) + 1
		totals.Items = append(totals.Items, item)
	}

	if len(totals.Items) == 0 && len(fields) == 0 {
		return nil, ErrEmptyInvoice
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	subtotal, cgst, sgst := decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range totals.Items {
		subtotal = subtotal.Add(item.Subtotal.Decimal())
		cgst = cgst.Add(item.CGSTAmount.Decimal())
		sgst = sgst.Add(item.SGSTAmount.Decimal())
	}

	if !money.InRange(subtotal.Add(cgst).Add(sgst)) {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "items",
			Tag:     "max",
			Message: "grand total must be at most " + money.Max.String(),
		}}}
	}

	totals.Subtotal = money.FromDecimal(subtotal)
	totals.CGSTTotal = money.FromDecimal(cgst)
	totals.SGSTTotal = money.FromDecimal(sgst)
	totals.TotalTax = totals.CGSTTotal + totals.SGSTTotal
	totals.GrandTotal = totals.Subtotal + totals.TotalTax

	return totals, nil
}

func computeItem(idx int, in LineInput, defaults TaxRates) (LineItem, []FieldError) {
	var errs []FieldError

	field := func(name string) string {
		return fmt.Sprintf("items[%d].%s", idx, name)
	}

	name := strings.TrimSpace(in.ItemName)
	if utf8.RuneCountInString(name) > maxItemName {
		errs = append(errs, FieldError{
			Field:   field("item_name"),
			Tag:     "max",
			Message: fmt.Sprintf("must be at most %d characters", maxItemName),
		})
	}

	category := strings.TrimSpace(in.Category)
	if utf8.RuneCountInString(category) > maxCategory {
		errs = append(errs, FieldError{
			Field:   field("category"),
			Tag:     "max",
			Message: fmt.Sprintf("must be at most %d characters", maxCategory),
		})
	}

	qty := ParseQuantity(in.Quantity)
	if qty > maxQuantity {
		errs = append(errs, FieldError{
			Field:   field("quantity"),
			Tag:     "max",
			Message: fmt.Sprintf("must be at most %d", maxQuantity),
		})
	}

	cgst, ok := parseRate(strings.TrimSpace(in.CGSTRate), defaults.CGST)
	if !ok {
		errs = append(errs, rateError(field("cgst_rate")))
	}

	sgst, ok := parseRate(strings.TrimSpace(in.SGSTRate), defaults.SGST)
	if !ok {
		errs = append(errs, rateError(field("sgst_rate")))
	}

	if len(errs) > 0 {
		return LineItem{}, errs
	}

	price := money.ParseLenient(in.UnitPrice)
	if !money.InRange(price) {
		return LineItem{}, []FieldError{maxAmountError(field("unit_price"), "must be at most ")}
	}

	// Unit prices are currency inputs and are held to two places like every other amount.
	unitPrice := money.FromDecimal(price)
	if unitPrice <= 0 {
		return LineItem{}, []FieldError{{
			Field:   field("unit_price"),
			Tag:     "min",
			Message: "must be at least 0.01",
		}}
	}

	line := ComputeLine(decimal.NewFromInt(qty), unitPrice.Decimal(), cgst, sgst)
	if !money.InRange(line.LineTotal) {
		return LineItem{}, []FieldError{maxAmountError(field("unit_price"), "line total must be at most ")}
	}

	amounts := line.Round()

	return LineItem{
		ProductID:  in.ProductID,
		ItemName:   name,
		Category:   category,
		Quantity:   qty,
		UnitPrice:  unitPrice,
		CGSTRate:   cgst,
		SGSTRate:   sgst,
		Subtotal:   amounts.Subtotal,
		CGSTAmount: amounts.CGSTAmount,
		SGSTAmount: amounts.SGSTAmount,
		TaxAmount:  amounts.TaxAmount,
		LineTotal:  amounts.LineTotal,
	}, nil
}

func rateError(field string) FieldError {
	return FieldError{
		Field:   field,
		Tag:     "rate",
		Message: "must be a percentage between 0 and 100 with at most four decimal places",
	}
}

func maxAmountError(field, prefix string) FieldError {
	return FieldError{
		Field:   field,
		Tag:     "max",
		Message: prefix + money.Max.String(),
	}
}
