package importer

import "github.com/MrJamesThe3rd/backoffice/internal/invoice"

// rateMode determines how tax rates are read from a row.
type rateMode int

const (
	// ratesNone leaves both rates blank so the service defaults apply.
	ratesNone rateMode = iota
	// ratesSplit means separate CGST and SGST percentage columns.
	ratesSplit
	// ratesCombined means one GST percentage column, split evenly between CGST and SGST.
	ratesCombined
)

// Profile describes the column layout of a line-item export.
// Header names are matched case-insensitively.
type Profile struct {
	Name        string
	NameCol     string
	QtyCol      string
	PriceCol    string
	CategoryCol string // optional
	RateMode    rateMode
	CGSTCol     string // used when RateMode == ratesSplit
	SGSTCol     string // used when RateMode == ratesSplit
	GSTCol      string // used when RateMode == ratesCombined
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.NameCol, p.QtyCol, p.PriceCol}

	switch p.RateMode {
	case ratesSplit:
		cols = append(cols, p.CGSTCol, p.SGSTCol)
	case ratesCombined:
		cols = append(cols, p.GSTCol)
	}

	return cols
}

// profiles is tried in order; layouts with more required columns come first.
var profiles = []Profile{
	{
		Name:        "standard",
		NameCol:     "item name",
		QtyCol:      "quantity",
		PriceCol:    "unit price",
		CategoryCol: "category",
		RateMode:    ratesSplit,
		CGSTCol:     "cgst %",
		SGSTCol:     "sgst %",
	},
	{
		Name:     "tally",
		NameCol:  "particulars",
		QtyCol:   "quantity",
		PriceCol: "rate",
		RateMode: ratesSplit,
		CGSTCol:  "cgst rate",
		SGSTCol:  "sgst rate",
	},
	{
		Name:        "pos",
		NameCol:     "product",
		QtyCol:      "qty",
		PriceCol:    "price",
		CategoryCol: "category",
		RateMode:    ratesCombined,
		GSTCol:      "gst %",
	},
	{
		Name:        "simple",
		NameCol:     "item",
		QtyCol:      "qty",
		PriceCol:    "price",
		CategoryCol: "category",
		RateMode:    ratesNone,
	},
}

// Result is a parsed upload. Lines are raw draft rows; eligibility is
// decided later by the invoice aggregator.
type Result struct {
	Profile string
	Charset string
	Lines   []invoice.LineInput
}
