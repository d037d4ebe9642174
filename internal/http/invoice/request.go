package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/directory"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
)

// flexString accepts either a JSON string or a JSON number and keeps the
// literal text, so "2", 2 and 2.50 all reach the calculator unchanged.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*f = flexString(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a number or a string, got %s", b)
	}

	*f = flexString(n)

	return nil
}

type lineRequest struct {
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	ItemName  string     `json:"item_name"`
	Category  string     `json:"category"`
	Quantity  flexString `json:"quantity"`
	UnitPrice flexString `json:"unit_price"`
	CGSTRate  flexString `json:"cgst_rate"`
	SGSTRate  flexString `json:"sgst_rate"`
}

func (l lineRequest) toInput() invoice.LineInput {
	return invoice.LineInput{
		ProductID: l.ProductID,
		ItemName:  l.ItemName,
		Category:  l.Category,
		Quantity:  string(l.Quantity),
		UnitPrice: string(l.UnitPrice),
		CGSTRate:  string(l.CGSTRate),
		SGSTRate:  string(l.SGSTRate),
	}
}

func toInputs(lines []lineRequest) []invoice.LineInput {
	inputs := make([]invoice.LineInput, len(lines))
	for i, l := range lines {
		inputs[i] = l.toInput()
	}

	return inputs
}

type draftRequest struct {
	InvoiceNo    string         `json:"invoice_no"`
	InvoiceDate  string         `json:"invoice_date"`
	Kind         directory.Kind `json:"kind"`
	PartyID      *uuid.UUID     `json:"party_id,omitempty"`
	PartyName    string         `json:"party_name"`
	PartyAddress string         `json:"party_address"`
	PartyMobile  string         `json:"party_mobile"`
	Items        []lineRequest  `json:"items"`
}

func (d draftRequest) toDraft() (invoice.Draft, error) {
	date, err := parseDate(d.InvoiceDate)
	if err != nil {
		return invoice.Draft{}, &invoice.ValidationError{Fields: []invoice.FieldError{{
			Field:   "invoice_date",
			Tag:     "date",
			Message: "must be YYYY-MM-DD or RFC 3339",
		}}}
	}

	return invoice.Draft{
		InvoiceNo:    d.InvoiceNo,
		InvoiceDate:  date,
		Kind:         d.Kind,
		PartyID:      d.PartyID,
		PartyName:    d.PartyName,
		PartyAddress: d.PartyAddress,
		PartyMobile:  d.PartyMobile,
		Items:        toInputs(d.Items),
	}, nil
}

// parseDate accepts a calendar date or a full timestamp. Blank yields the
// zero time, which the service replaces with a default.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, s)
}

type previewRequest struct {
	Items []lineRequest `json:"items"`
}

type numberRequest struct {
	Preferred string `json:"preferred"`
}
