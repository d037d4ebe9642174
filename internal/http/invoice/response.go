package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/directory"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/money"
)

type itemResponse struct {
	Position   int             `json:"position"`
	ProductID  *uuid.UUID      `json:"product_id,omitempty"`
	ItemName   string          `json:"item_name"`
	Category   string          `json:"category,omitempty"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  money.Amount    `json:"unit_price"`
	CGSTRate   decimal.Decimal `json:"cgst_rate"`
	SGSTRate   decimal.Decimal `json:"sgst_rate"`
	Subtotal   money.Amount    `json:"subtotal"`
	CGSTAmount money.Amount    `json:"cgst_amount"`
	SGSTAmount money.Amount    `json:"sgst_amount"`
	TaxAmount  money.Amount    `json:"tax_amount"`
	LineTotal  money.Amount    `json:"line_total"`
}

type invoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNo     string                `json:"invoice_no"`
	InvoiceDate   string                `json:"invoice_date"`
	Kind          directory.Kind        `json:"kind"`
	PartyID       *uuid.UUID            `json:"party_id,omitempty"`
	PartyName     string                `json:"party_name"`
	PartyAddress  string                `json:"party_address,omitempty"`
	PartyMobile   string                `json:"party_mobile,omitempty"`
	Items         []itemResponse        `json:"items,omitempty"`
	Subtotal      money.Amount          `json:"subtotal"`
	CGSTTotal     money.Amount          `json:"cgst_total"`
	SGSTTotal     money.Amount          `json:"sgst_total"`
	TotalTax      money.Amount          `json:"total_tax"`
	GrandTotal    money.Amount          `json:"grand_total"`
	PaymentStatus invoice.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

type PreviewResponse struct {
	Items      []itemResponse `json:"items"`
	Skipped    []int          `json:"skipped"`
	Subtotal   money.Amount   `json:"subtotal"`
	CGSTTotal  money.Amount   `json:"cgst_total"`
	SGSTTotal  money.Amount   `json:"sgst_total"`
	TotalTax   money.Amount   `json:"total_tax"`
	GrandTotal money.Amount   `json:"grand_total"`
}

type numberResponse struct {
	InvoiceNo string `json:"invoice_no"`
}

func toItemResponses(items []invoice.LineItem) []itemResponse {
	resp := make([]itemResponse, len(items))
	for i, it := range items {
		resp[i] = itemResponse{
			Position:   it.Position,
			ProductID:  it.ProductID,
			ItemName:   it.ItemName,
			Category:   it.Category,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			CGSTRate:   it.CGSTRate,
			SGSTRate:   it.SGSTRate,
			Subtotal:   it.Subtotal,
			CGSTAmount: it.CGSTAmount,
			SGSTAmount: it.SGSTAmount,
			TaxAmount:  it.TaxAmount,
			LineTotal:  it.LineTotal,
		}
	}

	return resp
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:            inv.ID,
		InvoiceNo:     inv.InvoiceNo,
		InvoiceDate:   inv.InvoiceDate.Format(time.DateOnly),
		Kind:          inv.Kind,
		PartyID:       inv.PartyID,
		PartyName:     inv.PartyName,
		PartyAddress:  inv.PartyAddress,
		PartyMobile:   inv.PartyMobile,
		Items:         toItemResponses(inv.Items),
		Subtotal:      inv.Subtotal,
		CGSTTotal:     inv.CGSTTotal,
		SGSTTotal:     inv.SGSTTotal,
		TotalTax:      inv.TotalTax,
		GrandTotal:    inv.GrandTotal,
		PaymentStatus: inv.PaymentStatus,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toResponseList(invs []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invs))
	for i, inv := range invs {
		resp[i] = toResponse(inv)
	}

	return resp
}

// ToPreviewResponse is shared with the CSV import endpoint.
func ToPreviewResponse(t *invoice.Totals) PreviewResponse {
	skipped := t.Skipped
	if skipped == nil {
		skipped = []int{}
	}

	return PreviewResponse{
		Items:      toItemResponses(t.Items),
		Skipped:    skipped,
		Subtotal:   t.Subtotal,
		CGSTTotal:  t.CGSTTotal,
		SGSTTotal:  t.SGSTTotal,
		TotalTax:   t.TotalTax,
		GrandTotal: t.GrandTotal,
	}
}
