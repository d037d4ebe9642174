package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/directory"
	"github.com/MrJamesThe3rd/backoffice/internal/money"
)

// PaymentStatus is set to PENDING on creation; transitions are owned elsewhere.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "PENDING"
)

// Invoice is a persisted invoice. Party fields are snapshots taken when the
// invoice was created and are never refreshed from the directory.
type Invoice struct {
	ID            uuid.UUID
	InvoiceNo     string
	InvoiceDate   time.Time
	Kind          directory.Kind
	PartyID       *uuid.UUID
	PartyName     string
	PartyAddress  string
	PartyMobile   string
	Items         []LineItem
	Subtotal      money.Amount
	CGSTTotal     money.Amount
	SGSTTotal     money.Amount
	TotalTax      money.Amount
	GrandTotal    money.Amount
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LineItem is an eligible, fully computed invoice line. It has no identity
// outside its invoice.
type LineItem struct {
	Position   int
	ProductID  *uuid.UUID
	ItemName   string
	Category   string
	Quantity   int64
	UnitPrice  money.Amount
	CGSTRate   decimal.Decimal
	SGSTRate   decimal.Decimal
	Subtotal   money.Amount
	CGSTAmount money.Amount
	SGSTAmount money.Amount
	TaxAmount  money.Amount
	LineTotal  money.Amount
}

// LineInput is a raw draft row as typed by the user. Numeric fields are kept
// as text so incomplete rows can be carried around without failing.
type LineInput struct {
	ProductID *uuid.UUID
	ItemName  string
	Category  string
	Quantity  string
	UnitPrice string
	// Empty rates fall back to the service defaults.
	CGSTRate string
	SGSTRate string
}

// Draft is the client-side invoice submitted to Create or Update.
type Draft struct {
	InvoiceNo    string
	InvoiceDate  time.Time
	Kind         directory.Kind
	PartyID      *uuid.UUID
	PartyName    string
	PartyAddress string
	PartyMobile  string
	Items        []LineInput
}

// TaxRates are percentages, e.g. 18 for 18%.
type TaxRates struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
}

// ListFilter narrows a listing. The date bounds are calendar days and both are
// inclusive, so EndDate covers every invoice dated on that day.
type ListFilter struct {
	Kind      *directory.Kind
	StartDate *time.Time
	EndDate   *time.Time
}
