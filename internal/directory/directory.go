package directory

import (
	"errors"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/money"
)

var ErrNotFound = errors.New("directory entry not found")

// Kind distinguishes the two party directories an invoice can bill against.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindVendor   Kind = "vendor"
)

// Valid reports whether k names a known directory.
func (k Kind) Valid() bool {
	return k == KindCustomer || k == KindVendor
}

// Party is a customer or vendor record as held by the directory.
type Party struct {
	ID      uuid.UUID
	Kind    Kind
	Name    string
	Address string
	Mobile  string
}

// Product is a catalogue entry used to prefill invoice lines.
type Product struct {
	ID        uuid.UUID
	Name      string
	Category  string
	UnitPrice money.Amount
}
