package invoice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("invoice not found")

	// ErrEmptyInvoice is returned when no line item survives the eligibility filter.
	ErrEmptyInvoice = errors.New("invoice has no eligible line items")

	ErrDuplicateNumber = errors.New("invoice number already exists")

	ErrNumberImmutable = errors.New("invoice number cannot be changed")
)

// FieldError describes one rejected field of a draft.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError carries every field-level problem found in a draft.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}

	return "invalid invoice: " + strings.Join(parts, "; ")
}

// DuplicateNumberError reports an invoice number that is already taken.
type DuplicateNumberError struct {
	Number string
}

func (e *DuplicateNumberError) Error() string {
	return fmt.Sprintf("invoice number %q already exists", e.Number)
}

func (e *DuplicateNumberError) Is(target error) bool {
	return target == ErrDuplicateNumber
}

// StorageError wraps a failure of the persistence or directory collaborator.
// The core never retries; the caller decides.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
