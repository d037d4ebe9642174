package invoice

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// header is the part of a Draft validated before any line is looked at. A blank
// invoice number is allowed; Create allocates one.
type header struct {
	InvoiceNo    string    `json:"invoice_no" validate:"max=64"`
	InvoiceDate  time.Time `json:"invoice_date" validate:"required"`
	Kind         string    `json:"kind" validate:"required,oneof=customer vendor"`
	PartyName    string    `json:"party_name" validate:"required,max=255"`
	PartyAddress string    `json:"party_address" validate:"max=500"`
	PartyMobile  string    `json:"party_mobile" validate:"omitempty,max=20"`
}

func validateHeader(d Draft) []FieldError {
	h := header{
		InvoiceNo:    d.InvoiceNo,
		InvoiceDate:  d.InvoiceDate,
		Kind:         string(d.Kind),
		PartyName:    d.PartyName,
		PartyAddress: d.PartyAddress,
		PartyMobile:  d.PartyMobile,
	}

	err := validate.Struct(h)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "draft", Tag: "invalid", Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
	}

	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// normalize trims the free-text header fields in place.
func (d *Draft) normalize() {
	d.InvoiceNo = strings.TrimSpace(d.InvoiceNo)
	d.PartyName = strings.TrimSpace(d.PartyName)
	d.PartyAddress = strings.TrimSpace(d.PartyAddress)
	d.PartyMobile = strings.TrimSpace(d.PartyMobile)
}
