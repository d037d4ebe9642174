package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/backoffice/internal/directory"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
)

func TestIsDuplicateNumber(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "InvoiceNumberConstraint",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "invoices_invoice_no_key"},
			want: true,
		},
		{
			name: "Wrapped",
			err:  fmt.Errorf("creating invoice: %w", &pgconn.PgError{Code: "23505", ConstraintName: "invoices_invoice_no_key"}),
			want: true,
		},
		{
			name: "OtherUniqueConstraint",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "invoice_items_pkey"},
			want: false,
		},
		{
			name: "CheckViolation",
			err:  &pgconn.PgError{Code: "23514", ConstraintName: "invoices_totals_check"},
			want: false,
		},
		{
			name: "NotPostgres",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicateNumber(tt.err))
		})
	}
}

func TestListQuery(t *testing.T) {
	kind := directory.KindCustomer
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	t.Run("NoFilter", func(t *testing.T) {
		query, args := listQuery(invoice.ListFilter{})
		assert.NotContains(t, query, "$1")
		assert.Empty(t, args)
	})

	t.Run("AllFilters", func(t *testing.T) {
		query, args := listQuery(invoice.ListFilter{Kind: &kind, StartDate: &start, EndDate: &end})

		assert.Contains(t, query, "kind = $1")
		assert.Contains(t, query, "invoice_date >= $2")
		assert.Contains(t, query, "invoice_date < $3")
		assert.NotContains(t, query, "<=")
		assert.Equal(t, []any{kind, start, end.AddDate(0, 0, 1)}, args)
	})

	t.Run("EndDateCoversWholeDay", func(t *testing.T) {
		query, args := listQuery(invoice.ListFilter{EndDate: &end})
		assert.Contains(t, query, "invoice_date < $1")

		createdToday := time.Date(2026, 10, 18, 17, 45, 0, 0, time.UTC)
		bound := args[0].(time.Time)
		assert.True(t, createdToday.Before(bound))
		assert.False(t, bound.Before(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	})
}
