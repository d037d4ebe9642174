package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/backoffice/internal/directory"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/money"
)

const (
	uniqueViolation     = "23505"
	invoiceNoConstraint = "invoices_invoice_no_key"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	id, invoice_no, invoice_date, kind, party_id, party_name, party_address, party_mobile,
	subtotal, cgst_total, sgst_total, total_tax, grand_total, payment_status, created_at, updated_at
`

// scanInvoice reads a header row in selectInvoiceColumns order.
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var kind, status string

	var subtotal, cgst, sgst, tax, grandTotal int64

	if err := s.Scan(
		&inv.ID, &inv.InvoiceNo, &inv.InvoiceDate, &kind, &inv.PartyID,
		&inv.PartyName, &inv.PartyAddress, &inv.PartyMobile,
		&subtotal, &cgst, &sgst, &tax, &grandTotal, &status,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.Kind = directory.Kind(kind)
	inv.PaymentStatus = invoice.PaymentStatus(status)
	inv.Subtotal = money.Amount(subtotal)
	inv.CGSTTotal = money.Amount(cgst)
	inv.SGSTTotal = money.Amount(sgst)
	inv.TotalTax = money.Amount(tax)
	inv.GrandTotal = money.Amount(grandTotal)

	return &inv, nil
}

func scanItem(s scanner) (invoice.LineItem, error) {
	var item invoice.LineItem

	var unitPrice, subtotal, cgst, sgst, tax, lineTotal int64

	if err := s.Scan(
		&item.Position, &item.ProductID, &item.ItemName, &item.Category, &item.Quantity,
		&unitPrice, &item.CGSTRate, &item.SGSTRate,
		&subtotal, &cgst, &sgst, &tax, &lineTotal,
	); err != nil {
		return invoice.LineItem{}, err
	}

	item.UnitPrice = money.Amount(unitPrice)
	item.Subtotal = money.Amount(subtotal)
	item.CGSTAmount = money.Amount(cgst)
	item.SGSTAmount = money.Amount(sgst)
	item.TaxAmount = money.Amount(tax)
	item.LineTotal = money.Amount(lineTotal)

	return item, nil
}

func (s *Store) InvoiceNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_no = $1)`, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking invoice number: %w", err)
	}

	return exists, nil
}

func (s *Store) NextInvoiceSequence(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("reading invoice sequence: %w", err)
	}

	return seq, nil
}

// CreateInvoice inserts the header and its items in one transaction and fills
// in the generated ID and timestamps.
func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO invoices (
			invoice_no, invoice_date, kind, party_id, party_name, party_address, party_mobile,
			subtotal, cgst_total, sgst_total, total_tax, grand_total, payment_status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		inv.InvoiceNo,
		inv.InvoiceDate,
		inv.Kind,
		inv.PartyID,
		inv.PartyName,
		inv.PartyAddress,
		inv.PartyMobile,
		int64(inv.Subtotal),
		int64(inv.CGSTTotal),
		int64(inv.SGSTTotal),
		int64(inv.TotalTax),
		int64(inv.GrandTotal),
		inv.PaymentStatus,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if isDuplicateNumber(err) {
			return &invoice.DuplicateNumberError{Number: inv.InvoiceNo}
		}

		return fmt.Errorf("creating invoice: %w", err)
	}

	if err := insertItems(ctx, dbTx, inv.ID, inv.Items); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing invoice: %w", err)
	}

	return nil
}

// ReplaceInvoice overwrites the header and swaps the whole item list. The
// invoice number and creation time are left untouched.
func (s *Store) ReplaceInvoice(ctx context.Context, inv *invoice.Invoice) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE invoices
		SET invoice_date = $1, kind = $2, party_name = $3, party_address = $4, party_mobile = $5,
			subtotal = $6, cgst_total = $7, sgst_total = $8, total_tax = $9, grand_total = $10,
			updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		inv.InvoiceDate,
		inv.Kind,
		inv.PartyName,
		inv.PartyAddress,
		inv.PartyMobile,
		int64(inv.Subtotal),
		int64(inv.CGSTTotal),
		int64(inv.SGSTTotal),
		int64(inv.TotalTax),
		int64(inv.GrandTotal),
		inv.ID,
	).Scan(&inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return invoice.ErrNotFound
		}

		return fmt.Errorf("updating invoice: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return fmt.Errorf("clearing invoice items: %w", err)
	}

	if err := insertItems(ctx, dbTx, inv.ID, inv.Items); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing invoice: %w", err)
	}

	return nil
}

func insertItems(ctx context.Context, dbTx *sql.Tx, invoiceID uuid.UUID, items []invoice.LineItem) error {
	query := `
		INSERT INTO invoice_items (
			invoice_id, position, product_id, item_name, category, quantity, unit_price,
			cgst_rate, sgst_rate, subtotal, cgst_amount, sgst_amount, tax_amount, line_total
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	for _, item := range items {
		_, err := dbTx.ExecContext(ctx, query,
			invoiceID,
			item.Position,
			item.ProductID,
			item.ItemName,
			item.Category,
			item.Quantity,
			int64(item.UnitPrice),
			item.CGSTRate,
			item.SGSTRate,
			int64(item.Subtotal),
			int64(item.CGSTAmount),
			int64(item.SGSTAmount),
			int64(item.TaxAmount),
			int64(item.LineTotal),
		)
		if err != nil {
			return fmt.Errorf("inserting item %d: %w", item.Position, err)
		}
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	itemsQuery := `
		SELECT position, product_id, item_name, category, quantity, unit_price,
			cgst_rate, sgst_rate, subtotal, cgst_amount, sgst_amount, tax_amount, line_total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("listing invoice items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice item: %w", err)
		}

		inv.Items = append(inv.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice items: %w", err)
	}

	return inv, nil
}

// ListInvoices returns headers only; Items is left nil.
func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query, args := listQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invs []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invs = append(invs, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return invs, nil
}

// listQuery builds the filtered listing. invoice_date carries a time of day,
// so the end bound is the start of the following day, exclusive.
func listQuery(filter invoice.ListFilter) (string, []any) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argIdx)

		args = append(args, *filter.Kind)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND invoice_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND invoice_date < $%d", argIdx)

		args = append(args, filter.EndDate.AddDate(0, 0, 1))
		argIdx++
	}

	query += " ORDER BY invoice_date DESC, invoice_no DESC"

	return query, args
}

// DeleteInvoice removes the invoice; its items go with it via ON DELETE CASCADE.
func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	if n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}

func isDuplicateNumber(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == invoiceNoConstraint
}
