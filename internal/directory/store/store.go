package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/directory"
	"github.com/MrJamesThe3rd/backoffice/internal/money"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// partyTables keeps table names out of user input.
var partyTables = map[directory.Kind]string{
	directory.KindCustomer: "customers",
	directory.KindVendor:   "vendors",
}

func (s *Store) FindParty(ctx context.Context, kind directory.Kind, id uuid.UUID) (*directory.Party, error) {
	table, ok := partyTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown directory kind %q", kind)
	}

	query := `SELECT id, name, COALESCE(address, ''), COALESCE(mobile, '') FROM ` + table + ` WHERE id = $1`

	p := directory.Party{Kind: kind}

	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Address, &p.Mobile)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, directory.ErrNotFound
		}

		return nil, fmt.Errorf("finding %s: %w", kind, err)
	}

	return &p, nil
}

func (s *Store) FindProduct(ctx context.Context, id uuid.UUID) (*directory.Product, error) {
	query := `
		SELECT id, name, COALESCE(category, ''), unit_price
		FROM products
		WHERE id = $1
	`

	var (
		p     directory.Product
		cents int64
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Category, &cents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, directory.ErrNotFound
		}

		return nil, fmt.Errorf("finding product: %w", err)
	}

	p.UnitPrice = money.Amount(cents)

	return &p, nil
}
