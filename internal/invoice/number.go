package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
)

const (
	DefaultNumberPrefix = "INV"

	numberAttempts = 5
	suffixModulo   = 1_000_000
)

// NumberChecker is the part of the Repository the allocator relies on.
type NumberChecker interface {
	InvoiceNumberExists(ctx context.Context, number string) (bool, error)
	NextInvoiceSequence(ctx context.Context) (int64, error)
}

// Allocator proposes invoice numbers of the form PREFIX-YYMM-NNNNNN and
// pre-checks them for uniqueness. The pre-check is an optimization: the
// unique constraint in storage has the final say.
type Allocator struct {
	repo   NumberChecker
	prefix string
	now    func() time.Time
}

func NewAllocator(repo NumberChecker, prefix string, now func() time.Time) *Allocator {
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}

	if now == nil {
		now = time.Now
	}

	return &Allocator{repo: repo, prefix: prefix, now: now}
}

// Allocate returns preferred when it is free, or a freshly synthesized number
// when preferred is blank. A preferred number passes through unchecked if the
// existence lookup fails. Allocation never writes to persisted invoices.
func (a *Allocator) Allocate(ctx context.Context, preferred string) (string, error) {
	if number := strings.TrimSpace(preferred); number != "" {
		exists, err := a.repo.InvoiceNumberExists(ctx, number)
		if err != nil {
			slog.Warn("invoice number check unavailable, deferring to commit", "number", number, "error", err)
			return number, nil
		}

		if exists {
			return "", &DuplicateNumberError{Number: number}
		}

		return number, nil
	}

	seq, err := a.repo.NextInvoiceSequence(ctx)
	if err != nil {
		slog.Warn("invoice sequence unavailable, using random suffix", "error", err)

		seq = randomSuffix()
	}

	var candidate string

	for range numberAttempts {
		candidate = a.format(seq)

		exists, err := a.repo.InvoiceNumberExists(ctx, candidate)
		if err != nil {
			slog.Warn("invoice number check unavailable, deferring to commit", "number", candidate, "error", err)
			return candidate, nil
		}

		if !exists {
			return candidate, nil
		}

		seq = randomSuffix()
	}

	return "", fmt.Errorf("allocating invoice number: %w", &DuplicateNumberError{Number: candidate})
}

func (a *Allocator) format(seq int64) string {
	return fmt.Sprintf("%s-%s-%06d", a.prefix, a.now().Format("0601"), seq%suffixModulo)
}

func randomSuffix() int64 {
	return rand.Int64N(suffixModulo)
}
