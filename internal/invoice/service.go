package invoice

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/directory"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	InvoiceNumberExists(ctx context.Context, number string) (bool, error)
	NextInvoiceSequence(ctx context.Context) (int64, error)

	// CreateInvoice and ReplaceInvoice persist the header and every item in
	// one transaction. A taken invoice number yields *DuplicateNumberError.
	CreateInvoice(ctx context.Context, inv *Invoice) error
	ReplaceInvoice(ctx context.Context, inv *Invoice) error

	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
}

// Directory supplies party and product snapshots at creation time.
type Directory interface {
	Party(ctx context.Context, kind directory.Kind, id uuid.UUID) (*directory.Party, error)
	Product(ctx context.Context, id uuid.UUID) (*directory.Product, error)
}

const DefaultStoreTimeout = 5 * time.Second

type Options struct {
	// Rates fill in blank line rates. They are used as given, so zero means
	// untaxed.
	Rates        TaxRates
	NumberPrefix string
	// StoreTimeout bounds every call made to the repository and directory.
	StoreTimeout time.Duration
	Now          func() time.Time
}

// Service owns the invoice lifecycle: every mutation re-derives the totals
// from the submitted rows before anything is persisted.
type Service struct {
	repo    Repository
	dir     Directory
	numbers *Allocator
	rates   TaxRates
	timeout time.Duration
	now     func() time.Time
}

func NewService(repo Repository, dir Directory, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}

	return &Service{
		repo:    repo,
		dir:     dir,
		numbers: NewAllocator(repo, opts.NumberPrefix, opts.Now),
		rates:   opts.Rates,
		timeout: opts.StoreTimeout,
		now:     opts.Now,
	}
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Preview recomputes a draft's rows without touching storage.
func (s *Service) Preview(items []LineInput) (*Totals, error) {
	return Aggregate(items, s.rates)
}

// AllocateNumber proposes a fresh invoice number, or checks a preferred one.
func (s *Service) AllocateNumber(ctx context.Context, preferred string) (string, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.numbers.Allocate(ctx, preferred)
}

// PrefillLine returns the defaults for a row whose product was just selected.
// Quantity is always left to the user.
func (s *Service) PrefillLine(ctx context.Context, productID uuid.UUID) (LineInput, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	p, err := s.dir.Product(ctx, productID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return LineInput{}, err
		}

		return LineInput{}, &StorageError{Op: "find product", Err: err}
	}

	return LineInput{
		ProductID: &p.ID,
		ItemName:  p.Name,
		Category:  p.Category,
		UnitPrice: p.UnitPrice.String(),
		CGSTRate:  s.rates.CGST.String(),
		SGSTRate:  s.rates.SGST.String(),
	}, nil
}

func (s *Service) Create(ctx context.Context, draft Draft) (*Invoice, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	draft.normalize()
	draft.Items = slices.Clone(draft.Items)

	if draft.InvoiceDate.IsZero() {
		draft.InvoiceDate = s.now()
	}

	var fields []FieldError

	snapErrs, err := s.snapshotParty(ctx, &draft)
	if err != nil {
		return nil, err
	}

	fields = append(fields, snapErrs...)

	productErrs, err := s.resolveProducts(ctx, draft.Items)
	if err != nil {
		return nil, err
	}

	fields = append(fields, productErrs...)
	fields = append(fields, validateHeader(draft)...)

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	totals, err := Aggregate(draft.Items, s.rates)
	if err != nil {
		return nil, err
	}

	number, err := s.numbers.Allocate(ctx, draft.InvoiceNo)
	if err != nil {
		return nil, err
	}

	draft.InvoiceNo = number

	inv := build(draft, totals)
	inv.PaymentStatus = StatusPending

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		if errors.Is(err, ErrDuplicateNumber) {
			return nil, err
		}

		return nil, &StorageError{Op: "create invoice", Err: err}
	}

	return inv, nil
}

// Update re-runs the create pipeline and replaces the stored header, items
// and totals wholesale. The invoice number is immutable and the directory is
// not consulted again.
func (s *Service) Update(ctx context.Context, id uuid.UUID, draft Draft) (*Invoice, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	draft.normalize()

	if draft.InvoiceNo != "" && draft.InvoiceNo != existing.InvoiceNo {
		return nil, ErrNumberImmutable
	}

	draft.InvoiceNo = existing.InvoiceNo
	draft.PartyID = existing.PartyID

	if draft.InvoiceDate.IsZero() {
		draft.InvoiceDate = existing.InvoiceDate
	}

	if draft.Kind == "" {
		draft.Kind = existing.Kind
	}

	if fields := validateHeader(draft); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	totals, err := Aggregate(draft.Items, s.rates)
	if err != nil {
		return nil, err
	}

	inv := build(draft, totals)
	inv.ID = existing.ID
	inv.PaymentStatus = existing.PaymentStatus
	inv.CreatedAt = existing.CreatedAt

	if err := s.repo.ReplaceInvoice(ctx, inv); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}

		return nil, &StorageError{Op: "replace invoice", Err: err}
	}

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.get(ctx, id)
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}

		return nil, &StorageError{Op: "get invoice", Err: err}
	}

	return inv, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	invs, err := s.repo.ListInvoices(ctx, filter)
	if err != nil {
		return nil, &StorageError{Op: "list invoices", Err: err}
	}

	return invs, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.repo.DeleteInvoice(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}

		return &StorageError{Op: "delete invoice", Err: err}
	}

	return nil
}

// snapshotParty copies the directory record into blank party fields.
func (s *Service) snapshotParty(ctx context.Context, draft *Draft) ([]FieldError, error) {
	if draft.PartyID == nil {
		return nil, nil
	}

	if !draft.Kind.Valid() {
		// Reported by header validation.
		return nil, nil
	}

	p, err := s.dir.Party(ctx, draft.Kind, *draft.PartyID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return []FieldError{{Field: "party_id", Tag: "exists", Message: fmt.Sprintf("no such %s", draft.Kind)}}, nil
		}

		return nil, &StorageError{Op: "find party", Err: err}
	}

	if draft.PartyName == "" {
		draft.PartyName = p.Name
	}

	if draft.PartyAddress == "" {
		draft.PartyAddress = p.Address
	}

	if draft.PartyMobile == "" {
		draft.PartyMobile = p.Mobile
	}

	return nil, nil
}

// resolveProducts fills product-linked rows in place. The category always comes
// from the product; name and unit price only when the user left them blank.
func (s *Service) resolveProducts(ctx context.Context, items []LineInput) ([]FieldError, error) {
	var fields []FieldError

	for i := range items {
		if items[i].ProductID == nil {
			continue
		}

		p, err := s.dir.Product(ctx, *items[i].ProductID)
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				fields = append(fields, FieldError{
					Field:   fmt.Sprintf("items[%d].product_id", i),
					Tag:     "exists",
					Message: "no such product",
				})

				continue
			}

			return nil, &StorageError{Op: "find product", Err: err}
		}

		items[i].Category = p.Category

		if items[i].ItemName == "" {
			items[i].ItemName = p.Name
		}

		if items[i].UnitPrice == "" {
			items[i].UnitPrice = p.UnitPrice.String()
		}
	}

	return fields, nil
}

func build(d Draft, t *Totals) *Invoice {
	return &Invoice{
		InvoiceNo:    d.InvoiceNo,
		InvoiceDate:  d.InvoiceDate,
		Kind:         d.Kind,
		PartyID:      d.PartyID,
		PartyName:    d.PartyName,
		PartyAddress: d.PartyAddress,
		PartyMobile:  d.PartyMobile,
		Items:        t.Items,
		Subtotal:     t.Subtotal,
		CGSTTotal:    t.CGSTTotal,
		SGSTTotal:    t.SGSTTotal,
		TotalTax:     t.TotalTax,
		GrandTotal:   t.GrandTotal,
	}
}
