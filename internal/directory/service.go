package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=directory
type Repository interface {
	FindParty(ctx context.Context, kind Kind, id uuid.UUID) (*Party, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*Product, error)
}

// Service is a read-only view over the customer, vendor and product directories.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Party returns the current directory record for a customer or vendor.
func (s *Service) Party(ctx context.Context, kind Kind, id uuid.UUID) (*Party, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown directory kind %q", kind)
	}

	return s.repo.FindParty(ctx, kind, id)
}

func (s *Service) Product(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.FindProduct(ctx, id)
}
