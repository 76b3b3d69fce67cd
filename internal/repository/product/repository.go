package product

import (
	"context"

	"github.com/arjun2k01/esports-cart/internal/domain"
)

type CreateInput struct {
	Name         string
	Description  string
	Image        string
	Brand        string
	Category     string
	PriceCents   int64
	CountInStock int
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Name         *string
	Description  *string
	Image        *string
	Brand        *string
	Category     *string
	PriceCents   *int64
	CountInStock *int
}

type Repository interface {
	List(ctx context.Context, keyword string) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in CreateInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
}
