package product

import (
	"context"
	"errors"
	"strings"

	"github.com/arjun2k01/esports-cart/internal/domain"
	productrepo "github.com/arjun2k01/esports-cart/internal/repository/product"
	"github.com/google/uuid"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, keyword string) ([]domain.Product, error) {
	return s.repo.List(ctx, strings.TrimSpace(keyword))
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

type CreateInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	Brand        string `json:"brand"`
	Category     string `json:"category"`
	PriceCents   int64  `json:"priceCents"`
	CountInStock int    `json:"countInStock"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name required")
	}
	if strings.TrimSpace(in.Image) == "" {
		return nil, errors.New("image required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, errors.New("category required")
	}
	if in.PriceCents < 0 {
		return nil, errors.New("price must not be negative")
	}
	if in.CountInStock < 0 {
		return nil, errors.New("stock must not be negative")
	}
	brand := strings.TrimSpace(in.Brand)
	if brand == "" {
		brand = "Generic"
	}
	return s.repo.Create(ctx, productrepo.CreateInput{
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Image:        strings.TrimSpace(in.Image),
		Brand:        brand,
		Category:     strings.TrimSpace(in.Category),
		PriceCents:   in.PriceCents,
		CountInStock: in.CountInStock,
	})
}

type UpdateInput struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Image        *string `json:"image"`
	Brand        *string `json:"brand"`
	Category     *string `json:"category"`
	PriceCents   *int64  `json:"priceCents"`
	CountInStock *int    `json:"countInStock"`
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	if in.PriceCents != nil && *in.PriceCents < 0 {
		return nil, errors.New("price must not be negative")
	}
	if in.CountInStock != nil && *in.CountInStock < 0 {
		return nil, errors.New("stock must not be negative")
	}
	return s.repo.Update(ctx, id, productrepo.UpdateInput{
		Name:         in.Name,
		Description:  in.Description,
		Image:        in.Image,
		Brand:        in.Brand,
		Category:     in.Category,
		PriceCents:   in.PriceCents,
		CountInStock: in.CountInStock,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
