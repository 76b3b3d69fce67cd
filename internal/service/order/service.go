package order

import (
	"context"
	"errors"
	"strings"

	"github.com/arjun2k01/esports-cart/internal/domain"
	orderrepo "github.com/arjun2k01/esports-cart/internal/repository/order"
	productrepo "github.com/arjun2k01/esports-cart/internal/repository/product"
	"github.com/google/uuid"
)

// Service orchestrates order placement and drives the order lifecycle
// state machine. All actor identities are trusted verified input.
type Service struct {
	repo  orderRepo
	inval productrepo.Invalidator
}

type orderRepo interface {
	Place(ctx context.Context, in orderrepo.PlaceInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	SetPaid(ctx context.Context, id string, result *domain.PaymentResult) (*domain.Order, error)
	SetShipped(ctx context.Context, id, carrier, trackingNumber string) (*domain.Order, error)
	SetDelivered(ctx context.Context, id string) (*domain.Order, error)
	Cancel(ctx context.Context, id, reason string, allowShipped bool) (*domain.Order, error)
}

// New creates the order service. inval may be nil when the catalog has
// no cache in front of it.
func New(repo orderRepo, inval productrepo.Invalidator) *Service {
	return &Service{repo: repo, inval: inval}
}

type ItemInput struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"qty"`
}

type PlaceInput struct {
	Items           []ItemInput            `json:"orderItems"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

// Place turns an untrusted cart submission into a durable order. Prices
// and product details are snapshotted server-side; the repository runs
// the read/decrement/insert sequence as one atomic unit.
func (s *Service) Place(ctx context.Context, actor domain.Actor, in PlaceInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, &domain.InvalidCartError{Reason: "no order items"}
	}
	items := make([]orderrepo.PlaceItem, 0, len(in.Items))
	for _, it := range in.Items {
		id := strings.TrimSpace(it.ProductID)
		if _, err := uuid.Parse(id); err != nil {
			return nil, &domain.InvalidCartError{Reason: "invalid product id"}
		}
		if it.Quantity <= 0 {
			return nil, &domain.InvalidCartError{Reason: "quantity must be positive"}
		}
		items = append(items, orderrepo.PlaceItem{ProductID: id, Quantity: it.Quantity})
	}
	if err := validateAddress(in.ShippingAddress); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return nil, errors.New("payment method required")
	}

	placed, err := s.repo.Place(ctx, orderrepo.PlaceInput{
		UserID:          actor.UserID,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}
	s.invalidateProducts(ctx, placed)
	return placed, nil
}

func (s *Service) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, o.UserID); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, actor.UserID)
}

func (s *Service) ListAll(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	if !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListAll(ctx)
}

// Pay marks the order paid. Owner or admin; any non-cancelled state.
func (s *Service) Pay(ctx context.Context, actor domain.Actor, id string, result *domain.PaymentResult) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, o.UserID); err != nil {
		return nil, err
	}
	return s.repo.SetPaid(ctx, id, result)
}

type ShipInput struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"trackingNumber"`
}

// Ship records carrier details and marks the order shipped. Admin only;
// requires payment.
func (s *Service) Ship(ctx context.Context, actor domain.Actor, id string, in ShipInput) (*domain.Order, error) {
	if !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.SetShipped(ctx, id, strings.TrimSpace(in.Carrier), strings.TrimSpace(in.TrackingNumber))
}

// Deliver marks a shipped order delivered. Admin only.
func (s *Service) Deliver(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error) {
	if !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.SetDelivered(ctx, id)
}

// Cancel cancels the order and restocks its items. Owner or admin; a
// shipped order can only be cancelled by an admin.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, id, reason string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, o.UserID); err != nil {
		return nil, err
	}
	cancelled, err := s.repo.Cancel(ctx, id, strings.TrimSpace(reason), actor.IsAdmin)
	if err != nil {
		return nil, err
	}
	s.invalidateProducts(ctx, cancelled)
	return cancelled, nil
}

// authorize is the single ownership/admin gate for order access.
func authorize(actor domain.Actor, ownerID string) error {
	if actor.IsAdmin || actor.UserID == ownerID {
		return nil
	}
	return domain.ErrForbidden
}

func validateAddress(a domain.ShippingAddress) error {
	switch {
	case strings.TrimSpace(a.Address) == "":
		return errors.New("shipping address: street required")
	case strings.TrimSpace(a.City) == "":
		return errors.New("shipping address: city required")
	case strings.TrimSpace(a.PostalCode) == "":
		return errors.New("shipping address: postal code required")
	case strings.TrimSpace(a.Country) == "":
		return errors.New("shipping address: country required")
	}
	return nil
}

func (s *Service) invalidateProducts(ctx context.Context, o *domain.Order) {
	if s.inval == nil || o == nil {
		return
	}
	ids := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.ProductID)
	}
	s.inval.Invalidate(ctx, ids...)
}
