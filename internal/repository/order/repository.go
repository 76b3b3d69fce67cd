package order

import (
	"context"

	"github.com/arjun2k01/esports-cart/internal/domain"
)

// PlaceItem is one untrusted cart line: only the id and quantity are
// taken from the client, everything else is re-derived from the catalog.
type PlaceItem struct {
	ProductID string
	Quantity  int
}

type PlaceInput struct {
	UserID          string
	Items           []PlaceItem
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
}

type Repository interface {
	// Place runs the whole placement as one transaction: product read,
	// snapshot, conditional stock decrement, pricing, order insert.
	Place(ctx context.Context, in PlaceInput) (*domain.Order, error)

	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)

	SetPaid(ctx context.Context, id string, result *domain.PaymentResult) (*domain.Order, error)
	SetShipped(ctx context.Context, id, carrier, trackingNumber string) (*domain.Order, error)
	SetDelivered(ctx context.Context, id string) (*domain.Order, error)
	// Cancel marks the order cancelled and restocks its line quantities
	// in the same transaction. allowShipped lets admins override the
	// shipped guard.
	Cancel(ctx context.Context, id, reason string, allowShipped bool) (*domain.Order, error)
}
