package order

import (
	"context"
	"errors"
	"testing"

	"github.com/arjun2k01/esports-cart/internal/domain"
	orderrepo "github.com/arjun2k01/esports-cart/internal/repository/order"
)

const (
	productA = "7b0d177c-9f17-4dd0-a5d3-6c6d30c38f3b"
	productB = "2f24f0e3-51e4-4dc8-bc69-7c3289a0f7e9"
)

type stubRepo struct {
	placed        *domain.Order
	placeErr      error
	lastPlace     orderrepo.PlaceInput
	placeCalls    int
	order         *domain.Order
	getErr        error
	mine          []domain.Order
	all           []domain.Order
	paid          *domain.Order
	setPaidErr    error
	shipped       *domain.Order
	shipErr       error
	delivered     *domain.Order
	deliverErr    error
	cancelled     *domain.Order
	cancelErr     error
	lastCarrier   string
	lastTracking  string
	lastReason    string
	lastOverride  bool
	lastPayResult *domain.PaymentResult
}

func (s *stubRepo) Place(_ context.Context, in orderrepo.PlaceInput) (*domain.Order, error) {
	s.placeCalls++
	s.lastPlace = in
	return s.placed, s.placeErr
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func (s *stubRepo) ListByUser(_ context.Context, _ string) ([]domain.Order, error) {
	return s.mine, nil
}

func (s *stubRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	return s.all, nil
}

func (s *stubRepo) SetPaid(_ context.Context, _ string, result *domain.PaymentResult) (*domain.Order, error) {
	s.lastPayResult = result
	return s.paid, s.setPaidErr
}

func (s *stubRepo) SetShipped(_ context.Context, _, carrier, tracking string) (*domain.Order, error) {
	s.lastCarrier = carrier
	s.lastTracking = tracking
	return s.shipped, s.shipErr
}

func (s *stubRepo) SetDelivered(_ context.Context, _ string) (*domain.Order, error) {
	return s.delivered, s.deliverErr
}

func (s *stubRepo) Cancel(_ context.Context, _, reason string, allowShipped bool) (*domain.Order, error) {
	s.lastReason = reason
	s.lastOverride = allowShipped
	return s.cancelled, s.cancelErr
}

type stubInvalidator struct {
	ids []string
}

func (s *stubInvalidator) Invalidate(_ context.Context, ids ...string) {
	s.ids = append(s.ids, ids...)
}

func owner() domain.Actor { return domain.Actor{UserID: "user-1"} }
func admin() domain.Actor { return domain.Actor{UserID: "admin-1", IsAdmin: true} }

func validPlaceInput() PlaceInput {
	return PlaceInput{
		Items: []ItemInput{{ProductID: productA, Quantity: 2}},
		ShippingAddress: domain.ShippingAddress{
			Address: "1 Arena Rd", City: "Pune", State: "MH", PostalCode: "411001", Country: "IN",
		},
		PaymentMethod: "COD",
	}
}

func TestPlace_EmptyCart(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo}
	_, err := svc.Place(context.Background(), owner(), PlaceInput{})
	var invalid *domain.InvalidCartError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCartError, got %v", err)
	}
	if repo.placeCalls != 0 {
		t.Fatalf("expected no repo call on validation failure")
	}
}

func TestPlace_BadProductID(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo}
	in := validPlaceInput()
	in.Items[0].ProductID = "not-a-uuid"
	_, err := svc.Place(context.Background(), owner(), in)
	var invalid *domain.InvalidCartError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCartError, got %v", err)
	}
}

func TestPlace_NonPositiveQuantity(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo}
	in := validPlaceInput()
	in.Items[0].Quantity = 0
	_, err := svc.Place(context.Background(), owner(), in)
	var invalid *domain.InvalidCartError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCartError, got %v", err)
	}
	if repo.placeCalls != 0 {
		t.Fatalf("expected no repo call on validation failure")
	}
}

func TestPlace_IncompleteAddress(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}
	in := validPlaceInput()
	in.ShippingAddress.City = " "
	if _, err := svc.Place(context.Background(), owner(), in); err == nil {
		t.Fatalf("expected address validation error")
	}
}

func TestPlace_MissingPaymentMethod(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}
	in := validPlaceInput()
	in.PaymentMethod = ""
	if _, err := svc.Place(context.Background(), owner(), in); err == nil {
		t.Fatalf("expected payment method error")
	}
}

func TestPlace_HappyPath(t *testing.T) {
	placed := &domain.Order{
		ID:     "o1",
		UserID: "user-1",
		Items:  []domain.OrderItem{{ProductID: productA, Quantity: 2}},
	}
	repo := &stubRepo{placed: placed}
	inval := &stubInvalidator{}
	svc := &Service{repo: repo, inval: inval}

	got, err := svc.Place(context.Background(), owner(), validPlaceInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != placed {
		t.Fatalf("unexpected order: %+v", got)
	}
	if repo.lastPlace.UserID != "user-1" {
		t.Fatalf("expected actor user id, got %q", repo.lastPlace.UserID)
	}
	if len(repo.lastPlace.Items) != 1 || repo.lastPlace.Items[0].ProductID != productA || repo.lastPlace.Items[0].Quantity != 2 {
		t.Fatalf("unexpected place items: %+v", repo.lastPlace.Items)
	}
	if len(inval.ids) != 1 || inval.ids[0] != productA {
		t.Fatalf("expected cache invalidation for %s, got %v", productA, inval.ids)
	}
}

func TestPlace_RepoErrorPassesThrough(t *testing.T) {
	repo := &stubRepo{placeErr: domain.ErrStockChanged}
	inval := &stubInvalidator{}
	svc := &Service{repo: repo, inval: inval}
	_, err := svc.Place(context.Background(), owner(), validPlaceInput())
	if !errors.Is(err, domain.ErrStockChanged) {
		t.Fatalf("expected ErrStockChanged, got %v", err)
	}
	if len(inval.ids) != 0 {
		t.Fatalf("no invalidation on failed placement")
	}
}

func TestGet_OwnerAllowed(t *testing.T) {
	repo := &stubRepo{order: &domain.Order{ID: "o1", UserID: "user-1"}}
	svc := &Service{repo: repo}
	if _, err := svc.Get(context.Background(), owner(), "o1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGet_StrangerForbidden(t *testing.T) {
	repo := &stubRepo{order: &domain.Order{ID: "o1", UserID: "someone-else"}}
	svc := &Service{repo: repo}
	_, err := svc.Get(context.Background(), owner(), "o1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGet_AdminAllowed(t *testing.T) {
	repo := &stubRepo{order: &domain.Order{ID: "o1", UserID: "someone-else"}}
	svc := &Service{repo: repo}
	if _, err := svc.Get(context.Background(), admin(), "o1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := &stubRepo{getErr: domain.ErrNotFound}
	svc := &Service{repo: repo}
	_, err := svc.Get(context.Background(), owner(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAll_RequiresAdmin(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}
	_, err := svc.ListAll(context.Background(), owner())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPay_OwnerAllowed(t *testing.T) {
	paid := &domain.Order{ID: "o1", UserID: "user-1", Status: domain.OrderPaid}
	repo := &stubRepo{order: &domain.Order{ID: "o1", UserID: "user-1"}, paid: paid}
	svc := &Service{repo: repo}
	result := &domain.PaymentResult{ID: "pay-1", Status: "COMPLETED"}
	got, err := svc.Pay(context.Background(), owner(), "o1", result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != paid || repo.lastPayResult != result {
		t.Fatalf("unexpected pay result")
	}
}

func TestPay_StrangerForbidden(t *testing.T) {
	repo := &stubRepo{order: &domain.Order{ID: "o1", UserID: "someone-else"}}
	svc := &Service{repo: repo}
	_, err := svc.Pay(context.Background(), owner(), "o1", nil)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestShip_RequiresAdmin(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}
	_, err := svc.Ship(context.Background(), owner(), "o1", ShipInput{Carrier: "DHL"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestShip_AdminPassesDetails(t *testing.T) {
	repo := &stubRepo{shipped: &domain.Order{ID: "o1", Status: domain.OrderShipped}}
	svc := &Service{repo: repo}
	_, err := svc.Ship(context.Background(), admin(), "o1", ShipInput{Carrier: " DHL ", TrackingNumber: "XYZ123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastCarrier != "DHL" || repo.lastTracking != "XYZ123" {
		t.Fatalf("unexpected ship details %q %q", repo.lastCarrier, repo.lastTracking)
	}
}

func TestDeliver_RequiresAdmin(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}
	_, err := svc.Deliver(context.Background(), owner(), "o1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCancel_OwnerCannotOverrideShipped(t *testing.T) {
	repo := &stubRepo{
		order:     &domain.Order{ID: "o1", UserID: "user-1", Status: domain.OrderShipped},
		cancelErr: domain.ErrOrderShipped,
	}
	svc := &Service{repo: repo}
	_, err := svc.Cancel(context.Background(), owner(), "o1", "changed mind")
	if !errors.Is(err, domain.ErrOrderShipped) {
		t.Fatalf("expected ErrOrderShipped, got %v", err)
	}
	if repo.lastOverride {
		t.Fatalf("owner must not get the shipped override")
	}
}

func TestCancel_AdminOverridesShipped(t *testing.T) {
	cancelled := &domain.Order{
		ID:     "o1",
		UserID: "user-1",
		Status: domain.OrderCancelled,
		Items:  []domain.OrderItem{{ProductID: productA, Quantity: 1}, {ProductID: productB, Quantity: 3}},
	}
	repo := &stubRepo{
		order:     &domain.Order{ID: "o1", UserID: "user-1", Status: domain.OrderShipped},
		cancelled: cancelled,
	}
	inval := &stubInvalidator{}
	svc := &Service{repo: repo, inval: inval}
	got, err := svc.Cancel(context.Background(), admin(), "o1", "fraud")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cancelled || !repo.lastOverride || repo.lastReason != "fraud" {
		t.Fatalf("unexpected cancel call: override=%v reason=%q", repo.lastOverride, repo.lastReason)
	}
	if len(inval.ids) != 2 {
		t.Fatalf("expected restocked products invalidated, got %v", inval.ids)
	}
}

func TestCancel_StrangerForbidden(t *testing.T) {
	repo := &stubRepo{order: &domain.Order{ID: "o1", UserID: "someone-else"}}
	svc := &Service{repo: repo}
	_, err := svc.Cancel(context.Background(), owner(), "o1", "nope")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
