package order

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/arjun2k01/esports-cart/internal/domain"
	"github.com/arjun2k01/esports-cart/internal/pricing"
	productrepo "github.com/arjun2k01/esports-cart/internal/repository/product"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `
id::text, user_id::text,
ship_address, ship_city, ship_state, ship_postal, ship_country,
payment_method, items_cents, shipping_cents, tax_cents, total_cents,
status, is_paid, paid_at, payment_result,
carrier, tracking_number, shipped_at,
is_delivered, delivered_at,
is_cancelled, cancelled_at, cancel_reason,
created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	policy pricing.Policy
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, policy pricing.Policy, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, policy: policy, logger: logger}
}

func (r *postgresRepo) Place(ctx context.Context, in PlaceInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// One read for every referenced product.
	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}
	rows, err := tx.Query(ctx, `
SELECT id::text, name, image, price_cents, count_in_stock
FROM products
WHERE id = ANY($1::uuid[])
`, ids)
	if err != nil {
		return nil, err
	}
	type snapshot struct {
		name         string
		image        string
		priceCents   int64
		countInStock int
	}
	read := make(map[string]snapshot)
	for rows.Next() {
		var id string
		var s snapshot
		if err := rows.Scan(&id, &s.name, &s.image, &s.priceCents, &s.countInStock); err != nil {
			rows.Close()
			return nil, err
		}
		read[id] = s
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Build authoritative line items from the just-read catalog state,
	// failing fast before any write.
	items := make([]domain.OrderItem, 0, len(in.Items))
	lines := make([]pricing.Line, 0, len(in.Items))
	for _, it := range in.Items {
		s, ok := read[it.ProductID]
		if !ok {
			return nil, &domain.ProductNotFoundError{ProductID: it.ProductID}
		}
		if it.Quantity > s.countInStock {
			return nil, &domain.InsufficientStockError{
				ProductID: it.ProductID,
				Name:      s.name,
				Requested: it.Quantity,
				Available: s.countInStock,
			}
		}
		items = append(items, domain.OrderItem{
			ProductID:  it.ProductID,
			Name:       s.name,
			Image:      s.image,
			PriceCents: s.priceCents,
			Quantity:   it.Quantity,
		})
		lines = append(lines, pricing.Line{UnitPriceCents: s.priceCents, Quantity: it.Quantity})
	}

	// Conditional decrement per item. A failure here means a concurrent
	// order won the stock between our read and this write; the whole
	// transaction rolls back, so decrements already applied are undone.
	for _, it := range in.Items {
		ok, err := productrepo.DecrementStock(ctx, tx, it.ProductID, it.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrStockChanged
		}
	}

	quote := pricing.Compute(r.policy, lines)

	order := domain.Order{
		UserID:          in.UserID,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsCents:      quote.ItemsCents,
		ShippingCents:   quote.ShippingCents,
		TaxCents:        quote.TaxCents,
		TotalCents:      quote.TotalCents,
		Status:          domain.OrderPending,
	}
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, ship_address, ship_city, ship_state, ship_postal, ship_country,
                    payment_method, items_cents, shipping_cents, tax_cents, total_cents, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id::text, created_at
`,
		in.UserID,
		in.ShippingAddress.Address, in.ShippingAddress.City, in.ShippingAddress.State,
		in.ShippingAddress.PostalCode, in.ShippingAddress.Country,
		in.PaymentMethod,
		quote.ItemsCents, quote.ShippingCents, quote.TaxCents, quote.TotalCents,
		string(domain.OrderPending),
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].OrderID = order.ID
		err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, name, image, price_cents, quantity)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`, order.ID, items[i].ProductID, items[i].Name, items[i].Image, items[i].PriceCents, items[i].Quantity).Scan(&items[i].ID)
		if err != nil {
			return nil, err
		}
	}
	order.Items = items

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: placed id=%s user=%s total_cents=%d", order.ID, order.UserID, order.TotalCents)
	return &order, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var o domain.Order
	if err := scanOrder(r.pool.QueryRow(ctx, q, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, err
	}
	if err := r.attachItems(ctx, []*domain.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	q := `
SELECT ` + orderColumns + `, u.id::text, u.name, u.email
FROM orders
JOIN users u ON u.id = orders.user_id
ORDER BY orders.created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("order repo: list all error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var u domain.UserSummary
		if err := scanOrderWith(rows, &o, &u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		o.User = &u
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItemsAll(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) SetPaid(ctx context.Context, id string, result *domain.PaymentResult) (*domain.Order, error) {
	err := r.transition(ctx, id, func(o lockedOrder) error {
		if o.isCancelled {
			return domain.ErrOrderCancelled
		}
		return nil
	}, `
UPDATE orders
SET is_paid = true, paid_at = now(), status = 'PAID',
    payment_result = COALESCE($2, payment_result)
WHERE id = $1
`, result)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) SetShipped(ctx context.Context, id, carrier, trackingNumber string) (*domain.Order, error) {
	err := r.transition(ctx, id, func(o lockedOrder) error {
		if o.isCancelled {
			return domain.ErrOrderCancelled
		}
		if !o.isPaid {
			return domain.ErrPaymentRequired
		}
		return nil
	}, `
UPDATE orders
SET carrier = $2, tracking_number = $3, shipped_at = now(), status = 'SHIPPED'
WHERE id = $1
`, carrier, trackingNumber)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) SetDelivered(ctx context.Context, id string) (*domain.Order, error) {
	err := r.transition(ctx, id, func(o lockedOrder) error {
		if o.isCancelled {
			return domain.ErrOrderCancelled
		}
		if o.status != domain.OrderShipped {
			return domain.ErrNotShipped
		}
		return nil
	}, `
UPDATE orders
SET is_delivered = true, delivered_at = now(), status = 'DELIVERED'
WHERE id = $1
`)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Cancel(ctx context.Context, id, reason string, allowShipped bool) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	locked, err := lockOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if locked.isCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	if locked.status == domain.OrderShipped && !allowShipped {
		return nil, domain.ErrOrderShipped
	}

	if _, err := tx.Exec(ctx, `
UPDATE orders
SET is_cancelled = true, cancelled_at = now(), cancel_reason = $2, status = 'CANCELLED'
WHERE id = $1
`, id, reason); err != nil {
		return nil, err
	}

	// Return the reserved stock to the shelf in the same transaction.
	rows, err := tx.Query(ctx, `SELECT product_id::text, quantity FROM order_items WHERE order_id = $1`, id)
	if err != nil {
		return nil, err
	}
	type line struct {
		productID string
		qty       int
	}
	var restock []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.qty); err != nil {
			rows.Close()
			return nil, err
		}
		restock = append(restock, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, l := range restock {
		if err := productrepo.RestockQuantity(ctx, tx, l.productID, l.qty); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: cancelled id=%s restocked_lines=%d", id, len(restock))
	return r.GetByID(ctx, id)
}

type lockedOrder struct {
	status      domain.OrderStatus
	isPaid      bool
	isCancelled bool
}

// transition locks the row, runs the guard, then applies the update.
// Guards and updates share one transaction so status never regresses
// under concurrent transitions.
func (r *postgresRepo) transition(ctx context.Context, id string, guard func(lockedOrder) error, updateSQL string, args ...any) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	locked, err := lockOrder(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := guard(locked); err != nil {
		return err
	}

	all := append([]any{id}, args...)
	if _, err := tx.Exec(ctx, updateSQL, all...); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func lockOrder(ctx context.Context, tx pgx.Tx, id string) (lockedOrder, error) {
	var o lockedOrder
	err := tx.QueryRow(ctx, `
SELECT status, is_paid, is_cancelled FROM orders WHERE id = $1 FOR UPDATE
`, id).Scan(&o.status, &o.isPaid, &o.isCancelled)
	if errors.Is(err, pgx.ErrNoRows) {
		return o, domain.ErrNotFound
	}
	return o, err
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItemsAll(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) attachItemsAll(ctx context.Context, orders []domain.Order) error {
	ptrs := make([]*domain.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	return r.attachItems(ctx, ptrs)
}

func (r *postgresRepo) attachItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*domain.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, product_id::text, name, image, price_cents, quantity
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY created_at ASC
`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Image, &item.PriceCents, &item.Quantity); err != nil {
			return err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row, o *domain.Order) error {
	return scanOrderWith(row, o)
}

func scanOrderWith(row pgx.Row, o *domain.Order, extra ...any) error {
	dest := []any{
		&o.ID, &o.UserID,
		&o.ShippingAddress.Address, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.PaymentMethod, &o.ItemsCents, &o.ShippingCents, &o.TaxCents, &o.TotalCents,
		&o.Status, &o.IsPaid, &o.PaidAt, &o.PaymentResult,
		&o.Carrier, &o.TrackingNumber, &o.ShippedAt,
		&o.IsDelivered, &o.DeliveredAt,
		&o.IsCancelled, &o.CancelledAt, &o.CancelReason,
		&o.CreatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}
