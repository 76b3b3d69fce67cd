package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/arjun2k01/esports-cart/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id::text, name, COALESCE(description, ''), image, brand, category, price_cents, count_in_stock, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, keyword string) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, keyword)
	if err != nil {
		r.logger.Printf("product repo: list keyword=%q error=%v", keyword, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	var p domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, q, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, image, brand, category, price_cents, count_in_stock)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
RETURNING ` + productColumns + `
`
	var p domain.Product
	err := scanProduct(r.pool.QueryRow(ctx, q,
		in.Name, in.Description, in.Image, in.Brand, in.Category, in.PriceCents, in.CountInStock,
	), &p)
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", in.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s name=%q", p.ID, p.Name)
	return &p, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	const q = `
UPDATE products
SET name           = COALESCE($2, name),
    description    = COALESCE($3, description),
    image          = COALESCE($4, image),
    brand          = COALESCE($5, brand),
    category       = COALESCE($6, category),
    price_cents    = COALESCE($7, price_cents),
    count_in_stock = COALESCE($8, count_in_stock),
    updated_at     = now()
WHERE id = $1
RETURNING ` + productColumns + `
`
	var p domain.Product
	err := scanProduct(r.pool.QueryRow(ctx, q,
		id, in.Name, in.Description, in.Image, in.Brand, in.Category, in.PriceCents, in.CountInStock,
	), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	return DecrementStock(ctx, r.pool, id, qty)
}

// Execer covers both *pgxpool.Pool and pgx.Tx so the stock primitives
// can run standalone or inside the order placement transaction.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// DecrementStock decreases count_in_stock by qty only if the current
// stock covers it, as one indivisible conditional update. Returns false
// with no mutation when stock is short. This is the primitive that
// prevents overselling under concurrent orders.
func DecrementStock(ctx context.Context, db Execer, id string, qty int) (bool, error) {
	cmd, err := db.Exec(ctx, `
UPDATE products
SET count_in_stock = count_in_stock - $2, updated_at = now()
WHERE id = $1 AND count_in_stock >= $2
`, id, qty)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// RestockQuantity returns qty units of a product to the shelf.
func RestockQuantity(ctx context.Context, db Execer, id string, qty int) error {
	_, err := db.Exec(ctx, `
UPDATE products
SET count_in_stock = count_in_stock + $2, updated_at = now()
WHERE id = $1
`, id, qty)
	return err
}

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Image,
		&p.Brand,
		&p.Category,
		&p.PriceCents,
		&p.CountInStock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}
