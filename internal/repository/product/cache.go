package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/arjun2k01/esports-cart/internal/cache"
	"github.com/arjun2k01/esports-cart/internal/domain"
)

const (
	keyAllProducts = "products:all"
	keyPrefix      = "product:"
)

// cachedRepo is a read-through cache in front of the postgres repository.
// Catalog mutations invalidate affected keys; the order service also
// calls Invalidate after a committed stock decrement.
type cachedRepo struct {
	next   Repository
	cache  *cache.Redis
	logger *log.Logger
}

func NewCached(next Repository, c *cache.Redis, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &cachedRepo{next: next, cache: c, logger: logger}
}

// Invalidator is implemented by product repositories that cache reads.
type Invalidator interface {
	Invalidate(ctx context.Context, ids ...string)
}

func (r *cachedRepo) List(ctx context.Context, keyword string) ([]domain.Product, error) {
	// Keyword searches bypass the cache; only the full listing is hot.
	if keyword != "" {
		return r.next.List(ctx, keyword)
	}

	var products []domain.Product
	if err := r.cache.Get(ctx, keyAllProducts, &products); err == nil {
		return products, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		r.logger.Printf("product cache: get %s error=%v", keyAllProducts, err)
	}

	products, err := r.next.List(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, keyAllProducts, products); err != nil {
		r.logger.Printf("product cache: set %s error=%v", keyAllProducts, err)
	}
	return products, nil
}

func (r *cachedRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.cache.Get(ctx, keyPrefix+id, &p); err == nil {
		return &p, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		r.logger.Printf("product cache: get %s error=%v", keyPrefix+id, err)
	}

	got, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, keyPrefix+id, got); err != nil {
		r.logger.Printf("product cache: set %s error=%v", keyPrefix+id, err)
	}
	return got, nil
}

func (r *cachedRepo) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	p, err := r.next.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	r.Invalidate(ctx)
	return p, nil
}

func (r *cachedRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	p, err := r.next.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	r.Invalidate(ctx, id)
	return p, nil
}

func (r *cachedRepo) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.Invalidate(ctx, id)
	return nil
}

func (r *cachedRepo) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	ok, err := r.next.DecrementStock(ctx, id, qty)
	if err == nil && ok {
		r.Invalidate(ctx, id)
	}
	return ok, err
}

// Invalidate drops the listing key and any per-product keys. Cache
// errors are logged, never surfaced: the database stays authoritative.
func (r *cachedRepo) Invalidate(ctx context.Context, ids ...string) {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, keyAllProducts)
	for _, id := range ids {
		keys = append(keys, keyPrefix+id)
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.Printf("product cache: invalidate error=%v", err)
	}
}
