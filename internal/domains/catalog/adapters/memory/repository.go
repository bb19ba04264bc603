package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// ReferenceCheck reports whether a product is referenced by any order line.
type ReferenceCheck func(ctx context.Context, productID int64) (bool, error)

// Repository is an in-memory product store.
type Repository struct {
	mu         sync.RWMutex
	products   map[int64]*domain.Product
	nextID     int64
	referenced ReferenceCheck
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}}
}

// UseReferenceCheck installs the guard consulted before deletes.
func (r *Repository) UseReferenceCheck(check ReferenceCheck) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.referenced = check
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		clone := *product
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) GetMany(_ context.Context, ids []int64) (map[int64]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[int64]*domain.Product, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			clone := *product
			result[id] = &clone
		}
	}
	return result, nil
}

func (r *Repository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[product.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *product
	clone.CreatedAt = existing.CreatedAt
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.mu.RLock()
	check := r.referenced
	r.mu.RUnlock()
	if check != nil {
		inUse, err := check(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return ports.ErrInUse
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

// TakeStock decrements stock for every product in quantities, or for none of
// them. An unknown id yields ports.ErrNotFound and a shortfall yields
// domain.ErrInsufficientStock.
func (r *Repository) TakeStock(_ context.Context, quantities map[int64]int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, qty := range quantities {
		product, ok := r.products[id]
		if !ok {
			return ports.ErrNotFound
		}
		if !product.InStock(qty) {
			return domain.ErrInsufficientStock
		}
	}
	for id, qty := range quantities {
		if err := r.products[id].Take(qty); err != nil {
			return err
		}
	}
	return nil
}
