package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrInUse is returned when a product is still referenced by order line items.
	ErrInUse = errors.New("product is referenced by orders")
)

// Repository persists catalog products.
type Repository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// GetMany returns the products that exist for ids, keyed by id.
	GetMany(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// Delete removes a product; deleting an unknown id is not an error.
	Delete(ctx context.Context, id int64) error
}
