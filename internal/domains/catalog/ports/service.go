package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	LookupProducts(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
	CreateProduct(ctx context.Context, attrs domain.Attributes) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, attrs domain.Attributes) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
