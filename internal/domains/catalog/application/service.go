package application

import (
	"context"
	"time"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
	now  func() time.Time
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// LookupProducts resolves a set of ids; unknown ids are absent from the result.
func (s *Service) LookupProducts(ctx context.Context, ids []int64) (map[int64]*domain.Product, error) {
	if len(ids) == 0 {
		return map[int64]*domain.Product{}, nil
	}
	return s.repo.GetMany(ctx, ids)
}

func (s *Service) CreateProduct(ctx context.Context, attrs domain.Attributes) (*domain.Product, error) {
	product, err := domain.NewProduct(attrs)
	if err != nil {
		return nil, mapError(err)
	}
	now := s.now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	return s.repo.Create(ctx, product)
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, attrs domain.Attributes) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Apply(attrs); err != nil {
		return nil, mapError(err)
	}
	product.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, product)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
