package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/reports/domain"
)

// Compiler turns report rows into a downloadable document.
type Compiler interface {
	Compile(ctx context.Context, rows []domain.Row, filter domain.Filter) (*domain.Document, error)
}
