package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	reportsdomain "github.com/Apurer/storefront-api/internal/domains/reports/domain"
)

// Service exposes order placement, history and admin use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, cart domain.Cart) (*domain.Order, error)
	ListOrdersForUser(ctx context.Context, userID int64) ([]domain.OrderView, error)
	ListAllOrders(ctx context.Context) ([]domain.AdminOrderView, error)
	DeleteOrder(ctx context.Context, orderID int64) error
	UpdateDeliveryStatus(ctx context.Context, orderID int64, status string) error
	ResendReceipt(ctx context.Context, orderID int64) error
	GenerateReport(ctx context.Context, filter reportsdomain.Filter) (*reportsdomain.Document, error)
}
