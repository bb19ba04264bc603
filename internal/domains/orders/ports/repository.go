package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	reportsdomain "github.com/Apurer/storefront-api/internal/domains/reports/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrInsufficientStock is returned when a line asks for more units than are in stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUnknownProduct is returned when a line references a product that does not exist.
	ErrUnknownProduct = errors.New("unknown product")
)

// ReceiptSource is an order with everything needed to rebuild its receipt.
type ReceiptSource struct {
	Order        domain.Order
	CustomerName string
	Email        string
	Phone        string
	Lines        []ReceiptLine
}

// ReceiptLine is a line item resolved against the catalog, priced at what
// was charged.
type ReceiptLine struct {
	Name     string
	Price    decimal.Decimal
	Quantity int32
}

// Repository persists orders.
type Repository interface {
	// Create inserts the header and line items and decrements stock for every
	// line, all or nothing. The order's ID is set on success.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ListUserOrderRows(ctx context.Context, userID int64) ([]domain.UserOrderRow, error)
	ListHeaders(ctx context.Context) ([]domain.AdminOrderHeader, error)
	ListItems(ctx context.Context, orderIDs []int64) ([]domain.AdminItemRow, error)
	// Delete removes line items then the header. Unknown ids are not an error.
	Delete(ctx context.Context, orderID int64) error
	// UpdateStatus overwrites the delivery status. Unknown ids are not an error.
	UpdateStatus(ctx context.Context, orderID int64, status domain.Status) error
	// ReceiptSource loads an order with its customer and resolved lines.
	ReceiptSource(ctx context.Context, orderID int64) (*ReceiptSource, error)
	ReportRows(ctx context.Context, filter reportsdomain.Filter) ([]reportsdomain.Row, error)
}
