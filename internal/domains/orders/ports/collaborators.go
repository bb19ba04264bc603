package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	notificationsdomain "github.com/Apurer/storefront-api/internal/domains/notifications/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// ErrAccountNotFound is returned by an AccountDirectory for unknown users.
var ErrAccountNotFound = errors.New("account not found")

// ProductInfo is the catalog data the order flow needs.
type ProductInfo struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// ProductCatalog resolves product ids. Unknown ids are absent from the result.
type ProductCatalog interface {
	LookupProducts(ctx context.Context, ids []int64) (map[int64]ProductInfo, error)
}

// AccountInfo is the customer data the order flow needs.
type AccountInfo struct {
	ID       int64
	Name     string
	Email    string
	Phone    string
	Verified bool
}

// AccountDirectory resolves customers by id.
type AccountDirectory interface {
	LookupAccount(ctx context.Context, id int64) (*AccountInfo, error)
}

// ReceiptDispatcher hands a receipt to an out-of-band delivery mechanism and
// returns without waiting for delivery.
type ReceiptDispatcher interface {
	Dispatch(ctx context.Context, receipt notificationsdomain.Receipt) error
}

// EventPublisher emits order lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// NoopReceiptDispatcher drops receipts.
type NoopReceiptDispatcher struct{}

func (NoopReceiptDispatcher) Dispatch(context.Context, notificationsdomain.Receipt) error { return nil }

// NoopEventPublisher drops events.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, domain.Event) error { return nil }
