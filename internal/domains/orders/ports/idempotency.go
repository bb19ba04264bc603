package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrIdempotencyConflict indicates the same key was used with a different cart or order.
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	// ErrCheckoutInProgress indicates another request still holds the key.
	ErrCheckoutInProgress = errors.New("checkout with this idempotency key is still in progress")
)

// IdempotencyRecord ties a client-supplied checkout key to the order it produced.
// OrderID stays zero while the checkout holding the key is in flight.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Pending reports whether the key is reserved but no order is attached yet.
func (r IdempotencyRecord) Pending() bool {
	return r.OrderID == 0
}

// IdempotencyStore persists checkout keys so retried submissions replay the first order.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Reserve atomically claims the key for the request hash. It returns nil
	// when the caller now holds the key, and the existing record otherwise.
	// A pending reservation older than the store's TTL may be taken over.
	Reserve(ctx context.Context, key, requestHash string) (*IdempotencyRecord, error)
	// Complete attaches the placed order to a reservation.
	Complete(ctx context.Context, key string, orderID int64) error
	// Release drops a pending reservation so the key can be used again.
	Release(ctx context.Context, key string) error
}
