package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	reportsdomain "github.com/Apurer/storefront-api/internal/domains/reports/domain"
)

var (
	// ErrInvalidInput signals the request violated an order invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrUnauthenticated signals the order has no known customer.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden signals the customer may not place orders yet.
	ErrForbidden = errors.New("account is not allowed to place orders")
	// ErrConflict signals the order cannot be applied to the current state.
	ErrConflict = errors.New("order conflicts with current state")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, ports.ErrUnknownProduct) ||
		errors.Is(err, reportsdomain.ErrInvalidRange) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrMissingUser) || errors.Is(err, ports.ErrAccountNotFound) {
		return fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if errors.Is(err, ports.ErrInsufficientStock) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
