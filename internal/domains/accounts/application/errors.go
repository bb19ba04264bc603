package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/accounts/domain"
	"github.com/Apurer/storefront-api/internal/domains/accounts/ports"
)

var (
	// ErrInvalidInput signals the request violated an account invariant.
	ErrInvalidInput = errors.New("invalid account input")
	// ErrAuthentication wraps credential failures.
	ErrAuthentication = errors.New("authentication failed")
	// ErrForbidden wraps authenticated requests that are not allowed yet.
	ErrForbidden = errors.New("account access forbidden")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyPhone) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrInvalidEmail) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrInvalidCredentials) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	if errors.Is(err, ports.ErrNotVerified) {
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	}
	return err
}
