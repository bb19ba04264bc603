package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-api/internal/domains/accounts/domain"
)

var (
	ErrNotFound = errors.New("account not found")
	// ErrDuplicate is returned when the email or phone is already registered.
	ErrDuplicate = errors.New("account already exists")
	// ErrInvalidCredentials is returned when no account matches the identifier and password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotVerified is returned when a correctly authenticated account awaits approval.
	ErrNotVerified = errors.New("account is not verified")
)

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	// FindByIdentifier matches either the email or the phone number.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	MarkVerified(ctx context.Context, id int64) error
	// Delete removes an account; deleting an unknown id is not an error.
	Delete(ctx context.Context, id int64) error
}
