package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/accounts/domain"
)

// Service exposes account use cases to adapters.
type Service interface {
	Register(ctx context.Context, reg domain.Registration) (*domain.Account, error)
	Login(ctx context.Context, identifier, password string) (*domain.Account, error)
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	ListUsers(ctx context.Context) ([]*domain.Account, error)
	VerifyUser(ctx context.Context, id int64) (*domain.Account, error)
	DeleteUser(ctx context.Context, id int64) error
}

// VerificationNotifier tells a user their account was approved. Failures are
// reported to the caller's logger only.
type VerificationNotifier interface {
	AccountVerified(ctx context.Context, account *domain.Account) error
}

// NoopVerificationNotifier discards notifications.
type NoopVerificationNotifier struct{}

func (NoopVerificationNotifier) AccountVerified(context.Context, *domain.Account) error { return nil }

// RegistrationNotifier announces a new account to downstream systems.
// Failures never fail the registration.
type RegistrationNotifier interface {
	AccountRegistered(ctx context.Context, account *domain.Account) error
}

// NoopRegistrationNotifier discards registrations.
type NoopRegistrationNotifier struct{}

func (NoopRegistrationNotifier) AccountRegistered(context.Context, *domain.Account) error { return nil }
