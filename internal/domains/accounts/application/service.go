package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Apurer/storefront-api/internal/domains/accounts/domain"
	"github.com/Apurer/storefront-api/internal/domains/accounts/ports"
)

// Service orchestrates registration, login and admin user management.
type Service struct {
	repo       ports.Repository
	notifier   ports.VerificationNotifier
	registered ports.RegistrationNotifier
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Service)

// WithVerificationNotifier sets who is told about approved accounts.
func WithVerificationNotifier(n ports.VerificationNotifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithRegistrationNotifier sets who hears about new sign-ups.
func WithRegistrationNotifier(n ports.RegistrationNotifier) Option {
	return func(s *Service) {
		if n != nil {
			s.registered = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		notifier:   ports.NoopVerificationNotifier{},
		registered: ports.NoopRegistrationNotifier{},
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates an unverified account and announces it without waiting
// for delivery.
func (s *Service) Register(ctx context.Context, reg domain.Registration) (*domain.Account, error) {
	account, err := domain.NewAccount(reg)
	if err != nil {
		return nil, mapError(err)
	}
	now := s.now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	if err := s.registered.AccountRegistered(context.WithoutCancel(ctx), created); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to queue registration notice",
			slog.Int64("account.id", created.ID),
			slog.String("error", err.Error()))
	}
	return created, nil
}

// Login matches the identifier against email or phone. Credentials are
// checked before the verification flag, so an unverified account with a
// wrong password is reported as bad credentials.
func (s *Service) Login(ctx context.Context, identifier, password string) (*domain.Account, error) {
	account, err := s.repo.FindByIdentifier(ctx, domain.NormalizeIdentifier(identifier))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrInvalidCredentials)
		}
		return nil, err
	}
	if !account.CheckPassword(password) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if !account.Verified {
		return nil, mapError(ports.ErrNotVerified)
	}
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]*domain.Account, error) {
	return s.repo.List(ctx)
}

// VerifyUser approves an account and notifies its owner without waiting for
// delivery.
func (s *Service) VerifyUser(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkVerified(ctx, id); err != nil {
		return nil, err
	}
	account.Verify()
	if err := s.notifier.AccountVerified(context.WithoutCancel(ctx), account); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to queue verification email",
			slog.Int64("account.id", id),
			slog.String("error", err.Error()))
	}
	return account, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
