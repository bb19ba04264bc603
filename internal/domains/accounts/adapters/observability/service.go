package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	accountsdomain "github.com/Apurer/storefront-api/internal/domains/accounts/domain"
	accountsports "github.com/Apurer/storefront-api/internal/domains/accounts/ports"
)

const tracerName = "github.com/Apurer/storefront-api/internal/domains/accounts/adapters/observability/service"

// Service decorates the accounts service with tracing, logging, and metrics.
// Identifiers and passwords are never logged.
type Service struct {
	inner   accountsports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core accounts service.
func New(inner accountsports.Service, opts ...Option) accountsports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Register(ctx context.Context, reg accountsdomain.Registration) (*accountsdomain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "AccountsService.Register")
	defer span.End()

	result, err := s.inner.Register(ctx, reg)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register account")
	}
	s.metrics.registrations.add(ctx)
	span.SetAttributes(attribute.Int64("account.id", result.ID))
	s.logInfo(ctx, "account registered", slog.Int64("account.id", result.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, identifier, password string) (*accountsdomain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "AccountsService.Login")
	defer span.End()

	result, err := s.inner.Login(ctx, identifier, password)
	if err != nil {
		s.metrics.loginFailures.add(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, "login rejected")
		s.logInfo(ctx, "login rejected", slog.String("reason", err.Error()))
		return nil, err
	}
	span.SetAttributes(attribute.Int64("account.id", result.ID))
	s.logInfo(ctx, "login succeeded", slog.Int64("account.id", result.ID))
	return result, nil
}

func (s *Service) GetAccount(ctx context.Context, id int64) (*accountsdomain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "AccountsService.GetAccount", trace.WithAttributes(attribute.Int64("account.id", id)))
	defer span.End()

	result, err := s.inner.GetAccount(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load account", slog.Int64("account.id", id))
	}
	return result, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*accountsdomain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "AccountsService.ListUsers")
	defer span.End()

	result, err := s.inner.ListUsers(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list accounts")
	}
	span.SetAttributes(attribute.Int("accounts.count", len(result)))
	return result, nil
}

func (s *Service) VerifyUser(ctx context.Context, id int64) (*accountsdomain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "AccountsService.VerifyUser", trace.WithAttributes(attribute.Int64("account.id", id)))
	defer span.End()

	s.logInfo(ctx, "verifying account", slog.Int64("account.id", id))
	result, err := s.inner.VerifyUser(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to verify account", slog.Int64("account.id", id))
	}
	s.metrics.verifications.add(ctx)
	return result, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "AccountsService.DeleteUser", trace.WithAttributes(attribute.Int64("account.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting account", slog.Int64("account.id", id))
	if err := s.inner.DeleteUser(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete account", slog.Int64("account.id", id))
	}
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type counter struct {
	c metric.Int64Counter
}

func (c counter) add(ctx context.Context) {
	if c.c != nil {
		c.c.Add(ctx, 1)
	}
}

type serviceMetrics struct {
	registrations counter
	loginFailures counter
	verifications counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registrations, _ := m.Int64Counter("accounts.service.registrations", metric.WithDescription("Number of accounts registered"))
	loginFailures, _ := m.Int64Counter("accounts.service.login_failures", metric.WithDescription("Number of rejected logins"))
	verifications, _ := m.Int64Counter("accounts.service.verifications", metric.WithDescription("Number of accounts verified"))
	return serviceMetrics{
		registrations: counter{registrations},
		loginFailures: counter{loginFailures},
		verifications: counter{verifications},
	}
}

var _ accountsports.Service = (*Service)(nil)
