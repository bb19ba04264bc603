package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	reportsdomain "github.com/Apurer/storefront-api/internal/domains/reports/domain"
)

const tracerName = "github.com/Apurer/storefront-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
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

// New wraps the core orders service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
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

func (s *Service) PlaceOrder(ctx context.Context, cart ordersdomain.Cart) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder", trace.WithAttributes(
		attribute.Int64("user.id", cart.UserID),
		attribute.Int("order.lines", len(cart.Items)),
	))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int64("user.id", cart.UserID), slog.Int("order.lines", len(cart.Items)))
	result, err := s.inner.PlaceOrder(ctx, cart)
	if err != nil {
		s.metrics.recordRejected(ctx)
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("user.id", cart.UserID))
	}
	span.SetAttributes(attribute.Int64("order.id", result.ID), attribute.String("order.total", result.TotalPrice.StringFixed(2)))
	s.metrics.recordPlaced(ctx, result)
	s.logInfo(ctx, "order placed", slog.Int64("order.id", result.ID), slog.String("order.total", result.TotalPrice.StringFixed(2)))
	return result, nil
}

func (s *Service) ListOrdersForUser(ctx context.Context, userID int64) ([]ordersdomain.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrdersForUser", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	result, err := s.inner.ListOrdersForUser(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list user orders", slog.Int64("user.id", userID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) ListAllOrders(ctx context.Context) ([]ordersdomain.AdminOrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListAllOrders")
	defer span.End()

	result, err := s.inner.ListAllOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, orderID int64) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", orderID))
	if err := s.inner.DeleteOrder(ctx, orderID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", orderID))
	}
	return nil
}

func (s *Service) UpdateDeliveryStatus(ctx context.Context, orderID int64, status string) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateDeliveryStatus", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.String("order.status", status),
	))
	defer span.End()

	if err := s.inner.UpdateDeliveryStatus(ctx, orderID, status); err != nil {
		return s.handleError(ctx, span, err, "failed to update delivery status",
			slog.Int64("order.id", orderID), slog.String("order.status", status))
	}
	s.metrics.recordStatusChange(ctx, status)
	s.logInfo(ctx, "delivery status updated", slog.Int64("order.id", orderID), slog.String("order.status", status))
	return nil
}

func (s *Service) ResendReceipt(ctx context.Context, orderID int64) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ResendReceipt", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	if err := s.inner.ResendReceipt(ctx, orderID); err != nil {
		return s.handleError(ctx, span, err, "failed to resend receipt", slog.Int64("order.id", orderID))
	}
	return nil
}

func (s *Service) GenerateReport(ctx context.Context, filter reportsdomain.Filter) (*reportsdomain.Document, error) {
	from, to := filter.Label()
	ctx, span := s.tracer.Start(ctx, "OrdersService.GenerateReport", trace.WithAttributes(
		attribute.String("report.from", from),
		attribute.String("report.to", to),
		attribute.String("report.status", filter.Status),
	))
	defer span.End()

	result, err := s.inner.GenerateReport(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to generate report",
			slog.String("report.from", from), slog.String("report.to", to))
	}
	span.SetAttributes(attribute.Int("report.bytes", len(result.Data)))
	s.logInfo(ctx, "report generated", slog.String("report.file", result.FileName), slog.Int("report.bytes", len(result.Data)))
	return result, nil
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

type serviceMetrics struct {
	placed        metric.Int64Counter
	rejected      metric.Int64Counter
	revenue       metric.Float64Counter
	statusChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	rejected, _ := m.Int64Counter("orders.service.orders_rejected", metric.WithDescription("Number of checkouts that failed"))
	revenue, _ := m.Float64Counter("orders.service.revenue", metric.WithDescription("Sum of placed order totals"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of delivery status updates"))
	return serviceMetrics{placed: placed, rejected: rejected, revenue: revenue, statusChanges: statusChanges}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, order *ordersdomain.Order) {
	if m.placed != nil {
		m.placed.Add(ctx, 1)
	}
	if m.revenue != nil {
		m.revenue.Add(ctx, order.TotalPrice.InexactFloat64())
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status string) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", status)))
	}
}

var _ ordersports.Service = (*Service)(nil)
