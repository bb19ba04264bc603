package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	notificationsdomain "github.com/Apurer/storefront-api/internal/domains/notifications/domain"
	notificationsports "github.com/Apurer/storefront-api/internal/domains/notifications/ports"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	reportsdomain "github.com/Apurer/storefront-api/internal/domains/reports/domain"
	reportsports "github.com/Apurer/storefront-api/internal/domains/reports/ports"
)

// Service orchestrates order placement, history, admin and reporting use cases.
type Service struct {
	repo     ports.Repository
	catalog  ports.ProductCatalog
	accounts ports.AccountDirectory
	receipts ports.ReceiptDispatcher
	events   ports.EventPublisher
	notifier notificationsports.Notifier
	reports  reportsports.Compiler
	pricing  PricingPolicy
	tracker  *StatusTracker
	logger   *slog.Logger
	now      func() time.Time

	idempotency     ports.IdempotencyStore
	idempotencyWait time.Duration
	sideEffects     time.Duration
}

const (
	defaultSideEffectTimeout = 10 * time.Second
	defaultIdempotencyWait   = 5 * time.Second
)

type Option func(*Service)

// WithReceiptDispatcher sets where post-placement receipts are handed off.
func WithReceiptDispatcher(d ports.ReceiptDispatcher) Option {
	return func(s *Service) {
		if d != nil {
			s.receipts = d
		}
	}
}

func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithNotifier sets the notifier used for synchronous receipt resends.
func WithNotifier(n notificationsports.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithIdempotencyStore enables replay of checkouts that carry an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

func WithReportCompiler(c reportsports.Compiler) Option {
	return func(s *Service) {
		s.reports = c
	}
}

func WithPricingPolicy(p PricingPolicy) Option {
	return func(s *Service) {
		if p != "" {
			s.pricing = p
		}
	}
}

// WithSideEffectTimeout bounds receipt dispatch and event publishing that
// run after a write has committed.
func WithSideEffectTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sideEffects = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
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

func NewService(repo ports.Repository, catalog ports.ProductCatalog, accounts ports.AccountDirectory, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		catalog:  catalog,
		accounts: accounts,
		receipts: ports.NoopReceiptDispatcher{},
		events:   ports.NoopEventPublisher{},
		pricing:  PricingClient,
		logger:   slog.Default(),
		now:      time.Now,

		idempotencyWait: defaultIdempotencyWait,
		sideEffects:     defaultSideEffectTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.tracker = NewStatusTracker(repo, s.events, s.logger)
	s.tracker.now = s.now
	s.tracker.sideEffects = s.sideEffects
	return s
}

// detach returns a context that outlives the request but not the side-effect budget.
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

// PlaceOrder validates the cart and customer, persists the order atomically,
// then hands off the receipt and the placed event. Side-effect failures are
// logged and never fail the placement.
func (s *Service) PlaceOrder(ctx context.Context, cart domain.Cart) (*domain.Order, error) {
	if cart.UserID <= 0 {
		return nil, mapError(domain.ErrMissingUser)
	}
	if err := cart.Validate(); err != nil {
		return nil, mapError(err)
	}
	account, err := s.accounts.LookupAccount(ctx, cart.UserID)
	if err != nil {
		return nil, mapError(err)
	}
	if !account.Verified {
		return nil, ErrForbidden
	}
	var key string
	if cart.IdempotencyKey != "" && s.idempotency != nil {
		fingerprint, err := FingerprintCart(cart)
		if err != nil {
			return nil, err
		}
		replayed, err := s.claimCheckout(ctx, cart.IdempotencyKey, fingerprint)
		if err != nil || replayed != nil {
			return replayed, err
		}
		key = cart.IdempotencyKey
	}

	saved, err := s.persist(ctx, cart)
	if key != "" {
		keyCtx, cancel := detach(ctx, s.sideEffects)
		if err != nil {
			s.releaseCheckout(keyCtx, key)
		} else {
			s.completeCheckout(keyCtx, key, saved)
		}
		cancel()
	}
	if err != nil {
		return nil, err
	}

	sideCtx, cancel := detach(ctx, s.sideEffects)
	defer cancel()
	s.afterPlacement(sideCtx, saved, account)
	return saved, nil
}

// persist prices the cart and stores the order with its stock decrements.
func (s *Service) persist(ctx context.Context, cart domain.Cart) (*domain.Order, error) {
	var err error
	if s.pricing == PricingCatalog {
		if cart, err = applyCatalogPrices(ctx, s.catalog, cart); err != nil {
			return nil, mapError(err)
		}
	}
	order, err := domain.NewOrder(cart, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) afterPlacement(ctx context.Context, order *domain.Order, account *ports.AccountInfo) {
	attrs := []slog.Attr{slog.Int64("order.id", order.ID)}
	names := map[int64]string{}
	ids := make([]int64, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	if products, err := s.catalog.LookupProducts(ctx, ids); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to resolve product names for receipt", append(attrs, slog.String("error", err.Error()))...)
	} else {
		for id, info := range products {
			names[id] = info.Name
		}
	}

	if err := s.receipts.Dispatch(ctx, receiptForOrder(order, account, names)); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to dispatch order receipt", append(attrs, slog.String("error", err.Error()))...)
	}
	if err := s.events.Publish(ctx, domain.PlacedEvent(order)); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order placed event", append(attrs, slog.String("error", err.Error()))...)
	}
}

func receiptForOrder(order *domain.Order, account *ports.AccountInfo, names map[int64]string) notificationsdomain.Receipt {
	lines := make([]notificationsdomain.Line, 0, len(order.Items))
	for _, item := range order.Items {
		name, ok := names[item.ProductID]
		if !ok || name == "" {
			name = notificationsdomain.PlaceholderName
		}
		lines = append(lines, notificationsdomain.Line{Name: name, Price: item.UnitPrice, Quantity: item.Quantity})
	}
	customerName := account.Name
	if order.Contact.Name != "" {
		customerName = order.Contact.Name
	}
	phone := account.Phone
	if order.Contact.Phone != "" {
		phone = order.Contact.Phone
	}
	return notificationsdomain.Receipt{
		OrderID:         order.ID,
		Customer:        notificationsdomain.Customer{Name: customerName, Email: account.Email, Phone: phone},
		Lines:           lines,
		Total:           order.TotalPrice,
		PlacedAt:        order.CreatedAt,
		ShippingAddress: order.Contact.Address,
		Comment:         order.Contact.Comment,
	}
}

func receiptForSource(src *ports.ReceiptSource) notificationsdomain.Receipt {
	lines := make([]notificationsdomain.Line, 0, len(src.Lines))
	for _, line := range src.Lines {
		name := line.Name
		if name == "" {
			name = notificationsdomain.PlaceholderName
		}
		lines = append(lines, notificationsdomain.Line{Name: name, Price: line.Price, Quantity: line.Quantity})
	}
	return notificationsdomain.Receipt{
		OrderID:         src.Order.ID,
		Customer:        notificationsdomain.Customer{Name: src.CustomerName, Email: src.Email, Phone: src.Phone},
		Lines:           lines,
		Total:           src.Order.TotalPrice,
		PlacedAt:        src.Order.CreatedAt,
		ShippingAddress: src.Order.Contact.Address,
		Comment:         src.Order.Contact.Comment,
	}
}

// ListOrdersForUser returns the user's orders newest first with nested items.
func (s *Service) ListOrdersForUser(ctx context.Context, userID int64) ([]domain.OrderView, error) {
	rows, err := s.repo.ListUserOrderRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.FoldUserOrders(rows), nil
}

// ListAllOrders returns every order with its owner's email and products.
func (s *Service) ListAllOrders(ctx context.Context) ([]domain.AdminOrderView, error) {
	headers, err := s.repo.ListHeaders(ctx)
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return []domain.AdminOrderView{}, nil
	}
	items, err := s.repo.ListItems(ctx, domain.OrderIDs(headers))
	if err != nil {
		return nil, err
	}
	return domain.MergeAdminOrders(headers, items), nil
}

// DeleteOrder removes an order and its items. Unknown ids succeed.
func (s *Service) DeleteOrder(ctx context.Context, orderID int64) error {
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return err
	}
	event := domain.Event{Type: domain.EventOrderDeleted, OrderID: orderID, OccurredAt: s.now().UTC()}
	pubCtx, cancel := detach(ctx, s.sideEffects)
	defer cancel()
	if err := s.events.Publish(pubCtx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order deleted event",
			slog.Int64("order.id", orderID), slog.String("error", err.Error()))
	}
	return nil
}

func (s *Service) UpdateDeliveryStatus(ctx context.Context, orderID int64, status string) error {
	_, err := s.tracker.SetStatus(ctx, orderID, status)
	return err
}

// ResendReceipt rebuilds an order's receipt and delivers it synchronously.
func (s *Service) ResendReceipt(ctx context.Context, orderID int64) error {
	if s.notifier == nil {
		return errors.New("receipt notifier not configured")
	}
	src, err := s.repo.ReceiptSource(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.notifier.SendOrderReceipt(ctx, receiptForSource(src)); err != nil {
		return fmt.Errorf("resend receipt: %w", err)
	}
	return nil
}

// GenerateReport compiles the orders inside filter into a document.
func (s *Service) GenerateReport(ctx context.Context, filter reportsdomain.Filter) (*reportsdomain.Document, error) {
	if s.reports == nil {
		return nil, errors.New("report compiler not configured")
	}
	if filter.Status != "" {
		status, err := domain.ParseStatus(filter.Status)
		if err != nil {
			return nil, mapError(err)
		}
		filter.Status = string(status)
	}
	if filter.To.Before(filter.From) {
		return nil, mapError(reportsdomain.ErrInvalidRange)
	}
	rows, err := s.repo.ReportRows(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, reportsdomain.ErrNoRows
	}
	return s.reports.Compile(ctx, rows, filter)
}

var _ ports.Service = (*Service)(nil)
