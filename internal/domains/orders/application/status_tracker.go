package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

// StatusStore is the slice of the order repository the tracker needs.
type StatusStore interface {
	UpdateStatus(ctx context.Context, orderID int64, status domain.Status) error
}

// StatusTracker owns delivery status changes. Any status in the closed set
// may replace any other; there are no transition rules.
type StatusTracker struct {
	store  StatusStore
	events ports.EventPublisher
	logger *slog.Logger
	now    func() time.Time

	sideEffects time.Duration
}

func NewStatusTracker(store StatusStore, events ports.EventPublisher, logger *slog.Logger) *StatusTracker {
	if events == nil {
		events = ports.NoopEventPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusTracker{store: store, events: events, logger: logger, now: time.Now, sideEffects: defaultSideEffectTimeout}
}

// SetStatus validates raw against the closed status set and overwrites the
// order's status. A missing order is not reported.
func (t *StatusTracker) SetStatus(ctx context.Context, orderID int64, raw string) (domain.Status, error) {
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return "", mapError(err)
	}
	if err := t.store.UpdateStatus(ctx, orderID, status); err != nil {
		return "", err
	}
	event := domain.Event{
		Type:       domain.EventOrderStatusChanged,
		OrderID:    orderID,
		Status:     status,
		OccurredAt: t.now().UTC(),
	}
	pubCtx, cancel := detach(ctx, t.sideEffects)
	defer cancel()
	if err := t.events.Publish(pubCtx, event); err != nil {
		t.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish status change",
			slog.Int64("order.id", orderID),
			slog.String("error", err.Error()))
	}
	return status, nil
}
