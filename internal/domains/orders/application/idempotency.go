package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

type normalizedCart struct {
	UserID  int64            `json:"userId"`
	Items   []normalizedItem `json:"items"`
	Name    string           `json:"name"`
	Address string           `json:"address"`
	Phone   string           `json:"phone"`
	Comment string           `json:"comment"`
}

type normalizedItem struct {
	ProductID int64  `json:"productId"`
	Price     string `json:"price"`
	Quantity  int32  `json:"quantity"`
}

// FingerprintCart builds a deterministic hash of the checkout payload, excluding the idempotency key.
func FingerprintCart(cart domain.Cart) (string, error) {
	normalized := normalizedCart{
		UserID:  cart.UserID,
		Items:   make([]normalizedItem, 0, len(cart.Items)),
		Name:    cart.Contact.Name,
		Address: cart.Contact.Address,
		Phone:   cart.Contact.Phone,
		Comment: cart.Contact.Comment,
	}
	for _, item := range cart.Items {
		normalized.Items = append(normalized.Items, normalizedItem{
			ProductID: item.ProductID,
			Price:     item.Price.StringFixed(domain.CurrencyPlaces),
			Quantity:  item.Quantity,
		})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

const idempotencyPoll = 25 * time.Millisecond

// claimCheckout reserves the cart's key. It returns the previously placed
// order when the key is already complete, and nil with a nil error when the
// caller now holds the key. A concurrent holder is waited on up to
// idempotencyWait.
func (s *Service) claimCheckout(ctx context.Context, key, hash string) (*domain.Order, error) {
	wait := time.NewTimer(s.idempotencyWait)
	defer wait.Stop()
	for {
		existing, err := s.idempotency.Reserve(ctx, key, hash)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, nil
		}
		if existing.RequestHash != hash {
			return nil, fmt.Errorf("%w: %w", ErrConflict, ports.ErrIdempotencyConflict)
		}
		if !existing.Pending() {
			return s.replayOrder(ctx, existing.OrderID)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-wait.C:
			return nil, fmt.Errorf("%w: %w", ErrConflict, ports.ErrCheckoutInProgress)
		case <-time.After(idempotencyPoll):
		}
	}
}

func (s *Service) replayOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	src, err := s.repo.ReceiptSource(ctx, orderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrConflict, ports.ErrIdempotencyConflict)
		}
		return nil, err
	}
	order := src.Order
	return &order, nil
}

func (s *Service) completeCheckout(ctx context.Context, key string, order *domain.Order) {
	if err := s.idempotency.Complete(ctx, key, order.ID); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record checkout idempotency key",
			slog.Int64("order.id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) releaseCheckout(ctx context.Context, key string) {
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to release checkout idempotency key",
			slog.String("error", err.Error()),
		)
	}
}
