package receipts

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	notificationsdomain "github.com/Apurer/storefront-api/internal/domains/notifications/domain"
	notificationsports "github.com/Apurer/storefront-api/internal/domains/notifications/ports"
)

const (
	// SendOrderReceiptActivityName renders and mails an order receipt.
	SendOrderReceiptActivityName = "receipts.activities.SendOrderReceipt"
)

// Activities groups activities that deliver customer notifications.
type Activities struct {
	notifier notificationsports.Notifier
}

func NewActivities(notifier notificationsports.Notifier) *Activities {
	return &Activities{notifier: notifier}
}

// SendOrderReceipt delivers the receipt. Receipts that can never be delivered
// fail without retries.
func (a *Activities) SendOrderReceipt(ctx context.Context, receipt notificationsdomain.Receipt) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.notifier == nil {
		logger.Error("receipt activity not initialized", "orderId", receipt.OrderID)
		return errors.New("receipt activity not initialized")
	}
	if err := receipt.Validate(); err != nil {
		logger.Error("SendOrderReceipt rejected receipt", "orderId", receipt.OrderID, "error", err)
		return temporal.NewNonRetryableApplicationError(err.Error(), "InvalidReceipt", err)
	}
	logger.Info("SendOrderReceipt activity started", "orderId", receipt.OrderID)
	if err := a.notifier.SendOrderReceipt(ctx, receipt); err != nil {
		logger.Error("SendOrderReceipt activity failed", "orderId", receipt.OrderID, "error", err)
		return err
	}
	logger.Info("SendOrderReceipt activity completed", "orderId", receipt.OrderID)
	return nil
}
