package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	notificationsdomain "github.com/Apurer/storefront-api/internal/domains/notifications/domain"
	receiptactivities "github.com/Apurer/storefront-api/internal/durable/temporal/activities/receipts"
)

// RunReceiptDeliverySequence delivers an order receipt with bounded retries.
func RunReceiptDeliverySequence(ctx workflow.Context, receipt notificationsdomain.Receipt) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("receipt delivery sequence started", "orderId", receipt.OrderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	if err := workflow.ExecuteActivity(ctx, receiptactivities.SendOrderReceiptActivityName, receipt).Get(ctx, nil); err != nil {
		logger.Error("receipt delivery sequence failed", "orderId", receipt.OrderID, "error", err)
		return err
	}
	logger.Info("receipt delivery sequence completed", "orderId", receipt.OrderID)
	return nil
}
