package receipts

import (
	"go.temporal.io/sdk/workflow"

	notificationsdomain "github.com/Apurer/storefront-api/internal/domains/notifications/domain"
	"github.com/Apurer/storefront-api/internal/durable/temporal/sequences"
)

const (
	// ReceiptDeliveryWorkflowName is the public identifier for registering the workflow.
	ReceiptDeliveryWorkflowName = "receipts.workflows.Delivery"
	// ReceiptTaskQueue is the queue consumed by the receipt worker.
	ReceiptTaskQueue = "ORDER_RECEIPTS"
)

// ReceiptDeliveryWorkflowInput carries the receipt to deliver.
type ReceiptDeliveryWorkflowInput struct {
	Receipt notificationsdomain.Receipt
	TraceID string
}

// ReceiptDeliveryWorkflow delivers the receipt of a committed order.
func ReceiptDeliveryWorkflow(ctx workflow.Context, input ReceiptDeliveryWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	orderID := input.Receipt.OrderID
	logger.Info("ReceiptDeliveryWorkflow started", withTraceID(input.TraceID, "orderId", orderID)...)
	if err := sequences.RunReceiptDeliverySequence(ctx, input.Receipt); err != nil {
		logger.Error("ReceiptDeliveryWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return err
	}
	logger.Info("ReceiptDeliveryWorkflow completed", withTraceID(input.TraceID, "orderId", orderID)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
