package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	notificationsdomain "github.com/Apurer/storefront-api/internal/domains/notifications/domain"
	notificationsports "github.com/Apurer/storefront-api/internal/domains/notifications/ports"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	receiptworkflows "github.com/Apurer/storefront-api/internal/durable/temporal/workflows/receipts"
	"github.com/Apurer/storefront-api/internal/platform/taskqueue"
)

var (
	_ ports.ReceiptDispatcher = (*TemporalReceiptDispatcher)(nil)
	_ ports.ReceiptDispatcher = (*QueuedReceiptDispatcher)(nil)
)

// WorkflowStarter is the slice of the Temporal client the dispatcher needs.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalReceiptDispatcher starts a durable receipt delivery workflow and
// returns once the workflow is accepted. The workflow id is derived from the
// order so a delivery already in flight is not started twice.
type TemporalReceiptDispatcher struct {
	client    WorkflowStarter
	taskQueue string
}

func NewTemporalReceiptDispatcher(c WorkflowStarter) *TemporalReceiptDispatcher {
	return &TemporalReceiptDispatcher{client: c, taskQueue: receiptworkflows.ReceiptTaskQueue}
}

func (d *TemporalReceiptDispatcher) Dispatch(ctx context.Context, receipt notificationsdomain.Receipt) error {
	if d == nil || d.client == nil {
		return errors.New("temporal receipt dispatcher not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("order-receipt-%d", receipt.OrderID),
		TaskQueue: d.taskQueue,
	}
	_, err := d.client.ExecuteWorkflow(
		ctx,
		options,
		receiptworkflows.ReceiptDeliveryWorkflowName,
		receiptworkflows.ReceiptDeliveryWorkflowInput{Receipt: receipt, TraceID: traceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil
		}
		return fmt.Errorf("start receipt workflow for order %d: %w", receipt.OrderID, err)
	}
	return nil
}

// QueuedReceiptDispatcher delivers receipts on the in-process task queue.
// A full queue drops the receipt and reports the error to the caller.
type QueuedReceiptDispatcher struct {
	queue    *taskqueue.Queue
	notifier notificationsports.Notifier
}

func NewQueuedReceiptDispatcher(queue *taskqueue.Queue, notifier notificationsports.Notifier) *QueuedReceiptDispatcher {
	return &QueuedReceiptDispatcher{queue: queue, notifier: notifier}
}

func (d *QueuedReceiptDispatcher) Dispatch(_ context.Context, receipt notificationsdomain.Receipt) error {
	if d == nil || d.queue == nil || d.notifier == nil {
		return errors.New("queued receipt dispatcher not configured")
	}
	return d.queue.Submit(taskqueue.Task{
		Name: fmt.Sprintf("order-receipt-%d", receipt.OrderID),
		Run: func(ctx context.Context) error {
			return d.notifier.SendOrderReceipt(ctx, receipt)
		},
	})
}

func traceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
