package workflows

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	notificationsdomain "github.com/Apurer/storefront-api/internal/domains/notifications/domain"
	receiptworkflows "github.com/Apurer/storefront-api/internal/durable/temporal/workflows/receipts"
	"github.com/Apurer/storefront-api/internal/platform/taskqueue"
)

type fakeStarter struct {
	options client.StartWorkflowOptions
	name    interface{}
	args    []interface{}
	err     error
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	f.options = options
	f.name = workflow
	f.args = args
	return nil, f.err
}

func TestTemporalReceiptDispatcher_StartsWorkflow(t *testing.T) {
	starter := &fakeStarter{}
	dispatcher := NewTemporalReceiptDispatcher(starter)

	err := dispatcher.Dispatch(context.Background(), notificationsdomain.Receipt{OrderID: 42})
	require.NoError(t, err)
	require.Equal(t, receiptworkflows.ReceiptTaskQueue, starter.options.TaskQueue)
	require.Equal(t, "order-receipt-42", starter.options.ID)
	require.Equal(t, receiptworkflows.ReceiptDeliveryWorkflowName, starter.name)
	require.Len(t, starter.args, 1)
	input := starter.args[0].(receiptworkflows.ReceiptDeliveryWorkflowInput)
	require.Equal(t, int64(42), input.Receipt.OrderID)

	starter.err = serviceerror.NewWorkflowExecutionAlreadyStarted("running", "", "run-1")
	require.NoError(t, dispatcher.Dispatch(context.Background(), notificationsdomain.Receipt{OrderID: 42}))

	starter.err = errors.New("temporal unavailable")
	require.Error(t, dispatcher.Dispatch(context.Background(), notificationsdomain.Receipt{OrderID: 43}))
}

type capturingNotifier struct {
	mu   sync.Mutex
	done chan struct{}
	got  []int64
}

func (n *capturingNotifier) SendOrderReceipt(_ context.Context, receipt notificationsdomain.Receipt) error {
	n.mu.Lock()
	n.got = append(n.got, receipt.OrderID)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

func (n *capturingNotifier) SendAccountConfirmation(context.Context, notificationsdomain.Confirmation) error {
	return nil
}

func TestQueuedReceiptDispatcher_DeliversInBackground(t *testing.T) {
	queue := taskqueue.New(taskqueue.WithWorkers(1), taskqueue.WithCapacity(4))
	notifier := &capturingNotifier{done: make(chan struct{}, 1)}
	dispatcher := NewQueuedReceiptDispatcher(queue, notifier)

	require.NoError(t, dispatcher.Dispatch(context.Background(), notificationsdomain.Receipt{OrderID: 9}))
	select {
	case <-notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("receipt was not delivered")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, queue.Close(ctx))
	require.Equal(t, []int64{9}, notifier.got)

	err := dispatcher.Dispatch(context.Background(), notificationsdomain.Receipt{OrderID: 10})
	require.ErrorIs(t, err, taskqueue.ErrQueueClosed)
}
