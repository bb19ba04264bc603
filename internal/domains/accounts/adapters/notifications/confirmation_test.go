package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	accountsdomain "github.com/Apurer/storefront-api/internal/domains/accounts/domain"
	notificationsdomain "github.com/Apurer/storefront-api/internal/domains/notifications/domain"
	"github.com/Apurer/storefront-api/internal/platform/taskqueue"
)

type confirmationSink struct {
	sent chan notificationsdomain.Confirmation
}

func (s *confirmationSink) SendOrderReceipt(context.Context, notificationsdomain.Receipt) error {
	return nil
}

func (s *confirmationSink) SendAccountConfirmation(_ context.Context, c notificationsdomain.Confirmation) error {
	s.sent <- c
	return nil
}

func TestQueuedConfirmation_SendsInBackground(t *testing.T) {
	queue := taskqueue.New(taskqueue.WithWorkers(1))
	t.Cleanup(func() { _ = queue.Close(context.Background()) })
	sink := &confirmationSink{sent: make(chan notificationsdomain.Confirmation, 1)}
	notifier := NewQueuedConfirmation(queue, sink)

	err := notifier.AccountVerified(context.Background(), &accountsdomain.Account{ID: 5, Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)

	select {
	case got := <-sink.sent:
		require.Equal(t, "ann@example.com", got.Email)
		require.Equal(t, "Ann", got.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation was not sent")
	}

	require.Error(t, notifier.AccountVerified(context.Background(), nil))
}
