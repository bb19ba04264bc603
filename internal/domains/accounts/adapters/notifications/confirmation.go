// Package notifications delivers account lifecycle notices in the background.
package notifications

import (
	"context"
	"errors"
	"fmt"

	accountsdomain "github.com/Apurer/storefront-api/internal/domains/accounts/domain"
	accountsports "github.com/Apurer/storefront-api/internal/domains/accounts/ports"
	notificationsdomain "github.com/Apurer/storefront-api/internal/domains/notifications/domain"
	notificationsports "github.com/Apurer/storefront-api/internal/domains/notifications/ports"
	"github.com/Apurer/storefront-api/internal/platform/taskqueue"
)

var _ accountsports.VerificationNotifier = (*QueuedConfirmation)(nil)

// QueuedConfirmation mails the approval notice from the task queue.
type QueuedConfirmation struct {
	queue    *taskqueue.Queue
	notifier notificationsports.Notifier
}

func NewQueuedConfirmation(queue *taskqueue.Queue, notifier notificationsports.Notifier) *QueuedConfirmation {
	return &QueuedConfirmation{queue: queue, notifier: notifier}
}

func (c *QueuedConfirmation) AccountVerified(_ context.Context, account *accountsdomain.Account) error {
	if c == nil || c.queue == nil || c.notifier == nil {
		return errors.New("confirmation notifier not configured")
	}
	if account == nil {
		return errors.New("account is nil")
	}
	confirmation := notificationsdomain.Confirmation{Name: account.Name, Email: account.Email}
	return c.queue.Submit(taskqueue.Task{
		Name: fmt.Sprintf("account-confirmation-%d", account.ID),
		Run: func(ctx context.Context) error {
			return c.notifier.SendAccountConfirmation(ctx, confirmation)
		},
	})
}
